// Package roxcalc implements the ROX index for high-flow nasal cannula
// failure.
package roxcalc

import (
	"fmt"
	"math"

	"github.com/alexisbeaulieu97/nobra/internal/domain/score"
	"github.com/alexisbeaulieu97/nobra/internal/plugin"
)

// ID is the catalog identifier of the ROX index.
const ID score.ID = "rox_index"

// Cutoffs validated at 12 hours of HFNC therapy.
const (
	HighRiskBelow = 3.85
	LowRiskFrom   = 4.88
)

// Params are the ROX inputs.
type Params struct {
	SpO2            int     `json:"spo2" validate:"gte=70,lte=100"`
	FiO2            float64 `json:"fio2" validate:"gte=0.21,lte=1"`
	RespiratoryRate int     `json:"respiratory_rate" validate:"gte=10,lte=50"`
}

var metadata = score.Metadata{
	ID:          ID,
	Title:       "ROX Index for Intubation after HFNC",
	Description: "Predicts high-flow nasal cannula failure and need for intubation in acute hypoxemic respiratory failure.",
	Category:    "pulmonology",
	Version:     "1.0.0",
	Parameters: []score.ParameterSpec{
		{Name: "spo2", Type: score.TypeInteger, Required: true, Description: "Peripheral oxygen saturation", Unit: "%", Min: score.Float(70), Max: score.Float(100)},
		{Name: "fio2", Type: score.TypeNumber, Required: true, Description: "Fraction of inspired oxygen", Min: score.Float(0.21), Max: score.Float(1)},
		{Name: "respiratory_rate", Type: score.TypeInteger, Required: true, Description: "Respiratory rate", Unit: "breaths/min", Min: score.Float(10), Max: score.Float(50)},
	},
	ResultUnit: "index",
	Formula:    "ROX = (SpO2 / FiO2) / respiratory rate",
	References: []string{
		"Roca O, Caralt B, Messika J, et al. An Index Combining Respiratory Rate and Oxygenation to Predict Outcome of Nasal High-Flow Therapy. Am J Respir Crit Care Med. 2019;199(11):1368-1376.",
	},
	Notes: []string{"Cutoffs are validated at 12 hours after HFNC initiation; trend serial measurements."},
	Example: score.Parameters{
		"spo2":             92,
		"fio2":             0.60,
		"respiratory_rate": 24,
	},
}

func init() {
	plugin.MustRegister(ID, plugin.Factory(metadata, Calculate))
}

// Index returns the unrounded ROX value.
func Index(p Params) float64 {
	return float64(p.SpO2) / p.FiO2 / float64(p.RespiratoryRate)
}

// Calculate computes the index rounded to two decimals and classifies it.
func Calculate(p Params) (score.Result, error) {
	rox := math.Round(Index(p)*100) / 100

	var stage, desc, advice string
	switch {
	case rox < HighRiskBelow:
		stage, desc = "High Risk for HFNC Failure", "Consider early intubation"
		advice = "Reassess HFNC settings and prepare for early intubation."
	case rox < LowRiskFrom:
		stage, desc = "Indeterminate Risk", "Close monitoring required"
		advice = "Optimize HFNC therapy and repeat the ROX index within 1-2 hours."
	default:
		stage, desc = "Lower Risk for Intubation", "Continue HFNC and wean FiO2"
		advice = "Continue current HFNC therapy and consider weaning FiO2."
	}

	interpretation := fmt.Sprintf("ROX index of %.2f. %s", rox, advice)
	return score.NewResult(rox, "index", interpretation, stage, desc), nil
}
