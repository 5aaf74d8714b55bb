// Package chads2calc implements the CHADS2 stroke risk score for atrial
// fibrillation.
package chads2calc

import (
	"fmt"

	"github.com/alexisbeaulieu97/nobra/internal/domain/score"
	"github.com/alexisbeaulieu97/nobra/internal/plugin"
)

// ID is the catalog identifier of CHADS2.
const ID score.ID = "chads2_score"

// Params are the five CHADS2 criteria, each "yes" or "no".
type Params struct {
	CongestiveHeartFailure   string `json:"congestive_heart_failure" validate:"yesno"`
	Hypertension             string `json:"hypertension" validate:"yesno"`
	Age75OrOlder             string `json:"age_75_or_older" validate:"yesno"`
	DiabetesMellitus         string `json:"diabetes_mellitus" validate:"yesno"`
	StrokeTIAThromboembolism string `json:"stroke_tia_thromboembolism" validate:"yesno"`
}

type riskRow struct {
	rate           float64
	ci             string
	category       string
	recommendation string
}

// Annual stroke rates from the National Registry of Atrial Fibrillation,
// indexed by score.
var riskTable = [...]riskRow{
	{1.9, "1.2-3.0", "Low", "Consider further risk stratification with CHA2DS2-VASc; aspirin or observation based on bleeding risk."},
	{2.8, "2.0-3.8", "Low-Intermediate", "Consider CHA2DS2-VASc or anticoagulation based on bleeding risk assessment."},
	{4.0, "3.1-5.1", "Intermediate", "Anticoagulation generally recommended unless contraindicated."},
	{5.9, "4.6-7.3", "High", "Strong recommendation for anticoagulation with warfarin or a DOAC."},
	{8.5, "6.3-11.1", "High", "Strong recommendation for anticoagulation with warfarin or a DOAC."},
	{12.5, "8.2-17.5", "Very High", "Strong recommendation for anticoagulation with warfarin or a DOAC."},
	{18.2, "10.5-27.4", "Very High", "Strong recommendation for anticoagulation with warfarin or a DOAC."},
}

var metadata = score.Metadata{
	ID:          ID,
	Title:       "CHADS2 Score for Atrial Fibrillation Stroke Risk",
	Description: "Estimates annual stroke risk in atrial fibrillation to guide anticoagulation.",
	Category:    "cardiology",
	Version:     "1.0.0",
	Parameters: []score.ParameterSpec{
		{Name: "congestive_heart_failure", Type: score.TypeString, Required: true, Description: "History of congestive heart failure or LV dysfunction", Options: []string{"yes", "no"}},
		{Name: "hypertension", Type: score.TypeString, Required: true, Description: "History of hypertension or current treatment", Options: []string{"yes", "no"}},
		{Name: "age_75_or_older", Type: score.TypeString, Required: true, Description: "Age 75 years or older", Options: []string{"yes", "no"}},
		{Name: "diabetes_mellitus", Type: score.TypeString, Required: true, Description: "History of diabetes or current treatment", Options: []string{"yes", "no"}},
		{Name: "stroke_tia_thromboembolism", Type: score.TypeString, Required: true, Description: "Prior stroke, TIA or thromboembolism (2 points)", Options: []string{"yes", "no"}},
	},
	ResultUnit: "points",
	Formula:    "C + H + A + D + 2 x S2",
	References: []string{
		"Gage BF, Waterman AD, Shannon W, et al. Validation of clinical classification schemes for predicting stroke. JAMA. 2001;285(22):2864-70.",
	},
	Notes: []string{"Largely superseded by CHA2DS2-VASc."},
	Example: score.Parameters{
		"congestive_heart_failure":   "no",
		"hypertension":               "yes",
		"age_75_or_older":            "yes",
		"diabetes_mellitus":          "no",
		"stroke_tia_thromboembolism": "no",
	},
}

func init() {
	plugin.MustRegister(ID, plugin.Factory(metadata, Calculate))
}

// Score returns the CHADS2 total (0-6).
func Score(p Params) int {
	total := 0
	for _, v := range []string{p.CongestiveHeartFailure, p.Hypertension, p.Age75OrOlder, p.DiabetesMellitus} {
		if v == "yes" {
			total++
		}
	}
	if p.StrokeTIAThromboembolism == "yes" {
		total += 2
	}
	return total
}

// Calculate scores p and looks up the annual stroke rate.
func Calculate(p Params) (score.Result, error) {
	total := Score(p)
	if total >= len(riskTable) {
		return nil, fmt.Errorf("%w: chads2 total %d outside table", plugin.ErrInternal, total)
	}
	row := riskTable[total]

	interpretation := fmt.Sprintf("CHADS2 Score %d: %s stroke risk (%.1f%% per year, 95%% CI: %s%%). %s",
		total, row.category, row.rate, row.ci, row.recommendation)
	return score.NewResult(total, "points", interpretation, row.category+" Risk", row.category+" annual stroke risk").
		With("annual_stroke_risk_percent", row.rate).
		With("stroke_risk_range", row.ci), nil
}
