// Package winterscalc implements Winters' formula for the expected pCO2 in
// metabolic acidosis.
package winterscalc

import (
	"fmt"
	"math"

	"github.com/alexisbeaulieu97/nobra/internal/domain/score"
	"github.com/alexisbeaulieu97/nobra/internal/plugin"
)

// ID is the catalog identifier of Winters' formula.
const ID score.ID = "winters_formula_metabolic_acidosis"

// Tolerance is the accepted deviation from the expected pCO2, in mmHg.
const Tolerance = 2.0

// Params carry the serum bicarbonate and, optionally, a measured pCO2 to
// compare against the expected value.
type Params struct {
	Bicarbonate  float64  `json:"bicarbonate" validate:"gte=5,lte=35"`
	MeasuredPCO2 *float64 `json:"measured_pco2,omitempty" validate:"omitempty,gte=10,lte=80"`
}

var metadata = score.Metadata{
	ID:          ID,
	Title:       "Winters' Formula for Metabolic Acidosis Compensation",
	Description: "Calculates the expected arterial pCO2 in metabolic acidosis and assesses respiratory compensation.",
	Category:    "nephrology",
	Version:     "1.0.0",
	Parameters: []score.ParameterSpec{
		{Name: "bicarbonate", Type: score.TypeNumber, Required: true, Description: "Serum bicarbonate", Unit: "mEq/L", Min: score.Float(5), Max: score.Float(35)},
		{Name: "measured_pco2", Type: score.TypeNumber, Required: false, Description: "Measured arterial pCO2", Unit: "mmHg", Min: score.Float(10), Max: score.Float(80)},
	},
	ResultUnit: "mmHg",
	Formula:    "Expected pCO2 = 1.5 x HCO3 + 8 (± 2)",
	References: []string{
		"Albert MS, Dell RB, Winters RW. Quantitative displacement of acid-base equilibrium in metabolic acidosis. Ann Intern Med. 1967;66(2):312-22.",
	},
	Notes: []string{"Applies to primary metabolic acidosis only."},
	Example: score.Parameters{
		"bicarbonate":   12,
		"measured_pco2": 26,
	},
}

func init() {
	plugin.MustRegister(ID, plugin.Factory(metadata, Calculate))
}

// Expected returns 1.5 x HCO3 + 8.
func Expected(bicarbonate float64) float64 {
	return 1.5*bicarbonate + 8
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// Calculate computes the expected pCO2 and, when a measurement is supplied,
// classifies the compensation.
func Calculate(p Params) (score.Result, error) {
	expected := Expected(p.Bicarbonate)
	lower, upper := expected-Tolerance, expected+Tolerance

	var stage, desc, interpretation string
	status := "not_assessed"
	switch {
	case p.MeasuredPCO2 == nil:
		stage, desc = "Expected Compensation", "Calculated expected respiratory compensation"
		interpretation = fmt.Sprintf("For a serum bicarbonate of %g mEq/L the expected arterial pCO2 is %.1f mmHg (range %.1f-%.1f mmHg). Obtain an arterial blood gas to assess compensation.",
			p.Bicarbonate, expected, lower, upper)
	case *p.MeasuredPCO2-expected < -Tolerance:
		status = "overcompensation"
		stage, desc = "Overcompensation", "Respiratory overcompensation"
		interpretation = fmt.Sprintf("Measured pCO2 (%g mmHg) is %.1f mmHg below the expected %.1f mmHg, suggesting a concurrent respiratory alkalosis.",
			*p.MeasuredPCO2, expected-*p.MeasuredPCO2, expected)
	case *p.MeasuredPCO2-expected > Tolerance:
		status = "undercompensation"
		stage, desc = "Undercompensation", "Inadequate respiratory compensation"
		interpretation = fmt.Sprintf("Measured pCO2 (%g mmHg) is %.1f mmHg above the expected %.1f mmHg, suggesting a concurrent respiratory acidosis.",
			*p.MeasuredPCO2, *p.MeasuredPCO2-expected, expected)
	default:
		status = "appropriate"
		stage, desc = "Appropriate Compensation", "Expected respiratory compensation"
		interpretation = fmt.Sprintf("Measured pCO2 (%g mmHg) is within the expected range (%.1f-%.1f mmHg), indicating appropriate respiratory compensation.",
			*p.MeasuredPCO2, lower, upper)
	}

	return score.NewResult(round1(expected), "mmHg", interpretation, stage, desc).
		With("expected_range", map[string]float64{"lower": round1(lower), "upper": round1(upper)}).
		With("compensation_status", status), nil
}
