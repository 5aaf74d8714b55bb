// Package ldlcalc implements the Friedewald estimate of LDL cholesterol.
package ldlcalc

import (
	"fmt"
	"math"
	"strings"

	"github.com/alexisbeaulieu97/nobra/internal/domain/score"
	"github.com/alexisbeaulieu97/nobra/internal/plugin"
)

// ID is the catalog identifier of the calculated LDL.
const ID score.ID = "ldl_calculated"

// Params are a fasting lipid panel in mg/dL.
type Params struct {
	TotalCholesterol float64 `json:"total_cholesterol" validate:"gte=50,lte=1000"`
	HDLCholesterol   float64 `json:"hdl_cholesterol" validate:"gte=10,lte=200"`
	Triglycerides    float64 `json:"triglycerides" validate:"gte=30,lte=5000"`
}

// Above this triglyceride level the estimate is unreliable.
const triglycerideAccuracyLimit = 400

var metadata = score.Metadata{
	ID:          ID,
	Title:       "LDL Calculated (Friedewald)",
	Description: "Estimates LDL cholesterol from total cholesterol, HDL and triglycerides.",
	Category:    "cardiology",
	Version:     "1.0.0",
	Parameters: []score.ParameterSpec{
		{Name: "total_cholesterol", Type: score.TypeNumber, Required: true, Description: "Total cholesterol", Unit: "mg/dL", Min: score.Float(50), Max: score.Float(1000)},
		{Name: "hdl_cholesterol", Type: score.TypeNumber, Required: true, Description: "HDL cholesterol", Unit: "mg/dL", Min: score.Float(10), Max: score.Float(200)},
		{Name: "triglycerides", Type: score.TypeNumber, Required: true, Description: "Fasting triglycerides", Unit: "mg/dL", Min: score.Float(30), Max: score.Float(5000)},
	},
	ResultUnit: "mg/dL",
	Formula:    "LDL = TC - HDL - TG/5",
	References: []string{
		"Friedewald WT, Levy RI, Fredrickson DS. Estimation of the concentration of low-density lipoprotein cholesterol in plasma. Clin Chem. 1972;18(6):499-502.",
	},
	Notes: []string{"Requires fasting triglycerides; inaccurate above 400 mg/dL."},
	Example: score.Parameters{
		"total_cholesterol": 200,
		"hdl_cholesterol":   50,
		"triglycerides":     150,
	},
}

func init() {
	plugin.MustRegister(ID, plugin.Factory(metadata, Calculate))
}

// Friedewald returns TC - HDL - TG/5 rounded to one decimal.
func Friedewald(p Params) float64 {
	return math.Round((p.TotalCholesterol-p.HDLCholesterol-p.Triglycerides/5)*10) / 10
}

type level struct {
	below float64
	stage string
	desc  string
}

var levels = []level{
	{100, "Optimal", "Optimal LDL cholesterol"},
	{130, "Near Optimal", "Near optimal/above optimal LDL cholesterol"},
	{160, "Borderline High", "Borderline high LDL cholesterol"},
	{190, "High", "High LDL cholesterol"},
}

// Calculate estimates LDL and classifies it.
func Calculate(p Params) (score.Result, error) {
	if p.HDLCholesterol >= p.TotalCholesterol {
		return nil, plugin.NewValueError("hdl_cholesterol", "hdl_cholesterol must be lower than total_cholesterol")
	}

	ldl := Friedewald(p)
	stage, desc := "Very High", "Very high LDL cholesterol"
	for _, l := range levels {
		if ldl < l.below {
			stage, desc = l.stage, l.desc
			break
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Calculated LDL cholesterol: %g mg/dL (TC %g - HDL %g - TG/5 [%g/5]). LDL level is %s.",
		ldl, p.TotalCholesterol, p.HDLCholesterol, p.Triglycerides, strings.ToLower(stage))

	accuracy := "High"
	switch {
	case p.Triglycerides > triglycerideAccuracyLimit:
		accuracy = "Poor"
		b.WriteString(" Triglycerides >400 mg/dL make the formula inaccurate; direct LDL measurement recommended.")
	case p.Triglycerides > 200 && ldl < 70:
		accuracy = "Moderate"
		b.WriteString(" May underestimate LDL at triglycerides >200 mg/dL and LDL <70 mg/dL.")
	case p.Triglycerides > 200 && ldl > 130:
		accuracy = "Moderate"
		b.WriteString(" May overestimate LDL at triglycerides >200 mg/dL and LDL >130 mg/dL.")
	case p.Triglycerides < 100:
		accuracy = "Moderate"
		b.WriteString(" May underestimate LDL when triglycerides <100 mg/dL.")
	}

	return score.NewResult(ldl, "mg/dL", b.String(), stage, desc).
		With("formula_accuracy", accuracy), nil
}
