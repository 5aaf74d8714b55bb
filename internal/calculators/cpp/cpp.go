// Package cppcalc implements cerebral perfusion pressure.
package cppcalc

import (
	"fmt"
	"math"

	"github.com/alexisbeaulieu97/nobra/internal/domain/score"
	"github.com/alexisbeaulieu97/nobra/internal/plugin"
)

// ID is the catalog identifier of cerebral perfusion pressure.
const ID score.ID = "cerebral_perfusion_pressure"

// Params are the two pressures in mmHg.
type Params struct {
	MeanArterialPressure float64 `json:"mean_arterial_pressure" validate:"gte=30,lte=200"`
	IntracranialPressure float64 `json:"intracranial_pressure" validate:"gte=0,lte=80"`
}

type tier struct {
	below  float64
	stage  string
	desc   string
	advice string
}

// Tiers are half-open: a CPP of exactly 60 is Optimal.
var tiers = []tier{
	{30, "Critical", "Critically low cerebral perfusion", "Immediate intervention to raise MAP and/or lower ICP is required."},
	{50, "Severely Low", "High risk of cerebral ischemia", "Urgent optimization of cerebral perfusion is needed."},
	{60, "Low", "Below optimal range", "Consider interventions to improve cerebral perfusion."},
	{80, "Optimal", "Target range for cerebral perfusion", "Maintain current management."},
	{100, "Adequate", "Adequate cerebral perfusion", "Monitor for complications of elevated pressures."},
}

var high = tier{stage: "High", desc: "Elevated cerebral perfusion pressure", advice: "Balance perfusion with pressure management."}

var metadata = score.Metadata{
	ID:          ID,
	Title:       "Cerebral Perfusion Pressure",
	Description: "Net pressure gradient driving cerebral blood flow, from mean arterial and intracranial pressure.",
	Category:    "neurology",
	Version:     "1.0.0",
	Parameters: []score.ParameterSpec{
		{Name: "mean_arterial_pressure", Type: score.TypeNumber, Required: true, Description: "Mean arterial pressure", Unit: "mmHg", Min: score.Float(30), Max: score.Float(200)},
		{Name: "intracranial_pressure", Type: score.TypeNumber, Required: true, Description: "Intracranial pressure", Unit: "mmHg", Min: score.Float(0), Max: score.Float(80)},
	},
	ResultUnit: "mmHg",
	Formula:    "CPP = MAP - ICP",
	References: []string{
		"Carney N, Totten AM, O'Reilly C, et al. Guidelines for the management of severe traumatic brain injury, fourth edition. Neurosurgery. 2017;80(1):6-15.",
	},
	Example: score.Parameters{
		"mean_arterial_pressure": 90,
		"intracranial_pressure":  15,
	},
}

func init() {
	plugin.MustRegister(ID, plugin.Factory(metadata, Calculate))
}

// Calculate returns MAP - ICP with its clinical tier.
func Calculate(p Params) (score.Result, error) {
	if p.IntracranialPressure >= p.MeanArterialPressure {
		return nil, plugin.NewValueError("intracranial_pressure", "intracranial_pressure must be lower than mean_arterial_pressure")
	}

	cpp := math.Round((p.MeanArterialPressure-p.IntracranialPressure)*10) / 10
	t := high
	for _, candidate := range tiers {
		if cpp < candidate.below {
			t = candidate
			break
		}
	}

	interpretation := fmt.Sprintf("CPP %.1f mmHg: %s. %s", cpp, t.desc, t.advice)
	return score.NewResult(cpp, "mmHg", interpretation, t.stage, t.desc), nil
}
