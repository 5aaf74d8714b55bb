// Package lacecalc implements the LACE index for 30-day readmission or death
// after hospital discharge.
package lacecalc

import (
	"fmt"

	"github.com/alexisbeaulieu97/nobra/internal/domain/score"
	"github.com/alexisbeaulieu97/nobra/internal/plugin"
)

// ID is the catalog identifier of the LACE index.
const ID score.ID = "lace_index_readmission"

// Params are the four LACE components.
type Params struct {
	LengthOfStayDays         int    `json:"length_of_stay_days" validate:"gte=0,lte=365"`
	AcuteEmergentAdmission   string `json:"acute_emergent_admission" validate:"yesno"`
	CharlsonComorbidityIndex int    `json:"charlson_comorbidity_index" validate:"gte=0,lte=37"`
	EDVisits6Months          int    `json:"ed_visits_6_months" validate:"gte=0,lte=20"`
}

// Components holds the points each letter of LACE contributed.
type Components struct {
	L int `json:"length_of_stay_points"`
	A int `json:"acuity_points"`
	C int `json:"comorbidity_points"`
	E int `json:"ed_visit_points"`
}

// Total sums the components.
func (c Components) Total() int {
	return c.L + c.A + c.C + c.E
}

var metadata = score.Metadata{
	ID:          ID,
	Title:       "LACE Index for Readmission",
	Description: "Predicts 30-day readmission or death after discharge from length of stay, acuity, comorbidity and emergency visits.",
	Category:    "emergency",
	Version:     "1.0.0",
	Parameters: []score.ParameterSpec{
		{Name: "length_of_stay_days", Type: score.TypeInteger, Required: true, Description: "Length of the index hospital stay", Unit: "days", Min: score.Float(0), Max: score.Float(365)},
		{Name: "acute_emergent_admission", Type: score.TypeString, Required: true, Description: "Admission was acute or emergent", Options: []string{"yes", "no"}},
		{Name: "charlson_comorbidity_index", Type: score.TypeInteger, Required: true, Description: "Charlson comorbidity index", Unit: "points", Min: score.Float(0), Max: score.Float(37)},
		{Name: "ed_visits_6_months", Type: score.TypeInteger, Required: true, Description: "Emergency department visits in the previous six months", Unit: "visits", Min: score.Float(0), Max: score.Float(20)},
	},
	ResultUnit: "points",
	Formula:    "L + A + C + E",
	References: []string{
		"van Walraven C, Dhalla IA, Bell C, et al. Derivation and validation of an index to predict early death or unplanned readmission after discharge from hospital to the community. CMAJ. 2010;182(6):551-7.",
	},
	Notes: []string{"Validated for adults 18 years and older."},
	Example: score.Parameters{
		"length_of_stay_days":        5,
		"acute_emergent_admission":   "yes",
		"charlson_comorbidity_index": 2,
		"ed_visits_6_months":         1,
	},
}

func init() {
	plugin.MustRegister(ID, plugin.Factory(metadata, Calculate))
}

// Score computes the LACE components.
func Score(p Params) Components {
	c := Components{
		L: lengthOfStayPoints(p.LengthOfStayDays),
		C: p.CharlsonComorbidityIndex,
		E: p.EDVisits6Months,
	}
	if p.AcuteEmergentAdmission == "yes" {
		c.A = 3
	}
	if c.C >= 4 {
		c.C = 5
	}
	if c.E > 4 {
		c.E = 4
	}
	return c
}

func lengthOfStayPoints(days int) int {
	switch {
	case days < 1:
		return 0
	case days <= 3:
		return days
	case days <= 6:
		return 4
	case days <= 13:
		return 5
	default:
		return 7
	}
}

// Calculate scores p and stratifies the readmission risk.
func Calculate(p Params) (score.Result, error) {
	c := Score(p)
	total := c.Total()

	var stage, desc, advice string
	switch {
	case total <= 4:
		stage, desc = "Low Risk", "Low risk of 30-day readmission or death"
		advice = "Standard discharge planning and routine follow-up within 1-2 weeks are appropriate."
	case total <= 9:
		stage, desc = "Moderate Risk", "Moderate risk of 30-day readmission or death"
		advice = "Enhanced discharge planning with follow-up within 7-14 days is recommended."
	default:
		stage, desc = "High Risk", "High risk of 30-day readmission or death"
		advice = "Intensive discharge planning and follow-up within 48-72 hours are strongly recommended."
	}

	interpretation := fmt.Sprintf("LACE Index = %d points (L:%d + A:%d + C:%d + E:%d). %s",
		total, c.L, c.A, c.C, c.E, advice)

	return score.NewResult(total, "points", interpretation, stage, desc).
		With("component_scores", c), nil
}
