// Package childpughcalc implements the Child-Pugh score for cirrhosis
// severity.
package childpughcalc

import (
	"fmt"

	"github.com/alexisbeaulieu97/nobra/internal/domain/score"
	"github.com/alexisbeaulieu97/nobra/internal/plugin"
)

// ID is the catalog identifier of the Child-Pugh score.
const ID score.ID = "child_pugh_score"

// Params are the five Child-Pugh criteria.
type Params struct {
	TotalBilirubin float64 `json:"total_bilirubin" validate:"gte=0.1,lte=50"`
	SerumAlbumin   float64 `json:"serum_albumin" validate:"gte=1,lte=5"`
	INR            float64 `json:"inr" validate:"gte=0.8,lte=10"`
	Ascites        string  `json:"ascites" validate:"oneof=absent slight moderate"`
	Encephalopathy string  `json:"encephalopathy" validate:"oneof=none grade_1_2 grade_3_4"`
}

// Points holds each criterion's contribution (1-3).
type Points struct {
	Bilirubin      int `json:"bilirubin_points"`
	Albumin        int `json:"albumin_points"`
	INR            int `json:"inr_points"`
	Ascites        int `json:"ascites_points"`
	Encephalopathy int `json:"encephalopathy_points"`
}

// Total sums the points (5-15).
func (p Points) Total() int {
	return p.Bilirubin + p.Albumin + p.INR + p.Ascites + p.Encephalopathy
}

var grades = map[string]struct {
	desc      string
	oneYear   int
	twoYear   int
	operative string
}{
	"A": {"Well-compensated disease", 100, 85, "Suitable for major surgery and liver resection."},
	"B": {"Significant functional compromise", 80, 60, "Consider surgery with caution; may need transplant evaluation."},
	"C": {"Decompensated disease", 45, 35, "High surgical mortality; priority for liver transplantation."},
}

var levels = map[string]int{
	"absent": 1, "slight": 2, "moderate": 3,
	"none": 1, "grade_1_2": 2, "grade_3_4": 3,
}

var metadata = score.Metadata{
	ID:          ID,
	Title:       "Child-Pugh Score for Cirrhosis Mortality",
	Description: "Estimates cirrhosis severity and prognosis in chronic liver disease.",
	Category:    "hepatology",
	Version:     "1.0.0",
	Parameters: []score.ParameterSpec{
		{Name: "total_bilirubin", Type: score.TypeNumber, Required: true, Description: "Total bilirubin", Unit: "mg/dL", Min: score.Float(0.1), Max: score.Float(50)},
		{Name: "serum_albumin", Type: score.TypeNumber, Required: true, Description: "Serum albumin", Unit: "g/dL", Min: score.Float(1), Max: score.Float(5)},
		{Name: "inr", Type: score.TypeNumber, Required: true, Description: "International normalized ratio", Min: score.Float(0.8), Max: score.Float(10)},
		{Name: "ascites", Type: score.TypeString, Required: true, Description: "Degree of ascites", Options: []string{"absent", "slight", "moderate"}},
		{Name: "encephalopathy", Type: score.TypeString, Required: true, Description: "Hepatic encephalopathy grade", Options: []string{"none", "grade_1_2", "grade_3_4"}},
	},
	ResultUnit: "points",
	Formula:    "Sum of bilirubin, albumin, INR, ascites and encephalopathy points; A 5-6, B 7-9, C 10-15",
	References: []string{
		"Pugh RN, Murray-Lyon IM, Dawson JL, et al. Transection of the oesophagus for bleeding oesophageal varices. Br J Surg. 1973;60(8):646-9.",
		"Durand F, Valla D. Assessment of prognosis of cirrhosis. Semin Liver Dis. 2008;28(1):110-22.",
	},
	Example: score.Parameters{
		"total_bilirubin": 2.5,
		"serum_albumin":   3.0,
		"inr":             1.8,
		"ascites":         "slight",
		"encephalopathy":  "none",
	},
}

func init() {
	plugin.MustRegister(ID, plugin.Factory(metadata, Calculate))
}

// Score assigns points to each criterion.
func Score(p Params) Points {
	pts := Points{
		Bilirubin:      3,
		Albumin:        3,
		INR:            3,
		Ascites:        levels[p.Ascites],
		Encephalopathy: levels[p.Encephalopathy],
	}

	switch {
	case p.TotalBilirubin < 2:
		pts.Bilirubin = 1
	case p.TotalBilirubin <= 3:
		pts.Bilirubin = 2
	}
	switch {
	case p.SerumAlbumin > 3.5:
		pts.Albumin = 1
	case p.SerumAlbumin >= 2.8:
		pts.Albumin = 2
	}
	switch {
	case p.INR < 1.7:
		pts.INR = 1
	case p.INR <= 2.3:
		pts.INR = 2
	}
	return pts
}

// Grade maps a total onto class A, B or C.
func Grade(total int) string {
	switch {
	case total <= 6:
		return "A"
	case total <= 9:
		return "B"
	default:
		return "C"
	}
}

// Calculate scores p and reports the Child-Pugh class.
func Calculate(p Params) (score.Result, error) {
	pts := Score(p)
	if pts.Ascites == 0 || pts.Encephalopathy == 0 {
		return nil, fmt.Errorf("%w: unscored category in %+v", plugin.ErrInternal, p)
	}
	total := pts.Total()
	grade := Grade(total)
	g := grades[grade]

	interpretation := fmt.Sprintf("Child-Pugh Class %s (Score %d): %s. One-year survival ~%d%%, two-year survival ~%d%%. %s",
		grade, total, g.desc, g.oneYear, g.twoYear, g.operative)
	return score.NewResult(total, "points", interpretation, "Child-Pugh "+grade, g.desc).
		With("grade", grade).
		With("component_scores", pts), nil
}
