// Package remscalc implements the Rapid Emergency Medicine Score.
package remscalc

import (
	"fmt"

	"github.com/alexisbeaulieu97/nobra/internal/domain/score"
	"github.com/alexisbeaulieu97/nobra/internal/plugin"
)

// ID is the catalog identifier of REMS.
const ID score.ID = "rems_score"

// Params are the seven REMS variables.
type Params struct {
	Age                  int     `json:"age" validate:"gte=0,lte=120"`
	BodyTemperature      float64 `json:"body_temperature" validate:"gte=25,lte=45"`
	MeanArterialPressure int     `json:"mean_arterial_pressure" validate:"gte=20,lte=250"`
	HeartRate            int     `json:"heart_rate" validate:"gte=20,lte=250"`
	RespiratoryRate      int     `json:"respiratory_rate" validate:"gte=1,lte=80"`
	OxygenSaturation     int     `json:"oxygen_saturation" validate:"gte=50,lte=100"`
	GlasgowComaScale     int     `json:"glasgow_coma_scale" validate:"gte=3,lte=15"`
}

// Components are the per-variable points.
type Components struct {
	Age              int `json:"age_score"`
	Temperature      int `json:"temperature_score"`
	MAP              int `json:"map_score"`
	HeartRate        int `json:"heart_rate_score"`
	RespiratoryRate  int `json:"respiratory_rate_score"`
	OxygenSaturation int `json:"oxygen_saturation_score"`
	GCS              int `json:"glasgow_coma_scale_score"`
}

// Total sums the components.
func (c Components) Total() int {
	return c.Age + c.Temperature + c.MAP + c.HeartRate + c.RespiratoryRate + c.OxygenSaturation + c.GCS
}

var metadata = score.Metadata{
	ID:          ID,
	Title:       "Rapid Emergency Medicine Score (REMS)",
	Description: "Predicts in-hospital mortality of emergency department patients from six physiological variables and age.",
	Category:    "emergency",
	Version:     "1.0.0",
	Parameters: []score.ParameterSpec{
		{Name: "age", Type: score.TypeInteger, Required: true, Description: "Patient age", Unit: "years", Min: score.Float(0), Max: score.Float(120)},
		{Name: "body_temperature", Type: score.TypeNumber, Required: true, Description: "Core body temperature", Unit: "°C", Min: score.Float(25), Max: score.Float(45)},
		{Name: "mean_arterial_pressure", Type: score.TypeInteger, Required: true, Description: "Mean arterial pressure", Unit: "mmHg", Min: score.Float(20), Max: score.Float(250)},
		{Name: "heart_rate", Type: score.TypeInteger, Required: true, Description: "Heart rate", Unit: "bpm", Min: score.Float(20), Max: score.Float(250)},
		{Name: "respiratory_rate", Type: score.TypeInteger, Required: true, Description: "Respiratory rate", Unit: "breaths/min", Min: score.Float(1), Max: score.Float(80)},
		{Name: "oxygen_saturation", Type: score.TypeInteger, Required: true, Description: "Peripheral oxygen saturation", Unit: "%", Min: score.Float(50), Max: score.Float(100)},
		{Name: "glasgow_coma_scale", Type: score.TypeInteger, Required: true, Description: "Glasgow Coma Scale", Unit: "points", Min: score.Float(3), Max: score.Float(15)},
	},
	ResultUnit: "points",
	Formula:    "Sum of age, temperature, MAP, heart rate, respiratory rate, SpO2 and GCS points",
	References: []string{
		"Olsson T, Terent A, Lind L. Rapid Emergency Medicine score: a new prognostic tool for in-hospital mortality in nonsurgical emergency department patients. J Intern Med. 2004;255(5):579-587.",
		"Goodacre S, Turner J, Nicholl J. Prediction of mortality among emergency medical admissions. Emerg Med J. 2006;23(5):372-375.",
	},
	Example: score.Parameters{
		"age":                    65,
		"body_temperature":       37.2,
		"mean_arterial_pressure": 85,
		"heart_rate":             95,
		"respiratory_rate":       18,
		"oxygen_saturation":      96,
		"glasgow_coma_scale":     15,
	},
}

func init() {
	plugin.MustRegister(ID, plugin.Factory(metadata, Calculate))
}

// Score computes the per-variable points.
func Score(p Params) Components {
	return Components{
		Age:              agePoints(p.Age),
		Temperature:      temperaturePoints(p.BodyTemperature),
		MAP:              mapPoints(p.MeanArterialPressure),
		HeartRate:        heartRatePoints(p.HeartRate),
		RespiratoryRate:  respiratoryRatePoints(p.RespiratoryRate),
		OxygenSaturation: saturationPoints(p.OxygenSaturation),
		GCS:              gcsPoints(p.GlasgowComaScale),
	}
}

func agePoints(age int) int {
	switch {
	case age < 45:
		return 0
	case age < 55:
		return 2
	case age < 65:
		return 3
	case age < 75:
		return 5
	default:
		return 6
	}
}

func temperaturePoints(t float64) int {
	switch {
	case t < 30:
		return 4
	case t < 32:
		return 3
	case t < 34:
		return 2
	case t < 36:
		return 1
	case t <= 38.4:
		return 0
	case t < 38.9:
		return 1
	case t <= 40.9:
		return 3
	default:
		return 4
	}
}

func mapPoints(m int) int {
	switch {
	case m < 50:
		return 2
	case m < 70:
		return 1
	case m <= 109:
		return 0
	case m < 130:
		return 2
	case m < 160:
		return 3
	default:
		return 4
	}
}

func heartRatePoints(hr int) int {
	switch {
	case hr < 40:
		return 3
	case hr < 55:
		return 2
	case hr < 70:
		return 1
	case hr <= 109:
		return 0
	case hr < 140:
		return 2
	case hr < 180:
		return 3
	default:
		return 4
	}
}

func respiratoryRatePoints(rr int) int {
	switch {
	case rr < 6:
		return 3
	case rr < 10:
		return 2
	case rr < 12:
		return 1
	case rr <= 24:
		return 0
	case rr < 35:
		return 2
	case rr <= 49:
		return 3
	default:
		return 4
	}
}

func saturationPoints(spo2 int) int {
	switch {
	case spo2 < 75:
		return 4
	case spo2 <= 85:
		return 3
	case spo2 <= 89:
		return 2
	default:
		return 0
	}
}

func gcsPoints(gcs int) int {
	switch {
	case gcs < 5:
		return 4
	case gcs <= 7:
		return 3
	case gcs <= 10:
		return 2
	case gcs <= 13:
		return 1
	default:
		return 0
	}
}

type band struct {
	max       int
	stage     string
	desc      string
	mortality string
	advice    string
}

var bands = []band{
	{2, "Very Low Risk", "Very low mortality risk", "0.3%", "Standard care and monitoring appropriate."},
	{5, "Low Risk", "Low mortality risk", "2%", "Close monitoring recommended."},
	{9, "Moderate Risk", "Moderate mortality risk", "6.7%", "Enhanced monitoring and prompt intervention indicated."},
	{11, "High Risk", "High mortality risk", "20.3%", "Intensive monitoring and aggressive intervention required."},
	{21, "Very High Risk", "Very high mortality risk", ">20%", "Critical care management and intensive intervention required."},
}

var extreme = band{stage: "Extremely High Risk", desc: "Extremely high mortality risk", mortality: "approaching 100%", advice: "Palliative care considerations may be appropriate."}

// Calculate scores p and maps the total onto a mortality band.
func Calculate(p Params) (score.Result, error) {
	c := Score(p)
	total := c.Total()

	b := extreme
	for _, candidate := range bands {
		if total <= candidate.max {
			b = candidate
			break
		}
	}

	interpretation := fmt.Sprintf("REMS Score: %d points. %s (in-hospital mortality %s). %s",
		total, b.desc, b.mortality, b.advice)
	return score.NewResult(total, "points", interpretation, b.stage, b.desc).
		With("component_scores", c), nil
}
