package remscalc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexisbeaulieu97/nobra/internal/domain/score"
	"github.com/alexisbeaulieu97/nobra/internal/plugin"
)

func TestComponentBoundaries(t *testing.T) {
	assert.Equal(t, []int{0, 2, 3, 5, 6}, []int{agePoints(44), agePoints(45), agePoints(55), agePoints(65), agePoints(75)})
	assert.Equal(t, []int{4, 3, 2, 1, 0, 1, 3, 4}, []int{
		temperaturePoints(29.9), temperaturePoints(30), temperaturePoints(32), temperaturePoints(34),
		temperaturePoints(38.4), temperaturePoints(38.5), temperaturePoints(39), temperaturePoints(41),
	})
	assert.Equal(t, []int{2, 1, 0, 2, 3, 4}, []int{mapPoints(49), mapPoints(50), mapPoints(109), mapPoints(110), mapPoints(130), mapPoints(160)})
	assert.Equal(t, []int{3, 2, 1, 0, 2, 3, 4}, []int{
		heartRatePoints(39), heartRatePoints(40), heartRatePoints(55), heartRatePoints(70),
		heartRatePoints(110), heartRatePoints(140), heartRatePoints(180),
	})
	assert.Equal(t, []int{3, 2, 1, 0, 2, 3, 4}, []int{
		respiratoryRatePoints(5), respiratoryRatePoints(6), respiratoryRatePoints(10), respiratoryRatePoints(12),
		respiratoryRatePoints(25), respiratoryRatePoints(35), respiratoryRatePoints(50),
	})
	assert.Equal(t, []int{4, 3, 2, 0}, []int{saturationPoints(74), saturationPoints(85), saturationPoints(89), saturationPoints(90)})
	assert.Equal(t, []int{4, 3, 2, 1, 0}, []int{gcsPoints(4), gcsPoints(7), gcsPoints(10), gcsPoints(13), gcsPoints(14)})
}

func TestCalculateExample(t *testing.T) {
	result, err := Calculate(Params{
		Age: 65, BodyTemperature: 37.2, MeanArterialPressure: 85, HeartRate: 95,
		RespiratoryRate: 18, OxygenSaturation: 96, GlasgowComaScale: 15,
	})
	require.NoError(t, err)
	require.NoError(t, result.Validate())
	assert.Equal(t, 5, result[score.KeyResult])
	assert.Equal(t, "Low Risk", result[score.KeyStage])
}

func TestCalculateExtreme(t *testing.T) {
	result, err := Calculate(Params{
		Age: 90, BodyTemperature: 26, MeanArterialPressure: 200, HeartRate: 200,
		RespiratoryRate: 60, OxygenSaturation: 60, GlasgowComaScale: 3,
	})
	require.NoError(t, err)
	assert.Equal(t, 30, result[score.KeyResult])
	assert.Equal(t, "Extremely High Risk", result[score.KeyStage])
}

func TestCalculatorRejectsFractionalAge(t *testing.T) {
	calc := plugin.Func(metadata, Calculate)
	params := metadata.Example.Clone()
	params["age"] = 65.5

	_, err := calc.Calculate(t.Context(), params)
	_, ok := plugin.AsBindingError(err)
	assert.True(t, ok, "got %v", err)
}

func TestCalculatorRejectsLowGCS(t *testing.T) {
	calc := plugin.Func(metadata, Calculate)
	params := metadata.Example.Clone()
	params["glasgow_coma_scale"] = 2

	_, err := calc.Calculate(t.Context(), params)
	valueErr, ok := plugin.AsValueError(err)
	require.True(t, ok)
	assert.Contains(t, valueErr.Message, "glasgow_coma_scale")
}
