package roxcalc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexisbeaulieu97/nobra/internal/domain/score"
	"github.com/alexisbeaulieu97/nobra/internal/plugin"
)

func TestCalculate(t *testing.T) {
	tests := []struct {
		name   string
		params Params
		value  float64
		stage  string
	}{
		{name: "example", params: Params{SpO2: 92, FiO2: 0.6, RespiratoryRate: 24}, value: 6.39, stage: "Lower Risk for Intubation"},
		{name: "indeterminate", params: Params{SpO2: 90, FiO2: 0.7, RespiratoryRate: 30}, value: 4.29, stage: "Indeterminate Risk"},
		{name: "high risk", params: Params{SpO2: 88, FiO2: 1.0, RespiratoryRate: 35}, value: 2.51, stage: "High Risk for HFNC Failure"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := Calculate(tt.params)
			require.NoError(t, err)
			require.NoError(t, result.Validate())
			assert.InDelta(t, tt.value, result[score.KeyResult], 1e-9)
			assert.Equal(t, tt.stage, result[score.KeyStage])
		})
	}
}

func TestCalculatorRejectsFiO2AboveOne(t *testing.T) {
	calc := plugin.Func(metadata, Calculate)
	params := metadata.Example.Clone()
	params["fio2"] = 60

	_, err := calc.Calculate(t.Context(), params)
	valueErr, ok := plugin.AsValueError(err)
	require.True(t, ok)
	assert.Equal(t, "fio2", valueErr.Field)
}
