package childpughcalc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexisbeaulieu97/nobra/internal/domain/score"
	"github.com/alexisbeaulieu97/nobra/internal/plugin"
)

func TestScoreThresholds(t *testing.T) {
	pts := Score(Params{TotalBilirubin: 1.9, SerumAlbumin: 3.6, INR: 1.6, Ascites: "absent", Encephalopathy: "none"})
	assert.Equal(t, Points{1, 1, 1, 1, 1}, pts)

	pts = Score(Params{TotalBilirubin: 3.0, SerumAlbumin: 2.8, INR: 2.3, Ascites: "slight", Encephalopathy: "grade_1_2"})
	assert.Equal(t, Points{2, 2, 2, 2, 2}, pts)

	pts = Score(Params{TotalBilirubin: 3.1, SerumAlbumin: 2.7, INR: 2.4, Ascites: "moderate", Encephalopathy: "grade_3_4"})
	assert.Equal(t, 15, pts.Total())
}

func TestGrade(t *testing.T) {
	assert.Equal(t, "A", Grade(5))
	assert.Equal(t, "A", Grade(6))
	assert.Equal(t, "B", Grade(7))
	assert.Equal(t, "B", Grade(9))
	assert.Equal(t, "C", Grade(10))
}

func TestCalculateExample(t *testing.T) {
	result, err := Calculate(Params{TotalBilirubin: 2.5, SerumAlbumin: 3.0, INR: 1.8, Ascites: "slight", Encephalopathy: "none"})
	require.NoError(t, err)
	require.NoError(t, result.Validate())
	assert.Equal(t, 9, result[score.KeyResult])
	assert.Equal(t, "Child-Pugh B", result[score.KeyStage])
	assert.Equal(t, "B", result["grade"])
}

func TestCalculatorRejectsUnknownAscites(t *testing.T) {
	calc := plugin.Func(metadata, Calculate)
	params := metadata.Example.Clone()
	params["ascites"] = "massive"

	_, err := calc.Calculate(t.Context(), params)
	valueErr, ok := plugin.AsValueError(err)
	require.True(t, ok)
	assert.Contains(t, valueErr.Message, "absent, slight, moderate")
}
