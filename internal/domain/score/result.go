package score

import (
	"fmt"
	"strings"
)

// Keys every calculator result must carry.
const (
	KeyResult           = "result"
	KeyUnit             = "unit"
	KeyInterpretation   = "interpretation"
	KeyStage            = "stage"
	KeyStageDescription = "stage_description"
)

// RequiredResultKeys lists the keys in the order they are reported when missing.
var RequiredResultKeys = []string{
	KeyResult,
	KeyUnit,
	KeyInterpretation,
	KeyStage,
	KeyStageDescription,
}

// Parameters is the caller-supplied mapping from parameter name to value.
// The registry never retains it after a call returns.
type Parameters map[string]any

// Clone returns a shallow copy of the mapping.
func (p Parameters) Clone() Parameters {
	if p == nil {
		return nil
	}
	out := make(Parameters, len(p))
	for k, v := range p {
		out[k] = v
	}
	return out
}

// Result is the mapping produced by a calculator. A fresh Result is built on
// every invocation and belongs to the caller that receives it.
type Result map[string]any

// NewResult builds a result carrying the five required keys.
func NewResult(value any, unit, interpretation, stage, stageDescription string) Result {
	return Result{
		KeyResult:           value,
		KeyUnit:             unit,
		KeyInterpretation:   interpretation,
		KeyStage:            stage,
		KeyStageDescription: stageDescription,
	}
}

// With adds an extra key to the result and returns it for chaining.
func (r Result) With(key string, value any) Result {
	r[key] = value
	return r
}

// Validate reports missing or empty required keys.
func (r Result) Validate() error {
	if r == nil {
		return fmt.Errorf("result is nil")
	}

	var missing []string
	for _, key := range RequiredResultKeys {
		if isEmptyValue(r[key]) {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("result is missing required keys: %s", strings.Join(missing, ", "))
	}
	return nil
}

func isEmptyValue(v any) bool {
	switch typed := v.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(typed) == ""
	case map[string]any:
		return len(typed) == 0
	default:
		return false
	}
}
