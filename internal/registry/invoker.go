package registry

import (
	"context"
	"fmt"
	"runtime/debug"

	"github.com/alexisbeaulieu97/nobra/internal/domain/score"
	"github.com/alexisbeaulieu97/nobra/internal/plugin"
	"github.com/alexisbeaulieu97/nobra/internal/ports"
)

// PanicError carries a panic recovered while a calculator was running.
type PanicError struct {
	ScoreID score.ID
	Value   interface{}
	Stack   []byte
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("calculator '%s' panicked: %v", e.ScoreID, e.Value)
}

// Invoker applies a resolved calculator to one parameter mapping. It never
// retries, caches or reorders calls.
type Invoker struct{}

// NewInvoker creates an Invoker.
func NewInvoker() *Invoker {
	return &Invoker{}
}

// Invoke runs calc, already resolved for id, against params and checks the
// result carries every required key. Panics are recovered into *PanicError. A missing or
// incomplete result is reported as a plugin.ErrInternal failure.
func (i *Invoker) Invoke(ctx context.Context, id score.ID, calc ports.Calculator, params score.Parameters) (result score.Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			result = nil
			err = &PanicError{ScoreID: id, Value: r, Stack: debug.Stack()}
		}
	}()

	result, err = calc.Calculate(ctx, params)
	if err != nil {
		return nil, err
	}
	if result == nil {
		return nil, fmt.Errorf("%w: calculator '%s' returned no result", plugin.ErrInternal, id)
	}
	if verr := result.Validate(); verr != nil {
		return nil, fmt.Errorf("%w: calculator '%s': %v", plugin.ErrInternal, id, verr)
	}
	return result, nil
}
