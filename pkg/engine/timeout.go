package engine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/chazu/armature/pkg/description"
)

// DefaultEvalTimeout is the hard limit for a single evaluation.
const DefaultEvalTimeout = 5 * time.Second

type evalResult struct {
	desc   *description.RobotDescription
	errors []EvalError
	err    error
}

// await blocks until ch delivers, the engine's time limit passes, or ctx is
// done. A result delivered after a newer evaluation started is dropped with
// ErrSuperseded. The evaluating goroutine is not stopped on timeout; its
// buffered send completes and the value is garbage.
func (e *Engine) await(ctx context.Context, ch <-chan evalResult, gen uint64) (*description.RobotDescription, []EvalError, error) {
	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	select {
	case res := <-ch:
		if e.generation.Load() != gen {
			return nil, nil, ErrSuperseded
		}
		return res.desc, res.errors, res.err

	case <-ctx.Done():
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, nil, fmt.Errorf("%w after %s", ErrTimeout, e.timeout)
		}
		return nil, nil, ctx.Err()
	}
}
