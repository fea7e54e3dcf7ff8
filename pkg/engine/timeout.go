package engine

import (
	"errors"
	"fmt"
	"time"

	"github.com/chazu/logica/pkg/circuit"
)

// DefaultTimeout bounds one script run unless SetTimeout says otherwise.
const DefaultTimeout = 5 * time.Second

// ErrSuperseded reports a run whose result arrived after a newer run began.
var ErrSuperseded = errors.New("evaluation superseded by newer request")

// TimeoutError reports a script that ran past the engine's limit.
type TimeoutError struct {
	Limit time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("evaluation timed out after %s", e.Limit)
}

// runResult carries a finished run back from the evaluating goroutine.
type runResult struct {
	circuit *circuit.Circuit
	errors  []EvalError
	err     error
}

// SetTimeout changes the per-run limit. Non-positive values restore
// DefaultTimeout.
func (e *Engine) SetTimeout(d time.Duration) {
	if d <= 0 {
		d = DefaultTimeout
	}
	e.mu.Lock()
	e.timeout = d
	e.mu.Unlock()
}

// Timeout returns the per-run limit.
func (e *Engine) Timeout() time.Duration {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.timeout
}

// await blocks until run gen reports or the limit passes. A run that times
// out keeps going in its goroutine; its circuit is dropped when it lands.
func (e *Engine) await(ch <-chan runResult, gen uint64) (*circuit.Circuit, []EvalError, error) {
	limit := e.Timeout()
	timer := time.NewTimer(limit)
	defer timer.Stop()

	select {
	case res := <-ch:
		if !e.current(gen) {
			return nil, nil, ErrSuperseded
		}
		return res.circuit, res.errors, res.err
	case <-timer.C:
		return nil, nil, &TimeoutError{Limit: limit}
	}
}

// current reports whether gen is still the newest run.
func (e *Engine) current(gen uint64) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return gen == e.generation
}
