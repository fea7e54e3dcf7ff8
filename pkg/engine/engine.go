// Package engine provides the Lisp evaluation engine for logica.
// It wraps zygomys in a sandboxed environment and builds a circuit from
// user source code.
package engine

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/chazu/logica/pkg/circuit"
	zygo "github.com/glycerine/zygomys/zygo"
)

// EvalError represents a non-fatal error encountered during evaluation,
// such as a parse error or a runtime error in user code.
type EvalError struct {
	Line    int
	Col     int
	Message string
}

func (e EvalError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %s", e.Line, e.Message)
	}
	return e.Message
}

// EvalWarning represents a non-fatal warning about the built circuit.
type EvalWarning struct {
	Message string
	NodeID  circuit.NodeID
}

// EvalResult bundles the full output of an evaluation for use by UI bindings.
type EvalResult struct {
	Circuit  *circuit.Circuit
	Errors   []EvalError
	Warnings []EvalWarning
}

// Engine wraps the zygomys interpreter for circuit scripts.
// It is safe for concurrent use; each call to Evaluate creates a fresh
// sandboxed environment for determinism.
type Engine struct {
	mu         sync.Mutex
	generation uint64
	timeout    time.Duration
	reg        *circuit.Registry
}

// NewEngine creates a new Engine whose scripts build circuits on reg.
// A nil registry means circuit.DefaultRegistry().
func NewEngine(reg *circuit.Registry) *Engine {
	if reg == nil {
		reg = circuit.DefaultRegistry()
	}
	return &Engine{reg: reg, timeout: DefaultTimeout}
}

// Evaluate takes Lisp source code and builds a new Circuit.
// Each call creates a fresh zygomys sandbox for deterministic evaluation.
//
// Return semantics:
//   - On success: returns circuit + nil errors + nil error
//   - On parse/eval failure: returns nil circuit + eval errors + nil error
//   - On fatal failure (*TimeoutError, ErrSuperseded, panic): returns nil + nil + error
func (e *Engine) Evaluate(source string) (*circuit.Circuit, []EvalError, error) {
	e.mu.Lock()
	e.generation++
	gen := e.generation
	e.mu.Unlock()

	ch := make(chan runResult, 1)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				ch <- runResult{err: fmt.Errorf("panic during evaluation: %v", r)}
			}
		}()

		c, evalErrs, err := e.evaluate(source)
		ch <- runResult{circuit: c, errors: evalErrs, err: err}
	}()

	return e.await(ch, gen)
}

// Run evaluates source and attaches warnings about the resulting circuit.
// A fatal error is returned as-is; eval errors are carried in the result.
func (e *Engine) Run(source string) (EvalResult, error) {
	c, evalErrs, err := e.Evaluate(source)
	if err != nil {
		return EvalResult{}, err
	}
	res := EvalResult{Circuit: c, Errors: evalErrs}
	if c != nil {
		res.Warnings = Warnings(c)
	}
	return res, nil
}

// Warnings reports feedback loops and a non-convergent settle.
func Warnings(c *circuit.Circuit) []EvalWarning {
	var out []EvalWarning
	for _, f := range circuit.Validate(c) {
		if f.Severity == circuit.SeverityWarning {
			out = append(out, EvalWarning{Message: f.Message, NodeID: f.NodeID})
		}
	}
	if st := c.Status(); !st.Stable() {
		out = append(out, EvalWarning{
			Message: fmt.Sprintf("circuit did not settle within %d passes; values are frozen", st.Cap),
		})
	}
	return out
}

// evaluate performs the actual zygomys evaluation in a fresh sandbox.
func (e *Engine) evaluate(source string) (*circuit.Circuit, []EvalError, error) {
	c := circuit.New(e.reg)

	// Empty source is a valid program that produces an empty circuit.
	if strings.TrimSpace(source) == "" {
		return c, nil, nil
	}

	// Create a fresh sandboxed zygomys environment.
	// Sandbox mode prevents user code from accessing the filesystem or syscalls.
	env := zygo.NewZlispSandbox()
	defer env.Stop()

	registerBuiltins(env, c)

	// Load and compile the source string into bytecode.
	err := env.LoadString(preprocessSource(source))
	if err != nil {
		evalErrs := parseZygomysError(err)
		return nil, evalErrs, nil
	}

	// Execute the compiled bytecode.
	_, err = env.Run()
	if err != nil {
		evalErrs := parseZygomysError(err)
		return nil, evalErrs, nil
	}

	return c, nil, nil
}

// linePattern matches zygomys error messages that include "Error on line N: ..."
var linePattern = regexp.MustCompile(`(?i)(?:error )?on line (\d+):\s*(.*)`)

// linePatternShort matches simpler "line N: ..." patterns.
var linePatternShort = regexp.MustCompile(`(?i)^line (\d+):\s*(.*)`)

// parseZygomysError converts a zygomys error into one or more EvalError values.
// It attempts to extract line number information from the error message.
func parseZygomysError(err error) []EvalError {
	msg := err.Error()

	// Try to extract line numbers from the error message.
	// zygomys formats parse errors as "Error on line N: <details>\n"
	if m := linePattern.FindStringSubmatch(msg); m != nil {
		line, _ := strconv.Atoi(m[1])
		detail := strings.TrimSpace(m[2])
		return []EvalError{{
			Line:    line,
			Col:     0,
			Message: detail,
		}}
	}

	if m := linePatternShort.FindStringSubmatch(msg); m != nil {
		line, _ := strconv.Atoi(m[1])
		detail := strings.TrimSpace(m[2])
		return []EvalError{{
			Line:    line,
			Col:     0,
			Message: detail,
		}}
	}

	// Fallback: no line info available.
	return []EvalError{{
		Line:    0,
		Col:     0,
		Message: strings.TrimSpace(msg),
	}}
}
