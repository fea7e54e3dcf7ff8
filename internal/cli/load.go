package cli

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/chazu/logica/pkg/circuit"
	"github.com/chazu/logica/pkg/engine"
	"github.com/chazu/logica/pkg/store"
)

// ScriptError collects the eval errors of a failed script.
type ScriptError struct {
	Path   string
	Errors []engine.EvalError
}

func (e *ScriptError) Error() string {
	lines := make([]string, len(e.Errors))
	for i, ee := range e.Errors {
		lines[i] = fmt.Sprintf("%s:%d:%d: %s", e.Path, ee.Line, ee.Col, ee.Message)
	}
	return strings.Join(lines, "\n")
}

// loadCircuit reads a saved document or evaluates a script, by extension.
func loadCircuit(path string) (*circuit.Circuit, []engine.EvalWarning, error) {
	reg := circuit.DefaultRegistry()

	if _, err := store.ForPath(path); err == nil {
		c, err := store.LoadFile(path, reg)
		if err != nil {
			return nil, nil, fmt.Errorf("load %s: %w", path, err)
		}
		return c, engine.Warnings(c), nil
	}

	src, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, err
	}
	res, err := engine.NewEngine(reg).Run(string(src))
	if err != nil {
		return nil, nil, fmt.Errorf("evaluate %s: %w", path, err)
	}
	if len(res.Errors) > 0 {
		return nil, nil, &ScriptError{Path: path, Errors: res.Errors}
	}
	return res.Circuit, res.Warnings, nil
}

// findNode resolves a label, falling back to a node ID such as "n3".
func findNode(c *circuit.Circuit, key string) (*circuit.Node, bool) {
	if n, ok := c.NodeByLabel(key); ok {
		return n, true
	}
	id, err := circuit.ParseNodeID(key)
	if err != nil {
		return nil, false
	}
	return c.Node(id)
}

// applyInputs drives INPUT nodes from label=value pairs. A node ID may
// stand in for the label.
func applyInputs(c *circuit.Circuit, sets []string) error {
	for _, s := range sets {
		label, raw, ok := strings.Cut(s, "=")
		if !ok {
			return fmt.Errorf("--set %q: want label=value", s)
		}
		v, err := parseLevel(raw)
		if err != nil {
			return fmt.Errorf("--set %q: %w", s, err)
		}
		n, ok := findNode(c, label)
		if !ok {
			return fmt.Errorf("--set %q: no node labelled %q", s, label)
		}
		if err := c.SetInput(n.ID, v); err != nil {
			return err
		}
	}
	return nil
}

func parseLevel(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "on", "high", "h":
		return true, nil
	case "off", "low", "l":
		return false, nil
	}
	v, err := strconv.ParseBool(s)
	if err != nil {
		return false, fmt.Errorf("%q is not a logic level", s)
	}
	return v, nil
}
