package engine

import (
	"fmt"
	"strings"

	"github.com/chazu/logica/pkg/circuit"
	zygo "github.com/glycerine/zygomys/zygo"
)

// ---------------------------------------------------------------------------
// Custom Sexp types for passing Go values through the zygomys environment
// ---------------------------------------------------------------------------

// sexpNodeRef wraps a circuit.NodeID so it can be passed between builtins.
type sexpNodeRef struct {
	id   circuit.NodeID
	name string // label, for printing and error messages
}

func (n *sexpNodeRef) SexpString(ps *zygo.PrintState) string {
	if n.name != "" {
		return fmt.Sprintf("(noderef %q)", n.name)
	}
	return fmt.Sprintf("(noderef %s)", n.id)
}
func (n *sexpNodeRef) Type() *zygo.RegisteredType { return nil }

// sexpConnRef wraps a circuit.ConnID returned by `wire`.
type sexpConnRef struct {
	id circuit.ConnID
}

func (c *sexpConnRef) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(connref %s)", c.id)
}
func (c *sexpConnRef) Type() *zygo.RegisteredType { return nil }

// ---------------------------------------------------------------------------
// Keyword argument parsing
// ---------------------------------------------------------------------------

// kwPrefix is the marker prepended to keyword names by preprocessSource.
const kwPrefix = "__kw_"

// isKW checks if a Sexp is a preprocessed keyword string.
// Returns the keyword name (without prefix) and true if it is.
func isKW(s zygo.Sexp) (string, bool) {
	str, ok := s.(*zygo.SexpStr)
	if !ok {
		return "", false
	}
	if strings.HasPrefix(str.S, kwPrefix) {
		return str.S[len(kwPrefix):], true
	}
	return "", false
}

// kwArgs holds the result of parsing a mixed positional+keyword argument list.
type kwArgs struct {
	kw         map[string]zygo.Sexp
	positional []zygo.Sexp
}

// parseArgs separates args into keyword and positional arguments.
// Keywords are identified by the __kw_ prefix added during preprocessing.
func parseArgs(args []zygo.Sexp) kwArgs {
	result := kwArgs{kw: make(map[string]zygo.Sexp)}
	i := 0
	for i < len(args) {
		name, ok := isKW(args[i])
		if ok {
			if i+1 < len(args) {
				result.kw[name] = args[i+1]
				i += 2
			} else {
				// Keyword at end with no value: treat as flag with nil.
				result.kw[name] = zygo.SexpNull
				i++
			}
		} else {
			result.positional = append(result.positional, args[i])
			i++
		}
	}
	return result
}

// ---------------------------------------------------------------------------
// Value extraction helpers
// ---------------------------------------------------------------------------

// toFloat64 extracts a float64 from a Sexp (SexpInt or SexpFloat).
func toFloat64(s zygo.Sexp) (float64, error) {
	switch v := s.(type) {
	case *zygo.SexpInt:
		return float64(v.Val), nil
	case *zygo.SexpFloat:
		return v.Val, nil
	}
	return 0, fmt.Errorf("expected number, got %T (%s)", s, s.SexpString(nil))
}

// toString extracts a string from a Sexp.
func toString(s zygo.Sexp) (string, error) {
	if str, ok := s.(*zygo.SexpStr); ok {
		return str.S, nil
	}
	return "", fmt.Errorf("expected string, got %T (%s)", s, s.SexpString(nil))
}

// toKeywordString extracts a keyword name or plain string from a Sexp.
// Handles both preprocessed keywords (__kw_z) and plain strings ("z").
func toKeywordString(s zygo.Sexp) (string, error) {
	str, ok := s.(*zygo.SexpStr)
	if !ok {
		return "", fmt.Errorf("expected keyword or string, got %T (%s)", s, s.SexpString(nil))
	}
	if strings.HasPrefix(str.S, kwPrefix) {
		return str.S[len(kwPrefix):], nil
	}
	return str.S, nil
}

// toInt extracts a non-negative integer from a Sexp.
func toInt(s zygo.Sexp) (int, error) {
	f, err := toFloat64(s)
	if err != nil {
		return 0, err
	}
	if f < 0 || f != float64(int(f)) {
		return 0, fmt.Errorf("expected non-negative integer, got %s", s.SexpString(nil))
	}
	return int(f), nil
}

// toBool extracts a boolean from a Sexp.
func toBool(s zygo.Sexp) (bool, error) {
	if b, ok := s.(*zygo.SexpBool); ok {
		return b.Val, nil
	}
	return false, fmt.Errorf("expected true or false, got %T (%s)", s, s.SexpString(nil))
}

// ---------------------------------------------------------------------------
// Node resolution and layout
// ---------------------------------------------------------------------------

// Auto-layout grid for nodes created without coordinates.
const (
	layoutX       = 40.0
	layoutY       = 80.0
	layoutColumns = 6
	layoutStrideX = 140.0
	layoutStrideY = 120.0
)

// builder carries the state shared by the builtins of one evaluation.
type builder struct {
	c      *circuit.Circuit
	placed int // nodes laid out automatically so far
}

// nextSlot returns the next free auto-layout position.
func (b *builder) nextSlot() (float64, float64) {
	col := b.placed % layoutColumns
	row := b.placed / layoutColumns
	b.placed++
	return layoutX + float64(col)*layoutStrideX, layoutY + float64(row)*layoutStrideY
}

// resolve accepts a node reference or a label.
func (b *builder) resolve(s zygo.Sexp) (circuit.NodeID, error) {
	switch v := s.(type) {
	case *sexpNodeRef:
		return v.id, nil
	case *zygo.SexpStr:
		if _, ok := isKW(v); ok {
			break
		}
		n, ok := b.c.NodeByLabel(v.S)
		if !ok {
			return 0, fmt.Errorf("no node labelled %q", v.S)
		}
		return n.ID, nil
	}
	return 0, fmt.Errorf("expected node reference or label, got %T (%s)", s, s.SexpString(nil))
}

// add creates a node from a kind key, optional label and optional :x/:y.
func (b *builder) add(fn, kind string, pa kwArgs, labelArg zygo.Sexp) (zygo.Sexp, error) {
	var label string
	if labelArg != nil {
		s, err := toString(labelArg)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("%s: label: %w", fn, err)
		}
		label = s
	}
	if v, ok := pa.kw["label"]; ok {
		s, err := toString(v)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("%s: label: %w", fn, err)
		}
		label = s
	}

	xv, hasX := pa.kw["x"]
	yv, hasY := pa.kw["y"]
	var x, y float64
	if hasX || hasY {
		var err error
		if hasX {
			if x, err = toFloat64(xv); err != nil {
				return zygo.SexpNull, fmt.Errorf("%s: x: %w", fn, err)
			}
		}
		if hasY {
			if y, err = toFloat64(yv); err != nil {
				return zygo.SexpNull, fmt.Errorf("%s: y: %w", fn, err)
			}
		}
	} else {
		x, y = b.nextSlot()
	}

	id, err := b.c.AddNode(kind, x, y)
	if err != nil {
		return zygo.SexpNull, fmt.Errorf("%s: %w", fn, err)
	}
	if label != "" {
		if err := b.c.SetLabel(id, label); err != nil {
			return zygo.SexpNull, fmt.Errorf("%s: %w", fn, err)
		}
	}
	return &sexpNodeRef{id: id, name: label}, nil
}

// ---------------------------------------------------------------------------
// Builtin registration
// ---------------------------------------------------------------------------

// registerBuiltins installs the circuit DSL builtins into a zygomys
// environment. The builtins mutate c as the script runs; every mutation
// settles the circuit, so probes observe propagated values.
//
// Source code must be preprocessed with preprocessSource() before evaluation so
// that :keyword tokens are converted to recognizable string literals.
func registerBuiltins(env *zygo.Zlisp, c *circuit.Circuit) {
	b := &builder{c: c}

	// -----------------------------------------------------------------------
	// (node :and "label" :x 100 :y 40)
	// -----------------------------------------------------------------------
	env.AddFunction("node", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) < 1 {
			return zygo.SexpNull, fmt.Errorf("node requires a kind")
		}
		// The kind keyword leads and takes no value, so it is split off
		// before keyword parsing.
		kind, err := toKeywordString(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("node: kind: %w", err)
		}
		pa := parseArgs(args[1:])
		var label zygo.Sexp
		if len(pa.positional) > 0 {
			label = pa.positional[0]
		}
		return b.add("node", kind, pa, label)
	})

	// (input "a" :x 0 :y 0) and (output "q")
	for _, fn := range []struct {
		name string
		kind circuit.Kind
	}{
		{"input", circuit.KindInput},
		{"output", circuit.KindOutput},
	} {
		env.AddFunction(fn.name, func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
			pa := parseArgs(args)
			var label zygo.Sexp
			if len(pa.positional) > 0 {
				label = pa.positional[0]
			}
			return b.add(fn.name, string(fn.kind), pa, label)
		})
	}

	// -----------------------------------------------------------------------
	// (wire from to :from-port 0 :to-port 1)
	// -----------------------------------------------------------------------
	env.AddFunction("wire", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if len(pa.positional) != 2 {
			return zygo.SexpNull, fmt.Errorf("wire requires a source and a target, got %d arguments", len(pa.positional))
		}
		from, err := b.resolve(pa.positional[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("wire: from: %w", err)
		}
		to, err := b.resolve(pa.positional[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("wire: to: %w", err)
		}
		var fromPort, toPort int
		if v, ok := pa.kw["from-port"]; ok {
			if fromPort, err = toInt(v); err != nil {
				return zygo.SexpNull, fmt.Errorf("wire: from-port: %w", err)
			}
		}
		if v, ok := pa.kw["to-port"]; ok {
			if toPort, err = toInt(v); err != nil {
				return zygo.SexpNull, fmt.Errorf("wire: to-port: %w", err)
			}
		}
		id, err := b.c.Connect(
			circuit.PortRef{Node: from, Dir: circuit.Out, Index: fromPort},
			circuit.PortRef{Node: to, Dir: circuit.In, Index: toPort},
		)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("wire: %w", err)
		}
		return &sexpConnRef{id: id}, nil
	})

	// (toggle ref)
	env.AddFunction("toggle", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 1 {
			return zygo.SexpNull, fmt.Errorf("toggle requires exactly 1 argument, got %d", len(args))
		}
		id, err := b.resolve(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("toggle: %w", err)
		}
		if err := b.c.ToggleInput(id, 0); err != nil {
			return zygo.SexpNull, fmt.Errorf("toggle: %w", err)
		}
		return args[0], nil
	})

	// (set-input ref true)
	env.AddFunction("set_input", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 2 {
			return zygo.SexpNull, fmt.Errorf("set-input requires a node and a value, got %d arguments", len(args))
		}
		id, err := b.resolve(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("set-input: %w", err)
		}
		v, err := toBool(args[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("set-input: value: %w", err)
		}
		if err := b.c.SetInput(id, v); err != nil {
			return zygo.SexpNull, fmt.Errorf("set-input: %w", err)
		}
		return args[0], nil
	})

	// (move ref x y)
	env.AddFunction("move", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 3 {
			return zygo.SexpNull, fmt.Errorf("move requires a node, x and y, got %d arguments", len(args))
		}
		id, err := b.resolve(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("move: %w", err)
		}
		x, err := toFloat64(args[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("move: x: %w", err)
		}
		y, err := toFloat64(args[2])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("move: y: %w", err)
		}
		if err := b.c.SetNodePosition(id, x, y); err != nil {
			return zygo.SexpNull, fmt.Errorf("move: %w", err)
		}
		return args[0], nil
	})

	// (delete ref)
	env.AddFunction("delete", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 1 {
			return zygo.SexpNull, fmt.Errorf("delete requires exactly 1 argument, got %d", len(args))
		}
		id, err := b.resolve(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("delete: %w", err)
		}
		if err := b.c.DeleteNode(id); err != nil {
			return zygo.SexpNull, fmt.Errorf("delete: %w", err)
		}
		return zygo.SexpNull, nil
	})

	// (probe ref) -> first output, or first input for sinks
	env.AddFunction("probe", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 1 {
			return zygo.SexpNull, fmt.Errorf("probe requires exactly 1 argument, got %d", len(args))
		}
		id, err := b.resolve(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("probe: %w", err)
		}
		n, ok := b.c.Node(id)
		if !ok {
			return zygo.SexpNull, fmt.Errorf("probe: node %s not found", id)
		}
		return &zygo.SexpBool{Val: n.Value()}, nil
	})
}
