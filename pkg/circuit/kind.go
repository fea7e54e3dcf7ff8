package circuit

import (
	"fmt"
	"strings"
)

// Kind is the stable string key of a node kind, e.g. "AND".
type Kind string

const (
	KindAND      Kind = "AND"
	KindOR       Kind = "OR"
	KindNOT      Kind = "NOT"
	KindNAND     Kind = "NAND"
	KindNOR      Kind = "NOR"
	KindXOR      Kind = "XOR"
	KindInput    Kind = "INPUT"
	KindOutput   Kind = "OUTPUT"
	KindHigh     Kind = "HIGH"
	KindLow      Kind = "LOW"
	KindSegment7 Kind = "SEGMENT7"
)

// EvalFunc maps a node's input slot values to its output slot values.
// out holds the node's previous outputs on entry and has the kind's output
// arity; implementations overwrite it. Functions must be pure.
type EvalFunc func(in, out []bool)

// KindSpec declares everything the circuit needs to know about a kind.
type KindSpec struct {
	Kind       Kind
	Title      string // palette caption
	Inputs     int
	Outputs    int
	Width      float64
	Height     float64
	Toggleable bool     // INPUT-like: output is user state, not computed
	Eval       EvalFunc // nil means outputs are held as-is
	Aliases    []string // extra factory keys, matched case-insensitively
}

// Registry is the dispatch table from kind keys to specs.
// It must not be modified after a Circuit has been created on it.
type Registry struct {
	specs   map[Kind]KindSpec
	aliases map[string]Kind
	order   []Kind
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		specs:   make(map[Kind]KindSpec),
		aliases: make(map[string]Kind),
	}
}

// Register adds a kind. It fails on a duplicate key or alias, or on an
// invalid arity or size.
func (r *Registry) Register(spec KindSpec) error {
	if spec.Kind == "" {
		return fmt.Errorf("register kind: empty key")
	}
	if spec.Inputs < 0 || spec.Outputs < 0 {
		return fmt.Errorf("register kind %s: negative arity", spec.Kind)
	}
	if spec.Width <= 0 || spec.Height <= 0 {
		return fmt.Errorf("register kind %s: size must be positive", spec.Kind)
	}
	if spec.Toggleable && (spec.Inputs != 0 || spec.Outputs != 1) {
		return fmt.Errorf("register kind %s: toggleable kinds have 0 inputs and 1 output", spec.Kind)
	}
	keys := append([]string{string(spec.Kind)}, spec.Aliases...)
	for _, k := range keys {
		if _, dup := r.aliases[strings.ToLower(k)]; dup {
			return fmt.Errorf("register kind %s: key %q already registered", spec.Kind, k)
		}
	}
	for _, k := range keys {
		r.aliases[strings.ToLower(k)] = spec.Kind
	}
	if spec.Title == "" {
		spec.Title = string(spec.Kind)
	}
	r.specs[spec.Kind] = spec
	r.order = append(r.order, spec.Kind)
	return nil
}

// MustRegister is Register that panics on error. Intended for init-time tables.
func (r *Registry) MustRegister(spec KindSpec) {
	if err := r.Register(spec); err != nil {
		panic(err)
	}
}

// Resolve maps a factory key (kind or alias, any case) to its spec.
func (r *Registry) Resolve(key string) (KindSpec, bool) {
	k, ok := r.aliases[strings.ToLower(strings.TrimSpace(key))]
	if !ok {
		return KindSpec{}, false
	}
	return r.specs[k], true
}

// Spec returns the spec for an exact kind.
func (r *Registry) Spec(k Kind) (KindSpec, bool) {
	s, ok := r.specs[k]
	return s, ok
}

// Kinds returns the registered kinds in registration order.
func (r *Registry) Kinds() []Kind {
	out := make([]Kind, len(r.order))
	copy(out, r.order)
	return out
}

// ---------------------------------------------------------------------------
// Built-in kinds
// ---------------------------------------------------------------------------

const (
	gateWidth  = 80
	gateHeight = 60
	ioSize     = 60
)

func binary(f func(a, b bool) bool) EvalFunc {
	return func(in, out []bool) {
		out[0] = f(in[0], in[1])
	}
}

func constant(v bool) EvalFunc {
	return func(_, out []bool) {
		out[0] = v
	}
}

// builtinSpecs is the closed set of kinds every default registry carries.
var builtinSpecs = []KindSpec{
	{Kind: KindAND, Title: "AND Gate", Inputs: 2, Outputs: 1, Width: gateWidth, Height: gateHeight,
		Eval: binary(func(a, b bool) bool { return a && b }), Aliases: []string{"AND Gate"}},
	{Kind: KindOR, Title: "OR Gate", Inputs: 2, Outputs: 1, Width: gateWidth, Height: gateHeight,
		Eval: binary(func(a, b bool) bool { return a || b }), Aliases: []string{"OR Gate"}},
	{Kind: KindNOT, Title: "NOT Gate", Inputs: 1, Outputs: 1, Width: gateWidth, Height: gateHeight,
		Eval: func(in, out []bool) { out[0] = !in[0] }, Aliases: []string{"NOT Gate"}},
	{Kind: KindInput, Title: "Input", Inputs: 0, Outputs: 1, Width: ioSize, Height: ioSize,
		Toggleable: true, Aliases: []string{"switch"}},
	{Kind: KindOutput, Title: "Output", Inputs: 1, Outputs: 0, Width: ioSize, Height: ioSize,
		Aliases: []string{"lamp"}},
	{Kind: KindNAND, Title: "NAND Gate", Inputs: 2, Outputs: 1, Width: gateWidth, Height: gateHeight,
		Eval: binary(func(a, b bool) bool { return !(a && b) }), Aliases: []string{"NAND Gate"}},
	{Kind: KindNOR, Title: "NOR Gate", Inputs: 2, Outputs: 1, Width: gateWidth, Height: gateHeight,
		Eval: binary(func(a, b bool) bool { return !(a || b) }), Aliases: []string{"NOR Gate"}},
	{Kind: KindXOR, Title: "XOR Gate", Inputs: 2, Outputs: 1, Width: gateWidth, Height: gateHeight,
		Eval: binary(func(a, b bool) bool { return a != b }), Aliases: []string{"XOR Gate"}},
	{Kind: KindHigh, Title: "High Constant", Inputs: 0, Outputs: 1, Width: ioSize, Height: 40,
		Eval: constant(true), Aliases: []string{"highConstant"}},
	{Kind: KindLow, Title: "Low Constant", Inputs: 0, Outputs: 1, Width: ioSize, Height: 40,
		Eval: constant(false), Aliases: []string{"lowConstant"}},
	{Kind: KindSegment7, Title: "7-Segment Display", Inputs: 7, Outputs: 0, Width: ioSize, Height: 100,
		Aliases: []string{"7SegDisplay", "seven-segment"}},
}

// DefaultRegistry returns a fresh registry holding the built-in kinds.
// Callers may register custom kinds on it before building circuits.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	for _, s := range builtinSpecs {
		r.MustRegister(s)
	}
	return r
}
