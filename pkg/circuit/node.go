package circuit

import (
	"fmt"
	"strconv"
	"strings"
)

// NodeID identifies a node within one circuit. IDs are never reused.
type NodeID uint64

// ConnID identifies a connection within one circuit. IDs are never reused.
type ConnID uint64

// IsZero reports whether id is the zero (invalid) ID.
func (id NodeID) IsZero() bool { return id == 0 }

func (id NodeID) String() string { return "n" + strconv.FormatUint(uint64(id), 10) }

// IsZero reports whether id is the zero (invalid) ID.
func (id ConnID) IsZero() bool { return id == 0 }

func (id ConnID) String() string { return "c" + strconv.FormatUint(uint64(id), 10) }

// ParseNodeID accepts "n12" or "12".
func ParseNodeID(s string) (NodeID, error) {
	v, err := strconv.ParseUint(strings.TrimPrefix(s, "n"), 10, 64)
	if err != nil || v == 0 {
		return 0, fmt.Errorf("invalid node id %q", s)
	}
	return NodeID(v), nil
}

// Direction distinguishes input ports from output ports.
type Direction int

const (
	In Direction = iota
	Out
)

func (d Direction) String() string {
	switch d {
	case In:
		return "in"
	case Out:
		return "out"
	default:
		return fmt.Sprintf("Direction(%d)", int(d))
	}
}

// Opposite returns the complementary direction.
func (d Direction) Opposite() Direction {
	if d == In {
		return Out
	}
	return In
}

// PortRef addresses one port of one node.
type PortRef struct {
	Node  NodeID    `json:"node"`
	Dir   Direction `json:"dir"`
	Index int       `json:"index"`
}

func (p PortRef) String() string {
	return fmt.Sprintf("%s.%s%d", p.Node, p.Dir, p.Index)
}

// Node is a gate or IO element placed on the canvas.
// Slot counts are fixed by the kind when the node is created.
type Node struct {
	ID      NodeID
	Kind    Kind
	Label   string
	X, Y    float64
	Width   float64
	Height  float64
	Inputs  []bool
	Outputs []bool

	toggleable bool
	eval       EvalFunc
}

func newNode(id NodeID, spec KindSpec, x, y float64) *Node {
	return &Node{
		ID:         id,
		Kind:       spec.Kind,
		X:          x,
		Y:          y,
		Width:      spec.Width,
		Height:     spec.Height,
		Inputs:     make([]bool, spec.Inputs),
		Outputs:    make([]bool, spec.Outputs),
		toggleable: spec.Toggleable,
		eval:       spec.Eval,
	}
}

// Toggleable reports whether the node holds user-set state (INPUT-like).
func (n *Node) Toggleable() bool { return n.toggleable }

// Value returns the value a node presents: its first output, or its first
// input for sinks such as OUTPUT.
func (n *Node) Value() bool {
	if len(n.Outputs) > 0 {
		return n.Outputs[0]
	}
	if len(n.Inputs) > 0 {
		return n.Inputs[0]
	}
	return false
}

// Name returns the label, falling back to the ID.
func (n *Node) Name() string {
	if n.Label != "" {
		return n.Label
	}
	return n.ID.String()
}

func (n *Node) clone() *Node {
	c := *n
	c.Inputs = append([]bool(nil), n.Inputs...)
	c.Outputs = append([]bool(nil), n.Outputs...)
	return &c
}

// Connection is a directed edge from an output port to an input port.
type Connection struct {
	ID   ConnID
	From PortRef
	To   PortRef
}
