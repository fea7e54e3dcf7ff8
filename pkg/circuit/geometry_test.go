package circuit

import (
	"math"
	"testing"
)

func TestPortPositionSpacing(t *testing.T) {
	c := New(nil)
	id := mustAdd(t, c, "AND", 100, 200) // 80x60, 2 in, 1 out
	n, _ := c.Node(id)

	tests := []struct {
		name  string
		index int
		dir   Direction
		want  Point
	}{
		{"input 0", 0, In, Pt(100, 220)},
		{"input 1", 1, In, Pt(100, 240)},
		{"output 0", 0, Out, Pt(180, 230)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := n.PortPosition(tt.index, tt.dir)
			if got != tt.want {
				t.Errorf("PortPosition = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestPortsNeverTouchEdges(t *testing.T) {
	c := New(nil)
	id := mustAdd(t, c, "SEGMENT7", 0, 0)
	n, _ := c.Node(id)
	prev := n.Y
	for i := range n.Inputs {
		p := n.PortPosition(i, In)
		if p.Y <= n.Y || p.Y >= n.Y+n.Height {
			t.Errorf("port %d at y=%v touches an edge", i, p.Y)
		}
		if i > 0 && math.Abs((p.Y-prev)-n.Height/8) > 1e-9 {
			t.Errorf("port %d spacing %v, want %v", i, p.Y-prev, n.Height/8)
		}
		prev = p.Y
	}
}

func TestContainsIsInclusive(t *testing.T) {
	c := New(nil)
	id := mustAdd(t, c, "NOT", 0, 0)
	n, _ := c.Node(id)
	for _, p := range []Point{Pt(0, 0), Pt(80, 60), Pt(40, 30)} {
		if !n.Contains(p) {
			t.Errorf("expected %+v inside", p)
		}
	}
	for _, p := range []Point{Pt(-0.1, 0), Pt(80.1, 30), Pt(40, 61)} {
		if n.Contains(p) {
			t.Errorf("expected %+v outside", p)
		}
	}
}

func TestPortAt(t *testing.T) {
	c := New(nil)
	id := mustAdd(t, c, "AND", 0, 0)
	n, _ := c.Node(id)

	ref, ok := n.PortAt(Pt(3, 20))
	if !ok || ref.Dir != In || ref.Index != 0 {
		t.Errorf("PortAt near input 0 = %v, %v", ref, ok)
	}
	ref, ok = n.PortAt(Pt(-4, 40))
	if !ok || ref.Dir != In || ref.Index != 1 {
		t.Errorf("PortAt near input 1 = %v, %v", ref, ok)
	}
	ref, ok = n.PortAt(Pt(80, 34))
	if !ok || ref.Dir != Out || ref.Index != 0 {
		t.Errorf("PortAt near output = %v, %v", ref, ok)
	}
	// Exactly on the radius still counts.
	if _, ok := n.PortAt(Pt(5, 20)); !ok {
		t.Error("point at PickRadius should pick the port")
	}
	if _, ok := n.PortAt(Pt(40, 30)); ok {
		t.Error("centre of the gate is not a port")
	}
}

func TestPortAtTieBreakInputFirst(t *testing.T) {
	// A very thin custom kind puts an input and an output within the pick
	// radius of the same point.
	reg := DefaultRegistry()
	reg.MustRegister(KindSpec{Kind: "WIRE", Inputs: 2, Outputs: 2, Width: 4, Height: 12})
	c := New(reg)
	id := mustAdd(t, c, "WIRE", 0, 0)
	n, _ := c.Node(id)

	// Inputs at (0,4),(0,8); outputs at (4,4),(4,8).
	ref, ok := n.PortAt(Pt(2, 6))
	if !ok {
		t.Fatal("expected a port")
	}
	if ref.Dir != In || ref.Index != 0 {
		t.Errorf("tie-break picked %v, want input 0", ref)
	}
}

func TestToggleZone(t *testing.T) {
	c := New(nil)
	sw := mustAdd(t, c, "INPUT", 0, 0)
	g := mustAdd(t, c, "AND", 100, 0)
	n, _ := c.Node(sw)
	if !n.InToggleZone(Pt(30, 30)) {
		t.Error("centre of INPUT should be in the toggle zone")
	}
	if n.InToggleZone(Pt(2, 2)) {
		t.Error("corner of INPUT is outside the toggle zone")
	}
	gate, _ := c.Node(g)
	if gate.InToggleZone(gate.Bounds().Center()) {
		t.Error("gates have no toggle zone")
	}
}

func TestNodeAtTopmostFirst(t *testing.T) {
	c := New(nil)
	below := mustAdd(t, c, "AND", 0, 0)
	above := mustAdd(t, c, "OR", 40, 20)
	n, ok := c.NodeAt(Pt(50, 30))
	if !ok || n.ID != above {
		t.Errorf("NodeAt overlap = %v, want %s", n, above)
	}
	n, ok = c.NodeAt(Pt(10, 10))
	if !ok || n.ID != below {
		t.Errorf("NodeAt = %v, want %s", n, below)
	}
	if _, ok := c.NodeAt(Pt(500, 500)); ok {
		t.Error("empty canvas should not hit a node")
	}
}

func TestPortsMoveWithNode(t *testing.T) {
	c := New(nil)
	id := mustAdd(t, c, "NOT", 0, 0)
	before, _ := c.PortPosition(out(id, 0))
	if err := c.SetNodePosition(id, 15, -5); err != nil {
		t.Fatal(err)
	}
	after, _ := c.PortPosition(out(id, 0))
	if after.Sub(before) != Pt(15, -5) {
		t.Errorf("port moved by %+v, want (15,-5)", after.Sub(before))
	}
}
