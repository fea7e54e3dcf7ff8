package circuit

import (
	"errors"
	"testing"
)

func mustAdd(t *testing.T, c *Circuit, kind string, x, y float64) NodeID {
	t.Helper()
	id, err := c.AddNode(kind, x, y)
	if err != nil {
		t.Fatalf("AddNode(%q): %v", kind, err)
	}
	return id
}

func mustConnect(t *testing.T, c *Circuit, src NodeID, srcPort int, dst NodeID, dstPort int) ConnID {
	t.Helper()
	id, err := c.Connect(
		PortRef{Node: src, Dir: Out, Index: srcPort},
		PortRef{Node: dst, Dir: In, Index: dstPort},
	)
	if err != nil {
		t.Fatalf("Connect(%s.%d -> %s.%d): %v", src, srcPort, dst, dstPort, err)
	}
	return id
}

func out(n NodeID, i int) PortRef { return PortRef{Node: n, Dir: Out, Index: i} }
func in(n NodeID, i int) PortRef  { return PortRef{Node: n, Dir: In, Index: i} }

func TestAddNodeArity(t *testing.T) {
	tests := []struct {
		key     string
		kind    Kind
		inputs  int
		outputs int
	}{
		{"AND", KindAND, 2, 1},
		{"OR", KindOR, 2, 1},
		{"NOT", KindNOT, 1, 1},
		{"INPUT", KindInput, 0, 1},
		{"OUTPUT", KindOutput, 1, 0},
		{"and gate", KindAND, 2, 1},
		{"Input", KindInput, 0, 1},
		{"highConstant", KindHigh, 0, 1},
		{"7SegDisplay", KindSegment7, 7, 0},
		{"xor", KindXOR, 2, 1},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			c := New(nil)
			id := mustAdd(t, c, tt.key, 10, 20)
			n, ok := c.Node(id)
			if !ok {
				t.Fatal("node not found after AddNode")
			}
			if n.Kind != tt.kind {
				t.Errorf("kind = %s, want %s", n.Kind, tt.kind)
			}
			if len(n.Inputs) != tt.inputs || len(n.Outputs) != tt.outputs {
				t.Errorf("arity = %d/%d, want %d/%d", len(n.Inputs), len(n.Outputs), tt.inputs, tt.outputs)
			}
			if n.X != 10 || n.Y != 20 {
				t.Errorf("position = (%v,%v), want (10,20)", n.X, n.Y)
			}
		})
	}
}

func TestAddNodeUnknownKind(t *testing.T) {
	c := New(nil)
	_, err := c.AddNode("FLUX_CAPACITOR", 0, 0)
	var uk *UnknownKindError
	if !errors.As(err, &uk) {
		t.Fatalf("expected UnknownKindError, got %v", err)
	}
	if uk.Key != "FLUX_CAPACITOR" {
		t.Errorf("key = %q", uk.Key)
	}
	if c.NodeCount() != 0 {
		t.Errorf("failed add must not create a node")
	}
}

func TestNodeIDsAreNotReused(t *testing.T) {
	c := New(nil)
	a := mustAdd(t, c, "AND", 0, 0)
	if err := c.DeleteNode(a); err != nil {
		t.Fatal(err)
	}
	b := mustAdd(t, c, "AND", 0, 0)
	if a == b {
		t.Errorf("id %s reused after delete", a)
	}
}

func TestArityFixedThroughLifetime(t *testing.T) {
	c := New(nil)
	sw := mustAdd(t, c, "INPUT", 0, 0)
	g := mustAdd(t, c, "AND", 100, 0)
	lamp := mustAdd(t, c, "OUTPUT", 200, 0)
	conn := mustConnect(t, c, sw, 0, g, 0)
	mustConnect(t, c, g, 0, lamp, 0)
	_ = c.ToggleInput(sw, 0)
	_ = c.SetNodePosition(g, 50, 50)
	_ = c.Disconnect(conn)

	for _, n := range c.Nodes() {
		spec, _ := c.Registry().Spec(n.Kind)
		if len(n.Inputs) != spec.Inputs || len(n.Outputs) != spec.Outputs {
			t.Errorf("node %s arity changed to %d/%d", n.ID, len(n.Inputs), len(n.Outputs))
		}
	}
}

func TestConnectValidation(t *testing.T) {
	c := New(nil)
	sw := mustAdd(t, c, "INPUT", 0, 0)
	g := mustAdd(t, c, "AND", 100, 0)
	not := mustAdd(t, c, "NOT", 200, 0)

	tests := []struct {
		name     string
		from, to PortRef
		check    func(error) bool
	}{
		{"missing source", out(99, 0), in(g, 0), func(err error) bool {
			var e *NotFoundError
			return errors.As(err, &e)
		}},
		{"input as source", in(g, 0), in(not, 0), func(err error) bool {
			var e *InvalidPortDirectionError
			return errors.As(err, &e)
		}},
		{"output as target", out(sw, 0), out(g, 0), func(err error) bool {
			var e *InvalidPortDirectionError
			return errors.As(err, &e)
		}},
		{"index out of range", out(sw, 0), in(g, 2), func(err error) bool {
			var e *PortIndexError
			return errors.As(err, &e)
		}},
		{"self connection", out(not, 0), in(not, 0), func(err error) bool {
			var e *SelfConnectionError
			return errors.As(err, &e)
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := c.Connect(tt.from, tt.to)
			if err == nil {
				t.Fatal("expected error")
			}
			if !tt.check(err) {
				t.Errorf("wrong error type: %T %v", err, err)
			}
			if len(c.Connections()) != 0 {
				t.Errorf("rejected connect left %d connections", len(c.Connections()))
			}
		})
	}
}

func TestConnectAlreadyDrivenNeverReplaces(t *testing.T) {
	c := New(nil)
	a := mustAdd(t, c, "INPUT", 0, 0)
	b := mustAdd(t, c, "INPUT", 0, 100)
	g := mustAdd(t, c, "NOT", 100, 0)

	first := mustConnect(t, c, a, 0, g, 0)
	for i := 0; i < 2; i++ {
		_, err := c.Connect(out(b, 0), in(g, 0))
		var driven *PortAlreadyDrivenError
		if !errors.As(err, &driven) {
			t.Fatalf("attempt %d: expected PortAlreadyDrivenError, got %v", i, err)
		}
		if driven.DrivenBy != first {
			t.Errorf("DrivenBy = %s, want %s", driven.DrivenBy, first)
		}
	}

	drv, ok := c.Driver(in(g, 0))
	if !ok || drv.ID != first || drv.From.Node != a {
		t.Errorf("driver replaced: %+v", drv)
	}
}

func TestFanOutAllowed(t *testing.T) {
	c := New(nil)
	sw := mustAdd(t, c, "INPUT", 0, 0)
	l1 := mustAdd(t, c, "OUTPUT", 100, 0)
	l2 := mustAdd(t, c, "OUTPUT", 100, 100)
	mustConnect(t, c, sw, 0, l1, 0)
	mustConnect(t, c, sw, 0, l2, 0)
	if err := c.ToggleInput(sw, 0); err != nil {
		t.Fatal(err)
	}
	for _, id := range []NodeID{l1, l2} {
		n, _ := c.Node(id)
		if !n.Inputs[0] {
			t.Errorf("lamp %s not lit", id)
		}
	}
}

func TestDeleteNodeCascades(t *testing.T) {
	c := New(nil)
	a := mustAdd(t, c, "INPUT", 0, 0)
	b := mustAdd(t, c, "INPUT", 0, 100)
	g := mustAdd(t, c, "OR", 100, 0)
	lamp := mustAdd(t, c, "OUTPUT", 200, 0)
	mustConnect(t, c, a, 0, g, 0)
	mustConnect(t, c, b, 0, g, 1)
	keep := mustConnect(t, c, a, 0, lamp, 0)
	mustConnect(t, c, g, 0, mustAdd(t, c, "OUTPUT", 300, 0), 0)

	if err := c.DeleteNode(g); err != nil {
		t.Fatal(err)
	}
	for _, conn := range c.Connections() {
		if conn.From.Node == g || conn.To.Node == g {
			t.Errorf("connection %s still references deleted node", conn.ID)
		}
	}
	if _, ok := c.Connection(keep); !ok {
		t.Error("unrelated connection was removed")
	}
	if HasErrors(Validate(c)) {
		t.Errorf("invariants broken after delete: %v", Validate(c))
	}
}

func TestDeleteNodeWithoutConnections(t *testing.T) {
	c := New(nil)
	id := mustAdd(t, c, "AND", 0, 0)
	if err := c.DeleteNode(id); err != nil {
		t.Fatalf("delete isolated node: %v", err)
	}
	var nf *NotFoundError
	if err := c.DeleteNode(id); !errors.As(err, &nf) {
		t.Errorf("second delete: expected NotFoundError, got %v", err)
	}
}

func TestDisconnect(t *testing.T) {
	c := New(nil)
	sw := mustAdd(t, c, "INPUT", 0, 0)
	lamp := mustAdd(t, c, "OUTPUT", 100, 0)
	conn := mustConnect(t, c, sw, 0, lamp, 0)
	_ = c.ToggleInput(sw, 0)

	if err := c.Disconnect(conn); err != nil {
		t.Fatal(err)
	}
	n, _ := c.Node(lamp)
	if n.Inputs[0] {
		t.Error("lamp should read low once undriven")
	}
	var nf *NotFoundError
	if err := c.Disconnect(conn); !errors.As(err, &nf) {
		t.Errorf("expected NotFoundError, got %v", err)
	}
	// The input is free again.
	mustConnect(t, c, sw, 0, lamp, 0)
}

func TestToggleInput(t *testing.T) {
	c := New(nil)
	sw := mustAdd(t, c, "INPUT", 0, 0)
	g := mustAdd(t, c, "AND", 100, 0)

	if err := c.ToggleInput(sw, 0); err != nil {
		t.Fatal(err)
	}
	n, _ := c.Node(sw)
	if !n.Outputs[0] {
		t.Error("toggle should set the input high")
	}

	var nt *NotToggleableError
	if err := c.ToggleInput(g, 0); !errors.As(err, &nt) {
		t.Errorf("expected NotToggleableError, got %v", err)
	}
	var pi *PortIndexError
	if err := c.ToggleInput(sw, 1); !errors.As(err, &pi) {
		t.Errorf("expected PortIndexError, got %v", err)
	}
	var nf *NotFoundError
	if err := c.ToggleInput(99, 0); !errors.As(err, &nf) {
		t.Errorf("expected NotFoundError, got %v", err)
	}
}

func TestSetInputIsIdempotent(t *testing.T) {
	c := New(nil)
	sw := mustAdd(t, c, "INPUT", 0, 0)
	for i := 0; i < 2; i++ {
		if err := c.SetInput(sw, true); err != nil {
			t.Fatal(err)
		}
	}
	n, _ := c.Node(sw)
	if !n.Outputs[0] {
		t.Error("SetInput(true) twice should leave the input high")
	}
}

func TestNodeReturnsCopy(t *testing.T) {
	c := New(nil)
	id := mustAdd(t, c, "AND", 0, 0)
	n, _ := c.Node(id)
	n.X = 999
	n.Inputs[0] = true
	again, _ := c.Node(id)
	if again.X != 0 || again.Inputs[0] {
		t.Error("mutating a returned node must not affect the circuit")
	}
}

func TestNodeByLabel(t *testing.T) {
	c := New(nil)
	id := mustAdd(t, c, "INPUT", 0, 0)
	if err := c.SetLabel(id, "  enable "); err != nil {
		t.Fatal(err)
	}
	n, ok := c.NodeByLabel("enable")
	if !ok || n.ID != id {
		t.Errorf("NodeByLabel = %v, %v", n, ok)
	}
}

func TestCustomKind(t *testing.T) {
	reg := DefaultRegistry()
	err := reg.Register(KindSpec{
		Kind: "MAJ3", Inputs: 3, Outputs: 1, Width: 80, Height: 80,
		Eval: func(in, out []bool) {
			n := 0
			for _, v := range in {
				if v {
					n++
				}
			}
			out[0] = n >= 2
		},
	})
	if err != nil {
		t.Fatal(err)
	}
	if err := reg.Register(KindSpec{Kind: "and", Inputs: 1, Outputs: 1, Width: 1, Height: 1}); err == nil {
		t.Error("expected duplicate key to be rejected")
	}

	c := New(reg)
	a := mustAdd(t, c, "INPUT", 0, 0)
	b := mustAdd(t, c, "INPUT", 0, 100)
	m := mustAdd(t, c, "maj3", 100, 0)
	mustConnect(t, c, a, 0, m, 0)
	mustConnect(t, c, b, 0, m, 2)
	_ = c.SetInput(a, true)
	n, _ := c.Node(m)
	if n.Outputs[0] {
		t.Error("one of three high should be low")
	}
	_ = c.SetInput(b, true)
	n, _ = c.Node(m)
	if !n.Outputs[0] {
		t.Error("two of three high should be high")
	}
}

func TestCloneIsIndependent(t *testing.T) {
	c := New(nil)
	sw := mustAdd(t, c, "INPUT", 0, 0)
	lamp := mustAdd(t, c, "OUTPUT", 100, 0)
	mustConnect(t, c, sw, 0, lamp, 0)

	cp := c.Clone()
	if err := cp.ToggleInput(sw, 0); err != nil {
		t.Fatal(err)
	}
	n, _ := c.Node(lamp)
	if n.Inputs[0] {
		t.Error("toggling the clone changed the original")
	}
	id := mustAdd(t, cp, "AND", 0, 0)
	if _, ok := c.Node(id); ok {
		t.Error("node added to clone appeared in original")
	}
}
