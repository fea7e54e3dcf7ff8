package circuit

import (
	"errors"
	"reflect"
	"testing"
)

func halfAdder(t *testing.T) (*Circuit, NodeID, NodeID, NodeID, NodeID) {
	t.Helper()
	c := New(nil)
	a := mustAdd(t, c, "INPUT", 0, 0)
	b := mustAdd(t, c, "INPUT", 0, 100)
	x := mustAdd(t, c, "XOR", 150, 0)
	and := mustAdd(t, c, "AND", 150, 100)
	sum := mustAdd(t, c, "OUTPUT", 300, 0)
	carry := mustAdd(t, c, "OUTPUT", 300, 100)
	_ = c.SetLabel(a, "a")
	_ = c.SetLabel(b, "b")
	_ = c.SetLabel(sum, "sum")
	_ = c.SetLabel(carry, "carry")
	mustConnect(t, c, a, 0, x, 0)
	mustConnect(t, c, b, 0, x, 1)
	mustConnect(t, c, a, 0, and, 0)
	mustConnect(t, c, b, 0, and, 1)
	mustConnect(t, c, x, 0, sum, 0)
	mustConnect(t, c, and, 0, carry, 0)
	return c, a, b, sum, carry
}

func TestSnapshotRestoreRoundTrip(t *testing.T) {
	c, a, _, _, _ := halfAdder(t)
	_ = c.ToggleInput(a, 0)

	doc := c.Snapshot()
	if doc.Version != DocumentVersion {
		t.Errorf("version = %d", doc.Version)
	}
	if len(doc.Nodes) != 6 || len(doc.Connections) != 6 {
		t.Fatalf("snapshot has %d nodes, %d connections", len(doc.Nodes), len(doc.Connections))
	}

	restored, err := Restore(nil, doc)
	if err != nil {
		t.Fatalf("Restore: %v", err)
	}
	if !reflect.DeepEqual(restored.Snapshot(), doc) {
		t.Errorf("round trip mismatch:\n got %+v\nwant %+v", restored.Snapshot(), doc)
	}

	// New IDs continue after the restored ones.
	id := mustAdd(t, restored, "NOT", 0, 0)
	for _, rec := range doc.Nodes {
		if rec.ID == id {
			t.Errorf("restored circuit reused id %s", id)
		}
	}
}

func TestRestoreRejectsInvalidDocuments(t *testing.T) {
	base := func() Document {
		c, _, _, _, _ := halfAdder(t)
		return c.Snapshot()
	}

	tests := []struct {
		name   string
		mutate func(*Document)
	}{
		{"unknown kind", func(d *Document) { d.Nodes[0].Kind = "TUBE" }},
		{"duplicate node id", func(d *Document) { d.Nodes[1].ID = d.Nodes[0].ID }},
		{"dangling connection", func(d *Document) { d.Connections[0].Source.Node = 999 }},
		{"port out of range", func(d *Document) { d.Connections[0].Target.Port = 5 }},
		{"double driver", func(d *Document) {
			d.Connections = append(d.Connections, ConnRecord{
				ID: 99, Source: d.Connections[1].Source, Target: d.Connections[0].Target,
			})
		}},
		{"self connection", func(d *Document) {
			d.Connections[0].Source.Node = d.Connections[0].Target.Node
		}},
		{"future version", func(d *Document) { d.Version = DocumentVersion + 1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := base()
			tt.mutate(&doc)
			c, err := Restore(nil, doc)
			if err == nil {
				t.Fatal("expected error")
			}
			if c != nil {
				t.Error("no circuit should be returned on error")
			}
		})
	}
}

func TestRestoreUnknownKindIsTyped(t *testing.T) {
	doc := Document{Version: 1, Nodes: []NodeRecord{{ID: 1, Kind: "TUBE"}}}
	_, err := Restore(nil, doc)
	var uk *UnknownKindError
	if !errors.As(err, &uk) {
		t.Errorf("expected UnknownKindError in chain, got %v", err)
	}
}

func TestRestoreKeepsLatchState(t *testing.T) {
	c := New(nil)
	s := mustAdd(t, c, "INPUT", 0, 0)
	r := mustAdd(t, c, "INPUT", 0, 200)
	top := mustAdd(t, c, "NOR", 200, 0)
	bottom := mustAdd(t, c, "NOR", 200, 200)
	mustConnect(t, c, s, 0, top, 0)
	mustConnect(t, c, r, 0, bottom, 1)
	mustConnect(t, c, top, 0, bottom, 0)
	mustConnect(t, c, bottom, 0, top, 1)
	_ = c.SetInput(s, true)
	_ = c.SetInput(s, false)

	restored, err := Restore(nil, c.Snapshot())
	if err != nil {
		t.Fatal(err)
	}
	n, _ := restored.Node(bottom)
	if !n.Outputs[0] {
		t.Error("restored latch lost its set state")
	}
}

func TestRestoreRepairsBlankLatch(t *testing.T) {
	c := New(nil)
	s := mustAdd(t, c, "INPUT", 0, 0)
	r := mustAdd(t, c, "INPUT", 0, 200)
	top := mustAdd(t, c, "NOR", 200, 0)
	bottom := mustAdd(t, c, "NOR", 200, 200)
	mustConnect(t, c, s, 0, top, 0)
	mustConnect(t, c, r, 0, bottom, 1)
	mustConnect(t, c, top, 0, bottom, 0)
	mustConnect(t, c, bottom, 0, top, 1)

	// A hand-written document with every slot low.
	doc := c.Snapshot()
	for i := range doc.Nodes {
		for j := range doc.Nodes[i].Inputs {
			doc.Nodes[i].Inputs[j] = false
		}
		for j := range doc.Nodes[i].Outputs {
			doc.Nodes[i].Outputs[j] = false
		}
	}

	restored, err := Restore(nil, doc)
	if err != nil {
		t.Fatal(err)
	}
	if st := restored.Status(); !st.Stable() {
		t.Fatalf("status = %+v, want converged", st)
	}
	q, _ := restored.Node(bottom)
	qbar, _ := restored.Node(top)
	if q.Outputs[0] == qbar.Outputs[0] {
		t.Errorf("Q=%v Q'=%v, want complementary", q.Outputs[0], qbar.Outputs[0])
	}
}

func TestRestoreLeavesConsistentStateAlone(t *testing.T) {
	c, a, b, _, carry := halfAdder(t)
	_ = c.SetInput(a, true)
	_ = c.SetInput(b, true)

	restored, err := Restore(nil, c.Snapshot())
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(restored.Snapshot(), c.Snapshot()) {
		t.Error("restoring a settled document changed its slots")
	}
	if st := restored.Status(); st.Iterations != 1 {
		t.Errorf("settled document took %d passes, want 1", st.Iterations)
	}
	n, _ := restored.Node(carry)
	if !n.Outputs[0] {
		t.Error("carry should stay high")
	}
}
