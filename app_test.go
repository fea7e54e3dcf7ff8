package main

import (
	"os"
	"reflect"
	"strings"
	"testing"

	"github.com/chazu/logica/pkg/circuit"
	"github.com/chazu/logica/pkg/config"
	"github.com/chazu/logica/pkg/editor"
)

func newTestApp(t *testing.T) *App {
	t.Helper()
	app, err := NewAppWithConfig(config.Default())
	if err != nil {
		t.Fatal(err)
	}
	return app
}

func loadExample(t *testing.T, app *App, name string) EvalResult {
	t.Helper()
	source, err := os.ReadFile("examples/" + name)
	if err != nil {
		t.Fatalf("failed to read %s: %v", name, err)
	}
	result := app.Evaluate(string(source))
	if len(result.Errors) > 0 {
		for _, e := range result.Errors {
			t.Errorf("eval error (line %d): %s", e.Line, e.Message)
		}
		t.FailNow()
	}
	return result
}

// TestE2EHalfAdderExample exercises the full pipeline: script -> engine ->
// circuit -> editor view -> truth table. This is the same path the Wails
// bindings take, but without the Wails runtime.
func TestE2EHalfAdderExample(t *testing.T) {
	app := newTestApp(t)
	result := loadExample(t, app, "half_adder.logica")

	if len(result.View.Nodes) != 6 {
		t.Fatalf("expected 6 nodes, got %d", len(result.View.Nodes))
	}
	if len(result.View.Connections) != 6 {
		t.Fatalf("expected 6 connections, got %d", len(result.View.Connections))
	}
	if len(result.Warnings) != 0 {
		t.Errorf("unexpected warnings: %v", result.Warnings)
	}

	truth := app.Truth()
	if truth.Error != "" {
		t.Fatal(truth.Error)
	}
	if !reflect.DeepEqual(truth.Inputs, []string{"a", "b"}) || !reflect.DeepEqual(truth.Outputs, []string{"sum", "carry"}) {
		t.Errorf("columns = %v / %v", truth.Inputs, truth.Outputs)
	}
	want := []string{"00 | 00", "01 | 10", "10 | 10", "11 | 01"}
	if !reflect.DeepEqual(truth.Rows, want) {
		t.Errorf("rows = %v, want %v", truth.Rows, want)
	}
}

func TestE2ELatchExample(t *testing.T) {
	app := newTestApp(t)
	result := loadExample(t, app, "sr_latch.logica")
	if !result.View.Status.Stable() {
		t.Fatalf("latch should settle, got %+v", result.View.Status)
	}
	for _, n := range result.View.Nodes {
		if n.Label == "q" && !n.Value {
			t.Error("q should hold after a set pulse")
		}
	}
}

func TestE2EOscillatorExample(t *testing.T) {
	app := newTestApp(t)
	result := loadExample(t, app, "oscillator.logica")
	if result.View.Status.Stable() {
		t.Fatal("oscillator must not converge")
	}
	if len(result.Warnings) < 2 {
		t.Errorf("expected loop and non-convergence warnings, got %v", result.Warnings)
	}
}

func TestE2ESevenSegmentExample(t *testing.T) {
	app := newTestApp(t)
	result := loadExample(t, app, "seven_segment.logica")
	for _, n := range result.View.Nodes {
		if n.Kind != circuit.KindSegment7 {
			continue
		}
		var lit []int
		for i, p := range n.Inputs {
			if p.Value {
				lit = append(lit, i)
			}
		}
		if !reflect.DeepEqual(lit, []int{1, 2}) {
			t.Errorf("lit segments = %v, want [1 2]", lit)
		}
	}
}

// TestE2EEmptySource ensures the pipeline handles empty input gracefully.
func TestE2EEmptySource(t *testing.T) {
	app := newTestApp(t)
	result := app.Evaluate("")

	if len(result.Errors) > 0 {
		t.Errorf("unexpected errors for empty source: %v", result.Errors)
	}
	if len(result.View.Nodes) != 0 {
		t.Errorf("expected 0 nodes for empty source, got %d", len(result.View.Nodes))
	}
}

// TestE2ESyntaxError checks that a broken script reports an error and
// leaves the edited circuit alone.
func TestE2ESyntaxError(t *testing.T) {
	app := newTestApp(t)
	app.AddNode("AND")

	result := app.Evaluate(`(node :and "g"`)
	if len(result.Errors) == 0 {
		t.Fatal("expected errors for unmatched parens")
	}
	if len(result.View.Nodes) != 1 {
		t.Errorf("circuit should be unchanged, got %d nodes", len(result.View.Nodes))
	}
}

func TestE2EToolbarClickAddsNode(t *testing.T) {
	app := newTestApp(t)
	app.Resize(800, 600)
	b := app.View().Toolbar.Buttons[0]
	c := b.Rect.Center()

	res := app.PointerDown(c.X, c.Y, 0)
	if res.Error != "" {
		t.Fatal(res.Error)
	}
	if res.Outcome.Action != editor.ActionAddNode {
		t.Fatalf("action = %s, want add-node", res.Outcome.Action)
	}
	app.PointerUp(c.X, c.Y, 0)

	nodes := app.View().Nodes
	if len(nodes) != 1 || nodes[0].Kind != b.Kind {
		t.Fatalf("nodes = %+v", nodes)
	}
	if got := nodes[0].Bounds.Center(); got != circuit.Pt(400, 300) {
		t.Errorf("spawned at %+v, want viewport centre", got)
	}
}

func TestE2EExportImport(t *testing.T) {
	app := newTestApp(t)
	loadExample(t, app, "half_adder.logica")

	for _, format := range []string{"yaml", "json"} {
		t.Run(format, func(t *testing.T) {
			data, err := app.Export(format)
			if err != nil {
				t.Fatal(err)
			}
			other := newTestApp(t)
			view, err := other.Import(data, format)
			if err != nil {
				t.Fatalf("import: %v", err)
			}
			if len(view.Nodes) != 6 || len(view.Connections) != 6 {
				t.Errorf("imported %d nodes, %d connections", len(view.Nodes), len(view.Connections))
			}
			if !reflect.DeepEqual(other.Truth().Rows, app.Truth().Rows) {
				t.Error("imported circuit behaves differently")
			}
		})
	}
}

func TestE2EFrame(t *testing.T) {
	app := newTestApp(t)
	app.Resize(320, 240)
	app.AddNode("INPUT")

	url, err := app.Frame()
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(url, "data:image/png;base64,") || len(url) < 100 {
		t.Errorf("unexpected frame %.40q", url)
	}
}

func TestE2EKinds(t *testing.T) {
	app := newTestApp(t)
	kinds := app.Kinds()
	if len(kinds) != len(circuit.DefaultRegistry().Kinds()) {
		t.Fatalf("got %d kinds", len(kinds))
	}
	if kinds[0].Kind != "AND" || kinds[0].Inputs != 2 || kinds[0].Outputs != 1 {
		t.Errorf("first kind = %+v", kinds[0])
	}
}
