package camera

import (
	"math"
	"testing"

	"github.com/chazu/logica/pkg/circuit"
)

func near(a, b circuit.Point) bool {
	return math.Abs(a.X-b.X) < 1e-9 && math.Abs(a.Y-b.Y) < 1e-9
}

func TestScreenToWorld(t *testing.T) {
	tests := []struct {
		name   string
		cam    Camera
		screen circuit.Point
		want   circuit.Point
	}{
		{"identity", New(), circuit.Pt(30, 40), circuit.Pt(30, 40)},
		{"scaled", Camera{Scale: 2, MinScale: 0.1, MaxScale: 5}, circuit.Pt(30, 40), circuit.Pt(15, 20)},
		{"offset", Camera{Scale: 2, Offset: circuit.Pt(10, 10), MinScale: 0.1, MaxScale: 5},
			circuit.Pt(30, 40), circuit.Pt(5, 10)},
		{"origin", Camera{Scale: 1, Origin: circuit.Pt(100, 50), MinScale: 0.1, MaxScale: 5},
			circuit.Pt(130, 90), circuit.Pt(30, 40)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.cam.ScreenToWorld(tt.screen)
			if !near(got, tt.want) {
				t.Errorf("ScreenToWorld(%+v) = %+v, want %+v", tt.screen, got, tt.want)
			}
			back := tt.cam.WorldToScreen(got)
			if !near(back, tt.screen) {
				t.Errorf("round trip = %+v, want %+v", back, tt.screen)
			}
		})
	}
}

func TestPanDividesByScale(t *testing.T) {
	c := New()
	c.SetScale(2)
	c.Pan(20, -10)
	if c.Offset != circuit.Pt(10, -5) {
		t.Errorf("offset = %+v, want (10,-5)", c.Offset)
	}
}

func TestZoomClamps(t *testing.T) {
	c := New()
	for i := 0; i < 100; i++ {
		c.Zoom(1.1)
	}
	if c.Scale != DefaultMaxScale {
		t.Errorf("scale = %v, want clamp at %v", c.Scale, DefaultMaxScale)
	}
	for i := 0; i < 100; i++ {
		c.Zoom(0.9)
	}
	if c.Scale != DefaultMinScale {
		t.Errorf("scale = %v, want clamp at %v", c.Scale, DefaultMinScale)
	}
}

func TestZoomAtKeepsAnchor(t *testing.T) {
	c := New()
	c.Offset = circuit.Pt(3, 7)
	anchor := circuit.Pt(200, 120)
	before := c.ScreenToWorld(anchor)
	c.ZoomAt(1.5, anchor)
	if !near(c.ScreenToWorld(anchor), before) {
		t.Errorf("anchor drifted from %+v to %+v", before, c.ScreenToWorld(anchor))
	}
	if c.Scale != 1.5 {
		t.Errorf("scale = %v", c.Scale)
	}
}

func TestSetScaleIgnoresNaN(t *testing.T) {
	c := New()
	c.SetScale(math.NaN())
	c.SetScale(math.Inf(1))
	if c.Scale != 1 {
		t.Errorf("scale = %v, want 1", c.Scale)
	}
}

func TestResetKeepsOrigin(t *testing.T) {
	c := New()
	c.Origin = circuit.Pt(5, 5)
	c.Pan(40, 40)
	c.SetScale(3)
	c.Reset()
	if c.Scale != 1 || c.Offset != (circuit.Point{}) || c.Origin != circuit.Pt(5, 5) {
		t.Errorf("after reset: %+v", c)
	}
}

func TestWithLimits(t *testing.T) {
	c := New()
	c.SetScale(4)
	c = c.WithLimits(0.5, 2)
	if c.Scale != 2 {
		t.Errorf("scale = %v, want clamped to 2", c.Scale)
	}
	c = c.WithLimits(3, 1)
	if c.MinScale != DefaultMinScale || c.MaxScale != DefaultMaxScale {
		t.Errorf("invalid limits should fall back, got %v..%v", c.MinScale, c.MaxScale)
	}
}

func TestVisible(t *testing.T) {
	c := New()
	c.SetScale(2)
	c.Offset = circuit.Pt(-100, 0)
	r := c.Visible(800, 600)
	want := circuit.Rect{X: 100, Y: 0, W: 400, H: 300}
	if r != want {
		t.Errorf("Visible = %+v, want %+v", r, want)
	}
}
