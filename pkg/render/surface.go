// Package render paints an editor view onto a drawing surface.
// Surfaces (gg raster, recorders in tests) implement the Surface
// interface; the painter never talks to a concrete backend, so backends
// can be swapped without touching the rest of the system.
package render

import (
	"github.com/chazu/logica/pkg/config"
)

// Surface is the abstract 2D drawing target. All coordinates are in
// screen pixels. Shape methods append to the current path; Fill and
// Stroke consume it.
type Surface interface {
	// Size of the target in pixels.
	Size() (width, height int)

	// State
	Clear(hex string)
	SetColor(hex string)
	SetLineWidth(w float64)
	SetDash(lengths ...float64) // no arguments restores solid lines

	// Path building
	Rect(x, y, w, h float64)
	RoundedRect(x, y, w, h, r float64)
	Circle(x, y, r float64)
	Line(x1, y1, x2, y2 float64)

	// Painting
	Fill() error
	Stroke() error

	// Text draws s centred on (x, y). Surfaces without a font may ignore it.
	Text(s string, x, y float64)
}

// Theme holds the colours a frame is painted with, as hex strings.
type Theme struct {
	Background   string
	Grid         string
	Node         string
	NodeHovered  string
	NodeSelected string
	Border       string
	Text         string
	WireOn       string
	WireOff      string
	Toolbar      string
	Button       string
	Menu         string
	Warning      string
	LineWidth    float64
}

// ThemeFromConfig builds a theme from the [render] config section.
func ThemeFromConfig(rc config.RenderConfig) Theme {
	t := Theme{
		Background:   rc.Background,
		Grid:         rc.Grid,
		Node:         rc.Node,
		NodeHovered:  rc.NodeHovered,
		NodeSelected: rc.NodeSelected,
		Border:       rc.Border,
		Text:         rc.Text,
		WireOn:       rc.WireOn,
		WireOff:      rc.WireOff,
		Toolbar:      rc.Toolbar,
		Button:       rc.Button,
		Menu:         rc.Menu,
		Warning:      rc.Warning,
		LineWidth:    rc.LineWidth,
	}
	if t.LineWidth <= 0 {
		t.LineWidth = 2
	}
	return t
}

// DefaultTheme is the theme of the default configuration.
func DefaultTheme() Theme {
	return ThemeFromConfig(config.Default().Render)
}

func (t Theme) wire(on bool) string {
	if on {
		return t.WireOn
	}
	return t.WireOff
}
