package editor

import (
	"fmt"

	"github.com/chazu/logica/pkg/circuit"
	"github.com/chazu/logica/pkg/config"
)

// ToolbarButton is one palette button, in screen coordinates.
type ToolbarButton struct {
	Kind  circuit.Kind `json:"kind"`
	Title string       `json:"title"`
	Rect  circuit.Rect `json:"rect"`
}

// Toolbar is the strip of add-node buttons along the top of the screen.
type Toolbar struct {
	Height  float64         `json:"height"`
	Buttons []ToolbarButton `json:"buttons"`
}

// buttonInset is the vertical margin around buttons inside the strip.
const buttonInset = 10

func newToolbar(cfg config.ToolbarConfig, reg *circuit.Registry) (Toolbar, error) {
	tb := Toolbar{Height: cfg.Height}
	h := cfg.Height - 2*buttonInset
	if h <= 0 {
		h = cfg.Height
	}
	for i, key := range cfg.Palette {
		spec, ok := reg.Resolve(key)
		if !ok {
			return Toolbar{}, fmt.Errorf("toolbar palette: %w", &circuit.UnknownKindError{Key: key})
		}
		title := spec.Title
		if title == "" {
			title = string(spec.Kind)
		}
		tb.Buttons = append(tb.Buttons, ToolbarButton{
			Kind:  spec.Kind,
			Title: title,
			Rect: circuit.Rect{
				X: cfg.X + float64(i)*cfg.Stride,
				Y: (cfg.Height - h) / 2,
				W: cfg.ButtonWidth,
				H: h,
			},
		})
	}
	return tb, nil
}

// Contains reports whether a screen point lies on the toolbar strip.
func (t Toolbar) Contains(p circuit.Point) bool {
	return t.Height > 0 && p.Y <= t.Height
}

// ButtonAt returns the button under a screen point. Buttons span the full
// strip height for hit-testing; only the horizontal extent matters.
func (t Toolbar) ButtonAt(p circuit.Point) (ToolbarButton, bool) {
	if !t.Contains(p) {
		return ToolbarButton{}, false
	}
	for _, b := range t.Buttons {
		if p.X >= b.Rect.X && p.X <= b.Rect.X+b.Rect.W {
			return b, true
		}
	}
	return ToolbarButton{}, false
}
