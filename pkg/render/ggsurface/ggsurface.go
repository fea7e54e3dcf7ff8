// Package ggsurface is the raster render.Surface backed by gogpu/gg.
package ggsurface

import (
	"fmt"
	"io"

	"github.com/gogpu/gg"
	"github.com/gogpu/gg/text"
	"golang.org/x/image/font/gofont/goregular"
)

// DefaultFontSize is used when UseFont is given a non-positive size.
const DefaultFontSize = 12.0

// Surface draws into an in-memory gg context.
type Surface struct {
	dc *gg.Context
}

// New creates a width by height surface with the built-in Go font loaded.
func New(width, height int) (*Surface, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("surface size %dx%d must be positive", width, height)
	}
	s := &Surface{dc: gg.NewContext(width, height)}
	if err := s.UseFont("", DefaultFontSize); err != nil {
		s.Close()
		return nil, err
	}
	return s, nil
}

// UseFont switches the text face. An empty path selects Go Regular.
func (s *Surface) UseFont(path string, size float64) error {
	if size <= 0 {
		size = DefaultFontSize
	}
	var (
		src *text.FontSource
		err error
	)
	if path == "" {
		src, err = text.NewFontSource(goregular.TTF)
	} else {
		src, err = text.NewFontSourceFromFile(path)
	}
	if err != nil {
		return fmt.Errorf("load font %q: %w", path, err)
	}
	s.dc.SetFont(src.Face(size))
	return nil
}

func (s *Surface) Size() (int, int) { return s.dc.Width(), s.dc.Height() }

func (s *Surface) Clear(hex string) { s.dc.ClearWithColor(gg.Hex(hex)) }

func (s *Surface) SetColor(hex string) { s.dc.SetHexColor(hex) }

func (s *Surface) SetLineWidth(w float64) { s.dc.SetLineWidth(w) }

func (s *Surface) SetDash(lengths ...float64) { s.dc.SetDash(lengths...) }

func (s *Surface) Rect(x, y, w, h float64) { s.dc.DrawRectangle(x, y, w, h) }

func (s *Surface) RoundedRect(x, y, w, h, r float64) {
	s.dc.DrawRoundedRectangle(x, y, w, h, r)
}

func (s *Surface) Circle(x, y, r float64) { s.dc.DrawCircle(x, y, r) }

func (s *Surface) Line(x1, y1, x2, y2 float64) { s.dc.DrawLine(x1, y1, x2, y2) }

func (s *Surface) Fill() error { return s.dc.Fill() }

func (s *Surface) Stroke() error { return s.dc.Stroke() }

// Text draws s centred on (x, y).
func (s *Surface) Text(str string, x, y float64) {
	s.dc.DrawStringAnchored(str, x, y, 0.5, 0.5)
}

// EncodePNG writes the frame as PNG.
func (s *Surface) EncodePNG(w io.Writer) error { return s.dc.EncodePNG(w) }

// SavePNG writes the frame to a PNG file.
func (s *Surface) SavePNG(path string) error { return s.dc.SavePNG(path) }

// Close releases the context.
func (s *Surface) Close() error { return s.dc.Close() }
