package ggsurface

import (
	"bytes"
	"image/png"
	"path/filepath"
	"testing"

	"github.com/chazu/logica/pkg/editor"
	"github.com/chazu/logica/pkg/render"
	"github.com/gogpu/gg"
)

func near(a, b uint32) bool {
	d := int(a>>8) - int(b>>8)
	return d >= -2 && d <= 2
}

func TestRenderFrameToPNG(t *testing.T) {
	e, err := editor.New(nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	e.SetViewport(400, 300)
	if _, err := e.AddNode("AND"); err != nil {
		t.Fatal(err)
	}

	s, err := New(400, 300)
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	theme := render.DefaultTheme()
	if err := render.Draw(e.View(), s, theme); err != nil {
		t.Fatalf("Draw: %v", err)
	}

	var buf bytes.Buffer
	if err := s.EncodePNG(&buf); err != nil {
		t.Fatal(err)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 400 || b.Dy() != 300 {
		t.Fatalf("bounds = %v", b)
	}

	check := func(x, y int, hex string) {
		t.Helper()
		r, g, b, _ := img.At(x, y).RGBA()
		wr, wg, wb, _ := gg.Hex(hex).Color().RGBA()
		if !near(r, wr) || !near(g, wg) || !near(b, wb) {
			t.Errorf("pixel (%d,%d) = %d,%d,%d, want %s", x, y, r>>8, g>>8, b>>8, hex)
		}
	}
	check(5, 5, theme.Toolbar)
	check(10, 290, theme.Background)
	// The spawned gate is centred on (200, 150); sample its body clear of the caption.
	check(170, 130, theme.Node)
}

func TestSavePNG(t *testing.T) {
	s, err := New(64, 64)
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()
	s.Clear("#ff0000")
	path := filepath.Join(t.TempDir(), "frame.png")
	if err := s.SavePNG(path); err != nil {
		t.Fatal(err)
	}
}

func TestNewRejectsEmptySize(t *testing.T) {
	if _, err := New(0, 10); err == nil {
		t.Error("expected error")
	}
}

func TestUseFontMissingFile(t *testing.T) {
	s, err := New(10, 10)
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()
	if err := s.UseFont(filepath.Join(t.TempDir(), "nope.ttf"), 10); err == nil {
		t.Error("expected error for missing font")
	}
}
