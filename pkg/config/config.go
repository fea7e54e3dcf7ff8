// Package config loads editor settings from a TOML file under the user's
// config directory.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config holds logica configuration.
type Config struct {
	Camera  CameraConfig  `toml:"camera"`
	Canvas  CanvasConfig  `toml:"canvas"`
	Toolbar ToolbarConfig `toml:"toolbar"`
	Render  RenderConfig  `toml:"render"`
}

// CameraConfig controls zoom behaviour.
type CameraConfig struct {
	MinScale     float64 `toml:"min_scale"`
	MaxScale     float64 `toml:"max_scale"`
	ZoomStep     float64 `toml:"zoom_step"`
	ZoomToCursor bool    `toml:"zoom_to_cursor"`
}

// CanvasConfig controls hit-testing and the viewport.
type CanvasConfig struct {
	PickRadius float64 `toml:"pick_radius"`
	Width      float64 `toml:"width"`
	Height     float64 `toml:"height"`
	GridSize   float64 `toml:"grid_size"`
}

// ToolbarConfig lays out the node palette strip along the top of the screen.
type ToolbarConfig struct {
	Height      float64  `toml:"height"`
	X           float64  `toml:"x"`
	Stride      float64  `toml:"stride"`
	ButtonWidth float64  `toml:"button_width"`
	Palette     []string `toml:"palette"` // kind keys, in button order
}

// RenderConfig holds theme colours as hex strings.
type RenderConfig struct {
	Background   string  `toml:"background"`
	Grid         string  `toml:"grid"`
	Node         string  `toml:"node"`
	NodeHovered  string  `toml:"node_hovered"`
	NodeSelected string  `toml:"node_selected"`
	Border       string  `toml:"border"`
	Text         string  `toml:"text"`
	WireOn       string  `toml:"wire_on"`
	WireOff      string  `toml:"wire_off"`
	Toolbar      string  `toml:"toolbar"`
	Button       string  `toml:"button"`
	Menu         string  `toml:"menu"`
	Warning      string  `toml:"warning"`
	LineWidth    float64 `toml:"line_width"`
	Font         string  `toml:"font"` // TTF path; empty uses the built-in Go font
	FontSize     float64 `toml:"font_size"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Camera: CameraConfig{MinScale: 0.1, MaxScale: 5, ZoomStep: 0.1},
		Canvas: CanvasConfig{PickRadius: 5, Width: 1280, Height: 800, GridSize: 20},
		Toolbar: ToolbarConfig{
			Height:      50,
			X:           20,
			Stride:      60,
			ButtonWidth: 50,
			Palette:     []string{"AND", "OR", "NOT", "INPUT", "OUTPUT"},
		},
		Render: RenderConfig{
			Background:   "#1a202c",
			Grid:         "#2d3748",
			Node:         "#4a5568",
			NodeHovered:  "#5a6578",
			NodeSelected: "#63b3ed",
			Border:       "#e2e8f0",
			Text:         "#ffffff",
			WireOn:       "#48bb78",
			WireOff:      "#a0aec0",
			Toolbar:      "#2d3748",
			Button:       "#4a5568",
			Menu:         "#2d3748",
			Warning:      "#f56565",
			LineWidth:    2,
			FontSize:     12,
		},
	}
}

// ConfigDir returns the logica config directory path.
func ConfigDir() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, _ := os.UserHomeDir()
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "logica")
}

// Path returns the default config file path.
func Path() string {
	return filepath.Join(ConfigDir(), "config.toml")
}

// Load reads the config file at the default path. A missing or unreadable
// file yields the defaults.
func Load() *Config {
	cfg, err := LoadFile(Path())
	if err != nil {
		return Default()
	}
	return cfg
}

// LoadFile reads a config file, filling anything it leaves unset from the
// defaults. Unlike Load it reports every failure.
func LoadFile(path string) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	if _, err := toml.Decode(string(data), cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	if c.Camera.MinScale <= 0 || c.Camera.MaxScale < c.Camera.MinScale {
		return fmt.Errorf("camera scale range [%g, %g] is invalid", c.Camera.MinScale, c.Camera.MaxScale)
	}
	if c.Camera.ZoomStep <= 0 || c.Camera.ZoomStep >= 1 {
		return fmt.Errorf("camera zoom_step %g must be in (0, 1)", c.Camera.ZoomStep)
	}
	if c.Canvas.PickRadius <= 0 {
		return fmt.Errorf("canvas pick_radius %g must be positive", c.Canvas.PickRadius)
	}
	if c.Canvas.Width <= 0 || c.Canvas.Height <= 0 {
		return fmt.Errorf("canvas size %gx%g must be positive", c.Canvas.Width, c.Canvas.Height)
	}
	if c.Toolbar.Height < 0 || c.Toolbar.ButtonWidth <= 0 || c.Toolbar.Stride < c.Toolbar.ButtonWidth {
		return fmt.Errorf("toolbar layout is invalid")
	}
	if c.Render.FontSize < 0 {
		return fmt.Errorf("render font_size %g must not be negative", c.Render.FontSize)
	}
	return nil
}

// Save writes the config to the default path.
func Save(cfg *Config) error {
	return SaveFile(Path(), cfg)
}

// SaveFile writes the config to path, creating parent directories.
func SaveFile(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return toml.NewEncoder(f).Encode(cfg)
}

// EnsureExists creates the config file with defaults if it doesn't exist.
func EnsureExists() error {
	if _, err := os.Stat(Path()); err == nil {
		return nil
	}
	return Save(Default())
}
