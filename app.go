package main

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"log"
	"strings"
	"sync"

	"github.com/chazu/logica/pkg/circuit"
	"github.com/chazu/logica/pkg/config"
	"github.com/chazu/logica/pkg/editor"
	"github.com/chazu/logica/pkg/engine"
	"github.com/chazu/logica/pkg/render"
	"github.com/chazu/logica/pkg/render/ggsurface"
	"github.com/chazu/logica/pkg/store"
)

// App is the Wails backend. It exposes methods to the frontend via bindings.
// All bindings serialise on one mutex: the editor is not safe for
// concurrent use.
type App struct {
	ctx    context.Context
	mu     sync.Mutex
	cfg    *config.Config
	engine *engine.Engine
	editor *editor.Editor
	theme  render.Theme
}

// EvalErrorData is a JSON-serializable eval error for the frontend.
type EvalErrorData struct {
	Line    int    `json:"line"`
	Col     int    `json:"col"`
	Message string `json:"message"`
}

// EvalResult is the result of loading a script, returned to the frontend.
// On errors the current circuit is left untouched.
type EvalResult struct {
	View     editor.View     `json:"view"`
	Errors   []EvalErrorData `json:"errors"`
	Warnings []EvalErrorData `json:"warnings"`
}

// EventResult is returned by every input binding.
type EventResult struct {
	Outcome editor.Outcome `json:"outcome"`
	Error   string         `json:"error,omitempty"`
	View    editor.View    `json:"view"`
}

// KindInfo describes one palette entry.
type KindInfo struct {
	Kind    string `json:"kind"`
	Title   string `json:"title"`
	Inputs  int    `json:"inputs"`
	Outputs int    `json:"outputs"`
}

// TruthData is a truth table in frontend form. Rows hold 0/1 strings, inputs
// first.
type TruthData struct {
	Inputs  []string `json:"inputs"`
	Outputs []string `json:"outputs"`
	Rows    []string `json:"rows"`
	Error   string   `json:"error,omitempty"`
}

// NewApp creates an App from the user config, falling back to defaults.
func NewApp() *App {
	app, err := NewAppWithConfig(config.Load())
	if err != nil {
		log.Printf("config rejected, using defaults: %v", err)
		app, _ = NewAppWithConfig(config.Default())
	}
	return app
}

// NewAppWithConfig creates an App with an empty circuit.
func NewAppWithConfig(cfg *config.Config) (*App, error) {
	reg := circuit.DefaultRegistry()
	ed, err := editor.New(cfg, circuit.New(reg))
	if err != nil {
		return nil, err
	}
	return &App{
		cfg:    ed.Config(),
		engine: engine.NewEngine(reg),
		editor: ed,
		theme:  render.ThemeFromConfig(ed.Config().Render),
	}, nil
}

// startup is called by Wails on app startup. The context is saved
// so we can call Wails runtime methods later if needed.
func (a *App) startup(ctx context.Context) {
	a.ctx = ctx
}

func (a *App) event(o editor.Outcome, err error) EventResult {
	res := EventResult{Outcome: o, View: a.editor.View()}
	if err != nil {
		res.Error = err.Error()
	}
	return res
}

// View returns the current render snapshot.
func (a *App) View() editor.View {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.editor.View()
}

// Resize records the canvas size in pixels.
func (a *App) Resize(width, height float64) editor.View {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.editor.SetViewport(width, height)
	return a.editor.View()
}

// PointerDown forwards a press. button is 0 for primary, 2 for secondary,
// matching DOM MouseEvent.button.
func (a *App) PointerDown(x, y float64, button int) EventResult {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.event(a.editor.PointerDown(pointer(x, y, button)))
}

// PointerMove forwards a move.
func (a *App) PointerMove(x, y float64) EventResult {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.event(a.editor.PointerMove(pointer(x, y, 0)))
}

// PointerUp forwards a release.
func (a *App) PointerUp(x, y float64, button int) EventResult {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.event(a.editor.PointerUp(pointer(x, y, button)))
}

// Wheel forwards a scroll; negative deltaY zooms in.
func (a *App) Wheel(x, y, deltaY float64) EventResult {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.event(a.editor.Wheel(editor.WheelEvent{X: x, Y: y, DeltaY: deltaY}))
}

// KeyDown forwards a key by its DOM KeyboardEvent.key name.
func (a *App) KeyDown(key string) EventResult {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.event(a.editor.KeyDown(key))
}

// AddNode adds a node of kind at the viewport centre.
func (a *App) AddNode(kind string) EventResult {
	a.mu.Lock()
	defer a.mu.Unlock()
	id, err := a.editor.AddNode(kind)
	return a.event(editor.Outcome{Action: editor.ActionAddNode, Node: id, Mode: a.editor.Mode()}, err)
}

func pointer(x, y float64, button int) editor.PointerEvent {
	b := editor.Primary
	if button == 2 {
		b = editor.Secondary
	}
	return editor.PointerEvent{X: x, Y: y, Button: b}
}

// Evaluate runs a circuit script and, if it succeeds, replaces the edited
// circuit with the result.
func (a *App) Evaluate(source string) EvalResult {
	a.mu.Lock()
	defer a.mu.Unlock()

	result := EvalResult{
		Errors:   []EvalErrorData{},
		Warnings: []EvalErrorData{},
	}

	res, err := a.engine.Run(source)
	if err != nil {
		log.Printf("Evaluate fatal error: %v", err)
		result.Errors = append(result.Errors, EvalErrorData{Message: err.Error()})
		result.View = a.editor.View()
		return result
	}

	for _, e := range res.Errors {
		result.Errors = append(result.Errors, EvalErrorData{
			Line:    e.Line,
			Col:     e.Col,
			Message: e.Message,
		})
	}
	if len(result.Errors) > 0 {
		result.View = a.editor.View()
		return result
	}

	if err := a.editor.SetCircuit(res.Circuit); err != nil {
		log.Printf("Evaluate: %v", err)
		result.Errors = append(result.Errors, EvalErrorData{Message: err.Error()})
	}
	for _, w := range res.Warnings {
		result.Warnings = append(result.Warnings, EvalErrorData{Message: w.Message})
	}
	result.View = a.editor.View()
	return result
}

// Export serialises the circuit as "yaml" or "json".
func (a *App) Export(format string) (string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	var buf bytes.Buffer
	if err := store.Encode(a.editor.Circuit(), format, &buf); err != nil {
		log.Printf("Export error: %v", err)
		return "", err
	}
	return buf.String(), nil
}

// Import replaces the circuit with a serialised document.
func (a *App) Import(data, format string) (editor.View, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	c, err := store.Decode(strings.NewReader(data), format, a.editor.Circuit().Registry())
	if err != nil {
		log.Printf("Import error: %v", err)
		return a.editor.View(), err
	}
	if err := a.editor.SetCircuit(c); err != nil {
		return a.editor.View(), err
	}
	return a.editor.View(), nil
}

// Reset clears the circuit and the camera.
func (a *App) Reset() editor.View {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.editor.Reset()
	return a.editor.View()
}

// Kinds lists the registered node kinds in palette order.
func (a *App) Kinds() []KindInfo {
	a.mu.Lock()
	defer a.mu.Unlock()

	reg := a.editor.Circuit().Registry()
	out := []KindInfo{}
	for _, k := range reg.Kinds() {
		spec, _ := reg.Spec(k)
		out = append(out, KindInfo{Kind: string(k), Title: spec.Title, Inputs: spec.Inputs, Outputs: spec.Outputs})
	}
	return out
}

// Truth enumerates the circuit's truth table.
func (a *App) Truth() TruthData {
	a.mu.Lock()
	defer a.mu.Unlock()

	td := TruthData{Inputs: []string{}, Outputs: []string{}, Rows: []string{}}
	t, err := circuit.TruthTable(a.editor.Circuit())
	if err != nil {
		td.Error = err.Error()
		return td
	}
	for _, n := range t.Inputs {
		td.Inputs = append(td.Inputs, nodeName(n))
	}
	for _, n := range t.Outputs {
		td.Outputs = append(td.Outputs, nodeName(n))
	}
	for _, r := range t.Rows {
		td.Rows = append(td.Rows, bits(r.Inputs)+" | "+bits(r.Outputs))
	}
	return td
}

func nodeName(n *circuit.Node) string {
	if n.Label != "" {
		return n.Label
	}
	return fmt.Sprintf("%s#%d", n.Kind, n.ID)
}

func bits(vs []bool) string {
	b := make([]byte, len(vs))
	for i, v := range vs {
		b[i] = '0'
		if v {
			b[i] = '1'
		}
	}
	return string(b)
}

// Frame rasterises the current view and returns it as a PNG data URL.
func (a *App) Frame() (string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	v := a.editor.View()
	s, err := ggsurface.New(int(v.Width), int(v.Height))
	if err != nil {
		return "", err
	}
	defer s.Close()
	if err := s.UseFont(a.cfg.Render.Font, a.cfg.Render.FontSize); err != nil {
		log.Printf("Frame: %v", err)
	}
	if err := render.Draw(v, s, a.theme); err != nil {
		log.Printf("Frame draw error: %v", err)
		return "", err
	}
	var buf bytes.Buffer
	if err := s.EncodePNG(&buf); err != nil {
		return "", err
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}
