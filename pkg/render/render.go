package render

import (
	"fmt"
	"math"
	"strings"

	"github.com/chazu/logica/pkg/camera"
	"github.com/chazu/logica/pkg/circuit"
	"github.com/chazu/logica/pkg/editor"
)

const (
	portRadius     = 4.0
	cornerRadius   = 5.0
	minGridSpacing = 4.0 // grid lines closer than this many pixels are skipped
	bannerHeight   = 24.0
	panelWidth     = 160.0
	panelRow       = 18.0
)

// Draw paints one frame of v onto s. World geometry is mapped through the
// view's camera; toolbar and menu are drawn in screen space on top. The
// first Fill or Stroke error is returned, but painting continues so a
// partial frame is still produced.
func Draw(v editor.View, s Surface, t Theme) error {
	w, h := v.Width, v.Height
	if w <= 0 || h <= 0 {
		sw, sh := s.Size()
		w, h = float64(sw), float64(sh)
	}
	p := &painter{s: s, t: t, cam: v.Camera, w: w, h: h}
	p.scale = p.cam.WorldToScreen(circuit.Pt(1, 0)).X - p.cam.WorldToScreen(circuit.Point{}).X

	s.Clear(t.Background)
	p.grid(v.GridSize)
	for _, c := range v.Connections {
		p.connection(c)
	}
	for _, n := range v.Nodes {
		p.node(n)
	}
	if v.RubberBand != nil {
		p.rubberBand(*v.RubberBand)
	}
	p.toolbar(v.Toolbar)
	if v.Menu != nil {
		p.menu(*v.Menu)
	}
	if v.Inspected != nil {
		p.inspector(*v.Inspected, v.Toolbar.Height)
	}
	if !v.Status.Stable() {
		p.banner(v.Status)
	}
	return p.err
}

type painter struct {
	s     Surface
	t     Theme
	cam   camera.Camera
	scale float64
	w, h  float64
	err   error
}

func (p *painter) fill(hex string) {
	p.s.SetColor(hex)
	p.keep(p.s.Fill())
}

func (p *painter) stroke(hex string, width float64) {
	p.s.SetColor(hex)
	p.s.SetLineWidth(width)
	p.keep(p.s.Stroke())
}

func (p *painter) keep(err error) {
	if err != nil && p.err == nil {
		p.err = err
	}
}

func (p *painter) toScreen(w circuit.Point) circuit.Point {
	return p.cam.WorldToScreen(w)
}

func (p *painter) grid(size float64) {
	if size <= 0 || size*p.scale < minGridSpacing {
		return
	}
	vis := p.cam.Visible(p.w, p.h)
	lines := 0
	for x := math.Floor(vis.X/size) * size; x <= vis.X+vis.W; x += size {
		sx := p.toScreen(circuit.Pt(x, 0)).X
		p.s.Line(sx, 0, sx, p.h)
		lines++
	}
	for y := math.Floor(vis.Y/size) * size; y <= vis.Y+vis.H; y += size {
		sy := p.toScreen(circuit.Pt(0, y)).Y
		p.s.Line(0, sy, p.w, sy)
		lines++
	}
	if lines > 0 {
		p.stroke(p.t.Grid, 1)
	}
}

func (p *painter) connection(c editor.ConnView) {
	a, b := p.toScreen(c.Start), p.toScreen(c.End)
	p.s.Line(a.X, a.Y, b.X, b.Y)
	p.stroke(p.t.wire(c.Value), p.t.LineWidth)
}

func (p *painter) node(n editor.NodeView) {
	tl := p.toScreen(circuit.Pt(n.Bounds.X, n.Bounds.Y))
	w, h := n.Bounds.W*p.scale, n.Bounds.H*p.scale

	body := p.t.Node
	switch {
	case n.Selected:
		body = p.t.NodeSelected
	case n.Hovered:
		body = p.t.NodeHovered
	}
	p.s.RoundedRect(tl.X, tl.Y, w, h, cornerRadius*p.scale)
	p.fill(body)
	p.s.RoundedRect(tl.X, tl.Y, w, h, cornerRadius*p.scale)
	p.stroke(p.t.Border, 1)

	centre := circuit.Pt(tl.X+w/2, tl.Y+h/2)
	switch n.Kind {
	case circuit.KindInput:
		p.s.Circle(centre.X, centre.Y, circuit.ToggleRadius*p.scale)
		p.fill(p.t.wire(n.Value))
	case circuit.KindOutput:
		p.s.Circle(centre.X, centre.Y, math.Min(w, h)/3)
		p.fill(p.t.wire(n.Value))
	case circuit.KindSegment7:
		p.segments(n, tl, w, h)
	default:
		p.s.SetColor(p.t.Text)
		p.s.Text(string(n.Kind), centre.X, centre.Y)
	}
	if n.Label != "" {
		p.s.SetColor(p.t.Text)
		p.s.Text(n.Label, centre.X, tl.Y+h+10*p.scale)
	}

	for _, port := range n.Inputs {
		p.port(port)
	}
	for _, port := range n.Outputs {
		p.port(port)
	}

	if n.Inspected {
		p.s.SetDash(4, 3)
		p.s.Rect(tl.X-3, tl.Y-3, w+6, h+6)
		p.stroke(p.t.NodeSelected, 1)
		p.s.SetDash()
	}
}

func (p *painter) port(pv editor.PortView) {
	at := p.toScreen(pv.At)
	p.s.Circle(at.X, at.Y, portRadius*p.scale)
	p.fill(p.t.wire(pv.Value))
}

// segmentRects lays out the bars of a seven-segment digit inside a w by h
// box, in input order: a (top), b, c, d (bottom), e, f, g (middle).
func segmentRects(w, h float64) [7]circuit.Rect {
	m := math.Min(w, h) / 6
	t := m * 0.6
	bw := w - 2*m
	half := (h - 2*m) / 2
	return [7]circuit.Rect{
		{X: m, Y: m, W: bw, H: t},
		{X: m + bw - t, Y: m, W: t, H: half},
		{X: m + bw - t, Y: m + half, W: t, H: half},
		{X: m, Y: m + 2*half - t, W: bw, H: t},
		{X: m, Y: m + half, W: t, H: half},
		{X: m, Y: m, W: t, H: half},
		{X: m, Y: m + half - t/2, W: bw, H: t},
	}
}

func (p *painter) segments(n editor.NodeView, tl circuit.Point, w, h float64) {
	for i, r := range segmentRects(w, h) {
		lit := i < len(n.Inputs) && n.Inputs[i].Value
		p.s.Rect(tl.X+r.X, tl.Y+r.Y, r.W, r.H)
		p.fill(p.t.wire(lit))
	}
}

func (p *painter) rubberBand(rb editor.RubberBand) {
	a, b := p.toScreen(rb.Start), p.toScreen(rb.End)
	p.s.SetDash(5, 5)
	p.s.Line(a.X, a.Y, b.X, b.Y)
	p.stroke(p.t.WireOff, p.t.LineWidth)
	p.s.SetDash()
}

func (p *painter) toolbar(tb editor.Toolbar) {
	if tb.Height <= 0 {
		return
	}
	p.s.Rect(0, 0, p.w, tb.Height)
	p.fill(p.t.Toolbar)
	for _, b := range tb.Buttons {
		r := b.Rect
		p.s.RoundedRect(r.X, r.Y, r.W, r.H, 4)
		p.fill(p.t.Button)
		c := r.Center()
		p.s.SetColor(p.t.Text)
		p.s.Text(string(b.Kind), c.X, c.Y)
	}
}

func (p *painter) menu(m editor.Menu) {
	r := m.Bounds()
	p.s.Rect(r.X, r.Y, r.W, r.H)
	p.fill(p.t.Menu)
	p.s.Rect(r.X, r.Y, r.W, r.H)
	p.stroke(p.t.Border, 1)
	for _, it := range m.Items {
		c := it.Rect.Center()
		p.s.SetColor(p.t.Text)
		p.s.Text(it.Label, c.X, c.Y)
	}
}

// inspector draws the properties panel for the inspected node.
func (p *painter) inspector(n editor.NodeView, top float64) {
	rows := []string{fmt.Sprintf("#%d %s", n.ID, n.Kind)}
	if n.Label != "" {
		rows = append(rows, n.Label)
	}
	if len(n.Inputs) > 0 {
		rows = append(rows, "in  "+bits(n.Inputs))
	}
	if len(n.Outputs) > 0 {
		rows = append(rows, "out "+bits(n.Outputs))
	}

	x, y := p.w-panelWidth-10, top+10
	ph := float64(len(rows))*panelRow + 10
	p.s.Rect(x, y, panelWidth, ph)
	p.fill(p.t.Menu)
	p.s.Rect(x, y, panelWidth, ph)
	p.stroke(p.t.Border, 1)
	p.s.SetColor(p.t.Text)
	for i, row := range rows {
		p.s.Text(row, x+panelWidth/2, y+5+panelRow*(float64(i)+0.5))
	}
}

func bits(ports []editor.PortView) string {
	var b strings.Builder
	for i, pv := range ports {
		if i > 0 {
			b.WriteByte(' ')
		}
		if pv.Value {
			b.WriteByte('1')
		} else {
			b.WriteByte('0')
		}
	}
	return b.String()
}

func (p *painter) banner(st circuit.Status) {
	y := p.h - bannerHeight
	p.s.Rect(0, y, p.w, bannerHeight)
	p.fill(p.t.Warning)
	p.s.SetColor(p.t.Text)
	p.s.Text(fmt.Sprintf("circuit did not settle within %d passes", st.Cap), p.w/2, y+bannerHeight/2)
}
