package editor

import (
	"github.com/chazu/logica/pkg/camera"
	"github.com/chazu/logica/pkg/circuit"
)

// View is an immutable snapshot of everything a renderer needs. Node,
// connection and rubber-band geometry is in world coordinates; toolbar and
// menu geometry is in screen coordinates.
type View struct {
	Mode        Mode           `json:"mode"`
	Camera      camera.Camera  `json:"camera"`
	Width       float64        `json:"width"`
	Height      float64        `json:"height"`
	GridSize    float64        `json:"grid_size"`
	Nodes       []NodeView     `json:"nodes"`
	Connections []ConnView     `json:"connections"`
	RubberBand  *RubberBand    `json:"rubber_band,omitempty"`
	Menu        *Menu          `json:"menu,omitempty"`
	Toolbar     Toolbar        `json:"toolbar"`
	Status      circuit.Status `json:"status"`
	Inspected   *NodeView      `json:"inspected,omitempty"`
}

// NodeView is one node as drawn.
type NodeView struct {
	ID         circuit.NodeID `json:"id"`
	Kind       circuit.Kind   `json:"kind"`
	Label      string         `json:"label,omitempty"`
	Bounds     circuit.Rect   `json:"bounds"`
	Inputs     []PortView     `json:"inputs"`
	Outputs    []PortView     `json:"outputs"`
	Value      bool           `json:"value"`
	Toggleable bool           `json:"toggleable,omitempty"`
	Selected   bool           `json:"selected,omitempty"`
	Hovered    bool           `json:"hovered,omitempty"`
	Inspected  bool           `json:"inspected,omitempty"`
}

// PortView is one port anchor and the value in its slot.
type PortView struct {
	Ref    circuit.PortRef `json:"ref"`
	At     circuit.Point   `json:"at"`
	Value  bool            `json:"value"`
	Driven bool            `json:"driven,omitempty"`
}

// ConnView is one connection with resolved endpoints and the value it
// carries.
type ConnView struct {
	ID    circuit.ConnID  `json:"id"`
	From  circuit.PortRef `json:"from"`
	To    circuit.PortRef `json:"to"`
	Start circuit.Point   `json:"start"`
	End   circuit.Point   `json:"end"`
	Value bool            `json:"value"`
}

// RubberBand is the provisional wire of a Connecting gesture.
type RubberBand struct {
	Origin circuit.PortRef `json:"origin"`
	Start  circuit.Point   `json:"start"`
	End    circuit.Point   `json:"end"`
}

// View builds a render snapshot of the editor.
func (e *Editor) View() View {
	v := View{
		Mode:     e.Mode(),
		Camera:   e.cam,
		Width:    e.width,
		Height:   e.height,
		GridSize: e.cfg.Canvas.GridSize,
		Toolbar:  e.toolbar,
		Status:   e.circ.Status(),
	}

	driven := make(map[circuit.PortRef]bool)
	for _, conn := range e.circ.Connections() {
		driven[conn.To] = true
	}

	values := make(map[circuit.NodeID]*circuit.Node)
	for _, n := range e.circ.Nodes() {
		values[n.ID] = n
		nv := NodeView{
			ID:         n.ID,
			Kind:       n.Kind,
			Label:      n.Label,
			Bounds:     n.Bounds(),
			Value:      n.Value(),
			Toggleable: n.Toggleable(),
			Selected:   n.ID == e.selected,
			Hovered:    n.ID == e.hovered,
			Inspected:  n.ID == e.inspected,
		}
		for i, val := range n.Inputs {
			ref := circuit.PortRef{Node: n.ID, Dir: circuit.In, Index: i}
			nv.Inputs = append(nv.Inputs, PortView{
				Ref: ref, At: n.PortPosition(i, circuit.In), Value: val, Driven: driven[ref],
			})
		}
		for i, val := range n.Outputs {
			ref := circuit.PortRef{Node: n.ID, Dir: circuit.Out, Index: i}
			nv.Outputs = append(nv.Outputs, PortView{
				Ref: ref, At: n.PortPosition(i, circuit.Out), Value: val,
			})
		}
		v.Nodes = append(v.Nodes, nv)
		if nv.Inspected {
			cp := nv
			v.Inspected = &cp
		}
	}

	for _, conn := range e.circ.Connections() {
		src, dst := values[conn.From.Node], values[conn.To.Node]
		v.Connections = append(v.Connections, ConnView{
			ID:    conn.ID,
			From:  conn.From,
			To:    conn.To,
			Start: src.PortPosition(conn.From.Index, circuit.Out),
			End:   dst.PortPosition(conn.To.Index, circuit.In),
			Value: src.Outputs[conn.From.Index],
		})
	}

	switch g := e.gesture.(type) {
	case *connectGesture:
		start, _ := e.circ.PortPosition(g.origin)
		v.RubberBand = &RubberBand{Origin: g.origin, Start: start, End: g.end}
	case *menuGesture:
		m := g.menu
		v.Menu = &m
	}
	return v
}
