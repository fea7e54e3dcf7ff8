package editor

import (
	"errors"
	"fmt"

	"github.com/chazu/logica/pkg/camera"
	"github.com/chazu/logica/pkg/circuit"
	"github.com/chazu/logica/pkg/config"
)

// Editor is the interaction context: it owns the circuit being edited, the
// camera, the toolbar layout and the active gesture. It is not safe for
// concurrent use.
type Editor struct {
	cfg     *config.Config
	circ    *circuit.Circuit
	cam     camera.Camera
	toolbar Toolbar
	gesture gesture

	selected  circuit.NodeID
	hovered   circuit.NodeID
	inspected circuit.NodeID

	width, height float64 // viewport, screen units
}

// New creates an editor for c using cfg. A nil cfg means config.Default();
// a nil circuit starts an empty one on the default registry. Every toolbar
// palette key must resolve in the circuit's registry.
func New(cfg *config.Config, c *circuit.Circuit) (*Editor, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if c == nil {
		c = circuit.New(nil)
	}
	tb, err := newToolbar(cfg.Toolbar, c.Registry())
	if err != nil {
		return nil, err
	}
	return &Editor{
		cfg:     cfg,
		circ:    c,
		cam:     camera.New().WithLimits(cfg.Camera.MinScale, cfg.Camera.MaxScale),
		toolbar: tb,
		width:   cfg.Canvas.Width,
		height:  cfg.Canvas.Height,
	}, nil
}

// Circuit returns the circuit being edited.
func (e *Editor) Circuit() *circuit.Circuit { return e.circ }

// Config returns the editor's configuration.
func (e *Editor) Config() *config.Config { return e.cfg }

// Camera returns a copy of the camera.
func (e *Editor) Camera() camera.Camera { return e.cam }

// SetCamera replaces the camera, re-applying the configured scale limits.
func (e *Editor) SetCamera(c camera.Camera) {
	e.cam = c.WithLimits(e.cfg.Camera.MinScale, e.cfg.Camera.MaxScale)
}

// Toolbar returns the toolbar layout.
func (e *Editor) Toolbar() Toolbar { return e.toolbar }

// Mode returns the active gesture's mode.
func (e *Editor) Mode() Mode {
	if e.gesture == nil {
		return Idle
	}
	return e.gesture.mode()
}

// Selected returns the selected node, or zero.
func (e *Editor) Selected() circuit.NodeID { return e.selected }

// Hovered returns the node under the pointer, or zero.
func (e *Editor) Hovered() circuit.NodeID { return e.hovered }

// Inspected returns the node whose properties are shown, or zero.
func (e *Editor) Inspected() circuit.NodeID { return e.inspected }

// Menu returns the open context menu.
func (e *Editor) Menu() (Menu, bool) {
	if g, ok := e.gesture.(*menuGesture); ok {
		return g.menu, true
	}
	return Menu{}, false
}

// SetViewport records the screen size of the canvas. Spawn positions and
// views use it.
func (e *Editor) SetViewport(width, height float64) {
	if width > 0 && height > 0 {
		e.width, e.height = width, height
	}
}

// SetCircuit replaces the circuit being edited and drops all transient
// state. The toolbar is rebuilt against the new circuit's registry.
func (e *Editor) SetCircuit(c *circuit.Circuit) error {
	if c == nil {
		return errors.New("set circuit: nil circuit")
	}
	tb, err := newToolbar(e.cfg.Toolbar, c.Registry())
	if err != nil {
		return fmt.Errorf("set circuit: %w", err)
	}
	e.circ = c
	e.toolbar = tb
	e.gesture = nil
	e.selected, e.hovered, e.inspected = 0, 0, 0
	return nil
}

// Reset clears the circuit (keeping its registry) and the camera.
func (e *Editor) Reset() {
	_ = e.SetCircuit(circuit.New(e.circ.Registry()))
	e.cam.Reset()
}

// AddNode adds a node of the given kind centred in the viewport.
func (e *Editor) AddNode(kind string) (circuit.NodeID, error) {
	centre := e.cam.ScreenToWorld(circuit.Pt(e.cam.Origin.X+e.width/2, e.cam.Origin.Y+e.height/2))
	return e.AddNodeAt(kind, centre)
}

// AddNodeAt adds a node of the given kind centred on a world position.
func (e *Editor) AddNodeAt(kind string, centre circuit.Point) (circuit.NodeID, error) {
	x, y := centre.X, centre.Y
	if spec, ok := e.circ.Registry().Resolve(kind); ok {
		x -= spec.Width / 2
		y -= spec.Height / 2
	}
	return e.circ.AddNode(kind, x, y)
}

// DeleteNode deletes a node and forgets any transient state that refers
// to it.
func (e *Editor) DeleteNode(id circuit.NodeID) error {
	if err := e.circ.DeleteNode(id); err != nil {
		return err
	}
	e.forget(id)
	return nil
}

func (e *Editor) forget(id circuit.NodeID) {
	if e.selected == id {
		e.selected = 0
	}
	if e.hovered == id {
		e.hovered = 0
	}
	if e.inspected == id {
		e.inspected = 0
	}
	switch g := e.gesture.(type) {
	case *dragGesture:
		if g.node == id {
			e.gesture = nil
		}
	case *connectGesture:
		if g.origin.Node == id {
			e.gesture = nil
		}
	}
}

func (e *Editor) outcome(a Action, node circuit.NodeID, conn circuit.ConnID) Outcome {
	return Outcome{Action: a, Node: node, Conn: conn, Mode: e.Mode()}
}

// reject logs a refused edit at debug level and hands it back to the caller.
func (e *Editor) reject(o Outcome, err error) (Outcome, error) {
	Logger().Debug("editor: edit rejected", "action", o.Action.String(), "err", err)
	return o, err
}

func (e *Editor) updateHover(world circuit.Point) {
	if n, ok := e.circ.NodeAt(world); ok {
		e.hovered = n.ID
		return
	}
	e.hovered = 0
}

// PointerDown handles a button press.
func (e *Editor) PointerDown(ev PointerEvent) (Outcome, error) {
	screen := ev.point()
	world := e.cam.ScreenToWorld(screen)
	e.updateHover(world)

	switch g := e.gesture.(type) {
	case nil:
	case *menuGesture:
		// Any press closes the menu; a primary press on an item runs it
		// first. Either way no new gesture starts.
		e.gesture = nil
		if ev.Button != Primary {
			return e.outcome(ActionCloseMenu, 0, 0), nil
		}
		item, ok := g.menu.ItemAt(screen)
		if !ok {
			return e.outcome(ActionCloseMenu, 0, 0), nil
		}
		return e.dispatch(g.menu, item)
	default:
		// A second press mid-gesture is ignored.
		return e.outcome(ActionNone, 0, 0), nil
	}

	if e.toolbar.Contains(screen) {
		b, ok := e.toolbar.ButtonAt(screen)
		if !ok || ev.Button != Primary {
			return e.outcome(ActionNone, 0, 0), nil
		}
		id, err := e.AddNode(string(b.Kind))
		if err != nil {
			return e.reject(e.outcome(ActionAddNode, 0, 0), err)
		}
		return e.outcome(ActionAddNode, id, 0), nil
	}

	if ev.Button == Secondary {
		return e.openMenu(screen, world), nil
	}

	if ref, ok := e.circ.PortWithin(world, e.cfg.Canvas.PickRadius); ok {
		e.gesture = &connectGesture{origin: ref, end: world}
		return e.outcome(ActionStartConnect, ref.Node, 0), nil
	}

	if n, ok := e.circ.NodeAt(world); ok {
		if n.InToggleZone(world) {
			if err := e.circ.ToggleInput(n.ID, 0); err != nil {
				return e.reject(e.outcome(ActionToggleInput, n.ID, 0), err)
			}
			return e.outcome(ActionToggleInput, n.ID, 0), nil
		}
		e.selected = n.ID
		e.gesture = &dragGesture{node: n.ID, grab: world.Sub(circuit.Pt(n.X, n.Y))}
		return e.outcome(ActionStartDrag, n.ID, 0), nil
	}

	e.selected = 0
	e.gesture = &panGesture{last: screen}
	return e.outcome(ActionStartPan, 0, 0), nil
}

// PointerMove handles pointer motion.
func (e *Editor) PointerMove(ev PointerEvent) (Outcome, error) {
	screen := ev.point()
	world := e.cam.ScreenToWorld(screen)
	e.updateHover(world)

	switch g := e.gesture.(type) {
	case *dragGesture:
		p := world.Sub(g.grab)
		if err := e.circ.SetNodePosition(g.node, p.X, p.Y); err != nil {
			e.gesture = nil
			return e.reject(e.outcome(ActionMoveNode, g.node, 0), err)
		}
		return e.outcome(ActionMoveNode, g.node, 0), nil
	case *panGesture:
		d := screen.Sub(g.last)
		e.cam.Pan(d.X, d.Y)
		g.last = screen
		return e.outcome(ActionPan, 0, 0), nil
	case *connectGesture:
		g.end = world
		return e.outcome(ActionRubberBand, g.origin.Node, 0), nil
	}
	return e.outcome(ActionNone, e.hovered, 0), nil
}

// PointerUp handles a button release and ends drag, pan and connect
// gestures. An open menu stays open.
func (e *Editor) PointerUp(ev PointerEvent) (Outcome, error) {
	world := e.cam.ScreenToWorld(ev.point())
	e.updateHover(world)

	switch g := e.gesture.(type) {
	case *dragGesture:
		e.gesture = nil
		return e.outcome(ActionEndDrag, g.node, 0), nil
	case *panGesture:
		e.gesture = nil
		return e.outcome(ActionEndPan, 0, 0), nil
	case *connectGesture:
		e.gesture = nil
		return e.finishConnect(g.origin, world)
	}
	return e.outcome(ActionNone, 0, 0), nil
}

// finishConnect wires origin to the port under world when the directions
// are complementary. The output end is always the source.
func (e *Editor) finishConnect(origin circuit.PortRef, world circuit.Point) (Outcome, error) {
	target, ok := e.circ.PortWithin(world, e.cfg.Canvas.PickRadius)
	if !ok || target.Dir != origin.Dir.Opposite() {
		return e.outcome(ActionCancelConnect, origin.Node, 0), nil
	}
	from, to := origin, target
	if from.Dir == circuit.In {
		from, to = to, from
	}
	id, err := e.circ.Connect(from, to)
	if err != nil {
		return e.reject(e.outcome(ActionConnect, origin.Node, 0), err)
	}
	return e.outcome(ActionConnect, to.Node, id), nil
}

// Wheel zooms the camera one step. The mode is never changed.
func (e *Editor) Wheel(ev WheelEvent) (Outcome, error) {
	if ev.DeltaY == 0 {
		return e.outcome(ActionNone, 0, 0), nil
	}
	factor := 1 + e.cfg.Camera.ZoomStep
	if ev.DeltaY > 0 {
		factor = 1 - e.cfg.Camera.ZoomStep
	}
	if e.cfg.Camera.ZoomToCursor {
		e.cam.ZoomAt(factor, circuit.Pt(ev.X, ev.Y))
	} else {
		e.cam.Zoom(factor)
	}
	return e.outcome(ActionZoom, 0, 0), nil
}

// KeyDown handles keyboard shortcuts. Keys use DOM KeyboardEvent.key names.
func (e *Editor) KeyDown(key string) (Outcome, error) {
	switch key {
	case "Delete", "Backspace":
		id := e.selected
		if id.IsZero() {
			return e.outcome(ActionNone, 0, 0), nil
		}
		if err := e.DeleteNode(id); err != nil {
			return e.reject(e.outcome(ActionDeleteNode, id, 0), err)
		}
		return e.outcome(ActionDeleteNode, id, 0), nil
	case "Escape":
		switch g := e.gesture.(type) {
		case *connectGesture:
			e.gesture = nil
			return e.outcome(ActionCancelConnect, g.origin.Node, 0), nil
		case *menuGesture:
			e.gesture = nil
			return e.outcome(ActionCloseMenu, 0, 0), nil
		}
	case "+", "=":
		e.cam.Zoom(1 + e.cfg.Camera.ZoomStep)
		return e.outcome(ActionZoom, 0, 0), nil
	case "-":
		e.cam.Zoom(1 - e.cfg.Camera.ZoomStep)
		return e.outcome(ActionZoom, 0, 0), nil
	case "0":
		e.cam.Reset()
		return e.outcome(ActionResetCamera, 0, 0), nil
	}
	return e.outcome(ActionNone, 0, 0), nil
}

func (e *Editor) openMenu(screen, world circuit.Point) Outcome {
	if n, ok := e.circ.NodeAt(world); ok {
		e.selected = n.ID
		e.gesture = &menuGesture{menu: nodeMenu(screen, world, n.ID)}
		return e.outcome(ActionOpenMenu, n.ID, 0)
	}
	e.gesture = &menuGesture{menu: canvasMenu(screen, world, e.circ.Registry())}
	return e.outcome(ActionOpenMenu, 0, 0)
}

// dispatch runs a menu item. The menu is already closed.
func (e *Editor) dispatch(m Menu, item MenuItem) (Outcome, error) {
	Logger().Debug("editor: menu item", "action", item.Action, "target", m.Target.String())
	switch item.Action {
	case ItemDelete:
		if err := e.DeleteNode(m.Target); err != nil {
			return e.reject(e.outcome(ActionDeleteNode, m.Target, 0), err)
		}
		return e.outcome(ActionDeleteNode, m.Target, 0), nil
	case ItemProperties:
		if _, ok := e.circ.Node(m.Target); !ok {
			return e.reject(e.outcome(ActionInspect, m.Target, 0),
				&circuit.NotFoundError{What: "node", ID: m.Target.String()})
		}
		e.selected = m.Target
		e.inspected = m.Target
		return e.outcome(ActionInspect, m.Target, 0), nil
	}
	if kind, ok := addKind(item.Action); ok {
		id, err := e.AddNodeAt(kind, m.World)
		if err != nil {
			return e.reject(e.outcome(ActionAddNode, 0, 0), err)
		}
		return e.outcome(ActionAddNode, id, 0), nil
	}
	return e.outcome(ActionCloseMenu, 0, 0), nil
}
