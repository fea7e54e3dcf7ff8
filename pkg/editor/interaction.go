package editor

import (
	"fmt"

	"github.com/chazu/logica/pkg/circuit"
)

// Mode is the editor's current gesture.
type Mode int

const (
	Idle Mode = iota
	DraggingNode
	PanningCanvas
	Connecting
	MenuOpen
)

func (m Mode) String() string {
	switch m {
	case Idle:
		return "idle"
	case DraggingNode:
		return "dragging-node"
	case PanningCanvas:
		return "panning-canvas"
	case Connecting:
		return "connecting"
	case MenuOpen:
		return "menu-open"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// MarshalText renders the mode by name in JSON views.
func (m Mode) MarshalText() ([]byte, error) { return []byte(m.String()), nil }

// Button identifies the pointer button of an event.
type Button int

const (
	Primary Button = iota
	Secondary
)

// PointerEvent is a pointer press, move or release in screen coordinates.
type PointerEvent struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Button Button  `json:"button"`
}

func (ev PointerEvent) point() circuit.Point { return circuit.Pt(ev.X, ev.Y) }

// WheelEvent is a scroll at a screen position. Negative DeltaY zooms in.
type WheelEvent struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	DeltaY float64 `json:"delta_y"`
}

// Action names what an event handler did.
type Action int

const (
	ActionNone Action = iota
	ActionAddNode
	ActionDeleteNode
	ActionToggleInput
	ActionStartDrag
	ActionMoveNode
	ActionEndDrag
	ActionStartPan
	ActionPan
	ActionEndPan
	ActionStartConnect
	ActionRubberBand
	ActionConnect
	ActionCancelConnect
	ActionOpenMenu
	ActionCloseMenu
	ActionInspect
	ActionZoom
	ActionResetCamera
)

var actionNames = [...]string{
	ActionNone:          "none",
	ActionAddNode:       "add-node",
	ActionDeleteNode:    "delete-node",
	ActionToggleInput:   "toggle-input",
	ActionStartDrag:     "start-drag",
	ActionMoveNode:      "move-node",
	ActionEndDrag:       "end-drag",
	ActionStartPan:      "start-pan",
	ActionPan:           "pan",
	ActionEndPan:        "end-pan",
	ActionStartConnect:  "start-connect",
	ActionRubberBand:    "rubber-band",
	ActionConnect:       "connect",
	ActionCancelConnect: "cancel-connect",
	ActionOpenMenu:      "open-menu",
	ActionCloseMenu:     "close-menu",
	ActionInspect:       "inspect",
	ActionZoom:          "zoom",
	ActionResetCamera:   "reset-camera",
}

func (a Action) String() string {
	if a >= 0 && int(a) < len(actionNames) {
		return actionNames[a]
	}
	return fmt.Sprintf("Action(%d)", int(a))
}

// MarshalText renders the action by name.
func (a Action) MarshalText() ([]byte, error) { return []byte(a.String()), nil }

// Outcome reports the effect of one event. Node and Conn are set when the
// action concerns a particular node or connection. Mode is the mode after
// the event.
type Outcome struct {
	Action Action         `json:"action"`
	Node   circuit.NodeID `json:"node,omitempty"`
	Conn   circuit.ConnID `json:"conn,omitempty"`
	Mode   Mode           `json:"mode"`
}

// gesture is the per-mode record of an in-progress interaction. Only one
// exists at a time; a nil gesture means Idle.
type gesture interface {
	mode() Mode
}

type dragGesture struct {
	node circuit.NodeID
	grab circuit.Point // pointer world position minus node origin
}

type panGesture struct {
	last circuit.Point // screen
}

type connectGesture struct {
	origin circuit.PortRef
	end    circuit.Point // world
}

type menuGesture struct {
	menu Menu
}

func (*dragGesture) mode() Mode    { return DraggingNode }
func (*panGesture) mode() Mode     { return PanningCanvas }
func (*connectGesture) mode() Mode { return Connecting }
func (*menuGesture) mode() Mode    { return MenuOpen }
