package editor

import (
	"strings"

	"github.com/chazu/logica/pkg/circuit"
)

// Context menu geometry, screen units.
const (
	MenuWidth      = 120.0
	MenuItemHeight = 20.0
)

// Menu item actions.
const (
	ItemDelete     = "delete"
	ItemProperties = "properties"
	itemAddPrefix  = "add "
)

// MenuItem is one entry of a context menu.
type MenuItem struct {
	Action string       `json:"action"` // "delete", "properties" or "add <KIND>"
	Label  string       `json:"label"`
	Kind   circuit.Kind `json:"kind,omitempty"`
	Rect   circuit.Rect `json:"rect"`
}

// Menu is an open context menu. At is the screen position it was opened at,
// World the matching world position. Target is the node it was opened on,
// or zero for the canvas menu.
type Menu struct {
	At     circuit.Point  `json:"at"`
	World  circuit.Point  `json:"world"`
	Target circuit.NodeID `json:"target,omitempty"`
	Items  []MenuItem     `json:"items"`
}

func nodeMenu(at, world circuit.Point, target circuit.NodeID) Menu {
	m := Menu{At: at, World: world, Target: target}
	m.add(ItemDelete, "Delete", "")
	m.add(ItemProperties, "Properties", "")
	return m
}

func canvasMenu(at, world circuit.Point, reg *circuit.Registry) Menu {
	m := Menu{At: at, World: world}
	for _, k := range reg.Kinds() {
		title := string(k)
		if spec, ok := reg.Spec(k); ok && spec.Title != "" {
			title = spec.Title
		}
		m.add(itemAddPrefix+string(k), "Add "+title, k)
	}
	return m
}

func (m *Menu) add(action, label string, kind circuit.Kind) {
	m.Items = append(m.Items, MenuItem{
		Action: action,
		Label:  label,
		Kind:   kind,
		Rect: circuit.Rect{
			X: m.At.X,
			Y: m.At.Y + float64(len(m.Items))*MenuItemHeight,
			W: MenuWidth,
			H: MenuItemHeight,
		},
	})
}

// Bounds returns the screen rectangle covered by the menu.
func (m Menu) Bounds() circuit.Rect {
	return circuit.Rect{X: m.At.X, Y: m.At.Y, W: MenuWidth, H: float64(len(m.Items)) * MenuItemHeight}
}

// ItemAt returns the item under a screen point.
func (m Menu) ItemAt(p circuit.Point) (MenuItem, bool) {
	for _, it := range m.Items {
		if it.Rect.Contains(p) {
			return it, true
		}
	}
	return MenuItem{}, false
}

// Item returns the item with the given action.
func (m Menu) Item(action string) (MenuItem, bool) {
	for _, it := range m.Items {
		if it.Action == action {
			return it, true
		}
	}
	return MenuItem{}, false
}

func addKind(action string) (string, bool) {
	return strings.CutPrefix(action, itemAddPrefix)
}
