package circuit

import "math"

// PickRadius is the distance, in world units, within which a point selects
// a port.
const PickRadius = 5.0

// ToggleRadius is the radius of the switch hot-zone centred on INPUT nodes.
const ToggleRadius = 20.0

// Point is a position in world (or, for the editor, screen) coordinates.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Pt is shorthand for Point{x, y}.
func Pt(x, y float64) Point { return Point{X: x, Y: y} }

// Add returns p+q.
func (p Point) Add(q Point) Point { return Point{p.X + q.X, p.Y + q.Y} }

// Sub returns p-q.
func (p Point) Sub(q Point) Point { return Point{p.X - q.X, p.Y - q.Y} }

// Dist returns the Euclidean distance between p and q.
func (p Point) Dist(q Point) float64 { return math.Hypot(p.X-q.X, p.Y-q.Y) }

// Rect is an axis-aligned box with its origin at the top-left corner.
type Rect struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	W float64 `json:"w"`
	H float64 `json:"h"`
}

// Contains is an inclusive box test.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X <= r.X+r.W && p.Y >= r.Y && p.Y <= r.Y+r.H
}

// Center returns the middle of the box.
func (r Rect) Center() Point { return Point{r.X + r.W/2, r.Y + r.H/2} }

// Bounds returns the node's bounding box.
func (n *Node) Bounds() Rect {
	return Rect{X: n.X, Y: n.Y, W: n.Width, H: n.Height}
}

// Contains reports whether p lies inside the node's bounding box.
func (n *Node) Contains(p Point) bool {
	return n.Bounds().Contains(p)
}

// PortPosition returns the anchor of port index in direction dir.
// Inputs sit on the left edge, outputs on the right; the height is split
// into count+1 equal segments and port i sits on boundary i+1, so ports never
// touch the top or bottom edge.
func (n *Node) PortPosition(index int, dir Direction) Point {
	count := len(n.Outputs)
	x := n.X + n.Width
	if dir == In {
		count = len(n.Inputs)
		x = n.X
	}
	spacing := n.Height / float64(count+1)
	return Point{X: x, Y: n.Y + spacing*float64(index+1)}
}

// PortAt returns the first port within PickRadius of p. Inputs are scanned
// before outputs and each direction in ascending index, which is also the
// tie-break when several ports are in range.
func (n *Node) PortAt(p Point) (PortRef, bool) {
	return n.PortWithin(p, PickRadius)
}

// PortWithin is PortAt with an explicit pick radius.
func (n *Node) PortWithin(p Point, radius float64) (PortRef, bool) {
	for i := range n.Inputs {
		if n.PortPosition(i, In).Dist(p) <= radius {
			return PortRef{Node: n.ID, Dir: In, Index: i}, true
		}
	}
	for i := range n.Outputs {
		if n.PortPosition(i, Out).Dist(p) <= radius {
			return PortRef{Node: n.ID, Dir: Out, Index: i}, true
		}
	}
	return PortRef{}, false
}

// InToggleZone reports whether p lies on the switch of a toggleable node.
func (n *Node) InToggleZone(p Point) bool {
	if !n.toggleable {
		return false
	}
	return n.Bounds().Center().Dist(p) <= ToggleRadius
}
