package circuit

import "strings"

// Circuit owns a set of nodes and the connections between their ports.
// It is not safe for concurrent use.
type Circuit struct {
	reg *Registry

	nodes     map[NodeID]*Node
	nodeOrder []NodeID // insertion order, which is also paint order
	conns     map[ConnID]*Connection
	connOrder []ConnID
	drivers   map[PortRef]ConnID // input port -> the single connection driving it

	nextNode NodeID
	nextConn ConnID
	status   Status
}

// New creates an empty circuit using the given registry. A nil registry
// means DefaultRegistry().
func New(reg *Registry) *Circuit {
	if reg == nil {
		reg = DefaultRegistry()
	}
	return &Circuit{
		reg:      reg,
		nodes:    make(map[NodeID]*Node),
		conns:    make(map[ConnID]*Connection),
		drivers:  make(map[PortRef]ConnID),
		nextNode: 1,
		nextConn: 1,
		status:   Status{State: Converged},
	}
}

// Registry returns the kind registry the circuit was built on.
func (c *Circuit) Registry() *Registry { return c.reg }

// AddNode creates a node of the given kind with its top-left corner at
// (x, y) in world coordinates.
func (c *Circuit) AddNode(kind string, x, y float64) (NodeID, error) {
	spec, ok := c.reg.Resolve(kind)
	if !ok {
		return 0, &UnknownKindError{Key: kind}
	}
	id := c.nextNode
	c.nextNode++
	c.insertNode(newNode(id, spec, x, y))
	c.settle()
	return id, nil
}

func (c *Circuit) insertNode(n *Node) {
	c.nodes[n.ID] = n
	c.nodeOrder = append(c.nodeOrder, n.ID)
}

// DeleteNode removes a node and every connection touching it.
func (c *Circuit) DeleteNode(id NodeID) error {
	if _, ok := c.nodes[id]; !ok {
		return nodeNotFound(id)
	}
	var doomed []ConnID
	for _, cid := range c.connOrder {
		conn := c.conns[cid]
		if conn.From.Node == id || conn.To.Node == id {
			doomed = append(doomed, cid)
		}
	}
	for _, cid := range doomed {
		c.removeConn(cid)
	}
	delete(c.nodes, id)
	c.nodeOrder = removeID(c.nodeOrder, id)
	c.settle()
	return nil
}

// Connect wires an output port to an input port and returns the new
// connection's ID. The circuit is unchanged on error.
func (c *Circuit) Connect(from, to PortRef) (ConnID, error) {
	src, ok := c.nodes[from.Node]
	if !ok {
		return 0, nodeNotFound(from.Node)
	}
	dst, ok := c.nodes[to.Node]
	if !ok {
		return 0, nodeNotFound(to.Node)
	}
	if from.Dir != Out || to.Dir != In {
		return 0, &InvalidPortDirectionError{From: from, To: to}
	}
	if from.Index < 0 || from.Index >= len(src.Outputs) {
		return 0, &PortIndexError{Port: from, Count: len(src.Outputs)}
	}
	if to.Index < 0 || to.Index >= len(dst.Inputs) {
		return 0, &PortIndexError{Port: to, Count: len(dst.Inputs)}
	}
	if from.Node == to.Node {
		return 0, &SelfConnectionError{Node: from.Node}
	}
	if existing, driven := c.drivers[to]; driven {
		return 0, &PortAlreadyDrivenError{Port: to, DrivenBy: existing}
	}

	id := c.nextConn
	c.nextConn++
	c.insertConn(&Connection{ID: id, From: from, To: to})
	c.settle()
	return id, nil
}

func (c *Circuit) insertConn(conn *Connection) {
	c.conns[conn.ID] = conn
	c.connOrder = append(c.connOrder, conn.ID)
	c.drivers[conn.To] = conn.ID
}

// Disconnect removes a connection.
func (c *Circuit) Disconnect(id ConnID) error {
	if _, ok := c.conns[id]; !ok {
		return connNotFound(id)
	}
	c.removeConn(id)
	c.settle()
	return nil
}

func (c *Circuit) removeConn(id ConnID) {
	conn := c.conns[id]
	delete(c.drivers, conn.To)
	delete(c.conns, id)
	c.connOrder = removeID(c.connOrder, id)
}

// SetNodePosition moves a node. Port anchors are derived from the position,
// so they move with it.
func (c *Circuit) SetNodePosition(id NodeID, x, y float64) error {
	n, ok := c.nodes[id]
	if !ok {
		return nodeNotFound(id)
	}
	n.X, n.Y = x, y
	return nil
}

// SetLabel renames a node.
func (c *Circuit) SetLabel(id NodeID, label string) error {
	n, ok := c.nodes[id]
	if !ok {
		return nodeNotFound(id)
	}
	n.Label = strings.TrimSpace(label)
	return nil
}

// ToggleInput flips the state of an INPUT-like node. slot addresses the
// node's single output and must be 0.
func (c *Circuit) ToggleInput(id NodeID, slot int) error {
	n, err := c.toggleTarget(id, slot)
	if err != nil {
		return err
	}
	n.Outputs[0] = !n.Outputs[0]
	c.settle()
	return nil
}

// SetInput sets the state of an INPUT-like node, toggling only if it differs.
func (c *Circuit) SetInput(id NodeID, value bool) error {
	n, err := c.toggleTarget(id, 0)
	if err != nil {
		return err
	}
	if n.Outputs[0] == value {
		return nil
	}
	return c.ToggleInput(id, 0)
}

func (c *Circuit) toggleTarget(id NodeID, slot int) (*Node, error) {
	n, ok := c.nodes[id]
	if !ok {
		return nil, nodeNotFound(id)
	}
	if !n.toggleable {
		return nil, &NotToggleableError{Node: id, Kind: n.Kind}
	}
	if slot != 0 {
		ref := PortRef{Node: id, Dir: Out, Index: slot}
		return nil, &PortIndexError{Port: ref, Count: len(n.Outputs)}
	}
	return n, nil
}

// ---------------------------------------------------------------------------
// Read access. Returned nodes and connections are copies.
// ---------------------------------------------------------------------------

// Node returns a copy of the node with the given ID.
func (c *Circuit) Node(id NodeID) (*Node, bool) {
	n, ok := c.nodes[id]
	if !ok {
		return nil, false
	}
	return n.clone(), true
}

// Nodes returns copies of all nodes in insertion (paint) order.
func (c *Circuit) Nodes() []*Node {
	out := make([]*Node, 0, len(c.nodeOrder))
	for _, id := range c.nodeOrder {
		out = append(out, c.nodes[id].clone())
	}
	return out
}

// NodeCount returns the number of nodes.
func (c *Circuit) NodeCount() int { return len(c.nodes) }

// NodeByLabel returns the first node (in insertion order) with the label.
func (c *Circuit) NodeByLabel(label string) (*Node, bool) {
	for _, id := range c.nodeOrder {
		if n := c.nodes[id]; n.Label == label {
			return n.clone(), true
		}
	}
	return nil, false
}

// Connection returns a copy of the connection with the given ID.
func (c *Circuit) Connection(id ConnID) (Connection, bool) {
	conn, ok := c.conns[id]
	if !ok {
		return Connection{}, false
	}
	return *conn, true
}

// Connections returns all connections in creation order.
func (c *Circuit) Connections() []Connection {
	out := make([]Connection, 0, len(c.connOrder))
	for _, id := range c.connOrder {
		out = append(out, *c.conns[id])
	}
	return out
}

// Driver returns the connection driving an input port, if any.
func (c *Circuit) Driver(in PortRef) (Connection, bool) {
	id, ok := c.drivers[in]
	if !ok {
		return Connection{}, false
	}
	return *c.conns[id], true
}

// NodeAt returns the topmost node whose box contains p.
func (c *Circuit) NodeAt(p Point) (*Node, bool) {
	for i := len(c.nodeOrder) - 1; i >= 0; i-- {
		if n := c.nodes[c.nodeOrder[i]]; n.Contains(p) {
			return n.clone(), true
		}
	}
	return nil, false
}

// PortAt returns the first port within PickRadius of p, scanning nodes
// topmost first.
func (c *Circuit) PortAt(p Point) (PortRef, bool) {
	return c.PortWithin(p, PickRadius)
}

// PortWithin is PortAt with an explicit pick radius.
func (c *Circuit) PortWithin(p Point, radius float64) (PortRef, bool) {
	for i := len(c.nodeOrder) - 1; i >= 0; i-- {
		if ref, ok := c.nodes[c.nodeOrder[i]].PortWithin(p, radius); ok {
			return ref, true
		}
	}
	return PortRef{}, false
}

// PortPosition resolves a port reference to its world anchor.
func (c *Circuit) PortPosition(ref PortRef) (Point, bool) {
	n, ok := c.nodes[ref.Node]
	if !ok {
		return Point{}, false
	}
	return n.PortPosition(ref.Index, ref.Dir), true
}

// Clone returns an independent deep copy sharing the registry.
func (c *Circuit) Clone() *Circuit {
	cp := New(c.reg)
	for _, id := range c.nodeOrder {
		cp.insertNode(c.nodes[id].clone())
	}
	for _, id := range c.connOrder {
		conn := *c.conns[id]
		cp.insertConn(&conn)
	}
	cp.nextNode = c.nextNode
	cp.nextConn = c.nextConn
	cp.status = c.status
	return cp
}

func removeID[T comparable](ids []T, id T) []T {
	for i, v := range ids {
		if v == id {
			return append(ids[:i], ids[i+1:]...)
		}
	}
	return ids
}
