package circuit

import "fmt"

// UnknownKindError is returned when a factory key matches no registered kind.
type UnknownKindError struct {
	Key string
}

func (e *UnknownKindError) Error() string {
	return fmt.Sprintf("unknown node kind %q", e.Key)
}

// NotFoundError is returned when an operation names a node or connection
// that is not in the circuit.
type NotFoundError struct {
	What string // "node" or "connection"
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.What, e.ID)
}

func nodeNotFound(id NodeID) error { return &NotFoundError{What: "node", ID: id.String()} }

func connNotFound(id ConnID) error { return &NotFoundError{What: "connection", ID: id.String()} }

// InvalidPortDirectionError is returned by Connect when the source is not an
// output port or the target is not an input port.
type InvalidPortDirectionError struct {
	From, To PortRef
}

func (e *InvalidPortDirectionError) Error() string {
	return fmt.Sprintf("cannot connect %s to %s: connections run from an output to an input", e.From, e.To)
}

// PortIndexError is returned when a port index is outside the node's arity.
type PortIndexError struct {
	Port  PortRef
	Count int
}

func (e *PortIndexError) Error() string {
	return fmt.Sprintf("port %s out of range: node has %d %s ports", e.Port, e.Count, e.Port.Dir)
}

// SelfConnectionError is returned when both ends of a connection are on the
// same node.
type SelfConnectionError struct {
	Node NodeID
}

func (e *SelfConnectionError) Error() string {
	return fmt.Sprintf("cannot connect node %s to itself", e.Node)
}

// PortAlreadyDrivenError is returned when the target input already has a
// driver. Existing connections are never replaced implicitly.
type PortAlreadyDrivenError struct {
	Port     PortRef
	DrivenBy ConnID
}

func (e *PortAlreadyDrivenError) Error() string {
	return fmt.Sprintf("input %s is already driven by %s", e.Port, e.DrivenBy)
}

// NotToggleableError is returned when toggling a node that has no user state.
type NotToggleableError struct {
	Node NodeID
	Kind Kind
}

func (e *NotToggleableError) Error() string {
	return fmt.Sprintf("node %s of kind %s cannot be toggled", e.Node, e.Kind)
}
