package circuit

import (
	"errors"
	"fmt"
)

// DocumentVersion is the current persistence format version.
const DocumentVersion = 1

// Document is the serializable projection of a circuit: enough to rebuild
// it exactly, and nothing derived.
type Document struct {
	Version     int          `json:"version" yaml:"version"`
	Nodes       []NodeRecord `json:"nodes" yaml:"nodes"`
	Connections []ConnRecord `json:"connections" yaml:"connections"`
	NextNode    NodeID       `json:"next_node,omitempty" yaml:"next_node,omitempty"`
	NextConn    ConnID       `json:"next_conn,omitempty" yaml:"next_conn,omitempty"`
}

// NodeRecord is one node of a Document.
type NodeRecord struct {
	ID      NodeID  `json:"id" yaml:"id"`
	Kind    Kind    `json:"kind" yaml:"kind"`
	Label   string  `json:"label,omitempty" yaml:"label,omitempty"`
	X       float64 `json:"x" yaml:"x"`
	Y       float64 `json:"y" yaml:"y"`
	Inputs  []bool  `json:"inputs" yaml:"inputs,flow"`
	Outputs []bool  `json:"outputs" yaml:"outputs,flow"`
}

// EndpointRecord is one end of a ConnRecord.
type EndpointRecord struct {
	Node NodeID `json:"node" yaml:"node"`
	Port int    `json:"port" yaml:"port"`
}

// ConnRecord is one connection of a Document. Source is always an output
// port and Target an input port.
type ConnRecord struct {
	ID     ConnID         `json:"id" yaml:"id"`
	Source EndpointRecord `json:"source" yaml:"source"`
	Target EndpointRecord `json:"target" yaml:"target"`
}

// Snapshot projects the circuit into a Document.
func (c *Circuit) Snapshot() Document {
	doc := Document{
		Version:  DocumentVersion,
		NextNode: c.nextNode,
		NextConn: c.nextConn,
	}
	for _, id := range c.nodeOrder {
		n := c.nodes[id]
		doc.Nodes = append(doc.Nodes, NodeRecord{
			ID:      n.ID,
			Kind:    n.Kind,
			Label:   n.Label,
			X:       n.X,
			Y:       n.Y,
			Inputs:  append([]bool{}, n.Inputs...),
			Outputs: append([]bool{}, n.Outputs...),
		})
	}
	for _, id := range c.connOrder {
		conn := c.conns[id]
		doc.Connections = append(doc.Connections, ConnRecord{
			ID:     conn.ID,
			Source: EndpointRecord{Node: conn.From.Node, Port: conn.From.Index},
			Target: EndpointRecord{Node: conn.To.Node, Port: conn.To.Index},
		})
	}
	return doc
}

// Restore rebuilds a circuit from a Document. Every record is checked against
// the same invariants the mutating operations enforce; on any violation no
// circuit is returned. Stored slot values seed the evaluation, so latches
// come back in the state they were saved in; one sequential pass first
// repairs values that do not agree with their drivers.
func Restore(reg *Registry, doc Document) (*Circuit, error) {
	if doc.Version != 0 && doc.Version > DocumentVersion {
		return nil, fmt.Errorf("restore: document version %d is newer than supported version %d",
			doc.Version, DocumentVersion)
	}
	c := New(reg)

	var errs []error
	for _, rec := range doc.Nodes {
		if rec.ID.IsZero() {
			errs = append(errs, fmt.Errorf("node record without id"))
			continue
		}
		if _, dup := c.nodes[rec.ID]; dup {
			errs = append(errs, fmt.Errorf("duplicate node id %s", rec.ID))
			continue
		}
		spec, ok := c.reg.Resolve(string(rec.Kind))
		if !ok {
			errs = append(errs, fmt.Errorf("node %s: %w", rec.ID, &UnknownKindError{Key: string(rec.Kind)}))
			continue
		}
		n := newNode(rec.ID, spec, rec.X, rec.Y)
		n.Label = rec.Label
		copy(n.Inputs, rec.Inputs)
		copy(n.Outputs, rec.Outputs)
		c.insertNode(n)
		if rec.ID >= c.nextNode {
			c.nextNode = rec.ID + 1
		}
	}

	for _, rec := range doc.Connections {
		if rec.ID.IsZero() {
			errs = append(errs, fmt.Errorf("connection record without id"))
			continue
		}
		if _, dup := c.conns[rec.ID]; dup {
			errs = append(errs, fmt.Errorf("duplicate connection id %s", rec.ID))
			continue
		}
		from := PortRef{Node: rec.Source.Node, Dir: Out, Index: rec.Source.Port}
		to := PortRef{Node: rec.Target.Node, Dir: In, Index: rec.Target.Port}
		if existing, driven := c.drivers[to]; driven {
			errs = append(errs, fmt.Errorf("connection %s: %w", rec.ID,
				&PortAlreadyDrivenError{Port: to, DrivenBy: existing}))
			continue
		}
		c.insertConn(&Connection{ID: rec.ID, From: from, To: to})
		if rec.ID >= c.nextConn {
			c.nextConn = rec.ID + 1
		}
	}

	for _, f := range Validate(c) {
		if f.Severity == SeverityError {
			errs = append(errs, f)
		}
	}
	if len(errs) > 0 {
		return nil, fmt.Errorf("restore: %w", errors.Join(errs...))
	}

	if doc.NextNode > c.nextNode {
		c.nextNode = doc.NextNode
	}
	if doc.NextConn > c.nextConn {
		c.nextConn = doc.NextConn
	}
	c.seed()
	c.settle()
	return c, nil
}
