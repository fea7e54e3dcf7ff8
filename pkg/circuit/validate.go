package circuit

import (
	"fmt"
	"sort"
)

// ValidationSeverity indicates whether a finding breaks an invariant or is
// merely informational.
type ValidationSeverity int

const (
	SeverityError   ValidationSeverity = iota // invariant violated
	SeverityWarning                           // informational
)

func (s ValidationSeverity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	default:
		return fmt.Sprintf("ValidationSeverity(%d)", int(s))
	}
}

// ValidationError describes a single validation finding.
type ValidationError struct {
	NodeID   NodeID // zero if the finding is not about one node
	ConnID   ConnID // zero if the finding is not about one connection
	Message  string
	Severity ValidationSeverity
}

func (e ValidationError) Error() string {
	switch {
	case !e.ConnID.IsZero():
		return fmt.Sprintf("[%s] connection %s: %s", e.Severity, e.ConnID, e.Message)
	case !e.NodeID.IsZero():
		return fmt.Sprintf("[%s] node %s: %s", e.Severity, e.NodeID, e.Message)
	default:
		return fmt.Sprintf("[%s] %s", e.Severity, e.Message)
	}
}

// Validate checks the structural invariants of the circuit and reports
// feedback loops as warnings. It never mutates the circuit. Circuits built
// only through the public operations have no error-severity findings.
func Validate(c *Circuit) []ValidationError {
	var errs []ValidationError
	errs = append(errs, validateArity(c)...)
	errs = append(errs, validateConnections(c)...)
	errs = append(errs, validateDrivers(c)...)
	errs = append(errs, validateFeedback(c)...)
	return errs
}

// HasErrors reports whether any finding has error severity.
func HasErrors(findings []ValidationError) bool {
	for _, f := range findings {
		if f.Severity == SeverityError {
			return true
		}
	}
	return false
}

// validateArity checks every node's slot counts against its kind.
func validateArity(c *Circuit) []ValidationError {
	var errs []ValidationError
	for _, id := range c.nodeOrder {
		n := c.nodes[id]
		spec, ok := c.reg.Spec(n.Kind)
		if !ok {
			errs = append(errs, ValidationError{
				NodeID:   id,
				Message:  fmt.Sprintf("kind %q is not registered", n.Kind),
				Severity: SeverityError,
			})
			continue
		}
		if len(n.Inputs) != spec.Inputs || len(n.Outputs) != spec.Outputs {
			errs = append(errs, ValidationError{
				NodeID: id,
				Message: fmt.Sprintf("has %d/%d slots, kind %s declares %d/%d",
					len(n.Inputs), len(n.Outputs), n.Kind, spec.Inputs, spec.Outputs),
				Severity: SeverityError,
			})
		}
	}
	return errs
}

// validateConnections checks that every connection references existing
// nodes and ports of the right direction.
func validateConnections(c *Circuit) []ValidationError {
	var errs []ValidationError
	for _, cid := range c.connOrder {
		conn := c.conns[cid]
		for _, end := range []PortRef{conn.From, conn.To} {
			n, ok := c.nodes[end.Node]
			if !ok {
				errs = append(errs, ValidationError{
					ConnID:   cid,
					Message:  fmt.Sprintf("references missing node %s", end.Node),
					Severity: SeverityError,
				})
				continue
			}
			count := len(n.Inputs)
			if end.Dir == Out {
				count = len(n.Outputs)
			}
			if end.Index < 0 || end.Index >= count {
				errs = append(errs, ValidationError{
					ConnID:   cid,
					Message:  fmt.Sprintf("port %s out of range (%d ports)", end, count),
					Severity: SeverityError,
				})
			}
		}
		if conn.From.Dir != Out || conn.To.Dir != In {
			errs = append(errs, ValidationError{
				ConnID:   cid,
				Message:  "must run from an output to an input",
				Severity: SeverityError,
			})
		}
		if conn.From.Node == conn.To.Node {
			errs = append(errs, ValidationError{
				ConnID:   cid,
				Message:  "connects a node to itself",
				Severity: SeverityError,
			})
		}
	}
	return errs
}

// validateDrivers checks that each input has at most one driver and that the
// driver index agrees with the connection list.
func validateDrivers(c *Circuit) []ValidationError {
	var errs []ValidationError
	seen := make(map[PortRef]ConnID)
	for _, cid := range c.connOrder {
		to := c.conns[cid].To
		if prev, dup := seen[to]; dup {
			errs = append(errs, ValidationError{
				ConnID:   cid,
				Message:  fmt.Sprintf("input %s is also driven by %s", to, prev),
				Severity: SeverityError,
			})
			continue
		}
		seen[to] = cid
		if c.drivers[to] != cid {
			errs = append(errs, ValidationError{
				ConnID:   cid,
				Message:  fmt.Sprintf("driver index out of sync for %s", to),
				Severity: SeverityError,
			})
		}
	}
	if len(c.drivers) != len(seen) {
		errs = append(errs, ValidationError{
			Message:  fmt.Sprintf("driver index has %d entries, expected %d", len(c.drivers), len(seen)),
			Severity: SeverityError,
		})
	}
	return errs
}

// validateFeedback reports each node that closes a feedback loop, found by
// DFS with 3-colour marking along output->input connections. Loops are legal;
// they are reported so callers can explain a non-convergent status.
func validateFeedback(c *Circuit) []ValidationError {
	const (
		white = iota
		gray
		black
	)

	succ := make(map[NodeID][]NodeID)
	for _, cid := range c.connOrder {
		conn := c.conns[cid]
		succ[conn.From.Node] = append(succ[conn.From.Node], conn.To.Node)
	}

	color := make(map[NodeID]int)
	closing := make(map[NodeID]bool)

	var visit func(id NodeID)
	visit = func(id NodeID) {
		color[id] = gray
		for _, next := range succ[id] {
			switch color[next] {
			case gray:
				closing[next] = true
			case white:
				visit(next)
			}
		}
		color[id] = black
	}

	for _, id := range c.nodeOrder {
		if color[id] == white {
			visit(id)
		}
	}

	ids := make([]NodeID, 0, len(closing))
	for id := range closing {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	var warnings []ValidationError
	for _, id := range ids {
		warnings = append(warnings, ValidationError{
			NodeID:   id,
			Message:  "is part of a feedback loop",
			Severity: SeverityWarning,
		})
	}
	return warnings
}
