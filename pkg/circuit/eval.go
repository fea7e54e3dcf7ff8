package circuit

import "log/slog"

// State reports the outcome of the last settle.
type State int

const (
	Converged State = iota
	NonConvergent
)

func (s State) String() string {
	switch s {
	case Converged:
		return "converged"
	case NonConvergent:
		return "non-convergent"
	default:
		return "unknown"
	}
}

// MarshalText renders the state by name in JSON views.
func (s State) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// Status describes the last evaluation run.
type Status struct {
	State      State `json:"state"`
	Iterations int   `json:"iterations"` // passes executed
	Cap        int   `json:"cap"`        // pass limit for this run
}

// Stable reports whether the last run converged.
func (s Status) Stable() bool { return s.State == Converged }

// Status returns the outcome of the most recent evaluation.
func (c *Circuit) Status() Status { return c.status }

// IterationCap returns the pass limit for a circuit with n nodes. One pass
// per node is enough to carry a value across the longest acyclic path, plus
// one pass to observe that nothing changed.
func IterationCap(n int) int {
	return n + 1
}

// Evaluate recomputes every node's slots until no output changes or the
// iteration cap is reached.
//
// Each pass is synchronous: all next outputs are computed from the previous
// pass' outputs, so the result does not depend on node order. Undriven inputs
// read false. Evaluation starts from the current values, which lets stable
// feedback loops (latches) hold state across edits. When the cap is hit the
// circuit keeps the last computed values and reports NonConvergent; this is
// not an error.
func (c *Circuit) Evaluate() Status {
	limit := IterationCap(len(c.nodes))
	next := make(map[NodeID][]bool, len(c.nodes))

	passes := 0
	stable := false
	for passes < limit {
		passes++
		changed := false

		for _, id := range c.nodeOrder {
			n := c.nodes[id]
			for i := range n.Inputs {
				n.Inputs[i] = c.inputValue(PortRef{Node: id, Dir: In, Index: i})
			}
			out := append(next[id][:0], n.Outputs...)
			if n.eval != nil {
				n.eval(n.Inputs, out)
			}
			next[id] = out
		}

		for _, id := range c.nodeOrder {
			n := c.nodes[id]
			out := next[id]
			for i := range n.Outputs {
				if n.Outputs[i] != out[i] {
					n.Outputs[i] = out[i]
					changed = true
				}
			}
		}

		if !changed {
			stable = true
			break
		}
	}

	st := Status{State: Converged, Iterations: passes, Cap: limit}
	if !stable {
		st.State = NonConvergent
		// Inputs shown to the renderer should agree with the frozen outputs.
		for _, id := range c.nodeOrder {
			n := c.nodes[id]
			for i := range n.Inputs {
				n.Inputs[i] = c.inputValue(PortRef{Node: id, Dir: In, Index: i})
			}
		}
	}
	c.status = st
	return st
}

// seed runs one sequential pass in node order: each node reads outputs
// already updated earlier in the same pass. Slots that agree with their
// drivers are unchanged.
func (c *Circuit) seed() {
	for _, id := range c.nodeOrder {
		n := c.nodes[id]
		for i := range n.Inputs {
			n.Inputs[i] = c.inputValue(PortRef{Node: id, Dir: In, Index: i})
		}
		if n.eval != nil {
			n.eval(n.Inputs, n.Outputs)
		}
	}
}

// inputValue reads the value on an input port: the driving output, or false.
func (c *Circuit) inputValue(in PortRef) bool {
	cid, ok := c.drivers[in]
	if !ok {
		return false
	}
	from := c.conns[cid].From
	return c.nodes[from.Node].Outputs[from.Index]
}

func (c *Circuit) settle() {
	st := c.Evaluate()
	if st.State == NonConvergent {
		Logger().Warn("circuit did not converge",
			slog.Int("iterations", st.Iterations),
			slog.Int("nodes", len(c.nodes)))
		return
	}
	Logger().Debug("circuit settled",
		slog.Int("iterations", st.Iterations),
		slog.Int("nodes", len(c.nodes)))
}
