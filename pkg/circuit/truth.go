package circuit

import "fmt"

// MaxTruthInputs bounds truth-table enumeration to 2^12 rows.
const MaxTruthInputs = 12

// TruthRow is one combination of input values and the observed outputs.
type TruthRow struct {
	Inputs  []bool
	Outputs []bool
	Stable  bool
}

// Truth is a full truth table. Inputs and Outputs list the INPUT and OUTPUT
// nodes in insertion order; row slices are parallel to them.
type Truth struct {
	Inputs  []*Node
	Outputs []*Node
	Rows    []TruthRow
}

// TruthTable enumerates every combination of the circuit's toggleable nodes
// and records the values seen by its OUTPUT nodes. The first input is the
// most significant bit. The circuit itself is not modified.
//
// Each row starts from the previous row's settled state, so circuits with
// memory report the behaviour of walking the inputs in counting order.
func TruthTable(c *Circuit) (*Truth, error) {
	work := c.Clone()

	t := &Truth{}
	for _, id := range work.nodeOrder {
		n := work.nodes[id]
		switch {
		case n.toggleable:
			t.Inputs = append(t.Inputs, n.clone())
		case n.Kind == KindOutput:
			t.Outputs = append(t.Outputs, n.clone())
		}
	}
	if len(t.Inputs) > MaxTruthInputs {
		return nil, fmt.Errorf("truth table: %d inputs exceeds the limit of %d", len(t.Inputs), MaxTruthInputs)
	}

	rows := 1 << len(t.Inputs)
	for r := 0; r < rows; r++ {
		row := TruthRow{
			Inputs:  make([]bool, len(t.Inputs)),
			Outputs: make([]bool, len(t.Outputs)),
		}
		for i, in := range t.Inputs {
			v := r&(1<<(len(t.Inputs)-1-i)) != 0
			row.Inputs[i] = v
			if err := work.SetInput(in.ID, v); err != nil {
				return nil, fmt.Errorf("truth table: %w", err)
			}
		}
		// SetInput skips the settle when nothing changed; the first row
		// still needs one.
		if r == 0 {
			work.Evaluate()
		}
		for i, out := range t.Outputs {
			row.Outputs[i] = work.nodes[out.ID].Value()
		}
		row.Stable = work.Status().Stable()
		t.Rows = append(t.Rows, row)
	}
	return t, nil
}
