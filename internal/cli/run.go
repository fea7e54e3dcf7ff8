package cli

import (
	"fmt"
	"io"
	"strconv"

	"github.com/chazu/logica/internal/ui"
	"github.com/chazu/logica/pkg/circuit"
	"github.com/chazu/logica/pkg/engine"
	"github.com/spf13/cobra"
)

func runCmd(opts *options) *cobra.Command {
	var sets []string
	cmd := &cobra.Command{
		Use:     "run FILE",
		Short:   "Evaluate a circuit and print every node's values",
		Example: "  logica run examples/half_adder.logica --set a=1 --set b=1",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, warnings, err := loadCircuit(args[0])
			if err != nil {
				return err
			}
			if len(sets) > 0 {
				if err := applyInputs(c, sets); err != nil {
					return err
				}
				warnings = engine.Warnings(c)
			}
			out := cmd.OutOrStdout()
			printNodes(out, c)
			printStatus(out, c.Status(), warnings)
			return nil
		},
	}
	cmd.Flags().StringArrayVar(&sets, "set", nil, "Drive a labelled input, e.g. a=1 (repeatable)")
	return cmd
}

func printNodes(w io.Writer, c *circuit.Circuit) {
	var rows [][]string
	for _, n := range c.Nodes() {
		rows = append(rows, []string{
			strconv.FormatUint(uint64(n.ID), 10),
			string(n.Kind),
			n.Label,
			plainBits(n.Inputs),
			plainBits(n.Outputs),
		})
	}
	if len(rows) == 0 {
		fmt.Fprintln(w, "  (empty circuit)")
		return
	}
	ui.Table(w, []string{"ID", "KIND", "LABEL", "IN", "OUT"}, rows)
}

func printStatus(w io.Writer, st circuit.Status, warnings []engine.EvalWarning) {
	fmt.Fprintln(w)
	if st.Stable() {
		fmt.Fprintf(w, "  %s settled in %d of %d passes\n", ui.StatusIcon(true), st.Iterations, st.Cap)
	} else {
		fmt.Fprintf(w, "  %s did not settle within %d passes\n", ui.StatusIcon(false), st.Cap)
	}
	for _, wn := range warnings {
		fmt.Fprintf(w, "  %s %s\n", ui.WarnIcon(), ui.Warn.Sprint(wn.Message))
	}
}

// plainBits renders values without colour so table columns stay aligned.
func plainBits(vs []bool) string {
	b := make([]byte, len(vs))
	for i, v := range vs {
		b[i] = '0'
		if v {
			b[i] = '1'
		}
	}
	return string(b)
}
