package cli

import (
	"fmt"

	"github.com/chazu/logica/internal/ui"
	"github.com/chazu/logica/pkg/circuit"
	"github.com/spf13/cobra"
)

func truthCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "truth FILE",
		Short: "Print the truth table of a circuit's inputs and outputs",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, _, err := loadCircuit(args[0])
			if err != nil {
				return err
			}
			t, err := circuit.TruthTable(c)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(t.Inputs) == 0 && len(t.Outputs) == 0 {
				fmt.Fprintln(out, "  (no inputs or outputs)")
				return nil
			}

			var headers []string
			for _, n := range t.Inputs {
				headers = append(headers, columnName(n))
			}
			for _, n := range t.Outputs {
				headers = append(headers, columnName(n))
			}
			unstable := false
			for _, r := range t.Rows {
				unstable = unstable || !r.Stable
			}
			if unstable {
				headers = append(headers, "SETTLED")
			}

			var rows [][]string
			for _, r := range t.Rows {
				var row []string
				for _, v := range append(append([]bool{}, r.Inputs...), r.Outputs...) {
					row = append(row, plainBits([]bool{v}))
				}
				if unstable {
					row = append(row, ui.StatusIcon(r.Stable))
				}
				rows = append(rows, row)
			}
			ui.Table(out, headers, rows)
			return nil
		},
	}
}

func columnName(n *circuit.Node) string {
	if n.Label != "" {
		return n.Label
	}
	return fmt.Sprintf("%s#%d", n.Kind, n.ID)
}
