package cli

import (
	"strconv"
	"strings"

	"github.com/chazu/logica/internal/ui"
	"github.com/chazu/logica/pkg/circuit"
	"github.com/spf13/cobra"
)

func kindsCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "kinds",
		Short: "List the node kinds scripts and the palette can use",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			reg := circuit.DefaultRegistry()
			var rows [][]string
			for _, k := range reg.Kinds() {
				spec, _ := reg.Spec(k)
				rows = append(rows, []string{
					string(k),
					spec.Title,
					strconv.Itoa(spec.Inputs),
					strconv.Itoa(spec.Outputs),
					strings.Join(spec.Aliases, ", "),
				})
			}
			ui.Table(cmd.OutOrStdout(), []string{"KIND", "TITLE", "IN", "OUT", "ALIASES"}, rows)
		},
	}
}
