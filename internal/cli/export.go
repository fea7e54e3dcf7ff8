package cli

import (
	"os"
	"path/filepath"

	"github.com/chazu/logica/pkg/store"
	"github.com/spf13/cobra"
)

func exportCmd(opts *options) *cobra.Command {
	var (
		format string
		output string
		sets   []string
	)
	cmd := &cobra.Command{
		Use:   "export FILE",
		Short: "Convert a script or document to YAML or JSON",
		Long: "Export evaluates FILE and writes the resulting circuit document.\n" +
			"The format defaults to the extension of --output, or yaml on stdout.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, _, err := loadCircuit(args[0])
			if err != nil {
				return err
			}
			if err := applyInputs(c, sets); err != nil {
				return err
			}
			if format == "" {
				format = "yaml"
				if ext := filepath.Ext(output); output != "" && ext != "" {
					format = ext
				}
			}
			if output == "" {
				return store.Encode(c, format, cmd.OutOrStdout())
			}

			f, err := os.Create(output)
			if err != nil {
				return err
			}
			if err := store.Encode(c, format, f); err != nil {
				f.Close()
				return err
			}
			return f.Close()
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "", "yaml or json")
	cmd.Flags().StringVarP(&output, "output", "o", "", "File to write (default stdout)")
	cmd.Flags().StringArrayVar(&sets, "set", nil, "Drive a labelled input before exporting, e.g. a=1")
	return cmd
}
