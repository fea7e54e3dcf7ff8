// Package cli implements the logica command line.
package cli

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/chazu/logica/internal/ui"
	"github.com/chazu/logica/pkg/circuit"
	"github.com/chazu/logica/pkg/config"
	"github.com/chazu/logica/pkg/editor"
	"github.com/gogpu/gg"
	"github.com/spf13/cobra"
)

var version = "0.1.0"

// options carries the persistent flags and the loaded config to every
// subcommand.
type options struct {
	configPath string
	verbose    bool
	cfg        *config.Config
}

// NewRootCmd builds the command tree. Each call returns an independent tree.
func NewRootCmd() *cobra.Command {
	opts := &options{}
	root := &cobra.Command{
		Use:   "logica",
		Short: "logica: digital logic circuits from the command line",
		Long: ui.Brand.Sprint("logica") + " builds, evaluates and renders logic circuits\n" +
			ui.Subtle.Sprint("Scripts (.logica) and saved documents (.yaml, .json) are accepted wherever a FILE is expected"),
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.setup(cmd.ErrOrStderr())
		},
	}
	root.SetVersionTemplate("logica {{ .Version }}\n")
	root.PersistentFlags().StringVar(&opts.configPath, "config", "", "Config file (default "+config.Path()+")")
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Log evaluation details to stderr")

	root.AddCommand(
		runCmd(opts),
		truthCmd(opts),
		renderCmd(opts),
		exportCmd(opts),
		kindsCmd(opts),
		configCmd(opts),
	)
	return root
}

// Execute runs the command line and reports a failure on stderr.
func Execute() error {
	root := NewRootCmd()
	err := root.Execute()
	if err != nil {
		ui.Bad.Fprintf(root.ErrOrStderr(), "logica: %v\n", err)
	}
	return err
}

func (o *options) setup(stderr io.Writer) error {
	if o.configPath != "" {
		cfg, err := config.LoadFile(o.configPath)
		if err != nil {
			return fmt.Errorf("config: %w", err)
		}
		o.cfg = cfg
	} else {
		o.cfg = config.Load()
	}

	if o.verbose {
		l := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
		circuit.SetLogger(l)
		editor.SetLogger(l)
		gg.SetLogger(l)
	}
	return nil
}
