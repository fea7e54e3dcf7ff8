package cli

import (
	"fmt"
	"math"

	"github.com/chazu/logica/internal/ui"
	"github.com/chazu/logica/pkg/camera"
	"github.com/chazu/logica/pkg/circuit"
	"github.com/chazu/logica/pkg/editor"
	"github.com/chazu/logica/pkg/render"
	"github.com/chazu/logica/pkg/render/ggsurface"
	"github.com/spf13/cobra"
)

const fitMargin = 40.0

func renderCmd(opts *options) *cobra.Command {
	var (
		output        string
		width, height int
		fit           bool
		sets          []string
	)
	cmd := &cobra.Command{
		Use:   "render FILE",
		Short: "Render a circuit to a PNG image",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, _, err := loadCircuit(args[0])
			if err != nil {
				return err
			}
			if err := applyInputs(c, sets); err != nil {
				return err
			}

			cfg := opts.cfg
			if width <= 0 {
				width = int(cfg.Canvas.Width)
			}
			if height <= 0 {
				height = int(cfg.Canvas.Height)
			}

			ed, err := editor.New(cfg, c)
			if err != nil {
				return err
			}
			ed.SetViewport(float64(width), float64(height))
			if fit {
				ed.SetCamera(fitCamera(c, ed.Camera(), float64(width), float64(height), cfg.Toolbar.Height))
			}

			s, err := ggsurface.New(width, height)
			if err != nil {
				return err
			}
			defer s.Close()
			if cfg.Render.Font != "" {
				if err := s.UseFont(cfg.Render.Font, cfg.Render.FontSize); err != nil {
					return err
				}
			}
			if err := render.Draw(ed.View(), s, render.ThemeFromConfig(cfg.Render)); err != nil {
				return fmt.Errorf("render: %w", err)
			}
			if err := s.SavePNG(output); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "  %s wrote %s (%dx%d)\n", ui.StatusIcon(true), output, width, height)
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "circuit.png", "PNG file to write")
	cmd.Flags().IntVar(&width, "width", 0, "Image width (default from config)")
	cmd.Flags().IntVar(&height, "height", 0, "Image height (default from config)")
	cmd.Flags().BoolVar(&fit, "fit", true, "Zoom and centre the camera on the circuit")
	cmd.Flags().StringArrayVar(&sets, "set", nil, "Drive a labelled input before rendering, e.g. a=1")
	return cmd
}

// fitCamera frames every node in the area below the toolbar. The scale never
// exceeds 1 so small circuits are not blown up.
func fitCamera(c *circuit.Circuit, cam camera.Camera, width, height, toolbar float64) camera.Camera {
	nodes := c.Nodes()
	if len(nodes) == 0 {
		return cam
	}
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, n := range nodes {
		b := n.Bounds()
		minX, minY = math.Min(minX, b.X), math.Min(minY, b.Y)
		maxX, maxY = math.Max(maxX, b.X+b.W), math.Max(maxY, b.Y+b.H)
	}

	availW := width - 2*fitMargin
	availH := height - toolbar - 2*fitMargin
	scale := 1.0
	if availW > 0 && availH > 0 {
		scale = math.Min(1, math.Min(availW/(maxX-minX), availH/(maxY-minY)))
	}
	cam.SetScale(scale)
	s := cam.Scale

	cx, cy := (minX+maxX)/2, (minY+maxY)/2
	cam.Offset = circuit.Pt(
		(width/2-cam.Origin.X)/s-cx,
		((toolbar+height)/2-cam.Origin.Y)/s-cy,
	)
	return cam
}
