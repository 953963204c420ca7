package cmd

import (
	"errors"
	"fmt"
	"image/png"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/OpenTraceLab/OpenTraceBoard/internal/platform/headless"
	"github.com/OpenTraceLab/OpenTraceBoard/pkg/viewport"
)

type renderOptions struct {
	output   string
	width    int
	height   int
	theme    string
	rotate   int
	flipH    bool
	flipV    bool
	net      string
	part     string
	ratsnest bool
	diodes   bool
}

func newRenderCmd() *cobra.Command {
	var o renderOptions

	cmd := &cobra.Command{
		Use:   "render <file>",
		Short: "Render a board to a PNG image",
		Long: `Render a board off-screen with the same renderer the viewer uses.

Examples:
  otb render board.brd -o board.png
  otb render board.brd -o gnd.png --net GND --theme light
  otb render board.brd -o u1.png --part U1 --rotate 1 --flip-h`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(cmd, args[0], o)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&o.output, "output", "o", "", "output PNG file (required)")
	f.IntVar(&o.width, "width", 0, "image width (default from config)")
	f.IntVar(&o.height, "height", 0, "image height (default from config)")
	f.StringVar(&o.theme, "theme", "", "theme name (default from config)")
	f.IntVar(&o.rotate, "rotate", 0, "quarter turns clockwise")
	f.BoolVar(&o.flipH, "flip-h", false, "mirror horizontally")
	f.BoolVar(&o.flipV, "flip-v", false, "mirror vertically")
	f.StringVar(&o.net, "net", "", "highlight and zoom to a net")
	f.StringVar(&o.part, "part", "", "highlight and zoom to a part")
	f.BoolVar(&o.ratsnest, "ratsnest", false, "draw the ratsnest of the highlighted net")
	f.BoolVar(&o.diodes, "diodes", false, "show diode readings")
	_ = cmd.MarkFlagRequired("output")
	return cmd
}

func runRender(cmd *cobra.Command, path string, o renderOptions) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)
	cfg := configFromContext(ctx)
	p := newProgress(logger)

	if o.width == 0 {
		o.width = cfg.Viewer.Width
	}
	if o.height == 0 {
		o.height = cfg.Viewer.Height
	}

	opts := cfg.ViewportOptions(logger)
	opts.SampleBoard = false
	platform := headless.New()
	e := viewport.New(viewport.NewSubsystem(platform, logger), opts)

	var errs []string
	e.SetOnError(func(msg string) { errs = append(errs, msg) })
	failed := func(what string) error {
		if len(errs) == 0 {
			return errors.New(what)
		}
		return fmt.Errorf("%s: %s", what, strings.Join(errs, "; "))
	}

	if !e.Initialize(0, o.width, o.height) || e.IsFallback() {
		return failed("failed to create render surface")
	}
	defer e.Cleanup()

	if !e.LoadBoard(path) {
		return failed("failed to load board")
	}
	if err := cfg.Apply(e); err != nil {
		return err
	}
	if o.theme != "" {
		spec, err := cfg.ThemeSpec(o.theme)
		if err != nil {
			return err
		}
		if err := e.ApplyThemeSpec(spec); err != nil {
			return err
		}
	}
	if o.ratsnest {
		e.SetRatsnest(true)
	}
	if o.diodes {
		e.SetDiodeReadings(true)
	}

	for i := 0; i < ((o.rotate%4)+4)%4; i++ {
		e.RotateRight()
	}
	if o.flipH {
		e.FlipHorizontal()
	}
	if o.flipV {
		e.FlipVertical()
	}
	if o.net != "" {
		if !e.ZoomToNet(o.net) {
			return fmt.Errorf("no pins on net %q", o.net)
		}
		e.HighlightNet(o.net)
	}
	if o.part != "" {
		if !e.ZoomToComponent(o.part) {
			return fmt.Errorf("no part named %q", o.part)
		}
		e.HighlightComponent(o.part)
	}

	if !e.Render() {
		return failed("failed to render")
	}
	img := platform.Surfaces()[0].Image()

	out, err := os.Create(o.output)
	if err != nil {
		return fmt.Errorf("failed to create output: %w", err)
	}
	if err := png.Encode(out, img); err != nil {
		out.Close()
		return fmt.Errorf("failed to encode PNG: %w", err)
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	p.done("board rendered", "width", o.width, "height", o.height, "zoom", fmt.Sprintf("%.4f", e.ZoomLevel()))
	w := cmd.OutOrStdout()
	printSuccess(w, "Rendered %s", path)
	printFile(w, o.output)
	return nil
}
