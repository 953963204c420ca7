package cmd

import (
	"errors"
	"os"
	"time"

	"gioui.org/app"
	"github.com/spf13/cobra"

	"github.com/OpenTraceLab/OpenTraceBoard/internal/platform/gioplatform"
	"github.com/OpenTraceLab/OpenTraceBoard/pkg/viewport"
)

const frameInterval = time.Second / 60

func newViewCmd() *cobra.Command {
	var theme string

	cmd := &cobra.Command{
		Use:   "view [file]",
		Short: "Open a board in the interactive viewer",
		Long: `Open a board in a window. Without a file the sample board is shown.

Mouse: left click selects a pin, right drag pans, wheel zooms.
       Set viewer.pan_button = 2 in the config to pan with the middle button.
Keys:  r/0/Home reset, +/- zoom, [ ] rotate, h/v flip, Esc clears.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)
			cfg := configFromContext(ctx)

			if theme != "" {
				if _, err := cfg.ThemeSpec(theme); err != nil {
					return err
				}
				cfg.Render.Theme = theme
			}

			e := viewport.New(viewport.NewSubsystem(gioplatform.New(logger), logger), cfg.ViewportOptions(logger))
			e.SetOnError(func(msg string) { logger.Error(msg) })
			e.SetOnStatus(func(msg string) { logger.Info(msg) })
			e.SetOnPinSelected(func(pin, net string) {
				logger.Info("pin selected", "pin", pin, "net", net)
			})

			if !e.Initialize(0, cfg.Viewer.Width, cfg.Viewer.Height) {
				return errors.New("failed to initialize viewer")
			}
			if e.IsFallback() {
				e.Cleanup()
				return errors.New("no display available for the viewer; try 'otb render'")
			}
			if err := cfg.Apply(e); err != nil {
				e.Cleanup()
				return err
			}
			if len(args) == 1 {
				e.LoadBoardAsync(ctx, args[0])
			}

			go func() {
				ticker := time.NewTicker(frameInterval)
				defer ticker.Stop()
				for range ticker.C {
					e.Render()
					if e.State() == viewport.StateDestroyed {
						logger.Debug("viewer closed")
						os.Exit(0)
					}
				}
			}()
			app.Main()
			return nil
		},
	}

	cmd.Flags().StringVar(&theme, "theme", "", "theme name (default from config)")
	return cmd
}
