package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/OpenTraceLab/OpenTraceBoard/internal/config"
)

const version = "0.3.0"

func newRootCmd() *cobra.Command {
	var (
		verbose    bool
		configPath string
	)

	root := &cobra.Command{
		Use:   "otb",
		Short: "OpenTraceBoard - circuit board file viewer and tools",
		Long: `OpenTraceBoard (otb) reads boardview files and shows them in an
interactive viewer. It understands the legacy BRD format, the tabular
BRDOUT format and KiCad .kicad_pcb files.

Examples:
  otb view board.brd                        # Interactive viewer
  otb info board.bv                         # Board summary
  otb nets board.brd GND                    # Pins on one net
  otb pins board.brd --where 'part = U1'    # Filtered pin list
  otb render board.brd -o board.png         # Headless snapshot
  otb export board.brd -o board.xlsx        # Excel workbook`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level := log.InfoLevel
			if verbose {
				level = log.DebugLevel
			}
			logger := newLogger(cmd.ErrOrStderr(), level)

			path := configPath
			if path == "" {
				var err error
				if path, err = config.DefaultPath(); err != nil {
					logger.Warn("using default configuration", "err", err)
				}
			}
			cfg := config.DefaultConfig()
			if path != "" {
				loaded, err := config.Load(path)
				if err != nil {
					return err
				}
				cfg = loaded
				logger.Debug("configuration loaded", "path", path)
			}

			ctx := withConfig(withLogger(cmd.Context(), logger), cfg)
			cmd.SetContext(ctx)
			return nil
		},
	}

	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	root.PersistentFlags().StringVar(&configPath, "config", "", "config file (default is the per-user config.toml)")

	root.AddCommand(
		newViewCmd(),
		newInfoCmd(),
		newNetsCmd(),
		newPartsCmd(),
		newPinsCmd(),
		newRenderCmd(),
		newExportCmd(),
		newThemesCmd(),
	)
	return root
}

// Execute runs the root command
func Execute() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, styleIconError.Render(iconError)+" "+err.Error())
		os.Exit(1)
	}
}
