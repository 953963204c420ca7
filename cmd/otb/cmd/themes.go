package cmd

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/OpenTraceLab/OpenTraceBoard/pkg/renderer"
)

func newThemesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "themes",
		Short: "List the built-in and configured themes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := configFromContext(cmd.Context())
			var rows [][]string
			for _, name := range cfg.ThemeNames() {
				kind, base := "built-in", ""
				if _, ok := renderer.ParseTheme(name); !ok {
					kind = "user"
					spec, err := cfg.ThemeSpec(name)
					if err != nil {
						return err
					}
					base = spec.Base.String()
				}
				current := ""
				if strings.EqualFold(name, cfg.Render.Theme) {
					current = iconSuccess
				}
				rows = append(rows, []string{name, kind, base, current})
			}
			printTable(cmd.OutOrStdout(), []string{"Name", "Kind", "Base", "Active"}, rows, -1)
			return nil
		},
	}
}
