package cmd

import (
	"github.com/spf13/cobra"

	"github.com/OpenTraceLab/OpenTraceBoard/pkg/export"
)

func newExportCmd() *cobra.Command {
	var (
		output string
		where  string
	)

	cmd := &cobra.Command{
		Use:   "export <file>",
		Short: "Export parts, pins, nets and test points to an Excel workbook",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := openBoard(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			var opts export.Options
			if where != "" {
				pins, err := selectPins(b, where)
				if err != nil {
					return err
				}
				// an empty match exports no pins rather than all of them
				opts.Pins = append([]int{}, pins...)
			}

			p := newProgress(loggerFromContext(cmd.Context()))
			if err := export.SaveWorkbook(output, b, opts); err != nil {
				return err
			}
			p.done("workbook written", "path", output)

			w := cmd.OutOrStdout()
			printSuccess(w, "Exported %s", args[0])
			printFile(w, output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output .xlsx file (required)")
	cmd.Flags().StringVarP(&where, "where", "w", "", "only export pins matching this filter")
	_ = cmd.MarkFlagRequired("output")
	return cmd
}
