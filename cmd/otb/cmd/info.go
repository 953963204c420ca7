package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/OpenTraceLab/OpenTraceBoard/pkg/export"
)

func newInfoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "info <file>",
		Short: "Summarize a board file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := openBoard(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			var ground, nc int
			for _, net := range b.NetNames() {
				switch export.NetClass(net) {
				case export.ClassGround:
					ground++
				case export.ClassNC:
					nc++
				}
			}
			bb := b.BoundingBox()

			w := cmd.OutOrStdout()
			printTitle(w, args[0])
			printKeyValue(w, "Format", b.Dialect)
			printKeyValue(w, "Outline", fmt.Sprintf("%d points", len(b.Format)))
			printKeyValue(w, "Parts", len(b.ComponentNames()))
			printKeyValue(w, "Pins", len(b.Pins))
			printKeyValue(w, "Test points", len(b.Nails))
			printKeyValue(w, "Nets", len(b.NetNames()))
			printKeyValue(w, "Ground nets", ground)
			printKeyValue(w, "NC nets", nc)
			printKeyValue(w, "Bounds", fmt.Sprintf("(%.0f, %.0f) - (%.0f, %.0f)", bb.Min.X, bb.Min.Y, bb.Max.X, bb.Max.Y))
			printKeyValue(w, "Size", fmt.Sprintf("%.0f x %.0f", bb.Width(), bb.Height()))
			return nil
		},
	}
}
