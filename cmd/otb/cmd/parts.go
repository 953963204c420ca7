package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

func newPartsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "parts <file> [part]",
		Short: "List parts, or the pins of one part",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := openBoard(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()

			if len(args) == 2 {
				idx := b.PartIndex(args[1])
				if idx == 0 {
					return fmt.Errorf("no part named %q", args[1])
				}
				p := &b.Parts[idx-1]
				printTitle(w, fmt.Sprintf("Part %s (%s, %s)", p.Name, p.Side, p.Type))
				printTable(w, pinHeaders, pinRows(b, b.PinsOfPart(idx)), pinClassCol)
				return nil
			}

			var rows [][]string
			for i := range b.Parts {
				p := &b.Parts[i]
				if p.Probe {
					continue
				}
				rows = append(rows, []string{
					p.Name, p.Side.String(), p.Type.String(),
					fmt.Sprintf("%d,%d", p.P1.X, p.P1.Y), fmt.Sprintf("%d,%d", p.P2.X, p.P2.Y),
					strconv.Itoa(len(b.PinsOfPart(i + 1))),
				})
			}
			printTable(w, []string{"Name", "Side", "Type", "From", "To", "Pins"}, rows, -1)
			return nil
		},
	}
}
