package cmd

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/OpenTraceLab/OpenTraceBoard/pkg/export"
)

func newNetsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "nets <file> [net]",
		Short: "List nets, or the pins on one net",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := openBoard(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()

			if len(args) == 2 {
				pins := b.PinsOnNet(args[1])
				if len(pins) == 0 {
					return fmt.Errorf("no pins on net %q", args[1])
				}
				printTitle(w, fmt.Sprintf("Net %s (%s)", args[1], export.NetClass(args[1])))
				printTable(w, pinHeaders, pinRows(b, pins), pinClassCol)
				return nil
			}

			var rows [][]string
			for _, net := range b.NetNames() {
				pins := b.PinsOnNet(net)
				seen := make(map[string]bool)
				var parts []string
				for _, i := range pins {
					p := b.PartOf(&b.Pins[i])
					if p == nil || p.Probe || seen[p.Name] {
						continue
					}
					seen[p.Name] = true
					parts = append(parts, p.Name)
				}
				sort.Strings(parts)
				rows = append(rows, []string{net, export.NetClass(net), strconv.Itoa(len(pins)), strings.Join(parts, " ")})
			}
			printTable(w, []string{"Net", "Class", "Pins", "Parts"}, rows, 1)
			return nil
		},
	}
}
