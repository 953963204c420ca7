package cmd

import "github.com/spf13/cobra"

func newPinsCmd() *cobra.Command {
	var where string

	cmd := &cobra.Command{
		Use:   "pins <file>",
		Short: "List pins, optionally filtered",
		Long: `List the pins of a board. --where takes a filter expression over the
fields net, part, side, probe and name:

  otb pins board.brd --where 'net ~ "VDD*" and side = top'
  otb pins board.brd --where 'part = U1 or probe >= 100'`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := openBoard(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			pins, err := selectPins(b, where)
			if err != nil {
				return err
			}
			printTable(cmd.OutOrStdout(), pinHeaders, pinRows(b, pins), pinClassCol)
			return nil
		},
	}

	cmd.Flags().StringVarP(&where, "where", "w", "", "filter expression")
	return cmd
}
