package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

func newInventoryCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "inventory",
		Short: "List the collection built from matched sessions",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := ctx.client()
			if err != nil {
				return err
			}
			items, err := client.Inventory(cmd.Context(), ctx.user())
			if err != nil {
				return err
			}
			if len(items) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No polishes yet. Run `lacquer capture start` to add one.")
				return nil
			}

			rows := make([][]string, 0, len(items))
			for _, item := range items {
				rows = append(rows, []string{
					item.Brand,
					item.ShadeName,
					item.Finish,
					strconv.Itoa(item.Quantity),
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"Brand", "Shade", "Finish", "Qty"}, rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight}))
			return nil
		},
	}
}
