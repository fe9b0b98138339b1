package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"lacquer/internal/ipc"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show daemon health and session counts",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := ctx.client()
			if err != nil {
				return err
			}
			status, err := client.Status(cmd.Context())
			if err != nil {
				if ipc.IsNotRunning(err) {
					return fmt.Errorf("daemon is not running; start it with `lacquerd` (%w)", err)
				}
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Running:  %s (pid %d)\n", yesNo(status.Running), status.PID)
			fmt.Fprintf(out, "Database: %s\n", status.DatabasePath)
			fmt.Fprintf(out, "Lock:     %s\n", status.LockFilePath)

			if len(status.SessionStats) > 0 {
				states := make([]string, 0, len(status.SessionStats))
				for state := range status.SessionStats {
					states = append(states, state)
				}
				sort.Strings(states)
				rows := make([][]string, 0, len(states))
				for _, state := range states {
					rows = append(rows, []string{state, fmt.Sprintf("%d", status.SessionStats[state])})
				}
				fmt.Fprintln(out)
				fmt.Fprintln(out, renderTable(
					[]string{"Status", "Sessions"}, rows,
					[]columnAlignment{alignLeft, alignRight}))
			}
			return nil
		},
	}
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
