package main

import (
	"github.com/spf13/cobra"
)

func newRootCommand() *cobra.Command {
	var configFlag string
	var userFlag string

	ctx := newCommandContext(&configFlag, &userFlag)

	rootCmd := &cobra.Command{
		Use:           "lacquer",
		Short:         "Track a nail polish collection from photo captures",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if shouldSkipConfig(cmd) {
				return nil
			}
			_, err := ctx.ensureConfig()
			return err
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "", "Configuration file path")
	rootCmd.PersistentFlags().StringVarP(&userFlag, "user", "u", "", "Act as this user instead of the configured default")

	rootCmd.AddCommand(newCaptureCommand(ctx))
	rootCmd.AddCommand(newInventoryCommand(ctx))
	rootCmd.AddCommand(newCatalogCommand(ctx))
	rootCmd.AddCommand(newConfigCommand(ctx))
	rootCmd.AddCommand(newStatusCommand(ctx))

	return rootCmd
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}
