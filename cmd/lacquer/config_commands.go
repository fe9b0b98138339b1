package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"lacquer/internal/config"
)

func newConfigCommand(ctx *commandContext) *cobra.Command {
	configCmd := &cobra.Command{
		Use:         "config",
		Short:       "Inspect and generate configuration",
		Annotations: map[string]string{"skipConfigLoad": "true"},
	}
	configCmd.AddCommand(newConfigShowCommand(ctx))
	configCmd.AddCommand(newConfigInitCommand())
	return configCmd
}

func newConfigShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "data_dir          = %s\n", cfg.Paths.DataDir)
			fmt.Fprintf(out, "log_dir           = %s\n", cfg.Paths.LogDir)
			fmt.Fprintf(out, "catalog_seed      = %s\n", cfg.Paths.CatalogSeed)
			fmt.Fprintf(out, "api_bind          = %s\n", cfg.Paths.APIBind)
			fmt.Fprintf(out, "match_threshold   = %.2f\n", cfg.Resolver.MatchThreshold)
			fmt.Fprintf(out, "suggest_threshold = %.2f\n", cfg.Resolver.SuggestThreshold)
			fmt.Fprintf(out, "max_candidates    = %d\n", cfg.Resolver.MaxCandidates)
			fmt.Fprintf(out, "default_user      = %s\n", cfg.Resolver.DefaultUser)
			fmt.Fprintf(out, "log_format        = %s\n", cfg.Logging.Format)
			fmt.Fprintf(out, "log_level         = %s\n", cfg.Logging.Level)
			return nil
		},
	}
}

func newConfigInitCommand() *cobra.Command {
	var pathFlag string
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a commented sample configuration file",
		RunE: func(cmd *cobra.Command, args []string) error {
			path := pathFlag
			if path == "" {
				var err error
				path, err = config.DefaultConfigPath()
				if err != nil {
					return err
				}
			}
			written, err := config.WriteSample(path)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", written)
			return nil
		},
	}
	cmd.Flags().StringVar(&pathFlag, "path", "", "Destination path (defaults to the standard config location)")
	return cmd
}
