package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"lacquer/internal/catalog"
	"lacquer/internal/db"
)

func newCatalogCommand(ctx *commandContext) *cobra.Command {
	catalogCmd := &cobra.Command{
		Use:   "catalog",
		Short: "Search and maintain the shade catalog",
	}
	catalogCmd.AddCommand(newCatalogSearchCommand(ctx))
	catalogCmd.AddCommand(newCatalogSeedCommand(ctx))
	return catalogCmd
}

func newCatalogSearchCommand(ctx *commandContext) *cobra.Command {
	var brand string
	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Fuzzy-search shades by name",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := ctx.client()
			if err != nil {
				return err
			}
			candidates, err := client.SearchCatalog(cmd.Context(), strings.Join(args, " "), brand)
			if err != nil {
				return err
			}
			if len(candidates) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No matches.")
				return nil
			}
			rows := make([][]string, 0, len(candidates))
			for _, c := range candidates {
				rows = append(rows, []string{c.Display, fmt.Sprintf("%.2f", c.Confidence)})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"Shade", "Confidence"}, rows,
				[]columnAlignment{alignLeft, alignRight}))
			return nil
		},
	}
	cmd.Flags().StringVarP(&brand, "brand", "b", "", "Restrict matches to one brand")
	return cmd
}

// newCatalogSeedCommand imports seed data straight into the database so a
// catalog can be loaded before the daemon ever runs.
func newCatalogSeedCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "seed [file]",
		Short: "Import brands, shades, and SKUs from a JSON seed file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			path := cfg.Paths.CatalogSeed
			if len(args) == 1 {
				path = args[0]
			}
			if strings.TrimSpace(path) == "" {
				return fmt.Errorf("no seed file given and catalog_seed is not configured")
			}
			if err := cfg.EnsureDirectories(); err != nil {
				return err
			}
			database, err := db.Open(cfg)
			if err != nil {
				return err
			}
			defer database.Close()

			counts, err := catalog.NewStore(database).ImportSeed(cmd.Context(), path)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d brands, %d shades, %d SKUs\n",
				counts.Brands, counts.Shades, counts.SKUs)
			return nil
		},
	}
}
