package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// newSeedFoodsCmd loads global catalog items from a CSV file. Nothing is
// inserted when the catalog already has items.
func newSeedFoodsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "seed-foods <file.csv>",
		Short: "Seed the global food catalog from CSV",
		Long: `Seed the global food catalog from CSV.

The header must contain a "food" or "name" column. Optional columns:
measure, kcal, protein, fat, carbs, category. Seeding only happens when
the catalog is empty.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			tracker, db, err := a.openTracker(cmd.Context())
			if err != nil {
				return err
			}
			defer db.Close()

			n, err := tracker.SeedCatalog(cmd.Context(), f)
			if err != nil {
				return fmt.Errorf("seed %s: %w", args[0], err)
			}
			if n == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "Catalog already populated, nothing seeded.")
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Seeded %d food item(s).\n", n)
			return nil
		},
	}
}
