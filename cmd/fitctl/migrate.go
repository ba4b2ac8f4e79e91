package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"lg/weight-tracker-api/internal/store"
	"lg/weight-tracker-api/internal/store/pgstore"
)

// newMigrateCmd runs pending schema migrations. Postgres migrations are
// embedded SQL files tracked in the migrations table; SQLite databases are
// migrated whenever they are opened, so there it only opens the file.
func newMigrateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			if a.cfg.DBDriver != store.DriverPostgres {
				db, err := store.Open(ctx, a.cfg.DBDriver, a.cfg.DBURL)
				if err != nil {
					return err
				}
				defer db.Close()
				fmt.Fprintf(out, "%s schema is up to date.\n", a.cfg.DBURL)
				return nil
			}

			pg, err := pgstore.Open(ctx, a.cfg.DBURL)
			if err != nil {
				return fmt.Errorf("connect: %w", err)
			}
			defer pg.Close()

			ran, err := pg.Migrate(ctx)
			for _, name := range ran {
				fmt.Fprintf(out, "  applied: %s\n", name)
			}
			if err != nil {
				return err
			}
			if len(ran) == 0 {
				fmt.Fprintln(out, "No pending migrations.")
			} else {
				fmt.Fprintf(out, "\n%d migration(s) applied.\n", len(ran))
			}
			return nil
		},
	}
}
