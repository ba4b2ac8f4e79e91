// fitctl is the operator tool for the weight tracker: schema migrations,
// account management and catalog seeding.
// Usage: go run ./cmd/fitctl <command> (from the repo root)
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"lg/weight-tracker-api/internal/config"
	"lg/weight-tracker-api/internal/exercise"
	"lg/weight-tracker-api/internal/service"
	"lg/weight-tracker-api/internal/store"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// app carries what every subcommand needs once flags are parsed.
type app struct {
	configPath string
	cfg        config.Config
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:           "fitctl",
		Short:         "Operator tool for the weight tracker API",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			path := a.configPath
			if path == "" {
				path = config.ConfigPath()
			}
			cfg, err := config.Load(path)
			if err != nil {
				return err
			}
			a.cfg = cfg
			return nil
		},
	}
	root.PersistentFlags().StringVar(&a.configPath, "config", "", "YAML config file (defaults to $CONFIG_FILE)")

	root.AddCommand(
		newMigrateCmd(a),
		newCreateUserCmd(a),
		newDeleteUserCmd(a),
		newSeedFoodsCmd(a),
	)
	return root
}

// openTracker opens the configured store and wraps it in a Tracker. The
// caller closes the returned store.
func (a *app) openTracker(ctx context.Context) (*service.Tracker, store.Store, error) {
	db, err := store.Open(ctx, a.cfg.DBDriver, a.cfg.DBURL)
	if err != nil {
		return nil, nil, fmt.Errorf("open %s store: %w", a.cfg.DBDriver, err)
	}
	t := service.New(db,
		service.WithMETs(exercise.DefaultTable.With(a.cfg.METs)),
		service.WithGlobalItems(a.cfg.AllowGlobalItems),
	)
	return t, db, nil
}
