// Package store defines the transactional repository the service layer runs
// against. Backends live in pgstore (Postgres) and sqlitestore (SQLite).
package store

import (
	"context"
	"fmt"

	"lg/weight-tracker-api/internal/model"
	"lg/weight-tracker-api/internal/store/pgstore"
	"lg/weight-tracker-api/internal/store/sqlitestore"
)

// Store hands out transactions. InTx commits when fn returns nil and rolls
// back when fn returns an error or panics.
type Store interface {
	InTx(ctx context.Context, fn func(Tx) error) error
	Close() error
}

// Tx is the repository surface available inside one transaction.
//
// Lookups of a single row return model.ErrNotFound when nothing matches.
// Inserts that hit a unique constraint return the matching domain error
// (model.ErrDuplicateUsername, model.ErrDuplicateItem). Bulk deletes are
// scoped to the owning user and report how many rows went away.
type Tx interface {
	CreateUser(ctx context.Context, username, hash, salt string) (model.User, error)
	UserByUsername(ctx context.Context, username string) (model.User, error)
	UserByID(ctx context.Context, id int64) (model.User, error)
	DeleteUser(ctx context.Context, id int64) (int64, error)

	ProfileByUser(ctx context.Context, userID int64) (model.Profile, error)
	UpsertProfile(ctx context.Context, p model.Profile) (model.Profile, error)

	InsertFoodLog(ctx context.Context, e model.FoodLog) (model.FoodLog, error)
	FoodLogsOn(ctx context.Context, userID int64, date model.Date) ([]model.FoodLog, error)
	DeleteFoodLogs(ctx context.Context, userID int64, ids []int64) (int64, error)

	InsertExerciseLog(ctx context.Context, e model.ExerciseLog) (model.ExerciseLog, error)
	ExerciseLogsOn(ctx context.Context, userID int64, date model.Date) ([]model.ExerciseLog, error)
	DeleteExerciseLogs(ctx context.Context, userID int64, ids []int64) (int64, error)

	InsertWorkoutLog(ctx context.Context, w model.WorkoutLog) (model.WorkoutLog, error)
	WorkoutLogs(ctx context.Context, userID int64) ([]model.WorkoutLog, error)
	DeleteWorkoutLogs(ctx context.Context, userID int64, ids []int64) (int64, error)

	InsertWeightEntry(ctx context.Context, w model.WeightEntry) (model.WeightEntry, error)
	WeightHistory(ctx context.Context, userID int64) ([]model.WeightEntry, error)

	// FoodItems lists global items plus, when userID is non-nil, that user's
	// personal items, ordered by name.
	FoodItems(ctx context.Context, userID *int64) ([]model.FoodItem, error)
	FoodItemByID(ctx context.Context, id int64) (model.FoodItem, error)
	InsertFoodItem(ctx context.Context, it model.FoodItem) (model.FoodItem, error)
	DeleteFoodItems(ctx context.Context, ownerID int64, ids []int64) (int64, error)
	CountFoodItems(ctx context.Context) (int64, error)
}

// Drivers accepted by Open.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Open connects to the backend named by driver. SQLite databases are
// migrated on open; Postgres schemas are migrated by `fitctl migrate`.
func Open(ctx context.Context, driver, url string) (Store, error) {
	switch driver {
	case DriverPostgres:
		s, err := pgstore.Open(ctx, url)
		if err != nil {
			return nil, err
		}
		return pgAdapter{s}, nil
	case DriverSQLite:
		s, err := sqlitestore.Open(url)
		if err != nil {
			return nil, err
		}
		return sqliteAdapter{s}, nil
	}
	return nil, fmt.Errorf("unknown db driver %q", driver)
}

// The backends define their own concrete transaction types so they don't
// import this package; the adapters lift them to Tx.

type pgAdapter struct{ *pgstore.Store }

func (a pgAdapter) InTx(ctx context.Context, fn func(Tx) error) error {
	return a.Store.InTx(ctx, func(tx *pgstore.Txn) error { return fn(tx) })
}

type sqliteAdapter struct{ *sqlitestore.Store }

func (a sqliteAdapter) InTx(ctx context.Context, fn func(Tx) error) error {
	return a.Store.InTx(ctx, func(tx *sqlitestore.Txn) error { return fn(tx) })
}

// FromPostgres and FromSQLite wrap an already-open backend.
func FromPostgres(s *pgstore.Store) Store  { return pgAdapter{s} }
func FromSQLite(s *sqlitestore.Store) Store { return sqliteAdapter{s} }
