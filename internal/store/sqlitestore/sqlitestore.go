// Package sqlitestore is the embedded SQLite backend (pure Go driver), used
// for single-user deployments, local development and tests.
package sqlitestore

import (
	"context"
	"errors"
	"fmt"
	"log"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// Store wraps a sqlx handle limited to one open connection, so PRAGMAs stick
// and writers never contend.
type Store struct {
	db *sqlx.DB
}

// Open opens (creating if needed) the database at path and applies pending
// migrations.
func Open(path string) (*Store, error) {
	db, err := sqlx.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	db.SetMaxOpenConns(1)
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite database: %w", err)
	}
	if _, err := db.Exec(`PRAGMA foreign_keys = ON;`); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}
	if err := ApplyMigrations(db); err != nil {
		db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

// New wraps an existing handle without touching its schema.
func New(db *sqlx.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Close() error {
	return s.db.Close()
}

// InTx runs fn inside one transaction: commit when fn returns nil, rollback
// on error or panic.
func (s *Store) InTx(ctx context.Context, fn func(*Txn) error) (err error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				log.Printf("[InTx] rollback error: %v", rbErr)
			}
		}
	}()
	if err = fn(&Txn{tx: tx}); err != nil {
		return err
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// Txn implements the repository methods on top of one sqlx.Tx. Statements are
// built with squirrel using ? placeholders.
type Txn struct {
	tx *sqlx.Tx
}

var qb = sq.StatementBuilder.PlaceholderFormat(sq.Question)

func (t *Txn) get(ctx context.Context, dest any, b sq.Sqlizer) error {
	query, args, err := b.ToSql()
	if err != nil {
		return err
	}
	return t.tx.GetContext(ctx, dest, query, args...)
}

func (t *Txn) selectAll(ctx context.Context, dest any, b sq.Sqlizer) error {
	query, args, err := b.ToSql()
	if err != nil {
		return err
	}
	return t.tx.SelectContext(ctx, dest, query, args...)
}

func (t *Txn) exec(ctx context.Context, b sq.Sqlizer) (int64, error) {
	query, args, err := b.ToSql()
	if err != nil {
		return 0, err
	}
	res, err := t.tx.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// insert runs b and loads the new row back into dest. Rows are re-read with a
// plain SELECT so DATETIME columns keep their declared type on scan.
func (t *Txn) insert(ctx context.Context, dest any, table string, b sq.InsertBuilder) error {
	query, args, err := b.ToSql()
	if err != nil {
		return err
	}
	res, err := t.tx.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	return t.get(ctx, dest, qb.Select("*").From(table).Where(sq.Eq{"id": id}))
}

// isUniqueViolation reports SQLITE_CONSTRAINT_UNIQUE.
func isUniqueViolation(err error) bool {
	var se *sqlite.Error
	return errors.As(err, &se) && se.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE
}
