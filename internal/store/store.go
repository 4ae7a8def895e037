// Package store persists CMS state — admin accounts, site content, and the
// activity log — behind a small sqlx wrapper. SQLite is the default backend;
// MySQL and Postgres are supported for shared deployments.
package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jmoiron/sqlx"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("record not found")

// Store wraps the relational database used by the CMS.
type Store struct {
	db     *sqlx.DB
	driver string
}

// Options selects the backing database.
type Options struct {
	// Driver is one of "sqlite" (default), "mysql", "postgres".
	Driver string

	// DSN is the connection string for mysql/postgres. For sqlite it is the
	// data directory; empty means in-memory.
	DSN string
}

// Open connects to the configured database and applies migrations.
func Open(opts Options) (*Store, error) {
	driver := opts.Driver
	if driver == "" {
		driver = "sqlite"
	}

	var db *sqlx.DB
	var err error

	switch driver {
	case "sqlite":
		dsn := ":memory:?_journal_mode=WAL"
		if opts.DSN != "" {
			if err := os.MkdirAll(opts.DSN, 0o755); err != nil {
				return nil, fmt.Errorf("create data dir: %w", err)
			}
			dsn = filepath.Join(opts.DSN, "vitrine.db") + "?_journal_mode=WAL&_busy_timeout=5000"
		}
		db, err = sqlx.Connect("sqlite", dsn)
		if err == nil {
			db.SetMaxOpenConns(1) // SQLite doesn't support concurrent writes
			_, err = db.Exec("PRAGMA foreign_keys = ON")
		}
	case "mysql":
		db, err = sqlx.Connect("mysql", opts.DSN)
	case "postgres":
		db, err = sqlx.Connect("pgx", opts.DSN)
	default:
		return nil, fmt.Errorf("unsupported store driver %q", driver)
	}
	if err != nil {
		return nil, fmt.Errorf("open %s database: %w", driver, err)
	}

	s := &Store{db: db, driver: driver}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate database: %w", err)
	}
	return s, nil
}

// insertID runs an INSERT and returns the new row id. The pgx driver does not
// implement LastInsertId, so postgres appends a RETURNING clause and scans the
// id instead.
func (s *Store) insertID(ctx context.Context, q string, args ...interface{}) (int64, error) {
	if s.driver == "postgres" {
		var id int64
		err := s.db.GetContext(ctx, &id, s.db.Rebind(q+" RETURNING id"), args...)
		return id, err
	}
	result, err := s.db.ExecContext(ctx, s.db.Rebind(q), args...)
	if err != nil {
		return 0, err
	}
	return result.LastInsertId()
}

// insertNamedID is insertID for named-parameter INSERTs.
func (s *Store) insertNamedID(ctx context.Context, q string, arg interface{}) (int64, error) {
	if s.driver == "postgres" {
		rows, err := s.db.NamedQueryContext(ctx, q+" RETURNING id", arg)
		if err != nil {
			return 0, err
		}
		defer rows.Close()
		var id int64
		if rows.Next() {
			if err := rows.Scan(&id); err != nil {
				return 0, err
			}
		}
		return id, rows.Err()
	}
	result, err := s.db.NamedExecContext(ctx, q, arg)
	if err != nil {
		return 0, err
	}
	return result.LastInsertId()
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Ping checks database connectivity, for readiness probes.
func (s *Store) Ping() error {
	return s.db.Ping()
}
