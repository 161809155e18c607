// Package sqlite stores entries in a single local SQLite file.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog"

	"github.com/iho/cashbook/internal/infrastructure/retry"
)

// driverName is go-sqlite3 with a fold(text) function registered on every
// connection. SQLite's lower() only folds ASCII.
const driverName = "sqlite3_cashbook"

func init() {
	sql.Register(driverName, &sqlite3.SQLiteDriver{
		ConnectHook: func(conn *sqlite3.SQLiteConn) error {
			return conn.RegisterFunc("fold", strings.ToLower, true)
		},
	})
}

const schema = `
CREATE TABLE IF NOT EXISTS entries (
	id          TEXT PRIMARY KEY,
	date        TEXT NOT NULL,
	particulars TEXT NOT NULL,
	type        TEXT NOT NULL CHECK (type IN ('Credit', 'Debit')),
	comments    TEXT NOT NULL DEFAULT '',
	amount      TEXT NOT NULL,
	balance     TEXT,
	created_at  TEXT NOT NULL,
	updated_at  TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_entries_date_id ON entries (date, id);
`

// Open opens (or creates) the database at path and applies the schema.
// Use ":memory:" for a throwaway database.
func Open(ctx context.Context, path string) (*sql.DB, error) {
	dsn := path
	if path != ":memory:" {
		dsn += "?_busy_timeout=5000&_journal_mode=WAL"
	}

	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// one writer at a time; also keeps a :memory: database alive
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return db, nil
}

// NewRetrier creates a retrier for SQLite busy and locked errors.
func NewRetrier(logger zerolog.Logger) *retry.Retrier {
	return retry.New("sqlite", isRetryableError, retry.WithLogger(logger))
}

func isRetryableError(err error) bool {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.Code == sqlite3.ErrBusy || sqliteErr.Code == sqlite3.ErrLocked
	}
	return false
}
