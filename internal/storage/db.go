// ABOUTME: SQLite database connection and lifecycle management.
// ABOUTME: Uses modernc.org/sqlite (pure Go, no CGO required).
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/multierr"
	_ "modernc.org/sqlite"
)

// DB is the training log store. One DB is opened at startup and handed to
// every component that needs it.
type DB struct {
	db     *sql.DB
	dbPath string
}

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Open opens or creates the SQLite database at dbPath and initializes it.
func Open(dbPath string) (*DB, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}

	db, err := sql.Open("sqlite", fileDSN(dbPath))
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := os.Chmod(dbPath, 0600); err != nil && !os.IsNotExist(err) {
		_ = db.Close()
		return nil, fmt.Errorf("set database permissions: %w", err)
	}

	return open(db, dbPath)
}

// OpenMemory opens a private in-memory database. Intended for tests.
func OpenMemory() (*DB, error) {
	db, err := sql.Open("sqlite", "file::memory:?_pragma=foreign_keys(1)")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// Every pooled connection would otherwise get its own empty database.
	db.SetMaxOpenConns(1)

	return open(db, ":memory:")
}

func open(db *sql.DB, dbPath string) (*DB, error) {
	d := &DB{db: db, dbPath: dbPath}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := d.Initialize(ctx); err != nil {
		return nil, multierr.Append(fmt.Errorf("initialize schema: %w", err), db.Close())
	}
	return d, nil
}

// fileDSN builds a DSN whose pragmas apply to every pooled connection.
func fileDSN(dbPath string) string {
	return fmt.Sprintf("file:%s?_pragma=foreign_keys(1)&_pragma=journal_mode(wal)"+
		"&_pragma=busy_timeout(5000)&_pragma=synchronous(normal)", dbPath)
}

// DBFileName is the database file name inside the data directory.
const DBFileName = "trainlog.db"

// DataDir returns the default data directory following XDG base directory conventions.
func DataDir() string {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, _ := os.UserHomeDir()
		dataHome = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataHome, "trainlog")
}

// Path returns the database file path, or ":memory:".
func (d *DB) Path() string {
	return d.dbPath
}

// Close closes the database connection.
func (d *DB) Close() error {
	if d.db != nil {
		return d.db.Close()
	}
	return nil
}

// withTx runs fn inside a transaction, rolling back if fn fails.
func (d *DB) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		return multierr.Append(err, ignoreDone(tx.Rollback()))
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

func ignoreDone(err error) error {
	if err == sql.ErrTxDone {
		return nil
	}
	return err
}

func nowString() string {
	return time.Now().UTC().Format(time.RFC3339)
}

func parseTimestamp(s string) time.Time {
	t, _ := time.Parse(time.RFC3339, s)
	return t
}
