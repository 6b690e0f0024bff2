// ABOUTME: SQLite connection setup for the course store
// ABOUTME: Pure-Go modernc driver, WAL journal, foreign keys, and a schema version guard
package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// ErrSchemaTooNew means the file was written by a newer build
var ErrSchemaTooNew = errors.New("database schema is newer than this build")

const fileDSN = "?_pragma=journal_mode(WAL)&_pragma=foreign_keys(ON)&_pragma=busy_timeout(5000)"

// DB is an open course database
type DB struct {
	conn *sql.DB
}

// Open opens or creates the database file, creating parent directories
func Open(path string) (*DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	conn, err := sql.Open("sqlite", path+fileDSN)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := conn.Ping(); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to ping database %s: %w", path, err)
	}
	return migrate(conn)
}

// OpenInMemory creates a throwaway database for tests
func OpenInMemory() (*DB, error) {
	conn, err := sql.Open("sqlite", ":memory:?_pragma=foreign_keys(ON)")
	if err != nil {
		return nil, fmt.Errorf("failed to open in-memory database: %w", err)
	}
	// each pooled connection would see its own empty database
	conn.SetMaxOpenConns(1)
	return migrate(conn)
}

// migrate applies Schema unless the file carries a newer version
func migrate(conn *sql.DB) (*DB, error) {
	var version int
	if err := conn.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("reading schema version: %w", err)
	}
	if version > SchemaVersion {
		_ = conn.Close()
		return nil, fmt.Errorf("%w: file has version %d, build supports %d", ErrSchemaTooNew, version, SchemaVersion)
	}

	if _, err := conn.Exec(Schema); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	if _, err := conn.Exec(fmt.Sprintf("PRAGMA user_version = %d", SchemaVersion)); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("writing schema version: %w", err)
	}
	return &DB{conn: conn}, nil
}

// Close closes the database
func (db *DB) Close() error {
	if db.conn == nil {
		return nil
	}
	return db.conn.Close()
}

// Exec runs a statement without returning rows
func (db *DB) Exec(query string, args ...any) (sql.Result, error) {
	return db.conn.Exec(query, args...)
}

// Query runs a statement that returns rows
func (db *DB) Query(query string, args ...any) (*sql.Rows, error) {
	return db.conn.Query(query, args...)
}

// QueryRow runs a statement that returns at most one row
func (db *DB) QueryRow(query string, args ...any) *sql.Row {
	return db.conn.QueryRow(query, args...)
}

// WithTx runs fn in a transaction, rolling back on error
func (db *DB) WithTx(fn func(tx *sql.Tx) error) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
