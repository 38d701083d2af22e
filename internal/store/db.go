package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// DB wraps the database connection
type DB struct {
	conn *sql.DB
	path string
}

// New creates a new database connection
func New(dbPath string) (*DB, error) {
	// Ensure directory exists
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	// Use WAL mode for better concurrency
	conn, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := conn.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	conn.SetMaxOpenConns(25)
	conn.SetMaxIdleConns(5)

	return &DB{
		conn: conn,
		path: dbPath,
	}, nil
}

// Close closes the database connection
func (db *DB) Close() error {
	return db.conn.Close()
}

// Conn returns the underlying sql.DB connection
func (db *DB) Conn() *sql.DB {
	return db.conn
}

// Migrate creates the schema if it does not exist yet
func (db *DB) Migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS holdings (
			symbol         TEXT PRIMARY KEY,
			name           TEXT NOT NULL DEFAULT '',
			quantity       REAL NOT NULL DEFAULT 0,
			purchase_price REAL NOT NULL DEFAULT 0,
			category       TEXT NOT NULL DEFAULT '',
			updated_at     TEXT NOT NULL DEFAULT (datetime('now'))
		)
	`

	if _, err := db.conn.Exec(schema); err != nil {
		return fmt.Errorf("failed to create holdings table: %w", err)
	}

	return nil
}
