// Package sqlite opens the local SQLite database that backs the offline order queue.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	// Pure-Go driver, registered as "sqlite".
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS pending_orders (
    seq             INTEGER PRIMARY KEY AUTOINCREMENT,
    idempotency_key TEXT    NOT NULL UNIQUE,
    payload         TEXT    NOT NULL,
    queued_at       TEXT    NOT NULL
);
`

// Client represents a SQLite client.
type Client struct {
	db *sql.DB
}

// DB returns the underlying database handle.
func (c *Client) DB() *sql.DB {
	return c.db
}

// Close closes the database for graceful shutdown.
func (c *Client) Close() error {
	return c.db.Close()
}

// Open opens (or creates) the database at path and applies the schema.
func Open(ctx context.Context, path string) (*Client, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=synchronous(FULL)", path)

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}

	// One connection serializes writers at the storage layer.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()

		return nil, fmt.Errorf("failed to ping sqlite database: %w", err)
	}

	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()

		return nil, fmt.Errorf("failed to apply sqlite schema: %w", err)
	}

	return &Client{db: db}, nil
}

// MustNewClient opens the database configured by queue.sqlite.path.
func MustNewClient() *Client {
	path := viper.GetString("queue.sqlite.path")
	if path == "" {
		path = "./data/pending_orders.db"
	}

	client, err := Open(context.Background(), path)
	if err != nil {
		panic(err)
	}

	return client
}
