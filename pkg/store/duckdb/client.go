// Package duckdb is the training-log store: records, profiles, feature
// vectors and validation reports in an embedded analytical database.
package duckdb

import (
	"database/sql"
	"fmt"

	_ "github.com/marcboeker/go-duckdb"
)

// Client wraps the database handle shared by the repositories. DuckDB runs
// in process; ":memory:" gives a throwaway database for tests and dry runs.
type Client struct {
	db   *sql.DB
	path string
}

// NewClient opens the database file and verifies the connection.
func NewClient(path string) (*Client, error) {
	db, err := sql.Open("duckdb", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open duckdb at %s: %w", path, err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping duckdb: %w", err)
	}
	return &Client{db: db, path: path}, nil
}

// DB exposes the underlying handle for callers that need raw SQL.
func (c *Client) DB() *sql.DB {
	return c.db
}

// Path returns the database location the client was opened with.
func (c *Client) Path() string {
	return c.path
}

// Close releases the database handle.
func (c *Client) Close() error {
	if c.db == nil {
		return nil
	}
	return c.db.Close()
}

// Exec runs a statement without returning rows.
func (c *Client) Exec(query string, args ...interface{}) error {
	_, err := c.db.Exec(query, args...)
	return err
}

// Query runs a statement returning rows.
func (c *Client) Query(query string, args ...interface{}) (*sql.Rows, error) {
	return c.db.Query(query, args...)
}

// QueryRow runs a statement returning at most one row.
func (c *Client) QueryRow(query string, args ...interface{}) *sql.Row {
	return c.db.QueryRow(query, args...)
}

// Begin starts a transaction. Batch writers use one transaction per batch
// so a bad row rolls the whole batch back.
func (c *Client) Begin() (*sql.Tx, error) {
	return c.db.Begin()
}
