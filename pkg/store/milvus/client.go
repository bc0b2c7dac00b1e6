// Package milvus indexes athlete-week load signatures for precedent
// search: given this week's load shape, find the peers whose histories
// looked the same.
package milvus

import (
	"context"
	"fmt"

	"github.com/milvus-io/milvus-sdk-go/v2/client"
	"github.com/milvus-io/milvus-sdk-go/v2/entity"
)

// Config holds connection settings. Credentials are optional for local
// deployments.
type Config struct {
	Address  string
	Username string
	Password string
}

// DefaultConfig returns local connection settings.
func DefaultConfig() Config {
	return Config{Address: "localhost:19530"}
}

// Client wraps a Milvus connection.
type Client struct {
	conn client.Client
	addr string
}

// NewClient connects to the Milvus server.
func NewClient(ctx context.Context, cfg Config) (*Client, error) {
	conn, err := client.NewClient(ctx, client.Config{
		Address:  cfg.Address,
		Username: cfg.Username,
		Password: cfg.Password,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to milvus at %s: %w", cfg.Address, err)
	}
	return &Client{conn: conn, addr: cfg.Address}, nil
}

// Close drops the connection.
func (c *Client) Close() error {
	if c.conn == nil {
		return nil
	}
	return c.conn.Close()
}

// Connection exposes the underlying SDK client.
func (c *Client) Connection() client.Client {
	return c.conn
}

// HasCollection reports whether the collection exists.
func (c *Client) HasCollection(ctx context.Context, name string) (bool, error) {
	return c.conn.HasCollection(ctx, name)
}

// CreateIndex builds an IVF_FLAT cosine index on the given vector field.
// Cosine similarity matches the embedding: load shapes are compared by
// direction, not magnitude.
func (c *Client) CreateIndex(ctx context.Context, collectionName, fieldName string) error {
	index, err := entity.NewIndexIvfFlat(entity.COSINE, 128)
	if err != nil {
		return fmt.Errorf("failed to create index config: %w", err)
	}
	if err := c.conn.CreateIndex(ctx, collectionName, fieldName, index, false); err != nil {
		return fmt.Errorf("failed to create index: %w", err)
	}
	return nil
}

// LoadCollection loads the collection into memory for searching.
func (c *Client) LoadCollection(ctx context.Context, collectionName string) error {
	if err := c.conn.LoadCollection(ctx, collectionName, false); err != nil {
		return fmt.Errorf("failed to load collection: %w", err)
	}
	return nil
}

// ReleaseCollection releases the collection from memory.
func (c *Client) ReleaseCollection(ctx context.Context, collectionName string) error {
	return c.conn.ReleaseCollection(ctx, collectionName)
}

// DropCollection removes the collection entirely.
func (c *Client) DropCollection(ctx context.Context, collectionName string) error {
	return c.conn.DropCollection(ctx, collectionName)
}

// Flush persists buffered inserts.
func (c *Client) Flush(ctx context.Context, collectionName string) error {
	return c.conn.Flush(ctx, collectionName, false)
}
