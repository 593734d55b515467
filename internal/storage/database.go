// Package storage handles persistence: the relational store holding cards
// and gallery photos, and the object store holding photo bytes.
package storage

import (
	"context"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib" // registers the "pgx" database/sql driver
	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3" // registers the "sqlite3" driver for local runs

	"github.com/fleveque/giftshop-functions/internal/config"
)

// Opener hands out a fresh database connection. Callers own the returned
// handle and must Close it when the invocation is done.
type Opener interface {
	Open(ctx context.Context) (*sqlx.DB, error)
}

// Connector opens connections from a driver name and DSN. It holds no
// connection itself, so it is safe to share across invocations.
type Connector struct {
	driver string
	dsn    string
}

// NewConnector creates a Connector for the configured database.
func NewConnector(cfg config.DatabaseConfig) *Connector {
	return &Connector{driver: cfg.Driver, dsn: cfg.URL}
}

// Open connects and pings the database. Each handler invocation opens its
// own connection and closes it before returning.
func (c *Connector) Open(ctx context.Context) (*sqlx.DB, error) {
	if c.dsn == "" {
		return nil, fmt.Errorf("database url is not configured")
	}

	db, err := sqlx.ConnectContext(ctx, c.driver, c.dsn)
	if err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	// One invocation runs its queries sequentially.
	db.SetMaxOpenConns(1)
	return db, nil
}
