// Package storagetest provides a throwaway SQLite database with the
// production table layout, for tests of anything that talks to storage.
package storagetest

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/fleveque/giftshop-functions/internal/config"
	"github.com/fleveque/giftshop-functions/internal/model"
	"github.com/fleveque/giftshop-functions/internal/storage"
)

// Schema mirrors the Postgres tables, in SQLite dialect. The production
// schema is managed outside this repository.
const Schema = `
CREATE TABLE IF NOT EXISTS cards (
    id              INTEGER PRIMARY KEY AUTOINCREMENT,
    amount          INTEGER NOT NULL,
    price           INTEGER NOT NULL,
    description     TEXT NOT NULL DEFAULT '',
    available_count INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS gallery_photos (
    id          INTEGER PRIMARY KEY AUTOINCREMENT,
    file_key    TEXT NOT NULL,
    file_url    TEXT NOT NULL,
    uploaded_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);
`

// DB is a temp-file database. Connector opens new connections to it the
// same way handlers do in production.
type DB struct {
	Connector *storage.Connector
	Config    config.DatabaseConfig
	conn      *sqlx.DB
	t         *testing.T
}

// New creates the database file under t.TempDir() and applies Schema.
func New(t *testing.T) *DB {
	t.Helper()

	path := filepath.Join(t.TempDir(), "shop.db")
	cfg := config.DatabaseConfig{
		Driver: "sqlite3",
		URL:    fmt.Sprintf("%s?_busy_timeout=5000", path),
	}
	connector := storage.NewConnector(cfg)

	conn, err := connector.Open(context.Background())
	if err != nil {
		t.Fatalf("opening test database: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	if _, err := conn.Exec(Schema); err != nil {
		t.Fatalf("creating schema: %v", err)
	}

	return &DB{Connector: connector, Config: cfg, conn: conn, t: t}
}

// Conn returns a long-lived connection owned by the test.
func (d *DB) Conn() *sqlx.DB {
	return d.conn
}

// InsertCard stores card and sets its ID.
func (d *DB) InsertCard(card *model.Card) {
	d.t.Helper()
	res, err := d.conn.NamedExec(`
		INSERT INTO cards (amount, price, description, available_count)
		VALUES (:amount, :price, :description, :available_count)
	`, card)
	if err != nil {
		d.t.Fatalf("inserting card: %v", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		d.t.Fatalf("getting card id: %v", err)
	}
	card.ID = id
}

// InsertPhoto stores a photo row with an explicit upload time (nil for
// NULL) and returns its id.
func (d *DB) InsertPhoto(key, url string, uploadedAt *time.Time) int64 {
	d.t.Helper()
	res, err := d.conn.Exec(
		"INSERT INTO gallery_photos (file_key, file_url, uploaded_at) VALUES (?, ?, ?)",
		key, url, uploadedAt)
	if err != nil {
		d.t.Fatalf("inserting photo: %v", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		d.t.Fatalf("getting photo id: %v", err)
	}
	return id
}

// CountPhotos returns the number of gallery rows.
func (d *DB) CountPhotos() int {
	d.t.Helper()
	var n int
	if err := d.conn.Get(&n, "SELECT COUNT(*) FROM gallery_photos"); err != nil {
		d.t.Fatalf("counting photos: %v", err)
	}
	return n
}
