package handler

import (
	"context"
	"sync"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fleveque/giftshop-functions/internal/httpevent"
	"github.com/fleveque/giftshop-functions/internal/storage"
)

// countingOpener records how many connections a handler opened.
type countingOpener struct {
	next  storage.Opener
	mu    sync.Mutex
	opens int
}

func (c *countingOpener) Open(ctx context.Context) (*sqlx.DB, error) {
	c.mu.Lock()
	c.opens++
	c.mu.Unlock()
	return c.next.Open(ctx)
}

func (c *countingOpener) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.opens
}

// memoryStore is an in-memory ObjectStore.
type memoryStore struct {
	mu           sync.Mutex
	objects      map[string][]byte
	contentTypes map[string]string
}

func newMemoryStore() *memoryStore {
	return &memoryStore{objects: map[string][]byte{}, contentTypes: map[string]string{}}
}

func (m *memoryStore) Put(_ context.Context, key string, data []byte, contentType string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[key] = append([]byte(nil), data...)
	m.contentTypes[key] = contentType
	return nil
}

func (m *memoryStore) len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.objects)
}

func assertPreflight(t *testing.T, resp httpevent.Response, methods string) {
	t.Helper()
	assert.Equal(t, 200, resp.StatusCode)
	assert.Empty(t, resp.Body)
	assert.False(t, resp.IsBase64Encoded)
	assert.Equal(t, "*", resp.Headers["Access-Control-Allow-Origin"])
	assert.Equal(t, methods, resp.Headers["Access-Control-Allow-Methods"])
	assert.Equal(t, "Content-Type", resp.Headers["Access-Control-Allow-Headers"])
	assert.Equal(t, "86400", resp.Headers["Access-Control-Max-Age"])
}

func assertError(t *testing.T, resp httpevent.Response, status int, msg string) {
	t.Helper()
	require.Equal(t, status, resp.StatusCode, "body: %s", resp.Body)
	assert.Equal(t, "*", resp.Headers["Access-Control-Allow-Origin"])
	assert.JSONEq(t, `{"error":"`+msg+`"}`, resp.Body)
}
