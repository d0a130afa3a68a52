package services_test

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"whatsapp_dashboard/internal/mocks"
	"whatsapp_dashboard/internal/models"
	"whatsapp_dashboard/internal/redis"
	"whatsapp_dashboard/internal/repository"
)

var owner = models.Owner{UserID: "7", ClientID: "client_7"}

func newTable(db *mocks.FakeNocoDB, table string, fb repository.FallbackQueue) *repository.Table {
	return repository.NewTable(db, "base", table, 1000, fb)
}

type memoryFallback struct {
	mu      sync.Mutex
	entries []*models.FallbackEntry
}

func (m *memoryFallback) Enqueue(_ context.Context, e *models.FallbackEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, e)
	return nil
}

// memoryCache round-trips values through JSON like the Redis cache does.
type memoryCache struct {
	mu   sync.Mutex
	data map[string][]byte
}

func newMemoryCache() *memoryCache {
	return &memoryCache{data: map[string][]byte{}}
}

func (c *memoryCache) SetCache(_ context.Context, key string, value interface{}, _ time.Duration) error {
	b, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = b
	return nil
}

func (c *memoryCache) GetCache(_ context.Context, key string, dest interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	b, ok := c.data[key]
	if !ok {
		return redis.ErrCacheMiss
	}
	return json.Unmarshal(b, dest)
}

func (c *memoryCache) DeleteCache(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, key)
	return nil
}

func textMessage(content string) models.Message {
	return models.Message{Type: models.MessageText, Content: content}
}
