package cache

import (
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// Memory implements Cache in process memory with TTL eviction
type Memory struct {
	cache *gocache.Cache
}

// NewMemory creates a new memory cache
func NewMemory(defaultTTL, cleanupInterval time.Duration) *Memory {
	return &Memory{
		cache: gocache.New(defaultTTL, cleanupInterval),
	}
}

// Get retrieves a value from the cache
func (m *Memory) Get(key string) ([]byte, bool) {
	if val, found := m.cache.Get(key); found {
		return val.([]byte), true
	}
	return nil, false
}

// Set stores a value with the given TTL (zero means the default TTL)
func (m *Memory) Set(key string, value []byte, ttl time.Duration) {
	m.cache.Set(key, value, ttl)
}

// Delete removes a value from the cache
func (m *Memory) Delete(key string) {
	m.cache.Delete(key)
}

// Clear removes all values from the cache
func (m *Memory) Clear() {
	m.cache.Flush()
}
