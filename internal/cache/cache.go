// Package cache provides the in-memory TTL cache used for search
// results, fetched pages and robots.txt bodies.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Cache defines the interface for caching
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration)
	Delete(key string)
	Clear()
}

// Key derives a cache key from a namespace and a raw value (URL or
// query string)
func Key(namespace, raw string) string {
	hash := sha256.Sum256([]byte(raw))
	return "credible:v1:" + namespace + ":" + hex.EncodeToString(hash[:])
}
