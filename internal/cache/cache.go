package cache

import (
	"errors"
	"time"
)

var ErrNotFound = errors.New("cache_key_not_found")

// Cache is a string key-value store with per-key expiry. Get returns
// ErrNotFound when the key is absent or expired
type Cache interface {
	Set(key string, value string, ttl time.Duration) (err error)
	Get(key string) (value string, err error)
	Scan(prefix string) (keys []string, err error)
	Del(key string) (err error)
}
