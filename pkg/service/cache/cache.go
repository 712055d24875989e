// Package cache provides an injectable TTL cache for short-lived report
// data. Tests inject their own implementation to control time and
// isolate instances.
package cache

import (
	"time"

	"github.com/dgraph-io/ristretto"
	"github.com/m-mizutani/goerr/v2"
)

// Cache is a TTL key-value cache
type Cache interface {
	Get(key string) (any, bool)
	Set(key string, value any, ttl time.Duration)
}

// Ristretto is the production Cache implementation
type Ristretto struct {
	cache *ristretto.Cache
}

var _ Cache = &Ristretto{}

// NewRistretto creates a cache sized for a few thousand report entries
func NewRistretto() (*Ristretto, error) {
	cache, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: 1 << 14,
		MaxCost:     1 << 24,
		BufferItems: 64,
	})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create ristretto cache")
	}
	return &Ristretto{cache: cache}, nil
}

func (r *Ristretto) Get(key string) (any, bool) {
	return r.cache.Get(key)
}

func (r *Ristretto) Set(key string, value any, ttl time.Duration) {
	r.cache.SetWithTTL(key, value, 1, ttl)
}

// Null is a no-op Cache for deployments and tests that want no caching
type Null struct{}

var _ Cache = Null{}

func (Null) Get(key string) (any, bool) { return nil, false }
func (Null) Set(key string, value any, ttl time.Duration) {}
