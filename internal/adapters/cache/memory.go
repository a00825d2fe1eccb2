// Package cache provides an in-process TTL cache implementing ports.Cache.
package cache

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/jsamuelsen/ewbot/internal/domain"
)

const minCleanupInterval = time.Minute

// Memory is a ports.Cache backed by go-cache. Values are copied on the way in
// and out so callers cannot mutate cached bytes.
type Memory struct {
	data *gocache.Cache
}

// NewMemory creates a cache whose entries expire after defaultTTL.
// A non-positive defaultTTL keeps entries until they are deleted.
func NewMemory(defaultTTL time.Duration) *Memory {
	cleanup := defaultTTL * 2
	if cleanup < minCleanupInterval {
		cleanup = minCleanupInterval
	}

	if defaultTTL <= 0 {
		defaultTTL = gocache.NoExpiration
	}

	return &Memory{data: gocache.New(defaultTTL, cleanup)}
}

// Get implements ports.Cache.
func (m *Memory) Get(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	v, ok := m.data.Get(key)
	if !ok {
		return nil, domain.NewNotFoundError("cache entry", key)
	}

	b, ok := v.([]byte)
	if !ok {
		return nil, domain.NewNotFoundError("cache entry", key)
	}

	return clone(b), nil
}

// Set implements ports.Cache.
func (m *Memory) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if ttl <= 0 {
		ttl = gocache.DefaultExpiration
	}

	m.data.Set(key, clone(value), ttl)

	return nil
}

// Delete implements ports.Cache.
func (m *Memory) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m.data.Delete(key)

	return nil
}

// Len returns the number of entries, including expired ones not yet cleaned up.
func (m *Memory) Len() int {
	return m.data.ItemCount()
}

func clone(b []byte) []byte {
	if b == nil {
		return nil
	}

	out := make([]byte, len(b))
	copy(out, b)

	return out
}
