// Package fragment fetches remote content used during decoration and keeps
// it cached.
package fragment

import (
	"context"
	"sync/atomic"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// FetchFunc retrieves payload for a key from its origin.
type FetchFunc func(ctx context.Context) ([]byte, error)

// Cache memoizes fetched payloads. For any key at most one fetch is in flight,
// concurrent callers share its result. Failed fetches are not remembered.
type Cache struct {
	store   Store
	group   singleflight.Group
	log     *zap.Logger
	fetches atomic.Int64
}

func NewCache(store Store, log *zap.Logger) *Cache {
	if store == nil {
		store = NewMemoryStore(0)
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Cache{store: store, log: log.Named("fragments")}
}

// GetOrFetch returns cached payload or fetches it. Fetch is detached from
// cancellation of the caller which started it, so other waiters are not
// affected when that caller gives up; ctx only bounds how long this caller
// waits.
func (c *Cache) GetOrFetch(ctx context.Context, key string, fetch FetchFunc) ([]byte, error) {
	if data, ok := c.lookup(ctx, key); ok {
		return data, nil
	}

	ch := c.group.DoChan(key, func() (any, error) {
		if data, ok := c.lookup(ctx, key); ok {
			return data, nil
		}
		c.fetches.Add(1)
		c.log.Debug("Fetching", zap.String("key", key))
		data, err := fetch(context.WithoutCancel(ctx))
		if err != nil {
			return nil, err
		}
		if err := c.store.Put(context.WithoutCancel(ctx), key, data); err != nil {
			c.log.Warn("Unable to cache fragment", zap.String("key", key), zap.Error(err))
		}
		return data, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.([]byte), nil
	}
}

func (c *Cache) lookup(ctx context.Context, key string) ([]byte, bool) {
	data, ok, err := c.store.Get(ctx, key)
	if err != nil {
		c.log.Warn("Unable to read cached fragment", zap.String("key", key), zap.Error(err))
		return nil, false
	}
	return data, ok
}

// Fetches returns number of fetches actually started.
func (c *Cache) Fetches() int64 {
	return c.fetches.Load()
}

func (c *Cache) Close() error {
	return c.store.Close()
}
