// Package querycache caches read-side query results under ordered keys and
// drops them by key prefix when the underlying content changes.
//
// Invalidation is coarse: a write clears every key of the affected families
// instead of patching cached rows. Each invalidation bumps a per-key
// generation. A fetch that was already running when its key was invalidated
// still answers its own callers, but its result is never written back, and
// callers arriving after the invalidation start a fresh fetch instead of
// joining the old one.
package querycache

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/khoahotran/portfolio/pkg/logger"
)

type Status string

const (
	StatusIdle    Status = "idle"
	StatusLoading Status = "loading"
	StatusSuccess Status = "success"
	StatusError   Status = "error"
)

type entry struct {
	key        Key
	generation uint64
	status     Status
	err        error
}

type Cache struct {
	store  Store
	ttl    time.Duration
	logger logger.Logger

	group singleflight.Group

	mu      sync.Mutex
	entries map[string]*entry
}

func New(store Store, ttl time.Duration, log logger.Logger) *Cache {
	return &Cache{
		store:   store,
		ttl:     ttl,
		logger:  log,
		entries: make(map[string]*entry),
	}
}

// State reports the last known status of key and the error of its last
// failed fetch.
func (c *Cache) State(key Key) (Status, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key.String()]
	if !ok {
		return StatusIdle, nil
	}
	return e.status, e.err
}

func (c *Cache) entryLocked(key Key) *entry {
	k := key.String()
	e, ok := c.entries[k]
	if !ok {
		e = &entry{key: append(Key(nil), key...), status: StatusIdle}
		c.entries[k] = e
	}
	return e
}

func (c *Cache) begin(key Key) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	e := c.entryLocked(key)
	e.status = StatusLoading
	e.err = nil
	return e.generation
}

func (c *Cache) generation(key Key) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.entryLocked(key).generation
}

func (c *Cache) finish(key Key, gen uint64, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e := c.entryLocked(key)
	if e.generation != gen {
		return
	}
	if err != nil {
		e.status = StatusError
		e.err = err
		return
	}
	e.status = StatusSuccess
	e.err = nil
}

func (c *Cache) markHit(key Key) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e := c.entryLocked(key)
	e.status = StatusSuccess
	e.err = nil
}

// Invalidate marks every key starting with one of the prefixes as stale and
// removes it from the store.
func (c *Cache) Invalidate(ctx context.Context, prefixes ...Key) error {
	c.mu.Lock()
	for _, e := range c.entries {
		for _, p := range prefixes {
			if e.key.HasPrefix(p) {
				e.generation++
				e.status = StatusIdle
				e.err = nil
				break
			}
		}
	}
	c.mu.Unlock()

	var firstErr error
	for _, p := range prefixes {
		if err := c.store.DeletePrefix(ctx, p.String()); err != nil {
			c.logger.Error("Failed to drop cached queries", err, zap.String("prefix", p.String()))
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}

// load runs fn at most once per key and generation and returns the encoded
// result. Each caller decodes its own copy.
func (c *Cache) load(ctx context.Context, key Key, fn func(ctx context.Context) (any, error)) ([]byte, error) {
	k := key.String()

	raw, ok, err := c.store.Get(ctx, k)
	if err != nil {
		c.logger.Warn("Query cache read failed, fetching from source", zap.String("key", k), zap.Error(err))
	}
	if ok {
		c.markHit(key)
		return raw, nil
	}

	gen := c.begin(key)
	flight := k + "#" + strconv.FormatUint(gen, 10)

	ch := c.group.DoChan(flight, func() (any, error) {
		v, err := fn(context.WithoutCancel(ctx))
		if err != nil {
			c.finish(key, gen, err)
			return nil, err
		}
		encoded, err := json.Marshal(v)
		if err != nil {
			err = fmt.Errorf("encode cached query %s: %w", k, err)
			c.finish(key, gen, err)
			return nil, err
		}
		c.storeIfCurrent(context.WithoutCancel(ctx), key, gen, encoded)
		c.finish(key, gen, nil)
		return encoded, nil
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

// storeIfCurrent writes the result only while its generation is still the
// newest, and takes it back out if an invalidation raced the write.
func (c *Cache) storeIfCurrent(ctx context.Context, key Key, gen uint64, value []byte) {
	if c.generation(key) != gen {
		return
	}
	k := key.String()
	if err := c.store.Set(ctx, k, value, c.ttl); err != nil {
		c.logger.Warn("Query cache write failed", zap.String("key", k), zap.Error(err))
		return
	}
	if c.generation(key) != gen {
		if err := c.store.Delete(ctx, k); err != nil {
			c.logger.Error("Failed to drop stale cached query", err, zap.String("key", k))
		}
	}
}

// Fetch returns the cached result for key, or runs fn and caches its result.
// Cancelling ctx abandons the wait; a shared fetch keeps running for the
// other callers.
func Fetch[T any](ctx context.Context, c *Cache, key Key, fn func(ctx context.Context) (T, error)) (T, error) {
	var zero T
	raw, err := c.load(ctx, key, func(ctx context.Context) (any, error) {
		return fn(ctx)
	})
	if err != nil {
		return zero, err
	}
	var out T
	if err := json.Unmarshal(raw, &out); err != nil {
		return zero, fmt.Errorf("decode cached query %s: %w", key.String(), err)
	}
	return out, nil
}
