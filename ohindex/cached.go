package ohindex

import (
	"context"
	"sync"

	"github.com/hashicorp/golang-lru/v2/simplelru"
)

var _ Index = &Cached{}

// Cached is an Index which remembers recently used entries of another Index.
// Entries are never modified once added, so the cache cannot become stale.
type Cached struct {
	inner Index

	mu    sync.Mutex
	cache *simplelru.LRU[string, Entry]
}

func NewCached(inner Index, size int) (*Cached, error) {
	cache, err := simplelru.NewLRU[string, Entry](size, nil)
	if err != nil {
		return nil, err
	}
	return &Cached{inner: inner, cache: cache}, nil
}

func (c *Cached) Put(ctx context.Context, e Entry) (bool, error) {
	if _, exists := c.lookup(e.Key); exists {
		return false, nil
	}
	added, err := c.inner.Put(ctx, e)
	if err != nil {
		return false, err
	}
	if added {
		c.add(e)
	}
	return added, nil
}

func (c *Cached) Get(ctx context.Context, key string) (Entry, error) {
	if e, exists := c.lookup(key); exists {
		return e, nil
	}
	e, err := c.inner.Get(ctx, key)
	if err != nil {
		return Entry{}, err
	}
	c.add(e)
	return e, nil
}

func (c *Cached) List(ctx context.Context, fn func(Entry) error) error {
	return c.inner.List(ctx, fn)
}

func (c *Cached) lookup(key string) (Entry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cache.Get(key)
}

func (c *Cached) add(e Entry) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cache.Add(e.Key, e)
}
