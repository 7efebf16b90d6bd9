// Package imagecache keeps decoded flag images in memory.
//
// The cache is bounded by an LRU entry count and lives for the process only.
// Concurrent requests for the same URL share one download; requests for
// different URLs run in parallel. Failures are never cached and never
// surface as errors: callers get "no image" and show a placeholder.
package imagecache

import (
	"context"
	"fmt"
	"image"
	"sync"
	"sync/atomic"

	"github.com/charmbracelet/log"
	"github.com/golang/groupcache/lru"
	"golang.org/x/sync/singleflight"
)

// DefaultCapacity is the number of images kept when New gets capacity <= 0
const DefaultCapacity = 256

// Fetcher downloads the bytes behind a URL. *api.Client satisfies it.
type Fetcher interface {
	FetchBytes(ctx context.Context, url string) ([]byte, error)
}

// Stats counts cache activity since construction
type Stats struct {
	Hits     uint64 // Get served from memory
	Misses   uint64 // Get had to wait for a download
	Fetches  uint64 // downloads actually issued
	Failures uint64 // downloads or decodes that failed
}

// Cache is safe for concurrent use
type Cache struct {
	fetcher Fetcher
	decoder Decoder
	logger  *log.Logger

	mu      sync.Mutex // guards entries; lru.Cache reorders on Get
	entries *lru.Cache

	flights singleflight.Group

	hits, misses, fetches, failures atomic.Uint64
}

// Option configures a Cache
type Option func(*Cache)

// WithDecoder replaces DefaultDecoder
func WithDecoder(d Decoder) Option {
	return func(c *Cache) { c.decoder = d }
}

// WithLogger enables debug logging of downloads and evictions
func WithLogger(logger *log.Logger) Option {
	return func(c *Cache) { c.logger = logger }
}

// New creates a cache holding at most capacity images
func New(fetcher Fetcher, capacity int, opts ...Option) *Cache {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}

	c := &Cache{
		fetcher: fetcher,
		decoder: DefaultDecoder,
		entries: lru.New(capacity),
	}
	for _, opt := range opts {
		opt(c)
	}

	c.entries.OnEvicted = func(key lru.Key, _ interface{}) {
		if c.logger != nil {
			c.logger.Debug("Evicted image", "url", key)
		}
	}
	return c
}

// Peek returns the cached image for url without any I/O
func (c *Cache) Peek(url string) (image.Image, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	v, ok := c.entries.Get(url)
	if !ok {
		return nil, false
	}
	return v.(image.Image), true
}

// Get returns the image for url, downloading it on a miss.
//
// ctx only bounds how long this caller waits. The download itself is detached
// from ctx, runs to completion and still fills the cache for later callers.
func (c *Cache) Get(ctx context.Context, url string) (image.Image, bool) {
	if url == "" {
		return nil, false
	}
	if img, ok := c.Peek(url); ok {
		c.hits.Add(1)
		return img, true
	}
	c.misses.Add(1)

	detached := context.WithoutCancel(ctx)
	ch := c.flights.DoChan(url, func() (interface{}, error) {
		return c.load(detached, url)
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, false
		}
		return res.Val.(image.Image), true
	case <-ctx.Done():
		return nil, false
	}
}

// Load is the callback form of Get. done runs on its own goroutine.
func (c *Cache) Load(url string, done func(image.Image, bool)) {
	go func() {
		img, ok := c.Get(context.Background(), url)
		done(img, ok)
	}()
}

// Len returns the number of cached images
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.entries.Len()
}

// Stats returns a snapshot of the counters
func (c *Cache) Stats() Stats {
	return Stats{
		Hits:     c.hits.Load(),
		Misses:   c.misses.Load(),
		Fetches:  c.fetches.Load(),
		Failures: c.failures.Load(),
	}
}

// load runs inside the flight for url. A flight that starts just after
// another one stored the image finds it here and skips the download.
func (c *Cache) load(ctx context.Context, url string) (img image.Image, err error) {
	if cached, ok := c.Peek(url); ok {
		return cached, nil
	}

	defer func() {
		if r := recover(); r != nil {
			img, err = nil, fmt.Errorf("load %s: panic recovered: %v", url, r)
		}
		if err != nil {
			c.failures.Add(1)
			if c.logger != nil {
				c.logger.Warn("Image unavailable", "url", url, "error", err)
			}
		}
	}()

	c.fetches.Add(1)
	data, err := c.fetcher.FetchBytes(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", url, err)
	}

	img, err = c.decoder.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", url, err)
	}
	if img == nil {
		return nil, fmt.Errorf("decode %s: decoder returned no image", url)
	}

	c.mu.Lock()
	c.entries.Add(url, img)
	c.mu.Unlock()

	if c.logger != nil {
		c.logger.Debug("Cached image", "url", url, "bounds", img.Bounds().String())
	}
	return img, nil
}
