package renderer

import (
	"container/list"
	"context"
	"errors"
	"fmt"
	"image"
	"sync"
)

// CacheKey identifies a finished render
type CacheKey struct {
	Scene    string
	Width    int
	Height   int
	MaxDepth int
}

// String formats the key for logs
func (k CacheKey) String() string {
	return fmt.Sprintf("%s@%dx%d/d%d", k.Scene, k.Width, k.Height, k.MaxDepth)
}

func (k CacheKey) pixels() int {
	return k.Width * k.Height
}

// RenderCache memoises finished images up to a total pixel budget. When the
// budget is exceeded the least recently used images are evicted.
type RenderCache struct {
	mu        sync.Mutex
	maxPixels int // <= 0 means unbounded
	pixels    int
	entries   map[CacheKey]*list.Element
	lru       *list.List // front is most recently used
}

type cacheEntry struct {
	key   CacheKey
	done  chan struct{} // closed once img, stats and err are set
	img   *image.RGBA
	stats RenderStats
	err   error
}

// NewRenderCache creates an empty cache holding at most maxPixels pixels of images
func NewRenderCache(maxPixels int) *RenderCache {
	return &RenderCache{
		maxPixels: maxPixels,
		entries:   make(map[CacheKey]*list.Element),
		lru:       list.New(),
	}
}

// GetOrRender returns the cached image for key, calling render at most once per
// key even when many goroutines ask concurrently. render receives the context
// of the caller that started it. Failed renders are not cached, and a caller
// waiting on a render that was cancelled by its starter renders afresh.
func (c *RenderCache) GetOrRender(ctx context.Context, key CacheKey, render func(context.Context) (*image.RGBA, RenderStats, error)) (*image.RGBA, RenderStats, bool, error) {
	for {
		entry, elem, owner := c.lookup(key)

		if owner {
			entry.img, entry.stats, entry.err = render(ctx)
			if entry.err != nil {
				c.remove(key, elem)
			}
			close(entry.done)
			if entry.err != nil {
				return nil, RenderStats{}, false, entry.err
			}
			return entry.img, entry.stats, false, nil
		}

		select {
		case <-entry.done:
		case <-ctx.Done():
			return nil, RenderStats{}, false, ctx.Err()
		}

		if entry.err == nil {
			return entry.img, entry.stats, true, nil
		}
		if isCancellation(entry.err) && ctx.Err() == nil {
			continue
		}
		return nil, RenderStats{}, false, entry.err
	}
}

// lookup finds or inserts the entry for key. owner is true when the caller
// inserted it and must render.
func (c *RenderCache) lookup(key CacheKey) (*cacheEntry, *list.Element, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.entries[key]; ok {
		c.lru.MoveToFront(elem)
		return elem.Value.(*cacheEntry), elem, false
	}

	entry := &cacheEntry{key: key, done: make(chan struct{})}
	elem := c.lru.PushFront(entry)
	c.entries[key] = elem
	c.pixels += key.pixels()
	c.evict()
	return entry, elem, true
}

// evict drops least recently used entries until the budget holds. The newest
// entry is always kept. Callers already waiting on an evicted entry still get
// its result. Caller must hold c.mu.
func (c *RenderCache) evict() {
	if c.maxPixels <= 0 {
		return
	}
	for c.pixels > c.maxPixels && c.lru.Len() > 1 {
		c.removeLocked(c.lru.Back())
	}
}

// remove drops elem if it is still the entry for key
func (c *RenderCache) remove(key CacheKey, elem *list.Element) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.entries[key] == elem {
		c.removeLocked(elem)
	}
}

func (c *RenderCache) removeLocked(elem *list.Element) {
	entry := c.lru.Remove(elem).(*cacheEntry)
	delete(c.entries, entry.key)
	c.pixels -= entry.key.pixels()
}

// Len returns the number of cached entries
func (c *RenderCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Pixels returns the total pixel count of cached entries
func (c *RenderCache) Pixels() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pixels
}

func isCancellation(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
