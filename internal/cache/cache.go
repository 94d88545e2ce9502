// Package cache memoizes extraction results.
//
// The cache is a fixed-capacity LRU with a per-entry TTL. Expiry is checked
// lazily when an entry is read; there is no background sweeper.
//
//	c := cache.New(100, 5*time.Minute)
//	if res, ok := c.Get(text, tz, opts); ok {
//	    return res
//	}
package cache

import (
	"container/list"
	"sync"
	"time"

	"github.com/fyrsmithlabs/payplan/internal/extraction"
)

const (
	DefaultCapacity = 100
	DefaultTTL      = 5 * time.Minute
)

type entry struct {
	key       Key
	value     extraction.Result
	createdAt time.Time
	expiresAt time.Time
}

// Cache is an LRU cache of extraction results keyed by input.
// It is safe for concurrent use.
type Cache struct {
	mu       sync.Mutex
	capacity int
	ttl      time.Duration
	now      func() time.Time
	ll       *list.List
	items    map[Key]*list.Element
	hits     uint64
	misses   uint64
	metrics  *Metrics
}

// Option configures a Cache.
type Option func(*Cache)

// WithClock sets the clock used for TTL checks.
func WithClock(now func() time.Time) Option {
	return func(c *Cache) {
		if now != nil {
			c.now = now
		}
	}
}

// WithMetrics mirrors cache statistics into Prometheus.
func WithMetrics(m *Metrics) Option {
	return func(c *Cache) {
		c.metrics = m
	}
}

// New creates a cache holding at most capacity entries for ttl each.
// Non-positive values fall back to DefaultCapacity and DefaultTTL.
func New(capacity int, ttl time.Duration, opts ...Option) *Cache {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	c := &Cache{
		capacity: capacity,
		ttl:      ttl,
		now:      time.Now,
		ll:       list.New(),
		items:    make(map[Key]*list.Element, capacity),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get returns the cached result for the given extraction arguments.
func (c *Cache) Get(text, tz string, opts extraction.Options) (extraction.Result, bool) {
	return c.GetKey(KeyFor(text, tz, opts))
}

// Set stores res for the given extraction arguments.
func (c *Cache) Set(text, tz string, opts extraction.Options, res extraction.Result) {
	c.SetKey(KeyFor(text, tz, opts), res)
}

// GetKey returns the live entry for k and marks it most recently used.
// Expired and malformed entries are removed and reported as a miss.
func (c *Cache) GetKey(k Key) (extraction.Result, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.items[k]
	if !ok {
		c.recordMiss()
		return extraction.Result{}, false
	}

	e, ok := el.Value.(*entry)
	if !ok || !c.now().Before(e.expiresAt) || e.value.Validate() != nil {
		c.removeElement(el)
		c.recordMiss()
		return extraction.Result{}, false
	}

	c.ll.MoveToFront(el)
	c.recordHit()
	return e.value.Clone(), true
}

// SetKey stores res under k, evicting the least recently used entry when
// full. Results that fail validation are not stored.
func (c *Cache) SetKey(k Key, res extraction.Result) {
	if res.Validate() != nil {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	e := &entry{
		key:       k,
		value:     res.Clone(),
		createdAt: now,
		expiresAt: now.Add(c.ttl),
	}

	if el, ok := c.items[k]; ok {
		el.Value = e
		c.ll.MoveToFront(el)
		return
	}

	for c.ll.Len() >= c.capacity {
		c.removeElement(c.ll.Back())
	}
	c.items[k] = c.ll.PushFront(e)
	c.updateSize()
}

// Delete removes k if present.
func (c *Cache) Delete(k Key) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if el, ok := c.items[k]; ok {
		c.removeElement(el)
	}
}

// Clear removes all entries. Hit and miss counters are kept.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ll.Init()
	c.items = make(map[Key]*list.Element, c.capacity)
	c.updateSize()
}

// Len returns the number of stored entries, including expired entries not
// yet read.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ll.Len()
}

// Stats is a snapshot of cache counters.
type Stats struct {
	Hits     uint64  `json:"hits"`
	Misses   uint64  `json:"misses"`
	Total    uint64  `json:"total"`
	HitRate  float64 `json:"hitRate"`
	Size     int     `json:"size"`
	Capacity int     `json:"capacity"`
	TTL      string  `json:"ttl"`
}

// Stats returns a snapshot of the cache counters.
func (c *Cache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := Stats{
		Hits:     c.hits,
		Misses:   c.misses,
		Total:    c.hits + c.misses,
		Size:     c.ll.Len(),
		Capacity: c.capacity,
		TTL:      c.ttl.String(),
	}
	if s.Total > 0 {
		s.HitRate = float64(s.Hits) / float64(s.Total)
	}
	return s
}

// removeElement unlinks el. Caller must hold the lock.
func (c *Cache) removeElement(el *list.Element) {
	if el == nil {
		return
	}
	c.ll.Remove(el)
	if e, ok := el.Value.(*entry); ok {
		delete(c.items, e.key)
	} else {
		for k, v := range c.items {
			if v == el {
				delete(c.items, k)
				break
			}
		}
	}
	c.updateSize()
}

func (c *Cache) recordHit() {
	c.hits++
	if c.metrics != nil {
		c.metrics.RecordHit()
	}
}

func (c *Cache) recordMiss() {
	c.misses++
	if c.metrics != nil {
		c.metrics.RecordMiss()
	}
}

func (c *Cache) updateSize() {
	if c.metrics != nil {
		c.metrics.SetSize(c.ll.Len())
	}
}
