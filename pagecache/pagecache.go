// Package pagecache implements C9: a URL-keyed LRU cache of PageMaps
// with a TTL, a three-tier fingerprint comparison used to decide
// whether a refreshed page counts as unchanged, and a separate template
// cache for the compiled per-schema compressor inputs.
package pagecache

import (
	"container/list"
	"sync"
	"time"

	"pagemap/pagemaptype"
)

// Clock abstracts time.Now so cache expiry can be tested without
// sleeping, the same injectable-clock pattern used to make retry/
// backoff timing deterministic under test.
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

const (
	DefaultCapacity = 20
	DefaultTTL      = 90 * time.Second
)

// InvalidationReason labels a removal as a forced eviction (hard) or a
// fingerprint-driven staleness decision (soft). Every removal path
// passes one, but the cache does not record or report it.
type InvalidationReason string

const (
	InvalidateHardCapacity InvalidationReason = "hard_capacity"
	InvalidateHardTTL      InvalidationReason = "hard_ttl"
	InvalidateSoftContent  InvalidationReason = "soft_content_changed"
	InvalidateSoftStructure InvalidationReason = "soft_structure_changed"
)

type entry struct {
	url       string
	pm        pagemaptype.PageMap
	storedAt  time.Time
	listElem  *list.Element
}

// Cache is a capacity-bounded, TTL-expiring LRU of PageMaps keyed by
// URL, plus a separate unbounded template cache for compiled
// compressor inputs.
type Cache struct {
	mu       sync.Mutex
	capacity int
	ttl      time.Duration
	clock    Clock
	order    *list.List // front = most recently used
	items    map[string]*entry

	templates map[string]interface{}
}

// Option configures a Cache at construction time.
type Option func(*Cache)

func WithCapacity(n int) Option { return func(c *Cache) { c.capacity = n } }
func WithTTL(ttl time.Duration) Option { return func(c *Cache) { c.ttl = ttl } }
func WithClock(clock Clock) Option { return func(c *Cache) { c.clock = clock } }

// New constructs a Cache with DefaultCapacity and DefaultTTL, overridable
// via options.
func New(opts ...Option) *Cache {
	c := &Cache{
		capacity:  DefaultCapacity,
		ttl:       DefaultTTL,
		clock:     realClock{},
		order:     list.New(),
		items:     map[string]*entry{},
		templates: map[string]interface{}{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get returns the cached PageMap for url if present and not expired.
func (c *Cache) Get(url string) (pagemaptype.PageMap, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.items[url]
	if !ok {
		return pagemaptype.PageMap{}, false
	}
	if c.clock.Now().Sub(e.storedAt) > c.ttl {
		c.removeLocked(e, InvalidateHardTTL)
		return pagemaptype.PageMap{}, false
	}
	c.order.MoveToFront(e.listElem)
	return e.pm, true
}

// Put stores pm under url, evicting the least-recently-used entry if
// the cache is at capacity.
func (c *Cache) Put(url string, pm pagemaptype.PageMap) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if existing, ok := c.items[url]; ok {
		existing.pm = pm
		existing.storedAt = c.clock.Now()
		c.order.MoveToFront(existing.listElem)
		return
	}

	e := &entry{url: url, pm: pm, storedAt: c.clock.Now()}
	e.listElem = c.order.PushFront(e)
	c.items[url] = e

	if c.order.Len() > c.capacity {
		oldest := c.order.Back()
		if oldest != nil {
			c.removeLocked(oldest.Value.(*entry), InvalidateHardCapacity)
		}
	}
}

func (c *Cache) removeLocked(e *entry, reason InvalidationReason) {
	c.order.Remove(e.listElem)
	delete(c.items, e.url)
}

// Invalidate evicts url's entry unconditionally, used by a caller that
// has independently decided the cached entry is stale (e.g. a webhook
// signaling content change).
func (c *Cache) Invalidate(url string, reason InvalidationReason) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if e, ok := c.items[url]; ok {
		c.removeLocked(e, reason)
	}
}

// PutTemplate and GetTemplate cache compiled per-schema compressor
// inputs independently of the PageMap LRU, since templates are keyed
// by schema name rather than URL and rarely change.
func (c *Cache) PutTemplate(schema string, tmpl interface{}) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.templates[schema] = tmpl
}

func (c *Cache) GetTemplate(schema string) (interface{}, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	t, ok := c.templates[schema]
	return t, ok
}

// Len reports the current number of cached PageMaps.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}
