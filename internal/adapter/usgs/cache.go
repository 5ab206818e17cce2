package usgs

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/couchcryptid/canyon-lake-dashboard/internal/domain"
	"github.com/couchcryptid/canyon-lake-dashboard/internal/observability"
)

// CachedFetcher wraps a GaugeFetcher with an in-memory LRU cache whose
// entries expire after a TTL. The gauge updates every 15 minutes upstream,
// so every dashboard refresh hitting the USGS API would be pure waste.
type CachedFetcher struct {
	inner   domain.GaugeFetcher
	cache   *lruCache
	ttl     time.Duration
	clock   clockwork.Clock
	metrics *observability.Metrics
}

// NewCachedFetcher creates a cache decorator around a gauge fetcher.
func NewCachedFetcher(inner domain.GaugeFetcher, maxEntries int, ttl time.Duration, metrics *observability.Metrics) *CachedFetcher {
	return &CachedFetcher{
		inner:   inner,
		cache:   newLRUCache(maxEntries),
		ttl:     ttl,
		clock:   clockwork.NewRealClock(),
		metrics: metrics,
	}
}

func (c *CachedFetcher) FetchCurrent(ctx context.Context) (domain.Sample, error) {
	if samples, ok := c.lookup("current"); ok && len(samples) == 1 {
		return samples[0], nil
	}
	sample, err := c.inner.FetchCurrent(ctx)
	if err != nil {
		return domain.Sample{}, err
	}
	c.store("current", []domain.Sample{sample})
	return sample, nil
}

func (c *CachedFetcher) FetchDailyHistory(ctx context.Context, days int) ([]domain.Sample, error) {
	key := "history:" + strconv.Itoa(days)
	if samples, ok := c.lookup(key); ok {
		return samples, nil
	}
	samples, err := c.inner.FetchDailyHistory(ctx, days)
	if err != nil {
		return nil, err
	}
	c.store(key, samples)
	return samples, nil
}

func (c *CachedFetcher) lookup(key string) ([]domain.Sample, bool) {
	samples, state := c.cache.get(key, c.clock.Now())
	c.metrics.USGSCache.WithLabelValues(state).Inc()
	return samples, state == "hit"
}

func (c *CachedFetcher) store(key string, samples []domain.Sample) {
	c.cache.put(key, samples, c.clock.Now().Add(c.ttl))
}

// lruCache is a small thread-safe LRU with per-entry expiry. Expired
// entries are evicted on lookup rather than by a sweeper; the key space is
// tiny (one current key plus one per distinct history range).
type lruCache struct {
	maxEntries int
	mu         sync.Mutex
	entries    map[string]*entry
	head       *entry // most recently used
	tail       *entry // least recently used
}

type entry struct {
	key     string
	samples []domain.Sample
	expires time.Time
	prev    *entry
	next    *entry
}

func newLRUCache(maxEntries int) *lruCache {
	return &lruCache{
		maxEntries: maxEntries,
		entries:    make(map[string]*entry),
	}
}

// get returns the cached samples and one of "hit", "miss", or "expired".
func (c *lruCache) get(key string, now time.Time) ([]domain.Sample, string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return nil, "miss"
	}
	if !now.Before(e.expires) {
		delete(c.entries, key)
		c.remove(e)
		return nil, "expired"
	}
	c.moveToFront(e)
	return e.samples, "hit"
}

func (c *lruCache) put(key string, samples []domain.Sample, expires time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.entries[key]; ok {
		e.samples = samples
		e.expires = expires
		c.moveToFront(e)
		return
	}

	e := &entry{key: key, samples: samples, expires: expires}
	c.entries[key] = e
	c.addToFront(e)

	if len(c.entries) > c.maxEntries {
		c.evictTail()
	}
}

func (c *lruCache) moveToFront(e *entry) {
	if e == c.head {
		return
	}
	c.remove(e)
	c.addToFront(e)
}

func (c *lruCache) addToFront(e *entry) {
	e.next = c.head
	e.prev = nil
	if c.head != nil {
		c.head.prev = e
	}
	c.head = e
	if c.tail == nil {
		c.tail = e
	}
}

func (c *lruCache) remove(e *entry) {
	if e.prev != nil {
		e.prev.next = e.next
	} else {
		c.head = e.next
	}
	if e.next != nil {
		e.next.prev = e.prev
	} else {
		c.tail = e.prev
	}
}

func (c *lruCache) evictTail() {
	if c.tail == nil {
		return
	}
	delete(c.entries, c.tail.key)
	c.remove(c.tail)
}
