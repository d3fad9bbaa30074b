// Package metadata fronts the OMDb fetcher with a bounded, time-limited
// cache so repeated adds of the same title do not hit the upstream service.
package metadata

import (
	"context"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/moviekeep/moviekeep-server/internal/metadata/omdb"
)

const (
	// DefaultTTL is how long a lookup result (match or definitive no-match)
	// stays fresh.
	DefaultTTL = 24 * time.Hour

	// DefaultErrorTTL is how long a failed lookup is remembered. Short, so a
	// recovering upstream is retried promptly without being hammered.
	DefaultErrorTTL = 30 * time.Second

	// defaultMaxEntries caps the cache. Keys derive from client input on a
	// public endpoint, so the map must not grow with every distinct title
	// ever queried.
	defaultMaxEntries = 4096

	// sweepInterval is how often stores clear out expired entries.
	sweepInterval = time.Minute
)

// Fetcher is the live lookup the cache sits in front of.
type Fetcher interface {
	Lookup(ctx context.Context, title string, year int) (omdb.Result, error)
}

// entry is a cached lookup outcome. Errors are cached too, with a shorter
// freshness window.
type entry struct {
	result    omdb.Result
	err       error
	fetchedAt time.Time
}

// Cache is a concurrency-safe TTL cache over a Fetcher. Concurrent lookups
// for the same normalized key collapse into one outbound call.
type Cache struct {
	fetcher Fetcher
	ttl     time.Duration
	errTTL  time.Duration
	logger  *slog.Logger

	now   func() time.Time // injectable for tests
	group singleflight.Group

	mu         sync.RWMutex
	entries    map[string]entry
	maxEntries int
	lastSweep  time.Time
}

// NewCache creates a cache in front of the given fetcher.
func NewCache(fetcher Fetcher, ttl, errTTL time.Duration, logger *slog.Logger) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if errTTL <= 0 {
		errTTL = DefaultErrorTTL
	}
	return &Cache{
		fetcher:    fetcher,
		ttl:        ttl,
		errTTL:     errTTL,
		logger:     logger,
		now:        time.Now,
		entries:    make(map[string]entry),
		maxEntries: defaultMaxEntries,
		lastSweep:  time.Now(),
	}
}

// Lookup returns the cached result for the normalized title+year, fetching
// live on a miss or expired entry. The fetch outcome, success, no-match, or
// error, is cached.
func (c *Cache) Lookup(ctx context.Context, title string, year int) (omdb.Result, error) {
	key := cacheKey(title, year)

	if e, ok := c.fresh(key); ok {
		return e.result, e.err
	}

	v, _, shared := c.group.Do(key, func() (any, error) {
		// A caller that raced us through the miss may have already stored
		// a fresh entry.
		if e, ok := c.fresh(key); ok {
			return e, nil
		}

		// Detach from the caller's cancellation: the shared fetch runs to
		// completion so an abandoned request cannot poison the result for
		// the callers still waiting on it. The client's own timeout bounds
		// the call.
		res, err := c.fetcher.Lookup(context.WithoutCancel(ctx), title, year)
		e := entry{result: res, err: err, fetchedAt: c.now()}

		c.mu.Lock()
		c.entries[key] = e
		c.evictLocked()
		c.mu.Unlock()

		if err != nil {
			c.logger.Debug("cached lookup failure", "key", key, "error", err)
		}
		return e, nil
	})
	if shared {
		c.logger.Debug("lookup coalesced", "key", key)
	}

	e := v.(entry)
	return e.result, e.err
}

// Invalidate drops the entry for the given title+year, forcing the next
// lookup to go live. Used by explicit refresh.
func (c *Cache) Invalidate(title string, year int) {
	key := cacheKey(title, year)
	c.mu.Lock()
	delete(c.entries, key)
	c.mu.Unlock()
}

// fresh returns the entry for key if it is still within its TTL. Expired
// entries are deleted on the way out.
func (c *Cache) fresh(key string) (entry, bool) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok {
		return entry{}, false
	}

	if c.expired(e, c.now()) {
		c.mu.Lock()
		// Only drop the entry we judged expired, not one a concurrent
		// fetch just replaced.
		if cur, ok := c.entries[key]; ok && cur.fetchedAt.Equal(e.fetchedAt) {
			delete(c.entries, key)
		}
		c.mu.Unlock()
		return entry{}, false
	}
	return e, true
}

// expired reports whether the entry is past its freshness window at now.
func (c *Cache) expired(e entry, now time.Time) bool {
	ttl := c.ttl
	if e.err != nil {
		ttl = c.errTTL
	}
	return now.Sub(e.fetchedAt) >= ttl
}

// evictLocked bounds the map. Called with the write lock held after every
// store: periodically sweeps out expired entries, and if the map is still
// over its cap, drops the oldest entries until it fits.
func (c *Cache) evictLocked() {
	now := c.now()

	if now.Sub(c.lastSweep) >= sweepInterval {
		c.lastSweep = now
		for key, e := range c.entries {
			if c.expired(e, now) {
				delete(c.entries, key)
			}
		}
	}

	for len(c.entries) > c.maxEntries {
		oldestKey := ""
		var oldest time.Time
		for key, e := range c.entries {
			if oldestKey == "" || e.fetchedAt.Before(oldest) {
				oldestKey = key
				oldest = e.fetchedAt
			}
		}
		delete(c.entries, oldestKey)
	}
}

// cacheKey normalizes a title+year pair into a cache key.
func cacheKey(title string, year int) string {
	return strings.ToLower(strings.TrimSpace(title)) + "\x00" + strconv.Itoa(year)
}
