package dispatch

import (
	"strings"
	"sync"
	"time"

	"github.com/skywavefm/nowplaying/pkg/metadata/common"
)

// DefaultCacheTTL matches the poll cadence of the web clients; entries
// older than this are treated as absent
const DefaultCacheTTL = 30 * time.Second

// Entry is a memoized classification and enrichment result for one
// metadata snapshot
type Entry struct {
	Track    common.TrackMetadata
	Verdict  common.AdVerdict
	StoredAt time.Time
}

// Cache memoizes per-snapshot pipeline results so unchanged metadata
// does not trigger redundant artwork and classification work. It is
// injected into the dispatcher to keep it replaceable in tests.
type Cache interface {
	Get(key string) (*Entry, bool)
	Put(key string, entry *Entry)
}

// CacheKey builds the memoization key for a metadata snapshot
func CacheKey(stationID, title, artist string) string {
	return strings.ToLower(stationID + "\x00" + title + "\x00" + artist)
}

// TTLCache is an in-memory Cache with a fixed per-entry TTL. Access is
// last-writer-wins; concurrent polls for the same snapshot tolerate
// racing on the same key.
type TTLCache struct {
	ttl     time.Duration
	mu      sync.RWMutex
	entries map[string]*Entry
	now     func() time.Time
}

// NewTTLCache creates a TTL cache; a non-positive ttl selects the default
func NewTTLCache(ttl time.Duration) *TTLCache {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &TTLCache{
		ttl:     ttl,
		entries: make(map[string]*Entry),
		now:     time.Now,
	}
}

// Get returns a live entry, expiring it lazily when stale
func (c *TTLCache) Get(key string) (*Entry, bool) {
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok {
		return nil, false
	}
	if c.now().Sub(entry.StoredAt) > c.ttl {
		c.mu.Lock()
		delete(c.entries, key)
		c.mu.Unlock()
		return nil, false
	}
	return entry, true
}

// Put stores an entry, stamping it with the current time and sweeping
// any expired neighbors while the write lock is held
func (c *TTLCache) Put(key string, entry *Entry) {
	stamped := *entry
	stamped.StoredAt = c.now()

	c.mu.Lock()
	defer c.mu.Unlock()

	for k, e := range c.entries {
		if c.now().Sub(e.StoredAt) > c.ttl {
			delete(c.entries, k)
		}
	}
	c.entries[key] = &stamped
}
