package forecast

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"os"
	"sync"
	"time"

	"pv-forecast/internal/config"
	"pv-forecast/internal/model"
)

// CacheEntry represents a cached run result
type CacheEntry struct {
	Result    *Result
	ExpiresAt time.Time
}

// ResultCache keeps run results in memory for ttl. It also remembers the
// most recently stored result regardless of expiry.
type ResultCache struct {
	mu     sync.RWMutex
	store  map[string]*CacheEntry
	latest *Result
	ttl    time.Duration
	now    func() time.Time
}

func NewResultCache(ttl time.Duration) *ResultCache {
	return &ResultCache{
		store: make(map[string]*CacheEntry),
		ttl:   ttl,
		now:   time.Now,
	}
}

// Get retrieves a cached result if available and not expired
func (c *ResultCache) Get(key string) (*Result, bool) {
	if c == nil {
		return nil, false
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, exists := c.store[key]
	if !exists {
		return nil, false
	}
	if c.now().After(entry.ExpiresAt) {
		return nil, false
	}
	return entry.Result, true
}

// Set stores a result, drops expired entries and marks it as the latest.
func (c *ResultCache) Set(key string, res *Result) {
	if c == nil {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	for k, entry := range c.store {
		if now.After(entry.ExpiresAt) {
			delete(c.store, k)
		}
	}
	c.store[key] = &CacheEntry{
		Result:    res,
		ExpiresAt: now.Add(c.ttl),
	}
	c.latest = res
}

// Latest returns the most recently stored result, or nil.
func (c *ResultCache) Latest() *Result {
	if c == nil {
		return nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.latest
}

// Find returns the unexpired result with the given run ID.
func (c *ResultCache) Find(runID string) (*Result, bool) {
	if c == nil {
		return nil, false
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	now := c.now()
	for _, entry := range c.store {
		if entry.Result.RunID == runID && !now.After(entry.ExpiresAt) {
			return entry.Result, true
		}
	}
	return nil, false
}

// Len reports the number of entries, expired ones included.
func (c *ResultCache) Len() int {
	if c == nil {
		return 0
	}

	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.store)
}

// Clear removes all entries from the cache
func (c *ResultCache) Clear() {
	if c == nil {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.store = make(map[string]*CacheEntry)
	c.latest = nil
}

// CacheKey hashes the inputs, the config and the modification times of the
// input paths, so editing any input produces a new key.
func CacheKey(in model.Inputs, cfg *config.Config) string {
	type stamp struct {
		Path    string
		ModTime int64
	}
	var stamps []stamp
	for _, p := range []string{in.HourlyIrradiance, in.MonthlyReference, in.MeteredDir, in.ArchiveDir} {
		s := stamp{Path: p}
		if info, err := os.Stat(p); err == nil {
			s.ModTime = info.ModTime().UnixNano()
		}
		stamps = append(stamps, s)
	}
	raw, _ := json.Marshal(struct {
		Inputs []stamp
		Config *config.Config
	}{stamps, cfg})

	// Hash the key to keep it reasonably sized
	hash := sha256.Sum256(raw)
	return hex.EncodeToString(hash[:])
}
