package moderation

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"sync"
	"time"
)

// VerdictCache memoizes verdicts by normalized text hash for a fixed TTL,
// bounding external classifier calls and making repeated scoring idempotent.
// Purely in-memory and best-effort: cold on process restart, not shared
// across instances. A performance optimization, not a correctness mechanism.
type VerdictCache struct {
	mu        sync.Mutex
	entries   map[string]cacheEntry
	ttl       time.Duration
	sweepSize int
}

type cacheEntry struct {
	verdict  Verdict
	cachedAt time.Time
}

const defaultSweepSize = 1000

func NewVerdictCache(ttl time.Duration) *VerdictCache {
	return &VerdictCache{
		entries:   make(map[string]cacheEntry),
		ttl:       ttl,
		sweepSize: defaultSweepSize,
	}
}

// GetOrCompute returns the cached verdict for the normalized text if one is
// still within its TTL, otherwise invokes compute and stores the result.
// compute runs outside the lock; two concurrent misses for the same text may
// both compute, which is safe because verdicts are deterministic.
func (c *VerdictCache) GetOrCompute(text string, compute func() Verdict) Verdict {
	key := cacheKey(text)
	now := time.Now()

	c.mu.Lock()
	if entry, ok := c.entries[key]; ok && now.Sub(entry.cachedAt) < c.ttl {
		c.mu.Unlock()
		return entry.verdict
	}
	c.mu.Unlock()

	verdict := compute()

	c.mu.Lock()
	c.entries[key] = cacheEntry{verdict: verdict, cachedAt: now}
	if len(c.entries) > c.sweepSize {
		c.sweep(now)
	}
	c.mu.Unlock()

	return verdict
}

// Len reports the current entry count.
func (c *VerdictCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// sweep evicts every expired entry in one pass. Called with the lock held
// whenever the cache grows past its size threshold; the threshold is a soft
// bound and the cache may exceed it between sweeps.
func (c *VerdictCache) sweep(now time.Time) {
	for key, entry := range c.entries {
		if now.Sub(entry.cachedAt) >= c.ttl {
			delete(c.entries, key)
		}
	}
}

// cacheKey hashes the case-normalized, trimmed text so submissions differing
// only by case or surrounding whitespace share one verdict.
func cacheKey(text string) string {
	normalized := strings.ToLower(strings.TrimSpace(text))
	sum := sha256.Sum256([]byte(normalized))
	return hex.EncodeToString(sum[:])
}
