// Package cache decides whether provider-side prompt caching is economically
// justified for a given prompt. Caching costs more than a plain call on a
// miss but is far cheaper on a hit, so the break-even rule is at least two
// uses of the same content within the TTL window.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"log"
	"sync"
	"time"
)

// Default advisor settings.
const (
	// DefaultTTL is how long a usage record stays fresh after its last use.
	DefaultTTL = 5 * time.Minute
	// DefaultSweepInterval is how often expired records are deleted.
	DefaultSweepInterval = 60 * time.Second
)

// usageRecord tracks observed uses of one prompt's content.
type usageRecord struct {
	count    int
	lastUsed time.Time
}

// Advisor keeps a rolling ledger of prompt usage keyed by content hash.
// It is safe for concurrent use; the ledger's check-then-act sequence is
// guarded by a mutex since multiple reasoning calls may consult it at once.
type Advisor struct {
	mu      sync.Mutex
	records map[string]*usageRecord

	ttl           time.Duration
	sweepInterval time.Duration
	now           func() time.Time

	done     chan struct{}
	stopOnce sync.Once
}

// Options configures an Advisor. Zero values select the defaults.
type Options struct {
	// TTL is the freshness window for usage records.
	TTL time.Duration
	// SweepInterval is how often the background sweep runs.
	SweepInterval time.Duration
}

// NewAdvisor creates an Advisor and starts its background sweep. Call Close
// on shutdown to stop the sweep goroutine.
func NewAdvisor(opts Options) *Advisor {
	ttl := opts.TTL
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	interval := opts.SweepInterval
	if interval <= 0 {
		interval = DefaultSweepInterval
	}

	a := &Advisor{
		records:       make(map[string]*usageRecord),
		ttl:           ttl,
		sweepInterval: interval,
		now:           time.Now,
		done:          make(chan struct{}),
	}
	go a.sweepLoop()
	return a
}

// ShouldCache records a use of the prompt's content and reports whether the
// upcoming call should request provider-side caching. The first use within a
// TTL window is never cache-worthy; the second and later uses are.
func (a *Advisor) ShouldCache(promptText string) bool {
	key := hashContent(promptText)
	now := a.now()

	a.mu.Lock()
	defer a.mu.Unlock()

	rec, ok := a.records[key]
	if !ok {
		a.records[key] = &usageRecord{count: 1, lastUsed: now}
		return false
	}

	if now.Sub(rec.lastUsed) > a.ttl {
		// Stale: the reuse cycle starts over.
		rec.count = 1
		rec.lastUsed = now
		return false
	}

	rec.count++
	rec.lastUsed = now
	return rec.count >= 2
}

// Size returns the number of live usage records.
func (a *Advisor) Size() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.records)
}

// Close stops the background sweep. Safe to call more than once.
func (a *Advisor) Close() {
	a.stopOnce.Do(func() { close(a.done) })
}

// sweepLoop periodically deletes expired records, bounding ledger memory to
// actively reused prompts.
func (a *Advisor) sweepLoop() {
	ticker := time.NewTicker(a.sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-a.done:
			return
		case <-ticker.C:
			if removed := a.sweep(); removed > 0 {
				log.Printf("[cache] swept %d expired usage record(s)", removed)
			}
		}
	}
}

// sweep removes expired records and returns how many were deleted.
func (a *Advisor) sweep() int {
	now := a.now()

	a.mu.Lock()
	defer a.mu.Unlock()

	removed := 0
	for key, rec := range a.records {
		if now.Sub(rec.lastUsed) > a.ttl {
			delete(a.records, key)
			removed++
		}
	}
	return removed
}

// hashContent returns a stable content hash for ledger keys.
func hashContent(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}
