package permits

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"

	"github.com/dgraph-io/ristretto"
)

// ============================================================================
// DECISION CACHE
// ============================================================================

// CacheConfig sizes the ristretto-backed decision cache.
type CacheConfig struct {
	// TTL bounds staleness after employment or group changes. Seconds, not
	// minutes; defaults to one second.
	TTL time.Duration
	// Ristretto sizing knobs.
	NumCounters int64
	MaxCost     int64
	BufferItems int64
}

func (c CacheConfig) withDefaults() CacheConfig {
	if c.TTL <= 0 {
		c.TTL = time.Second
	}
	if c.NumCounters <= 0 {
		c.NumCounters = 100_000
	}
	if c.MaxCost <= 0 {
		c.MaxCost = 1 << 20
	}
	if c.BufferItems <= 0 {
		c.BufferItems = 64
	}
	return c
}

// DecisionCache memoizes decisions keyed by a fingerprint of the evaluated
// triple. A policy reload flushes it unconditionally; there is no partial
// invalidation.
type DecisionCache struct {
	cache *ristretto.Cache
	ttl   time.Duration
}

func NewDecisionCache(cfg CacheConfig) (*DecisionCache, error) {
	cfg = cfg.withDefaults()
	c, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: cfg.NumCounters,
		MaxCost:     cfg.MaxCost,
		BufferItems: cfg.BufferItems,
	})
	if err != nil {
		return nil, err
	}
	return &DecisionCache{cache: c, ttl: cfg.TTL}, nil
}

// GetOrEvaluate returns the cached decision for the fingerprint or computes,
// stores and returns a fresh one. A reader either observes a complete cached
// Decision or recomputes; decisions are immutable so the pointer is shared.
func (dc *DecisionCache) GetOrEvaluate(fingerprint string, evaluate func() *Decision) *Decision {
	if v, ok := dc.cache.Get(fingerprint); ok {
		if d, ok := v.(*Decision); ok {
			return d
		}
	}
	d := evaluate()
	dc.cache.SetWithTTL(fingerprint, d, 1, dc.ttl)
	// Publish the buffered set before returning so a back-to-back identical
	// request hits the cache.
	dc.cache.Wait()
	return d
}

// Flush drops every cached decision.
func (dc *DecisionCache) Flush() {
	dc.cache.Clear()
}

// Close releases the cache's internal goroutines.
func (dc *DecisionCache) Close() {
	dc.cache.Close()
}

// Fingerprint derives a stable cache key from everything a decision depends
// on besides the policy snapshot itself: the principal's identity, groups and
// employment sets plus the action and resource identity. Set-valued fields
// are sorted so logically equal principals share a key.
func Fingerprint(principal *Principal, action Action, resource *ResourceDescriptor) string {
	var b strings.Builder
	if principal != nil {
		b.WriteString(principal.UserID)
		b.WriteByte('\n')
		b.WriteString(strings.Join(sortedCopy(principal.Groups), ","))
		b.WriteByte('\n')
		b.WriteString(strings.Join(sortedCopy(principal.EmploymentStoreCodes), ","))
		b.WriteByte('\n')
		b.WriteString(strings.Join(sortedCopy(principal.EmploymentFranchiseCodes), ","))
	}
	b.WriteByte('\n')
	b.WriteString(string(action))
	b.WriteByte('\n')
	b.WriteString(string(resource.Type))
	b.WriteByte('\n')
	b.WriteString(resource.ID)
	sum := sha256.Sum256([]byte(b.String()))
	return hex.EncodeToString(sum[:])
}
