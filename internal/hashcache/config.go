// Package hashcache is the full-hash cache and resolver of spec
// section 4.6: it answers a candidate prefix from the local cache
// when possible, and otherwise batches every uncached, unsuppressed
// prefix into a single gethash round trip, persisting the results
// with a TTL and tracking per-prefix backoff across restarts via
// scratch.
package hashcache

import (
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

// Config configures a Resolver.
type Config struct {
	// CacheTime, if nonzero, overrides the server's CACHELIFETIME when
	// computing a resolved record's ValidUntil (spec section 3,
	// invariant 5).
	CacheTime time.Duration

	// BackoffCacheSize bounds the in-memory read-through cache of
	// per-prefix backoff state kept in front of scratch (default 8192).
	BackoffCacheSize int
}

const defaultBackoffCacheSize = 8192

func newBackoffCache(size int) *lru.Cache[string, backoffEntry] {
	if size <= 0 {
		size = defaultBackoffCacheSize
	}

	c, err := lru.New[string, backoffEntry](size)
	if err != nil {
		// Only returns an error for a non-positive size, which is
		// excluded above; a constructor-time panic here would be a
		// programmer error, not a runtime condition.
		panic(err)
	}

	return c
}
