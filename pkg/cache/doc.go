// Package cache provides a generic, thread-safe cache combining per-entry
// TTL expiry with LRU eviction.
//
// It exists to back refresh-over-network workloads like feature-definition
// fetching: fresh entries are served from memory, expired entries trigger a
// refresh, and when the refresh fails the stale entry is still there to
// fall back on instead of losing the last known good state.
//
// # Usage
//
//	c := cache.NewTTLCache[string, *Payload](16, time.Minute)
//
//	c.Put("client-key", payload)
//
//	if p, ok := c.Get("client-key"); ok {
//		// fresh within the TTL
//	}
//
//	// After expiry Get misses, but the entry survives for fallback:
//	if p, ok, fresh := c.GetStale("client-key"); ok && !fresh {
//		// refresh failed? serve p anyway
//	}
//
// A zero TTL disables expiry entirely, leaving plain LRU semantics. When
// capacity is exceeded the least recently used entry is evicted; an
// optional eviction callback supports resource cleanup.
//
// All operations are safe for concurrent use.
package cache
