package ratelimit

import (
	"time"

	cmap "github.com/orcaman/concurrent-map/v2"
)

// Limiter decides whether another attempt is allowed for a key. Constructed
// once per process and passed to the handlers that need it.
type Limiter interface {
	Allow(key string, max int, window time.Duration) bool
}

// SlidingWindow keeps per-key attempt timestamps in memory. Approximate by
// design: no persistence and no cross-instance coordination, which is fine
// for a single-process deployment.
type SlidingWindow struct {
	hits cmap.ConcurrentMap[string, []int64]
	now  func() time.Time
}

func NewSlidingWindow() *SlidingWindow {
	return &SlidingWindow{
		hits: cmap.New[[]int64](),
		now:  time.Now,
	}
}

// Allow prunes timestamps older than the window, accepts the attempt only if
// fewer than max remain, and records it. The check-and-append runs inside
// the map's per-shard lock, so concurrent attempts on the same key cannot
// both sneak under the limit.
func (l *SlidingWindow) Allow(key string, max int, window time.Duration) bool {
	allowed := false
	now := l.now().UnixNano()
	cutoff := now - window.Nanoseconds()
	l.hits.Upsert(key, nil, func(exists bool, current, _ []int64) []int64 {
		kept := make([]int64, 0, len(current)+1)
		for _, ts := range current {
			if ts > cutoff {
				kept = append(kept, ts)
			}
		}
		if len(kept) < max {
			allowed = true
			kept = append(kept, now)
		}
		return kept
	})
	return allowed
}
