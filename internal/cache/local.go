package cache

import (
	"sync/atomic"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

type localEntry struct {
	entry      Entry
	loadedAt   time.Time
	lastAccess atomic.Int64
}

// localTier keeps entries until StaleUntil so the fail-safe path can use them.
// Freshness is the earliest of the sliding window, the absolute cap and the
// entry's own FreshUntil.
type localTier struct {
	lru      *lru.Cache[string, *localEntry]
	sliding  time.Duration
	absolute time.Duration
}

// onEvict, when set, runs after a key leaves the tier for any reason,
// outside the tier's lock.
func newLocalTier(capacity int, sliding, absolute time.Duration, onEvict func(key string)) (*localTier, error) {
	c, err := lru.NewWithEvict[string, *localEntry](capacity, func(key string, _ *localEntry) {
		if onEvict != nil {
			onEvict(key)
		}
	})
	if err != nil {
		return nil, err
	}
	return &localTier{lru: c, sliding: sliding, absolute: absolute}, nil
}

func (t *localTier) get(key string, now time.Time) (e Entry, fresh, ok bool) {
	le, ok := t.lru.Get(key)
	if !ok {
		return Entry{}, false, false
	}
	if !le.entry.Usable(now) {
		t.lru.Remove(key)
		return Entry{}, false, false
	}
	if !now.Before(t.freshUntil(le)) {
		return le.entry, false, true
	}
	le.lastAccess.Store(now.UnixNano())
	return le.entry, true, true
}

func (t *localTier) freshUntil(le *localEntry) time.Time {
	until := le.entry.FreshUntil
	if t.sliding > 0 {
		if s := time.Unix(0, le.lastAccess.Load()).Add(t.sliding); s.Before(until) {
			until = s
		}
	}
	if t.absolute > 0 {
		if a := le.loadedAt.Add(t.absolute); a.Before(until) {
			until = a
		}
	}
	return until
}

func (t *localTier) add(key string, e Entry, now time.Time) {
	le := &localEntry{entry: e, loadedAt: now}
	le.lastAccess.Store(now.UnixNano())
	t.lru.Add(key, le)
}

func (t *localTier) remove(keys ...string) {
	for _, k := range keys {
		t.lru.Remove(k)
	}
}

func (t *localTier) has(key string) bool { return t.lru.Contains(key) }

func (t *localTier) len() int { return t.lru.Len() }
