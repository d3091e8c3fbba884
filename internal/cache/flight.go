package cache

import (
	"strings"
	"sync"

	"golang.org/x/sync/singleflight"
)

// flightToken is not zero-sized so every token has its own address.
type flightToken struct{ _ byte }

// flights wraps singleflight so a caller knows, before DoChan returns,
// whether the rebuild it joined is its own.
type flights struct {
	mu      sync.Mutex
	group   singleflight.Group
	leaders map[string]*flightToken
}

func newFlights() *flights {
	return &flights{leaders: make(map[string]*flightToken)}
}

// start runs fn for key unless a rebuild is already in flight. lead is true
// when fn is the one that runs. release must be called once the result has
// been received.
func (f *flights) start(key string, fn func() (any, error)) (ch <-chan singleflight.Result, lead bool, release func()) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, running := f.leaders[key]; running {
		return f.group.DoChan(key, fn), false, func() {}
	}
	tok := new(flightToken)
	f.leaders[key] = tok
	ch = f.group.DoChan(key, func() (any, error) {
		defer f.release(key, tok)
		return fn()
	})
	return ch, true, func() { f.release(key, tok) }
}

func (f *flights) release(key string, tok *flightToken) {
	f.mu.Lock()
	if f.leaders[key] == tok {
		delete(f.leaders, key)
	}
	f.mu.Unlock()
}

// forget lets the next start for key begin a new rebuild. The one in flight
// still delivers to the callers already waiting on it.
func (f *flights) forget(key string) {
	f.mu.Lock()
	delete(f.leaders, key)
	f.group.Forget(key)
	f.mu.Unlock()
}

// forgetPrefix is forget for every in-flight key starting with prefix, which
// covers rebuilds whose keys already left the registry.
func (f *flights) forgetPrefix(prefix string) {
	f.mu.Lock()
	for key := range f.leaders {
		if strings.HasPrefix(key, prefix) {
			delete(f.leaders, key)
			f.group.Forget(key)
		}
	}
	f.mu.Unlock()
}
