package cache

import (
	"strings"
	"sync"
)

type mark struct {
	seq    uint64
	key    string
	prefix bool
}

// invalidations is a bounded log of recent removals. Writers that started
// before a matching removal must not publish what they read.
type invalidations struct {
	mu     sync.Mutex
	seq    uint64
	recent []mark
	max    int
}

func newInvalidations(max int) *invalidations {
	return &invalidations{max: max}
}

func (l *invalidations) current() uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.seq
}

// record appends a removal and runs fn under the same lock, so no guarded
// write can slip between the two.
func (l *invalidations) record(key string, prefix bool, fn func()) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.seq++
	l.recent = append(l.recent, mark{seq: l.seq, key: key, prefix: prefix})
	if len(l.recent) > l.max {
		l.recent = l.recent[len(l.recent)-l.max:]
	}
	if fn != nil {
		fn()
	}
}

// guard runs fn only if key was not invalidated after seq.
func (l *invalidations) guard(seq uint64, key string, fn func()) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.changedLocked(seq, key) {
		return false
	}
	fn()
	return true
}

func (l *invalidations) changed(seq uint64, key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.changedLocked(seq, key)
}

func (l *invalidations) changedLocked(seq uint64, key string) bool {
	if l.seq == seq {
		return false
	}
	// History older than the window is gone; assume the worst.
	if len(l.recent) == 0 || l.recent[0].seq > seq+1 {
		return true
	}
	for i := len(l.recent) - 1; i >= 0; i-- {
		m := l.recent[i]
		if m.seq <= seq {
			break
		}
		if m.key == key || (m.prefix && strings.HasPrefix(key, m.key)) {
			return true
		}
	}
	return false
}
