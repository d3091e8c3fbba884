package observability

import (
	"maps"
	"sync"
)

// Event is one observation kept by Inmem.
type Event struct {
	Kind   string
	Name   string
	Code   string
	Status int
	DurMs  float64
	OK     bool
}

type Totals struct {
	Hits        map[string]int
	Misses      int
	StaleServed int
	Rebuilds    int
	RebuildErrs int
}

// Inmem keeps counters and a bounded window of the latest events.
type Inmem struct {
	mu     sync.Mutex
	last   []Event
	max    int
	totals Totals
}

func NewInmem(max int) *Inmem {
	if max < 1 {
		max = 1
	}
	return &Inmem{
		max:    max,
		totals: Totals{Hits: make(map[string]int)},
	}
}

func (m *Inmem) push(e Event) {
	m.last = append(m.last, e)
	if len(m.last) > m.max {
		m.last = m.last[1:]
	}
}

func (m *Inmem) IncCacheHit(tier string) {
	m.mu.Lock()
	m.totals.Hits[tier]++
	m.mu.Unlock()
}

func (m *Inmem) IncCacheMiss() {
	m.mu.Lock()
	m.totals.Misses++
	m.mu.Unlock()
}

func (m *Inmem) IncStaleServed() {
	m.mu.Lock()
	m.totals.StaleServed++
	m.mu.Unlock()
}

func (m *Inmem) ObserveRebuild(durMs float64, ok bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.totals.Rebuilds++
	if !ok {
		m.totals.RebuildErrs++
	}
	m.push(Event{Kind: "rebuild", DurMs: durMs, OK: ok})
}

func (m *Inmem) ObserveOrderOp(op, code string, durMs float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.push(Event{Kind: "order", Name: op, Code: code, DurMs: durMs, OK: code == ""})
}

func (m *Inmem) ObserveHTTP(method, route string, status int, durMs float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.push(Event{Kind: "http", Name: method + " " + route, Status: status, DurMs: durMs, OK: status < 500})
}

// Snapshot returns a copy safe to read without holding the lock.
func (m *Inmem) Snapshot() (Totals, []Event) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t := m.totals
	t.Hits = maps.Clone(m.totals.Hits)
	return t, append([]Event(nil), m.last...)
}
