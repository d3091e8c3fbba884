package observability

// Cache tiers reported to Metrics.
const (
	TierLocal  = "local"
	TierRemote = "remote"
	TierStale  = "stale"
	TierSource = "source"
)

type Metrics interface {
	IncCacheHit(tier string)
	IncCacheMiss()
	IncStaleServed()
	ObserveRebuild(durMs float64, ok bool)
	ObserveOrderOp(op, code string, durMs float64)
	ObserveHTTP(method, route string, status int, durMs float64)
}

type Noop struct{}

func NewNoop() Noop { return Noop{} }

func (Noop) IncCacheHit(string)                       {}
func (Noop) IncCacheMiss()                            {}
func (Noop) IncStaleServed()                          {}
func (Noop) ObserveRebuild(float64, bool)             {}
func (Noop) ObserveOrderOp(string, string, float64)   {}
func (Noop) ObserveHTTP(string, string, int, float64) {}
