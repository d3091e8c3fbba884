package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Taqey/Foodo-sub000/internal/observability"
	"github.com/Taqey/Foodo-sub000/internal/pkg/circuit"
)

const invalidationWindow = 4096

// Coordinator owns every cache write. It serves from the local tier, falls
// back to the distributed tier, rebuilds through a per-key single flight and
// broadcasts removals over the backplane.
type Coordinator struct {
	opts     Options
	local    *localTier
	keys     *registry
	invals   *invalidations
	flight   *flights
	store    Store
	bp       Backplane
	breaker  *circuit.Breaker
	logger   *zap.Logger
	metrics  observability.Metrics
	now      func() time.Time
	instance string
}

type Option func(*Coordinator)

func WithClock(now func() time.Time) Option {
	return func(c *Coordinator) { c.now = now }
}

func WithInstanceID(id string) Option {
	return func(c *Coordinator) { c.instance = id }
}

// WithBreaker guards distributed tier calls. Without it a default breaker is used.
func WithBreaker(b *circuit.Breaker) Option {
	return func(c *Coordinator) { c.breaker = b }
}

// New builds a coordinator. store and bp may be nil, giving a local-only cache.
func New(opts Options, store Store, bp Backplane, logger *zap.Logger, metrics observability.Metrics, options ...Option) (*Coordinator, error) {
	if err := opts.Validate(); err != nil {
		return nil, fmt.Errorf("cache options: %w", err)
	}
	var local *localTier
	keys := newRegistry()
	// A store without prefix deletes needs registry keys for removals even
	// after they leave the local tier, so only the others prune.
	var onEvict func(string)
	if _, ok := store.(PrefixDeleter); ok || store == nil {
		onEvict = func(key string) { keys.prune(key, local.has) }
	}
	var err error
	local, err = newLocalTier(opts.LocalCapacity, opts.LocalSliding, opts.LocalAbsolute, onEvict)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if metrics == nil {
		metrics = observability.NewNoop()
	}
	c := &Coordinator{
		opts:    opts,
		local:   local,
		keys:    keys,
		invals:  newInvalidations(invalidationWindow),
		flight:  newFlights(),
		store:   store,
		bp:      bp,
		logger:  logger,
		metrics: metrics,
		now:     time.Now,
	}
	for _, o := range options {
		o(c)
	}
	if c.instance == "" {
		c.instance = uuid.NewString()
	}
	if c.breaker == nil {
		c.breaker = circuit.New(circuit.Settings{Threshold: 5, OpenTimeout: 10 * time.Second, MaxHalfOpen: 1})
	}
	return c, nil
}

func (c *Coordinator) InstanceID() string { return c.instance }

// Get returns a fresh value or reports a miss. Stale values are never
// returned here.
func (c *Coordinator) Get(ctx context.Context, key string) ([]byte, bool) {
	e, src, _ := c.lookup(ctx, key)
	if src == "" {
		return nil, false
	}
	return e.Value, true
}

// lookup returns a fresh entry and its tier, or the best stale candidate with
// an empty Source.
func (c *Coordinator) lookup(ctx context.Context, key string) (Entry, Source, *Entry) {
	now := c.now()

	var stale *Entry
	if e, fresh, ok := c.local.get(key, now); ok {
		if fresh {
			c.metrics.IncCacheHit(string(SourceLocal))
			return e, SourceLocal, nil
		}
		stale = &e
	}

	if c.store == nil {
		return Entry{}, "", stale
	}

	seq := c.invals.current()
	e, ok, err := c.remoteGet(ctx, key)
	if err != nil {
		c.logger.Warn("distributed tier read failed, using local tier only",
			zap.String("cache_key", key), zap.Error(err))
		return Entry{}, "", stale
	}
	if !ok {
		return Entry{}, "", stale
	}
	if e.Fresh(now) {
		cached := c.invals.guard(seq, key, func() {
			c.local.add(key, e, now)
			c.keys.add(key)
		})
		if cached {
			c.metrics.IncCacheHit(string(SourceRemote))
			return e, SourceRemote, nil
		}
		// Removed while we were reading; what we hold is known-stale.
		return Entry{}, "", stale
	}
	if e.Usable(now) && (stale == nil || e.StaleUntil.After(stale.StaleUntil)) {
		stale = &e
	}
	return Entry{}, "", stale
}

// GetOrLoad serves key from cache or rebuilds it with load. Concurrent misses
// share one rebuild. A caller that waits longer than LockTimeout gets a stale
// value if one exists and otherwise runs its own rebuild. A failed rebuild
// falls back to a stale value when there is one.
func (c *Coordinator) GetOrLoad(ctx context.Context, key string, load Loader) ([]byte, Source, error) {
	if key == "" {
		return nil, "", ErrEmptyKey
	}
	if err := ctx.Err(); err != nil {
		return nil, "", err
	}

	e, src, stale := c.lookup(ctx, key)
	if src != "" {
		return e.Value, src, nil
	}
	c.metrics.IncCacheMiss()

	ch, leader, release := c.flight.start(key, func() (any, error) {
		rctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.opts.RebuildTimeout)
		defer cancel()
		return c.rebuild(rctx, key, load)
	})
	defer release()

	timer := time.NewTimer(c.opts.LockTimeout)
	defer timer.Stop()

	for {
		select {
		case res := <-ch:
			if res.Err != nil {
				return c.failSafe(key, stale, res.Err)
			}
			return res.Val.([]byte), SourceLoader, nil

		case <-timer.C:
			if leader {
				// Our own rebuild is running; it is bounded by RebuildTimeout.
				continue
			}
			if stale != nil {
				c.metrics.IncStaleServed()
				c.logger.Warn("rebuild lock wait timed out, serving stale value", zap.String("cache_key", key))
				return stale.Value, SourceStale, nil
			}
			c.logger.Debug("rebuild lock wait timed out, rebuilding", zap.String("cache_key", key))
			v, err := c.rebuild(ctx, key, load)
			if err != nil {
				return nil, "", err
			}
			return v, SourceLoader, nil

		case <-ctx.Done():
			return nil, "", ctx.Err()
		}
	}
}

func (c *Coordinator) failSafe(key string, stale *Entry, err error) ([]byte, Source, error) {
	if stale == nil {
		return nil, "", err
	}
	c.metrics.IncStaleServed()
	c.logger.Warn("rebuild failed, serving stale value",
		zap.String("cache_key", key), zap.Error(err))
	return stale.Value, SourceStale, nil
}

func (c *Coordinator) rebuild(ctx context.Context, key string, load Loader) ([]byte, error) {
	seq := c.invals.current()
	// Registered first so a prefix removal during the load can see the key.
	c.keys.add(key)

	start := time.Now()
	v, err := load(ctx)
	c.metrics.ObserveRebuild(observability.SinceMs(start), err == nil)
	if err != nil {
		return nil, err
	}
	c.write(ctx, seq, key, v)
	return v, nil
}

// Set writes value to both tiers.
func (c *Coordinator) Set(ctx context.Context, key string, value []byte) error {
	if key == "" {
		return ErrEmptyKey
	}
	return c.write(ctx, c.invals.current(), key, value)
}

// write stores what was read at seq unless key was invalidated since. A
// distributed write that races with a removal is undone.
func (c *Coordinator) write(ctx context.Context, seq uint64, key string, value []byte) error {
	now := c.now()
	e := Entry{
		Value:      value,
		FreshUntil: now.Add(c.opts.Duration),
		StaleUntil: now.Add(c.opts.Duration + c.opts.FailSafeMax),
	}
	ok := c.invals.guard(seq, key, func() {
		c.local.add(key, e, now)
		c.keys.add(key)
	})
	if !ok {
		c.logger.Debug("discarding value read before invalidation", zap.String("cache_key", key))
		return nil
	}
	if c.store == nil {
		return nil
	}

	err := c.remote(ctx, func(ctx context.Context) error { return c.store.Set(ctx, key, e) })
	if err != nil {
		c.logger.Warn("distributed tier write failed", zap.String("cache_key", key), zap.Error(err))
		return err
	}
	if c.invals.changed(seq, key) {
		if err := c.remote(ctx, func(ctx context.Context) error { return c.store.Delete(ctx, key) }); err != nil {
			c.logger.Warn("undoing raced distributed write failed", zap.String("cache_key", key), zap.Error(err))
		}
	}
	return nil
}

// Remove evicts key everywhere and tells the other instances. Returned
// errors wrap ErrUnavailable and are informational.
func (c *Coordinator) Remove(ctx context.Context, key string) error {
	if key == "" {
		return ErrEmptyKey
	}
	err := c.evict(ctx, Invalidation{Key: key})
	return errors.Join(err, c.publish(ctx, Invalidation{Key: key}))
}

// RemoveByPrefix evicts every key starting with prefix. The match is a plain
// string prefix, so "customer_order:list:42" also covers ":420...".
func (c *Coordinator) RemoveByPrefix(ctx context.Context, prefix string) error {
	if prefix == "" {
		return ErrEmptyKey
	}
	err := c.evict(ctx, Invalidation{Prefix: prefix})
	return errors.Join(err, c.publish(ctx, Invalidation{Prefix: prefix}))
}

// ApplyRemote handles an invalidation received from the backplane. Our own
// broadcasts are ignored.
func (c *Coordinator) ApplyRemote(ctx context.Context, inv Invalidation) error {
	if inv.Origin == c.instance {
		return nil
	}
	if inv.Key == "" && inv.Prefix == "" {
		return ErrEmptyKey
	}
	return c.evict(ctx, inv)
}

func (c *Coordinator) evict(ctx context.Context, inv Invalidation) error {
	pattern, prefix := inv.Key, false
	if inv.Key == "" {
		pattern, prefix = inv.Prefix, true
	}

	// Local eviction runs on both sides of the distributed delete. Readers
	// that fetched the old remote value before it was deleted either see the
	// second mark or have their local copy dropped by it.
	var keys []string
	evictLocal := func() {
		if prefix {
			keys = c.keys.withPrefix(pattern)
		} else {
			keys = []string{pattern}
		}
		c.local.remove(keys...)
		for _, k := range keys {
			c.flight.forget(k)
		}
		if prefix {
			c.flight.forgetPrefix(pattern)
		}
	}
	c.invals.record(pattern, prefix, evictLocal)

	var err error
	if c.store != nil {
		err = c.remote(ctx, func(ctx context.Context) error {
			if pd, ok := c.store.(PrefixDeleter); ok && prefix {
				return pd.DeletePrefix(ctx, pattern)
			}
			if len(keys) == 0 {
				return nil
			}
			return c.store.Delete(ctx, keys...)
		})
		if err != nil {
			c.logger.Warn("distributed tier delete failed",
				zap.String("cache_key", inv.Key), zap.String("prefix", inv.Prefix), zap.Error(err))
		}
	}

	c.invals.record(pattern, prefix, func() {
		evictLocal()
		c.keys.remove(keys...)
	})
	return err
}

func (c *Coordinator) publish(ctx context.Context, inv Invalidation) error {
	if c.bp == nil {
		return nil
	}
	inv.Origin = c.instance
	inv.At = c.now()
	if err := c.bp.Publish(ctx, inv); err != nil {
		c.logger.Warn("backplane publish failed",
			zap.String("cache_key", inv.Key), zap.String("prefix", inv.Prefix), zap.Error(err))
		return fmt.Errorf("%w: backplane: %v", ErrUnavailable, err)
	}
	return nil
}

func (c *Coordinator) remoteGet(ctx context.Context, key string) (Entry, bool, error) {
	var (
		e  Entry
		ok bool
	)
	err := c.remote(ctx, func(ctx context.Context) error {
		var err error
		e, ok, err = c.store.Get(ctx, key)
		return err
	})
	return e, ok, err
}

// remote runs fn against the distributed tier behind the breaker and the
// RemoteTimeout. A cancelled caller is not counted as a tier failure.
func (c *Coordinator) remote(ctx context.Context, fn func(ctx context.Context) error) error {
	if err := c.breaker.Allow(); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	rctx, cancel := context.WithTimeout(ctx, c.opts.RemoteTimeout)
	defer cancel()

	err := fn(rctx)
	switch {
	case err == nil:
		c.breaker.Success()
		return nil
	case ctx.Err() != nil:
		return ctx.Err()
	default:
		c.breaker.Failure()
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
}
