package cache

import (
	"context"
	"errors"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/Taqey/Foodo-sub000/internal/observability"
)

var (
	// ErrUnavailable marks a distributed tier or backplane failure. It never
	// reaches callers of GetOrLoad; mutations return it for logging only.
	ErrUnavailable = errors.New("cache unavailable")
	ErrEmptyKey    = errors.New("cache: empty key")
)

// Entry is what the distributed tier stores. Past FreshUntil the value is
// stale and may only be served by the fail-safe path until StaleUntil.
type Entry struct {
	Value      []byte    `json:"value"`
	FreshUntil time.Time `json:"fresh_until"`
	StaleUntil time.Time `json:"stale_until"`
}

func (e Entry) Fresh(now time.Time) bool  { return now.Before(e.FreshUntil) }
func (e Entry) Usable(now time.Time) bool { return now.Before(e.StaleUntil) }

// Store is the distributed tier.
type Store interface {
	Get(ctx context.Context, key string) (Entry, bool, error)
	Set(ctx context.Context, key string, e Entry) error
	Delete(ctx context.Context, keys ...string) error
}

// PrefixDeleter is implemented by stores that can drop a key range
// themselves, including keys this instance never saw.
type PrefixDeleter interface {
	DeletePrefix(ctx context.Context, prefix string) error
}

// Invalidation is broadcast to the other instances. Exactly one of Key and
// Prefix is set.
type Invalidation struct {
	Origin string    `json:"origin"`
	Key    string    `json:"key,omitempty"`
	Prefix string    `json:"prefix,omitempty"`
	At     time.Time `json:"at"`
}

type Backplane interface {
	Publish(ctx context.Context, inv Invalidation) error
}

type Loader func(ctx context.Context) ([]byte, error)

// Source tells where a value returned by GetOrLoad came from.
type Source string

const (
	SourceLocal  Source = observability.TierLocal
	SourceRemote Source = observability.TierRemote
	SourceStale  Source = observability.TierStale
	SourceLoader Source = observability.TierSource
)

type Options struct {
	LocalCapacity int
	LocalSliding  time.Duration
	LocalAbsolute time.Duration

	Duration    time.Duration // soft TTL of a written entry
	FailSafeMax time.Duration // how long past Duration a stale value may be served

	LockTimeout    time.Duration
	RemoteTimeout  time.Duration
	RebuildTimeout time.Duration
}

func DefaultOptions() Options {
	return Options{
		LocalCapacity:  10000,
		LocalSliding:   30 * time.Second,
		LocalAbsolute:  2 * time.Minute,
		Duration:       5 * time.Minute,
		FailSafeMax:    2 * time.Hour,
		LockTimeout:    3 * time.Second,
		RemoteTimeout:  500 * time.Millisecond,
		RebuildTimeout: 10 * time.Second,
	}
}

func (o Options) Validate() error {
	return validation.ValidateStruct(&o,
		validation.Field(&o.LocalCapacity, validation.Required, validation.Min(1)),
		validation.Field(&o.LocalSliding, validation.Min(time.Duration(0))),
		validation.Field(&o.LocalAbsolute, validation.Min(time.Duration(0))),
		validation.Field(&o.Duration, validation.Required, validation.Min(time.Millisecond)),
		validation.Field(&o.FailSafeMax, validation.Min(time.Duration(0))),
		validation.Field(&o.LockTimeout, validation.Required, validation.Min(time.Millisecond)),
		validation.Field(&o.RemoteTimeout, validation.Required, validation.Min(time.Millisecond)),
		validation.Field(&o.RebuildTimeout, validation.Required, validation.Min(time.Millisecond)),
	)
}
