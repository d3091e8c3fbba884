package retry

import (
	"context"
	"errors"
	"math/rand"
	"time"
)

// Policy is exponential backoff with optional jitter.
type Policy struct {
	Attempts     int
	Base         time.Duration
	Max          time.Duration
	JitterFactor float64
}

// Permanent wraps an error that must not be retried.
type Permanent struct{ Err error }

func (p *Permanent) Error() string { return p.Err.Error() }
func (p *Permanent) Unwrap() error { return p.Err }

func Do(ctx context.Context, p Policy, fn func() error) error {
	if p.Attempts < 1 {
		p.Attempts = 1
	}
	d := p.Base
	var err error

	r := rand.New(rand.NewSource(time.Now().UnixNano()))

	for i := 0; i < p.Attempts; i++ {
		if err = fn(); err == nil {
			return nil
		}
		var perm *Permanent
		if errors.As(err, &perm) {
			return perm.Err
		}
		if i == p.Attempts-1 {
			break
		}

		delay := d
		if p.JitterFactor > 0 {
			delay = time.Duration(float64(delay) * (1 + p.JitterFactor*(2*r.Float64()-1)))
		}
		if p.Max > 0 && delay > p.Max {
			delay = p.Max
		}

		t := time.NewTimer(delay)
		select {
		case <-t.C:
		case <-ctx.Done():
			t.Stop()
			return ctx.Err()
		}

		d *= 2
		if p.Max > 0 && d > p.Max {
			d = p.Max
		}
	}
	return err
}
