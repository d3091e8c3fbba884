package cache

import (
	"context"
	"fmt"

	"github.com/vmihailenco/msgpack/v5"
)

// Fetch is GetOrLoad for typed values, encoded with msgpack.
func Fetch[T any](ctx context.Context, c *Coordinator, key string, load func(ctx context.Context) (T, error)) (T, Source, error) {
	var out T
	raw, src, err := c.GetOrLoad(ctx, key, func(ctx context.Context) ([]byte, error) {
		v, err := load(ctx)
		if err != nil {
			return nil, err
		}
		return msgpack.Marshal(v)
	})
	if err != nil {
		return out, src, err
	}
	if err := msgpack.Unmarshal(raw, &out); err != nil {
		// A value in an old layout; drop it so the next read rebuilds.
		_ = c.Remove(ctx, key)
		return out, src, fmt.Errorf("cache: decode %q: %w", key, err)
	}
	return out, src, nil
}
