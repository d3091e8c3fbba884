package database

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Taqey/Foodo-sub000/internal/cache"
	"github.com/Taqey/Foodo-sub000/internal/config"
)

// CacheStore is the distributed cache tier, shared by every instance that
// talks to the same database.
type CacheStore struct {
	pool *pgxpool.Pool
	n    names
}

func NewCacheStore(pool *pgxpool.Pool, t config.Tables) *CacheStore {
	return &CacheStore{pool: pool, n: names{t}}
}

func (s *CacheStore) Get(ctx context.Context, key string) (cache.Entry, bool, error) {
	var e cache.Entry
	err := s.pool.QueryRow(ctx, fmt.Sprintf(`
		SELECT value, fresh_until, stale_until FROM %s WHERE key = $1
	`, s.n.qt(s.n.CacheEntries)), key).Scan(&e.Value, &e.FreshUntil, &e.StaleUntil)
	if errors.Is(err, pgx.ErrNoRows) {
		return cache.Entry{}, false, nil
	}
	if err != nil {
		return cache.Entry{}, false, err
	}
	return e, true, nil
}

func (s *CacheStore) Set(ctx context.Context, key string, e cache.Entry) error {
	_, err := s.pool.Exec(ctx, fmt.Sprintf(`
		INSERT INTO %s (key, value, fresh_until, stale_until)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (key) DO UPDATE SET
		  value = EXCLUDED.value,
		  fresh_until = EXCLUDED.fresh_until,
		  stale_until = EXCLUDED.stale_until
	`, s.n.qt(s.n.CacheEntries)), key, e.Value, e.FreshUntil, e.StaleUntil)
	return err
}

func (s *CacheStore) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	_, err := s.pool.Exec(ctx, fmt.Sprintf(`DELETE FROM %s WHERE key = ANY($1)`, s.n.qt(s.n.CacheEntries)), keys)
	return err
}

func (s *CacheStore) DeletePrefix(ctx context.Context, prefix string) error {
	_, err := s.pool.Exec(ctx, fmt.Sprintf(`
		DELETE FROM %s WHERE key LIKE $1 ESCAPE '\'
	`, s.n.qt(s.n.CacheEntries)), likePrefix(prefix))
	return err
}

// Purge drops entries past their fail-safe window.
func (s *CacheStore) Purge(ctx context.Context) (int64, error) {
	tag, err := s.pool.Exec(ctx, fmt.Sprintf(`DELETE FROM %s WHERE stale_until < now()`, s.n.qt(s.n.CacheEntries)))
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// likePrefix turns a literal prefix into a LIKE pattern; keys contain '_'.
func likePrefix(prefix string) string {
	return likeEscaper.Replace(prefix) + "%"
}
