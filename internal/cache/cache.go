// Package cache keeps recent backend reads so screens render without a round
// trip, and lets mutations invalidate a query name so the next read refetches.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"
)

// Store is the byte-level storage behind a QueryCache.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	// Incr atomically increments the counter at key, creating it at 1.
	Incr(ctx context.Context, key string) (int64, error)
	// Counter returns the counter at key, or 0 if it has never been incremented.
	Counter(ctx context.Context, key string) (int64, error)
}

// Stats receives hit and miss notifications per query name.
type Stats interface {
	Hit(name string)
	Miss(name string)
}

// QueryCache caches JSON-encoded query results. A query key is a name with an
// optional "?params" suffix; invalidating the name drops every variant.
type QueryCache struct {
	store  Store
	ttl    time.Duration
	group  singleflight.Group
	stats  Stats
	logger *slog.Logger
}

func New(store Store, ttl time.Duration, logger *slog.Logger) *QueryCache {
	return &QueryCache{store: store, ttl: ttl, logger: logger}
}

// WithStats sets the hit/miss sink and returns the cache.
func (q *QueryCache) WithStats(s Stats) *QueryCache {
	q.stats = s
	return q
}

// Scope derives a cache scope from an access token without keeping the token
// itself in cache keys.
func Scope(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:8])
}

// Name returns the invalidation name of a query key.
func Name(key string) string {
	if i := strings.IndexByte(key, '?'); i >= 0 {
		return key[:i]
	}
	return key
}

func generationKey(name string) string {
	return "gen:" + name
}

func (q *QueryCache) entryKey(ctx context.Context, scope, key string) (string, error) {
	gen, err := q.store.Counter(ctx, generationKey(Name(key)))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("q:%s:%s:%d", scope, key, gen), nil
}

// Invalidate marks every cached variant of name stale for every scope.
func (q *QueryCache) Invalidate(ctx context.Context, name string) {
	if q == nil {
		return
	}
	if _, err := q.store.Incr(ctx, generationKey(name)); err != nil {
		q.logger.Error("cache invalidate failed", "name", name, "error", err)
	}
}

// Fetch returns the cached value for key in scope or calls load, caching its
// result. Concurrent misses for the same entry share one load. Cache storage
// errors are logged and fall through to load.
func Fetch[T any](ctx context.Context, q *QueryCache, scope, key string, load func(context.Context) (T, error)) (T, error) {
	if q == nil {
		return load(ctx)
	}

	name := Name(key)
	entry, err := q.entryKey(ctx, scope, key)
	if err != nil {
		q.logger.Warn("cache unavailable, loading directly", "key", key, "error", err)
		return load(ctx)
	}

	if raw, ok, err := q.store.Get(ctx, entry); err != nil {
		q.logger.Warn("cache get failed", "key", key, "error", err)
	} else if ok {
		var v T
		if err := json.Unmarshal(raw, &v); err == nil {
			q.hit(name)
			return v, nil
		}
		q.logger.Warn("discarding undecodable cache entry", "key", key)
	}
	q.miss(name)

	// The load is shared with every caller waiting on entry, so one caller
	// going away must not cancel it for the rest.
	shared := context.WithoutCancel(ctx)
	res, err, _ := q.group.Do(entry, func() (any, error) {
		v, err := load(shared)
		if err != nil {
			return v, err
		}
		if raw, merr := json.Marshal(v); merr == nil {
			if serr := q.store.Set(shared, entry, raw, q.ttl); serr != nil {
				q.logger.Warn("cache set failed", "key", key, "error", serr)
			}
		}
		return v, nil
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return res.(T), nil
}

func (q *QueryCache) hit(name string) {
	if q.stats != nil {
		q.stats.Hit(name)
	}
}

func (q *QueryCache) miss(name string) {
	if q.stats != nil {
		q.stats.Miss(name)
	}
}
