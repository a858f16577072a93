package tmdb

import (
	"context"
	"net/url"
	"time"

	"github.com/rs/zerolog"

	"github.com/s0up4200/moviedeck/cache"
)

// CachedTransport serves repeated requests from a response cache and
// stores fresh bodies on a miss. Failed requests are never cached.
type CachedTransport struct {
	next   Getter
	cache  cache.Cache
	ttl    time.Duration
	logger zerolog.Logger
}

// NewCachedTransport wraps next with c. A non-positive ttl uses cache.DefaultTTL.
func NewCachedTransport(next Getter, c cache.Cache, ttl time.Duration, logger zerolog.Logger) *CachedTransport {
	if ttl <= 0 {
		ttl = cache.DefaultTTL
	}
	return &CachedTransport{
		next:   next,
		cache:  c,
		ttl:    ttl,
		logger: logger,
	}
}

// Get returns a cached body when available, otherwise delegates to next
func (t *CachedTransport) Get(ctx context.Context, path string, params url.Values) ([]byte, error) {
	key := cache.Key(path, params)

	if body, ok := t.cache.Get(key); ok {
		t.logger.Debug().Str("key", key).Msg("Serving TMDB response from cache")
		return body, nil
	}

	body, err := t.next.Get(ctx, path, params)
	if err != nil {
		return nil, err
	}

	if err := t.cache.Set(key, body, t.ttl); err != nil {
		t.logger.Warn().Err(err).Str("key", key).Msg("Failed to cache TMDB response")
	}

	return body, nil
}
