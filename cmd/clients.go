package cmd

import (
	"context"
	"fmt"
	"sync"

	"github.com/s0up4200/moviedeck/cache"
	"github.com/s0up4200/moviedeck/movie"
	"github.com/s0up4200/moviedeck/radarr"
	"github.com/s0up4200/moviedeck/tmdb"
)

// newMovieClient builds the TMDB client, serving repeat requests from the
// response cache when it is enabled.
func newMovieClient() (*tmdb.Client, error) {
	transport, err := tmdb.NewHTTPTransport(
		cfg.TMDB.BaseURL,
		cfg.TMDB.APIKey,
		logger,
		tmdb.WithTimeout(cfg.TMDB.Timeout),
		tmdb.WithUserAgent("moviedeck/"+version),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create TMDB client: %w", err)
	}

	var getter tmdb.Getter = transport
	if cfg.Cache.Enabled {
		c, err := openCache()
		if err != nil {
			logger.Warn().Err(err).Str("path", cfg.Cache.Path).Msg("Response cache unavailable, caching in memory for this session")
			c = cache.NewMemoryCache()
		}
		getter = tmdb.NewCachedTransport(transport, c, cfg.Cache.TTL, logger)
	}

	return tmdb.NewClient(getter, cfg.TMDB.PageSize, logger), nil
}

// openCache opens the response cache once per process
func openCache() (cache.Cache, error) {
	if responseCache != nil {
		return responseCache, nil
	}

	c, err := cache.NewBoltCache(cfg.Cache.Path)
	if err != nil {
		return nil, err
	}
	responseCache = c

	logger.Debug().Str("path", cfg.Cache.Path).Msg("Opened response cache")
	return responseCache, nil
}

// newLibraryClient returns nil without error when Radarr is disabled
func newLibraryClient() (*radarr.Client, error) {
	if !cfg.Radarr.Enabled {
		return nil, nil
	}
	return radarr.NewClient(cfg.Radarr.URL, cfg.Radarr.APIKey, cfg.Radarr.Timeout, logger)
}

// lazySource defers building the TMDB client until the first request, so
// the interactive menu can load and save files without an API key.
type lazySource struct {
	once   sync.Once
	client *tmdb.Client
	err    error
}

func (s *lazySource) get() (*tmdb.Client, error) {
	s.once.Do(func() {
		s.client, s.err = newMovieClient()
	})
	return s.client, s.err
}

func (s *lazySource) SearchMovies(ctx context.Context, store *movie.Store, title string) (int, error) {
	client, err := s.get()
	if err != nil {
		return 0, err
	}
	return client.SearchMovies(ctx, store, title)
}

func (s *lazySource) UpcomingMovies(ctx context.Context, store *movie.Store, page int) (int, error) {
	client, err := s.get()
	if err != nil {
		return 0, err
	}
	return client.UpcomingMovies(ctx, store, page)
}
