// Package radarr reports which TMDB movies are already in a Radarr library.
package radarr

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golift.io/starr"
	"golift.io/starr/radarr"
)

// DefaultCacheTTL is how long a fetched library index is reused
const DefaultCacheTTL = 5 * time.Minute

// ErrNotConfigured indicates a missing Radarr URL or API key
var ErrNotConfigured = errors.New("radarr URL and API key are required")

// LibraryMovie is the part of a Radarr movie shown next to TMDB records
type LibraryMovie struct {
	ID        int64
	TMDBID    int64
	Title     string
	Year      int
	HasFile   bool
	Monitored bool
	Added     time.Time
}

// Library indexes library movies by TMDB id
type Library map[int64]LibraryMovie

// Lookup returns the library entry for a TMDB id
func (l Library) Lookup(tmdbID int) (LibraryMovie, bool) {
	m, ok := l[int64(tmdbID)]
	return m, ok
}

// Client wraps the starr Radarr client with a cached library index
type Client struct {
	api      API
	logger   zerolog.Logger
	cacheTTL time.Duration
	now      func() time.Time

	mu        sync.Mutex
	library   Library
	fetchedAt time.Time
}

// NewClient creates a Radarr client and checks the connection
func NewClient(url, apiKey string, timeout time.Duration, logger zerolog.Logger) (*Client, error) {
	if url == "" || apiKey == "" {
		return nil, ErrNotConfigured
	}

	config := starr.New(apiKey, url, timeout)
	radarrClient := radarr.New(config)

	if err := radarrClient.Ping(); err != nil {
		return nil, fmt.Errorf("failed to connect to Radarr: %w", err)
	}

	return NewClientWithAPI(radarrClient, logger), nil
}

// NewClientWithAPI creates a client around an existing API implementation
func NewClientWithAPI(api API, logger zerolog.Logger) *Client {
	return &Client{
		api:      api,
		logger:   logger,
		cacheTTL: DefaultCacheTTL,
		now:      time.Now,
	}
}

// Library returns the library index, fetching it when the cached copy is stale
func (c *Client) Library(ctx context.Context) (Library, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.library != nil && c.now().Sub(c.fetchedAt) < c.cacheTTL {
		return c.library, nil
	}

	movies, err := c.api.GetMovieContext(ctx, &radarr.GetMovie{})
	if err != nil {
		return nil, fmt.Errorf("failed to get movies: %w", err)
	}

	library := make(Library, len(movies))
	for _, m := range movies {
		if m == nil || m.TmdbID == 0 {
			continue
		}
		library[m.TmdbID] = LibraryMovie{
			ID:        m.ID,
			TMDBID:    m.TmdbID,
			Title:     m.Title,
			Year:      m.Year,
			HasFile:   m.HasFile,
			Monitored: m.Monitored,
			Added:     m.Added,
		}
	}

	c.library = library
	c.fetchedAt = c.now()
	c.logger.Debug().Int("count", len(library)).Msg("Retrieved Radarr library")

	return library, nil
}

// Owned reports whether a TMDB id is in the library
func (c *Client) Owned(ctx context.Context, tmdbID int) (LibraryMovie, bool, error) {
	library, err := c.Library(ctx)
	if err != nil {
		return LibraryMovie{}, false, err
	}
	m, ok := library.Lookup(tmdbID)
	return m, ok, nil
}

// Invalidate drops the cached library index
func (c *Client) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.library = nil
}
