package tmdb

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/s0up4200/moviedeck/movie"
)

// API paths
const (
	SearchMoviePath   = "/3/search/movie"
	UpcomingMoviePath = "/3/movie/upcoming"
)

// DefaultImageBaseURL is where TMDB serves full-size poster images
const DefaultImageBaseURL = "https://image.tmdb.org/t/p/original/"

// Client fetches movie batches into a record store
type Client struct {
	getter   Getter
	pageSize int
	logger   zerolog.Logger
}

// NewClient creates a client over any Getter. pageSize is the capacity the
// store is reset to before each batch.
func NewClient(getter Getter, pageSize int, logger zerolog.Logger) *Client {
	if pageSize <= 0 {
		pageSize = movie.DefaultCapacity
	}
	return &Client{
		getter:   getter,
		pageSize: pageSize,
		logger:   logger,
	}
}

// SearchMovies replaces the store contents with the movies matching title
func (c *Client) SearchMovies(ctx context.Context, store *movie.Store, title string) (int, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return 0, fmt.Errorf("search title is required")
	}

	params := url.Values{}
	params.Set("query", title)

	n, err := c.fetch(ctx, store, SearchMoviePath, params)
	if err != nil {
		return n, fmt.Errorf("failed to search movies: %w", err)
	}

	c.logger.Debug().Str("query", title).Int("count", n).Msg("Retrieved search results from TMDB")
	return n, nil
}

// UpcomingMovies replaces the store contents with one page of upcoming movies.
// Pages below 1 are clamped to 1.
func (c *Client) UpcomingMovies(ctx context.Context, store *movie.Store, page int) (int, error) {
	if page < 1 {
		page = 1
	}

	params := url.Values{}
	params.Set("page", strconv.Itoa(page))

	n, err := c.fetch(ctx, store, UpcomingMoviePath, params)
	if err != nil {
		return n, fmt.Errorf("failed to get upcoming movies: %w", err)
	}

	c.logger.Debug().Int("page", page).Int("count", n).Msg("Retrieved upcoming movies from TMDB")
	return n, nil
}

// fetch resets the store, performs the request and ingests the body
func (c *Client) fetch(ctx context.Context, store *movie.Store, path string, params url.Values) (int, error) {
	if err := store.Reset(c.pageSize); err != nil {
		return 0, err
	}

	body, err := c.getter.Get(ctx, path, params)
	if err != nil {
		return 0, err
	}

	return Ingest(store, body)
}

// PosterURL joins an image base URL and a poster path
func PosterURL(imageBaseURL, posterPath string) string {
	if imageBaseURL == "" {
		imageBaseURL = DefaultImageBaseURL
	}
	return strings.TrimRight(imageBaseURL, "/") + "/" + strings.TrimLeft(posterPath, "/")
}
