package radarr

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golift.io/starr/radarr"
)

// mockRadarrAPI implements API for testing
type mockRadarrAPI struct {
	movies []*radarr.Movie
	err    error

	getMovieCalls int
}

func (m *mockRadarrAPI) GetMovieContext(ctx context.Context, params *radarr.GetMovie) ([]*radarr.Movie, error) {
	m.getMovieCalls++
	return m.movies, m.err
}

func (m *mockRadarrAPI) Ping() error {
	return nil
}

func libraryFixture() []*radarr.Movie {
	return []*radarr.Movie{
		{ID: 1, TmdbID: 603, Title: "The Matrix", Year: 1999, HasFile: true, Monitored: true},
		{ID: 2, TmdbID: 27205, Title: "Inception", Year: 2010},
		{ID: 3, Title: "No TMDB id"},
		nil,
	}
}

func TestClient_Library_Caching(t *testing.T) {
	mockAPI := &mockRadarrAPI{movies: libraryFixture()}
	client := NewClientWithAPI(mockAPI, zerolog.Nop())

	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	client.now = func() time.Time { return now }
	client.cacheTTL = time.Minute

	ctx := context.Background()

	library, err := client.Library(ctx)
	require.NoError(t, err)
	assert.Len(t, library, 2)
	assert.Equal(t, 1, mockAPI.getMovieCalls)

	_, err = client.Library(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, mockAPI.getMovieCalls, "second call uses the cache")

	now = now.Add(2 * time.Minute)
	_, err = client.Library(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, mockAPI.getMovieCalls, "stale cache is refreshed")

	client.Invalidate()
	_, err = client.Library(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, mockAPI.getMovieCalls)
}

func TestClient_Owned(t *testing.T) {
	client := NewClientWithAPI(&mockRadarrAPI{movies: libraryFixture()}, zerolog.Nop())

	tests := []struct {
		name      string
		tmdbID    int
		wantOwned bool
		wantTitle string
	}{
		{name: "owned", tmdbID: 603, wantOwned: true, wantTitle: "The Matrix"},
		{name: "owned without file", tmdbID: 27205, wantOwned: true, wantTitle: "Inception"},
		{name: "not owned", tmdbID: 11, wantOwned: false},
		{name: "zero id never matches", tmdbID: 0, wantOwned: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, owned, err := client.Owned(context.Background(), tt.tmdbID)
			require.NoError(t, err)
			assert.Equal(t, tt.wantOwned, owned)
			assert.Equal(t, tt.wantTitle, m.Title)
		})
	}
}

func TestClient_LibraryError(t *testing.T) {
	client := NewClientWithAPI(&mockRadarrAPI{err: errors.New("connection refused")}, zerolog.Nop())

	_, _, err := client.Owned(context.Background(), 603)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to get movies")
}

func TestNewClient_NotConfigured(t *testing.T) {
	_, err := NewClient("", "key", time.Second, zerolog.Nop())
	assert.ErrorIs(t, err, ErrNotConfigured)

	_, err = NewClient("http://localhost:7878", "", time.Second, zerolog.Nop())
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestFormatStatus(t *testing.T) {
	assert.Equal(t, "Zodiac is not in the Radarr library\n", FormatStatus("Zodiac", LibraryMovie{}, false))

	out := FormatStatus("The Matrix", LibraryMovie{Title: "The Matrix", Year: 1999, HasFile: true, Monitored: true}, true)
	assert.Equal(t, "The Matrix is in the Radarr library as \"The Matrix\" (1999), downloaded, monitored\n", out)

	out = FormatStatus("Inception", LibraryMovie{Title: "Inception", Year: 2010}, true)
	assert.Contains(t, out, "missing file, unmonitored")
}
