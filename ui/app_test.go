package ui

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/s0up4200/moviedeck/movie"
	"github.com/s0up4200/moviedeck/radarr"
)

// fakeSource serves fixed pages and records every request
type fakeSource struct {
	pages    map[int][]movie.Record
	queries  []string
	requests []int
	err      error
}

func newFakeSource() *fakeSource {
	return &fakeSource{
		pages: map[int][]movie.Record{
			1: {
				{ID: 11, Title: "Zodiac", Overview: "A cartoonist hunts a killer.", PosterPath: "/zodiac.jpg", Popularity: 20.5},
				{ID: 12, Title: "Amelie", Overview: "A waitress in Paris.", Popularity: 40.25},
				{ID: 13, Title: "Memento", PosterPath: "/memento.jpg", Popularity: 5},
			},
			2: {
				{ID: 21, Title: "Brazil", Popularity: 7},
			},
		},
	}
}

func (f *fakeSource) fill(store *movie.Store, records []movie.Record) (int, error) {
	if err := store.Reset(movie.DefaultCapacity); err != nil {
		return 0, err
	}
	for _, r := range records {
		if err := store.Append(r); err != nil {
			return 0, err
		}
	}
	return len(records), f.err
}

func (f *fakeSource) SearchMovies(ctx context.Context, store *movie.Store, title string) (int, error) {
	f.queries = append(f.queries, title)
	return f.fill(store, f.pages[1][:1])
}

func (f *fakeSource) UpcomingMovies(ctx context.Context, store *movie.Store, page int) (int, error) {
	f.requests = append(f.requests, page)
	return f.fill(store, f.pages[page])
}

type fakeOpener struct {
	urls []string
	err  error
}

func (o *fakeOpener) Open(url string) error {
	o.urls = append(o.urls, url)
	return o.err
}

type fakeLibrary struct {
	owned map[int]radarr.LibraryMovie
}

func (l *fakeLibrary) Owned(ctx context.Context, tmdbID int) (radarr.LibraryMovie, bool, error) {
	m, ok := l.owned[tmdbID]
	return m, ok, nil
}

type session struct {
	source *fakeSource
	opener *fakeOpener
	out    *bytes.Buffer
	app    *App
}

func newSession(t *testing.T, script string, opts ...Option) *session {
	t.Helper()
	s := &session{
		source: newFakeSource(),
		opener: &fakeOpener{},
		out:    &bytes.Buffer{},
	}
	opts = append([]Option{WithOpener(s.opener)}, opts...)
	s.app = NewApp(s.source, NewLineInput(strings.NewReader(script)), s.out, zerolog.Nop(), opts...)
	return s
}

func (s *session) run(t *testing.T) string {
	t.Helper()
	require.NoError(t, s.app.Run(context.Background()))
	return s.out.String()
}

func TestApp_Exit(t *testing.T) {
	s := newSession(t, "9\n")
	out := s.run(t)
	assert.Contains(t, out, "1. Search Movie Based on Title")
	assert.Contains(t, out, "Exiting moviedeck")
}

func TestApp_EndOfInputExits(t *testing.T) {
	s := newSession(t, "")
	out := s.run(t)
	assert.Contains(t, out, "Welcome to moviedeck")
}

func TestApp_InvalidChoice(t *testing.T) {
	s := newSession(t, "abc\n42\n9\n")
	out := s.run(t)
	assert.Equal(t, 2, strings.Count(out, "Invalid choice. Please try again."))
}

func TestApp_UpcomingPagination(t *testing.T) {
	tests := []struct {
		name      string
		script    string
		wantPages []int
	}{
		{name: "next page with j", script: "2\nj\nq\n9\n", wantPages: []int{1, 2}},
		{name: "next page with arrow", script: "2\n\x1b[B\nq\n9\n", wantPages: []int{1, 2}},
		{name: "previous page clamps to 1", script: "2\nk\nq\n9\n", wantPages: []int{1, 1}},
		{name: "forward and back", script: "2\nn\np\nq\n9\n", wantPages: []int{1, 2, 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newSession(t, tt.script)
			out := s.run(t)
			assert.Equal(t, tt.wantPages, s.source.requests)
			assert.Contains(t, out, "Page: 1 ")
		})
	}
}

func TestApp_SortVariants(t *testing.T) {
	tests := []struct {
		choice    string
		wantOrder []string
		wantLabel string
	}{
		{choice: "3", wantOrder: []string{"Amelie", "Memento", "Zodiac"}, wantLabel: "Title (Ascending)"},
		{choice: "4", wantOrder: []string{"Zodiac", "Memento", "Amelie"}, wantLabel: "Title (Descending)"},
		{choice: "5", wantOrder: []string{"Memento", "Zodiac", "Amelie"}, wantLabel: "Popularity (Ascending)"},
		{choice: "6", wantOrder: []string{"Amelie", "Zodiac", "Memento"}, wantLabel: "Popularity (Descending)"},
	}

	for _, tt := range tests {
		t.Run(tt.wantLabel, func(t *testing.T) {
			s := newSession(t, tt.choice+"\nq\n9\n")
			out := s.run(t)

			assert.Contains(t, out, "Sorting Movies By "+tt.wantLabel+"...")
			assert.Equal(t, []int{1}, s.source.requests, "sort variants refetch the page")

			last := -1
			for _, title := range tt.wantOrder {
				idx := strings.Index(out, title)
				require.NotEqual(t, -1, idx, title)
				assert.Greater(t, idx, last, "%s out of order", title)
				last = idx
			}
		})
	}
}

func TestApp_SortAppliesAcrossPages(t *testing.T) {
	s := newSession(t, "4\nj\nk\nq\n9\n")
	s.run(t)

	assert.Equal(t, []int{1, 2, 1}, s.source.requests)
	first, _ := s.app.Store().Get(0)
	assert.Equal(t, "Zodiac", first.Title, "returning to page 1 re-applies the sort")
}

func TestApp_SearchHasNoPagination(t *testing.T) {
	s := newSession(t, "1\nzodiac\nj\n9\n")
	out := s.run(t)

	assert.Equal(t, []string{"zodiac"}, s.source.queries)
	assert.Empty(t, s.source.requests)
	assert.NotContains(t, out, "for next page")
	assert.Contains(t, out, "Zodiac")
}

func TestApp_Overview(t *testing.T) {
	tests := []struct {
		name string
		id   string
		want string
	}{
		{name: "found", id: "11", want: "Overview of movie Zodiac\nA cartoonist hunts a killer.\n"},
		{name: "not found", id: "999", want: "Movie not found."},
		{name: "not a number", id: "eleven", want: `Invalid ID: "eleven"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newSession(t, "2\nr\n"+tt.id+"\nq\n9\n")
			out := s.run(t)
			assert.Contains(t, out, tt.want)
		})
	}
}

func TestApp_Poster(t *testing.T) {
	t.Run("opens poster URL", func(t *testing.T) {
		s := newSession(t, "2\nv\n11\nq\n9\n")
		out := s.run(t)
		require.Len(t, s.opener.urls, 1)
		assert.Equal(t, "https://image.tmdb.org/t/p/original/zodiac.jpg", s.opener.urls[0])
		assert.Contains(t, out, "Opening poster")
	})

	t.Run("custom image base URL", func(t *testing.T) {
		s := newSession(t, "2\nv\n13\nq\n9\n", WithImageBaseURL("https://img.example/w500/"))
		s.run(t)
		assert.Equal(t, []string{"https://img.example/w500/memento.jpg"}, s.opener.urls)
	})

	t.Run("no poster path", func(t *testing.T) {
		s := newSession(t, "2\nv\n12\nq\n9\n")
		out := s.run(t)
		assert.Empty(t, s.opener.urls)
		assert.Contains(t, out, "No poster available for Amelie")
	})

	t.Run("opener failure prints the URL", func(t *testing.T) {
		s := newSession(t, "2\nv\n11\nq\n9\n")
		s.opener.err = errors.New("no browser")
		out := s.run(t)
		assert.Contains(t, out, "Open this URL to view the poster: https://image.tmdb.org/t/p/original/zodiac.jpg")
	})
}

func TestApp_Find(t *testing.T) {
	s := newSession(t, "2\nf\nmem\nf\nxyz\nq\n9\n")
	out := s.run(t)
	assert.Contains(t, out, "Memento")
	assert.Contains(t, out, `No movie on this page matches "xyz"`)
}

func TestApp_LibraryStatus(t *testing.T) {
	library := &fakeLibrary{owned: map[int]radarr.LibraryMovie{
		11: {Title: "Zodiac", Year: 2007, HasFile: true, Monitored: true},
	}}

	s := newSession(t, "2\nl\n11\nl\n12\nq\n9\n", WithLibrary(library))
	out := s.run(t)
	assert.Contains(t, out, "Press l to check")
	assert.Contains(t, out, `Zodiac is in the Radarr library as "Zodiac" (2007), downloaded, monitored`)
	assert.Contains(t, out, "Amelie is not in the Radarr library")
}

func TestApp_LibraryKeyDisabled(t *testing.T) {
	s := newSession(t, "2\nl\n9\n")
	out := s.run(t)
	assert.NotContains(t, out, "Press l to check")
	assert.Contains(t, out, "Exiting moviedeck", "l returns to the main menu without a library")
}

func TestApp_SourceError(t *testing.T) {
	s := newSession(t, "2\n\n9\n")
	s.source.err = errors.New("tmdb unavailable")
	out := s.run(t)
	assert.Contains(t, out, "Error: tmdb unavailable")
	assert.Contains(t, out, "Zodiac", "records ingested before the failure are shown")
	assert.Contains(t, out, "Exiting moviedeck")
}

func TestApp_SaveAndLoad(t *testing.T) {
	dir := t.TempDir()
	load := filepath.Join(dir, "data.json")
	save := filepath.Join(dir, "output.json")

	s := newSession(t, "2\n\n8\n9\n", WithFiles(load, save))
	out := s.run(t)
	assert.Contains(t, out, "Data written to file: "+save)

	data, err := os.ReadFile(save)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(load, data, 0o600))

	s = newSession(t, "7\n9\n", WithFiles(load, save))
	out = s.run(t)
	assert.Contains(t, out, "Reading Data from File ("+load+")...")
	assert.Contains(t, out, "Amelie")
	assert.Equal(t, 3, s.app.Store().Count())
	assert.Equal(t, 3, s.app.Store().Capacity())
}

func TestApp_LoadMissingFile(t *testing.T) {
	s := newSession(t, "7\n9\n", WithFiles(filepath.Join(t.TempDir(), "missing.json"), ""))
	out := s.run(t)
	assert.Contains(t, out, "Error: open")
	assert.Contains(t, out, "Exiting moviedeck")
}

func TestApp_ContextCancelled(t *testing.T) {
	s := newSession(t, "9\n")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, s.app.Run(ctx), context.Canceled)
}
