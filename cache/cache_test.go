package cache

import (
	"net/url"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClock is a controllable time source for expiry tests
type fakeClock struct {
	t time.Time
}

func (c *fakeClock) Now() time.Time { return c.t }

func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func TestKey(t *testing.T) {
	assert.Equal(t, "/3/movie/upcoming", Key("/3/movie/upcoming", nil))

	a := url.Values{}
	a.Set("query", "alien")
	a.Set("page", "2")
	b := url.Values{}
	b.Set("page", "2")
	b.Set("query", "alien")

	assert.Equal(t, Key("/3/search/movie", a), Key("/3/search/movie", b))
	assert.Equal(t, "/3/search/movie?page=2&query=alien", Key("/3/search/movie", a))
}

func newCaches(t *testing.T, clock *fakeClock) map[string]Cache {
	t.Helper()

	mem := NewMemoryCache()
	mem.now = clock.Now

	bolt, err := NewBoltCache(filepath.Join(t.TempDir(), "cache", "responses.db"))
	require.NoError(t, err)
	bolt.now = clock.Now
	t.Cleanup(func() { bolt.Close() })

	return map[string]Cache{"memory": mem, "bolt": bolt}
}

func TestCache_SetGet(t *testing.T) {
	clock := &fakeClock{t: time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)}

	for name, c := range newCaches(t, clock) {
		t.Run(name, func(t *testing.T) {
			_, ok := c.Get("missing")
			assert.False(t, ok)

			body := []byte(`{"results":[]}`)
			require.NoError(t, c.Set("k", body, time.Minute))

			got, ok := c.Get("k")
			require.True(t, ok)
			assert.Equal(t, body, got)

			// Returned slices are copies
			got[0] = 'X'
			again, _ := c.Get("k")
			assert.Equal(t, body, again)
		})
	}
}

func TestCache_Expiry(t *testing.T) {
	clock := &fakeClock{t: time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)}

	for name, c := range newCaches(t, clock) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, c.Set("k", []byte("v1"), time.Minute))

			clock.Advance(59 * time.Second)
			_, ok := c.Get("k")
			assert.True(t, ok)

			clock.Advance(time.Second)
			_, ok = c.Get("k")
			assert.False(t, ok, "entry must expire at its deadline")

			require.NoError(t, c.Set("k", []byte("v2"), time.Minute))
			got, ok := c.Get("k")
			require.True(t, ok)
			assert.Equal(t, []byte("v2"), got)
		})
	}
}

func TestCache_Clear(t *testing.T) {
	clock := &fakeClock{t: time.Now()}

	for name, c := range newCaches(t, clock) {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, c.Set("a", []byte("1"), time.Hour))
			require.NoError(t, c.Set("b", []byte("2"), time.Hour))

			require.NoError(t, c.Clear())

			_, ok := c.Get("a")
			assert.False(t, ok)
			_, ok = c.Get("b")
			assert.False(t, ok)

			require.NoError(t, c.Set("a", []byte("3"), time.Hour))
			_, ok = c.Get("a")
			assert.True(t, ok)
		})
	}
}

func TestBoltCache_Persists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "responses.db")

	c, err := NewBoltCache(path)
	require.NoError(t, err)
	require.NoError(t, c.Set("k", []byte("body"), time.Hour))
	require.NoError(t, c.Close())

	reopened, err := NewBoltCache(path)
	require.NoError(t, err)
	defer reopened.Close()

	got, ok := reopened.Get("k")
	require.True(t, ok)
	assert.Equal(t, []byte("body"), got)
}
