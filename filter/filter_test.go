package filter

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/s0up4200/moviedeck/movie"
)

var fixedNow = time.Date(2024, time.May, 10, 12, 0, 0, 0, time.UTC)

func testRecord() movie.Record {
	return movie.Record{
		ID:          1,
		Title:       "Star Quest",
		Overview:    "A voyage.",
		PosterPath:  "/quest.jpg",
		ReleaseDate: "2024-05-01",
		Popularity:  60,
		VoteAverage: 7.5,
		VoteCount:   120,
	}
}

func TestCompileFilter(t *testing.T) {
	tests := []struct {
		name        string
		expression  string
		wantErr     bool
		errContains string
	}{
		{name: "valid expression", expression: `Popularity > 50`},
		{name: "empty expression", expression: "  ", wantErr: true, errContains: "empty expression"},
		{name: "invalid syntax", expression: `icontains(Title, "unclosed`, wantErr: true},
		{name: "unknown field", expression: `Rating > 7`, wantErr: true},
		{name: "non-boolean result", expression: `Popularity + 1`, wantErr: true},
		{name: "complex expression", expression: `icontains(Title, "star") and year() >= 2024 and VoteAverage > 7.0`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := CompileFilter(tt.expression)
			if tt.wantErr {
				require.Error(t, err)
				var compErr *CompilationError
				assert.True(t, errors.As(err, &compErr))
				if tt.errContains != "" {
					assert.Contains(t, err.Error(), tt.errContains)
				}
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, f)
		})
	}
}

func TestFilterEvaluation(t *testing.T) {
	compiler := NewExprCompiler(WithClock(func() time.Time { return fixedNow }))
	record := testRecord()
	undated := movie.Record{ID: 2, Title: "Untitled"}

	tests := []struct {
		name       string
		expression string
		record     movie.Record
		expected   bool
	}{
		{name: "numeric comparison", expression: `Popularity > 50 && VoteAverage >= 7`, record: record, expected: true},
		{name: "case-insensitive contains", expression: `icontains(Title, "star")`, record: record, expected: true},
		{name: "contains operator is case-sensitive", expression: `Title contains "star"`, record: record, expected: false},
		{name: "prefix", expression: `istartsWith(Title, "STAR")`, record: record, expected: true},
		{name: "released after", expression: `releasedAfter("2024-01-01")`, record: record, expected: true},
		{name: "released before", expression: `releasedBefore("2024-01-01")`, record: record, expected: false},
		{name: "year", expression: `year() == 2024`, record: record, expected: true},
		{name: "relative date", expression: `Released > daysAgo(30)`, record: record, expected: true},
		{name: "has poster", expression: `hasPoster()`, record: record, expected: true},
		{name: "combined negation", expression: `VoteCount >= 100 and not hasPoster()`, record: record, expected: false},
		{name: "unknown release date has no year", expression: `year() == 0`, record: undated, expected: true},
		{name: "unknown release date never matches a bound", expression: `releasedAfter("1900-01-01") or releasedBefore("2100-01-01")`, record: undated, expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := compiler.Compile(tt.expression)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, f.Evaluate(tt.record))
		})
	}
}

func TestEvaluationError(t *testing.T) {
	compiler := NewExprCompiler(WithCustomFunctions(map[string]any{
		"boom": func() (bool, error) { return false, errors.New("exploded") },
	}))

	f, err := compiler.Compile(`boom()`)
	require.NoError(t, err)

	ok, err := f.Check(testRecord())
	require.Error(t, err)
	assert.False(t, ok)

	var evalErr *EvaluationError
	require.True(t, errors.As(err, &evalErr))
	assert.Equal(t, 1, evalErr.MovieID)
	assert.Equal(t, "boom()", evalErr.Expression)

	assert.False(t, f.Evaluate(testRecord()), "failed evaluations do not match")
}

func TestCompilerCache(t *testing.T) {
	compiler := NewExprCompiler(WithCache(2))

	first, err := compiler.Compile(`Popularity > 1`)
	require.NoError(t, err)
	second, err := compiler.Compile(` Popularity > 1 `)
	require.NoError(t, err)
	assert.Same(t, first, second)
	assert.Equal(t, 1, compiler.Size())

	_, err = compiler.Compile(`Popularity > 2`)
	require.NoError(t, err)
	_, err = compiler.Compile(`Popularity > 3`)
	require.NoError(t, err)
	assert.Equal(t, 2, compiler.Size())

	compiler.Clear()
	assert.Equal(t, 0, compiler.Size())
}

func TestCompilerWithoutCache(t *testing.T) {
	compiler := NewExprCompiler()
	_, err := compiler.Compile(`Popularity > 1`)
	require.NoError(t, err)
	assert.Equal(t, 0, compiler.Size())
}

func TestLRUCacheEviction(t *testing.T) {
	c := newLRUCache[int](2)
	c.Put("a", 1)
	c.Put("b", 2)

	_, ok := c.Get("a")
	require.True(t, ok)

	c.Put("c", 3)
	_, ok = c.Get("b")
	assert.False(t, ok, "least recently used entry is evicted")

	v, ok := c.Get("a")
	assert.True(t, ok)
	assert.Equal(t, 1, v)

	c.Put("a", 10)
	v, _ = c.Get("a")
	assert.Equal(t, 10, v)
	assert.Equal(t, 2, c.Len())
}

func TestApply(t *testing.T) {
	records := []movie.Record{
		{ID: 1, Popularity: 10},
		{ID: 2, Popularity: 90},
		{ID: 3, Popularity: 55},
	}

	f, err := CompileFilter(`Popularity > 50`)
	require.NoError(t, err)

	matches := Apply(f, records)
	require.Len(t, matches, 2)
	assert.Equal(t, 2, matches[0].ID)
	assert.Equal(t, 3, matches[1].ID)
}

func TestRetain(t *testing.T) {
	store := movie.NewStore(movie.DefaultCapacity)
	for i := 1; i <= 4; i++ {
		require.NoError(t, store.Append(movie.Record{ID: i}))
	}

	removed, err := Retain(store, Func(func(r movie.Record) bool { return r.ID%2 == 0 }))
	require.NoError(t, err)
	assert.Equal(t, 2, removed)
	assert.Equal(t, 2, store.Count())
	assert.Equal(t, movie.DefaultCapacity, store.Capacity())

	_, ok := store.GetByID(1)
	assert.False(t, ok)
	_, ok = store.GetByID(4)
	assert.True(t, ok)
}
