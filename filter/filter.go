// Package filter selects movie records with expr-lang expressions such as
//
//	Popularity > 50 && VoteAverage >= 7
//	icontains(Title, "star") and releasedAfter("2024-01-01")
//
// Record fields are exposed by name (ID, Title, Overview, PosterPath,
// ReleaseDate, Released, Popularity, VoteAverage, VoteCount). Helpers:
// icontains, istartsWith, iendsWith, parseDate, daysAgo, yearsAgo, year,
// releasedAfter, releasedBefore and hasPoster. The language builtins
// (lower, upper, now, len, ...) and operators (contains, startsWith,
// matches, in) are available as usual.
package filter

import (
	"github.com/s0up4200/moviedeck/movie"
)

// Apply returns the records that match f, in order
func Apply(f Filter, records []movie.Record) []movie.Record {
	matches := make([]movie.Record, 0, len(records))
	for _, r := range records {
		if f.Evaluate(r) {
			matches = append(matches, r)
		}
	}
	return matches
}

// Retain keeps only the records in store that match f and returns how many
// were removed. The store's capacity is unchanged.
func Retain(store *movie.Store, f Filter) (int, error) {
	records := store.Records()
	matches := Apply(f, records)

	store.Clear()
	for _, r := range matches {
		if err := store.Append(r); err != nil {
			return 0, err
		}
	}

	return len(records) - len(matches), nil
}

// Func adapts a plain predicate to Filter
type Func func(movie.Record) bool

// Evaluate calls f
func (f Func) Evaluate(record movie.Record) bool {
	return f(record)
}
