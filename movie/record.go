// Package movie holds the in-memory model of a page of movie results: the
// record type, the fixed-capacity store that owns the records, the
// comparison sort over it and the table formatter that renders it.
package movie

// Record is one movie's metadata as fetched from TMDB or loaded from a file.
type Record struct {
	ID          int
	Title       string
	Overview    string
	PosterPath  string
	ReleaseDate string
	Popularity  float64
	VoteAverage float64
	VoteCount   int
}
