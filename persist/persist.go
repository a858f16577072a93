// Package persist saves and loads a movie store as a JSON document of the
// form {"count": n, "movies": [...]}.
package persist

import (
	"encoding/json"
	"errors"
	"io"
	"os"

	"github.com/s0up4200/moviedeck/movie"
)

// Default file names used by the interactive menu
const (
	DefaultLoadFile = "data.json"
	DefaultSaveFile = "output.json"
)

// movieJSON is the on-disk form of a record. Field names are part of the
// file format.
type movieJSON struct {
	ID          int     `json:"id"`
	Overview    string  `json:"overview"`
	Popularity  float64 `json:"popularity"`
	PosterPath  string  `json:"poster_path"`
	ReleaseDate string  `json:"release_date"`
	Title       string  `json:"title"`
	VoteAverage float64 `json:"vote_average"`
	VoteCount   int     `json:"vote_count"`
}

type documentJSON struct {
	Count  int         `json:"count"`
	Movies []movieJSON `json:"movies"`
}

// strictMovieJSON detects missing and null fields on load
type strictMovieJSON struct {
	ID          *int     `json:"id"`
	Overview    *string  `json:"overview"`
	Popularity  *float64 `json:"popularity"`
	PosterPath  *string  `json:"poster_path"`
	ReleaseDate *string  `json:"release_date"`
	Title       *string  `json:"title"`
	VoteAverage *float64 `json:"vote_average"`
	VoteCount   *int     `json:"vote_count"`
}

type strictDocumentJSON struct {
	Count  json.RawMessage   `json:"count"`
	Movies []json.RawMessage `json:"movies"`
}

// Encode writes the records in [0, count) as an indented document
func Encode(w io.Writer, store *movie.Store) error {
	records := store.Records()
	doc := documentJSON{
		Count:  len(records),
		Movies: make([]movieJSON, 0, len(records)),
	}
	for _, r := range records {
		doc.Movies = append(doc.Movies, movieJSON{
			ID:          r.ID,
			Overview:    r.Overview,
			Popularity:  r.Popularity,
			PosterPath:  r.PosterPath,
			ReleaseDate: r.ReleaseDate,
			Title:       r.Title,
			VoteAverage: r.VoteAverage,
			VoteCount:   r.VoteCount,
		})
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "    ")
	return enc.Encode(doc)
}

// Save writes the store to path, replacing any existing file
func Save(store *movie.Store, path string) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return &IOError{Op: "save", Path: path, Err: err}
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = &IOError{Op: "close", Path: path, Err: cerr}
		}
	}()

	if err := Encode(f, store); err != nil {
		return &IOError{Op: "write", Path: path, Err: err}
	}
	return nil
}

// Load reads the document at path into a new store sized to the number of
// movies it holds.
func Load(path string) (*movie.Store, error) {
	store := movie.NewStore(0)
	if err := LoadInto(store, path); err != nil {
		return nil, err
	}
	return store, nil
}

// LoadInto replaces the contents of store with the document at path.
//
// The store is cleared and resized to fit before any record is decoded.
// Decoding stops at the first malformed movie; records decoded before it
// stay in the store.
func LoadInto(store *movie.Store, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return &IOError{Op: "open", Path: path, Err: err}
	}
	defer f.Close()

	return Decode(f, store)
}

// Decode reads one document from r into store. The document's count field
// is informational; the store's count is the number of movies read.
func Decode(r io.Reader, store *movie.Store) error {
	var doc strictDocumentJSON
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		var syntaxErr *json.SyntaxError
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &syntaxErr) || errors.As(err, &typeErr) || errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, io.EOF) {
			return &ParseError{Index: -1, Reason: "invalid document", Err: err}
		}
		return &IOError{Op: "read", Path: "", Err: err}
	}
	if doc.Movies == nil {
		return &ParseError{Index: -1, Field: "movies", Reason: "movies array is missing"}
	}

	store.Clear()
	if err := store.Resize(len(doc.Movies)); err != nil {
		return err
	}

	for i, raw := range doc.Movies {
		record, err := decodeMovie(i, raw)
		if err != nil {
			return err
		}
		if err := store.Append(record); err != nil {
			return err
		}
	}

	return store.SetCount(len(doc.Movies))
}

func decodeMovie(index int, raw json.RawMessage) (movie.Record, error) {
	var m strictMovieJSON
	if err := json.Unmarshal(raw, &m); err != nil {
		field := ""
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			field = typeErr.Field
		}
		return movie.Record{}, &ParseError{Index: index, Field: field, Reason: "wrong field type", Err: err}
	}

	missing := func(field string) error {
		return &ParseError{Index: index, Field: field, Reason: "required field is missing"}
	}

	switch {
	case m.ID == nil:
		return movie.Record{}, missing("id")
	case m.Overview == nil:
		return movie.Record{}, missing("overview")
	case m.Popularity == nil:
		return movie.Record{}, missing("popularity")
	case m.PosterPath == nil:
		return movie.Record{}, missing("poster_path")
	case m.ReleaseDate == nil:
		return movie.Record{}, missing("release_date")
	case m.Title == nil:
		return movie.Record{}, missing("title")
	case m.VoteAverage == nil:
		return movie.Record{}, missing("vote_average")
	case m.VoteCount == nil:
		return movie.Record{}, missing("vote_count")
	}

	return movie.Record{
		ID:          *m.ID,
		Overview:    *m.Overview,
		Popularity:  *m.Popularity,
		PosterPath:  *m.PosterPath,
		ReleaseDate: *m.ReleaseDate,
		Title:       *m.Title,
		VoteAverage: *m.VoteAverage,
		VoteCount:   *m.VoteCount,
	}, nil
}
