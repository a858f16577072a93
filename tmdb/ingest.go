package tmdb

import (
	"encoding/json"
	"errors"

	"github.com/buger/jsonparser"

	"github.com/s0up4200/moviedeck/movie"
)

// Ingest appends one record per element of the body's "results" array to
// the store and returns how many were appended.
//
// A body without "results" is a no-op. Ingestion stops at the first
// malformed element or when the store is full; records appended before the
// failure stay in the store. The store is never grown.
func Ingest(store *movie.Store, body []byte) (int, error) {
	if !json.Valid(body) {
		return 0, &ParseError{Index: -1, Reason: "body is not valid JSON"}
	}

	results, dataType, _, err := jsonparser.Get(body, "results")
	if errors.Is(err, jsonparser.KeyPathNotFoundError) {
		return 0, nil
	}
	if err != nil {
		return 0, &ParseError{Index: -1, Field: "results", Reason: "cannot read results", Err: err}
	}
	if dataType != jsonparser.Array {
		return 0, &ParseError{Index: -1, Field: "results", Reason: "results is not an array"}
	}

	var (
		appended int
		index    int
		stopErr  error
	)

	_, err = jsonparser.ArrayEach(results, func(value []byte, dataType jsonparser.ValueType, _ int, _ error) {
		defer func() { index++ }()
		if stopErr != nil {
			return
		}
		if dataType != jsonparser.Object {
			stopErr = &ParseError{Index: index, Reason: "element is not an object"}
			return
		}

		record, err := decodeResult(index, value)
		if err != nil {
			stopErr = err
			return
		}
		if err := store.Append(record); err != nil {
			stopErr = err
			return
		}
		appended++
	})
	if stopErr != nil {
		return appended, stopErr
	}
	if err != nil {
		return appended, &ParseError{Index: -1, Field: "results", Reason: "cannot iterate results", Err: err}
	}

	return appended, nil
}

// decodeResult builds a record from one results element
func decodeResult(index int, value []byte) (movie.Record, error) {
	var (
		r   movie.Record
		err error
	)

	if r.Popularity, err = requiredFloat(index, value, "popularity"); err != nil {
		return r, err
	}
	id, err := requiredInt(index, value, "id")
	if err != nil {
		return r, err
	}
	r.ID = id
	if r.VoteAverage, err = requiredFloat(index, value, "vote_average"); err != nil {
		return r, err
	}
	if r.VoteCount, err = requiredInt(index, value, "vote_count"); err != nil {
		return r, err
	}

	if r.Overview, err = optionalString(index, value, "overview"); err != nil {
		return r, err
	}
	if r.PosterPath, err = optionalString(index, value, "poster_path"); err != nil {
		return r, err
	}
	if r.ReleaseDate, err = optionalString(index, value, "release_date"); err != nil {
		return r, err
	}
	if r.Title, err = optionalString(index, value, "title"); err != nil {
		return r, err
	}

	return r, nil
}

func requiredNumber(index int, value []byte, field string) ([]byte, error) {
	raw, dataType, _, err := jsonparser.Get(value, field)
	if errors.Is(err, jsonparser.KeyPathNotFoundError) {
		return nil, &ParseError{Index: index, Field: field, Reason: "required field is missing"}
	}
	if err != nil {
		return nil, &ParseError{Index: index, Field: field, Reason: "cannot read field", Err: err}
	}
	if dataType != jsonparser.Number {
		return nil, &ParseError{Index: index, Field: field, Reason: "expected a number, got " + dataType.String()}
	}
	return raw, nil
}

func requiredFloat(index int, value []byte, field string) (float64, error) {
	raw, err := requiredNumber(index, value, field)
	if err != nil {
		return 0, err
	}
	f, err := jsonparser.ParseFloat(raw)
	if err != nil {
		return 0, &ParseError{Index: index, Field: field, Reason: "invalid number", Err: err}
	}
	return f, nil
}

func requiredInt(index int, value []byte, field string) (int, error) {
	raw, err := requiredNumber(index, value, field)
	if err != nil {
		return 0, err
	}
	n, err := jsonparser.ParseInt(raw)
	if err != nil {
		return 0, &ParseError{Index: index, Field: field, Reason: "expected an integer", Err: err}
	}
	return int(n), nil
}

// optionalString returns "" for absent and null fields
func optionalString(index int, value []byte, field string) (string, error) {
	raw, dataType, _, err := jsonparser.Get(value, field)
	if errors.Is(err, jsonparser.KeyPathNotFoundError) || dataType == jsonparser.Null {
		return "", nil
	}
	if err != nil {
		return "", &ParseError{Index: index, Field: field, Reason: "cannot read field", Err: err}
	}
	if dataType != jsonparser.String {
		return "", &ParseError{Index: index, Field: field, Reason: "expected a string, got " + dataType.String()}
	}
	s, err := jsonparser.ParseString(raw)
	if err != nil {
		return "", &ParseError{Index: index, Field: field, Reason: "invalid string", Err: err}
	}
	return s, nil
}
