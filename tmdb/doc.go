// Package tmdb fetches movie batches from The Movie Database API.
//
// Requests go through a Getter, a small transport capability that returns a
// response body for a path and query parameters. HTTPTransport is the
// net/http implementation; CachedTransport decorates any Getter with a
// response cache. Client resets a movie.Store to its page size before each
// call and ingests the body with Ingest.
//
// # Usage
//
//	transport, err := tmdb.NewHTTPTransport(
//		"https://api.themoviedb.org",
//		apiKey,
//		logger,
//		tmdb.WithTimeout(30*time.Second),
//	)
//	if err != nil {
//		return err
//	}
//
//	client := tmdb.NewClient(transport, movie.DefaultCapacity, logger)
//	store := movie.NewStore(movie.DefaultCapacity)
//	if _, err := client.UpcomingMovies(ctx, store, 1); err != nil {
//		return err
//	}
//
// # Error Handling
//
//   - ErrMissingAPIKey: no API key configured
//   - ParseError: the body is not valid JSON or a results element is
//     malformed (matches ErrParse with errors.Is)
//   - APIError: non-2xx response, with IsNotFound and IsUnauthorized
//   - movie.ErrCapacityExceeded: more results than the page size
//
// Ingestion keeps records appended before a failure.
package tmdb
