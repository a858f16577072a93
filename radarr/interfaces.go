package radarr

import (
	"context"

	"golift.io/starr/radarr"
)

// API is the subset of the starr Radarr client used for library lookups
type API interface {
	GetMovieContext(ctx context.Context, params *radarr.GetMovie) ([]*radarr.Movie, error)
	Ping() error
}
