// Package cache stores TMDB response bodies keyed by request.
package cache

import (
	"net/url"
	"time"
)

// DefaultTTL is how long a cached response is served before refetching
const DefaultTTL = time.Hour

// Cache defines the interface for caching TMDB responses.
type Cache interface {
	// Get retrieves data from the cache by key.
	// Returns the data and true if found and not expired, otherwise nil and false.
	Get(key string) ([]byte, bool)

	// Set stores data in the cache with the given key and TTL.
	Set(key string, data []byte, ttl time.Duration) error

	// Clear removes all entries from the cache.
	Clear() error

	// Close closes the cache and releases resources.
	Close() error
}

// Key builds a cache key from an API path and its query parameters.
// Parameters are encoded in sorted order so equal requests share a key.
func Key(path string, params url.Values) string {
	if len(params) == 0 {
		return path
	}
	return path + "?" + params.Encode()
}
