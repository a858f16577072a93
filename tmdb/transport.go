package tmdb

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Getter fetches a response body for an API path and query parameters.
type Getter interface {
	Get(ctx context.Context, path string, params url.Values) ([]byte, error)
}

// HTTPTransport is a Getter backed by net/http that authenticates every
// request with the TMDB api_key query parameter.
type HTTPTransport struct {
	baseURL    string
	apiKey     string
	userAgent  string
	httpClient *http.Client
	logger     zerolog.Logger
}

// NewHTTPTransport creates a new TMDB transport
func NewHTTPTransport(baseURL, apiKey string, logger zerolog.Logger, opts ...Option) (*HTTPTransport, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("%w: base URL is required", ErrInvalidConfig)
	}
	if apiKey == "" {
		return nil, ErrMissingAPIKey
	}

	t := &HTTPTransport{
		baseURL:   strings.TrimRight(baseURL, "/"),
		apiKey:    apiKey,
		userAgent: "moviedeck",
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: logger,
	}

	for _, opt := range opts {
		opt(t)
	}

	return t, nil
}

// Get performs an authenticated GET request and returns the body
func (t *HTTPTransport) Get(ctx context.Context, path string, params url.Values) ([]byte, error) {
	query := url.Values{}
	for k, v := range params {
		query[k] = v
	}
	query.Set("api_key", t.apiKey)

	requestURL := fmt.Sprintf("%s%s?%s", t.baseURL, path, query.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", t.userAgent)

	t.logger.Debug().Str("path", path).Str("query", params.Encode()).Msg("Making TMDB API request")

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &APIError{
			StatusCode: resp.StatusCode,
			Message:    http.StatusText(resp.StatusCode),
			Body:       string(body),
		}
	}

	return body, nil
}
