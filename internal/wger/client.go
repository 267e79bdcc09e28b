package wger

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// CatalogFetcher defines the interface for fetching exercise suggestions.
// This interface is implemented by *Client and can be used for testing.
type CatalogFetcher interface {
	FetchExercises(ctx context.Context) ([]Exercise, error)
}

// Ensure Client implements CatalogFetcher at compile time.
var _ CatalogFetcher = (*Client)(nil)

// Client talks to a wger-compatible exercise catalog over HTTP.
type Client struct {
	baseURL   *url.URL
	http      *http.Client
	userAgent string
	language  int
}

const (
	defaultBaseURL   = "https://wger.de/api/v2"
	defaultUserAgent = "fitterm/0.1"
	requestTimeout   = 10 * time.Second

	// fetchLimit caps how many catalog entries one fetch requests.
	fetchLimit = 50
)

// StatusError reports a non-success HTTP response from the catalog.
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("catalog returned status %d", e.Code)
}

// NewClient builds a Client for the given catalog base URL and language id.
func NewClient(baseURL string, language int) (*Client, error) {
	base, err := parseBaseURL(baseURL)
	if err != nil {
		return nil, err
	}
	return &Client{
		baseURL: base,
		http: &http.Client{
			Timeout: requestTimeout,
		},
		userAgent: defaultUserAgent,
		language:  language,
	}, nil
}

// Language returns the catalog language id this client requests.
func (c *Client) Language() int { return c.language }

// FetchExercises issues one read-only GET for up to fetchLimit entries in the
// client's language. No retry, no caching.
func (c *Client) FetchExercises(ctx context.Context) ([]Exercise, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	values := url.Values{}
	values.Set("language", strconv.Itoa(c.language))
	values.Set("limit", strconv.Itoa(fetchLimit))

	reqURL := *c.baseURL
	reqURL.Path = c.baseURL.Path + "/exercise/"
	reqURL.RawQuery = values.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 400 {
		return nil, &StatusError{Code: resp.StatusCode}
	}

	var payload ExerciseList
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return payload.Results, nil
}

func parseBaseURL(raw string) (*url.URL, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		trimmed = defaultBaseURL
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "https://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse catalog url %q: %w", raw, err)
	}
	u.Path = strings.TrimSuffix(u.Path, "/")
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}
