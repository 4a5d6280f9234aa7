// Package api is a small client for the Pulseband wearable REST API. It
// exposes both typed endpoint accessors and a raw document accessor used by
// the drift checker.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/aviling/pulsecheck/internal/models"
	"github.com/aviling/pulsecheck/internal/parser"
)

// DefaultBaseURL is the production Pulseband API host.
const DefaultBaseURL = "https://api.pulseband.com"

// defaultTimeout bounds a single API call when no custom http.Client is
// supplied.
const defaultTimeout = 30 * time.Second

// Client talks to the Pulseband web API using a personal access token.
type Client struct {
	baseURL string
	token   string
	client  *http.Client
	logger  *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the API host, mainly for tests and staging.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(baseURL, "/")
	}
}

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		c.client = client
	}
}

// WithLogger sets the structured logger used for request debug output.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// NewClient creates a Client authenticated with token.
func NewClient(token string, opts ...Option) *Client {
	c := &Client{
		baseURL: DefaultBaseURL,
		token:   token,
		client:  &http.Client{Timeout: defaultTimeout},
		logger:  slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// APIError is returned for non-2xx responses.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	body := e.Body
	if len(body) > 200 {
		body = body[:200] + "..."
	}
	return fmt.Sprintf("api returned status %d: %s", e.StatusCode, body)
}

// Get fetches path with the given query parameters and returns the parsed
// JSON document. This is the raw form used by the drift checker; typed
// accessors live alongside in this package.
func (c *Client) Get(ctx context.Context, path string, query url.Values) (models.JSONValue, error) {
	body, err := c.get(ctx, path, query)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	value, err := parser.Parse(body)
	if err != nil {
		return nil, fmt.Errorf("parse response for %s: %w", path, err)
	}
	return value, nil
}

// getTyped fetches path and decodes the response body into out.
func (c *Client) getTyped(ctx context.Context, path string, query url.Values, out interface{}) error {
	body, err := c.get(ctx, path, query)
	if err != nil {
		return err
	}
	defer body.Close()

	if err := json.NewDecoder(body).Decode(out); err != nil {
		return fmt.Errorf("decode response for %s: %w", path, err)
	}
	return nil
}

func (c *Client) get(ctx context.Context, path string, query url.Values) (io.ReadCloser, error) {
	reqURL := c.baseURL + path
	if len(query) > 0 {
		reqURL += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/json")

	c.logger.Debug("API request", "path", path, "query", query.Encode())

	startTime := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http request failed: %w", err)
	}

	duration := time.Since(startTime)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		c.logger.Debug("API error response",
			"path", path,
			"status", resp.StatusCode,
			"duration", duration)
		return nil, &APIError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	c.logger.Debug("API response received", "path", path, "duration", duration)
	return resp.Body, nil
}
