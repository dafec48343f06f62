package openstreetmap

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"medi-skimap/internal/metrics"
	"medi-skimap/internal/types"
)

// API Docs: https://nominatim.org/release-docs/develop/api/Search/
// Sample request: https://nominatim.openstreetmap.org/search?q=Whistler+Blackcomb&format=json&limit=1
const (
	baseURL          = "https://nominatim.openstreetmap.org/search"
	defaultUserAgent = "SkiLiftMapper/1.0"
	defaultTimeout   = 30 * time.Second
	serviceName      = "nominatim"
)

// Options overrides client defaults. Zero fields keep the default.
type Options struct {
	BaseURL   string
	UserAgent string
	Timeout   time.Duration
}

type Client struct {
	httpClient *http.Client
	baseURL    string
	userAgent  string
	logger     *slog.Logger
}

func NewClient(logger *slog.Logger) *Client {
	return NewClientWithOptions(logger, Options{})
}

func NewClientWithOptions(logger *slog.Logger, opts Options) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: defaultTimeout},
		baseURL:    baseURL,
		userAgent:  defaultUserAgent,
		logger:     logger.With("component", "openstreetmap-client"),
	}
	if opts.BaseURL != "" {
		c.baseURL = opts.BaseURL
	}
	if opts.UserAgent != "" {
		c.userAgent = opts.UserAgent
	}
	if opts.Timeout > 0 {
		c.httpClient.Timeout = opts.Timeout
	}
	return c
}

// Search geocodes a free-text place name. Nominatim requires an identifying
// User-Agent, so every request carries one.
func (c *Client) Search(ctx context.Context, query string) ([]SearchAPIResponse, error) {
	results, err := c.search(ctx, query)
	metrics.ObserveUpstream(serviceName, err)
	return results, err
}

func (c *Client) search(ctx context.Context, query string) ([]SearchAPIResponse, error) {
	// Build URL with query parameters
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse base URL: %w", err)
	}

	q := u.Query()
	q.Set("q", query)
	q.Set("format", "json")
	q.Set("limit", "1")
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	c.logger.Debug("fetching Nominatim search results",
		"query", query,
		"url", u.String(),
	)

	// Make the HTTP request
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("failed to fetch Nominatim search results",
			"query", query,
			"error", err,
		)
		return nil, &types.UpstreamError{Service: serviceName, Reason: "request failed", Err: err}
	}
	defer func(Body io.ReadCloser) {
		_ = Body.Close()
	}(resp.Body)

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		c.logger.Error("Nominatim API returned error",
			"status_code", resp.StatusCode,
			"query", query,
			"response_body", string(body),
		)
		return nil, &types.UpstreamError{Service: serviceName, StatusCode: resp.StatusCode, Reason: string(body)}
	}

	// Parse the JSON response
	var apiResp []SearchAPIResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		c.logger.Error("failed to decode Nominatim response",
			"query", query,
			"error", err,
		)
		return nil, &types.UpstreamError{Service: serviceName, Reason: "failed to decode response", Err: err}
	}

	c.logger.Debug("successfully fetched Nominatim search results",
		"query", query,
		"result_count", len(apiResp),
	)

	return apiResp, nil
}
