package overpass

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"medi-skimap/internal/metrics"
	"medi-skimap/internal/types"
)

// API Docs: https://wiki.openstreetmap.org/wiki/Overpass_API
// Sample request: POST https://overpass-api.de/api/interpreter data=[out:json];way["aerialway"](47.0,10.0,47.1,10.1);out body;
const (
	baseURL         = "https://overpass-api.de/api/interpreter"
	alternateURL    = "https://overpass.kumi.systems/api/interpreter"
	defaultTimeout  = 60 * time.Second
	serviceName     = "overpass"
	htmlContentType = "text/html"
)

// Options overrides client defaults. Zero fields keep the default.
type Options struct {
	BaseURL      string
	AlternateURL string
	Timeout      time.Duration
}

type Client struct {
	httpClient   *http.Client
	baseURL      string
	alternateURL string
	timeout      time.Duration
	logger       *slog.Logger
}

func NewClient(logger *slog.Logger) *Client {
	return NewClientWithOptions(logger, Options{})
}

func NewClientWithOptions(logger *slog.Logger, opts Options) *Client {
	c := &Client{
		httpClient:   &http.Client{},
		baseURL:      baseURL,
		alternateURL: alternateURL,
		timeout:      defaultTimeout,
		logger:       logger.With("component", "overpass-client"),
	}
	if opts.BaseURL != "" {
		c.baseURL = opts.BaseURL
	}
	if opts.AlternateURL != "" {
		c.alternateURL = opts.AlternateURL
	}
	if opts.Timeout > 0 {
		c.timeout = opts.Timeout
	}
	return c
}

// Interpret runs an Overpass QL query. If the primary endpoint times out the
// query is retried once against the alternate endpoint.
func (c *Client) Interpret(ctx context.Context, query string) (*APIResponse, error) {
	resp, err := c.interpret(ctx, c.baseURL, query)
	metrics.ObserveUpstream(serviceName, err)
	if err == nil || !isTimeout(err) || ctx.Err() != nil || c.alternateURL == "" {
		return resp, err
	}

	c.logger.Warn("Overpass request timed out, retrying against alternate endpoint",
		"endpoint", c.baseURL,
		"alternate", c.alternateURL,
		"error", err,
	)
	resp, err = c.interpret(ctx, c.alternateURL, query)
	metrics.ObserveUpstream(serviceName, err)
	return resp, err
}

func (c *Client) interpret(ctx context.Context, endpoint, query string) (*APIResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	form := url.Values{}
	form.Set("data", query)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	c.logger.Debug("fetching Overpass data",
		"endpoint", endpoint,
		"query_bytes", len(query),
	)

	// Make the HTTP request
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("failed to fetch Overpass data",
			"endpoint", endpoint,
			"error", err,
		)
		return nil, &types.UpstreamError{Service: serviceName, Reason: "request failed", Err: err}
	}
	defer func(Body io.ReadCloser) {
		_ = Body.Close()
	}(resp.Body)

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		c.logger.Error("Overpass API returned error",
			"status_code", resp.StatusCode,
			"endpoint", endpoint,
			"response_body", string(body),
		)
		return nil, &types.UpstreamError{Service: serviceName, StatusCode: resp.StatusCode, Reason: string(body)}
	}

	// An overloaded server answers 200 with an HTML status page.
	if ct := resp.Header.Get("Content-Type"); strings.Contains(strings.ToLower(ct), htmlContentType) {
		c.logger.Error("Overpass API returned HTML instead of OSM data",
			"endpoint", endpoint,
			"content_type", ct,
		)
		return nil, &types.UpstreamError{
			Service:    serviceName,
			StatusCode: resp.StatusCode,
			Reason:     "returned HTML instead of OSM data, the API might be overloaded",
		}
	}

	// Parse the JSON response
	var apiResp APIResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		c.logger.Error("failed to decode Overpass response",
			"endpoint", endpoint,
			"error", err,
		)
		return nil, &types.UpstreamError{Service: serviceName, Reason: "failed to decode response", Err: err}
	}

	c.logger.Debug("successfully fetched Overpass data",
		"endpoint", endpoint,
		"element_count", len(apiResp.Elements),
	)

	return &apiResp, nil
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
