package openelevation

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"medi-skimap/internal/metrics"
	"medi-skimap/internal/types"
)

// API Docs: https://github.com/Jorl17/open-elevation/blob/master/docs/api.md
// Sample request: POST https://api.open-elevation.com/api/v1/lookup {"locations":[{"latitude":47.05,"longitude":10.05}]}
const (
	baseLookupURL  = "https://api.open-elevation.com/api/v1/lookup"
	defaultTimeout = 60 * time.Second
	serviceName    = "open-elevation"
)

// Options overrides client defaults. Zero fields keep the default.
type Options struct {
	BaseURL string
	Timeout time.Duration
}

type Client struct {
	httpClient *http.Client
	baseURL    string
	logger     *slog.Logger
}

func NewClient(logger *slog.Logger) *Client {
	return NewClientWithOptions(logger, Options{})
}

func NewClientWithOptions(logger *slog.Logger, opts Options) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: defaultTimeout},
		baseURL:    baseLookupURL,
		logger:     logger.With("component", "openelevation-client"),
	}
	if opts.BaseURL != "" {
		c.baseURL = opts.BaseURL
	}
	if opts.Timeout > 0 {
		c.httpClient.Timeout = opts.Timeout
	}
	return c
}

// Lookup requests elevations for all locations in a single batched call.
func (c *Client) Lookup(ctx context.Context, locations []Location) (*LookupAPIResponse, error) {
	resp, err := c.lookup(ctx, locations)
	metrics.ObserveUpstream(serviceName, err)
	return resp, err
}

func (c *Client) lookup(ctx context.Context, locations []Location) (*LookupAPIResponse, error) {
	payload, err := json.Marshal(LookupAPIRequest{Locations: locations})
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	c.logger.Debug("fetching elevation data",
		"locations", len(locations),
		"url", c.baseURL,
	)

	// Make the HTTP request
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("failed to fetch elevation data",
			"locations", len(locations),
			"error", err,
		)
		return nil, &types.UpstreamError{Service: serviceName, Reason: "request failed", Err: err}
	}
	defer func(Body io.ReadCloser) {
		_ = Body.Close()
	}(resp.Body)

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		c.logger.Error("elevation API returned error",
			"status_code", resp.StatusCode,
			"response_body", string(body),
		)
		return nil, &types.UpstreamError{Service: serviceName, StatusCode: resp.StatusCode, Reason: string(body)}
	}

	// Parse the JSON response
	var apiResp LookupAPIResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		c.logger.Error("failed to decode elevation response", "error", err)
		return nil, &types.UpstreamError{Service: serviceName, Reason: "failed to decode response", Err: err}
	}

	c.logger.Debug("successfully fetched elevation data",
		"results", len(apiResp.Results),
	)

	return &apiResp, nil
}
