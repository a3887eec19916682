package openstreetmap

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"sunweather/internal/providers"
)

// API Docs: https://nominatim.org/release-docs/develop/api/Reverse/
// Sample request: https://nominatim.openstreetmap.org/reverse?lat=32.7252&lon=-97.3205&format=json
const (
	providerName = "openstreetmap"
	opReverse    = "reverse geocode"

	// Nominatim's usage policy requires an identifying user agent
	userAgent = "sunweather/1.0"
)

type Client struct {
	httpClient *http.Client
	baseURL    string
	timeout    time.Duration
	logger     *slog.Logger
}

func NewClient(baseURL string, timeout time.Duration, logger *slog.Logger) *Client {
	return &Client{
		httpClient: &http.Client{},
		baseURL:    baseURL,
		timeout:    timeout,
		logger:     logger.With("component", "openstreetmap-client"),
	}
}

// Lookup reverse geocodes a coordinate to the nearest named place.
func (c *Client) Lookup(ctx context.Context, latitude, longitude float64) (*LookupAPIResponse, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return nil, providers.NewUpstreamError(providerName, opReverse, 0, fmt.Errorf("failed to parse base URL: %w", err))
	}

	u = u.JoinPath("reverse")
	q := u.Query()
	q.Set("lat", strconv.FormatFloat(latitude, 'f', -1, 64))
	q.Set("lon", strconv.FormatFloat(longitude, 'f', -1, 64))
	q.Set("format", "json")
	q.Set("zoom", "10") // city level
	u.RawQuery = q.Encode()

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, providers.NewUpstreamError(providerName, opReverse, 0, fmt.Errorf("failed to build request: %w", err))
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, providers.NewUpstreamError(providerName, opReverse, 0, fmt.Errorf("failed to fetch: %w", err))
	}
	defer func(Body io.ReadCloser) {
		_ = Body.Close()
	}(resp.Body)

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, providers.NewUpstreamError(providerName, opReverse, resp.StatusCode, fmt.Errorf("fetch returned status %d: %s", resp.StatusCode, string(body)))
	}

	// Parse the JSON response
	var apiResp LookupAPIResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return nil, providers.NewUpstreamError(providerName, opReverse, resp.StatusCode, fmt.Errorf("failed to decode response: %w", err))
	}
	if apiResp.Error != "" {
		return nil, providers.NewUpstreamError(providerName, opReverse, resp.StatusCode, fmt.Errorf("lookup failed: %s", apiResp.Error))
	}

	c.logger.Debug("reverse geocoded location", "display_name", apiResp.DisplayName)

	return &apiResp, nil
}
