package sunrisesunset

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

// API Docs: https://sunrise-sunset.org/api
// Sample request: https://api.sunrise-sunset.org/json?lat=32.7252&lng=-97.3205&formatted=0
const (
	providerName = "sunrisesunset"
	opSunTimes   = "get sun times"

	statusOK = "OK"
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
		logger:     logger.With("component", "sunrisesunset-client"),
	}
}

// GetSunTimes fetches today's sun times with ISO 8601 UTC timestamps.
func (c *Client) GetSunTimes(ctx context.Context, latitude, longitude float64) (*SunTimesAPIResponse, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return nil, providers.NewUpstreamError(providerName, opSunTimes, 0, fmt.Errorf("failed to parse base URL: %w", err))
	}

	u = u.JoinPath("json")
	q := u.Query()
	q.Set("lat", strconv.FormatFloat(latitude, 'f', -1, 64))
	q.Set("lng", strconv.FormatFloat(longitude, 'f', -1, 64))
	q.Set("formatted", "0")
	u.RawQuery = q.Encode()

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, providers.NewUpstreamError(providerName, opSunTimes, 0, fmt.Errorf("failed to build request: %w", err))
	}

	c.logger.Debug("fetching sun times", "url", u.String())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("failed to fetch sun times", "error", err)
		return nil, providers.NewUpstreamError(providerName, opSunTimes, 0, fmt.Errorf("failed to fetch: %w", err))
	}
	defer func(Body io.ReadCloser) {
		_ = Body.Close()
	}(resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(resp.Body)
		c.logger.Error("sun times API returned error",
			"status_code", resp.StatusCode,
			"response_body", string(body),
		)
		return nil, providers.NewUpstreamError(providerName, opSunTimes, resp.StatusCode, fmt.Errorf("fetch returned status %d: %s", resp.StatusCode, string(body)))
	}

	// Parse the JSON response
	var apiResp SunTimesAPIResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		c.logger.Error("failed to decode sun times response", "error", err)
		return nil, providers.NewUpstreamError(providerName, opSunTimes, resp.StatusCode, fmt.Errorf("failed to decode response: %w", err))
	}

	// The API reports bad input with a 400 or, on older deployments, a 200 and a non-OK status
	if apiResp.Status != statusOK {
		return nil, providers.NewUpstreamError(providerName, opSunTimes, resp.StatusCode, fmt.Errorf("response status %q", apiResp.Status))
	}

	c.logger.Debug("successfully fetched sun times",
		"sunrise", apiResp.Results.Sunrise,
		"sunset", apiResp.Results.Sunset,
	)

	return &apiResp, nil
}
