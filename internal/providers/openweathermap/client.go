package openweathermap

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"sunweather/internal/providers"

	"github.com/tidwall/gjson"
)

// API Docs: https://openweathermap.org/current
// Sample request: http://api.openweathermap.org/data/2.5/weather?appId=KEY&lat=32.7252&lon=-97.3205&units=metric
const (
	providerName = "openweathermap"
	opCurrent    = "get current weather"
)

type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	timeout    time.Duration
	logger     *slog.Logger
}

func NewClient(baseURL, apiKey string, timeout time.Duration, logger *slog.Logger) *Client {
	return &Client{
		httpClient: &http.Client{},
		baseURL:    baseURL,
		apiKey:     apiKey,
		timeout:    timeout,
		logger:     logger.With("component", "openweathermap-client"),
	}
}

// GetCurrentWeather fetches current conditions in metric units. Every
// failure, including a body without a numeric main.temp, is returned as a
// *providers.UpstreamError.
func (c *Client) GetCurrentWeather(ctx context.Context, latitude, longitude float64) (*CurrentWeatherAPIResponse, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return nil, providers.NewUpstreamError(providerName, opCurrent, 0, fmt.Errorf("failed to parse base URL: %w", err))
	}

	u = u.JoinPath("data/2.5/weather")
	q := u.Query()
	q.Set("appId", c.apiKey)
	q.Set("lat", strconv.FormatFloat(latitude, 'f', -1, 64))
	q.Set("lon", strconv.FormatFloat(longitude, 'f', -1, 64))
	q.Set("units", "metric")
	u.RawQuery = q.Encode()

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, providers.NewUpstreamError(providerName, opCurrent, 0, fmt.Errorf("failed to build request: %w", err))
	}

	c.logger.Debug("fetching current weather", "latitude", latitude, "longitude", longitude)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("failed to fetch current weather", "error", err)
		return nil, providers.NewUpstreamError(providerName, opCurrent, 0, fmt.Errorf("failed to fetch: %w", err))
	}
	defer func(Body io.ReadCloser) {
		_ = Body.Close()
	}(resp.Body)

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, providers.NewUpstreamError(providerName, opCurrent, resp.StatusCode, fmt.Errorf("failed to read response: %w", err))
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.logger.Error("current weather API returned error",
			"status_code", resp.StatusCode,
			"response_body", string(body),
		)
		return nil, providers.NewUpstreamError(providerName, opCurrent, resp.StatusCode, fmt.Errorf("fetch returned status %d: %s", resp.StatusCode, string(body)))
	}

	apiResp, err := parseCurrentWeather(body)
	if err != nil {
		c.logger.Error("failed to decode current weather response", "error", err)
		return nil, providers.NewUpstreamError(providerName, opCurrent, resp.StatusCode, err)
	}

	c.logger.Debug("successfully fetched current weather", "station", apiResp.Name, "temp", apiResp.Main.Temp)

	return apiResp, nil
}

// parseCurrentWeather pulls the fields we use out of the payload. Only
// main.temp is mandatory.
func parseCurrentWeather(body []byte) (*CurrentWeatherAPIResponse, error) {
	if !gjson.ValidBytes(body) {
		return nil, errors.New("failed to decode response: invalid JSON")
	}

	temp := gjson.GetBytes(body, "main.temp")
	if !temp.Exists() {
		return nil, errors.New("response is missing main.temp")
	}
	if temp.Type != gjson.Number {
		return nil, fmt.Errorf("main.temp is not a number: %s", temp.Raw)
	}

	apiResp := &CurrentWeatherAPIResponse{
		Name: gjson.GetBytes(body, "name").String(),
	}
	apiResp.Main.Temp = temp.Float()
	return apiResp, nil
}
