package openweathermap

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"sunweather/internal/providers"
)

const samplePayload = `{
  "coord": {"lon": -97.3205, "lat": 32.7252},
  "weather": [{"id": 800, "main": "Clear", "description": "clear sky", "icon": "01d"}],
  "main": {"temp": 21.5, "feels_like": 21.1, "temp_min": 19.9, "temp_max": 23.2, "pressure": 1015, "humidity": 52},
  "name": "Fort Worth",
  "cod": 200
}`

func TestClient_GetCurrentWeather(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		body        string
		wantTemp    float64
		wantErr     bool
		wantStatus  int
		errContains string
	}{
		{
			name:     "sample payload",
			status:   http.StatusOK,
			body:     samplePayload,
			wantTemp: 21.5,
		},
		{
			name:     "integer temperature",
			status:   http.StatusOK,
			body:     `{"main":{"temp":-3}}`,
			wantTemp: -3,
		},
		{
			name:        "missing main.temp",
			status:      http.StatusOK,
			body:        `{"main":{"humidity":40}}`,
			wantErr:     true,
			wantStatus:  http.StatusOK,
			errContains: "missing main.temp",
		},
		{
			name:        "non numeric main.temp",
			status:      http.StatusOK,
			body:        `{"main":{"temp":"warm"}}`,
			wantErr:     true,
			wantStatus:  http.StatusOK,
			errContains: "not a number",
		},
		{
			name:        "invalid json",
			status:      http.StatusOK,
			body:        `{"main":`,
			wantErr:     true,
			wantStatus:  http.StatusOK,
			errContains: "invalid JSON",
		},
		{
			name:        "unauthorized",
			status:      http.StatusUnauthorized,
			body:        `{"cod":401,"message":"Invalid API key"}`,
			wantErr:     true,
			wantStatus:  http.StatusUnauthorized,
			errContains: "Invalid API key",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotQuery map[string]string
			var gotPath string
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotPath = r.URL.Path
				q := r.URL.Query()
				gotQuery = map[string]string{
					"appId": q.Get("appId"),
					"lat":   q.Get("lat"),
					"lon":   q.Get("lon"),
					"units": q.Get("units"),
				}
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			client := NewClient(server.URL, "secret", time.Second, slog.New(slog.DiscardHandler))
			got, err := client.GetCurrentWeather(context.Background(), 32.7252, -97.3205)

			if gotPath != "/data/2.5/weather" {
				t.Errorf("path = %q, want /data/2.5/weather", gotPath)
			}
			wantQuery := map[string]string{"appId": "secret", "lat": "32.7252", "lon": "-97.3205", "units": "metric"}
			for k, v := range wantQuery {
				if gotQuery[k] != v {
					t.Errorf("query %s = %q, want %q", k, gotQuery[k], v)
				}
			}

			if tt.wantErr {
				if err == nil {
					t.Fatal("GetCurrentWeather() expected error but got none")
				}
				var upstreamErr *providers.UpstreamError
				if !errors.As(err, &upstreamErr) {
					t.Fatalf("error %v is not *providers.UpstreamError", err)
				}
				if upstreamErr.StatusCode != tt.wantStatus {
					t.Errorf("StatusCode = %d, want %d", upstreamErr.StatusCode, tt.wantStatus)
				}
				if !strings.Contains(err.Error(), tt.errContains) {
					t.Errorf("error = %v, want error containing %q", err, tt.errContains)
				}
				return
			}

			if err != nil {
				t.Fatalf("GetCurrentWeather() unexpected error = %v", err)
			}
			if got.Main.Temp != tt.wantTemp {
				t.Errorf("Main.Temp = %v, want %v", got.Main.Temp, tt.wantTemp)
			}
		})
	}
}

func TestClient_GetCurrentWeather_Timeout(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer server.Close()
	defer close(release)

	client := NewClient(server.URL, "secret", 50*time.Millisecond, slog.New(slog.DiscardHandler))

	_, err := client.GetCurrentWeather(context.Background(), 32.7252, -97.3205)
	var upstreamErr *providers.UpstreamError
	if !errors.As(err, &upstreamErr) {
		t.Fatalf("error %v is not *providers.UpstreamError", err)
	}
	if !upstreamErr.Timeout() {
		t.Errorf("Timeout() = false for %v", err)
	}
}

func TestClient_GetCurrentWeather_Unreachable(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	baseURL := server.URL
	server.Close()

	client := NewClient(baseURL, "secret", time.Second, slog.New(slog.DiscardHandler))
	_, err := client.GetCurrentWeather(context.Background(), 0, 0)

	var upstreamErr *providers.UpstreamError
	if !errors.As(err, &upstreamErr) {
		t.Fatalf("error %v is not *providers.UpstreamError", err)
	}
	if upstreamErr.StatusCode != 0 {
		t.Errorf("StatusCode = %d, want 0", upstreamErr.StatusCode)
	}
}

func TestClient_GetCurrentWeather_BaseURLPrefix(t *testing.T) {
	tests := []struct {
		name   string
		prefix string
	}{
		{name: "no prefix", prefix: ""},
		{name: "gateway prefix", prefix: "/owm"},
		{name: "gateway prefix with trailing slash", prefix: "/owm/"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotPath string
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotPath = r.URL.Path
				_, _ = w.Write([]byte(samplePayload))
			}))
			defer server.Close()

			client := NewClient(server.URL+tt.prefix, "secret", time.Second, slog.New(slog.DiscardHandler))
			if _, err := client.GetCurrentWeather(context.Background(), 32.7252, -97.3205); err != nil {
				t.Fatalf("GetCurrentWeather() unexpected error = %v", err)
			}

			want := strings.TrimSuffix(tt.prefix, "/") + "/data/2.5/weather"
			if gotPath != want {
				t.Errorf("path = %q, want %q", gotPath, want)
			}
		})
	}
}
