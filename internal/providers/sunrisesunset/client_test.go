package sunrisesunset

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
  "results": {
    "sunrise": "2024-06-01T11:02:17+00:00",
    "sunset": "2024-06-02T01:33:41+00:00",
    "solar_noon": "2024-06-01T18:17:59+00:00",
    "day_length": 52284,
    "civil_twilight_begin": "2024-06-01T10:34:30+00:00",
    "civil_twilight_end": "2024-06-02T02:01:28+00:00",
    "nautical_twilight_begin": "2024-06-01T10:00:45+00:00",
    "nautical_twilight_end": "2024-06-02T02:35:13+00:00",
    "astronomical_twilight_begin": "2024-06-01T09:23:39+00:00",
    "astronomical_twilight_end": "2024-06-02T03:12:19+00:00"
  },
  "status": "OK",
  "tzid": "UTC"
}`

func TestClient_GetSunTimes(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		body        string
		wantSunrise string
		wantSunset  string
		wantErr     bool
		errContains string
	}{
		{
			name:        "sample payload",
			status:      http.StatusOK,
			body:        samplePayload,
			wantSunrise: "2024-06-01T11:02:17+00:00",
			wantSunset:  "2024-06-02T01:33:41+00:00",
		},
		{
			name:        "invalid request status",
			status:      http.StatusOK,
			body:        `{"results":"","status":"INVALID_REQUEST"}`,
			wantErr:     true,
			errContains: "failed to decode response",
		},
		{
			name:        "non OK status with results object",
			status:      http.StatusOK,
			body:        `{"results":{},"status":"UNKNOWN_ERROR"}`,
			wantErr:     true,
			errContains: "UNKNOWN_ERROR",
		},
		{
			name:        "bad request",
			status:      http.StatusBadRequest,
			body:        `{"results":"","status":"INVALID_REQUEST"}`,
			wantErr:     true,
			errContains: "status 400",
		},
		{
			name:        "malformed json",
			status:      http.StatusOK,
			body:        `not json`,
			wantErr:     true,
			errContains: "failed to decode response",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotURL string
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotURL = r.URL.String()
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			client := NewClient(server.URL, time.Second, slog.New(slog.DiscardHandler))
			got, err := client.GetSunTimes(context.Background(), 32.7252, -97.3205)

			if want := "/json?formatted=0&lat=32.7252&lng=-97.3205"; gotURL != want {
				t.Errorf("request URL = %q, want %q", gotURL, want)
			}

			if tt.wantErr {
				if err == nil {
					t.Fatal("GetSunTimes() expected error but got none")
				}
				var upstreamErr *providers.UpstreamError
				if !errors.As(err, &upstreamErr) {
					t.Fatalf("error %v is not *providers.UpstreamError", err)
				}
				if !strings.Contains(err.Error(), tt.errContains) {
					t.Errorf("error = %v, want error containing %q", err, tt.errContains)
				}
				return
			}

			if err != nil {
				t.Fatalf("GetSunTimes() unexpected error = %v", err)
			}
			if got.Results.Sunrise != tt.wantSunrise {
				t.Errorf("Sunrise = %q, want %q", got.Results.Sunrise, tt.wantSunrise)
			}
			if got.Results.Sunset != tt.wantSunset {
				t.Errorf("Sunset = %q, want %q", got.Results.Sunset, tt.wantSunset)
			}
		})
	}
}

func TestClient_GetSunTimes_ContextCanceled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	client := NewClient(server.URL, time.Second, slog.New(slog.DiscardHandler))
	_, err := client.GetSunTimes(ctx, 32.7252, -97.3205)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want context.Canceled", err)
	}
}

func TestClient_GetSunTimes_BaseURLPrefix(t *testing.T) {
	var gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		_, _ = w.Write([]byte(samplePayload))
	}))
	defer server.Close()

	client := NewClient(server.URL+"/sun", time.Second, slog.New(slog.DiscardHandler))
	if _, err := client.GetSunTimes(context.Background(), 32.7252, -97.3205); err != nil {
		t.Fatalf("GetSunTimes() unexpected error = %v", err)
	}
	if gotPath != "/sun/json" {
		t.Errorf("path = %q, want /sun/json", gotPath)
	}
}
