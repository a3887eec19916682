package weather

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"sunweather/internal/providers"
	"sunweather/internal/providers/openweathermap"
	"sunweather/internal/types"
)

type mockCurrentWeatherProvider struct {
	response *openweathermap.CurrentWeatherAPIResponse
	err      error
	calls    int
}

func (m *mockCurrentWeatherProvider) GetCurrentWeather(ctx context.Context, latitude, longitude float64) (*openweathermap.CurrentWeatherAPIResponse, error) {
	m.calls++
	return m.response, m.err
}

func TestWeatherService_GetTemperature(t *testing.T) {
	ok := &openweathermap.CurrentWeatherAPIResponse{Name: "Fort Worth"}
	ok.Main.Temp = 21.5

	upstreamErr := providers.NewUpstreamError("openweathermap", "get current weather", 500, errors.New("boom"))

	tests := []struct {
		name      string
		coords    types.Coords
		provider  *mockCurrentWeatherProvider
		want      float64
		wantErr   error
		wantCalls int
	}{
		{
			name:      "success",
			coords:    types.NewCoords(32.7252, -97.3205),
			provider:  &mockCurrentWeatherProvider{response: ok},
			want:      21.5,
			wantCalls: 1,
		},
		{
			name:      "provider error is kept in the chain",
			coords:    types.NewCoords(32.7252, -97.3205),
			provider:  &mockCurrentWeatherProvider{err: upstreamErr},
			wantErr:   upstreamErr,
			wantCalls: 1,
		},
		{
			name:      "invalid coordinate never reaches the provider",
			coords:    types.NewCoords(123, -97.3205),
			provider:  &mockCurrentWeatherProvider{response: ok},
			wantErr:   types.ErrInvalidLatitude,
			wantCalls: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewWeatherServiceWithProvider(tt.provider, slog.New(slog.DiscardHandler))
			got, err := svc.GetTemperature(context.Background(), tt.coords)

			if tt.provider.calls != tt.wantCalls {
				t.Errorf("provider calls = %d, want %d", tt.provider.calls, tt.wantCalls)
			}
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("GetTemperature() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("GetTemperature() unexpected error = %v", err)
			}
			if got.Celsius != tt.want {
				t.Errorf("GetTemperature().Celsius = %v, want %v", got.Celsius, tt.want)
			}
		})
	}
}
