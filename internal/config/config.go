package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server     ServerConfig
	Log        LogConfig
	Location   LocationConfig
	Weather    WeatherConfig
	Sun        SunConfig
	Geocoder   GeocoderConfig
	Upstream   UpstreamConfig
	Datasource DatasourceConfig
	Auth       AuthConfig
}

// ServerConfig holds server-specific configuration
type ServerConfig struct {
	Port    int
	GinMode string // debug, release, test
	Caching bool   // static asset caching
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string // debug, info, warn, error
	Format string // json, text
}

// LocationConfig is the single location the server reports on
type LocationConfig struct {
	Latitude  float64
	Longitude float64
	Timezone  string // IANA name; empty means look it up from the coordinates
	Name      string // display label; empty means reverse geocode
}

// WeatherConfig configures the OpenWeatherMap upstream
type WeatherConfig struct {
	BaseURL string
	APIKey  string
}

// SunConfig configures the sunrise-sunset.org upstream
type SunConfig struct {
	BaseURL string
}

// GeocoderConfig configures the Nominatim reverse geocoder
type GeocoderConfig struct {
	BaseURL string
}

// UpstreamConfig holds settings shared by all outbound calls
type UpstreamConfig struct {
	Timeout time.Duration
}

// DatasourceConfig holds the SQLite database location
type DatasourceConfig struct {
	Path string
}

// AuthConfig holds admin area settings
type AuthConfig struct {
	SessionSecret string // empty means a random per-process secret
	SessionTTL    time.Duration
	CookieName    string
	AdminUsername string
	AdminPassword string
}

// Load reads configuration from .env, file and environment variables
func Load() (*Config, error) {
	// .env is optional; real environment variables win over it
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	v := viper.New()

	// Set config file name and paths
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("$HOME/.sunweather")

	setDefaults(v)

	// Read from environment variables, e.g. SUNWEATHER_WEATHER_APIKEY
	v.SetEnvPrefix("SUNWEATHER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		// It's okay if config file doesn't exist, we have defaults
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFoundError) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// Unmarshal into config struct
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.ginmode", "release")
	v.SetDefault("server.caching", true)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	// Fort Worth, TX
	v.SetDefault("location.latitude", 32.7252)
	v.SetDefault("location.longitude", -97.3205)
	v.SetDefault("location.timezone", "America/Chicago")
	v.SetDefault("location.name", "")

	v.SetDefault("weather.baseurl", "http://api.openweathermap.org")
	v.SetDefault("weather.apikey", "")
	v.SetDefault("sun.baseurl", "https://api.sunrise-sunset.org")
	v.SetDefault("geocoder.baseurl", "https://nominatim.openstreetmap.org")
	v.SetDefault("upstream.timeout", 5*time.Second)

	v.SetDefault("datasource.path", "sunweather.db")

	v.SetDefault("auth.sessionsecret", "")
	v.SetDefault("auth.sessionttl", 12*time.Hour)
	v.SetDefault("auth.cookiename", "sunweather_session")
	v.SetDefault("auth.adminusername", "")
	v.SetDefault("auth.adminpassword", "")
}

// Validate checks values that have no usable default
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Weather.APIKey) == "" {
		return errors.New("weather.apikey is required (set SUNWEATHER_WEATHER_APIKEY)")
	}
	if c.Auth.AdminUsername != "" && c.Auth.SessionSecret == "" {
		return errors.New("auth.sessionsecret is required when auth.adminusername is set (set SUNWEATHER_AUTH_SESSIONSECRET)")
	}
	if c.Auth.SessionSecret != "" && len(c.Auth.SessionSecret) < 16 {
		return errors.New("auth.sessionsecret must be at least 16 characters (set SUNWEATHER_AUTH_SESSIONSECRET)")
	}
	if c.Upstream.Timeout <= 0 {
		return fmt.Errorf("upstream.timeout must be positive, got %s", c.Upstream.Timeout)
	}
	if c.Auth.SessionTTL <= 0 {
		return fmt.Errorf("auth.sessionttl must be positive, got %s", c.Auth.SessionTTL)
	}
	if (c.Auth.AdminUsername == "") != (c.Auth.AdminPassword == "") {
		return errors.New("auth.adminusername and auth.adminpassword must be set together")
	}
	return nil
}

// GetServerAddr returns the server address in the format ":port"
func (c *Config) GetServerAddr() string {
	return fmt.Sprintf(":%d", c.Server.Port)
}

// NewLogger creates a new slog.Logger based on the configuration
func (c *Config) NewLogger() *slog.Logger {
	// Parse log level
	var level slog.Level
	switch strings.ToLower(c.Log.Level) {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn", "warning":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{
		Level: level,
	}

	// Choose handler based on format
	var handler slog.Handler
	switch strings.ToLower(c.Log.Format) {
	case "json":
		handler = slog.NewJSONHandler(os.Stdout, opts)
	default: // "text" or anything else
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	return slog.New(handler)
}
