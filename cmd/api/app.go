package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"sunweather/internal/auth"
	"sunweather/internal/conditions"
	"sunweather/internal/config"
	"sunweather/internal/location"
	"sunweather/internal/providers/sunrisesunset"
	"sunweather/internal/storage/sqlite"
	"sunweather/internal/sun"
	"sunweather/internal/timezone"
	"sunweather/internal/weather"
	"sunweather/internal/web"

	"github.com/gin-gonic/gin"

	_ "sunweather/docs" // Ensure docs are imported
)

// Authenticator checks admin credentials
type Authenticator interface {
	Authenticate(ctx context.Context, username, password string) (*sqlite.User, error)
}

// Dependencies are the services the HTTP layer delegates to
type Dependencies struct {
	Conditions conditions.Service
	Location   location.Service
	Auth       Authenticator
	Sessions   *auth.SessionManager
	Renderer   *web.Renderer
}

// App encapsulates application dependencies
type App struct {
	router            *gin.Engine
	logger            *slog.Logger
	cfg               *config.Config
	conditionsService conditions.Service
	locationService   location.Service
	authenticator     Authenticator
	sessions          *auth.SessionManager
	renderer          *web.Renderer
	closers           []func() error
}

// NewApp creates a new application with real upstream clients and storage
func NewApp(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	locationSvc, err := location.NewLocationService(cfg, timezone.NewService(), logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create location service: %w", err)
	}

	sunClient := sunrisesunset.NewClient(cfg.Sun.BaseURL, cfg.Upstream.Timeout, logger)
	conditionsSvc := conditions.NewConditionsService(
		weather.NewWeatherService(cfg, logger),
		sun.NewSunServiceWithProvider(sunClient, locationSvc.Timezone(), logger),
		logger,
	)

	// Migration failures stop startup
	store, err := sqlite.Open(ctx, cfg.Datasource.Path, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to open datasource: %w", err)
	}

	authProvider, err := auth.NewProvider(store, logger)
	if err != nil {
		_ = store.Close()
		return nil, err
	}
	if cfg.Auth.AdminUsername != "" {
		if err := authProvider.SeedAdmin(ctx, cfg.Auth.AdminUsername, cfg.Auth.AdminPassword); err != nil {
			_ = store.Close()
			return nil, err
		}
	}

	renderer, err := web.NewRenderer()
	if err != nil {
		_ = store.Close()
		return nil, err
	}

	sessions, err := newSessionManager(cfg.Auth, logger)
	if err != nil {
		_ = store.Close()
		return nil, err
	}

	app := NewAppWithDependencies(cfg, logger, Dependencies{
		Conditions: conditionsSvc,
		Location:   locationSvc,
		Auth:       authProvider,
		Sessions:   sessions,
		Renderer:   renderer,
	})
	app.closers = append(app.closers, store.Close)

	return app, nil
}

// newSessionManager signs sessions with the configured secret, or with a
// random one when none is set. Random secrets do not survive a restart.
func newSessionManager(cfg config.AuthConfig, logger *slog.Logger) (*auth.SessionManager, error) {
	secret := cfg.SessionSecret
	if secret == "" {
		generated, err := auth.GenerateSecret()
		if err != nil {
			return nil, err
		}
		logger.Warn("auth.sessionsecret not set, sessions will end when the server restarts")
		secret = generated
	}
	return auth.NewSessionManager(secret, cfg.SessionTTL), nil
}

// NewAppWithDependencies wires the router around already built services
// This is useful for testing with mock services
func NewAppWithDependencies(cfg *config.Config, logger *slog.Logger, deps Dependencies) *App {
	// Set Gin mode from configuration
	gin.SetMode(cfg.Server.GinMode)

	// Create Gin router
	router := gin.New()

	app := &App{
		router:            router,
		logger:            logger,
		cfg:               cfg,
		conditionsService: deps.Conditions,
		locationService:   deps.Location,
		authenticator:     deps.Auth,
		sessions:          deps.Sessions,
		renderer:          deps.Renderer,
	}

	// Add middleware
	router.Use(gin.Recovery(), app.requestLogger())

	// Register routes
	app.registerRoutes()

	return app
}

// Handler exposes the router for http.Server and tests
func (app *App) Handler() http.Handler {
	return app.router
}

// Run serves HTTP on addr until ctx is canceled, then shuts down gracefully
func (app *App) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           app.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	app.logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// Close releases resources opened by NewApp
func (app *App) Close() error {
	var firstErr error
	for _, closeFn := range app.closers {
		if err := closeFn(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
