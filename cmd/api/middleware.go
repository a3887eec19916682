package main

import (
	"errors"
	"net/http"
	"net/url"
	"time"

	"github.com/gin-gonic/gin"
)

const sessionContextKey = "session"

// requestLogger logs one line per request with the slog logger
func (app *App) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		attrs := []any{
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start),
			"client_ip", c.ClientIP(),
		}
		if len(c.Errors) > 0 {
			attrs = append(attrs, "errors", c.Errors.String())
		}
		app.logger.Info("request", attrs...)
	}
}

// staticCacheControl sets Cache-Control on static assets according to server.caching
func (app *App) staticCacheControl() gin.HandlerFunc {
	value := "no-cache, no-store, must-revalidate"
	if app.cfg.Server.Caching {
		value = "public, max-age=86400"
	}
	return func(c *gin.Context) {
		c.Header("Cache-Control", value)
		c.Next()
	}
}

// requireSession redirects to the login page unless the request carries a valid session cookie
func (app *App) requireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(app.cfg.Auth.CookieName)
		if err != nil && !errors.Is(err, http.ErrNoCookie) {
			app.logger.Warn("failed to read session cookie", "error", err)
		}

		session, err := app.sessions.Verify(token)
		if err != nil {
			if token != "" {
				app.logger.Info("rejected session", "path", c.Request.URL.Path, "error", err)
			}
			target := "/loginpage?return_url=" + url.QueryEscape(c.Request.URL.RequestURI())
			c.Redirect(http.StatusFound, target)
			c.Abort()
			return
		}

		c.Set(sessionContextKey, session)
		c.Next()
	}
}
