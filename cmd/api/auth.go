package main

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"sunweather/internal/auth"

	"github.com/gin-gonic/gin"
)

const defaultReturnURL = "/hidden/admin"

// handleLoginPage renders the login form
func (app *App) handleLoginPage(c *gin.Context) {
	app.renderTemplate(c, http.StatusOK, "login.html", gin.H{
		"ReturnURL": safeReturnURL(c.Query("return_url")),
	})
}

// handleLogin checks the submitted form and starts a session
func (app *App) handleLogin(c *gin.Context) {
	username := strings.TrimSpace(c.PostForm("username"))
	password := c.PostForm("password")
	returnURL := safeReturnURL(c.PostForm("return_url"))

	user, err := app.authenticator.Authenticate(c.Request.Context(), username, password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			app.renderTemplate(c, http.StatusUnauthorized, "login.html", gin.H{
				"Error":     "Invalid username or password.",
				"ReturnURL": returnURL,
			})
			return
		}
		app.logger.Error("failed to authenticate", "username", username, "error", err)
		app.renderTemplate(c, http.StatusInternalServerError, "error.html", gin.H{
			"Status":  http.StatusText(http.StatusInternalServerError),
			"Message": "Login is unavailable right now.",
		})
		return
	}

	token, _, err := app.sessions.Issue(user.Username)
	if err != nil {
		app.logger.Error("failed to issue session", "username", user.Username, "error", err)
		c.AbortWithStatus(http.StatusInternalServerError)
		return
	}

	app.setSessionCookie(c, token, int(app.sessions.TTL()/time.Second))
	c.Redirect(http.StatusSeeOther, returnURL)
}

// handleLogout clears the session cookie
func (app *App) handleLogout(c *gin.Context) {
	app.setSessionCookie(c, "", -1)
	c.Redirect(http.StatusSeeOther, "/home")
}

// handleAdmin greets the logged in user
func (app *App) handleAdmin(c *gin.Context) {
	session := c.MustGet(sessionContextKey).(auth.Session)

	app.renderTemplate(c, http.StatusOK, "admin.html", gin.H{
		"Username":  session.Username,
		"ExpiresAt": session.ExpiresAt.In(app.locationService.Timezone()).Format("2006-01-02 15:04 MST"),
	})
}

func (app *App) setSessionCookie(c *gin.Context, value string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(app.cfg.Auth.CookieName, value, maxAge, "/", "", c.Request.TLS != nil, true)
}

// safeReturnURL only allows local absolute paths so the login form cannot redirect off site
func safeReturnURL(raw string) string {
	if raw == "" || !strings.HasPrefix(raw, "/") || strings.HasPrefix(raw, "//") || strings.HasPrefix(raw, "/\\") {
		return defaultReturnURL
	}
	return raw
}
