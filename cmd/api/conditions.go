package main

import (
	"bytes"
	"errors"
	"net/http"
	"time"

	"sunweather/internal/conditions"
	"sunweather/internal/types"

	"github.com/gin-gonic/gin"
)

// ErrorResponse is returned when the combined info cannot be produced
type ErrorResponse struct {
	Error    string `json:"error" example:"failed to fetch weather data"`
	Upstream string `json:"upstream,omitempty" example:"weather"` // which upstream failed
}

// handleGetData godoc
// @Summary Get combined sun and weather info
// @Description Current temperature in Celsius plus today's sunrise and sunset for the configured location. Both upstreams must succeed.
// @Tags conditions
// @Produce json
// @Success 200 {object} conditions.CombinedInfo
// @Failure 502 {object} ErrorResponse
// @Failure 504 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /api/data [get]
func (app *App) handleGetData(c *gin.Context) {
	info, err := app.conditionsService.Resolve(c.Request.Context(), app.locationService.Coords())
	if err != nil {
		status, resp := app.resolutionFailure(err)
		c.JSON(status, resp)
		return
	}

	c.JSON(http.StatusOK, info)
}

// handleHome renders the combined info as a page
func (app *App) handleHome(c *gin.Context) {
	ctx := c.Request.Context()

	info, err := app.conditionsService.Resolve(ctx, app.locationService.Coords())
	if err != nil {
		status, resp := app.resolutionFailure(err)
		app.renderTemplate(c, status, "error.html", gin.H{
			"Status":  http.StatusText(status),
			"Message": resp.Error,
		})
		return
	}

	loc := app.locationService.Timezone()
	temperature := types.NewTemperatureFromCelsius(info.Temperature)

	app.renderTemplate(c, http.StatusOK, "index.html", gin.H{
		"Location":    app.locationService.Label(ctx),
		"Sunrise":     info.SunInfo.Sunrise,
		"Sunset":      info.SunInfo.Sunset,
		"Temperature": temperature.Celsius,
		"Fahrenheit":  temperature.Fahrenheit,
		"Timezone":    loc.String(),
		"RenderedAt":  time.Now().In(loc).Format("2006-01-02 15:04:05 MST"),
	})
}

// resolutionFailure maps a resolve error to a status code and body
func (app *App) resolutionFailure(err error) (int, ErrorResponse) {
	var resolutionErr *conditions.ResolutionError
	if !errors.As(err, &resolutionErr) {
		app.logger.Error("failed to resolve combined info", "error", err)
		return http.StatusInternalServerError, ErrorResponse{Error: "internal server error"}
	}

	app.logger.Error("upstream failed",
		"upstream", resolutionErr.Upstream,
		"timeout", resolutionErr.Timeout(),
		"error", resolutionErr.Err,
	)

	resp := ErrorResponse{
		Error:    "failed to fetch " + resolutionErr.Upstream + " data",
		Upstream: resolutionErr.Upstream,
	}
	if resolutionErr.Timeout() {
		return http.StatusGatewayTimeout, resp
	}
	return http.StatusBadGateway, resp
}

// renderTemplate writes a rendered page, or a bare 500 when rendering fails
func (app *App) renderTemplate(c *gin.Context, status int, name string, data any) {
	var buf bytes.Buffer
	if err := app.renderer.Render(&buf, name, data); err != nil {
		app.logger.Error("template rendering failed", "template", name, "error", err)
		_ = c.Error(err)
		c.AbortWithStatus(http.StatusInternalServerError)
		return
	}
	c.Data(status, "text/html; charset=utf-8", buf.Bytes())
}
