package main

import (
	"net/http"

	"sunweather/internal/web"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// registerRoutes sets up all endpoints
func (app *App) registerRoutes() {
	app.router.GET("/", app.handleRoot)

	// Health check endpoint
	app.router.GET("/ping", app.handlePing)

	// Combined weather and sun info
	app.router.GET("/api/data", app.handleGetData)
	app.router.GET("/home", app.handleHome)

	// Static assets
	public := app.router.Group("/public", app.staticCacheControl())
	public.StaticFS("/", http.FS(web.Public()))

	// Login
	app.router.GET("/loginpage", app.handleLoginPage)
	app.router.POST("/login", app.handleLogin)
	app.router.POST("/logout", app.handleLogout)

	// Admin area
	hidden := app.router.Group("/hidden", app.requireSession())
	hidden.GET("/admin", app.handleAdmin)

	// Swagger documentation
	app.router.GET("/swagger/*any", func(c *gin.Context) {
		path := c.Param("any")
		if path == "/" {
			c.Redirect(http.StatusMovedPermanently, "/swagger/index.html")
			return
		}
		ginSwagger.WrapHandler(swaggerFiles.Handler)(c)
	})
}
