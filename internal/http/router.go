package http

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/iyhunko/inventory-console/internal/config"
	"github.com/iyhunko/inventory-console/internal/http/controller"
	"github.com/iyhunko/inventory-console/internal/http/middleware"
	"github.com/iyhunko/inventory-console/internal/http/templates"
)

// InitRouter registers the console routes on server.
func InitRouter(conf *config.Config, server *gin.Engine, limiter *middleware.RateLimiter, ctr *controller.Controller, console *controller.ConsoleController) (*gin.Engine, error) {
	tmpl, err := templates.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load templates: %w", err)
	}
	server.SetHTMLTemplate(tmpl)

	// Apply recovery middleware globally to prevent panics from crashing the server
	server.Use(middleware.Recovery(), middleware.Logger())

	server.GET("/ping", ctr.Ping)

	pages := server.Group("/", middleware.Profile())
	{
		pages.GET("", console.Index)
		pages.GET("/products/:id/delete", console.ConfirmDelete)
		pages.GET("/export.csv", console.ExportCSV)
		pages.POST("/edit/cancel", console.CancelEdit)
		pages.POST("/theme", console.ToggleTheme)
	}

	mutations := server.Group("/", limiter.Middleware(), middleware.RequireProfile())
	{
		mutations.POST("/products/:id/edit", console.Edit)
		mutations.POST("/sync", console.Sync)
		mutations.POST("/products", console.Create)
		mutations.POST("/products/:id", console.Update)
		mutations.POST("/products/:id/delete", console.Delete)
	}

	api := server.Group("/api", middleware.CORS(conf.CORS.AllowOrigin), middleware.Profile())
	{
		api.GET("/view", console.View)
		api.OPTIONS("/view", func(*gin.Context) {})
	}

	return server, nil
}
