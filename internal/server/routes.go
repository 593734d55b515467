// Package server hosts the function handlers behind a regular HTTP server
// for local development and self-hosting.
package server

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/fleveque/giftshop-functions/internal/config"
	"github.com/fleveque/giftshop-functions/internal/handler"
	"github.com/fleveque/giftshop-functions/internal/httpevent"
	"github.com/fleveque/giftshop-functions/internal/middleware"
)

// Deps holds the handlers the server routes to.
type Deps struct {
	Cards   httpevent.Handler
	Gallery httpevent.Handler
	Upload  httpevent.Handler
}

// RegisterRoutes sets up all HTTP routes on the Gin engine. The function
// routes accept any method: each handler answers OPTIONS and rejects the
// methods it doesn't serve itself.
func RegisterRoutes(r *gin.Engine, cfg *config.Config, deps Deps, logger *zap.Logger) {
	healthHandler := handler.NewHealthHandler()

	r.GET("/healthz", healthHandler.Healthz)

	api := r.Group("/api")
	api.Use(middleware.RateLimit(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst))
	{
		api.Any("/cards", Invoke(deps.Cards, logger))
		api.Any("/cards/:id", Invoke(deps.Cards, logger))
		api.Any("/gallery", Invoke(deps.Gallery, logger))
		api.Any("/upload-photo", Invoke(deps.Upload, logger))
	}
}
