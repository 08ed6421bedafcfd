package router

import (
	"github.com/labstack/echo/v4"

	"github.com/octobees/lead-enricher/internal/auth"
	"github.com/octobees/lead-enricher/internal/config"
	"github.com/octobees/lead-enricher/internal/handler"
	middlewarepkg "github.com/octobees/lead-enricher/internal/middleware"
)

// Handlers aggregates HTTP handlers used by the router.
type Handlers struct {
	Search *handler.SearchHandler
}

// Register wires all HTTP routes for the API.
func Register(e *echo.Echo, cfg *config.Config, jwtManager *auth.JWTManager, handlers Handlers) {
	e.GET("/healthz", handler.Health)

	secured := e.Group("")
	secured.Use(middlewarepkg.JWT(jwtManager))

	searches := secured.Group("/searches")
	searches.POST("", handlers.Search.Create, middlewarepkg.RateLimiter(cfg.RateLimitSearch))
	searches.GET("", handlers.Search.List)
	searches.GET("/:id", handlers.Search.Get)
	searches.PATCH("/:id", handlers.Search.Resolve)

	admin := secured.Group("/admin", middlewarepkg.RequireRole(auth.RoleAdmin))
	admin.POST("/searches/reap", handlers.Search.Reap)
}
