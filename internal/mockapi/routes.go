package mockapi

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"golang.org/x/time/rate"
)

// RegisterRoutes mounts the swap, price and token APIs on e.
func RegisterRoutes(e *echo.Echo, h *Handlers, cfg ServerConfig) {
	e.HTTPErrorHandler = JSONErrors()
	e.Use(SetNoCacheHeaders)

	e.GET("/health", h.Health)

	var mw []echo.MiddlewareFunc
	if cfg.APIKey != "" {
		mw = append(mw, middleware.KeyAuthWithConfig(middleware.KeyAuthConfig{
			KeyLookup: "header:x-api-key",
			Validator: func(key string, c echo.Context) (bool, error) {
				return key == cfg.APIKey, nil
			},
		}))
	}
	if cfg.RateLimit > 0 {
		burst := cfg.Burst
		if burst <= 0 {
			burst = max(1, int(cfg.RateLimit))
		}
		mw = append(mw, middleware.RateLimiterWithConfig(middleware.RateLimiterConfig{
			Store: middleware.NewRateLimiterMemoryStoreWithConfig(middleware.RateLimiterMemoryStoreConfig{
				Rate:      rate.Limit(cfg.RateLimit),
				Burst:     burst,
				ExpiresIn: 2 * time.Minute,
			}),
			DenyHandler: func(c echo.Context, _ string, _ error) error {
				return c.JSON(http.StatusTooManyRequests, ErrorResponse{Error: "Rate limit exceeded"})
			},
		}))
	}

	swap := e.Group("/swap/v1", mw...)
	swap.GET("/quote", h.Quote)
	swap.POST("/swap", h.Swap)
	swap.POST("/swap-instructions", h.SwapInstructions)

	e.GET("/price/v3", h.Price, mw...)

	tokens := e.Group("/tokens/v2", mw...)
	tokens.GET("/search", h.SearchTokens)
	tokens.GET("/tag", h.TokensByTag)

	e.RouteNotFound("/*", func(c echo.Context) error {
		return c.JSON(http.StatusNotFound, ErrorResponse{Error: "Route not found"})
	})
}
