package server

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"golang.org/x/time/rate"
)

// RegisterRoutes configures all API routes, middleware, and error handlers
func RegisterRoutes(e *echo.Echo, h *Handlers, cfg ServerConfig) {
	e.HTTPErrorHandler = ErrorJSON()

	e.Use(SetJSONContentType)
	e.Use(SetNoCacheHeaders)

	// Optional API key authentication; health stays open for load balancers
	if cfg.APIKey != "" {
		e.Use(middleware.KeyAuthWithConfig(middleware.KeyAuthConfig{
			KeyLookup: "header:X-API-Key",
			Skipper: func(c echo.Context) bool {
				return c.Path() == "/v1/health"
			},
			Validator: func(key string, c echo.Context) (bool, error) {
				return key == cfg.APIKey, nil
			},
		}))
	}

	v1 := e.Group("/v1")
	v1.GET("/health", h.Health)
	v1.GET("/tokens", h.Tokens)
	v1.GET("/prices", h.Tokens)
	v1.GET("/prices/:token", h.Price)
	v1.GET("/quote", h.Quote)
	v1.GET("/stats/volume", h.Volume)

	swaps := v1.Group("/swaps")
	swaps.GET("/recent", h.RecentSwaps)
	swaps.POST("", h.SubmitSwap, middleware.RateLimiter(middleware.NewRateLimiterMemoryStoreWithConfig(middleware.RateLimiterMemoryStoreConfig{
		Rate:      rate.Limit(cfg.SwapRate),
		Burst:     cfg.SwapBurst,
		ExpiresIn: 2 * time.Minute,
	})))

	st := v1.Group("/settings")
	st.GET("/:session", h.SettingsGet)
	st.PUT("/:session", h.SettingsPut)
	st.DELETE("/:session", h.SettingsDelete)

	e.RouteNotFound("/*", func(c echo.Context) error {
		return c.JSON(http.StatusNotFound, ErrorResponse{Error: "not found", Code: http.StatusNotFound})
	})
}
