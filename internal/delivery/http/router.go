package http

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"golang.org/x/time/rate"

	custommiddleware "gemtrader/internal/middleware"
	"gemtrader/pkg/logger"
)

// RouterConfig holds all dependencies for routing
type RouterConfig struct {
	UserHandler        *UserHandler
	TradeHandler       *TradeHandler
	LeaderboardHandler *LeaderboardHandler
	AnalyticsHandler   *AnalyticsHandler
	AssetHandler       *AssetHandler
	AdminHandler       *AdminHandler
	Auth               *custommiddleware.Auth

	// TradeRateLimit is requests per second per client on POST /api/trade; zero disables it
	TradeRateLimit float64
}

// SetupRoutes configures all HTTP routes
func SetupRoutes(e *echo.Echo, config *RouterConfig) {
	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: uuid.NewString,
		RequestIDHandler: func(c echo.Context, id string) {
			req := c.Request()
			c.SetRequest(req.WithContext(logger.WithRequestID(req.Context(), id)))
		},
	}))
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:   true,
		LogURI:      true,
		LogStatus:   true,
		LogLatency:  true,
		LogError:    true,
		HandleError: true,
		Skipper: func(c echo.Context) bool {
			return c.Path() == "/health"
		},
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			ctx := c.Request().Context()
			args := []any{"method", v.Method, "uri", v.URI, "status", v.Status, "latency_ms", v.Latency.Milliseconds()}
			if v.Error != nil {
				logger.Warn(ctx, "request failed", append(args, "error", v.Error)...)
				return nil
			}
			logger.Info(ctx, "request", args...)
			return nil
		},
	}))
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())
	e.Use(middleware.Secure())

	e.GET("/health", func(c echo.Context) error {
		return SuccessResponse(c, map[string]interface{}{
			"status":    "healthy",
			"service":   "gemtrader-api",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
	})

	api := e.Group("/api")

	users := api.Group("/users")
	{
		users.POST("", config.UserHandler.CreateUser)
		users.GET("/:id", config.UserHandler.GetUserStats)
		users.GET("/:id/portfolios", config.UserHandler.GetUserPortfolios)
		users.GET("/:id/trades", config.TradeHandler.GetUserTrades)
	}

	portfolios := api.Group("/portfolios")
	{
		portfolios.POST("", config.UserHandler.CreatePortfolio)
		portfolios.GET("/:id", config.UserHandler.GetPortfolio)
		portfolios.GET("/:id/value", config.UserHandler.GetPortfolioValue)
		portfolios.GET("/:id/trades", config.TradeHandler.GetPortfolioTrades)
	}

	var tradeMiddleware []echo.MiddlewareFunc
	if config.TradeRateLimit > 0 {
		tradeMiddleware = append(tradeMiddleware, tradeRateLimiter(config.TradeRateLimit))
	}
	api.POST("/trade", config.TradeHandler.ExecuteTrade, tradeMiddleware...)
	api.GET("/trades/:id", config.TradeHandler.GetTrade)

	leaderboard := api.Group("/leaderboard")
	{
		leaderboard.GET("", config.LeaderboardHandler.GetLeaderboard)
		leaderboard.GET("/top", config.LeaderboardHandler.GetTopUsers)
	}

	analytics := api.Group("/analytics")
	{
		analytics.GET("/most-traded", config.AnalyticsHandler.MostTraded)
		analytics.GET("/highest-portfolios", config.AnalyticsHandler.HighestPortfolios)
		analytics.GET("/portfolio-performance/:userId", config.AnalyticsHandler.PortfolioPerformance)
		analytics.GET("/trading-volume", config.AnalyticsHandler.TradingVolume)
		analytics.GET("/average-trade-size", config.AnalyticsHandler.AverageTradeSize)
	}

	assets := api.Group("/assets")
	{
		assets.GET("", config.AssetHandler.ListAssets)
		assets.GET("/:id", config.AssetHandler.GetAsset)
		assets.GET("/symbol/:symbol", config.AssetHandler.GetAssetBySymbol)
		assets.POST("", config.AdminHandler.CreateAsset, config.Auth.Middleware, custommiddleware.AdminMiddleware)
	}

	admin := api.Group("/admin", config.Auth.Middleware, custommiddleware.AdminMiddleware)
	{
		admin.POST("/prices/drift", config.AdminHandler.DriftPrices)
		admin.POST("/leaderboard/recompute", config.AdminHandler.RecomputeLeaderboard)
		admin.GET("/statistics", config.AdminHandler.GetStatistics)
	}
}

// tradeRateLimiter limits trade submissions per client IP
func tradeRateLimiter(perSecond float64) echo.MiddlewareFunc {
	burst := int(perSecond)
	if burst < 1 {
		burst = 1
	}
	return middleware.RateLimiterWithConfig(middleware.RateLimiterConfig{
		Store: middleware.NewRateLimiterMemoryStoreWithConfig(middleware.RateLimiterMemoryStoreConfig{
			Rate:      rate.Limit(perSecond),
			Burst:     burst,
			ExpiresIn: 3 * time.Minute,
		}),
		DenyHandler: func(c echo.Context, _ string, _ error) error {
			return ErrorResponse(c, http.StatusTooManyRequests, "Too many trade requests", nil)
		},
	})
}
