package http

import (
	"time"

	"github.com/labstack/echo/v4"

	"gemtrader/internal/service"
)

const defaultPerformanceWindow = 7 * 24 * time.Hour

// AnalyticsHandler exposes ledger aggregates
type AnalyticsHandler struct {
	analytics *service.AnalyticsService
	now       func() time.Time
}

// NewAnalyticsHandler creates a new AnalyticsHandler
func NewAnalyticsHandler(analytics *service.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{analytics: analytics, now: time.Now}
}

// MostTraded GET /api/analytics/most-traded
func (h *AnalyticsHandler) MostTraded(c echo.Context) error {
	result, err := h.analytics.MostTradedAssets(c.Request().Context())
	if err != nil {
		return DomainErrorResponse(c, err)
	}
	return SuccessResponse(c, result)
}

// HighestPortfolios GET /api/analytics/highest-portfolios
func (h *AnalyticsHandler) HighestPortfolios(c echo.Context) error {
	result, err := h.analytics.HighestPortfolioValues(c.Request().Context())
	if err != nil {
		return DomainErrorResponse(c, err)
	}
	return SuccessResponse(c, result)
}

// PortfolioPerformance GET /api/analytics/portfolio-performance/:userId?since=RFC3339
// Without since, the last seven days are reported.
func (h *AnalyticsHandler) PortfolioPerformance(c echo.Context) error {
	userID, err := pathID(c, "userId")
	if err != nil {
		return DomainErrorResponse(c, err)
	}

	since := h.now().Add(-defaultPerformanceWindow)
	if raw := c.QueryParam("since"); raw != "" {
		since, err = time.Parse(time.RFC3339, raw)
		if err != nil {
			return BadRequestResponse(c, "since must be an RFC3339 timestamp")
		}
	}

	result, err := h.analytics.PortfolioPerformance(c.Request().Context(), userID, since)
	if err != nil {
		return DomainErrorResponse(c, err)
	}
	return SuccessResponse(c, result)
}

// TradingVolume GET /api/analytics/trading-volume
func (h *AnalyticsHandler) TradingVolume(c echo.Context) error {
	result, err := h.analytics.TradingVolumeByAsset(c.Request().Context())
	if err != nil {
		return DomainErrorResponse(c, err)
	}
	return SuccessResponse(c, result)
}

// AverageTradeSize GET /api/analytics/average-trade-size
func (h *AnalyticsHandler) AverageTradeSize(c echo.Context) error {
	result, err := h.analytics.AverageTradeSizeByUser(c.Request().Context())
	if err != nil {
		return DomainErrorResponse(c, err)
	}
	return SuccessResponse(c, result)
}
