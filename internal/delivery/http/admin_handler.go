package http

import (
	"context"
	"time"

	"github.com/labstack/echo/v4"

	"gemtrader/internal/delivery/http/dto"
	custommiddleware "gemtrader/internal/middleware"
	"gemtrader/internal/service"
	"gemtrader/pkg/logger"
)

// PriceDrifter moves every asset price one step
type PriceDrifter interface {
	DriftPrices(ctx context.Context) error
}

// AdminHandler handles catalogue and maintenance requests
type AdminHandler struct {
	assets  *service.AssetService
	drifter PriceDrifter
	ranking *service.RankingService
	users   *service.UserService
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(assets *service.AssetService, drifter PriceDrifter, ranking *service.RankingService, users *service.UserService) *AdminHandler {
	return &AdminHandler{
		assets:  assets,
		drifter: drifter,
		ranking: ranking,
		users:   users,
	}
}

// CreateAsset lists a new asset
// POST /api/assets
func (h *AdminHandler) CreateAsset(c echo.Context) error {
	var req dto.CreateAssetRequest
	if err := c.Bind(&req); err != nil {
		return BadRequestResponse(c, "Invalid request body")
	}

	ctx := c.Request().Context()
	asset, err := h.assets.CreateAsset(ctx, req.Symbol, req.Name, req.InitialPrice)
	if err != nil {
		return DomainErrorResponse(c, err)
	}

	subject, _ := custommiddleware.GetSubject(c)
	logger.Info(ctx, "asset listed by admin", "asset_id", asset.ID, "subject", subject)

	return CreatedResponse(c, asset)
}

// DriftPrices runs one price drift pass immediately
// POST /api/admin/prices/drift
func (h *AdminHandler) DriftPrices(c echo.Context) error {
	ctx := c.Request().Context()
	if err := h.drifter.DriftPrices(ctx); err != nil {
		return InternalServerErrorResponse(c, "Price drift failed", err)
	}

	subject, _ := custommiddleware.GetSubject(c)
	logger.Info(ctx, "manual price drift triggered", "subject", subject)

	assets, err := h.assets.ListAssets(ctx)
	if err != nil {
		return DomainErrorResponse(c, err)
	}
	return SuccessMessageResponse(c, "Prices updated", assets)
}

// RecomputeLeaderboard forces a ranking pass
// POST /api/admin/leaderboard/recompute
func (h *AdminHandler) RecomputeLeaderboard(c echo.Context) error {
	ctx := c.Request().Context()
	if err := h.ranking.Recompute(ctx); err != nil {
		return InternalServerErrorResponse(c, "Leaderboard recompute failed", err)
	}

	subject, _ := custommiddleware.GetSubject(c)
	logger.Info(ctx, "manual leaderboard recompute triggered", "subject", subject)

	snapshot := h.ranking.Snapshot()
	return SuccessResponse(c, map[string]interface{}{
		"users":       len(snapshot.Users),
		"computed_at": snapshot.ComputedAt,
	})
}

// GetStatistics returns catalogue and leaderboard counters
// GET /api/admin/statistics
func (h *AdminHandler) GetStatistics(c echo.Context) error {
	ctx := c.Request().Context()

	users, err := h.users.ListUsers(ctx)
	if err != nil {
		return DomainErrorResponse(c, err)
	}
	assets, err := h.assets.ListAssets(ctx)
	if err != nil {
		return DomainErrorResponse(c, err)
	}

	var totalTrades int
	var totalGems int64
	for _, u := range users {
		totalTrades += u.TotalTrades
		totalGems += u.GemBalance
	}

	snapshot := h.ranking.Snapshot()
	return SuccessResponse(c, map[string]interface{}{
		"users":                   len(users),
		"assets":                  len(assets),
		"total_trades":            totalTrades,
		"total_gems":              totalGems,
		"leaderboard_computed_at": snapshot.ComputedAt.Format(time.RFC3339),
	})
}
