package http

import (
	"github.com/labstack/echo/v4"

	"gemtrader/internal/service"
)

// AssetHandler serves the asset catalogue
type AssetHandler struct {
	assets *service.AssetService
}

// NewAssetHandler creates a new AssetHandler
func NewAssetHandler(assets *service.AssetService) *AssetHandler {
	return &AssetHandler{assets: assets}
}

// ListAssets GET /api/assets
func (h *AssetHandler) ListAssets(c echo.Context) error {
	assets, err := h.assets.ListAssets(c.Request().Context())
	if err != nil {
		return DomainErrorResponse(c, err)
	}
	return SuccessResponse(c, assets)
}

// GetAsset GET /api/assets/:id
func (h *AssetHandler) GetAsset(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return DomainErrorResponse(c, err)
	}

	asset, err := h.assets.GetAsset(c.Request().Context(), id)
	if err != nil {
		return DomainErrorResponse(c, err)
	}
	return SuccessResponse(c, asset)
}

// GetAssetBySymbol GET /api/assets/symbol/:symbol
func (h *AssetHandler) GetAssetBySymbol(c echo.Context) error {
	asset, err := h.assets.GetAssetBySymbol(c.Request().Context(), c.Param("symbol"))
	if err != nil {
		return DomainErrorResponse(c, err)
	}
	return SuccessResponse(c, asset)
}
