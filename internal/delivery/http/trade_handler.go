package http

import (
	"github.com/labstack/echo/v4"

	"gemtrader/internal/delivery/http/dto"
	"gemtrader/internal/domain"
	"gemtrader/internal/usecase"
)

// TradeHandler handles trade execution and ledger lookups
type TradeHandler struct {
	trading *usecase.TradingService
	prices  domain.AssetDirectory
}

// NewTradeHandler creates a new TradeHandler
func NewTradeHandler(trading *usecase.TradingService, prices domain.AssetDirectory) *TradeHandler {
	return &TradeHandler{trading: trading, prices: prices}
}

// ExecuteTrade executes a BUY or SELL
// POST /api/trade
func (h *TradeHandler) ExecuteTrade(c echo.Context) error {
	var req dto.TradeRequest
	if err := c.Bind(&req); err != nil {
		return BadRequestResponse(c, "Invalid request body")
	}

	ctx := c.Request().Context()

	price := req.Price
	if price == nil {
		live, err := h.prices.PriceOf(ctx, req.AssetID)
		if err != nil {
			return DomainErrorResponse(c, err)
		}
		price = &live
	}

	trade, err := h.trading.ExecuteTrade(ctx, usecase.TradeRequest{
		PortfolioID: req.PortfolioID,
		AssetID:     req.AssetID,
		Quantity:    req.Quantity,
		Price:       *price,
		Side:        domain.TradeSide(req.TradeType),
	})
	if err != nil {
		return DomainErrorResponse(c, err)
	}

	return SuccessResponse(c, trade)
}

// GetTrade returns a ledger entry
// GET /api/trades/:id
func (h *TradeHandler) GetTrade(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return DomainErrorResponse(c, err)
	}

	trade, err := h.trading.GetTrade(c.Request().Context(), id)
	if err != nil {
		return DomainErrorResponse(c, err)
	}

	return SuccessResponse(c, trade)
}

// GetUserTrades lists a user's trades
// GET /api/users/:id/trades
func (h *TradeHandler) GetUserTrades(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return DomainErrorResponse(c, err)
	}

	trades, err := h.trading.GetUserTrades(c.Request().Context(), id)
	if err != nil {
		return DomainErrorResponse(c, err)
	}

	return SuccessResponse(c, trades)
}

// GetPortfolioTrades lists a portfolio's trades
// GET /api/portfolios/:id/trades
func (h *TradeHandler) GetPortfolioTrades(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return DomainErrorResponse(c, err)
	}

	trades, err := h.trading.GetPortfolioTrades(c.Request().Context(), id)
	if err != nil {
		return DomainErrorResponse(c, err)
	}

	return SuccessResponse(c, trades)
}
