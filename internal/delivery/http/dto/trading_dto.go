package dto

import (
	"github.com/shopspring/decimal"
)

// CreateUserRequest represents the user registration payload
type CreateUserRequest struct {
	Username string `json:"username"`
}

// CreatePortfolioRequest represents the portfolio creation payload
type CreatePortfolioRequest struct {
	UserID int64  `json:"user_id"`
	Name   string `json:"name"`
}

// TradeRequest represents a BUY or SELL order.
// Price is optional; the live asset price is used when it is omitted.
type TradeRequest struct {
	PortfolioID int64            `json:"portfolio_id"`
	AssetID     int64            `json:"asset_id"`
	Quantity    decimal.Decimal  `json:"quantity"`
	Price       *decimal.Decimal `json:"price,omitempty"`
	TradeType   string           `json:"trade_type"`
}

// CreateAssetRequest represents the asset listing payload
type CreateAssetRequest struct {
	Symbol       string          `json:"symbol"`
	Name         string          `json:"name"`
	InitialPrice decimal.Decimal `json:"initial_price"`
}

// LeaderboardEntry is one leaderboard row
type LeaderboardEntry struct {
	Rank       int    `json:"rank"`
	UserID     int64  `json:"user_id"`
	Username   string `json:"username"`
	GemBalance int64  `json:"gem_balance"`
}
