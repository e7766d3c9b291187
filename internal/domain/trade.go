package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// TradeSide is the direction of a trade
type TradeSide string

// TradeSide constants
const (
	SideBuy  TradeSide = "BUY"
	SideSell TradeSide = "SELL"
)

// Valid reports whether s is BUY or SELL
func (s TradeSide) Valid() bool {
	return s == SideBuy || s == SideSell
}

// Trade is an immutable ledger entry
type Trade struct {
	ID          int64           `json:"id"`
	UserID      int64           `json:"user_id"`
	PortfolioID int64           `json:"portfolio_id"`
	AssetID     int64           `json:"asset_id"`
	Side        TradeSide       `json:"side"`
	Quantity    decimal.Decimal `json:"quantity"`
	Price       decimal.Decimal `json:"price"`
	GemsAwarded int             `json:"gems_awarded"`
	Timestamp   time.Time       `json:"timestamp"`
}

// TotalAmount returns quantity × price
func (t *Trade) TotalAmount() decimal.Decimal {
	return t.Quantity.Mul(t.Price)
}

// TradeCommit is everything a single trade writes.
// Holding carries the post-trade state; a zero quantity deletes it.
type TradeCommit struct {
	User    *User
	Holding PortfolioHolding
	Trade   *Trade
}

// TradeRepository defines the read side of the trade ledger
type TradeRepository interface {
	// GetByID retrieves a trade by ID
	GetByID(ctx context.Context, id int64) (*Trade, error)

	// GetAll retrieves the whole ledger ordered by ID
	GetAll(ctx context.Context) ([]*Trade, error)

	// GetByUserID retrieves a user's trades ordered by ID
	GetByUserID(ctx context.Context, userID int64) ([]*Trade, error)

	// GetByPortfolioID retrieves a portfolio's trades ordered by ID
	GetByPortfolioID(ctx context.Context, portfolioID int64) ([]*Trade, error)
}

// TradeLedger commits the user, holding and trade writes of one trade together.
// The trade ID is assigned on success.
type TradeLedger interface {
	CommitTrade(ctx context.Context, commit *TradeCommit) error
}
