package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Asset represents a tradable instrument with a simulated live price
type Asset struct {
	ID           int64           `json:"id"`
	Symbol       string          `json:"symbol"`
	Name         string          `json:"name"`
	CurrentPrice decimal.Decimal `json:"current_price"`
	LastUpdated  time.Time       `json:"last_updated"`
}

// AssetRepository defines the interface for asset data operations
type AssetRepository interface {
	// Create stores a new asset and assigns its ID
	Create(ctx context.Context, asset *Asset) error

	// GetByID retrieves an asset by ID
	GetByID(ctx context.Context, id int64) (*Asset, error)

	// GetBySymbol retrieves an asset by its ticker symbol
	GetBySymbol(ctx context.Context, symbol string) (*Asset, error)

	// GetAll retrieves all assets ordered by ID
	GetAll(ctx context.Context) ([]*Asset, error)

	// UpdatePrice sets the current price of an asset
	UpdatePrice(ctx context.Context, id int64, price decimal.Decimal, at time.Time) error
}

// AssetDirectory is the read side of the price source consumed by trading
type AssetDirectory interface {
	PriceOf(ctx context.Context, assetID int64) (decimal.Decimal, error)
	Exists(ctx context.Context, assetID int64) (bool, error)
}
