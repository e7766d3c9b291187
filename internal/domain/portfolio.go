package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// DefaultPortfolioName is used when a portfolio is created without a name
const DefaultPortfolioName = "Default Portfolio"

// Portfolio is a named collection of holdings owned by one user
type Portfolio struct {
	ID        int64              `json:"id"`
	UserID    int64              `json:"user_id"`
	Name      string             `json:"name"`
	Holdings  []PortfolioHolding `json:"holdings"`
	CreatedAt time.Time          `json:"created_at"`
}

// PortfolioHolding is a portfolio's position in one asset.
// A stored holding always has a strictly positive quantity.
type PortfolioHolding struct {
	PortfolioID  int64           `json:"portfolio_id"`
	AssetID      int64           `json:"asset_id"`
	Quantity     decimal.Decimal `json:"quantity"`
	AveragePrice decimal.Decimal `json:"average_price"`
	LastTraded   time.Time       `json:"last_traded"`
}

// Value returns quantity × reference price
func (h PortfolioHolding) Value() decimal.Decimal {
	return h.Quantity.Mul(h.AveragePrice)
}

// Clone returns a deep copy of the portfolio
func (p *Portfolio) Clone() *Portfolio {
	c := *p
	c.Holdings = make([]PortfolioHolding, len(p.Holdings))
	copy(c.Holdings, p.Holdings)
	return &c
}

// Holding returns the holding for assetID, if any
func (p *Portfolio) Holding(assetID int64) (PortfolioHolding, bool) {
	for _, h := range p.Holdings {
		if h.AssetID == assetID {
			return h, true
		}
	}
	return PortfolioHolding{}, false
}

// TotalValue sums the value of every holding at its reference price
func (p *Portfolio) TotalValue() decimal.Decimal {
	total := decimal.Zero
	for _, h := range p.Holdings {
		total = total.Add(h.Value())
	}
	return total
}

// ApplyHolding replaces, appends or removes (zero quantity) the holding for h.AssetID
func (p *Portfolio) ApplyHolding(h PortfolioHolding) {
	for i := range p.Holdings {
		if p.Holdings[i].AssetID != h.AssetID {
			continue
		}
		if h.Quantity.IsZero() {
			p.Holdings = append(p.Holdings[:i], p.Holdings[i+1:]...)
		} else {
			p.Holdings[i] = h
		}
		return
	}
	if !h.Quantity.IsZero() {
		p.Holdings = append(p.Holdings, h)
	}
}

// PortfolioRepository defines the interface for portfolio data operations
type PortfolioRepository interface {
	// Create stores a new empty portfolio and assigns its ID
	Create(ctx context.Context, portfolio *Portfolio) error

	// GetByID retrieves a portfolio with its holdings
	GetByID(ctx context.Context, id int64) (*Portfolio, error)

	// GetByUserID retrieves all portfolios owned by a user
	GetByUserID(ctx context.Context, userID int64) ([]*Portfolio, error)

	// GetAll retrieves all portfolios ordered by ID
	GetAll(ctx context.Context) ([]*Portfolio, error)
}
