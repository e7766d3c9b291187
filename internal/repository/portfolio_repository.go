package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"gemtrader/internal/domain"
)

// PortfolioRepositoryImpl implements the PortfolioRepository interface
type PortfolioRepositoryImpl struct {
	db *pgxpool.Pool
}

// NewPortfolioRepository creates a new PortfolioRepository
func NewPortfolioRepository(db *pgxpool.Pool) domain.PortfolioRepository {
	return &PortfolioRepositoryImpl{db: db}
}

// Create creates a new empty portfolio
func (r *PortfolioRepositoryImpl) Create(ctx context.Context, portfolio *domain.Portfolio) error {
	query := `
		INSERT INTO portfolios (user_id, name, created_at)
		VALUES ($1, $2, $3)
		RETURNING id
	`

	if err := r.db.QueryRow(ctx, query, portfolio.UserID, portfolio.Name, portfolio.CreatedAt).Scan(&portfolio.ID); err != nil {
		return fmt.Errorf("failed to create portfolio: %w", err)
	}
	if portfolio.Holdings == nil {
		portfolio.Holdings = []domain.PortfolioHolding{}
	}

	return nil
}

// GetByID retrieves a portfolio with its holdings
func (r *PortfolioRepositoryImpl) GetByID(ctx context.Context, id int64) (*domain.Portfolio, error) {
	portfolios, err := r.query(ctx, `SELECT id, user_id, name, created_at FROM portfolios WHERE id = $1`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get portfolio by ID: %w", err)
	}
	if len(portfolios) == 0 {
		return nil, domain.NotFound(domain.EntityPortfolio, id)
	}

	return portfolios[0], nil
}

// GetByUserID retrieves all portfolios owned by a user
func (r *PortfolioRepositoryImpl) GetByUserID(ctx context.Context, userID int64) ([]*domain.Portfolio, error) {
	portfolios, err := r.query(ctx, `SELECT id, user_id, name, created_at FROM portfolios WHERE user_id = $1 ORDER BY id ASC`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get portfolios by user ID: %w", err)
	}

	return portfolios, nil
}

// GetAll retrieves all portfolios
func (r *PortfolioRepositoryImpl) GetAll(ctx context.Context) ([]*domain.Portfolio, error) {
	portfolios, err := r.query(ctx, `SELECT id, user_id, name, created_at FROM portfolios ORDER BY id ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to get portfolios: %w", err)
	}

	return portfolios, nil
}

// query loads portfolio rows and then attaches their holdings in insertion order
func (r *PortfolioRepositoryImpl) query(ctx context.Context, sql string, args ...any) ([]*domain.Portfolio, error) {
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var portfolios []*domain.Portfolio
	byID := make(map[int64]*domain.Portfolio)
	ids := make([]int64, 0)
	for rows.Next() {
		p := &domain.Portfolio{Holdings: []domain.PortfolioHolding{}}
		if err := rows.Scan(&p.ID, &p.UserID, &p.Name, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan portfolio: %w", err)
		}
		portfolios = append(portfolios, p)
		byID[p.ID] = p
		ids = append(ids, p.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating portfolios: %w", err)
	}
	if len(ids) == 0 {
		return portfolios, nil
	}

	hrows, err := r.db.Query(ctx, `
		SELECT portfolio_id, asset_id, quantity, average_price, last_traded
		FROM portfolio_holdings
		WHERE portfolio_id = ANY($1)
		ORDER BY seq ASC
	`, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to query holdings: %w", err)
	}
	defer hrows.Close()

	for hrows.Next() {
		var h domain.PortfolioHolding
		if err := hrows.Scan(&h.PortfolioID, &h.AssetID, &h.Quantity, &h.AveragePrice, &h.LastTraded); err != nil {
			return nil, fmt.Errorf("failed to scan holding: %w", err)
		}
		p := byID[h.PortfolioID]
		p.Holdings = append(p.Holdings, h)
	}
	if err := hrows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating holdings: %w", err)
	}

	return portfolios, nil
}
