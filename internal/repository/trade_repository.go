package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"gemtrader/internal/domain"
)

const tradeColumns = `id, user_id, portfolio_id, asset_id, side, quantity, price, gems_awarded, executed_at`

var (
	_ domain.TradeRepository = (*TradeRepositoryImpl)(nil)
	_ domain.TradeLedger     = (*TradeRepositoryImpl)(nil)
)

// TradeRepositoryImpl implements the TradeRepository and TradeLedger interfaces
type TradeRepositoryImpl struct {
	db *pgxpool.Pool
}

// NewTradeRepository creates a new TradeRepositoryImpl
func NewTradeRepository(db *pgxpool.Pool) *TradeRepositoryImpl {
	return &TradeRepositoryImpl{db: db}
}

// CommitTrade writes the user's trading state, the holding and the trade in one transaction
func (r *TradeRepositoryImpl) CommitTrade(ctx context.Context, c *domain.TradeCommit) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin trade transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	tag, err := tx.Exec(ctx, `
		UPDATE users
		SET gem_balance = $1, total_trades = $2, current_streak = $3,
		    longest_streak = $4, last_trade_time = $5
		WHERE id = $6
	`,
		c.User.GemBalance,
		c.User.TotalTrades,
		c.User.CurrentStreak,
		c.User.LongestStreak,
		c.User.LastTradeTime,
		c.User.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update user trading state: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.NotFound(domain.EntityUser, c.User.ID)
	}

	h := c.Holding
	if h.Quantity.IsZero() {
		_, err = tx.Exec(ctx, `DELETE FROM portfolio_holdings WHERE portfolio_id = $1 AND asset_id = $2`,
			h.PortfolioID, h.AssetID)
	} else {
		_, err = tx.Exec(ctx, `
			INSERT INTO portfolio_holdings (portfolio_id, asset_id, quantity, average_price, last_traded)
			VALUES ($1, $2, $3, $4, $5)
			ON CONFLICT (portfolio_id, asset_id)
			DO UPDATE SET quantity = EXCLUDED.quantity,
			              average_price = EXCLUDED.average_price,
			              last_traded = EXCLUDED.last_traded
		`, h.PortfolioID, h.AssetID, h.Quantity, h.AveragePrice, h.LastTraded)
	}
	if err != nil {
		return fmt.Errorf("failed to write holding: %w", err)
	}

	t := c.Trade
	err = tx.QueryRow(ctx, `
		INSERT INTO trades (user_id, portfolio_id, asset_id, side, quantity, price, gems_awarded, executed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`, t.UserID, t.PortfolioID, t.AssetID, string(t.Side), t.Quantity, t.Price, t.GemsAwarded, t.Timestamp).Scan(&t.ID)
	if err != nil {
		return fmt.Errorf("failed to insert trade: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		t.ID = 0
		return fmt.Errorf("failed to commit trade: %w", err)
	}

	return nil
}

// GetByID retrieves a trade by ID
func (r *TradeRepositoryImpl) GetByID(ctx context.Context, id int64) (*domain.Trade, error) {
	trade, err := scanTrade(r.db.QueryRow(ctx, `SELECT `+tradeColumns+` FROM trades WHERE id = $1`, id))
	if isNoRows(err) {
		return nil, domain.NotFound(domain.EntityTrade, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get trade by ID: %w", err)
	}

	return trade, nil
}

// GetAll retrieves the full ledger
func (r *TradeRepositoryImpl) GetAll(ctx context.Context) ([]*domain.Trade, error) {
	return r.list(ctx, `SELECT `+tradeColumns+` FROM trades ORDER BY id ASC`)
}

// GetByUserID retrieves trades of one user
func (r *TradeRepositoryImpl) GetByUserID(ctx context.Context, userID int64) ([]*domain.Trade, error) {
	return r.list(ctx, `SELECT `+tradeColumns+` FROM trades WHERE user_id = $1 ORDER BY id ASC`, userID)
}

// GetByPortfolioID retrieves trades of one portfolio
func (r *TradeRepositoryImpl) GetByPortfolioID(ctx context.Context, portfolioID int64) ([]*domain.Trade, error) {
	return r.list(ctx, `SELECT `+tradeColumns+` FROM trades WHERE portfolio_id = $1 ORDER BY id ASC`, portfolioID)
}

func (r *TradeRepositoryImpl) list(ctx context.Context, query string, args ...any) ([]*domain.Trade, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query trades: %w", err)
	}
	defer rows.Close()

	trades := make([]*domain.Trade, 0)
	for rows.Next() {
		trade, err := scanTrade(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan trade: %w", err)
		}
		trades = append(trades, trade)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating trades: %w", err)
	}

	return trades, nil
}

func scanTrade(row pgx.Row) (*domain.Trade, error) {
	t := &domain.Trade{}
	var side string
	err := row.Scan(
		&t.ID,
		&t.UserID,
		&t.PortfolioID,
		&t.AssetID,
		&side,
		&t.Quantity,
		&t.Price,
		&t.GemsAwarded,
		&t.Timestamp,
	)
	if err != nil {
		return nil, err
	}
	t.Side = domain.TradeSide(side)
	return t, nil
}
