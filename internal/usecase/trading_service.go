package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"gemtrader/internal/domain"
	"gemtrader/pkg/logger"
	"gemtrader/pkg/metrics"
)

// RankRecomputer reranks every user after a gem balance change
type RankRecomputer interface {
	Recompute(ctx context.Context) error
}

// TradeRequest is one BUY or SELL against a portfolio
type TradeRequest struct {
	PortfolioID int64
	AssetID     int64
	Quantity    decimal.Decimal
	Price       decimal.Decimal
	Side        domain.TradeSide
}

// TradingService executes trades: holdings, gems, streaks, the ledger entry and reranking
// happen as one transition per user
type TradingService struct {
	portfolioRepo domain.PortfolioRepository
	userRepo      domain.UserRepository
	tradeRepo     domain.TradeRepository
	ledger        domain.TradeLedger
	assets        domain.AssetDirectory
	ranking       RankRecomputer
	metrics       *metrics.Metrics

	streakWindow time.Duration
	now          func() time.Time
	locks        *userLocks
}

// NewTradingService creates a new TradingService
func NewTradingService(
	portfolioRepo domain.PortfolioRepository,
	userRepo domain.UserRepository,
	tradeRepo domain.TradeRepository,
	ledger domain.TradeLedger,
	assets domain.AssetDirectory,
	ranking RankRecomputer,
	m *metrics.Metrics,
	streakWindow time.Duration,
) *TradingService {
	if streakWindow <= 0 {
		streakWindow = domain.DefaultStreakWindow
	}
	return &TradingService{
		portfolioRepo: portfolioRepo,
		userRepo:      userRepo,
		tradeRepo:     tradeRepo,
		ledger:        ledger,
		assets:        assets,
		ranking:       ranking,
		metrics:       m,
		streakWindow:  streakWindow,
		now:           time.Now,
		locks:         newUserLocks(),
	}
}

// ExecuteTrade runs one trade end-to-end and returns the persisted ledger entry.
// A failed trade leaves balance, holdings and trade count untouched.
func (ts *TradingService) ExecuteTrade(ctx context.Context, req TradeRequest) (*domain.Trade, error) {
	start := time.Now()

	trade, err := ts.execute(ctx, req)

	ts.metrics.TradeDuration.Observe(time.Since(start).Seconds())
	ts.metrics.TradesTotal.WithLabelValues(sideLabel(req.Side), resultLabel(err)).Inc()
	if err != nil {
		logger.Warn(ctx, "trade rejected",
			"portfolio_id", req.PortfolioID,
			"asset_id", req.AssetID,
			"side", string(req.Side),
			"quantity", req.Quantity.String(),
			"price", req.Price.String(),
			"error", err,
		)
		return nil, err
	}

	ts.metrics.GemsAwardedTotal.Add(float64(trade.GemsAwarded))
	logger.Info(ctx, "trade executed",
		"trade_id", trade.ID,
		"user_id", trade.UserID,
		"portfolio_id", trade.PortfolioID,
		"asset_id", trade.AssetID,
		"side", string(trade.Side),
		"quantity", trade.Quantity.String(),
		"price", trade.Price.String(),
		"gems_awarded", trade.GemsAwarded,
	)
	return trade, nil
}

func (ts *TradingService) execute(ctx context.Context, req TradeRequest) (*domain.Trade, error) {
	side := domain.TradeSide(strings.ToUpper(string(req.Side)))
	if !side.Valid() {
		return nil, domain.Validation("Invalid trade type: %s", req.Side)
	}
	if err := domain.CheckQuantity(req.Quantity); err != nil {
		return nil, err
	}
	if err := domain.CheckPrice(req.Price); err != nil {
		return nil, err
	}
	cost, err := domain.GemCost(req.Quantity, req.Price)
	if err != nil {
		return nil, err
	}

	portfolio, err := ts.portfolioRepo.GetByID(ctx, req.PortfolioID)
	if err != nil {
		return nil, err
	}

	unlock := ts.locks.Lock(portfolio.UserID)
	defer unlock()

	// Once the user is locked the trade runs to completion regardless of the caller.
	ctx = context.WithoutCancel(ctx)

	// Re-read under the lock; holdings may have changed while waiting.
	portfolio, err = ts.portfolioRepo.GetByID(ctx, req.PortfolioID)
	if err != nil {
		return nil, err
	}
	user, err := ts.userRepo.GetByID(ctx, portfolio.UserID)
	if err != nil {
		return nil, err
	}
	exists, err := ts.assets.Exists(ctx, req.AssetID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up asset: %w", err)
	}
	if !exists {
		return nil, domain.NotFound(domain.EntityAsset, req.AssetID)
	}

	now := ts.now()

	if side == domain.SideBuy && user.GemBalance < cost {
		return nil, domain.InsufficientFunds(cost, user.GemBalance)
	}

	holding, err := nextHolding(portfolio, req, side, now)
	if err != nil {
		return nil, err
	}

	delta := cost
	if side == domain.SideBuy {
		delta = -cost
	}
	balance, err := domain.AddGems(user.GemBalance, delta)
	if err != nil {
		return nil, err
	}
	user.UpdateStreak(now, ts.streakWindow)
	user.TotalTrades++
	gems := domain.GemsForTrade(user.CurrentStreak, user.TotalTrades)
	if user.GemBalance, err = domain.AddGems(balance, int64(gems)); err != nil {
		return nil, err
	}

	trade := &domain.Trade{
		UserID:      user.ID,
		PortfolioID: portfolio.ID,
		AssetID:     req.AssetID,
		Side:        side,
		Quantity:    req.Quantity,
		Price:       req.Price,
		GemsAwarded: gems,
		Timestamp:   now,
	}

	if err := ts.ledger.CommitTrade(ctx, &domain.TradeCommit{User: user, Holding: holding, Trade: trade}); err != nil {
		return nil, fmt.Errorf("failed to commit trade: %w", err)
	}

	if err := ts.ranking.Recompute(ctx); err != nil {
		logger.Error(ctx, "rank recompute after trade failed", "trade_id", trade.ID, "error", err)
	}

	return trade, nil
}

// nextHolding returns the post-trade holding; a zero quantity means the holding is removed
func nextHolding(p *domain.Portfolio, req TradeRequest, side domain.TradeSide, now time.Time) (domain.PortfolioHolding, error) {
	current, held := p.Holding(req.AssetID)

	if side == domain.SideBuy {
		if !held {
			current = domain.PortfolioHolding{PortfolioID: p.ID, AssetID: req.AssetID}
		}
		current.Quantity = current.Quantity.Add(req.Quantity)
		if err := domain.CheckQuantity(current.Quantity); err != nil {
			return domain.PortfolioHolding{}, err
		}
		current.AveragePrice = req.Price
		current.LastTraded = now
		return current, nil
	}

	if !held || current.Quantity.LessThan(req.Quantity) {
		return domain.PortfolioHolding{}, domain.InsufficientAssetQuantity(req.Quantity.String(), current.Quantity.String())
	}
	current.Quantity = current.Quantity.Sub(req.Quantity)
	current.LastTraded = now
	return current, nil
}

// GetTrade retrieves a ledger entry by ID
func (ts *TradingService) GetTrade(ctx context.Context, id int64) (*domain.Trade, error) {
	return ts.tradeRepo.GetByID(ctx, id)
}

// GetUserTrades retrieves a user's trades ordered by ID
func (ts *TradingService) GetUserTrades(ctx context.Context, userID int64) ([]*domain.Trade, error) {
	if _, err := ts.userRepo.GetByID(ctx, userID); err != nil {
		return nil, err
	}
	return ts.tradeRepo.GetByUserID(ctx, userID)
}

// GetPortfolioTrades retrieves a portfolio's trades ordered by ID
func (ts *TradingService) GetPortfolioTrades(ctx context.Context, portfolioID int64) ([]*domain.Trade, error) {
	if _, err := ts.portfolioRepo.GetByID(ctx, portfolioID); err != nil {
		return nil, err
	}
	return ts.tradeRepo.GetByPortfolioID(ctx, portfolioID)
}

func sideLabel(side domain.TradeSide) string {
	s := domain.TradeSide(strings.ToUpper(string(side)))
	if !s.Valid() {
		return "invalid"
	}
	return string(s)
}

func resultLabel(err error) string {
	if err == nil {
		return "ok"
	}
	var de *domain.Error
	if errors.As(err, &de) {
		return strings.ToLower(string(de.Kind))
	}
	return "error"
}
