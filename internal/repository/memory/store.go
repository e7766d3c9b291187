// Package memory provides process-local implementations of the domain repositories.
// Each table has its own lock, so single-key reads and writes are atomic; CommitTrade is the
// only operation spanning several tables.
package memory

import (
	"context"
	"sync"

	"gemtrader/internal/domain"
)

var _ domain.TradeLedger = (*Store)(nil)

// Store holds every table of the in-memory backend
type Store struct {
	userMu    sync.RWMutex
	users     map[int64]*domain.User
	usernames map[string]int64
	userSeq   int64

	assetMu  sync.RWMutex
	assets   map[int64]*domain.Asset
	symbols  map[string]int64
	assetSeq int64

	portfolioMu  sync.RWMutex
	portfolios   map[int64]*domain.Portfolio
	portfolioSeq int64

	tradeMu  sync.RWMutex
	trades   []*domain.Trade
	tradeSeq int64
}

// NewStore creates an empty Store
func NewStore() *Store {
	return &Store{
		users:      make(map[int64]*domain.User),
		usernames:  make(map[string]int64),
		assets:     make(map[int64]*domain.Asset),
		symbols:    make(map[string]int64),
		portfolios: make(map[int64]*domain.Portfolio),
	}
}

// Users returns the user table as a domain.UserRepository
func (s *Store) Users() domain.UserRepository { return &userRepository{s: s} }

// Assets returns the asset table as a domain.AssetRepository
func (s *Store) Assets() domain.AssetRepository { return &assetRepository{s: s} }

// Portfolios returns the portfolio table as a domain.PortfolioRepository
func (s *Store) Portfolios() domain.PortfolioRepository { return &portfolioRepository{s: s} }

// Trades returns the ledger as a domain.TradeRepository
func (s *Store) Trades() domain.TradeRepository { return &tradeRepository{s: s} }

// CommitTrade applies the user, holding and trade writes of one trade.
// Tables are always locked in portfolio, user, trade order.
func (s *Store) CommitTrade(_ context.Context, c *domain.TradeCommit) error {
	s.portfolioMu.Lock()
	defer s.portfolioMu.Unlock()
	s.userMu.Lock()
	defer s.userMu.Unlock()
	s.tradeMu.Lock()
	defer s.tradeMu.Unlock()

	portfolio, ok := s.portfolios[c.Holding.PortfolioID]
	if !ok {
		return domain.NotFound(domain.EntityPortfolio, c.Holding.PortfolioID)
	}
	user, ok := s.users[c.User.ID]
	if !ok {
		return domain.NotFound(domain.EntityUser, c.User.ID)
	}

	portfolio.ApplyHolding(c.Holding)

	user.GemBalance = c.User.GemBalance
	user.TotalTrades = c.User.TotalTrades
	user.CurrentStreak = c.User.CurrentStreak
	user.LongestStreak = c.User.LongestStreak
	user.LastTradeTime = c.User.Clone().LastTradeTime

	s.tradeSeq++
	c.Trade.ID = s.tradeSeq
	stored := *c.Trade
	s.trades = append(s.trades, &stored)

	return nil
}
