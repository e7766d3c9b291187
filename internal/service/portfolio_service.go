package service

import (
	"context"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"gemtrader/internal/domain"
	"gemtrader/pkg/logger"
)

// PortfolioService handles portfolio creation and lookups
type PortfolioService struct {
	portfolioRepo domain.PortfolioRepository
	userRepo      domain.UserRepository
}

// NewPortfolioService creates a new PortfolioService
func NewPortfolioService(portfolioRepo domain.PortfolioRepository, userRepo domain.UserRepository) *PortfolioService {
	return &PortfolioService{portfolioRepo: portfolioRepo, userRepo: userRepo}
}

// CreatePortfolio opens an empty portfolio for an existing user
func (s *PortfolioService) CreatePortfolio(ctx context.Context, userID int64, name string) (*domain.Portfolio, error) {
	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		return nil, err
	}

	name = strings.TrimSpace(name)
	if name == "" {
		name = domain.DefaultPortfolioName
	}

	portfolio := &domain.Portfolio{
		UserID:    userID,
		Name:      name,
		Holdings:  []domain.PortfolioHolding{},
		CreatedAt: time.Now(),
	}
	if err := s.portfolioRepo.Create(ctx, portfolio); err != nil {
		return nil, err
	}

	logger.Info(ctx, "portfolio created", "portfolio_id", portfolio.ID, "user_id", userID, "name", name)
	return portfolio, nil
}

// GetPortfolio retrieves a portfolio with its holdings
func (s *PortfolioService) GetPortfolio(ctx context.Context, id int64) (*domain.Portfolio, error) {
	return s.portfolioRepo.GetByID(ctx, id)
}

// GetPortfolioValue sums quantity × reference price over a portfolio's holdings
func (s *PortfolioService) GetPortfolioValue(ctx context.Context, id int64) (decimal.Decimal, error) {
	portfolio, err := s.portfolioRepo.GetByID(ctx, id)
	if err != nil {
		return decimal.Zero, err
	}
	return portfolio.TotalValue(), nil
}

// GetUserPortfolios retrieves all portfolios owned by a user
func (s *PortfolioService) GetUserPortfolios(ctx context.Context, userID int64) ([]*domain.Portfolio, error) {
	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		return nil, err
	}
	portfolios, err := s.portfolioRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if portfolios == nil {
		portfolios = []*domain.Portfolio{}
	}
	return portfolios, nil
}
