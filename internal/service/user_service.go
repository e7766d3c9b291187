package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"gemtrader/internal/domain"
	"gemtrader/pkg/logger"
)

// UserStats summarises one user's trading position
type UserStats struct {
	UserID         int64           `json:"user_id"`
	Username       string          `json:"username"`
	GemBalance     int64           `json:"gem_balance"`
	Rank           int             `json:"rank"`
	TotalTrades    int             `json:"total_trades"`
	PortfolioValue decimal.Decimal `json:"portfolio_value"`
}

// UserService handles user registration and lookups
type UserService struct {
	userRepo      domain.UserRepository
	portfolioRepo domain.PortfolioRepository
	ranking       *RankingService
	startingGems  int64
}

// NewUserService creates a new UserService
func NewUserService(
	userRepo domain.UserRepository,
	portfolioRepo domain.PortfolioRepository,
	ranking *RankingService,
	startingGems int64,
) *UserService {
	return &UserService{
		userRepo:      userRepo,
		portfolioRepo: portfolioRepo,
		ranking:       ranking,
		startingGems:  startingGems,
	}
}

// CreateUser registers a new user with the starting gem balance and reranks everyone
func (s *UserService) CreateUser(ctx context.Context, username string) (*domain.User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, domain.Validation("username is required")
	}

	if _, err := s.userRepo.GetByUsername(ctx, username); err == nil {
		return nil, domain.Validation("username already taken: %s", username)
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("failed to check username: %w", err)
	}

	user := &domain.User{
		Username:   username,
		GemBalance: s.startingGems,
		Rank:       1,
		CreatedAt:  time.Now(),
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	if err := s.ranking.Recompute(ctx); err != nil {
		logger.Error(ctx, "rank recompute after user creation failed", "user_id", user.ID, "error", err)
	}
	if rank, ok := s.ranking.Snapshot().RankOf(user.ID); ok {
		user.Rank = rank
	}

	logger.Info(ctx, "user created", "user_id", user.ID, "username", user.Username, "gems", user.GemBalance)
	return user, nil
}

// GetUser retrieves a user by ID
func (s *UserService) GetUser(ctx context.Context, id int64) (*domain.User, error) {
	return s.userRepo.GetByID(ctx, id)
}

// GetUserByUsername retrieves a user by username
func (s *UserService) GetUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	return s.userRepo.GetByUsername(ctx, strings.TrimSpace(username))
}

// ListUsers retrieves every user ordered by ID
func (s *UserService) ListUsers(ctx context.Context) ([]*domain.User, error) {
	return s.userRepo.GetAll(ctx)
}

// GetUserStats returns balance, rank and the reference value of every portfolio the user owns
func (s *UserService) GetUserStats(ctx context.Context, userID int64) (*UserStats, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	portfolios, err := s.portfolioRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load portfolios for user %d: %w", userID, err)
	}

	value := decimal.Zero
	for _, p := range portfolios {
		value = value.Add(p.TotalValue())
	}

	return &UserStats{
		UserID:         user.ID,
		Username:       user.Username,
		GemBalance:     user.GemBalance,
		Rank:           user.Rank,
		TotalTrades:    user.TotalTrades,
		PortfolioValue: value,
	}, nil
}
