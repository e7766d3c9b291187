package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gemtrader/internal/domain"
	"gemtrader/internal/repository/memory"
	"gemtrader/pkg/metrics"
)

func newUserServices(startingGems int64) (*memory.Store, *UserService, *PortfolioService, *RankingService) {
	store := memory.NewStore()
	ranking := NewRankingService(store.Users(), metrics.New())
	users := NewUserService(store.Users(), store.Portfolios(), ranking, startingGems)
	portfolios := NewPortfolioService(store.Portfolios(), store.Users())
	return store, users, portfolios, ranking
}

func TestUserService_CreateUser(t *testing.T) {
	ctx := context.Background()
	_, users, _, ranking := newUserServices(100)

	alice, err := users.CreateUser(ctx, "  alice ")
	require.NoError(t, err)
	assert.Equal(t, "alice", alice.Username)
	assert.Equal(t, int64(100), alice.GemBalance)
	assert.Equal(t, 1, alice.Rank)
	assert.Zero(t, alice.TotalTrades)
	assert.Nil(t, alice.LastTradeTime)

	_, err = users.CreateUser(ctx, "alice")
	assert.True(t, errors.Is(err, domain.ErrValidation))

	_, err = users.CreateUser(ctx, "   ")
	assert.True(t, errors.Is(err, domain.ErrValidation))

	bob, err := users.CreateUser(ctx, "bob")
	require.NoError(t, err)
	assert.Equal(t, 1, bob.Rank, "equal balances share rank one")
	assert.Len(t, ranking.Leaderboard(), 2)

	got, err := users.GetUserByUsername(ctx, "bob")
	require.NoError(t, err)
	assert.Equal(t, bob.ID, got.ID)

	all, err := users.ListUsers(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	_, err = users.GetUser(ctx, 999)
	assert.True(t, errors.Is(err, domain.ErrUserNotFound))
}

func TestUserService_GetUserStats(t *testing.T) {
	ctx := context.Background()
	store, users, portfolios, _ := newUserServices(0)

	u, err := users.CreateUser(ctx, "carol")
	require.NoError(t, err)
	p1, err := portfolios.CreatePortfolio(ctx, u.ID, "")
	require.NoError(t, err)
	p2, err := portfolios.CreatePortfolio(ctx, u.ID, "Second")
	require.NoError(t, err)

	now := time.Now()
	for _, h := range []domain.PortfolioHolding{
		{PortfolioID: p1.ID, AssetID: 1, Quantity: decimal.RequireFromString("2"), AveragePrice: decimal.RequireFromString("10.5"), LastTraded: now},
		{PortfolioID: p2.ID, AssetID: 2, Quantity: decimal.RequireFromString("3"), AveragePrice: decimal.RequireFromString("4"), LastTraded: now},
	} {
		next := u.Clone()
		next.TotalTrades++
		u = next
		require.NoError(t, store.CommitTrade(ctx, &domain.TradeCommit{User: next, Holding: h, Trade: &domain.Trade{UserID: u.ID, PortfolioID: h.PortfolioID}}))
	}

	stats, err := users.GetUserStats(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "carol", stats.Username)
	assert.Equal(t, 2, stats.TotalTrades)
	assert.True(t, stats.PortfolioValue.Equal(decimal.RequireFromString("33")), stats.PortfolioValue.String())

	value, err := portfolios.GetPortfolioValue(ctx, p1.ID)
	require.NoError(t, err)
	assert.True(t, value.Equal(decimal.RequireFromString("21")))

	_, err = users.GetUserStats(ctx, 404)
	assert.True(t, errors.Is(err, domain.ErrUserNotFound))
}

func TestPortfolioService(t *testing.T) {
	ctx := context.Background()
	_, users, portfolios, _ := newUserServices(0)

	u, err := users.CreateUser(ctx, "dan")
	require.NoError(t, err)

	p, err := portfolios.CreatePortfolio(ctx, u.ID, " ")
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultPortfolioName, p.Name)
	assert.Empty(t, p.Holdings)

	named, err := portfolios.CreatePortfolio(ctx, u.ID, "Moonshots")
	require.NoError(t, err)
	assert.Greater(t, named.ID, p.ID)

	owned, err := portfolios.GetUserPortfolios(ctx, u.ID)
	require.NoError(t, err)
	require.Len(t, owned, 2)
	assert.Equal(t, "Moonshots", owned[1].Name)

	_, err = portfolios.CreatePortfolio(ctx, 404, "x")
	assert.True(t, errors.Is(err, domain.ErrUserNotFound))

	_, err = portfolios.GetPortfolio(ctx, 404)
	assert.True(t, errors.Is(err, domain.ErrPortfolioNotFound))

	_, err = portfolios.GetUserPortfolios(ctx, 404)
	assert.True(t, errors.Is(err, domain.ErrUserNotFound))
}
