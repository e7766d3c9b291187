package service

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gemtrader/internal/domain"
	"gemtrader/internal/repository/memory"
)

type ledgerFixture struct {
	store *memory.Store
	base  time.Time
}

func (f *ledgerFixture) commit(t *testing.T, user *domain.User, portfolioID, assetID int64, side domain.TradeSide, qty, price string, at time.Duration) {
	t.Helper()
	p, err := f.store.Portfolios().GetByID(context.Background(), portfolioID)
	require.NoError(t, err)

	h, _ := p.Holding(assetID)
	h.PortfolioID, h.AssetID = portfolioID, assetID
	q := decimal.RequireFromString(qty)
	if side == domain.SideBuy {
		h.Quantity = h.Quantity.Add(q)
		h.AveragePrice = decimal.RequireFromString(price)
	} else {
		h.Quantity = h.Quantity.Sub(q)
	}

	require.NoError(t, f.store.CommitTrade(context.Background(), &domain.TradeCommit{
		User:    user,
		Holding: h,
		Trade: &domain.Trade{
			UserID:      user.ID,
			PortfolioID: portfolioID,
			AssetID:     assetID,
			Side:        side,
			Quantity:    q,
			Price:       decimal.RequireFromString(price),
			GemsAwarded: 1,
			Timestamp:   f.base.Add(at),
		},
	}))
}

func newLedgerFixture(t *testing.T) (*ledgerFixture, []*domain.User, []*domain.Portfolio) {
	ctx := context.Background()
	f := &ledgerFixture{store: memory.NewStore(), base: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)}

	users := seedUsers(t, f.store.Users(), 1000, 1000)
	portfolios := make([]*domain.Portfolio, 0, 3)
	for _, owner := range []int64{users[0].ID, users[0].ID, users[1].ID} {
		p := &domain.Portfolio{UserID: owner, Name: "p"}
		require.NoError(t, f.store.Portfolios().Create(ctx, p))
		portfolios = append(portfolios, p)
	}

	// user 1: asset 1 ×3 trades, asset 2 ×1; user 2: asset 2 ×1
	f.commit(t, users[0], portfolios[0].ID, 1, domain.SideBuy, "2", "10", time.Minute)
	f.commit(t, users[0], portfolios[0].ID, 1, domain.SideSell, "1", "12", 2*time.Minute)
	f.commit(t, users[0], portfolios[1].ID, 1, domain.SideBuy, "4", "11", 3*time.Minute)
	f.commit(t, users[0], portfolios[1].ID, 2, domain.SideBuy, "0.5", "100", 4*time.Minute)
	f.commit(t, users[1], portfolios[2].ID, 2, domain.SideBuy, "3", "90", 5*time.Minute)

	return f, users, portfolios
}

func TestAnalyticsService_MostTradedAssets(t *testing.T) {
	f, _, _ := newLedgerFixture(t)
	svc := NewAnalyticsService(f.store.Trades(), f.store.Portfolios())

	got, err := svc.MostTradedAssets(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []AssetTradeCount{{AssetID: 1, Trades: 3}, {AssetID: 2, Trades: 2}}, got)
}

func TestAnalyticsService_TradingVolumeByAsset(t *testing.T) {
	f, _, _ := newLedgerFixture(t)
	svc := NewAnalyticsService(f.store.Trades(), f.store.Portfolios())

	got, err := svc.TradingVolumeByAsset(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.True(t, got[0].Amount.Equal(decimal.RequireFromString("7")))
	assert.True(t, got[1].Amount.Equal(decimal.RequireFromString("3.5")))
}

func TestAnalyticsService_AverageTradeSizeByUser(t *testing.T) {
	f, users, _ := newLedgerFixture(t)
	svc := NewAnalyticsService(f.store.Trades(), f.store.Portfolios())

	got, err := svc.AverageTradeSizeByUser(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 2)

	// (20 + 12 + 44 + 50) / 4
	assert.Equal(t, users[0].ID, got[0].UserID)
	assert.True(t, got[0].Amount.Equal(decimal.RequireFromString("31.5")), got[0].Amount.String())
	assert.True(t, got[1].Amount.Equal(decimal.RequireFromString("270")))
}

func TestAnalyticsService_PortfolioPerformance(t *testing.T) {
	f, users, _ := newLedgerFixture(t)
	svc := NewAnalyticsService(f.store.Trades(), f.store.Portfolios())

	// trades at exactly since are excluded
	got, err := svc.PortfolioPerformance(context.Background(), users[0].ID, f.base.Add(2*time.Minute))
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, int64(1), got[0].AssetID)
	assert.True(t, got[0].Amount.Equal(decimal.RequireFromString("44")))
	assert.True(t, got[1].Amount.Equal(decimal.RequireFromString("50")))

	none, err := svc.PortfolioPerformance(context.Background(), users[0].ID, f.base.Add(time.Hour))
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestAnalyticsService_HighestPortfolioValues(t *testing.T) {
	f, users, _ := newLedgerFixture(t)
	svc := NewAnalyticsService(f.store.Trades(), f.store.Portfolios())

	got, err := svc.HighestPortfolioValues(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 2)

	// user 2: 3 × 90; user 1: 1 × 10 + 4 × 11 + 0.5 × 100
	assert.Equal(t, users[1].ID, got[0].UserID)
	assert.True(t, got[0].Amount.Equal(decimal.RequireFromString("270")))
	assert.Equal(t, users[0].ID, got[1].UserID)
	assert.True(t, got[1].Amount.Equal(decimal.RequireFromString("104")))
}
