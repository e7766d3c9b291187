package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"gemtrader/internal/domain"
)

// AssetTradeCount is the number of trades recorded for an asset
type AssetTradeCount struct {
	AssetID int64 `json:"asset_id"`
	Trades  int   `json:"trades"`
}

// AssetAmount is a decimal aggregate keyed by asset
type AssetAmount struct {
	AssetID int64           `json:"asset_id"`
	Amount  decimal.Decimal `json:"amount"`
}

// UserAmount is a decimal aggregate keyed by user
type UserAmount struct {
	UserID int64           `json:"user_id"`
	Amount decimal.Decimal `json:"amount"`
}

// AnalyticsService answers aggregate questions by scanning the trade ledger and portfolios
type AnalyticsService struct {
	tradeRepo     domain.TradeRepository
	portfolioRepo domain.PortfolioRepository
}

// NewAnalyticsService creates a new AnalyticsService
func NewAnalyticsService(tradeRepo domain.TradeRepository, portfolioRepo domain.PortfolioRepository) *AnalyticsService {
	return &AnalyticsService{tradeRepo: tradeRepo, portfolioRepo: portfolioRepo}
}

// MostTradedAssets counts trades per asset, most traded first
func (s *AnalyticsService) MostTradedAssets(ctx context.Context) ([]AssetTradeCount, error) {
	trades, err := s.tradeRepo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load trades: %w", err)
	}

	counts := make(map[int64]int)
	for _, t := range trades {
		counts[t.AssetID]++
	}

	out := make([]AssetTradeCount, 0, len(counts))
	for id, n := range counts {
		out = append(out, AssetTradeCount{AssetID: id, Trades: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Trades != out[j].Trades {
			return out[i].Trades > out[j].Trades
		}
		return out[i].AssetID < out[j].AssetID
	})

	return out, nil
}

// TradingVolumeByAsset sums traded quantity per asset, both sides included
func (s *AnalyticsService) TradingVolumeByAsset(ctx context.Context) ([]AssetAmount, error) {
	trades, err := s.tradeRepo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load trades: %w", err)
	}

	volumes := make(map[int64]decimal.Decimal)
	for _, t := range trades {
		volumes[t.AssetID] = volumes[t.AssetID].Add(t.Quantity)
	}

	return sortedAssetAmounts(volumes), nil
}

// AverageTradeSizeByUser averages quantity × price over each user's trades
func (s *AnalyticsService) AverageTradeSizeByUser(ctx context.Context) ([]UserAmount, error) {
	trades, err := s.tradeRepo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load trades: %w", err)
	}

	sums := make(map[int64]decimal.Decimal)
	counts := make(map[int64]int64)
	for _, t := range trades {
		sums[t.UserID] = sums[t.UserID].Add(t.TotalAmount())
		counts[t.UserID]++
	}

	out := make([]UserAmount, 0, len(sums))
	for id, sum := range sums {
		out = append(out, UserAmount{UserID: id, Amount: sum.Div(decimal.NewFromInt(counts[id]))})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UserID < out[j].UserID })

	return out, nil
}

// PortfolioPerformance sums quantity × price per asset over a user's trades made after since
func (s *AnalyticsService) PortfolioPerformance(ctx context.Context, userID int64, since time.Time) ([]AssetAmount, error) {
	trades, err := s.tradeRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load trades for user %d: %w", userID, err)
	}

	totals := make(map[int64]decimal.Decimal)
	for _, t := range trades {
		if !t.Timestamp.After(since) {
			continue
		}
		totals[t.AssetID] = totals[t.AssetID].Add(t.TotalAmount())
	}

	return sortedAssetAmounts(totals), nil
}

// HighestPortfolioValues sums every user's holdings at reference price, richest first
func (s *AnalyticsService) HighestPortfolioValues(ctx context.Context) ([]UserAmount, error) {
	portfolios, err := s.portfolioRepo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load portfolios: %w", err)
	}

	values := make(map[int64]decimal.Decimal)
	for _, p := range portfolios {
		values[p.UserID] = values[p.UserID].Add(p.TotalValue())
	}

	out := make([]UserAmount, 0, len(values))
	for id, v := range values {
		out = append(out, UserAmount{UserID: id, Amount: v})
	}
	sort.Slice(out, func(i, j int) bool {
		if c := out[i].Amount.Cmp(out[j].Amount); c != 0 {
			return c > 0
		}
		return out[i].UserID < out[j].UserID
	})

	return out, nil
}

func sortedAssetAmounts(m map[int64]decimal.Decimal) []AssetAmount {
	out := make([]AssetAmount, 0, len(m))
	for id, v := range m {
		out = append(out, AssetAmount{AssetID: id, Amount: v})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].AssetID < out[j].AssetID })
	return out
}
