package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"gemtrader/internal/domain"
	"gemtrader/pkg/logger"
	"gemtrader/pkg/metrics"
)

// Price drift defaults
var (
	DefaultMaxPriceChange = decimal.RequireFromString("0.05")
	MinAssetPrice         = decimal.RequireFromString("0.01")
	MaxAssetPrice         = domain.MaxPrice.Sub(MinAssetPrice)
)

const priceScale = 2

// AssetPriceService moves every asset price by a bounded random step.
// It only ever touches assets and never takes user locks.
type AssetPriceService struct {
	assetRepo domain.AssetRepository
	metrics   *metrics.Metrics
	maxChange decimal.Decimal
	now       func() time.Time

	mu  sync.Mutex
	rng *rand.Rand
}

// NewAssetPriceService creates a new AssetPriceService; maxChange is a fraction (0.05 = ±5%)
func NewAssetPriceService(assetRepo domain.AssetRepository, m *metrics.Metrics, maxChange decimal.Decimal, rng *rand.Rand) *AssetPriceService {
	if !maxChange.IsPositive() {
		maxChange = DefaultMaxPriceChange
	}
	if rng == nil {
		rng = rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0x9e3779b97f4a7c15))
	}
	return &AssetPriceService{
		assetRepo: assetRepo,
		metrics:   m,
		maxChange: maxChange,
		now:       time.Now,
		rng:       rng,
	}
}

// DriftPrices applies one random step to every asset
func (s *AssetPriceService) DriftPrices(ctx context.Context) error {
	assets, err := s.assetRepo.GetAll(ctx)
	if err != nil {
		s.metrics.PriceDriftRunsTotal.WithLabelValues("error").Inc()
		return fmt.Errorf("failed to load assets: %w", err)
	}

	var errs []error
	for _, asset := range assets {
		next := s.nextPrice(asset.CurrentPrice)
		if err := s.assetRepo.UpdatePrice(ctx, asset.ID, next, s.now()); err != nil {
			errs = append(errs, fmt.Errorf("failed to update price of %s: %w", asset.Symbol, err))
			continue
		}
		logger.Debug(ctx, "asset price drifted",
			"symbol", asset.Symbol,
			"from", asset.CurrentPrice.String(),
			"to", next.String(),
		)
	}

	if err := errors.Join(errs...); err != nil {
		s.metrics.PriceDriftRunsTotal.WithLabelValues("error").Inc()
		return err
	}

	s.metrics.PriceDriftRunsTotal.WithLabelValues("ok").Inc()
	logger.Info(ctx, "asset prices drifted", "assets", len(assets))
	return nil
}

// nextPrice returns price × (1 + u·maxChange) with u uniform in [-1, 1),
// clamped to [MinAssetPrice, MaxAssetPrice] and rounded to two decimals
func (s *AssetPriceService) nextPrice(price decimal.Decimal) decimal.Decimal {
	s.mu.Lock()
	u := s.rng.Float64()*2 - 1
	s.mu.Unlock()

	change := price.Mul(s.maxChange).Mul(decimal.NewFromFloat(u))
	next := decimal.Min(decimal.Max(price.Add(change), MinAssetPrice), MaxAssetPrice)
	return next.Round(priceScale)
}
