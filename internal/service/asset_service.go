package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"gemtrader/internal/domain"
	"gemtrader/pkg/logger"
)

var _ domain.AssetDirectory = (*AssetService)(nil)

// AssetService manages the asset catalogue and answers price lookups for trading
type AssetService struct {
	assetRepo domain.AssetRepository
	now       func() time.Time
}

// NewAssetService creates a new AssetService
func NewAssetService(assetRepo domain.AssetRepository) *AssetService {
	return &AssetService{assetRepo: assetRepo, now: time.Now}
}

// CreateAsset lists a new tradable asset
func (s *AssetService) CreateAsset(ctx context.Context, symbol, name string, initialPrice decimal.Decimal) (*domain.Asset, error) {
	symbol = normalizeSymbol(symbol)
	name = strings.TrimSpace(name)

	if symbol == "" {
		return nil, domain.Validation("Symbol is required")
	}
	if name == "" {
		return nil, domain.Validation("Name is required")
	}
	if err := domain.CheckPrice(initialPrice); err != nil {
		return nil, err
	}

	asset := &domain.Asset{
		Symbol:       symbol,
		Name:         name,
		CurrentPrice: initialPrice,
		LastUpdated:  s.now(),
	}
	if err := s.assetRepo.Create(ctx, asset); err != nil {
		return nil, err
	}

	logger.Info(ctx, "asset created", "asset_id", asset.ID, "symbol", asset.Symbol, "price", asset.CurrentPrice.String())
	return asset, nil
}

// GetAsset returns an asset by ID
func (s *AssetService) GetAsset(ctx context.Context, id int64) (*domain.Asset, error) {
	return s.assetRepo.GetByID(ctx, id)
}

// GetAssetBySymbol returns an asset by symbol
func (s *AssetService) GetAssetBySymbol(ctx context.Context, symbol string) (*domain.Asset, error) {
	return s.assetRepo.GetBySymbol(ctx, normalizeSymbol(symbol))
}

// ListAssets returns the whole catalogue
func (s *AssetService) ListAssets(ctx context.Context) ([]*domain.Asset, error) {
	return s.assetRepo.GetAll(ctx)
}

// PriceOf returns the live price of an asset
func (s *AssetService) PriceOf(ctx context.Context, assetID int64) (decimal.Decimal, error) {
	asset, err := s.assetRepo.GetByID(ctx, assetID)
	if err != nil {
		return decimal.Zero, err
	}
	return asset.CurrentPrice, nil
}

// Exists reports whether the asset is listed
func (s *AssetService) Exists(ctx context.Context, assetID int64) (bool, error) {
	_, err := s.assetRepo.GetByID(ctx, assetID)
	if errors.Is(err, domain.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func normalizeSymbol(symbol string) string {
	return strings.ToUpper(strings.TrimSpace(symbol))
}
