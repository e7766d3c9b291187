package memory

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"gemtrader/internal/domain"
)

type assetRepository struct {
	s *Store
}

func (r *assetRepository) Create(_ context.Context, asset *domain.Asset) error {
	r.s.assetMu.Lock()
	defer r.s.assetMu.Unlock()

	if _, taken := r.s.symbols[asset.Symbol]; taken {
		return domain.Validation("Asset symbol already exists: %s", asset.Symbol)
	}

	r.s.assetSeq++
	asset.ID = r.s.assetSeq
	stored := *asset
	r.s.assets[asset.ID] = &stored
	r.s.symbols[asset.Symbol] = asset.ID
	return nil
}

func (r *assetRepository) GetByID(_ context.Context, id int64) (*domain.Asset, error) {
	r.s.assetMu.RLock()
	defer r.s.assetMu.RUnlock()

	asset, ok := r.s.assets[id]
	if !ok {
		return nil, domain.NotFound(domain.EntityAsset, id)
	}
	c := *asset
	return &c, nil
}

func (r *assetRepository) GetBySymbol(_ context.Context, symbol string) (*domain.Asset, error) {
	r.s.assetMu.RLock()
	defer r.s.assetMu.RUnlock()

	id, ok := r.s.symbols[symbol]
	if !ok {
		return nil, domain.NotFound(domain.EntityAsset, symbol)
	}
	c := *r.s.assets[id]
	return &c, nil
}

func (r *assetRepository) GetAll(_ context.Context) ([]*domain.Asset, error) {
	r.s.assetMu.RLock()
	defer r.s.assetMu.RUnlock()

	assets := make([]*domain.Asset, 0, len(r.s.assets))
	for _, a := range r.s.assets {
		c := *a
		assets = append(assets, &c)
	}
	sort.Slice(assets, func(i, j int) bool { return assets[i].ID < assets[j].ID })
	return assets, nil
}

func (r *assetRepository) UpdatePrice(_ context.Context, id int64, price decimal.Decimal, at time.Time) error {
	r.s.assetMu.Lock()
	defer r.s.assetMu.Unlock()

	asset, ok := r.s.assets[id]
	if !ok {
		return domain.NotFound(domain.EntityAsset, id)
	}
	asset.CurrentPrice = price
	asset.LastUpdated = at
	return nil
}
