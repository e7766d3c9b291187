package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"gemtrader/internal/domain"
)

// AssetRepositoryImpl implements the AssetRepository interface
type AssetRepositoryImpl struct {
	db *pgxpool.Pool
}

// NewAssetRepository creates a new AssetRepository
func NewAssetRepository(db *pgxpool.Pool) domain.AssetRepository {
	return &AssetRepositoryImpl{db: db}
}

// Create creates a new asset
func (r *AssetRepositoryImpl) Create(ctx context.Context, asset *domain.Asset) error {
	query := `
		INSERT INTO assets (symbol, name, current_price, last_updated)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`

	err := r.db.QueryRow(ctx, query,
		asset.Symbol,
		asset.Name,
		asset.CurrentPrice,
		asset.LastUpdated,
	).Scan(&asset.ID)

	if isUniqueViolation(err) {
		return domain.Validation("Asset symbol already exists: %s", asset.Symbol)
	}
	if err != nil {
		return fmt.Errorf("failed to create asset: %w", err)
	}

	return nil
}

// GetByID retrieves an asset by ID
func (r *AssetRepositoryImpl) GetByID(ctx context.Context, id int64) (*domain.Asset, error) {
	query := `SELECT id, symbol, name, current_price, last_updated FROM assets WHERE id = $1`

	asset, err := scanAsset(r.db.QueryRow(ctx, query, id))
	if isNoRows(err) {
		return nil, domain.NotFound(domain.EntityAsset, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get asset by ID: %w", err)
	}

	return asset, nil
}

// GetBySymbol retrieves an asset by symbol
func (r *AssetRepositoryImpl) GetBySymbol(ctx context.Context, symbol string) (*domain.Asset, error) {
	query := `SELECT id, symbol, name, current_price, last_updated FROM assets WHERE symbol = $1`

	asset, err := scanAsset(r.db.QueryRow(ctx, query, symbol))
	if isNoRows(err) {
		return nil, domain.NotFound(domain.EntityAsset, symbol)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get asset by symbol: %w", err)
	}

	return asset, nil
}

// GetAll retrieves all assets
func (r *AssetRepositoryImpl) GetAll(ctx context.Context) ([]*domain.Asset, error) {
	rows, err := r.db.Query(ctx, `SELECT id, symbol, name, current_price, last_updated FROM assets ORDER BY id ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query assets: %w", err)
	}
	defer rows.Close()

	var assets []*domain.Asset
	for rows.Next() {
		asset, err := scanAsset(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan asset: %w", err)
		}
		assets = append(assets, asset)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating assets: %w", err)
	}

	return assets, nil
}

// UpdatePrice updates an asset's current price
func (r *AssetRepositoryImpl) UpdatePrice(ctx context.Context, id int64, price decimal.Decimal, at time.Time) error {
	tag, err := r.db.Exec(ctx, `UPDATE assets SET current_price = $1, last_updated = $2 WHERE id = $3`, price, at, id)
	if err != nil {
		return fmt.Errorf("failed to update asset price: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.NotFound(domain.EntityAsset, id)
	}

	return nil
}

func scanAsset(row pgx.Row) (*domain.Asset, error) {
	asset := &domain.Asset{}
	if err := row.Scan(&asset.ID, &asset.Symbol, &asset.Name, &asset.CurrentPrice, &asset.LastUpdated); err != nil {
		return nil, err
	}
	return asset, nil
}
