package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fieldworks/maintenance-service/internal/domain"
)

// AssetFilter defines query params for asset listing.
type AssetFilter struct {
	LocationID  *string
	Criticality *domain.AssetCriticality
	Status      *domain.AssetStatus
	SearchTerm  *string
	Limit       int
	Offset      int
}

// AssetRepository handles persistence for assets.
type AssetRepository interface {
	Create(ctx context.Context, asset *domain.Asset) error
	Update(ctx context.Context, asset *domain.Asset) error
	GetByID(ctx context.Context, id string) (*domain.Asset, error)
	List(ctx context.Context, filter AssetFilter) ([]domain.Asset, error)
}

type assetRepository struct {
	pool *pgxpool.Pool
}

// NewAssetRepository instantiates the repository.
func NewAssetRepository(pool *pgxpool.Pool) AssetRepository {
	return &assetRepository{pool: pool}
}

const assetColumns = `id, name, asset_tag, type, location_id, criticality, status, last_maintenance_at, next_maintenance_due, created_at, updated_at`

func (r *assetRepository) Create(ctx context.Context, asset *domain.Asset) error {
	const query = `
        INSERT INTO assets (name, asset_tag, type, location_id, criticality, status, last_maintenance_at, next_maintenance_due)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		asset.Name,
		asset.AssetTag,
		asset.Type,
		asset.LocationID,
		asset.Criticality,
		asset.Status,
		asset.LastMaintenanceAt,
		asset.NextMaintenanceDue,
	).Scan(&asset.ID, &asset.CreatedAt, &asset.UpdatedAt)
}

func (r *assetRepository) Update(ctx context.Context, asset *domain.Asset) error {
	const query = `
        UPDATE assets
        SET name=$1, asset_tag=$2, type=$3, location_id=$4, criticality=$5, status=$6,
            last_maintenance_at=$7, next_maintenance_due=$8, updated_at=NOW()
        WHERE id=$9`
	cmd, err := r.pool.Exec(ctx, query,
		asset.Name,
		asset.AssetTag,
		asset.Type,
		asset.LocationID,
		asset.Criticality,
		asset.Status,
		asset.LastMaintenanceAt,
		asset.NextMaintenanceDue,
		asset.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *assetRepository) GetByID(ctx context.Context, id string) (*domain.Asset, error) {
	query := fmt.Sprintf(`SELECT %s FROM assets WHERE id=$1`, assetColumns)
	var asset domain.Asset
	if err := r.pool.QueryRow(ctx, query, id).Scan(assetScanDest(&asset)...); err != nil {
		return nil, err
	}
	return &asset, nil
}

func (r *assetRepository) List(ctx context.Context, filter AssetFilter) ([]domain.Asset, error) {
	clauses := []string{"1=1"}
	args := []any{}

	if filter.LocationID != nil {
		args = append(args, *filter.LocationID)
		clauses = append(clauses, fmt.Sprintf("location_id=$%d", len(args)))
	}
	if filter.Criticality != nil {
		args = append(args, *filter.Criticality)
		clauses = append(clauses, fmt.Sprintf("criticality=$%d", len(args)))
	}
	if filter.Status != nil {
		args = append(args, *filter.Status)
		clauses = append(clauses, fmt.Sprintf("status=$%d", len(args)))
	}
	if filter.SearchTerm != nil && strings.TrimSpace(*filter.SearchTerm) != "" {
		search := "%" + strings.ToLower(strings.TrimSpace(*filter.SearchTerm)) + "%"
		args = append(args, search)
		placeholder := fmt.Sprintf("$%d", len(args))
		clauses = append(clauses, fmt.Sprintf("(LOWER(name) LIKE %s OR LOWER(asset_tag) LIKE %s)", placeholder, placeholder))
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	query := fmt.Sprintf(`SELECT %s FROM assets WHERE %s ORDER BY name ASC LIMIT %d OFFSET %d`,
		assetColumns, strings.Join(clauses, " AND "), limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanAssets(rows)
}

func assetScanDest(a *domain.Asset) []any {
	return []any{
		&a.ID,
		&a.Name,
		&a.AssetTag,
		&a.Type,
		&a.LocationID,
		&a.Criticality,
		&a.Status,
		&a.LastMaintenanceAt,
		&a.NextMaintenanceDue,
		&a.CreatedAt,
		&a.UpdatedAt,
	}
}

func scanAssets(rows pgx.Rows) ([]domain.Asset, error) {
	var result []domain.Asset
	for rows.Next() {
		var asset domain.Asset
		if err := rows.Scan(assetScanDest(&asset)...); err != nil {
			return nil, err
		}
		result = append(result, asset)
	}
	return result, rows.Err()
}
