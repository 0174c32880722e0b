package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fieldworks/maintenance-service/internal/domain"
)

// LocationRepository handles persistence for sites.
type LocationRepository interface {
	Create(ctx context.Context, location *domain.Location) error
	GetByID(ctx context.Context, id string) (*domain.Location, error)
	List(ctx context.Context, includeInactive bool) ([]domain.Location, error)
}

type locationRepository struct {
	pool *pgxpool.Pool
}

// NewLocationRepository instantiates the repository.
func NewLocationRepository(pool *pgxpool.Pool) LocationRepository {
	return &locationRepository{pool: pool}
}

func (r *locationRepository) Create(ctx context.Context, location *domain.Location) error {
	const query = `
        INSERT INTO locations (name, code, address, city, country, is_active)
        VALUES ($1,$2,$3,$4,$5,$6)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		location.Name,
		location.Code,
		location.Address,
		location.City,
		location.Country,
		location.IsActive,
	).Scan(&location.ID, &location.CreatedAt, &location.UpdatedAt)
}

func (r *locationRepository) GetByID(ctx context.Context, id string) (*domain.Location, error) {
	const query = `
        SELECT id, name, code, address, city, country, is_active, created_at, updated_at
        FROM locations WHERE id=$1`
	var location domain.Location
	if err := r.pool.QueryRow(ctx, query, id).Scan(locationScanDest(&location)...); err != nil {
		return nil, err
	}
	return &location, nil
}

func (r *locationRepository) List(ctx context.Context, includeInactive bool) ([]domain.Location, error) {
	query := `
        SELECT id, name, code, address, city, country, is_active, created_at, updated_at
        FROM locations`
	if !includeInactive {
		query += ` WHERE is_active=TRUE`
	}
	query += ` ORDER BY name ASC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Location
	for rows.Next() {
		var location domain.Location
		if err := rows.Scan(locationScanDest(&location)...); err != nil {
			return nil, err
		}
		result = append(result, location)
	}
	return result, rows.Err()
}

func locationScanDest(l *domain.Location) []any {
	return []any{
		&l.ID,
		&l.Name,
		&l.Code,
		&l.Address,
		&l.City,
		&l.Country,
		&l.IsActive,
		&l.CreatedAt,
		&l.UpdatedAt,
	}
}
