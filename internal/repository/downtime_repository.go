package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fieldworks/maintenance-service/internal/domain"
)

// DowntimeFilter defines query params for downtime listing.
type DowntimeFilter struct {
	AssetID     *string
	AssetIDs    []string
	StartedFrom *time.Time
	StartedTo   *time.Time
	Limit       int
	Offset      int
}

// DowntimeRepository handles persistence for asset downtime intervals.
type DowntimeRepository interface {
	Create(ctx context.Context, downtime *domain.AssetDowntime) error
	Update(ctx context.Context, downtime *domain.AssetDowntime) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*domain.AssetDowntime, error)
	ListWithFilter(ctx context.Context, filter DowntimeFilter) ([]domain.AssetDowntime, error)
}

type downtimeRepository struct {
	pool *pgxpool.Pool
}

// NewDowntimeRepository instantiates the repository.
func NewDowntimeRepository(pool *pgxpool.Pool) DowntimeRepository {
	return &downtimeRepository{pool: pool}
}

const downtimeColumns = `id, asset_id, started_at, ended_at, reason, created_at, updated_at`

func (r *downtimeRepository) Create(ctx context.Context, downtime *domain.AssetDowntime) error {
	const query = `
        INSERT INTO asset_downtime (asset_id, started_at, ended_at, reason)
        VALUES ($1,$2,$3,$4)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		downtime.AssetID,
		downtime.StartedAt,
		downtime.EndedAt,
		downtime.Reason,
	).Scan(&downtime.ID, &downtime.CreatedAt, &downtime.UpdatedAt)
}

func (r *downtimeRepository) Update(ctx context.Context, downtime *domain.AssetDowntime) error {
	const query = `
        UPDATE asset_downtime
        SET started_at=$1, ended_at=$2, reason=$3, updated_at=NOW()
        WHERE id=$4`
	cmd, err := r.pool.Exec(ctx, query,
		downtime.StartedAt,
		downtime.EndedAt,
		downtime.Reason,
		downtime.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *downtimeRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM asset_downtime WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *downtimeRepository) GetByID(ctx context.Context, id string) (*domain.AssetDowntime, error) {
	query := fmt.Sprintf(`SELECT %s FROM asset_downtime WHERE id=$1`, downtimeColumns)
	var downtime domain.AssetDowntime
	if err := r.pool.QueryRow(ctx, query, id).Scan(downtimeScanDest(&downtime)...); err != nil {
		return nil, err
	}
	return &downtime, nil
}

func (r *downtimeRepository) ListWithFilter(ctx context.Context, filter DowntimeFilter) ([]domain.AssetDowntime, error) {
	clauses := []string{"1=1"}
	args := []any{}

	if filter.AssetID != nil {
		args = append(args, *filter.AssetID)
		clauses = append(clauses, fmt.Sprintf("asset_id=$%d", len(args)))
	}
	if len(filter.AssetIDs) > 0 {
		placeholders := make([]string, len(filter.AssetIDs))
		for i, id := range filter.AssetIDs {
			args = append(args, id)
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		clauses = append(clauses, fmt.Sprintf("asset_id IN (%s)", strings.Join(placeholders, ",")))
	}
	if filter.StartedFrom != nil {
		args = append(args, *filter.StartedFrom)
		clauses = append(clauses, fmt.Sprintf("started_at >= $%d", len(args)))
	}
	if filter.StartedTo != nil {
		args = append(args, *filter.StartedTo)
		clauses = append(clauses, fmt.Sprintf("started_at <= $%d", len(args)))
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	query := fmt.Sprintf(`SELECT %s FROM asset_downtime WHERE %s ORDER BY started_at DESC LIMIT %d OFFSET %d`,
		downtimeColumns, strings.Join(clauses, " AND "), limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.AssetDowntime
	for rows.Next() {
		var downtime domain.AssetDowntime
		if err := rows.Scan(downtimeScanDest(&downtime)...); err != nil {
			return nil, err
		}
		result = append(result, downtime)
	}
	return result, rows.Err()
}

func downtimeScanDest(d *domain.AssetDowntime) []any {
	return []any{
		&d.ID,
		&d.AssetID,
		&d.StartedAt,
		&d.EndedAt,
		&d.Reason,
		&d.CreatedAt,
		&d.UpdatedAt,
	}
}
