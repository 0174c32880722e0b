package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fieldworks/maintenance-service/internal/domain"
)

// ActivityFilter narrows activity log reads.
type ActivityFilter struct {
	Type       *domain.ActivityType
	EntityType *string
	Limit      int
}

// ActivityLogRepository stores audit entries. Append-only: no update or
// delete is exposed.
type ActivityLogRepository interface {
	Create(ctx context.Context, entry *domain.ActivityLog) error
	List(ctx context.Context, filter ActivityFilter) ([]domain.ActivityLog, error)
}

type activityLogRepository struct {
	pool *pgxpool.Pool
}

// NewActivityLogRepository builds repository.
func NewActivityLogRepository(pool *pgxpool.Pool) ActivityLogRepository {
	return &activityLogRepository{pool: pool}
}

func (r *activityLogRepository) Create(ctx context.Context, entry *domain.ActivityLog) error {
	const query = `
        INSERT INTO activity_logs (type, message, entity_type, entity_id, metadata)
        VALUES ($1,$2,$3,$4,$5)
        RETURNING id, created_at`
	return r.pool.QueryRow(ctx, query,
		entry.Type,
		entry.Message,
		entry.EntityType,
		entry.EntityID,
		entry.Metadata,
	).Scan(&entry.ID, &entry.CreatedAt)
}

func (r *activityLogRepository) List(ctx context.Context, filter ActivityFilter) ([]domain.ActivityLog, error) {
	clauses := []string{"1=1"}
	args := []any{}

	if filter.Type != nil {
		args = append(args, *filter.Type)
		clauses = append(clauses, fmt.Sprintf("type=$%d", len(args)))
	}
	if filter.EntityType != nil {
		args = append(args, *filter.EntityType)
		clauses = append(clauses, fmt.Sprintf("entity_type=$%d", len(args)))
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}

	query := fmt.Sprintf(`
        SELECT id, type, message, entity_type, entity_id, metadata, created_at
        FROM activity_logs WHERE %s ORDER BY created_at DESC LIMIT %d`,
		strings.Join(clauses, " AND "), limit)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.ActivityLog
	for rows.Next() {
		var entry domain.ActivityLog
		if err := rows.Scan(
			&entry.ID,
			&entry.Type,
			&entry.Message,
			&entry.EntityType,
			&entry.EntityID,
			&entry.Metadata,
			&entry.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, entry)
	}
	return result, rows.Err()
}
