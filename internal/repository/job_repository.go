package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fieldworks/maintenance-service/internal/domain"
)

// ErrVersionConflict signals a lost optimistic-concurrency race on a job write.
var ErrVersionConflict = errors.New("job version conflict")

// JobFilter captures job search parameters.
type JobFilter struct {
	Statuses      []domain.JobStatus
	Priority      *domain.JobPriority
	LocationID    *string
	TechnicianID  *string
	AssetID       *string
	PlannedFrom   *time.Time
	PlannedTo     *time.Time
	DueFrom       *time.Time
	DueTo         *time.Time
	IsOverdue     *bool
	HasTechnician *bool
	SearchTerm    *string
	Limit         int
	Offset        int
}

// JobRepository encapsulates job persistence.
type JobRepository interface {
	Create(ctx context.Context, job *domain.Job) error
	// Update writes the job guarded by its Version field and increments it.
	// Returns ErrVersionConflict when another write landed first.
	Update(ctx context.Context, job *domain.Job) error
	GetByID(ctx context.Context, id string) (*domain.Job, error)
	ListWithFilter(ctx context.Context, filter JobFilter) ([]domain.Job, error)
	CountWithFilter(ctx context.Context, filter JobFilter) (int, error)
	CountByStatus(ctx context.Context) (map[domain.JobStatus]int, error)
	// MarkOverdue flips IsOverdue on every non-terminal job whose due time has
	// passed. Forward-only: it never clears the flag.
	MarkOverdue(ctx context.Context, asOf time.Time) (int64, error)
}

type jobRepository struct {
	pool *pgxpool.Pool
}

// NewJobRepository instantiates repository.
func NewJobRepository(pool *pgxpool.Pool) JobRepository {
	return &jobRepository{pool: pool}
}

const jobColumns = `id, title, description, priority, status, location_id, asset_id, technician_id,
               planned_date, scheduled_start, scheduled_end, actual_start, actual_end,
               notes, sla_hours, due_at, is_overdue, version, created_at, updated_at`

func (r *jobRepository) Create(ctx context.Context, job *domain.Job) error {
	const query = `
        INSERT INTO jobs (title, description, priority, status, location_id, asset_id, technician_id,
                          planned_date, scheduled_start, scheduled_end, actual_start, actual_end,
                          notes, sla_hours, due_at, is_overdue)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16)
        RETURNING id, version, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		job.Title,
		job.Description,
		job.Priority,
		job.Status,
		job.LocationID,
		job.AssetID,
		job.TechnicianID,
		job.PlannedDate,
		job.ScheduledStart,
		job.ScheduledEnd,
		job.ActualStart,
		job.ActualEnd,
		job.Notes,
		job.SLAHours,
		job.DueAt,
		job.IsOverdue,
	).Scan(&job.ID, &job.Version, &job.CreatedAt, &job.UpdatedAt)
}

func (r *jobRepository) Update(ctx context.Context, job *domain.Job) error {
	const query = `
        UPDATE jobs SET title=$1, description=$2, priority=$3, status=$4, location_id=$5,
            asset_id=$6, technician_id=$7, planned_date=$8, scheduled_start=$9, scheduled_end=$10,
            actual_start=$11, actual_end=$12, notes=$13, sla_hours=$14, due_at=$15, is_overdue=$16,
            version=version+1, updated_at=NOW()
        WHERE id=$17 AND version=$18`
	cmd, err := r.pool.Exec(ctx, query,
		job.Title,
		job.Description,
		job.Priority,
		job.Status,
		job.LocationID,
		job.AssetID,
		job.TechnicianID,
		job.PlannedDate,
		job.ScheduledStart,
		job.ScheduledEnd,
		job.ActualStart,
		job.ActualEnd,
		job.Notes,
		job.SLAHours,
		job.DueAt,
		job.IsOverdue,
		job.ID,
		job.Version,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		// Distinguish a missing row from a stale version.
		if _, getErr := r.GetByID(ctx, job.ID); getErr != nil {
			return getErr
		}
		return ErrVersionConflict
	}
	job.Version++
	return nil
}

func (r *jobRepository) GetByID(ctx context.Context, id string) (*domain.Job, error) {
	query := fmt.Sprintf(`SELECT %s FROM jobs WHERE id=$1`, jobColumns)
	var job domain.Job
	if err := r.pool.QueryRow(ctx, query, id).Scan(jobScanDest(&job)...); err != nil {
		return nil, err
	}
	return &job, nil
}

func (r *jobRepository) ListWithFilter(ctx context.Context, filter JobFilter) ([]domain.Job, error) {
	where, args := buildJobWhere(filter)

	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	query := fmt.Sprintf(`SELECT %s FROM jobs WHERE %s ORDER BY planned_date ASC NULLS LAST, created_at DESC LIMIT %d OFFSET %d`,
		jobColumns, where, limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanJobs(rows)
}

func (r *jobRepository) CountWithFilter(ctx context.Context, filter JobFilter) (int, error) {
	where, args := buildJobWhere(filter)
	query := fmt.Sprintf(`SELECT COUNT(*) FROM jobs WHERE %s`, where)

	var count int
	if err := r.pool.QueryRow(ctx, query, args...).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func buildJobWhere(filter JobFilter) (string, []any) {
	clauses := []string{"1=1"}
	args := []any{}

	if len(filter.Statuses) > 0 {
		placeholders := make([]string, len(filter.Statuses))
		for i, status := range filter.Statuses {
			args = append(args, status)
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		clauses = append(clauses, fmt.Sprintf("status IN (%s)", strings.Join(placeholders, ",")))
	}
	if filter.Priority != nil {
		args = append(args, *filter.Priority)
		clauses = append(clauses, fmt.Sprintf("priority=$%d", len(args)))
	}
	if filter.LocationID != nil {
		args = append(args, *filter.LocationID)
		clauses = append(clauses, fmt.Sprintf("location_id=$%d", len(args)))
	}
	if filter.TechnicianID != nil {
		args = append(args, *filter.TechnicianID)
		clauses = append(clauses, fmt.Sprintf("technician_id=$%d", len(args)))
	}
	if filter.AssetID != nil {
		args = append(args, *filter.AssetID)
		clauses = append(clauses, fmt.Sprintf("asset_id=$%d", len(args)))
	}
	if filter.PlannedFrom != nil {
		args = append(args, *filter.PlannedFrom)
		clauses = append(clauses, fmt.Sprintf("planned_date >= $%d", len(args)))
	}
	if filter.PlannedTo != nil {
		args = append(args, *filter.PlannedTo)
		clauses = append(clauses, fmt.Sprintf("planned_date <= $%d", len(args)))
	}
	if filter.DueFrom != nil {
		args = append(args, *filter.DueFrom)
		clauses = append(clauses, fmt.Sprintf("due_at > $%d", len(args)))
	}
	if filter.DueTo != nil {
		args = append(args, *filter.DueTo)
		clauses = append(clauses, fmt.Sprintf("due_at <= $%d", len(args)))
	}
	if filter.IsOverdue != nil {
		args = append(args, *filter.IsOverdue)
		clauses = append(clauses, fmt.Sprintf("is_overdue=$%d", len(args)))
	}
	if filter.HasTechnician != nil {
		if *filter.HasTechnician {
			clauses = append(clauses, "technician_id IS NOT NULL")
		} else {
			clauses = append(clauses, "technician_id IS NULL")
		}
	}
	if filter.SearchTerm != nil && strings.TrimSpace(*filter.SearchTerm) != "" {
		search := "%" + strings.ToLower(strings.TrimSpace(*filter.SearchTerm)) + "%"
		args = append(args, search)
		placeholder := fmt.Sprintf("$%d", len(args))
		clauses = append(clauses, fmt.Sprintf("(LOWER(title) LIKE %s OR LOWER(description) LIKE %s)", placeholder, placeholder))
	}

	return strings.Join(clauses, " AND "), args
}

func (r *jobRepository) CountByStatus(ctx context.Context) (map[domain.JobStatus]int, error) {
	const query = `SELECT status, COUNT(*) FROM jobs GROUP BY status`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[domain.JobStatus]int)
	for rows.Next() {
		var status domain.JobStatus
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		counts[status] = count
	}
	return counts, rows.Err()
}

func (r *jobRepository) MarkOverdue(ctx context.Context, asOf time.Time) (int64, error) {
	const query = `
        UPDATE jobs SET is_overdue=TRUE
        WHERE status NOT IN ($1,$2) AND due_at IS NOT NULL AND due_at < $3 AND is_overdue=FALSE`
	cmd, err := r.pool.Exec(ctx, query, domain.JobStatusCompleted, domain.JobStatusCancelled, asOf)
	if err != nil {
		return 0, err
	}
	return cmd.RowsAffected(), nil
}

func jobScanDest(job *domain.Job) []any {
	return []any{
		&job.ID,
		&job.Title,
		&job.Description,
		&job.Priority,
		&job.Status,
		&job.LocationID,
		&job.AssetID,
		&job.TechnicianID,
		&job.PlannedDate,
		&job.ScheduledStart,
		&job.ScheduledEnd,
		&job.ActualStart,
		&job.ActualEnd,
		&job.Notes,
		&job.SLAHours,
		&job.DueAt,
		&job.IsOverdue,
		&job.Version,
		&job.CreatedAt,
		&job.UpdatedAt,
	}
}

func scanJobs(rows pgx.Rows) ([]domain.Job, error) {
	var result []domain.Job
	for rows.Next() {
		var job domain.Job
		if err := rows.Scan(jobScanDest(&job)...); err != nil {
			return nil, err
		}
		result = append(result, job)
	}
	return result, rows.Err()
}
