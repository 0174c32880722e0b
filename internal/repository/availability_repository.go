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

// AvailabilityFilter defines query params for slot listing.
type AvailabilityFilter struct {
	TechnicianID *string
	DateFrom     *time.Time
	DateTo       *time.Time
	Limit        int
	Offset       int
}

// AvailabilityRepository handles persistence for availability slots.
// A unique index on (technician_id, date) backs the one-slot-per-day rule.
type AvailabilityRepository interface {
	Create(ctx context.Context, slot *domain.AvailabilitySlot) error
	Update(ctx context.Context, slot *domain.AvailabilitySlot) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*domain.AvailabilitySlot, error)
	GetByTechnicianAndDate(ctx context.Context, technicianID string, date time.Time) (*domain.AvailabilitySlot, error)
	List(ctx context.Context, filter AvailabilityFilter) ([]domain.AvailabilitySlot, error)
}

type availabilityRepository struct {
	pool *pgxpool.Pool
}

// NewAvailabilityRepository instantiates the repository.
func NewAvailabilityRepository(pool *pgxpool.Pool) AvailabilityRepository {
	return &availabilityRepository{pool: pool}
}

const slotColumns = `id, technician_id, date, shift, is_available, reason, created_at, updated_at`

func (r *availabilityRepository) Create(ctx context.Context, slot *domain.AvailabilitySlot) error {
	const query = `
        INSERT INTO availability_slots (technician_id, date, shift, is_available, reason)
        VALUES ($1,$2,$3,$4,$5)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		slot.TechnicianID,
		slot.Date,
		slot.Shift,
		slot.IsAvailable,
		slot.Reason,
	).Scan(&slot.ID, &slot.CreatedAt, &slot.UpdatedAt)
}

func (r *availabilityRepository) Update(ctx context.Context, slot *domain.AvailabilitySlot) error {
	const query = `
        UPDATE availability_slots
        SET shift=$1, is_available=$2, reason=$3, updated_at=NOW()
        WHERE id=$4`
	cmd, err := r.pool.Exec(ctx, query,
		slot.Shift,
		slot.IsAvailable,
		slot.Reason,
		slot.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *availabilityRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM availability_slots WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *availabilityRepository) GetByID(ctx context.Context, id string) (*domain.AvailabilitySlot, error) {
	query := fmt.Sprintf(`SELECT %s FROM availability_slots WHERE id=$1`, slotColumns)
	var slot domain.AvailabilitySlot
	if err := r.pool.QueryRow(ctx, query, id).Scan(slotScanDest(&slot)...); err != nil {
		return nil, err
	}
	return &slot, nil
}

func (r *availabilityRepository) GetByTechnicianAndDate(ctx context.Context, technicianID string, date time.Time) (*domain.AvailabilitySlot, error) {
	query := fmt.Sprintf(`SELECT %s FROM availability_slots WHERE technician_id=$1 AND date=$2`, slotColumns)
	var slot domain.AvailabilitySlot
	if err := r.pool.QueryRow(ctx, query, technicianID, date).Scan(slotScanDest(&slot)...); err != nil {
		return nil, err
	}
	return &slot, nil
}

func (r *availabilityRepository) List(ctx context.Context, filter AvailabilityFilter) ([]domain.AvailabilitySlot, error) {
	clauses := []string{"1=1"}
	args := []any{}

	if filter.TechnicianID != nil {
		args = append(args, *filter.TechnicianID)
		clauses = append(clauses, fmt.Sprintf("technician_id=$%d", len(args)))
	}
	if filter.DateFrom != nil {
		args = append(args, *filter.DateFrom)
		clauses = append(clauses, fmt.Sprintf("date >= $%d", len(args)))
	}
	if filter.DateTo != nil {
		args = append(args, *filter.DateTo)
		clauses = append(clauses, fmt.Sprintf("date <= $%d", len(args)))
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	query := fmt.Sprintf(`SELECT %s FROM availability_slots WHERE %s ORDER BY date ASC LIMIT %d OFFSET %d`,
		slotColumns, strings.Join(clauses, " AND "), limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.AvailabilitySlot
	for rows.Next() {
		var slot domain.AvailabilitySlot
		if err := rows.Scan(slotScanDest(&slot)...); err != nil {
			return nil, err
		}
		result = append(result, slot)
	}
	return result, rows.Err()
}

func slotScanDest(s *domain.AvailabilitySlot) []any {
	return []any{
		&s.ID,
		&s.TechnicianID,
		&s.Date,
		&s.Shift,
		&s.IsAvailable,
		&s.Reason,
		&s.CreatedAt,
		&s.UpdatedAt,
	}
}
