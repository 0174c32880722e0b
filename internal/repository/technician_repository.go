package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fieldworks/maintenance-service/internal/domain"
)

// TechnicianFilter defines query params for roster listing.
type TechnicianFilter struct {
	LocationID      *string
	Status          *domain.TechnicianStatus
	Skill           *string
	SearchTerm      *string
	ExcludeInactive bool
	Limit           int
	Offset          int
}

// TechnicianRepository handles persistence for technicians.
type TechnicianRepository interface {
	Create(ctx context.Context, technician *domain.Technician) error
	Update(ctx context.Context, technician *domain.Technician) error
	GetByID(ctx context.Context, id string) (*domain.Technician, error)
	GetByEmail(ctx context.Context, email string) (*domain.Technician, error)
	List(ctx context.Context, filter TechnicianFilter) ([]domain.Technician, error)
}

type technicianRepository struct {
	pool *pgxpool.Pool
}

// NewTechnicianRepository instantiates the repository.
func NewTechnicianRepository(pool *pgxpool.Pool) TechnicianRepository {
	return &technicianRepository{pool: pool}
}

const technicianColumns = `id, name, email, phone, role, primary_skill, skills, location_id, status, shift_type, created_at, updated_at`

func (r *technicianRepository) Create(ctx context.Context, technician *domain.Technician) error {
	const query = `
        INSERT INTO technicians (name, email, phone, role, primary_skill, skills, location_id, status, shift_type)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		technician.Name,
		technician.Email,
		technician.Phone,
		technician.Role,
		technician.PrimarySkill,
		technician.Skills,
		technician.LocationID,
		technician.Status,
		technician.ShiftType,
	).Scan(&technician.ID, &technician.CreatedAt, &technician.UpdatedAt)
}

func (r *technicianRepository) Update(ctx context.Context, technician *domain.Technician) error {
	const query = `
        UPDATE technicians
        SET name=$1, email=$2, phone=$3, role=$4, primary_skill=$5, skills=$6, location_id=$7, status=$8, shift_type=$9, updated_at=NOW()
        WHERE id=$10`
	cmd, err := r.pool.Exec(ctx, query,
		technician.Name,
		technician.Email,
		technician.Phone,
		technician.Role,
		technician.PrimarySkill,
		technician.Skills,
		technician.LocationID,
		technician.Status,
		technician.ShiftType,
		technician.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *technicianRepository) GetByID(ctx context.Context, id string) (*domain.Technician, error) {
	query := fmt.Sprintf(`SELECT %s FROM technicians WHERE id=$1`, technicianColumns)
	return r.fetchSingle(ctx, query, id)
}

func (r *technicianRepository) GetByEmail(ctx context.Context, email string) (*domain.Technician, error) {
	query := fmt.Sprintf(`SELECT %s FROM technicians WHERE email=$1`, technicianColumns)
	return r.fetchSingle(ctx, query, strings.ToLower(email))
}

func (r *technicianRepository) fetchSingle(ctx context.Context, query string, arg any) (*domain.Technician, error) {
	var technician domain.Technician
	if err := r.pool.QueryRow(ctx, query, arg).Scan(technicianScanDest(&technician)...); err != nil {
		return nil, err
	}
	return &technician, nil
}

func (r *technicianRepository) List(ctx context.Context, filter TechnicianFilter) ([]domain.Technician, error) {
	clauses := []string{"1=1"}
	args := []any{}

	if filter.LocationID != nil {
		args = append(args, *filter.LocationID)
		clauses = append(clauses, fmt.Sprintf("location_id=$%d", len(args)))
	}
	if filter.Status != nil {
		args = append(args, *filter.Status)
		clauses = append(clauses, fmt.Sprintf("status=$%d", len(args)))
	} else if filter.ExcludeInactive {
		args = append(args, domain.TechnicianStatusInactive)
		clauses = append(clauses, fmt.Sprintf("status <> $%d", len(args)))
	}
	if filter.Skill != nil && strings.TrimSpace(*filter.Skill) != "" {
		args = append(args, *filter.Skill)
		clauses = append(clauses, fmt.Sprintf("(primary_skill=$%d OR $%d = ANY(skills))", len(args), len(args)))
	}
	if filter.SearchTerm != nil && strings.TrimSpace(*filter.SearchTerm) != "" {
		search := "%" + strings.ToLower(strings.TrimSpace(*filter.SearchTerm)) + "%"
		args = append(args, search)
		placeholder := fmt.Sprintf("$%d", len(args))
		clauses = append(clauses, fmt.Sprintf("(LOWER(name) LIKE %s OR LOWER(email) LIKE %s)", placeholder, placeholder))
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	query := fmt.Sprintf(`SELECT %s FROM technicians WHERE %s ORDER BY name ASC LIMIT %d OFFSET %d`,
		technicianColumns, strings.Join(clauses, " AND "), limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Technician
	for rows.Next() {
		var technician domain.Technician
		if err := rows.Scan(technicianScanDest(&technician)...); err != nil {
			return nil, err
		}
		result = append(result, technician)
	}
	return result, rows.Err()
}

func technicianScanDest(t *domain.Technician) []any {
	return []any{
		&t.ID,
		&t.Name,
		&t.Email,
		&t.Phone,
		&t.Role,
		&t.PrimarySkill,
		&t.Skills,
		&t.LocationID,
		&t.Status,
		&t.ShiftType,
		&t.CreatedAt,
		&t.UpdatedAt,
	}
}
