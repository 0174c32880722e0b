package service

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/fieldworks/maintenance-service/internal/domain"
	"github.com/fieldworks/maintenance-service/internal/repository"
	apperrors "github.com/fieldworks/maintenance-service/pkg/util"
)

// AvailabilityService maintains technician availability declarations.
type AvailabilityService struct {
	slots       repository.AvailabilityRepository
	technicians repository.TechnicianRepository
}

// NewAvailabilityService constructs the service.
func NewAvailabilityService(slots repository.AvailabilityRepository, technicians repository.TechnicianRepository) *AvailabilityService {
	return &AvailabilityService{slots: slots, technicians: technicians}
}

// SlotCreateInput describes a new availability slot.
type SlotCreateInput struct {
	TechnicianID string
	Date         time.Time
	Shift        domain.ShiftSlot
	IsAvailable  bool
	Reason       string
}

// SlotPatch carries a partial update; nil fields retain their prior value.
type SlotPatch struct {
	Shift       *domain.ShiftSlot
	IsAvailable *bool
	Reason      *string
}

// SlotListInput narrows slot listings.
type SlotListInput struct {
	TechnicianID *string
	DateFrom     *time.Time
	DateTo       *time.Time
	Limit        int
	Offset       int
}

// CreateSlot declares availability for one technician and date. A second
// slot for the same (technician, date) pair is rejected as a conflict.
func (s *AvailabilityService) CreateSlot(ctx context.Context, input SlotCreateInput) (*domain.AvailabilitySlot, error) {
	if input.TechnicianID == "" {
		return nil, apperrors.NewValidationError("technician is required", nil)
	}
	if input.Date.IsZero() {
		return nil, apperrors.NewValidationError("date is required", nil)
	}
	if input.Shift == "" {
		input.Shift = domain.ShiftSlotFullDay
	}

	if _, err := s.technicians.GetByID(ctx, input.TechnicianID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("technician", map[string]any{"technician_id": input.TechnicianID})
		}
		return nil, apperrors.MapError(err)
	}

	date := normalizeDate(input.Date)
	if _, err := s.slots.GetByTechnicianAndDate(ctx, input.TechnicianID, date); err == nil {
		return nil, apperrors.NewConflict("availability already declared for this date", map[string]any{
			"technician_id": input.TechnicianID,
			"date":          date.Format("2006-01-02"),
		})
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.MapError(err)
	}

	slot := &domain.AvailabilitySlot{
		TechnicianID: input.TechnicianID,
		Date:         date,
		Shift:        input.Shift,
		IsAvailable:  input.IsAvailable,
		Reason:       input.Reason,
	}
	if err := s.slots.Create(ctx, slot); err != nil {
		// The unique index closes the check-then-insert race.
		if apperrors.IsUniqueViolation(err) {
			return nil, apperrors.NewConflict("availability already declared for this date", map[string]any{
				"technician_id": input.TechnicianID,
				"date":          date.Format("2006-01-02"),
			})
		}
		return nil, apperrors.MapError(err)
	}
	return slot, nil
}

// UpdateSlot merges the patch over the stored slot. Technician and date are
// immutable; delete and recreate to move a slot.
func (s *AvailabilityService) UpdateSlot(ctx context.Context, id string, patch SlotPatch) (*domain.AvailabilitySlot, error) {
	slot, err := s.GetSlot(ctx, id)
	if err != nil {
		return nil, err
	}

	if patch.Shift != nil {
		slot.Shift = *patch.Shift
	}
	if patch.IsAvailable != nil {
		slot.IsAvailable = *patch.IsAvailable
	}
	if patch.Reason != nil {
		slot.Reason = *patch.Reason
	}

	if err := s.slots.Update(ctx, slot); err != nil {
		return nil, apperrors.MapError(err)
	}
	return slot, nil
}

// DeleteSlot removes an availability slot.
func (s *AvailabilityService) DeleteSlot(ctx context.Context, id string) error {
	if err := s.slots.Delete(ctx, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("availability slot", map[string]any{"slot_id": id})
		}
		return apperrors.MapError(err)
	}
	return nil
}

// GetSlot fetches one slot.
func (s *AvailabilityService) GetSlot(ctx context.Context, id string) (*domain.AvailabilitySlot, error) {
	slot, err := s.slots.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("availability slot", map[string]any{"slot_id": id})
		}
		return nil, apperrors.MapError(err)
	}
	return slot, nil
}

// ListSlots returns slots matching the filter, ordered by date.
func (s *AvailabilityService) ListSlots(ctx context.Context, input SlotListInput) ([]domain.AvailabilitySlot, error) {
	filter := repository.AvailabilityFilter{
		TechnicianID: input.TechnicianID,
		Limit:        input.Limit,
		Offset:       input.Offset,
	}
	if input.DateFrom != nil {
		from := normalizeDate(*input.DateFrom)
		filter.DateFrom = &from
	}
	if input.DateTo != nil {
		to := normalizeDate(*input.DateTo)
		filter.DateTo = &to
	}

	slots, err := s.slots.List(ctx, filter)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return slots, nil
}
