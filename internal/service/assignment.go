package service

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/fieldworks/maintenance-service/internal/domain"
	"github.com/fieldworks/maintenance-service/internal/repository"
)

// AvailabilityAdvice reports what the validator found for a technician on a
// job's planned date. Advisory only: assignment proceeds regardless, the
// caller just gets to see it.
type AvailabilityAdvice struct {
	Checked     bool
	SlotFound   bool
	IsAvailable bool
	Shift       domain.ShiftSlot
	Reason      string
}

// AssignmentValidator checks technician availability before a job binding.
type AssignmentValidator struct {
	availability repository.AvailabilityRepository
}

// NewAssignmentValidator constructs the validator.
func NewAssignmentValidator(availability repository.AvailabilityRepository) *AssignmentValidator {
	return &AssignmentValidator{availability: availability}
}

// Check looks up the technician's slot for the planned date. A missing slot
// or an unavailable one is a soft signal, never an error.
func (v *AssignmentValidator) Check(ctx context.Context, technicianID string, plannedDate *time.Time) (AvailabilityAdvice, error) {
	if plannedDate == nil {
		return AvailabilityAdvice{}, nil
	}

	slot, err := v.availability.GetByTechnicianAndDate(ctx, technicianID, normalizeDate(*plannedDate))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return AvailabilityAdvice{Checked: true}, nil
		}
		return AvailabilityAdvice{}, err
	}
	return AvailabilityAdvice{
		Checked:     true,
		SlotFound:   true,
		IsAvailable: slot.IsAvailable,
		Shift:       slot.Shift,
		Reason:      slot.Reason,
	}, nil
}

// normalizeDate truncates an instant to midnight UTC of its day. Day-only
// inputs are interpreted this way everywhere.
func normalizeDate(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
