package dto

import (
	"time"

	"github.com/fieldworks/maintenance-service/internal/domain"
)

// CreateSlotRequest payload.
type CreateSlotRequest struct {
	TechnicianID string           `json:"technician_id"`
	Date         time.Time        `json:"date"`
	Shift        domain.ShiftSlot `json:"shift"`
	IsAvailable  bool             `json:"is_available"`
	Reason       string           `json:"reason"`
}

// UpdateSlotRequest payload; absent fields are left untouched.
type UpdateSlotRequest struct {
	Shift       *domain.ShiftSlot `json:"shift"`
	IsAvailable *bool             `json:"is_available"`
	Reason      *string           `json:"reason"`
}

// SlotResponse view.
type SlotResponse struct {
	ID           string           `json:"id"`
	TechnicianID string           `json:"technician_id"`
	Date         time.Time        `json:"date"`
	Shift        domain.ShiftSlot `json:"shift"`
	IsAvailable  bool             `json:"is_available"`
	Reason       string           `json:"reason,omitempty"`
	CreatedAt    time.Time        `json:"created_at"`
	UpdatedAt    time.Time        `json:"updated_at"`
}

// FromSlot maps a domain slot to its response view.
func FromSlot(s *domain.AvailabilitySlot) SlotResponse {
	return SlotResponse{
		ID:           s.ID,
		TechnicianID: s.TechnicianID,
		Date:         s.Date,
		Shift:        s.Shift,
		IsAvailable:  s.IsAvailable,
		Reason:       s.Reason,
		CreatedAt:    s.CreatedAt,
		UpdatedAt:    s.UpdatedAt,
	}
}
