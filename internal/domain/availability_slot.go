package domain

import "time"

// ShiftSlot enumerates the portion of a day a slot covers.
type ShiftSlot string

const (
	ShiftSlotMorning   ShiftSlot = "Morning"
	ShiftSlotAfternoon ShiftSlot = "Afternoon"
	ShiftSlotNight     ShiftSlot = "Night"
	ShiftSlotFullDay   ShiftSlot = "Full Day"
)

// AvailabilitySlot declares a technician's availability for one calendar date.
// At most one slot may exist per (technician, date) pair.
type AvailabilitySlot struct {
	ID           string
	TechnicianID string
	Date         time.Time
	Shift        ShiftSlot
	IsAvailable  bool
	Reason       string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
