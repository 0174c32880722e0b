package events

import (
	"time"

	"github.com/fieldworks/maintenance-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventJobCreated              EventType = "job_created"
	EventJobUpdated              EventType = "job_updated"
	EventJobStatusChanged        EventType = "job_status_changed"
	EventJobAssigned             EventType = "job_assigned"
	EventTechnicianStatusChanged EventType = "technician_status_changed"
	EventAssetStatusChanged      EventType = "asset_status_changed"
	EventDowntimeRecorded        EventType = "downtime_recorded"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID         string      `json:"id"`
	Type       EventType   `json:"type"`
	EntityType string      `json:"entity_type"`
	EntityID   string      `json:"entity_id"`
	Timestamp  time.Time   `json:"timestamp"`
	Payload    interface{} `json:"payload"`
}

// JobCreatedPayload payload.
type JobCreatedPayload struct {
	Title      string             `json:"title"`
	Priority   domain.JobPriority `json:"priority"`
	Status     domain.JobStatus   `json:"status"`
	LocationID string             `json:"location_id"`
	DueAt      *time.Time         `json:"due_at,omitempty"`
}

// JobStatusChangedPayload payload.
type JobStatusChangedPayload struct {
	OldStatus domain.JobStatus `json:"old_status"`
	NewStatus domain.JobStatus `json:"new_status"`
}

// JobAssignedPayload payload.
type JobAssignedPayload struct {
	TechnicianID *string `json:"technician_id,omitempty"`
	AssetID      *string `json:"asset_id,omitempty"`
	// Availability advice surfaced to subscribers; assignment is never
	// blocked on it.
	TechnicianAvailable *bool `json:"technician_available,omitempty"`
}

// TechnicianStatusChangedPayload payload.
type TechnicianStatusChangedPayload struct {
	OldStatus domain.TechnicianStatus `json:"old_status"`
	NewStatus domain.TechnicianStatus `json:"new_status"`
}

// AssetStatusChangedPayload payload.
type AssetStatusChangedPayload struct {
	OldStatus domain.AssetStatus `json:"old_status"`
	NewStatus domain.AssetStatus `json:"new_status"`
	Reason    string             `json:"reason,omitempty"`
}

// DowntimeRecordedPayload payload.
type DowntimeRecordedPayload struct {
	AssetID   string     `json:"asset_id"`
	StartedAt time.Time  `json:"started_at"`
	EndedAt   *time.Time `json:"ended_at,omitempty"`
	Reason    string     `json:"reason,omitempty"`
}
