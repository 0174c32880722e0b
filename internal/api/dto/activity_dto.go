package dto

import (
	"time"

	"github.com/fieldworks/maintenance-service/internal/domain"
)

// ActivityEntryResponse view of one audit trail entry.
type ActivityEntryResponse struct {
	ID         string              `json:"id"`
	Type       domain.ActivityType `json:"type"`
	Message    string              `json:"message"`
	EntityType string              `json:"entity_type"`
	EntityID   string              `json:"entity_id"`
	Metadata   map[string]any      `json:"metadata,omitempty"`
	CreatedAt  time.Time           `json:"created_at"`
}

// FromActivityLog maps a domain entry to its response view.
func FromActivityLog(e *domain.ActivityLog) ActivityEntryResponse {
	return ActivityEntryResponse{
		ID:         e.ID,
		Type:       e.Type,
		Message:    e.Message,
		EntityType: e.EntityType,
		EntityID:   e.EntityID,
		Metadata:   e.Metadata,
		CreatedAt:  e.CreatedAt,
	}
}
