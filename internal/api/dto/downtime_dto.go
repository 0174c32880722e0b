package dto

import (
	"time"

	"github.com/fieldworks/maintenance-service/internal/domain"
)

// CreateDowntimeRequest payload.
type CreateDowntimeRequest struct {
	AssetID       string     `json:"asset_id"`
	StartedAt     time.Time  `json:"started_at"`
	EndedAt       *time.Time `json:"ended_at"`
	Reason        string     `json:"reason"`
	MarkAssetDown bool       `json:"mark_asset_down"`
}

// UpdateDowntimeRequest payload; absent fields are left untouched.
type UpdateDowntimeRequest struct {
	StartedAt *time.Time `json:"started_at"`
	EndedAt   *time.Time `json:"ended_at"`
	Reason    *string    `json:"reason"`
}

// DowntimeResponse view.
type DowntimeResponse struct {
	ID        string     `json:"id"`
	AssetID   string     `json:"asset_id"`
	StartedAt time.Time  `json:"started_at"`
	EndedAt   *time.Time `json:"ended_at"`
	Reason    string     `json:"reason,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// FromDowntime maps a domain downtime record to its response view.
func FromDowntime(d *domain.AssetDowntime) DowntimeResponse {
	return DowntimeResponse{
		ID:        d.ID,
		AssetID:   d.AssetID,
		StartedAt: d.StartedAt,
		EndedAt:   d.EndedAt,
		Reason:    d.Reason,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}
