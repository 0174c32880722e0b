package dto

import (
	"time"

	"github.com/fieldworks/maintenance-service/internal/domain"
)

// CreateAssetRequest payload.
type CreateAssetRequest struct {
	Name               string                  `json:"name"`
	AssetTag           string                  `json:"asset_tag"`
	Type               string                  `json:"type"`
	LocationID         string                  `json:"location_id"`
	Criticality        domain.AssetCriticality `json:"criticality"`
	Status             domain.AssetStatus      `json:"status"`
	LastMaintenanceAt  *time.Time              `json:"last_maintenance_at"`
	NextMaintenanceDue *time.Time              `json:"next_maintenance_due"`
}

// UpdateAssetRequest payload; absent fields are left untouched.
type UpdateAssetRequest struct {
	Name               *string                  `json:"name"`
	AssetTag           *string                  `json:"asset_tag"`
	Type               *string                  `json:"type"`
	LocationID         *string                  `json:"location_id"`
	Criticality        *domain.AssetCriticality `json:"criticality"`
	Status             *domain.AssetStatus      `json:"status"`
	LastMaintenanceAt  *time.Time               `json:"last_maintenance_at"`
	NextMaintenanceDue *time.Time               `json:"next_maintenance_due"`
}

// AssetResponse view.
type AssetResponse struct {
	ID                 string                  `json:"id"`
	Name               string                  `json:"name"`
	AssetTag           string                  `json:"asset_tag"`
	Type               string                  `json:"type"`
	LocationID         string                  `json:"location_id"`
	Criticality        domain.AssetCriticality `json:"criticality"`
	Status             domain.AssetStatus      `json:"status"`
	LastMaintenanceAt  *time.Time              `json:"last_maintenance_at"`
	NextMaintenanceDue *time.Time              `json:"next_maintenance_due"`
	CreatedAt          time.Time               `json:"created_at"`
	UpdatedAt          time.Time               `json:"updated_at"`
}

// FromAsset maps a domain asset to its response view.
func FromAsset(a *domain.Asset) AssetResponse {
	return AssetResponse{
		ID:                 a.ID,
		Name:               a.Name,
		AssetTag:           a.AssetTag,
		Type:               a.Type,
		LocationID:         a.LocationID,
		Criticality:        a.Criticality,
		Status:             a.Status,
		LastMaintenanceAt:  a.LastMaintenanceAt,
		NextMaintenanceDue: a.NextMaintenanceDue,
		CreatedAt:          a.CreatedAt,
		UpdatedAt:          a.UpdatedAt,
	}
}
