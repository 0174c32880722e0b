package domain

import "time"

// AssetCriticality weights an asset in downtime reporting.
type AssetCriticality string

const (
	AssetCriticalityLow    AssetCriticality = "Low"
	AssetCriticalityMedium AssetCriticality = "Medium"
	AssetCriticalityHigh   AssetCriticality = "High"
)

// AssetStatus enumerates operational states.
type AssetStatus string

const (
	AssetStatusOperational      AssetStatus = "Operational"
	AssetStatusUnderMaintenance AssetStatus = "Under Maintenance"
	AssetStatusDown             AssetStatus = "Down"
	AssetStatusDecommissioned   AssetStatus = "Decommissioned"
)

// Asset models a physical piece of equipment at a location.
type Asset struct {
	ID                 string
	Name               string
	AssetTag           string
	Type               string
	LocationID         string
	Criticality        AssetCriticality
	Status             AssetStatus
	LastMaintenanceAt  *time.Time
	NextMaintenanceDue *time.Time
	CreatedAt          time.Time
	UpdatedAt          time.Time
}
