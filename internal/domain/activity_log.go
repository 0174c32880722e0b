package domain

import "time"

// ActivityType captures the kind of state change an audit entry describes.
type ActivityType string

const (
	ActivityJobCreated              ActivityType = "JOB_CREATED"
	ActivityJobUpdated              ActivityType = "JOB_UPDATED"
	ActivityJobStatusChanged        ActivityType = "JOB_STATUS_CHANGED"
	ActivityTechnicianStatusChanged ActivityType = "TECHNICIAN_STATUS_CHANGED"
	ActivityAssetStatusChanged      ActivityType = "ASSET_STATUS_CHANGED"
)

// ActivityLog is an immutable audit trail entry. Entries are only ever
// appended; the core never mutates or deletes them.
type ActivityLog struct {
	ID         string
	Type       ActivityType
	Message    string
	EntityType string
	EntityID   string
	Metadata   map[string]any
	CreatedAt  time.Time
}
