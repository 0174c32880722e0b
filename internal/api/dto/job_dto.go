package dto

import (
	"time"

	"github.com/fieldworks/maintenance-service/internal/domain"
)

// CreateJobRequest payload.
type CreateJobRequest struct {
	Title          string             `json:"title"`
	Description    string             `json:"description"`
	Priority       domain.JobPriority `json:"priority"`
	LocationID     string             `json:"location_id"`
	AssetID        *string            `json:"asset_id"`
	TechnicianID   *string            `json:"technician_id"`
	PlannedDate    *time.Time         `json:"planned_date"`
	ScheduledStart *time.Time         `json:"scheduled_start"`
	ScheduledEnd   *time.Time         `json:"scheduled_end"`
	Notes          string             `json:"notes"`
	SLAHours       *float64           `json:"sla_hours"`
}

// UpdateJobRequest payload; absent fields are left untouched.
type UpdateJobRequest struct {
	Title          *string             `json:"title"`
	Description    *string             `json:"description"`
	Priority       *domain.JobPriority `json:"priority"`
	Status         *domain.JobStatus   `json:"status"`
	LocationID     *string             `json:"location_id"`
	AssetID        *string             `json:"asset_id"`
	TechnicianID   *string             `json:"technician_id"`
	PlannedDate    *time.Time          `json:"planned_date"`
	ScheduledStart *time.Time          `json:"scheduled_start"`
	ScheduledEnd   *time.Time          `json:"scheduled_end"`
	ActualStart    *time.Time          `json:"actual_start"`
	ActualEnd      *time.Time          `json:"actual_end"`
	Notes          *string             `json:"notes"`
	SLAHours       *float64            `json:"sla_hours"`
}

// AssignJobRequest payload.
type AssignJobRequest struct {
	TechnicianID *string `json:"technician_id"`
	AssetID      *string `json:"asset_id"`
}

// JobResponse full job view.
type JobResponse struct {
	ID             string             `json:"id"`
	Title          string             `json:"title"`
	Description    string             `json:"description"`
	Priority       domain.JobPriority `json:"priority"`
	Status         domain.JobStatus   `json:"status"`
	LocationID     string             `json:"location_id"`
	AssetID        *string            `json:"asset_id"`
	TechnicianID   *string            `json:"technician_id"`
	PlannedDate    *time.Time         `json:"planned_date"`
	ScheduledStart *time.Time         `json:"scheduled_start"`
	ScheduledEnd   *time.Time         `json:"scheduled_end"`
	ActualStart    *time.Time         `json:"actual_start"`
	ActualEnd      *time.Time         `json:"actual_end"`
	Notes          string             `json:"notes"`
	SLAHours       *float64           `json:"sla_hours"`
	DueAt          *time.Time         `json:"due_at"`
	IsOverdue      bool               `json:"is_overdue"`
	Version        int64              `json:"version"`
	CreatedAt      time.Time          `json:"created_at"`
	UpdatedAt      time.Time          `json:"updated_at"`
}

// AssignJobResponse couples the updated job with availability advice.
type AssignJobResponse struct {
	Job          JobResponse         `json:"job"`
	Availability *AvailabilityAdvice `json:"availability,omitempty"`
}

// AvailabilityAdvice surfaces the advisory availability check result.
type AvailabilityAdvice struct {
	SlotFound   bool             `json:"slot_found"`
	IsAvailable bool             `json:"is_available"`
	Shift       domain.ShiftSlot `json:"shift,omitempty"`
	Reason      string           `json:"reason,omitempty"`
}

// FromJob maps a domain job to its response view.
func FromJob(job *domain.Job) JobResponse {
	return JobResponse{
		ID:             job.ID,
		Title:          job.Title,
		Description:    job.Description,
		Priority:       job.Priority,
		Status:         job.Status,
		LocationID:     job.LocationID,
		AssetID:        job.AssetID,
		TechnicianID:   job.TechnicianID,
		PlannedDate:    job.PlannedDate,
		ScheduledStart: job.ScheduledStart,
		ScheduledEnd:   job.ScheduledEnd,
		ActualStart:    job.ActualStart,
		ActualEnd:      job.ActualEnd,
		Notes:          job.Notes,
		SLAHours:       job.SLAHours,
		DueAt:          job.DueAt,
		IsOverdue:      job.IsOverdue,
		Version:        job.Version,
		CreatedAt:      job.CreatedAt,
		UpdatedAt:      job.UpdatedAt,
	}
}
