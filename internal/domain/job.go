package domain

import "time"

// JobStatus enumerates lifecycle states for maintenance jobs.
type JobStatus string

const (
	JobStatusPlanned    JobStatus = "Planned"
	JobStatusAssigned   JobStatus = "Assigned"
	JobStatusInProgress JobStatus = "In Progress"
	JobStatusCompleted  JobStatus = "Completed"
	JobStatusCancelled  JobStatus = "Cancelled"
)

// Terminal reports whether the status ends the job lifecycle.
func (s JobStatus) Terminal() bool {
	return s == JobStatusCompleted || s == JobStatusCancelled
}

// ActiveJobStatuses are the states that count toward technician workload.
var ActiveJobStatuses = []JobStatus{JobStatusPlanned, JobStatusAssigned, JobStatusInProgress}

// JobPriority enumerates urgency tiers.
type JobPriority string

const (
	JobPriorityLow      JobPriority = "Low"
	JobPriorityMedium   JobPriority = "Medium"
	JobPriorityHigh     JobPriority = "High"
	JobPriorityCritical JobPriority = "Critical"
)

// Job is the aggregate for field maintenance work.
//
// DueAt and IsOverdue are derived fields owned by the job lifecycle service;
// nothing else writes them. Version backs optimistic concurrency on updates.
type Job struct {
	ID             string
	Title          string
	Description    string
	Priority       JobPriority
	Status         JobStatus
	LocationID     string
	AssetID        *string
	TechnicianID   *string
	PlannedDate    *time.Time
	ScheduledStart *time.Time
	ScheduledEnd   *time.Time
	ActualStart    *time.Time
	ActualEnd      *time.Time
	Notes          string
	SLAHours       *float64
	DueAt          *time.Time
	IsOverdue      bool
	Version        int64
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
