package service

import (
	"time"

	"github.com/fieldworks/maintenance-service/internal/domain"
)

// ApplySLAFields recomputes the derived DueAt/IsOverdue fields in place.
// Pure with respect to the injected now; it is the only writer of these
// fields anywhere in the system.
//
// DueAt is startReference + slaHours, where startReference is ScheduledStart
// falling back to PlannedDate. When slaHours or the start reference is
// missing, DueAt is left untouched rather than cleared. A terminal status
// forces IsOverdue false regardless of DueAt.
func ApplySLAFields(job *domain.Job, now time.Time) {
	if job.SLAHours != nil && *job.SLAHours > 0 {
		if ref := slaStartReference(job); ref != nil {
			due := ref.Add(time.Duration(*job.SLAHours * float64(time.Hour)))
			job.DueAt = &due
		}
	}

	if job.Status.Terminal() {
		job.IsOverdue = false
		return
	}
	if job.DueAt != nil {
		job.IsOverdue = now.After(*job.DueAt)
	}
}

func slaStartReference(job *domain.Job) *time.Time {
	if job.ScheduledStart != nil {
		return job.ScheduledStart
	}
	return job.PlannedDate
}
