package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/fieldworks/maintenance-service/internal/domain"
)

func TestApplySLAFields_DueFromScheduledStart(t *testing.T) {
	start := time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)
	sla := 4.0
	job := &domain.Job{
		Status:         domain.JobStatusPlanned,
		ScheduledStart: &start,
		SLAHours:       &sla,
	}

	ApplySLAFields(job, start)

	if assert.NotNil(t, job.DueAt) {
		assert.Equal(t, start.Add(4*time.Hour), *job.DueAt)
	}
	assert.False(t, job.IsOverdue)
}

func TestApplySLAFields_FallsBackToPlannedDate(t *testing.T) {
	planned := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	sla := 2.5
	job := &domain.Job{
		Status:      domain.JobStatusPlanned,
		PlannedDate: &planned,
		SLAHours:    &sla,
	}

	ApplySLAFields(job, planned)

	if assert.NotNil(t, job.DueAt) {
		assert.Equal(t, planned.Add(2*time.Hour+30*time.Minute), *job.DueAt)
	}
}

func TestApplySLAFields_MissingInputsLeaveDueAtUntouched(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	prior := now.Add(-time.Hour)

	// No SLA hours.
	job := &domain.Job{Status: domain.JobStatusPlanned, DueAt: &prior}
	ApplySLAFields(job, now)
	if assert.NotNil(t, job.DueAt) {
		assert.Equal(t, prior, *job.DueAt)
	}
	assert.True(t, job.IsOverdue)

	// SLA hours but no start reference.
	sla := 3.0
	job = &domain.Job{Status: domain.JobStatusPlanned, SLAHours: &sla}
	ApplySLAFields(job, now)
	assert.Nil(t, job.DueAt)
	assert.False(t, job.IsOverdue)
}

func TestApplySLAFields_OverdueWhenPastDue(t *testing.T) {
	start := time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)
	sla := 1.0
	job := &domain.Job{
		Status:         domain.JobStatusInProgress,
		ScheduledStart: &start,
		SLAHours:       &sla,
	}

	ApplySLAFields(job, start.Add(61*time.Minute))
	assert.True(t, job.IsOverdue)

	// Exactly at the due instant is not overdue.
	job.IsOverdue = false
	ApplySLAFields(job, start.Add(time.Hour))
	assert.False(t, job.IsOverdue)
}

func TestApplySLAFields_TerminalStatusForcesNotOverdue(t *testing.T) {
	start := time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)
	sla := 1.0
	for _, status := range []domain.JobStatus{domain.JobStatusCompleted, domain.JobStatusCancelled} {
		job := &domain.Job{
			Status:         status,
			ScheduledStart: &start,
			SLAHours:       &sla,
			IsOverdue:      true,
		}
		ApplySLAFields(job, start.Add(48*time.Hour))
		assert.False(t, job.IsOverdue, "status %s", status)
		assert.NotNil(t, job.DueAt)
	}
}
