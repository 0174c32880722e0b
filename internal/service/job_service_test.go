package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fieldworks/maintenance-service/internal/domain"
	apperrors "github.com/fieldworks/maintenance-service/pkg/util"
)

func newJobServiceForTest(t *testing.T) (*JobService, *fakeJobRepo, *fakeTechnicianRepo, *fakeAvailabilityRepo, *captureSink) {
	t.Helper()
	jobs := newFakeJobRepo()
	technicians := newFakeTechnicianRepo()
	availability := newFakeAvailabilityRepo()
	sink := &captureSink{}

	svc := NewJobService(JobDependencies{
		JobRepo:        jobs,
		TechnicianRepo: technicians,
		Validator:      NewAssignmentValidator(availability),
		AuditSink:      sink,
	})
	return svc, jobs, technicians, availability, sink
}

func pinTime(svc *JobService, at time.Time) {
	svc.Now = func() time.Time { return at }
}

func TestCreateJob_Defaults(t *testing.T) {
	svc, _, _, _, sink := newJobServiceForTest(t)
	now := time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC)
	pinTime(svc, now)

	job, err := svc.CreateJob(context.Background(), JobCreateInput{
		Title:      "Replace pump seal",
		LocationID: "loc-1",
	})
	require.NoError(t, err)

	assert.Equal(t, domain.JobStatusPlanned, job.Status)
	assert.Equal(t, domain.JobPriorityMedium, job.Priority)
	assert.Nil(t, job.DueAt)

	created := sink.byType(domain.ActivityJobCreated)
	require.Len(t, created, 1)
	assert.Equal(t, job.ID, created[0].EntityID)
}

func TestCreateJob_RequiresTitleAndLocation(t *testing.T) {
	svc, _, _, _, _ := newJobServiceForTest(t)

	_, err := svc.CreateJob(context.Background(), JobCreateInput{Title: "x"})
	require.Error(t, err)
	assert.Equal(t, "VALIDATION_FAILED", apperrors.ToDomainError(err).Code)

	_, err = svc.CreateJob(context.Background(), JobCreateInput{LocationID: "loc-1"})
	require.Error(t, err)
	assert.Equal(t, "VALIDATION_FAILED", apperrors.ToDomainError(err).Code)
}

func TestCreateJob_WithTechnicianStartsAssigned(t *testing.T) {
	svc, _, _, _, _ := newJobServiceForTest(t)
	techID := "tech-1"

	job, err := svc.CreateJob(context.Background(), JobCreateInput{
		Title:        "Inspect conveyor",
		LocationID:   "loc-1",
		TechnicianID: &techID,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.JobStatusAssigned, job.Status)
}

func TestCreateJob_ComputesDueAt(t *testing.T) {
	svc, _, _, _, _ := newJobServiceForTest(t)
	now := time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC)
	pinTime(svc, now)

	start := time.Date(2026, 4, 2, 8, 0, 0, 0, time.UTC)
	sla := 6.0
	job, err := svc.CreateJob(context.Background(), JobCreateInput{
		Title:          "Calibrate sensor",
		LocationID:     "loc-1",
		ScheduledStart: &start,
		SLAHours:       &sla,
	})
	require.NoError(t, err)
	require.NotNil(t, job.DueAt)
	assert.Equal(t, start.Add(6*time.Hour), *job.DueAt)
	assert.False(t, job.IsOverdue)
}

func TestUpdateJob_OneAuditEntryPerCall(t *testing.T) {
	svc, _, _, _, sink := newJobServiceForTest(t)

	job, err := svc.CreateJob(context.Background(), JobCreateInput{Title: "Grease bearings", LocationID: "loc-1"})
	require.NoError(t, err)
	baseline := sink.count()

	// Plain field update: one JOB_UPDATED.
	notes := "parts ordered"
	_, err = svc.UpdateJob(context.Background(), job.ID, JobPatch{Notes: &notes})
	require.NoError(t, err)
	assert.Equal(t, baseline+1, sink.count())
	assert.Len(t, sink.byType(domain.ActivityJobUpdated), 1)

	// Status move plus field change: one JOB_STATUS_CHANGED, no JOB_UPDATED.
	status := domain.JobStatusInProgress
	priority := domain.JobPriorityHigh
	_, err = svc.UpdateJob(context.Background(), job.ID, JobPatch{Status: &status, Priority: &priority})
	require.NoError(t, err)
	assert.Equal(t, baseline+2, sink.count())

	changed := sink.byType(domain.ActivityJobStatusChanged)
	require.Len(t, changed, 1)
	assert.Equal(t, domain.JobStatusPlanned, changed[0].Metadata["oldStatus"])
}

func TestUpdateJob_RetriesOnVersionConflict(t *testing.T) {
	svc, jobs, _, _, _ := newJobServiceForTest(t)

	job, err := svc.CreateJob(context.Background(), JobCreateInput{Title: "Swap filter", LocationID: "loc-1"})
	require.NoError(t, err)

	jobs.forceConflicts = 1
	notes := "retry me"
	updated, err := svc.UpdateJob(context.Background(), job.ID, JobPatch{Notes: &notes})
	require.NoError(t, err)
	assert.Equal(t, "retry me", updated.Notes)
}

func TestUpdateJob_ConflictAfterRetriesExhausted(t *testing.T) {
	svc, jobs, _, _, _ := newJobServiceForTest(t)

	job, err := svc.CreateJob(context.Background(), JobCreateInput{Title: "Swap filter", LocationID: "loc-1"})
	require.NoError(t, err)

	jobs.forceConflicts = maxWriteRetries
	notes := "never lands"
	_, err = svc.UpdateJob(context.Background(), job.ID, JobPatch{Notes: &notes})
	require.Error(t, err)
	assert.Equal(t, "CONFLICT", apperrors.ToDomainError(err).Code)
}

func TestUpdateJob_NotFound(t *testing.T) {
	svc, _, _, _, _ := newJobServiceForTest(t)
	notes := "nope"
	_, err := svc.UpdateJob(context.Background(), "missing", JobPatch{Notes: &notes})
	require.Error(t, err)
	assert.Equal(t, "NOT_FOUND", apperrors.ToDomainError(err).Code)
}

func TestAssignJob_ForcesAssignedAndAuditsStatusChange(t *testing.T) {
	svc, _, technicians, _, sink := newJobServiceForTest(t)

	technician := &domain.Technician{Name: "Ana", Email: "ana@example.com", Status: domain.TechnicianStatusAvailable}
	require.NoError(t, technicians.Create(context.Background(), technician))

	job, err := svc.CreateJob(context.Background(), JobCreateInput{Title: "Belt tension", LocationID: "loc-1"})
	require.NoError(t, err)

	assigned, _, err := svc.AssignJob(context.Background(), job.ID, AssignJobInput{TechnicianID: &technician.ID})
	require.NoError(t, err)

	assert.Equal(t, domain.JobStatusAssigned, assigned.Status)
	require.NotNil(t, assigned.TechnicianID)
	assert.Equal(t, technician.ID, *assigned.TechnicianID)
	assert.Len(t, sink.byType(domain.ActivityJobStatusChanged), 1)
}

func TestAssignJob_UnknownTechnician(t *testing.T) {
	svc, _, _, _, _ := newJobServiceForTest(t)

	job, err := svc.CreateJob(context.Background(), JobCreateInput{Title: "Belt tension", LocationID: "loc-1"})
	require.NoError(t, err)

	ghost := "tech-ghost"
	_, _, err = svc.AssignJob(context.Background(), job.ID, AssignJobInput{TechnicianID: &ghost})
	require.Error(t, err)
	assert.Equal(t, "NOT_FOUND", apperrors.ToDomainError(err).Code)
}

func TestAssignJob_UnavailableTechnicianIsAdvisoryOnly(t *testing.T) {
	svc, _, technicians, availability, _ := newJobServiceForTest(t)

	technician := &domain.Technician{Name: "Ben", Email: "ben@example.com", Status: domain.TechnicianStatusAvailable}
	require.NoError(t, technicians.Create(context.Background(), technician))

	planned := time.Date(2026, 4, 7, 0, 0, 0, 0, time.UTC)
	require.NoError(t, availability.Create(context.Background(), &domain.AvailabilitySlot{
		TechnicianID: technician.ID,
		Date:         planned,
		Shift:        domain.ShiftSlotFullDay,
		IsAvailable:  false,
		Reason:       "leave",
	}))

	job, err := svc.CreateJob(context.Background(), JobCreateInput{
		Title:       "Valve check",
		LocationID:  "loc-1",
		PlannedDate: &planned,
	})
	require.NoError(t, err)

	assigned, advice, err := svc.AssignJob(context.Background(), job.ID, AssignJobInput{TechnicianID: &technician.ID})
	require.NoError(t, err)

	// Assignment is never blocked; the advice just reports the slot.
	assert.Equal(t, domain.JobStatusAssigned, assigned.Status)
	assert.True(t, advice.Checked)
	assert.True(t, advice.SlotFound)
	assert.False(t, advice.IsAvailable)
	assert.Equal(t, "leave", advice.Reason)
}

func TestCancelJob_Idempotent(t *testing.T) {
	svc, _, _, _, sink := newJobServiceForTest(t)

	job, err := svc.CreateJob(context.Background(), JobCreateInput{Title: "Old task", LocationID: "loc-1"})
	require.NoError(t, err)

	first, err := svc.CancelJob(context.Background(), job.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.JobStatusCancelled, first.Status)
	statusChanges := len(sink.byType(domain.ActivityJobStatusChanged))

	second, err := svc.CancelJob(context.Background(), job.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.JobStatusCancelled, second.Status)
	assert.Equal(t, statusChanges, len(sink.byType(domain.ActivityJobStatusChanged)))
}

func TestCancelJob_ClearsOverdueFlag(t *testing.T) {
	svc, _, _, _, _ := newJobServiceForTest(t)
	now := time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC)
	pinTime(svc, now)

	start := now.Add(-3 * time.Hour)
	sla := 1.0
	job, err := svc.CreateJob(context.Background(), JobCreateInput{
		Title:          "Late task",
		LocationID:     "loc-1",
		ScheduledStart: &start,
		SLAHours:       &sla,
	})
	require.NoError(t, err)
	assert.True(t, job.IsOverdue)

	cancelled, err := svc.CancelJob(context.Background(), job.ID)
	require.NoError(t, err)
	assert.False(t, cancelled.IsOverdue)
}

func TestSummarizeJobs_SweepsAndCounts(t *testing.T) {
	svc, _, _, _, _ := newJobServiceForTest(t)
	now := time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC)
	pinTime(svc, now)

	// Overdue job: due two hours ago.
	start := now.Add(-3 * time.Hour)
	sla := 1.0
	_, err := svc.CreateJob(context.Background(), JobCreateInput{
		Title: "Overdue job", LocationID: "loc-1", ScheduledStart: &start, SLAHours: &sla,
	})
	require.NoError(t, err)

	// At-risk job: due in 2 hours.
	atRiskStart := now.Add(-4 * time.Hour)
	atRiskSLA := 6.0
	_, err = svc.CreateJob(context.Background(), JobCreateInput{
		Title: "At-risk job", LocationID: "loc-1", ScheduledStart: &atRiskStart, SLAHours: &atRiskSLA,
	})
	require.NoError(t, err)

	// Comfortable job: due in 3 days.
	farStart := now.Add(48 * time.Hour)
	farSLA := 24.0
	_, err = svc.CreateJob(context.Background(), JobCreateInput{
		Title: "Future job", LocationID: "loc-1", ScheduledStart: &farStart, SLAHours: &farSLA,
	})
	require.NoError(t, err)

	summary, err := svc.SummarizeJobs(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 3, summary.TotalJobs)
	assert.Equal(t, 3, summary.CountsByStatus[domain.JobStatusPlanned])
	assert.Equal(t, 1, summary.OverdueCount)
	require.Len(t, summary.OverdueJobs, 1)
	assert.Equal(t, "Overdue job", summary.OverdueJobs[0].Title)
	require.Len(t, summary.AtRiskJobs, 1)
	assert.Equal(t, "At-risk job", summary.AtRiskJobs[0].Title)
}
