package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/fieldworks/maintenance-service/internal/audit"
	"github.com/fieldworks/maintenance-service/internal/domain"
	"github.com/fieldworks/maintenance-service/internal/events"
	"github.com/fieldworks/maintenance-service/internal/repository"
	apperrors "github.com/fieldworks/maintenance-service/pkg/util"
)

const (
	// maxWriteRetries bounds the optimistic-concurrency retry loop on job
	// writes.
	maxWriteRetries = 3
	// overdueSampleLimit bounds the overdue job list in the summary.
	overdueSampleLimit = 10
	// atRiskWindow is how far ahead a due time counts as at risk.
	atRiskWindow = 24 * time.Hour
)

// JobService owns the job lifecycle: creation, updates, assignment,
// cancellation and the jobs dashboard summary.
type JobService struct {
	jobs        repository.JobRepository
	technicians repository.TechnicianRepository
	validator   *AssignmentValidator
	auditSink   audit.Sink
	dispatcher  events.Dispatcher
	cache       *SummaryCache

	// Now is replaceable so tests can pin time.
	Now func() time.Time
}

// JobDependencies bundles collaborators for the job service.
type JobDependencies struct {
	JobRepo        repository.JobRepository
	TechnicianRepo repository.TechnicianRepository
	Validator      *AssignmentValidator
	AuditSink      audit.Sink
	Dispatcher     events.Dispatcher
	Cache          *SummaryCache
}

// NewJobService constructs the service.
func NewJobService(deps JobDependencies) *JobService {
	return &JobService{
		jobs:        deps.JobRepo,
		technicians: deps.TechnicianRepo,
		validator:   deps.Validator,
		auditSink:   deps.AuditSink,
		dispatcher:  deps.Dispatcher,
		cache:       deps.Cache,
		Now:         time.Now,
	}
}

// JobCreateInput describes job creation payload.
type JobCreateInput struct {
	Title          string
	Description    string
	Priority       domain.JobPriority
	LocationID     string
	AssetID        *string
	TechnicianID   *string
	PlannedDate    *time.Time
	ScheduledStart *time.Time
	ScheduledEnd   *time.Time
	Notes          string
	SLAHours       *float64
}

// JobPatch carries a partial update; nil fields retain their prior value.
type JobPatch struct {
	Title          *string
	Description    *string
	Priority       *domain.JobPriority
	Status         *domain.JobStatus
	LocationID     *string
	AssetID        *string
	TechnicianID   *string
	PlannedDate    *time.Time
	ScheduledStart *time.Time
	ScheduledEnd   *time.Time
	ActualStart    *time.Time
	ActualEnd      *time.Time
	Notes          *string
	SLAHours       *float64
}

// AssignJobInput binds a technician and/or asset to a job.
type AssignJobInput struct {
	TechnicianID *string
	AssetID      *string
}

// JobListInput describes listing filters recognized by the core.
type JobListInput struct {
	Status       *domain.JobStatus
	Priority     *domain.JobPriority
	LocationID   *string
	TechnicianID *string
	AssetID      *string
	StartDate    *time.Time
	EndDate      *time.Time
	IsOverdue    *bool
	SearchTerm   *string
	Limit        int
	Offset       int
}

// JobBrief is the bounded-sample view of a job used in summaries.
type JobBrief struct {
	ID         string             `json:"id"`
	Title      string             `json:"title"`
	Priority   domain.JobPriority `json:"priority"`
	Status     domain.JobStatus   `json:"status"`
	LocationID string             `json:"location_id"`
	DueAt      *time.Time         `json:"due_at,omitempty"`
}

// JobSummary is the jobs dashboard payload.
type JobSummary struct {
	TotalJobs      int                      `json:"total_jobs"`
	CountsByStatus map[domain.JobStatus]int `json:"counts_by_status"`
	OverdueCount   int                      `json:"overdue_count"`
	OverdueJobs    []JobBrief               `json:"overdue_jobs"`
	AtRiskJobs     []JobBrief               `json:"at_risk_jobs"`
}

// CreateJob validates, computes SLA fields, persists and audits a new job.
func (s *JobService) CreateJob(ctx context.Context, input JobCreateInput) (*domain.Job, error) {
	if strings.TrimSpace(input.LocationID) == "" {
		return nil, apperrors.NewValidationError("location is required", nil)
	}
	if strings.TrimSpace(input.Title) == "" {
		return nil, apperrors.NewValidationError("title is required", nil)
	}

	job := &domain.Job{
		Title:          strings.TrimSpace(input.Title),
		Description:    strings.TrimSpace(input.Description),
		Priority:       input.Priority,
		Status:         domain.JobStatusPlanned,
		LocationID:     input.LocationID,
		AssetID:        input.AssetID,
		TechnicianID:   input.TechnicianID,
		PlannedDate:    input.PlannedDate,
		ScheduledStart: input.ScheduledStart,
		ScheduledEnd:   input.ScheduledEnd,
		Notes:          input.Notes,
		SLAHours:       input.SLAHours,
	}
	if job.Priority == "" {
		job.Priority = domain.JobPriorityMedium
	}
	if job.TechnicianID != nil {
		job.Status = domain.JobStatusAssigned
	}
	ApplySLAFields(job, s.Now())

	if err := s.jobs.Create(ctx, job); err != nil {
		return nil, apperrors.MapError(err)
	}

	s.recordAudit(domain.ActivityLog{
		Type:       domain.ActivityJobCreated,
		Message:    fmt.Sprintf("Job %q created", job.Title),
		EntityType: "Job",
		EntityID:   job.ID,
		Metadata:   map[string]any{"priority": job.Priority, "status": job.Status},
	})
	s.publishEvent(ctx, events.Event{
		Type:       events.EventJobCreated,
		EntityType: "Job",
		EntityID:   job.ID,
		Payload: events.JobCreatedPayload{
			Title:      job.Title,
			Priority:   job.Priority,
			Status:     job.Status,
			LocationID: job.LocationID,
			DueAt:      job.DueAt,
		},
	})
	s.invalidateSummaries(ctx)
	return job, nil
}

// UpdateJob merges the patch over the stored job, recomputes SLA fields and
// persists. Exactly one audit entry is written per call: JOB_STATUS_CHANGED
// when the status moved, JOB_UPDATED otherwise.
func (s *JobService) UpdateJob(ctx context.Context, id string, patch JobPatch) (*domain.Job, error) {
	var oldStatus domain.JobStatus
	job, err := s.mutateJob(ctx, id, func(job *domain.Job) error {
		oldStatus = job.Status
		applyPatch(job, patch)
		ApplySLAFields(job, s.Now())
		return nil
	})
	if err != nil {
		return nil, err
	}

	if job.Status != oldStatus {
		s.recordStatusChange(job, oldStatus)
		s.publishEvent(ctx, events.Event{
			Type:       events.EventJobStatusChanged,
			EntityType: "Job",
			EntityID:   job.ID,
			Payload:    events.JobStatusChangedPayload{OldStatus: oldStatus, NewStatus: job.Status},
		})
	} else {
		s.recordAudit(domain.ActivityLog{
			Type:       domain.ActivityJobUpdated,
			Message:    fmt.Sprintf("Job %q updated", job.Title),
			EntityType: "Job",
			EntityID:   job.ID,
		})
		s.publishEvent(ctx, events.Event{
			Type:       events.EventJobUpdated,
			EntityType: "Job",
			EntityID:   job.ID,
		})
	}
	s.invalidateSummaries(ctx)
	return job, nil
}

// AssignJob binds a technician and/or asset. A technician binding forces the
// status to Assigned; availability for the planned date is checked and
// returned as advice but never blocks the assignment. The forced status flip
// goes through the same status-change audit path as any other update.
func (s *JobService) AssignJob(ctx context.Context, id string, input AssignJobInput) (*domain.Job, AvailabilityAdvice, error) {
	advice := AvailabilityAdvice{}

	if input.TechnicianID != nil {
		if _, err := s.technicians.GetByID(ctx, *input.TechnicianID); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, advice, apperrors.NewNotFound("technician", map[string]any{"technician_id": *input.TechnicianID})
			}
			return nil, advice, apperrors.MapError(err)
		}
	}

	var oldStatus domain.JobStatus
	job, err := s.mutateJob(ctx, id, func(job *domain.Job) error {
		oldStatus = job.Status
		if input.TechnicianID != nil {
			checked, err := s.validator.Check(ctx, *input.TechnicianID, job.PlannedDate)
			if err != nil {
				return apperrors.MapError(err)
			}
			advice = checked
			job.TechnicianID = input.TechnicianID
			job.Status = domain.JobStatusAssigned
		}
		if input.AssetID != nil {
			job.AssetID = input.AssetID
		}
		ApplySLAFields(job, s.Now())
		return nil
	})
	if err != nil {
		return nil, advice, err
	}

	if job.Status != oldStatus {
		s.recordStatusChange(job, oldStatus)
	} else {
		s.recordAudit(domain.ActivityLog{
			Type:       domain.ActivityJobUpdated,
			Message:    fmt.Sprintf("Job %q updated", job.Title),
			EntityType: "Job",
			EntityID:   job.ID,
		})
	}

	var available *bool
	if advice.SlotFound {
		available = &advice.IsAvailable
	}
	s.publishEvent(ctx, events.Event{
		Type:       events.EventJobAssigned,
		EntityType: "Job",
		EntityID:   job.ID,
		Payload: events.JobAssignedPayload{
			TechnicianID:        job.TechnicianID,
			AssetID:             job.AssetID,
			TechnicianAvailable: available,
		},
	})
	s.invalidateSummaries(ctx)
	return job, advice, nil
}

// CancelJob moves a job to Cancelled. Never a hard delete, and idempotent:
// cancelling an already-cancelled job succeeds silently.
func (s *JobService) CancelJob(ctx context.Context, id string) (*domain.Job, error) {
	existing, err := s.GetJob(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing.Status == domain.JobStatusCancelled {
		return existing, nil
	}

	var oldStatus domain.JobStatus
	job, err := s.mutateJob(ctx, id, func(job *domain.Job) error {
		oldStatus = job.Status
		job.Status = domain.JobStatusCancelled
		ApplySLAFields(job, s.Now())
		return nil
	})
	if err != nil {
		return nil, err
	}

	if job.Status != oldStatus {
		s.recordStatusChange(job, oldStatus)
		s.publishEvent(ctx, events.Event{
			Type:       events.EventJobStatusChanged,
			EntityType: "Job",
			EntityID:   job.ID,
			Payload:    events.JobStatusChangedPayload{OldStatus: oldStatus, NewStatus: job.Status},
		})
	}
	s.invalidateSummaries(ctx)
	return job, nil
}

// GetJob fetches one job.
func (s *JobService) GetJob(ctx context.Context, id string) (*domain.Job, error) {
	job, err := s.jobs.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("job", map[string]any{"job_id": id})
		}
		return nil, apperrors.MapError(err)
	}
	return job, nil
}

// ListJobs returns jobs matching the filter options.
func (s *JobService) ListJobs(ctx context.Context, input JobListInput) ([]domain.Job, error) {
	filter := repository.JobFilter{
		Priority:     input.Priority,
		LocationID:   input.LocationID,
		TechnicianID: input.TechnicianID,
		AssetID:      input.AssetID,
		PlannedFrom:  input.StartDate,
		PlannedTo:    input.EndDate,
		IsOverdue:    input.IsOverdue,
		SearchTerm:   input.SearchTerm,
		Limit:        input.Limit,
		Offset:       input.Offset,
	}
	if input.Status != nil {
		filter.Statuses = []domain.JobStatus{*input.Status}
	}
	jobs, err := s.jobs.ListWithFilter(ctx, filter)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return jobs, nil
}

// SummarizeJobs produces the jobs dashboard: totals, per-status counts, the
// overdue sample and the at-risk list. It first runs the catch-up overdue
// sweep, since no background scheduler advances the flag on its own.
func (s *JobService) SummarizeJobs(ctx context.Context) (*JobSummary, error) {
	var cached JobSummary
	if s.cache.Get(ctx, cacheKeyJobSummary, &cached) {
		return &cached, nil
	}

	now := s.Now()
	if _, err := s.jobs.MarkOverdue(ctx, now); err != nil {
		return nil, apperrors.MapError(err)
	}

	counts, err := s.jobs.CountByStatus(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	total := 0
	for _, count := range counts {
		total += count
	}

	flagged := true
	overdueCount, err := s.jobs.CountWithFilter(ctx, repository.JobFilter{IsOverdue: &flagged})
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	overdueJobs, err := s.jobs.ListWithFilter(ctx, repository.JobFilter{
		IsOverdue: &flagged,
		Limit:     overdueSampleLimit,
	})
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	windowEnd := now.Add(atRiskWindow)
	atRisk, err := s.jobs.ListWithFilter(ctx, repository.JobFilter{
		Statuses: domain.ActiveJobStatuses,
		DueFrom:  &now,
		DueTo:    &windowEnd,
		Limit:    overdueSampleLimit * 5,
	})
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	sort.SliceStable(atRisk, func(i, j int) bool {
		if atRisk[i].DueAt == nil || atRisk[j].DueAt == nil {
			return atRisk[j].DueAt == nil
		}
		return atRisk[i].DueAt.Before(*atRisk[j].DueAt)
	})

	summary := &JobSummary{
		TotalJobs:      total,
		CountsByStatus: counts,
		OverdueCount:   overdueCount,
		OverdueJobs:    jobBriefs(overdueJobs),
		AtRiskJobs:     jobBriefs(atRisk),
	}
	s.cache.Set(ctx, cacheKeyJobSummary, summary)
	return summary, nil
}

// mutateJob runs a read-mutate-write cycle guarded by the job version,
// retrying when a concurrent write lands first.
func (s *JobService) mutateJob(ctx context.Context, id string, mutate func(*domain.Job) error) (*domain.Job, error) {
	for attempt := 0; attempt < maxWriteRetries; attempt++ {
		job, err := s.jobs.GetByID(ctx, id)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, apperrors.NewNotFound("job", map[string]any{"job_id": id})
			}
			return nil, apperrors.MapError(err)
		}
		if err := mutate(job); err != nil {
			return nil, err
		}
		err = s.jobs.Update(ctx, job)
		if err == nil {
			return job, nil
		}
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("job", map[string]any{"job_id": id})
		}
		if !errors.Is(err, repository.ErrVersionConflict) {
			return nil, apperrors.MapError(err)
		}
	}
	return nil, apperrors.NewConflict("job was modified concurrently", map[string]any{"job_id": id})
}

func applyPatch(job *domain.Job, patch JobPatch) {
	if patch.Title != nil {
		job.Title = strings.TrimSpace(*patch.Title)
	}
	if patch.Description != nil {
		job.Description = strings.TrimSpace(*patch.Description)
	}
	if patch.Priority != nil {
		job.Priority = *patch.Priority
	}
	if patch.Status != nil {
		job.Status = *patch.Status
	}
	if patch.LocationID != nil {
		job.LocationID = *patch.LocationID
	}
	if patch.AssetID != nil {
		job.AssetID = patch.AssetID
	}
	if patch.TechnicianID != nil {
		job.TechnicianID = patch.TechnicianID
	}
	if patch.PlannedDate != nil {
		job.PlannedDate = patch.PlannedDate
	}
	if patch.ScheduledStart != nil {
		job.ScheduledStart = patch.ScheduledStart
	}
	if patch.ScheduledEnd != nil {
		job.ScheduledEnd = patch.ScheduledEnd
	}
	if patch.ActualStart != nil {
		job.ActualStart = patch.ActualStart
	}
	if patch.ActualEnd != nil {
		job.ActualEnd = patch.ActualEnd
	}
	if patch.Notes != nil {
		job.Notes = *patch.Notes
	}
	if patch.SLAHours != nil {
		job.SLAHours = patch.SLAHours
	}
}

func (s *JobService) recordStatusChange(job *domain.Job, oldStatus domain.JobStatus) {
	s.recordAudit(domain.ActivityLog{
		Type:       domain.ActivityJobStatusChanged,
		Message:    fmt.Sprintf("Job %q status changed from %s to %s", job.Title, oldStatus, job.Status),
		EntityType: "Job",
		EntityID:   job.ID,
		Metadata:   map[string]any{"oldStatus": oldStatus, "newStatus": job.Status},
	})
}

func (s *JobService) recordAudit(entry domain.ActivityLog) {
	if s.auditSink == nil {
		return
	}
	s.auditSink.Record(entry)
}

func (s *JobService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = s.Now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}

func (s *JobService) invalidateSummaries(ctx context.Context) {
	s.cache.InvalidateJobSummaries(ctx)
}

func jobBriefs(jobs []domain.Job) []JobBrief {
	briefs := make([]JobBrief, 0, len(jobs))
	for _, job := range jobs {
		briefs = append(briefs, JobBrief{
			ID:         job.ID,
			Title:      job.Title,
			Priority:   job.Priority,
			Status:     job.Status,
			LocationID: job.LocationID,
			DueAt:      job.DueAt,
		})
	}
	return briefs
}
