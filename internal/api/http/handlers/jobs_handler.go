package handlers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/fieldworks/maintenance-service/internal/api/dto"
	"github.com/fieldworks/maintenance-service/internal/domain"
	"github.com/fieldworks/maintenance-service/internal/service"
	apperrors "github.com/fieldworks/maintenance-service/pkg/util"
)

// JobsHandler manages job lifecycle endpoints.
type JobsHandler struct {
	service *service.JobService
}

// NewJobsHandler constructs handler.
func NewJobsHandler(jobService *service.JobService) *JobsHandler {
	return &JobsHandler{service: jobService}
}

// CreateJob POST /jobs.
func (h *JobsHandler) CreateJob(c *fiber.Ctx) error {
	var req dto.CreateJobRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Title == "" || req.LocationID == "" {
		return apperrors.NewValidationError("title and location_id required", nil)
	}

	job, err := h.service.CreateJob(c.Context(), service.JobCreateInput{
		Title:          req.Title,
		Description:    req.Description,
		Priority:       req.Priority,
		LocationID:     req.LocationID,
		AssetID:        req.AssetID,
		TechnicianID:   req.TechnicianID,
		PlannedDate:    req.PlannedDate,
		ScheduledStart: req.ScheduledStart,
		ScheduledEnd:   req.ScheduledEnd,
		Notes:          req.Notes,
		SLAHours:       req.SLAHours,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.FromJob(job)})
}

// UpdateJob PATCH /jobs/:id.
func (h *JobsHandler) UpdateJob(c *fiber.Ctx) error {
	var req dto.UpdateJobRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	job, err := h.service.UpdateJob(c.Context(), c.Params("id"), service.JobPatch{
		Title:          req.Title,
		Description:    req.Description,
		Priority:       req.Priority,
		Status:         req.Status,
		LocationID:     req.LocationID,
		AssetID:        req.AssetID,
		TechnicianID:   req.TechnicianID,
		PlannedDate:    req.PlannedDate,
		ScheduledStart: req.ScheduledStart,
		ScheduledEnd:   req.ScheduledEnd,
		ActualStart:    req.ActualStart,
		ActualEnd:      req.ActualEnd,
		Notes:          req.Notes,
		SLAHours:       req.SLAHours,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.FromJob(job)})
}

// AssignJob POST /jobs/:id/assign.
func (h *JobsHandler) AssignJob(c *fiber.Ctx) error {
	var req dto.AssignJobRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.TechnicianID == nil && req.AssetID == nil {
		return apperrors.NewValidationError("technician_id or asset_id required", nil)
	}

	job, advice, err := h.service.AssignJob(c.Context(), c.Params("id"), service.AssignJobInput{
		TechnicianID: req.TechnicianID,
		AssetID:      req.AssetID,
	})
	if err != nil {
		return err
	}

	resp := dto.AssignJobResponse{Job: dto.FromJob(job)}
	if advice.Checked {
		resp.Availability = &dto.AvailabilityAdvice{
			SlotFound:   advice.SlotFound,
			IsAvailable: advice.IsAvailable,
			Shift:       advice.Shift,
			Reason:      advice.Reason,
		}
	}
	return c.JSON(fiber.Map{"data": resp})
}

// CancelJob POST /jobs/:id/cancel.
func (h *JobsHandler) CancelJob(c *fiber.Ctx) error {
	job, err := h.service.CancelJob(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.FromJob(job)})
}

// GetJob GET /jobs/:id.
func (h *JobsHandler) GetJob(c *fiber.Ctx) error {
	job, err := h.service.GetJob(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.FromJob(job)})
}

// ListJobs GET /jobs.
func (h *JobsHandler) ListJobs(c *fiber.Ctx) error {
	jobs, err := h.service.ListJobs(c.Context(), parseJobListQuery(c))
	if err != nil {
		return err
	}
	items := make([]dto.JobResponse, 0, len(jobs))
	for i := range jobs {
		items = append(items, dto.FromJob(&jobs[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

func parseJobListQuery(c *fiber.Ctx) service.JobListInput {
	input := service.JobListInput{
		Limit:  parseIntQuery(c, "limit", 50),
		Offset: parseIntQuery(c, "offset", 0),
	}
	if v := c.Query("status"); v != "" {
		status := domain.JobStatus(v)
		input.Status = &status
	}
	if v := c.Query("priority"); v != "" {
		priority := domain.JobPriority(v)
		input.Priority = &priority
	}
	if v := c.Query("location_id"); v != "" {
		input.LocationID = &v
	}
	if v := c.Query("technician_id"); v != "" {
		input.TechnicianID = &v
	}
	if v := c.Query("asset_id"); v != "" {
		input.AssetID = &v
	}
	if v := c.Query("search"); v != "" {
		term := strings.TrimSpace(v)
		input.SearchTerm = &term
	}
	if v := c.Query("overdue"); v != "" {
		flag := v == "true" || v == "1"
		input.IsOverdue = &flag
	}
	input.StartDate = parseTimeQuery(c, "start_date")
	input.EndDate = parseTimeQuery(c, "end_date")
	return input
}

func parseIntQuery(c *fiber.Ctx, key string, fallback int) int {
	val := c.Query(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func parseTimeQuery(c *fiber.Ctx, key string) *time.Time {
	val := c.Query(key)
	if val == "" {
		return nil
	}
	if parsed, err := time.Parse(time.RFC3339, val); err == nil {
		return &parsed
	}
	if parsed, err := time.Parse("2006-01-02", val); err == nil {
		return &parsed
	}
	return nil
}
