package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/fieldworks/maintenance-service/internal/service"
)

// SummariesHandler serves the dashboard aggregation endpoints.
type SummariesHandler struct {
	jobs     *service.JobService
	workload *service.WorkloadService
	downtime *service.DowntimeService
}

// NewSummariesHandler constructs handler.
func NewSummariesHandler(jobs *service.JobService, workload *service.WorkloadService, downtime *service.DowntimeService) *SummariesHandler {
	return &SummariesHandler{jobs: jobs, workload: workload, downtime: downtime}
}

// JobSummary GET /summaries/jobs.
func (h *SummariesHandler) JobSummary(c *fiber.Ctx) error {
	summary, err := h.jobs.SummarizeJobs(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": summary})
}

// Workload GET /summaries/workload.
func (h *SummariesHandler) Workload(c *fiber.Ctx) error {
	filter := service.WorkloadFilter{}
	if v := c.Query("location_id"); v != "" {
		filter.LocationID = &v
	}
	filter.StartDate = parseTimeQuery(c, "start_date")
	filter.EndDate = parseTimeQuery(c, "end_date")

	workloads, err := h.workload.TechnicianWorkloads(c.Context(), filter)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": workloads})
}

// Downtime GET /summaries/downtime.
func (h *SummariesHandler) Downtime(c *fiber.Ctx) error {
	days := parseIntQuery(c, "days", 0)
	var locationID *string
	if v := c.Query("location_id"); v != "" {
		locationID = &v
	}

	summary, err := h.downtime.SummarizeDowntime(c.Context(), days, locationID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": summary})
}
