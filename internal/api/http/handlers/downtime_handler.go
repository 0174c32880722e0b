package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/fieldworks/maintenance-service/internal/api/dto"
	"github.com/fieldworks/maintenance-service/internal/service"
	apperrors "github.com/fieldworks/maintenance-service/pkg/util"
)

// DowntimeHandler manages asset downtime endpoints.
type DowntimeHandler struct {
	service *service.DowntimeService
}

// NewDowntimeHandler constructs handler.
func NewDowntimeHandler(downtimeService *service.DowntimeService) *DowntimeHandler {
	return &DowntimeHandler{service: downtimeService}
}

// CreateDowntime POST /downtime.
func (h *DowntimeHandler) CreateDowntime(c *fiber.Ctx) error {
	var req dto.CreateDowntimeRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.AssetID == "" || req.StartedAt.IsZero() {
		return apperrors.NewValidationError("asset_id and started_at required", nil)
	}

	downtime, err := h.service.CreateDowntime(c.Context(), service.DowntimeCreateInput{
		AssetID:       req.AssetID,
		StartedAt:     req.StartedAt,
		EndedAt:       req.EndedAt,
		Reason:        req.Reason,
		MarkAssetDown: req.MarkAssetDown,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.FromDowntime(downtime)})
}

// UpdateDowntime PATCH /downtime/:id.
func (h *DowntimeHandler) UpdateDowntime(c *fiber.Ctx) error {
	var req dto.UpdateDowntimeRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	downtime, err := h.service.UpdateDowntime(c.Context(), c.Params("id"), service.DowntimePatch{
		StartedAt: req.StartedAt,
		EndedAt:   req.EndedAt,
		Reason:    req.Reason,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.FromDowntime(downtime)})
}

// DeleteDowntime DELETE /downtime/:id.
func (h *DowntimeHandler) DeleteDowntime(c *fiber.Ctx) error {
	if err := h.service.DeleteDowntime(c.Context(), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

// GetDowntime GET /downtime/:id.
func (h *DowntimeHandler) GetDowntime(c *fiber.Ctx) error {
	downtime, err := h.service.GetDowntime(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.FromDowntime(downtime)})
}

// ListDowntime GET /downtime.
func (h *DowntimeHandler) ListDowntime(c *fiber.Ctx) error {
	input := service.DowntimeListInput{
		Limit:  parseIntQuery(c, "limit", 50),
		Offset: parseIntQuery(c, "offset", 0),
	}
	if v := c.Query("asset_id"); v != "" {
		input.AssetID = &v
	}
	if v := c.Query("location_id"); v != "" {
		input.LocationID = &v
	}
	input.StartDate = parseTimeQuery(c, "start_date")
	input.EndDate = parseTimeQuery(c, "end_date")

	records, err := h.service.ListDowntime(c.Context(), input)
	if err != nil {
		return err
	}
	items := make([]dto.DowntimeResponse, 0, len(records))
	for i := range records {
		items = append(items, dto.FromDowntime(&records[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}
