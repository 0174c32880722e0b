package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/fieldworks/maintenance-service/internal/api/dto"
	"github.com/fieldworks/maintenance-service/internal/service"
	apperrors "github.com/fieldworks/maintenance-service/pkg/util"
)

// AvailabilityHandler manages technician availability endpoints.
type AvailabilityHandler struct {
	service *service.AvailabilityService
}

// NewAvailabilityHandler constructs handler.
func NewAvailabilityHandler(availabilityService *service.AvailabilityService) *AvailabilityHandler {
	return &AvailabilityHandler{service: availabilityService}
}

// CreateSlot POST /availability.
func (h *AvailabilityHandler) CreateSlot(c *fiber.Ctx) error {
	var req dto.CreateSlotRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.TechnicianID == "" || req.Date.IsZero() {
		return apperrors.NewValidationError("technician_id and date required", nil)
	}

	slot, err := h.service.CreateSlot(c.Context(), service.SlotCreateInput{
		TechnicianID: req.TechnicianID,
		Date:         req.Date,
		Shift:        req.Shift,
		IsAvailable:  req.IsAvailable,
		Reason:       req.Reason,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.FromSlot(slot)})
}

// UpdateSlot PATCH /availability/:id.
func (h *AvailabilityHandler) UpdateSlot(c *fiber.Ctx) error {
	var req dto.UpdateSlotRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	slot, err := h.service.UpdateSlot(c.Context(), c.Params("id"), service.SlotPatch{
		Shift:       req.Shift,
		IsAvailable: req.IsAvailable,
		Reason:      req.Reason,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.FromSlot(slot)})
}

// DeleteSlot DELETE /availability/:id.
func (h *AvailabilityHandler) DeleteSlot(c *fiber.Ctx) error {
	if err := h.service.DeleteSlot(c.Context(), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

// ListSlots GET /availability.
func (h *AvailabilityHandler) ListSlots(c *fiber.Ctx) error {
	input := service.SlotListInput{
		Limit:  parseIntQuery(c, "limit", 50),
		Offset: parseIntQuery(c, "offset", 0),
	}
	if v := c.Query("technician_id"); v != "" {
		input.TechnicianID = &v
	}
	input.DateFrom = parseTimeQuery(c, "date_from")
	input.DateTo = parseTimeQuery(c, "date_to")

	slots, err := h.service.ListSlots(c.Context(), input)
	if err != nil {
		return err
	}
	items := make([]dto.SlotResponse, 0, len(slots))
	for i := range slots {
		items = append(items, dto.FromSlot(&slots[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}
