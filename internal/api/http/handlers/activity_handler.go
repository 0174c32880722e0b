package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/fieldworks/maintenance-service/internal/api/dto"
	"github.com/fieldworks/maintenance-service/internal/domain"
	"github.com/fieldworks/maintenance-service/internal/service"
)

// ActivityHandler exposes the audit trail.
type ActivityHandler struct {
	service *service.ActivityService
}

// NewActivityHandler constructs handler.
func NewActivityHandler(activityService *service.ActivityService) *ActivityHandler {
	return &ActivityHandler{service: activityService}
}

// ListActivity GET /activity.
func (h *ActivityHandler) ListActivity(c *fiber.Ctx) error {
	input := service.ActivityListInput{
		Limit: parseIntQuery(c, "limit", 50),
	}
	if v := c.Query("type"); v != "" {
		activityType := domain.ActivityType(v)
		input.Type = &activityType
	}
	if v := c.Query("entity_type"); v != "" {
		input.EntityType = &v
	}

	entries, err := h.service.ListActivity(c.Context(), input)
	if err != nil {
		return err
	}
	items := make([]dto.ActivityEntryResponse, 0, len(entries))
	for i := range entries {
		items = append(items, dto.FromActivityLog(&entries[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}
