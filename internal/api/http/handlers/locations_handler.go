package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/fieldworks/maintenance-service/internal/api/dto"
	"github.com/fieldworks/maintenance-service/internal/service"
	apperrors "github.com/fieldworks/maintenance-service/pkg/util"
)

// LocationsHandler manages site register endpoints.
type LocationsHandler struct {
	service *service.LocationService
}

// NewLocationsHandler constructs handler.
func NewLocationsHandler(locationService *service.LocationService) *LocationsHandler {
	return &LocationsHandler{service: locationService}
}

// CreateLocation POST /locations.
func (h *LocationsHandler) CreateLocation(c *fiber.Ctx) error {
	var req dto.CreateLocationRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Name == "" {
		return apperrors.NewValidationError("name required", nil)
	}

	location, err := h.service.CreateLocation(c.Context(), service.LocationCreateInput{
		Name:    req.Name,
		Code:    req.Code,
		Address: req.Address,
		City:    req.City,
		Country: req.Country,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.FromLocation(location)})
}

// GetLocation GET /locations/:id.
func (h *LocationsHandler) GetLocation(c *fiber.Ctx) error {
	location, err := h.service.GetLocation(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.FromLocation(location)})
}

// ListLocations GET /locations.
func (h *LocationsHandler) ListLocations(c *fiber.Ctx) error {
	locations, err := h.service.ListLocations(c.Context(), c.Query("include_inactive") == "true")
	if err != nil {
		return err
	}
	items := make([]dto.LocationResponse, 0, len(locations))
	for i := range locations {
		items = append(items, dto.FromLocation(&locations[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}
