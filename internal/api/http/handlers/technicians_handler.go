package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/fieldworks/maintenance-service/internal/api/dto"
	"github.com/fieldworks/maintenance-service/internal/domain"
	"github.com/fieldworks/maintenance-service/internal/service"
	apperrors "github.com/fieldworks/maintenance-service/pkg/util"
)

// TechniciansHandler manages workforce roster endpoints.
type TechniciansHandler struct {
	service *service.TechnicianService
}

// NewTechniciansHandler constructs handler.
func NewTechniciansHandler(technicianService *service.TechnicianService) *TechniciansHandler {
	return &TechniciansHandler{service: technicianService}
}

// CreateTechnician POST /technicians.
func (h *TechniciansHandler) CreateTechnician(c *fiber.Ctx) error {
	var req dto.CreateTechnicianRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Name == "" || req.Email == "" {
		return apperrors.NewValidationError("name and email required", nil)
	}

	technician, err := h.service.CreateTechnician(c.Context(), service.TechnicianCreateInput{
		Name:         req.Name,
		Email:        req.Email,
		Phone:        req.Phone,
		Role:         req.Role,
		PrimarySkill: req.PrimarySkill,
		Skills:       req.Skills,
		LocationID:   req.LocationID,
		Status:       req.Status,
		ShiftType:    req.ShiftType,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.FromTechnician(technician)})
}

// UpdateTechnician PATCH /technicians/:id.
func (h *TechniciansHandler) UpdateTechnician(c *fiber.Ctx) error {
	var req dto.UpdateTechnicianRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	technician, err := h.service.UpdateTechnician(c.Context(), c.Params("id"), service.TechnicianPatch{
		Name:         req.Name,
		Phone:        req.Phone,
		Role:         req.Role,
		PrimarySkill: req.PrimarySkill,
		Skills:       req.Skills,
		LocationID:   req.LocationID,
		Status:       req.Status,
		ShiftType:    req.ShiftType,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.FromTechnician(technician)})
}

// DeactivateTechnician POST /technicians/:id/deactivate.
func (h *TechniciansHandler) DeactivateTechnician(c *fiber.Ctx) error {
	technician, err := h.service.DeactivateTechnician(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.FromTechnician(technician)})
}

// GetTechnician GET /technicians/:id.
func (h *TechniciansHandler) GetTechnician(c *fiber.Ctx) error {
	technician, err := h.service.GetTechnician(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.FromTechnician(technician)})
}

// ListTechnicians GET /technicians.
func (h *TechniciansHandler) ListTechnicians(c *fiber.Ctx) error {
	input := service.TechnicianListInput{
		IncludeInactive: c.Query("include_inactive") == "true",
		Limit:           parseIntQuery(c, "limit", 50),
		Offset:          parseIntQuery(c, "offset", 0),
	}
	if v := c.Query("location_id"); v != "" {
		input.LocationID = &v
	}
	if v := c.Query("status"); v != "" {
		status := domain.TechnicianStatus(v)
		input.Status = &status
	}
	if v := c.Query("skill"); v != "" {
		input.Skill = &v
	}
	if v := c.Query("search"); v != "" {
		input.SearchTerm = &v
	}

	technicians, err := h.service.ListTechnicians(c.Context(), input)
	if err != nil {
		return err
	}
	items := make([]dto.TechnicianResponse, 0, len(technicians))
	for i := range technicians {
		items = append(items, dto.FromTechnician(&technicians[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}
