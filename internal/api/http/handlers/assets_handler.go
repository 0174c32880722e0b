package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/fieldworks/maintenance-service/internal/api/dto"
	"github.com/fieldworks/maintenance-service/internal/domain"
	"github.com/fieldworks/maintenance-service/internal/service"
	apperrors "github.com/fieldworks/maintenance-service/pkg/util"
)

// AssetsHandler manages asset register endpoints.
type AssetsHandler struct {
	service *service.AssetService
}

// NewAssetsHandler constructs handler.
func NewAssetsHandler(assetService *service.AssetService) *AssetsHandler {
	return &AssetsHandler{service: assetService}
}

// CreateAsset POST /assets.
func (h *AssetsHandler) CreateAsset(c *fiber.Ctx) error {
	var req dto.CreateAssetRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Name == "" || req.LocationID == "" {
		return apperrors.NewValidationError("name and location_id required", nil)
	}

	asset, err := h.service.CreateAsset(c.Context(), service.AssetCreateInput{
		Name:               req.Name,
		AssetTag:           req.AssetTag,
		Type:               req.Type,
		LocationID:         req.LocationID,
		Criticality:        req.Criticality,
		Status:             req.Status,
		LastMaintenanceAt:  req.LastMaintenanceAt,
		NextMaintenanceDue: req.NextMaintenanceDue,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.FromAsset(asset)})
}

// UpdateAsset PATCH /assets/:id.
func (h *AssetsHandler) UpdateAsset(c *fiber.Ctx) error {
	var req dto.UpdateAssetRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	asset, err := h.service.UpdateAsset(c.Context(), c.Params("id"), service.AssetPatch{
		Name:               req.Name,
		AssetTag:           req.AssetTag,
		Type:               req.Type,
		LocationID:         req.LocationID,
		Criticality:        req.Criticality,
		Status:             req.Status,
		LastMaintenanceAt:  req.LastMaintenanceAt,
		NextMaintenanceDue: req.NextMaintenanceDue,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.FromAsset(asset)})
}

// GetAsset GET /assets/:id.
func (h *AssetsHandler) GetAsset(c *fiber.Ctx) error {
	asset, err := h.service.GetAsset(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.FromAsset(asset)})
}

// ListAssets GET /assets.
func (h *AssetsHandler) ListAssets(c *fiber.Ctx) error {
	input := service.AssetListInput{
		Limit:  parseIntQuery(c, "limit", 50),
		Offset: parseIntQuery(c, "offset", 0),
	}
	if v := c.Query("location_id"); v != "" {
		input.LocationID = &v
	}
	if v := c.Query("criticality"); v != "" {
		criticality := domain.AssetCriticality(v)
		input.Criticality = &criticality
	}
	if v := c.Query("status"); v != "" {
		status := domain.AssetStatus(v)
		input.Status = &status
	}
	if v := c.Query("search"); v != "" {
		input.SearchTerm = &v
	}

	assets, err := h.service.ListAssets(c.Context(), input)
	if err != nil {
		return err
	}
	items := make([]dto.AssetResponse, 0, len(assets))
	for i := range assets {
		items = append(items, dto.FromAsset(&assets[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}
