package service

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/fieldworks/maintenance-service/internal/domain"
	"github.com/fieldworks/maintenance-service/internal/repository"
	apperrors "github.com/fieldworks/maintenance-service/pkg/util"
)

// LocationService manages the site register.
type LocationService struct {
	locations repository.LocationRepository
}

// NewLocationService constructs the service.
func NewLocationService(locations repository.LocationRepository) *LocationService {
	return &LocationService{locations: locations}
}

// LocationCreateInput describes a new site.
type LocationCreateInput struct {
	Name    string
	Code    string
	Address string
	City    string
	Country string
}

// CreateLocation registers a site.
func (s *LocationService) CreateLocation(ctx context.Context, input LocationCreateInput) (*domain.Location, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, apperrors.NewValidationError("name is required", nil)
	}

	location := &domain.Location{
		Name:     input.Name,
		Code:     input.Code,
		Address:  input.Address,
		City:     input.City,
		Country:  input.Country,
		IsActive: true,
	}
	if err := s.locations.Create(ctx, location); err != nil {
		if apperrors.IsUniqueViolation(err) {
			return nil, apperrors.NewConflict("a location with this code already exists", map[string]any{"code": input.Code})
		}
		return nil, apperrors.MapError(err)
	}
	return location, nil
}

// GetLocation fetches one site.
func (s *LocationService) GetLocation(ctx context.Context, id string) (*domain.Location, error) {
	location, err := s.locations.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("location", map[string]any{"location_id": id})
		}
		return nil, apperrors.MapError(err)
	}
	return location, nil
}

// ListLocations returns sites, active only by default.
func (s *LocationService) ListLocations(ctx context.Context, includeInactive bool) ([]domain.Location, error) {
	locations, err := s.locations.List(ctx, includeInactive)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return locations, nil
}
