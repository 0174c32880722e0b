package service

import (
	"context"
	"errors"
	"fmt"
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

// AssetService manages the asset register.
type AssetService struct {
	assets     repository.AssetRepository
	locations  repository.LocationRepository
	auditSink  audit.Sink
	dispatcher events.Dispatcher
	cache      *SummaryCache

	Now func() time.Time
}

// AssetDependencies bundles collaborators for the asset service.
type AssetDependencies struct {
	AssetRepo    repository.AssetRepository
	LocationRepo repository.LocationRepository
	AuditSink    audit.Sink
	Dispatcher   events.Dispatcher
	Cache        *SummaryCache
}

// NewAssetService constructs the service.
func NewAssetService(deps AssetDependencies) *AssetService {
	return &AssetService{
		assets:     deps.AssetRepo,
		locations:  deps.LocationRepo,
		auditSink:  deps.AuditSink,
		dispatcher: deps.Dispatcher,
		cache:      deps.Cache,
		Now:        time.Now,
	}
}

// AssetCreateInput describes a new asset.
type AssetCreateInput struct {
	Name               string
	AssetTag           string
	Type               string
	LocationID         string
	Criticality        domain.AssetCriticality
	Status             domain.AssetStatus
	LastMaintenanceAt  *time.Time
	NextMaintenanceDue *time.Time
}

// AssetPatch carries a partial update; nil fields retain their prior value.
type AssetPatch struct {
	Name               *string
	AssetTag           *string
	Type               *string
	LocationID         *string
	Criticality        *domain.AssetCriticality
	Status             *domain.AssetStatus
	LastMaintenanceAt  *time.Time
	NextMaintenanceDue *time.Time
}

// AssetListInput narrows asset listings.
type AssetListInput struct {
	LocationID  *string
	Criticality *domain.AssetCriticality
	Status      *domain.AssetStatus
	SearchTerm  *string
	Limit       int
	Offset      int
}

// CreateAsset registers an asset.
func (s *AssetService) CreateAsset(ctx context.Context, input AssetCreateInput) (*domain.Asset, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, apperrors.NewValidationError("name is required", nil)
	}
	if input.LocationID == "" {
		return nil, apperrors.NewValidationError("location is required", nil)
	}
	if input.Criticality == "" {
		input.Criticality = domain.AssetCriticalityMedium
	}
	if input.Status == "" {
		input.Status = domain.AssetStatusOperational
	}

	if _, err := s.locations.GetByID(ctx, input.LocationID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("location", map[string]any{"location_id": input.LocationID})
		}
		return nil, apperrors.MapError(err)
	}

	asset := &domain.Asset{
		Name:               input.Name,
		AssetTag:           input.AssetTag,
		Type:               input.Type,
		LocationID:         input.LocationID,
		Criticality:        input.Criticality,
		Status:             input.Status,
		LastMaintenanceAt:  input.LastMaintenanceAt,
		NextMaintenanceDue: input.NextMaintenanceDue,
	}
	if err := s.assets.Create(ctx, asset); err != nil {
		if apperrors.IsUniqueViolation(err) {
			return nil, apperrors.NewConflict("an asset with this tag already exists", map[string]any{"asset_tag": input.AssetTag})
		}
		return nil, apperrors.MapError(err)
	}
	return asset, nil
}

// UpdateAsset merges the patch over the stored asset. A status move produces
// an audit entry and an event.
func (s *AssetService) UpdateAsset(ctx context.Context, id string, patch AssetPatch) (*domain.Asset, error) {
	asset, err := s.GetAsset(ctx, id)
	if err != nil {
		return nil, err
	}
	oldStatus := asset.Status

	if patch.Name != nil {
		asset.Name = *patch.Name
	}
	if patch.AssetTag != nil {
		asset.AssetTag = *patch.AssetTag
	}
	if patch.Type != nil {
		asset.Type = *patch.Type
	}
	if patch.LocationID != nil {
		if _, err := s.locations.GetByID(ctx, *patch.LocationID); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, apperrors.NewNotFound("location", map[string]any{"location_id": *patch.LocationID})
			}
			return nil, apperrors.MapError(err)
		}
		asset.LocationID = *patch.LocationID
	}
	if patch.Criticality != nil {
		asset.Criticality = *patch.Criticality
	}
	if patch.Status != nil {
		asset.Status = *patch.Status
	}
	if patch.LastMaintenanceAt != nil {
		asset.LastMaintenanceAt = patch.LastMaintenanceAt
	}
	if patch.NextMaintenanceDue != nil {
		asset.NextMaintenanceDue = patch.NextMaintenanceDue
	}

	if err := s.assets.Update(ctx, asset); err != nil {
		return nil, apperrors.MapError(err)
	}

	if asset.Status != oldStatus {
		s.noteStatusChange(ctx, asset, oldStatus, "")
	}
	s.cache.InvalidateDowntimeSummaries(ctx)
	return asset, nil
}

// GetAsset fetches one asset.
func (s *AssetService) GetAsset(ctx context.Context, id string) (*domain.Asset, error) {
	asset, err := s.assets.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("asset", map[string]any{"asset_id": id})
		}
		return nil, apperrors.MapError(err)
	}
	return asset, nil
}

// ListAssets returns assets matching the filter.
func (s *AssetService) ListAssets(ctx context.Context, input AssetListInput) ([]domain.Asset, error) {
	assets, err := s.assets.List(ctx, repository.AssetFilter{
		LocationID:  input.LocationID,
		Criticality: input.Criticality,
		Status:      input.Status,
		SearchTerm:  input.SearchTerm,
		Limit:       input.Limit,
		Offset:      input.Offset,
	})
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return assets, nil
}

func (s *AssetService) noteStatusChange(ctx context.Context, asset *domain.Asset, oldStatus domain.AssetStatus, reason string) {
	if s.auditSink != nil {
		s.auditSink.Record(domain.ActivityLog{
			Type:       domain.ActivityAssetStatusChanged,
			Message:    fmt.Sprintf("Asset %q status changed from %s to %s", asset.Name, oldStatus, asset.Status),
			EntityType: "Asset",
			EntityID:   asset.ID,
			Metadata:   map[string]any{"oldStatus": oldStatus, "newStatus": asset.Status},
		})
	}
	if s.dispatcher != nil {
		_ = s.dispatcher.Publish(ctx, events.Event{
			ID:         uuid.NewString(),
			Type:       events.EventAssetStatusChanged,
			EntityType: "Asset",
			EntityID:   asset.ID,
			Timestamp:  s.Now(),
			Payload: events.AssetStatusChangedPayload{
				OldStatus: oldStatus,
				NewStatus: asset.Status,
				Reason:    reason,
			},
		})
	}
}
