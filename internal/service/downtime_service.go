package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/fieldworks/maintenance-service/internal/audit"
	"github.com/fieldworks/maintenance-service/internal/domain"
	"github.com/fieldworks/maintenance-service/internal/events"
	"github.com/fieldworks/maintenance-service/internal/repository"
	apperrors "github.com/fieldworks/maintenance-service/pkg/util"
)

const (
	defaultDowntimeWindowDays = 30
	topCriticalLimit          = 5
)

// DowntimeService tracks asset downtime intervals and produces the downtime
// dashboard summary.
type DowntimeService struct {
	downtime   repository.DowntimeRepository
	assets     repository.AssetRepository
	auditSink  audit.Sink
	dispatcher events.Dispatcher
	cache      *SummaryCache

	Now func() time.Time
}

// DowntimeDependencies bundles collaborators for the downtime service.
type DowntimeDependencies struct {
	DowntimeRepo repository.DowntimeRepository
	AssetRepo    repository.AssetRepository
	AuditSink    audit.Sink
	Dispatcher   events.Dispatcher
	Cache        *SummaryCache
}

// NewDowntimeService constructs the service.
func NewDowntimeService(deps DowntimeDependencies) *DowntimeService {
	return &DowntimeService{
		downtime:   deps.DowntimeRepo,
		assets:     deps.AssetRepo,
		auditSink:  deps.AuditSink,
		dispatcher: deps.Dispatcher,
		cache:      deps.Cache,
		Now:        time.Now,
	}
}

// DowntimeCreateInput describes a new downtime interval.
type DowntimeCreateInput struct {
	AssetID   string
	StartedAt time.Time
	EndedAt   *time.Time
	Reason    string
	// MarkAssetDown also flips the asset status to Down.
	MarkAssetDown bool
}

// DowntimePatch carries a partial update; nil fields retain their prior value.
type DowntimePatch struct {
	StartedAt *time.Time
	EndedAt   *time.Time
	Reason    *string
}

// DowntimeListInput narrows downtime listings.
type DowntimeListInput struct {
	AssetID    *string
	LocationID *string
	StartDate  *time.Time
	EndDate    *time.Time
	Limit      int
	Offset     int
}

// AssetDowntimeTotal is one asset row in the downtime summary.
type AssetDowntimeTotal struct {
	AssetID            string                  `json:"asset_id"`
	AssetName          string                  `json:"asset_name"`
	Criticality        domain.AssetCriticality `json:"criticality"`
	TotalDowntimeHours float64                 `json:"total_downtime_hours"`
	IncidentCount      int                     `json:"incident_count"`
}

// DowntimeSummary is the downtime dashboard payload.
type DowntimeSummary struct {
	WindowDays         int                  `json:"window_days"`
	TotalDowntimeHours float64              `json:"total_downtime_hours"`
	DowntimeByAsset    []AssetDowntimeTotal `json:"downtime_by_asset"`
	TopCriticalAssets  []AssetDowntimeTotal `json:"top_critical_assets"`
}

// CreateDowntime validates and persists a downtime interval, optionally
// flipping the asset to Down.
func (s *DowntimeService) CreateDowntime(ctx context.Context, input DowntimeCreateInput) (*domain.AssetDowntime, error) {
	if input.AssetID == "" {
		return nil, apperrors.NewValidationError("asset is required", nil)
	}
	if input.EndedAt != nil && input.EndedAt.Before(input.StartedAt) {
		return nil, apperrors.NewValidationError("endedAt must not precede startedAt", nil)
	}

	asset, err := s.getAsset(ctx, input.AssetID)
	if err != nil {
		return nil, err
	}

	downtime := &domain.AssetDowntime{
		AssetID:   input.AssetID,
		StartedAt: input.StartedAt,
		EndedAt:   input.EndedAt,
		Reason:    input.Reason,
	}
	if err := s.downtime.Create(ctx, downtime); err != nil {
		return nil, apperrors.MapError(err)
	}

	if input.MarkAssetDown && asset.Status != domain.AssetStatusDown {
		oldStatus := asset.Status
		asset.Status = domain.AssetStatusDown
		if err := s.assets.Update(ctx, asset); err != nil {
			return nil, apperrors.MapError(err)
		}
		s.recordAudit(domain.ActivityLog{
			Type:       domain.ActivityAssetStatusChanged,
			Message:    fmt.Sprintf("Asset %q status changed to Down due to downtime report", asset.Name),
			EntityType: "Asset",
			EntityID:   asset.ID,
			Metadata:   map[string]any{"oldStatus": oldStatus, "newStatus": domain.AssetStatusDown, "reason": input.Reason},
		})
		s.publishEvent(ctx, events.Event{
			Type:       events.EventAssetStatusChanged,
			EntityType: "Asset",
			EntityID:   asset.ID,
			Payload:    events.AssetStatusChangedPayload{OldStatus: oldStatus, NewStatus: domain.AssetStatusDown, Reason: input.Reason},
		})
	}

	s.publishEvent(ctx, events.Event{
		Type:       events.EventDowntimeRecorded,
		EntityType: "AssetDowntime",
		EntityID:   downtime.ID,
		Payload: events.DowntimeRecordedPayload{
			AssetID:   downtime.AssetID,
			StartedAt: downtime.StartedAt,
			EndedAt:   downtime.EndedAt,
			Reason:    downtime.Reason,
		},
	})
	s.cache.InvalidateDowntimeSummaries(ctx)
	return downtime, nil
}

// UpdateDowntime merges the patch over the stored record.
func (s *DowntimeService) UpdateDowntime(ctx context.Context, id string, patch DowntimePatch) (*domain.AssetDowntime, error) {
	downtime, err := s.GetDowntime(ctx, id)
	if err != nil {
		return nil, err
	}

	if patch.StartedAt != nil {
		downtime.StartedAt = *patch.StartedAt
	}
	if patch.EndedAt != nil {
		downtime.EndedAt = patch.EndedAt
	}
	if patch.Reason != nil {
		downtime.Reason = *patch.Reason
	}
	if downtime.EndedAt != nil && downtime.EndedAt.Before(downtime.StartedAt) {
		return nil, apperrors.NewValidationError("endedAt must not precede startedAt", nil)
	}

	if err := s.downtime.Update(ctx, downtime); err != nil {
		return nil, apperrors.MapError(err)
	}
	s.cache.InvalidateDowntimeSummaries(ctx)
	return downtime, nil
}

// DeleteDowntime removes a downtime record.
func (s *DowntimeService) DeleteDowntime(ctx context.Context, id string) error {
	if err := s.downtime.Delete(ctx, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("downtime record", map[string]any{"downtime_id": id})
		}
		return apperrors.MapError(err)
	}
	s.cache.InvalidateDowntimeSummaries(ctx)
	return nil
}

// GetDowntime fetches one downtime record.
func (s *DowntimeService) GetDowntime(ctx context.Context, id string) (*domain.AssetDowntime, error) {
	downtime, err := s.downtime.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("downtime record", map[string]any{"downtime_id": id})
		}
		return nil, apperrors.MapError(err)
	}
	return downtime, nil
}

// ListDowntime returns downtime records matching the filter. A location
// filter restricts to downtime of assets at that location.
func (s *DowntimeService) ListDowntime(ctx context.Context, input DowntimeListInput) ([]domain.AssetDowntime, error) {
	filter := repository.DowntimeFilter{
		AssetID:     input.AssetID,
		StartedFrom: input.StartDate,
		StartedTo:   input.EndDate,
		Limit:       input.Limit,
		Offset:      input.Offset,
	}

	if input.LocationID != nil {
		assetIDs, err := s.assetIDsAtLocation(ctx, *input.LocationID)
		if err != nil {
			return nil, err
		}
		if input.AssetID != nil {
			if !containsString(assetIDs, *input.AssetID) {
				return []domain.AssetDowntime{}, nil
			}
		} else {
			if len(assetIDs) == 0 {
				return []domain.AssetDowntime{}, nil
			}
			filter.AssetIDs = assetIDs
		}
	}

	records, err := s.downtime.ListWithFilter(ctx, filter)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return records, nil
}

// SummarizeDowntime aggregates downtime hours per asset over a trailing
// window of days (default 30), ranked by total hours. The top-critical
// sublist keeps the pre-sorted order and is truncated to the five largest
// High-criticality entries.
func (s *DowntimeService) SummarizeDowntime(ctx context.Context, days int, locationID *string) (*DowntimeSummary, error) {
	if days <= 0 {
		days = defaultDowntimeWindowDays
	}

	cacheKey := downtimeCacheKey(days, locationID)
	var cached DowntimeSummary
	if s.cache.Get(ctx, cacheKey, &cached) {
		return &cached, nil
	}

	now := s.Now()
	windowStart := now.AddDate(0, 0, -days)

	filter := repository.DowntimeFilter{
		StartedFrom: &windowStart,
		Limit:       aggregationFetchLimit,
	}
	if locationID != nil {
		assetIDs, err := s.assetIDsAtLocation(ctx, *locationID)
		if err != nil {
			return nil, err
		}
		if len(assetIDs) == 0 {
			summary := &DowntimeSummary{WindowDays: days, DowntimeByAsset: []AssetDowntimeTotal{}, TopCriticalAssets: []AssetDowntimeTotal{}}
			s.cache.Set(ctx, cacheKey, summary)
			return summary, nil
		}
		filter.AssetIDs = assetIDs
	}

	records, err := s.downtime.ListWithFilter(ctx, filter)
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	totals := make(map[string]*AssetDowntimeTotal)
	order := []string{}
	for _, record := range records {
		entry, ok := totals[record.AssetID]
		if !ok {
			entry = &AssetDowntimeTotal{AssetID: record.AssetID}
			totals[record.AssetID] = entry
			order = append(order, record.AssetID)
		}
		entry.TotalDowntimeHours += record.DurationHours(now)
		entry.IncidentCount++
	}

	byAsset := make([]AssetDowntimeTotal, 0, len(order))
	grandTotal := 0.0
	for _, assetID := range order {
		entry := totals[assetID]
		if asset, err := s.getAsset(ctx, assetID); err == nil {
			entry.AssetName = asset.Name
			entry.Criticality = asset.Criticality
		}
		grandTotal += entry.TotalDowntimeHours
		byAsset = append(byAsset, *entry)
	}

	sort.SliceStable(byAsset, func(i, j int) bool {
		return byAsset[i].TotalDowntimeHours > byAsset[j].TotalDowntimeHours
	})

	topCritical := make([]AssetDowntimeTotal, 0, topCriticalLimit)
	for _, entry := range byAsset {
		if entry.Criticality != domain.AssetCriticalityHigh {
			continue
		}
		topCritical = append(topCritical, entry)
		if len(topCritical) == topCriticalLimit {
			break
		}
	}

	summary := &DowntimeSummary{
		WindowDays:         days,
		TotalDowntimeHours: grandTotal,
		DowntimeByAsset:    byAsset,
		TopCriticalAssets:  topCritical,
	}
	s.cache.Set(ctx, cacheKey, summary)
	return summary, nil
}

func (s *DowntimeService) getAsset(ctx context.Context, id string) (*domain.Asset, error) {
	asset, err := s.assets.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("asset", map[string]any{"asset_id": id})
		}
		return nil, apperrors.MapError(err)
	}
	return asset, nil
}

func (s *DowntimeService) assetIDsAtLocation(ctx context.Context, locationID string) ([]string, error) {
	assets, err := s.assets.List(ctx, repository.AssetFilter{
		LocationID: &locationID,
		Limit:      aggregationFetchLimit,
	})
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	ids := make([]string, 0, len(assets))
	for _, asset := range assets {
		ids = append(ids, asset.ID)
	}
	return ids, nil
}

func (s *DowntimeService) recordAudit(entry domain.ActivityLog) {
	if s.auditSink == nil {
		return
	}
	s.auditSink.Record(entry)
}

func (s *DowntimeService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = s.Now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}

func downtimeCacheKey(days int, locationID *string) string {
	key := cacheKeyDowntimePrefix + strconv.Itoa(days)
	if locationID != nil {
		key += ":" + *locationID
	}
	return key
}

func containsString(values []string, target string) bool {
	for _, value := range values {
		if value == target {
			return true
		}
	}
	return false
}
