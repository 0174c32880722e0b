package service

import (
	"context"

	"github.com/fieldworks/maintenance-service/internal/domain"
	"github.com/fieldworks/maintenance-service/internal/repository"
	apperrors "github.com/fieldworks/maintenance-service/pkg/util"
)

// ActivityService exposes read access to the audit trail.
type ActivityService struct {
	logs repository.ActivityLogRepository
}

// NewActivityService constructs the service.
func NewActivityService(logs repository.ActivityLogRepository) *ActivityService {
	return &ActivityService{logs: logs}
}

// ActivityListInput narrows audit trail reads.
type ActivityListInput struct {
	Type       *domain.ActivityType
	EntityType *string
	Limit      int
}

// ListActivity returns recent audit entries, newest first.
func (s *ActivityService) ListActivity(ctx context.Context, input ActivityListInput) ([]domain.ActivityLog, error) {
	entries, err := s.logs.List(ctx, repository.ActivityFilter{
		Type:       input.Type,
		EntityType: input.EntityType,
		Limit:      input.Limit,
	})
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return entries, nil
}
