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

// TechnicianService manages the workforce roster.
type TechnicianService struct {
	technicians repository.TechnicianRepository
	auditSink   audit.Sink
	dispatcher  events.Dispatcher
	cache       *SummaryCache

	Now func() time.Time
}

// TechnicianDependencies bundles collaborators for the roster service.
type TechnicianDependencies struct {
	TechnicianRepo repository.TechnicianRepository
	AuditSink      audit.Sink
	Dispatcher     events.Dispatcher
	Cache          *SummaryCache
}

// NewTechnicianService constructs the service.
func NewTechnicianService(deps TechnicianDependencies) *TechnicianService {
	return &TechnicianService{
		technicians: deps.TechnicianRepo,
		auditSink:   deps.AuditSink,
		dispatcher:  deps.Dispatcher,
		cache:       deps.Cache,
		Now:         time.Now,
	}
}

// TechnicianCreateInput describes a new roster member.
type TechnicianCreateInput struct {
	Name         string
	Email        string
	Phone        string
	Role         domain.TechnicianRole
	PrimarySkill string
	Skills       []string
	LocationID   string
	Status       domain.TechnicianStatus
	ShiftType    domain.ShiftType
}

// TechnicianPatch carries a partial update; nil fields retain their prior
// value.
type TechnicianPatch struct {
	Name         *string
	Phone        *string
	Role         *domain.TechnicianRole
	PrimarySkill *string
	Skills       *[]string
	LocationID   *string
	Status       *domain.TechnicianStatus
	ShiftType    *domain.ShiftType
}

// TechnicianListInput narrows roster listings. Inactive technicians are
// hidden unless IncludeInactive is set or an explicit status is requested.
type TechnicianListInput struct {
	LocationID      *string
	Status          *domain.TechnicianStatus
	Skill           *string
	SearchTerm      *string
	IncludeInactive bool
	Limit           int
	Offset          int
}

// CreateTechnician adds a roster member. Email must be unique.
func (s *TechnicianService) CreateTechnician(ctx context.Context, input TechnicianCreateInput) (*domain.Technician, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, apperrors.NewValidationError("name is required", nil)
	}
	if strings.TrimSpace(input.Email) == "" {
		return nil, apperrors.NewValidationError("email is required", nil)
	}
	if input.Role == "" {
		input.Role = domain.TechnicianRoleField
	}
	if input.Status == "" {
		input.Status = domain.TechnicianStatusAvailable
	}
	if input.ShiftType == "" {
		input.ShiftType = domain.ShiftTypeDay
	}

	email := strings.ToLower(strings.TrimSpace(input.Email))
	if _, err := s.technicians.GetByEmail(ctx, email); err == nil {
		return nil, apperrors.NewConflict("a technician with this email already exists", map[string]any{"email": email})
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.MapError(err)
	}

	technician := &domain.Technician{
		Name:         input.Name,
		Email:        email,
		Phone:        input.Phone,
		Role:         input.Role,
		PrimarySkill: input.PrimarySkill,
		Skills:       input.Skills,
		LocationID:   input.LocationID,
		Status:       input.Status,
		ShiftType:    input.ShiftType,
	}
	if err := s.technicians.Create(ctx, technician); err != nil {
		if apperrors.IsUniqueViolation(err) {
			return nil, apperrors.NewConflict("a technician with this email already exists", map[string]any{"email": email})
		}
		return nil, apperrors.MapError(err)
	}
	return technician, nil
}

// UpdateTechnician merges the patch over the stored roster member. A status
// move produces an audit entry and an event.
func (s *TechnicianService) UpdateTechnician(ctx context.Context, id string, patch TechnicianPatch) (*domain.Technician, error) {
	technician, err := s.GetTechnician(ctx, id)
	if err != nil {
		return nil, err
	}
	oldStatus := technician.Status

	if patch.Name != nil {
		technician.Name = *patch.Name
	}
	if patch.Phone != nil {
		technician.Phone = *patch.Phone
	}
	if patch.Role != nil {
		technician.Role = *patch.Role
	}
	if patch.PrimarySkill != nil {
		technician.PrimarySkill = *patch.PrimarySkill
	}
	if patch.Skills != nil {
		technician.Skills = *patch.Skills
	}
	if patch.LocationID != nil {
		technician.LocationID = *patch.LocationID
	}
	if patch.Status != nil {
		technician.Status = *patch.Status
	}
	if patch.ShiftType != nil {
		technician.ShiftType = *patch.ShiftType
	}

	if err := s.technicians.Update(ctx, technician); err != nil {
		return nil, apperrors.MapError(err)
	}

	if technician.Status != oldStatus {
		s.noteStatusChange(ctx, technician, oldStatus)
	}
	s.invalidate(ctx)
	return technician, nil
}

// DeactivateTechnician soft-deletes a roster member by marking them
// Inactive. Their job history stays intact.
func (s *TechnicianService) DeactivateTechnician(ctx context.Context, id string) (*domain.Technician, error) {
	technician, err := s.GetTechnician(ctx, id)
	if err != nil {
		return nil, err
	}
	if technician.Status == domain.TechnicianStatusInactive {
		return technician, nil
	}
	oldStatus := technician.Status
	technician.Status = domain.TechnicianStatusInactive
	if err := s.technicians.Update(ctx, technician); err != nil {
		return nil, apperrors.MapError(err)
	}
	s.noteStatusChange(ctx, technician, oldStatus)
	s.invalidate(ctx)
	return technician, nil
}

// GetTechnician fetches one roster member.
func (s *TechnicianService) GetTechnician(ctx context.Context, id string) (*domain.Technician, error) {
	technician, err := s.technicians.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("technician", map[string]any{"technician_id": id})
		}
		return nil, apperrors.MapError(err)
	}
	return technician, nil
}

// ListTechnicians returns roster members matching the filter.
func (s *TechnicianService) ListTechnicians(ctx context.Context, input TechnicianListInput) ([]domain.Technician, error) {
	filter := repository.TechnicianFilter{
		LocationID:      input.LocationID,
		Status:          input.Status,
		Skill:           input.Skill,
		SearchTerm:      input.SearchTerm,
		ExcludeInactive: !input.IncludeInactive && input.Status == nil,
		Limit:           input.Limit,
		Offset:          input.Offset,
	}
	technicians, err := s.technicians.List(ctx, filter)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return technicians, nil
}

func (s *TechnicianService) noteStatusChange(ctx context.Context, technician *domain.Technician, oldStatus domain.TechnicianStatus) {
	if s.auditSink != nil {
		s.auditSink.Record(domain.ActivityLog{
			Type:       domain.ActivityTechnicianStatusChanged,
			Message:    fmt.Sprintf("Technician %q status changed from %s to %s", technician.Name, oldStatus, technician.Status),
			EntityType: "Technician",
			EntityID:   technician.ID,
			Metadata:   map[string]any{"oldStatus": oldStatus, "newStatus": technician.Status},
		})
	}
	if s.dispatcher != nil {
		_ = s.dispatcher.Publish(ctx, events.Event{
			ID:         uuid.NewString(),
			Type:       events.EventTechnicianStatusChanged,
			EntityType: "Technician",
			EntityID:   technician.ID,
			Timestamp:  s.Now(),
			Payload: events.TechnicianStatusChangedPayload{
				OldStatus: oldStatus,
				NewStatus: technician.Status,
			},
		})
	}
}

func (s *TechnicianService) invalidate(ctx context.Context) {
	// Roster changes shift workload attribution.
	s.cache.InvalidateJobSummaries(ctx)
}
