package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/fieldworks/maintenance-service/internal/domain"
	"github.com/fieldworks/maintenance-service/internal/repository"
)

// In-memory repository fakes backing the service tests. The job fake
// enforces the same version guard as the Postgres implementation.

type fakeJobRepo struct {
	mu     sync.Mutex
	seq    int
	jobs   map[string]domain.Job
	forceConflicts int // remaining Update calls to reject with a version conflict
}

func newFakeJobRepo() *fakeJobRepo {
	return &fakeJobRepo{jobs: make(map[string]domain.Job)}
}

func (r *fakeJobRepo) Create(_ context.Context, job *domain.Job) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	job.ID = fmt.Sprintf("job-%d", r.seq)
	job.Version = 1
	job.CreatedAt = time.Now()
	job.UpdatedAt = job.CreatedAt
	r.jobs[job.ID] = *job
	return nil
}

func (r *fakeJobRepo) Update(_ context.Context, job *domain.Job) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.jobs[job.ID]
	if !ok {
		return pgx.ErrNoRows
	}
	if r.forceConflicts > 0 {
		r.forceConflicts--
		return repository.ErrVersionConflict
	}
	if stored.Version != job.Version {
		return repository.ErrVersionConflict
	}
	job.Version++
	job.UpdatedAt = time.Now()
	r.jobs[job.ID] = *job
	return nil
}

func (r *fakeJobRepo) GetByID(_ context.Context, id string) (*domain.Job, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	job, ok := r.jobs[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := job
	return &copied, nil
}

func (r *fakeJobRepo) ListWithFilter(_ context.Context, filter repository.JobFilter) ([]domain.Job, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []domain.Job
	for _, job := range r.jobs {
		if matchJob(job, filter) {
			result = append(result, job)
		}
	}
	if filter.Limit > 0 && len(result) > filter.Limit {
		result = result[:filter.Limit]
	}
	return result, nil
}

func (r *fakeJobRepo) CountWithFilter(ctx context.Context, filter repository.JobFilter) (int, error) {
	noLimit := filter
	noLimit.Limit = 0
	jobs, err := r.ListWithFilter(ctx, noLimit)
	if err != nil {
		return 0, err
	}
	return len(jobs), nil
}

func (r *fakeJobRepo) CountByStatus(_ context.Context) (map[domain.JobStatus]int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	counts := make(map[domain.JobStatus]int)
	for _, job := range r.jobs {
		counts[job.Status]++
	}
	return counts, nil
}

func (r *fakeJobRepo) MarkOverdue(_ context.Context, asOf time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var flipped int64
	for id, job := range r.jobs {
		if job.IsOverdue || job.Status.Terminal() || job.DueAt == nil {
			continue
		}
		if asOf.After(*job.DueAt) {
			job.IsOverdue = true
			r.jobs[id] = job
			flipped++
		}
	}
	return flipped, nil
}

func matchJob(job domain.Job, filter repository.JobFilter) bool {
	if len(filter.Statuses) > 0 {
		found := false
		for _, status := range filter.Statuses {
			if job.Status == status {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if filter.Priority != nil && job.Priority != *filter.Priority {
		return false
	}
	if filter.LocationID != nil && job.LocationID != *filter.LocationID {
		return false
	}
	if filter.TechnicianID != nil && (job.TechnicianID == nil || *job.TechnicianID != *filter.TechnicianID) {
		return false
	}
	if filter.AssetID != nil && (job.AssetID == nil || *job.AssetID != *filter.AssetID) {
		return false
	}
	if filter.IsOverdue != nil && job.IsOverdue != *filter.IsOverdue {
		return false
	}
	if filter.HasTechnician != nil {
		if *filter.HasTechnician != (job.TechnicianID != nil) {
			return false
		}
	}
	if filter.PlannedFrom != nil && (job.PlannedDate == nil || job.PlannedDate.Before(*filter.PlannedFrom)) {
		return false
	}
	if filter.PlannedTo != nil && (job.PlannedDate == nil || job.PlannedDate.After(*filter.PlannedTo)) {
		return false
	}
	if filter.DueFrom != nil && (job.DueAt == nil || job.DueAt.Before(*filter.DueFrom)) {
		return false
	}
	if filter.DueTo != nil && (job.DueAt == nil || job.DueAt.After(*filter.DueTo)) {
		return false
	}
	if filter.SearchTerm != nil && !strings.Contains(strings.ToLower(job.Title), strings.ToLower(*filter.SearchTerm)) {
		return false
	}
	return true
}

type fakeTechnicianRepo struct {
	mu          sync.Mutex
	seq         int
	technicians map[string]domain.Technician
	order       []string
}

func newFakeTechnicianRepo() *fakeTechnicianRepo {
	return &fakeTechnicianRepo{technicians: make(map[string]domain.Technician)}
}

func (r *fakeTechnicianRepo) Create(_ context.Context, technician *domain.Technician) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	technician.ID = fmt.Sprintf("tech-%d", r.seq)
	r.technicians[technician.ID] = *technician
	r.order = append(r.order, technician.ID)
	return nil
}

func (r *fakeTechnicianRepo) Update(_ context.Context, technician *domain.Technician) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.technicians[technician.ID]; !ok {
		return pgx.ErrNoRows
	}
	r.technicians[technician.ID] = *technician
	return nil
}

func (r *fakeTechnicianRepo) GetByID(_ context.Context, id string) (*domain.Technician, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	technician, ok := r.technicians[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := technician
	return &copied, nil
}

func (r *fakeTechnicianRepo) GetByEmail(_ context.Context, email string) (*domain.Technician, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, technician := range r.technicians {
		if technician.Email == strings.ToLower(email) {
			copied := technician
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeTechnicianRepo) List(_ context.Context, filter repository.TechnicianFilter) ([]domain.Technician, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []domain.Technician
	for _, id := range r.order {
		technician := r.technicians[id]
		if filter.ExcludeInactive && technician.Status == domain.TechnicianStatusInactive {
			continue
		}
		if filter.Status != nil && technician.Status != *filter.Status {
			continue
		}
		if filter.LocationID != nil && technician.LocationID != *filter.LocationID {
			continue
		}
		result = append(result, technician)
	}
	return result, nil
}

type fakeAvailabilityRepo struct {
	mu    sync.Mutex
	seq   int
	slots map[string]domain.AvailabilitySlot
}

func newFakeAvailabilityRepo() *fakeAvailabilityRepo {
	return &fakeAvailabilityRepo{slots: make(map[string]domain.AvailabilitySlot)}
}

func (r *fakeAvailabilityRepo) Create(_ context.Context, slot *domain.AvailabilitySlot) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	slot.ID = fmt.Sprintf("slot-%d", r.seq)
	r.slots[slot.ID] = *slot
	return nil
}

func (r *fakeAvailabilityRepo) Update(_ context.Context, slot *domain.AvailabilitySlot) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.slots[slot.ID]; !ok {
		return pgx.ErrNoRows
	}
	r.slots[slot.ID] = *slot
	return nil
}

func (r *fakeAvailabilityRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.slots[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.slots, id)
	return nil
}

func (r *fakeAvailabilityRepo) GetByID(_ context.Context, id string) (*domain.AvailabilitySlot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	slot, ok := r.slots[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := slot
	return &copied, nil
}

func (r *fakeAvailabilityRepo) GetByTechnicianAndDate(_ context.Context, technicianID string, date time.Time) (*domain.AvailabilitySlot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, slot := range r.slots {
		if slot.TechnicianID == technicianID && slot.Date.Equal(date) {
			copied := slot
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeAvailabilityRepo) List(_ context.Context, filter repository.AvailabilityFilter) ([]domain.AvailabilitySlot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []domain.AvailabilitySlot
	for _, slot := range r.slots {
		if filter.TechnicianID != nil && slot.TechnicianID != *filter.TechnicianID {
			continue
		}
		if filter.DateFrom != nil && slot.Date.Before(*filter.DateFrom) {
			continue
		}
		if filter.DateTo != nil && slot.Date.After(*filter.DateTo) {
			continue
		}
		result = append(result, slot)
	}
	return result, nil
}

type fakeAssetRepo struct {
	mu     sync.Mutex
	seq    int
	assets map[string]domain.Asset
}

func newFakeAssetRepo() *fakeAssetRepo {
	return &fakeAssetRepo{assets: make(map[string]domain.Asset)}
}

func (r *fakeAssetRepo) Create(_ context.Context, asset *domain.Asset) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	asset.ID = fmt.Sprintf("asset-%d", r.seq)
	r.assets[asset.ID] = *asset
	return nil
}

func (r *fakeAssetRepo) Update(_ context.Context, asset *domain.Asset) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.assets[asset.ID]; !ok {
		return pgx.ErrNoRows
	}
	r.assets[asset.ID] = *asset
	return nil
}

func (r *fakeAssetRepo) GetByID(_ context.Context, id string) (*domain.Asset, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	asset, ok := r.assets[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := asset
	return &copied, nil
}

func (r *fakeAssetRepo) List(_ context.Context, filter repository.AssetFilter) ([]domain.Asset, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []domain.Asset
	for _, asset := range r.assets {
		if filter.LocationID != nil && asset.LocationID != *filter.LocationID {
			continue
		}
		if filter.Status != nil && asset.Status != *filter.Status {
			continue
		}
		if filter.Criticality != nil && asset.Criticality != *filter.Criticality {
			continue
		}
		result = append(result, asset)
	}
	return result, nil
}

type fakeDowntimeRepo struct {
	mu      sync.Mutex
	seq     int
	records map[string]domain.AssetDowntime
}

func newFakeDowntimeRepo() *fakeDowntimeRepo {
	return &fakeDowntimeRepo{records: make(map[string]domain.AssetDowntime)}
}

func (r *fakeDowntimeRepo) Create(_ context.Context, downtime *domain.AssetDowntime) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	downtime.ID = fmt.Sprintf("downtime-%d", r.seq)
	r.records[downtime.ID] = *downtime
	return nil
}

func (r *fakeDowntimeRepo) Update(_ context.Context, downtime *domain.AssetDowntime) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.records[downtime.ID]; !ok {
		return pgx.ErrNoRows
	}
	r.records[downtime.ID] = *downtime
	return nil
}

func (r *fakeDowntimeRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.records[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.records, id)
	return nil
}

func (r *fakeDowntimeRepo) GetByID(_ context.Context, id string) (*domain.AssetDowntime, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	record, ok := r.records[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := record
	return &copied, nil
}

func (r *fakeDowntimeRepo) ListWithFilter(_ context.Context, filter repository.DowntimeFilter) ([]domain.AssetDowntime, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []domain.AssetDowntime
	for _, record := range r.records {
		if filter.AssetID != nil && record.AssetID != *filter.AssetID {
			continue
		}
		if len(filter.AssetIDs) > 0 {
			found := false
			for _, id := range filter.AssetIDs {
				if record.AssetID == id {
					found = true
					break
				}
			}
			if !found {
				continue
			}
		}
		if filter.StartedFrom != nil && record.StartedAt.Before(*filter.StartedFrom) {
			continue
		}
		if filter.StartedTo != nil && record.StartedAt.After(*filter.StartedTo) {
			continue
		}
		result = append(result, record)
	}
	return result, nil
}

type fakeLocationRepo struct {
	mu        sync.Mutex
	seq       int
	locations map[string]domain.Location
}

func newFakeLocationRepo() *fakeLocationRepo {
	return &fakeLocationRepo{locations: make(map[string]domain.Location)}
}

func (r *fakeLocationRepo) Create(_ context.Context, location *domain.Location) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	location.ID = fmt.Sprintf("loc-%d", r.seq)
	r.locations[location.ID] = *location
	return nil
}

func (r *fakeLocationRepo) GetByID(_ context.Context, id string) (*domain.Location, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	location, ok := r.locations[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := location
	return &copied, nil
}

func (r *fakeLocationRepo) List(_ context.Context, includeInactive bool) ([]domain.Location, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []domain.Location
	for _, location := range r.locations {
		if !includeInactive && !location.IsActive {
			continue
		}
		result = append(result, location)
	}
	return result, nil
}

// captureSink records audit entries synchronously for assertions.
type captureSink struct {
	mu      sync.Mutex
	entries []domain.ActivityLog
}

func (s *captureSink) Record(entry domain.ActivityLog) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append(s.entries, entry)
}

func (s *captureSink) byType(activityType domain.ActivityType) []domain.ActivityLog {
	s.mu.Lock()
	defer s.mu.Unlock()
	var result []domain.ActivityLog
	for _, entry := range s.entries {
		if entry.Type == activityType {
			result = append(result, entry)
		}
	}
	return result
}

func (s *captureSink) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}
