package service

import (
	"context"
	"sort"
	"time"

	"github.com/fieldworks/maintenance-service/internal/domain"
	"github.com/fieldworks/maintenance-service/internal/repository"
	apperrors "github.com/fieldworks/maintenance-service/pkg/util"
)

// aggregationFetchLimit bounds the job/downtime scans behind the dashboard
// aggregations.
const aggregationFetchLimit = 1000

// WorkloadService summarizes active job counts across the technician roster.
type WorkloadService struct {
	jobs        repository.JobRepository
	technicians repository.TechnicianRepository
	locations   repository.LocationRepository
	cache       *SummaryCache

	Now func() time.Time
}

// NewWorkloadService constructs the service.
func NewWorkloadService(jobs repository.JobRepository, technicians repository.TechnicianRepository, locations repository.LocationRepository, cache *SummaryCache) *WorkloadService {
	return &WorkloadService{
		jobs:        jobs,
		technicians: technicians,
		locations:   locations,
		cache:       cache,
		Now:         time.Now,
	}
}

// WorkloadFilter narrows the workload summary.
type WorkloadFilter struct {
	LocationID *string
	StartDate  *time.Time
	EndDate    *time.Time
}

// TechnicianWorkload is one roster row in the workload summary.
type TechnicianWorkload struct {
	TechnicianID    string                   `json:"technician_id"`
	TechnicianName  string                   `json:"technician_name"`
	LocationName    string                   `json:"location_name,omitempty"`
	TotalActiveJobs int                      `json:"total_active_jobs"`
	JobsByStatus    map[domain.JobStatus]int `json:"jobs_by_status"`
}

// TechnicianWorkloads groups active jobs per technician, left-joins the
// non-Inactive roster so idle technicians show up with zero, and sorts
// descending by total. Tie order between equal totals follows roster order.
func (s *WorkloadService) TechnicianWorkloads(ctx context.Context, filter WorkloadFilter) ([]TechnicianWorkload, error) {
	cacheKey := workloadCacheKey(filter)
	var cached []TechnicianWorkload
	if s.cache.Get(ctx, cacheKey, &cached) {
		return cached, nil
	}

	hasTechnician := true
	jobs, err := s.jobs.ListWithFilter(ctx, repository.JobFilter{
		Statuses:      domain.ActiveJobStatuses,
		LocationID:    filter.LocationID,
		PlannedFrom:   filter.StartDate,
		PlannedTo:     filter.EndDate,
		HasTechnician: &hasTechnician,
		Limit:         aggregationFetchLimit,
	})
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	type bucket struct {
		total    int
		byStatus map[domain.JobStatus]int
	}
	grouped := make(map[string]*bucket)
	for _, job := range jobs {
		if job.TechnicianID == nil {
			continue
		}
		b, ok := grouped[*job.TechnicianID]
		if !ok {
			b = &bucket{byStatus: make(map[domain.JobStatus]int)}
			grouped[*job.TechnicianID] = b
		}
		b.total++
		b.byStatus[job.Status]++
	}

	roster, err := s.technicians.List(ctx, repository.TechnicianFilter{
		LocationID:      filter.LocationID,
		ExcludeInactive: true,
		Limit:           aggregationFetchLimit,
	})
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	locationNames := s.locationNames(ctx)

	result := make([]TechnicianWorkload, 0, len(roster))
	for _, technician := range roster {
		row := TechnicianWorkload{
			TechnicianID:   technician.ID,
			TechnicianName: technician.Name,
			LocationName:   locationNames[technician.LocationID],
			JobsByStatus:   map[domain.JobStatus]int{},
		}
		if b, ok := grouped[technician.ID]; ok {
			row.TotalActiveJobs = b.total
			row.JobsByStatus = b.byStatus
		}
		result = append(result, row)
	}

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].TotalActiveJobs > result[j].TotalActiveJobs
	})

	s.cache.Set(ctx, cacheKey, result)
	return result, nil
}

func (s *WorkloadService) locationNames(ctx context.Context) map[string]string {
	names := make(map[string]string)
	if s.locations == nil {
		return names
	}
	locations, err := s.locations.List(ctx, true)
	if err != nil {
		// Name decoration only; the summary stands without it.
		return names
	}
	for _, location := range locations {
		names[location.ID] = location.Name
	}
	return names
}

func workloadCacheKey(filter WorkloadFilter) string {
	key := cacheKeyWorkloadPrefix + "all"
	if filter.LocationID != nil {
		key = cacheKeyWorkloadPrefix + *filter.LocationID
	}
	if filter.StartDate != nil || filter.EndDate != nil {
		// Date-ranged queries skip the shared cache slot.
		key += ":ranged"
		if filter.StartDate != nil {
			key += ":" + filter.StartDate.UTC().Format("20060102")
		}
		if filter.EndDate != nil {
			key += ":" + filter.EndDate.UTC().Format("20060102")
		}
	}
	return key
}
