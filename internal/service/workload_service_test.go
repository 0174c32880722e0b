package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fieldworks/maintenance-service/internal/domain"
)

func seedTechnician(t *testing.T, repo *fakeTechnicianRepo, name string, status domain.TechnicianStatus) string {
	t.Helper()
	technician := &domain.Technician{
		Name:   name,
		Email:  name + "@example.com",
		Status: status,
	}
	require.NoError(t, repo.Create(context.Background(), technician))
	return technician.ID
}

func seedJob(t *testing.T, repo *fakeJobRepo, technicianID string, status domain.JobStatus) {
	t.Helper()
	job := &domain.Job{
		Title:      "job for " + technicianID,
		Status:     status,
		LocationID: "loc-1",
	}
	if technicianID != "" {
		job.TechnicianID = &technicianID
	}
	require.NoError(t, repo.Create(context.Background(), job))
}

func TestTechnicianWorkloads_GroupsAndSorts(t *testing.T) {
	jobs := newFakeJobRepo()
	technicians := newFakeTechnicianRepo()
	svc := NewWorkloadService(jobs, technicians, nil, nil)

	busy := seedTechnician(t, technicians, "busy", domain.TechnicianStatusOnJob)
	light := seedTechnician(t, technicians, "light", domain.TechnicianStatusAvailable)
	idle := seedTechnician(t, technicians, "idle", domain.TechnicianStatusAvailable)

	seedJob(t, jobs, busy, domain.JobStatusAssigned)
	seedJob(t, jobs, busy, domain.JobStatusInProgress)
	seedJob(t, jobs, busy, domain.JobStatusInProgress)
	seedJob(t, jobs, light, domain.JobStatusPlanned)
	// Terminal jobs never count.
	seedJob(t, jobs, busy, domain.JobStatusCompleted)
	seedJob(t, jobs, light, domain.JobStatusCancelled)
	// Unassigned active jobs are excluded from workload.
	seedJob(t, jobs, "", domain.JobStatusPlanned)

	workloads, err := svc.TechnicianWorkloads(context.Background(), WorkloadFilter{})
	require.NoError(t, err)
	require.Len(t, workloads, 3)

	// Sorted descending by active total; idle technician still listed.
	assert.Equal(t, busy, workloads[0].TechnicianID)
	assert.Equal(t, 3, workloads[0].TotalActiveJobs)
	assert.Equal(t, 2, workloads[0].JobsByStatus[domain.JobStatusInProgress])
	assert.Equal(t, 1, workloads[0].JobsByStatus[domain.JobStatusAssigned])

	assert.Equal(t, light, workloads[1].TechnicianID)
	assert.Equal(t, 1, workloads[1].TotalActiveJobs)

	assert.Equal(t, idle, workloads[2].TechnicianID)
	assert.Equal(t, 0, workloads[2].TotalActiveJobs)

	// Sum of per-status counts always equals the total.
	for _, row := range workloads {
		sum := 0
		for _, count := range row.JobsByStatus {
			sum += count
		}
		assert.Equal(t, row.TotalActiveJobs, sum, "technician %s", row.TechnicianID)
	}
}

func TestTechnicianWorkloads_HidesInactiveTechnicians(t *testing.T) {
	jobs := newFakeJobRepo()
	technicians := newFakeTechnicianRepo()
	svc := NewWorkloadService(jobs, technicians, nil, nil)

	former := seedTechnician(t, technicians, "former", domain.TechnicianStatusInactive)
	seedJob(t, jobs, former, domain.JobStatusInProgress)
	seedTechnician(t, technicians, "current", domain.TechnicianStatusAvailable)

	workloads, err := svc.TechnicianWorkloads(context.Background(), WorkloadFilter{})
	require.NoError(t, err)
	require.Len(t, workloads, 1)
	assert.Equal(t, "current", workloads[0].TechnicianName)
}

func TestTechnicianWorkloads_DecoratesLocationNames(t *testing.T) {
	jobs := newFakeJobRepo()
	technicians := newFakeTechnicianRepo()
	locations := newFakeLocationRepo()

	location := &domain.Location{Name: "North Plant", IsActive: true}
	require.NoError(t, locations.Create(context.Background(), location))

	technician := &domain.Technician{
		Name:       "sited",
		Email:      "sited@example.com",
		Status:     domain.TechnicianStatusAvailable,
		LocationID: location.ID,
	}
	require.NoError(t, technicians.Create(context.Background(), technician))

	svc := NewWorkloadService(jobs, technicians, locations, nil)
	workloads, err := svc.TechnicianWorkloads(context.Background(), WorkloadFilter{})
	require.NoError(t, err)
	require.Len(t, workloads, 1)
	assert.Equal(t, "North Plant", workloads[0].LocationName)
}
