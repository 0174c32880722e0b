package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fieldworks/maintenance-service/internal/domain"
	apperrors "github.com/fieldworks/maintenance-service/pkg/util"
)

func newAvailabilityServiceForTest(t *testing.T) (*AvailabilityService, *fakeTechnicianRepo) {
	t.Helper()
	technicians := newFakeTechnicianRepo()
	return NewAvailabilityService(newFakeAvailabilityRepo(), technicians), technicians
}

func TestCreateSlot_NormalizesDateAndDefaultsShift(t *testing.T) {
	svc, technicians := newAvailabilityServiceForTest(t)
	techID := seedTechnician(t, technicians, "ana", domain.TechnicianStatusAvailable)

	slot, err := svc.CreateSlot(context.Background(), SlotCreateInput{
		TechnicianID: techID,
		Date:         time.Date(2026, 6, 3, 14, 30, 0, 0, time.UTC),
		IsAvailable:  true,
	})
	require.NoError(t, err)

	assert.Equal(t, time.Date(2026, 6, 3, 0, 0, 0, 0, time.UTC), slot.Date)
	assert.Equal(t, domain.ShiftSlotFullDay, slot.Shift)
}

func TestCreateSlot_DuplicateDateConflicts(t *testing.T) {
	svc, technicians := newAvailabilityServiceForTest(t)
	techID := seedTechnician(t, technicians, "ben", domain.TechnicianStatusAvailable)
	date := time.Date(2026, 6, 3, 0, 0, 0, 0, time.UTC)

	_, err := svc.CreateSlot(context.Background(), SlotCreateInput{
		TechnicianID: techID, Date: date, IsAvailable: true,
	})
	require.NoError(t, err)

	// Same day, different clock time; still the same calendar date.
	_, err = svc.CreateSlot(context.Background(), SlotCreateInput{
		TechnicianID: techID,
		Date:         date.Add(9 * time.Hour),
		IsAvailable:  false,
	})
	require.Error(t, err)
	assert.Equal(t, "CONFLICT", apperrors.ToDomainError(err).Code)
}

func TestCreateSlot_UnknownTechnician(t *testing.T) {
	svc, _ := newAvailabilityServiceForTest(t)

	_, err := svc.CreateSlot(context.Background(), SlotCreateInput{
		TechnicianID: "missing",
		Date:         time.Date(2026, 6, 3, 0, 0, 0, 0, time.UTC),
	})
	require.Error(t, err)
	assert.Equal(t, "NOT_FOUND", apperrors.ToDomainError(err).Code)
}

func TestUpdateSlot_MergesPatch(t *testing.T) {
	svc, technicians := newAvailabilityServiceForTest(t)
	techID := seedTechnician(t, technicians, "cara", domain.TechnicianStatusAvailable)

	slot, err := svc.CreateSlot(context.Background(), SlotCreateInput{
		TechnicianID: techID,
		Date:         time.Date(2026, 6, 4, 0, 0, 0, 0, time.UTC),
		IsAvailable:  true,
	})
	require.NoError(t, err)

	unavailable := false
	reason := "training"
	updated, err := svc.UpdateSlot(context.Background(), slot.ID, SlotPatch{
		IsAvailable: &unavailable,
		Reason:      &reason,
	})
	require.NoError(t, err)

	assert.False(t, updated.IsAvailable)
	assert.Equal(t, "training", updated.Reason)
	assert.Equal(t, slot.Date, updated.Date)
}

func TestDeleteSlot_NotFound(t *testing.T) {
	svc, _ := newAvailabilityServiceForTest(t)
	err := svc.DeleteSlot(context.Background(), "missing")
	require.Error(t, err)
	assert.Equal(t, "NOT_FOUND", apperrors.ToDomainError(err).Code)
}
