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

func newDowntimeServiceForTest(t *testing.T) (*DowntimeService, *fakeDowntimeRepo, *fakeAssetRepo, *captureSink) {
	t.Helper()
	downtime := newFakeDowntimeRepo()
	assets := newFakeAssetRepo()
	sink := &captureSink{}
	svc := NewDowntimeService(DowntimeDependencies{
		DowntimeRepo: downtime,
		AssetRepo:    assets,
		AuditSink:    sink,
	})
	return svc, downtime, assets, sink
}

func seedAsset(t *testing.T, repo *fakeAssetRepo, name string, criticality domain.AssetCriticality) string {
	t.Helper()
	asset := &domain.Asset{
		Name:        name,
		LocationID:  "loc-1",
		Criticality: criticality,
		Status:      domain.AssetStatusOperational,
	}
	require.NoError(t, repo.Create(context.Background(), asset))
	return asset.ID
}

func TestCreateDowntime_Validation(t *testing.T) {
	svc, _, assets, _ := newDowntimeServiceForTest(t)
	assetID := seedAsset(t, assets, "Pump A", domain.AssetCriticalityMedium)

	started := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)
	before := started.Add(-time.Hour)

	_, err := svc.CreateDowntime(context.Background(), DowntimeCreateInput{
		AssetID: assetID, StartedAt: started, EndedAt: &before,
	})
	require.Error(t, err)
	assert.Equal(t, "VALIDATION_FAILED", apperrors.ToDomainError(err).Code)

	_, err = svc.CreateDowntime(context.Background(), DowntimeCreateInput{
		AssetID: "missing", StartedAt: started,
	})
	require.Error(t, err)
	assert.Equal(t, "NOT_FOUND", apperrors.ToDomainError(err).Code)
}

func TestCreateDowntime_MarkAssetDown(t *testing.T) {
	svc, _, assets, sink := newDowntimeServiceForTest(t)
	assetID := seedAsset(t, assets, "Pump A", domain.AssetCriticalityHigh)

	started := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)
	_, err := svc.CreateDowntime(context.Background(), DowntimeCreateInput{
		AssetID:       assetID,
		StartedAt:     started,
		Reason:        "bearing failure",
		MarkAssetDown: true,
	})
	require.NoError(t, err)

	asset, err := assets.GetByID(context.Background(), assetID)
	require.NoError(t, err)
	assert.Equal(t, domain.AssetStatusDown, asset.Status)
	assert.Len(t, sink.byType(domain.ActivityAssetStatusChanged), 1)
}

func TestSummarizeDowntime_FiveHourInterval(t *testing.T) {
	svc, downtime, assets, _ := newDowntimeServiceForTest(t)
	now := time.Date(2026, 5, 10, 12, 0, 0, 0, time.UTC)
	svc.Now = func() time.Time { return now }

	assetID := seedAsset(t, assets, "Compressor", domain.AssetCriticalityMedium)
	started := now.Add(-24 * time.Hour)
	ended := started.Add(5 * time.Hour)
	require.NoError(t, downtime.Create(context.Background(), &domain.AssetDowntime{
		AssetID: assetID, StartedAt: started, EndedAt: &ended,
	}))

	summary, err := svc.SummarizeDowntime(context.Background(), 0, nil)
	require.NoError(t, err)

	assert.Equal(t, defaultDowntimeWindowDays, summary.WindowDays)
	assert.InDelta(t, 5.0, summary.TotalDowntimeHours, 1e-9)
	require.Len(t, summary.DowntimeByAsset, 1)
	assert.InDelta(t, 5.0, summary.DowntimeByAsset[0].TotalDowntimeHours, 1e-9)
	assert.Equal(t, 1, summary.DowntimeByAsset[0].IncidentCount)
	assert.Equal(t, "Compressor", summary.DowntimeByAsset[0].AssetName)
}

func TestSummarizeDowntime_OpenIntervalUsesNow(t *testing.T) {
	svc, downtime, assets, _ := newDowntimeServiceForTest(t)
	now := time.Date(2026, 5, 10, 12, 0, 0, 0, time.UTC)
	svc.Now = func() time.Time { return now }

	assetID := seedAsset(t, assets, "Boiler", domain.AssetCriticalityLow)
	require.NoError(t, downtime.Create(context.Background(), &domain.AssetDowntime{
		AssetID: assetID, StartedAt: now.Add(-90 * time.Minute),
	}))

	summary, err := svc.SummarizeDowntime(context.Background(), 30, nil)
	require.NoError(t, err)
	assert.InDelta(t, 1.5, summary.TotalDowntimeHours, 1e-9)
}

func TestSummarizeDowntime_RanksAndTruncatesTopCritical(t *testing.T) {
	svc, downtime, assets, _ := newDowntimeServiceForTest(t)
	now := time.Date(2026, 5, 10, 12, 0, 0, 0, time.UTC)
	svc.Now = func() time.Time { return now }

	// Six High-criticality assets with 1..6 hours, plus a Medium asset with
	// the biggest total.
	for hours := 1; hours <= 6; hours++ {
		assetID := seedAsset(t, assets, "crit", domain.AssetCriticalityHigh)
		started := now.Add(-48 * time.Hour)
		ended := started.Add(time.Duration(hours) * time.Hour)
		require.NoError(t, downtime.Create(context.Background(), &domain.AssetDowntime{
			AssetID: assetID, StartedAt: started, EndedAt: &ended,
		}))
	}
	mediumID := seedAsset(t, assets, "medium", domain.AssetCriticalityMedium)
	started := now.Add(-48 * time.Hour)
	ended := started.Add(10 * time.Hour)
	require.NoError(t, downtime.Create(context.Background(), &domain.AssetDowntime{
		AssetID: mediumID, StartedAt: started, EndedAt: &ended,
	}))

	summary, err := svc.SummarizeDowntime(context.Background(), 30, nil)
	require.NoError(t, err)

	// Overall ranking is descending by hours, regardless of criticality.
	require.Len(t, summary.DowntimeByAsset, 7)
	assert.Equal(t, mediumID, summary.DowntimeByAsset[0].AssetID)
	assert.InDelta(t, 10.0, summary.DowntimeByAsset[0].TotalDowntimeHours, 1e-9)

	// Top critical keeps only High entries, largest first, capped at five.
	require.Len(t, summary.TopCriticalAssets, topCriticalLimit)
	assert.InDelta(t, 6.0, summary.TopCriticalAssets[0].TotalDowntimeHours, 1e-9)
	assert.InDelta(t, 2.0, summary.TopCriticalAssets[4].TotalDowntimeHours, 1e-9)
	for _, entry := range summary.TopCriticalAssets {
		assert.Equal(t, domain.AssetCriticalityHigh, entry.Criticality)
	}
}

func TestSummarizeDowntime_WindowExcludesOldRecords(t *testing.T) {
	svc, downtime, assets, _ := newDowntimeServiceForTest(t)
	now := time.Date(2026, 5, 10, 12, 0, 0, 0, time.UTC)
	svc.Now = func() time.Time { return now }

	assetID := seedAsset(t, assets, "Old faithful", domain.AssetCriticalityHigh)
	started := now.Add(-60 * 24 * time.Hour)
	ended := started.Add(8 * time.Hour)
	require.NoError(t, downtime.Create(context.Background(), &domain.AssetDowntime{
		AssetID: assetID, StartedAt: started, EndedAt: &ended,
	}))

	summary, err := svc.SummarizeDowntime(context.Background(), 30, nil)
	require.NoError(t, err)
	assert.Zero(t, summary.TotalDowntimeHours)
	assert.Empty(t, summary.DowntimeByAsset)
}
