package audit

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/fieldworks/maintenance-service/internal/domain"
	"github.com/fieldworks/maintenance-service/internal/observability"
	"github.com/fieldworks/maintenance-service/internal/repository"
)

type stubLogRepo struct {
	mu      sync.Mutex
	entries []domain.ActivityLog

	started chan struct{}
	release chan struct{}
}

func (s *stubLogRepo) Create(_ context.Context, entry *domain.ActivityLog) error {
	if s.started != nil {
		s.started <- struct{}{}
	}
	if s.release != nil {
		<-s.release
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append(s.entries, *entry)
	return nil
}

func (s *stubLogRepo) List(_ context.Context, _ repository.ActivityFilter) ([]domain.ActivityLog, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.ActivityLog{}, s.entries...), nil
}

func TestRecorder_DrainsQueueOnClose(t *testing.T) {
	repo := &stubLogRepo{}
	metrics := observability.NewMetrics()
	recorder := NewRecorder(repo, zap.NewNop(), metrics, 16, time.Second)

	for i := 0; i < 5; i++ {
		recorder.Record(domain.ActivityLog{Type: domain.ActivityJobUpdated, EntityType: "Job"})
	}
	recorder.Close()

	entries, err := repo.List(context.Background(), repository.ActivityFilter{})
	require.NoError(t, err)
	assert.Len(t, entries, 5)
	assert.Zero(t, metrics.AuditDropped())
}

func TestRecorder_DropsWhenQueueFull(t *testing.T) {
	repo := &stubLogRepo{
		started: make(chan struct{}, 4),
		release: make(chan struct{}),
	}
	metrics := observability.NewMetrics()
	recorder := NewRecorder(repo, zap.NewNop(), metrics, 1, time.Second)

	// First entry is picked up by the writer and parks inside Create.
	recorder.Record(domain.ActivityLog{Type: domain.ActivityJobCreated, EntityID: "1"})
	<-repo.started

	// Second fills the queue slot; third has nowhere to go.
	recorder.Record(domain.ActivityLog{Type: domain.ActivityJobCreated, EntityID: "2"})
	recorder.Record(domain.ActivityLog{Type: domain.ActivityJobCreated, EntityID: "3"})

	assert.Equal(t, int64(1), metrics.AuditDropped())

	close(repo.release)
	recorder.Close()

	entries, err := repo.List(context.Background(), repository.ActivityFilter{})
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}

func TestRecorder_CloseIsIdempotent(t *testing.T) {
	recorder := NewRecorder(&stubLogRepo{}, zap.NewNop(), observability.NewMetrics(), 4, time.Second)
	recorder.Record(domain.ActivityLog{Type: domain.ActivityJobUpdated})
	recorder.Close()
	recorder.Close()
}
