package audit

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/fieldworks/maintenance-service/internal/domain"
	"github.com/fieldworks/maintenance-service/internal/observability"
	"github.com/fieldworks/maintenance-service/internal/repository"
)

// Sink accepts audit entries. Record must never block the caller and never
// surfaces an error into the mutation that produced the entry.
type Sink interface {
	Record(entry domain.ActivityLog)
}

// Recorder is the best-effort activity log pipeline: entries go onto a
// bounded queue and a background writer persists them. When the queue is
// full the entry is dropped and counted, so audit pressure can never stall
// or fail a primary write.
type Recorder struct {
	repo         repository.ActivityLogRepository
	logger       *zap.Logger
	metrics      *observability.Metrics
	writeTimeout time.Duration

	queue     chan domain.ActivityLog
	wg        sync.WaitGroup
	closeOnce sync.Once
}

// NewRecorder builds a recorder and starts its writer goroutine.
func NewRecorder(repo repository.ActivityLogRepository, logger *zap.Logger, metrics *observability.Metrics, queueSize int, writeTimeout time.Duration) *Recorder {
	if queueSize <= 0 {
		queueSize = 256
	}
	if writeTimeout <= 0 {
		writeTimeout = 5 * time.Second
	}
	r := &Recorder{
		repo:         repo,
		logger:       logger,
		metrics:      metrics,
		writeTimeout: writeTimeout,
		queue:        make(chan domain.ActivityLog, queueSize),
	}
	r.wg.Add(1)
	go r.run()
	return r
}

// Record enqueues an entry, dropping it when the queue is full.
func (r *Recorder) Record(entry domain.ActivityLog) {
	select {
	case r.queue <- entry:
	default:
		r.metrics.RecordAuditDrop()
		r.logger.Warn("activity log queue full, entry dropped",
			zap.String("type", string(entry.Type)),
			zap.String("entity_id", entry.EntityID))
	}
}

// Close stops accepting entries and drains the queue.
func (r *Recorder) Close() {
	r.closeOnce.Do(func() {
		close(r.queue)
	})
	r.wg.Wait()
}

func (r *Recorder) run() {
	defer r.wg.Done()
	for entry := range r.queue {
		ctx, cancel := context.WithTimeout(context.Background(), r.writeTimeout)
		if err := r.repo.Create(ctx, &entry); err != nil {
			r.metrics.RecordAuditFailure()
			r.logger.Error("activity log write failed",
				zap.String("type", string(entry.Type)),
				zap.Error(err))
		}
		cancel()
	}
}
