package services

import (
	"context"
	"sync"
	"time"

	"github.com/entescheme/ente-api/internal/logging"
	"github.com/entescheme/ente-api/internal/models"
	"github.com/entescheme/ente-api/internal/observability"
	"go.uber.org/zap"
)

const (
	defaultAuditBatchSize     = 100
	defaultAuditFlushInterval = 100 * time.Millisecond
	auditWriteTimeout         = 5 * time.Second
)

// AuditWorker writes audit records asynchronously in batches. Records
// submitted while the buffer is full are dropped and counted.
type AuditWorker struct {
	sink          AuditSink
	records       chan models.AuditRecord
	workers       int
	batchSize     int
	flushInterval time.Duration
	logger        *logging.SafeLogger

	mu      sync.RWMutex
	stopped bool
	wg      sync.WaitGroup
}

// NewAuditWorker creates a worker pool of the given size over a bounded buffer.
func NewAuditWorker(sink AuditSink, workers, bufferSize int, logger *logging.SafeLogger) *AuditWorker {
	if workers <= 0 {
		workers = 1
	}
	if bufferSize <= 0 {
		bufferSize = 1
	}
	return &AuditWorker{
		sink:          sink,
		records:       make(chan models.AuditRecord, bufferSize),
		workers:       workers,
		batchSize:     defaultAuditBatchSize,
		flushInterval: defaultAuditFlushInterval,
		logger:        logger,
	}
}

// Start launches the workers.
func (aw *AuditWorker) Start() {
	aw.wg.Add(aw.workers)
	for i := 0; i < aw.workers; i++ {
		go func() {
			defer aw.wg.Done()
			aw.process()
		}()
	}

	aw.logger.Info("audit worker started",
		zap.Int("workers", aw.workers),
		zap.Int("buffer_size", cap(aw.records)))
}

// Submit queues a record without blocking. It reports false when the record
// was dropped.
func (aw *AuditWorker) Submit(record models.AuditRecord) bool {
	aw.mu.RLock()
	defer aw.mu.RUnlock()

	if aw.stopped {
		observability.AuditDropped.Inc()
		return false
	}
	select {
	case aw.records <- record:
		return true
	default:
		observability.AuditDropped.Inc()
		aw.logger.Warn("audit buffer full, dropping record",
			zap.String("method", record.Method),
			zap.String("path", record.Path))
		return false
	}
}

func (aw *AuditWorker) process() {
	ticker := time.NewTicker(aw.flushInterval)
	defer ticker.Stop()

	batch := make([]models.AuditRecord, 0, aw.batchSize)
	for {
		select {
		case record, ok := <-aw.records:
			if !ok {
				aw.flush(batch)
				return
			}
			batch = append(batch, record)
			if len(batch) >= aw.batchSize {
				aw.flush(batch)
				batch = batch[:0]
			}
		case <-ticker.C:
			if len(batch) > 0 {
				aw.flush(batch)
				batch = batch[:0]
			}
		}
	}
}

func (aw *AuditWorker) flush(batch []models.AuditRecord) {
	if len(batch) == 0 {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), auditWriteTimeout)
	defer cancel()

	out := make([]models.AuditRecord, len(batch))
	copy(out, batch)
	if err := aw.sink.WriteAudit(ctx, out); err != nil {
		aw.logger.Error("failed to write audit batch",
			zap.Error(err),
			zap.Int("batch_size", len(batch)))
		return
	}
	aw.logger.Debug("audit batch written", zap.Int("batch_size", len(batch)))
}

// Stop drains the buffer and waits for the workers. Later Submits are dropped.
func (aw *AuditWorker) Stop() {
	aw.mu.Lock()
	if aw.stopped {
		aw.mu.Unlock()
		return
	}
	aw.stopped = true
	close(aw.records)
	aw.mu.Unlock()

	aw.wg.Wait()
	aw.logger.Info("audit worker stopped")
}
