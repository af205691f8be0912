package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/entescheme/ente-api/internal/logging"
	"github.com/entescheme/ente-api/internal/models"
	"github.com/entescheme/ente-api/internal/observability"
	"github.com/entescheme/ente-api/internal/storage/memory"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuditWorker_WritesEverySubmittedRecord(t *testing.T) {
	store := memory.NewStore()
	aw := NewAuditWorker(store, 3, 500, logging.Logger)
	aw.Start()

	for i := 0; i < 250; i++ {
		require.True(t, aw.Submit(models.AuditRecord{Method: "POST", Path: "/v1/profile", Status: 201}))
	}
	aw.Stop()

	assert.Len(t, store.AuditRecords(), 250)
}

func TestAuditWorker_FlushesOnInterval(t *testing.T) {
	store := memory.NewStore()
	aw := NewAuditWorker(store, 1, 10, logging.Logger)
	aw.Start()
	defer aw.Stop()

	aw.Submit(models.AuditRecord{Method: "PUT", Path: "/v1/profile/u1"})

	assert.Eventually(t, func() bool {
		return len(store.AuditRecords()) == 1
	}, 2*time.Second, 10*time.Millisecond)
}

// blockingSink holds every write until released.
type blockingSink struct {
	release chan struct{}
	mu      sync.Mutex
	written int
}

func (b *blockingSink) WriteAudit(ctx context.Context, records []models.AuditRecord) error {
	<-b.release
	b.mu.Lock()
	b.written += len(records)
	b.mu.Unlock()
	return nil
}

func TestAuditWorker_DropsWhenBufferFull(t *testing.T) {
	sink := &blockingSink{release: make(chan struct{})}
	aw := NewAuditWorker(sink, 1, 2, logging.Logger)
	aw.batchSize = 1

	before := testutil.ToFloat64(observability.AuditDropped)

	// without running workers nothing drains the buffer
	assert.True(t, aw.Submit(models.AuditRecord{Path: "/a"}))
	assert.True(t, aw.Submit(models.AuditRecord{Path: "/b"}))
	assert.False(t, aw.Submit(models.AuditRecord{Path: "/c"}))

	assert.Equal(t, before+1, testutil.ToFloat64(observability.AuditDropped))

	aw.Start()
	close(sink.release)
	aw.Stop()

	assert.Equal(t, 2, sink.written)
}

func TestAuditWorker_SubmitAfterStop(t *testing.T) {
	aw := NewAuditWorker(memory.NewStore(), 1, 10, logging.Logger)
	aw.Start()
	aw.Stop()
	aw.Stop()

	assert.False(t, aw.Submit(models.AuditRecord{Path: "/late"}))
}

type failingSink struct{}

func (failingSink) WriteAudit(ctx context.Context, records []models.AuditRecord) error {
	return errors.New("mongo down")
}

func TestAuditWorker_SinkFailureDoesNotStopWorker(t *testing.T) {
	aw := NewAuditWorker(failingSink{}, 1, 10, logging.Logger)
	aw.Start()
	assert.True(t, aw.Submit(models.AuditRecord{Path: "/x"}))
	aw.Stop()
}
