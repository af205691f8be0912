package utils

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/entescheme/ente-api/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestRetryOnConflict(t *testing.T) {
	ConflictBackoff = time.Millisecond
	boom := errors.New("boom")

	tests := []struct {
		name        string
		maxAttempts int
		results     []error
		wantErr     error
		wantCalls   int
	}{
		{"first attempt succeeds", 3, []error{nil}, nil, 1},
		{"succeeds after conflicts", 3, []error{models.ErrVersionConflict, models.ErrVersionConflict, nil}, nil, 3},
		{"gives up after max attempts", 3, []error{models.ErrVersionConflict, models.ErrVersionConflict, models.ErrVersionConflict}, models.ErrVersionConflict, 3},
		{"single attempt does not retry", 1, []error{models.ErrVersionConflict}, models.ErrVersionConflict, 1},
		{"other errors stop immediately", 3, []error{boom}, boom, 1},
		{"zero attempts still runs once", 0, []error{nil}, nil, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			err := RetryOnConflict(context.Background(), tt.maxAttempts, func(attempt int) error {
				calls++
				assert.Equal(t, calls, attempt)
				return tt.results[attempt-1]
			})
			assert.ErrorIs(t, err, tt.wantErr)
			if tt.wantErr == nil {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.wantCalls, calls)
		})
	}
}

func TestRetryOnConflict_ContextCancelled(t *testing.T) {
	ConflictBackoff = time.Hour
	defer func() { ConflictBackoff = 5 * time.Millisecond }()

	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	err := RetryOnConflict(ctx, 3, func(int) error {
		calls++
		cancel()
		return models.ErrVersionConflict
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, calls)
}
