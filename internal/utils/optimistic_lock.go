package utils

import (
	"context"
	"errors"
	"time"

	"github.com/entescheme/ente-api/internal/logging"
	"github.com/entescheme/ente-api/internal/models"
	"go.uber.org/zap"
)

// ConflictBackoff is the wait before the second attempt; it doubles after
// every further conflict.
var ConflictBackoff = 5 * time.Millisecond

// RetryOnConflict runs operation until it returns something other than
// models.ErrVersionConflict, at most maxAttempts times. The last conflict is
// returned when every attempt collides.
func RetryOnConflict(ctx context.Context, maxAttempts int, operation func(attempt int) error) error {
	if maxAttempts < 1 {
		maxAttempts = 1
	}

	var err error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		err = operation(attempt)
		if !errors.Is(err, models.ErrVersionConflict) {
			return err
		}
		if attempt == maxAttempts {
			break
		}

		backoff := time.Duration(1<<(attempt-1)) * ConflictBackoff
		logging.Logger.Debug("version conflict, retrying",
			zap.Int("attempt", attempt),
			zap.Duration("backoff", backoff))

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}
	}

	if maxAttempts > 1 {
		logging.Logger.Warn("max attempts reached on version conflict", zap.Int("attempts", maxAttempts))
	}
	return err
}
