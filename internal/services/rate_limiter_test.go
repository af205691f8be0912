package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/entescheme/ente-api/internal/logging"
	"github.com/entescheme/ente-api/internal/utils"
	"github.com/stretchr/testify/assert"
)

func TestNewRateLimiter(t *testing.T) {
	rl := NewRateLimiter(10, 100*time.Millisecond, logging.Logger, nil)

	tokens, maxTokens := rl.GetStatus()
	assert.Equal(t, 10, tokens)
	assert.Equal(t, 10, maxTokens)
}

func TestRateLimiter_Allow_InitialTokens(t *testing.T) {
	clock := utils.NewManualClock(time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC))
	rl := NewRateLimiter(3, time.Second, logging.Logger, clock.Now)
	ctx := context.Background()

	assert.True(t, rl.Allow(ctx, "otp_send"))
	assert.True(t, rl.Allow(ctx, "otp_send"))
	assert.True(t, rl.Allow(ctx, "otp_send"))
	assert.False(t, rl.Allow(ctx, "otp_send"), "bucket should be empty")
}

func TestRateLimiter_Allow_TokenRefill(t *testing.T) {
	clock := utils.NewManualClock(time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC))
	rl := NewRateLimiter(2, time.Second, logging.Logger, clock.Now)
	ctx := context.Background()

	rl.Allow(ctx, "otp_send")
	rl.Allow(ctx, "otp_send")
	assert.False(t, rl.Allow(ctx, "otp_send"))

	clock.Advance(999 * time.Millisecond)
	assert.False(t, rl.Allow(ctx, "otp_send"), "partial interval adds nothing")

	clock.Advance(time.Millisecond)
	assert.True(t, rl.Allow(ctx, "otp_send"))
	assert.False(t, rl.Allow(ctx, "otp_send"))
}

func TestRateLimiter_RefillKeepsRemainder(t *testing.T) {
	clock := utils.NewManualClock(time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC))
	rl := NewRateLimiter(5, time.Second, logging.Logger, clock.Now)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		rl.Allow(ctx, "otp_send")
	}

	clock.Advance(1500 * time.Millisecond)
	assert.True(t, rl.Allow(ctx, "otp_send"))
	assert.False(t, rl.Allow(ctx, "otp_send"))

	// the half second left over counts towards the next token
	clock.Advance(500 * time.Millisecond)
	assert.True(t, rl.Allow(ctx, "otp_send"))
}

func TestRateLimiter_RefillCapsAtMax(t *testing.T) {
	clock := utils.NewManualClock(time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC))
	rl := NewRateLimiter(3, time.Second, logging.Logger, clock.Now)
	ctx := context.Background()

	rl.Allow(ctx, "otp_send")
	clock.Advance(time.Hour)
	rl.Allow(ctx, "otp_send")

	tokens, maxTokens := rl.GetStatus()
	assert.Equal(t, 2, tokens)
	assert.Equal(t, 3, maxTokens)
}

func TestRateLimiter_Concurrent(t *testing.T) {
	clock := utils.NewManualClock(time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC))
	rl := NewRateLimiter(50, time.Hour, logging.Logger, clock.Now)
	ctx := context.Background()

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		allowed int
	)
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if rl.Allow(ctx, "otp_send") {
				mu.Lock()
				allowed++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 50, allowed)
}
