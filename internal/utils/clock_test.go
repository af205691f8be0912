package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestManualClock(t *testing.T) {
	start := time.Date(2026, time.October, 19, 9, 0, 0, 0, time.UTC)
	clock := NewManualClock(start)

	var c Clock = clock.Now
	assert.Equal(t, start, c())

	clock.Advance(5 * time.Minute)
	assert.Equal(t, start.Add(5*time.Minute), c())

	clock.Set(start)
	assert.Equal(t, start, clock.Now())
}

func TestSystemClock(t *testing.T) {
	now := SystemClock()
	assert.Equal(t, time.UTC, now.Location())
	assert.WithinDuration(t, time.Now(), now, time.Second)
}
