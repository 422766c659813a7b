package google

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRateLimiter_AllowWithinBurst(t *testing.T) {
	limiter := NewRateLimiter(ServiceGmail)

	burst := DefaultRateLimits[ServiceGmail].BurstSize
	for i := 0; i < burst; i++ {
		assert.True(t, limiter.Allow(), "request %d within burst should be allowed", i)
	}
	assert.False(t, limiter.Allow(), "request beyond burst should be throttled")
}

func TestRateLimiter_BackoffBlocksAllow(t *testing.T) {
	limiter := NewRateLimiter(ServiceAnalytics)
	require.True(t, limiter.Allow())

	limiter.RecordRateLimitError(60)
	assert.False(t, limiter.Allow(), "backoff must block until the retry time")
}

func TestRateLimiter_WaitHonoursContext(t *testing.T) {
	limiter := NewRateLimiter(ServiceGmail)
	limiter.RecordRateLimitError(60)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	err := limiter.Wait(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestRateLimiter_UnknownServiceGetsDefaults(t *testing.T) {
	limiter := NewRateLimiter(ServiceType("drive"))
	assert.True(t, limiter.Allow())
}
