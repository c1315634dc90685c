package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/spec-kit/request-tracker/internal/config"
)

func newTestLimiter(maxRequests int) *Limiter {
	return NewLimiter(config.RateLimitConfig{
		Enabled:       true,
		Strategy:      StrategyTokenBucket,
		MaxRequests:   maxRequests,
		WindowSeconds: 60,
	}, nil, zap.NewNop())
}

func TestLimiterTokenBucket(t *testing.T) {
	limiter := newTestLimiter(3)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		allowed, _ := limiter.Allow(ctx, "10.0.0.1")
		assert.True(t, allowed, "request %d should pass", i+1)
	}

	allowed, retryAfter := limiter.Allow(ctx, "10.0.0.1")
	assert.False(t, allowed)
	assert.Equal(t, time.Minute, retryAfter)
}

func TestLimiterKeysAreIndependent(t *testing.T) {
	limiter := newTestLimiter(1)
	ctx := context.Background()

	allowed, _ := limiter.Allow(ctx, "10.0.0.1")
	assert.True(t, allowed)
	allowed, _ = limiter.Allow(ctx, "10.0.0.1")
	assert.False(t, allowed)

	allowed, _ = limiter.Allow(ctx, "10.0.0.2")
	assert.True(t, allowed, "a different client must have its own budget")
}

func TestLimiterDisabled(t *testing.T) {
	limiter := NewLimiter(config.RateLimitConfig{Enabled: false, MaxRequests: 1}, nil, zap.NewNop())

	for i := 0; i < 10; i++ {
		allowed, _ := limiter.Allow(context.Background(), "10.0.0.1")
		assert.True(t, allowed)
	}
}

func TestLimiterSlidingWindowWithoutRedisFallsBack(t *testing.T) {
	limiter := NewLimiter(config.RateLimitConfig{
		Enabled:       true,
		Strategy:      StrategySlidingWindow,
		MaxRequests:   2,
		WindowSeconds: 60,
	}, nil, zap.NewNop())
	ctx := context.Background()

	allowed, _ := limiter.Allow(ctx, "10.0.0.1")
	assert.True(t, allowed)
	allowed, _ = limiter.Allow(ctx, "10.0.0.1")
	assert.True(t, allowed)
	allowed, _ = limiter.Allow(ctx, "10.0.0.1")
	assert.False(t, allowed)
}
