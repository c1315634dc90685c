package ratelimit

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/spec-kit/request-tracker/internal/config"
	apperrors "github.com/spec-kit/request-tracker/pkg/util"
)

const (
	// StrategySlidingWindow counts requests in a rolling window via Redis.
	StrategySlidingWindow = "sliding_window"
	// StrategyTokenBucket uses per-key in-process token buckets.
	StrategyTokenBucket = "token_bucket"

	redisKeyPrefix = "ratelimit:"
)

// Limiter throttles requests per client key. The sliding-window strategy is
// shared across processes through Redis; the token-bucket strategy is local
// and also serves as the fallback when Redis is unreachable.
type Limiter struct {
	cfg    config.RateLimitConfig
	client *redis.Client
	logger *zap.Logger

	mu      sync.Mutex
	buckets map[string]*rate.Limiter
}

// NewLimiter builds a limiter. The Redis client may be nil, which forces the
// token-bucket strategy.
func NewLimiter(cfg config.RateLimitConfig, client *redis.Client, logger *zap.Logger) *Limiter {
	return &Limiter{
		cfg:     cfg,
		client:  client,
		logger:  logger,
		buckets: make(map[string]*rate.Limiter),
	}
}

// Allow reports whether the key may proceed, and if not, how long to wait.
func (l *Limiter) Allow(ctx context.Context, key string) (bool, time.Duration) {
	if !l.cfg.Enabled || l.cfg.MaxRequests <= 0 {
		return true, 0
	}
	if l.cfg.Strategy == StrategySlidingWindow && l.client != nil {
		allowed, retryAfter, err := l.allowSlidingWindow(ctx, key)
		if err == nil {
			return allowed, retryAfter
		}
		l.logger.Warn("sliding window check failed; falling back to local bucket", zap.Error(err))
	}
	return l.allowTokenBucket(key)
}

func (l *Limiter) allowSlidingWindow(ctx context.Context, key string) (bool, time.Duration, error) {
	window := l.cfg.Window()
	now := time.Now()
	redisKey := redisKeyPrefix + key

	pipe := l.client.TxPipeline()
	pipe.ZRemRangeByScore(ctx, redisKey, "0", strconv.FormatInt(now.Add(-window).UnixNano(), 10))
	pipe.ZAdd(ctx, redisKey, redis.Z{Score: float64(now.UnixNano()), Member: uuid.NewString()})
	card := pipe.ZCard(ctx, redisKey)
	pipe.Expire(ctx, redisKey, window)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, 0, err
	}

	if card.Val() > int64(l.cfg.MaxRequests) {
		return false, window, nil
	}
	return true, 0, nil
}

func (l *Limiter) allowTokenBucket(key string) (bool, time.Duration) {
	l.mu.Lock()
	bucket, ok := l.buckets[key]
	if !ok {
		interval := l.cfg.Window() / time.Duration(l.cfg.MaxRequests)
		bucket = rate.NewLimiter(rate.Every(interval), l.cfg.MaxRequests)
		l.buckets[key] = bucket
	}
	l.mu.Unlock()

	if bucket.Allow() {
		return true, 0
	}
	return false, l.cfg.Window()
}

// Middleware returns a fiber handler keyed by client IP that answers 429 with
// a Retry-After header when the limit is exceeded.
func (l *Limiter) Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		allowed, retryAfter := l.Allow(c.Context(), c.IP())
		if !allowed {
			seconds := int(retryAfter.Round(time.Second).Seconds())
			if seconds < 1 {
				seconds = 1
			}
			c.Set(fiber.HeaderRetryAfter, strconv.Itoa(seconds))
			return apperrors.NewTooManyRequests(seconds)
		}
		return c.Next()
	}
}
