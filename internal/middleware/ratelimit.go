package middleware

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RateLimitConfig is a fixed window limit. RequestsPerWindow == 0 disables limiting.
type RateLimitConfig struct {
	RequestsPerWindow int
	WindowDuration    time.Duration
}

func (c RateLimitConfig) Validate() error {
	if c.RequestsPerWindow < 0 {
		return fmt.Errorf("RequestsPerWindow must be >= 0 (got %d)", c.RequestsPerWindow)
	}
	if c.WindowDuration <= 0 {
		return fmt.Errorf("WindowDuration must be > 0 (got %s)", c.WindowDuration)
	}
	return nil
}

// RateLimitStore holds the per-key counters.
type RateLimitStore interface {
	// Allow reports whether one more request for key fits in the current window,
	// and if not, how many seconds remain until the window resets.
	Allow(ctx context.Context, key string, config RateLimitConfig) (allowed bool, retryAfter int, err error)
}

type bucket struct {
	count     int
	windowEnd time.Time
}

// InMemoryRateLimitStore is a fixed window counter local to this process.
type InMemoryRateLimitStore struct {
	mu      sync.Mutex
	buckets map[string]*bucket
	now     func() time.Time
}

func NewInMemoryRateLimitStore() *InMemoryRateLimitStore {
	return &InMemoryRateLimitStore{
		buckets: make(map[string]*bucket),
		now:     time.Now,
	}
}

func (s *InMemoryRateLimitStore) Allow(_ context.Context, key string, config RateLimitConfig) (bool, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()

	b, exists := s.buckets[key]
	if !exists || !now.Before(b.windowEnd) {
		s.buckets[key] = &bucket{
			count:     1,
			windowEnd: now.Add(config.WindowDuration),
		}
		return true, 0, nil
	}

	if b.count < config.RequestsPerWindow {
		b.count++
		return true, 0, nil
	}

	return false, ceilSeconds(b.windowEnd.Sub(now)), nil
}

// Cleanup drops expired buckets.
func (s *InMemoryRateLimitStore) Cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	for key, b := range s.buckets {
		if !now.Before(b.windowEnd) {
			delete(s.buckets, key)
		}
	}
}

// RunCleanup calls Cleanup every interval until ctx is done.
func (s *InMemoryRateLimitStore) RunCleanup(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Cleanup()
		}
	}
}

// RedisRateLimitStore shares fixed window counters between instances.
type RedisRateLimitStore struct {
	client *redis.Client
	prefix string
}

func NewRedisRateLimitStore(client *redis.Client) *RedisRateLimitStore {
	return &RedisRateLimitStore{client: client, prefix: "questionboard:ratelimit:"}
}

func (s *RedisRateLimitStore) Allow(ctx context.Context, key string, config RateLimitConfig) (bool, int, error) {
	redisKey := s.prefix + key

	pipe := s.client.TxPipeline()
	incr := pipe.Incr(ctx, redisKey)
	ttl := pipe.PTTL(ctx, redisKey)
	if _, err := pipe.Exec(ctx); err != nil {
		return true, 0, fmt.Errorf("rate limit %s: %w", key, err)
	}

	remaining := ttl.Val()
	if remaining < 0 {
		// first hit in the window, or a key that lost its expiry
		if err := s.client.PExpire(ctx, redisKey, config.WindowDuration).Err(); err != nil {
			return true, 0, fmt.Errorf("rate limit %s: %w", key, err)
		}
		remaining = config.WindowDuration
	}

	if incr.Val() <= int64(config.RequestsPerWindow) {
		return true, 0, nil
	}
	return false, ceilSeconds(remaining), nil
}

func ceilSeconds(d time.Duration) int {
	s := int(math.Ceil(d.Seconds()))
	if s <= 0 {
		return 1
	}
	return s
}

// RateLimitMiddleware rejects requests over the limit with 429 and Retry-After.
// Keys are client IPs. Store errors let the request through.
func RateLimitMiddleware(store RateLimitStore, config RateLimitConfig, metrics *Metrics, logger *zap.Logger) gin.HandlerFunc {
	log := logger.Sugar()

	return func(c *gin.Context) {
		if config.RequestsPerWindow == 0 {
			c.Next()
			return
		}

		route := routeLabel(c)
		metrics.incRateLimitRequests(route)

		allowed, retryAfter, err := store.Allow(c.Request.Context(), "ip:"+c.ClientIP(), config)
		if err != nil {
			metrics.incRateLimitErrors()
			log.Warnw("Rate limit store unavailable, allowing request", "route", route, "error", err)
			c.Next()
			return
		}

		if !allowed {
			metrics.incRateLimitBlocked(route)
			c.Header("Retry-After", strconv.Itoa(retryAfter))
			resetTime := time.Now().Add(time.Duration(retryAfter) * time.Second).Unix()
			c.Header("X-RateLimit-Reset", strconv.FormatInt(resetTime, 10))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "too many requests"})
			return
		}

		c.Next()
	}
}
