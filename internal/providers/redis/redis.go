package redis

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type RedisProvider struct {
	Client *redis.Client
	URL    string
	logger *zap.SugaredLogger
}

// NewRedisProvider accepts either a redis:// URL or a bare host:port. The
// connection monitor runs until ctx is cancelled.
func NewRedisProvider(ctx context.Context, redisURL string, logger *zap.Logger) (*RedisProvider, error) {
	if redisURL == "" {
		return nil, fmt.Errorf("redis: empty url")
	}

	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		opts = &redis.Options{
			Addr: redisURL,
			DB:   0,
		}
	}
	opts.MaxRetries = 3
	opts.MinRetryBackoff = 100 * time.Millisecond
	opts.MaxRetryBackoff = 500 * time.Millisecond

	client := redis.NewClient(opts)

	provider := &RedisProvider{
		Client: client,
		URL:    redisURL,
		logger: logger.Sugar(),
	}

	client.AddHook(&loggerHook{provider: provider})

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		provider.logger.Errorw("Redis connection failed at startup", "addr", opts.Addr, "error", err)
	} else {
		provider.logger.Infow("Redis connected",
			"addr", opts.Addr,
			"db", opts.DB,
			"username", opts.Username,
		)
	}

	go provider.startConnectionMonitor(ctx)

	return provider, nil
}

func (r *RedisProvider) Close() error {
	return r.Client.Close()
}

func (r *RedisProvider) startConnectionMonitor(ctx context.Context) {
	ticker := time.NewTicker(5 * time.Second)
	defer ticker.Stop()

	wasConnected := r.Client.Ping(ctx).Err() == nil

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			err := r.Client.Ping(ctx).Err()
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				if wasConnected {
					r.logger.Errorw("Redis disconnected", "error", err)
					wasConnected = false
				}
			} else if !wasConnected {
				r.logger.Infow("Redis reconnected", "url", r.URL)
				wasConnected = true
			}
		}
	}
}

type loggerHook struct {
	provider *RedisProvider
}

func (h *loggerHook) DialHook(next redis.DialHook) redis.DialHook {
	return func(ctx context.Context, network, addr string) (net.Conn, error) {
		conn, err := next(ctx, network, addr)
		if err != nil {
			h.provider.logger.Errorw("Redis dial failed", "network", network, "addr", addr, "error", err)
		} else {
			h.provider.logger.Debugw("Redis dialed", "network", network, "addr", addr)
		}
		return conn, err
	}
}

func (h *loggerHook) ProcessHook(next redis.ProcessHook) redis.ProcessHook {
	return func(ctx context.Context, cmd redis.Cmder) error {
		start := time.Now()
		err := next(ctx, cmd)
		h.log("Redis command", cmd, time.Since(start), err)
		return err
	}
}

func (h *loggerHook) ProcessPipelineHook(next redis.ProcessPipelineHook) redis.ProcessPipelineHook {
	return func(ctx context.Context, cmds []redis.Cmder) error {
		start := time.Now()
		err := next(ctx, cmds)
		duration := time.Since(start)
		for _, cmd := range cmds {
			h.log("Redis pipeline command", cmd, duration, err)
		}
		return err
	}
}

func (h *loggerHook) log(msg string, cmd redis.Cmder, duration time.Duration, err error) {
	if cmd.Name() == "ping" && err == nil {
		return
	}
	fields := []interface{}{
		"command", cmd.Name(),
		"duration_ms", duration.Milliseconds(),
	}
	if err != nil && err != redis.Nil {
		h.provider.logger.Errorw(msg+" failed", append(fields, "error", err)...)
		return
	}
	h.provider.logger.Debugw(msg+" executed", fields...)
}
