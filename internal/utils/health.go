package utils

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const (
	StatusHealthy  = "healthy"
	StatusDegraded = "degraded"

	checkTimeout = 2 * time.Second
)

type HealthStatus struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Services  []Service `json:"services"`
}

type Service struct {
	Name    string `json:"name"`
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// HealthChecker pings the database and, when configured, Redis.
type HealthChecker struct {
	DB    *gorm.DB
	Redis *redis.Client
}

func (h *HealthChecker) Check(ctx context.Context) HealthStatus {
	services := make([]Service, 0, 2)
	overallStatus := StatusHealthy

	if h.DB != nil {
		service := Service{Name: h.DB.Dialector.Name()}
		if err := h.pingDB(ctx); err != nil {
			service.Status = "down"
			service.Message = err.Error()
			overallStatus = StatusDegraded
		} else {
			service.Status = "up"
		}
		services = append(services, service)
	}

	if h.Redis != nil {
		service := Service{Name: "redis"}
		ctx, cancel := context.WithTimeout(ctx, checkTimeout)
		if err := h.Redis.Ping(ctx).Err(); err != nil {
			service.Status = "down"
			service.Message = err.Error()
			overallStatus = StatusDegraded
		} else {
			service.Status = "up"
		}
		services = append(services, service)
		cancel()
	}

	return HealthStatus{
		Status:    overallStatus,
		Timestamp: time.Now().UTC(),
		Services:  services,
	}
}

func (h *HealthChecker) pingDB(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, checkTimeout)
	defer cancel()
	sqlDB, err := h.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
