package services

import (
	"context"
	"time"

	"github.com/NomadCrew/comment-board/logger"
	"github.com/NomadCrew/comment-board/types"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// StoreChecker is implemented by record logs that can verify they are readable.
type StoreChecker interface {
	Check(ctx context.Context) error
}

type HealthService struct {
	stores      map[string]StoreChecker
	redisClient *redis.Client
	version     string
	startTime   time.Time
	log         *zap.SugaredLogger
}

// NewHealthService builds a health service. redisClient may be nil when no
// Redis-backed feature is enabled.
func NewHealthService(stores map[string]StoreChecker, redisClient *redis.Client, version string) *HealthService {
	return &HealthService{
		stores:      stores,
		redisClient: redisClient,
		version:     version,
		startTime:   time.Now(),
		log:         logger.GetLogger(),
	}
}

// CheckHealth checks every component. An unreadable store takes the service
// down; an unreachable Redis only degrades it because broadcasting and rate
// limiting fail open.
func (h *HealthService) CheckHealth(ctx context.Context) types.HealthCheck {
	components := make(map[string]types.HealthComponent)
	overallStatus := types.HealthStatusUp

	for name, s := range h.stores {
		status := h.checkStore(ctx, name, s)
		components[name] = status
		if status.Status == types.HealthStatusDown {
			overallStatus = types.HealthStatusDown
		}
	}

	if h.redisClient != nil {
		redisStatus := h.checkRedis(ctx)
		components[types.ComponentRedis] = redisStatus
		if redisStatus.Status != types.HealthStatusUp && overallStatus == types.HealthStatusUp {
			overallStatus = types.HealthStatusDegraded
		}
	}

	return types.HealthCheck{
		Status:     overallStatus,
		Components: components,
		Version:    h.version,
		Timestamp:  time.Now().UTC().Format(time.RFC3339),
		Uptime:     time.Since(h.startTime).Round(time.Second).String(),
	}
}

func (h *HealthService) checkStore(ctx context.Context, name string, s StoreChecker) types.HealthComponent {
	if err := s.Check(ctx); err != nil {
		h.log.Errorw("Store health check failed", "store", name, "error", err)
		return types.HealthComponent{
			Status:  types.HealthStatusDown,
			Details: "Record log unreadable",
		}
	}

	return types.HealthComponent{
		Status: types.HealthStatusUp,
	}
}

func (h *HealthService) checkRedis(ctx context.Context) types.HealthComponent {
	if err := h.redisClient.Ping(ctx).Err(); err != nil {
		h.log.Errorw("Redis health check failed", "error", err)
		return types.HealthComponent{
			Status:  types.HealthStatusDown,
			Details: "Redis connection failed",
		}
	}

	return types.HealthComponent{
		Status: types.HealthStatusUp,
	}
}
