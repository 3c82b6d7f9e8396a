package health

import (
	"context"
	"fmt"
	"time"

	"github.com/aaravmahajanofficial/product-catalog-service/internal/config"
	"github.com/hellofresh/health-go/v5"
	healthMongo "github.com/hellofresh/health-go/v5/checks/mongo"
	healthRedis "github.com/hellofresh/health-go/v5/checks/redis"
)

const serviceVersion = "1.0.0"

// NewHealthHandler registers a check per configured backend. The memory store
// has nothing to probe, so only the store in use and Redis (when enabled) are checked.
func NewHealthHandler(cfg *config.Config) (*health.Health, error) {

	checks := []health.Config{}

	switch cfg.Storage.Driver {
	case config.StorageDriverMongo:
		checks = append(checks, health.Config{
			Name:      "mongo",
			Timeout:   3 * time.Second,
			SkipOnErr: false,
			Check: healthMongo.New(healthMongo.Config{
				DSN:               cfg.Mongo.URI,
				TimeoutConnect:    cfg.Mongo.Timeout,
				TimeoutDisconnect: cfg.Mongo.Timeout,
				TimeoutPing:       2 * time.Second,
			}),
		})
	default:
		checks = append(checks, health.Config{
			Name:      "memory",
			Timeout:   time.Second,
			SkipOnErr: true,
			Check:     func(context.Context) error { return nil },
		})
	}

	if cfg.RedisConnect.Enabled {
		checks = append(checks, health.Config{
			Name:      "redis",
			Timeout:   2 * time.Second,
			SkipOnErr: true,
			Check: healthRedis.New(
				healthRedis.Config{
					DSN: cfg.RedisConnect.GetDSN(),
				},
			),
		})
	}

	h, err := health.New(
		health.WithComponent(health.Component{
			Name:    cfg.Otel.ServiceName,
			Version: serviceVersion,
		}),
		health.WithSystemInfo(),
		health.WithChecks(checks...),
	)

	if err != nil {
		return nil, fmt.Errorf("failed to create health instance: %w", err)
	}

	return h, nil
}
