package config

import (
	"time"

	"github.com/Skotchmaster/food_orders/pkg/config"
	"github.com/Skotchmaster/food_orders/pkg/db"
)

type ServiceConfig struct {
	config.Config

	OrderEventsTopic string
	IdempotencyTTL   time.Duration

	RetryAttempts    int
	RetryBaseBackoff time.Duration
	PlacementTimeout time.Duration
}

func Load() ServiceConfig {
	cfg := config.Load()

	config.MustNonEmpty(cfg.DatabaseURL, "DATABASE_URL")
	config.MustNonEmptyBytes(cfg.JWTAccessSecret, "JWT_SECRET")
	config.MustOneOf(cfg.DBDriver, "DB_DRIVER", db.DriverPgx, db.DriverPQ, db.DriverSQLite)

	sc := ServiceConfig{
		Config: cfg,

		OrderEventsTopic: config.EnvDefault("ORDER_EVENTS_TOPIC", "order_events"),
		IdempotencyTTL:   config.EnvDurationDefault("IDEMPOTENCY_TTL", 24*time.Hour),

		RetryAttempts:    config.EnvIntDefault("ORDER_RETRY_ATTEMPTS", 3),
		RetryBaseBackoff: config.EnvDurationDefault("ORDER_RETRY_BASE_BACKOFF", 20*time.Millisecond),
		PlacementTimeout: config.EnvDurationDefault("ORDER_PLACEMENT_TIMEOUT", 5*time.Second),
	}
	if sc.RetryAttempts < 1 {
		sc.RetryAttempts = 1
	}
	return sc
}
