package app

import (
	"fmt"

	"github.com/yungbote/contactbook-backend/internal/clients/redis"
	"github.com/yungbote/contactbook-backend/internal/data/aggregates"
	"github.com/yungbote/contactbook-backend/internal/platform/keylock"
	"github.com/yungbote/contactbook-backend/internal/platform/logger"
)

type Clients struct {
	// Locker serializes writes per address. RedisLocker is set only when
	// REDIS_ADDR is configured.
	Locker      aggregates.Locker
	RedisLocker *redis.Locker
}

func wireClients(log *logger.Logger, cfg Config) (Clients, error) {
	log.Info("Wiring clients...")
	if cfg.RedisAddr == "" {
		log.Info("address locks are in-process; set REDIS_ADDR when running more than one instance")
		return Clients{Locker: keylock.New()}, nil
	}
	rl, err := redis.NewLocker(log, cfg.RedisAddr, cfg.LockTTL)
	if err != nil {
		return Clients{}, fmt.Errorf("init redis locker: %w", err)
	}
	return Clients{Locker: rl, RedisLocker: rl}, nil
}

func (c Clients) Close(log *logger.Logger) {
	if c.RedisLocker != nil {
		if err := c.RedisLocker.Close(); err != nil {
			log.Warn("redis locker close failed", "error", err)
		}
	}
}
