package app

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/yungbote/contactbook-backend/internal/data/db"
	"github.com/yungbote/contactbook-backend/internal/observability"
	"github.com/yungbote/contactbook-backend/internal/platform/logger"
)

// Core is the data side of the application: database, locks, repos and
// aggregates. Maintenance tools use it without the HTTP surface.
type Core struct {
	Log        *logger.Logger
	DB         *gorm.DB
	Cfg        Config
	Clients    Clients
	Repos      Repos
	Aggregates Aggregates
	Metrics    *observability.Metrics

	dbService    *db.Service
	otelShutdown func(context.Context) error
}

func NewCore(ctx context.Context) (*Core, error) {
	cfg, err := LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	log, err := logger.NewWithOptions(logger.Options{
		Mode:             cfg.LogMode,
		DisableRedaction: !cfg.LogRedactionEnabled,
		HashSalt:         cfg.LogHashSalt,
	})
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	c := &Core{Log: log, Cfg: cfg}
	c.otelShutdown = observability.InitOTel(ctx, log, cfg.Otel)

	c.dbService, err = db.NewService(log, cfg.DB)
	if err != nil {
		c.Close()
		return nil, fmt.Errorf("init db: %w", err)
	}
	if err := c.dbService.AutoMigrateAll(); err != nil {
		c.Close()
		return nil, fmt.Errorf("automigrate: %w", err)
	}
	c.DB = c.dbService.DB()

	c.Clients, err = wireClients(log, cfg)
	if err != nil {
		c.Close()
		return nil, err
	}
	if cfg.MetricsEnabled {
		c.Metrics = observability.New()
	}
	c.Repos = wireRepos(c.DB, log)
	c.Aggregates = WireAggregates(c.DB, log, c.Repos, c.Clients.Locker, c.Metrics)
	return c, nil
}

func (c *Core) Close() {
	if c == nil {
		return
	}
	c.Clients.Close(c.Log)
	if c.dbService != nil {
		if err := c.dbService.Close(); err != nil {
			c.Log.Warn("db close failed", "error", err)
		}
	}
	if c.otelShutdown != nil {
		if err := c.otelShutdown(context.Background()); err != nil {
			c.Log.Warn("otel shutdown failed", "error", err)
		}
	}
	c.Log.Sync()
}
