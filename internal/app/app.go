package app

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	apphttp "github.com/yungbote/contactbook-backend/internal/http"
)

type App struct {
	*Core
	Services Services
	Server   *apphttp.Server
}

func New(ctx context.Context) (*App, error) {
	core, err := NewCore(ctx)
	if err != nil {
		return nil, err
	}
	serviceset, err := wireServices(core.Log, core.Cfg, core.Aggregates)
	if err != nil {
		core.Close()
		return nil, err
	}
	handlerset := wireHandlers(core.Log, core.DB, serviceset)
	middleware := wireMiddleware(core.Log, serviceset)

	return &App{
		Core:     core,
		Services: serviceset,
		Server:   wireServer(core.Log, core.Cfg, handlerset, middleware, core.Metrics),
	}, nil
}

// Run serves HTTP, plus the metrics listener and collectors when enabled,
// until ctx is done or one of them fails.
func (a *App) Run(ctx context.Context) error {
	if a == nil || a.Server == nil {
		return fmt.Errorf("app not initialized")
	}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return a.Server.Run(gctx, a.Cfg.HTTPAddr)
	})
	if a.Metrics != nil {
		a.Metrics.StartDBCollector(gctx, a.Log, a.DB)
		if a.Clients.RedisLocker != nil {
			a.Metrics.StartRedisCollector(gctx, a.Log, a.Clients.RedisLocker.Client())
		}
		if a.Cfg.MetricsAddr != "" {
			g.Go(func() error {
				return a.Metrics.StartServer(gctx, a.Log, a.Cfg.MetricsAddr)
			})
		}
	}
	return g.Wait()
}
