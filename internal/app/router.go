package app

import (
	apphttp "github.com/yungbote/contactbook-backend/internal/http"
	"github.com/yungbote/contactbook-backend/internal/observability"
	"github.com/yungbote/contactbook-backend/internal/platform/logger"
)

func wireServer(log *logger.Logger, cfg Config, handlers Handlers, middleware Middleware, metrics *observability.Metrics) *apphttp.Server {
	return apphttp.NewServer(apphttp.RouterConfig{
		Log:                log,
		ServiceName:        cfg.Otel.ServiceName,
		CORSOrigins:        cfg.CORSOrigins,
		RequestTimeout:     cfg.RequestTimeout,
		Metrics:            metrics,
		ExposeMetrics:      metrics != nil && cfg.MetricsAddr == "",
		TracingEnabled:     cfg.Otel.Enabled,
		IdentityMiddleware: middleware.Identity,
		ContactHandler:     handlers.Contact,
		HealthHandler:      handlers.Health,
	})
}
