package http

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/yungbote/contactbook-backend/internal/http/handlers"
	httpMW "github.com/yungbote/contactbook-backend/internal/http/middleware"
	"github.com/yungbote/contactbook-backend/internal/observability"
	"github.com/yungbote/contactbook-backend/internal/platform/logger"
)

type RouterConfig struct {
	Log         *logger.Logger
	ServiceName string
	CORSOrigins []string
	// RequestTimeout bounds /api requests; zero disables it.
	RequestTimeout time.Duration

	// Metrics is optional. ExposeMetrics serves /metrics from this router
	// instead of a dedicated listener.
	Metrics        *observability.Metrics
	ExposeMetrics  bool
	TracingEnabled bool

	IdentityMiddleware *httpMW.IdentityMiddleware
	ContactHandler     *httpH.ContactHandler
	HealthHandler      *httpH.HealthHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	if cfg.TracingEnabled {
		name := cfg.ServiceName
		if name == "" {
			name = "contactbook-api"
		}
		r.Use(otelgin.Middleware(name))
	}
	r.Use(httpMW.AttachTraceContext())
	r.Use(httpMW.CORS(cfg.CORSOrigins))
	r.Use(httpMW.Metrics(cfg.Metrics))
	r.Use(httpMW.RequestLogger(cfg.Log))

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}
	if cfg.Metrics != nil && cfg.ExposeMetrics {
		r.GET("/metrics", func(c *gin.Context) { cfg.Metrics.WriteHTTP(c.Writer, c.Request) })
	}

	protected := r.Group("/api")
	protected.Use(httpMW.RequestTimeout(cfg.RequestTimeout))
	if cfg.IdentityMiddleware != nil {
		protected.Use(cfg.IdentityMiddleware.RequireIdentity())
	}

	// Contacts
	if h := cfg.ContactHandler; h != nil {
		protected.GET("/addresses", h.ListAddresses)
		protected.POST("/addresses", h.CreateAddress)
		protected.POST("/addresses/recompute", h.RecomputeSummaries)
		protected.GET("/addresses/:id", h.GetAddress)
		protected.PATCH("/addresses/:id", h.EditAddress)
		protected.DELETE("/addresses/:id", h.DeleteAddress)
		protected.GET("/addresses/:id/phones", h.ListPhones)
		protected.POST("/addresses/:id/phones", h.AddPhone)
		protected.GET("/phones/:id", h.GetPhone)
		protected.PATCH("/phones/:id", h.EditPhone)
		protected.DELETE("/phones/:id", h.DeletePhone)
	}

	return r
}
