package app

import (
	"strings"
	"time"

	"github.com/yungbote/contactbook-backend/internal/data/db"
	"github.com/yungbote/contactbook-backend/internal/observability"
	"github.com/yungbote/contactbook-backend/internal/platform/config"
)

type Config struct {
	LogMode             string `env:"LOG_MODE" envDefault:"development"`
	LogRedactionEnabled bool   `env:"LOG_REDACTION_ENABLED" envDefault:"true"`
	LogHashSalt         string `env:"LOG_HASH_SALT"`

	HTTPAddr       string        `env:"HTTP_ADDR" envDefault:":8080"`
	RequestTimeout time.Duration `env:"HTTP_REQUEST_TIMEOUT" envDefault:"15s"`
	CORSOrigins    []string      `env:"CORS_ORIGINS" envSeparator:","`

	DB db.Config

	// Tokens are verified with the shared secret unless an OIDC issuer is set.
	IdentityJWTSecret    string `env:"IDENTITY_JWT_SECRET"`
	IdentityJWTIssuer    string `env:"IDENTITY_JWT_ISSUER"`
	IdentityOIDCIssuer   string `env:"IDENTITY_OIDC_ISSUER"`
	IdentityOIDCAudience string `env:"IDENTITY_OIDC_AUDIENCE"`

	// Empty RedisAddr keeps address locks in-process.
	RedisAddr string        `env:"REDIS_ADDR"`
	LockTTL   time.Duration `env:"LOCK_TTL" envDefault:"10s"`

	MetricsEnabled bool   `env:"METRICS_ENABLED" envDefault:"false"`
	MetricsAddr    string `env:"METRICS_ADDR"`

	Otel observability.OtelConfig
}

func LoadConfig() (Config, error) {
	var cfg Config
	if err := config.ParseEnv(&cfg); err != nil {
		return Config{}, err
	}
	cfg.HTTPAddr = strings.TrimSpace(cfg.HTTPAddr)
	cfg.RedisAddr = strings.TrimSpace(cfg.RedisAddr)
	cfg.MetricsAddr = strings.TrimSpace(cfg.MetricsAddr)
	return cfg, nil
}
