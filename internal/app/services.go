package app

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/yungbote/contactbook-backend/internal/data/aggregates"
	domainagg "github.com/yungbote/contactbook-backend/internal/domain/aggregates"
	"github.com/yungbote/contactbook-backend/internal/observability"
	"github.com/yungbote/contactbook-backend/internal/platform/logger"
	"github.com/yungbote/contactbook-backend/internal/services"
)

type Aggregates struct {
	Addresses domainagg.AddressStore
	Phones    domainagg.PhoneStore
	Summary   domainagg.PhoneSummarizer
}

type Services struct {
	Contacts services.ContactService
	Identity services.IdentityVerifier
}

// WireAggregates builds the stores around one shared locker. metrics may be nil.
func WireAggregates(db *gorm.DB, log *logger.Logger, reposet Repos, locker aggregates.Locker, metrics *observability.Metrics) Aggregates {
	log.Info("Wiring aggregates...")
	base := aggregates.BaseDeps{DB: db, Log: log, Locker: locker}
	if metrics != nil {
		base.Hooks = aggregates.NewObservabilityHooks(metrics)
	}
	summary := aggregates.NewPhoneSummaryAggregator(aggregates.PhoneSummaryDeps{
		Base:      base,
		Addresses: reposet.Address,
		Phones:    reposet.Phone,
	})
	return Aggregates{
		Addresses: aggregates.NewAddressStore(aggregates.AddressStoreDeps{
			Base:      base,
			Addresses: reposet.Address,
			Phones:    reposet.Phone,
		}),
		Phones: aggregates.NewPhoneStore(aggregates.PhoneStoreDeps{
			Base:      base,
			Addresses: reposet.Address,
			Phones:    reposet.Phone,
			Summary:   summary,
		}),
		Summary: summary,
	}
}

func wireServices(log *logger.Logger, cfg Config, aggs Aggregates) (Services, error) {
	log.Info("Wiring services...")
	identity, err := wireIdentity(log, cfg)
	if err != nil {
		return Services{}, fmt.Errorf("init identity verifier: %w", err)
	}
	return Services{
		Contacts: services.NewContactService(log, aggs.Addresses, aggs.Phones, aggs.Summary),
		Identity: identity,
	}, nil
}

func wireIdentity(log *logger.Logger, cfg Config) (services.IdentityVerifier, error) {
	if strings.TrimSpace(cfg.IdentityOIDCIssuer) != "" {
		return services.NewOIDCIdentityVerifier(log, &http.Client{Timeout: 10 * time.Second}, cfg.IdentityOIDCIssuer, cfg.IdentityOIDCAudience)
	}
	return services.NewJWTIdentityVerifier(log, cfg.IdentityJWTSecret, cfg.IdentityJWTIssuer)
}
