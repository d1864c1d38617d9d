package app

import (
	"gorm.io/gorm"

	httpH "github.com/yungbote/contactbook-backend/internal/http/handlers"
	"github.com/yungbote/contactbook-backend/internal/platform/logger"
)

type Handlers struct {
	Health  *httpH.HealthHandler
	Contact *httpH.ContactHandler
}

func wireHandlers(log *logger.Logger, db *gorm.DB, serviceset Services) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Health:  httpH.NewHealthHandler(db),
		Contact: httpH.NewContactHandler(log, serviceset.Contacts),
	}
}
