package app

import (
	"gorm.io/gorm"

	"github.com/yungbote/contactbook-backend/internal/data/repos"
	"github.com/yungbote/contactbook-backend/internal/platform/logger"
)

type Repos struct {
	Address repos.AddressRepo
	Phone   repos.PhoneRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		Address: repos.NewAddressRepo(db, log),
		Phone:   repos.NewPhoneRepo(db, log),
	}
}
