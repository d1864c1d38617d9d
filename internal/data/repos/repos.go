package repos

import (
	"github.com/yungbote/contactbook-backend/internal/data/repos/contacts"
	"github.com/yungbote/contactbook-backend/internal/platform/logger"
	"gorm.io/gorm"
)

type AddressRepo = contacts.AddressRepo
type PhoneRepo = contacts.PhoneRepo

func NewAddressRepo(db *gorm.DB, baseLog *logger.Logger) AddressRepo {
	return contacts.NewAddressRepo(db, baseLog)
}
func NewPhoneRepo(db *gorm.DB, baseLog *logger.Logger) PhoneRepo {
	return contacts.NewPhoneRepo(db, baseLog)
}
