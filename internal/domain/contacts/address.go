package contacts

import (
	"time"

	"github.com/google/uuid"
)

// Address is a contact record owned by exactly one user.
// PhoneSummary is derived from the address's phones and is only written by
// the phone summary aggregator.
type Address struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	OwnerID      string    `gorm:"not null;index;column:owner_id" json:"owner_id"`
	First        string    `gorm:"not null;column:first" json:"first"`
	Last         string    `gorm:"not null;column:last" json:"last"`
	PhoneSummary string    `gorm:"not null;column:phone_summary" json:"phone_summary"`

	CreatedAt time.Time `gorm:"not null;index" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (Address) TableName() string { return "address" }
