package contacts

import (
	"time"

	"github.com/google/uuid"
)

// Phone belongs to an Address. Its effective owner is the address owner.
// Seq is assigned per address at insert time and fixes the display order.
type Phone struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	AddressID   uuid.UUID `gorm:"type:uuid;not null;column:address_id;index:idx_phone_address_seq,priority:1" json:"address_id"`
	Seq         int64     `gorm:"not null;column:seq;index:idx_phone_address_seq,priority:2" json:"seq"`
	PhoneNumber string    `gorm:"not null;column:phone_number" json:"phone_number"`
	Kind        string    `gorm:"not null;column:kind" json:"kind"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (Phone) TableName() string { return "phone" }
