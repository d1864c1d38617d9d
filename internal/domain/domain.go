package domain

import "github.com/yungbote/contactbook-backend/internal/domain/contacts"

type Address = contacts.Address
type Phone = contacts.Phone
