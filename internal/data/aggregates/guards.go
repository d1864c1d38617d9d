package aggregates

import (
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/yungbote/contactbook-backend/internal/data/repos"
	types "github.com/yungbote/contactbook-backend/internal/domain"
	"github.com/yungbote/contactbook-backend/internal/platform/dbctx"
	"gorm.io/gorm"
)

// authorizeAddress resolves an address and checks requester owns it. It is the
// only ownership check on the phone write paths: a phone's owner is its
// address's owner. Inside a transaction the address row is locked.
//
// Failures come in a fixed order: unauthenticated, not found, forbidden.
func authorizeAddress(dbc dbctx.Context, addresses repos.AddressRepo, id uuid.UUID, requester string) (*types.Address, error) {
	requester = strings.TrimSpace(requester)
	if requester == "" {
		return nil, UnauthenticatedError("no current user")
	}
	if id == uuid.Nil {
		return nil, NotFoundError("address not found")
	}
	var (
		row *types.Address
		err error
	)
	if dbc.Tx != nil {
		row, err = addresses.LockByID(dbc, id)
	} else {
		row, err = addresses.GetByID(dbc, id)
	}
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NotFoundError("address not found")
		}
		return nil, err
	}
	if row.OwnerID != requester {
		return nil, ForbiddenError("address belongs to another user")
	}
	return row, nil
}

// requireFields trims each value in place and fails on the first empty one.
// names and values pair up by index.
func requireFields(names []string, values ...*string) error {
	for i, v := range values {
		*v = strings.TrimSpace(*v)
		if *v == "" {
			return ValidationError("missing " + names[i])
		}
	}
	return nil
}

func notFoundOr(err error, msg string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return NotFoundError(msg)
	}
	return err
}
