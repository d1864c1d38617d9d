package aggregates

import (
	"strings"

	"github.com/google/uuid"
	"github.com/yungbote/contactbook-backend/internal/data/repos"
	types "github.com/yungbote/contactbook-backend/internal/domain"
	domainagg "github.com/yungbote/contactbook-backend/internal/domain/aggregates"
	"github.com/yungbote/contactbook-backend/internal/platform/dbctx"
)

type AddressStoreDeps struct {
	Base BaseDeps

	Addresses repos.AddressRepo
	Phones    repos.PhoneRepo
}

type addressStore struct {
	deps AddressStoreDeps
}

func NewAddressStore(deps AddressStoreDeps) domainagg.AddressStore {
	deps.Base = deps.Base.withDefaults()
	return &addressStore{deps: deps}
}

func (s *addressStore) Contract() domainagg.Contract {
	return domainagg.AddressStoreContract
}

func (s *addressStore) configured(op string) error {
	if s.deps.Addresses == nil || s.deps.Phones == nil {
		return domainagg.NewError(domainagg.CodeInternal, op, "address store repos not configured", nil)
	}
	return nil
}

func (s *addressStore) ListByOwner(dbc dbctx.Context, owner string) ([]*types.Address, error) {
	const op = "Contacts.AddressStore.ListByOwner"
	if err := s.configured(op); err != nil {
		return nil, err
	}
	owner = strings.TrimSpace(owner)
	if owner == "" {
		return nil, MapError(op, ValidationError("missing owner"))
	}
	rows, err := s.deps.Addresses.ListByOwner(dbc, owner)
	if err != nil {
		return nil, MapError(op, err)
	}
	return rows, nil
}

func (s *addressStore) Create(dbc dbctx.Context, owner, first, last string) (*types.Address, error) {
	const op = "Contacts.AddressStore.Create"
	if err := s.configured(op); err != nil {
		return nil, err
	}
	if err := requireFields([]string{"owner", "first", "last"}, &owner, &first, &last); err != nil {
		return nil, MapError(op, err)
	}

	var out *types.Address
	err := executeWrite(dbc, s.deps.Base, op, func(dbc dbctx.Context) error {
		row, err := s.deps.Addresses.Create(dbc, &types.Address{
			OwnerID: owner,
			First:   first,
			Last:    last,
		})
		if err != nil {
			return err
		}
		out = row
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.deps.Base.Log.Debug("address created", "address_id", out.ID, "owner_id", owner)
	return out, nil
}

func (s *addressStore) Get(dbc dbctx.Context, id uuid.UUID) (*types.Address, error) {
	const op = "Contacts.AddressStore.Get"
	if err := s.configured(op); err != nil {
		return nil, err
	}
	row, err := s.deps.Addresses.GetByID(dbc, id)
	if err != nil {
		return nil, MapError(op, notFoundOr(err, "address not found"))
	}
	return row, nil
}

func (s *addressStore) Authorize(dbc dbctx.Context, id uuid.UUID, requester string) (*types.Address, error) {
	const op = "Contacts.AddressStore.Authorize"
	if err := s.configured(op); err != nil {
		return nil, err
	}
	row, err := authorizeAddress(dbc, s.deps.Addresses, id, requester)
	if err != nil {
		return nil, MapError(op, err)
	}
	return row, nil
}

func (s *addressStore) Update(dbc dbctx.Context, id uuid.UUID, requester, first, last string) (*types.Address, error) {
	const op = "Contacts.AddressStore.Update"
	if err := s.configured(op); err != nil {
		return nil, err
	}

	var out *types.Address
	err := executeAddressWrite(dbc, s.deps.Base, op, id, func(dbc dbctx.Context) error {
		if _, err := authorizeAddress(dbc, s.deps.Addresses, id, requester); err != nil {
			return err
		}
		if err := requireFields([]string{"first", "last"}, &first, &last); err != nil {
			return err
		}
		if err := s.deps.Addresses.UpdateName(dbc, id, first, last); err != nil {
			return notFoundOr(err, "address not found")
		}
		row, err := s.deps.Addresses.GetByID(dbc, id)
		if err != nil {
			return notFoundOr(err, "address not found")
		}
		out = row
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Delete removes the address's phones and then the address in one transaction.
func (s *addressStore) Delete(dbc dbctx.Context, id uuid.UUID, requester string) error {
	const op = "Contacts.AddressStore.Delete"
	if err := s.configured(op); err != nil {
		return err
	}

	var removedPhones int64
	err := executeAddressWrite(dbc, s.deps.Base, op, id, func(dbc dbctx.Context) error {
		if _, err := authorizeAddress(dbc, s.deps.Addresses, id, requester); err != nil {
			return err
		}
		n, err := s.deps.Phones.DeleteByAddress(dbc, id)
		if err != nil {
			return err
		}
		removedPhones = n
		deleted, err := s.deps.Addresses.DeleteByID(dbc, id)
		if err != nil {
			return err
		}
		if deleted == 0 {
			return NotFoundError("address not found")
		}
		return nil
	})
	if err != nil {
		return err
	}
	s.deps.Base.Log.Debug("address deleted", "address_id", id, "phones_removed", removedPhones)
	return nil
}
