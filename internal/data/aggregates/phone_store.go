package aggregates

import (
	"strings"

	"github.com/google/uuid"
	"github.com/yungbote/contactbook-backend/internal/data/repos"
	types "github.com/yungbote/contactbook-backend/internal/domain"
	domainagg "github.com/yungbote/contactbook-backend/internal/domain/aggregates"
	"github.com/yungbote/contactbook-backend/internal/platform/dbctx"
)

type PhoneStoreDeps struct {
	Base BaseDeps

	Addresses repos.AddressRepo
	Phones    repos.PhoneRepo
	Summary   domainagg.PhoneSummarizer
}

type phoneStore struct {
	deps PhoneStoreDeps
}

// NewPhoneStore builds the phone write boundary. When Summary is nil an
// aggregator over the same repos and base deps is used.
func NewPhoneStore(deps PhoneStoreDeps) domainagg.PhoneStore {
	deps.Base = deps.Base.withDefaults()
	if deps.Summary == nil {
		deps.Summary = NewPhoneSummaryAggregator(PhoneSummaryDeps{
			Base:      deps.Base,
			Addresses: deps.Addresses,
			Phones:    deps.Phones,
		})
	}
	return &phoneStore{deps: deps}
}

func (s *phoneStore) Contract() domainagg.Contract {
	return domainagg.PhoneStoreContract
}

func (s *phoneStore) configured(op string) error {
	if s.deps.Addresses == nil || s.deps.Phones == nil {
		return domainagg.NewError(domainagg.CodeInternal, op, "phone store repos not configured", nil)
	}
	return nil
}

func (s *phoneStore) ListByAddress(dbc dbctx.Context, addressID uuid.UUID) ([]*types.Phone, error) {
	const op = "Contacts.PhoneStore.ListByAddress"
	if err := s.configured(op); err != nil {
		return nil, err
	}
	if addressID == uuid.Nil {
		return nil, MapError(op, NotFoundError("address not found"))
	}
	rows, err := s.deps.Phones.ListByAddress(dbc, addressID)
	if err != nil {
		return nil, MapError(op, err)
	}
	return rows, nil
}

func (s *phoneStore) Get(dbc dbctx.Context, id uuid.UUID) (*types.Phone, error) {
	const op = "Contacts.PhoneStore.Get"
	if err := s.configured(op); err != nil {
		return nil, err
	}
	row, err := s.deps.Phones.GetByID(dbc, id)
	if err != nil {
		return nil, MapError(op, notFoundOr(err, "phone not found"))
	}
	return row, nil
}

func (s *phoneStore) Create(dbc dbctx.Context, addressID uuid.UUID, requester, number, kind string) (*types.Phone, error) {
	const op = "Contacts.PhoneStore.Create"
	if err := s.configured(op); err != nil {
		return nil, err
	}

	var out *types.Phone
	err := executeAddressWrite(dbc, s.deps.Base, op, addressID, func(dbc dbctx.Context) error {
		if _, err := authorizeAddress(dbc, s.deps.Addresses, addressID, requester); err != nil {
			return err
		}
		if err := requireFields([]string{"phone_number", "kind"}, &number, &kind); err != nil {
			return err
		}
		seq, err := s.deps.Phones.NextSeq(dbc, addressID)
		if err != nil {
			return err
		}
		row, err := s.deps.Phones.Create(dbc, &types.Phone{
			AddressID:   addressID,
			Seq:         seq,
			PhoneNumber: number,
			Kind:        kind,
		})
		if err != nil {
			return err
		}
		if _, err := s.deps.Summary.RecomputeSummary(dbc, addressID); err != nil {
			return err
		}
		out = row
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *phoneStore) Update(dbc dbctx.Context, id uuid.UUID, requester, number, kind string) (*types.Phone, error) {
	const op = "Contacts.PhoneStore.Update"
	if err := s.configured(op); err != nil {
		return nil, err
	}
	addressID, err := s.resolveParent(dbc, op, id, requester)
	if err != nil {
		return nil, err
	}

	var out *types.Phone
	err = executeAddressWrite(dbc, s.deps.Base, op, addressID, func(dbc dbctx.Context) error {
		if _, err := s.lockedPhone(dbc, id, requester); err != nil {
			return err
		}
		if err := requireFields([]string{"phone_number", "kind"}, &number, &kind); err != nil {
			return err
		}
		if err := s.deps.Phones.UpdateFields(dbc, id, map[string]interface{}{
			"phone_number": number,
			"kind":         kind,
		}); err != nil {
			return notFoundOr(err, "phone not found")
		}
		if _, err := s.deps.Summary.RecomputeSummary(dbc, addressID); err != nil {
			return err
		}
		row, err := s.deps.Phones.GetByID(dbc, id)
		if err != nil {
			return notFoundOr(err, "phone not found")
		}
		out = row
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *phoneStore) Delete(dbc dbctx.Context, id uuid.UUID, requester string) error {
	const op = "Contacts.PhoneStore.Delete"
	if err := s.configured(op); err != nil {
		return err
	}
	addressID, err := s.resolveParent(dbc, op, id, requester)
	if err != nil {
		return err
	}

	return executeAddressWrite(dbc, s.deps.Base, op, addressID, func(dbc dbctx.Context) error {
		if _, err := s.lockedPhone(dbc, id, requester); err != nil {
			return err
		}
		n, err := s.deps.Phones.DeleteByID(dbc, id)
		if err != nil {
			return err
		}
		if n == 0 {
			return NotFoundError("phone not found")
		}
		_, err = s.deps.Summary.RecomputeSummary(dbc, addressID)
		return err
	})
}

// resolveParent finds the address a phone hangs off so its lock can be taken
// before the transaction opens. address_id never changes, so the answer stays
// valid; the phone itself is re-read under the lock.
func (s *phoneStore) resolveParent(dbc dbctx.Context, op string, id uuid.UUID, requester string) (uuid.UUID, error) {
	if strings.TrimSpace(requester) == "" {
		return uuid.Nil, MapError(op, UnauthenticatedError("no current user"))
	}
	row, err := s.deps.Phones.GetByID(dbc, id)
	if err != nil {
		return uuid.Nil, MapError(op, notFoundOr(err, "phone not found"))
	}
	return row.AddressID, nil
}

func (s *phoneStore) lockedPhone(dbc dbctx.Context, id uuid.UUID, requester string) (*types.Phone, error) {
	row, err := s.deps.Phones.GetByID(dbc, id)
	if err != nil {
		return nil, notFoundOr(err, "phone not found")
	}
	if _, err := authorizeAddress(dbc, s.deps.Addresses, row.AddressID, requester); err != nil {
		return nil, err
	}
	return row, nil
}
