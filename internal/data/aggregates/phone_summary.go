package aggregates

import (
	"github.com/google/uuid"
	"github.com/yungbote/contactbook-backend/internal/data/repos"
	"github.com/yungbote/contactbook-backend/internal/domain/contacts"
	domainagg "github.com/yungbote/contactbook-backend/internal/domain/aggregates"
	"github.com/yungbote/contactbook-backend/internal/platform/dbctx"
)

type PhoneSummaryDeps struct {
	Base BaseDeps

	Addresses repos.AddressRepo
	Phones    repos.PhoneRepo
}

// phoneSummaryAggregator is the only writer of address.phone_summary.
type phoneSummaryAggregator struct {
	deps PhoneSummaryDeps
}

func NewPhoneSummaryAggregator(deps PhoneSummaryDeps) domainagg.PhoneSummarizer {
	deps.Base = deps.Base.withDefaults()
	return &phoneSummaryAggregator{deps: deps}
}

func (a *phoneSummaryAggregator) Contract() domainagg.Contract {
	return domainagg.PhoneSummaryContract
}

func (a *phoneSummaryAggregator) RecomputeSummary(dbc dbctx.Context, addressID uuid.UUID) (string, error) {
	const op = "Contacts.PhoneSummary.Recompute"
	if a.deps.Addresses == nil || a.deps.Phones == nil {
		return "", domainagg.NewError(domainagg.CodeInternal, op, "phone summary repos not configured", nil)
	}
	if addressID == uuid.Nil {
		return "", domainagg.NewError(domainagg.CodeNotFound, op, "address not found", nil)
	}

	var summary string
	err := executeAddressWrite(dbc, a.deps.Base, op, addressID, func(dbc dbctx.Context) error {
		if _, err := a.deps.Addresses.LockByID(dbc, addressID); err != nil {
			return notFoundOr(err, "address not found")
		}
		s, err := a.compute(dbc, addressID)
		if err != nil {
			return err
		}
		if err := a.deps.Addresses.SetSummary(dbc, addressID, s); err != nil {
			return notFoundOr(err, "address not found")
		}
		summary = s
		return nil
	})
	if err != nil {
		return "", err
	}
	return summary, nil
}

func (a *phoneSummaryAggregator) ComputeSummary(dbc dbctx.Context, addressID uuid.UUID) (string, error) {
	const op = "Contacts.PhoneSummary.Compute"
	if a.deps.Addresses == nil || a.deps.Phones == nil {
		return "", domainagg.NewError(domainagg.CodeInternal, op, "phone summary repos not configured", nil)
	}
	if _, err := a.deps.Addresses.GetByID(dbc, addressID); err != nil {
		return "", MapError(op, notFoundOr(err, "address not found"))
	}
	s, err := a.compute(dbc, addressID)
	if err != nil {
		return "", MapError(op, err)
	}
	return s, nil
}

func (a *phoneSummaryAggregator) compute(dbc dbctx.Context, addressID uuid.UUID) (string, error) {
	phones, err := a.deps.Phones.ListByAddress(dbc, addressID)
	if err != nil {
		return "", err
	}
	return contacts.FormatPhoneSummary(phones), nil
}
