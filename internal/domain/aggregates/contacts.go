package aggregates

import (
	"github.com/google/uuid"

	types "github.com/yungbote/contactbook-backend/internal/domain"
	"github.com/yungbote/contactbook-backend/internal/platform/dbctx"
)

var AddressStoreContract = Contract{
	Name:             "Contacts.AddressStore",
	WriteTxOwnership: WriteTxOwnedByAggregate,
	ReadPolicy:       ReadPolicyOwnerScoped,
	Notes:            "Owns address ownership checks and the atomic address/phone delete cascade.",
}

var PhoneStoreContract = Contract{
	Name:             "Contacts.PhoneStore",
	WriteTxOwnership: WriteTxOwnedByAggregate,
	ReadPolicy:       ReadPolicyInvariantScoped,
	Notes:            "Owns transitive phone ownership and recomputes the parent summary in the same transaction.",
}

var PhoneSummaryContract = Contract{
	Name:             "Contacts.PhoneSummary",
	WriteTxOwnership: WriteTxJoinsCaller,
	ReadPolicy:       ReadPolicyInvariantScoped,
	Notes:            "Single writer of address.phone_summary.",
}

// AddressStore persists addresses scoped to an owning user.
//
// Failures are *aggregates.Error with codes CodeValidation, CodeNotFound,
// CodeForbidden, CodeConflict, CodeRetryable or CodeInternal. Ownership-checked
// operations report NotFound before Forbidden before Validation.
type AddressStore interface {
	Aggregate

	ListByOwner(dbc dbctx.Context, owner string) ([]*types.Address, error)
	Create(dbc dbctx.Context, owner, first, last string) (*types.Address, error)
	Get(dbc dbctx.Context, id uuid.UUID) (*types.Address, error)
	Update(dbc dbctx.Context, id uuid.UUID, requester, first, last string) (*types.Address, error)
	// Delete removes the address and every phone under it, or nothing.
	Delete(dbc dbctx.Context, id uuid.UUID, requester string) error
	// Authorize resolves id and checks requester owns it.
	Authorize(dbc dbctx.Context, id uuid.UUID, requester string) (*types.Address, error)
}

// PhoneStore persists phones under a parent address. Every mutation checks
// the parent's ownership and recomputes its summary before returning.
type PhoneStore interface {
	Aggregate

	ListByAddress(dbc dbctx.Context, addressID uuid.UUID) ([]*types.Phone, error)
	Create(dbc dbctx.Context, addressID uuid.UUID, requester, number, kind string) (*types.Phone, error)
	Get(dbc dbctx.Context, id uuid.UUID) (*types.Phone, error)
	Update(dbc dbctx.Context, id uuid.UUID, requester, number, kind string) (*types.Phone, error)
	Delete(dbc dbctx.Context, id uuid.UUID, requester string) error
}

// PhoneSummarizer derives address.phone_summary from the address's phones.
type PhoneSummarizer interface {
	Aggregate

	// RecomputeSummary is idempotent. It joins dbc.Tx when set.
	RecomputeSummary(dbc dbctx.Context, addressID uuid.UUID) (string, error)
	// ComputeSummary derives the summary without writing it.
	ComputeSummary(dbc dbctx.Context, addressID uuid.UUID) (string, error)
}
