package services

import (
	"github.com/google/uuid"
	types "github.com/yungbote/contactbook-backend/internal/domain"
	domainagg "github.com/yungbote/contactbook-backend/internal/domain/aggregates"
	"github.com/yungbote/contactbook-backend/internal/platform/ctxutil"
	"github.com/yungbote/contactbook-backend/internal/platform/dbctx"
	"github.com/yungbote/contactbook-backend/internal/platform/logger"
)

// ContactService is the entry point the HTTP layer and tools call. The
// current user is always read from dbc.Ctx; callers never pass an owner.
type ContactService interface {
	ListAddresses(dbc dbctx.Context) ([]*types.Address, error)
	GetAddress(dbc dbctx.Context, id uuid.UUID) (*types.Address, error)
	CreateAddress(dbc dbctx.Context, first, last string) (*types.Address, error)
	EditAddress(dbc dbctx.Context, id uuid.UUID, first, last string) (*types.Address, error)
	DeleteAddress(dbc dbctx.Context, id uuid.UUID) error

	ListPhones(dbc dbctx.Context, addressID uuid.UUID) ([]*types.Phone, error)
	GetPhone(dbc dbctx.Context, id uuid.UUID) (*types.Phone, error)
	AddPhone(dbc dbctx.Context, addressID uuid.UUID, number, kind string) (*types.Phone, error)
	EditPhone(dbc dbctx.Context, id uuid.UUID, number, kind string) (*types.Phone, error)
	DeletePhone(dbc dbctx.Context, id uuid.UUID) error

	// RecomputeSummaries rewrites phone_summary on every address of the
	// current user and returns the refreshed list.
	RecomputeSummaries(dbc dbctx.Context) ([]*types.Address, error)
}

type contactService struct {
	log       *logger.Logger
	addresses domainagg.AddressStore
	phones    domainagg.PhoneStore
	summary   domainagg.PhoneSummarizer
}

func NewContactService(log *logger.Logger, addresses domainagg.AddressStore, phones domainagg.PhoneStore, summary domainagg.PhoneSummarizer) ContactService {
	return &contactService{
		log:       log.With("service", "ContactService"),
		addresses: addresses,
		phones:    phones,
		summary:   summary,
	}
}

func (s *contactService) currentUser(dbc dbctx.Context, op string) (string, error) {
	userID, ok := ctxutil.CurrentUserID(dbc.Context())
	if !ok {
		return "", s.fail(op, domainagg.NewError(domainagg.CodeUnauthenticated, op, "no current user", nil))
	}
	return userID, nil
}

func (s *contactService) fail(op string, err error) error {
	s.log.Warn("contact operation failed", "op", op, "code", string(domainagg.CodeOf(err)), "error", err)
	return err
}

func (s *contactService) ListAddresses(dbc dbctx.Context) ([]*types.Address, error) {
	const op = "ContactService.ListAddresses"
	userID, err := s.currentUser(dbc, op)
	if err != nil {
		return nil, err
	}
	rows, err := s.addresses.ListByOwner(dbc, userID)
	if err != nil {
		return nil, s.fail(op, err)
	}
	return rows, nil
}

func (s *contactService) GetAddress(dbc dbctx.Context, id uuid.UUID) (*types.Address, error) {
	const op = "ContactService.GetAddress"
	userID, err := s.currentUser(dbc, op)
	if err != nil {
		return nil, err
	}
	row, err := s.addresses.Authorize(dbc, id, userID)
	if err != nil {
		return nil, s.fail(op, err)
	}
	return row, nil
}

func (s *contactService) CreateAddress(dbc dbctx.Context, first, last string) (*types.Address, error) {
	const op = "ContactService.CreateAddress"
	userID, err := s.currentUser(dbc, op)
	if err != nil {
		return nil, err
	}
	row, err := s.addresses.Create(dbc, userID, first, last)
	if err != nil {
		return nil, s.fail(op, err)
	}
	return row, nil
}

func (s *contactService) EditAddress(dbc dbctx.Context, id uuid.UUID, first, last string) (*types.Address, error) {
	const op = "ContactService.EditAddress"
	userID, err := s.currentUser(dbc, op)
	if err != nil {
		return nil, err
	}
	row, err := s.addresses.Update(dbc, id, userID, first, last)
	if err != nil {
		return nil, s.fail(op, err)
	}
	return row, nil
}

func (s *contactService) DeleteAddress(dbc dbctx.Context, id uuid.UUID) error {
	const op = "ContactService.DeleteAddress"
	userID, err := s.currentUser(dbc, op)
	if err != nil {
		return err
	}
	if err := s.addresses.Delete(dbc, id, userID); err != nil {
		return s.fail(op, err)
	}
	return nil
}

func (s *contactService) ListPhones(dbc dbctx.Context, addressID uuid.UUID) ([]*types.Phone, error) {
	const op = "ContactService.ListPhones"
	userID, err := s.currentUser(dbc, op)
	if err != nil {
		return nil, err
	}
	if _, err := s.addresses.Authorize(dbc, addressID, userID); err != nil {
		return nil, s.fail(op, err)
	}
	rows, err := s.phones.ListByAddress(dbc, addressID)
	if err != nil {
		return nil, s.fail(op, err)
	}
	return rows, nil
}

func (s *contactService) GetPhone(dbc dbctx.Context, id uuid.UUID) (*types.Phone, error) {
	const op = "ContactService.GetPhone"
	userID, err := s.currentUser(dbc, op)
	if err != nil {
		return nil, err
	}
	row, err := s.phones.Get(dbc, id)
	if err != nil {
		return nil, s.fail(op, err)
	}
	if _, err := s.addresses.Authorize(dbc, row.AddressID, userID); err != nil {
		return nil, s.fail(op, err)
	}
	return row, nil
}

func (s *contactService) AddPhone(dbc dbctx.Context, addressID uuid.UUID, number, kind string) (*types.Phone, error) {
	const op = "ContactService.AddPhone"
	userID, err := s.currentUser(dbc, op)
	if err != nil {
		return nil, err
	}
	row, err := s.phones.Create(dbc, addressID, userID, number, kind)
	if err != nil {
		return nil, s.fail(op, err)
	}
	return row, nil
}

func (s *contactService) EditPhone(dbc dbctx.Context, id uuid.UUID, number, kind string) (*types.Phone, error) {
	const op = "ContactService.EditPhone"
	userID, err := s.currentUser(dbc, op)
	if err != nil {
		return nil, err
	}
	row, err := s.phones.Update(dbc, id, userID, number, kind)
	if err != nil {
		return nil, s.fail(op, err)
	}
	return row, nil
}

func (s *contactService) DeletePhone(dbc dbctx.Context, id uuid.UUID) error {
	const op = "ContactService.DeletePhone"
	userID, err := s.currentUser(dbc, op)
	if err != nil {
		return err
	}
	if err := s.phones.Delete(dbc, id, userID); err != nil {
		return s.fail(op, err)
	}
	return nil
}

func (s *contactService) RecomputeSummaries(dbc dbctx.Context) ([]*types.Address, error) {
	const op = "ContactService.RecomputeSummaries"
	userID, err := s.currentUser(dbc, op)
	if err != nil {
		return nil, err
	}
	rows, err := s.addresses.ListByOwner(dbc, userID)
	if err != nil {
		return nil, s.fail(op, err)
	}
	for _, a := range rows {
		summary, err := s.summary.RecomputeSummary(dbc, a.ID)
		if err != nil {
			return nil, s.fail(op, err)
		}
		a.PhoneSummary = summary
	}
	return rows, nil
}
