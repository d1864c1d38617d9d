package contacts

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/yungbote/contactbook-backend/internal/domain"
	"github.com/yungbote/contactbook-backend/internal/platform/dbctx"
	"github.com/yungbote/contactbook-backend/internal/platform/logger"
)

type AddressRepo interface {
	Create(dbc dbctx.Context, row *types.Address) (*types.Address, error)
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Address, error)
	GetByIDs(dbc dbctx.Context, ids []uuid.UUID) ([]*types.Address, error)
	LockByID(dbc dbctx.Context, id uuid.UUID) (*types.Address, error)
	ListByOwner(dbc dbctx.Context, ownerID string) ([]*types.Address, error)
	ListAll(dbc dbctx.Context, limit int) ([]*types.Address, error)
	UpdateName(dbc dbctx.Context, id uuid.UUID, first, last string) error
	SetSummary(dbc dbctx.Context, id uuid.UUID, summary string) error
	DeleteByID(dbc dbctx.Context, id uuid.UUID) (int64, error)
}

type addressRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewAddressRepo(db *gorm.DB, baseLog *logger.Logger) AddressRepo {
	return &addressRepo{db: db, log: baseLog.With("repo", "AddressRepo")}
}

func (r *addressRepo) Create(dbc dbctx.Context, row *types.Address) (*types.Address, error) {
	if row == nil {
		return nil, fmt.Errorf("missing address")
	}
	if strings.TrimSpace(row.OwnerID) == "" {
		return nil, fmt.Errorf("missing owner_id")
	}
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	now := time.Now().UTC()
	if row.ID == uuid.Nil {
		row.ID = uuid.New()
	}
	if row.CreatedAt.IsZero() {
		row.CreatedAt = now
	}
	row.UpdatedAt = now
	if err := txx.WithContext(dbc.Ctx).Create(row).Error; err != nil {
		return nil, err
	}
	return row, nil
}

// GetByID returns gorm.ErrRecordNotFound when id does not resolve.
func (r *addressRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Address, error) {
	if id == uuid.Nil {
		return nil, gorm.ErrRecordNotFound
	}
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	var out types.Address
	if err := txx.WithContext(dbc.Ctx).
		Where("id = ?", id).
		Take(&out).Error; err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *addressRepo) GetByIDs(dbc dbctx.Context, ids []uuid.UUID) ([]*types.Address, error) {
	if len(ids) == 0 {
		return []*types.Address{}, nil
	}
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	var out []*types.Address
	if err := txx.WithContext(dbc.Ctx).
		Model(&types.Address{}).
		Where("id IN ?", ids).
		Order("created_at ASC, id ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// LockByID selects the row FOR UPDATE. SQLite ignores the locking clause.
func (r *addressRepo) LockByID(dbc dbctx.Context, id uuid.UUID) (*types.Address, error) {
	if id == uuid.Nil {
		return nil, gorm.ErrRecordNotFound
	}
	if dbc.Tx == nil {
		return nil, fmt.Errorf("LockByID requires dbc.Tx")
	}
	var out types.Address
	if err := dbc.Tx.WithContext(dbc.Ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		Take(&out).Error; err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *addressRepo) ListByOwner(dbc dbctx.Context, ownerID string) ([]*types.Address, error) {
	ownerID = strings.TrimSpace(ownerID)
	if ownerID == "" {
		return nil, fmt.Errorf("missing owner_id")
	}
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	var out []*types.Address
	if err := txx.WithContext(dbc.Ctx).
		Model(&types.Address{}).
		Where("owner_id = ?", ownerID).
		Order("created_at ASC, id ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// ListAll pages through every address; limit <= 0 means no limit.
func (r *addressRepo) ListAll(dbc dbctx.Context, limit int) ([]*types.Address, error) {
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	q := txx.WithContext(dbc.Ctx).
		Model(&types.Address{}).
		Order("created_at ASC, id ASC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	var out []*types.Address
	if err := q.Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *addressRepo) UpdateName(dbc dbctx.Context, id uuid.UUID, first, last string) error {
	return r.updateFields(dbc, id, map[string]interface{}{
		"first": first,
		"last":  last,
	})
}

func (r *addressRepo) SetSummary(dbc dbctx.Context, id uuid.UUID, summary string) error {
	return r.updateFields(dbc, id, map[string]interface{}{
		"phone_summary": summary,
	})
}

func (r *addressRepo) updateFields(dbc dbctx.Context, id uuid.UUID, updates map[string]interface{}) error {
	if id == uuid.Nil {
		return fmt.Errorf("missing id")
	}
	updates["updated_at"] = time.Now().UTC()
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	res := txx.WithContext(dbc.Ctx).
		Model(&types.Address{}).
		Where("id = ?", id).
		Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *addressRepo) DeleteByID(dbc dbctx.Context, id uuid.UUID) (int64, error) {
	if id == uuid.Nil {
		return 0, fmt.Errorf("missing id")
	}
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	res := txx.WithContext(dbc.Ctx).
		Where("id = ?", id).
		Delete(&types.Address{})
	return res.RowsAffected, res.Error
}
