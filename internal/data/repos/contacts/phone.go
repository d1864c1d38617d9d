package contacts

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/contactbook-backend/internal/domain"
	"github.com/yungbote/contactbook-backend/internal/platform/dbctx"
	"github.com/yungbote/contactbook-backend/internal/platform/logger"
)

type PhoneRepo interface {
	Create(dbc dbctx.Context, row *types.Phone) (*types.Phone, error)
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Phone, error)
	ListByAddress(dbc dbctx.Context, addressID uuid.UUID) ([]*types.Phone, error)
	NextSeq(dbc dbctx.Context, addressID uuid.UUID) (int64, error)
	UpdateFields(dbc dbctx.Context, id uuid.UUID, updates map[string]interface{}) error
	DeleteByID(dbc dbctx.Context, id uuid.UUID) (int64, error)
	DeleteByAddress(dbc dbctx.Context, addressID uuid.UUID) (int64, error)
}

type phoneRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPhoneRepo(db *gorm.DB, baseLog *logger.Logger) PhoneRepo {
	return &phoneRepo{db: db, log: baseLog.With("repo", "PhoneRepo")}
}

func (r *phoneRepo) Create(dbc dbctx.Context, row *types.Phone) (*types.Phone, error) {
	if row == nil {
		return nil, fmt.Errorf("missing phone")
	}
	if row.AddressID == uuid.Nil {
		return nil, fmt.Errorf("missing address_id")
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
func (r *phoneRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Phone, error) {
	if id == uuid.Nil {
		return nil, gorm.ErrRecordNotFound
	}
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	var out types.Phone
	if err := txx.WithContext(dbc.Ctx).
		Where("id = ?", id).
		Take(&out).Error; err != nil {
		return nil, err
	}
	return &out, nil
}

// ListByAddress returns phones in insertion order.
func (r *phoneRepo) ListByAddress(dbc dbctx.Context, addressID uuid.UUID) ([]*types.Phone, error) {
	if addressID == uuid.Nil {
		return nil, fmt.Errorf("missing address_id")
	}
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	var out []*types.Phone
	if err := txx.WithContext(dbc.Ctx).
		Model(&types.Phone{}).
		Where("address_id = ?", addressID).
		Order("seq ASC, id ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// NextSeq must run while the parent address is locked.
func (r *phoneRepo) NextSeq(dbc dbctx.Context, addressID uuid.UUID) (int64, error) {
	if addressID == uuid.Nil {
		return 0, fmt.Errorf("missing address_id")
	}
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	var maxSeq sql.NullInt64
	if err := txx.WithContext(dbc.Ctx).
		Model(&types.Phone{}).
		Where("address_id = ?", addressID).
		Select("MAX(seq)").
		Row().
		Scan(&maxSeq); err != nil {
		return 0, err
	}
	if !maxSeq.Valid {
		return 1, nil
	}
	return maxSeq.Int64 + 1, nil
}

func (r *phoneRepo) UpdateFields(dbc dbctx.Context, id uuid.UUID, updates map[string]interface{}) error {
	if id == uuid.Nil {
		return fmt.Errorf("missing id")
	}
	if updates == nil {
		updates = map[string]interface{}{}
	}
	updates["updated_at"] = time.Now().UTC()
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	res := txx.WithContext(dbc.Ctx).
		Model(&types.Phone{}).
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

func (r *phoneRepo) DeleteByID(dbc dbctx.Context, id uuid.UUID) (int64, error) {
	if id == uuid.Nil {
		return 0, fmt.Errorf("missing id")
	}
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	res := txx.WithContext(dbc.Ctx).
		Where("id = ?", id).
		Delete(&types.Phone{})
	return res.RowsAffected, res.Error
}

func (r *phoneRepo) DeleteByAddress(dbc dbctx.Context, addressID uuid.UUID) (int64, error) {
	if addressID == uuid.Nil {
		return 0, fmt.Errorf("missing address_id")
	}
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	res := txx.WithContext(dbc.Ctx).
		Where("address_id = ?", addressID).
		Delete(&types.Phone{})
	return res.RowsAffected, res.Error
}
