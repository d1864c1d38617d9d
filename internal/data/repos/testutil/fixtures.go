package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	types "github.com/yungbote/contactbook-backend/internal/domain"
	"gorm.io/gorm"
)

func SeedAddress(tb testing.TB, ctx context.Context, tx *gorm.DB, ownerID, first, last string) *types.Address {
	tb.Helper()
	now := time.Now().UTC()
	a := &types.Address{
		ID:        uuid.New(),
		OwnerID:   ownerID,
		First:     first,
		Last:      last,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := tx.WithContext(ctx).Create(a).Error; err != nil {
		tb.Fatalf("seed address: %v", err)
	}
	return a
}

func SeedPhone(tb testing.TB, ctx context.Context, tx *gorm.DB, addressID uuid.UUID, seq int64, number, kind string) *types.Phone {
	tb.Helper()
	now := time.Now().UTC()
	p := &types.Phone{
		ID:          uuid.New(),
		AddressID:   addressID,
		Seq:         seq,
		PhoneNumber: number,
		Kind:        kind,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := tx.WithContext(ctx).Create(p).Error; err != nil {
		tb.Fatalf("seed phone: %v", err)
	}
	return p
}

func CountPhones(tb testing.TB, ctx context.Context, tx *gorm.DB, addressID uuid.UUID) int64 {
	tb.Helper()
	var n int64
	if err := tx.WithContext(ctx).Model(&types.Phone{}).Where("address_id = ?", addressID).Count(&n).Error; err != nil {
		tb.Fatalf("count phones: %v", err)
	}
	return n
}
