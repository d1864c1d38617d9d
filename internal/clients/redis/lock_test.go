package redis

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/contactbook-backend/internal/platform/logger"
)

func testLocker(t *testing.T) *Locker {
	t.Helper()
	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("set TEST_REDIS_ADDR to run redis lock integration tests")
	}
	l, err := NewLocker(logger.Nop(), addr, 2*time.Second)
	if err != nil {
		t.Fatalf("NewLocker: %v", err)
	}
	t.Cleanup(func() { _ = l.Close() })
	return l
}

func TestLockerExcludesSecondHolder(t *testing.T) {
	l := testLocker(t)
	key := "test:" + uuid.NewString()

	unlock, err := l.Lock(context.Background(), key)
	if err != nil {
		t.Fatalf("Lock: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	if _, err := l.Lock(ctx, key); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected second acquire to time out, got=%v", err)
	}

	unlock()
	unlock2, err := l.Lock(context.Background(), key)
	if err != nil {
		t.Fatalf("Lock after release: %v", err)
	}
	unlock2()
}

func TestNewLockerRequiresAddr(t *testing.T) {
	if _, err := NewLocker(logger.Nop(), " ", time.Second); err == nil {
		t.Fatalf("expected error for empty addr")
	}
}
