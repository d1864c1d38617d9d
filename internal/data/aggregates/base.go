package aggregates

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	domainagg "github.com/yungbote/contactbook-backend/internal/domain/aggregates"
	"github.com/yungbote/contactbook-backend/internal/platform/dbctx"
	"github.com/yungbote/contactbook-backend/internal/platform/keylock"
	"github.com/yungbote/contactbook-backend/internal/platform/logger"
	"gorm.io/gorm"
)

// Locker serializes work on a key across the lifetime of a write transaction.
// keylock.KeyLock and the redis Locker both satisfy it.
type Locker interface {
	Lock(ctx context.Context, key string) (func(), error)
}

// Aggregates built without an explicit Locker share this one so that address
// and phone writes in the same process still serialize on each other.
var defaultLocker Locker = keylock.New()

type BaseDeps struct {
	DB     *gorm.DB
	Log    *logger.Logger
	Runner TxRunner
	Hooks  Hooks
	Locker Locker
}

func (d BaseDeps) withDefaults() BaseDeps {
	if d.Runner == nil {
		d.Runner = NewGormTxRunner(d.DB)
	}
	if d.Hooks == nil {
		d.Hooks = noopHooks{}
	}
	if d.Locker == nil {
		d.Locker = defaultLocker
	}
	if d.Log == nil {
		d.Log = logger.Nop()
	}
	return d
}

// AddressLockKey is the Locker key guarding one address and its phones.
func AddressLockKey(id uuid.UUID) string {
	return "address:" + id.String()
}

// executeWrite runs fn in a transaction. A caller-supplied dbc.Tx is joined
// instead of opening a new one.
func executeWrite(dbc dbctx.Context, deps BaseDeps, op string, fn func(dbc dbctx.Context) error) error {
	start := time.Now()
	deps = deps.withDefaults()
	op = normalizeOp(op)

	var err error
	if dbc.Tx != nil {
		err = fn(dbc)
	} else {
		err = deps.Runner.InTx(dbc.Context(), fn)
	}
	return finishWrite(deps, op, start, err)
}

// executeAddressWrite holds the address lock around executeWrite. When the
// caller already owns a transaction the row lock taken inside fn is relied on.
func executeAddressWrite(dbc dbctx.Context, deps BaseDeps, op string, addressID uuid.UUID, fn func(dbc dbctx.Context) error) error {
	deps = deps.withDefaults()
	op = normalizeOp(op)
	if dbc.Tx != nil || addressID == uuid.Nil {
		return executeWrite(dbc, deps, op, fn)
	}

	start := time.Now()
	unlock, err := deps.Locker.Lock(dbc.Context(), AddressLockKey(addressID))
	deps.Hooks.ObserveLockWait(op, time.Since(start))
	if err != nil {
		return finishWrite(deps, op, start, err)
	}
	defer unlock()
	return executeWrite(dbc, deps, op, fn)
}

func finishWrite(deps BaseDeps, op string, start time.Time, err error) error {
	mapped := MapError(op, err)

	status := "success"
	if mapped != nil {
		status = aggregateErrorStatus(mapped)
		if domainagg.IsCode(mapped, domainagg.CodeConflict) {
			deps.Hooks.IncConflict(op)
		}
		if domainagg.IsCode(mapped, domainagg.CodeRetryable) {
			deps.Hooks.IncRetry(op)
		}
	}
	deps.Hooks.ObserveOperation(op, status, time.Since(start))
	return mapped
}

func normalizeOp(op string) string {
	op = strings.TrimSpace(op)
	if op == "" {
		return "aggregate.write"
	}
	return op
}

func aggregateErrorStatus(err error) string {
	if err == nil {
		return "success"
	}
	code := strings.TrimSpace(string(domainagg.CodeOf(err)))
	if code == "" {
		code = strings.TrimSpace(string(domainagg.CodeOf(MapError("aggregate.status", err))))
	}
	if code == "" {
		return "failure"
	}
	return code
}
