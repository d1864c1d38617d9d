package testutil

import (
	"context"
	"errors"
	"sync"

	"github.com/yungbote/contactbook-backend/internal/data/aggregates"
	"github.com/yungbote/contactbook-backend/internal/platform/dbctx"
	"gorm.io/gorm"
)

// InjectedTxRunner is an aggregates.TxRunner with failure injection. With DB
// set, fn runs inside a real transaction that FailCommit rolls back; without
// it fn runs against no transaction at all.
type InjectedTxRunner struct {
	mu sync.Mutex

	DB *gorm.DB

	FailBegin  error
	FailCommit error

	BeginCalls    int
	CommitCalls   int
	RollbackCalls int
}

var _ aggregates.TxRunner = (*InjectedTxRunner)(nil)

func (r *InjectedTxRunner) InTx(ctx context.Context, fn func(dbc dbctx.Context) error) error {
	r.mu.Lock()
	r.BeginCalls++
	failBegin := r.FailBegin
	failCommit := r.FailCommit
	r.mu.Unlock()

	if failBegin != nil {
		return failBegin
	}
	if fn == nil {
		r.count(&r.CommitCalls)
		return nil
	}

	var err error
	if r.DB != nil {
		errInjected := errors.New("injected commit failure")
		err = r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			if err := fn(dbctx.Context{Ctx: ctx, Tx: tx}); err != nil {
				return err
			}
			if failCommit != nil {
				return errInjected
			}
			return nil
		})
		if errors.Is(err, errInjected) {
			err = failCommit
		}
	} else {
		err = fn(dbctx.Context{Ctx: ctx})
		if err == nil && failCommit != nil {
			err = failCommit
		}
	}

	if err != nil {
		r.count(&r.RollbackCalls)
		return err
	}
	r.count(&r.CommitCalls)
	return nil
}

func (r *InjectedTxRunner) count(n *int) {
	r.mu.Lock()
	*n++
	r.mu.Unlock()
}
