package testutil

import (
	"context"
	"sync"

	"github.com/yungbote/intervention-backend/internal/data/aggregates"
	"github.com/yungbote/intervention-backend/internal/platform/dbctx"
)

// InjectedTxRunner counts transactions and injects failures around the
// case aggregate's writes. With Inner set the body runs in Inner's real
// transaction and an injected commit failure rolls it back; without Inner
// no database is touched.
type InjectedTxRunner struct {
	mu sync.Mutex

	Inner aggregates.TxRunner

	FailBegin  error
	FailCommit error

	// FailCommitTimes limits FailCommit to the first N transactions; 0 fails all.
	FailCommitTimes int
	injected        int

	BeginCalls    int
	CommitCalls   int
	RollbackCalls int
}

var _ aggregates.TxRunner = (*InjectedTxRunner)(nil)

func (r *InjectedTxRunner) InTx(ctx context.Context, fn func(dbc dbctx.Context) error) error {
	r.mu.Lock()
	r.BeginCalls++
	failBegin := r.FailBegin
	failCommit := r.commitFailureLocked()
	r.mu.Unlock()

	if failBegin != nil {
		return failBegin
	}
	body := func(dbc dbctx.Context) error {
		if fn != nil {
			if err := fn(dbc); err != nil {
				return err
			}
		}
		return failCommit
	}

	var err error
	if r.Inner != nil {
		err = r.Inner.InTx(ctx, body)
	} else {
		err = body(dbctx.Context{Ctx: ctx})
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if err != nil {
		r.RollbackCalls++
		return err
	}
	r.CommitCalls++
	return nil
}

func (r *InjectedTxRunner) commitFailureLocked() error {
	if r.FailCommit == nil {
		return nil
	}
	if r.FailCommitTimes > 0 && r.injected >= r.FailCommitTimes {
		return nil
	}
	r.injected++
	return r.FailCommit
}
