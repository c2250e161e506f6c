// Package nonces is the authorization nonce ledger. Every account has a
// high-water mark, consuming a nonce above it moves the mark to that nonce.
package nonces

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/keyward/keyward/common/types"
	"github.com/keyward/keyward/core"
	"github.com/keyward/keyward/ownership"
	"github.com/keyward/keyward/sql"
	sqlnonces "github.com/keyward/keyward/sql/nonces"
)

// Next returns the nonce the account must consume next: last consumed + 1.
func Next(db sql.Executor, account types.Address) (uint64, error) {
	last, err := sqlnonces.LastAuthorization(db, account)
	if err != nil {
		return 0, core.Internal(err)
	}
	return last + 1, nil
}

// Consume records nonce as used by the caller. Any nonce above the last consumed
// one is accepted, nonces below it can't be consumed anymore.
func Consume(ctx *core.Context, nonce uint64) error {
	if err := ownership.RequireNotPaused(ctx); err != nil {
		return err
	}
	return consume(ctx, ctx.Caller(), nonce, types.Hash32{})
}

// ConsumeFor records nonce for the account as part of an authorization check.
// The caller must have validated everything else already.
func ConsumeFor(ctx *core.Context, account types.Address, nonce uint64, digest types.Hash32) error {
	return consume(ctx, account, nonce, digest)
}

func consume(ctx *core.Context, account types.Address, nonce uint64, digest types.Hash32) error {
	last, err := sqlnonces.LastAuthorization(ctx.Executor, account)
	if err != nil {
		return core.Internal(err)
	}
	if nonce <= last {
		return fmt.Errorf("%w: %d for %s, last %d", core.ErrNonceAlreadyUsed, nonce, account, last)
	}
	if err := sqlnonces.SetLastAuthorization(ctx.Executor, account, nonce); err != nil {
		return core.Internal(err)
	}
	ctx.Emit(types.Event{
		Kind:    types.EventNonceUsed,
		Account: account,
		Nonce:   nonce,
		Hash:    digest,
	})
	ctx.Logger.Debug("nonce used",
		zap.Stringer("account", account),
		zap.Uint64("nonce", nonce),
	)
	return nil
}
