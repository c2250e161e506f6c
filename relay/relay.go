// Package relay executes intents signed off-path and submitted by a relayer.
// Execution nonces live in their own namespace, separate from authorization nonces.
package relay

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/keyward/keyward/common/types"
	"github.com/keyward/keyward/core"
	"github.com/keyward/keyward/ownership"
	"github.com/keyward/keyward/sql"
	"github.com/keyward/keyward/sql/nonces"
)

// MaxDataSize bounds the payload of an intent.
const MaxDataSize = 64 << 10

// Nonce returns the nonce the next intent of the account must carry.
func Nonce(db sql.Executor, account types.Address) (uint64, error) {
	next, err := nonces.NextExecution(db, account)
	if err != nil {
		return 0, core.Internal(err)
	}
	return next, nil
}

// ExecuteIntent verifies the intent and performs the delegated call on behalf of intent.From.
// The relayer is the caller and attaches intent.Value.
func ExecuteIntent(ctx *core.Context, intent *types.Intent) error {
	if err := ownership.RequireNotPaused(ctx); err != nil {
		return err
	}
	if intent.To.IsEmpty() {
		return fmt.Errorf("%w: intent target", core.ErrZeroAddress)
	}
	if len(intent.Data) > MaxDataSize {
		return fmt.Errorf("%w: data size %d", core.ErrRequestTooLarge, len(intent.Data))
	}
	if ctx.Timestamp() > intent.Deadline {
		return fmt.Errorf("%w: deadline %d, now %d", core.ErrDeadlineExpired, intent.Deadline, ctx.Timestamp())
	}
	current, err := Nonce(ctx.Executor, intent.From)
	if err != nil {
		return err
	}
	if intent.Nonce != current {
		return fmt.Errorf("%w: got %d, current %d", core.ErrInvalidNonce, intent.Nonce, current)
	}
	signer, err := Recover(ctx.Domain, intent)
	if err != nil {
		return fmt.Errorf("%w: %v", core.ErrInvalidSignature, err)
	}
	if signer != intent.From {
		return fmt.Errorf("%w: recovered %s, expected %s", core.ErrInvalidSignature, signer, intent.From)
	}
	if ctx.Call.Value != intent.Value {
		return fmt.Errorf("%w: attached %d, signed %d", core.ErrValueMismatch, ctx.Call.Value, intent.Value)
	}

	if err := nonces.SetNextExecution(ctx.Executor, intent.From, current+1); err != nil {
		return core.Internal(err)
	}
	if err := ctx.Transfer(ctx.Caller(), intent.To, intent.Value); err != nil {
		return err
	}
	if callee, exist := ctx.Callee(intent.To); exist {
		if err := callee.Call(ctx, intent.From, intent.Value, intent.Data); err != nil {
			return fmt.Errorf("%w: %s: %v", core.ErrCallFailed, intent.To, err)
		}
	}
	ctx.Emit(types.Event{
		Kind:         types.EventIntentExecuted,
		Account:      intent.From,
		Counterparty: intent.To,
		Nonce:        intent.Nonce,
		Value:        intent.Value,
		Hash:         Digest(ctx.Domain, intent),
	})
	ctx.Logger.Debug("intent executed",
		zap.Object("intent", intent),
		zap.Stringer("relayer", ctx.Caller()),
	)
	return nil
}
