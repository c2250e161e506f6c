// Package ownership implements the privileged substrate shared by every entry point:
// two-step ownership transfer, the circuit breaker and deployment configuration.
//
// All functions mutate ctx.State in place. Persisting it is up to the caller.
package ownership

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/keyward/keyward/common/types"
	"github.com/keyward/keyward/core"
	"github.com/keyward/keyward/sql/deployment"
)

// RequireOwner fails unless the caller is the current owner. Nobody is the owner after renounce.
func RequireOwner(ctx *core.Context) error {
	if ctx.State.Owner.IsEmpty() || ctx.Caller() != ctx.State.Owner {
		return fmt.Errorf("%w: %s is not the owner", core.ErrUnauthorized, ctx.Caller())
	}
	return nil
}

// RequireNotPaused fails while the circuit breaker is engaged.
func RequireNotPaused(ctx *core.Context) error {
	if ctx.State.Paused {
		return core.ErrContractPaused
	}
	return nil
}

// Transfer proposes candidate as the next owner. Privileges do not move until
// the candidate accepts. Zero candidate cancels a pending proposal.
func Transfer(ctx *core.Context, candidate types.Address) error {
	if err := RequireOwner(ctx); err != nil {
		return err
	}
	ctx.State.PendingOwner = candidate
	ctx.Emit(types.Event{
		Kind:         types.EventOwnershipTransferStarted,
		Account:      ctx.State.Owner,
		Counterparty: candidate,
	})
	ctx.Logger.Info("ownership transfer started",
		zap.Stringer("owner", ctx.State.Owner),
		zap.Stringer("candidate", candidate),
	)
	return nil
}

// Accept completes a transfer. Only the pending owner may call it.
func Accept(ctx *core.Context) error {
	if ctx.State.PendingOwner.IsEmpty() || ctx.Caller() != ctx.State.PendingOwner {
		return fmt.Errorf("%w: %s is not the pending owner", core.ErrUnauthorized, ctx.Caller())
	}
	previous := ctx.State.Owner
	ctx.State.Owner = ctx.State.PendingOwner
	ctx.State.PendingOwner = types.Address{}
	ctx.Emit(types.Event{
		Kind:         types.EventOwnershipTransferred,
		Account:      previous,
		Counterparty: ctx.State.Owner,
	})
	ctx.Logger.Info("ownership transferred",
		zap.Stringer("previous", previous),
		zap.Stringer("owner", ctx.State.Owner),
	)
	return nil
}

// Renounce clears the owner. No privileged entry point can succeed afterwards.
func Renounce(ctx *core.Context) error {
	if err := RequireOwner(ctx); err != nil {
		return err
	}
	previous := ctx.State.Owner
	ctx.State.Owner = types.Address{}
	ctx.State.PendingOwner = types.Address{}
	ctx.Emit(types.Event{
		Kind:    types.EventOwnershipTransferred,
		Account: previous,
	})
	ctx.Logger.Info("ownership renounced", zap.Stringer("previous", previous))
	return nil
}

// Pause engages the circuit breaker.
func Pause(ctx *core.Context) error {
	if err := RequireOwner(ctx); err != nil {
		return err
	}
	if err := RequireNotPaused(ctx); err != nil {
		return err
	}
	ctx.State.Paused = true
	ctx.Emit(types.Event{Kind: types.EventPaused, Account: ctx.Caller()})
	ctx.Logger.Info("paused", zap.Stringer("operator", ctx.Caller()))
	return nil
}

// Unpause releases the circuit breaker.
func Unpause(ctx *core.Context) error {
	if err := RequireOwner(ctx); err != nil {
		return err
	}
	if !ctx.State.Paused {
		return core.ErrNotPaused
	}
	ctx.State.Paused = false
	ctx.Emit(types.Event{Kind: types.EventUnpaused, Account: ctx.Caller()})
	ctx.Logger.Info("unpaused", zap.Stringer("operator", ctx.Caller()))
	return nil
}

func requireAdmin(ctx *core.Context) error {
	if err := RequireOwner(ctx); err != nil {
		return err
	}
	return RequireNotPaused(ctx)
}

// SetVerifier points liveness verification to a registered verifier.
func SetVerifier(ctx *core.Context, address types.Address) error {
	if err := requireAdmin(ctx); err != nil {
		return err
	}
	if address.IsEmpty() {
		return core.ErrZeroAddress
	}
	if _, exist := ctx.Verifiers.Get(address); !exist {
		return fmt.Errorf("%w: %s", core.ErrUnknownVerifier, address)
	}
	ctx.State.Verifier = address
	ctx.Emit(types.Event{Kind: types.EventVerifierUpdated, Counterparty: address})
	ctx.Logger.Info("liveness verifier updated", zap.Stringer("verifier", address))
	return nil
}

// SetResponseVerifier selects gateway response verification. Zero address selects pass-through.
func SetResponseVerifier(ctx *core.Context, address types.Address) error {
	if err := requireAdmin(ctx); err != nil {
		return err
	}
	if !address.IsEmpty() {
		if _, exist := ctx.ResponseVerifiers.Get(address); !exist {
			return fmt.Errorf("%w: %s", core.ErrUnknownVerifier, address)
		}
	}
	ctx.State.ResponseVerifier = address
	ctx.Emit(types.Event{Kind: types.EventResponseVerifierUpdated, Counterparty: address})
	ctx.Logger.Info("response verifier updated", zap.Stringer("verifier", address))
	return nil
}

// SetURLs replaces the gateway urls advertised in lookups.
func SetURLs(ctx *core.Context, urls []string) error {
	if err := requireAdmin(ctx); err != nil {
		return err
	}
	if len(urls) == 0 {
		return core.ErrEmptyUrl
	}
	if len(urls) > deployment.MaxURLs {
		return fmt.Errorf("%w: %d > %d", core.ErrTooManyUrls, len(urls), deployment.MaxURLs)
	}
	for i, url := range urls {
		if strings.TrimSpace(url) == "" {
			return fmt.Errorf("%w: at position %d", core.ErrEmptyUrl, i)
		}
	}
	if err := deployment.SetURLs(ctx.Executor, urls); err != nil {
		return core.Internal(err)
	}
	ctx.Emit(types.Event{Kind: types.EventUrlUpdated, Text: strings.Join(urls, " ")})
	ctx.Logger.Info("gateway urls updated", zap.Strings("urls", urls))
	return nil
}
