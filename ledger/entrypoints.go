package ledger

import (
	"context"

	"github.com/keyward/keyward/common/types"
	"github.com/keyward/keyward/core"
	"github.com/keyward/keyward/ownership"
)

// Enroll registers commitment for the caller.
func (l *Ledger) Enroll(ctx context.Context, call core.Call, commitment types.Hash32, proof []byte) error {
	return l.apply(ctx, "enroll", call, func(cctx *core.Context, impl core.Implementation) error {
		return impl.Enroll(cctx, commitment, proof)
	})
}

// Revoke removes the caller's enrollment.
func (l *Ledger) Revoke(ctx context.Context, call core.Call) error {
	return l.apply(ctx, "revoke", call, func(cctx *core.Context, impl core.Implementation) error {
		return impl.Revoke(cctx)
	})
}

// Update replaces the caller's commitment.
func (l *Ledger) Update(ctx context.Context, call core.Call, commitment types.Hash32, proof []byte) error {
	return l.apply(ctx, "update", call, func(cctx *core.Context, impl core.Implementation) error {
		return impl.Update(cctx, commitment, proof)
	})
}

// Authorize checks a liveness proof for the authorized digest and consumes the nonce.
func (l *Ledger) Authorize(ctx context.Context, call core.Call, req core.AuthorizationRequest) error {
	return l.apply(ctx, "authorize", call, func(cctx *core.Context, impl core.Implementation) error {
		return impl.Authorize(cctx, req)
	})
}

// ConsumeNonce consumes the next authorization nonce of the caller.
func (l *Ledger) ConsumeNonce(ctx context.Context, call core.Call, nonce uint64) error {
	return l.apply(ctx, "consume_nonce", call, func(cctx *core.Context, impl core.Implementation) error {
		return impl.ConsumeNonce(cctx, nonce)
	})
}

// ExecuteIntent executes a signed intent submitted by the caller.
func (l *Ledger) ExecuteIntent(ctx context.Context, call core.Call, intent *types.Intent) error {
	return l.apply(ctx, "execute_intent", call, func(cctx *core.Context, impl core.Implementation) error {
		return impl.ExecuteIntent(cctx, intent)
	})
}

// Resolve always fails. On success path the error is *core.OffchainLookup.
func (l *Ledger) Resolve(ctx context.Context, call core.Call, name, data []byte) ([]byte, error) {
	var result []byte
	err := l.apply(ctx, "resolve", call, func(cctx *core.Context, impl core.Implementation) error {
		var err error
		result, err = impl.Resolve(cctx, name, data)
		return err
	})
	return result, err
}

// ResolveWithProof is the continuation of a lookup.
func (l *Ledger) ResolveWithProof(ctx context.Context, call core.Call, response, extraData []byte) ([]byte, error) {
	var result []byte
	err := l.apply(ctx, "resolve_with_proof", call, func(cctx *core.Context, impl core.Implementation) error {
		var err error
		result, err = impl.ResolveWithProof(cctx, response, extraData)
		return err
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (l *Ledger) admin(ctx context.Context, method string, call core.Call, fn func(*core.Context) error) error {
	return l.apply(ctx, method, call, func(cctx *core.Context, _ core.Implementation) error {
		return fn(cctx)
	})
}

// TransferOwnership starts a two-step transfer to candidate.
func (l *Ledger) TransferOwnership(ctx context.Context, call core.Call, candidate types.Address) error {
	return l.admin(ctx, "transfer_ownership", call, func(cctx *core.Context) error {
		return ownership.Transfer(cctx, candidate)
	})
}

// AcceptOwnership completes a pending transfer.
func (l *Ledger) AcceptOwnership(ctx context.Context, call core.Call) error {
	return l.admin(ctx, "accept_ownership", call, ownership.Accept)
}

// RenounceOwnership leaves the deployment without an owner.
func (l *Ledger) RenounceOwnership(ctx context.Context, call core.Call) error {
	return l.admin(ctx, "renounce_ownership", call, ownership.Renounce)
}

// Pause engages the circuit breaker.
func (l *Ledger) Pause(ctx context.Context, call core.Call) error {
	return l.admin(ctx, "pause", call, ownership.Pause)
}

// Unpause releases the circuit breaker.
func (l *Ledger) Unpause(ctx context.Context, call core.Call) error {
	return l.admin(ctx, "unpause", call, ownership.Unpause)
}

// SetVerifier changes liveness verifier.
func (l *Ledger) SetVerifier(ctx context.Context, call core.Call, verifier types.Address) error {
	return l.admin(ctx, "set_verifier", call, func(cctx *core.Context) error {
		return ownership.SetVerifier(cctx, verifier)
	})
}

// SetResponseVerifier changes gateway response verification.
func (l *Ledger) SetResponseVerifier(ctx context.Context, call core.Call, verifier types.Address) error {
	return l.admin(ctx, "set_response_verifier", call, func(cctx *core.Context) error {
		return ownership.SetResponseVerifier(cctx, verifier)
	})
}

// SetURL replaces gateway urls with a single url.
func (l *Ledger) SetURL(ctx context.Context, call core.Call, url string) error {
	return l.SetURLs(ctx, call, []string{url})
}

// SetURLs replaces gateway urls.
func (l *Ledger) SetURLs(ctx context.Context, call core.Call, urls []string) error {
	return l.admin(ctx, "set_urls", call, func(cctx *core.Context) error {
		return ownership.SetURLs(cctx, urls)
	})
}
