// Package enrollment keeps per-account credential commitments and answers
// authorization checks of recovery flows.
package enrollment

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/keyward/keyward/common/types"
	"github.com/keyward/keyward/core"
	"github.com/keyward/keyward/hash"
	"github.com/keyward/keyward/nonces"
	"github.com/keyward/keyward/ownership"
	"github.com/keyward/keyward/sql"
	"github.com/keyward/keyward/sql/enrollments"
)

var commitmentDomain = []byte("keyward/commitment/v1")

// DeriveCommitment binds a biometric-derived key to an account.
// The key itself never leaves the client.
func DeriveCommitment(account types.Address, key []byte) types.Hash32 {
	return hash.Sum(commitmentDomain, account.Bytes(), key)
}

// IsEnrolled returns true if the account has a commitment.
func IsEnrolled(db sql.Executor, account types.Address) (bool, error) {
	enrolled, err := enrollments.Has(db, account)
	if err != nil {
		return false, core.Internal(err)
	}
	return enrolled, nil
}

// Commitment returns the commitment of an enrolled account.
func Commitment(db sql.Executor, account types.Address) (types.Commitment, error) {
	commitment, err := enrollments.Get(db, account)
	switch {
	case errors.Is(err, sql.ErrNotFound):
		return types.Commitment{}, fmt.Errorf("%w: %s", core.ErrFaceNotEnrolled, account)
	case err != nil:
		return types.Commitment{}, core.Internal(err)
	}
	return commitment, nil
}

func verify(ctx *core.Context, claim core.Claim, proof []byte) error {
	verifier, err := ctx.Verifier()
	if err != nil {
		return err
	}
	if !verifier.Verify(claim, proof) {
		return fmt.Errorf("%w: for %s", core.ErrInvalidLivenessProof, claim.Account)
	}
	return nil
}

func store(ctx *core.Context, commitment types.Hash32) error {
	record := types.Commitment{
		Account:    ctx.Caller(),
		Hash:       commitment,
		EnrolledAt: ctx.Timestamp(),
	}
	if err := enrollments.Add(ctx.Executor, record); err != nil {
		if errors.Is(err, sql.ErrObjectExists) {
			return fmt.Errorf("%w: %s", core.ErrFaceAlreadyEnrolled, ctx.Caller())
		}
		return core.Internal(err)
	}
	ctx.Emit(types.Event{Kind: types.EventEnrolled, Account: record.Account, Hash: commitment})
	ctx.Logger.Debug("enrolled", zap.Object("commitment", &record))
	return nil
}

func remove(ctx *core.Context, commitment types.Commitment) error {
	if err := enrollments.Delete(ctx.Executor, commitment.Account); err != nil {
		return core.Internal(err)
	}
	ctx.Emit(types.Event{Kind: types.EventRevoked, Account: commitment.Account, Hash: commitment.Hash})
	ctx.Logger.Debug("revoked", zap.Object("commitment", &commitment))
	return nil
}

// Enroll stores a commitment for the caller once the liveness proof is accepted.
func Enroll(ctx *core.Context, commitment types.Hash32, proof []byte) error {
	if err := ownership.RequireNotPaused(ctx); err != nil {
		return err
	}
	if commitment.IsEmpty() {
		return core.ErrZeroCommitment
	}
	enrolled, err := IsEnrolled(ctx.Executor, ctx.Caller())
	if err != nil {
		return err
	}
	if enrolled {
		return fmt.Errorf("%w: %s", core.ErrFaceAlreadyEnrolled, ctx.Caller())
	}
	if err := verify(ctx, core.Claim{Account: ctx.Caller(), Commitment: commitment}, proof); err != nil {
		return err
	}
	return store(ctx, commitment)
}

// Revoke clears the commitment of the caller.
func Revoke(ctx *core.Context) error {
	if err := ownership.RequireNotPaused(ctx); err != nil {
		return err
	}
	commitment, err := Commitment(ctx.Executor, ctx.Caller())
	if err != nil {
		return err
	}
	return remove(ctx, commitment)
}

// Update replaces the commitment of the caller. If the caller isn't enrolled it behaves as Enroll.
// Nothing is changed unless the new proof is accepted.
func Update(ctx *core.Context, commitment types.Hash32, proof []byte) error {
	if err := ownership.RequireNotPaused(ctx); err != nil {
		return err
	}
	if commitment.IsEmpty() {
		return core.ErrZeroCommitment
	}
	if err := verify(ctx, core.Claim{Account: ctx.Caller(), Commitment: commitment}, proof); err != nil {
		return err
	}
	current, err := Commitment(ctx.Executor, ctx.Caller())
	switch {
	case err == nil:
		if err := remove(ctx, current); err != nil {
			return err
		}
	case !errors.Is(err, core.ErrFaceNotEnrolled):
		return err
	}
	return store(ctx, commitment)
}

// Authorize checks that the caller may act on digest and consumes the nonce.
// Each successful check is usable exactly once.
func Authorize(ctx *core.Context, req core.AuthorizationRequest) error {
	if err := ownership.RequireNotPaused(ctx); err != nil {
		return err
	}
	commitment, err := Commitment(ctx.Executor, ctx.Caller())
	if err != nil {
		return err
	}
	claim := core.Claim{Account: ctx.Caller(), Commitment: commitment.Hash, Digest: req.Digest}
	if err := verify(ctx, claim, req.Proof); err != nil {
		return err
	}
	return nonces.ConsumeFor(ctx, ctx.Caller(), req.Nonce, req.Digest)
}
