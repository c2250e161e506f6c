package core

import (
	"github.com/keyward/keyward/common/types"
)

type (
	// Address is an alias to types.Address.
	Address = types.Address
	// Hash32 is an alias to types.Hash32.
	Hash32 = types.Hash32
)

// Call describes who invoked an entry point and the native value they attached.
type Call struct {
	Caller Address
	Value  uint64
}

// Claim is what a liveness proof is expected to vouch for.
// Digest is zero for enrollment and the authorized digest for authorization checks.
type Claim struct {
	Account    Address
	Commitment Hash32
	Digest     Hash32
}

//go:generate mockgen -package=mocks -destination=./mocks/verifier.go github.com/keyward/keyward/core Verifier

// Verifier checks liveness proofs. Only the boolean result is meaningful.
type Verifier interface {
	Verify(claim Claim, proof []byte) bool
}

//go:generate mockgen -package=mocks -destination=./mocks/callee.go github.com/keyward/keyward/core Callee

// Callee is code deployed at an address that accepts delegated calls.
type Callee interface {
	Call(ctx *Context, from Address, value uint64, data []byte) error
}

// ResponseVerifier checks an off-chain response against the pass-through data of its lookup.
// It returns the result that the continuation hands back to the caller.
type ResponseVerifier interface {
	VerifyResponse(ctx *Context, response, extraData []byte) ([]byte, error)
}

// AuthorizationRequest is a check-and-consume pair presented by a recovery flow.
type AuthorizationRequest struct {
	Digest Hash32
	Proof  []byte
	Nonce  uint64
}

//go:generate mockgen -package=mocks -destination=./mocks/implementation.go github.com/keyward/keyward/core Implementation

// Implementation is the code behind the implementation slot. Every business entry
// point dispatches through it, state is kept outside of it.
type Implementation interface {
	// Version is a constant identifier of the release.
	Version() string
	// Migrate runs post-upgrade steps encoded in data.
	Migrate(ctx *Context, data []byte) error

	Enroll(ctx *Context, commitment Hash32, proof []byte) error
	Revoke(ctx *Context) error
	Update(ctx *Context, commitment Hash32, proof []byte) error
	Authorize(ctx *Context, req AuthorizationRequest) error
	ConsumeNonce(ctx *Context, nonce uint64) error

	ExecuteIntent(ctx *Context, intent *types.Intent) error

	Resolve(ctx *Context, name, data []byte) ([]byte, error)
	ResolveWithProof(ctx *Context, response, extraData []byte) ([]byte, error)
}
