package core

import (
	"errors"
)

var (
	// ErrFaceAlreadyEnrolled is returned when the caller already has a commitment.
	ErrFaceAlreadyEnrolled = errors.New("face already enrolled")
	// ErrFaceNotEnrolled is returned when the account has no commitment.
	ErrFaceNotEnrolled = errors.New("face not enrolled")
	// ErrZeroAddress is returned when an address argument is zero.
	ErrZeroAddress = errors.New("zero address")
	// ErrEmptyUrl is returned when gateway url list is empty or contains empty url.
	ErrEmptyUrl = errors.New("empty url")
	// ErrTooManyUrls is returned when gateway url list exceeds the stored limit.
	ErrTooManyUrls = errors.New("too many urls")
	// ErrRequestTooLarge is returned when an argument exceeds its size limit.
	ErrRequestTooLarge = errors.New("request too large")
	// ErrZeroCommitment is returned when commitment hash is all zeroes.
	ErrZeroCommitment = errors.New("zero commitment")
	// ErrInsufficientFunds is returned when the relayer can't cover attached value.
	ErrInsufficientFunds = errors.New("insufficient funds")
	// ErrValueMismatch is returned when attached value differs from signed value.
	ErrValueMismatch = errors.New("attached value doesn't match intent value")
	// ErrUnknownImplementation is returned when the upgrade target isn't deployed.
	ErrUnknownImplementation = errors.New("unknown implementation")
	// ErrUnknownVerifier is returned when a verifier address isn't deployed.
	ErrUnknownVerifier = errors.New("unknown verifier")
	// ErrCallFailed is returned when the delegated call reverted.
	ErrCallFailed = errors.New("call failed")
	// ErrNotInitialized is returned by entry points before deployment was initialized.
	ErrNotInitialized = errors.New("not initialized")
	// ErrAlreadyInitialized is returned by repeated initialization.
	ErrAlreadyInitialized = errors.New("already initialized")

	// ErrNonceAlreadyUsed is returned when the nonce was consumed before.
	ErrNonceAlreadyUsed = errors.New("nonce already used")
	// ErrInvalidNonce is returned when intent nonce isn't the current execution nonce.
	ErrInvalidNonce = errors.New("invalid nonce")
	// ErrDeadlineExpired is returned when the intent deadline passed.
	ErrDeadlineExpired = errors.New("deadline expired")
	// ErrResponseExpired is returned when a signed gateway response is no longer valid.
	ErrResponseExpired = errors.New("response expired")

	// ErrInvalidLivenessProof is returned when the verifier rejects the proof.
	ErrInvalidLivenessProof = errors.New("invalid liveness proof")
	// ErrInvalidSignature is returned when the signature doesn't recover to the signer.
	ErrInvalidSignature = errors.New("invalid signature")
	// ErrInvalidResponse is returned when gateway response fails verification.
	ErrInvalidResponse = errors.New("invalid gateway response")

	// ErrUnauthorized is returned when the caller lacks the required role.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrContractPaused is returned by gated entry points while paused.
	ErrContractPaused = errors.New("contract paused")
	// ErrNotPaused is returned by unpause while not paused.
	ErrNotPaused = errors.New("contract not paused")

	// ErrInternal wraps failures of the storage layer.
	ErrInternal = errors.New("internal")
)

// Kind is a class of failures that share retry policy.
type Kind uint8

const (
	// KindNone is the kind of nil error.
	KindNone Kind = iota
	// KindPrecondition failures are caller logic errors. Not retryable without changing the request.
	KindPrecondition
	// KindReplay failures mean the signed artifact is stale. Fetch fresh nonce or deadline and re-sign.
	KindReplay
	// KindCryptographic failures must not be retried with the same inputs.
	KindCryptographic
	// KindAuthorization failures are operational gates, pause is expected to be transient.
	KindAuthorization
	// KindLookup is the off-chain lookup signal, not a failure.
	KindLookup
	// KindInternal failures are storage or programming errors.
	KindInternal
)

func (k Kind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindPrecondition:
		return "precondition"
	case KindReplay:
		return "replay"
	case KindCryptographic:
		return "cryptographic"
	case KindAuthorization:
		return "authorization"
	case KindLookup:
		return "lookup"
	default:
		return "internal"
	}
}

var kinds = map[error]Kind{
	ErrFaceAlreadyEnrolled:   KindPrecondition,
	ErrFaceNotEnrolled:       KindPrecondition,
	ErrZeroAddress:           KindPrecondition,
	ErrEmptyUrl:              KindPrecondition,
	ErrTooManyUrls:           KindPrecondition,
	ErrRequestTooLarge:       KindPrecondition,
	ErrZeroCommitment:        KindPrecondition,
	ErrInsufficientFunds:     KindPrecondition,
	ErrValueMismatch:         KindPrecondition,
	ErrUnknownImplementation: KindPrecondition,
	ErrUnknownVerifier:       KindPrecondition,
	ErrCallFailed:            KindPrecondition,
	ErrNotInitialized:        KindPrecondition,
	ErrAlreadyInitialized:    KindPrecondition,

	ErrNonceAlreadyUsed: KindReplay,
	ErrInvalidNonce:     KindReplay,
	ErrDeadlineExpired:  KindReplay,
	ErrResponseExpired:  KindReplay,

	ErrInvalidLivenessProof: KindCryptographic,
	ErrInvalidSignature:     KindCryptographic,
	ErrInvalidResponse:      KindCryptographic,

	ErrUnauthorized:   KindAuthorization,
	ErrContractPaused: KindAuthorization,
	ErrNotPaused:      KindAuthorization,
}

// Classify returns the failure class of err. Unknown errors are internal.
func Classify(err error) Kind {
	if err == nil {
		return KindNone
	}
	var lookup *OffchainLookup
	if errors.As(err, &lookup) {
		return KindLookup
	}
	for sentinel, kind := range kinds {
		if errors.Is(err, sentinel) {
			return kind
		}
	}
	return KindInternal
}
