package signing

import (
	"github.com/oasisprotocol/curve25519-voi/primitives/ed25519"
)

type edVerifierOption struct {
	prefix []byte
}

// VerifierOptionFunc to modify verifier.
type VerifierOptionFunc func(*edVerifierOption)

// WithVerifierPrefix sets the prefix used by EdVerifier. It must match the prefix of the signer.
func WithVerifierPrefix(prefix []byte) VerifierOptionFunc {
	return func(opts *edVerifierOption) {
		opts.prefix = prefix
	}
}

// EdVerifier checks ed25519 signatures produced by EdSigner.
type EdVerifier struct {
	prefix []byte
}

// NewEdVerifier creates a verifier.
func NewEdVerifier(opts ...VerifierOptionFunc) *EdVerifier {
	cfg := &edVerifierOption{}
	for _, opt := range opts {
		opt(cfg)
	}
	return &EdVerifier{prefix: cfg.prefix}
}

// Verify verifies that a signature matches public key and message.
func (es *EdVerifier) Verify(d Domain, pub [PublicKeySize]byte, m []byte, sig Signature) bool {
	return ed25519.Verify(pub[:], message(es.prefix, d, m), sig[:])
}
