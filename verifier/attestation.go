// Package verifier contains liveness verifiers that can be deployed behind a
// verifier address.
package verifier

import (
	"bytes"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/spacemeshos/go-scale"
	"go.uber.org/zap"

	"github.com/keyward/keyward/codec"
	"github.com/keyward/keyward/common/types"
	"github.com/keyward/keyward/core"
	"github.com/keyward/keyward/log"
	"github.com/keyward/keyward/signing"
)

// Attestation is a statement by a trusted liveness service that it observed
// a genuine capture for the claim at IssuedAt.
type Attestation struct {
	Subject    types.Address
	Commitment types.Hash32
	Challenge  types.Hash32
	IssuedAt   uint64
	Attester   [signing.PublicKeySize]byte
	Signature  signing.Signature
}

// EncodeScale implements scale codec interface.
func (a *Attestation) EncodeScale(enc *scale.Encoder) (total int, err error) {
	n, err := a.encodeBody(enc)
	if err != nil {
		return total, err
	}
	total += n
	n, err = scale.EncodeByteArray(enc, a.Signature[:])
	if err != nil {
		return total, err
	}
	return total + n, nil
}

func (a *Attestation) encodeBody(enc *scale.Encoder) (total int, err error) {
	for _, field := range [][]byte{a.Subject[:], a.Commitment[:], a.Challenge[:]} {
		n, err := scale.EncodeByteArray(enc, field)
		if err != nil {
			return total, err
		}
		total += n
	}
	{
		n, err := scale.EncodeCompact64(enc, a.IssuedAt)
		if err != nil {
			return total, err
		}
		total += n
	}
	{
		n, err := scale.EncodeByteArray(enc, a.Attester[:])
		if err != nil {
			return total, err
		}
		total += n
	}
	return total, nil
}

// DecodeScale implements scale codec interface.
func (a *Attestation) DecodeScale(dec *scale.Decoder) (total int, err error) {
	for _, field := range [][]byte{a.Subject[:], a.Commitment[:], a.Challenge[:]} {
		n, err := scale.DecodeByteArray(dec, field)
		if err != nil {
			return total, err
		}
		total += n
	}
	{
		field, n, err := scale.DecodeCompact64(dec)
		if err != nil {
			return total, err
		}
		total += n
		a.IssuedAt = field
	}
	for _, field := range [][]byte{a.Attester[:], a.Signature[:]} {
		n, err := scale.DecodeByteArray(dec, field)
		if err != nil {
			return total, err
		}
		total += n
	}
	return total, nil
}

// SignedBytes is the message covered by the attester signature.
func (a *Attestation) SignedBytes() []byte {
	var buf bytes.Buffer
	if _, err := a.encodeBody(scale.NewEncoder(&buf)); err != nil {
		panic(err)
	}
	return buf.Bytes()
}

// Attest produces an encoded attestation for the claim, suitable as a liveness proof.
func Attest(signer *signing.EdSigner, claim core.Claim, issuedAt time.Time) []byte {
	attestation := &Attestation{
		Subject:    claim.Account,
		Commitment: claim.Commitment,
		Challenge:  claim.Digest,
		IssuedAt:   uint64(issuedAt.Unix()),
		Attester:   signer.PublicKey().Array(),
	}
	attestation.Signature = signer.Sign(signing.LIVENESS, attestation.SignedBytes())
	return codec.MustEncode(attestation)
}

// Opt for configuring AttestationVerifier.
type Opt func(*AttestationVerifier)

// WithClock sets clock used to check freshness.
func WithClock(clock clockwork.Clock) Opt {
	return func(v *AttestationVerifier) {
		v.clock = clock
	}
}

// WithMaxAge sets how old an attestation may be.
func WithMaxAge(age time.Duration) Opt {
	return func(v *AttestationVerifier) {
		v.maxAge = age
	}
}

// WithLogger sets logger.
func WithLogger(logger *zap.Logger) Opt {
	return func(v *AttestationVerifier) {
		v.logger = logger
	}
}

// WithPrefix sets signature prefix, it must match the prefix of attesters.
func WithPrefix(prefix []byte) Opt {
	return func(v *AttestationVerifier) {
		v.prefix = prefix
	}
}

// AttestationVerifier accepts proofs that are fresh attestations signed by one of the trusted attesters.
type AttestationVerifier struct {
	logger  *zap.Logger
	clock   clockwork.Clock
	maxAge  time.Duration
	prefix  []byte
	trusted map[[signing.PublicKeySize]byte]struct{}
	ed      *signing.EdVerifier
}

// NewAttestationVerifier creates a verifier that trusts the given attesters.
func NewAttestationVerifier(trusted []*signing.PublicKey, opts ...Opt) *AttestationVerifier {
	v := &AttestationVerifier{
		logger:  log.NewNop(),
		clock:   clockwork.NewRealClock(),
		maxAge:  5 * time.Minute,
		trusted: make(map[[signing.PublicKeySize]byte]struct{}, len(trusted)),
	}
	for _, opt := range opts {
		opt(v)
	}
	for _, pub := range trusted {
		v.trusted[pub.Array()] = struct{}{}
	}
	v.ed = signing.NewEdVerifier(signing.WithVerifierPrefix(v.prefix))
	return v
}

// Verify implements core.Verifier.
func (v *AttestationVerifier) Verify(claim core.Claim, proof []byte) bool {
	var attestation Attestation
	if err := codec.Decode(proof, &attestation); err != nil {
		v.logger.Debug("malformed attestation", zap.Error(err))
		return false
	}
	if _, exist := v.trusted[attestation.Attester]; !exist {
		v.logger.Debug("untrusted attester", zap.Binary("attester", attestation.Attester[:]))
		return false
	}
	if attestation.Subject != claim.Account ||
		attestation.Commitment != claim.Commitment ||
		attestation.Challenge != claim.Digest {
		v.logger.Debug("attestation is for another claim", zap.Stringer("account", claim.Account))
		return false
	}
	issued := time.Unix(int64(attestation.IssuedAt), 0)
	now := v.clock.Now()
	if issued.After(now) || now.Sub(issued) > v.maxAge {
		v.logger.Debug("stale attestation",
			zap.Time("issued", issued),
			zap.Duration("max_age", v.maxAge),
		)
		return false
	}
	return v.ed.Verify(signing.LIVENESS, attestation.Attester, attestation.SignedBytes(), attestation.Signature)
}
