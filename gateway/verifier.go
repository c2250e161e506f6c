package gateway

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/keyward/keyward/codec"
	"github.com/keyward/keyward/core"
	"github.com/keyward/keyward/signing"
)

// PassThrough returns the response unchanged. It trusts the off-chain service.
type PassThrough struct{}

// VerifyResponse implements core.ResponseVerifier.
func (PassThrough) VerifyResponse(_ *core.Context, response, _ []byte) ([]byte, error) {
	return response, nil
}

// SignedResponseVerifier accepts SignedResponse envelopes produced by one of the
// trusted gateway signers for the lookup that issued extraData.
type SignedResponseVerifier struct {
	signers map[[signing.PublicKeySize]byte]struct{}
	ed      *signing.EdVerifier
}

// NewSignedResponseVerifier creates a verifier trusting the given gateway keys.
func NewSignedResponseVerifier(prefix []byte, signers ...*signing.PublicKey) *SignedResponseVerifier {
	v := &SignedResponseVerifier{
		signers: make(map[[signing.PublicKeySize]byte]struct{}, len(signers)),
		ed:      signing.NewEdVerifier(signing.WithVerifierPrefix(prefix)),
	}
	for _, pub := range signers {
		v.signers[pub.Array()] = struct{}{}
	}
	return v
}

// VerifyResponse implements core.ResponseVerifier.
func (v *SignedResponseVerifier) VerifyResponse(ctx *core.Context, response, extraData []byte) ([]byte, error) {
	var extra ExtraData
	if err := codec.Decode(extraData, &extra); err != nil {
		return nil, fmt.Errorf("%w: extra data: %v", core.ErrInvalidResponse, err)
	}
	if extra.Sender != ctx.Domain.VerifyingContract {
		return nil, fmt.Errorf("%w: lookup issued by %s", core.ErrInvalidResponse, extra.Sender)
	}
	var signed SignedResponse
	if err := codec.Decode(response, &signed); err != nil {
		return nil, fmt.Errorf("%w: response: %v", core.ErrInvalidResponse, err)
	}
	if _, exist := v.signers[signed.Signer]; !exist {
		return nil, fmt.Errorf("%w: untrusted signer", core.ErrInvalidResponse)
	}
	if signed.Expires < ctx.Timestamp() {
		return nil, fmt.Errorf("%w: expired at %d, now %d", core.ErrResponseExpired, signed.Expires, ctx.Timestamp())
	}
	digest := ResponseDigest(extra.Sender, signed.Expires, extra.CallData, signed.Result)
	if !v.ed.Verify(signing.GATEWAY, signed.Signer, digest[:], signed.Signature) {
		return nil, fmt.Errorf("%w: bad signature", core.ErrInvalidResponse)
	}
	ctx.Logger.Debug("gateway response verified", zap.Uint64("expires", signed.Expires))
	return signed.Result, nil
}
