package types

import (
	"go.uber.org/zap/zapcore"
)

// SignatureLength is the length of a recoverable secp256k1 signature (r || s || v).
const SignatureLength = 65

// Intent is a signed description of a delegated action. Only the consumption
// of its nonce is persisted.
type Intent struct {
	From     Address
	To       Address
	Value    uint64
	Data     []byte
	Nonce    uint64
	Deadline uint64

	Signature []byte
}

// DataHash is keccak256 of the call payload, the value bound by the signature.
func (i *Intent) DataHash() Hash32 {
	return Keccak256(i.Data)
}

// MarshalLogObject implements logging interface.
func (i *Intent) MarshalLogObject(encoder zapcore.ObjectEncoder) error {
	encoder.AddString("from", i.From.String())
	encoder.AddString("to", i.To.String())
	encoder.AddUint64("value", i.Value)
	encoder.AddInt("data_len", len(i.Data))
	encoder.AddUint64("nonce", i.Nonce)
	encoder.AddUint64("deadline", i.Deadline)
	return nil
}

// Domain binds typed-data signatures to a single deployment on a single network.
type Domain struct {
	Name              string
	Version           string
	ChainID           uint64
	VerifyingContract Address
}

// MarshalLogObject implements logging interface.
func (d *Domain) MarshalLogObject(encoder zapcore.ObjectEncoder) error {
	encoder.AddString("name", d.Name)
	encoder.AddString("version", d.Version)
	encoder.AddUint64("chain_id", d.ChainID)
	encoder.AddString("verifying_contract", d.VerifyingContract.String())
	return nil
}
