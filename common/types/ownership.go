package types

import (
	"github.com/spacemeshos/go-scale"
	"go.uber.org/zap/zapcore"
)

// OwnershipState is the deployment-level privileged state. Exactly one
// instance exists per deployment and it survives upgrades unchanged.
type OwnershipState struct {
	Owner            Address
	PendingOwner     Address
	Paused           bool
	Verifier         Address
	ResponseVerifier Address
}

// MarshalLogObject implements logging interface.
func (s *OwnershipState) MarshalLogObject(encoder zapcore.ObjectEncoder) error {
	encoder.AddString("owner", s.Owner.String())
	encoder.AddString("pending_owner", s.PendingOwner.String())
	encoder.AddBool("paused", s.Paused)
	encoder.AddString("verifier", s.Verifier.String())
	encoder.AddString("response_verifier", s.ResponseVerifier.String())
	return nil
}

// EncodeScale implements scale codec interface.
func (s *OwnershipState) EncodeScale(enc *scale.Encoder) (total int, err error) {
	for _, addr := range []*Address{&s.Owner, &s.PendingOwner} {
		n, err := addr.EncodeScale(enc)
		if err != nil {
			return total, err
		}
		total += n
	}
	{
		var paused uint8
		if s.Paused {
			paused = 1
		}
		n, err := scale.EncodeCompact8(enc, paused)
		if err != nil {
			return total, err
		}
		total += n
	}
	for _, addr := range []*Address{&s.Verifier, &s.ResponseVerifier} {
		n, err := addr.EncodeScale(enc)
		if err != nil {
			return total, err
		}
		total += n
	}
	return total, nil
}

// DecodeScale implements scale codec interface.
func (s *OwnershipState) DecodeScale(dec *scale.Decoder) (total int, err error) {
	for _, addr := range []*Address{&s.Owner, &s.PendingOwner} {
		n, err := addr.DecodeScale(dec)
		if err != nil {
			return total, err
		}
		total += n
	}
	{
		field, n, err := scale.DecodeCompact8(dec)
		if err != nil {
			return total, err
		}
		total += n
		s.Paused = field != 0
	}
	for _, addr := range []*Address{&s.Verifier, &s.ResponseVerifier} {
		n, err := addr.DecodeScale(dec)
		if err != nil {
			return total, err
		}
		total += n
	}
	return total, nil
}

// ImplementationRecord is stored at the fixed implementation slot. It points
// to the code that serves business entry points.
type ImplementationRecord struct {
	Address    Address
	UpgradedAt uint64
}

// EncodeScale implements scale codec interface.
func (r *ImplementationRecord) EncodeScale(enc *scale.Encoder) (total int, err error) {
	{
		n, err := r.Address.EncodeScale(enc)
		if err != nil {
			return total, err
		}
		total += n
	}
	{
		n, err := scale.EncodeCompact64(enc, r.UpgradedAt)
		if err != nil {
			return total, err
		}
		total += n
	}
	return total, nil
}

// DecodeScale implements scale codec interface.
func (r *ImplementationRecord) DecodeScale(dec *scale.Decoder) (total int, err error) {
	{
		n, err := r.Address.DecodeScale(dec)
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
		r.UpgradedAt = field
	}
	return total, nil
}
