package types

import (
	"go.uber.org/zap/zapcore"
)

// Commitment binds a biometric-derived key to an account without revealing it.
// At most one commitment exists per account.
type Commitment struct {
	Account    Address
	Hash       Hash32
	EnrolledAt uint64
}

// MarshalLogObject implements logging interface.
func (c *Commitment) MarshalLogObject(encoder zapcore.ObjectEncoder) error {
	encoder.AddString("account", c.Account.String())
	encoder.AddString("commitment", c.Hash.ShortString())
	encoder.AddUint64("enrolled_at", c.EnrolledAt)
	return nil
}
