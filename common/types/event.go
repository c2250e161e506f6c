package types

import (
	"fmt"

	"go.uber.org/zap/zapcore"
)

// EventKind identifies an event emitted by an entry point.
type EventKind uint8

const (
	EventEnrolled EventKind = iota + 1
	EventRevoked
	EventNonceUsed
	EventIntentExecuted
	EventOwnershipTransferStarted
	EventOwnershipTransferred
	EventPaused
	EventUnpaused
	EventUpgraded
	EventVerifierUpdated
	EventUrlUpdated
	EventResponseVerifierUpdated
)

// String returns the string representation of an event kind.
func (k EventKind) String() string {
	switch k {
	case EventEnrolled:
		return "Enrolled"
	case EventRevoked:
		return "Revoked"
	case EventNonceUsed:
		return "NonceUsed"
	case EventIntentExecuted:
		return "IntentExecuted"
	case EventOwnershipTransferStarted:
		return "OwnershipTransferStarted"
	case EventOwnershipTransferred:
		return "OwnershipTransferred"
	case EventPaused:
		return "Paused"
	case EventUnpaused:
		return "Unpaused"
	case EventUpgraded:
		return "Upgraded"
	case EventVerifierUpdated:
		return "VerifierUpdated"
	case EventUrlUpdated:
		return "UrlUpdated"
	case EventResponseVerifierUpdated:
		return "ResponseVerifierUpdated"
	default:
		return "Unknown"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (k EventKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *EventKind) UnmarshalText(text []byte) error {
	for kind := EventEnrolled; kind <= EventResponseVerifierUpdated; kind++ {
		if kind.String() == string(text) {
			*k = kind
			return nil
		}
	}
	return fmt.Errorf("unknown event kind %q", text)
}

// Event is a record of a successful state mutation. Fields that do not apply
// to the kind are left zero.
//
//   - Enrolled, Revoked: Account, Hash (commitment).
//   - NonceUsed: Account, Nonce, Hash (authorized digest when used through Authorize).
//   - IntentExecuted: Account (signer), Counterparty (target), Nonce, Value, Hash (digest).
//   - OwnershipTransferStarted, OwnershipTransferred: Account (previous), Counterparty (new).
//   - Paused, Unpaused: Account (operator).
//   - Upgraded, VerifierUpdated, ResponseVerifierUpdated: Counterparty (new address).
//   - UrlUpdated: Text.
type Event struct {
	Seq          uint64
	Kind         EventKind
	Timestamp    uint64
	Account      Address
	Counterparty Address
	Hash         Hash32
	Nonce        uint64
	Value        uint64
	Text         string
}

// MarshalLogObject implements logging interface.
func (e *Event) MarshalLogObject(encoder zapcore.ObjectEncoder) error {
	encoder.AddUint64("seq", e.Seq)
	encoder.AddString("kind", e.Kind.String())
	encoder.AddUint64("timestamp", e.Timestamp)
	if !e.Account.IsEmpty() {
		encoder.AddString("account", e.Account.String())
	}
	if !e.Counterparty.IsEmpty() {
		encoder.AddString("counterparty", e.Counterparty.String())
	}
	if !e.Hash.IsEmpty() {
		encoder.AddString("hash", e.Hash.ShortString())
	}
	if e.Nonce != 0 {
		encoder.AddUint64("nonce", e.Nonce)
	}
	if e.Value != 0 {
		encoder.AddUint64("value", e.Value)
	}
	if e.Text != "" {
		encoder.AddString("text", e.Text)
	}
	return nil
}
