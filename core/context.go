package core

import (
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/keyward/keyward/common/types"
	"github.com/keyward/keyward/registry"
	"github.com/keyward/keyward/sql"
	"github.com/keyward/keyward/sql/accounts"
)

// Context serves as the single entry point for an entry point execution.
// It is created per call and discarded once the call returns.
type Context struct {
	// Executor is the transaction of the call. Writes are committed only if the call succeeds.
	Executor sql.Executor
	Call     Call
	// Now is block time, frozen for the duration of the call.
	Now    time.Time
	Domain types.Domain
	// State is the ownership record loaded at the start of the call.
	State *types.OwnershipState

	Verifiers         *registry.Registry[Verifier]
	ResponseVerifiers *registry.Registry[ResponseVerifier]
	Callees           *registry.Registry[Callee]

	Logger *zap.Logger

	events []types.Event
}

// Caller of the entry point.
func (c *Context) Caller() Address {
	return c.Call.Caller
}

// Timestamp is block time in seconds.
func (c *Context) Timestamp() uint64 {
	return uint64(c.Now.Unix())
}

// Emit records an event. Events are persisted together with the rest of the call.
func (c *Context) Emit(event types.Event) {
	event.Timestamp = c.Timestamp()
	c.events = append(c.events, event)
}

// Events emitted so far.
func (c *Context) Events() []types.Event {
	return c.events
}

// Verifier returns liveness verifier configured for the deployment.
func (c *Context) Verifier() (Verifier, error) {
	if c.State.Verifier.IsEmpty() {
		return nil, fmt.Errorf("%w: verifier is not set", ErrUnknownVerifier)
	}
	verifier, exist := c.Verifiers.Get(c.State.Verifier)
	if !exist {
		return nil, fmt.Errorf("%w: %s", ErrUnknownVerifier, c.State.Verifier)
	}
	return verifier, nil
}

// ResponseVerifier returns configured gateway response verifier. Nil means pass-through.
func (c *Context) ResponseVerifier() (ResponseVerifier, error) {
	if c.State.ResponseVerifier.IsEmpty() {
		return nil, nil
	}
	verifier, exist := c.ResponseVerifiers.Get(c.State.ResponseVerifier)
	if !exist {
		return nil, fmt.Errorf("%w: %s", ErrUnknownVerifier, c.State.ResponseVerifier)
	}
	return verifier, nil
}

// Callee returns code deployed at the address if any.
func (c *Context) Callee(address Address) (Callee, bool) {
	return c.Callees.Get(address)
}

// Transfer moves native value between accounts.
func (c *Context) Transfer(from, to Address, amount uint64) error {
	if amount == 0 {
		return nil
	}
	sender, err := accounts.Latest(c.Executor, from)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInternal, err)
	}
	if sender.Balance < amount {
		return fmt.Errorf("%w: %s has %d, needs %d", ErrInsufficientFunds, from, sender.Balance, amount)
	}
	sender.Balance -= amount
	if err := accounts.Update(c.Executor, &sender); err != nil {
		return fmt.Errorf("%w: %w", ErrInternal, err)
	}
	receiver, err := accounts.Latest(c.Executor, to)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInternal, err)
	}
	if receiver.Balance+amount < receiver.Balance {
		return fmt.Errorf("%w: balance overflow for %s", ErrInternal, to)
	}
	receiver.Balance += amount
	if err := accounts.Update(c.Executor, &receiver); err != nil {
		return fmt.Errorf("%w: %w", ErrInternal, err)
	}
	return nil
}

// Internal wraps a storage failure, leaving known sentinels untouched.
func Internal(err error) error {
	if err == nil {
		return nil
	}
	if Classify(err) != KindInternal || errors.Is(err, ErrInternal) {
		return err
	}
	return fmt.Errorf("%w: %w", ErrInternal, err)
}
