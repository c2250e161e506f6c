// Package ledger is the deployed core. Every entry point runs as one serialized
// atomic unit and business entry points dispatch through the implementation slot.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"

	"github.com/keyward/keyward/common/types"
	"github.com/keyward/keyward/core"
	"github.com/keyward/keyward/events"
	"github.com/keyward/keyward/registry"
	"github.com/keyward/keyward/sql"
	"github.com/keyward/keyward/sql/deployment"
	"github.com/keyward/keyward/sql/eventlog"
)

// Opt for configuring Ledger.
type Opt func(*Ledger)

// WithLogger sets logger.
func WithLogger(logger *zap.Logger) Opt {
	return func(l *Ledger) {
		l.logger = logger
	}
}

// WithClock sets the source of block time.
func WithClock(clock clockwork.Clock) Opt {
	return func(l *Ledger) {
		l.clock = clock
	}
}

// WithImplementations sets code that can be deployed behind the implementation slot.
func WithImplementations(implementations *registry.Registry[core.Implementation]) Opt {
	return func(l *Ledger) {
		l.implementations = implementations
	}
}

// WithVerifiers sets deployed liveness verifiers.
func WithVerifiers(verifiers *registry.Registry[core.Verifier]) Opt {
	return func(l *Ledger) {
		l.verifiers = verifiers
	}
}

// WithResponseVerifiers sets deployed gateway response verifiers.
func WithResponseVerifiers(verifiers *registry.Registry[core.ResponseVerifier]) Opt {
	return func(l *Ledger) {
		l.responseVerifiers = verifiers
	}
}

// WithCallees sets code deployed at intent targets.
func WithCallees(callees *registry.Registry[core.Callee]) Opt {
	return func(l *Ledger) {
		l.callees = callees
	}
}

// WithReporter sets reporter that receives events after commit.
func WithReporter(reporter *events.Reporter) Opt {
	return func(l *Ledger) {
		l.reporter = reporter
	}
}

// Ledger holds the deployment state in a database and serializes entry points.
type Ledger struct {
	logger *zap.Logger
	clock  clockwork.Clock
	db     *sql.Database
	domain types.Domain

	implementations   *registry.Registry[core.Implementation]
	verifiers         *registry.Registry[core.Verifier]
	responseVerifiers *registry.Registry[core.ResponseVerifier]
	callees           *registry.Registry[core.Callee]
	reporter          *events.Reporter

	// mu orders entry points the way a ledger orders transactions.
	mu sync.Mutex
}

// New creates Ledger instance.
func New(db *sql.Database, domain types.Domain, opts ...Opt) *Ledger {
	l := &Ledger{
		logger:            zap.NewNop(),
		clock:             clockwork.NewRealClock(),
		db:                db,
		domain:            domain,
		implementations:   registry.New[core.Implementation](),
		verifiers:         registry.New[core.Verifier](),
		responseVerifiers: registry.New[core.ResponseVerifier](),
		callees:           registry.New[core.Callee](),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

func (l *Ledger) newContext(tx sql.Executor, call core.Call, state *types.OwnershipState) *core.Context {
	return &core.Context{
		Executor:          tx,
		Call:              call,
		Now:               l.clock.Now(),
		Domain:            l.domain,
		State:             state,
		Verifiers:         l.verifiers,
		ResponseVerifiers: l.responseVerifiers,
		Callees:           l.callees,
		Logger:            l.logger,
	}
}

func loadState(db sql.Executor) (*types.OwnershipState, error) {
	state, err := deployment.Ownership(db)
	switch {
	case errors.Is(err, sql.ErrNotFound):
		return nil, core.ErrNotInitialized
	case err != nil:
		return nil, core.Internal(err)
	}
	return state, nil
}

func (l *Ledger) implementation(db sql.Executor) (core.Implementation, error) {
	record, err := deployment.Implementation(db)
	switch {
	case errors.Is(err, sql.ErrNotFound):
		return nil, core.ErrNotInitialized
	case err != nil:
		return nil, core.Internal(err)
	}
	impl, exist := l.implementations.Get(record.Address)
	if !exist {
		return nil, fmt.Errorf("%w: slot points to %s", core.ErrInternal, record.Address)
	}
	return impl, nil
}

type entrypoint func(ctx *core.Context, impl core.Implementation) error

// apply runs fn in an immediate transaction. Ownership changes and events are
// written in the same transaction, events are published only after commit.
func (l *Ledger) apply(ctx context.Context, method string, call core.Call, fn entrypoint) (err error) {
	start := time.Now()
	defer func() { observe(method, err, start) }()

	l.mu.Lock()
	defer l.mu.Unlock()

	var committed []types.Event
	err = l.db.WithTxImmediate(ctx, func(tx *sql.Tx) error {
		state, err := loadState(tx)
		if err != nil {
			return err
		}
		impl, err := l.implementation(tx)
		if err != nil {
			return err
		}
		before := *state
		cctx := l.newContext(tx, call, state)
		if err := fn(cctx, impl); err != nil {
			return err
		}
		if *state != before {
			if err := deployment.SetOwnership(tx, state); err != nil {
				return core.Internal(err)
			}
		}
		committed, err = l.persist(tx, cctx.Events())
		return err
	})
	l.report(method, call, err, committed)
	return err
}

func (l *Ledger) persist(tx sql.Executor, emitted []types.Event) ([]types.Event, error) {
	committed := make([]types.Event, 0, len(emitted))
	for _, ev := range emitted {
		seq, err := eventlog.Add(tx, &ev)
		if err != nil {
			return nil, core.Internal(err)
		}
		ev.Seq = seq
		committed = append(committed, ev)
	}
	return committed, nil
}

func (l *Ledger) report(method string, call core.Call, err error, committed []types.Event) {
	switch kind := core.Classify(err); kind {
	case core.KindNone:
		l.reporter.Publish(committed...)
		l.logger.Debug("entry point succeeded",
			zap.String("method", method),
			zap.Stringer("caller", call.Caller),
			zap.Int("events", len(committed)),
		)
	case core.KindInternal:
		l.logger.Error("entry point failed",
			zap.String("method", method),
			zap.Stringer("caller", call.Caller),
			zap.Error(err),
		)
	default:
		l.logger.Debug("entry point rejected",
			zap.String("method", method),
			zap.Stringer("caller", call.Caller),
			zap.Stringer("kind", kind),
			zap.Error(err),
		)
	}
}
