package ledger

import (
	"context"
	"errors"

	"github.com/keyward/keyward/common/types"
	"github.com/keyward/keyward/core"
	"github.com/keyward/keyward/enrollment"
	"github.com/keyward/keyward/nonces"
	"github.com/keyward/keyward/relay"
	"github.com/keyward/keyward/sql"
	"github.com/keyward/keyward/sql/accounts"
	"github.com/keyward/keyward/sql/deployment"
	"github.com/keyward/keyward/sql/enrollments"
	"github.com/keyward/keyward/sql/eventlog"
	sqlnonces "github.com/keyward/keyward/sql/nonces"
)

// Domain of typed-data signatures accepted by the deployment.
func (l *Ledger) Domain() types.Domain {
	return l.domain
}

// IsEnrolled returns true if the account has a commitment.
func (l *Ledger) IsEnrolled(account types.Address) (bool, error) {
	return enrollment.IsEnrolled(l.db, account)
}

// EnrolledCommitment returns the commitment of the account.
func (l *Ledger) EnrolledCommitment(account types.Address) (types.Commitment, error) {
	return enrollment.Commitment(l.db, account)
}

// GetNextNonce returns the authorization nonce the account must consume next.
func (l *Ledger) GetNextNonce(account types.Address) (uint64, error) {
	return nonces.Next(l.db, account)
}

// GetExecutionNonce returns the nonce the next intent of the account must carry.
func (l *Ledger) GetExecutionNonce(account types.Address) (uint64, error) {
	return relay.Nonce(l.db, account)
}

// Balance of the account.
func (l *Ledger) Balance(account types.Address) (uint64, error) {
	balance, err := accounts.Balance(l.db, account)
	if err != nil {
		return 0, core.Internal(err)
	}
	return balance, nil
}

// Version of the implementation behind the slot.
func (l *Ledger) Version() (string, error) {
	impl, err := l.implementation(l.db)
	if err != nil {
		return "", err
	}
	return impl.Version(), nil
}

// Implementation returns the record stored in the implementation slot.
func (l *Ledger) Implementation() (types.ImplementationRecord, error) {
	record, err := deployment.Implementation(l.db)
	switch {
	case errors.Is(err, sql.ErrNotFound):
		return types.ImplementationRecord{}, core.ErrNotInitialized
	case err != nil:
		return types.ImplementationRecord{}, core.Internal(err)
	}
	return record, nil
}

// Ownership returns the deployment-level privileged state.
func (l *Ledger) Ownership() (types.OwnershipState, error) {
	state, err := loadState(l.db)
	if err != nil {
		return types.OwnershipState{}, err
	}
	return *state, nil
}

// URLs returns gateway urls advertised in lookups.
func (l *Ledger) URLs() ([]string, error) {
	urls, err := deployment.URLs(l.db)
	if err != nil {
		return nil, core.Internal(err)
	}
	return urls, nil
}

// Events returns up to limit committed events starting from seq.
func (l *Ledger) Events(from uint64, limit int) ([]types.Event, error) {
	evs, err := eventlog.From(l.db, from, limit)
	if err != nil {
		return nil, core.Internal(err)
	}
	return evs, nil
}

// EventsOf returns committed events where account is the subject.
func (l *Ledger) EventsOf(account types.Address) ([]types.Event, error) {
	evs, err := eventlog.ByAccount(l.db, account)
	if err != nil {
		return nil, core.Internal(err)
	}
	return evs, nil
}

// State is everything the deployment persists apart from the implementation slot.
type State struct {
	Ownership     types.OwnershipState
	URLs          []string
	Enrollments   []types.Commitment
	Authorization map[types.Address]uint64
	Execution     map[types.Address]uint64
	Accounts      []types.Account
}

// Snapshot reads full state in a single transaction.
func (l *Ledger) Snapshot(ctx context.Context) (*State, error) {
	tx, err := l.db.Tx(ctx)
	if err != nil {
		return nil, core.Internal(err)
	}
	defer tx.Release()
	state, err := loadState(tx)
	if err != nil {
		return nil, err
	}
	snapshot := &State{Ownership: *state}
	if snapshot.URLs, err = deployment.URLs(tx); err != nil {
		return nil, core.Internal(err)
	}
	if err := enrollments.All(tx, func(commitment types.Commitment) bool {
		snapshot.Enrollments = append(snapshot.Enrollments, commitment)
		return true
	}); err != nil {
		return nil, core.Internal(err)
	}
	if snapshot.Authorization, err = sqlnonces.AllAuthorization(tx); err != nil {
		return nil, core.Internal(err)
	}
	if snapshot.Execution, err = sqlnonces.AllExecution(tx); err != nil {
		return nil, core.Internal(err)
	}
	if snapshot.Accounts, err = accounts.All(tx); err != nil {
		return nil, core.Internal(err)
	}
	return snapshot, nil
}
