package ledger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/keyward/keyward/common/types"
	"github.com/keyward/keyward/core"
	"github.com/keyward/keyward/ownership"
	"github.com/keyward/keyward/sql"
	"github.com/keyward/keyward/sql/accounts"
	"github.com/keyward/keyward/sql/deployment"
)

// UpgradeToAndCall points the implementation slot to address. Migration of the new
// implementation runs in the same transaction when data is not empty.
func (l *Ledger) UpgradeToAndCall(ctx context.Context, call core.Call, address types.Address, data []byte) error {
	return l.apply(ctx, "upgrade", call, func(cctx *core.Context, _ core.Implementation) error {
		if err := ownership.RequireOwner(cctx); err != nil {
			return err
		}
		if err := ownership.RequireNotPaused(cctx); err != nil {
			return err
		}
		next, err := l.setImplementation(cctx, address)
		if err != nil {
			return err
		}
		if len(data) > 0 {
			if err := next.Migrate(cctx, data); err != nil {
				return fmt.Errorf("migrate to %s: %w", next.Version(), err)
			}
		}
		return nil
	})
}

func (l *Ledger) setImplementation(cctx *core.Context, address types.Address) (core.Implementation, error) {
	if address.IsEmpty() {
		return nil, core.ErrZeroAddress
	}
	impl, exist := l.implementations.Get(address)
	if !exist {
		return nil, fmt.Errorf("%w: %s", core.ErrUnknownImplementation, address)
	}
	record := types.ImplementationRecord{Address: address, UpgradedAt: cctx.Timestamp()}
	if err := deployment.SetImplementation(cctx.Executor, &record); err != nil {
		return nil, core.Internal(err)
	}
	cctx.Emit(types.Event{
		Kind:         types.EventUpgraded,
		Counterparty: address,
		Text:         impl.Version(),
	})
	cctx.Logger.Info("upgraded",
		zap.Stringer("implementation", address),
		zap.String("version", impl.Version()),
	)
	return impl, nil
}

// InitParams is the configuration of a new deployment.
type InitParams struct {
	Implementation   types.Address
	Verifier         types.Address
	ResponseVerifier types.Address
	URLs             []string
	// Balances are credited once, at initialization.
	Balances []types.Account
}

// Initialize creates the deployment. It can succeed only once.
func (l *Ledger) Initialize(ctx context.Context, owner types.Address, params InitParams) (err error) {
	call := core.Call{Caller: owner}
	start := time.Now()
	defer func() { observe("initialize", err, start) }()

	l.mu.Lock()
	defer l.mu.Unlock()

	var committed []types.Event
	err = l.db.WithTxImmediate(ctx, func(tx *sql.Tx) error {
		_, err := deployment.Ownership(tx)
		switch {
		case err == nil:
			return core.ErrAlreadyInitialized
		case !errors.Is(err, sql.ErrNotFound):
			return core.Internal(err)
		}
		if owner.IsEmpty() {
			return fmt.Errorf("%w: owner", core.ErrZeroAddress)
		}
		state := &types.OwnershipState{Owner: owner}
		cctx := l.newContext(tx, call, state)
		if _, err := l.setImplementation(cctx, params.Implementation); err != nil {
			return err
		}
		if err := ownership.SetVerifier(cctx, params.Verifier); err != nil {
			return err
		}
		if !params.ResponseVerifier.IsEmpty() {
			if err := ownership.SetResponseVerifier(cctx, params.ResponseVerifier); err != nil {
				return err
			}
		}
		if err := ownership.SetURLs(cctx, params.URLs); err != nil {
			return err
		}
		for i := range params.Balances {
			if err := accounts.Update(tx, &params.Balances[i]); err != nil {
				return core.Internal(err)
			}
		}
		if err := deployment.SetOwnership(tx, state); err != nil {
			return core.Internal(err)
		}
		committed, err = l.persist(tx, cctx.Events())
		return err
	})
	l.report("initialize", call, err, committed)
	return err
}
