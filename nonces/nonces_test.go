package nonces

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/keyward/keyward/common/types"
	"github.com/keyward/keyward/core"
	"github.com/keyward/keyward/sql"
)

func testContext(t *testing.T, caller types.Address) *core.Context {
	return &core.Context{
		Executor: sql.InMemory(),
		Call:     core.Call{Caller: caller},
		Now:      time.Unix(1000, 0),
		State:    &types.OwnershipState{},
		Logger:   zaptest.NewLogger(t),
	}
}

func TestSequential(t *testing.T) {
	account := types.Address{1}
	ctx := testContext(t, account)

	next, err := Next(ctx.Executor, account)
	require.NoError(t, err)
	require.EqualValues(t, 1, next)

	require.NoError(t, Consume(ctx, 1))
	require.ErrorIs(t, Consume(ctx, 1), core.ErrNonceAlreadyUsed)
	require.ErrorIs(t, Consume(ctx, 0), core.ErrNonceAlreadyUsed)
	require.NoError(t, Consume(ctx, 2))

	next, err = Next(ctx.Executor, account)
	require.NoError(t, err)
	require.EqualValues(t, 3, next)

	require.Len(t, ctx.Events(), 2)
	require.Equal(t, types.Event{
		Kind:      types.EventNonceUsed,
		Timestamp: 1000,
		Account:   account,
		Nonce:     2,
	}, ctx.Events()[1])
}

func TestHighWaterMark(t *testing.T) {
	account := types.Address{1}
	ctx := testContext(t, account)

	require.NoError(t, Consume(ctx, 5))
	require.ErrorIs(t, Consume(ctx, 5), core.ErrNonceAlreadyUsed)
	require.ErrorIs(t, Consume(ctx, 3), core.ErrNonceAlreadyUsed)

	next, err := Next(ctx.Executor, account)
	require.NoError(t, err)
	require.EqualValues(t, 6, next)

	require.NoError(t, ConsumeFor(ctx, account, 9, types.Hash32{1}))
	require.ErrorIs(t, ConsumeFor(ctx, account, 9, types.Hash32{2}), core.ErrNonceAlreadyUsed)
	next, err = Next(ctx.Executor, account)
	require.NoError(t, err)
	require.EqualValues(t, 10, next)
	require.Len(t, ctx.Events(), 2)
}

func TestIndependentAccounts(t *testing.T) {
	a, b := types.Address{1}, types.Address{2}
	ctx := testContext(t, a)
	require.NoError(t, Consume(ctx, 1))

	ctx.Call.Caller = b
	require.NoError(t, Consume(ctx, 1))

	next, err := Next(ctx.Executor, a)
	require.NoError(t, err)
	require.EqualValues(t, 2, next)
}

func TestPaused(t *testing.T) {
	ctx := testContext(t, types.Address{1})
	ctx.State.Paused = true
	require.ErrorIs(t, Consume(ctx, 1), core.ErrContractPaused)

	next, err := Next(ctx.Executor, types.Address{1})
	require.NoError(t, err)
	require.EqualValues(t, 1, next)
}
