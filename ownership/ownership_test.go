package ownership

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap/zaptest"

	"github.com/keyward/keyward/common/types"
	"github.com/keyward/keyward/core"
	"github.com/keyward/keyward/core/mocks"
	"github.com/keyward/keyward/registry"
	"github.com/keyward/keyward/sql"
	"github.com/keyward/keyward/sql/deployment"
)

var (
	owner     = types.Address{0xaa}
	candidate = types.Address{0xbb}
	stranger  = types.Address{0xcc}
)

func testContext(t *testing.T, caller types.Address) *core.Context {
	return &core.Context{
		Executor:          sql.InMemory(),
		Call:              core.Call{Caller: caller},
		Now:               time.Unix(1000, 0),
		State:             &types.OwnershipState{Owner: owner},
		Verifiers:         registry.New[core.Verifier](),
		ResponseVerifiers: registry.New[core.ResponseVerifier](),
		Logger:            zaptest.NewLogger(t),
	}
}

func TestTwoStepTransfer(t *testing.T) {
	ctx := testContext(t, owner)
	require.NoError(t, Transfer(ctx, candidate))
	require.Equal(t, owner, ctx.State.Owner)
	require.Equal(t, candidate, ctx.State.PendingOwner)

	ctx.Call.Caller = stranger
	require.ErrorIs(t, Accept(ctx), core.ErrUnauthorized)

	ctx.Call.Caller = candidate
	require.NoError(t, Accept(ctx))
	require.Equal(t, candidate, ctx.State.Owner)
	require.True(t, ctx.State.PendingOwner.IsEmpty())

	ctx.Call.Caller = owner
	require.ErrorIs(t, Pause(ctx), core.ErrUnauthorized)

	require.Equal(t, []types.EventKind{
		types.EventOwnershipTransferStarted,
		types.EventOwnershipTransferred,
	}, kinds(ctx.Events()))
}

func TestTransferZeroCancels(t *testing.T) {
	ctx := testContext(t, owner)
	require.NoError(t, Transfer(ctx, candidate))
	require.NoError(t, Transfer(ctx, types.Address{}))

	ctx.Call.Caller = candidate
	require.ErrorIs(t, Accept(ctx), core.ErrUnauthorized)
}

func TestOnlyOwner(t *testing.T) {
	for _, tc := range []struct {
		desc string
		fn   func(*core.Context) error
	}{
		{"transfer", func(ctx *core.Context) error { return Transfer(ctx, candidate) }},
		{"renounce", Renounce},
		{"pause", Pause},
		{"unpause", Unpause},
		{"verifier", func(ctx *core.Context) error { return SetVerifier(ctx, types.Address{1}) }},
		{"response verifier", func(ctx *core.Context) error { return SetResponseVerifier(ctx, types.Address{}) }},
		{"urls", func(ctx *core.Context) error { return SetURLs(ctx, []string{"https://gw"}) }},
	} {
		t.Run(tc.desc, func(t *testing.T) {
			ctx := testContext(t, stranger)
			before := *ctx.State
			require.ErrorIs(t, tc.fn(ctx), core.ErrUnauthorized)
			require.Equal(t, before, *ctx.State)
			require.Empty(t, ctx.Events())
		})
	}
}

func TestRenounce(t *testing.T) {
	ctx := testContext(t, owner)
	require.NoError(t, Transfer(ctx, candidate))
	require.NoError(t, Renounce(ctx))
	require.True(t, ctx.State.Owner.IsEmpty())
	require.True(t, ctx.State.PendingOwner.IsEmpty())
	require.ErrorIs(t, Pause(ctx), core.ErrUnauthorized)

	ctx.Call.Caller = types.Address{}
	require.ErrorIs(t, Pause(ctx), core.ErrUnauthorized)
}

func TestPauseUnpause(t *testing.T) {
	ctx := testContext(t, owner)
	require.ErrorIs(t, Unpause(ctx), core.ErrNotPaused)
	require.NoError(t, Pause(ctx))
	require.ErrorIs(t, Pause(ctx), core.ErrContractPaused)
	require.ErrorIs(t, RequireNotPaused(ctx), core.ErrContractPaused)

	require.ErrorIs(t, SetURLs(ctx, []string{"https://gw"}), core.ErrContractPaused)
	require.ErrorIs(t, SetVerifier(ctx, types.Address{1}), core.ErrContractPaused)

	require.NoError(t, Transfer(ctx, candidate))
	ctx.Call.Caller = candidate
	require.NoError(t, Accept(ctx))

	require.NoError(t, Unpause(ctx))
	require.NoError(t, RequireNotPaused(ctx))
}

func TestSetVerifier(t *testing.T) {
	ctrl := gomock.NewController(t)
	ctx := testContext(t, owner)
	address := types.Address{1}

	require.ErrorIs(t, SetVerifier(ctx, types.Address{}), core.ErrZeroAddress)
	require.ErrorIs(t, SetVerifier(ctx, address), core.ErrUnknownVerifier)

	ctx.Verifiers.Register(address, mocks.NewMockVerifier(ctrl))
	require.NoError(t, SetVerifier(ctx, address))
	require.Equal(t, address, ctx.State.Verifier)
	require.Equal(t, types.Event{
		Kind:         types.EventVerifierUpdated,
		Timestamp:    1000,
		Counterparty: address,
	}, ctx.Events()[0])
}

func TestSetResponseVerifier(t *testing.T) {
	ctx := testContext(t, owner)
	require.ErrorIs(t, SetResponseVerifier(ctx, types.Address{2}), core.ErrUnknownVerifier)
	require.NoError(t, SetResponseVerifier(ctx, types.Address{}))
	require.True(t, ctx.State.ResponseVerifier.IsEmpty())
}

func TestSetURLs(t *testing.T) {
	ctx := testContext(t, owner)

	require.ErrorIs(t, SetURLs(ctx, nil), core.ErrEmptyUrl)
	require.ErrorIs(t, SetURLs(ctx, []string{"https://gw", " "}), core.ErrEmptyUrl)
	require.ErrorIs(t, SetURLs(ctx, make([]string, deployment.MaxURLs+1)), core.ErrTooManyUrls)

	urls := []string{"https://a/{sender}/{data}", "https://b/"}
	require.NoError(t, SetURLs(ctx, urls))
	got, err := deployment.URLs(ctx.Executor)
	require.NoError(t, err)
	require.Equal(t, urls, got)
	require.Equal(t, "https://a/{sender}/{data} https://b/", ctx.Events()[0].Text)
}

func kinds(events []types.Event) []types.EventKind {
	rst := make([]types.EventKind, 0, len(events))
	for _, ev := range events {
		rst = append(rst, ev.Kind)
	}
	return rst
}
