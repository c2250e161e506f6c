package relay

import (
	"errors"
	"math/big"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap/zaptest"

	"github.com/keyward/keyward/common/types"
	"github.com/keyward/keyward/core"
	"github.com/keyward/keyward/core/mocks"
	"github.com/keyward/keyward/registry"
	"github.com/keyward/keyward/sql"
	"github.com/keyward/keyward/sql/accounts"
	sqlnonces "github.com/keyward/keyward/sql/nonces"
)

var (
	relayer   = types.Address{0xf0}
	recipient = types.Address{0xa1}
	domain    = types.Domain{
		Name:              "keyward",
		Version:           "1",
		ChainID:           1337,
		VerifyingContract: types.Address{0xcc},
	}
)

type tester struct {
	*core.Context
	t *testing.T
}

func newTester(t *testing.T) *tester {
	db := sql.InMemory()
	require.NoError(t, accounts.Update(db, &types.Account{Address: relayer, Balance: 100}))
	return &tester{
		t: t,
		Context: &core.Context{
			Executor: db,
			Call:     core.Call{Caller: relayer, Value: 1},
			Now:      time.Unix(1_700_000_000, 0),
			Domain:   domain,
			State:    &types.OwnershipState{},
			Callees:  registry.New[core.Callee](),
			Logger:   zaptest.NewLogger(t),
		},
	}
}

func (tt *tester) signed(nonce uint64, deadline time.Time) (*types.Intent, types.Address) {
	key, err := crypto.GenerateKey()
	require.NoError(tt.t, err)
	intent := &types.Intent{
		From:     AddressOf(key),
		To:       recipient,
		Value:    1,
		Nonce:    nonce,
		Deadline: uint64(deadline.Unix()),
	}
	require.NoError(tt.t, Sign(key, tt.Domain, intent))
	return intent, intent.From
}

func (tt *tester) balance(address types.Address) uint64 {
	balance, err := accounts.Balance(tt.Executor, address)
	require.NoError(tt.t, err)
	return balance
}

func TestExecuteIntent(t *testing.T) {
	tt := newTester(t)
	intent, signer := tt.signed(0, tt.Now.Add(time.Hour))

	require.NoError(t, ExecuteIntent(tt.Context, intent))
	require.EqualValues(t, 1, tt.balance(recipient))
	require.EqualValues(t, 99, tt.balance(relayer))
	nonce, err := Nonce(tt.Executor, signer)
	require.NoError(t, err)
	require.EqualValues(t, 1, nonce)

	require.Equal(t, types.Event{
		Kind:         types.EventIntentExecuted,
		Timestamp:    uint64(tt.Now.Unix()),
		Account:      signer,
		Counterparty: recipient,
		Nonce:        0,
		Value:        1,
		Hash:         Digest(domain, intent),
	}, tt.Events()[0])

	require.ErrorIs(t, ExecuteIntent(tt.Context, intent), core.ErrInvalidNonce)
}

func TestExecuteIntentDoesNotTouchAuthorizationNonces(t *testing.T) {
	tt := newTester(t)
	intent, signer := tt.signed(0, tt.Now.Add(time.Hour))
	require.NoError(t, ExecuteIntent(tt.Context, intent))

	last, err := sqlnonces.LastAuthorization(tt.Executor, signer)
	require.NoError(t, err)
	require.Zero(t, last)
}

func TestExecuteIntentRejected(t *testing.T) {
	for _, tc := range []struct {
		desc   string
		modify func(tt *tester, intent *types.Intent)
		err    error
	}{
		{
			desc: "deadline passed",
			modify: func(tt *tester, intent *types.Intent) {
				intent.Deadline = uint64(tt.Now.Unix()) - 1
				intent.Signature = nil
			},
			err: core.ErrDeadlineExpired,
		},
		{
			desc: "future nonce",
			modify: func(tt *tester, intent *types.Intent) {
				intent.Nonce = 1
			},
			err: core.ErrInvalidNonce,
		},
		{
			desc: "other signer",
			modify: func(tt *tester, intent *types.Intent) {
				other, _ := tt.signed(0, tt.Now.Add(time.Hour))
				intent.Signature = other.Signature
			},
			err: core.ErrInvalidSignature,
		},
		{
			desc: "other domain",
			modify: func(tt *tester, intent *types.Intent) {
				tt.Domain.ChainID++
			},
			err: core.ErrInvalidSignature,
		},
		{
			desc: "tampered value",
			modify: func(tt *tester, intent *types.Intent) {
				intent.Value = 2
				tt.Call.Value = 2
			},
			err: core.ErrInvalidSignature,
		},
		{
			desc: "short signature",
			modify: func(tt *tester, intent *types.Intent) {
				intent.Signature = intent.Signature[:64]
			},
			err: core.ErrInvalidSignature,
		},
		{
			desc: "value not attached",
			modify: func(tt *tester, intent *types.Intent) {
				tt.Call.Value = 0
			},
			err: core.ErrValueMismatch,
		},
		{
			desc: "relayer can't pay",
			modify: func(tt *tester, intent *types.Intent) {
				require.NoError(tt.t, accounts.Update(tt.Executor, &types.Account{Address: relayer}))
			},
			err: core.ErrInsufficientFunds,
		},
		{
			desc: "paused",
			modify: func(tt *tester, intent *types.Intent) {
				tt.State.Paused = true
			},
			err: core.ErrContractPaused,
		},
	} {
		t.Run(tc.desc, func(t *testing.T) {
			tt := newTester(t)
			intent, _ := tt.signed(0, tt.Now.Add(time.Hour))
			tc.modify(tt, intent)
			require.ErrorIs(t, ExecuteIntent(tt.Context, intent), tc.err)
			require.Empty(t, tt.Events())
		})
	}
}

func TestExecuteIntentInvokesCallee(t *testing.T) {
	tt := newTester(t)
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	intent := &types.Intent{
		From:     AddressOf(key),
		To:       recipient,
		Value:    1,
		Data:     []byte{1, 2, 3},
		Deadline: uint64(tt.Now.Add(time.Hour).Unix()),
	}
	require.NoError(t, Sign(key, domain, intent))

	callee := mocks.NewMockCallee(gomock.NewController(t))
	tt.Callees.Register(recipient, callee)
	callee.EXPECT().Call(tt.Context, intent.From, uint64(1), []byte{1, 2, 3}).Return(nil)

	require.NoError(t, ExecuteIntent(tt.Context, intent))
}

func TestExecuteIntentCalleeFailure(t *testing.T) {
	tt := newTester(t)
	intent, _ := tt.signed(0, tt.Now.Add(time.Hour))

	callee := mocks.NewMockCallee(gomock.NewController(t))
	tt.Callees.Register(recipient, callee)
	callee.EXPECT().Call(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("revert"))

	err := ExecuteIntent(tt.Context, intent)
	require.ErrorIs(t, err, core.ErrCallFailed)
	require.ErrorContains(t, err, "revert")
}

func TestSignatureMalleability(t *testing.T) {
	tt := newTester(t)
	intent, _ := tt.signed(0, tt.Now.Add(time.Hour))

	// s > n/2 is rejected even though it recovers the same key
	s := new(big.Int).SetBytes(intent.Signature[32:64])
	s.Sub(crypto.S256().Params().N, s)
	malleated := make([]byte, 65)
	copy(malleated, intent.Signature[:32])
	s.FillBytes(malleated[32:64])
	malleated[64] = 27 + (intent.Signature[64]-27)^1
	intent.Signature = malleated

	_, err := Recover(domain, intent)
	require.Error(t, err)
}

func TestTypedDataConstants(t *testing.T) {
	// keccak256("EIP712Domain(string name,string version,uint256 chainId,address verifyingContract)")
	require.Equal(t,
		"0x8b73c3c69bb8fe3d512ecc4cf759cc79239f7b179b0ffacaa9a75d522b39400f",
		domainTypeHash.Hex(),
	)
	require.NotEqual(t, DomainSeparator(domain), DomainSeparator(types.Domain{Name: "keyward", Version: "2"}))
}

func TestVerifySubmission(t *testing.T) {
	tt := newTester(t)
	intent, _ := tt.signed(0, tt.Now.Add(time.Hour))
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	submitter := AddressOf(key)

	sig, err := SignSubmission(key, domain, intent, 1)
	require.NoError(t, err)
	require.NoError(t, VerifySubmission(domain, submitter, intent, 1, sig))

	for _, tc := range []struct {
		desc    string
		relayer types.Address
		value   uint64
		sig     []byte
	}{
		{"other relayer", relayer, 1, sig},
		{"other value", submitter, 2, sig},
		{"intent signature", submitter, 1, intent.Signature},
		{"short", submitter, 1, sig[:64]},
	} {
		t.Run(tc.desc, func(t *testing.T) {
			err := VerifySubmission(domain, tc.relayer, intent, tc.value, tc.sig)
			require.ErrorIs(t, err, core.ErrInvalidSignature)
		})
	}

	other := *intent
	other.Nonce = 1
	require.ErrorIs(t, VerifySubmission(domain, submitter, &other, 1, sig), core.ErrInvalidSignature)
}
