package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/require"

	"github.com/keyward/keyward/common/types"
	"github.com/keyward/keyward/core"
	"github.com/keyward/keyward/gateway"
	"github.com/keyward/keyward/gateway/service"
	"github.com/keyward/keyward/ledger"
	"github.com/keyward/keyward/log/logtest"
	"github.com/keyward/keyward/recovery"
	"github.com/keyward/keyward/registry"
	"github.com/keyward/keyward/signing"
	"github.com/keyward/keyward/sql"
	"github.com/keyward/keyward/verifier"
)

var (
	owner    = types.Address{0x0e}
	caller   = types.Address{0xca}
	impl     = types.Address{0x01}
	liveness = types.Address{0x02}
	signed   = types.Address{0x03}
	domain   = types.Domain{Name: "keyward", Version: "1", ChainID: 1, VerifyingContract: types.Address{0xcc}}
)

func testConfig() Config {
	return Config{RetryMax: 0, RetryWaitMin: time.Millisecond, RetryWaitMax: time.Millisecond, CacheSize: 16}
}

func gatewayServer(t *testing.T, opts ...service.Opt) (*httptest.Server, *signing.EdSigner, *atomic.Int32) {
	signer, err := signing.NewEdSigner()
	require.NoError(t, err)
	svc := service.New(signer, service.Records{"alice.eth": {"": "0xa11ce"}}, opts...)
	var hits atomic.Int32
	handler := svc.Handler()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		handler.ServeHTTP(w, r)
	}))
	t.Cleanup(srv.Close)
	return srv, signer, &hits
}

func failing(t *testing.T, status int) (*httptest.Server, *atomic.Int32) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(status)
		_, _ = w.Write([]byte(`{"message": "unavailable"}`))
	}))
	t.Cleanup(srv.Close)
	return srv, &hits
}

func testLedger(t *testing.T, signer *signing.EdSigner, urls ...string) *ledger.Ledger {
	return clockedLedger(t, signer, clockwork.NewRealClock(), urls...)
}

func clockedLedger(t *testing.T, signer *signing.EdSigner, clock clockwork.Clock, urls ...string) *ledger.Ledger {
	impls := registry.New[core.Implementation]()
	impls.Register(impl, recovery.New(recovery.Version))
	verifiers := registry.New[core.Verifier]()
	verifiers.Register(liveness, verifier.Static(true))
	responses := registry.New[core.ResponseVerifier]()
	responses.Register(signed, gateway.NewSignedResponseVerifier(nil, signer.PublicKey()))

	db := sql.InMemory()
	t.Cleanup(func() { require.NoError(t, db.Close()) })
	l := ledger.New(db, domain,
		ledger.WithLogger(logtest.New(t)),
		ledger.WithClock(clock),
		ledger.WithImplementations(impls),
		ledger.WithVerifiers(verifiers),
		ledger.WithResponseVerifiers(responses),
	)
	require.NoError(t, l.Initialize(context.Background(), owner, ledger.InitParams{
		Implementation:   impl,
		Verifier:         liveness,
		ResponseVerifier: signed,
		URLs:             urls,
	}))
	return l
}

func TestResolve(t *testing.T) {
	for _, template := range []string{"/{sender}/{data}.json", "/{sender}"} {
		t.Run(template, func(t *testing.T) {
			srv, signer, hits := gatewayServer(t)
			l := testLedger(t, signer, srv.URL+template)
			c, err := New(l, caller, testConfig(), WithLogger(logtest.New(t)))
			require.NoError(t, err)

			result, err := c.Resolve(context.Background(), []byte("alice.eth"), nil)
			require.NoError(t, err)
			require.Equal(t, []byte("0xa11ce"), result)
			require.EqualValues(t, 1, hits.Load())

			result, err = c.Resolve(context.Background(), []byte("alice.eth"), nil)
			require.NoError(t, err)
			require.Equal(t, []byte("0xa11ce"), result)
			require.EqualValues(t, 1, hits.Load(), "served from cache")

			c.Purge()
			_, err = c.Resolve(context.Background(), []byte("alice.eth"), nil)
			require.NoError(t, err)
			require.EqualValues(t, 2, hits.Load())
		})
	}
}

func TestResolveCacheExpires(t *testing.T) {
	clock := clockwork.NewFakeClockAt(time.Unix(1_700_000_000, 0))
	srv, signer, hits := gatewayServer(t, service.WithClock(clock), service.WithTTL(time.Minute))
	l := clockedLedger(t, signer, clock, srv.URL+"/{sender}/{data}")
	c, err := New(l, caller, testConfig(), WithClock(clock))
	require.NoError(t, err)

	for _, tc := range []struct {
		desc    string
		advance time.Duration
		hits    int32
	}{
		{desc: "first lookup", hits: 1},
		{desc: "before expiry", advance: 30 * time.Second, hits: 1},
		{desc: "after expiry", advance: 31 * time.Second, hits: 2},
		{desc: "refreshed", advance: 30 * time.Second, hits: 2},
	} {
		clock.Advance(tc.advance)
		result, err := c.Resolve(context.Background(), []byte("alice.eth"), nil)
		require.NoError(t, err, tc.desc)
		require.Equal(t, []byte("0xa11ce"), result, tc.desc)
		require.EqualValues(t, tc.hits, hits.Load(), tc.desc)
	}
}

func TestExpiry(t *testing.T) {
	signer, err := signing.NewEdSigner()
	require.NoError(t, err)
	result := []byte("0xa11ce")
	response := gateway.SignResponse(signer, types.Address{1}, 100, []byte("request"), result)

	require.Equal(t, time.Unix(100, 0), expiry(response, result))
	require.True(t, expiry(response, []byte("other")).IsZero())
	require.True(t, expiry(result, result).IsZero())
}

func TestResolveFailover(t *testing.T) {
	down, downHits := failing(t, http.StatusServiceUnavailable)
	srv, signer, hits := gatewayServer(t)
	l := testLedger(t, signer, down.URL+"/{sender}/{data}", srv.URL+"/{sender}")
	c, err := New(l, caller, testConfig())
	require.NoError(t, err)

	result, err := c.Resolve(context.Background(), []byte("alice.eth"), nil)
	require.NoError(t, err)
	require.Equal(t, []byte("0xa11ce"), result)
	require.EqualValues(t, 1, downHits.Load())
	require.EqualValues(t, 1, hits.Load())
}

func TestResolveClientErrorStops(t *testing.T) {
	bad, badHits := failing(t, http.StatusBadRequest)
	srv, signer, hits := gatewayServer(t)
	l := testLedger(t, signer, bad.URL+"/{sender}/{data}", srv.URL+"/{sender}")
	c, err := New(l, caller, testConfig())
	require.NoError(t, err)

	_, err = c.Resolve(context.Background(), []byte("alice.eth"), nil)
	require.ErrorIs(t, err, ErrLookupFailed)
	require.ErrorContains(t, err, "unavailable")
	require.EqualValues(t, 1, badHits.Load())
	require.Zero(t, hits.Load())
}

func TestResolveUnknownName(t *testing.T) {
	srv, signer, _ := gatewayServer(t)
	l := testLedger(t, signer, srv.URL+"/{sender}/{data}")
	c, err := New(l, caller, testConfig())
	require.NoError(t, err)

	_, err = c.Resolve(context.Background(), []byte("bob.eth"), nil)
	require.ErrorIs(t, err, ErrLookupFailed)
}

func TestResolveRejectedByVerifier(t *testing.T) {
	srv, _, _ := gatewayServer(t)
	other, err := signing.NewEdSigner()
	require.NoError(t, err)
	l := testLedger(t, other, srv.URL+"/{sender}/{data}")
	c, err := New(l, caller, testConfig())
	require.NoError(t, err)

	_, err = c.Resolve(context.Background(), []byte("alice.eth"), nil)
	require.ErrorIs(t, err, core.ErrInvalidResponse)
}

func TestResolvePaused(t *testing.T) {
	srv, signer, hits := gatewayServer(t)
	l := testLedger(t, signer, srv.URL+"/{sender}/{data}")
	require.NoError(t, l.Pause(context.Background(), core.Call{Caller: owner}))
	c, err := New(l, caller, testConfig())
	require.NoError(t, err)

	_, err = c.Resolve(context.Background(), []byte("alice.eth"), nil)
	require.ErrorIs(t, err, core.ErrContractPaused)
	require.Zero(t, hits.Load())
}
