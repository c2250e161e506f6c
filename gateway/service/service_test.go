package service

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/jonboulle/clockwork"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/keyward/keyward/codec"
	"github.com/keyward/keyward/common/types"
	"github.com/keyward/keyward/core"
	"github.com/keyward/keyward/gateway"
	"github.com/keyward/keyward/signing"
)

var sender = types.Address{0xcc}

const records = `{"alice.eth": {"": "0xa11ce", "email": "alice@example.com"}}`

func testService(t *testing.T) (*Service, *signing.EdSigner, *clockwork.FakeClock) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/srv/records.json", []byte(records), 0o600))
	loaded, err := LoadRecords(fs, "/srv/records.json")
	require.NoError(t, err)

	signer, err := signing.NewEdSigner()
	require.NoError(t, err)
	clock := clockwork.NewFakeClockAt(time.Unix(1_700_000_000, 0))
	return New(signer, loaded,
		WithLogger(zaptest.NewLogger(t)),
		WithClock(clock),
		WithTTL(time.Minute),
	), signer, clock
}

func callData(name, query string) []byte {
	return codec.MustEncode(&gateway.Request{Name: []byte(name), Query: []byte(query)})
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) gateway.SignedResponse {
	t.Helper()
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var resp gateway.LookupResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	raw, err := hexutil.Decode(resp.Data)
	require.NoError(t, err)
	var signed gateway.SignedResponse
	require.NoError(t, codec.Decode(raw, &signed))
	return signed
}

func TestLoadRecordsMissing(t *testing.T) {
	_, err := LoadRecords(afero.NewMemMapFs(), "/none.json")
	require.Error(t, err)
}

func TestGet(t *testing.T) {
	svc, signer, clock := testService(t)
	data := callData("alice.eth", "email")
	url, get := gateway.ExpandURL("/{sender}/{data}.json", sender, data)
	require.True(t, get)

	rec := httptest.NewRecorder()
	svc.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, url, nil))
	signed := decode(t, rec)

	require.Equal(t, []byte("alice@example.com"), signed.Result)
	require.Equal(t, uint64(clock.Now().Add(time.Minute).Unix()), signed.Expires)
	require.Equal(t, signer.PublicKey().Array(), signed.Signer)

	digest := gateway.ResponseDigest(sender, signed.Expires, data, signed.Result)
	require.True(t, signing.NewEdVerifier().Verify(signing.GATEWAY, signed.Signer, digest[:], signed.Signature))
}

func TestPostVerifiedByLedgerVerifier(t *testing.T) {
	svc, signer, clock := testService(t)
	data := callData("alice.eth", "")
	body, err := json.Marshal(gateway.LookupRequest{Sender: sender.Hex(), Data: hexutil.Encode(data)})
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/"+sender.Hex(), bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	svc.Handler().ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp gateway.LookupResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	response, err := hexutil.Decode(resp.Data)
	require.NoError(t, err)

	ctx := &core.Context{
		Now:    clock.Now(),
		Domain: types.Domain{VerifyingContract: sender},
		Logger: zaptest.NewLogger(t),
	}
	extra := codec.MustEncode(&gateway.ExtraData{Sender: sender, CallData: data})
	result, err := gateway.NewSignedResponseVerifier(nil, signer.PublicKey()).VerifyResponse(ctx, response, extra)
	require.NoError(t, err)
	require.Equal(t, []byte("0xa11ce"), result)
}

func TestRejected(t *testing.T) {
	svc, _, _ := testService(t)
	for _, tc := range []struct {
		desc   string
		method string
		url    string
		body   string
		status int
	}{
		{
			desc:   "unknown name",
			method: http.MethodGet,
			url:    "/" + sender.Hex() + "/" + hexutil.Encode(callData("bob.eth", "")),
			status: http.StatusNotFound,
		},
		{
			desc:   "unknown query",
			method: http.MethodGet,
			url:    "/" + sender.Hex() + "/" + hexutil.Encode(callData("alice.eth", "avatar")),
			status: http.StatusNotFound,
		},
		{
			desc:   "bad sender",
			method: http.MethodGet,
			url:    "/cc/" + hexutil.Encode(callData("alice.eth", "")),
			status: http.StatusBadRequest,
		},
		{
			desc:   "bad data",
			method: http.MethodGet,
			url:    "/" + sender.Hex() + "/0xzz",
			status: http.StatusBadRequest,
		},
		{
			desc:   "not a request",
			method: http.MethodGet,
			url:    "/" + sender.Hex() + "/0x0102",
			status: http.StatusBadRequest,
		},
		{
			desc:   "sender mismatch",
			method: http.MethodPost,
			url:    "/" + sender.Hex(),
			body:   `{"sender": "0x0000000000000000000000000000000000000001", "data": "0x"}`,
			status: http.StatusBadRequest,
		},
		{
			desc:   "malformed body",
			method: http.MethodPost,
			url:    "/" + sender.Hex(),
			body:   `{`,
			status: http.StatusBadRequest,
		},
	} {
		t.Run(tc.desc, func(t *testing.T) {
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(tc.method, tc.url, bytes.NewBufferString(tc.body))
			svc.Handler().ServeHTTP(rec, req)
			require.Equal(t, tc.status, rec.Code)

			var lerr gateway.LookupError
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &lerr))
			require.NotEmpty(t, lerr.Message)
		})
	}
}
