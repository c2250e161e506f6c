package types

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/spacemeshos/go-scale"
	"github.com/stretchr/testify/require"
)

func TestHexToAddress(t *testing.T) {
	for _, tc := range []struct {
		desc string
		src  string
		err  error
	}{
		{desc: "valid", src: "0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed"},
		{desc: "lowercase", src: "0x5aaeb6053f3e94c9b9a09f33669435e7ef1beaed"},
		{desc: "no prefix", src: "5aaeb6053f3e94c9b9a09f33669435e7ef1beaed", err: ErrMissingPrefix},
		{desc: "short", src: "0x5aaeb6053f", err: ErrWrongAddressLength},
	} {
		t.Run(tc.desc, func(t *testing.T) {
			addr, err := HexToAddress(tc.src)
			if tc.err != nil {
				require.ErrorIs(t, err, tc.err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, "0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed", addr.Hex())
		})
	}
}

func TestAddressJSON(t *testing.T) {
	addr := Address{1, 2, 3}
	encoded, err := json.Marshal(addr)
	require.NoError(t, err)

	var decoded Address
	require.NoError(t, json.Unmarshal(encoded, &decoded))
	require.Equal(t, addr, decoded)
}

func TestOwnershipStateScale(t *testing.T) {
	state := OwnershipState{
		Owner:            Address{1},
		PendingOwner:     Address{2},
		Paused:           true,
		Verifier:         Address{3},
		ResponseVerifier: Address{4},
	}
	var buf bytes.Buffer
	_, err := state.EncodeScale(scale.NewEncoder(&buf))
	require.NoError(t, err)

	var decoded OwnershipState
	_, err = decoded.DecodeScale(scale.NewDecoder(&buf))
	require.NoError(t, err)
	require.Equal(t, state, decoded)
}

func TestBytesToAddressCropsFromLeft(t *testing.T) {
	raw := make([]byte, 32)
	raw[31] = 7
	raw[0] = 9
	addr := BytesToAddress(raw)
	require.Equal(t, byte(7), addr[AddressLength-1])
	require.Equal(t, byte(0), addr[0])
}
