package hash

import (
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSumChunksEqualConcatenation(t *testing.T) {
	require.Equal(t, Sum([]byte("face"), []byte("key")), Sum([]byte("facekey")))
	require.NotEqual(t, Sum([]byte("facekey")), Sum([]byte("facekeY")))
}

func TestKeccak256(t *testing.T) {
	// keccak256("") is a well known constant.
	empty := Keccak256()
	require.Equal(t,
		"c5d2460186f7233c927e7db2dcc703c0e500b653ca82273b7bfad8045d85a470",
		hex.EncodeToString(empty[:]),
	)
	require.Equal(t, Keccak256([]byte("a"), []byte("b")), Keccak256([]byte("ab")))
}
