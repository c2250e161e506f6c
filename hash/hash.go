package hash

import (
	"github.com/ethereum/go-ethereum/crypto"
)

// Size of the digests produced by this package.
const Size = 32

// Sum computes blake3 over the concatenation of the chunks.
func Sum(chunks ...[]byte) (rst [Size]byte) {
	hh := GetHasher()
	defer func() {
		hh.Reset()
		PutHasher(hh)
	}()
	for _, chunk := range chunks {
		hh.Write(chunk)
	}
	hh.Sum(rst[:0])
	return rst
}

// Keccak256 computes legacy keccak256 over the concatenation of the chunks.
// It is used wherever digests must match the typed-data and selector
// conventions expected by external signers.
func Keccak256(chunks ...[]byte) (rst [Size]byte) {
	copy(rst[:], crypto.Keccak256(chunks...))
	return rst
}
