package types

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/spacemeshos/go-scale"

	"github.com/keyward/keyward/hash"
)

// Hash32Length is 32, the expected length of the hash.
const Hash32Length = 32

// Hash32 represents a 32-byte digest: commitments, typed-data digests, request hashes.
type Hash32 [Hash32Length]byte

// BytesToHash sets b to hash.
// If b is larger than len(h), b will be cropped from the left.
func BytesToHash(b []byte) Hash32 {
	var h Hash32
	h.SetBytes(b)
	return h
}

// HexToHash parses a 0x prefixed hex string into a Hash32.
func HexToHash(src string) (Hash32, error) {
	var h Hash32
	src = strings.TrimPrefix(strings.TrimPrefix(src, "0x"), "0X")
	raw, err := hex.DecodeString(src)
	if err != nil {
		return h, fmt.Errorf("decode hash: %w", err)
	}
	if len(raw) != Hash32Length {
		return h, fmt.Errorf("expected %d bytes for hash, got %d", Hash32Length, len(raw))
	}
	copy(h[:], raw)
	return h, nil
}

// CalcHash32 returns the 32-byte blake3 sum of the given data.
func CalcHash32(data []byte) Hash32 {
	return hash.Sum(data)
}

// Keccak256 returns keccak256 of the concatenated chunks as a Hash32.
func Keccak256(chunks ...[]byte) Hash32 {
	return hash.Keccak256(chunks...)
}

// SetBytes sets the hash to the value of b.
// If b is larger than len(h), b will be cropped from the left.
func (h *Hash32) SetBytes(b []byte) {
	if len(b) > len(h) {
		b = b[len(b)-Hash32Length:]
	}
	copy(h[Hash32Length-len(b):], b)
}

// Bytes gets the byte representation of the underlying hash.
func (h Hash32) Bytes() []byte { return h[:] }

// IsEmpty checks if hash is all zeroes.
func (h Hash32) IsEmpty() bool {
	return h == Hash32{}
}

// Hex converts a hash to a 0x prefixed hex string.
func (h Hash32) Hex() string { return "0x" + hex.EncodeToString(h[:]) }

// String implements the stringer interface and is used also by the logger.
func (h Hash32) String() string {
	return h.Hex()
}

// ShortString returns the first 5 characters of the hash, for logging purposes.
func (h Hash32) ShortString() string {
	return hex.EncodeToString(h[:3])[:5]
}

// MarshalText returns the hex representation of h.
func (h Hash32) MarshalText() ([]byte, error) {
	return []byte(h.Hex()), nil
}

// UnmarshalText parses a hash in hex syntax.
func (h *Hash32) UnmarshalText(input []byte) error {
	parsed, err := HexToHash(string(input))
	if err != nil {
		return err
	}
	*h = parsed
	return nil
}

// EncodeScale implements scale codec interface.
func (h *Hash32) EncodeScale(e *scale.Encoder) (int, error) {
	return scale.EncodeByteArray(e, h[:])
}

// DecodeScale implements scale codec interface.
func (h *Hash32) DecodeScale(d *scale.Decoder) (int, error) {
	return scale.DecodeByteArray(d, h[:])
}

// Selector is the 4 byte identifier of an entry point.
type Selector [4]byte

// SelectorOf returns the first 4 bytes of keccak256 of the entry point signature.
func SelectorOf(signature string) Selector {
	var s Selector
	h := Keccak256([]byte(signature))
	copy(s[:], h[:4])
	return s
}

// Hex returns 0x prefixed hex of the selector.
func (s Selector) Hex() string { return "0x" + hex.EncodeToString(s[:]) }

// String implements fmt.Stringer.
func (s Selector) String() string { return s.Hex() }

// MarshalText returns the hex representation of s.
func (s Selector) MarshalText() ([]byte, error) {
	return []byte(s.Hex()), nil
}

// UnmarshalText parses a 0x prefixed hex selector.
func (s *Selector) UnmarshalText(input []byte) error {
	src := strings.TrimPrefix(strings.TrimPrefix(string(input), "0x"), "0X")
	raw, err := hex.DecodeString(src)
	if err != nil {
		return fmt.Errorf("decode selector: %w", err)
	}
	if len(raw) != len(s) {
		return fmt.Errorf("expected %d bytes for selector, got %d", len(s), len(raw))
	}
	copy(s[:], raw)
	return nil
}
