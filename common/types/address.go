package types

import (
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/spacemeshos/go-scale"
)

// AddressLength is the expected length of the address.
const AddressLength = 20

var (
	// ErrWrongAddressLength is returned when the length of the address is not correct.
	ErrWrongAddressLength = errors.New("wrong address length")
	// ErrMissingPrefix is returned when hex address is not prefixed with 0x.
	ErrMissingPrefix = errors.New("missing 0x prefix")
)

// Address identifies an account, an implementation, a verifier or the deployment itself.
type Address [AddressLength]byte

// BytesToAddress returns Address with value b.
// If b is larger than len(a), b will be cropped from the left.
func BytesToAddress(b []byte) Address {
	var a Address
	if len(b) > len(a) {
		b = b[len(b)-AddressLength:]
	}
	copy(a[AddressLength-len(b):], b)
	return a
}

// HexToAddress parses 0x prefixed hex string into an Address.
func HexToAddress(src string) (Address, error) {
	var addr Address
	if !strings.HasPrefix(src, "0x") && !strings.HasPrefix(src, "0X") {
		return addr, fmt.Errorf("%w: %q", ErrMissingPrefix, src)
	}
	raw, err := hex.DecodeString(src[2:])
	if err != nil {
		return addr, fmt.Errorf("decode address %q: %w", src, err)
	}
	if len(raw) != AddressLength {
		return addr, fmt.Errorf("expected %d bytes, got %d: %w", AddressLength, len(raw), ErrWrongAddressLength)
	}
	copy(addr[:], raw)
	return addr, nil
}

// MustHexToAddress is HexToAddress that panics on invalid input. Use only for constants.
func MustHexToAddress(src string) Address {
	addr, err := HexToAddress(src)
	if err != nil {
		panic(err)
	}
	return addr
}

// Bytes gets the byte representation of the underlying address.
func (a Address) Bytes() []byte { return a[:] }

// IsEmpty checks if address is zero.
func (a Address) IsEmpty() bool {
	return a == Address{}
}

// Hex returns EIP-55 checksummed representation of the address.
func (a Address) Hex() string {
	return common.Address(a).Hex()
}

// String implements fmt.Stringer.
func (a Address) String() string {
	return a.Hex()
}

// ShortString returns the first 5 hex characters of the address, for logging purposes.
func (a Address) ShortString() string {
	return hex.EncodeToString(a[:3])[:5]
}

// Format implements fmt.Formatter, forcing the byte slice to be formatted as is,
// without going through the stringer interface used for logging.
func (a Address) Format(s fmt.State, c rune) {
	switch c {
	case 'v', 's':
		_, _ = fmt.Fprint(s, a.Hex())
	default:
		_, _ = fmt.Fprintf(s, "%"+string(c), a[:])
	}
}

// MarshalText returns the checksummed hex representation of a.
func (a Address) MarshalText() ([]byte, error) {
	return []byte(a.Hex()), nil
}

// UnmarshalText parses an address in hex syntax.
func (a *Address) UnmarshalText(input []byte) error {
	parsed, err := HexToAddress(string(input))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

// EncodeScale implements scale codec interface.
func (a *Address) EncodeScale(e *scale.Encoder) (int, error) {
	return scale.EncodeByteArray(e, a[:])
}

// DecodeScale implements scale codec interface.
func (a *Address) DecodeScale(d *scale.Decoder) (int, error) {
	return scale.DecodeByteArray(d, a[:])
}
