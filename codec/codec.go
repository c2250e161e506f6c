package codec

import (
	"bytes"
	"fmt"
	"io"
	"sync"

	"github.com/spacemeshos/go-scale"
)

// EncodeTo encodes value to a writer stream.
func EncodeTo(w io.Writer, value scale.Encodable) (int, error) {
	return value.EncodeScale(scale.NewEncoder(w))
}

// DecodeFrom decodes a value using data from a reader stream.
func DecodeFrom(r io.Reader, value scale.Decodable) (int, error) {
	return value.DecodeScale(scale.NewDecoder(r))
}

var encoderPool = sync.Pool{
	New: func() any {
		b := new(bytes.Buffer)
		b.Grow(64)
		return b
	},
}

func getEncoderBuffer() *bytes.Buffer {
	return encoderPool.Get().(*bytes.Buffer)
}

func putEncoderBuffer(b *bytes.Buffer) {
	b.Reset()
	encoderPool.Put(b)
}

// Encode value to a byte buffer.
func Encode(value scale.Encodable) ([]byte, error) {
	b := getEncoderBuffer()
	defer putEncoderBuffer(b)
	if _, err := EncodeTo(b, value); err != nil {
		return nil, fmt.Errorf("encode: %w", err)
	}
	buf := make([]byte, len(b.Bytes()))
	copy(buf, b.Bytes())
	return buf, nil
}

// MustEncode encodes value and panics on error. Use only for types that cannot fail.
func MustEncode(value scale.Encodable) []byte {
	buf, err := Encode(value)
	if err != nil {
		panic(err)
	}
	return buf
}

// Decode value from a byte buffer. Trailing bytes are rejected.
func Decode(buf []byte, value scale.Decodable) error {
	r := bytes.NewReader(buf)
	if _, err := DecodeFrom(r, value); err != nil {
		return fmt.Errorf("decode from buffer: %w", err)
	}
	if r.Len() != 0 {
		return fmt.Errorf("decode from buffer: %d trailing bytes", r.Len())
	}
	return nil
}

// EncodeBytes writes a length prefixed byte slice bounded by limit.
func EncodeBytes(enc *scale.Encoder, value []byte, limit uint32) (int, error) {
	return scale.EncodeByteSliceWithLimit(enc, value, limit)
}

// DecodeBytes reads a length prefixed byte slice bounded by limit.
func DecodeBytes(dec *scale.Decoder, limit uint32) ([]byte, int, error) {
	return scale.DecodeByteSliceWithLimit(dec, limit)
}

// EncodeStrings writes a compact length followed by each string as bytes.
func EncodeStrings(enc *scale.Encoder, values []string, limit uint32) (total int, err error) {
	n, err := scale.EncodeCompact32(enc, uint32(len(values)))
	if err != nil {
		return total, err
	}
	total += n
	for _, value := range values {
		n, err := scale.EncodeByteSliceWithLimit(enc, []byte(value), limit)
		if err != nil {
			return total, err
		}
		total += n
	}
	return total, nil
}

// DecodeStrings reads strings written by EncodeStrings. At most maxItems are accepted.
func DecodeStrings(dec *scale.Decoder, maxItems, limit uint32) ([]string, int, error) {
	total := 0
	length, n, err := scale.DecodeCompact32(dec)
	if err != nil {
		return nil, total, err
	}
	total += n
	if length > maxItems {
		return nil, total, fmt.Errorf("%d items exceed limit %d", length, maxItems)
	}
	values := make([]string, 0, length)
	for i := uint32(0); i < length; i++ {
		raw, n, err := scale.DecodeByteSliceWithLimit(dec, limit)
		if err != nil {
			return nil, total, err
		}
		total += n
		values = append(values, string(raw))
	}
	return values, total, nil
}
