package codec

import (
	"bytes"
	"testing"

	"github.com/spacemeshos/go-scale"
	"github.com/stretchr/testify/require"
)

type urls struct {
	values []string
}

func (u *urls) EncodeScale(enc *scale.Encoder) (int, error) {
	return EncodeStrings(enc, u.values, 1024)
}

func (u *urls) DecodeScale(dec *scale.Decoder) (int, error) {
	values, n, err := DecodeStrings(dec, 8, 1024)
	u.values = values
	return n, err
}

func TestStrings(t *testing.T) {
	in := &urls{values: []string{"https://a.example/{sender}/{data}.json", "https://b.example"}}
	buf, err := Encode(in)
	require.NoError(t, err)

	var out urls
	require.NoError(t, Decode(buf, &out))
	require.Equal(t, in.values, out.values)
}

func TestStringsLimit(t *testing.T) {
	in := &urls{values: make([]string, 9)}
	buf, err := Encode(in)
	require.NoError(t, err)

	var out urls
	require.Error(t, Decode(buf, &out))
}

func TestDecodeRejectsTrailingBytes(t *testing.T) {
	buf, err := Encode(&urls{values: []string{"x"}})
	require.NoError(t, err)

	var out urls
	require.Error(t, Decode(append(buf, 0), &out))
}

func TestEncodeReusesPooledBuffer(t *testing.T) {
	first, err := Encode(&urls{values: []string{"first"}})
	require.NoError(t, err)
	second, err := Encode(&urls{values: []string{"second"}})
	require.NoError(t, err)

	var out urls
	_, err = DecodeFrom(bytes.NewReader(first), &out)
	require.NoError(t, err)
	require.Equal(t, []string{"first"}, out.values)
	require.NotEqual(t, first, second)
}
