package signing

import (
	"bytes"
	"io/fs"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
)

func TestSignVerify(t *testing.T) {
	signer, err := NewEdSigner(WithPrefix([]byte("test")))
	require.NoError(t, err)
	msg := []byte("hello")

	sig := signer.Sign(GATEWAY, msg)

	verifier := NewEdVerifier(WithVerifierPrefix([]byte("test")))
	require.True(t, verifier.Verify(GATEWAY, signer.PublicKey().Array(), msg, sig))
	require.False(t, verifier.Verify(LIVENESS, signer.PublicKey().Array(), msg, sig))
	require.False(t, NewEdVerifier().Verify(GATEWAY, signer.PublicKey().Array(), msg, sig))
}

func TestKeyFileRoundtrip(t *testing.T) {
	fsys := afero.NewMemMapFs()

	created, err := NewEdSigner(WithFilesystem(fsys), ToFile("/keys/gateway.key"))
	require.NoError(t, err)
	require.Equal(t, "gateway.key", created.Name())

	loaded, err := NewEdSigner(WithFilesystem(fsys), FromFile("/keys/gateway.key"))
	require.NoError(t, err)
	require.True(t, created.PublicKey().Equals(loaded.PublicKey()))

	_, err = NewEdSigner(WithFilesystem(fsys), ToFile("/keys/gateway.key"))
	require.ErrorIs(t, err, fs.ErrExist)
}

func TestFromFileRejectsGarbage(t *testing.T) {
	fsys := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fsys, "short.key", []byte("abcd"), 0o600))
	_, err := NewEdSigner(WithFilesystem(fsys), FromFile("short.key"))
	require.ErrorContains(t, err, "invalid key size")

	_, err = NewEdSigner(WithFilesystem(fsys), FromFile("missing.key"))
	require.Error(t, err)
}

func TestWithKeyFromRandIsDeterministic(t *testing.T) {
	seed := bytes.Repeat([]byte{7}, 64)
	a, err := NewEdSigner(WithKeyFromRand(bytes.NewReader(seed)))
	require.NoError(t, err)
	b, err := NewEdSigner(WithKeyFromRand(bytes.NewReader(seed)))
	require.NoError(t, err)
	require.Equal(t, a.PrivateKey(), b.PrivateKey())

	_, err = NewEdSigner(WithPrivateKey(a.PrivateKey()[:10]))
	require.Error(t, err)
}
