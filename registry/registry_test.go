package registry

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/keyward/keyward/common/types"
)

func TestRegistry(t *testing.T) {
	r := New[string]()
	r.Register(types.Address{2}, "second")
	r.Register(types.Address{1}, "first")

	got, exist := r.Get(types.Address{1})
	require.True(t, exist)
	require.Equal(t, "first", got)

	_, exist = r.Get(types.Address{3})
	require.False(t, exist)

	require.Equal(t, []types.Address{{1}, {2}}, r.Addresses())
}

func TestRegisterPanics(t *testing.T) {
	r := New[int]()
	r.Register(types.Address{1}, 1)
	require.Panics(t, func() { r.Register(types.Address{1}, 2) })
	require.Panics(t, func() { r.Register(types.Address{}, 3) })
}

func TestNilRegistry(t *testing.T) {
	var r *Registry[int]
	_, exist := r.Get(types.Address{1})
	require.False(t, exist)
	require.Empty(t, r.Addresses())
}

func TestDeriveAddress(t *testing.T) {
	a := DeriveAddress("keyward/recovery/1.0.0")
	require.False(t, a.IsEmpty())
	require.Equal(t, a, DeriveAddress("keyward/recovery/1.0.0"))
	require.NotEqual(t, a, DeriveAddress("keyward/recovery/2.0.0"))
}
