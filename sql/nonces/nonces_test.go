package nonces

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/keyward/keyward/common/types"
	"github.com/keyward/keyward/sql"
)

func TestUnsetIsZero(t *testing.T) {
	db := sql.InMemory()
	account := types.Address{1}

	last, err := LastAuthorization(db, account)
	require.NoError(t, err)
	require.Zero(t, last)

	next, err := NextExecution(db, account)
	require.NoError(t, err)
	require.Zero(t, next)
}

func TestNamespacesAreIndependent(t *testing.T) {
	db := sql.InMemory()
	account := types.Address{1}

	require.NoError(t, SetLastAuthorization(db, account, 4))
	require.NoError(t, SetLastAuthorization(db, account, 5))

	last, err := LastAuthorization(db, account)
	require.NoError(t, err)
	require.EqualValues(t, 5, last)

	next, err := NextExecution(db, account)
	require.NoError(t, err)
	require.Zero(t, next)

	require.NoError(t, SetNextExecution(db, account, 1))
	last, err = LastAuthorization(db, account)
	require.NoError(t, err)
	require.EqualValues(t, 5, last)

	other, err := LastAuthorization(db, types.Address{2})
	require.NoError(t, err)
	require.Zero(t, other)
}
