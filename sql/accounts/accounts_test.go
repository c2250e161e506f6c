package accounts

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/keyward/keyward/common/types"
	"github.com/keyward/keyward/sql"
)

func TestUpdate(t *testing.T) {
	db := sql.InMemory()
	address := types.Address{1}

	got, err := Latest(db, address)
	require.NoError(t, err)
	require.Equal(t, types.Account{Address: address}, got)

	require.NoError(t, Update(db, &types.Account{Address: address, Balance: 10}))
	require.NoError(t, Update(db, &types.Account{Address: address, Balance: 7}))

	balance, err := Balance(db, address)
	require.NoError(t, err)
	require.EqualValues(t, 7, balance)
}

func TestAll(t *testing.T) {
	db := sql.InMemory()
	require.NoError(t, Update(db, &types.Account{Address: types.Address{2}, Balance: 2}))
	require.NoError(t, Update(db, &types.Account{Address: types.Address{1}, Balance: 1}))

	all, err := All(db)
	require.NoError(t, err)
	require.Equal(t, []types.Account{
		{Address: types.Address{1}, Balance: 1},
		{Address: types.Address{2}, Balance: 2},
	}, all)
}
