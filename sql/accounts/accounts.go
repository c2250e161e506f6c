package accounts

import (
	"fmt"

	"github.com/keyward/keyward/common/types"
	"github.com/keyward/keyward/sql"
)

// Balance of the address. Unknown addresses have zero balance.
func Balance(db sql.Executor, address types.Address) (uint64, error) {
	var balance uint64
	if _, err := db.Exec("select balance from accounts where address = ?1;",
		func(stmt *sql.Statement) {
			stmt.BindBytes(1, address.Bytes())
		}, func(stmt *sql.Statement) bool {
			balance = uint64(stmt.ColumnInt64(0))
			return false
		}); err != nil {
		return 0, fmt.Errorf("balance of %v: %w", address, err)
	}
	return balance, nil
}

// Latest account data for an address.
func Latest(db sql.Executor, address types.Address) (types.Account, error) {
	balance, err := Balance(db, address)
	if err != nil {
		return types.Account{}, err
	}
	return types.Account{Address: address, Balance: balance}, nil
}

// Update sets the balance of an account.
func Update(db sql.Executor, account *types.Account) error {
	if _, err := db.Exec(`insert into accounts (address, balance) values (?1, ?2)
		on conflict (address) do update set balance = ?2;`,
		func(stmt *sql.Statement) {
			stmt.BindBytes(1, account.Address.Bytes())
			stmt.BindInt64(2, int64(account.Balance))
		}, nil); err != nil {
		return fmt.Errorf("failed to insert account %v: %w", account.Address, err)
	}
	return nil
}

// All returns every account with a stored balance, ordered by address.
func All(db sql.Executor) ([]types.Account, error) {
	var rst []types.Account
	if _, err := db.Exec("select address, balance from accounts order by address;", nil,
		func(stmt *sql.Statement) bool {
			var account types.Account
			stmt.ColumnBytes(0, account.Address[:])
			account.Balance = uint64(stmt.ColumnInt64(1))
			rst = append(rst, account)
			return true
		}); err != nil {
		return nil, fmt.Errorf("load accounts: %w", err)
	}
	return rst, nil
}
