// Package nonces persists the two per-account nonce namespaces. Authorization
// nonces record the last consumed value; execution nonces record the next
// expected value. The tables are never joined.
package nonces

import (
	"fmt"

	"github.com/keyward/keyward/common/types"
	"github.com/keyward/keyward/sql"
)

func get(db sql.Executor, query string, account types.Address) (uint64, error) {
	var value uint64
	if _, err := db.Exec(query,
		func(stmt *sql.Statement) {
			stmt.BindBytes(1, account.Bytes())
		}, func(stmt *sql.Statement) bool {
			value = uint64(stmt.ColumnInt64(0))
			return false
		}); err != nil {
		return 0, fmt.Errorf("get nonce %v: %w", account, err)
	}
	return value, nil
}

func set(db sql.Executor, query string, account types.Address, value uint64) error {
	if _, err := db.Exec(query,
		func(stmt *sql.Statement) {
			stmt.BindBytes(1, account.Bytes())
			stmt.BindInt64(2, int64(value))
		}, nil); err != nil {
		return fmt.Errorf("set nonce %v: %w", account, err)
	}
	return nil
}

// LastAuthorization returns the last consumed authorization nonce, 0 if none.
func LastAuthorization(db sql.Executor, account types.Address) (uint64, error) {
	return get(db, "select last from authorization_nonces where account = ?1;", account)
}

// SetLastAuthorization records the authorization high-water mark.
func SetLastAuthorization(db sql.Executor, account types.Address, last uint64) error {
	return set(db, `insert into authorization_nonces (account, last) values (?1, ?2)
		on conflict (account) do update set last = ?2;`, account, last)
}

// NextExecution returns the execution nonce the next intent of the account must carry.
func NextExecution(db sql.Executor, account types.Address) (uint64, error) {
	return get(db, "select next from execution_nonces where account = ?1;", account)
}

// SetNextExecution records the next expected execution nonce.
func SetNextExecution(db sql.Executor, account types.Address, next uint64) error {
	return set(db, `insert into execution_nonces (account, next) values (?1, ?2)
		on conflict (account) do update set next = ?2;`, account, next)
}

func all(db sql.Executor, query string) (map[types.Address]uint64, error) {
	rst := map[types.Address]uint64{}
	if _, err := db.Exec(query, nil, func(stmt *sql.Statement) bool {
		var account types.Address
		stmt.ColumnBytes(0, account[:])
		rst[account] = uint64(stmt.ColumnInt64(1))
		return true
	}); err != nil {
		return nil, fmt.Errorf("load nonces: %w", err)
	}
	return rst, nil
}

// AllAuthorization returns last consumed authorization nonce of every account.
func AllAuthorization(db sql.Executor) (map[types.Address]uint64, error) {
	return all(db, "select account, last from authorization_nonces;")
}

// AllExecution returns next execution nonce of every account.
func AllExecution(db sql.Executor) (map[types.Address]uint64, error) {
	return all(db, "select account, next from execution_nonces;")
}
