package enrollments

import (
	"fmt"

	"github.com/keyward/keyward/common/types"
	"github.com/keyward/keyward/sql"
)

// Add stores a commitment for an account. Returns sql.ErrObjectExists if the account already has one.
func Add(db sql.Executor, commitment types.Commitment) error {
	if _, err := db.Exec(`insert into enrollments (account, commitment, enrolled_at) values (?1, ?2, ?3);`,
		func(stmt *sql.Statement) {
			stmt.BindBytes(1, commitment.Account.Bytes())
			stmt.BindBytes(2, commitment.Hash.Bytes())
			stmt.BindInt64(3, int64(commitment.EnrolledAt))
		}, nil); err != nil {
		return fmt.Errorf("insert enrollment %v: %w", commitment.Account, err)
	}
	return nil
}

// Get loads the commitment of an account.
func Get(db sql.Executor, account types.Address) (types.Commitment, error) {
	commitment := types.Commitment{Account: account}
	rows, err := db.Exec(`select commitment, enrolled_at from enrollments where account = ?1;`,
		func(stmt *sql.Statement) {
			stmt.BindBytes(1, account.Bytes())
		}, func(stmt *sql.Statement) bool {
			stmt.ColumnBytes(0, commitment.Hash[:])
			commitment.EnrolledAt = uint64(stmt.ColumnInt64(1))
			return false
		})
	if err != nil {
		return types.Commitment{}, fmt.Errorf("get enrollment %v: %w", account, err)
	}
	if rows == 0 {
		return types.Commitment{}, fmt.Errorf("get enrollment %v: %w", account, sql.ErrNotFound)
	}
	return commitment, nil
}

// Has returns true if the account has a commitment.
func Has(db sql.Executor, account types.Address) (bool, error) {
	rows, err := db.Exec("select 1 from enrollments where account = ?1;",
		func(stmt *sql.Statement) {
			stmt.BindBytes(1, account.Bytes())
		}, nil,
	)
	if err != nil {
		return false, fmt.Errorf("has enrollment %v: %w", account, err)
	}
	return rows > 0, nil
}

// Delete removes the commitment of an account. Returns sql.ErrNotFound if there was none.
func Delete(db sql.Executor, account types.Address) error {
	rows, err := db.Exec("delete from enrollments where account = ?1 returning 1;",
		func(stmt *sql.Statement) {
			stmt.BindBytes(1, account.Bytes())
		}, nil,
	)
	if err != nil {
		return fmt.Errorf("delete enrollment %v: %w", account, err)
	}
	if rows == 0 {
		return fmt.Errorf("delete enrollment %v: %w", account, sql.ErrNotFound)
	}
	return nil
}

// Count returns the number of enrolled accounts.
func Count(db sql.Executor) (int, error) {
	var count int
	if _, err := db.Exec("select count(*) from enrollments;", nil, func(stmt *sql.Statement) bool {
		count = stmt.ColumnInt(0)
		return true
	}); err != nil {
		return 0, fmt.Errorf("count enrollments: %w", err)
	}
	return count, nil
}

// All iterates over commitments ordered by account.
func All(db sql.Executor, fn func(types.Commitment) bool) error {
	if _, err := db.Exec("select account, commitment, enrolled_at from enrollments order by account;", nil,
		func(stmt *sql.Statement) bool {
			var commitment types.Commitment
			stmt.ColumnBytes(0, commitment.Account[:])
			stmt.ColumnBytes(1, commitment.Hash[:])
			commitment.EnrolledAt = uint64(stmt.ColumnInt64(2))
			return fn(commitment)
		}); err != nil {
		return fmt.Errorf("iterate enrollments: %w", err)
	}
	return nil
}
