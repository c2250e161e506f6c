package eventlog

import (
	"fmt"

	"github.com/keyward/keyward/common/types"
	"github.com/keyward/keyward/sql"
)

const fields = "seq, kind, timestamp, account, counterparty, hash, nonce, value, text"

// Add appends an event and returns its sequence number.
func Add(db sql.Executor, event *types.Event) (uint64, error) {
	var seq uint64
	if _, err := db.Exec(`insert into events
		(kind, timestamp, account, counterparty, hash, nonce, value, text)
		values (?1, ?2, ?3, ?4, ?5, ?6, ?7, ?8) returning seq;`,
		func(stmt *sql.Statement) {
			stmt.BindInt64(1, int64(event.Kind))
			stmt.BindInt64(2, int64(event.Timestamp))
			stmt.BindBytes(3, event.Account.Bytes())
			stmt.BindBytes(4, event.Counterparty.Bytes())
			stmt.BindBytes(5, event.Hash.Bytes())
			stmt.BindInt64(6, int64(event.Nonce))
			stmt.BindInt64(7, int64(event.Value))
			stmt.BindText(8, event.Text)
		}, func(stmt *sql.Statement) bool {
			seq = uint64(stmt.ColumnInt64(0))
			return false
		}); err != nil {
		return 0, fmt.Errorf("insert event %s: %w", event.Kind, err)
	}
	return seq, nil
}

func decode(stmt *sql.Statement) types.Event {
	var event types.Event
	event.Seq = uint64(stmt.ColumnInt64(0))
	event.Kind = types.EventKind(stmt.ColumnInt64(1))
	event.Timestamp = uint64(stmt.ColumnInt64(2))
	stmt.ColumnBytes(3, event.Account[:])
	stmt.ColumnBytes(4, event.Counterparty[:])
	stmt.ColumnBytes(5, event.Hash[:])
	event.Nonce = uint64(stmt.ColumnInt64(6))
	event.Value = uint64(stmt.ColumnInt64(7))
	event.Text = stmt.ColumnText(8)
	return event
}

// From returns up to limit events with seq greater or equal to from, in order.
func From(db sql.Executor, from uint64, limit int) ([]types.Event, error) {
	var rst []types.Event
	if _, err := db.Exec("select "+fields+" from events where seq >= ?1 order by seq limit ?2;",
		func(stmt *sql.Statement) {
			stmt.BindInt64(1, int64(from))
			stmt.BindInt64(2, int64(limit))
		}, func(stmt *sql.Statement) bool {
			rst = append(rst, decode(stmt))
			return true
		}); err != nil {
		return nil, fmt.Errorf("events from %d: %w", from, err)
	}
	return rst, nil
}

// ByAccount returns events where the address is the primary account, oldest first.
func ByAccount(db sql.Executor, account types.Address) ([]types.Event, error) {
	var rst []types.Event
	if _, err := db.Exec("select "+fields+" from events where account = ?1 order by seq;",
		func(stmt *sql.Statement) {
			stmt.BindBytes(1, account.Bytes())
		}, func(stmt *sql.Statement) bool {
			rst = append(rst, decode(stmt))
			return true
		}); err != nil {
		return nil, fmt.Errorf("events of %v: %w", account, err)
	}
	return rst, nil
}
