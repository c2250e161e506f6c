// Package deployment stores deployment level records: ownership, gateway urls
// and the implementation slot.
package deployment

import (
	"errors"
	"fmt"

	"github.com/spacemeshos/go-scale"

	"github.com/keyward/keyward/codec"
	"github.com/keyward/keyward/common/types"
	"github.com/keyward/keyward/sql"
)

const (
	// ImplementationSlot is the fixed key of the implementation pointer. It never changes across upgrades.
	ImplementationSlot = "eip1967.proxy.implementation"

	ownershipKey = "ownership"
	urlsKey      = "gateway.urls"

	// MaxURLs is the maximum number of gateway urls kept for a deployment.
	MaxURLs = 8
	// MaxURLLength is the maximum length of a single gateway url.
	MaxURLLength = 2048
)

func addKeyValue(db sql.Executor, key string, value scale.Encodable) error {
	bytes, err := codec.Encode(value)
	if err != nil {
		return fmt.Errorf("failed encoding: %w", err)
	}

	if _, err := db.Exec(`
		insert into deployment (id, value) values (?1, ?2)
		on conflict (id) do
		update set value = ?2;`,
		func(stmt *sql.Statement) {
			stmt.BindText(1, key)
			stmt.BindBytes(2, bytes)
		}, nil); err != nil {
		return fmt.Errorf("failed to insert %s: %w", key, err)
	}
	return nil
}

func getKeyValue(db sql.Executor, key string, value scale.Decodable) error {
	var val []byte
	if rows, err := db.Exec("select value from deployment where id = ?1;", func(stmt *sql.Statement) {
		stmt.BindText(1, key)
	}, func(stmt *sql.Statement) bool {
		val = sql.GetBlob(stmt, 0)
		return true
	}); err != nil {
		return fmt.Errorf("failed to get %s: %w", key, err)
	} else if rows == 0 {
		return fmt.Errorf("failed to get %s: %w", key, sql.ErrNotFound)
	}

	if err := codec.Decode(val, value); err != nil {
		return fmt.Errorf("failed decoding %s: %w", key, err)
	}
	return nil
}

// SetOwnership persists the single ownership record.
func SetOwnership(db sql.Executor, state *types.OwnershipState) error {
	return addKeyValue(db, ownershipKey, state)
}

// Ownership loads the ownership record. Returns sql.ErrNotFound before initialization.
func Ownership(db sql.Executor) (*types.OwnershipState, error) {
	var state types.OwnershipState
	if err := getKeyValue(db, ownershipKey, &state); err != nil {
		return nil, err
	}
	return &state, nil
}

// SetImplementation writes the implementation slot.
func SetImplementation(db sql.Executor, record *types.ImplementationRecord) error {
	return addKeyValue(db, ImplementationSlot, record)
}

// Implementation reads the implementation slot.
func Implementation(db sql.Executor) (types.ImplementationRecord, error) {
	var record types.ImplementationRecord
	err := getKeyValue(db, ImplementationSlot, &record)
	return record, err
}

type urlList []string

func (l *urlList) EncodeScale(enc *scale.Encoder) (int, error) {
	return codec.EncodeStrings(enc, *l, MaxURLLength)
}

func (l *urlList) DecodeScale(dec *scale.Decoder) (int, error) {
	values, n, err := codec.DecodeStrings(dec, MaxURLs, MaxURLLength)
	if err != nil {
		return n, err
	}
	*l = values
	return n, nil
}

// SetURLs replaces the list of gateway urls.
func SetURLs(db sql.Executor, urls []string) error {
	if len(urls) > MaxURLs {
		return fmt.Errorf("too many urls: %d > %d", len(urls), MaxURLs)
	}
	list := urlList(urls)
	return addKeyValue(db, urlsKey, &list)
}

// URLs returns gateway urls. An unset list is empty, not an error.
func URLs(db sql.Executor) ([]string, error) {
	var list urlList
	err := getKeyValue(db, urlsKey, &list)
	switch {
	case err == nil:
		return list, nil
	case errors.Is(err, sql.ErrNotFound):
		return nil, nil
	default:
		return nil, err
	}
}
