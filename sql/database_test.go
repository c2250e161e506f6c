package sql

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/require"
)

func testTables(db Executor) error {
	if _, err := db.Exec(`create table testing1 (
		id varchar primary key,
		field int
	)`, nil, nil); err != nil {
		return err
	}
	return nil
}

func testURI(tb testing.TB) string {
	tb.Helper()
	return "file:" + filepath.Join(tb.TempDir(), "state.sql")
}

func TestTransactionIsolation(t *testing.T) {
	db := InMemory(WithMigrations(testTables))

	tx, err := db.Tx(context.TODO())
	require.NoError(t, err)

	key := "dsada"
	_, err = tx.Exec("insert into testing1(id, field) values (?1, ?2)", func(stmt *Statement) {
		stmt.BindText(1, key)
		stmt.BindInt64(2, 20)
	}, nil)
	require.NoError(t, err)

	rows, err := tx.Exec("select 1 from testing1 where id = ?1", func(stmt *Statement) {
		stmt.BindText(1, key)
	}, nil)
	require.NoError(t, err)
	require.Equal(t, 1, rows)

	require.NoError(t, tx.Release())

	rows, err = db.Exec("select 1 from testing1 where id = ?1", func(stmt *Statement) {
		stmt.BindText(1, key)
	}, nil)
	require.NoError(t, err)
	require.Equal(t, 0, rows)
}

func TestWithTxRollbackOnError(t *testing.T) {
	db := InMemory(WithMigrations(testTables))
	errAbort := errors.New("abort")

	err := db.WithTxImmediate(context.Background(), func(tx *Tx) error {
		_, err := tx.Exec("insert into testing1(id, field) values ('a', 1)", nil, nil)
		require.NoError(t, err)
		return errAbort
	})
	require.ErrorIs(t, err, errAbort)

	rows, err := db.Exec("select 1 from testing1", nil, nil)
	require.NoError(t, err)
	require.Zero(t, rows)
}

func TestDuplicateInsertReturnsObjectExists(t *testing.T) {
	db := InMemory(WithMigrations(testTables))

	insert := "insert into testing1(id, field) values ('a', 1)"
	_, err := db.Exec(insert, nil, nil)
	require.NoError(t, err)
	_, err = db.Exec(insert, nil, nil)
	require.ErrorIs(t, err, ErrObjectExists)
}

func TestEmbeddedMigrationsAreIdempotent(t *testing.T) {
	uri := testURI(t)

	db, err := Open(uri)
	require.NoError(t, err)
	v, err := version(db)
	require.NoError(t, err)
	require.Equal(t, 1, v)
	_, err = db.Exec("insert into accounts (address, balance) values (x'01', 5)", nil, nil)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	db, err = Open(uri)
	require.NoError(t, err)
	t.Cleanup(func() { require.NoError(t, db.Close()) })

	var balance int64
	rows, err := db.Exec("select balance from accounts", nil, func(stmt *Statement) bool {
		balance = stmt.ColumnInt64(0)
		return true
	})
	require.NoError(t, err)
	require.Equal(t, 1, rows)
	require.EqualValues(t, 5, balance)
}

func observedQueries(tb testing.TB, query string) uint64 {
	tb.Helper()
	m := &dto.Metric{}
	require.NoError(tb, queryDuration.WithLabelValues(query).(prometheus.Histogram).Write(m))
	return m.Histogram.GetSampleCount()
}

func TestLatencyMetering(t *testing.T) {
	for _, tc := range []struct {
		desc   string
		enable bool
		query  string
		want   uint64
	}{
		{desc: "enabled", enable: true, query: "select 1;", want: 2},
		{desc: "disabled", query: "select 2;"},
	} {
		t.Run(tc.desc, func(t *testing.T) {
			db := InMemory(WithLatencyMetering(tc.enable))
			t.Cleanup(func() { require.NoError(t, db.Close()) })

			_, err := db.Exec(tc.query, nil, nil)
			require.NoError(t, err)
			require.NoError(t, db.WithTx(context.Background(), func(tx *Tx) error {
				_, err := tx.Exec(tc.query, nil, nil)
				return err
			}))
			require.Equal(t, tc.want, observedQueries(t, tc.query))
		})
	}
}
