package events

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/keyward/keyward/common/types"
)

func TestPublishSubscribe(t *testing.T) {
	r := NewReporter(WithLogger(zaptest.NewLogger(t)))
	all := r.Subscribe(10, nil)
	own := r.Subscribe(10, ForAccount(types.Address{1}))

	r.Publish(
		types.Event{Seq: 1, Kind: types.EventEnrolled, Account: types.Address{1}},
		types.Event{Seq: 2, Kind: types.EventEnrolled, Account: types.Address{2}},
	)

	require.Equal(t, uint64(1), (<-all.Out()).Seq)
	require.Equal(t, uint64(2), (<-all.Out()).Seq)
	require.Equal(t, uint64(1), (<-own.Out()).Seq)
	require.Empty(t, own.Out())
}

func TestPublishDoesNotBlock(t *testing.T) {
	r := NewReporter()
	sub := r.Subscribe(1, nil)

	r.Publish(types.Event{Seq: 1}, types.Event{Seq: 2})

	require.Equal(t, uint64(1), (<-sub.Out()).Seq)
	require.Empty(t, sub.Out())
}

func TestClose(t *testing.T) {
	r := NewReporter()
	sub := r.Subscribe(1, nil)
	sub.Close()
	_, open := <-sub.Out()
	require.False(t, open)
	sub.Close()

	other := r.Subscribe(1, nil)
	r.Close()
	_, open = <-other.Out()
	require.False(t, open)

	late := r.Subscribe(1, nil)
	_, open = <-late.Out()
	require.False(t, open)
	r.Publish(types.Event{Seq: 3})
}

func TestNilReporter(t *testing.T) {
	var r *Reporter
	r.Publish(types.Event{})
}
