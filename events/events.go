// Package events delivers committed ledger events to in-process subscribers.
package events

import (
	"sync"

	"go.uber.org/zap"

	"github.com/keyward/keyward/common/types"
	"github.com/keyward/keyward/metrics"
)

var dropped = metrics.NewCounter(
	"dropped",
	"events",
	"Number of events dropped because subscriber was not reading",
	[]string{"kind"},
)

// Reporter fans out events to subscribers. Publish never blocks: a subscriber
// with a full buffer misses the event.
type Reporter struct {
	logger *zap.Logger

	mu     sync.RWMutex
	subs   map[*Subscription]struct{}
	closed bool
}

// Opt for configuring Reporter.
type Opt func(*Reporter)

// WithLogger sets logger.
func WithLogger(logger *zap.Logger) Opt {
	return func(r *Reporter) {
		r.logger = logger
	}
}

// NewReporter creates Reporter instance.
func NewReporter(opts ...Opt) *Reporter {
	r := &Reporter{
		logger: zap.NewNop(),
		subs:   map[*Subscription]struct{}{},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Subscription receives events published after it was created.
type Subscription struct {
	reporter *Reporter
	filter   func(*types.Event) bool
	out      chan types.Event
	once     sync.Once
}

// Out returns channel with events. It is closed by Close or when reporter is closed.
func (s *Subscription) Out() <-chan types.Event {
	return s.out
}

// Close unsubscribes.
func (s *Subscription) Close() {
	s.reporter.mu.Lock()
	defer s.reporter.mu.Unlock()
	s.close()
	delete(s.reporter.subs, s)
}

func (s *Subscription) close() {
	s.once.Do(func() { close(s.out) })
}

// Subscribe creates a subscription with a buffer of size events.
// Nil filter accepts every event.
func (r *Reporter) Subscribe(size int, filter func(*types.Event) bool) *Subscription {
	sub := &Subscription{reporter: r, filter: filter, out: make(chan types.Event, size)}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		sub.close()
		return sub
	}
	r.subs[sub] = struct{}{}
	return sub
}

// Publish delivers events to every subscriber.
func (r *Reporter) Publish(events ...types.Event) {
	if r == nil {
		return
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	for i := range events {
		ev := &events[i]
		for sub := range r.subs {
			if sub.filter != nil && !sub.filter(ev) {
				continue
			}
			select {
			case sub.out <- *ev:
			default:
				dropped.WithLabelValues(ev.Kind.String()).Inc()
				r.logger.Debug("subscriber is full, dropping event", zap.Object("event", ev))
			}
		}
	}
}

// Close closes every subscription.
func (r *Reporter) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closed = true
	for sub := range r.subs {
		sub.close()
		delete(r.subs, sub)
	}
}

// ForAccount matches events where account is the primary account or counterparty.
func ForAccount(account types.Address) func(*types.Event) bool {
	return func(ev *types.Event) bool {
		return ev.Account == account || ev.Counterparty == account
	}
}
