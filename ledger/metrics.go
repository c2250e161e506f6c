package ledger

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/keyward/keyward/core"
	"github.com/keyward/keyward/metrics"
)

const subsystem = "ledger"

var (
	calls = metrics.NewCounter(
		"calls",
		subsystem,
		"Number of entry point calls by outcome",
		[]string{"method", "outcome"},
	)
	callDuration = metrics.NewHistogramWithBuckets(
		"call_duration_seconds",
		subsystem,
		"Duration of entry point calls, including the transaction",
		[]string{"method"},
		prometheus.ExponentialBuckets(0.0001, 2, 16),
	)
)

func observe(method string, err error, start time.Time) {
	outcome := "ok"
	if err != nil {
		outcome = core.Classify(err).String()
	}
	calls.WithLabelValues(method, outcome).Inc()
	callDuration.WithLabelValues(method).Observe(time.Since(start).Seconds())
}
