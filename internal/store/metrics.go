// Prometheus instrumentation for document-store traffic. Labels are kept
// low-cardinality: kind is one of five fixed collection names, op is
// put/query/delete, outcome is ok/error. All collectors are safe for
// concurrent use.
package store

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	opPut    = "put"
	opQuery  = "query"
	opDelete = "delete"
)

var (
	// storeOps counts store operations by kind, operation, and outcome.
	storeOps = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "store_operations_total",
			Help: "Total number of document store operations.",
		},
		[]string{"kind", "op", "outcome"},
	)

	// storeLat records operation duration in seconds by kind and operation.
	// Outcome is omitted to keep histogram cardinality lower.
	storeLat = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "store_operation_duration_seconds",
			Help:    "Duration of document store operations in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"kind", "op"},
	)
)

func init() {
	prometheus.MustRegister(storeOps, storeLat)
}

// observeOp starts timing one store operation and returns the completion
// callback that records counter and latency.
func observeOp(kind, op string) func(error) {
	start := time.Now()
	return func(err error) {
		outcome := "ok"
		if err != nil {
			outcome = "error"
		}
		storeOps.WithLabelValues(kind, op, outcome).Inc()
		storeLat.WithLabelValues(kind, op).Observe(time.Since(start).Seconds())
	}
}
