package relayer

import "github.com/prometheus/client_golang/prometheus"

// Metrics tracks watcher activity for scraping, grounded on the
// Counter/Gauge style in p2p/metrics.go (without the OpenTelemetry half
// of that file — SPEC_FULL.md Part C leaves distributed tracing out of
// this bridge's scope, prometheus alone is enough to serve the
// counters role; Metrics holds counters only).
type Metrics struct {
	blocksScanned   prometheus.Counter
	receiptsScanned prometheus.Counter
	proofsBuilt     prometheus.Counter
	proofsRejected  *prometheus.CounterVec
	bloomFalsePos   prometheus.Counter
}

// NewMetrics constructs and registers a Metrics against reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		blocksScanned: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "eventproofd_blocks_scanned_total",
			Help: "Total blocks the watcher has fetched and scanned.",
		}),
		receiptsScanned: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "eventproofd_receipts_scanned_total",
			Help: "Total receipts the watcher has fetched.",
		}),
		proofsBuilt: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "eventproofd_proofs_built_total",
			Help: "Total EventProofs successfully built and validated.",
		}),
		proofsRejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "eventproofd_proofs_rejected_total",
			Help: "Total EventProofs rejected, by reason.",
		}, []string{"reason"}),
		bloomFalsePos: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "eventproofd_bloom_false_positives_total",
			Help: "Total blocks where the logs bloom matched a watched address but no receipt actually did.",
		}),
	}
	reg.MustRegister(m.blocksScanned, m.receiptsScanned, m.proofsBuilt, m.proofsRejected, m.bloomFalsePos)
	return m
}
