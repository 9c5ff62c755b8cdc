package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics of a replay.
type Metrics struct {
	// Transaction metrics
	Transactions     *prometheus.CounterVec
	Rejections       *prometheus.CounterVec
	MalformedRecords prometheus.Counter

	// Account metrics
	Accounts       prometheus.Gauge
	LockedAccounts prometheus.Gauge

	// Replay metrics
	ReplayDuration prometheus.Histogram

	// Sink metrics
	SinkWrites   *prometheus.CounterVec
	SinkDuration *prometheus.HistogramVec
}

// New creates all metrics and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		// Transaction metrics
		Transactions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "payengine_transactions_total",
				Help: "Total transactions by kind and outcome",
			},
			[]string{"kind", "outcome"},
		),
		Rejections: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "payengine_rejections_total",
				Help: "Total rejected transactions by kind and reason",
			},
			[]string{"kind", "reason"},
		),
		MalformedRecords: factory.NewCounter(prometheus.CounterOpts{
			Name: "payengine_malformed_records_total",
			Help: "Total input records that could not be decoded",
		}),

		// Account metrics
		Accounts: factory.NewGauge(prometheus.GaugeOpts{
			Name: "payengine_accounts",
			Help: "Number of known client accounts",
		}),
		LockedAccounts: factory.NewGauge(prometheus.GaugeOpts{
			Name: "payengine_locked_accounts",
			Help: "Number of locked client accounts",
		}),

		// Replay metrics
		ReplayDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "payengine_replay_duration_seconds",
			Help:    "Duration of a full replay",
			Buckets: prometheus.DefBuckets,
		}),

		// Sink metrics
		SinkWrites: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "payengine_sink_writes_total",
				Help: "Total snapshot writes by sink and status",
			},
			[]string{"sink", "status"},
		),
		SinkDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "payengine_sink_duration_seconds",
				Help:    "Snapshot write duration by sink",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"sink"},
		),
	}
}

// WriteFile dumps every metric gathered by g to path in the text exposition
// format.
func WriteFile(path string, g prometheus.Gatherer) error {
	return prometheus.WriteToTextfile(path, g)
}
