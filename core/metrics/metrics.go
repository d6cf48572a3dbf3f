package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the studyhub counters.
type Metrics struct {
	// Imports counts finished imports by strategy (merge, replace) and outcome (ok, rejected).
	Imports *prometheus.CounterVec
	// RecordsImported counts records added by imports, per collection.
	RecordsImported *prometheus.CounterVec
	// ImportWarnings counts records skipped during imports, per collection.
	ImportWarnings *prometheus.CounterVec
	// Exports counts snapshot exports by target.
	Exports *prometheus.CounterVec
	// GroupOps counts group mutations by operation and result code.
	GroupOps *prometheus.CounterVec
}

// New creates the counters and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Imports: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "studyhub",
			Name:      "imports_total",
			Help:      "Snapshot imports by strategy and outcome.",
		}, []string{"strategy", "outcome"}),
		RecordsImported: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "studyhub",
			Name:      "records_imported_total",
			Help:      "Records added by snapshot imports.",
		}, []string{"collection"}),
		ImportWarnings: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "studyhub",
			Name:      "import_warnings_total",
			Help:      "Records skipped or repaired during snapshot imports.",
		}, []string{"collection"}),
		Exports: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "studyhub",
			Name:      "exports_total",
			Help:      "Snapshot exports by target.",
		}, []string{"target"}),
		GroupOps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "studyhub",
			Name:      "group_operations_total",
			Help:      "Group mutations by operation and result.",
		}, []string{"operation", "result"}),
	}

	reg.MustRegister(m.Imports, m.RecordsImported, m.ImportWarnings, m.Exports, m.GroupOps)
	return m
}

// NewNop returns counters registered with a private registry, for tests and
// commands that do not expose metrics.
func NewNop() *Metrics {
	return New(prometheus.NewRegistry())
}
