// Package metrics exposes optional prometheus counters for archive
// operations. Registration happens lazily so a process that never enables
// Config.MetricsEnabled pays no cost and never touches the default
// registry.
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	ArchivedFields prometheus.Counter
	RetrievedBytes prometheus.Counter
	WipedDatabases prometheus.Counter
	PurgedBytes    prometheus.Counter
	Errors         *prometheus.CounterVec
)

// Register creates and registers the counters with reg. Safe to call more
// than once; only the first call takes effect.
func Register(reg prometheus.Registerer) {
	once.Do(func() {
		ArchivedFields = prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "fdb",
			Name:      "archived_fields_total",
			Help:      "Number of fields successfully archived.",
		})
		RetrievedBytes = prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "fdb",
			Name:      "retrieved_bytes_total",
			Help:      "Total bytes returned by Retrieve.",
		})
		WipedDatabases = prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "fdb",
			Name:      "wiped_databases_total",
			Help:      "Number of databases fully wiped.",
		})
		PurgedBytes = prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "fdb",
			Name:      "purged_bytes_total",
			Help:      "Total bytes reclaimed by Purge.",
		})
		Errors = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "fdb",
			Name:      "operation_errors_total",
			Help:      "Operation failures by op and sentinel error.",
		}, []string{"op", "error"})

		reg.MustRegister(ArchivedFields, RetrievedBytes, WipedDatabases, PurgedBytes, Errors)
	})
}
