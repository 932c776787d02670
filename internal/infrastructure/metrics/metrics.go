// Package metrics exposes Prometheus collectors for authentication,
// unit-of-work commits and SQL statements on a private registry.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Authentication operations and outcomes used as label values
const (
	OpLogin        = "login"
	OpRefresh      = "refresh"
	OpLogout       = "logout"
	OpAuthenticate = "authenticate"

	OutcomeSuccess = "success"
	OutcomeDenied  = "denied"
	OutcomeError   = "error"
)

// Metrics holds the application collectors. The zero value is not usable;
// a nil *Metrics is, and records nothing.
type Metrics struct {
	registry      *prometheus.Registry
	authTotal     *prometheus.CounterVec
	commitsTotal  *prometheus.CounterVec
	committedRows prometheus.Counter
	queryDuration *prometheus.HistogramVec
}

// New registers the collectors under namespace, plus the Go and process
// collectors.
func New(namespace string) *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		authTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "auth",
			Name:      "operations_total",
			Help:      "Authentication operations by outcome.",
		}, []string{"operation", "outcome"}),
		commitsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "unit_of_work",
			Name:      "commits_total",
			Help:      "Unit of work commits by result.",
		}, []string{"result"}),
		committedRows: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "unit_of_work",
			Name:      "committed_rows_total",
			Help:      "Rows written by committed units of work.",
		}),
		queryDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "db",
			Name:      "query_duration_seconds",
			Help:      "SQL statement latency by statement kind and result.",
			Buckets:   []float64{.0005, .001, .0025, .005, .01, .025, .05, .1, .25, .5, 1},
		}, []string{"statement", "result"}),
	}
	m.registry.MustRegister(
		m.authTotal,
		m.commitsTotal,
		m.committedRows,
		m.queryDuration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Registry returns the private registry
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// ObserveAuth counts one authentication operation
func (m *Metrics) ObserveAuth(operation, outcome string) {
	if m == nil {
		return
	}
	m.authTotal.WithLabelValues(operation, outcome).Inc()
}

// ObserveCommit implements persistence.CommitObserver
func (m *Metrics) ObserveCommit(rows int, err error) {
	if m == nil {
		return
	}
	if err != nil {
		m.commitsTotal.WithLabelValues("failed").Inc()
		return
	}
	m.commitsTotal.WithLabelValues("committed").Inc()
	m.committedRows.Add(float64(rows))
}

// ObserveQuery implements logger.QueryObserver
func (m *Metrics) ObserveQuery(statement string, elapsed time.Duration, err error) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.queryDuration.WithLabelValues(statement, result).Observe(elapsed.Seconds())
}
