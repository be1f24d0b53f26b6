// Package metrics provides Prometheus metrics for the hierarchy service
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Operation status label values
const (
	StatusOK       = "ok"
	StatusRejected = "rejected"
	StatusError    = "error"
)

// Metrics holds all Prometheus metrics for doctree
type Metrics struct {
	// HTTP request metrics
	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
	HTTPRequestsInFlight prometheus.Gauge

	// Hierarchy operation metrics
	OperationsTotal   *prometheus.CounterVec
	OperationDuration *prometheus.HistogramVec
	RejectionsTotal   *prometheus.CounterVec
	RemovedNodesTotal prometheus.Counter

	// Store metrics
	WorkspaceNodes    *prometheus.GaugeVec
	WorkspacesLoaded  prometheus.Gauge
	InvariantFailures prometheus.Counter

	// Search metrics
	SearchQueriesTotal prometheus.Counter
	SearchResultsTotal prometheus.Counter
}

// NewMetrics creates all metrics and registers them with reg. Pass
// prometheus.DefaultRegisterer in production and a fresh registry in tests.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	m := &Metrics{}

	m.HTTPRequestsTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "doctree_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	m.HTTPRequestDuration = factory.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "doctree_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	m.HTTPRequestsInFlight = factory.NewGauge(
		prometheus.GaugeOpts{
			Name: "doctree_http_requests_in_flight",
			Help: "Number of HTTP requests currently being processed",
		},
	)

	m.OperationsTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "doctree_operations_total",
			Help: "Total number of hierarchy operations",
		},
		[]string{"operation", "status"},
	)

	m.OperationDuration = factory.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "doctree_operation_duration_seconds",
			Help:    "Duration of hierarchy operations, persistence included",
			Buckets: []float64{.0005, .001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5},
		},
		[]string{"operation"},
	)

	m.RejectionsTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "doctree_move_rejections_total",
			Help: "Moves refused before any change, by reason",
		},
		[]string{"reason"},
	)

	m.RemovedNodesTotal = factory.NewCounter(
		prometheus.CounterOpts{
			Name: "doctree_removed_nodes_total",
			Help: "Nodes removed by cascading deletes",
		},
	)

	m.WorkspaceNodes = factory.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "doctree_workspace_nodes",
			Help: "Number of nodes in each loaded workspace",
		},
		[]string{"workspace"},
	)

	m.WorkspacesLoaded = factory.NewGauge(
		prometheus.GaugeOpts{
			Name: "doctree_workspaces_loaded",
			Help: "Number of workspaces held in memory",
		},
	)

	m.InvariantFailures = factory.NewCounter(
		prometheus.CounterOpts{
			Name: "doctree_invariant_failures_total",
			Help: "Mutations whose result failed the contiguity check",
		},
	)

	m.SearchQueriesTotal = factory.NewCounter(
		prometheus.CounterOpts{
			Name: "doctree_search_queries_total",
			Help: "Total number of search queries",
		},
	)

	m.SearchResultsTotal = factory.NewCounter(
		prometheus.CounterOpts{
			Name: "doctree_search_results_total",
			Help: "Total number of search results returned",
		},
	)

	return m
}

// RecordHTTPRequest records a completed HTTP request
func (m *Metrics) RecordHTTPRequest(method, route, status string, duration time.Duration) {
	m.HTTPRequestsTotal.WithLabelValues(method, route, status).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// RecordOperation records a hierarchy operation with its status
func (m *Metrics) RecordOperation(operation, status string, duration time.Duration) {
	m.OperationsTotal.WithLabelValues(operation, status).Inc()
	m.OperationDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// RecordRejection counts a refused move
func (m *Metrics) RecordRejection(reason string) {
	m.RejectionsTotal.WithLabelValues(reason).Inc()
}

// RecordSearch records a query and the number of results it produced
func (m *Metrics) RecordSearch(results int) {
	m.SearchQueriesTotal.Inc()
	m.SearchResultsTotal.Add(float64(results))
}

// UpdateWorkspace sets the node gauge for one workspace
func (m *Metrics) UpdateWorkspace(workspaceID string, nodes int) {
	m.WorkspaceNodes.WithLabelValues(workspaceID).Set(float64(nodes))
}
