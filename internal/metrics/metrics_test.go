package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordOperation(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())

	m.RecordOperation("move", StatusOK, 2*time.Millisecond)
	m.RecordOperation("move", StatusOK, time.Millisecond)
	m.RecordOperation("move", StatusRejected, time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.OperationsTotal.WithLabelValues("move", StatusOK)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.OperationsTotal.WithLabelValues("move", StatusRejected)))
}

func TestRecordSearchAndWorkspace(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())

	m.RecordSearch(3)
	m.RecordSearch(0)
	m.UpdateWorkspace("ws", 12)
	m.RecordRejection("cycle")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.SearchQueriesTotal))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.SearchResultsTotal))
	assert.Equal(t, 12.0, testutil.ToFloat64(m.WorkspaceNodes.WithLabelValues("ws")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RejectionsTotal.WithLabelValues("cycle")))
}

func TestSeparateRegistries(t *testing.T) {
	// registering twice on distinct registries must not panic
	assert.NotPanics(t, func() {
		NewMetrics(prometheus.NewRegistry())
		NewMetrics(prometheus.NewRegistry())
	})
}
