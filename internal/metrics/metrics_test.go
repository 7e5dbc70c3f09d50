package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func counterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	var m dto.Metric
	require.NoError(t, c.Write(&m))
	return m.GetCounter().GetValue()
}

func histogramSampleCount(t *testing.T, observer prometheus.Observer) uint64 {
	t.Helper()
	hist, ok := observer.(prometheus.Histogram)
	require.True(t, ok)

	ch := make(chan prometheus.Metric, 1)
	hist.Collect(ch)
	close(ch)

	var m dto.Metric
	for metric := range ch {
		require.NoError(t, metric.Write(&m))
		return m.GetHistogram().GetSampleCount()
	}
	t.Fatal("histogram produced no samples")
	return 0
}

func TestNewRegistersDistinctCounters(t *testing.T) {
	reg := New(prometheus.NewRegistry())

	reg.TasksSubmitted.Inc()
	reg.TasksRetried.Inc()
	reg.TasksRetried.Inc()

	assert.Equal(t, float64(1), counterValue(t, reg.TasksSubmitted))
	assert.Equal(t, float64(2), counterValue(t, reg.TasksRetried))
	assert.Equal(t, float64(0), counterValue(t, reg.TasksCancelled))
	assert.Equal(t, float64(0), counterValue(t, reg.WorkflowsCancelled))
	assert.Equal(t, float64(0), counterValue(t, reg.TasksFinalized))
}

func TestHandlerExposesRegisteredCollectors(t *testing.T) {
	reg := New(prometheus.NewRegistry())
	reg.TasksSubmitted.Inc()

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	reg.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "taskqueue_tasks_submitted_total 1")
}

func TestMiddlewareObservesRequestDuration(t *testing.T) {
	reg := New(prometheus.NewRegistry())
	handler := reg.Middleware(func(r *http.Request) string { return "/tasks" })(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusCreated)
		}),
	)

	req := httptest.NewRequest(http.MethodPost, "/tasks", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)

	observer, err := reg.RequestDuration.GetMetricWithLabelValues(http.MethodPost, "/tasks", http.StatusText(http.StatusCreated))
	require.NoError(t, err)
	assert.Equal(t, uint64(1), histogramSampleCount(t, observer))
}

func TestMiddlewareDefaultsStatusToOKWhenWriteHeaderNotCalled(t *testing.T) {
	reg := New(prometheus.NewRegistry())
	handler := reg.Middleware(func(r *http.Request) string { return "/health" })(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("ok"))
		}),
	)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	observer, err := reg.RequestDuration.GetMetricWithLabelValues(http.MethodGet, "/health", http.StatusText(http.StatusOK))
	require.NoError(t, err)
	assert.Equal(t, uint64(1), histogramSampleCount(t, observer))
}
