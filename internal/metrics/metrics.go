// Package metrics registers the service's Prometheus collectors: task
// lifecycle counters and an HTTP request-duration histogram.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry bundles the collectors the rest of the service increments.
// Dedicated counters exist for "retried" and "workflows cancelled" —
// each tracks exactly the event it is named for, rather than being
// folded into a neighboring counter.
type Registry struct {
	reg *prometheus.Registry

	TasksSubmitted      prometheus.Counter
	TasksCancelled      prometheus.Counter
	TasksRetried        prometheus.Counter
	WorkflowsCancelled  prometheus.Counter
	TasksFinalized      prometheus.Counter
	RequestDuration     *prometheus.HistogramVec
}

// New registers every collector against reg and returns the bundle.
// reg is a fresh prometheus.NewRegistry(), keeping collectors scoped to
// this server instance rather than leaking into the global default
// registry; Handler serves exactly this registry's collectors.
func New(reg *prometheus.Registry) *Registry {
	factory := promauto.With(reg)
	return &Registry{
		reg: reg,
		TasksSubmitted: factory.NewCounter(prometheus.CounterOpts{
			Name: "taskqueue_tasks_submitted_total",
			Help: "Total number of tasks submitted.",
		}),
		TasksCancelled: factory.NewCounter(prometheus.CounterOpts{
			Name: "taskqueue_tasks_cancelled_total",
			Help: "Total number of tasks cancelled.",
		}),
		TasksRetried: factory.NewCounter(prometheus.CounterOpts{
			Name: "taskqueue_tasks_retried_total",
			Help: "Total number of tasks retried.",
		}),
		WorkflowsCancelled: factory.NewCounter(prometheus.CounterOpts{
			Name: "taskqueue_workflows_cancelled_total",
			Help: "Total number of workflows cancelled.",
		}),
		TasksFinalized: factory.NewCounter(prometheus.CounterOpts{
			Name: "taskqueue_tasks_finalized_total",
			Help: "Total number of tasks reaching Finalized.",
		}),
		RequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "taskqueue_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
	}
}

// Handler exposes this registry's collectors in the Prometheus text
// exposition format.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{})
}

// Middleware wraps an http.Handler, observing request duration against
// RequestDuration, labeled by method, route pattern, and status text
// (http.StatusText of the response code, e.g. "Created").
func (r *Registry) Middleware(routePattern func(*http.Request) string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
			start := time.Now()
			next.ServeHTTP(sw, req)
			route := routePattern(req)
			r.RequestDuration.WithLabelValues(req.Method, route, http.StatusText(sw.status)).
				Observe(time.Since(start).Seconds())
		})
	}
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}
