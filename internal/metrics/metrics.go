// Package metrics exposes workflow counters to Prometheus.
package metrics

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"minigold/internal/core"
)

const namespace = "minigold"

// Recorder implements core.Recorder on a private registry.
// A nil *Recorder records nothing.
type Recorder struct {
	registry    *prometheus.Registry
	operations  *prometheus.CounterVec
	stockPosted *prometheus.CounterVec
	transitions *prometheus.CounterVec
}

var _ core.Recorder = (*Recorder)(nil)

// New registers the workflow collectors plus the Go and process collectors.
func New() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "workflow",
			Name:      "operations_total",
			Help:      "Workflow mutations by operation and outcome.",
		}, []string{"operation", "outcome"}),
		stockPosted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "stock",
			Name:      "posted_units_total",
			Help:      "Units added to product stock on delivery.",
		}, []string{"product_id"}),
		transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "workflow",
			Name:      "status_transitions_total",
			Help:      "Status changes applied per stage.",
		}, []string{"stage", "status"}),
	}
	r.registry.MustRegister(
		r.operations,
		r.stockPosted,
		r.transitions,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return r
}

// Outcome maps an operation error to its metric label.
func Outcome(err error) string {
	if err == nil {
		return "ok"
	}
	return core.KindOf(err).String()
}

func (r *Recorder) Operation(op string, err error) {
	if r == nil {
		return
	}
	r.operations.WithLabelValues(op, Outcome(err)).Inc()
}

func (r *Recorder) StockPosted(productID int64, qty int64) {
	if r == nil || qty <= 0 {
		return
	}
	r.stockPosted.WithLabelValues(strconv.FormatInt(productID, 10)).Add(float64(qty))
}

func (r *Recorder) StatusChanged(stage string, status core.Status) {
	if r == nil {
		return
	}
	r.transitions.WithLabelValues(stage, status.Info().Label).Inc()
}

// Registry returns the registry backing r.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (r *Recorder) Handler() http.Handler {
	if r == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}
