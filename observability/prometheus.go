package observability

import (
	"context"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Label names.
const (
	LabelProvider = "provider"
	LabelOutcome  = "outcome"
)

// AuthBuckets covers fast in-memory lookups up to slow password hashes and
// remote user stores, from 1ms to 5s.
var AuthBuckets = []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5}

// PromRecorder exports authentication attempts as Prometheus metrics.
// It implements auth.Recorder.
type PromRecorder struct {
	gatherer prometheus.Gatherer
	attempts *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewPromRecorder registers the collectors on reg. A nil reg uses a fresh
// registry, which keeps tests and multiple instances independent.
func NewPromRecorder(namespace string, reg *prometheus.Registry) (*PromRecorder, error) {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	r := &PromRecorder{
		gatherer: reg,
		attempts: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "auth_attempts_total",
				Help:      "Total authentication attempts by provider and outcome",
			},
			[]string{LabelProvider, LabelOutcome},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "auth_duration_seconds",
				Help:      "Duration of authentication attempts in seconds",
				Buckets:   AuthBuckets,
			},
			[]string{LabelProvider},
		),
	}
	for _, c := range []prometheus.Collector{r.attempts, r.duration} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// RecordAttempt implements auth.Recorder.
func (r *PromRecorder) RecordAttempt(_ context.Context, provider, outcome string, seconds float64) {
	r.attempts.WithLabelValues(provider, outcome).Inc()
	r.duration.WithLabelValues(provider).Observe(seconds)
}

// Handler serves the registry in the Prometheus exposition format.
func (r *PromRecorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.gatherer, promhttp.HandlerOpts{})
}
