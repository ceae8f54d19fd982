// Package metrics holds the Prometheus instruments for the dialog
// service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics groups the counters and histograms the service records on
// every gateway request.
type Metrics struct {
	Requests  *prometheus.CounterVec
	StepTime  prometheus.Histogram
	LiveGauge prometheus.GaugeFunc
}

// New registers the instruments on the given registerer. liveSessions
// is sampled on every scrape.
func New(reg prometheus.Registerer, liveSessions func() float64) *Metrics {
	m := &Metrics{
		Requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "bizmanager",
			Subsystem: "ussd",
			Name:      "requests_total",
			Help:      "Gateway requests by outcome.",
		}, []string{"outcome"}),
		StepTime: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "bizmanager",
			Subsystem: "ussd",
			Name:      "step_duration_seconds",
			Help:      "Time spent advancing a dialog by one step.",
			Buckets:   prometheus.DefBuckets,
		}),
		LiveGauge: prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: "bizmanager",
			Subsystem: "ussd",
			Name:      "live_sessions",
			Help:      "Sessions currently held in the store.",
		}, liveSessions),
	}

	reg.MustRegister(m.Requests, m.StepTime, m.LiveGauge)
	return m
}

// Outcome labels for the request counter.
const (
	OutcomeContinue = "continue"
	OutcomeEnd      = "end"
	OutcomeError    = "error"
)

// Observe records one finished request.
func (m *Metrics) Observe(outcome string, seconds float64) {
	if m == nil {
		return
	}
	m.Requests.WithLabelValues(outcome).Inc()
	m.StepTime.Observe(seconds)
}
