package main

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tunaaoguzhann/selfie-relay/core"
)

// metrics holds the relay's Prometheus collectors on a private registry.
type metrics struct {
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	operationsTotal *prometheus.CounterVec

	registry *prometheus.Registry
}

func newMetrics(relay *core.Relay) *metrics {
	reg := prometheus.NewRegistry()

	m := &metrics{
		requestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "selfie_http_requests_total",
				Help: "HTTP requests by method, route and status code.",
			},
			[]string{"method", "route", "status"},
		),
		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "selfie_http_request_duration_seconds",
				Help:    "HTTP request duration by method and route.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		operationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "selfie_operations_total",
				Help: "Relay operations by kind and outcome.",
			},
			[]string{"op", "result"},
		),
		registry: reg,
	}

	reg.MustRegister(m.requestsTotal)
	reg.MustRegister(m.requestDuration)
	reg.MustRegister(m.operationsTotal)

	if _, ok := relay.Entries(); ok {
		reg.MustRegister(prometheus.NewGaugeFunc(
			prometheus.GaugeOpts{
				Name: "selfie_entries",
				Help: "Entries held in memory, including stale ones not yet read.",
			},
			func() float64 {
				n, _ := relay.Entries()
				return float64(n)
			},
		))
	}

	return m
}

func (m *metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// recordOp counts one relay operation. result is "ok", "expired", "invalid",
// "forbidden" or "error".
func (m *metrics) recordOp(op, result string) {
	m.operationsTotal.WithLabelValues(op, result).Inc()
}
