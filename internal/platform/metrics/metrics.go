// Copyright (c) 2026 Agora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package metrics owns the Prometheus collectors exported at /metrics.

Collectors are registered on a caller-supplied registry instead of the global
default, so tests can build isolated instances.
*/
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// # Outcome Labels

const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

// Metrics groups every collector of the API process.
type Metrics struct {
	registry *prometheus.Registry

	HTTPRequests    *prometheus.CounterVec
	HTTPDuration    *prometheus.HistogramVec
	AuthOutcomes    *prometheus.CounterVec
	LiveSubscribers prometheus.Gauge
}

// New creates the collectors and registers them on registry.
func New(registry *prometheus.Registry) *Metrics {
	m := &Metrics{
		registry: registry,
		HTTPRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "agora_http_requests_total",
				Help: "Total number of HTTP requests.",
			},
			[]string{"method", "route", "status"},
		),
		HTTPDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "agora_http_request_duration_seconds",
				Help:    "Duration of HTTP requests in seconds.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		AuthOutcomes: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "agora_auth_operations_total",
				Help: "Authentication operations by outcome.",
			},
			[]string{"operation", "outcome"},
		),
		LiveSubscribers: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "agora_live_subscribers",
				Help: "Open websocket subscriptions to topic post feeds.",
			},
		),
	}

	registry.MustRegister(m.HTTPRequests, m.HTTPDuration, m.AuthOutcomes, m.LiveSubscribers)
	return m
}

// ObserveHTTP records one finished request. route is the router pattern,
// never the raw path, to keep label cardinality bounded.
func (m *Metrics) ObserveHTTP(method, route string, status int, elapsed time.Duration) {
	m.HTTPRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.HTTPDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// ObserveAuth records the outcome of an authentication operation.
func (m *Metrics) ObserveAuth(operation string, err error) {
	outcome := OutcomeSuccess
	if err != nil {
		outcome = OutcomeFailure
	}
	m.AuthOutcomes.WithLabelValues(operation, outcome).Inc()
}

// SubscriberOpened and SubscriberClosed track live feed connections.
func (m *Metrics) SubscriberOpened() { m.LiveSubscribers.Inc() }

func (m *Metrics) SubscriberClosed() { m.LiveSubscribers.Dec() }

// Handler exposes the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
