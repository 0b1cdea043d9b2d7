// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Namespace prefixes every metric name.
const Namespace = "tradie"

// Recorder records panel events into a private registry.
type Recorder struct {
	registry *prometheus.Registry

	started     prometheus.Counter
	finished    *prometheus.CounterVec
	duration    *prometheus.HistogramVec
	symbols     *prometheus.CounterVec
	unmatched   prometheus.Counter
	feedClients prometheus.Gauge
}

// New creates a Recorder with Go runtime and process collectors registered.
func New() *Recorder {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	f := promauto.With(reg)

	return &Recorder{
		registry: reg,
		started: f.NewCounter(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "requests_started_total",
			Help:      "Queries submitted to the answer service.",
		}),
		finished: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "requests_finished_total",
			Help:      "Answer requests settled, by outcome.",
		}, []string{"outcome"}),
		duration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: Namespace,
			Name:      "request_duration_seconds",
			Help:      "Answer client call duration, by outcome.",
			Buckets:   []float64{0.5, 1, 2, 4, 8, 15, 30, 60},
		}, []string{"outcome"}),
		symbols: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "symbols_broadcast_total",
			Help:      "Symbols resolved from answers and broadcast.",
		}, []string{"symbol"}),
		unmatched: f.NewCounter(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "answers_unmatched_total",
			Help:      "Answers that named no known company.",
		}),
		feedClients: f.NewGauge(prometheus.GaugeOpts{
			Namespace: Namespace,
			Name:      "symbol_feed_clients",
			Help:      "Connected symbol WebSocket clients.",
		}),
	}
}

// RequestStarted implements panel.Observer.
func (r *Recorder) RequestStarted() {
	r.started.Inc()
}

// RequestFinished implements panel.Observer.
func (r *Recorder) RequestFinished(outcome string, elapsed time.Duration) {
	r.finished.WithLabelValues(outcome).Inc()
	r.duration.WithLabelValues(outcome).Observe(elapsed.Seconds())
}

// SymbolResolved implements panel.Observer.
func (r *Recorder) SymbolResolved(symbol string, matched bool) {
	if !matched {
		r.unmatched.Inc()
		return
	}
	r.symbols.WithLabelValues(symbol).Inc()
}

// FeedConnected adjusts the WebSocket client gauge by delta.
func (r *Recorder) FeedConnected(delta int) {
	r.feedClients.Add(float64(delta))
}

// Registry exposes the underlying registry.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}
