/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

package telemetry

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Handler returns the Prometheus scrape endpoint handler.
func Handler() http.Handler {
	return promhttp.Handler()
}

var (
	// APIRequestsTotal counts HTTP requests by method, endpoint and status.
	APIRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "grimnir_recorder_api_requests_total",
		Help: "Total number of HTTP requests, by method, endpoint and status code.",
	}, []string{"method", "endpoint", "status"})

	// APIRequestDuration observes HTTP request latency.
	APIRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "grimnir_recorder_api_request_duration_seconds",
		Help:    "HTTP request duration in seconds, by method, endpoint and status code.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "endpoint", "status"})

	// APIActiveConnections tracks in-flight HTTP requests.
	APIActiveConnections = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "grimnir_recorder_api_active_connections",
		Help: "Current number of in-flight HTTP requests.",
	})

	// RecorderPortsInUse tracks reserved SRT listener ports.
	RecorderPortsInUse = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "grimnir_recorder_ports_in_use",
		Help: "Current number of reserved SRT listener ports.",
	})

	// RecordingsStarted counts launched recording pipelines.
	RecordingsStarted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "grimnir_recorder_recordings_started_total",
		Help: "Total number of recording pipelines launched.",
	})

	// RecordingsFinished counts finished recording pipelines by outcome.
	RecordingsFinished = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "grimnir_recorder_recordings_finished_total",
		Help: "Total number of recording pipelines finished, by outcome (completed/failed).",
	}, []string{"outcome"})

	// RecordingsActive tracks currently running recording pipelines.
	RecordingsActive = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "grimnir_recorder_recordings_active",
		Help: "Current number of running recording pipelines.",
	})
)
