// Nearbite - Personalized Restaurant Discovery
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/nearbite

// Package metrics defines the Prometheus collectors exported by the service.
//
// All collectors are registered on the default registry through promauto and
// served on /metrics by the API router.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Store Metrics
	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "store_query_duration_seconds",
			Help:    "Duration of interaction store queries in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"driver", "operation"},
	)

	DBQueryErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "store_query_errors_total",
			Help: "Total number of interaction store query errors",
		},
		[]string{"driver", "operation"},
	)

	// API Endpoint Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Current number of active API requests",
		},
	)

	// Geodata Metrics
	GeodataRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "geodata_requests_total",
			Help: "Total number of nearby-places queries by outcome",
		},
		[]string{"outcome"}, // "success", "failure"
	)

	GeodataPlacesReturned = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "geodata_places_returned",
			Help:    "Number of normalized places returned per query",
			Buckets: []float64{0, 1, 5, 10, 25, 50, 100, 250, 500},
		},
	)

	GeodataDropped = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "geodata_elements_dropped_total",
			Help: "Total number of geodata elements dropped for missing coordinates",
		},
	)

	// Embedding Metrics
	EmbeddingRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "embedding_requests_total",
			Help: "Total number of embedding provider calls by outcome",
		},
		[]string{"provider", "outcome"},
	)

	EmbeddingDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "embedding_request_duration_seconds",
			Help:    "Embedding provider call duration in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 15},
		},
		[]string{"provider"},
	)

	EmbeddingCacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "embedding_cache_hits_total",
			Help: "Total number of embedding cache hits",
		},
		[]string{"backend"},
	)

	EmbeddingCacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "embedding_cache_misses_total",
			Help: "Total number of embedding cache misses",
		},
		[]string{"backend"},
	)

	// Recommendation Metrics
	RecommendationRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommendation_requests_total",
			Help: "Total number of recommendation calls by mode and outcome",
		},
		[]string{"mode", "outcome"}, // mode: "distance", "personalized", "semantic"
	)

	RecommendationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "recommendation_duration_seconds",
			Help:    "End-to-end recommendation latency in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 30},
		},
		[]string{"mode"},
	)

	RecommendationItemFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "recommendation_item_embedding_failures_total",
			Help: "Total number of places scored with the neutral default after an embedding failure",
		},
	)

	StoreHealthy = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "store_healthy",
			Help: "Result of the last interaction store health check (1=healthy, 0=unhealthy)",
		},
		[]string{"driver"},
	)

	// Backfill Metrics
	BackfillRows = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "embedding_backfill_rows_total",
			Help: "Total number of interaction rows processed by the embedding backfill",
		},
		[]string{"result"}, // "updated", "failed"
	)

	// Circuit Breaker Metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_requests_total",
			Help: "Total number of requests through circuit breaker",
		},
		[]string{"name", "result"}, // result: "success", "failure", "rejected"
	)

	CircuitBreakerConsecutiveFailures = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_consecutive_failures",
			Help: "Current number of consecutive failures",
		},
		[]string{"name"},
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_state_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from_state", "to_state"},
	)
)

// RecordDBQuery records an interaction store query.
func RecordDBQuery(driver, operation string, duration time.Duration, err error) {
	DBQueryDuration.WithLabelValues(driver, operation).Observe(duration.Seconds())
	if err != nil {
		DBQueryErrors.WithLabelValues(driver, operation).Inc()
	}
}

// RecordAPIRequest records an API request metric
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest tracks active API requests
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordGeodataFetch records one nearby-places query.
// dropped is the number of upstream elements discarded during normalization.
func RecordGeodataFetch(returned, dropped int, err error) {
	if err != nil {
		GeodataRequests.WithLabelValues("failure").Inc()
		return
	}
	GeodataRequests.WithLabelValues("success").Inc()
	GeodataPlacesReturned.Observe(float64(returned))
	if dropped > 0 {
		GeodataDropped.Add(float64(dropped))
	}
}

// RecordEmbedding records one embedding provider call.
func RecordEmbedding(provider string, duration time.Duration, err error) {
	outcome := "success"
	if err != nil {
		outcome = "failure"
	}
	EmbeddingRequests.WithLabelValues(provider, outcome).Inc()
	EmbeddingDuration.WithLabelValues(provider).Observe(duration.Seconds())
}

// RecordEmbeddingCache records a cache lookup for the given backend.
func RecordEmbeddingCache(backend string, hit bool) {
	if hit {
		EmbeddingCacheHits.WithLabelValues(backend).Inc()
		return
	}
	EmbeddingCacheMisses.WithLabelValues(backend).Inc()
}

// RecordRecommendation records a completed recommendation call.
// mode is "distance", "personalized" or "semantic". outcome is "success",
// "empty", "degraded" (some places defaulted to score 0) or "failed" (an
// error ended the call with an empty list).
func RecordRecommendation(mode, outcome string, duration time.Duration) {
	RecommendationRequests.WithLabelValues(mode, outcome).Inc()
	RecommendationDuration.WithLabelValues(mode).Observe(duration.Seconds())
}

// RecordBackfill records backfill progress.
func RecordBackfill(updated, failed int) {
	if updated > 0 {
		BackfillRows.WithLabelValues("updated").Add(float64(updated))
	}
	if failed > 0 {
		BackfillRows.WithLabelValues("failed").Add(float64(failed))
	}
}

// RecordStoreHealth records the result of a periodic store ping.
func RecordStoreHealth(driver string, healthy bool) {
	v := 0.0
	if healthy {
		v = 1
	}
	StoreHealthy.WithLabelValues(driver).Set(v)
}
