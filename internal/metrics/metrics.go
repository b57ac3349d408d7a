// WebGIS - Geospatial Feature API over DuckDB Spatial and GDAL
// Copyright 2026 GeoBradDev
// SPDX-License-Identifier: MIT
// https://github.com/GeoBradDev/webgis-go

// Package metrics provides Prometheus instrumentation for the WebGIS server:
// API endpoint latency and throughput, DuckDB query performance, spatial
// operation counters, raster access and cache efficiency.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Database metrics
	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "duckdb_query_duration_seconds",
			Help:    "Duration of DuckDB queries in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation", "table"},
	)

	DBQueryErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "duckdb_query_errors_total",
			Help: "Total number of DuckDB query errors",
		},
		[]string{"operation", "table"},
	)

	// Spatial operation counters, labeled by ST_* function family
	DBSpatialOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "duckdb_spatial_operations_total",
			Help: "Total number of spatial operations (ST_* functions)",
		},
		[]string{"operation_type"},
	)

	// Raster metrics
	RasterOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gdal_raster_operations_total",
			Help: "Total number of GDAL raster operations",
		},
		[]string{"operation", "dataset"},
	)

	RasterOperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "gdal_raster_operation_duration_seconds",
			Help:    "Duration of GDAL raster operations in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)

	// API endpoint metrics
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

	// Operation result cache metrics
	OpCacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "op_cache_hits_total",
			Help: "Total number of spatial operation cache hits",
		},
	)

	OpCacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "op_cache_misses_total",
			Help: "Total number of spatial operation cache misses",
		},
	)
)

// RecordAPIRequest records metrics for a completed API request.
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest increments or decrements the active request gauge.
func TrackActiveRequest(active bool) {
	if active {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordDBQuery records the duration of a database query.
func RecordDBQuery(operation, table string, duration time.Duration, err error) {
	DBQueryDuration.WithLabelValues(operation, table).Observe(duration.Seconds())
	if err != nil {
		DBQueryErrors.WithLabelValues(operation, table).Inc()
	}
}

// RecordSpatialOperation counts a spatial (ST_*) operation by family.
func RecordSpatialOperation(operationType string) {
	DBSpatialOperations.WithLabelValues(operationType).Inc()
}

// RecordRasterOperation records a GDAL raster operation.
func RecordRasterOperation(operation, dataset string, duration time.Duration) {
	RasterOperations.WithLabelValues(operation, dataset).Inc()
	RasterOperationDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// RecordOpCache counts an operation cache hit or miss.
func RecordOpCache(hit bool) {
	if hit {
		OpCacheHits.Inc()
	} else {
		OpCacheMisses.Inc()
	}
}
