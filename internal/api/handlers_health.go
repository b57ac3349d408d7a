// WebGIS - Geospatial Feature API over DuckDB Spatial and GDAL
// Copyright 2026 GeoBradDev
// SPDX-License-Identifier: MIT
// https://github.com/GeoBradDev/webgis-go

package api

import (
	"context"
	"net/http"
	"time"
)

// HealthLive handles GET /health/live. Liveness only proves the process is
// serving requests; it never touches dependencies.
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	respondData(w, http.StatusOK, map[string]string{"status": "alive"}, 0)
}

// HealthReady handles GET /health/ready. Readiness requires a responsive
// database.
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if err := h.db.Ping(ctx); err != nil {
		respondError(w, http.StatusServiceUnavailable, "SERVICE_ERROR",
			"Database not ready", err)
		return
	}

	respondData(w, http.StatusOK, map[string]string{"status": "ready"}, 0)
}

// Health handles GET /health with a full dependency report.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	dbStatus := "ok"
	status := http.StatusOK
	if err := h.db.Ping(ctx); err != nil {
		dbStatus = "unavailable"
		status = http.StatusServiceUnavailable
	}

	spatial := "ok"
	if !h.db.IsSpatialAvailable() {
		spatial = "unavailable"
	}

	rasters := "disabled"
	if h.rasters != nil && len(h.rasters.Names()) > 0 {
		rasters = "ok"
	}

	respondData(w, status, map[string]interface{}{
		"status":         dbStatus,
		"database":       dbStatus,
		"spatial_engine": spatial,
		"raster_catalog": rasters,
		"uptime_seconds": int64(time.Since(h.startTime).Seconds()),
	}, 0)
}
