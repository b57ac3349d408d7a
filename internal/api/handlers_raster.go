// WebGIS - Geospatial Feature API over DuckDB Spatial and GDAL
// Copyright 2026 GeoBradDev
// SPDX-License-Identifier: MIT
// https://github.com/GeoBradDev/webgis-go

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/GeoBradDev/webgis-go/internal/metrics"
)

// cachedRasterOp serves a read-only raster operation through the result
// cache, mirroring cachedOp but with raster error mapping.
func (h *Handler) cachedRasterOp(w http.ResponseWriter, r *http.Request, op func() (interface{}, error)) {
	key := r.URL.RequestURI()
	if data, ok := h.opCache.Get(key); ok {
		metrics.RecordOpCache(true)
		respondCached(w, data)
		return
	}
	metrics.RecordOpCache(false)

	start := time.Now()
	data, err := op()
	if err != nil {
		handleRasterError(w, err)
		return
	}

	h.opCache.SetDefault(key, data)
	respondData(w, http.StatusOK, data, time.Since(start))
}

// ListRasters handles GET /rasters.
func (h *Handler) ListRasters(w http.ResponseWriter, r *http.Request) {
	h.cachedRasterOp(w, r, func() (interface{}, error) {
		infos, err := h.rasters.List()
		if err != nil {
			return nil, err
		}
		return map[string]interface{}{"rasters": infos, "count": len(infos)}, nil
	})
}

// RasterInfo handles GET /rasters/{name}.
func (h *Handler) RasterInfo(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	h.cachedRasterOp(w, r, func() (interface{}, error) {
		return h.rasters.Info(name)
	})
}

// RasterStatistics handles GET /rasters/{name}/statistics.
func (h *Handler) RasterStatistics(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	band := getIntParam(r, "band", 1)
	if band < 1 {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR",
			"band must be a positive integer", nil)
		return
	}

	h.cachedRasterOp(w, r, func() (interface{}, error) {
		return h.rasters.BandStatistics(name, band)
	})
}

// RasterValueAt handles GET /rasters/{name}/value.
func (h *Handler) RasterValueAt(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	lng, lat, ok := lngLatParams(w, r)
	if !ok {
		return
	}

	band := getIntParam(r, "band", 1)
	if band < 1 {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR",
			"band must be a positive integer", nil)
		return
	}

	h.cachedRasterOp(w, r, func() (interface{}, error) {
		return h.rasters.ValueAt(name, band, lng, lat)
	})
}
