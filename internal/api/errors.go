// WebGIS - Geospatial Feature API over DuckDB Spatial and GDAL
// Copyright 2026 GeoBradDev
// SPDX-License-Identifier: MIT
// https://github.com/GeoBradDev/webgis-go

package api

import (
	"errors"
	"net/http"

	"github.com/GeoBradDev/webgis-go/internal/database"
	"github.com/GeoBradDev/webgis-go/internal/raster"
)

// handleDBError maps a database error to the right HTTP response.
// notFoundMessage is used for ErrNotFound so handlers can name the missing
// resource ("Polygon not found" rather than a generic message).
func handleDBError(w http.ResponseWriter, err error, notFoundMessage string) {
	switch {
	case errors.Is(err, database.ErrNotFound):
		respondError(w, http.StatusNotFound, "NOT_FOUND", notFoundMessage, nil)
	case errors.Is(err, database.ErrSpatialUnavailable):
		respondError(w, http.StatusServiceUnavailable, "SERVICE_ERROR",
			"Spatial engine unavailable", err)
	case errors.Is(err, database.ErrDuplicateEmail):
		respondError(w, http.StatusConflict, "VALIDATION_ERROR",
			"Email already registered", nil)
	default:
		respondError(w, http.StatusInternalServerError, "DATABASE_ERROR",
			"Database operation failed", err)
	}
}

// handleRasterError maps a raster catalog error to the right HTTP response.
func handleRasterError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, raster.ErrNotFound):
		respondError(w, http.StatusNotFound, "NOT_FOUND", "Raster dataset not found", nil)
	case errors.Is(err, raster.ErrNoBand):
		respondError(w, http.StatusNotFound, "NOT_FOUND", "Raster band not found", nil)
	default:
		respondError(w, http.StatusInternalServerError, "RASTER_ERROR",
			"Raster operation failed", err)
	}
}
