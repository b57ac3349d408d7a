// WebGIS - Geospatial Feature API over DuckDB Spatial and GDAL
// Copyright 2026 GeoBradDev
// SPDX-License-Identifier: MIT
// https://github.com/GeoBradDev/webgis-go

package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/goccy/go-json"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/GeoBradDev/webgis-go/internal/geo"
	"github.com/GeoBradDev/webgis-go/internal/models"
)

// CreateFeature handles POST /{kind}s for line and polygon features.
func (h *Handler) CreateFeature(kind models.FeatureKind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req models.FeatureIn
		if !decodeBody(w, r, &req) {
			return
		}

		if _, err := geo.ParseGeometry(req.GeoJSON, kind.GeometryType()); err != nil {
			respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", err.Error(), nil)
			return
		}

		start := time.Now()
		feature, err := h.db.CreateFeature(r.Context(), kind, req.Name, req.GeoJSON)
		if err != nil {
			handleDBError(w, err, notFoundMessage(kind))
			return
		}

		h.opCache.Flush()
		respondData(w, http.StatusCreated, feature, time.Since(start))
	}
}

// GetFeature handles GET /{kind}s/{id} for line and polygon features.
func (h *Handler) GetFeature(kind models.FeatureKind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(w, r, "id")
		if !ok {
			return
		}

		start := time.Now()
		feature, err := h.db.GetFeature(r.Context(), kind, id)
		if err != nil {
			handleDBError(w, err, notFoundMessage(kind))
			return
		}

		respondData(w, http.StatusOK, feature, time.Since(start))
	}
}

// ListFeatures handles GET /{kind}s for line and polygon features.
func (h *Handler) ListFeatures(kind models.FeatureKind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, offset := h.pagination(r)

		start := time.Now()
		features, err := h.db.ListFeatures(r.Context(), kind, limit, offset)
		if err != nil {
			handleDBError(w, err, notFoundMessage(kind))
			return
		}

		respondData(w, http.StatusOK, models.FeatureList{
			Features: features,
			Count:    len(features),
		}, time.Since(start))
	}
}

// UpdateFeature handles PUT /{kind}s/{id} for line and polygon features.
func (h *Handler) UpdateFeature(kind models.FeatureKind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(w, r, "id")
		if !ok {
			return
		}

		var req models.FeatureIn
		if !decodeBody(w, r, &req) {
			return
		}

		if _, err := geo.ParseGeometry(req.GeoJSON, kind.GeometryType()); err != nil {
			respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", err.Error(), nil)
			return
		}

		start := time.Now()
		feature, err := h.db.UpdateFeature(r.Context(), kind, id, req.Name, req.GeoJSON)
		if err != nil {
			handleDBError(w, err, notFoundMessage(kind))
			return
		}

		h.opCache.Flush()
		respondData(w, http.StatusOK, feature, time.Since(start))
	}
}

// DeleteFeature handles DELETE /{kind}s/{id} for all feature kinds.
func (h *Handler) DeleteFeature(kind models.FeatureKind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(w, r, "id")
		if !ok {
			return
		}

		start := time.Now()
		if err := h.db.DeleteFeature(r.Context(), kind, id); err != nil {
			handleDBError(w, err, notFoundMessage(kind))
			return
		}

		h.opCache.Flush()
		respondData(w, http.StatusOK, map[string]bool{"deleted": true}, time.Since(start))
	}
}

// CreatePoint handles POST /points. Points take bare lng/lat coordinates
// instead of a GeoJSON document.
func (h *Handler) CreatePoint(w http.ResponseWriter, r *http.Request) {
	var req models.PointIn
	if !decodeBody(w, r, &req) {
		return
	}

	raw, err := pointGeoJSON(req.Lng, req.Lat)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "SERVICE_ERROR", "Failed to encode point", err)
		return
	}

	start := time.Now()
	feature, err := h.db.CreateFeature(r.Context(), models.KindPoint, req.Name, raw)
	if err != nil {
		handleDBError(w, err, "Point not found")
		return
	}

	out, err := pointOut(feature)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "SERVICE_ERROR", "Failed to decode stored point", err)
		return
	}

	h.opCache.Flush()
	respondData(w, http.StatusCreated, out, time.Since(start))
}

// GetPoint handles GET /points/{id}.
func (h *Handler) GetPoint(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	start := time.Now()
	feature, err := h.db.GetFeature(r.Context(), models.KindPoint, id)
	if err != nil {
		handleDBError(w, err, "Point not found")
		return
	}

	out, err := pointOut(feature)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "SERVICE_ERROR", "Failed to decode stored point", err)
		return
	}

	respondData(w, http.StatusOK, out, time.Since(start))
}

// ListPoints handles GET /points.
func (h *Handler) ListPoints(w http.ResponseWriter, r *http.Request) {
	limit, offset := h.pagination(r)

	start := time.Now()
	features, err := h.db.ListFeatures(r.Context(), models.KindPoint, limit, offset)
	if err != nil {
		handleDBError(w, err, "Point not found")
		return
	}

	outs := make([]models.PointOut, 0, len(features))
	for i := range features {
		out, err := pointOut(&features[i])
		if err != nil {
			respondError(w, http.StatusInternalServerError, "SERVICE_ERROR", "Failed to decode stored point", err)
			return
		}
		outs = append(outs, *out)
	}

	respondData(w, http.StatusOK, map[string]interface{}{
		"points": outs,
		"count":  len(outs),
	}, time.Since(start))
}

// UpdatePoint handles PUT /points/{id}.
func (h *Handler) UpdatePoint(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var req models.PointIn
	if !decodeBody(w, r, &req) {
		return
	}

	raw, err := pointGeoJSON(req.Lng, req.Lat)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "SERVICE_ERROR", "Failed to encode point", err)
		return
	}

	start := time.Now()
	feature, err := h.db.UpdateFeature(r.Context(), models.KindPoint, id, req.Name, raw)
	if err != nil {
		handleDBError(w, err, "Point not found")
		return
	}

	out, err := pointOut(feature)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "SERVICE_ERROR", "Failed to decode stored point", err)
		return
	}

	h.opCache.Flush()
	respondData(w, http.StatusOK, out, time.Since(start))
}

// pointGeoJSON encodes bare coordinates as a GeoJSON Point document.
func pointGeoJSON(lng, lat float64) ([]byte, error) {
	if lng < -180 || lng > 180 || lat < -90 || lat > 90 {
		return nil, fmt.Errorf("coordinates out of WGS84 range")
	}
	return json.Marshal(geojson.NewGeometry(orb.Point{lng, lat}))
}

// pointOut converts a stored point feature to its bare-coordinates form.
func pointOut(feature *models.Feature) (*models.PointOut, error) {
	geom, err := geo.ParseGeometry(feature.GeoJSON, "Point")
	if err != nil {
		return nil, err
	}

	point, ok := geom.(orb.Point)
	if !ok {
		return nil, fmt.Errorf("stored geometry is not a point")
	}

	return &models.PointOut{
		ID:   feature.ID,
		Name: feature.Name,
		Lng:  point.Lon(),
		Lat:  point.Lat(),
	}, nil
}

// notFoundMessage names the missing resource for 404 responses.
func notFoundMessage(kind models.FeatureKind) string {
	switch kind {
	case models.KindPoint:
		return "Point not found"
	case models.KindLine:
		return "Line not found"
	case models.KindPolygon:
		return "Polygon not found"
	}
	return "Feature not found"
}
