// WebGIS - Geospatial Feature API over DuckDB Spatial and GDAL
// Copyright 2026 GeoBradDev
// SPDX-License-Identifier: MIT
// https://github.com/GeoBradDev/webgis-go

package api

import (
	"net/http"
	"time"

	"github.com/GeoBradDev/webgis-go/internal/geo"
	"github.com/GeoBradDev/webgis-go/internal/metrics"
	"github.com/GeoBradDev/webgis-go/internal/models"
)

// defaultSimplifyTolerance is the simplification tolerance in degrees when
// the client does not supply one.
const defaultSimplifyTolerance = 0.001

// cachedOp serves a read-only operation through the result cache. The
// request URI (path plus query) is the cache key; mutations flush the
// whole cache.
func (h *Handler) cachedOp(w http.ResponseWriter, r *http.Request, notFound string, op func() (interface{}, error)) {
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
		handleDBError(w, err, notFound)
		return
	}

	h.opCache.SetDefault(key, data)
	respondData(w, http.StatusOK, data, time.Since(start))
}

// PolygonsInBBox handles GET /polygons/in-bbox.
func (h *Handler) PolygonsInBBox(w http.ResponseWriter, r *http.Request) {
	minX, ok := requireFloatParam(w, r, "minx")
	if !ok {
		return
	}
	minY, ok := requireFloatParam(w, r, "miny")
	if !ok {
		return
	}
	maxX, ok := requireFloatParam(w, r, "maxx")
	if !ok {
		return
	}
	maxY, ok := requireFloatParam(w, r, "maxy")
	if !ok {
		return
	}

	if _, err := geo.ValidateBBox(minX, minY, maxX, maxY); err != nil {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", err.Error(), nil)
		return
	}

	h.cachedOp(w, r, "Polygon not found", func() (interface{}, error) {
		features, err := h.db.PolygonsInBBox(r.Context(), minX, minY, maxX, maxY)
		if err != nil {
			return nil, err
		}
		return models.FeatureList{Features: features, Count: len(features)}, nil
	})
}

// PolygonAreas handles GET /polygons/areas.
func (h *Handler) PolygonAreas(w http.ResponseWriter, r *http.Request) {
	h.cachedOp(w, r, "Polygon not found", func() (interface{}, error) {
		areas, err := h.db.PolygonAreas(r.Context())
		if err != nil {
			return nil, err
		}
		return map[string]interface{}{"areas": areas, "count": len(areas)}, nil
	})
}

// SimplifyPolygons handles GET /polygons/simplified.
func (h *Handler) SimplifyPolygons(w http.ResponseWriter, r *http.Request) {
	tolerance := getFloatParam(r, "tolerance", defaultSimplifyTolerance)
	if tolerance <= 0 {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR",
			"tolerance must be positive", nil)
		return
	}

	h.cachedOp(w, r, "Polygon not found", func() (interface{}, error) {
		features, err := h.db.SimplifyPolygons(r.Context(), tolerance)
		if err != nil {
			return nil, err
		}
		return models.FeatureList{Features: features, Count: len(features)}, nil
	})
}

// PolygonCentroids handles GET /polygons/centroids.
func (h *Handler) PolygonCentroids(w http.ResponseWriter, r *http.Request) {
	h.cachedOp(w, r, "Polygon not found", func() (interface{}, error) {
		features, err := h.db.PolygonCentroids(r.Context())
		if err != nil {
			return nil, err
		}
		return models.FeatureList{Features: features, Count: len(features)}, nil
	})
}

// PointsNear handles GET /points/near.
func (h *Handler) PointsNear(w http.ResponseWriter, r *http.Request) {
	lng, lat, ok := lngLatParams(w, r)
	if !ok {
		return
	}
	radius, ok := requireFloatParam(w, r, "radius_meters")
	if !ok {
		return
	}
	if radius <= 0 {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR",
			"radius_meters must be positive", nil)
		return
	}

	h.cachedOp(w, r, "Point not found", func() (interface{}, error) {
		features, err := h.db.PointsNear(r.Context(), lng, lat, radius)
		if err != nil {
			return nil, err
		}
		return models.FeatureList{Features: features, Count: len(features)}, nil
	})
}

// PointsInPolygon handles GET /polygons/{id}/points.
func (h *Handler) PointsInPolygon(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	h.cachedOp(w, r, "Polygon not found", func() (interface{}, error) {
		features, err := h.db.PointsInPolygon(r.Context(), id)
		if err != nil {
			return nil, err
		}
		return models.FeatureList{Features: features, Count: len(features)}, nil
	})
}

// NearestPoint handles GET /points/nearest.
func (h *Handler) NearestPoint(w http.ResponseWriter, r *http.Request) {
	lng, lat, ok := lngLatParams(w, r)
	if !ok {
		return
	}

	h.cachedOp(w, r, "No points stored", func() (interface{}, error) {
		return h.db.NearestPoint(r.Context(), lng, lat)
	})
}

// PolygonIntersection handles GET /polygons/intersection/{a}/{b}.
func (h *Handler) PolygonIntersection(w http.ResponseWriter, r *http.Request) {
	aID, ok := pathID(w, r, "a")
	if !ok {
		return
	}
	bID, ok := pathID(w, r, "b")
	if !ok {
		return
	}

	h.cachedOp(w, r, "Polygon not found", func() (interface{}, error) {
		return h.db.PolygonIntersection(r.Context(), aID, bID)
	})
}

// PolygonDifference handles GET /polygons/difference/{a}/{b}.
func (h *Handler) PolygonDifference(w http.ResponseWriter, r *http.Request) {
	aID, ok := pathID(w, r, "a")
	if !ok {
		return
	}
	bID, ok := pathID(w, r, "b")
	if !ok {
		return
	}

	h.cachedOp(w, r, "Polygon not found", func() (interface{}, error) {
		return h.db.PolygonDifference(r.Context(), aID, bID)
	})
}

// UnionAllPolygons handles GET /polygons/union.
func (h *Handler) UnionAllPolygons(w http.ResponseWriter, r *http.Request) {
	h.cachedOp(w, r, "Polygon not found", func() (interface{}, error) {
		return h.db.UnionAllPolygons(r.Context())
	})
}

// BufferPolygon handles GET /polygons/{id}/buffer.
func (h *Handler) BufferPolygon(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	meters, ok := requireFloatParam(w, r, "buffer_meters")
	if !ok {
		return
	}
	if meters <= 0 {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR",
			"buffer_meters must be positive", nil)
		return
	}

	h.cachedOp(w, r, "Polygon not found", func() (interface{}, error) {
		return h.db.BufferPolygon(r.Context(), id, meters)
	})
}

// ReprojectFeature handles GET /{kind}s/{id}/reproject.
func (h *Handler) ReprojectFeature(kind models.FeatureKind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(w, r, "id")
		if !ok {
			return
		}

		srid := getIntParam(r, "srid", 0)
		if srid < 1 || srid > 998999 {
			respondError(w, http.StatusBadRequest, "VALIDATION_ERROR",
				"srid must be a valid EPSG code", nil)
			return
		}

		h.cachedOp(w, r, notFoundMessage(kind), func() (interface{}, error) {
			return h.db.ReprojectFeature(r.Context(), kind, id, srid)
		})
	}
}

// lngLatParams extracts and range-checks required lng/lat query parameters.
func lngLatParams(w http.ResponseWriter, r *http.Request) (float64, float64, bool) {
	lng, ok := requireFloatParam(w, r, "lng")
	if !ok {
		return 0, 0, false
	}
	lat, ok := requireFloatParam(w, r, "lat")
	if !ok {
		return 0, 0, false
	}

	if lng < -180 || lng > 180 {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR",
			"lng must be between -180 and 180", nil)
		return 0, 0, false
	}
	if lat < -90 || lat > 90 {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR",
			"lat must be between -90 and 90", nil)
		return 0, 0, false
	}
	return lng, lat, true
}
