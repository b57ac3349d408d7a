// WebGIS - Geospatial Feature API over DuckDB Spatial and GDAL
// Copyright 2026 GeoBradDev
// SPDX-License-Identifier: MIT
// https://github.com/GeoBradDev/webgis-go

package models

import (
	"github.com/goccy/go-json"
)

// FeatureKind identifies one of the three stored feature tables.
type FeatureKind string

// Feature kinds supported by the store. Each maps to its own table and
// accepts exactly one GeoJSON geometry type.
const (
	KindPoint   FeatureKind = "point"
	KindLine    FeatureKind = "line"
	KindPolygon FeatureKind = "polygon"
)

// Valid reports whether k names a known feature kind.
func (k FeatureKind) Valid() bool {
	switch k {
	case KindPoint, KindLine, KindPolygon:
		return true
	}
	return false
}

// GeometryType returns the GeoJSON geometry type accepted for this kind.
func (k FeatureKind) GeometryType() string {
	switch k {
	case KindPoint:
		return "Point"
	case KindLine:
		return "LineString"
	case KindPolygon:
		return "Polygon"
	}
	return ""
}

// Feature is a stored vector feature. Geometry travels as raw GeoJSON; all
// geometric interpretation happens inside DuckDB's spatial extension, never
// in application code.
type Feature struct {
	ID      int64           `json:"id"`
	Name    string          `json:"name"`
	GeoJSON json.RawMessage `json:"geojson"`
}

// FeatureList wraps a homogeneous feature result set.
type FeatureList struct {
	Features []Feature `json:"features"`
	Count    int       `json:"count"`
}

// FeatureArea is a polygon with its spheroid area in square meters
// (ST_Area_Spheroid).
type FeatureArea struct {
	ID      int64   `json:"id"`
	Name    string  `json:"name"`
	AreaSqM float64 `json:"area_sq_m"`
}

// FeatureDistance is a point with its great-circle distance in meters from
// a query location (ST_Distance_Sphere).
type FeatureDistance struct {
	ID             int64   `json:"id"`
	Name           string  `json:"name"`
	DistanceMeters float64 `json:"distance_meters"`
}

// GeometryResult carries the GeoJSON output of a geometry operation such as
// intersection, difference, union or buffer. A nil geometry means the
// operation produced an empty result.
type GeometryResult struct {
	GeoJSON *json.RawMessage `json:"geojson"`
}

// PointIn is the request body for creating or updating a point feature.
// Points take bare coordinates rather than a GeoJSON document, matching the
// lighter-weight shape clients expect for markers.
type PointIn struct {
	Name string  `json:"name" validate:"required,max=255"`
	Lng  float64 `json:"lng" validate:"min=-180,max=180"`
	Lat  float64 `json:"lat" validate:"min=-90,max=90"`
}

// PointOut is the response body for point feature CRUD.
type PointOut struct {
	ID   int64   `json:"id"`
	Name string  `json:"name"`
	Lng  float64 `json:"lng"`
	Lat  float64 `json:"lat"`
}

// FeatureIn is the request body for creating or updating a line or polygon
// feature. The geometry is a GeoJSON geometry object.
type FeatureIn struct {
	Name    string          `json:"name" validate:"required,max=255"`
	GeoJSON json.RawMessage `json:"geojson" validate:"required"`
}
