// WebGIS - Geospatial Feature API over DuckDB Spatial and GDAL
// Copyright 2026 GeoBradDev
// SPDX-License-Identifier: MIT
// https://github.com/GeoBradDev/webgis-go

// Package geo validates GeoJSON payloads before they reach the database.
// Parsing is delegated to paulmach/orb; no geometric computation happens
// here — coordinates are checked for range and the geometry type is matched
// against the target feature table, nothing more.
package geo

import (
	"fmt"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// ParseGeometry parses a GeoJSON geometry document and verifies it matches
// the expected geometry type ("Point", "LineString" or "Polygon"). It
// returns the parsed orb geometry for callers that need the coordinates.
func ParseGeometry(raw []byte, expectedType string) (orb.Geometry, error) {
	g, err := geojson.UnmarshalGeometry(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid GeoJSON geometry: %w", err)
	}

	geom := g.Geometry()
	if geom == nil {
		return nil, fmt.Errorf("invalid GeoJSON geometry: empty document")
	}

	if got := geom.GeoJSONType(); got != expectedType {
		return nil, fmt.Errorf("geometry type mismatch: expected %s, got %s", expectedType, got)
	}

	if err := checkCoordinates(geom); err != nil {
		return nil, err
	}

	return geom, nil
}

// checkCoordinates verifies every coordinate is inside the valid WGS84
// range. Features are stored in SRID 4326, so out-of-range values are
// always client errors.
func checkCoordinates(geom orb.Geometry) error {
	switch g := geom.(type) {
	case orb.Point:
		return checkPoint(g)
	case orb.LineString:
		if len(g) < 2 {
			return fmt.Errorf("LineString must have at least 2 positions")
		}
		for _, p := range g {
			if err := checkPoint(p); err != nil {
				return err
			}
		}
	case orb.Polygon:
		if len(g) == 0 {
			return fmt.Errorf("Polygon must have at least one ring")
		}
		for _, ring := range g {
			if len(ring) < 4 {
				return fmt.Errorf("Polygon ring must have at least 4 positions")
			}
			if !ring.Closed() {
				return fmt.Errorf("Polygon ring must be closed")
			}
			for _, p := range ring {
				if err := checkPoint(p); err != nil {
					return err
				}
			}
		}
	default:
		return fmt.Errorf("unsupported geometry type %s", geom.GeoJSONType())
	}
	return nil
}

// checkPoint validates a single WGS84 position.
func checkPoint(p orb.Point) error {
	if p.Lon() < -180 || p.Lon() > 180 {
		return fmt.Errorf("longitude %f out of range [-180, 180]", p.Lon())
	}
	if p.Lat() < -90 || p.Lat() > 90 {
		return fmt.Errorf("latitude %f out of range [-90, 90]", p.Lat())
	}
	return nil
}

// ValidateBBox checks bounding box ordering and range. Returns the
// corresponding orb.Bound for callers that want it.
func ValidateBBox(minX, minY, maxX, maxY float64) (orb.Bound, error) {
	if minX >= maxX {
		return orb.Bound{}, fmt.Errorf("minx (%f) must be less than maxx (%f)", minX, maxX)
	}
	if minY >= maxY {
		return orb.Bound{}, fmt.Errorf("miny (%f) must be less than maxy (%f)", minY, maxY)
	}
	if err := checkPoint(orb.Point{minX, minY}); err != nil {
		return orb.Bound{}, err
	}
	if err := checkPoint(orb.Point{maxX, maxY}); err != nil {
		return orb.Bound{}, err
	}
	return orb.Bound{Min: orb.Point{minX, minY}, Max: orb.Point{maxX, maxY}}, nil
}
