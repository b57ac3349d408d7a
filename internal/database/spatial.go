// WebGIS - Geospatial Feature API over DuckDB Spatial and GDAL
// Copyright 2026 GeoBradDev
// SPDX-License-Identifier: MIT
// https://github.com/GeoBradDev/webgis-go

// Spatial queries. Each method is a direct delegation to the DuckDB spatial
// extension: the SQL names the ST_* function, the Go code scans the result.
// Geodesic measures (area, distance) use the spheroid/sphere variants so
// values come back in meters rather than degrees.
package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/goccy/go-json"

	"github.com/GeoBradDev/webgis-go/internal/metrics"
	"github.com/GeoBradDev/webgis-go/internal/models"
)

// requireSpatial guards geometry operations in degraded mode.
func (db *DB) requireSpatial() error {
	if !db.spatialAvailable {
		return ErrSpatialUnavailable
	}
	return nil
}

// PolygonsInBBox returns polygons intersecting the bounding box
// (ST_Intersects against ST_MakeEnvelope).
func (db *DB) PolygonsInBBox(ctx context.Context, minX, minY, maxX, maxY float64) ([]models.Feature, error) {
	if err := db.requireSpatial(); err != nil {
		return nil, err
	}
	metrics.RecordSpatialOperation("intersects")

	query := `SELECT id, name, ST_AsGeoJSON(geom)
		FROM polygons
		WHERE ST_Intersects(geom, ST_MakeEnvelope(?, ?, ?, ?))
		ORDER BY id`

	start := time.Now()
	rows, err := db.conn.QueryContext(ctx, query, minX, minY, maxX, maxY)
	metrics.RecordDBQuery("bbox", "polygons", time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("bbox query failed: %w", err)
	}
	defer closeQuietly(rows)

	return scanFeatures(rows)
}

// PolygonAreas returns every polygon with its spheroid area in square
// meters (ST_Area_Spheroid).
func (db *DB) PolygonAreas(ctx context.Context) ([]models.FeatureArea, error) {
	if err := db.requireSpatial(); err != nil {
		return nil, err
	}
	metrics.RecordSpatialOperation("area")

	query := `SELECT id, name, ST_Area_Spheroid(geom) FROM polygons ORDER BY id`

	start := time.Now()
	rows, err := db.conn.QueryContext(ctx, query)
	metrics.RecordDBQuery("area", "polygons", time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("area query failed: %w", err)
	}
	defer closeQuietly(rows)

	areas := []models.FeatureArea{}
	for rows.Next() {
		var area models.FeatureArea
		if err := rows.Scan(&area.ID, &area.Name, &area.AreaSqM); err != nil {
			return nil, fmt.Errorf("failed to scan area: %w", err)
		}
		areas = append(areas, area)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("area iteration failed: %w", err)
	}
	return areas, nil
}

// SimplifyPolygons returns every polygon simplified with the given
// tolerance, preserving topology (ST_SimplifyPreserveTopology).
func (db *DB) SimplifyPolygons(ctx context.Context, tolerance float64) ([]models.Feature, error) {
	if err := db.requireSpatial(); err != nil {
		return nil, err
	}
	metrics.RecordSpatialOperation("simplify")

	query := `SELECT id, name, ST_AsGeoJSON(ST_SimplifyPreserveTopology(geom, ?))
		FROM polygons ORDER BY id`

	start := time.Now()
	rows, err := db.conn.QueryContext(ctx, query, tolerance)
	metrics.RecordDBQuery("simplify", "polygons", time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("simplify query failed: %w", err)
	}
	defer closeQuietly(rows)

	return scanFeatures(rows)
}

// PolygonCentroids returns the centroid of every polygon (ST_Centroid).
func (db *DB) PolygonCentroids(ctx context.Context) ([]models.Feature, error) {
	if err := db.requireSpatial(); err != nil {
		return nil, err
	}
	metrics.RecordSpatialOperation("centroid")

	query := `SELECT id, name, ST_AsGeoJSON(ST_Centroid(geom)) FROM polygons ORDER BY id`

	start := time.Now()
	rows, err := db.conn.QueryContext(ctx, query)
	metrics.RecordDBQuery("centroid", "polygons", time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("centroid query failed: %w", err)
	}
	defer closeQuietly(rows)

	return scanFeatures(rows)
}

// PointsNear returns points within radiusMeters of the given location,
// using great-circle distance (ST_Distance_Sphere).
func (db *DB) PointsNear(ctx context.Context, lng, lat, radiusMeters float64) ([]models.Feature, error) {
	if err := db.requireSpatial(); err != nil {
		return nil, err
	}
	metrics.RecordSpatialOperation("distance")

	query := `SELECT id, name, ST_AsGeoJSON(geom)
		FROM points
		WHERE ST_Distance_Sphere(geom, ST_Point(?, ?)) <= ?
		ORDER BY id`

	start := time.Now()
	rows, err := db.conn.QueryContext(ctx, query, lng, lat, radiusMeters)
	metrics.RecordDBQuery("near", "points", time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("near query failed: %w", err)
	}
	defer closeQuietly(rows)

	return scanFeatures(rows)
}

// PointsInPolygon returns points contained in the given polygon
// (ST_Within spatial join). Returns ErrNotFound if the polygon does not
// exist.
func (db *DB) PointsInPolygon(ctx context.Context, polygonID int64) ([]models.Feature, error) {
	if err := db.requireSpatial(); err != nil {
		return nil, err
	}

	exists, err := db.featureExists(ctx, models.KindPolygon, polygonID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrNotFound
	}

	metrics.RecordSpatialOperation("within")

	query := `SELECT p.id, p.name, ST_AsGeoJSON(p.geom)
		FROM points p
		WHERE ST_Within(p.geom, (SELECT geom FROM polygons WHERE id = ?))
		ORDER BY p.id`

	start := time.Now()
	rows, err := db.conn.QueryContext(ctx, query, polygonID)
	metrics.RecordDBQuery("within", "points", time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("spatial join failed: %w", err)
	}
	defer closeQuietly(rows)

	return scanFeatures(rows)
}

// NearestPoint returns the point closest to the given location along with
// its great-circle distance in meters. Returns ErrNotFound if the points
// table is empty.
func (db *DB) NearestPoint(ctx context.Context, lng, lat float64) (*models.FeatureDistance, error) {
	if err := db.requireSpatial(); err != nil {
		return nil, err
	}
	metrics.RecordSpatialOperation("distance")

	query := `SELECT id, name, ST_Distance_Sphere(geom, ST_Point(?, ?)) AS distance
		FROM points
		ORDER BY distance
		LIMIT 1`

	start := time.Now()
	var nearest models.FeatureDistance
	err := db.conn.QueryRowContext(ctx, query, lng, lat).
		Scan(&nearest.ID, &nearest.Name, &nearest.DistanceMeters)
	metrics.RecordDBQuery("nearest", "points", time.Since(start), err)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("nearest query failed: %w", err)
	}
	return &nearest, nil
}

// PolygonIntersection returns the intersection of two polygons
// (ST_Intersection). A nil GeoJSON means the polygons do not overlap.
// Returns ErrNotFound if either polygon does not exist.
func (db *DB) PolygonIntersection(ctx context.Context, aID, bID int64) (*models.GeometryResult, error) {
	return db.polygonPairOp(ctx, "ST_Intersection", "intersection", aID, bID)
}

// PolygonDifference returns polygon A minus polygon B (ST_Difference).
// A nil GeoJSON means nothing remains. Returns ErrNotFound if either
// polygon does not exist.
func (db *DB) PolygonDifference(ctx context.Context, aID, bID int64) (*models.GeometryResult, error) {
	return db.polygonPairOp(ctx, "ST_Difference", "difference", aID, bID)
}

// polygonPairOp runs a binary geometry operation on two polygon rows.
// fn must be a fixed ST_* function name, never request input.
func (db *DB) polygonPairOp(ctx context.Context, fn, label string, aID, bID int64) (*models.GeometryResult, error) {
	if err := db.requireSpatial(); err != nil {
		return nil, err
	}

	for _, id := range []int64{aID, bID} {
		exists, err := db.featureExists(ctx, models.KindPolygon, id)
		if err != nil {
			return nil, err
		}
		if !exists {
			return nil, ErrNotFound
		}
	}

	metrics.RecordSpatialOperation(label)

	query := fmt.Sprintf(`SELECT ST_AsGeoJSON(%s(a.geom, b.geom)), ST_IsEmpty(%s(a.geom, b.geom))
		FROM polygons a, polygons b
		WHERE a.id = ? AND b.id = ?`, fn, fn)

	start := time.Now()
	var geojsonStr sql.NullString
	var empty bool
	err := db.conn.QueryRowContext(ctx, query, aID, bID).Scan(&geojsonStr, &empty)
	metrics.RecordDBQuery(label, "polygons", time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("%s query failed: %w", label, err)
	}

	if empty || !geojsonStr.Valid {
		return &models.GeometryResult{}, nil
	}

	raw := json.RawMessage(geojsonStr.String)
	return &models.GeometryResult{GeoJSON: &raw}, nil
}

// UnionAllPolygons returns the union of every polygon in the table
// (ST_Union_Agg). A nil GeoJSON means the table is empty.
func (db *DB) UnionAllPolygons(ctx context.Context) (*models.GeometryResult, error) {
	if err := db.requireSpatial(); err != nil {
		return nil, err
	}
	metrics.RecordSpatialOperation("union")

	query := `SELECT ST_AsGeoJSON(ST_Union_Agg(geom)) FROM polygons`

	start := time.Now()
	var geojsonStr sql.NullString
	err := db.conn.QueryRowContext(ctx, query).Scan(&geojsonStr)
	metrics.RecordDBQuery("union", "polygons", time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("union query failed: %w", err)
	}

	if !geojsonStr.Valid {
		return &models.GeometryResult{}, nil
	}

	raw := json.RawMessage(geojsonStr.String)
	return &models.GeometryResult{GeoJSON: &raw}, nil
}

// BufferPolygon returns the polygon buffered by the given distance in
// meters. The geometry is transformed to Web Mercator, buffered there and
// transformed back so the distance is meter-true rather than in degrees.
// Returns ErrNotFound if the polygon does not exist.
func (db *DB) BufferPolygon(ctx context.Context, polygonID int64, meters float64) (*models.GeometryResult, error) {
	if err := db.requireSpatial(); err != nil {
		return nil, err
	}
	metrics.RecordSpatialOperation("buffer")

	query := `SELECT ST_AsGeoJSON(
			ST_Transform(
				ST_Buffer(ST_Transform(geom, 'EPSG:4326', 'EPSG:3857', true), ?),
				'EPSG:3857', 'EPSG:4326', true))
		FROM polygons WHERE id = ?`

	start := time.Now()
	var geojsonStr string
	err := db.conn.QueryRowContext(ctx, query, meters, polygonID).Scan(&geojsonStr)
	metrics.RecordDBQuery("buffer", "polygons", time.Since(start), err)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("buffer query failed: %w", err)
	}

	raw := json.RawMessage(geojsonStr)
	return &models.GeometryResult{GeoJSON: &raw}, nil
}

// ReprojectFeature transforms a stored feature from EPSG:4326 into the
// target SRID (ST_Transform) and returns the reprojected GeoJSON.
// Returns ErrNotFound if the feature does not exist.
func (db *DB) ReprojectFeature(ctx context.Context, kind models.FeatureKind, id int64, targetSRID int) (*models.GeometryResult, error) {
	if err := db.requireSpatial(); err != nil {
		return nil, err
	}
	if targetSRID <= 0 {
		return nil, fmt.Errorf("invalid target SRID %d", targetSRID)
	}

	table, err := tableFor(kind)
	if err != nil {
		return nil, err
	}

	metrics.RecordSpatialOperation("transform")

	query := fmt.Sprintf(`SELECT ST_AsGeoJSON(ST_Transform(geom, 'EPSG:4326', ?, true))
		FROM %s WHERE id = ?`, table)

	start := time.Now()
	var geojsonStr string
	err = db.conn.QueryRowContext(ctx, query, fmt.Sprintf("EPSG:%d", targetSRID), id).Scan(&geojsonStr)
	metrics.RecordDBQuery("transform", table, time.Since(start), err)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("transform query failed: %w", err)
	}

	raw := json.RawMessage(geojsonStr)
	return &models.GeometryResult{GeoJSON: &raw}, nil
}
