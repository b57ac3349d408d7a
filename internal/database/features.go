// WebGIS - Geospatial Feature API over DuckDB Spatial and GDAL
// Copyright 2026 GeoBradDev
// SPDX-License-Identifier: MIT
// https://github.com/GeoBradDev/webgis-go

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

// CreateFeature inserts a feature and returns the stored row, including the
// generated id and the geometry as serialized by the database.
func (db *DB) CreateFeature(ctx context.Context, kind models.FeatureKind, name string, geojson []byte) (*models.Feature, error) {
	table, err := tableFor(kind)
	if err != nil {
		return nil, err
	}

	var query string
	if db.spatialAvailable {
		query = fmt.Sprintf(`INSERT INTO %s (name, geom)
			VALUES (?, ST_GeomFromGeoJSON(?))
			RETURNING id, name, ST_AsGeoJSON(geom)`, table)
	} else {
		query = fmt.Sprintf(`INSERT INTO %s (name, geom_json)
			VALUES (?, ?)
			RETURNING id, name, geom_json`, table)
	}

	start := time.Now()
	feature, err := db.scanFeature(db.conn.QueryRowContext(ctx, query, name, string(geojson)))
	metrics.RecordDBQuery("insert", table, time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("failed to insert %s: %w", kind, err)
	}
	return feature, nil
}

// GetFeature returns a single feature by id, or ErrNotFound.
func (db *DB) GetFeature(ctx context.Context, kind models.FeatureKind, id int64) (*models.Feature, error) {
	table, err := tableFor(kind)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf("SELECT id, name, %s FROM %s WHERE id = ?", db.geomColumnExpr(), table)

	stmt, err := db.getStmt(ctx, query)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	feature, err := db.scanFeature(stmt.QueryRowContext(ctx, id))
	metrics.RecordDBQuery("select", table, time.Since(start), err)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get %s %d: %w", kind, id, err)
	}
	return feature, nil
}

// ListFeatures returns features ordered by id with limit/offset pagination.
func (db *DB) ListFeatures(ctx context.Context, kind models.FeatureKind, limit, offset int) ([]models.Feature, error) {
	table, err := tableFor(kind)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf("SELECT id, name, %s FROM %s ORDER BY id LIMIT ? OFFSET ?",
		db.geomColumnExpr(), table)

	start := time.Now()
	rows, err := db.conn.QueryContext(ctx, query, limit, offset)
	metrics.RecordDBQuery("select", table, time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("failed to list %ss: %w", kind, err)
	}
	defer closeQuietly(rows)

	return scanFeatures(rows)
}

// UpdateFeature replaces the name and geometry of an existing feature and
// returns the stored row, or ErrNotFound.
func (db *DB) UpdateFeature(ctx context.Context, kind models.FeatureKind, id int64, name string, geojson []byte) (*models.Feature, error) {
	table, err := tableFor(kind)
	if err != nil {
		return nil, err
	}

	var query string
	if db.spatialAvailable {
		query = fmt.Sprintf(`UPDATE %s
			SET name = ?, geom = ST_GeomFromGeoJSON(?)
			WHERE id = ?
			RETURNING id, name, ST_AsGeoJSON(geom)`, table)
	} else {
		query = fmt.Sprintf(`UPDATE %s
			SET name = ?, geom_json = ?
			WHERE id = ?
			RETURNING id, name, geom_json`, table)
	}

	start := time.Now()
	feature, err := db.scanFeature(db.conn.QueryRowContext(ctx, query, name, string(geojson), id))
	metrics.RecordDBQuery("update", table, time.Since(start), err)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update %s %d: %w", kind, id, err)
	}
	return feature, nil
}

// DeleteFeature removes a feature by id, or returns ErrNotFound.
func (db *DB) DeleteFeature(ctx context.Context, kind models.FeatureKind, id int64) error {
	table, err := tableFor(kind)
	if err != nil {
		return err
	}

	query := fmt.Sprintf("DELETE FROM %s WHERE id = ?", table)

	start := time.Now()
	result, err := db.conn.ExecContext(ctx, query, id)
	metrics.RecordDBQuery("delete", table, time.Since(start), err)
	if err != nil {
		return fmt.Errorf("failed to delete %s %d: %w", kind, id, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// featureExists reports whether a feature row exists.
func (db *DB) featureExists(ctx context.Context, kind models.FeatureKind, id int64) (bool, error) {
	table, err := tableFor(kind)
	if err != nil {
		return false, err
	}

	var exists bool
	query := fmt.Sprintf("SELECT EXISTS (SELECT 1 FROM %s WHERE id = ?)", table)
	if err := db.conn.QueryRowContext(ctx, query, id).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check %s %d: %w", kind, id, err)
	}
	return exists, nil
}

// geomColumnExpr returns the SELECT expression that yields GeoJSON for the
// geometry column in the current mode.
func (db *DB) geomColumnExpr() string {
	if db.spatialAvailable {
		return "ST_AsGeoJSON(geom)"
	}
	return "geom_json"
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...interface{}) error
}

// scanFeature scans an (id, name, geojson) row into a Feature.
func (db *DB) scanFeature(row rowScanner) (*models.Feature, error) {
	var feature models.Feature
	var geojsonStr string
	if err := row.Scan(&feature.ID, &feature.Name, &geojsonStr); err != nil {
		return nil, err
	}
	feature.GeoJSON = json.RawMessage(geojsonStr)
	return &feature, nil
}

// scanFeatures drains a feature result set.
func scanFeatures(rows *sql.Rows) ([]models.Feature, error) {
	features := []models.Feature{}
	for rows.Next() {
		var feature models.Feature
		var geojsonStr string
		if err := rows.Scan(&feature.ID, &feature.Name, &geojsonStr); err != nil {
			return nil, fmt.Errorf("failed to scan feature: %w", err)
		}
		feature.GeoJSON = json.RawMessage(geojsonStr)
		features = append(features, feature)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("feature iteration failed: %w", err)
	}
	return features, nil
}
