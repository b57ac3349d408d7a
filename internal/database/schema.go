// WebGIS - Geospatial Feature API over DuckDB Spatial and GDAL
// Copyright 2026 GeoBradDev
// SPDX-License-Identifier: MIT
// https://github.com/GeoBradDev/webgis-go

package database

import (
	"fmt"

	"github.com/GeoBradDev/webgis-go/internal/logging"
	"github.com/GeoBradDev/webgis-go/internal/models"
)

// featureTables maps feature kinds to their table names. Table names are
// only ever taken from this map, never from request input.
var featureTables = map[models.FeatureKind]string{
	models.KindPoint:   "points",
	models.KindLine:    "lines",
	models.KindPolygon: "polygons",
}

// tableFor resolves the table name for a feature kind.
func tableFor(kind models.FeatureKind) (string, error) {
	table, ok := featureTables[kind]
	if !ok {
		return "", fmt.Errorf("unknown feature kind %q", kind)
	}
	return table, nil
}

// createTables creates the feature tables, the users table and the id
// sequences. Geometry lives in a GEOMETRY column (SRID 4326 by convention)
// when the spatial extension is loaded; otherwise raw GeoJSON text is
// stored so CRUD keeps working in degraded mode.
func (db *DB) createTables() error {
	var ddl []string

	for _, table := range featureTables {
		ddl = append(ddl, fmt.Sprintf(
			"CREATE SEQUENCE IF NOT EXISTS %s_id_seq START 1;", table))

		if db.spatialAvailable {
			ddl = append(ddl, fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
				id BIGINT PRIMARY KEY DEFAULT nextval('%s_id_seq'),
				name VARCHAR NOT NULL,
				geom GEOMETRY NOT NULL
			);`, table, table))
		} else {
			ddl = append(ddl, fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
				id BIGINT PRIMARY KEY DEFAULT nextval('%s_id_seq'),
				name VARCHAR NOT NULL,
				geom_json VARCHAR NOT NULL
			);`, table, table))
		}
	}

	ddl = append(ddl,
		"CREATE SEQUENCE IF NOT EXISTS users_id_seq START 1;",
		`CREATE TABLE IF NOT EXISTS users (
			id BIGINT PRIMARY KEY DEFAULT nextval('users_id_seq'),
			email VARCHAR NOT NULL UNIQUE,
			password_hash VARCHAR NOT NULL,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		);`,
	)

	for _, query := range ddl {
		if _, err := db.conn.Exec(query); err != nil {
			return fmt.Errorf("failed to create schema: %s: %w", query, err)
		}
	}

	return nil
}

// createIndexes creates R-tree spatial indexes on the geometry columns.
// R-tree indexes make bounding box and intersection queries scale with the
// result size instead of the table size.
func (db *DB) createIndexes() error {
	if !db.spatialAvailable {
		return nil
	}

	for _, table := range featureTables {
		query := fmt.Sprintf(
			"CREATE INDEX IF NOT EXISTS idx_%s_geom ON %s USING RTREE (geom);", table, table)
		if _, err := db.conn.Exec(query); err != nil {
			// R-tree support depends on the spatial extension version.
			// Queries still work without the index, just slower.
			logging.Warn().Err(err).Str("table", table).Msg("Failed to create spatial index")
		}
	}

	return nil
}
