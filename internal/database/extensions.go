// WebGIS - Geospatial Feature API over DuckDB Spatial and GDAL
// Copyright 2026 GeoBradDev
// SPDX-License-Identifier: MIT
// https://github.com/GeoBradDev/webgis-go

package database

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/GeoBradDev/webgis-go/internal/logging"
)

// extensionLoadTimeout bounds INSTALL/LOAD of the spatial extension. The
// install step may hit the network for the extension repository.
const extensionLoadTimeout = 30 * time.Second

// installExtensions installs and loads the DuckDB spatial extension, which
// provides the GEOMETRY type, ST_* functions and R-tree indexes that every
// geometry endpoint delegates to.
//
// Installation follows a fallback pattern:
//  1. Try LOAD spatial (already installed locally)
//  2. Try INSTALL spatial; LOAD spatial (fetch from extension repository)
//  3. If both fail and the extension is optional, degrade gracefully:
//     feature CRUD stores raw GeoJSON text and geometry operations return
//     ErrSpatialUnavailable.
//
// Set DUCKDB_SPATIAL_OPTIONAL=true (or database.spatial_optional) to allow
// startup without the extension. This is intended for test environments.
func (db *DB) installExtensions() error {
	ctx, cancel := context.WithTimeout(context.Background(), extensionLoadTimeout)
	defer cancel()

	if _, err := db.conn.ExecContext(ctx, "LOAD spatial;"); err == nil {
		logging.Debug().Msg("Spatial extension loaded")
		return nil
	}

	if _, err := db.conn.ExecContext(ctx, "INSTALL spatial;"); err != nil {
		return db.handleSpatialFailure(fmt.Errorf("failed to install spatial extension: %w", err))
	}
	if _, err := db.conn.ExecContext(ctx, "LOAD spatial;"); err != nil {
		return db.handleSpatialFailure(fmt.Errorf("failed to load spatial extension: %w", err))
	}

	logging.Info().Msg("Spatial extension installed and loaded")
	return nil
}

// handleSpatialFailure either degrades gracefully or aborts startup,
// depending on whether the spatial extension is marked optional.
func (db *DB) handleSpatialFailure(err error) error {
	if db.spatialOptional() {
		logging.Warn().Err(err).Msg("Spatial extension unavailable, geometry operations disabled")
		db.spatialAvailable = false
		return nil
	}
	return err
}

// spatialOptional reports whether startup may proceed without the spatial
// extension. The env var takes precedence over config so test harnesses can
// force it.
func (db *DB) spatialOptional() bool {
	if v := os.Getenv("DUCKDB_SPATIAL_OPTIONAL"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return db.cfg != nil && db.cfg.SpatialOptional
}
