// WebGIS - Geospatial Feature API over DuckDB Spatial and GDAL
// Copyright 2026 GeoBradDev
// SPDX-License-Identifier: MIT
// https://github.com/GeoBradDev/webgis-go

package database

import "errors"

// Sentinel errors returned by the data access layer.
var (
	// ErrNotFound indicates the requested feature or user does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrSpatialUnavailable indicates the DuckDB spatial extension could
	// not be loaded, so geometry operations cannot be executed.
	ErrSpatialUnavailable = errors.New("spatial extension not available")

	// ErrDuplicateEmail indicates a user with the same email already exists.
	ErrDuplicateEmail = errors.New("email already registered")
)
