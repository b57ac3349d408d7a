// WebGIS - Geospatial Feature API over DuckDB Spatial and GDAL
// Copyright 2026 GeoBradDev
// SPDX-License-Identifier: MIT
// https://github.com/GeoBradDev/webgis-go

package models

import (
	"time"
)

// APIResponse is the standardized response wrapper used by all HTTP
// endpoints. It provides a consistent structure for both successful and
// error responses, with metadata for observability.
//
// Status field values:
//   - "success": request completed, see Data
//   - "error": request failed, see Error
//
// Example successful response:
//
//	{
//	  "status": "success",
//	  "data": {"features": [...]},
//	  "metadata": {"timestamp": "2026-08-29T12:00:00Z", "query_time_ms": 4}
//	}
//
// Example error response:
//
//	{
//	  "status": "error",
//	  "error": {"code": "NOT_FOUND", "message": "Polygon not found"},
//	  "metadata": {"timestamp": "2026-08-29T12:00:00Z"}
//	}
type APIResponse struct {
	Status   string      `json:"status"`
	Data     interface{} `json:"data"`
	Metadata Metadata    `json:"metadata"`
	Error    *APIError   `json:"error,omitempty"`
}

// Metadata contains response metadata for observability. QueryTimeMS is the
// database (or GDAL) execution time in milliseconds; Cached marks responses
// served from the operation cache.
type Metadata struct {
	Timestamp   time.Time `json:"timestamp"`
	QueryTimeMS int64     `json:"query_time_ms,omitempty"`
	Cached      bool      `json:"cached,omitempty"`
}

// APIError contains structured error details for failed requests.
//
// Error codes used by the API:
//   - VALIDATION_ERROR: invalid request parameters or body
//   - NOT_FOUND: referenced feature, raster or route does not exist
//   - DATABASE_ERROR: DuckDB query failed
//   - RASTER_ERROR: GDAL operation failed
//   - AUTH_ERROR: authentication failed or token invalid
//   - METHOD_NOT_ALLOWED: wrong HTTP method
//   - SERVICE_ERROR: dependency unavailable
type APIError struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}
