// WebGIS - Geospatial Feature API over DuckDB Spatial and GDAL
// Copyright 2026 GeoBradDev
// SPDX-License-Identifier: MIT
// https://github.com/GeoBradDev/webgis-go

// Package api implements the HTTP layer: routing, request decoding and
// validation, response envelopes and the operation result cache. Handlers
// never compute geometry; they call into the database and raster packages
// and shape the results.
package api

import (
	"time"

	cache "github.com/patrickmn/go-cache"

	"github.com/GeoBradDev/webgis-go/internal/auth"
	"github.com/GeoBradDev/webgis-go/internal/config"
	"github.com/GeoBradDev/webgis-go/internal/database"
	"github.com/GeoBradDev/webgis-go/internal/raster"
)

// Handler holds dependencies for all HTTP handlers.
type Handler struct {
	db      *database.DB
	rasters *raster.Catalog
	cfg     *config.Config
	jwt     *auth.JWTManager

	// opCache holds results of read-only spatial and raster operations.
	// Entries expire on the configured TTL; mutations purge the cache.
	opCache *cache.Cache

	startTime time.Time
}

// NewHandler creates a handler with its dependencies. jwtManager may be nil
// when auth_mode is "none".
func NewHandler(db *database.DB, rasters *raster.Catalog, cfg *config.Config, jwtManager *auth.JWTManager) *Handler {
	ttl := cfg.API.CacheTTL
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}

	return &Handler{
		db:        db,
		rasters:   rasters,
		cfg:       cfg,
		jwt:       jwtManager,
		opCache:   cache.New(ttl, 2*ttl),
		startTime: time.Now(),
	}
}
