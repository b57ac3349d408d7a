// WebGIS - Geospatial Feature API over DuckDB Spatial and GDAL
// Copyright 2026 GeoBradDev
// SPDX-License-Identifier: MIT
// https://github.com/GeoBradDev/webgis-go

package services

import (
	"context"
	"time"

	"github.com/GeoBradDev/webgis-go/internal/logging"
)

// Rescanner rebuilds the raster catalog. Satisfied by *raster.Catalog.
type Rescanner interface {
	Rescan() error
}

// RescanService periodically rescans the raster data directory so datasets
// dropped into it become visible without a restart.
type RescanService struct {
	catalog  Rescanner
	interval time.Duration
}

// NewRescanService creates a rescan service. interval defaults to ten
// minutes.
func NewRescanService(catalog Rescanner, interval time.Duration) *RescanService {
	if interval <= 0 {
		interval = 10 * time.Minute
	}
	return &RescanService{catalog: catalog, interval: interval}
}

// Serve implements suture.Service.
func (s *RescanService) Serve(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := s.catalog.Rescan(); err != nil {
				logging.Warn().Err(err).Msg("Raster catalog rescan failed")
			}
		}
	}
}

// String identifies the service in supervisor logs.
func (s *RescanService) String() string {
	return "raster-rescan"
}
