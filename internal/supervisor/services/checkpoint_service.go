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

// Checkpointer flushes the database WAL. Satisfied by *database.DB.
type Checkpointer interface {
	Checkpoint(ctx context.Context) error
}

// CheckpointService periodically checkpoints DuckDB so the WAL stays small
// and restarts avoid long replays. Failures are logged and retried on the
// next tick rather than crashing the service.
type CheckpointService struct {
	db       Checkpointer
	interval time.Duration
}

// NewCheckpointService creates a checkpoint service. interval defaults to
// five minutes.
func NewCheckpointService(db Checkpointer, interval time.Duration) *CheckpointService {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	return &CheckpointService{db: db, interval: interval}
}

// Serve implements suture.Service.
func (s *CheckpointService) Serve(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			checkpointCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
			err := s.db.Checkpoint(checkpointCtx)
			cancel()
			if err != nil {
				logging.Warn().Err(err).Msg("Periodic checkpoint failed")
				continue
			}
			logging.Debug().Msg("Periodic checkpoint completed")
		}
	}
}

// String identifies the service in supervisor logs.
func (s *CheckpointService) String() string {
	return "db-checkpoint"
}
