// WebGIS - Geospatial Feature API over DuckDB Spatial and GDAL
// Copyright 2026 GeoBradDev
// SPDX-License-Identifier: MIT
// https://github.com/GeoBradDev/webgis-go

// Command server runs the WebGIS HTTP API.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/GeoBradDev/webgis-go/internal/api"
	"github.com/GeoBradDev/webgis-go/internal/auth"
	"github.com/GeoBradDev/webgis-go/internal/config"
	"github.com/GeoBradDev/webgis-go/internal/database"
	"github.com/GeoBradDev/webgis-go/internal/logging"
	"github.com/GeoBradDev/webgis-go/internal/raster"
	"github.com/GeoBradDev/webgis-go/internal/supervisor"
	"github.com/GeoBradDev/webgis-go/internal/supervisor/services"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		Caller:    cfg.Logging.Caller,
		Timestamp: true,
		Output:    os.Stderr,
	})

	logging.Info().
		Str("environment", cfg.Server.Environment).
		Int("port", cfg.Server.Port).
		Msg("Starting WebGIS server")

	db, err := database.New(&cfg.Database)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to open database")
	}
	defer func() {
		if err := db.Close(); err != nil {
			logging.Error().Err(err).Msg("Failed to close database")
		}
	}()

	if !db.IsSpatialAvailable() {
		logging.Warn().Msg("Running without the spatial extension, geometry endpoints disabled")
	}

	catalog, err := raster.NewCatalog(cfg.Raster.DataDir)
	if err != nil {
		logging.Fatal().Err(err).Str("dir", cfg.Raster.DataDir).Msg("Failed to scan raster directory")
	}

	var jwtManager *auth.JWTManager
	switch {
	case cfg.Security.AuthMode == "jwt" && cfg.Security.JWTSecret != "":
		jwtManager, err = auth.NewJWTManager(&cfg.Security)
		if err != nil {
			logging.Fatal().Err(err).Msg("Failed to initialize JWT manager")
		}
	case cfg.Security.AuthMode == "jwt":
		// Config validation only allows an empty secret outside production.
		logging.Warn().Msg("JWT_SECRET not set, authentication disabled for this run")
	default:
		logging.Warn().Msg("Authentication disabled, mutating endpoints are open")
	}

	handler := api.NewHandler(db, catalog, cfg, jwtManager)
	router := api.NewRouter(handler)

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router.Setup(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	tree := supervisor.NewTree(logging.NewSlogLogger(), supervisor.TreeConfig{
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
	})
	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout))
	tree.AddDataService(services.NewCheckpointService(db, 5*time.Minute))
	if cfg.Raster.DataDir != "" {
		tree.AddDataService(services.NewRescanService(catalog, 10*time.Minute))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logging.Info().Str("addr", server.Addr).Msg("HTTP server listening")

	if err := tree.Serve(ctx); err != nil && err != context.Canceled {
		logging.Error().Err(err).Msg("Supervisor exited with error")
	}

	if report, err := tree.UnstoppedServiceReport(); err == nil && len(report) > 0 {
		for _, svc := range report {
			logging.Warn().Str("service", fmt.Sprintf("%v", svc.Service)).Msg("Service did not stop in time")
		}
	}

	logging.Info().Msg("Server stopped")
}
