// WebGIS - Geospatial Feature API over DuckDB Spatial and GDAL
// Copyright 2026 GeoBradDev
// SPDX-License-Identifier: MIT
// https://github.com/GeoBradDev/webgis-go

// Package config loads and validates server configuration.
//
// Configuration is loaded via Koanf v2 with layered sources (highest
// priority wins):
//   - Environment variables (WEBGIS_PORT, DUCKDB_PATH, JWT_SECRET, ...)
//   - Config file (config.yaml)
//   - Built-in defaults
package config

import "time"

// Config is the root configuration for the WebGIS server.
type Config struct {
	Server   ServerConfig   `koanf:"server"`
	Database DatabaseConfig `koanf:"database"`
	Raster   RasterConfig   `koanf:"raster"`
	API      APIConfig      `koanf:"api"`
	Security SecurityConfig `koanf:"security"`
	Logging  LoggingConfig  `koanf:"logging"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port" validate:"min=1,max=65535"`
	ReadTimeout     time.Duration `koanf:"read_timeout"`
	WriteTimeout    time.Duration `koanf:"write_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
	Environment     string        `koanf:"environment" validate:"oneof=development production"`
}

// DatabaseConfig holds DuckDB settings. The spatial extension is required
// for all geometry endpoints; SpatialOptional allows startup without it for
// test environments where the extension is not installed.
type DatabaseConfig struct {
	Path                   string `koanf:"path" validate:"required"`
	MaxMemory              string `koanf:"max_memory"`
	Threads                int    `koanf:"threads" validate:"min=0"`
	PreserveInsertionOrder bool   `koanf:"preserve_insertion_order"`
	SpatialOptional        bool   `koanf:"spatial_optional"`
}

// RasterConfig holds the raster catalog settings. DataDir is scanned for
// GDAL-readable datasets at startup; an empty DataDir disables the raster
// endpoints.
type RasterConfig struct {
	DataDir string `koanf:"data_dir"`
}

// APIConfig holds request handling limits.
type APIConfig struct {
	DefaultPageSize int           `koanf:"default_page_size" validate:"min=1"`
	MaxPageSize     int           `koanf:"max_page_size" validate:"min=1"`
	CacheTTL        time.Duration `koanf:"cache_ttl"`
}

// SecurityConfig holds authentication and rate limiting settings.
//
// AuthMode values:
//   - "jwt": mutating endpoints require a bearer token from /auth/login
//   - "none": no authentication (development only)
type SecurityConfig struct {
	AuthMode        string        `koanf:"auth_mode" validate:"oneof=jwt none"`
	JWTSecret       string        `koanf:"jwt_secret"`
	SessionTimeout  time.Duration `koanf:"session_timeout"`
	RateLimitReqs   int           `koanf:"rate_limit_reqs" validate:"min=1"`
	RateLimitWindow time.Duration `koanf:"rate_limit_window"`
	CORSOrigins     []string      `koanf:"cors_origins"`
}

// LoggingConfig holds log output settings.
type LoggingConfig struct {
	Level  string `koanf:"level" validate:"oneof=trace debug info warn error fatal"`
	Format string `koanf:"format" validate:"oneof=json console"`
	Caller bool   `koanf:"caller"`
}

// defaultConfig returns a Config with all default values. Defaults are
// applied first, then overridden by config file and env vars.
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            4326, // EPSG:4326, the SRID every feature is stored in
			ReadTimeout:     30 * time.Second,
			WriteTimeout:    30 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			Environment:     "development",
		},
		Database: DatabaseConfig{
			Path:                   "/data/webgis.duckdb",
			MaxMemory:              "2GB",
			Threads:                0, // 0 = runtime.NumCPU()
			PreserveInsertionOrder: true,
			SpatialOptional:        false,
		},
		Raster: RasterConfig{
			DataDir: "",
		},
		API: APIConfig{
			DefaultPageSize: 100,
			MaxPageSize:     1000,
			CacheTTL:        5 * time.Minute,
		},
		Security: SecurityConfig{
			AuthMode:        "jwt",
			JWTSecret:       "",
			SessionTimeout:  24 * time.Hour,
			RateLimitReqs:   100,
			RateLimitWindow: 1 * time.Minute,
			CORSOrigins:     []string{"*"},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
	}
}
