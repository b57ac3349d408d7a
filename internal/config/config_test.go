// WebGIS - Geospatial Feature API over DuckDB Spatial and GDAL
// Copyright 2026 GeoBradDev
// SPDX-License-Identifier: MIT
// https://github.com/GeoBradDev/webgis-go

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// clearConfigEnv removes every mapped env var so the ambient environment
// cannot leak into Load tests.
func clearConfigEnv(t *testing.T) {
	t.Helper()
	vars := []string{
		"WEBGIS_HOST", "WEBGIS_PORT", "ENVIRONMENT", "DUCKDB_PATH",
		"DUCKDB_MAX_MEMORY", "DUCKDB_THREADS", "DUCKDB_SPATIAL_OPTIONAL",
		"RASTER_DATA_DIR", "AUTH_MODE", "JWT_SECRET", "CORS_ORIGINS",
		"LOG_LEVEL", "LOG_FORMAT", "CONFIG_PATH",
	}
	for _, v := range vars {
		t.Setenv(v, "")
		os.Unsetenv(v)
	}
}

func TestLoadDefaults(t *testing.T) {
	clearConfigEnv(t)
	t.Chdir(t.TempDir())

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.Server.Port != 4326 {
		t.Errorf("default port = %d, want 4326", cfg.Server.Port)
	}
	if cfg.Server.Environment != "development" {
		t.Errorf("default environment = %q", cfg.Server.Environment)
	}
	if cfg.Database.Path != "/data/webgis.duckdb" {
		t.Errorf("default database path = %q", cfg.Database.Path)
	}
	if cfg.Security.AuthMode != "jwt" {
		t.Errorf("default auth mode = %q", cfg.Security.AuthMode)
	}
	if cfg.API.CacheTTL != 5*time.Minute {
		t.Errorf("default cache TTL = %v", cfg.API.CacheTTL)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	clearConfigEnv(t)
	t.Chdir(t.TempDir())

	t.Setenv("WEBGIS_PORT", "8080")
	t.Setenv("DUCKDB_PATH", "/tmp/override.duckdb")
	t.Setenv("AUTH_MODE", "none")
	t.Setenv("CORS_ORIGINS", "https://a.example.com, https://b.example.com")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.Server.Port != 8080 {
		t.Errorf("port = %d, want 8080", cfg.Server.Port)
	}
	if cfg.Database.Path != "/tmp/override.duckdb" {
		t.Errorf("database path = %q", cfg.Database.Path)
	}
	if cfg.Security.AuthMode != "none" {
		t.Errorf("auth mode = %q", cfg.Security.AuthMode)
	}
	if len(cfg.Security.CORSOrigins) != 2 || cfg.Security.CORSOrigins[1] != "https://b.example.com" {
		t.Errorf("cors origins = %v", cfg.Security.CORSOrigins)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("log level = %q", cfg.Logging.Level)
	}
}

func TestLoadConfigFile(t *testing.T) {
	clearConfigEnv(t)
	dir := t.TempDir()
	t.Chdir(dir)

	yaml := strings.Join([]string{
		"server:",
		"  port: 9000",
		"security:",
		"  auth_mode: none",
	}, "\n")
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0o600); err != nil {
		t.Fatalf("write config file: %v", err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.Server.Port != 9000 {
		t.Errorf("port from file = %d, want 9000", cfg.Server.Port)
	}

	// Env overrides the file.
	t.Setenv("WEBGIS_PORT", "9001")
	cfg, err = Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.Server.Port != 9001 {
		t.Errorf("port with env override = %d, want 9001", cfg.Server.Port)
	}
}

func TestValidateRules(t *testing.T) {
	base := func() *Config { return defaultConfig() }

	t.Run("defaults are valid", func(t *testing.T) {
		if err := base().Validate(); err != nil {
			t.Errorf("Validate() on defaults failed: %v", err)
		}
	})

	t.Run("short jwt secret", func(t *testing.T) {
		cfg := base()
		cfg.Security.JWTSecret = "too-short"
		if err := cfg.Validate(); err == nil {
			t.Error("Validate() accepted a short JWT secret")
		}
	})

	t.Run("missing secret in production", func(t *testing.T) {
		cfg := base()
		cfg.Server.Environment = "production"
		if err := cfg.Validate(); err == nil {
			t.Error("Validate() accepted production without a JWT secret")
		}
	})

	t.Run("auth none in production", func(t *testing.T) {
		cfg := base()
		cfg.Server.Environment = "production"
		cfg.Security.AuthMode = "none"
		if err := cfg.Validate(); err == nil {
			t.Error("Validate() accepted auth_mode=none in production")
		}
	})

	t.Run("page size ordering", func(t *testing.T) {
		cfg := base()
		cfg.API.DefaultPageSize = 2000
		if err := cfg.Validate(); err == nil {
			t.Error("Validate() accepted default_page_size > max_page_size")
		}
	})

	t.Run("bad port", func(t *testing.T) {
		cfg := base()
		cfg.Server.Port = 0
		if err := cfg.Validate(); err == nil {
			t.Error("Validate() accepted port 0")
		}
	})

	t.Run("bad environment", func(t *testing.T) {
		cfg := base()
		cfg.Server.Environment = "staging"
		if err := cfg.Validate(); err == nil {
			t.Error("Validate() accepted unknown environment")
		}
	})
}
