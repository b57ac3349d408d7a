// WebGIS - Geospatial Feature API over DuckDB Spatial and GDAL
// Copyright 2026 GeoBradDev
// SPDX-License-Identifier: MIT
// https://github.com/GeoBradDev/webgis-go

package database

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/GeoBradDev/webgis-go/internal/config"
	"github.com/GeoBradDev/webgis-go/internal/models"
)

// newTestDB opens a throwaway database in a temp directory. The spatial
// extension is marked optional so tests run on machines where it cannot be
// installed; spatial tests must check IsSpatialAvailable and skip.
func newTestDB(t *testing.T) *DB {
	t.Helper()

	t.Setenv("DUCKDB_SPATIAL_OPTIONAL", "true")

	db, err := New(&config.DatabaseConfig{
		Path:      filepath.Join(t.TempDir(), "test.duckdb"),
		MaxMemory: "512MB",
		Threads:   2,
	})
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	t.Cleanup(func() {
		if err := db.Close(); err != nil {
			t.Errorf("Close() failed: %v", err)
		}
	})
	return db
}

// requireSpatialExt skips the test when the spatial extension could not be
// loaded.
func requireSpatialExt(t *testing.T, db *DB) {
	t.Helper()
	if !db.IsSpatialAvailable() {
		t.Skip("spatial extension not available")
	}
}

func TestNewCreatesSchema(t *testing.T) {
	db := newTestDB(t)

	ctx := context.Background()
	if err := db.Ping(ctx); err != nil {
		t.Fatalf("Ping() failed: %v", err)
	}

	for _, table := range []string{"points", "lines", "polygons", "users"} {
		var count int
		query := "SELECT count(*) FROM " + table
		if err := db.Conn().QueryRowContext(ctx, query).Scan(&count); err != nil {
			t.Errorf("table %s missing: %v", table, err)
		}
	}
}

func TestFeatureCRUD(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	tests := []struct {
		kind    models.FeatureKind
		geojson string
	}{
		{models.KindPoint, `{"type":"Point","coordinates":[13.4,52.5]}`},
		{models.KindLine, `{"type":"LineString","coordinates":[[0,0],[1,1]]}`},
		{models.KindPolygon, `{"type":"Polygon","coordinates":[[[0,0],[1,0],[1,1],[0,0]]]}`},
	}

	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			created, err := db.CreateFeature(ctx, tt.kind, "first", []byte(tt.geojson))
			if err != nil {
				t.Fatalf("CreateFeature() failed: %v", err)
			}
			if created.ID == 0 {
				t.Error("CreateFeature() returned zero id")
			}
			if created.Name != "first" {
				t.Errorf("CreateFeature() name = %q, want %q", created.Name, "first")
			}
			if len(created.GeoJSON) == 0 {
				t.Error("CreateFeature() returned empty geometry")
			}

			got, err := db.GetFeature(ctx, tt.kind, created.ID)
			if err != nil {
				t.Fatalf("GetFeature() failed: %v", err)
			}
			if got.ID != created.ID || got.Name != created.Name {
				t.Errorf("GetFeature() = %+v, want %+v", got, created)
			}

			updated, err := db.UpdateFeature(ctx, tt.kind, created.ID, "renamed", []byte(tt.geojson))
			if err != nil {
				t.Fatalf("UpdateFeature() failed: %v", err)
			}
			if updated.Name != "renamed" {
				t.Errorf("UpdateFeature() name = %q, want %q", updated.Name, "renamed")
			}

			list, err := db.ListFeatures(ctx, tt.kind, 10, 0)
			if err != nil {
				t.Fatalf("ListFeatures() failed: %v", err)
			}
			if len(list) != 1 {
				t.Errorf("ListFeatures() returned %d features, want 1", len(list))
			}

			if err := db.DeleteFeature(ctx, tt.kind, created.ID); err != nil {
				t.Fatalf("DeleteFeature() failed: %v", err)
			}
			if _, err := db.GetFeature(ctx, tt.kind, created.ID); !errors.Is(err, ErrNotFound) {
				t.Errorf("GetFeature() after delete = %v, want ErrNotFound", err)
			}
		})
	}
}

func TestFeatureNotFound(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	if _, err := db.GetFeature(ctx, models.KindPolygon, 9999); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetFeature() = %v, want ErrNotFound", err)
	}
	if err := db.DeleteFeature(ctx, models.KindPoint, 9999); !errors.Is(err, ErrNotFound) {
		t.Errorf("DeleteFeature() = %v, want ErrNotFound", err)
	}
	geojson := `{"type":"Point","coordinates":[0,0]}`
	if _, err := db.UpdateFeature(ctx, models.KindPoint, 9999, "x", []byte(geojson)); !errors.Is(err, ErrNotFound) {
		t.Errorf("UpdateFeature() = %v, want ErrNotFound", err)
	}
}

func TestUnknownFeatureKind(t *testing.T) {
	db := newTestDB(t)

	_, err := db.GetFeature(context.Background(), models.FeatureKind("circle"), 1)
	if err == nil {
		t.Fatal("GetFeature() with unknown kind should fail")
	}
}

func TestListFeaturesPagination(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		geojson := `{"type":"Point","coordinates":[1,1]}`
		if _, err := db.CreateFeature(ctx, models.KindPoint, "p", []byte(geojson)); err != nil {
			t.Fatalf("CreateFeature() failed: %v", err)
		}
	}

	page, err := db.ListFeatures(ctx, models.KindPoint, 2, 0)
	if err != nil {
		t.Fatalf("ListFeatures() failed: %v", err)
	}
	if len(page) != 2 {
		t.Errorf("ListFeatures(limit=2) returned %d features", len(page))
	}

	rest, err := db.ListFeatures(ctx, models.KindPoint, 10, 4)
	if err != nil {
		t.Fatalf("ListFeatures() failed: %v", err)
	}
	if len(rest) != 1 {
		t.Errorf("ListFeatures(offset=4) returned %d features, want 1", len(rest))
	}
}

func TestSpatialUnavailableGuard(t *testing.T) {
	db := newTestDB(t)
	db.SetSpatialAvailableForTesting(false)

	ctx := context.Background()
	if _, err := db.PolygonAreas(ctx); !errors.Is(err, ErrSpatialUnavailable) {
		t.Errorf("PolygonAreas() = %v, want ErrSpatialUnavailable", err)
	}
	if _, err := db.PointsNear(ctx, 0, 0, 100); !errors.Is(err, ErrSpatialUnavailable) {
		t.Errorf("PointsNear() = %v, want ErrSpatialUnavailable", err)
	}
	if _, err := db.BufferPolygon(ctx, 1, 100); !errors.Is(err, ErrSpatialUnavailable) {
		t.Errorf("BufferPolygon() = %v, want ErrSpatialUnavailable", err)
	}
}
