// WebGIS - Geospatial Feature API over DuckDB Spatial and GDAL
// Copyright 2026 GeoBradDev
// SPDX-License-Identifier: MIT
// https://github.com/GeoBradDev/webgis-go

package raster

import (
	"errors"
	"testing"
)

func TestEmptyCatalog(t *testing.T) {
	catalog, err := NewCatalog("")
	if err != nil {
		t.Fatalf("NewCatalog(\"\") failed: %v", err)
	}

	if names := catalog.Names(); len(names) != 0 {
		t.Errorf("Names() = %v, want empty", names)
	}

	infos, err := catalog.List()
	if err != nil {
		t.Fatalf("List() failed: %v", err)
	}
	if len(infos) != 0 {
		t.Errorf("List() = %v, want empty", infos)
	}

	if _, err := catalog.Info("dem"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Info(missing) = %v, want ErrNotFound", err)
	}
	if _, err := catalog.BandStatistics("dem", 1); !errors.Is(err, ErrNotFound) {
		t.Errorf("BandStatistics(missing) = %v, want ErrNotFound", err)
	}
	if _, err := catalog.ValueAt("dem", 1, 0, 0); !errors.Is(err, ErrNotFound) {
		t.Errorf("ValueAt(missing) = %v, want ErrNotFound", err)
	}
}

func TestCatalogScansDirectory(t *testing.T) {
	// An empty directory yields an empty catalog without errors; files that
	// are not GDAL-readable are skipped during the scan.
	catalog, err := NewCatalog(t.TempDir())
	if err != nil {
		t.Fatalf("NewCatalog() failed: %v", err)
	}
	if names := catalog.Names(); len(names) != 0 {
		t.Errorf("Names() = %v, want empty", names)
	}
}

func TestDriverForExt(t *testing.T) {
	tests := []struct {
		ext  string
		want string
	}{
		{".tif", "GTiff"},
		{".TIFF", "GTiff"},
		{".vrt", "VRT"},
		{".nc", "netCDF"},
		{".xyz", ""},
	}
	for _, tt := range tests {
		if got := driverForExt(tt.ext); got != tt.want {
			t.Errorf("driverForExt(%q) = %q, want %q", tt.ext, got, tt.want)
		}
	}
}
