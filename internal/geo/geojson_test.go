// WebGIS - Geospatial Feature API over DuckDB Spatial and GDAL
// Copyright 2026 GeoBradDev
// SPDX-License-Identifier: MIT
// https://github.com/GeoBradDev/webgis-go

package geo

import (
	"testing"
)

func TestParseGeometry(t *testing.T) {
	tests := []struct {
		name         string
		raw          string
		expectedType string
		wantErr      bool
	}{
		{
			name:         "valid point",
			raw:          `{"type":"Point","coordinates":[13.4,52.5]}`,
			expectedType: "Point",
		},
		{
			name:         "valid linestring",
			raw:          `{"type":"LineString","coordinates":[[0,0],[1,1]]}`,
			expectedType: "LineString",
		},
		{
			name:         "valid polygon",
			raw:          `{"type":"Polygon","coordinates":[[[0,0],[1,0],[1,1],[0,0]]]}`,
			expectedType: "Polygon",
		},
		{
			name:         "type mismatch",
			raw:          `{"type":"Point","coordinates":[13.4,52.5]}`,
			expectedType: "Polygon",
			wantErr:      true,
		},
		{
			name:         "malformed json",
			raw:          `{"type":"Point","coordinates":`,
			expectedType: "Point",
			wantErr:      true,
		},
		{
			name:         "longitude out of range",
			raw:          `{"type":"Point","coordinates":[181,0]}`,
			expectedType: "Point",
			wantErr:      true,
		},
		{
			name:         "latitude out of range",
			raw:          `{"type":"Point","coordinates":[0,-91]}`,
			expectedType: "Point",
			wantErr:      true,
		},
		{
			name:         "linestring with one position",
			raw:          `{"type":"LineString","coordinates":[[0,0]]}`,
			expectedType: "LineString",
			wantErr:      true,
		},
		{
			name:         "polygon ring not closed",
			raw:          `{"type":"Polygon","coordinates":[[[0,0],[1,0],[1,1],[2,2]]]}`,
			expectedType: "Polygon",
			wantErr:      true,
		},
		{
			name:         "polygon ring too short",
			raw:          `{"type":"Polygon","coordinates":[[[0,0],[1,0],[0,0]]]}`,
			expectedType: "Polygon",
			wantErr:      true,
		},
		{
			name:         "unsupported geometry type",
			raw:          `{"type":"MultiPoint","coordinates":[[0,0]]}`,
			expectedType: "MultiPoint",
			wantErr:      true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			geom, err := ParseGeometry([]byte(tt.raw), tt.expectedType)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseGeometry() expected error, got %v", geom)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseGeometry() unexpected error: %v", err)
			}
			if geom.GeoJSONType() != tt.expectedType {
				t.Errorf("GeoJSONType() = %s, want %s", geom.GeoJSONType(), tt.expectedType)
			}
		})
	}
}

func TestValidateBBox(t *testing.T) {
	tests := []struct {
		name                   string
		minX, minY, maxX, maxY float64
		wantErr                bool
	}{
		{"valid bbox", -10, -10, 10, 10, false},
		{"minx equals maxx", 5, 0, 5, 10, true},
		{"miny greater than maxy", 0, 10, 10, 5, true},
		{"longitude out of range", -200, 0, 10, 10, true},
		{"latitude out of range", 0, 0, 10, 95, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bound, err := ValidateBBox(tt.minX, tt.minY, tt.maxX, tt.maxY)
			if tt.wantErr {
				if err == nil {
					t.Fatal("ValidateBBox() expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("ValidateBBox() unexpected error: %v", err)
			}
			if bound.Min.Lon() != tt.minX || bound.Max.Lat() != tt.maxY {
				t.Errorf("ValidateBBox() bound = %v", bound)
			}
		})
	}
}
