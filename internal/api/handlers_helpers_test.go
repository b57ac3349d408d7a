// WebGIS - Geospatial Feature API over DuckDB Spatial and GDAL
// Copyright 2026 GeoBradDev
// SPDX-License-Identifier: MIT
// https://github.com/GeoBradDev/webgis-go

package api

import (
	"net/http/httptest"
	"testing"

	"github.com/goccy/go-json"

	"github.com/GeoBradDev/webgis-go/internal/config"
	"github.com/GeoBradDev/webgis-go/internal/models"
)

func TestSanitizeLogValue(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"clean", "hello world", "hello world"},
		{"newline", "line1\nline2", "line1\\x0aline2"},
		{"carriage return", "a\rb", "a\\x0db"},
		{"tab", "a\tb", "a\\x09b"},
		{"delete", "a\x7fb", "a\\x7fb"},
		{"unicode preserved", "café", "café"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := sanitizeLogValue(tt.input); got != tt.want {
				t.Errorf("sanitizeLogValue(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestGenerateETagDeterministic(t *testing.T) {
	a := generateETag([]byte("payload"))
	b := generateETag([]byte("payload"))
	c := generateETag([]byte("other"))

	if a != b {
		t.Errorf("same payload produced different ETags: %s vs %s", a, b)
	}
	if a == c {
		t.Error("different payloads produced the same ETag")
	}
}

func TestPaginationClamping(t *testing.T) {
	h := &Handler{cfg: &config.Config{
		API: config.APIConfig{DefaultPageSize: 100, MaxPageSize: 1000},
	}}

	tests := []struct {
		name       string
		query      string
		wantLimit  int
		wantOffset int
	}{
		{"defaults", "", 100, 0},
		{"explicit", "limit=10&offset=5", 10, 5},
		{"over max", "limit=5000", 1000, 0},
		{"negative limit", "limit=-1", 100, 0},
		{"negative offset", "offset=-3", 100, 0},
		{"garbage", "limit=abc&offset=xyz", 100, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", "/?"+tt.query, nil)
			limit, offset := h.pagination(r)
			if limit != tt.wantLimit || offset != tt.wantOffset {
				t.Errorf("pagination(%q) = (%d, %d), want (%d, %d)",
					tt.query, limit, offset, tt.wantLimit, tt.wantOffset)
			}
		})
	}
}

func TestPointOutRoundTrip(t *testing.T) {
	feature := &models.Feature{
		ID:      7,
		Name:    "marker",
		GeoJSON: json.RawMessage(`{"type":"Point","coordinates":[13.4,52.5]}`),
	}

	out, err := pointOut(feature)
	if err != nil {
		t.Fatalf("pointOut() failed: %v", err)
	}
	if out.ID != 7 || out.Name != "marker" || out.Lng != 13.4 || out.Lat != 52.5 {
		t.Errorf("pointOut() = %+v", out)
	}

	bad := &models.Feature{GeoJSON: json.RawMessage(`{"type":"LineString","coordinates":[[0,0],[1,1]]}`)}
	if _, err := pointOut(bad); err == nil {
		t.Error("pointOut() accepted a linestring")
	}
}

func TestPointGeoJSON(t *testing.T) {
	raw, err := pointGeoJSON(13.4, 52.5)
	if err != nil {
		t.Fatalf("pointGeoJSON() failed: %v", err)
	}

	var doc struct {
		Type        string    `json:"type"`
		Coordinates []float64 `json:"coordinates"`
	}
	if err := json.Unmarshal(raw, &doc); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if doc.Type != "Point" || doc.Coordinates[0] != 13.4 || doc.Coordinates[1] != 52.5 {
		t.Errorf("pointGeoJSON() = %s", raw)
	}

	if _, err := pointGeoJSON(200, 0); err == nil {
		t.Error("pointGeoJSON() accepted out-of-range longitude")
	}
}
