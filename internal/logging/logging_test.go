// WebGIS - Geospatial Feature API over DuckDB Spatial and GDAL
// Copyright 2026 GeoBradDev
// SPDX-License-Identifier: MIT
// https://github.com/GeoBradDev/webgis-go

package logging

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestInitLevelAndFormat(t *testing.T) {
	var buf bytes.Buffer
	Init(Config{Level: "warn", Format: "json", Output: &buf, Timestamp: false})

	Info().Msg("filtered out")
	Warn().Msg("kept")

	out := buf.String()
	if strings.Contains(out, "filtered out") {
		t.Error("info message logged at warn level")
	}
	if !strings.Contains(out, "kept") {
		t.Errorf("warn message missing from output: %s", out)
	}
}

func TestParseLevelFallsBackToInfo(t *testing.T) {
	tests := []struct {
		input string
		want  zerolog.Level
	}{
		{"debug", zerolog.DebugLevel},
		{"WARN", zerolog.WarnLevel},
		{"nonsense", zerolog.InfoLevel},
		{"", zerolog.InfoLevel},
	}
	for _, tt := range tests {
		if got := parseLevel(tt.input); got != tt.want {
			t.Errorf("parseLevel(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestRequestIDContext(t *testing.T) {
	ctx := ContextWithRequestID(context.Background(), "req-123")
	if got := RequestIDFromContext(ctx); got != "req-123" {
		t.Errorf("RequestIDFromContext() = %q", got)
	}
	if got := RequestIDFromContext(context.Background()); got != "" {
		t.Errorf("RequestIDFromContext(empty) = %q, want empty", got)
	}
}

func TestCtxAttachesRequestID(t *testing.T) {
	var buf bytes.Buffer
	SetLogger(zerolog.New(&buf))

	ctx := ContextWithRequestID(context.Background(), "req-456")
	Ctx(ctx).Info().Msg("tagged")

	if out := buf.String(); !strings.Contains(out, "req-456") {
		t.Errorf("log output missing request ID: %s", out)
	}
}

func TestSlogAdapterWritesToZerolog(t *testing.T) {
	var buf bytes.Buffer
	SetLogger(zerolog.New(&buf).Level(zerolog.TraceLevel))

	slogger := NewSlogLogger()
	slogger.Info("from slog", "service", "http-server")

	out := buf.String()
	if !strings.Contains(out, "from slog") {
		t.Errorf("slog message missing: %s", out)
	}
	if !strings.Contains(out, "http-server") {
		t.Errorf("slog attribute missing: %s", out)
	}
}

func TestSlogAdapterLevelMapping(t *testing.T) {
	var buf bytes.Buffer
	SetLogger(zerolog.New(&buf).Level(zerolog.WarnLevel))

	slogger := NewSlogLogger()
	slogger.Info("too quiet")
	slogger.Error("loud enough")

	out := buf.String()
	if strings.Contains(out, "too quiet") {
		t.Error("info record logged despite warn level")
	}
	if !strings.Contains(out, "loud enough") {
		t.Errorf("error record missing: %s", out)
	}
}
