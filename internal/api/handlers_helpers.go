// WebGIS - Geospatial Feature API over DuckDB Spatial and GDAL
// Copyright 2026 GeoBradDev
// SPDX-License-Identifier: MIT
// https://github.com/GeoBradDev/webgis-go

package api

import (
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"

	"github.com/GeoBradDev/webgis-go/internal/logging"
	"github.com/GeoBradDev/webgis-go/internal/models"
	"github.com/GeoBradDev/webgis-go/internal/validation"
)

// maxBodyBytes caps request bodies. GeoJSON polygons can be large, but a
// megabyte covers any reasonable feature.
const maxBodyBytes = 1 << 20

// sanitizeLogValue removes control characters from strings to prevent log
// injection. Newlines and other control characters could otherwise forge
// log entries.
func sanitizeLogValue(s string) string {
	var result strings.Builder
	result.Grow(len(s))
	for _, r := range s {
		if r < 0x20 || r == 0x7F {
			result.WriteString(fmt.Sprintf("\\x%02x", r))
		} else {
			result.WriteRune(r)
		}
	}
	return result.String()
}

// respondJSON sends a JSON response with proper headers.
func respondJSON(w http.ResponseWriter, status int, response *models.APIResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Vary", "Accept-Encoding")

	data, err := json.Marshal(response)
	if err != nil {
		logging.Error().Err(err).Msg("Failed to marshal JSON response")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("ETag", generateETag(data))

	w.WriteHeader(status)
	if _, err := w.Write(data); err != nil {
		logging.Error().Err(err).Msg("Failed to write JSON response")
	}
}

// respondData wraps a successful payload in the standard envelope.
func respondData(w http.ResponseWriter, status int, data interface{}, queryTime time.Duration) {
	respondJSON(w, status, &models.APIResponse{
		Status: "success",
		Data:   data,
		Metadata: models.Metadata{
			Timestamp:   time.Now().UTC(),
			QueryTimeMS: queryTime.Milliseconds(),
		},
	})
}

// respondCached wraps a cached payload, marking it in metadata.
func respondCached(w http.ResponseWriter, data interface{}) {
	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status: "success",
		Data:   data,
		Metadata: models.Metadata{
			Timestamp: time.Now().UTC(),
			Cached:    true,
		},
	})
}

// generateETag creates a weak ETag from data using FNV-1a hash.
func generateETag(data []byte) string {
	hash := uint32(2166136261)
	for _, b := range data {
		hash ^= uint32(b)
		hash *= 16777619
	}
	return strconv.FormatUint(uint64(hash), 16)
}

// respondError sends an error response.
func respondError(w http.ResponseWriter, status int, code, message string, err error) {
	if err != nil {
		logging.Error().
			Str("code", sanitizeLogValue(code)).
			Str("error", sanitizeLogValue(err.Error())).
			Msg("API error")
	}

	respondJSON(w, status, &models.APIResponse{
		Status: "error",
		Data:   nil,
		Metadata: models.Metadata{
			Timestamp: time.Now().UTC(),
		},
		Error: &models.APIError{
			Code:    code,
			Message: message,
		},
	})
}

// decodeBody decodes and validates a JSON request body into v. On failure
// it writes the error response and returns false.
func decodeBody(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
	defer func() { _, _ = io.Copy(io.Discard, body) }()

	decoder := json.NewDecoder(body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(v); err != nil {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid JSON body: "+err.Error(), nil)
		return false
	}

	if validationErr := validation.ValidateStruct(v); validationErr != nil {
		apiErr := validationErr.ToAPIError()
		respondJSON(w, http.StatusBadRequest, &models.APIResponse{
			Status:   "error",
			Metadata: models.Metadata{Timestamp: time.Now().UTC()},
			Error: &models.APIError{
				Code:    apiErr.Code,
				Message: apiErr.Message,
				Details: apiErr.Details,
			},
		})
		return false
	}

	return true
}

// pathID extracts a positive integer id from a chi URL parameter. On
// failure it writes the error response and returns false.
func pathID(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	raw := chi.URLParam(r, name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id < 1 {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR",
			fmt.Sprintf("Invalid %s: must be a positive integer", name), nil)
		return 0, false
	}
	return id, true
}

// getIntParam extracts an integer query parameter with a default value.
func getIntParam(r *http.Request, key string, defaultValue int) int {
	value := r.URL.Query().Get(key)
	if value == "" {
		return defaultValue
	}

	intValue, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return intValue
}

// getFloatParam extracts a float query parameter with a default value.
func getFloatParam(r *http.Request, key string, defaultValue float64) float64 {
	value := r.URL.Query().Get(key)
	if value == "" {
		return defaultValue
	}

	floatValue, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return defaultValue
	}
	return floatValue
}

// requireFloatParam extracts a required float query parameter. On failure
// it writes the error response and returns false.
func requireFloatParam(w http.ResponseWriter, r *http.Request, key string) (float64, bool) {
	value := r.URL.Query().Get(key)
	if value == "" {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR",
			fmt.Sprintf("Missing required parameter %q", key), nil)
		return 0, false
	}

	floatValue, err := strconv.ParseFloat(value, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR",
			fmt.Sprintf("Parameter %q must be a number", key), nil)
		return 0, false
	}
	return floatValue, true
}

// pagination resolves limit/offset query parameters against the configured
// page size limits.
func (h *Handler) pagination(r *http.Request) (limit, offset int) {
	limit = getIntParam(r, "limit", h.cfg.API.DefaultPageSize)
	if limit < 1 {
		limit = h.cfg.API.DefaultPageSize
	}
	if limit > h.cfg.API.MaxPageSize {
		limit = h.cfg.API.MaxPageSize
	}

	offset = getIntParam(r, "offset", 0)
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
