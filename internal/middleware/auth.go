// WebGIS - Geospatial Feature API over DuckDB Spatial and GDAL
// Copyright 2026 GeoBradDev
// SPDX-License-Identifier: MIT
// https://github.com/GeoBradDev/webgis-go

package middleware

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/goccy/go-json"

	"github.com/GeoBradDev/webgis-go/internal/auth"
	"github.com/GeoBradDev/webgis-go/internal/logging"
	"github.com/GeoBradDev/webgis-go/internal/models"
)

// ClaimsKey is the context key under which validated JWT claims are stored.
const ClaimsKey contextKey = "auth_claims"

// Authenticate returns middleware that requires a valid bearer token on
// every request it wraps. With authMode "none" it is a no-op, for
// development setups without accounts.
func Authenticate(manager *auth.JWTManager, authMode string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if authMode == "none" || manager == nil {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := auth.ExtractToken(r)
			if token == "" {
				denyAuth(w, r, "Missing bearer token")
				return
			}

			claims, err := manager.ValidateToken(token)
			if err != nil {
				if errors.Is(err, auth.ErrExpiredCredentials) {
					denyAuth(w, r, "Token expired")
					return
				}
				denyAuth(w, r, "Invalid token")
				return
			}

			ctx := context.WithValue(r.Context(), ClaimsKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetClaims extracts validated claims from the request context, if any.
func GetClaims(ctx context.Context) *auth.Claims {
	if claims, ok := ctx.Value(ClaimsKey).(*auth.Claims); ok {
		return claims
	}
	return nil
}

// denyAuth writes a 401 in the standard error envelope.
func denyAuth(w http.ResponseWriter, r *http.Request, message string) {
	logging.Ctx(r.Context()).Debug().
		Str("path", r.URL.Path).
		Str("reason", message).
		Msg("Request rejected by auth middleware")

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("WWW-Authenticate", `Bearer realm="webgis"`)
	w.WriteHeader(http.StatusUnauthorized)

	resp := models.APIResponse{
		Status: "error",
		Error: &models.APIError{
			Code:    "AUTH_ERROR",
			Message: message,
		},
		Metadata: models.Metadata{Timestamp: time.Now().UTC()},
	}
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		logging.Ctx(r.Context()).Error().Err(err).Msg("Failed to encode auth error response")
	}
}
