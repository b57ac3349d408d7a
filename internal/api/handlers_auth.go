// WebGIS - Geospatial Feature API over DuckDB Spatial and GDAL
// Copyright 2026 GeoBradDev
// SPDX-License-Identifier: MIT
// https://github.com/GeoBradDev/webgis-go

package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/GeoBradDev/webgis-go/internal/auth"
	"github.com/GeoBradDev/webgis-go/internal/database"
	"github.com/GeoBradDev/webgis-go/internal/logging"
	"github.com/GeoBradDev/webgis-go/internal/models"
)

// Register handles POST /auth/register. The email is lowercased before
// storage so lookups are case-insensitive.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if !decodeBody(w, r, &req) {
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "SERVICE_ERROR", "Failed to process password", err)
		return
	}

	start := time.Now()
	user, err := h.db.CreateUser(r.Context(), req.Email, hash)
	if err != nil {
		handleDBError(w, err, "User not found")
		return
	}

	logging.Ctx(r.Context()).Info().Int64("user_id", user.ID).Msg("Account created")
	respondData(w, http.StatusCreated, user, time.Since(start))
}

// Login handles POST /auth/login. Lookup failures and password mismatches
// produce the same response so account existence is not leaked.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if !decodeBody(w, r, &req) {
		return
	}

	if h.jwt == nil {
		respondError(w, http.StatusServiceUnavailable, "SERVICE_ERROR",
			"Authentication is disabled", nil)
		return
	}

	start := time.Now()
	user, err := h.db.GetUserByEmail(r.Context(), req.Email)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			respondError(w, http.StatusUnauthorized, "AUTH_ERROR", "Invalid email or password", nil)
			return
		}
		handleDBError(w, err, "User not found")
		return
	}

	if err := auth.CheckPassword(user.PasswordHash, req.Password); err != nil {
		respondError(w, http.StatusUnauthorized, "AUTH_ERROR", "Invalid email or password", nil)
		return
	}

	token, expiresAt, err := h.jwt.GenerateToken(user.Email)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "SERVICE_ERROR", "Failed to issue token", err)
		return
	}

	logging.Ctx(r.Context()).Info().Int64("user_id", user.ID).Msg("Login succeeded")
	respondData(w, http.StatusOK, models.TokenResponse{
		Token:     token,
		ExpiresAt: expiresAt,
	}, time.Since(start))
}
