// WebGIS - Geospatial Feature API over DuckDB Spatial and GDAL
// Copyright 2026 GeoBradDev
// SPDX-License-Identifier: MIT
// https://github.com/GeoBradDev/webgis-go

package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/GeoBradDev/webgis-go/internal/metrics"
	"github.com/GeoBradDev/webgis-go/internal/models"
)

// CreateUser inserts a new account. Email is lowercased before storage so
// the unique constraint is case-insensitive. Returns ErrDuplicateEmail if
// the email is already registered.
func (db *DB) CreateUser(ctx context.Context, email, passwordHash string) (*models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	query := `INSERT INTO users (email, password_hash)
		VALUES (?, ?)
		RETURNING id, email, password_hash, created_at`

	start := time.Now()
	var user models.User
	err := db.conn.QueryRowContext(ctx, query, email, passwordHash).
		Scan(&user.ID, &user.Email, &user.PasswordHash, &user.CreatedAt)
	metrics.RecordDBQuery("insert", "users", time.Since(start), err)
	if err != nil {
		if isDuplicateKeyError(err) {
			return nil, ErrDuplicateEmail
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return &user, nil
}

// GetUserByEmail looks up an account by its lowercased email, or returns
// ErrNotFound.
func (db *DB) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	query := `SELECT id, email, password_hash, created_at FROM users WHERE email = ?`

	stmt, err := db.getStmt(ctx, query)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	var user models.User
	err = stmt.QueryRowContext(ctx, email).
		Scan(&user.ID, &user.Email, &user.PasswordHash, &user.CreatedAt)
	metrics.RecordDBQuery("select", "users", time.Since(start), err)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &user, nil
}

// isDuplicateKeyError detects a unique constraint violation. The DuckDB
// driver does not expose structured error codes, so this matches the
// message text.
func isDuplicateKeyError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate key") ||
		strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "constraint error")
}
