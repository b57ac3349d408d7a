// WebGIS - Geospatial Feature API over DuckDB Spatial and GDAL
// Copyright 2026 GeoBradDev
// SPDX-License-Identifier: MIT
// https://github.com/GeoBradDev/webgis-go

// Package auth provides JWT issuing/validation and password hashing for the
// API's account endpoints.
package auth

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/GeoBradDev/webgis-go/internal/config"
)

// Standard authentication errors.
var (
	// ErrNoCredentials indicates no token was provided.
	ErrNoCredentials = errors.New("no credentials provided")

	// ErrInvalidCredentials indicates the token or password was invalid.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrExpiredCredentials indicates the token has expired.
	ErrExpiredCredentials = errors.New("credentials expired")
)

// Claims are the JWT claims issued on login. Subject carries the account
// email (lowercase).
type Claims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// JWTManager creates and validates HS256-signed tokens.
type JWTManager struct {
	secret  []byte
	timeout time.Duration
}

// NewJWTManager builds a token manager from the security config. The secret
// is required; length is enforced by config validation at startup.
func NewJWTManager(cfg *config.SecurityConfig) (*JWTManager, error) {
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required but was empty")
	}

	return &JWTManager{
		secret:  []byte(cfg.JWTSecret),
		timeout: cfg.SessionTimeout,
	}, nil
}

// GenerateToken issues a signed token for the given account email. It
// returns the token string and its expiry time.
func (m *JWTManager) GenerateToken(email string) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(m.timeout)

	claims := &Claims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   email,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, expiresAt, nil
}

// ValidateToken parses and verifies a token string. Only HMAC signing is
// accepted, which blocks algorithm confusion attacks.
func (m *JWTManager) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return m.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredCredentials
		}
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidCredentials
	}
	return claims, nil
}

// ExtractToken pulls the bearer token from the Authorization header, or
// falls back to the "token" cookie.
func ExtractToken(r *http.Request) string {
	if header := r.Header.Get("Authorization"); header != "" {
		parts := strings.SplitN(header, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			if token := strings.TrimSpace(parts[1]); token != "" {
				return token
			}
		}
	}

	if cookie, err := r.Cookie("token"); err == nil && cookie.Value != "" {
		return cookie.Value
	}
	return ""
}
