// WebGIS - Geospatial Feature API over DuckDB Spatial and GDAL
// Copyright 2026 GeoBradDev
// SPDX-License-Identifier: MIT
// https://github.com/GeoBradDev/webgis-go

package auth

import (
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/GeoBradDev/webgis-go/internal/config"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func newTestManager(t *testing.T, timeout time.Duration) *JWTManager {
	t.Helper()
	m, err := NewJWTManager(&config.SecurityConfig{
		JWTSecret:      testSecret,
		SessionTimeout: timeout,
	})
	if err != nil {
		t.Fatalf("NewJWTManager() failed: %v", err)
	}
	return m
}

func TestNewJWTManagerRequiresSecret(t *testing.T) {
	_, err := NewJWTManager(&config.SecurityConfig{})
	if err == nil {
		t.Fatal("NewJWTManager() with empty secret should fail")
	}
}

func TestGenerateAndValidateToken(t *testing.T) {
	m := newTestManager(t, time.Hour)

	token, expiresAt, err := m.GenerateToken("alice@example.com")
	if err != nil {
		t.Fatalf("GenerateToken() failed: %v", err)
	}
	if token == "" {
		t.Fatal("GenerateToken() returned empty token")
	}
	if until := time.Until(expiresAt); until < 55*time.Minute || until > time.Hour {
		t.Errorf("GenerateToken() expiry in %v, want about an hour", until)
	}

	claims, err := m.ValidateToken(token)
	if err != nil {
		t.Fatalf("ValidateToken() failed: %v", err)
	}
	if claims.Email != "alice@example.com" {
		t.Errorf("ValidateToken() email = %q", claims.Email)
	}
	if claims.Subject != "alice@example.com" {
		t.Errorf("ValidateToken() subject = %q", claims.Subject)
	}
}

func TestValidateTokenRejectsTampered(t *testing.T) {
	m := newTestManager(t, time.Hour)

	token, _, err := m.GenerateToken("alice@example.com")
	if err != nil {
		t.Fatalf("GenerateToken() failed: %v", err)
	}

	if _, err := m.ValidateToken(token + "x"); err == nil {
		t.Error("ValidateToken() accepted a tampered token")
	}
	if _, err := m.ValidateToken("not-a-token"); err == nil {
		t.Error("ValidateToken() accepted garbage")
	}
}

func TestValidateTokenRejectsWrongSecret(t *testing.T) {
	m := newTestManager(t, time.Hour)
	token, _, err := m.GenerateToken("alice@example.com")
	if err != nil {
		t.Fatalf("GenerateToken() failed: %v", err)
	}

	other, err := NewJWTManager(&config.SecurityConfig{
		JWTSecret:      "ffffffffffffffffffffffffffffffff",
		SessionTimeout: time.Hour,
	})
	if err != nil {
		t.Fatalf("NewJWTManager() failed: %v", err)
	}
	if _, err := other.ValidateToken(token); err == nil {
		t.Error("ValidateToken() accepted a token signed with another secret")
	}
}

func TestValidateTokenExpired(t *testing.T) {
	m := newTestManager(t, -time.Minute)

	token, _, err := m.GenerateToken("alice@example.com")
	if err != nil {
		t.Fatalf("GenerateToken() failed: %v", err)
	}

	_, err = m.ValidateToken(token)
	if !errors.Is(err, ErrExpiredCredentials) {
		t.Errorf("ValidateToken(expired) = %v, want ErrExpiredCredentials", err)
	}
}

func TestExtractToken(t *testing.T) {
	tests := []struct {
		name   string
		header string
		cookie string
		want   string
	}{
		{"bearer header", "Bearer abc123", "", "abc123"},
		{"lowercase scheme", "bearer abc123", "", "abc123"},
		{"cookie fallback", "", "cookie-token", "cookie-token"},
		{"header wins over cookie", "Bearer from-header", "from-cookie", "from-header"},
		{"wrong scheme", "Basic abc123", "", ""},
		{"empty", "", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, _ := http.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				r.Header.Set("Authorization", tt.header)
			}
			if tt.cookie != "" {
				r.AddCookie(&http.Cookie{Name: "token", Value: tt.cookie})
			}
			if got := ExtractToken(r); got != tt.want {
				t.Errorf("ExtractToken() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("correct horse battery staple")
	if err != nil {
		t.Fatalf("HashPassword() failed: %v", err)
	}
	if hash == "correct horse battery staple" {
		t.Fatal("HashPassword() returned plaintext")
	}

	if err := CheckPassword(hash, "correct horse battery staple"); err != nil {
		t.Errorf("CheckPassword() rejected correct password: %v", err)
	}
	if err := CheckPassword(hash, "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("CheckPassword(wrong) = %v, want ErrInvalidCredentials", err)
	}
}
