// WebGIS - Geospatial Feature API over DuckDB Spatial and GDAL
// Copyright 2026 GeoBradDev
// SPDX-License-Identifier: MIT
// https://github.com/GeoBradDev/webgis-go

package config

import (
	"fmt"

	"github.com/GeoBradDev/webgis-go/internal/validation"
)

// minJWTSecretLength is the minimum acceptable JWT secret length in bytes.
// HMAC-SHA256 keys shorter than the hash size weaken the signature.
const minJWTSecretLength = 32

// Validate checks the configuration for errors. Struct tags handle range
// and enum checks; cross-field rules are applied on top.
func (c *Config) Validate() error {
	if err := validation.ValidateStruct(c); err != nil {
		return fmt.Errorf("invalid configuration: %s", err.Error())
	}

	if c.API.DefaultPageSize > c.API.MaxPageSize {
		return fmt.Errorf("api.default_page_size (%d) must not exceed api.max_page_size (%d)",
			c.API.DefaultPageSize, c.API.MaxPageSize)
	}

	if c.Security.AuthMode == "jwt" {
		if c.Security.JWTSecret == "" {
			if c.Server.Environment == "production" {
				return fmt.Errorf("security.jwt_secret is required when auth_mode=jwt in production")
			}
		} else if len(c.Security.JWTSecret) < minJWTSecretLength {
			return fmt.Errorf("security.jwt_secret must be at least %d characters", minJWTSecretLength)
		}
	}

	if c.Security.AuthMode == "none" && c.Server.Environment == "production" {
		return fmt.Errorf("auth_mode=none is not allowed in production")
	}

	return nil
}
