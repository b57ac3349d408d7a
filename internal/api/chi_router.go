// WebGIS - Geospatial Feature API over DuckDB Spatial and GDAL
// Copyright 2026 GeoBradDev
// SPDX-License-Identifier: MIT
// https://github.com/GeoBradDev/webgis-go

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/GeoBradDev/webgis-go/internal/middleware"
	"github.com/GeoBradDev/webgis-go/internal/models"
)

// loginRateLimit throttles login attempts per IP to slow brute force.
const (
	loginRateLimitReqs   = 5
	loginRateLimitWindow = 5 * time.Minute
)

// Router wires handlers, middleware and configuration into the HTTP mux.
type Router struct {
	handler *Handler
}

// NewRouter creates a router around the given handler.
func NewRouter(handler *Handler) *Router {
	return &Router{handler: handler}
}

// Setup builds the full route tree.
//
// Layout:
//
//	/metrics                    Prometheus scrape endpoint
//	/api/v1/health/*            liveness/readiness, no auth
//	/api/v1/auth/*              register/login, strict rate limits
//	/api/v1/{points,lines,polygons}  feature CRUD and spatial operations
//	/api/v1/rasters/*           raster catalog
//
// Reads are open; mutations require auth when auth_mode is "jwt".
func (router *Router) Setup() http.Handler {
	h := router.handler
	cfg := h.cfg

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.Security.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1/health", func(r chi.Router) {
		r.Use(httprate.LimitByIP(1000, time.Minute))
		r.Get("/live", h.HealthLive)
		r.Get("/ready", h.HealthReady)
		r.Get("/", h.Health)
	})

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.Use(httprate.LimitByIP(cfg.Security.RateLimitReqs, cfg.Security.RateLimitWindow))
		r.Use(middleware.PrometheusMetrics)

		r.Post("/register", h.Register)
		r.With(httprate.LimitByIP(loginRateLimitReqs, loginRateLimitWindow)).
			Post("/login", h.Login)
	})

	requireAuth := middleware.Authenticate(h.jwt, cfg.Security.AuthMode)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(httprate.LimitByIP(cfg.Security.RateLimitReqs, cfg.Security.RateLimitWindow))
		r.Use(middleware.PrometheusMetrics)

		r.Route("/points", func(r chi.Router) {
			r.Get("/", h.ListPoints)
			r.Get("/near", h.PointsNear)
			r.Get("/nearest", h.NearestPoint)
			r.Get("/{id}", h.GetPoint)
			r.Get("/{id}/reproject", h.ReprojectFeature(models.KindPoint))

			r.Group(func(r chi.Router) {
				r.Use(requireAuth)
				r.Post("/", h.CreatePoint)
				r.Put("/{id}", h.UpdatePoint)
				r.Delete("/{id}", h.DeleteFeature(models.KindPoint))
			})
		})

		r.Route("/lines", func(r chi.Router) {
			r.Get("/", h.ListFeatures(models.KindLine))
			r.Get("/{id}", h.GetFeature(models.KindLine))
			r.Get("/{id}/reproject", h.ReprojectFeature(models.KindLine))

			r.Group(func(r chi.Router) {
				r.Use(requireAuth)
				r.Post("/", h.CreateFeature(models.KindLine))
				r.Put("/{id}", h.UpdateFeature(models.KindLine))
				r.Delete("/{id}", h.DeleteFeature(models.KindLine))
			})
		})

		r.Route("/polygons", func(r chi.Router) {
			r.Get("/", h.ListFeatures(models.KindPolygon))
			r.Get("/in-bbox", h.PolygonsInBBox)
			r.Get("/areas", h.PolygonAreas)
			r.Get("/simplified", h.SimplifyPolygons)
			r.Get("/centroids", h.PolygonCentroids)
			r.Get("/union", h.UnionAllPolygons)
			r.Get("/intersection/{a}/{b}", h.PolygonIntersection)
			r.Get("/difference/{a}/{b}", h.PolygonDifference)
			r.Get("/{id}", h.GetFeature(models.KindPolygon))
			r.Get("/{id}/points", h.PointsInPolygon)
			r.Get("/{id}/buffer", h.BufferPolygon)
			r.Get("/{id}/reproject", h.ReprojectFeature(models.KindPolygon))

			r.Group(func(r chi.Router) {
				r.Use(requireAuth)
				r.Post("/", h.CreateFeature(models.KindPolygon))
				r.Put("/{id}", h.UpdateFeature(models.KindPolygon))
				r.Delete("/{id}", h.DeleteFeature(models.KindPolygon))
			})
		})

		r.Route("/rasters", func(r chi.Router) {
			r.Get("/", h.ListRasters)
			r.Get("/{name}", h.RasterInfo)
			r.Get("/{name}/statistics", h.RasterStatistics)
			r.Get("/{name}/value", h.RasterValueAt)
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		respondError(w, http.StatusNotFound, "NOT_FOUND", "Route not found", nil)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		respondError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Method not allowed", nil)
	})

	return r
}
