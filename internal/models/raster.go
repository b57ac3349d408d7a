// WebGIS - Geospatial Feature API over DuckDB Spatial and GDAL
// Copyright 2026 GeoBradDev
// SPDX-License-Identifier: MIT
// https://github.com/GeoBradDev/webgis-go

package models

// RasterInfo describes a dataset in the raster catalog. Bounds are reported
// in the dataset's own spatial reference system in minx,miny,maxx,maxy
// order.
type RasterInfo struct {
	Name       string     `json:"name"`
	Driver     string     `json:"driver"`
	Width      int        `json:"width"`
	Height     int        `json:"height"`
	BandCount  int        `json:"band_count"`
	Bounds     [4]float64 `json:"bounds"`
	Projection string     `json:"projection,omitempty"`
}

// RasterStats holds per-band statistics computed by GDAL.
type RasterStats struct {
	Name   string  `json:"name"`
	Band   int     `json:"band"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"std_dev"`
}

// RasterValue is the pixel value sampled at a geographic coordinate. NoData
// is true when the pixel matches the band's nodata value, in which case
// Value should be ignored.
type RasterValue struct {
	Name   string  `json:"name"`
	Band   int     `json:"band"`
	Lng    float64 `json:"lng"`
	Lat    float64 `json:"lat"`
	Value  float64 `json:"value"`
	NoData bool    `json:"no_data"`
}
