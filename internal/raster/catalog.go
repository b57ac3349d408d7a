// WebGIS - Geospatial Feature API over DuckDB Spatial and GDAL
// Copyright 2026 GeoBradDev
// SPDX-License-Identifier: MIT
// https://github.com/GeoBradDev/webgis-go

// Package raster exposes read-only access to a directory of GDAL-readable
// datasets. All raster I/O, statistics and coordinate transforms are
// delegated to GDAL through godal; this package only manages the catalog
// and converts results to API models.
package raster

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/airbusgeo/godal"

	"github.com/GeoBradDev/webgis-go/internal/logging"
	"github.com/GeoBradDev/webgis-go/internal/metrics"
	"github.com/GeoBradDev/webgis-go/internal/models"
)

// ErrNotFound is returned when a named dataset is not in the catalog.
var ErrNotFound = fmt.Errorf("raster dataset not found")

// ErrNoBand is returned when a band index is out of range for a dataset.
var ErrNoBand = fmt.Errorf("raster band not found")

// rasterExtensions lists the file extensions scanned into the catalog.
// Anything GDAL cannot actually open is dropped during the scan.
var rasterExtensions = map[string]bool{
	".tif":  true,
	".tiff": true,
	".vrt":  true,
	".img":  true,
	".jp2":  true,
	".nc":   true,
	".asc":  true,
}

var registerOnce sync.Once

// Catalog maps dataset names to files under a data directory. Datasets are
// opened per request; GDAL dataset handles are not safe for concurrent use.
type Catalog struct {
	dir   string
	mu    sync.RWMutex
	paths map[string]string
}

// NewCatalog scans dir for GDAL-readable datasets and returns the catalog.
// An empty dir yields an empty catalog, which disables raster endpoints
// without failing startup.
func NewCatalog(dir string) (*Catalog, error) {
	c := &Catalog{dir: dir, paths: make(map[string]string)}
	if dir == "" {
		return c, nil
	}

	registerOnce.Do(godal.RegisterAll)

	if err := c.Rescan(); err != nil {
		return nil, err
	}
	return c, nil
}

// Rescan rebuilds the catalog from the data directory. Files GDAL cannot
// open are skipped with a warning.
func (c *Catalog) Rescan() error {
	entries, err := os.ReadDir(c.dir)
	if err != nil {
		return fmt.Errorf("failed to read raster directory %s: %w", c.dir, err)
	}

	paths := make(map[string]string)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if !rasterExtensions[ext] {
			continue
		}

		path := filepath.Join(c.dir, entry.Name())
		ds, err := godal.Open(path)
		if err != nil {
			logging.Warn().Err(err).Str("path", path).Msg("Skipping unreadable raster file")
			continue
		}
		closeQuietly(ds)

		name := strings.TrimSuffix(entry.Name(), ext)
		paths[name] = path
	}

	c.mu.Lock()
	c.paths = paths
	c.mu.Unlock()

	logging.Info().Int("datasets", len(paths)).Str("dir", c.dir).Msg("Raster catalog scanned")
	return nil
}

// Names returns the sorted dataset names in the catalog.
func (c *Catalog) Names() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	names := make([]string, 0, len(c.paths))
	for name := range c.paths {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// open resolves a dataset name and opens it.
func (c *Catalog) open(name string) (*godal.Dataset, error) {
	c.mu.RLock()
	path, ok := c.paths[name]
	c.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}

	ds, err := godal.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open raster %s: %w", name, err)
	}
	return ds, nil
}

// Info returns structure, bounds and projection for a dataset.
func (c *Catalog) Info(name string) (*models.RasterInfo, error) {
	start := time.Now()
	defer func() { metrics.RecordRasterOperation("info", name, time.Since(start)) }()

	ds, err := c.open(name)
	if err != nil {
		return nil, err
	}
	defer closeQuietly(ds)

	c.mu.RLock()
	path := c.paths[name]
	c.mu.RUnlock()

	structure := ds.Structure()
	info := &models.RasterInfo{
		Name:       name,
		Driver:     driverForExt(filepath.Ext(path)),
		Width:      structure.SizeX,
		Height:     structure.SizeY,
		BandCount:  structure.NBands,
		Projection: ds.Projection(),
	}

	bounds, err := ds.Bounds()
	if err != nil {
		return nil, fmt.Errorf("failed to compute bounds for %s: %w", name, err)
	}
	info.Bounds = bounds

	return info, nil
}

// List returns Info for every dataset in the catalog.
func (c *Catalog) List() ([]models.RasterInfo, error) {
	infos := []models.RasterInfo{}
	for _, name := range c.Names() {
		info, err := c.Info(name)
		if err != nil {
			return nil, err
		}
		infos = append(infos, *info)
	}
	return infos, nil
}

// BandStatistics computes min/max/mean/stddev for a band (1-based index)
// using GDAL's exact statistics pass.
func (c *Catalog) BandStatistics(name string, band int) (*models.RasterStats, error) {
	start := time.Now()
	defer func() { metrics.RecordRasterOperation("statistics", name, time.Since(start)) }()

	ds, err := c.open(name)
	if err != nil {
		return nil, err
	}
	defer closeQuietly(ds)

	bands := ds.Bands()
	if band < 1 || band > len(bands) {
		return nil, ErrNoBand
	}

	stats, err := bands[band-1].ComputeStatistics()
	if err != nil {
		return nil, fmt.Errorf("failed to compute statistics for %s band %d: %w", name, band, err)
	}

	return &models.RasterStats{
		Name:   name,
		Band:   band,
		Min:    stats.Min,
		Max:    stats.Max,
		Mean:   stats.Mean,
		StdDev: stats.Std,
	}, nil
}

// ValueAt samples a band (1-based index) at a WGS84 coordinate. The
// coordinate is transformed into the dataset's spatial reference, mapped
// through the inverse geotransform and read as a single pixel. Coordinates
// outside the dataset extent return ErrNotFound.
func (c *Catalog) ValueAt(name string, band int, lng, lat float64) (*models.RasterValue, error) {
	start := time.Now()
	defer func() { metrics.RecordRasterOperation("value_at", name, time.Since(start)) }()

	ds, err := c.open(name)
	if err != nil {
		return nil, err
	}
	defer closeQuietly(ds)

	bands := ds.Bands()
	if band < 1 || band > len(bands) {
		return nil, ErrNoBand
	}

	x, y, err := toDatasetCRS(ds, lng, lat)
	if err != nil {
		return nil, err
	}

	px, py, err := toPixel(ds, x, y)
	if err != nil {
		return nil, err
	}

	structure := ds.Structure()
	if px < 0 || py < 0 || px >= structure.SizeX || py >= structure.SizeY {
		return nil, fmt.Errorf("coordinate outside raster extent: %w", ErrNotFound)
	}

	buf := make([]float64, 1)
	if err := bands[band-1].Read(px, py, buf, 1, 1); err != nil {
		return nil, fmt.Errorf("failed to read pixel from %s: %w", name, err)
	}

	value := &models.RasterValue{
		Name:  name,
		Band:  band,
		Lng:   lng,
		Lat:   lat,
		Value: buf[0],
	}
	if nodata, ok := bands[band-1].NoData(); ok && buf[0] == nodata {
		value.NoData = true
		value.Value = 0
	}
	return value, nil
}

// toDatasetCRS transforms a WGS84 lng/lat into the dataset's spatial
// reference system.
func toDatasetCRS(ds *godal.Dataset, lng, lat float64) (float64, float64, error) {
	dst := ds.SpatialRef()
	if dst == nil {
		// No georeferencing; assume the dataset is in WGS84 degrees.
		return lng, lat, nil
	}

	src, err := godal.NewSpatialRefFromEPSG(4326)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to create WGS84 reference: %w", err)
	}
	defer src.Close()

	trn, err := godal.NewTransform(src, dst)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to create coordinate transform: %w", err)
	}
	defer trn.Close()

	xs := []float64{lng}
	ys := []float64{lat}
	if err := trn.TransformEx(xs, ys, nil, nil); err != nil {
		return 0, 0, fmt.Errorf("coordinate transform failed: %w", err)
	}
	return xs[0], ys[0], nil
}

// toPixel inverts the geotransform to map a georeferenced coordinate to
// pixel/line indices.
func toPixel(ds *godal.Dataset, x, y float64) (int, int, error) {
	gt, err := ds.GeoTransform()
	if err != nil {
		return 0, 0, fmt.Errorf("dataset has no geotransform: %w", err)
	}

	det := gt[1]*gt[5] - gt[2]*gt[4]
	if det == 0 {
		return 0, 0, fmt.Errorf("degenerate geotransform")
	}

	dx := x - gt[0]
	dy := y - gt[3]
	px := (gt[5]*dx - gt[2]*dy) / det
	py := (gt[1]*dy - gt[4]*dx) / det
	return int(math.Floor(px)), int(math.Floor(py)), nil
}

// driverForExt maps a file extension to the GDAL driver short name.
func driverForExt(ext string) string {
	switch strings.ToLower(ext) {
	case ".tif", ".tiff":
		return "GTiff"
	case ".vrt":
		return "VRT"
	case ".img":
		return "HFA"
	case ".jp2":
		return "JP2OpenJPEG"
	case ".nc":
		return "netCDF"
	case ".asc":
		return "AAIGrid"
	}
	return ""
}

// closeQuietly closes a dataset ignoring errors. Read-only handles have
// nothing to flush.
func closeQuietly(ds *godal.Dataset) {
	_ = ds.Close()
}
