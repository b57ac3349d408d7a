// WebGIS - Geospatial Feature API over DuckDB Spatial and GDAL
// Copyright 2026 GeoBradDev
// SPDX-License-Identifier: MIT
// https://github.com/GeoBradDev/webgis-go

// Package database provides the data access layer over DuckDB. Every
// geometric computation — intersection, buffering, simplification, area,
// distance, reprojection — is a single SQL call into the DuckDB spatial
// extension. The Go code in this package only builds queries and scans
// rows; it never interprets coordinates itself.
package database

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"time"

	_ "github.com/duckdb/duckdb-go/v2"

	"github.com/GeoBradDev/webgis-go/internal/config"
	"github.com/GeoBradDev/webgis-go/internal/logging"
)

// DB wraps the DuckDB connection and provides data access methods.
type DB struct {
	conn *sql.DB
	cfg  *config.DatabaseConfig

	// spatialAvailable tracks whether the spatial extension is loaded.
	// Without it, feature CRUD falls back to storing raw GeoJSON text and
	// all geometry operations return ErrSpatialUnavailable.
	spatialAvailable bool

	// Prepared statement caching
	stmtCache   map[string]*sql.Stmt
	stmtCacheMu sync.RWMutex
}

// New creates a new database connection and initializes the schema.
func New(cfg *config.DatabaseConfig) (*DB, error) {
	numThreads := cfg.Threads
	if numThreads <= 0 {
		numThreads = runtime.NumCPU()
	}

	// Ensure the parent directory exists for the database file.
	// 0750 per gosec G301.
	dbDir := filepath.Dir(cfg.Path)
	if dbDir != "" && dbDir != "." {
		if err := os.MkdirAll(dbDir, 0o750); err != nil {
			return nil, fmt.Errorf("failed to create database directory %s: %w", dbDir, err)
		}
	}

	// Disable auto-install/auto-load to prevent hangs in restricted network
	// environments. The spatial extension is loaded explicitly below.
	preserveOrder := "true"
	if !cfg.PreserveInsertionOrder {
		preserveOrder = "false"
	}
	connStr := fmt.Sprintf("%s?access_mode=read_write&threads=%d&max_memory=%s&preserve_insertion_order=%s&autoinstall_known_extensions=false&autoload_known_extensions=false",
		cfg.Path, numThreads, cfg.MaxMemory, preserveOrder)

	conn, err := sql.Open("duckdb", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db := &DB{
		conn:             conn,
		cfg:              cfg,
		spatialAvailable: true,
		stmtCache:        make(map[string]*sql.Stmt),
	}

	db.configureConnectionPool()

	if err := db.initialize(); err != nil {
		closeQuietly(conn)
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	return db, nil
}

// configureConnectionPool tunes the sql.DB pool. DuckDB is embedded, so a
// small pool is enough; connections share one database instance.
func (db *DB) configureConnectionPool() {
	maxConns := runtime.NumCPU()
	if maxConns < 4 {
		maxConns = 4
	}
	db.conn.SetMaxOpenConns(maxConns)
	db.conn.SetMaxIdleConns(maxConns)
	db.conn.SetConnMaxLifetime(0)
}

// IsSpatialAvailable returns whether the spatial extension is loaded.
func (db *DB) IsSpatialAvailable() bool {
	return db.spatialAvailable
}

// SetSpatialAvailableForTesting overrides the spatial availability flag.
// Intended for unit tests only.
func (db *DB) SetSpatialAvailableForTesting(available bool) {
	db.spatialAvailable = available
}

// Conn returns the underlying SQL database connection.
func (db *DB) Conn() *sql.DB {
	return db.conn
}

// Close closes the database connection and all prepared statements.
// A CHECKPOINT is performed first to flush the WAL to the database file,
// which avoids WAL replay on the next startup.
func (db *DB) Close() error {
	db.stmtCacheMu.Lock()
	for _, stmt := range db.stmtCache {
		if stmt != nil {
			closeWithLog(stmt, "prepared statement")
		}
	}
	db.stmtCache = make(map[string]*sql.Stmt)
	db.stmtCacheMu.Unlock()

	if db.conn != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		if err := db.Checkpoint(ctx); err != nil {
			logging.Warn().Err(err).Msg("Failed to checkpoint database before close")
		}
		cancel()

		return db.conn.Close()
	}
	return nil
}

// Ping checks if the database connection is alive.
func (db *DB) Ping(ctx context.Context) error {
	if db.conn == nil {
		return fmt.Errorf("database connection is nil")
	}
	return db.conn.PingContext(ctx)
}

// Checkpoint forces DuckDB to flush its WAL into the database file.
func (db *DB) Checkpoint(ctx context.Context) error {
	_, err := db.conn.ExecContext(ctx, "CHECKPOINT;")
	if err != nil {
		return fmt.Errorf("checkpoint failed: %w", err)
	}
	return nil
}

// initialize loads extensions and creates the schema.
func (db *DB) initialize() error {
	if err := db.installExtensions(); err != nil {
		return err
	}

	if err := db.createTables(); err != nil {
		return err
	}

	if err := db.createIndexes(); err != nil {
		return err
	}

	// Flush DDL to the database file so restarts don't replay it from WAL.
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := db.Checkpoint(ctx); err != nil {
		logging.Warn().Err(err).Msg("Failed to checkpoint after schema initialization")
	}

	return nil
}

// getStmt returns a cached prepared statement for the query, preparing it
// on first use. Statements live until Close.
func (db *DB) getStmt(ctx context.Context, query string) (*sql.Stmt, error) {
	db.stmtCacheMu.RLock()
	stmt, ok := db.stmtCache[query]
	db.stmtCacheMu.RUnlock()
	if ok {
		return stmt, nil
	}

	db.stmtCacheMu.Lock()
	defer db.stmtCacheMu.Unlock()

	// Re-check under the write lock
	if stmt, ok := db.stmtCache[query]; ok {
		return stmt, nil
	}

	stmt, err := db.conn.PrepareContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare statement: %w", err)
	}
	db.stmtCache[query] = stmt
	return stmt, nil
}

// closeQuietly closes a resource ignoring any error.
func closeQuietly(c io.Closer) {
	_ = c.Close()
}

// closeWithLog closes a resource and logs failures at warn level.
func closeWithLog(c io.Closer, what string) {
	if err := c.Close(); err != nil {
		logging.Warn().Err(err).Str("resource", what).Msg("Failed to close resource")
	}
}
