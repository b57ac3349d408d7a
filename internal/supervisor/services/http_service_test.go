// WebGIS - Geospatial Feature API over DuckDB Spatial and GDAL
// Copyright 2026 GeoBradDev
// SPDX-License-Identifier: MIT
// https://github.com/GeoBradDev/webgis-go

package services

import (
	"context"
	"errors"
	"net/http"
	"sync/atomic"
	"testing"
	"time"
)

// mockHTTPServer simulates http.Server lifecycle for supervisor tests.
type mockHTTPServer struct {
	serveErr    error
	shutdownErr error
	shutdown    atomic.Bool
	release     chan struct{}
}

func newMockHTTPServer() *mockHTTPServer {
	return &mockHTTPServer{release: make(chan struct{})}
}

func (m *mockHTTPServer) ListenAndServe() error {
	if m.serveErr != nil {
		return m.serveErr
	}
	<-m.release
	return http.ErrServerClosed
}

func (m *mockHTTPServer) Shutdown(ctx context.Context) error {
	m.shutdown.Store(true)
	close(m.release)
	return m.shutdownErr
}

func TestHTTPServerServiceGracefulShutdown(t *testing.T) {
	server := newMockHTTPServer()
	svc := NewHTTPServerService(server, time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- svc.Serve(ctx) }()

	// Let the serve goroutine start, then request shutdown.
	time.Sleep(10 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Serve() = %v, want context.Canceled", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Serve() did not return after cancel")
	}

	if !server.shutdown.Load() {
		t.Error("Shutdown() was not called")
	}
}

func TestHTTPServerServiceStartFailure(t *testing.T) {
	server := newMockHTTPServer()
	server.serveErr = errors.New("bind: address already in use")
	svc := NewHTTPServerService(server, time.Second)

	err := svc.Serve(context.Background())
	if !errors.Is(err, server.serveErr) {
		t.Errorf("Serve() = %v, want wrapped bind error", err)
	}
}

func TestHTTPServerServiceShutdownFailure(t *testing.T) {
	server := newMockHTTPServer()
	server.shutdownErr = errors.New("connections still open")
	svc := NewHTTPServerService(server, time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- svc.Serve(ctx) }()

	time.Sleep(10 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err == nil || errors.Is(err, context.Canceled) {
			t.Errorf("Serve() = %v, want shutdown error", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Serve() did not return")
	}
}

func TestHTTPServerServiceString(t *testing.T) {
	svc := NewHTTPServerService(newMockHTTPServer(), 0)
	if svc.String() != "http-server" {
		t.Errorf("String() = %q", svc.String())
	}
}
