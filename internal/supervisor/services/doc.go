// VeloRank - OBRA Upgrade Points and Race Ranking Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/velorank

/*
Package services provides suture.Service wrappers for VeloRank components.

This package adapts existing application components to the suture v4 supervision
model, translating various lifecycle patterns (Start/Stop, Run, ListenAndServe)
into suture's context-aware Serve pattern.

# Overview

Each wrapper implements the suture.Service interface:

	type Service interface {
	    Serve(ctx context.Context) error
	}

The wrappers handle:
  - Lifecycle translation (Start/Stop to Serve pattern)
  - Graceful shutdown via context cancellation
  - Error propagation for supervisor restart decisions
  - Service identification via fmt.Stringer

# Available Services

HTTP Server (HTTPServerService):
  - Wraps *http.Server with graceful shutdown
  - Converts ListenAndServe pattern to Serve
  - Configurable shutdown timeout for draining connections

WebSocket Hub (WebSocketHubService):
  - Wraps websocket.Hub with context support
  - Handles client connection cleanup on shutdown
  - Broadcasts recalculation events to connected clients

Engine Manager (EngineManagerService):
  - Wraps engine.Manager with Start/Stop lifecycle
  - Coordinates the scheduled scrape and derivation passes
  - A disabled scheduler starts cleanly and stays idle

# Usage Example

Creating and registering services:

	import (
	    "net/http"
	    "time"

	    "github.com/tomtom215/velorank/internal/supervisor"
	    "github.com/tomtom215/velorank/internal/supervisor/services"
	)

	func setupSupervisor(server *http.Server, hub *websocket.Hub, manager *engine.Manager) {
	    tree, _ := supervisor.NewSupervisorTree(logger, config)

	    // HTTP server with 30s shutdown timeout
	    httpSvc := services.NewHTTPServerService(server, 30*time.Second)
	    tree.AddAPIService(httpSvc)

	    // WebSocket hub
	    wsSvc := services.NewWebSocketHubService(hub)
	    tree.AddMessagingService(wsSvc)

	    // Engine manager
	    engineSvc := services.NewEngineManagerService(manager)
	    tree.AddDataService(engineSvc)

	    // Start supervision
	    tree.Serve(ctx)
	}

# Lifecycle Patterns

The package handles the two lifecycle patterns VeloRank components use:

Start/Stop Pattern:

	type StartStopper interface {
	    Start(ctx context.Context) error
	    Stop() error
	}

	// Wrapped as:
	func (s *Service) Serve(ctx context.Context) error {
	    if err := s.component.Start(ctx); err != nil {
	        return err
	    }
	    <-ctx.Done()
	    return s.component.Stop()
	}

ListenAndServe Pattern:

	type Listener interface {
	    ListenAndServe() error
	    Shutdown(ctx context.Context) error
	}

	// Wrapped as:
	func (s *Service) Serve(ctx context.Context) error {
	    go s.server.ListenAndServe()
	    <-ctx.Done()
	    return s.server.Shutdown(shutdownCtx)
	}

# Error Handling

Return values determine supervisor behavior:

	nil         -> Service stopped cleanly, will not restart
	error       -> Service crashed, supervisor will restart
	ctx.Err()   -> Shutdown requested, normal termination

# Service Identification

All services implement fmt.Stringer for logging:

	func (s *HTTPServerService) String() string {
	    return "http-server"
	}

Suture uses this for log messages:

	INFO http-server: starting
	INFO http-server: stopped
	ERROR http-server: restarting after failure

# Testing

Services can be tested with mock components:

	type MockServer struct {
	    started  bool
	    shutdown bool
	}

	func (m *MockServer) ListenAndServe() error {
	    m.started = true
	    <-time.After(time.Hour) // Block until shutdown
	    return nil
	}

	func (m *MockServer) Shutdown(ctx context.Context) error {
	    m.shutdown = true
	    return nil
	}

	func TestHTTPService(t *testing.T) {
	    mock := &MockServer{}
	    svc := services.NewHTTPServerService(mock, time.Second)

	    ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	    defer cancel()

	    svc.Serve(ctx)

	    if !mock.started { t.Error("server not started") }
	    if !mock.shutdown { t.Error("server not shutdown") }
	}

# Thread Safety

All service wrappers are safe for concurrent use:
  - State is protected by mutexes where needed
  - Context cancellation is handled atomically
  - Multiple Serve calls are not supported (undefined behavior)

# See Also

  - internal/supervisor: SupervisorTree that manages these services
  - github.com/thejerf/suture/v4: Underlying supervision library
  - internal/websocket: WebSocket hub implementation
  - internal/engine: Engine manager implementation
*/
package services
