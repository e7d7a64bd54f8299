// VeloRank - OBRA Upgrade Points and Race Ranking Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/velorank

package services

import (
	"context"
	"fmt"
)

// StartStopManager interface matches the engine manager's lifecycle.
//
// This interface abstracts the manager's Start/Stop pattern, allowing the
// EngineManagerService wrapper to adapt it to suture's Serve pattern without
// modifying the existing manager code.
//
// The interface is satisfied by *engine.Manager from internal/engine/manager.go:
//   - Start(ctx context.Context) error
//   - Stop() error
type StartStopManager interface {
	Start(ctx context.Context) error
	Stop() error
}

// EngineManagerService wraps the engine manager as a supervised service.
//
// It adapts the Start/Stop lifecycle pattern to suture's Serve pattern:
//  1. Calls Start(ctx) to launch the full and recent pass loops
//  2. Waits for context cancellation
//  3. Calls Stop() for graceful shutdown
//
// The engine manager handles its own goroutines internally via WaitGroup,
// so this wrapper simply orchestrates the lifecycle transitions.
type EngineManagerService struct {
	manager StartStopManager
	name    string
}

// NewEngineManagerService creates a new engine manager service wrapper.
//
// Example usage:
//
//	manager := engine.NewManager(db, source, points, ranks, cfg.Scheduler)
//	svc := services.NewEngineManagerService(manager)
//	tree.AddDataService(svc)
func NewEngineManagerService(manager StartStopManager) *EngineManagerService {
	return &EngineManagerService{
		manager: manager,
		name:    "engine-manager",
	}
}

// Serve implements suture.Service.
//
// This method:
//  1. Starts the engine manager (which spawns its pass loops)
//  2. Blocks until the context is canceled
//  3. Stops the manager (which waits for an in-flight pass to complete)
//
// If Start() fails, the error is returned immediately, causing suture to
// restart the service according to its backoff policy.
func (s *EngineManagerService) Serve(ctx context.Context) error {
	// Start the manager - this spawns internal goroutines but returns immediately
	if err := s.manager.Start(ctx); err != nil {
		return fmt.Errorf("engine manager start failed: %w", err)
	}

	// Wait for shutdown signal
	<-ctx.Done()

	// Stop the manager - this blocks until the pass loops complete
	if err := s.manager.Stop(); err != nil {
		// The context error is the primary cause; a stop failure still
		// needs to surface for the unstopped-service report.
		return fmt.Errorf("engine manager stop failed: %w", err)
	}

	return ctx.Err()
}

// String implements fmt.Stringer for logging.
// Suture uses this to identify the service in log messages.
func (s *EngineManagerService) String() string {
	return s.name
}
