// Package app is the application layer between the CLI and internal/engine:
// it wires a Store and Walker from configuration, opens the logger, and
// exposes the five operations as calls that accept raw command-line paths.
package app

import (
	"context"
	"fmt"
	"os"

	"backupctl/internal/config"
	"backupctl/internal/engine"
	"backupctl/internal/model"
	"backupctl/internal/store"
	"backupctl/internal/walk"
)

// App is a fully wired instance of the engine for one CLI invocation. The
// caller must call Close when done.
type App struct {
	cfg     *config.Config
	store   *store.Store
	engine  *engine.Engine
	logFile *os.File
}

// New opens the store at dbPath, wires an OSWalker and logger from cfg, and
// returns a ready-to-use App. operation identifies the CLI command being
// run (e.g. "snapshot", "restore"), and is stamped into every log line.
func New(cfg *config.Config, dbPath string, operation string) (*App, error) {
	s, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening store: %w", err)
	}

	logger, logFile, err := newLogger(cfg.LogDir, operation)
	if err != nil {
		s.Close()
		return nil, fmt.Errorf("creating logger: %w", err)
	}

	eng := engine.New(s, walk.NewOSWalker(), engine.RealClock{}, &slogAdapter{l: logger})
	eng.MaxContentSize = cfg.MaxContentSize

	return &App{cfg: cfg, store: s, engine: eng, logFile: logFile}, nil
}

// Close releases the store and log file.
func (a *App) Close() error {
	var firstErr error
	if err := a.store.Close(); err != nil {
		firstErr = fmt.Errorf("closing store: %w", err)
	}
	if a.logFile != nil {
		a.logFile.Close()
	}
	return firstErr
}

// Snapshot captures targetDir and returns the assigned snapshot id and any
// per-file warnings.
func (a *App) Snapshot(ctx context.Context, targetDir string) (engine.SnapshotResult, error) {
	return a.engine.Snapshot(ctx, targetDir)
}

// List reports every snapshot with its size figures.
func (a *App) List(ctx context.Context) (model.ListResult, error) {
	return a.engine.List(ctx)
}

// Restore writes snapshotID's files into outputDir, returning the paths written.
func (a *App) Restore(ctx context.Context, snapshotID int64, outputDir string) ([]string, error) {
	return a.engine.Restore(ctx, snapshotID, outputDir)
}

// Prune deletes snapshotID and collects any resulting orphan content.
func (a *App) Prune(ctx context.Context, snapshotID int64) error {
	return a.engine.Prune(ctx, snapshotID)
}

// Check verifies every stored content blob against its hash.
func (a *App) Check(ctx context.Context) (model.CheckReport, error) {
	return a.engine.Check(ctx)
}

// History returns the most recent audit-trail entries.
func (a *App) History(ctx context.Context, limit int) ([]model.Operation, error) {
	return a.engine.Store().ListOperations(ctx, limit)
}
