package engine

import (
	"context"
	"errors"
	"fmt"

	"backupctl/internal/content"
	"backupctl/internal/model"
	"backupctl/internal/walk"
)

// SnapshotResult is the outcome of a successful Snapshot call: the assigned
// id plus any per-file warnings accumulated along the way (oversized files
// skipped rather than treated as fatal).
type SnapshotResult struct {
	SnapshotID int64
	Warnings   []model.Warning
}

// Snapshot walks targetDir, stores every regular file's bytes content-
// addressed, and records one FileRef per file under a newly assigned
// snapshot id. The whole operation runs in a single write transaction:
// any fatal error rolls it back, leaving no trace of the attempt.
func (e *Engine) Snapshot(ctx context.Context, targetDir string) (SnapshotResult, error) {
	opID, startErr := e.store.InsertOperation(ctx, "snapshot", targetDir, e.clock.Now())
	if startErr != nil {
		e.logger.Warn("recording operation start failed", "err", startErr)
	}
	finish := func(status string) {
		if startErr != nil {
			return
		}
		if err := e.store.FinishOperation(ctx, opID, status, e.clock.Now()); err != nil {
			e.logger.Warn("recording operation finish failed", "err", err)
		}
	}

	result, err := e.snapshot(ctx, targetDir)
	if err != nil {
		finish("error")
		return SnapshotResult{}, err
	}
	finish("ok")
	return result, nil
}

func (e *Engine) snapshot(ctx context.Context, targetDir string) (SnapshotResult, error) {
	tx, err := e.store.Begin(ctx)
	if err != nil {
		return SnapshotResult{}, err
	}
	defer tx.Rollback()

	snapID, err := tx.InsertSnapshot(e.clock.Now())
	if err != nil {
		return SnapshotResult{}, err
	}

	var warnings []model.Warning
	maxSize := e.MaxContentSize
	if maxSize <= 0 {
		maxSize = content.DefaultMaxSize
	}

	visit := func(entry walk.Entry, open walk.Opener) error {
		if entry.Size > maxSize {
			warnings = append(warnings, model.Warning{
				Path: entry.RelativePath,
				Err:  fmt.Errorf("%s exceeds size cap: %w", entry.RelativePath, model.ErrTooLarge),
			})
			return nil
		}

		rc, err := open()
		if err != nil {
			return err
		}
		defer rc.Close()

		hash, data, err := content.HashAndBuffer(rc, maxSize)
		if err != nil {
			if errors.Is(err, model.ErrTooLarge) {
				warnings = append(warnings, model.Warning{Path: entry.RelativePath, Err: err})
				return nil
			}
			return err
		}

		if _, _, err := content.Put(tx, data); err != nil {
			return err
		}
		if err := tx.InsertFileRef(snapID, entry.RelativePath, hash); err != nil {
			return err
		}
		e.logger.Debug("file captured", "path", entry.RelativePath, "hash", hash)
		return nil
	}

	if err := e.walker.Walk(targetDir, visit); err != nil {
		return SnapshotResult{}, err
	}

	if err := tx.Commit(); err != nil {
		return SnapshotResult{}, err
	}

	e.logger.Info("snapshot complete", "snapshot_id", snapID, "warnings", len(warnings))
	return SnapshotResult{SnapshotID: snapID, Warnings: warnings}, nil
}
