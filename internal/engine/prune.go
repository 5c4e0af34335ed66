package engine

import (
	"context"
	"fmt"

	"backupctl/internal/model"
)

// Prune deletes a snapshot and every Content row that becomes unreferenced
// as a result, in one transaction. Fails with model.ErrUnknownSnapshot if
// the id does not exist. Pruning one snapshot never affects the
// restorability of any other.
func (e *Engine) Prune(ctx context.Context, snapshotID int64) error {
	opID, startErr := e.store.InsertOperation(ctx, "prune", fmt.Sprintf("%d", snapshotID), e.clock.Now())
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

	if err := e.prune(ctx, snapshotID); err != nil {
		finish("error")
		return err
	}
	finish("ok")
	return nil
}

func (e *Engine) prune(ctx context.Context, snapshotID int64) error {
	tx, err := e.store.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	exists, err := tx.SnapshotExists(snapshotID)
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("snapshot %d: %w", snapshotID, model.ErrUnknownSnapshot)
	}

	if err := tx.DeleteFileRefsForSnapshot(snapshotID); err != nil {
		return err
	}
	if err := tx.DeleteSnapshot(snapshotID); err != nil {
		return err
	}
	orphans, err := tx.DeleteOrphanContents()
	if err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	e.logger.Info("prune complete", "snapshot_id", snapshotID, "orphans_collected", orphans)
	return nil
}
