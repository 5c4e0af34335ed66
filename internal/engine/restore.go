package engine

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"backupctl/internal/model"
)

const (
	restoreDirMode  = 0o755
	restoreFileMode = 0o644
)

// Restore writes every FileRef of snapshotID into outputDir, creating
// directories and overwriting any existing files at those paths. It fails
// with model.ErrUnknownSnapshot if the id does not exist. Write ordering is
// unspecified; partial writes are not rolled back on disk if a later file
// fails.
func (e *Engine) Restore(ctx context.Context, snapshotID int64, outputDir string) ([]string, error) {
	exists, err := e.store.SnapshotExists(ctx, snapshotID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, fmt.Errorf("snapshot %d: %w", snapshotID, model.ErrUnknownSnapshot)
	}

	refs, err := e.store.ListFileRefs(ctx, snapshotID)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(outputDir, restoreDirMode); err != nil {
		return nil, fmt.Errorf("creating output directory: %w: %v", model.ErrFileIO, err)
	}

	var written []string
	for _, ref := range refs {
		dest := filepath.Join(outputDir, filepath.FromSlash(ref.RelativePath))

		if err := os.MkdirAll(filepath.Dir(dest), restoreDirMode); err != nil {
			return written, fmt.Errorf("creating parent directory for %s: %w: %v", ref.RelativePath, model.ErrFileIO, err)
		}

		blob, err := e.store.GetContent(ctx, ref.Hash)
		if err != nil {
			return written, err
		}

		if err := os.WriteFile(dest, blob, restoreFileMode); err != nil {
			return written, fmt.Errorf("writing %s: %w: %v", ref.RelativePath, model.ErrFileIO, err)
		}

		written = append(written, dest)
		e.logger.Debug("file restored", "path", dest)
	}

	e.logger.Info("restore complete", "snapshot_id", snapshotID, "count", len(written))
	return written, nil
}
