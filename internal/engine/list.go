package engine

import (
	"context"

	"backupctl/internal/model"
)

// List reports every snapshot in ascending id order along with its size,
// distinct_size, and the store's total on-disk footprint of unique content.
// Read-only; never mutates the store.
func (e *Engine) List(ctx context.Context) (model.ListResult, error) {
	snapshots, err := e.store.ListSnapshots(ctx)
	if err != nil {
		return model.ListResult{}, err
	}

	refCounts, err := e.store.ReferenceCounts(ctx)
	if err != nil {
		return model.ListResult{}, err
	}

	lengths, err := e.store.ContentLengths(ctx)
	if err != nil {
		return model.ListResult{}, err
	}

	var totalSize int64
	for _, size := range lengths {
		totalSize += size
	}

	rows := make([]model.SnapshotRow, 0, len(snapshots))
	for _, snap := range snapshots {
		hashLengths, err := e.store.SnapshotHashLengths(ctx, snap.ID)
		if err != nil {
			return model.ListResult{}, err
		}

		var size, distinctSize int64
		for hash, length := range hashLengths {
			size += length
			if refCounts[hash] == 1 {
				distinctSize += length
			}
		}

		rows = append(rows, model.SnapshotRow{
			ID:           snap.ID,
			TakenAt:      snap.TakenAt,
			Size:         size,
			DistinctSize: distinctSize,
		})
	}

	return model.ListResult{Rows: rows, TotalSize: totalSize}, nil
}
