package engine

import (
	"context"

	"backupctl/internal/content"
	"backupctl/internal/model"
)

// Check recomputes the digest of every stored Content row and compares it
// to the row's hash, and reports FileRefs whose hash has no corresponding
// Content row. It also runs the store's substrate-level integrity check
// first, surfacing structural damage separately from hash mismatches.
// Read-only; an unhealthy store is reported, never raised as an error.
func (e *Engine) Check(ctx context.Context) (model.CheckReport, error) {
	var report model.CheckReport

	if err := e.store.IntegrityCheck(ctx); err != nil {
		report.StructuralError = err
	}

	missing, err := e.store.MissingHashes(ctx)
	if err != nil {
		return model.CheckReport{}, err
	}
	report.MissingHashes = missing

	err = e.store.ContentCursor(ctx, func(hash string, blob []byte) error {
		if !content.Verify(hash, blob) {
			report.CorruptHashes = append(report.CorruptHashes, hash)
		}
		return nil
	})
	if err != nil {
		return model.CheckReport{}, err
	}

	e.logger.Info("check complete", "corrupt", len(report.CorruptHashes), "missing", len(report.MissingHashes))
	return report, nil
}
