package store

import (
	"context"
	"database/sql"
	"fmt"

	"backupctl/internal/model"
)

// SnapshotExists reports whether a Snapshot row with the given id exists.
func (s *Store) SnapshotExists(ctx context.Context, snapshotID int64) (bool, error) {
	var exists int
	err := s.db.QueryRowContext(ctx, "SELECT 1 FROM snapshots WHERE id = ?", snapshotID).Scan(&exists)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, translate(err, "checking snapshot existence")
	}
	return true, nil
}

// ListSnapshots returns every Snapshot in ascending id order.
func (s *Store) ListSnapshots(ctx context.Context) ([]model.Snapshot, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT id, taken_at FROM snapshots ORDER BY id ASC")
	if err != nil {
		return nil, translate(err, "listing snapshots")
	}
	defer rows.Close()

	var out []model.Snapshot
	for rows.Next() {
		var snap model.Snapshot
		var takenAt string
		if err := rows.Scan(&snap.ID, &takenAt); err != nil {
			return nil, translate(err, "scanning snapshot")
		}
		t, err := parseTime(takenAt)
		if err != nil {
			return nil, fmt.Errorf("parsing taken_at: %w: %v", model.ErrConstraint, err)
		}
		snap.TakenAt = t
		out = append(out, snap)
	}
	return out, translate(rows.Err(), "listing snapshots")
}

// ListFileRefs returns every FileRef belonging to snapshotID.
func (s *Store) ListFileRefs(ctx context.Context, snapshotID int64) ([]model.FileRef, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT snapshot_id, path, hash FROM files WHERE snapshot_id = ?", snapshotID)
	if err != nil {
		return nil, translate(err, "listing file references")
	}
	defer rows.Close()

	var out []model.FileRef
	for rows.Next() {
		var ref model.FileRef
		if err := rows.Scan(&ref.SnapshotID, &ref.RelativePath, &ref.Hash); err != nil {
			return nil, translate(err, "scanning file reference")
		}
		out = append(out, ref)
	}
	return out, translate(rows.Err(), "listing file references")
}

// GetContent fetches a Content blob by hash. Returns model.ErrMissingContent
// if no Content row exists for hash.
func (s *Store) GetContent(ctx context.Context, hash string) ([]byte, error) {
	var blob []byte
	err := s.db.QueryRowContext(ctx, "SELECT blob FROM contents WHERE hash = ?", hash).Scan(&blob)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("hash %s: %w", hash, model.ErrMissingContent)
	}
	if err != nil {
		return nil, translate(err, "fetching content")
	}
	return blob, nil
}

// ContentSize returns the byte length of the Content blob for hash, without
// loading the blob into memory.
func (s *Store) ContentSize(ctx context.Context, hash string) (int64, error) {
	var size int64
	err := s.db.QueryRowContext(ctx, "SELECT length(blob) FROM contents WHERE hash = ?", hash).Scan(&size)
	if err == sql.ErrNoRows {
		return 0, fmt.Errorf("hash %s: %w", hash, model.ErrMissingContent)
	}
	if err != nil {
		return 0, translate(err, "fetching content size")
	}
	return size, nil
}

// ContentLengths returns, for every distinct Content row, its hash and
// length(blob) — the data List needs to compute total_size without ever
// loading a blob's bytes.
func (s *Store) ContentLengths(ctx context.Context) (map[string]int64, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT hash, length(blob) FROM contents")
	if err != nil {
		return nil, translate(err, "listing content lengths")
	}
	defer rows.Close()

	out := make(map[string]int64)
	for rows.Next() {
		var hash string
		var size int64
		if err := rows.Scan(&hash, &size); err != nil {
			return nil, translate(err, "scanning content length")
		}
		out[hash] = size
	}
	return out, translate(rows.Err(), "listing content lengths")
}

// ReferenceCounts returns, for every hash referenced by at least one
// FileRef, the number of distinct snapshots that reference it. A hash
// referenced twice within the same snapshot still counts once here, since
// pruning that one snapshot reclaims it regardless of how many of its
// FileRefs name the hash. A Content row absent from this map is an orphan.
func (s *Store) ReferenceCounts(ctx context.Context) (map[string]int64, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT hash, COUNT(DISTINCT snapshot_id) FROM files GROUP BY hash")
	if err != nil {
		return nil, translate(err, "counting references")
	}
	defer rows.Close()

	out := make(map[string]int64)
	for rows.Next() {
		var hash string
		var count int64
		if err := rows.Scan(&hash, &count); err != nil {
			return nil, translate(err, "scanning reference count")
		}
		out[hash] = count
	}
	return out, translate(rows.Err(), "counting references")
}

// SnapshotHashLengths returns, for the FileRefs of one snapshot, a map from
// hash to its blob length, deduplicated (a hash referenced twice within the
// same snapshot is counted once towards that snapshot's size, matching how
// List's "size" column sums distinct Contents referenced by the snapshot).
func (s *Store) SnapshotHashLengths(ctx context.Context, snapshotID int64) (map[string]int64, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT DISTINCT f.hash, length(c.blob)
		FROM files f
		JOIN contents c ON c.hash = f.hash
		WHERE f.snapshot_id = ?
	`, snapshotID)
	if err != nil {
		return nil, translate(err, "listing snapshot content lengths")
	}
	defer rows.Close()

	out := make(map[string]int64)
	for rows.Next() {
		var hash string
		var size int64
		if err := rows.Scan(&hash, &size); err != nil {
			return nil, translate(err, "scanning snapshot content length")
		}
		out[hash] = size
	}
	return out, translate(rows.Err(), "listing snapshot content lengths")
}

// MissingHashes returns every hash named by a FileRef that has no
// corresponding Content row — damage that Check surfaces but never raises.
func (s *Store) MissingHashes(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT DISTINCT f.hash
		FROM files f
		LEFT JOIN contents c ON c.hash = f.hash
		WHERE c.hash IS NULL
		ORDER BY f.hash
	`)
	if err != nil {
		return nil, translate(err, "finding missing hashes")
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var hash string
		if err := rows.Scan(&hash); err != nil {
			return nil, translate(err, "scanning missing hash")
		}
		out = append(out, hash)
	}
	return out, translate(rows.Err(), "finding missing hashes")
}

// ContentCursor streams every Content row without holding more than one
// blob in memory at a time, so Check can verify stores far larger than
// available RAM. fn is called once per row; a non-nil return aborts the scan.
func (s *Store) ContentCursor(ctx context.Context, fn func(hash string, blob []byte) error) error {
	rows, err := s.db.QueryContext(ctx, "SELECT hash, blob FROM contents ORDER BY hash")
	if err != nil {
		return translate(err, "scanning contents")
	}
	defer rows.Close()

	for rows.Next() {
		var hash string
		var blob []byte
		if err := rows.Scan(&hash, &blob); err != nil {
			return translate(err, "scanning content row")
		}
		if err := fn(hash, blob); err != nil {
			return err
		}
	}
	return translate(rows.Err(), "scanning contents")
}
