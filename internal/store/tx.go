package store

import (
	"database/sql"
	"fmt"
	"time"

	"backupctl/internal/model"
)

// Tx is a scoped write transaction. Every exit path must call either Commit
// or Rollback; Rollback is always safe to call after Commit has already run
// (database/sql reports sql.ErrTxDone, which callers should ignore via the
// defer pattern below).
type Tx struct {
	tx *sql.Tx
}

// Commit commits the transaction.
func (t *Tx) Commit() error {
	if err := t.tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w: %v", model.ErrStoreIO, err)
	}
	return nil
}

// Rollback rolls back the transaction. It is safe to call after a successful
// Commit or a prior Rollback; both report sql.ErrTxDone, which is ignored.
//
//	tx, err := s.Begin(ctx)
//	if err != nil { return err }
//	defer tx.Rollback()
//	... fatal error: return err ...
//	return tx.Commit()
func (t *Tx) Rollback() error {
	if err := t.tx.Rollback(); err != nil && err != sql.ErrTxDone {
		return fmt.Errorf("rolling back transaction: %w: %v", model.ErrStoreIO, err)
	}
	return nil
}

// InsertSnapshot inserts a new Snapshot row with the given timestamp and
// returns its assigned id. Ids are assigned by SQLite's AUTOINCREMENT, which
// never reuses a value even after the row is deleted by Prune.
func (t *Tx) InsertSnapshot(takenAt time.Time) (int64, error) {
	res, err := t.tx.Exec(
		"INSERT INTO snapshots (taken_at) VALUES (?)",
		formatTime(takenAt),
	)
	if err != nil {
		return 0, translate(err, "inserting snapshot")
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, translate(err, "reading snapshot id")
	}
	return id, nil
}

// InsertContentIfAbsent inserts a Content row keyed by hash if one does not
// already exist. It reports whether a new row was created (was_new).
func (t *Tx) InsertContentIfAbsent(hash string, blob []byte) (wasNew bool, err error) {
	var exists int
	err = t.tx.QueryRow("SELECT 1 FROM contents WHERE hash = ?", hash).Scan(&exists)
	switch {
	case err == sql.ErrNoRows:
		// fall through to insert
	case err != nil:
		return false, translate(err, "checking existing content")
	default:
		return false, nil
	}

	if _, err := t.tx.Exec("INSERT INTO contents (hash, blob) VALUES (?, ?)", hash, blob); err != nil {
		return false, translate(err, "inserting content")
	}
	return true, nil
}

// InsertFileRef records that relativePath in snapshotID names the content
// identified by hash. hash must already exist in contents; violating
// this raises ErrConstraint via the foreign key.
func (t *Tx) InsertFileRef(snapshotID int64, relativePath, hash string) error {
	_, err := t.tx.Exec(
		"INSERT INTO files (snapshot_id, path, hash) VALUES (?, ?, ?)",
		snapshotID, relativePath, hash,
	)
	return translate(err, "inserting file reference")
}

// SnapshotExists reports whether a Snapshot row with the given id exists.
func (t *Tx) SnapshotExists(snapshotID int64) (bool, error) {
	var exists int
	err := t.tx.QueryRow("SELECT 1 FROM snapshots WHERE id = ?", snapshotID).Scan(&exists)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, translate(err, "checking snapshot existence")
	}
	return true, nil
}

// DeleteFileRefsForSnapshot deletes all FileRefs belonging to snapshotID.
func (t *Tx) DeleteFileRefsForSnapshot(snapshotID int64) error {
	_, err := t.tx.Exec("DELETE FROM files WHERE snapshot_id = ?", snapshotID)
	return translate(err, "deleting file references")
}

// DeleteSnapshot deletes the Snapshot row itself. Call after
// DeleteFileRefsForSnapshot, or the foreign key will reject it.
func (t *Tx) DeleteSnapshot(snapshotID int64) error {
	_, err := t.tx.Exec("DELETE FROM snapshots WHERE id = ?", snapshotID)
	return translate(err, "deleting snapshot")
}

// DeleteOrphanContents deletes every Content row no longer referenced by any
// FileRef, and returns the number of rows removed. Call after the FileRefs
// of a pruned snapshot have been deleted, so orphans created by that prune
// are collected in the same transaction.
func (t *Tx) DeleteOrphanContents() (int64, error) {
	res, err := t.tx.Exec(`
		DELETE FROM contents
		WHERE hash NOT IN (SELECT DISTINCT hash FROM files)
	`)
	if err != nil {
		return 0, translate(err, "deleting orphan contents")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, translate(err, "counting deleted orphans")
	}
	return n, nil
}

// timeLayout is the ISO-8601 second-resolution format used for taken_at
// and operation timestamps.
const timeLayout = "2006-01-02 15:04:05"

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) (time.Time, error) {
	return time.Parse(timeLayout, s)
}
