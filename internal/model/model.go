// Package model holds the tagged records shared across the store, content,
// and engine layers: Snapshot, Content, FileRef, and the operations audit
// trail record.
package model

import "time"

// Snapshot is an immutable, point-in-time capture of a directory's regular
// files. Its ID is assigned by the store in strictly increasing order.
type Snapshot struct {
	ID      int64
	TakenAt time.Time
}

// Content is a content-addressed blob. Hash is the lowercase hex SHA-256
// digest of Blob; it is never recomputed from Blob except by Check.
type Content struct {
	Hash string
	Blob []byte
}

// FileRef names one Content under one relative path within one Snapshot.
type FileRef struct {
	SnapshotID   int64
	RelativePath string
	Hash         string
}

// Operation is an audit-trail record of one invocation of a core operation.
// It is not one of the three content-addressed relations and is never
// touched by Prune's garbage collection.
type Operation struct {
	ID         int64
	Name       string
	Parameters string
	StartedAt  time.Time
	FinishedAt *time.Time
	Status     string // "running", "ok", or "error"
}

// SnapshotRow is one row of List's report: a Snapshot plus its size figures.
type SnapshotRow struct {
	ID           int64
	TakenAt      time.Time
	Size         int64 // sum of blob lengths for all content this snapshot references
	DistinctSize int64 // sum of blob lengths for content only this snapshot references
}

// ListResult is the full report produced by List.
type ListResult struct {
	Rows      []SnapshotRow
	TotalSize int64 // sum of blob lengths over every distinct Content row in the store
}

// CheckReport is the result of a Check operation.
type CheckReport struct {
	CorruptHashes   []string // Content rows whose blob no longer hashes to their key
	MissingHashes   []string // FileRef hashes with no corresponding Content row
	StructuralError error    // non-nil if the substrate-level integrity check failed
}

// Healthy reports whether the store has no detected damage.
func (r CheckReport) Healthy() bool {
	return r.StructuralError == nil && len(r.CorruptHashes) == 0 && len(r.MissingHashes) == 0
}

// Warning is a non-fatal diagnostic surfaced by an operation, e.g. a file
// skipped during Snapshot for exceeding the size cap.
type Warning struct {
	Path string
	Err  error
}
