package model

import "errors"

// Error taxonomy. All write operations run inside a transaction; any of
// these returned from within one triggers a rollback, leaving the store
// either fully pre-operation or fully post-operation, never in between.
var (
	// ErrStoreIO signals a failure of the underlying storage substrate
	// (disk full, corruption, lock contention).
	ErrStoreIO = errors.New("store: underlying storage failure")

	// ErrSchema signals that the database opened but its schema is
	// absent or incompatible with this binary.
	ErrSchema = errors.New("store: schema absent or incompatible")

	// ErrConstraint signals a store-level integrity violation: a bug or
	// external tampering, not an expected runtime condition.
	ErrConstraint = errors.New("store: integrity constraint violated")

	// ErrUnknownSnapshot signals that a referenced snapshot id does not
	// exist.
	ErrUnknownSnapshot = errors.New("engine: unknown snapshot")

	// ErrMissingContent signals that a referenced hash has no Content
	// row, implying prior corruption.
	ErrMissingContent = errors.New("content: missing content for hash")

	// ErrCorruptContent signals that a Content row's bytes do not match
	// its hash.
	ErrCorruptContent = errors.New("content: stored bytes do not match hash")

	// ErrFileIO signals a source or target filesystem error.
	ErrFileIO = errors.New("walk: filesystem I/O error")

	// ErrTooLarge signals that a file exceeded the configured size cap.
	// It is recoverable: the file is skipped and reported as a warning,
	// never returned as a fatal operation error.
	ErrTooLarge = errors.New("content: file exceeds size cap")
)
