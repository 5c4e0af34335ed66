// Package content is the content-addressed layer: it keys every file's
// bytes by their SHA-256 digest, inserting new blobs idempotently and
// reporting whether an insert was new, within the caller's transaction.
package content

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"

	"backupctl/internal/model"
	"backupctl/internal/store"
)

// DefaultMaxSize is the default cap on a single file's size (1 GiB). Files
// larger than this are skipped by Snapshot and reported as warnings, not
// errors.
const DefaultMaxSize int64 = 1 << 30

// HashAndBuffer reads all of r, computing its SHA-256 digest while copying,
// and returns the digest alongside the buffered bytes. It returns
// model.ErrTooLarge without finishing the read if more than maxSize bytes
// are seen — the caller is expected to have already checked the walker's
// reported size and only call this when that size is within budget; this
// is a second, defensive check against a file that grew after being stat'd.
func HashAndBuffer(r io.Reader, maxSize int64) (hash string, data []byte, err error) {
	h := sha256.New()
	limited := &limitedReader{r: r, limit: maxSize + 1}

	data, err = io.ReadAll(io.TeeReader(limited, h))
	if err != nil {
		if err == errTooLarge {
			return "", nil, fmt.Errorf("%w", model.ErrTooLarge)
		}
		return "", nil, fmt.Errorf("reading content: %w: %v", model.ErrFileIO, err)
	}

	sum := h.Sum(nil)
	return hex.EncodeToString(sum), data, nil
}

// errTooLarge is a private sentinel distinguishing a limitedReader cutoff
// from a genuine I/O failure; HashAndBuffer translates it to
// model.ErrTooLarge before it ever escapes this package.
var errTooLarge = fmt.Errorf("content: read exceeded limit")

// limitedReader aborts with errTooLarge once more than limit bytes have been
// read, rather than silently truncating like io.LimitReader would.
type limitedReader struct {
	r     io.Reader
	limit int64
	read  int64
}

func (l *limitedReader) Read(p []byte) (int, error) {
	if l.read >= l.limit {
		return 0, errTooLarge
	}
	if int64(len(p)) > l.limit-l.read {
		p = p[:l.limit-l.read]
	}
	n, err := l.r.Read(p)
	l.read += int64(n)
	return n, err
}

// Put computes the SHA-256 of data, inserts it into the store's contents
// relation if absent, and reports whether the insert was new (was_new).
// Idempotent on hash: calling Put twice with the same bytes is safe.
func Put(tx *store.Tx, data []byte) (hash string, wasNew bool, err error) {
	sum := sha256.Sum256(data)
	hash = hex.EncodeToString(sum[:])

	wasNew, err = tx.InsertContentIfAbsent(hash, data)
	if err != nil {
		return "", false, err
	}
	return hash, wasNew, nil
}

// Get retrieves content by hash, returning model.ErrMissingContent if absent.
func Get(ctx context.Context, s *store.Store, hash string) ([]byte, error) {
	return s.GetContent(ctx, hash)
}

// Size returns the byte length of the content identified by hash.
func Size(ctx context.Context, s *store.Store, hash string) (int64, error) {
	return s.ContentSize(ctx, hash)
}

// Verify recomputes the SHA-256 of blob and reports whether it matches hash,
// the semantic check the engine's Check operation performs per Content row.
func Verify(hash string, blob []byte) bool {
	sum := sha256.Sum256(blob)
	return hex.EncodeToString(sum[:]) == hash
}
