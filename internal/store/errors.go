package store

import (
	"errors"
	"fmt"

	"github.com/mattn/go-sqlite3"

	"backupctl/internal/model"
)

// translate maps a raw driver error to the taxonomy in internal/model,
// preserving errors.Is/errors.As compatibility via %w wrapping. nil passes
// through as nil; any other error that is not a SQLite constraint or I/O
// error is wrapped with context only, so a taxonomy error still matches
// errors.Is.
func translate(err error, context string) error {
	if err == nil {
		return nil
	}

	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code {
		case sqlite3.ErrConstraint:
			return fmt.Errorf("%s: %w: %v", context, model.ErrConstraint, err)
		case sqlite3.ErrIoErr, sqlite3.ErrFull, sqlite3.ErrBusy, sqlite3.ErrLocked, sqlite3.ErrCorrupt:
			return fmt.Errorf("%s: %w: %v", context, model.ErrStoreIO, err)
		}
	}

	return fmt.Errorf("%s: %w", context, err)
}
