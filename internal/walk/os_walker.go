package walk

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"backupctl/internal/model"
)

// OSWalker discovers files on the real filesystem using filepath.WalkDir:
// directories are never themselves visited, symlinks and special files are
// skipped, and regular files are reported with their relative path
// canonicalized to forward slashes.
type OSWalker struct {
	// SkipUnreadable, when true, turns a permission-denied error on an
	// individual file into a skip rather than aborting the whole walk.
	// The default (false) makes permission errors fatal.
	SkipUnreadable bool
}

// NewOSWalker creates an OSWalker with the default (fatal-on-error) policy.
func NewOSWalker() *OSWalker {
	return &OSWalker{}
}

func (w *OSWalker) Walk(root string, visit VisitFunc) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if w.SkipUnreadable && errors.Is(err, fs.ErrPermission) {
				return nil
			}
			return fmt.Errorf("walking %s: %w: %v", path, model.ErrFileIO, err)
		}

		if d.IsDir() {
			return nil
		}

		// Symlinks and special files (devices, sockets, pipes) are
		// excluded; only plain regular files are yielded.
		if d.Type()&fs.ModeSymlink != 0 || !d.Type().IsRegular() {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			// The file may have been removed between WalkDir handing us
			// the entry and us stat-ing it: mid-walk removal is always
			// fatal.
			if errors.Is(err, fs.ErrNotExist) {
				return fmt.Errorf("file removed during walk: %s: %w", path, model.ErrFileIO)
			}
			if w.SkipUnreadable && errors.Is(err, fs.ErrPermission) {
				return nil
			}
			return fmt.Errorf("stat %s: %w: %v", path, model.ErrFileIO, err)
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return fmt.Errorf("computing relative path for %s: %w: %v", path, model.ErrFileIO, err)
		}
		relSlash := filepath.ToSlash(rel)

		// With SkipUnreadable, a file that cannot be opened for lack of
		// permission is skipped here, before it is handed to visit.
		if w.SkipUnreadable {
			if f, err := os.Open(path); err != nil {
				if errors.Is(err, fs.ErrPermission) {
					return nil
				}
			} else {
				f.Close()
			}
		}

		open := func() (io.ReadCloser, error) {
			f, err := os.Open(path)
			if err != nil {
				if w.SkipUnreadable && errors.Is(err, fs.ErrPermission) {
					return nil, err
				}
				return nil, fmt.Errorf("opening %s: %w: %v", path, model.ErrFileIO, err)
			}
			return f, nil
		}

		return visit(Entry{RelativePath: relSlash, Size: info.Size()}, open)
	})
}
