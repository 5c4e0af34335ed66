package testutil

import (
	"bytes"
	"fmt"
	"io"

	"backupctl/internal/walk"
)

// FakeWalker is an in-memory Walker for deterministic tests: it yields a
// fixed, caller-supplied set of files rather than touching the real
// filesystem.
type FakeWalker struct {
	files []fakeFile
}

type fakeFile struct {
	relativePath string
	content      []byte
}

// NewFakeWalker creates an empty FakeWalker.
func NewFakeWalker() *FakeWalker {
	return &FakeWalker{}
}

// AddFile registers a file the walk will yield, regardless of root.
func (w *FakeWalker) AddFile(relativePath string, content []byte) *FakeWalker {
	w.files = append(w.files, fakeFile{relativePath: relativePath, content: content})
	return w
}

// Walk ignores root and yields every registered file in registration order.
func (w *FakeWalker) Walk(_ string, visit walk.VisitFunc) error {
	for _, f := range w.files {
		content := f.content
		open := func() (io.ReadCloser, error) {
			return io.NopCloser(bytes.NewReader(content)), nil
		}
		if err := visit(walk.Entry{RelativePath: f.relativePath, Size: int64(len(content))}, open); err != nil {
			return err
		}
	}
	return nil
}

// FailingWalker always fails the walk with a fixed error, for exercising
// snapshot's rollback-on-error path.
type FailingWalker struct {
	Err error
}

func (w *FailingWalker) Walk(string, walk.VisitFunc) error {
	if w.Err != nil {
		return w.Err
	}
	return fmt.Errorf("walk failed")
}
