package walk_test

import (
	"io"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"backupctl/internal/walk"
)

func TestOSWalker_Walk(t *testing.T) {
	root := t.TempDir()

	mustWrite(t, filepath.Join(root, "a.txt"), "hello")
	mustWrite(t, filepath.Join(root, "sub", "b.txt"), "world")
	if err := os.Mkdir(filepath.Join(root, "empty"), 0755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	w := walk.NewOSWalker()

	var got []string
	err := w.Walk(root, func(entry walk.Entry, open walk.Opener) error {
		rc, err := open()
		if err != nil {
			return err
		}
		defer rc.Close()
		data, err := io.ReadAll(rc)
		if err != nil {
			return err
		}
		got = append(got, entry.RelativePath+":"+string(data))
		return nil
	})
	if err != nil {
		t.Fatalf("Walk() error = %v", err)
	}

	sort.Strings(got)
	want := []string{"a.txt:hello", "sub/b.txt:world"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("got[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestOSWalker_SkipsSymlinks(t *testing.T) {
	root := t.TempDir()
	mustWrite(t, filepath.Join(root, "real.txt"), "data")

	if err := os.Symlink(filepath.Join(root, "real.txt"), filepath.Join(root, "link.txt")); err != nil {
		t.Skipf("symlinks unsupported in this environment: %v", err)
	}

	w := walk.NewOSWalker()
	var paths []string
	err := w.Walk(root, func(entry walk.Entry, open walk.Opener) error {
		paths = append(paths, entry.RelativePath)
		return nil
	})
	if err != nil {
		t.Fatalf("Walk() error = %v", err)
	}

	if len(paths) != 1 || paths[0] != "real.txt" {
		t.Errorf("paths = %v, want [real.txt] (symlink excluded)", paths)
	}
}

func TestOSWalker_RelativePathIsForwardSlashed(t *testing.T) {
	root := t.TempDir()
	mustWrite(t, filepath.Join(root, "dir", "file.txt"), "x")

	w := walk.NewOSWalker()
	var path string
	err := w.Walk(root, func(entry walk.Entry, open walk.Opener) error {
		path = entry.RelativePath
		return nil
	})
	if err != nil {
		t.Fatalf("Walk() error = %v", err)
	}
	if path != "dir/file.txt" {
		t.Errorf("RelativePath = %q, want %q", path, "dir/file.txt")
	}
}

func mustWrite(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
}
