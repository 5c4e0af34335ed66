package engine_test

import (
	"context"
	"testing"

	"backupctl/internal/engine"
	"backupctl/internal/testutil"
)

func TestEngine_Snapshot_Dedup(t *testing.T) {
	// Two identical files after a single snapshot: exactly one Content row,
	// two FileRefs pointing to it.
	s := testutil.NewTestStore(t)
	walker := testutil.NewFakeWalker().
		AddFile("a.txt", []byte("hello")).
		AddFile("b.txt", []byte("hello"))

	eng := engine.New(s, walker, engine.RealClock{}, engine.NewNopLogger())

	result, err := eng.Snapshot(context.Background(), "/whatever")
	if err != nil {
		t.Fatalf("Snapshot() error = %v", err)
	}
	if result.SnapshotID != 1 {
		t.Errorf("SnapshotID = %d, want 1", result.SnapshotID)
	}

	const wantHash = "2cf24dba5fb0a30e26e83b2ac5b9e29e1b161e5c1fa7425e73043362938b9824"
	blob, err := s.GetContent(context.Background(), wantHash)
	if err != nil {
		t.Fatalf("GetContent() error = %v", err)
	}
	if string(blob) != "hello" {
		t.Errorf("blob = %q, want %q", blob, "hello")
	}

	refs, err := s.ListFileRefs(context.Background(), result.SnapshotID)
	if err != nil {
		t.Fatalf("ListFileRefs() error = %v", err)
	}
	if len(refs) != 2 {
		t.Fatalf("len(refs) = %d, want 2", len(refs))
	}
	for _, ref := range refs {
		if ref.Hash != wantHash {
			t.Errorf("ref.Hash = %q, want %q", ref.Hash, wantHash)
		}
	}
}

func TestEngine_Snapshot_MonotonicIDs(t *testing.T) {
	// snapshot calls yield strictly increasing ids.
	s := testutil.NewTestStore(t)
	eng := engine.New(s, testutil.NewFakeWalker(), engine.RealClock{}, engine.NewNopLogger())

	var ids []int64
	for i := 0; i < 3; i++ {
		result, err := eng.Snapshot(context.Background(), "/whatever")
		if err != nil {
			t.Fatalf("Snapshot() error = %v", err)
		}
		ids = append(ids, result.SnapshotID)
	}

	for i := 1; i < len(ids); i++ {
		if ids[i] <= ids[i-1] {
			t.Fatalf("ids not strictly increasing: %v", ids)
		}
	}
}

func TestEngine_Snapshot_AbortedLeavesNoTrace(t *testing.T) {
	// a failing walk rolls back, leaving zero snapshots.
	s := testutil.NewTestStore(t)
	walker := &testutil.FailingWalker{}
	eng := engine.New(s, walker, engine.RealClock{}, engine.NewNopLogger())

	if _, err := eng.Snapshot(context.Background(), "/whatever"); err == nil {
		t.Fatal("Snapshot() expected error from failing walker")
	}

	snapshots, err := s.ListSnapshots(context.Background())
	if err != nil {
		t.Fatalf("ListSnapshots() error = %v", err)
	}
	if len(snapshots) != 0 {
		t.Errorf("len(snapshots) = %d, want 0 after aborted snapshot", len(snapshots))
	}
}

func TestEngine_Snapshot_OversizedFileIsWarningNotFatal(t *testing.T) {
	s := testutil.NewTestStore(t)
	walker := testutil.NewFakeWalker().
		AddFile("small.txt", []byte("ok")).
		AddFile("big.bin", make([]byte, 100))

	eng := engine.New(s, walker, engine.RealClock{}, engine.NewNopLogger())
	eng.MaxContentSize = 10

	result, err := eng.Snapshot(context.Background(), "/whatever")
	if err != nil {
		t.Fatalf("Snapshot() error = %v", err)
	}
	if len(result.Warnings) != 1 {
		t.Fatalf("len(Warnings) = %d, want 1", len(result.Warnings))
	}
	if result.Warnings[0].Path != "big.bin" {
		t.Errorf("Warnings[0].Path = %q, want %q", result.Warnings[0].Path, "big.bin")
	}

	refs, err := s.ListFileRefs(context.Background(), result.SnapshotID)
	if err != nil {
		t.Fatalf("ListFileRefs() error = %v", err)
	}
	if len(refs) != 1 {
		t.Fatalf("len(refs) = %d, want 1 (oversized file skipped)", len(refs))
	}
}

func TestEngine_Snapshot_ZeroLengthFile(t *testing.T) {
	s := testutil.NewTestStore(t)
	walker := testutil.NewFakeWalker().AddFile("empty.txt", []byte{})
	eng := engine.New(s, walker, engine.RealClock{}, engine.NewNopLogger())

	result, err := eng.Snapshot(context.Background(), "/whatever")
	if err != nil {
		t.Fatalf("Snapshot() error = %v", err)
	}

	const emptyHash = "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855"
	blob, err := s.GetContent(context.Background(), emptyHash)
	if err != nil {
		t.Fatalf("GetContent() error = %v", err)
	}
	if len(blob) != 0 {
		t.Errorf("blob length = %d, want 0", len(blob))
	}
	_ = result
}
