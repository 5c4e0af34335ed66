package engine_test

import (
	"context"
	"errors"
	"testing"

	"backupctl/internal/engine"
	"backupctl/internal/model"
	"backupctl/internal/testutil"
)

func TestEngine_Prune_UnknownSnapshot(t *testing.T) {
	s := testutil.NewTestStore(t)
	eng := engine.New(s, testutil.NewFakeWalker(), engine.RealClock{}, engine.NewNopLogger())

	err := eng.Prune(context.Background(), 999)
	if !errors.Is(err, model.ErrUnknownSnapshot) {
		t.Fatalf("Prune() error = %v, want ErrUnknownSnapshot", err)
	}
}

func TestEngine_Prune_Isolation(t *testing.T) {
	// Scenario 3: after pruning snapshot 1, snapshot 2 remains fully
	// restorable, and its distinct_size now reflects sole ownership.
	s := testutil.NewTestStore(t)
	walker := testutil.NewFakeWalker().AddFile("x", []byte("x"))
	eng := engine.New(s, walker, engine.RealClock{}, engine.NewNopLogger())

	first, err := eng.Snapshot(context.Background(), "/dir")
	if err != nil {
		t.Fatalf("first Snapshot() error = %v", err)
	}
	second, err := eng.Snapshot(context.Background(), "/dir")
	if err != nil {
		t.Fatalf("second Snapshot() error = %v", err)
	}

	if err := eng.Prune(context.Background(), first.SnapshotID); err != nil {
		t.Fatalf("Prune() error = %v", err)
	}

	result, err := eng.List(context.Background())
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(result.Rows) != 1 {
		t.Fatalf("len(Rows) = %d, want 1", len(result.Rows))
	}
	if result.Rows[0].ID != second.SnapshotID {
		t.Fatalf("remaining snapshot id = %d, want %d", result.Rows[0].ID, second.SnapshotID)
	}
	if result.Rows[0].DistinctSize != 1 {
		t.Errorf("DistinctSize = %d, want 1", result.Rows[0].DistinctSize)
	}

	dir := t.TempDir()
	if _, err := eng.Restore(context.Background(), second.SnapshotID, dir); err != nil {
		t.Fatalf("Restore() of surviving snapshot error = %v", err)
	}
}

func TestEngine_Prune_CollectsOrphans(t *testing.T) {
	// after prune, no Content row has zero referencing FileRefs.
	s := testutil.NewTestStore(t)
	walker := testutil.NewFakeWalker().AddFile("only.txt", []byte("unique bytes"))
	eng := engine.New(s, walker, engine.RealClock{}, engine.NewNopLogger())

	result, err := eng.Snapshot(context.Background(), "/dir")
	if err != nil {
		t.Fatalf("Snapshot() error = %v", err)
	}

	if err := eng.Prune(context.Background(), result.SnapshotID); err != nil {
		t.Fatalf("Prune() error = %v", err)
	}

	lengths, err := s.ContentLengths(context.Background())
	if err != nil {
		t.Fatalf("ContentLengths() error = %v", err)
	}
	if len(lengths) != 0 {
		t.Errorf("len(lengths) = %d, want 0 (orphan content collected)", len(lengths))
	}
}
