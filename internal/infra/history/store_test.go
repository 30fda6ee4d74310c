package history

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"

	"binsweep/internal/domain/model"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestRecordAndRecent(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	base := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		err := s.Record(ctx, model.CleanupResult{
			RunID:      uuid.NewString(),
			StartedAt:  base.Add(time.Duration(i) * time.Hour),
			DryRun:     i == 0,
			Processed:  5,
			Deleted:    4,
			Failed:     1,
			BytesFreed: 1024,
			DurationMS: 42,
		})
		if err != nil {
			t.Fatal(err)
		}
	}

	runs, err := s.Recent(ctx, 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 2 {
		t.Fatalf("got %d runs, want 2", len(runs))
	}
	if !runs[0].StartedAt.After(runs[1].StartedAt) {
		t.Fatalf("expected newest first: %v then %v", runs[0].StartedAt, runs[1].StartedAt)
	}
	if runs[0].Deleted != 4 || runs[0].BytesFreed != 1024 {
		t.Fatalf("unexpected run row: %+v", runs[0])
	}
}

func TestOpenCreatesParentDirs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "deep", "nested", "history.db")
	s, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	if err := s.Record(context.Background(), model.CleanupResult{RunID: uuid.NewString(), StartedAt: time.Now().UTC()}); err != nil {
		t.Fatal(err)
	}
}
