package cleanup

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"binsweep/internal/app/common"
	"binsweep/internal/domain/model"
	"binsweep/internal/infra/config"
	"binsweep/internal/infra/logging"
	"binsweep/internal/infra/trash"
)

func testApp(roots ...string) (*common.AppContext, *logging.Capture) {
	capture := &logging.Capture{}
	return &common.AppContext{
		Config: config.Resolved{
			MaxDepth: 6,
			Workers:  2,
		},
		Logger:    capture,
		Discovery: trash.Static(roots),
	}, capture
}

func fileItem(t *testing.T, path string, size int) model.Item {
	t.Helper()
	if err := os.WriteFile(path, make([]byte, size), 0o644); err != nil {
		t.Fatal(err)
	}
	return model.Item{Record: model.FileRecord{
		Path:      path,
		EntryType: model.EntryFile,
		SizeBytes: uint64(size),
	}}
}

func TestRunDeletesAndCountsBytes(t *testing.T) {
	root := t.TempDir()
	a := fileItem(t, filepath.Join(root, "a.tmp"), 100)
	b := fileItem(t, filepath.Join(root, "b.tmp"), 250)

	app, capture := testApp(root)
	res, err := NewService().Run(context.Background(), app, []model.Item{a, b}, false)
	if err != nil {
		t.Fatal(err)
	}

	if res.Processed != 2 || res.Deleted != 2 || res.Failed != 0 {
		t.Fatalf("result %+v", res)
	}
	if res.BytesFreed != 350 {
		t.Fatalf("bytes freed %d, want 350", res.BytesFreed)
	}
	if res.RunID == "" || res.DryRun {
		t.Fatalf("result envelope %+v", res)
	}
	for _, it := range []model.Item{a, b} {
		if _, err := os.Lstat(it.Record.Path); !os.IsNotExist(err) {
			t.Fatalf("%s still present", it.Record.Path)
		}
	}

	deleted := 0
	for _, ev := range capture.Snapshot() {
		if ev.Kind == "deleted" {
			deleted++
		}
	}
	if deleted != 2 {
		t.Fatalf("deleted events %d", deleted)
	}
}

func TestRunDryRunTouchesNothing(t *testing.T) {
	root := t.TempDir()
	a := fileItem(t, filepath.Join(root, "a.tmp"), 100)

	app, _ := testApp(root)
	res, err := NewService().Run(context.Background(), app, []model.Item{a}, true)
	if err != nil {
		t.Fatal(err)
	}

	if !res.DryRun || res.Deleted != 1 || res.BytesFreed != 100 {
		t.Fatalf("dry-run result %+v", res)
	}
	if _, err := os.Lstat(a.Record.Path); err != nil {
		t.Fatalf("dry run removed the file: %v", err)
	}
}

func TestRunRejectsEscapedPath(t *testing.T) {
	root := t.TempDir()
	outside := t.TempDir()
	victim := fileItem(t, filepath.Join(outside, "victim.txt"), 10)
	link := filepath.Join(root, "escape.txt")
	if err := os.Symlink(victim.Record.Path, link); err != nil {
		t.Fatal(err)
	}
	item := model.Item{Record: model.FileRecord{
		Path:      link,
		EntryType: model.EntryFile,
		SizeBytes: 10,
	}}

	app, _ := testApp(root)
	res, err := NewService().Run(context.Background(), app, []model.Item{item}, false)
	if err != nil {
		t.Fatal(err)
	}

	if res.Deleted != 0 || res.Failed != 1 {
		t.Fatalf("result %+v", res)
	}
	if res.Failures[0].Kind != model.DeleteFailSafetyCheck {
		t.Fatalf("failure kind %q", res.Failures[0].Kind)
	}
	if _, err := os.Lstat(victim.Record.Path); err != nil {
		t.Fatalf("symlink target must survive: %v", err)
	}
}

func TestRunBestEffortContinuesPastFailures(t *testing.T) {
	root := t.TempDir()
	missing := model.Item{Record: model.FileRecord{
		Path:      filepath.Join(root, "already-gone.tmp"),
		EntryType: model.EntryFile,
		SizeBytes: 100,
	}}
	ok := fileItem(t, filepath.Join(root, "ok.tmp"), 20)

	app, _ := testApp(root)
	res, err := NewService().Run(context.Background(), app, []model.Item{missing, ok}, false)
	if err != nil {
		t.Fatal(err)
	}

	if res.Processed != 2 || res.Deleted != 1 || res.Failed != 1 {
		t.Fatalf("result %+v", res)
	}
	if res.Failures[0].Kind != model.DeleteFailNotFound {
		t.Fatalf("failure kind %q", res.Failures[0].Kind)
	}
	if _, err := os.Lstat(ok.Record.Path); !os.IsNotExist(err) {
		t.Fatal("surviving item was not removed")
	}
}

func TestRunVanishedItemClaimsNoBytes(t *testing.T) {
	root := t.TempDir()
	// Scanned with a size, gone by cleanup time. The stale size must
	// not count toward bytes freed.
	vanished := model.Item{Record: model.FileRecord{
		Path:      filepath.Join(root, "stale.log"),
		EntryType: model.EntryFile,
		SizeBytes: 100,
	}}

	app, _ := testApp(root)
	res, err := NewService().Run(context.Background(), app, []model.Item{vanished}, false)
	if err != nil {
		t.Fatal(err)
	}
	if res.Deleted != 0 || res.Failed != 1 || res.BytesFreed != 0 {
		t.Fatalf("result %+v", res)
	}
	if res.Failures[0].Kind != model.DeleteFailNotFound {
		t.Fatalf("failure kind %q", res.Failures[0].Kind)
	}
}

func TestRunDryRunMirrorsRealRun(t *testing.T) {
	root := t.TempDir()
	outside := t.TempDir()
	victim := fileItem(t, filepath.Join(outside, "victim.txt"), 10)
	link := filepath.Join(root, "escape.txt")
	if err := os.Symlink(victim.Record.Path, link); err != nil {
		t.Fatal(err)
	}
	items := []model.Item{
		fileItem(t, filepath.Join(root, "a.tmp"), 40),
		{Record: model.FileRecord{Path: link, EntryType: model.EntryFile, SizeBytes: 10}},
	}

	app, _ := testApp(root)
	dry, err := NewService().Run(context.Background(), app, items, true)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := os.Lstat(items[0].Record.Path); err != nil {
		t.Fatalf("dry run removed a file: %v", err)
	}

	wet, err := NewService().Run(context.Background(), app, items, false)
	if err != nil {
		t.Fatal(err)
	}

	if dry.Processed != wet.Processed || dry.Deleted != wet.Deleted || dry.Failed != wet.Failed {
		t.Fatalf("dry %+v vs real %+v", dry, wet)
	}
	if dry.BytesFreed != wet.BytesFreed {
		t.Fatalf("bytes freed dry %d vs real %d", dry.BytesFreed, wet.BytesFreed)
	}
	if dry.Failures[0].Kind != wet.Failures[0].Kind {
		t.Fatalf("failure kinds dry %q vs real %q", dry.Failures[0].Kind, wet.Failures[0].Kind)
	}
}

func TestRunZeroWorkerConfigIsBounded(t *testing.T) {
	root := t.TempDir()
	a := fileItem(t, filepath.Join(root, "a.tmp"), 5)

	app, _ := testApp(root)
	app.Config.Workers = 0
	res, err := NewService().Run(context.Background(), app, []model.Item{a}, false)
	if err != nil {
		t.Fatal(err)
	}
	if res.Deleted != 1 {
		t.Fatalf("result %+v", res)
	}
}

func TestRunDeletesDirectoryTree(t *testing.T) {
	root := t.TempDir()
	tree := filepath.Join(root, "bundle")
	if err := os.MkdirAll(filepath.Join(tree, "nested"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(tree, "nested", "f.txt"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	item := model.Item{Record: model.FileRecord{
		Path:      tree,
		EntryType: model.EntryDirectory,
	}}

	app, _ := testApp(root)
	res, err := NewService().Run(context.Background(), app, []model.Item{item}, false)
	if err != nil {
		t.Fatal(err)
	}
	if res.Deleted != 1 || res.BytesFreed != 0 {
		t.Fatalf("result %+v", res)
	}
	if _, err := os.Lstat(tree); !os.IsNotExist(err) {
		t.Fatal("directory tree still present")
	}
}

func TestRunCancelledCountsRemainderAsSkipped(t *testing.T) {
	root := t.TempDir()
	a := fileItem(t, filepath.Join(root, "a.tmp"), 1)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	app, _ := testApp(root)
	res, err := NewService().Run(ctx, app, []model.Item{a}, false)
	if err == nil {
		t.Fatal("expected context error")
	}
	if res.Skipped != 1 || res.Processed != 0 {
		t.Fatalf("result %+v", res)
	}
	if res.RunID == "" {
		t.Fatal("partial result must carry an id")
	}
	select {
	case <-ctx.Done():
	default:
		t.Fatal("context should be done")
	}

	if _, err := os.Lstat(a.Record.Path); err != nil {
		t.Fatalf("cancelled run removed the file: %v", err)
	}
}
