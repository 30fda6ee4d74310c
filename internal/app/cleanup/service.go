package cleanup

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/panjf2000/ants/v2"

	"binsweep/internal/app/common"
	"binsweep/internal/domain/model"
	"binsweep/internal/domain/safety"
	"binsweep/internal/infra/logging"
)

// Service deletes previously scanned items. Every path is re-validated
// against a fresh safety guard immediately before removal; the scan
// that produced the item is not trusted across the time gap.
type Service struct{}

func NewService() *Service { return &Service{} }

// outcome is the per-item verdict, filled in by workers at the item's
// own index so the final result order matches the input order.
type outcome struct {
	attempted  bool
	deleted    bool
	bytesFreed uint64
	failure    *model.ItemFailure
}

// Run removes the given items, best effort. One failure never aborts
// the batch. With dryRun set every item goes through the full
// validation path and the result reports what would have happened,
// but nothing is removed. Cancellation stops the batch between items;
// items never attempted are counted as skipped and the partial result
// is still valid.
func (s *Service) Run(ctx context.Context, app *common.AppContext, items []model.Item, dryRun bool) (model.CleanupResult, error) {
	started := time.Now().UTC()
	result := model.CleanupResult{
		RunID:     uuid.NewString(),
		DryRun:    dryRun,
		StartedAt: started,
	}

	roots := allowedRoots(app, items)
	guard := safety.NewGuard(roots)

	workers := app.Config.Workers
	if workers < 1 {
		workers = 1
	}
	pool, err := ants.NewPool(workers)
	if err != nil {
		return result, err
	}
	defer pool.Release()

	outcomes := make([]outcome, len(items))
	var wg sync.WaitGroup
	for i := range items {
		if ctx.Err() != nil {
			break
		}
		i := i
		wg.Add(1)
		if err := pool.Submit(func() {
			defer wg.Done()
			outcomes[i] = deleteOne(app, guard, items[i], dryRun)
		}); err != nil {
			wg.Done()
			outcomes[i] = outcome{attempted: true, failure: &model.ItemFailure{
				Path: items[i].Record.Path, Kind: model.DeleteFailFilesystem, Detail: err.Error(),
			}}
		}
	}
	wg.Wait()

	for _, o := range outcomes {
		if !o.attempted {
			result.Skipped++
			continue
		}
		result.Processed++
		if o.deleted {
			result.Deleted++
			result.BytesFreed += o.bytesFreed
		}
		if o.failure != nil {
			result.Failed++
			result.Failures = append(result.Failures, *o.failure)
		}
	}
	result.DurationMS = time.Since(started).Milliseconds()
	return result, ctx.Err()
}

func deleteOne(app *common.AppContext, guard *safety.Guard, item model.Item, dryRun bool) outcome {
	path := item.Record.Path

	canon, err := guard.Validate(path)
	if err != nil {
		app.Logger.Record(logging.Event{Kind: "delete_failed", Path: path, Detail: err.Error()})
		return outcome{attempted: true, failure: &model.ItemFailure{
			Path: path, Kind: model.DeleteFailSafetyCheck, Detail: err.Error(),
		}}
	}

	if dryRun {
		app.Logger.Record(logging.Event{Kind: "delete_simulated", Path: canon})
		return outcome{attempted: true, deleted: true, bytesFreed: freedBytes(item)}
	}

	if err := guard.Remove(canon); err != nil {
		kind := model.DeleteFailFilesystem
		switch {
		case os.IsNotExist(err):
			kind = model.DeleteFailNotFound
		case os.IsPermission(err):
			kind = model.DeleteFailPermission
		}
		app.Logger.Record(logging.Event{Kind: "delete_failed", Path: canon, Detail: err.Error()})
		return outcome{attempted: true, failure: &model.ItemFailure{
			Path: path, Kind: kind, Detail: err.Error(),
		}}
	}

	app.Logger.Record(logging.Event{Kind: "deleted", Path: canon})
	return outcome{attempted: true, deleted: true, bytesFreed: freedBytes(item)}
}

// freedBytes counts only regular files. Directory sizes are not
// recorded at scan time and symlink removal frees no content.
func freedBytes(item model.Item) uint64 {
	if item.Record.EntryType != model.EntryFile {
		return 0
	}
	return item.Record.SizeBytes
}

// allowedRoots prefers the configured trash discovery; when absent the
// guard is rooted at the parents of the items themselves, which still
// blocks escapes through symlinks or relative path tricks.
func allowedRoots(app *common.AppContext, items []model.Item) []string {
	if app.Discovery != nil {
		if roots := app.Discovery.Discover(); len(roots) > 0 {
			return roots
		}
	}
	seen := make(map[string]struct{})
	var roots []string
	for _, it := range items {
		dir := filepath.Dir(it.Record.Path)
		if _, ok := seen[dir]; ok {
			continue
		}
		seen[dir] = struct{}{}
		roots = append(roots, dir)
	}
	return roots
}
