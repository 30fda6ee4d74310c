package scan

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"

	"binsweep/internal/app/common"
	"binsweep/internal/domain/classify"
	"binsweep/internal/domain/model"
	"binsweep/internal/domain/safety"
	"binsweep/internal/domain/score"
	"binsweep/internal/infra/config"
	"binsweep/internal/infra/filesystem"
	"binsweep/internal/infra/logging"
)

// ErrNoAccessibleRoots means every candidate trash root was missing or
// unreadable; there is nothing to scan.
var ErrNoAccessibleRoots = errors.New("no accessible trash roots")

type Service struct{}

func NewService() Service { return Service{} }

// partial is one root worker's output, merged single-threaded after the
// pool drains.
type partial struct {
	items    []model.Item
	warnings []model.ScanWarning
	skips    []model.ItemFailure
	failures []model.ItemFailure
}

// Run walks the given roots in parallel (one worker per root, pool
// capped by config), classifies and risk-assesses surviving entries,
// and assembles the result set. Item-level problems are recorded in the
// set; only "nothing scannable" is an error. A cancelled scan returns
// the partial set built so far together with the context error.
func (Service) Run(ctx context.Context, app *common.AppContext, roots []string) (model.ScanResultSet, error) {
	cfg := app.Config
	now := time.Now().UTC()

	var rootWarnings []model.ScanWarning
	accessible := make([]string, 0, len(roots))
	for _, r := range roots {
		st, err := os.Stat(r)
		if err != nil || !st.IsDir() {
			detail := "not a directory"
			if err != nil {
				detail = err.Error()
			}
			rootWarnings = append(rootWarnings, model.ScanWarning{Kind: model.WarnRootUnavailable, Path: r, Detail: detail})
			app.Logger.Record(logging.Event{Kind: "root_unavailable", Path: r, Detail: detail})
			continue
		}
		accessible = append(accessible, r)
	}
	if len(accessible) == 0 {
		return model.ScanResultSet{}, ErrNoAccessibleRoots
	}

	guard := safety.NewGuard(accessible)

	workers := cfg.Workers
	if workers < 1 {
		workers = 1
	}
	pool, err := ants.NewPool(workers)
	if err != nil {
		return model.ScanResultSet{}, err
	}
	defer pool.Release()

	partials := make([]partial, len(accessible))
	var wg sync.WaitGroup
	for i, root := range accessible {
		i, root := i, root
		wg.Add(1)
		task := func() {
			defer wg.Done()
			partials[i] = scanRoot(ctx, app, guard, root, now)
		}
		if err := pool.Submit(task); err != nil {
			wg.Done()
			partials[i] = partial{warnings: []model.ScanWarning{
				{Kind: model.WarnRootUnavailable, Path: root, Detail: err.Error()},
			}}
		}
	}
	wg.Wait()

	set := model.ScanResultSet{Warnings: rootWarnings}
	for _, p := range partials {
		set.Items = append(set.Items, p.items...)
		set.Warnings = append(set.Warnings, p.warnings...)
		set.Skips = append(set.Skips, p.skips...)
		set.Failures = append(set.Failures, p.failures...)
	}
	set.Summary = model.SummarizeItems(set.Items)
	return set, ctx.Err()
}

func scanRoot(ctx context.Context, app *common.AppContext, guard *safety.Guard, root string, now time.Time) partial {
	var p partial
	warnings, err := filesystem.Walk(ctx, root, filesystem.WalkOptions{MaxDepth: app.Config.MaxDepth},
		func(path string, info os.FileInfo) error {
			if err := ctx.Err(); err != nil {
				return err
			}

			if _, err := guard.Validate(path); err != nil {
				kind := string(safety.KindOf(err))
				if kind == "" {
					kind = "invalid_path"
				}
				p.skips = append(p.skips, model.ItemFailure{Path: path, Kind: kind, Detail: err.Error()})
				app.Logger.Record(logging.Event{Kind: "item_skipped", Path: path, Detail: kind})
				return nil
			}

			rec, err := classify.Classify(path)
			if err != nil {
				kind := string(classify.IOOther)
				var ioErr *classify.IOError
				if errors.As(err, &ioErr) {
					kind = string(ioErr.Kind)
				}
				p.failures = append(p.failures, model.ItemFailure{Path: path, Kind: kind, Detail: err.Error()})
				app.Logger.Record(logging.Event{Kind: "item_failed", Path: path, Detail: kind})
				return nil
			}

			if !matchesFilters(rec, app.Config, now) {
				return nil
			}
			p.items = append(p.items, model.Item{Record: rec, Risk: score.Assess(rec, now)})
			return nil
		})
	p.warnings = append(p.warnings, warnings...)
	for _, w := range warnings {
		if w.Kind == model.WarnCycleDetected {
			app.Logger.Record(logging.Event{Kind: "cycle_detected", Path: w.Path, Detail: w.Detail})
		}
	}
	if err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded) {
		p.warnings = append(p.warnings, model.ScanWarning{Kind: model.WarnReadError, Path: root, Detail: err.Error()})
	}
	return p
}

// matchesFilters applies the conjunctive post-filters: age window, size
// window, name glob.
func matchesFilters(rec model.FileRecord, cfg config.Resolved, now time.Time) bool {
	age := now.Sub(rec.ModifiedAt)
	if cfg.MinAgeDays > 0 && age < time.Duration(cfg.MinAgeDays)*24*time.Hour {
		return false
	}
	if cfg.MaxAgeDays > 0 && age > time.Duration(cfg.MaxAgeDays)*24*time.Hour {
		return false
	}
	if rec.SizeBytes < cfg.MinSizeBytes {
		return false
	}
	if cfg.MaxSizeBytes > 0 && rec.SizeBytes > cfg.MaxSizeBytes {
		return false
	}
	if cfg.NamePattern != "" {
		ok, err := filepath.Match(cfg.NamePattern, filepath.Base(rec.Path))
		if err != nil || !ok {
			return false
		}
	}
	return true
}
