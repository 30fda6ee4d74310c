package filesystem

import (
	"context"
	"os"
	"path/filepath"

	"binsweep/internal/domain/model"
)

type WalkOptions struct {
	// MaxDepth bounds directory descent below the root; 0 means the
	// package default.
	MaxDepth int
}

const defaultMaxDepth = 10

// WalkFunc receives every entry below the root, directories included.
// Returning an error aborts the walk.
type WalkFunc func(path string, info os.FileInfo) error

// Walk traverses root depth-bounded and cycle-safe. Directory symlinks
// are followed, but each canonical directory is visited once; a revisit
// is reported as a cycle warning and that subtree is skipped. Unreadable
// directories become warnings, not errors. Cancellation is checked
// between directories.
func Walk(ctx context.Context, root string, opts WalkOptions, fn WalkFunc) ([]model.ScanWarning, error) {
	rootAbs, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}
	maxDepth := opts.MaxDepth
	if maxDepth <= 0 {
		maxDepth = defaultMaxDepth
	}

	w := &walker{
		ctx:      ctx,
		maxDepth: maxDepth,
		visited:  make(map[string]struct{}),
		fn:       fn,
	}
	err = w.walkDir(rootAbs, 0)
	return w.warnings, err
}

type walker struct {
	ctx      context.Context
	maxDepth int
	visited  map[string]struct{}
	warnings []model.ScanWarning
	fn       WalkFunc
}

func (w *walker) warn(kind model.WarningKind, path, detail string) {
	w.warnings = append(w.warnings, model.ScanWarning{Kind: kind, Path: path, Detail: detail})
}

func (w *walker) walkDir(dir string, depth int) error {
	if err := w.ctx.Err(); err != nil {
		return err
	}

	canon, err := filepath.EvalSymlinks(dir)
	if err != nil {
		w.warn(model.WarnReadError, dir, err.Error())
		return nil
	}
	if _, seen := w.visited[canon]; seen {
		w.warn(model.WarnCycleDetected, dir, "already visited "+canon)
		return nil
	}
	w.visited[canon] = struct{}{}

	entries, err := os.ReadDir(dir)
	if err != nil {
		w.warn(model.WarnReadError, dir, err.Error())
		return nil
	}

	for _, e := range entries {
		path := filepath.Join(dir, e.Name())
		info, err := os.Lstat(path)
		if err != nil {
			w.warn(model.WarnReadError, path, err.Error())
			continue
		}
		if err := w.fn(path, info); err != nil {
			return err
		}

		descend := info.IsDir()
		if info.Mode()&os.ModeSymlink != 0 {
			if st, err := os.Stat(path); err == nil && st.IsDir() {
				descend = true
			}
		}
		if descend && depth+1 <= w.maxDepth {
			if err := w.walkDir(path, depth+1); err != nil {
				return err
			}
		}
	}
	return nil
}
