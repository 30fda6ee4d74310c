package safety

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

type ErrorKind string

const (
	ErrSymlinkLoop        ErrorKind = "symlink_loop"
	ErrPathTooDeep        ErrorKind = "path_too_deep"
	ErrOutsideAllowedRoot ErrorKind = "outside_allowed_root"
	ErrDenylistedPath     ErrorKind = "denylisted_path"
)

// Error is fatal to the item being validated, never to a whole scan or
// cleanup pass.
type Error struct {
	Kind   ErrorKind
	Path   string
	Detail string
}

func (e *Error) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("%s: %s", e.Kind, e.Path)
	}
	return fmt.Sprintf("%s: %s (%s)", e.Kind, e.Path, e.Detail)
}

// KindOf returns the safety error kind, or "" when err is not a safety error.
func KindOf(err error) ErrorKind {
	if se, ok := err.(*Error); ok {
		return se.Kind
	}
	return ""
}

const (
	maxSymlinkHops = 10

	// DefaultMaxPathDepth bounds the slash count of a resolved path.
	DefaultMaxPathDepth = 20
)

var denylistedPaths = []string{
	"/",
	"/boot",
	"/bin",
	"/sbin",
	"/lib",
	"/lib64",
	"/usr",
	"/etc",
	"/proc",
	"/sys",
	"/dev",
	"/run",
	"/var",
}

// Guard validates candidate paths against a set of allowed roots and a
// denylist of system directories. Validation reads live filesystem state
// (symlink targets change between calls), so callers must re-validate
// immediately before any destructive action.
type Guard struct {
	AllowedRoots []string
	Denylist     []string
	MaxPathDepth int
}

// NewGuard builds a guard over the given roots with the default system
// denylist. The user's home directory is denylisted as well: the trash
// directories beneath it are legitimate roots, the home itself never is.
func NewGuard(allowedRoots []string) *Guard {
	deny := append([]string(nil), denylistedPaths...)
	if home, err := os.UserHomeDir(); err == nil {
		deny = append(deny, filepath.Clean(home))
	}
	roots := make([]string, 0, len(allowedRoots))
	for _, r := range allowedRoots {
		abs, err := filepath.Abs(r)
		if err != nil {
			continue
		}
		// Roots must be canonical so the prefix check agrees with
		// resolved candidate paths.
		if resolved, err := filepath.EvalSymlinks(abs); err == nil {
			abs = resolved
		}
		roots = append(roots, filepath.Clean(abs))
	}
	return &Guard{
		AllowedRoots: roots,
		Denylist:     deny,
		MaxPathDepth: DefaultMaxPathDepth,
	}
}

// Validate resolves path and checks it against the guard's constraints,
// returning the canonical path on success.
func (g *Guard) Validate(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return "", &Error{Kind: ErrOutsideAllowedRoot, Path: path, Detail: "empty path"}
	}
	if strings.ContainsRune(path, 0) {
		return "", &Error{Kind: ErrOutsideAllowedRoot, Path: path, Detail: "null byte"}
	}

	abs, err := filepath.Abs(filepath.Clean(path))
	if err != nil {
		return "", &Error{Kind: ErrOutsideAllowedRoot, Path: path, Detail: err.Error()}
	}

	resolved, err := g.resolveSymlinks(abs)
	if err != nil {
		return "", err
	}

	maxDepth := g.MaxPathDepth
	if maxDepth <= 0 {
		maxDepth = DefaultMaxPathDepth
	}
	if strings.Count(resolved, "/") > maxDepth {
		return "", &Error{Kind: ErrPathTooDeep, Path: resolved}
	}

	underRoot := g.underAllowedRoot(resolved)
	for _, d := range g.Denylist {
		if resolved == d {
			return "", &Error{Kind: ErrDenylistedPath, Path: resolved}
		}
		if strings.HasPrefix(resolved, d+"/") && d != "/" && !underRoot {
			return "", &Error{Kind: ErrDenylistedPath, Path: resolved, Detail: "under " + d}
		}
	}
	if !underRoot {
		return "", &Error{Kind: ErrOutsideAllowedRoot, Path: resolved}
	}
	return resolved, nil
}

// resolveSymlinks canonicalizes the parent directory, then follows the
// final component through symlinks one hop at a time, capped at
// maxSymlinkHops. A dangling link stops the chain; existence is the
// caller's concern.
func (g *Guard) resolveSymlinks(abs string) (string, error) {
	cur := canonicalizeParent(abs)
	for hop := 0; ; hop++ {
		if hop >= maxSymlinkHops {
			return "", &Error{Kind: ErrSymlinkLoop, Path: abs}
		}
		st, err := os.Lstat(cur)
		if err != nil || st.Mode()&os.ModeSymlink == 0 {
			return cur, nil
		}
		target, err := os.Readlink(cur)
		if err != nil {
			return cur, nil
		}
		if !filepath.IsAbs(target) {
			target = filepath.Join(filepath.Dir(cur), target)
		}
		cur = canonicalizeParent(filepath.Clean(target))
	}
}

// canonicalizeParent resolves every component but the last. Parent
// resolution failures (missing dirs, kernel loop detection) leave the
// path as-is; the relevant checks then run on the textual path.
func canonicalizeParent(abs string) string {
	dir := filepath.Dir(abs)
	resolved, err := filepath.EvalSymlinks(dir)
	if err != nil {
		return abs
	}
	return filepath.Join(resolved, filepath.Base(abs))
}

func (g *Guard) underAllowedRoot(path string) bool {
	for _, r := range g.AllowedRoots {
		if r != "/" && strings.HasPrefix(path, r+"/") {
			return true
		}
	}
	return false
}

// Remove deletes a previously validated canonical path. Files are
// unlinked, directories removed recursively, without following symlinks
// on platforms that support it.
func (g *Guard) Remove(canonPath string) error {
	return secureRemoveAll(canonPath, nil)
}
