// Package trash locates OS recycle-bin directories. The core never
// guesses at trash locations itself; it consumes whatever this
// collaborator returns.
package trash

import (
	"os"
	"path/filepath"
)

// Discovery returns candidate trash roots. Implementations return only
// roots that exist and are directories.
type Discovery interface {
	Discover() []string
}

type osDiscovery struct{}

func NewDiscovery() Discovery { return osDiscovery{} }

func (osDiscovery) Discover() []string {
	var candidates []string

	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		if home, err := os.UserHomeDir(); err == nil {
			dataHome = filepath.Join(home, ".local", "share")
		}
	}
	if dataHome != "" {
		candidates = append(candidates, filepath.Join(dataHome, "Trash", "files"))
	}
	if home, err := os.UserHomeDir(); err == nil {
		// macOS user trash.
		candidates = append(candidates, filepath.Join(home, ".Trash"))
	}
	candidates = append(candidates, mountedTrashDirs()...)

	out := make([]string, 0, len(candidates))
	seen := make(map[string]struct{})
	for _, c := range candidates {
		clean := filepath.Clean(c)
		if _, dup := seen[clean]; dup {
			continue
		}
		seen[clean] = struct{}{}
		if st, err := os.Stat(clean); err == nil && st.IsDir() {
			out = append(out, clean)
		}
	}
	return out
}

// Static is a fixed-root discovery used by tests and the --root flag.
type Static []string

func (s Static) Discover() []string {
	out := make([]string, 0, len(s))
	for _, r := range s {
		if st, err := os.Stat(r); err == nil && st.IsDir() {
			out = append(out, filepath.Clean(r))
		}
	}
	return out
}
