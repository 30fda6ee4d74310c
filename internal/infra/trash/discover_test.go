package trash

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDiscoverFindsXDGTrash(t *testing.T) {
	data := t.TempDir()
	files := filepath.Join(data, "Trash", "files")
	if err := os.MkdirAll(files, 0o755); err != nil {
		t.Fatal(err)
	}
	t.Setenv("XDG_DATA_HOME", data)

	roots := NewDiscovery().Discover()
	found := false
	for _, r := range roots {
		if r == files {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected %s in discovered roots %v", files, roots)
	}
}

func TestDiscoverSkipsMissingRoots(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", filepath.Join(t.TempDir(), "nope"))
	t.Setenv("HOME", t.TempDir())

	for _, r := range NewDiscovery().Discover() {
		if st, err := os.Stat(r); err != nil || !st.IsDir() {
			t.Fatalf("discovered root %s does not exist", r)
		}
	}
}

func TestStaticDiscoveryFiltersNonDirs(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "f")
	if err := os.WriteFile(file, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	roots := Static{dir, file, filepath.Join(dir, "missing")}.Discover()
	if len(roots) != 1 || roots[0] != dir {
		t.Fatalf("got %v, want only %s", roots, dir)
	}
}
