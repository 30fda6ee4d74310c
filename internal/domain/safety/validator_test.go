package safety

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func testGuard(roots ...string) *Guard {
	g := NewGuard(roots)
	// Keep the fixed system denylist only; t.TempDir roots often live
	// under /var or /tmp on some platforms, so tests pin their own list.
	g.Denylist = []string{"/", "/etc", "/usr", "/proc", "/sys", "/dev"}
	return g
}

func TestValidateAcceptsPathUnderRoot(t *testing.T) {
	root := t.TempDir()
	p := filepath.Join(root, "files", "a.txt")
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(p, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	canon, err := testGuard(root).Validate(p)
	if err != nil {
		t.Fatalf("expected valid path, got %v", err)
	}
	if !strings.HasPrefix(canon, root) {
		t.Fatalf("canonical path %q not under root %q", canon, root)
	}
}

func TestValidateRejectsOutsideAllowedRoot(t *testing.T) {
	root := t.TempDir()
	other := t.TempDir()

	_, err := testGuard(root).Validate(filepath.Join(other, "x"))
	if KindOf(err) != ErrOutsideAllowedRoot {
		t.Fatalf("expected outside_allowed_root, got %v", err)
	}
}

func TestValidateRejectsSiblingOfRoot(t *testing.T) {
	root := t.TempDir()

	// One hop outside the root must always be rejected.
	_, err := testGuard(root).Validate(root + "-sibling")
	if KindOf(err) != ErrOutsideAllowedRoot {
		t.Fatalf("expected outside_allowed_root, got %v", err)
	}
}

func TestValidateRejectsRootItself(t *testing.T) {
	root := t.TempDir()
	_, err := testGuard(root).Validate(root)
	if KindOf(err) != ErrOutsideAllowedRoot {
		t.Fatalf("expected outside_allowed_root for the root itself, got %v", err)
	}
}

func TestValidateRejectsDenylistedPath(t *testing.T) {
	g := testGuard("/etc/trash")
	_, err := g.Validate("/etc")
	if KindOf(err) != ErrDenylistedPath {
		t.Fatalf("expected denylisted_path, got %v", err)
	}
}

func TestValidateRejectsSymlinkLoop(t *testing.T) {
	root := t.TempDir()
	a := filepath.Join(root, "a")
	b := filepath.Join(root, "b")
	if err := os.Symlink(a, b); err != nil {
		t.Fatal(err)
	}
	if err := os.Symlink(b, a); err != nil {
		t.Fatal(err)
	}

	_, err := testGuard(root).Validate(a)
	if KindOf(err) != ErrSymlinkLoop {
		t.Fatalf("expected symlink_loop, got %v", err)
	}
}

func TestValidateResolvesSymlinkEscape(t *testing.T) {
	root := t.TempDir()
	outside := t.TempDir()
	target := filepath.Join(outside, "victim")
	if err := os.WriteFile(target, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	link := filepath.Join(root, "link")
	if err := os.Symlink(target, link); err != nil {
		t.Fatal(err)
	}

	_, err := testGuard(root).Validate(link)
	if KindOf(err) != ErrOutsideAllowedRoot {
		t.Fatalf("expected escape rejection, got %v", err)
	}
}

func TestValidateRejectsTooDeepPath(t *testing.T) {
	root := t.TempDir()
	g := testGuard(root)
	g.MaxPathDepth = 5

	deep := root + strings.Repeat("/d", 10)
	_, err := g.Validate(deep)
	if KindOf(err) != ErrPathTooDeep {
		t.Fatalf("expected path_too_deep, got %v", err)
	}
}

func TestRemoveDeletesTree(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, "victim")
	if err := os.MkdirAll(filepath.Join(dir, "sub"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "sub", "f.txt"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	g := testGuard(root)
	canon, err := g.Validate(dir)
	if err != nil {
		t.Fatal(err)
	}
	if err := g.Remove(canon); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Lstat(dir); !os.IsNotExist(err) {
		t.Fatalf("expected %s removed, stat err=%v", dir, err)
	}
}

func TestRemoveMissingPathReportsNotFound(t *testing.T) {
	root := t.TempDir()
	g := testGuard(root)
	err := g.Remove(filepath.Join(root, "gone"))
	if err == nil {
		t.Fatal("expected an error for a missing target")
	}
	if !os.IsNotExist(err) {
		t.Fatalf("expected not-exist, got %v", err)
	}
}
