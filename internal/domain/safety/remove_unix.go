//go:build unix
// +build unix

package safety

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sys/unix"
)

type entryIdentity struct {
	dev uint64
	ino uint64
}

// secureRemoveAll removes absPath without following symlinks at any
// component. Directory descent stays on the starting device, and each
// entry's dev/ino identity is re-checked before unlinking so a path
// swapped underneath us fails instead of deleting the replacement.
// A missing target is an error; only entries that vanish during
// descent are tolerated.
func secureRemoveAll(absPath string, expected *entryIdentity) error {
	if absPath == string(filepath.Separator) {
		return errors.New("root remove is forbidden")
	}
	parent := filepath.Dir(absPath)
	name := filepath.Base(absPath)

	parentFD, err := openDirNoFollow(parent)
	if err != nil {
		return err
	}
	defer unix.Close(parentFD)

	st, err := lstatAt(parentFD, name)
	if err != nil {
		return &os.PathError{Op: "remove", Path: absPath, Err: err}
	}
	id := toIdentity(st)
	if expected != nil && (id.dev != expected.dev || id.ino != expected.ino) {
		return errors.New("path changed during operation")
	}

	if st.Mode&unix.S_IFMT == unix.S_IFDIR {
		if err := removeDirChildren(parentFD, name, id.dev); err != nil {
			return err
		}
		if err := ensureIdentityAt(parentFD, name, id); err != nil {
			return err
		}
		if err := unix.Unlinkat(parentFD, name, unix.AT_REMOVEDIR); err != nil && !errors.Is(err, unix.ENOENT) {
			return err
		}
		return nil
	}

	if err := ensureIdentityAt(parentFD, name, id); err != nil {
		return err
	}
	if err := unix.Unlinkat(parentFD, name, 0); err != nil && !errors.Is(err, unix.ENOENT) {
		return err
	}
	return nil
}

func removeDirChildren(parentFD int, name string, rootDev uint64) error {
	dirFD, err := unix.Openat(parentFD, name, unix.O_RDONLY|unix.O_DIRECTORY|unix.O_NOFOLLOW, 0)
	if err != nil {
		return err
	}
	defer unix.Close(dirFD)

	var dirSt unix.Stat_t
	if err := unix.Fstat(dirFD, &dirSt); err != nil {
		return err
	}
	if uint64(dirSt.Dev) != rootDev {
		return errors.New("crossing filesystem boundary")
	}

	names, err := readDirNames(dirFD)
	if err != nil {
		return err
	}
	for _, child := range names {
		st, err := lstatAt(dirFD, child)
		if err != nil {
			if errors.Is(err, unix.ENOENT) {
				continue
			}
			return err
		}
		if st.Mode&unix.S_IFMT == unix.S_IFDIR {
			id := toIdentity(st)
			if id.dev != rootDev {
				return errors.New("crossing filesystem boundary")
			}
			if err := removeDirChildren(dirFD, child, rootDev); err != nil {
				return err
			}
			if err := ensureIdentityAt(dirFD, child, id); err != nil {
				return err
			}
			if err := unix.Unlinkat(dirFD, child, unix.AT_REMOVEDIR); err != nil && !errors.Is(err, unix.ENOENT) {
				return err
			}
			continue
		}
		if err := ensureIdentityAt(dirFD, child, toIdentity(st)); err != nil {
			return err
		}
		if err := unix.Unlinkat(dirFD, child, 0); err != nil && !errors.Is(err, unix.ENOENT) {
			return err
		}
	}
	return nil
}

func openDirNoFollow(path string) (int, error) {
	if !filepath.IsAbs(path) {
		return -1, unix.EINVAL
	}
	cur, err := unix.Open(string(filepath.Separator), unix.O_RDONLY|unix.O_DIRECTORY|unix.O_NOFOLLOW, 0)
	if err != nil {
		return -1, err
	}
	for _, c := range strings.Split(strings.TrimPrefix(path, string(filepath.Separator)), string(filepath.Separator)) {
		if c == "" || c == "." {
			continue
		}
		next, err := unix.Openat(cur, c, unix.O_RDONLY|unix.O_DIRECTORY|unix.O_NOFOLLOW, 0)
		if err != nil {
			_ = unix.Close(cur)
			return -1, err
		}
		_ = unix.Close(cur)
		cur = next
	}
	return cur, nil
}

func lstatAt(parentFD int, name string) (unix.Stat_t, error) {
	var st unix.Stat_t
	err := unix.Fstatat(parentFD, name, &st, unix.AT_SYMLINK_NOFOLLOW)
	return st, err
}

func toIdentity(st unix.Stat_t) entryIdentity {
	return entryIdentity{dev: uint64(st.Dev), ino: uint64(st.Ino)}
}

func ensureIdentityAt(parentFD int, name string, want entryIdentity) error {
	cur, err := lstatAt(parentFD, name)
	if err != nil {
		return err
	}
	if id := toIdentity(cur); id.dev != want.dev || id.ino != want.ino {
		return errors.New("path changed during operation")
	}
	return nil
}

func readDirNames(dirFD int) ([]string, error) {
	dupFD, err := unix.Dup(dirFD)
	if err != nil {
		return nil, err
	}
	file := os.NewFile(uintptr(dupFD), "dir")
	if file == nil {
		_ = unix.Close(dupFD)
		return nil, errors.New("failed to open directory stream")
	}
	defer file.Close()
	entries, err := file.ReadDir(-1)
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.Name())
	}
	return out, nil
}
