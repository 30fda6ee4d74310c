//go:build !unix
// +build !unix

package safety

import "os"

type entryIdentity struct {
	dev uint64
	ino uint64
}

func secureRemoveAll(absPath string, expected *entryIdentity) error {
	_ = expected
	// RemoveAll reports nothing for a missing target; the caller needs
	// the distinction, so probe first.
	if _, err := os.Lstat(absPath); err != nil {
		return err
	}
	return os.RemoveAll(absPath)
}
