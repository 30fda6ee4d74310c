//go:build linux
// +build linux

package trash

import (
	"bufio"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// mountedTrashDirs returns .Trash-<uid> locations on mounted volumes,
// per the freedesktop trash spec.
func mountedTrashDirs() []string {
	f, err := os.Open("/proc/self/mounts")
	if err != nil {
		return nil
	}
	defer f.Close()

	uid := strconv.Itoa(os.Getuid())
	var out []string
	s := bufio.NewScanner(f)
	for s.Scan() {
		fields := strings.Fields(s.Text())
		if len(fields) < 2 {
			continue
		}
		mount := decodeMountPath(fields[1])
		if mount == "" || mount == "/" || strings.HasPrefix(mount, "/proc") ||
			strings.HasPrefix(mount, "/sys") || strings.HasPrefix(mount, "/dev") ||
			strings.HasPrefix(mount, "/run") {
			continue
		}
		out = append(out, filepath.Join(mount, ".Trash-"+uid, "files"))
		out = append(out, filepath.Join(mount, ".Trash", uid, "files"))
	}
	return out
}

func decodeMountPath(raw string) string {
	r := strings.ReplaceAll(raw, "\\040", " ")
	r = strings.ReplaceAll(r, "\\011", "\t")
	r = strings.ReplaceAll(r, "\\012", "\n")
	r = strings.ReplaceAll(r, "\\134", "\\")
	return r
}
