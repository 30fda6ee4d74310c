//go:build !linux && !darwin
// +build !linux,!darwin

package classify

import (
	"os"
	"time"
)

func statTimes(info os.FileInfo) (atime, ctime time.Time) {
	return info.ModTime(), info.ModTime()
}
