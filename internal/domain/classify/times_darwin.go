//go:build darwin
// +build darwin

package classify

import (
	"os"
	"syscall"
	"time"
)

func statTimes(info os.FileInfo) (atime, ctime time.Time) {
	if st, ok := info.Sys().(*syscall.Stat_t); ok {
		return time.Unix(st.Atimespec.Sec, st.Atimespec.Nsec), time.Unix(st.Ctimespec.Sec, st.Ctimespec.Nsec)
	}
	return info.ModTime(), info.ModTime()
}
