//go:build linux
// +build linux

package classify

import (
	"os"
	"syscall"
	"time"
)

func statTimes(info os.FileInfo) (atime, ctime time.Time) {
	if st, ok := info.Sys().(*syscall.Stat_t); ok {
		return time.Unix(st.Atim.Sec, st.Atim.Nsec), time.Unix(st.Ctim.Sec, st.Ctim.Nsec)
	}
	return info.ModTime(), info.ModTime()
}
