//go:build linux

package cleanup

import (
	"os"
	"syscall"
	"time"
)

// fileAccessTime returns the last-access time, falling back to the modify
// time when the stat structure is unavailable.
func fileAccessTime(info os.FileInfo) time.Time {
	if stat, ok := info.Sys().(*syscall.Stat_t); ok {
		return time.Unix(stat.Atim.Sec, stat.Atim.Nsec)
	}
	return info.ModTime()
}
