//go:build windows

package cleanup

import (
	"os"
	"syscall"
	"time"
)

func fileAccessTime(info os.FileInfo) time.Time {
	if data, ok := info.Sys().(*syscall.Win32FileAttributeData); ok {
		return time.Unix(0, data.LastAccessTime.Nanoseconds())
	}
	return info.ModTime()
}
