package sysmon

import (
	"time"

	"github.com/core-tools/hsu-maintenance-go/pkg/errors"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/disk"
	"github.com/shirou/gopsutil/v3/mem"
)

// Provider supplies raw utilization readings. The monitor only sees this
// interface, so tests substitute a fake with fixed values.
type Provider interface {
	CPUPercent() (float64, error)
	MemoryStats() (total uint64, free uint64, err error)
	DiskStats(path string) (used uint64, free uint64, err error)
}

// cpuSampleInterval is the window over which total CPU utilization is
// measured. A zero interval would report utilization since boot.
const cpuSampleInterval = time.Second

type gopsutilProvider struct{}

// NewProvider returns the gopsutil-backed readings provider.
func NewProvider() Provider {
	return &gopsutilProvider{}
}

func (p *gopsutilProvider) CPUPercent() (float64, error) {
	percents, err := cpu.Percent(cpuSampleInterval, false)
	if err != nil {
		return 0, errors.NewInternalError("failed to read CPU utilization", err)
	}
	if len(percents) == 0 {
		return 0, errors.NewInternalError("no CPU utilization reading available", nil)
	}
	return percents[0], nil
}

func (p *gopsutilProvider) MemoryStats() (uint64, uint64, error) {
	vm, err := mem.VirtualMemory()
	if err != nil {
		return 0, 0, errors.NewInternalError("failed to read memory statistics", err)
	}
	// Available counts reclaimable memory, which is what "free" means for
	// utilization purposes across platforms.
	return vm.Total, vm.Available, nil
}

func (p *gopsutilProvider) DiskStats(path string) (uint64, uint64, error) {
	usage, err := disk.Usage(path)
	if err != nil {
		return 0, 0, errors.NewInternalError("failed to read disk usage", err).WithContext("path", path)
	}
	return usage.Used, usage.Free, nil
}
