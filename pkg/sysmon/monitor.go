package sysmon

import (
	"fmt"
	"math"
	"runtime"
	"strconv"

	"github.com/core-tools/hsu-maintenance-go/pkg/errors"
	"github.com/core-tools/hsu-maintenance-go/pkg/journal"
	"github.com/core-tools/hsu-maintenance-go/pkg/logging"
)

// Thresholds holds the utilization percentages above which a warning is
// journaled. A reading breaches its threshold only on strict inequality.
type Thresholds struct {
	CPUPercent    float64 `yaml:"cpu_percent,omitempty"`
	MemoryPercent float64 `yaml:"memory_percent,omitempty"`
	DiskPercent   float64 `yaml:"disk_percent,omitempty"`
}

// Snapshot is one run's utilization readings. It is not retained after the
// check completes.
type Snapshot struct {
	CPUPercent    float64
	MemoryPercent float64
	DiskPercent   float64
}

// Monitor performs the observation-only resource check: read, journal,
// warn on breach. It never acts on what it sees.
type Monitor struct {
	provider Provider
	journal  journal.Journal
	logger   logging.Logger
}

func NewMonitor(provider Provider, jrn journal.Journal, logger logging.Logger) *Monitor {
	return &Monitor{
		provider: provider,
		journal:  jrn,
		logger:   logger,
	}
}

// PrimaryVolumePath returns the mount point of the volume whose usage the
// monitor reports.
func PrimaryVolumePath() string {
	if runtime.GOOS == "windows" {
		return `C:\`
	}
	return "/"
}

// CheckResources reads CPU, memory and disk utilization, journals one
// summary line, and journals one warning line per metric that strictly
// exceeds its threshold. A read failure is a fatal condition for the run.
func (m *Monitor) CheckResources(thresholds Thresholds) (*Snapshot, error) {
	cpuPercent, err := m.provider.CPUPercent()
	if err != nil {
		return nil, errors.NewInternalError("resource check failed", err)
	}

	memTotal, memFree, err := m.provider.MemoryStats()
	if err != nil {
		return nil, errors.NewInternalError("resource check failed", err)
	}
	if memTotal == 0 {
		return nil, errors.NewInternalError("resource check failed: zero total memory reported", nil)
	}
	memPercent := round2((1 - float64(memFree)/float64(memTotal)) * 100)

	diskPath := PrimaryVolumePath()
	diskUsed, diskFree, err := m.provider.DiskStats(diskPath)
	if err != nil {
		return nil, errors.NewInternalError("resource check failed", err)
	}
	diskPercent := 0.0
	if diskUsed+diskFree > 0 {
		diskPercent = float64(diskUsed) / float64(diskUsed+diskFree) * 100
	}

	snapshot := &Snapshot{
		CPUPercent:    cpuPercent,
		MemoryPercent: memPercent,
		DiskPercent:   diskPercent,
	}

	m.journal.Log(fmt.Sprintf("Resource check: CPU usage %s%%, Memory usage %s%%, Disk usage %s%%.",
		formatPercent(cpuPercent), formatPercent(memPercent), formatPercent(diskPercent)))

	if cpuPercent > thresholds.CPUPercent {
		m.journal.Log(fmt.Sprintf("High CPU usage detected: %s%%", formatPercent(cpuPercent)))
	}
	if memPercent > thresholds.MemoryPercent {
		m.journal.Log(fmt.Sprintf("High memory usage detected: %s%%", formatPercent(memPercent)))
	}
	if diskPercent > thresholds.DiskPercent {
		m.journal.Log(fmt.Sprintf("High disk usage detected: %s%%", formatPercent(diskPercent)))
	}

	m.logger.Debugf("Resource snapshot: cpu=%.2f mem=%.2f disk=%.2f (volume %s)",
		cpuPercent, memPercent, diskPercent, diskPath)

	return snapshot, nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// formatPercent renders a percentage without trailing zeros, so a reading
// of exactly 85 journals as "85" and 85.5 as "85.5".
func formatPercent(v float64) string {
	return strconv.FormatFloat(round2(v), 'f', -1, 64)
}
