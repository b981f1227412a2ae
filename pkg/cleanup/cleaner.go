package cleanup

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/core-tools/hsu-maintenance-go/pkg/journal"
	"github.com/core-tools/hsu-maintenance-go/pkg/logging"
	"github.com/core-tools/hsu-maintenance-go/pkg/svcctl"
)

// Config controls the temp-file purge. TempDir defaults to the platform
// temp directory, TempMaxAge to 7 days.
type Config struct {
	TempDir    string        `yaml:"temp_dir,omitempty"`
	TempMaxAge time.Duration `yaml:"temp_max_age,omitempty"`
}

// ServiceCheckResult records one service's supervision outcome. It exists
// only long enough to journal it.
type ServiceCheckResult struct {
	ServiceName      string
	WasRunning       bool
	RestartAttempted bool
	RestartSucceeded bool
}

// Cleaner purges stale temp files and restarts stopped critical services.
// Both sub-steps are best-effort: individual failures are diagnostics, not
// run failures.
type Cleaner struct {
	config     Config
	services   []string
	controller svcctl.Controller
	journal    journal.Journal
	logger     logging.Logger
	dryRun     bool
	now        func() time.Time
}

func NewCleaner(config Config, services []string, controller svcctl.Controller, jrn journal.Journal, logger logging.Logger, dryRun bool) *Cleaner {
	return &Cleaner{
		config:     config,
		services:   services,
		controller: controller,
		journal:    jrn,
		logger:     logger,
		dryRun:     dryRun,
		now:        time.Now,
	}
}

// OptimizePerformance runs the temp purge followed by service supervision,
// returning the per-service outcomes.
func (c *Cleaner) OptimizePerformance() []ServiceCheckResult {
	c.purgeTempFiles()
	return c.superviseServices()
}

// purgeTempFiles walks the temp directory and deletes every file whose last
// access is older than the cutoff. Deletion and traversal errors are
// suppressed; the purge journals one summary line no matter what.
func (c *Cleaner) purgeTempFiles() {
	tempDir := c.config.TempDir
	if tempDir == "" {
		tempDir = os.TempDir()
	}
	cutoff := c.now().Add(-c.config.TempMaxAge)

	attempted := 0
	err := filepath.WalkDir(tempDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			c.logger.Debugf("Temp purge: skipping %s: %v", path, err)
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			c.logger.Debugf("Temp purge: cannot stat %s: %v", path, err)
			return nil
		}
		if !fileAccessTime(info).Before(cutoff) {
			return nil
		}
		attempted++
		if c.dryRun {
			c.logger.Debugf("Temp purge (dry run): would remove %s", path)
			return nil
		}
		if err := os.Remove(path); err != nil {
			// Best effort: locked or permission-denied files stay behind.
			c.logger.Debugf("Temp purge: failed to remove %s: %v", path, err)
		}
		return nil
	})
	if err != nil {
		c.logger.Debugf("Temp purge: walk of %s aborted: %v", tempDir, err)
	}

	if c.dryRun {
		c.journal.Log(fmt.Sprintf("Temp file cleanup (dry run): %d stale files older than %s would be removed.", attempted, c.config.TempMaxAge))
		return
	}
	c.journal.Log(fmt.Sprintf("Temp file cleanup completed: %d stale files older than %s attempted.", attempted, c.config.TempMaxAge))
}

// superviseServices checks each critical service in configured order and
// tries to start any that are stopped. A start failure moves on to the next
// service.
func (c *Cleaner) superviseServices() []ServiceCheckResult {
	results := make([]ServiceCheckResult, 0, len(c.services))

	for _, name := range c.services {
		result := ServiceCheckResult{ServiceName: name}

		state, err := c.controller.Status(name)
		if err != nil {
			c.logger.Warnf("Failed to query service %s: %v", name, err)
		}

		if state == svcctl.StateRunning {
			result.WasRunning = true
			c.journal.Log(fmt.Sprintf("Service %s is running.", name))
			results = append(results, result)
			continue
		}

		c.journal.Log(fmt.Sprintf("Service %s is not running.", name))

		if c.dryRun {
			c.logger.Infof("Dry run: not starting service %s", name)
			results = append(results, result)
			continue
		}

		result.RestartAttempted = true
		c.journal.Log(fmt.Sprintf("Attempting to start service %s...", name))

		if err := c.controller.Start(name); err != nil {
			c.logger.Errorf("Failed to start service %s: %v", name, err)
			c.journal.Log(fmt.Sprintf("Failed to start service %s.", name))
		} else {
			result.RestartSucceeded = true
			c.journal.Log(fmt.Sprintf("Service %s started successfully.", name))
		}

		results = append(results, result)
	}

	return results
}
