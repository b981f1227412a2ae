package maintenance

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/core-tools/hsu-maintenance-go/pkg/errors"
	"github.com/core-tools/hsu-maintenance-go/pkg/journal"
)

// ensureLogDir creates the journal directory if absent. This runs before
// the journal is opened, so the creation is reported to the caller and
// journaled afterwards.
func ensureLogDir(config *MaintenanceConfig) (created bool, err error) {
	dir := config.Maintenance.LogDir
	if _, statErr := os.Stat(dir); statErr == nil {
		return false, nil
	} else if !os.IsNotExist(statErr) {
		return false, errors.NewIOError("failed to stat log directory", statErr).WithContext("dir", dir)
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return false, errors.NewIOError("failed to create log directory", err).WithContext("dir", dir)
	}
	return true, nil
}

// ensurePlaceholderLogs creates the two input log files as empty
// placeholders when missing, journaling each creation. The analyzer treats
// a missing input file as a setup bug, so this must run before it.
func ensurePlaceholderLogs(config *MaintenanceConfig, jrn journal.Journal) error {
	for _, path := range []string{config.Analysis.AuthLog, config.Analysis.SystemLog} {
		if _, err := os.Stat(path); err == nil {
			continue
		} else if !os.IsNotExist(err) {
			return errors.NewIOError("failed to stat input log", err).WithContext("path", path)
		}

		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return errors.NewIOError("failed to create input log directory", err).WithContext("path", path)
			}
		}
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_EXCL, 0644)
		if err != nil {
			return errors.NewIOError("failed to create placeholder log", err).WithContext("path", path)
		}
		if err := f.Close(); err != nil {
			return errors.NewIOError("failed to close placeholder log", err).WithContext("path", path)
		}

		jrn.Log(fmt.Sprintf("Created placeholder log file: %s", path))
	}
	return nil
}
