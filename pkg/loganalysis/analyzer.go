package loganalysis

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/core-tools/hsu-maintenance-go/pkg/errors"
	"github.com/core-tools/hsu-maintenance-go/pkg/journal"
	"github.com/core-tools/hsu-maintenance-go/pkg/logging"
)

// Patterns searched in the input logs. Matching is case-sensitive.
const (
	failedLoginPattern = "Failed password"
	errorPattern       = "error"
)

// Config locates the two input logs and sets the counts above which a
// warning is journaled.
type Config struct {
	AuthLog          string `yaml:"auth_log,omitempty"`
	SystemLog        string `yaml:"system_log,omitempty"`
	FailedLoginLimit int    `yaml:"failed_login_limit,omitempty"`
	ErrorLimit       int    `yaml:"error_limit,omitempty"`
}

// Analyzer scans the auth and system logs for failure patterns. Both files
// are guaranteed to exist by run setup; a missing file here is a setup bug
// and fails the run.
type Analyzer struct {
	config  Config
	journal journal.Journal
	logger  logging.Logger
}

func NewAnalyzer(config Config, jrn journal.Journal, logger logging.Logger) *Analyzer {
	return &Analyzer{
		config:  config,
		journal: jrn,
		logger:  logger,
	}
}

// AnalyzeLogs counts pattern-matching lines in both input logs, journals the
// two counts, and journals a warning per count that exceeds its limit.
func (a *Analyzer) AnalyzeLogs() error {
	failedLogins, err := countMatchingLines(a.config.AuthLog, failedLoginPattern)
	if err != nil {
		return errors.NewIOError("failed to scan auth log", err).WithContext("path", a.config.AuthLog)
	}

	systemErrors, err := countMatchingLines(a.config.SystemLog, errorPattern)
	if err != nil {
		return errors.NewIOError("failed to scan system log", err).WithContext("path", a.config.SystemLog)
	}

	a.journal.Log(fmt.Sprintf("Log analysis: %d failed login attempts, %d system errors.", failedLogins, systemErrors))

	if failedLogins > a.config.FailedLoginLimit {
		a.journal.Log(fmt.Sprintf("🚨 Alert: multiple failed login attempts detected (%d).", failedLogins))
	}
	if systemErrors > a.config.ErrorLimit {
		a.journal.Log(fmt.Sprintf("High number of system errors detected (%d).", systemErrors))
	}

	a.logger.Debugf("Log analysis complete: auth=%s failed_logins=%d, system=%s errors=%d",
		a.config.AuthLog, failedLogins, a.config.SystemLog, systemErrors)

	return nil
}

func countMatchingLines(path string, pattern string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	count := 0
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		if strings.Contains(scanner.Text(), pattern) {
			count++
		}
	}
	if err := scanner.Err(); err != nil {
		return 0, err
	}
	return count, nil
}
