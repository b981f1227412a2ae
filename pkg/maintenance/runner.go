package maintenance

import (
	"context"
	"fmt"

	"github.com/core-tools/hsu-maintenance-go/pkg/cleanup"
	"github.com/core-tools/hsu-maintenance-go/pkg/errors"
	"github.com/core-tools/hsu-maintenance-go/pkg/journal"
	"github.com/core-tools/hsu-maintenance-go/pkg/loganalysis"
	"github.com/core-tools/hsu-maintenance-go/pkg/logging"
	"github.com/core-tools/hsu-maintenance-go/pkg/svcctl"
	"github.com/core-tools/hsu-maintenance-go/pkg/sysmon"
	"github.com/core-tools/hsu-maintenance-go/pkg/updates"
)

// Step collaborators, narrowed to what the runner calls. Concrete
// implementations live in their own packages; tests substitute fakes.
type resourceChecker interface {
	CheckResources(thresholds sysmon.Thresholds) (*sysmon.Snapshot, error)
}

type logAnalyzer interface {
	AnalyzeLogs() error
}

type performanceOptimizer interface {
	OptimizePerformance() []cleanup.ServiceCheckResult
}

type updateApplier interface {
	ApplyUpdates(ctx context.Context)
}

// Runner executes the maintenance steps strictly in order: resources, log
// analysis, cleanup, updates. The only conditional skip in the whole flow
// is the updater's internal elevation check.
type Runner struct {
	config    *MaintenanceConfig
	journal   journal.Journal
	logger    logging.Logger
	monitor   resourceChecker
	analyzer  logAnalyzer
	optimizer performanceOptimizer
	updater   updateApplier
}

func NewRunner(
	config *MaintenanceConfig,
	jrn journal.Journal,
	logger logging.Logger,
	monitor resourceChecker,
	analyzer logAnalyzer,
	optimizer performanceOptimizer,
	updater updateApplier,
) *Runner {
	return &Runner{
		config:    config,
		journal:   jrn,
		logger:    logger,
		monitor:   monitor,
		analyzer:  analyzer,
		optimizer: optimizer,
		updater:   updater,
	}
}

// Run performs one maintenance pass. Resource and log analysis failures are
// setup bugs and propagate; cleanup and update failures are contained inside
// their steps.
func (r *Runner) Run(ctx context.Context) error {
	r.journal.Log("Starting system maintenance...")

	if _, err := r.monitor.CheckResources(r.config.Thresholds); err != nil {
		return errors.NewInternalError("resource check failed", err)
	}

	if err := r.analyzer.AnalyzeLogs(); err != nil {
		return errors.NewIOError("log analysis failed", err)
	}

	results := r.optimizer.OptimizePerformance()
	for _, result := range results {
		r.logger.Debugf("Service check: name=%s was_running=%t restart_attempted=%t restart_succeeded=%t",
			result.ServiceName, result.WasRunning, result.RestartAttempted, result.RestartSucceeded)
	}

	r.updater.ApplyUpdates(ctx)

	r.journal.Log("System maintenance completed.")

	return nil
}

// RunOptions carries the command-line level knobs of a maintenance run.
type RunOptions struct {
	ConfigFile string
	DryRun     bool
}

// Run is the top-level entry point: load and validate configuration, set up
// the journal and placeholder input logs, wire the collaborators, and run
// one maintenance pass.
func Run(options RunOptions, logger logging.Logger) error {
	logger.Infof("Maintenance runner starting...")

	var config *MaintenanceConfig
	if options.ConfigFile != "" {
		logger.Infof("Using CONFIGURATION FILE: %s", options.ConfigFile)
		loaded, err := LoadConfigFromFile(options.ConfigFile)
		if err != nil {
			return err
		}
		config = loaded
	} else {
		logger.Infof("No configuration file given, using defaults")
		config = DefaultConfig()
	}

	if err := ValidateConfig(config); err != nil {
		return errors.NewValidationError("configuration validation failed", err).WithContext("config_file", options.ConfigFile)
	}

	summary := GetConfigSummary(config)
	logger.Infof("Configuration loaded: journal=%s, services=%d", summary.JournalPath, summary.TotalServices)

	if options.DryRun {
		logger.Infof("DRY RUN: temp files will not be deleted and services will not be started")
	}

	// The journal file lives inside the log directory, so the directory has
	// to exist before the first journal write.
	dirCreated, err := ensureLogDir(config)
	if err != nil {
		return err
	}

	jrn, err := journal.New(config.JournalPath())
	if err != nil {
		return err
	}
	defer jrn.Close()

	if dirCreated {
		jrn.Log(fmt.Sprintf("Created log directory: %s", config.Maintenance.LogDir))
	}
	if err := ensurePlaceholderLogs(config, jrn); err != nil {
		return err
	}

	monitor := sysmon.NewMonitor(sysmon.NewProvider(), jrn, logger)
	analyzer := loganalysis.NewAnalyzer(config.Analysis, jrn, logger)
	controller := svcctl.NewController(logger)
	cleaner := cleanup.NewCleaner(config.Cleanup, config.Services, controller, jrn, logger, options.DryRun)
	updater := updates.NewUpdater(updates.NewPlatform(logger), jrn, logger)

	runner := NewRunner(config, jrn, logger, monitor, analyzer, cleaner, updater)

	if err := runner.Run(context.Background()); err != nil {
		return err
	}

	logger.Infof("Maintenance runner finished")
	return nil
}
