package updates

import (
	"context"
	"fmt"

	"github.com/core-tools/hsu-maintenance-go/pkg/journal"
	"github.com/core-tools/hsu-maintenance-go/pkg/logging"
)

// Platform is the OS update facility injected into the updater.
// Platform-specific constructors are implemented in platform_*.go files.
type Platform interface {
	IsElevated() (bool, error)
	InstallUpdates(ctx context.Context) error
}

// Updater installs OS updates when the process is elevated. This is the
// only step in the maintenance flow with a precondition short-circuit.
type Updater struct {
	platform Platform
	journal  journal.Journal
	logger   logging.Logger
}

func NewUpdater(platform Platform, jrn journal.Journal, logger logging.Logger) *Updater {
	return &Updater{
		platform: platform,
		journal:  jrn,
		logger:   logger,
	}
}

// ApplyUpdates checks elevation and, if held, installs all available
// updates with reboot prompts suppressed. Installation failures are
// journaled and contained; the run still completes.
func (u *Updater) ApplyUpdates(ctx context.Context) {
	elevated, err := u.platform.IsElevated()
	if err != nil {
		u.logger.Warnf("Elevation check failed: %v", err)
		elevated = false
	}
	if !elevated {
		u.journal.Log("Skipping update installation: administrator privileges required.")
		return
	}

	u.journal.Log("Installing all available OS updates (reboot suppressed)...")

	if err := u.platform.InstallUpdates(ctx); err != nil {
		u.logger.Errorf("Update installation failed: %v", err)
		u.journal.Log(fmt.Sprintf("Update installation failed: %v", err))
		return
	}

	u.journal.Log("Update installation completed.")
}
