//go:build windows

package updates

import (
	"context"
	"os/exec"
	"strings"

	"github.com/core-tools/hsu-maintenance-go/pkg/errors"
	"github.com/core-tools/hsu-maintenance-go/pkg/logging"

	"golang.org/x/sys/windows"
)

// installCommand drives Windows Update through PSWindowsUpdate: accept
// every offered update, never prompt for a reboot.
const installCommand = "Import-Module PSWindowsUpdate; Install-WindowsUpdate -AcceptAll -IgnoreReboot"

type windowsPlatform struct {
	logger logging.Logger
}

func NewPlatform(logger logging.Logger) Platform {
	return &windowsPlatform{logger: logger}
}

func (p *windowsPlatform) IsElevated() (bool, error) {
	return windows.GetCurrentProcessToken().IsElevated(), nil
}

func (p *windowsPlatform) InstallUpdates(ctx context.Context) error {
	cmd := exec.CommandContext(ctx, "powershell", "-NoProfile", "-NonInteractive", "-Command", installCommand)
	out, err := cmd.CombinedOutput()
	if err != nil {
		return errors.NewInternalError("update installation failed", err).
			WithContext("output", strings.TrimSpace(string(out)))
	}
	p.logger.Debugf("Update installation output: %s", strings.TrimSpace(string(out)))
	return nil
}
