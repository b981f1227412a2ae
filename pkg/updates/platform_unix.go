//go:build !windows

package updates

import (
	"context"
	"os"
	"os/exec"
	"strings"

	"github.com/core-tools/hsu-maintenance-go/pkg/errors"
	"github.com/core-tools/hsu-maintenance-go/pkg/logging"
)

type unixPlatform struct {
	logger logging.Logger
}

func NewPlatform(logger logging.Logger) Platform {
	return &unixPlatform{logger: logger}
}

func (p *unixPlatform) IsElevated() (bool, error) {
	return os.Geteuid() == 0, nil
}

func (p *unixPlatform) InstallUpdates(ctx context.Context) error {
	args, err := updateCommand()
	if err != nil {
		return err
	}

	cmd := exec.CommandContext(ctx, args[0], args[1:]...)
	cmd.Env = append(os.Environ(), "DEBIAN_FRONTEND=noninteractive")
	out, err := cmd.CombinedOutput()
	if err != nil {
		return errors.NewInternalError("update installation failed", err).
			WithContext("command", strings.Join(args, " ")).
			WithContext("output", strings.TrimSpace(string(out)))
	}
	p.logger.Debugf("Update installation output: %s", strings.TrimSpace(string(out)))
	return nil
}

func updateCommand() ([]string, error) {
	if _, err := exec.LookPath("apt-get"); err == nil {
		return []string{"apt-get", "-y", "upgrade"}, nil
	}
	if _, err := exec.LookPath("dnf"); err == nil {
		return []string{"dnf", "-y", "upgrade"}, nil
	}
	return nil, errors.NewNotFoundError("no supported package manager found", nil)
}
