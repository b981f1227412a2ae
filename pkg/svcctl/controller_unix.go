//go:build !windows

package svcctl

import (
	"os/exec"
	"strings"

	"github.com/core-tools/hsu-maintenance-go/pkg/errors"
	"github.com/core-tools/hsu-maintenance-go/pkg/logging"
)

// Unix hosts are managed through systemctl. Exit status of "is-active"
// distinguishes running from anything else.
type unixController struct {
	logger logging.Logger
}

func NewController(logger logging.Logger) Controller {
	return &unixController{logger: logger}
}

func (c *unixController) Status(name string) (State, error) {
	out, err := exec.Command("systemctl", "is-active", name).CombinedOutput()
	state := strings.TrimSpace(string(out))
	c.logger.Debugf("systemctl is-active %s: %q", name, state)

	if err == nil && state == "active" {
		return StateRunning, nil
	}
	if state == "" && err != nil {
		return StateUnknown, errors.NewServiceError("failed to query service status", err).WithContext("service", name)
	}
	return StateStopped, nil
}

func (c *unixController) Start(name string) error {
	out, err := exec.Command("systemctl", "start", name).CombinedOutput()
	if err != nil {
		return errors.NewServiceError("failed to start service", err).
			WithContext("service", name).
			WithContext("output", strings.TrimSpace(string(out)))
	}
	return nil
}
