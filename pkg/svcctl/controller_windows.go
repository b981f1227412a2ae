//go:build windows

package svcctl

import (
	"github.com/core-tools/hsu-maintenance-go/pkg/errors"
	"github.com/core-tools/hsu-maintenance-go/pkg/logging"

	"golang.org/x/sys/windows/svc"
	"golang.org/x/sys/windows/svc/mgr"
)

type windowsController struct {
	logger logging.Logger
}

// NewController returns the SCM-backed service controller.
func NewController(logger logging.Logger) Controller {
	return &windowsController{logger: logger}
}

func (c *windowsController) Status(name string) (State, error) {
	m, err := mgr.Connect()
	if err != nil {
		return StateUnknown, errors.NewServiceError("failed to connect to service control manager", err)
	}
	defer m.Disconnect()

	s, err := m.OpenService(name)
	if err != nil {
		return StateUnknown, errors.NewNotFoundError("service not installed", err).WithContext("service", name)
	}
	defer s.Close()

	status, err := s.Query()
	if err != nil {
		return StateUnknown, errors.NewServiceError("failed to query service status", err).WithContext("service", name)
	}

	c.logger.Debugf("Service %s state: %d", name, status.State)

	if status.State == svc.Running || status.State == svc.StartPending {
		return StateRunning, nil
	}
	return StateStopped, nil
}

func (c *windowsController) Start(name string) error {
	m, err := mgr.Connect()
	if err != nil {
		return errors.NewServiceError("failed to connect to service control manager", err)
	}
	defer m.Disconnect()

	s, err := m.OpenService(name)
	if err != nil {
		return errors.NewNotFoundError("service not installed", err).WithContext("service", name)
	}
	defer s.Close()

	if err := s.Start(); err != nil {
		return errors.NewServiceError("failed to start service", err).WithContext("service", name)
	}
	return nil
}
