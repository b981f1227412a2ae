package updates

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Simple test logger that implements logging.Logger interface
type TestLogger struct{}

func (l *TestLogger) LogLevelf(level int, format string, args ...interface{}) {}
func (l *TestLogger) Debugf(format string, args ...interface{})               {}
func (l *TestLogger) Infof(format string, args ...interface{})                {}
func (l *TestLogger) Warnf(format string, args ...interface{})                {}
func (l *TestLogger) Errorf(format string, args ...interface{})               {}

type captureJournal struct {
	lines []string
}

func (c *captureJournal) Log(message string) {
	c.lines = append(c.lines, message)
}

type fakePlatform struct {
	elevated     bool
	elevationErr error
	installErr   error
	installCalls int
}

func (f *fakePlatform) IsElevated() (bool, error) {
	return f.elevated, f.elevationErr
}

func (f *fakePlatform) InstallUpdates(ctx context.Context) error {
	f.installCalls++
	return f.installErr
}

func TestApplyUpdates_NotElevatedSkipsWithSingleWarning(t *testing.T) {
	platform := &fakePlatform{elevated: false}
	jrn := &captureJournal{}
	updater := NewUpdater(platform, jrn, &TestLogger{})

	updater.ApplyUpdates(context.Background())

	assert.Equal(t, 0, platform.installCalls)
	require.Len(t, jrn.lines, 1)
	assert.Contains(t, jrn.lines[0], "administrator privileges required")
}

func TestApplyUpdates_ElevationCheckFailureTreatedAsNotElevated(t *testing.T) {
	platform := &fakePlatform{elevationErr: errors.New("token query failed")}
	jrn := &captureJournal{}
	updater := NewUpdater(platform, jrn, &TestLogger{})

	updater.ApplyUpdates(context.Background())

	assert.Equal(t, 0, platform.installCalls)
	require.Len(t, jrn.lines, 1)
}

func TestApplyUpdates_ElevatedInstallsUpdates(t *testing.T) {
	platform := &fakePlatform{elevated: true}
	jrn := &captureJournal{}
	updater := NewUpdater(platform, jrn, &TestLogger{})

	updater.ApplyUpdates(context.Background())

	assert.Equal(t, 1, platform.installCalls)
	require.Len(t, jrn.lines, 2)
	assert.Contains(t, jrn.lines[0], "Installing all available OS updates")
	assert.Equal(t, "Update installation completed.", jrn.lines[1])
}

func TestApplyUpdates_InstallFailureIsContained(t *testing.T) {
	platform := &fakePlatform{elevated: true, installErr: errors.New("WSUS unreachable")}
	jrn := &captureJournal{}
	updater := NewUpdater(platform, jrn, &TestLogger{})

	updater.ApplyUpdates(context.Background())

	require.Len(t, jrn.lines, 2)
	assert.True(t, strings.HasPrefix(jrn.lines[1], "Update installation failed:"))
	assert.Contains(t, jrn.lines[1], "WSUS unreachable")
}
