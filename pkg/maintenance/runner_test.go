package maintenance

import (
	"context"
	"errors"
	"testing"

	"github.com/core-tools/hsu-maintenance-go/pkg/cleanup"
	"github.com/core-tools/hsu-maintenance-go/pkg/sysmon"

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

type fakeSteps struct {
	journal *captureJournal

	monitorErr  error
	analyzerErr error
}

func (f *fakeSteps) CheckResources(thresholds sysmon.Thresholds) (*sysmon.Snapshot, error) {
	if f.monitorErr != nil {
		return nil, f.monitorErr
	}
	f.journal.Log("step: resources")
	return &sysmon.Snapshot{}, nil
}

func (f *fakeSteps) AnalyzeLogs() error {
	if f.analyzerErr != nil {
		return f.analyzerErr
	}
	f.journal.Log("step: analysis")
	return nil
}

func (f *fakeSteps) OptimizePerformance() []cleanup.ServiceCheckResult {
	f.journal.Log("step: cleanup")
	return []cleanup.ServiceCheckResult{{ServiceName: "Spooler", WasRunning: true}}
}

func (f *fakeSteps) ApplyUpdates(ctx context.Context) {
	f.journal.Log("step: updates")
}

func newTestRunner(steps *fakeSteps) *Runner {
	return NewRunner(DefaultConfig(), steps.journal, &TestLogger{}, steps, steps, steps, steps)
}

func TestRunner_StepsExecuteInOrder(t *testing.T) {
	jrn := &captureJournal{}
	steps := &fakeSteps{journal: jrn}

	err := newTestRunner(steps).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{
		"Starting system maintenance...",
		"step: resources",
		"step: analysis",
		"step: cleanup",
		"step: updates",
		"System maintenance completed.",
	}, jrn.lines)
}

func TestRunner_MonitorFailureIsFatal(t *testing.T) {
	jrn := &captureJournal{}
	steps := &fakeSteps{journal: jrn, monitorErr: errors.New("metrics unavailable")}

	err := newTestRunner(steps).Run(context.Background())
	require.Error(t, err)

	// Only the start banner: no later step ran, no completion banner.
	assert.Equal(t, []string{"Starting system maintenance..."}, jrn.lines)
}

func TestRunner_AnalyzerFailureIsFatal(t *testing.T) {
	jrn := &captureJournal{}
	steps := &fakeSteps{journal: jrn, analyzerErr: errors.New("auth log unreadable")}

	err := newTestRunner(steps).Run(context.Background())
	require.Error(t, err)

	assert.Equal(t, []string{
		"Starting system maintenance...",
		"step: resources",
	}, jrn.lines)
}

func TestRunner_RepeatedRunsProduceIdenticalLineKinds(t *testing.T) {
	first := &fakeSteps{journal: &captureJournal{}}
	require.NoError(t, newTestRunner(first).Run(context.Background()))

	second := &fakeSteps{journal: &captureJournal{}}
	require.NoError(t, newTestRunner(second).Run(context.Background()))

	assert.Equal(t, first.journal.lines, second.journal.lines)
}
