package journal

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/core-tools/hsu-maintenance-go/pkg/errors"
)

// timeLayout is the timestamp prefix of every journal line.
const timeLayout = "2006-01-02 15:04:05"

// Journal is the append-only maintenance audit log. Every observable action
// of a maintenance run produces exactly one line; lines are appended in call
// order and never rewritten.
type Journal interface {
	Log(message string)
}

// FileJournal writes timestamped lines to standard output and appends them
// to a log file.
type FileJournal struct {
	mu  sync.Mutex
	out io.Writer
	f   *os.File
	now func() time.Time
}

// New opens (creating if absent) the journal file in append mode. The
// containing directory must already exist; the caller sequences directory
// creation before the first journal write.
func New(path string) (*FileJournal, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, errors.NewIOError("failed to open journal file", err).WithContext("path", path)
	}
	return &FileJournal{
		out: io.MultiWriter(os.Stdout, f),
		f:   f,
		now: time.Now,
	}, nil
}

// NewWithWriter creates a journal over an arbitrary writer. Used by tests
// and by callers that manage their own sink.
func NewWithWriter(w io.Writer) *FileJournal {
	return &FileJournal{
		out: w,
		now: time.Now,
	}
}

// Log appends one "<timestamp> - <message>" line. Write errors are ignored:
// the journal never fails by contract once it is open.
func (j *FileJournal) Log(message string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	fmt.Fprintf(j.out, "%s - %s\n", j.now().Format(timeLayout), message)
}

// Close closes the underlying file, if any.
func (j *FileJournal) Close() error {
	if j.f == nil {
		return nil
	}
	return j.f.Close()
}
