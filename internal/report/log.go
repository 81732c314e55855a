package report

import (
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/deixis/cronhide/internal/flock"
)

// Logger appends records to a timing log shared by concurrent runs.
// Failures are logged as warnings and never abort the caller.
type Logger struct {
	Path string
	Log  *zap.Logger
}

// NewLogger creates a Logger for path. A nil log discards warnings.
func NewLogger(path string, log *zap.Logger) *Logger {
	if log == nil {
		log = zap.NewNop()
	}
	return &Logger{Path: path, Log: log}
}

// Append writes rec as one line under an exclusive lock. The returned
// error has already been logged; callers may ignore it.
func (l *Logger) Append(rec Record) error {
	f, err := os.OpenFile(l.Path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return l.warn("opening timing log", err)
	}
	defer f.Close()

	if err := flock.Exclusive(f); err != nil {
		return l.warn("locking timing log", err)
	}
	defer flock.Unlock(f)

	if _, err := f.WriteString(rec.Format()); err != nil {
		return l.warn("writing timing log", err)
	}
	return nil
}

func (l *Logger) warn(op string, err error) error {
	l.Log.Warn(op, zap.String("path", l.Path), zap.Error(err))
	return fmt.Errorf("%s: %w", op, err)
}
