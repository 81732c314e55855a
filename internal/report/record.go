// Package report records one summary line per completed run in an
// append-only timing log.
package report

import (
	"fmt"
	"strings"
	"time"
)

// TimeLayout is the start timestamp layout used in the timing log.
const TimeLayout = "2006-01-02T15:04:05Z"

// Record summarises one completed run.
type Record struct {
	Start    time.Time
	Elapsed  time.Duration
	ExitCode int // 0 when the child was killed by a signal
	Signal   int // 0 when the child exited
	Argv     []string
}

// Format renders the record as a single timing-log line:
//
//	<start> <HH:MM:SS> <exitcode> <signum> <argv...>
//
// The start time is UTC with second precision. Hours are not wrapped at
// 24.
func (r Record) Format() string {
	return fmt.Sprintf("%s %s %d %d %s\n",
		r.Start.UTC().Format(TimeLayout),
		FormatElapsed(r.Elapsed),
		r.ExitCode,
		r.Signal,
		strings.Join(r.Argv, " "))
}

// FormatElapsed renders d as HH:MM:SS, truncating sub-second precision.
// Negative durations render as 00:00:00.
func FormatElapsed(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	secs := int64(d / time.Second)
	return fmt.Sprintf("%02d:%02d:%02d", secs/3600, (secs/60)%60, secs%60)
}
