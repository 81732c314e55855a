package runner

import (
	"fmt"
	"os"
	"syscall"
	"time"
)

// Outcome classifies how the child terminated: either it exited with
// Code, or it was killed by Signal (and Code is 0).
type Outcome struct {
	Code   int
	Signal syscall.Signal
}

// Exited returns the outcome of a child that exited with code.
func Exited(code int) Outcome { return Outcome{Code: code} }

// Signaled returns the outcome of a child killed by sig.
func Signaled(sig syscall.Signal) Outcome { return Outcome{Signal: sig} }

// Signaled reports whether the child was killed by a signal.
func (o Outcome) Signaled() bool { return o.Signal != 0 }

// Failed reports whether the child's output should be replayed.
func (o Outcome) Failed() bool { return o.Signaled() || o.Code != 0 }

func (o Outcome) String() string {
	if o.Signaled() {
		return fmt.Sprintf("signaled(%d)", int(o.Signal))
	}
	return fmt.Sprintf("exited(%d)", o.Code)
}

// outcomeOf classifies a terminated process.
func outcomeOf(state *os.ProcessState) Outcome {
	if ws, ok := state.Sys().(syscall.WaitStatus); ok && ws.Signaled() {
		return Signaled(ws.Signal())
	}
	code := state.ExitCode()
	if code < 0 || code > 255 {
		code = 255
	}
	return Exited(code)
}

// Result holds everything known about a completed run.
type Result struct {
	RunID          string        // unique identifier for this run
	Outcome        Outcome       // how the child terminated
	Lines          [][]byte      // most recent captured lines, oldest first
	Start          time.Time     // when the child was started
	Elapsed        time.Duration // wall-clock time until the child was reaped
	LinesRead      int           // lines read from the pipe, including evicted ones
	Truncated      int           // lines cut at the maximum line length
	MirrorFailures int           // chunks that could not be written to the mirror
}

// SetupError reports a failure before the child produced any output.
type SetupError struct {
	Op  string // operation that failed, e.g. "opening mirror"
	Err error
}

func (e *SetupError) Error() string { return e.Op + ": " + e.Err.Error() }

func (e *SetupError) Unwrap() error { return e.Err }
