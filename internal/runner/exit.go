package runner

import (
	"bufio"
	"io"
	"os"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sys/unix"
)

// FallbackExitCode is used when re-raising the child's signal did not
// terminate this process.
const FallbackExitCode = 255

// raiseGrace bounds how long Raise waits for its own signal to land.
const raiseGrace = 100 * time.Millisecond

// Exiter terminates the current process.
type Exiter interface {
	// Exit terminates with the given status code.
	Exit(code int)
	// Raise terminates by delivering sig to the current process.
	Raise(sig syscall.Signal)
}

// ProcessExiter terminates the real process.
type ProcessExiter struct{}

// Exit calls os.Exit.
func (ProcessExiter) Exit(code int) { os.Exit(code) }

// Raise restores the default disposition of sig, sends it to this
// process, and exits with FallbackExitCode if the process survives.
func (ProcessExiter) Raise(sig syscall.Signal) {
	resetDefault(sig)
	_ = unix.Kill(os.Getpid(), sig)
	time.Sleep(raiseGrace)
	os.Exit(FallbackExitCode)
}

// Replay writes lines to w in order.
func Replay(w io.Writer, lines [][]byte) error {
	bw := bufio.NewWriter(w)
	for _, line := range lines {
		if _, err := bw.Write(line); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// Finish ends the process the way the child ended. A successful child
// exits 0 with its output discarded. A failed child has its buffered
// output replayed to stdout, then its exit code or signal reproduced.
func (r *Runner) Finish(res *Result, stdout io.Writer, ex Exiter) {
	if !res.Outcome.Failed() {
		ex.Exit(0)
		return
	}
	if err := Replay(stdout, res.Lines); err != nil {
		r.log().Warn("replaying output", zap.Error(err))
	}
	_ = r.log().Sync()
	if res.Outcome.Signaled() {
		ex.Raise(res.Outcome.Signal)
		return
	}
	ex.Exit(res.Outcome.Code)
}
