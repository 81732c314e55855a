// Package runner supervises a child command: it captures the child's
// output through a pipe into a bounded line buffer, optionally mirrors
// and times the run, and reproduces the child's failure on exit.
//
// Only linux is supported: reproducing a child's signal death relies on
// resetting the kernel signal disposition with rt_sigaction.
package runner

import (
	"errors"
	"io"
	"os"
	"os/exec"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/deixis/cronhide/internal/config"
	"github.com/deixis/cronhide/internal/mirror"
	"github.com/deixis/cronhide/internal/report"
	"github.com/deixis/cronhide/internal/ring"
)

// Runner executes one command per Run call.
type Runner struct {
	Log    *zap.Logger
	Stdin  io.Reader // defaults to os.Stdin
	Stderr io.Writer // uncaptured child stderr; defaults to os.Stderr
}

// Run executes cfg.Argv and blocks until it terminates. Output is read
// until the pipe closes, and only then is the child reaped, so the child
// never stalls on a full pipe.
//
// A non-nil error is always a *SetupError and means no child output was
// captured. A failing child is not an error; inspect Result.Outcome.
func (r *Runner) Run(cfg *config.RunConfig) (*Result, error) {
	if len(cfg.Argv) == 0 {
		return nil, &SetupError{Op: "parsing command", Err: config.ErrNoCommand}
	}

	runID := uuid.New().String()
	log := r.log().With(zap.String("run_id", runID))

	m, err := openMirror(cfg)
	if err != nil {
		return nil, err
	}

	pr, pw, err := os.Pipe()
	if err != nil {
		closeMirror(m, log)
		return nil, &SetupError{Op: "creating pipe", Err: err}
	}

	cmd := exec.Command(cfg.Argv[0], cfg.Argv[1:]...)
	cmd.Stdin = r.stdin()
	cmd.Stdout = pw
	if cfg.CaptureStderr {
		cmd.Stderr = pw
	} else {
		cmd.Stderr = r.stderr()
	}

	start := time.Now()
	if err := cmd.Start(); err != nil {
		pr.Close()
		pw.Close()
		closeMirror(m, log)
		return nil, &SetupError{Op: "starting " + cfg.Argv[0], Err: err}
	}
	// The child holds its own copy; ours must go or the pipe never
	// reaches EOF.
	pw.Close()
	log.Debug("child started", zap.Int("pid", cmd.Process.Pid), zap.Strings("argv", cfg.Argv))

	buf := ring.New(cfg.Lines)
	res := &Result{RunID: runID, Start: start}

	var tee io.Writer
	if m != nil {
		tee = &mirrorWriter{m: m, log: log}
	}
	lines := newLineReader(pr, cfg.MaxLineLength, tee)
	for {
		line, err := lines.Next()
		if err != nil {
			if !errors.Is(err, io.EOF) {
				log.Warn("reading child output", zap.Error(err))
			}
			break
		}
		buf.Push(line)
		res.LinesRead++
	}
	pr.Close()
	if lines.teeFailed > 0 {
		log.Warn("mirror is incomplete", zap.String("path", m.Name()), zap.Int("failed_writes", lines.teeFailed))
	}

	waitErr := cmd.Wait()
	res.Elapsed = time.Since(start)
	if cmd.ProcessState == nil {
		closeMirror(m, log)
		return nil, &SetupError{Op: "waiting for " + cfg.Argv[0], Err: waitErr}
	}
	res.Outcome = outcomeOf(cmd.ProcessState)
	res.Lines = buf.Snapshot()
	res.Truncated = lines.truncated
	res.MirrorFailures = lines.teeFailed

	closeMirror(m, log)
	if cfg.TimingLog != "" {
		rec := report.Record{
			Start:    res.Start,
			Elapsed:  res.Elapsed,
			ExitCode: res.Outcome.Code,
			Signal:   int(res.Outcome.Signal),
			Argv:     cfg.Argv,
		}
		_ = report.NewLogger(cfg.TimingLog, log).Append(rec)
	}

	log.Debug("child finished",
		zap.Stringer("outcome", res.Outcome),
		zap.Duration("elapsed", res.Elapsed),
		zap.Int("lines", res.LinesRead),
		zap.Uint64("evicted", buf.Evicted()),
		zap.Int("truncated", res.Truncated))
	return res, nil
}

func (r *Runner) log() *zap.Logger {
	if r.Log == nil {
		return zap.NewNop()
	}
	return r.Log
}

func (r *Runner) stdin() io.Reader {
	if r.Stdin == nil {
		return os.Stdin
	}
	return r.Stdin
}

func (r *Runner) stderr() io.Writer {
	if r.Stderr == nil {
		return os.Stderr
	}
	return r.Stderr
}

func openMirror(cfg *config.RunConfig) (*mirror.File, error) {
	if cfg.MirrorPath == "" {
		return nil, nil
	}
	if !cfg.LockMirror {
		m, err := mirror.Open(cfg.MirrorPath)
		if err != nil {
			return nil, &SetupError{Op: "opening mirror", Err: err}
		}
		return m, nil
	}
	m, err := mirror.OpenLocked(cfg.MirrorPath)
	if errors.Is(err, mirror.ErrLockConflict) {
		return nil, &SetupError{Op: "locking mirror", Err: err}
	}
	if err != nil {
		return nil, &SetupError{Op: "opening mirror", Err: err}
	}
	return m, nil
}

func closeMirror(m *mirror.File, log *zap.Logger) {
	if m == nil {
		return
	}
	if err := m.Close(); err != nil {
		log.Warn("closing mirror", zap.String("path", m.Name()), zap.Error(err))
	}
}

// mirrorWriter forwards to the mirror file, warning about the first
// failure only. Capture continues regardless.
type mirrorWriter struct {
	m      *mirror.File
	log    *zap.Logger
	warned bool
}

func (w *mirrorWriter) Write(p []byte) (int, error) {
	n, err := w.m.Write(p)
	if err != nil && !w.warned {
		w.log.Warn("writing mirror", zap.String("path", w.m.Name()), zap.Error(err))
		w.warned = true
	}
	return n, err
}
