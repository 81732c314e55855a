// Command cronhide runs a command and prints its output only if it
// fails. It is meant for cron jobs: a successful run stays silent, a
// failing one mails its output and exits the way the job did.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/deixis/cronhide"
	"github.com/deixis/cronhide/internal/config"
	"github.com/deixis/cronhide/internal/logging"
	"github.com/deixis/cronhide/internal/mirror"
	"github.com/deixis/cronhide/internal/runner"
)

func main() {
	cfg, err := parseArgs(os.Args[1:], os.Stderr)
	switch {
	case errors.Is(err, pflag.ErrHelp):
		os.Exit(0)
	case errors.Is(err, errVersion):
		fmt.Println(cronhide.Version)
		os.Exit(0)
	case err != nil:
		fmt.Fprintf(os.Stderr, "cronhide: %v\n", err)
		var usageErr *usageError
		if errors.As(err, &usageErr) {
			usage(os.Stderr)
		}
		os.Exit(exitCode(err))
	}

	log := logging.New(cfg.LogLevel)
	r := &runner.Runner{Log: log}

	res, err := r.Run(cfg)
	if err != nil {
		logSetupError(log, err)
		_ = log.Sync()
		os.Exit(1)
	}
	r.Finish(res, os.Stdout, runner.ProcessExiter{})
}

var errVersion = errors.New("version requested")

// usageError is a problem with the command line.
type usageError struct{ err error }

func (e *usageError) Error() string { return e.err.Error() }
func (e *usageError) Unwrap() error { return e.err }
func (e *usageError) ExitCode() int { return 1 }

func exitCode(err error) int {
	if coder, ok := err.(interface{ ExitCode() int }); ok {
		return coder.ExitCode()
	}
	return 1
}

func usage(w io.Writer) {
	fmt.Fprintln(w, `Usage: cronhide [-e] [-o file [-l]] [-t file] [--] command [args...]

Runs command, hiding its output unless it exits non-zero or is killed
by a signal. On failure the last lines of output are written to stdout
and cronhide exits with the command's status, or dies by its signal.

Flags:
  -e, --stderr          capture stderr together with stdout
  -o, --output file     copy all output to file as it is produced
  -l, --lock            lock the -o file; fail if another run holds it
  -t, --timing file     append start, duration and status to file
  -n, --lines N         number of lines kept for replay (default 1024)
  -c, --config file     YAML defaults file (or $CRONHIDE_CONFIG)
  -v, --verbose         print debug diagnostics
      --version         print the version`)
}

// lockFlag sets RunConfig.LockMirror, refusing unless -o was seen
// earlier on the command line.
type lockFlag struct {
	mirror *string
	locked *bool
}

func (f *lockFlag) String() string {
	if f.locked == nil {
		return "false"
	}
	return strconv.FormatBool(*f.locked)
}

func (f *lockFlag) Set(s string) error {
	v, err := strconv.ParseBool(s)
	if err != nil {
		return err
	}
	if v && *f.mirror == "" {
		return config.ErrLockNoMirror
	}
	*f.locked = v
	return nil
}

func (f *lockFlag) Type() string { return "bool" }

func parseArgs(args []string, stderr io.Writer) (*config.RunConfig, error) {
	var (
		captureStderr bool
		mirrorPath    string
		lockMirror    bool
		timingLog     string
		lines         int
		configPath    string
		verbose       bool
		version       bool
	)

	flagSet := pflag.NewFlagSet("cronhide", pflag.ContinueOnError)
	flagSet.SetInterspersed(false)
	flagSet.SetOutput(io.Discard)
	flagSet.BoolVarP(&captureStderr, "stderr", "e", false, "capture stderr together with stdout")
	flagSet.StringVarP(&mirrorPath, "output", "o", "", "copy all output to file")
	lock := flagSet.VarPF(&lockFlag{mirror: &mirrorPath, locked: &lockMirror}, "lock", "l", "lock the -o file")
	lock.NoOptDefVal = "true"
	flagSet.StringVarP(&timingLog, "timing", "t", "", "append a run record to file")
	flagSet.IntVarP(&lines, "lines", "n", 0, "number of lines kept for replay")
	flagSet.StringVarP(&configPath, "config", "c", "", "YAML defaults file")
	flagSet.BoolVarP(&verbose, "verbose", "v", false, "print debug diagnostics")
	flagSet.BoolVar(&version, "version", false, "print the version")
	flagSet.BoolP("help", "h", false, "show help")

	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			usage(stderr)
			return nil, err
		}
		return nil, &usageError{err: err}
	}
	if help, _ := flagSet.GetBool("help"); help {
		usage(stderr)
		return nil, pflag.ErrHelp
	}
	if version {
		return nil, errVersion
	}

	file, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	cfg := config.Defaults()
	cfg.Apply(file)
	if captureStderr {
		cfg.CaptureStderr = true
	}
	cfg.MirrorPath = mirrorPath
	cfg.LockMirror = lockMirror
	if timingLog != "" {
		cfg.TimingLog = timingLog
	}
	if flagSet.Changed("lines") {
		cfg.Lines = lines
	}
	if verbose {
		cfg.LogLevel = "debug"
	}
	cfg.Argv = flagSet.Args()

	if err := cfg.Validate(); err != nil {
		return nil, &usageError{err: err}
	}
	return &cfg, nil
}

func logSetupError(log *zap.Logger, err error) {
	var setupErr *runner.SetupError
	if !errors.As(err, &setupErr) {
		log.Error("setup failed", zap.Error(err))
		return
	}
	if errors.Is(err, mirror.ErrLockConflict) {
		log.Error("mirror file is locked by another process", zap.Error(setupErr.Err))
		return
	}
	log.Error(setupErr.Op, zap.Error(setupErr.Err))
}
