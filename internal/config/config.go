// Package config resolves the run configuration from the optional YAML
// defaults file and the command line.
package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/deixis/cronhide/internal/ring"
)

// Default values for run configuration.
const (
	DefaultLines         = ring.DefaultCapacity
	DefaultMaxLineLength = 512 // bytes, including the newline
	DefaultLogLevel      = "warn"
)

// EnvConfig names the environment variable consulted for a defaults
// file when none is given on the command line.
const EnvConfig = "CRONHIDE_CONFIG"

// File holds the parsed defaults file.
// All fields are optional; zero values represent defaults.
type File struct {
	Lines         int    `yaml:"lines"`           // ring buffer capacity
	MaxLineLength int    `yaml:"max_line_length"` // bytes per buffered line
	CaptureStderr bool   `yaml:"capture_stderr"`
	TimingLog     string `yaml:"timing_log"`
	LogLevel      string `yaml:"log_level"` // debug, info, warn, error
}

// RunConfig is the resolved configuration for one run.
type RunConfig struct {
	CaptureStderr bool
	MirrorPath    string // empty when no mirror is requested
	LockMirror    bool
	TimingLog     string // empty when no timing log is requested
	Lines         int
	MaxLineLength int
	LogLevel      string
	Argv          []string
}

// Validation errors.
var (
	ErrNoCommand     = errors.New("no command given")
	ErrLockNoMirror  = errors.New("-l requires -o to be given first")
	ErrBadLines      = errors.New("line capacity must be at least 1")
	ErrBadLineLength = errors.New("maximum line length must be at least 2")
)

// Defaults returns a RunConfig with built-in defaults and no command.
func Defaults() RunConfig {
	return RunConfig{
		Lines:         DefaultLines,
		MaxLineLength: DefaultMaxLineLength,
		LogLevel:      DefaultLogLevel,
	}
}

// Apply overlays the non-zero values of f onto c.
func (c *RunConfig) Apply(f *File) {
	if f == nil {
		return
	}
	if f.Lines != 0 {
		c.Lines = f.Lines
	}
	if f.MaxLineLength != 0 {
		c.MaxLineLength = f.MaxLineLength
	}
	if f.CaptureStderr {
		c.CaptureStderr = true
	}
	if f.TimingLog != "" {
		c.TimingLog = f.TimingLog
	}
	if f.LogLevel != "" {
		c.LogLevel = f.LogLevel
	}
}

// Validate reports the first configuration invariant c violates.
func (c *RunConfig) Validate() error {
	switch {
	case c.LockMirror && c.MirrorPath == "":
		return ErrLockNoMirror
	case len(c.Argv) == 0:
		return ErrNoCommand
	case c.Lines < 1:
		return ErrBadLines
	case c.MaxLineLength < 2:
		return ErrBadLineLength
	}
	return nil
}

// Load reads the defaults file at path. An empty path falls back to
// $CRONHIDE_CONFIG; if that is unset too, an empty File is returned.
// A path that was named explicitly must exist.
func Load(path string) (*File, error) {
	if path == "" {
		path = os.Getenv(EnvConfig)
	}
	if path == "" {
		return &File{}, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	f := &File{}
	if err := yaml.Unmarshal(data, f); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	return f, nil
}
