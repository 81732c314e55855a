package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_File(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cronhide.yaml")
	data := "lines: 50\nmax_line_length: 128\ncapture_stderr: true\ntiming_log: /var/log/cron-timing\nlog_level: debug\n"
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	f, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if f.Lines != 50 {
		t.Errorf("Lines = %d, want 50", f.Lines)
	}
	if f.MaxLineLength != 128 {
		t.Errorf("MaxLineLength = %d, want 128", f.MaxLineLength)
	}
	if !f.CaptureStderr {
		t.Error("CaptureStderr = false, want true")
	}
	if f.TimingLog != "/var/log/cron-timing" {
		t.Errorf("TimingLog = %q", f.TimingLog)
	}
	if f.LogLevel != "debug" {
		t.Errorf("LogLevel = %q, want debug", f.LogLevel)
	}
}

func TestLoad_FromEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cronhide.yaml")
	if err := os.WriteFile(path, []byte("lines: 7\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv(EnvConfig, path)

	f, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if f.Lines != 7 {
		t.Errorf("Lines = %d, want 7", f.Lines)
	}
}

func TestLoad_NoFile(t *testing.T) {
	t.Setenv(EnvConfig, "")

	f, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if *f != (File{}) {
		t.Errorf("expected empty File, got %+v", f)
	}
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err == nil {
		t.Fatal("expected error for missing config file")
	}
}

func TestLoad_Malformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("lines: [1, 2\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestApply_OverlaysNonZero(t *testing.T) {
	c := Defaults()
	c.Apply(&File{Lines: 10, TimingLog: "t.log"})

	if c.Lines != 10 {
		t.Errorf("Lines = %d, want 10", c.Lines)
	}
	if c.MaxLineLength != DefaultMaxLineLength {
		t.Errorf("MaxLineLength = %d, want default", c.MaxLineLength)
	}
	if c.TimingLog != "t.log" {
		t.Errorf("TimingLog = %q, want t.log", c.TimingLog)
	}
	if c.LogLevel != DefaultLogLevel {
		t.Errorf("LogLevel = %q, want default", c.LogLevel)
	}
}

func TestValidate(t *testing.T) {
	valid := Defaults()
	valid.Argv = []string{"true"}

	tests := []struct {
		name   string
		mutate func(*RunConfig)
		want   error
	}{
		{"valid", func(*RunConfig) {}, nil},
		{"no command", func(c *RunConfig) { c.Argv = nil }, ErrNoCommand},
		{"lock without mirror", func(c *RunConfig) { c.LockMirror = true }, ErrLockNoMirror},
		{"lock with mirror", func(c *RunConfig) { c.LockMirror = true; c.MirrorPath = "out" }, nil},
		{"zero lines", func(c *RunConfig) { c.Lines = 0 }, ErrBadLines},
		{"tiny line length", func(c *RunConfig) { c.MaxLineLength = 1 }, ErrBadLineLength},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid
			tt.mutate(&c)
			if err := c.Validate(); !errors.Is(err, tt.want) {
				t.Errorf("Validate() = %v, want %v", err, tt.want)
			}
		})
	}
}
