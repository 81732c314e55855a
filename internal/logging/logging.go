// Package logging builds the diagnostic logger cronhide writes to
// standard error.
package logging

import (
	"io"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Name prefixes every diagnostic line.
const Name = "cronhide"

// New returns a console logger writing to stderr at the given level.
func New(level string) *zap.Logger {
	return NewWriter(os.Stderr, level)
}

// NewWriter returns a console logger writing to w. Lines carry no
// timestamp: they usually end up in cron mail, which already has one.
func NewWriter(w io.Writer, level string) *zap.Logger {
	encoderConfig := zapcore.EncoderConfig{
		LevelKey:         "level",
		NameKey:          "logger",
		MessageKey:       "message",
		LineEnding:       zapcore.DefaultLineEnding,
		EncodeLevel:      zapcore.LowercaseLevelEncoder,
		EncodeDuration:   zapcore.StringDurationEncoder,
		EncodeName:       zapcore.FullNameEncoder,
		ConsoleSeparator: ": ",
	}
	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encoderConfig),
		zapcore.AddSync(w),
		ParseLevel(level),
	)
	return zap.New(core).Named(Name)
}

// ParseLevel converts a level name to a zapcore.Level, defaulting to
// warn for unknown names.
func ParseLevel(level string) zapcore.Level {
	switch level {
	case "debug":
		return zapcore.DebugLevel
	case "info":
		return zapcore.InfoLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.WarnLevel
	}
}
