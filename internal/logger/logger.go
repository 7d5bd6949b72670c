// Package logger provides the leveled logger the converter and the CLI report through.
package logger

import (
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger is the reporting surface used by the core. Nothing in the core prints directly.
type Logger interface {
	Verbose(format string, args ...any)
	Write(format string, args ...any)
	Warn(format string, args ...any)
	Error(format string, args ...any)
	Success(format string, args ...any)

	ErrorCount() int
	HasErrors() bool
	ResetErrors()
}

// Level names accepted by ParseLevel.
const (
	LevelVerbose = "verbose"
	LevelInfo    = "info"
	LevelWarn    = "warn"
	LevelError   = "error"
)

// Options configures New.
type Options struct {
	Level string
	JSON  bool
	// Output defaults to stdout.
	Output zapcore.WriteSyncer
}

// ZapLogger implements Logger on top of a zap SugaredLogger.
type ZapLogger struct {
	sugar  *zap.SugaredLogger
	level  *zap.AtomicLevel
	errors int
}

// New builds a console (or JSON) logger for the given options.
func New(opts Options) *ZapLogger {
	out := opts.Output
	if out == nil {
		out = zapcore.AddSync(os.Stdout)
	}

	cfg := zapcore.EncoderConfig{
		MessageKey:     "msg",
		LevelKey:       "level",
		NameKey:        "logger",
		EncodeLevel:    zapcore.CapitalLevelEncoder,
		EncodeDuration: zapcore.StringDurationEncoder,
	}

	var enc zapcore.Encoder
	if opts.JSON {
		cfg.TimeKey = "ts"
		cfg.EncodeTime = zapcore.ISO8601TimeEncoder
		enc = zapcore.NewJSONEncoder(cfg)
	} else {
		enc = zapcore.NewConsoleEncoder(cfg)
	}

	level := zap.NewAtomicLevelAt(ParseLevel(opts.Level))
	l := NewWithCore(zapcore.NewCore(enc, out, level))
	l.level = &level
	return l
}

// NewWithCore wraps an existing zap core. Tests pass an observer core here.
func NewWithCore(core zapcore.Core) *ZapLogger {
	return &ZapLogger{sugar: zap.New(core).Sugar()}
}

// NewNop returns a logger that discards output but still counts errors.
func NewNop() *ZapLogger {
	return &ZapLogger{sugar: zap.NewNop().Sugar()}
}

// ParseLevel maps a level name to a zap level. Unknown names fall back to info.
func ParseLevel(name string) zapcore.Level {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case LevelVerbose, "debug":
		return zapcore.DebugLevel
	case LevelWarn, "warning":
		return zapcore.WarnLevel
	case LevelError:
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

func (l *ZapLogger) Verbose(format string, args ...any) { l.sugar.Debugf(format, args...) }

func (l *ZapLogger) Write(format string, args ...any) { l.sugar.Infof(format, args...) }

func (l *ZapLogger) Warn(format string, args ...any) { l.sugar.Warnf(format, args...) }

// Error logs at error level and increments the error counter.
func (l *ZapLogger) Error(format string, args ...any) {
	l.errors++
	l.sugar.Errorf(format, args...)
}

func (l *ZapLogger) Success(format string, args ...any) {
	l.sugar.With("status", "success").Infof(format, args...)
}

func (l *ZapLogger) ErrorCount() int { return l.errors }

func (l *ZapLogger) HasErrors() bool { return l.errors > 0 }

func (l *ZapLogger) ResetErrors() { l.errors = 0 }

// SetLevel changes the level of a logger built by New. Loggers wrapping a
// caller's core keep that core's level.
func (l *ZapLogger) SetLevel(name string) {
	if l.level != nil {
		l.level.SetLevel(ParseLevel(name))
	}
}

// Sync flushes buffered output.
func (l *ZapLogger) Sync() error { return l.sugar.Sync() }

// Diagnostics reports compiler diagnostics at error level, one entry each,
// so every diagnostic counts toward ErrorCount.
func Diagnostics[D fmt.Stringer](l Logger, list []D) {
	for _, d := range list {
		l.Error("%s", d.String())
	}
}
