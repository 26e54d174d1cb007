// Package logging defines the structured logging contract used across
// OncoTerm and a zap-backed implementation of it.  Resolution, pipeline and
// transport code depend only on the Logger interface; go.uber.org/zap is an
// implementation detail confined to this package.
//
// A process configures logging once at startup: build a Logger with
// NewLogger, install it via SetDefault, then hand it to every component by
// constructor injection.
package logging

import (
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// ─────────────────────────────────────────────────────────────────────────────
// Field — structured log field carrier
// ─────────────────────────────────────────────────────────────────────────────

// Field is a typed key-value pair attached to a log entry.  It wraps a
// zap.Field so the typed constructors below encode values once, at the call
// site, with no per-entry conversion.
type Field struct {
	zf zap.Field
}

// String constructs a Field with a string value.
func String(key, val string) Field { return Field{zf: zap.String(key, val)} }

// Int constructs a Field with an int value.
func Int(key string, val int) Field { return Field{zf: zap.Int(key, val)} }

// Int64 constructs a Field with an int64 value.
func Int64(key string, val int64) Field { return Field{zf: zap.Int64(key, val)} }

// Float64 constructs a Field with a float64 value.
func Float64(key string, val float64) Field { return Field{zf: zap.Float64(key, val)} }

// Bool constructs a Field with a bool value.
func Bool(key string, val bool) Field { return Field{zf: zap.Bool(key, val)} }

// Duration constructs a Field with a time.Duration value.
func Duration(key string, val time.Duration) Field { return Field{zf: zap.Duration(key, val)} }

// Err constructs a Field that records err under the canonical key "error".
// A nil err yields the string "<nil>" so callers never need to branch.
func Err(err error) Field {
	if err == nil {
		return Field{zf: zap.String("error", "<nil>")}
	}
	return Field{zf: zap.String("error", err.Error())}
}

// Any constructs a Field with an arbitrary value.  Prefer the typed
// constructors; Any falls back to reflection-based encoding.
func Any(key string, val interface{}) Field { return Field{zf: zap.Any(key, val)} }

func unwrap(fields []Field) []zap.Field {
	out := make([]zap.Field, len(fields))
	for i, f := range fields {
		out[i] = f.zf
	}
	return out
}

// ─────────────────────────────────────────────────────────────────────────────
// Logger interface
// ─────────────────────────────────────────────────────────────────────────────

// Logger is the process-wide structured logging contract.  Components receive
// a Logger via constructor injection so implementations can be swapped (for
// example NewNopLogger in tests) without code changes.
type Logger interface {
	// Debug logs high-frequency diagnostic detail.  Disabled in production
	// by raising the configured level to "info" or above.
	Debug(msg string, fields ...Field)

	// Info logs routine operational events.
	Info(msg string, fields ...Field)

	// Warn logs recoverable abnormal conditions that deserve attention but
	// do not affect the correctness of the current operation.
	Warn(msg string, fields ...Field)

	// Error logs failures scoped to a single request or run; the process
	// continues.
	Error(msg string, fields ...Field)

	// Fatal logs the message and exits the process.  Reserved for startup
	// failures; never call it from a request or pipeline path.
	Fatal(msg string, fields ...Field)

	// With returns a child Logger that attaches the supplied fields to every
	// subsequent entry.  The receiver is left unchanged.
	With(fields ...Field) Logger

	// Named returns a child Logger whose name extends the parent's with a
	// period separator ("oncoterm" → "oncoterm.http").
	Named(name string) Logger
}

// ─────────────────────────────────────────────────────────────────────────────
// LogConfig
// ─────────────────────────────────────────────────────────────────────────────

// LogConfig carries the parameters needed to build a Logger.  It is populated
// from the application configuration file by internal/config.
type LogConfig struct {
	// Level is the minimum severity emitted: "debug", "info", "warn" or
	// "error" (case-insensitive).  Unrecognised or empty values mean "info".
	Level string `yaml:"level" json:"level" mapstructure:"level"`

	// Format selects the encoding: "json" for aggregation pipelines or
	// "console" for human-readable local output.  Defaults to "json".
	Format string `yaml:"format" json:"format" mapstructure:"format"`

	// OutputPaths lists sinks for log entries.  "stdout" and "stderr" are
	// special; anything else is treated as a file path.  Defaults to
	// ["stdout"].
	OutputPaths []string `yaml:"output_paths" json:"output_paths" mapstructure:"output_paths"`

	// ErrorOutputPaths lists sinks for the logger's own internal errors,
	// such as write failures.  Defaults to ["stderr"].
	ErrorOutputPaths []string `yaml:"error_output_paths" json:"error_output_paths" mapstructure:"error_output_paths"`
}

// ─────────────────────────────────────────────────────────────────────────────
// zap-backed implementation
// ─────────────────────────────────────────────────────────────────────────────

type zapLogger struct {
	z *zap.Logger
}

func (l *zapLogger) Debug(msg string, fields ...Field) { l.z.Debug(msg, unwrap(fields)...) }
func (l *zapLogger) Info(msg string, fields ...Field)  { l.z.Info(msg, unwrap(fields)...) }
func (l *zapLogger) Warn(msg string, fields ...Field)  { l.z.Warn(msg, unwrap(fields)...) }
func (l *zapLogger) Error(msg string, fields ...Field) { l.z.Error(msg, unwrap(fields)...) }
func (l *zapLogger) Fatal(msg string, fields ...Field) { l.z.Fatal(msg, unwrap(fields)...) }

func (l *zapLogger) With(fields ...Field) Logger {
	return &zapLogger{z: l.z.With(unwrap(fields)...)}
}

func (l *zapLogger) Named(name string) Logger {
	return &zapLogger{z: l.z.Named(name)}
}

func parseLevel(s string) zapcore.Level {
	lvl, err := zapcore.ParseLevel(s)
	if err != nil {
		return zapcore.InfoLevel
	}
	return lvl
}

// NewLogger builds a zap-backed Logger from cfg, applying the documented
// defaults for any unset field.  It returns an error only when zap cannot
// open one of the configured output paths.
func NewLogger(cfg LogConfig) (Logger, error) {
	if len(cfg.OutputPaths) == 0 {
		cfg.OutputPaths = []string{"stdout"}
	}
	if len(cfg.ErrorOutputPaths) == 0 {
		cfg.ErrorOutputPaths = []string{"stderr"}
	}

	console := cfg.Format == "console"

	encCfg := zap.NewProductionEncoderConfig()
	if console {
		encCfg = zap.NewDevelopmentEncoderConfig()
	}
	encCfg.TimeKey = "ts"
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	encoding := "json"
	if console {
		encoding = "console"
	}

	zapCfg := zap.Config{
		Level:            zap.NewAtomicLevelAt(parseLevel(cfg.Level)),
		Development:      console,
		Encoding:         encoding,
		EncoderConfig:    encCfg,
		OutputPaths:      cfg.OutputPaths,
		ErrorOutputPaths: cfg.ErrorOutputPaths,
	}

	z, err := zapCfg.Build(zap.AddCallerSkip(1))
	if err != nil {
		return nil, fmt.Errorf("logging: build zap logger: %w", err)
	}
	return &zapLogger{z: z}, nil
}

// NewLoggerFromCore wraps an existing zapcore.Core.  Tests use it together
// with zaptest/observer to assert on emitted entries.
func NewLoggerFromCore(core zapcore.Core) Logger {
	return &zapLogger{z: zap.New(core, zap.AddCallerSkip(1))}
}

// ─────────────────────────────────────────────────────────────────────────────
// No-op implementation
// ─────────────────────────────────────────────────────────────────────────────

type nopLogger struct{}

func (nopLogger) Debug(string, ...Field) {}
func (nopLogger) Info(string, ...Field)  {}
func (nopLogger) Warn(string, ...Field)  {}
func (nopLogger) Error(string, ...Field) {}
func (nopLogger) Fatal(string, ...Field) {}
func (n nopLogger) With(...Field) Logger { return n }
func (n nopLogger) Named(string) Logger  { return n }

// NewNopLogger returns a Logger that discards everything.  Intended for unit
// tests and benchmarks where output is noise.
func NewNopLogger() Logger { return nopLogger{} }

// ─────────────────────────────────────────────────────────────────────────────
// Process-wide default
// ─────────────────────────────────────────────────────────────────────────────

var (
	defaultMu     sync.RWMutex
	defaultLogger Logger = nopLogger{}
)

// SetDefault installs l as the process-wide default Logger.  Call it once
// during startup, before any goroutine that relies on Default.  A nil l is
// ignored.
func SetDefault(l Logger) {
	if l == nil {
		return
	}
	defaultMu.Lock()
	defaultLogger = l
	defaultMu.Unlock()
}

// Default returns the process-wide default Logger.  Components that cannot
// take an injected Logger may fall back to it; injection is preferred.
func Default() Logger {
	defaultMu.RLock()
	l := defaultLogger
	defaultMu.RUnlock()
	return l
}

//Personal.AI order the ending
