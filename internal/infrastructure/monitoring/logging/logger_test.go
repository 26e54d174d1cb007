package logging

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func observedLogger(level zapcore.Level) (Logger, *observer.ObservedLogs) {
	core, logs := observer.New(level)
	return NewLoggerFromCore(core), logs
}

func TestNewLogger_Defaults(t *testing.T) {
	log, err := NewLogger(LogConfig{})
	require.NoError(t, err)
	require.NotNil(t, log)
}

func TestNewLogger_ConsoleFormat(t *testing.T) {
	log, err := NewLogger(LogConfig{Level: "debug", Format: "console"})
	require.NoError(t, err)
	require.NotNil(t, log)
}

func TestNewLogger_InvalidOutputPath(t *testing.T) {
	_, err := NewLogger(LogConfig{OutputPaths: []string{"bogus-scheme://nowhere"}})
	assert.Error(t, err)
}

func TestLogger_EmitsTypedFields(t *testing.T) {
	log, logs := observedLogger(zapcore.DebugLevel)

	log.Info("dictionary ready",
		String("field", "drug"),
		Int("entities", 42),
		Int64("bytes", 1024),
		Float64("match_rate", 0.93),
		Bool("cached", true),
		Duration("elapsed", 2*time.Second),
	)

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, "dictionary ready", entries[0].Message)
	assert.Equal(t, zapcore.InfoLevel, entries[0].Level)

	ctx := entries[0].ContextMap()
	assert.Equal(t, "drug", ctx["field"])
	assert.Equal(t, int64(42), ctx["entities"])
	assert.Equal(t, int64(1024), ctx["bytes"])
	assert.Equal(t, 0.93, ctx["match_rate"])
	assert.Equal(t, true, ctx["cached"])
	assert.Equal(t, 2*time.Second, ctx["elapsed"])
}

func TestLogger_LevelFiltering(t *testing.T) {
	log, logs := observedLogger(zapcore.WarnLevel)

	log.Debug("dropped")
	log.Info("dropped")
	log.Warn("kept")
	log.Error("kept")

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, zapcore.WarnLevel, entries[0].Level)
	assert.Equal(t, zapcore.ErrorLevel, entries[1].Level)
}

func TestLogger_WithBindsFields(t *testing.T) {
	log, logs := observedLogger(zapcore.InfoLevel)

	child := log.With(String("run_id", "run-7"))
	child.Info("entity enriched")
	log.Info("no binding")

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, "run-7", entries[0].ContextMap()["run_id"])
	assert.NotContains(t, entries[1].ContextMap(), "run_id")
}

func TestLogger_Named(t *testing.T) {
	log, logs := observedLogger(zapcore.InfoLevel)

	log.Named("http").Named("middleware").Info("request served")

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, "http.middleware", entries[0].LoggerName)
}

func TestErrField(t *testing.T) {
	log, logs := observedLogger(zapcore.InfoLevel)

	log.Error("fetch failed", Err(errors.New("connection refused")))
	log.Warn("no cause", Err(nil))

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, "connection refused", entries[0].ContextMap()["error"])
	assert.Equal(t, "<nil>", entries[1].ContextMap()["error"])
}

func TestParseLevel(t *testing.T) {
	cases := map[string]zapcore.Level{
		"debug":   zapcore.DebugLevel,
		"DEBUG":   zapcore.DebugLevel,
		"info":    zapcore.InfoLevel,
		"warn":    zapcore.WarnLevel,
		"error":   zapcore.ErrorLevel,
		"":        zapcore.InfoLevel,
		"volcano": zapcore.InfoLevel,
	}
	for in, want := range cases {
		assert.Equal(t, want, parseLevel(in), "level %q", in)
	}
}

func TestNopLogger(t *testing.T) {
	log := NewNopLogger()

	log.Debug("x")
	log.Info("x", String("k", "v"))
	log.Warn("x")
	log.Error("x", Err(errors.New("ignored")))

	assert.NotNil(t, log.With(String("k", "v")))
	assert.NotNil(t, log.Named("sub"))
}

func TestDefaultLogger(t *testing.T) {
	orig := Default()
	defer SetDefault(orig)

	require.NotNil(t, Default())

	log, logs := observedLogger(zapcore.InfoLevel)
	SetDefault(log)
	Default().Info("via default")
	require.Len(t, logs.All(), 1)

	// nil must not clobber the installed logger.
	SetDefault(nil)
	assert.Equal(t, log, Default())
}

//Personal.AI order the ending
