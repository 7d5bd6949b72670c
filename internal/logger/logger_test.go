package logger

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestZapLogger_Levels(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := NewWithCore(core)

	l.Verbose("parsing %s", "a.ts")
	l.Write("converted %d files", 2)
	l.Warn("odd")
	l.Error("bad option %q", "x")
	l.Success("done")

	entries := logs.AllUntimed()
	require.Len(t, entries, 5)
	assert.Equal(t, zapcore.DebugLevel, entries[0].Level)
	assert.Equal(t, "parsing a.ts", entries[0].Message)
	assert.Equal(t, zapcore.InfoLevel, entries[1].Level)
	assert.Equal(t, zapcore.WarnLevel, entries[2].Level)
	assert.Equal(t, zapcore.ErrorLevel, entries[3].Level)
	assert.Equal(t, `bad option "x"`, entries[3].Message)
	assert.Equal(t, "success", entries[4].ContextMap()["status"])
}

func TestZapLogger_ErrorCounter(t *testing.T) {
	l := NewNop()
	assert.False(t, l.HasErrors())

	l.Error("one")
	l.Warn("not counted")
	l.Error("two")
	assert.Equal(t, 2, l.ErrorCount())
	assert.True(t, l.HasErrors())

	l.ResetErrors()
	assert.False(t, l.HasErrors())
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zapcore.DebugLevel, ParseLevel("Verbose"))
	assert.Equal(t, zapcore.WarnLevel, ParseLevel("warn"))
	assert.Equal(t, zapcore.ErrorLevel, ParseLevel("error"))
	assert.Equal(t, zapcore.InfoLevel, ParseLevel("whatever"))
}

type diagnostic string

func (d diagnostic) String() string { return string(d) }

func TestDiagnostics(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := NewWithCore(core)

	Diagnostics(l, []diagnostic{"a.ts(1,1): error TS1005: ';' expected.", "error TS6053: File 'b.ts' not found."})

	assert.Equal(t, 2, l.ErrorCount())
	entries := logs.AllUntimed()
	require.Len(t, entries, 2)
	assert.Equal(t, "a.ts(1,1): error TS1005: ';' expected.", entries[0].Message)
	assert.Equal(t, zapcore.ErrorLevel, entries[1].Level)
}

func TestZapLogger_SetLevel(t *testing.T) {
	var buf bytes.Buffer
	l := New(Options{Level: LevelWarn, Output: zapcore.AddSync(&buf)})

	l.Write("hidden")
	l.SetLevel(LevelInfo)
	l.Write("shown")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
}
