package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestInitialize(t *testing.T) {
	tests := []struct {
		name       string
		jsonOutput bool
	}{
		{name: "JSON output mode", jsonOutput: true},
		{name: "Console output mode", jsonOutput: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			Logger = nil
			JSONOutput = false
			t.Cleanup(func() { Logger = zap.NewNop().Sugar() })

			require.NoError(t, Initialize(tt.jsonOutput))
			require.NotNil(t, Logger)
			assert.Equal(t, tt.jsonOutput, JSONOutput)
		})
	}
}

func TestInitializeWithVerbosityLevel(t *testing.T) {
	t.Cleanup(func() { Logger = zap.NewNop().Sugar() })

	require.NoError(t, InitializeWithVerbosity(false, VerbosityUser))
	assert.False(t, Logger.Desugar().Core().Enabled(zapcore.InfoLevel))
	assert.True(t, Logger.Desugar().Core().Enabled(zapcore.WarnLevel))

	require.NoError(t, InitializeWithVerbosity(false, VerbosityDebug))
	assert.True(t, Logger.Desugar().Core().Enabled(zapcore.DebugLevel))
}

func TestVerbosityToLevel(t *testing.T) {
	tests := []struct {
		verbosity int
		want      zapcore.Level
	}{
		{-1, zapcore.WarnLevel},
		{VerbosityUser, zapcore.WarnLevel},
		{VerbosityInfo, zapcore.InfoLevel},
		{VerbosityDebug, zapcore.DebugLevel},
		{VerbosityTrace, zapcore.DebugLevel},
		{9, zapcore.DebugLevel},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, VerbosityToLevel(tt.verbosity), "verbosity %d", tt.verbosity)
	}
}

func TestShouldOutput(t *testing.T) {
	assert.True(t, ShouldOutput(VerbosityUser, OutputResults))
	assert.True(t, ShouldOutput(VerbosityUser, OutputWarnings))
	assert.False(t, ShouldOutput(VerbosityUser, OutputProgress))
	assert.True(t, ShouldOutput(VerbosityInfo, OutputProgress))
	assert.False(t, ShouldOutput(VerbosityDebug, OutputSQL))
	assert.True(t, ShouldOutput(VerbosityTrace, OutputDataDump))
	assert.False(t, ShouldOutput(VerbosityDebug, OutputCategory(99)))
}

func TestLevelName(t *testing.T) {
	assert.Equal(t, "User", LevelName(0))
	assert.Equal(t, "Info (-v)", LevelName(1))
	assert.Equal(t, "Debug (-vv)", LevelName(2))
	assert.Equal(t, "Trace (-vvv)", LevelName(5))
}

func TestComponentLoggers(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	base := zap.New(core).Sugar()

	saved := Logger
	Logger = base
	t.Cleanup(func() { Logger = saved })

	ComponentLogger("genealogy.store").Warnw("duplicate", FieldIndividualID, 1)
	OrComponent(nil, "storage").Infow("opened")
	OrComponent(base.Named("cli"), "tabular").Debugw("read")
	ChildLogger(base, FieldRootID, 7).Infow("walk")

	entries := logs.All()
	require.Len(t, entries, 4)
	assert.Equal(t, "genealogy.store", entries[0].LoggerName)
	assert.Equal(t, int64(1), entries[0].ContextMap()[FieldIndividualID])
	assert.Equal(t, "storage", entries[1].LoggerName)
	assert.Equal(t, "cli.tabular", entries[2].LoggerName)
	assert.Equal(t, int64(7), entries[3].ContextMap()[FieldRootID])
}
