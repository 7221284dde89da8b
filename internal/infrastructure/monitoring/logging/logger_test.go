package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestZapLogger_FieldsAndNaming(t *testing.T) {
	core, observed := observer.New(zapcore.DebugLevel)
	logger := NewLoggerFromCore(core)

	logger.Named("pipeline").With(String("document_id", "doc-1")).
		Info("extraction finished", Float64("confidence", 0.9), Int("entities", 4))

	entries := observed.All()
	require.Len(t, entries, 1)
	e := entries[0]
	assert.Equal(t, "extraction finished", e.Message)
	assert.Equal(t, "pipeline", e.LoggerName)

	fields := e.ContextMap()
	assert.Equal(t, "doc-1", fields["document_id"])
	assert.Equal(t, 0.9, fields["confidence"])
	assert.Equal(t, int64(4), fields["entities"])
}

func TestErrField_Nil(t *testing.T) {
	f := Err(nil)
	assert.Equal(t, "error", f.Key)
	assert.Equal(t, "<nil>", f.Value)
}

func TestParseLevel_Defaults(t *testing.T) {
	assert.Equal(t, zapcore.InfoLevel, parseLevel("garbage"))
	assert.Equal(t, zapcore.DebugLevel, parseLevel("debug"))
	assert.Equal(t, zapcore.ErrorLevel, parseLevel("ERROR"))
}

func TestDefaultLogger_Swap(t *testing.T) {
	orig := Default()
	defer SetDefault(orig)

	nop := NewNopLogger()
	SetDefault(nop)
	assert.Equal(t, nop, Default())

	// nil is ignored rather than clearing the default
	SetDefault(nil)
	assert.Equal(t, nop, Default())
}
