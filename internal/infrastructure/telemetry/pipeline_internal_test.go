package telemetry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestSamplerFor(t *testing.T) {
	assert.Equal(t, sdktrace.NeverSample().Description(), samplerFor(0).Description())
	assert.Equal(t, sdktrace.ParentBased(sdktrace.AlwaysSample()).Description(), samplerFor(1).Description())
	assert.Contains(t, samplerFor(0.25).Description(), "TraceIDRatioBased{0.25}")
}

func TestLevelFilterCore(t *testing.T) {
	inner, recorded := observer.New(zapcore.DebugLevel)
	logger := zap.New(&levelFilterCore{Core: inner, minLevel: zapcore.WarnLevel})

	logger.Info("dropped")
	logger.With(zap.String("quotation", "COT-1")).Warn("kept")

	entries := recorded.All()
	if assert.Len(t, entries, 1) {
		assert.Equal(t, "kept", entries[0].Message)
		assert.Equal(t, "COT-1", entries[0].ContextMap()["quotation"])
	}
}
