package logging

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_SetsDefault(t *testing.T) {
	logger := New("info", "text")
	require.NotNil(t, logger)
	assert.Same(t, logger, slog.Default())
}

func TestNew_LevelFiltering(t *testing.T) {
	tests := []struct {
		name        string
		level       string
		debugPasses bool
		warnPasses  bool
	}{
		{name: "debug", level: "debug", debugPasses: true, warnPasses: true},
		{name: "info", level: "info", debugPasses: false, warnPasses: true},
		{name: "warn", level: "WARN", debugPasses: false, warnPasses: true},
		{name: "error", level: "error", debugPasses: false, warnPasses: false},
		{name: "unknown defaults to info", level: "chatty", debugPasses: false, warnPasses: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger := New(tt.level, "json")
			assert.Equal(t, tt.debugPasses, logger.Enabled(t.Context(), slog.LevelDebug))
			assert.Equal(t, tt.warnPasses, logger.Enabled(t.Context(), slog.LevelWarn))
		})
	}
}
