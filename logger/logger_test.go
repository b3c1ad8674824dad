package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestNew(t *testing.T) {
	tests := []struct {
		debug bool
		level zapcore.Level
	}{
		{debug: false, level: zapcore.InfoLevel},
		{debug: true, level: zapcore.DebugLevel},
	}

	for _, tt := range tests {
		l, err := New(tt.debug)
		require.NoError(t, err)
		assert.True(t, l.Core().Enabled(tt.level))
		assert.False(t, l.Core().Enabled(tt.level-1))
	}
}
