package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestLevelFromString(t *testing.T) {
	tests := []struct {
		in   string
		want zapcore.Level
	}{
		{"trace", TraceLevel},
		{"TRACE", TraceLevel},
		{"debug", zapcore.DebugLevel},
		{"info", zapcore.InfoLevel},
		{"", zapcore.InfoLevel},
		{" warn ", zapcore.WarnLevel},
		{"error", zapcore.ErrorLevel},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := LevelFromString(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := LevelFromString("verbose")
	assert.Error(t, err)
}

func TestTraceLevelOrdering(t *testing.T) {
	assert.Less(t, int8(TraceLevel), int8(zapcore.DebugLevel))
}

func TestEncodeLevel(t *testing.T) {
	enc := &sliceArrayEncoder{}
	encodeLevel(TraceLevel, enc)
	encodeLevel(zapcore.WarnLevel, enc)
	assert.Equal(t, []string{"trace", "warn"}, enc.elems)
}

// sliceArrayEncoder collects appended strings.
type sliceArrayEncoder struct {
	zapcore.PrimitiveArrayEncoder
	elems []string
}

func (s *sliceArrayEncoder) AppendString(v string) { s.elems = append(s.elems, v) }
