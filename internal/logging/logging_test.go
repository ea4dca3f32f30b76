package logging

import (
	"bytes"
	"context"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLevels(t *testing.T) {
	tests := []struct {
		name    string
		level   log.Level
		logFunc func(*log.Logger)
		wantLog bool
	}{
		{"info at info level", log.InfoLevel, func(l *log.Logger) { l.Info("test") }, true},
		{"debug at info level", log.InfoLevel, func(l *log.Logger) { l.Debug("test") }, false},
		{"debug at debug level", log.DebugLevel, func(l *log.Logger) { l.Debug("test") }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			tt.logFunc(New(&buf, tt.level))
			assert.Equal(t, tt.wantLog, buf.Len() > 0)
		})
	}
}

func TestProgressDone(t *testing.T) {
	var buf bytes.Buffer
	p := Start(New(&buf, log.DebugLevel))
	p.Done("saved", "path", "$.a")

	out := buf.String()
	assert.Contains(t, out, "saved")
	assert.Contains(t, out, "elapsed")
	assert.Contains(t, out, "$.a")
}

func TestContextRoundTrip(t *testing.T) {
	l := Discard()
	ctx := WithLogger(context.Background(), l)
	require.Same(t, l, FromContext(ctx))
	assert.NotNil(t, FromContext(context.Background()))
}
