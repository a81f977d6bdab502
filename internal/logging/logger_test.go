package logging

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelInfo, ParseLevel("info"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("warning"))
	assert.Equal(t, slog.LevelError, ParseLevel(" error "))
	assert.Equal(t, slog.LevelWarn, ParseLevel(""))
}

func TestNewLogger(t *testing.T) {
	t.Run("filters below level and drops time", func(t *testing.T) {
		var buf bytes.Buffer
		logger := newLogger(&buf, false, "info")

		logger.Debug("hidden")
		logger.Info("deploying", "network", "bscTestnet")

		out := buf.String()
		assert.NotContains(t, out, "hidden")
		assert.Contains(t, out, "msg=deploying network=bscTestnet")
		assert.NotContains(t, out, "time=")
	})

	t.Run("debug flag forces debug level", func(t *testing.T) {
		var buf bytes.Buffer
		logger := newLogger(&buf, true, "error")

		logger.Debug("visible")
		assert.Contains(t, buf.String(), "visible")
		assert.Contains(t, buf.String(), "source=")
	})
}

func TestShortPath(t *testing.T) {
	assert.Equal(t, "usecase/deploy_proxy.go", shortPath("/home/dev/hazedeploy/internal/usecase/deploy_proxy.go"))
	assert.Equal(t, "main.go", shortPath("main.go"))
}
