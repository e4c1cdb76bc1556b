// internal/logging/logging_test.go
package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/tamzrod/rfid-pod/internal/config"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zapcore.DebugLevel, ParseLevel("debug"))
	assert.Equal(t, zapcore.WarnLevel, ParseLevel("WARN"))
	assert.Equal(t, zapcore.ErrorLevel, ParseLevel("error"))
	assert.Equal(t, zapcore.InfoLevel, ParseLevel("verbose"))
}

func TestNew_WritesRotatedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pod.log")

	log, err := New(config.LogConfig{Level: "info", Format: "json", File: path, MaxSizeMB: 1, MaxBackups: 1}, "rfid-pod")
	require.NoError(t, err)

	log.Debug("hidden")
	log.Info("sensor deck ready", zap.Int("active", 3))
	_ = log.Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	out := string(data)
	assert.True(t, strings.Contains(out, `"msg":"sensor deck ready"`), out)
	assert.True(t, strings.Contains(out, `"service_name":"rfid-pod"`), out)
	assert.False(t, strings.Contains(out, "hidden"), out)
}

func TestNew_RejectsUnknownFormat(t *testing.T) {
	_, err := New(config.LogConfig{Format: "xml"}, "")
	assert.Error(t, err)
}
