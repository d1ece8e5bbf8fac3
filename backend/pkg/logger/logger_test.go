package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestGet_BeforeInitIsNop(t *testing.T) {
	Logger = nil
	assert.NotNil(t, Get())
	assert.NotPanics(t, func() { Named("x").Info("dropped") })
}

func TestInit_LevelOverride(t *testing.T) {
	t.Cleanup(func() { Logger = nil })

	require.NoError(t, Init("production", Options{Level: "WARN"}))
	assert.False(t, Get().Core().Enabled(zapcore.DebugLevel))
	assert.False(t, Get().Core().Enabled(zapcore.InfoLevel))
	assert.True(t, Get().Core().Enabled(zapcore.WarnLevel))

	assert.Error(t, Init("development", Options{Level: "loud"}))
}

func TestInit_WritesFile(t *testing.T) {
	t.Cleanup(func() { Logger = nil })
	path := filepath.Join(t.TempDir(), "tools.log")

	require.NoError(t, Init("production", Options{File: path}))
	Named("test").Info("hello file")
	Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"hello file"`)
	assert.Contains(t, string(data), `"logger":"test"`)
}
