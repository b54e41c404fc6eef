package logger

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"announceslider/config"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zapcore.DebugLevel, ParseLevel("debug"))
	assert.Equal(t, zapcore.WarnLevel, ParseLevel("warn"))
	assert.Equal(t, zapcore.ErrorLevel, ParseLevel("error"))
	assert.Equal(t, zapcore.InfoLevel, ParseLevel("verbose"))
}

func TestFieldsToZapFields(t *testing.T) {
	err := errors.New("boom")
	fields := fieldsToZapFields("org", "acme", err, "page", 2, zap.Bool("hit", true), "dangling")

	require.Len(t, fields, 4)
	assert.Equal(t, "org", fields[0].Key)
	assert.Equal(t, "error", fields[1].Key)
	assert.Equal(t, "page", fields[2].Key)
	assert.Equal(t, "hit", fields[3].Key)
}

func TestNewLoggerWithConfig_WritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "app.log")
	l := NewLoggerWithConfig("info", config.LogFileConfig{
		Enabled:    true,
		Path:       path,
		MaxSize:    1,
		MaxBackups: 1,
	})
	l.Info("slider opened", "organization_id", "acme")
	l.Debug("filtered out")
	require.NoError(t, l.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"slider opened"`)
	assert.Contains(t, string(data), `"organization_id":"acme"`)
	assert.NotContains(t, string(data), "filtered out")
}
