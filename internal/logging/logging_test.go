package logging

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vancomm/minesweeper-gym/internal/config"
)

func TestNewLevels(t *testing.T) {
	log, err := New(config.LogConfig{Level: "warn", Format: "text"}, false)
	require.NoError(t, err)
	assert.Equal(t, logrus.WarnLevel, log.GetLevel())
	assert.IsType(t, &logrus.TextFormatter{}, log.Formatter)

	log, err = New(config.LogConfig{Level: "warn", Format: "json"}, true)
	require.NoError(t, err)
	assert.Equal(t, logrus.DebugLevel, log.GetLevel())
	assert.IsType(t, &logrus.JSONFormatter{}, log.Formatter)

	_, err = New(config.LogConfig{Level: "chatty"}, false)
	assert.Error(t, err)
}

func TestFileHook(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gym.log")
	log, err := New(config.LogConfig{
		Level:      "info",
		Format:     "json",
		File:       path,
		MaxSizeMB:  1,
		MaxBackups: 1,
		MaxAgeDays: 1,
	}, false)
	require.NoError(t, err)
	log.SetOutput(Discard().Out)

	log.WithField("episode", 3).Info("episode ended")
	log.Debug("not written")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"episode ended"`)
	assert.Contains(t, string(data), `"episode":3`)
	assert.NotContains(t, string(data), "not written")
}
