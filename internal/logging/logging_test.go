package logging

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vancomm/lifesweeper/internal/config"
)

func TestProductionLogsJSON(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log, err := New(config.Config{Mode: "production", Log: config.Log{Level: "info"}}, &buf)
	require.NoError(t, err)

	log.Debug("hidden")
	log.WithField("game", "abc").Info("created")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "created", entry["msg"])
	assert.Equal(t, "abc", entry["game"])
}

func TestDevelopmentDefaultsToDebug(t *testing.T) {
	t.Parallel()

	log, err := New(config.Config{Mode: "development"}, &bytes.Buffer{})
	require.NoError(t, err)
	assert.Equal(t, logrus.DebugLevel, log.GetLevel())
	assert.IsType(t, &logrus.TextFormatter{}, log.Formatter)
}

func TestInvalidLevel(t *testing.T) {
	t.Parallel()

	_, err := New(config.Config{Log: config.Log{Level: "loud"}}, &bytes.Buffer{})
	assert.ErrorContains(t, err, "invalid log level")
}

func TestFileHook(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "server.log")
	log, err := New(config.Config{Log: config.Log{
		Level: "warn", File: path, MaxSizeMB: 1, MaxBackups: 1, MaxAgeDays: 1,
	}}, &bytes.Buffer{})
	require.NoError(t, err)

	log.Info("skipped")
	log.Warn("kept")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"kept"`)
	assert.NotContains(t, string(data), "skipped")
}

func TestMirror(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "core.log")
	var buf bytes.Buffer
	src, err := New(config.Config{Log: config.Log{
		Level: "debug", File: path, MaxSizeMB: 1, MaxBackups: 1, MaxAgeDays: 1,
	}}, &buf)
	require.NoError(t, err)

	dst := logrus.New()
	Mirror(dst, src)
	assert.Equal(t, logrus.DebugLevel, dst.GetLevel())

	dst.WithField("anchor", "3:4").Debug("mines placed")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "mines placed", entry["msg"])
	assert.Equal(t, "3:4", entry["anchor"])

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"mines placed"`)

	dst.AddHook(&discardHook{})
	assert.Len(t, src.Hooks[logrus.DebugLevel], 1, "hooks are copied, not shared")
}

type discardHook struct{}

func (*discardHook) Levels() []logrus.Level { return logrus.AllLevels }

func (*discardHook) Fire(*logrus.Entry) error { return nil }
