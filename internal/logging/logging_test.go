package logging

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ghoplin/internal/config"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("debug"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("warn"))
	assert.Equal(t, slog.LevelError, ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, ParseLevel("whatever"))
}

func TestNewLogger_VerboseForcesDebug(t *testing.T) {
	var buf bytes.Buffer
	logger, closer := newLogger(&buf, config.LogConfig{Level: "error", Format: "json"}, true)
	defer closer.Close()

	logger.Debug("hello", "blog_url", "https://a.example")

	assert.Contains(t, buf.String(), `"msg":"hello"`)
	assert.Contains(t, buf.String(), `"blog_url":"https://a.example"`)
}

func TestNewLogger_ErrorFileKeepsErrorsOnly(t *testing.T) {
	var buf bytes.Buffer
	path := filepath.Join(t.TempDir(), "errors.log")
	logger, closer := newLogger(&buf, config.LogConfig{Level: "info", ErrorFile: path, MaxSizeMB: 1}, false)

	scoped := logger.With("blog_url", "https://a.example")
	scoped.Info("processing blog")
	scoped.Error("sync failed", "error", "boom")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "sync failed")
	assert.Contains(t, string(data), "https://a.example")
	assert.NotContains(t, string(data), "processing blog")

	assert.Contains(t, buf.String(), "processing blog")
	assert.Contains(t, buf.String(), "sync failed")
}
