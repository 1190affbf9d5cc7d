package logger

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	level, err := parseLevel("WARNING")
	require.NoError(t, err)
	assert.Equal(t, slog.LevelWarn, level.Level())

	_, err = parseLevel("loud")
	assert.Error(t, err)
}

func TestMultiLevelHandlerRoutesErrorsToErrorFile(t *testing.T) {
	var console, info, errs bytes.Buffer
	handler := NewMultiLevelHandler(
		slog.LevelInfo,
		slog.NewTextHandler(&console, nil),
		slog.NewJSONHandler(&info, nil),
		slog.NewJSONHandler(&errs, nil),
	)
	log := slog.New(handler)

	log.Info("lesson unlocked", "course", "c1")
	assert.Contains(t, console.String(), "lesson unlocked")
	assert.Contains(t, info.String(), `"course":"c1"`)
	assert.Empty(t, errs.String())

	log.Error("store unavailable")
	assert.Contains(t, errs.String(), "store unavailable")

	assert.False(t, handler.Enabled(context.Background(), slog.LevelDebug))
}

func TestNewWritesIntoConfiguredDir(t *testing.T) {
	dir := t.TempDir()

	log, err := New("debug", Options{Dir: dir, MaxSizeMB: 1, MaxBackups: 1, MaxAgeDays: 1})
	require.NoError(t, err)
	require.NotNil(t, log)

	assert.DirExists(t, dir)
}
