package logger

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func withDefault(t *testing.T, l *slog.Logger) {
	t.Helper()
	old := slog.Default()
	slog.SetDefault(l)
	t.Cleanup(func() { slog.SetDefault(old) })
}

func TestFanoutHandler_RespectsEachLevel(t *testing.T) {
	var low, high bytes.Buffer
	h := &FanoutHandler{handlers: []slog.Handler{
		slog.NewTextHandler(&low, &slog.HandlerOptions{Level: LevelDebug}),
		slog.NewTextHandler(&high, &slog.HandlerOptions{Level: LevelWarn}),
	}}
	withDefault(t, slog.New(h))

	ctx := context.Background()
	Debug(ctx, "debug %d", 1)
	Warn(ctx, "careful")

	assert.Contains(t, low.String(), "debug 1")
	assert.Contains(t, low.String(), "careful")
	assert.NotContains(t, high.String(), "debug 1")
	assert.Contains(t, high.String(), "careful")
}

func TestLog_SplitsLinesAndKeepsAttrs(t *testing.T) {
	var buf bytes.Buffer
	withDefault(t, slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: LevelTrace})))

	Notice(context.Background(), "first\nsecond", "key", "value")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "msg=first")
	assert.Contains(t, lines[0], "key=value")
	assert.Contains(t, lines[1], "msg=second")
	assert.NotContains(t, lines[1], "key=value")
}

func TestDisplay(t *testing.T) {
	var buf bytes.Buffer
	old := Output
	Output = &buf
	t.Cleanup(func() { Output = old })

	Display(context.Background(), "value=%s", "x")
	Display(context.Background(), "100%")
	assert.Equal(t, "value=x\n100%\n", buf.String())
}

func TestFatal_PanicsWithFatalError(t *testing.T) {
	var buf bytes.Buffer
	withDefault(t, slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: LevelTrace})))

	assert.PanicsWithValue(t, FatalError{}, func() {
		FatalNoTrace(context.Background(), "giving up")
	})
	assert.Contains(t, buf.String(), "giving up")
}

func TestNewLogger_WritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "hdadmin.log")
	withDefault(t, NewLogger(path))
	t.Cleanup(Cleanup)

	Info(context.Background(), "into the file")
	Cleanup()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "into the file")
	assert.Contains(t, string(data), "[INFO  ]")
}

func TestSetLevel(t *testing.T) {
	t.Cleanup(func() { SetLevel(LevelNotice) })

	SetLevel(LevelDebug)
	assert.Equal(t, LevelDebug, LevelVar.Level())
	assert.Equal(t, LevelDebug, FileLevelVar.Level())

	SetLevel(LevelWarn)
	assert.Equal(t, LevelWarn, LevelVar.Level())
	assert.Equal(t, LevelInfo, FileLevelVar.Level())
}

func TestNewLogger_RotatesPreviousRun(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "hdadmin.log")
	require.NoError(t, os.WriteFile(path, []byte("previous run\n"), 0o644))

	withDefault(t, NewLogger(path))
	t.Cleanup(Cleanup)
	Info(context.Background(), "this run")
	Cleanup()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "previous run")
	assert.Contains(t, string(data), "this run")

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}
