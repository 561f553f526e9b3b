package exec

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func skipWithoutShell(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("requires a POSIX shell")
	}
}

func TestCmdString(t *testing.T) {
	assert.Equal(t, "php", Cmd{Name: "php"}.String())
	assert.Equal(t, "php artisan optimize", Cmd{Name: "php", Args: []string{"artisan", "optimize"}}.String())
}

func TestRunAndLog_CapturesOutputInDir(t *testing.T) {
	skipWithoutShell(t)
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "marker"), []byte("x"), 0o644))

	out, err := RunAndLog(context.Background(), "", "test:debug", "error", "listing failed",
		Cmd{Dir: dir, Name: "sh", Args: []string{"-c", "ls"}})
	require.NoError(t, err)
	assert.Contains(t, out, "marker")
}

func TestRunAndLog_ReturnsErrorOnFailure(t *testing.T) {
	skipWithoutShell(t)
	out, err := RunAndLog(context.Background(), "", "", "", "",
		Cmd{Name: "sh", Args: []string{"-c", "echo boom; exit 3"}})
	require.Error(t, err)
	assert.Contains(t, out, "boom")
}

func TestRunAndLog_Timeout(t *testing.T) {
	skipWithoutShell(t)
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := RunAndLog(ctx, "", "", "", "", Cmd{Name: "sh", Args: []string{"-c", "sleep 5"}})
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestRunCommandOutput(t *testing.T) {
	skipWithoutShell(t)
	out, err := RunCommandOutput(context.Background(), Cmd{Name: "sh", Args: []string{"-c", "printf hi"}})
	require.NoError(t, err)
	assert.Equal(t, "hi", out)
}
