package assets

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSchema(t *testing.T) {
	schema, err := Schema()
	require.NoError(t, err)
	assert.Contains(t, schema, "CREATE TABLE IF NOT EXISTS settings")
}

func TestEnsurePublicAssets_KeepsExistingFiles(t *testing.T) {
	ctx := context.Background()
	public := t.TempDir()

	require.NoError(t, EnsurePublicAssets(ctx, public))
	cssPath := filepath.Join(public, "css", "custom.css")
	assert.FileExists(t, cssPath)

	require.NoError(t, os.WriteFile(cssPath, []byte("body{}"), 0o644))
	require.NoError(t, EnsurePublicAssets(ctx, public))

	data, err := os.ReadFile(cssPath)
	require.NoError(t, err)
	assert.Equal(t, "body{}", string(data))
}
