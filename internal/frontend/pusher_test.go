package frontend

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const bundle = `var a="abcdefghijklmnopqrst";` +
	`window.Echo=new n({broadcaster:"pusher",key:"abcdefghijklmnopqrst",cluster:"mt1",forceTLS:!0});`

func TestPatchPusherContent(t *testing.T) {
	out, res := PatchPusherContent(bundle, "01234567890123456789", "eu2")

	assert.True(t, res.Found)
	assert.Equal(t, "abcdefghijklmnopqrst", res.OldKey)
	assert.Equal(t, "mt1", res.OldCluster)
	assert.True(t, res.KeyPatched)
	assert.True(t, res.ClusterPatched)
	assert.Equal(t,
		`var a="01234567890123456789";`+
			`window.Echo=new n({broadcaster:"pusher",key:"01234567890123456789",cluster:"eu2",forceTLS:!0});`,
		out)
}

func TestPatchPusherContent_EmptyValuesSkipped(t *testing.T) {
	out, res := PatchPusherContent(bundle, "", "")
	assert.True(t, res.Found)
	assert.False(t, res.KeyPatched)
	assert.False(t, res.ClusterPatched)
	assert.Equal(t, bundle, out)
}

func TestPatchPusherContent_TruncatedBundle(t *testing.T) {
	js := `x={broadcaster:"pusher",key:"short"}`
	out, res := PatchPusherContent(js, "01234567890123456789", "eu2")
	assert.True(t, res.Found)
	assert.False(t, res.KeyPatched)
	assert.False(t, res.ClusterPatched)
	assert.Equal(t, js, out)
}

func TestPatchPusher_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.js")
	require.NoError(t, os.WriteFile(path, []byte(bundle), 0o640))

	res, err := PatchPusher(path, "01234567890123456789", "ap1")
	require.NoError(t, err)
	assert.True(t, res.KeyPatched)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `key:"01234567890123456789",cluster:"ap1"`)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o640), info.Mode().Perm())
}

func TestPatchPusher_NoMarkerLeavesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.js")
	require.NoError(t, os.WriteFile(path, []byte("console.log(1)"), 0o644))

	res, err := PatchPusher(path, "01234567890123456789", "eu2")
	require.NoError(t, err)
	assert.False(t, res.Found)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "console.log(1)", string(data))
}

func TestPatchPusher_MissingFile(t *testing.T) {
	_, err := PatchPusher(filepath.Join(t.TempDir(), "app.js"), "k", "c")
	assert.ErrorIs(t, err, os.ErrNotExist)
}
