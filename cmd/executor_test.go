package cmd

import (
	"HelpdeskAdmin/internal/config"
	"HelpdeskAdmin/internal/logger"
	"HelpdeskAdmin/internal/paths"
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupInstall points the config at a fresh helpdesk root with the given env
// file and captures Display output.
func setupInstall(t *testing.T, env string) (string, *bytes.Buffer) {
	t.Helper()

	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, ".env"), []byte(env), 0o644))
	t.Setenv(config.RootEnvVar, root)

	oldConfig := paths.ConfigHomeOverride
	paths.ConfigHomeOverride = t.TempDir()
	t.Cleanup(func() { paths.ConfigHomeOverride = oldConfig })

	var out bytes.Buffer
	oldOutput := logger.Output
	logger.Output = &out
	t.Cleanup(func() { logger.Output = oldOutput })

	return root, &out
}

func run(t *testing.T, args ...string) int {
	t.Helper()
	groups, err := Parse(args)
	require.NoError(t, err)
	return Execute(context.Background(), groups)
}

func TestExecute_EnvSetThenGet(t *testing.T) {
	root, out := setupInstall(t, "# app\nAPP_NAME=Helpdesk")

	require.Equal(t, 0, run(t, "--env-set", "APP_NAME=Support", "MAIL_HOST=smtp.example.com"))

	data, err := os.ReadFile(filepath.Join(root, ".env"))
	require.NoError(t, err)
	assert.Equal(t, "# app\nAPP_NAME=Support\nMAIL_HOST=smtp.example.com", string(data))

	require.Equal(t, 0, run(t, "--env-get", "APP_NAME", "MAIL_HOST"))
	assert.Equal(t, "Support\nsmtp.example.com\n", out.String())
}

func TestExecute_EnvGetKeepsOneLinePerKey(t *testing.T) {
	_, out := setupInstall(t, "APP_NAME=Helpdesk\nMAIL_HOST=\nAPP_ENV=local")

	require.Equal(t, 0, run(t, "--env-get", "APP_NAME", "MAIL_HOST", "NOT_SET", "APP_ENV"))
	assert.Equal(t, "Helpdesk\n\n\nlocal\n", out.String())
}

func TestExecute_EnvSetEqualsForm(t *testing.T) {
	root, _ := setupInstall(t, "A=1")

	require.Equal(t, 0, run(t, "--env-set=B,x,y"))

	data, err := os.ReadFile(filepath.Join(root, ".env"))
	require.NoError(t, err)
	assert.Equal(t, "A=1\nB=x,y", string(data))
}

func TestExecute_EnvSetInvalidKeyFails(t *testing.T) {
	root, _ := setupInstall(t, "A=1")

	assert.Equal(t, 1, run(t, "--env-set", "lower=1"))

	data, err := os.ReadFile(filepath.Join(root, ".env"))
	require.NoError(t, err)
	assert.Equal(t, "A=1", string(data))
}

func TestExecute_EnvDiff(t *testing.T) {
	root, out := setupInstall(t, "A=1\nB=2")

	require.Equal(t, 0, run(t, "--env-diff", "A=3"))
	assert.Equal(t, "-A=1\n+A=3\n", out.String())

	data, err := os.ReadFile(filepath.Join(root, ".env"))
	require.NoError(t, err)
	assert.Equal(t, "A=1\nB=2", string(data))
}

func TestExecute_SMTPPageAndUpdate(t *testing.T) {
	root, out := setupInstall(t, "MAIL_HOST=old")

	require.Equal(t, 0, run(t, "--smtp", "json"))
	assert.Contains(t, out.String(), `"title": "SMTP Settings"`)
	assert.Contains(t, out.String(), `"value": "old"`)

	assert.Equal(t, 1, run(t, "--smtp", "MAIL_HOST=new"))

	require.Equal(t, 0, run(t, "--smtp",
		"MAIL_HOST=new", "MAIL_PORT=25", "MAIL_USERNAME=u", "MAIL_PASSWORD=p", "MAIL_ENCRYPTION=tls"))

	data, err := os.ReadFile(filepath.Join(root, ".env"))
	require.NoError(t, err)
	assert.Equal(t, "MAIL_HOST=new\nMAIL_PORT=25\nMAIL_USERNAME=u\nMAIL_PASSWORD=p\nMAIL_ENCRYPTION=tls", string(data))
}

func TestExecute_SettingsSetAndShow(t *testing.T) {
	root, out := setupInstall(t, "")

	require.Equal(t, 0, run(t, "--settings-set", "app_name=Desk", `hide_ticket_fields=["priority"]`))
	require.Equal(t, 0, run(t, "--settings", "json"))

	assert.Contains(t, out.String(), `"title": "Global Settings"`)
	assert.Contains(t, out.String(), `"value": "Desk"`)
	assert.FileExists(t, filepath.Join(root, "public", "css", "custom.css"))
	assert.FileExists(t, filepath.Join(root, "database", "database.sqlite"))
}

func TestExecute_SettingsSetRejectsBadJSON(t *testing.T) {
	setupInstall(t, "")
	assert.Equal(t, 1, run(t, "--settings-set", "hide_ticket_fields=[oops"))
}

func TestExecute_Version(t *testing.T) {
	_, out := setupInstall(t, "")
	require.Equal(t, 0, run(t, "--version"))
	assert.Contains(t, out.String(), "HelpdeskAdmin [")
}

func TestExecute_ConfigShow(t *testing.T) {
	root, out := setupInstall(t, "")
	require.Equal(t, 0, run(t, "--config-show"))
	assert.Contains(t, out.String(), "command: php artisan")
	assert.Contains(t, out.String(), root)
}
