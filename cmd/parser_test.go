package cmd

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want []CommandGroup
	}{
		{
			name: "no args",
			args: nil,
			want: nil,
		},
		{
			name: "modifiers then command",
			args: []string{"-vx", "--env-get", "APP_NAME", "MAIL_HOST"},
			want: []CommandGroup{{Flags: []string{"-v", "-x"}, Command: "--env-get", Args: []string{"APP_NAME", "MAIL_HOST"}}},
		},
		{
			name: "short forms map to long commands",
			args: []string{"-s", "A=1", "-c", "all"},
			want: []CommandGroup{
				{Command: "--env-set", Args: []string{"A=1"}},
				{Command: "--clear-cache", Args: []string{"all"}},
			},
		},
		{
			name: "equals form",
			args: []string{"--env-get=APP_NAME"},
			want: []CommandGroup{{Command: "--env-get=APP_NAME"}},
		},
		{
			name: "page with format and pairs",
			args: []string{"--smtp", "json", "MAIL_HOST=smtp.example.com", "-f", "--update-check"},
			want: []CommandGroup{
				{Command: "--smtp", Args: []string{"json", "MAIL_HOST=smtp.example.com"}},
				{Flags: []string{"-f"}, Command: "--update-check"},
			},
		},
		{
			name: "help for a command",
			args: []string{"-h", "--clear-cache"},
			want: []CommandGroup{{Command: "--help", Args: []string{"--clear-cache"}}},
		},
		{
			name: "trailing modifiers",
			args: []string{"--version", "-v"},
			want: []CommandGroup{{Command: "--version"}, {Flags: []string{"-v"}}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.args)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		index   int
		command string
	}{
		{"unknown option", []string{"--bogus"}, 0, ""},
		{"no yes modifier", []string{"-y", "--version"}, 0, ""},
		{"stray value", []string{"--version", "extra"}, 1, "--version"},
		{"missing argument", []string{"--clear-cache"}, 0, "--clear-cache"},
		{"unknown cache slug", []string{"--clear-cache", "everything"}, 1, "--clear-cache"},
		{"unknown format", []string{"--settings", "xml"}, 1, "--settings"},
		{"env-set needs pairs", []string{"--env-set", "-v"}, 0, "--env-set"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.args)
			var perr *ParseError
			require.True(t, errors.As(err, &perr), "expected ParseError, got %v", err)
			assert.Equal(t, tt.index, perr.Index)
			assert.Equal(t, tt.command, perr.FailingCommand)
		})
	}
}

func TestParse_CanRunTwice(t *testing.T) {
	_, err := Parse([]string{"--version"})
	require.NoError(t, err)
	_, err = Parse([]string{"--version"})
	require.NoError(t, err)
}

func TestParseError_PointsAtOption(t *testing.T) {
	_, err := Parse([]string{"--version", "--bogus"})
	require.Error(t, err)

	msg := err.Error()
	assert.Contains(t, msg, "'hdadmin --version --bogus'")
	assert.Contains(t, msg, "Invalid option '--bogus'")
	assert.Contains(t, msg, "Run 'hdadmin --help' for usage.")
}

func TestGetUsage(t *testing.T) {
	all := GetUsage("")
	assert.Contains(t, all, "Usage: hdadmin")
	assert.Contains(t, all, "--env-watch")

	one := GetUsage("-c")
	assert.Contains(t, one, "--clear-cache")
	assert.NotContains(t, one, "--env-watch")

	assert.Contains(t, GetUsage("--env-get=APP_NAME"), "--env-get")
}
