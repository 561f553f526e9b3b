package cmd

import (
	"HelpdeskAdmin/internal/version"

	"github.com/spf13/pflag"
)

// newFlagSet defines the flags used for argument validation and help.
// Parse walks the arguments itself; the set only answers "is this a known option".
func newFlagSet() *pflag.FlagSet {
	fs := pflag.NewFlagSet(version.CommandName, pflag.ContinueOnError)

	// Modifiers
	fs.BoolP("force", "f", false, "Force execution")
	fs.BoolP("verbose", "v", false, "Verbose output")
	fs.BoolP("debug", "x", false, "Debug output")
	fs.BoolP("help", "h", false, "Show help")

	// Information
	fs.BoolP("version", "V", false, "Show version")
	fs.String("config-show", "", "Show configuration")
	fs.Bool("show-config", false, "Show configuration (alias)")

	// Environment file
	fs.StringP("env-get", "g", "", "Get variable value")
	fs.StringP("env-set", "s", "", "Set variable value")
	fs.String("env-diff", "", "Preview a variable change")
	fs.Bool("env-watch", false, "Watch the env file for changes")

	// Settings pages
	fs.String("settings", "", "Show global settings")
	fs.String("settings-set", "", "Update global settings")
	fs.String("smtp", "", "Show or update SMTP settings")
	fs.String("pusher", "", "Show or update Pusher settings")
	fs.String("piping", "", "Show or update email piping settings")

	// Maintenance
	fs.StringP("clear-cache", "c", "", "Run a cache maintenance command")
	fs.String("system-update", "", "Show the installed version")
	fs.StringP("update-check", "u", "", "Check for a newer release")

	return fs
}
