package cmd

import (
	"HelpdeskAdmin/internal/logger"
	"HelpdeskAdmin/internal/maintenance"
	"HelpdeskAdmin/internal/version"
	"context"
	"fmt"
	"strings"
)

// PrintHelp prints usage information.
// If target is empty, prints global usage.
// If target is specified, prints usage for that specific flag/command.
func PrintHelp(ctx context.Context, target string) {
	logger.Display(ctx, GetUsage(target))
}

// GetUsage returns usage information as a string.
// If target is empty, returns global usage.
// If target is specified, returns usage for that specific flag/command.
func GetUsage(target string) string {
	var sb strings.Builder
	printStr := func(s string) {
		sb.WriteString(s + "\n")
	}

	appName := version.ApplicationName
	appCmd := version.CommandName

	if target == "" {
		printStr(fmt.Sprintf("Usage: %s [<Flags>] [<Command>] ...", appCmd))
		printStr("")
		printStr(fmt.Sprintf("%s [%s]", appName, version.Version))
		printStr("Administers the settings of a helpdesk installation: its '.env' file,")
		printStr("its settings database and its cache.")
		printStr("")
		printStr("You may include multiple commands on the command-line, and they will be executed in")
		printStr("the order given, only stopping on an error. Any flags included only apply to the")
		printStr("following command, and get reset before the next command.")
		printStr("")
		printStr("Commands that show a page accept an optional <format>: yaml (default), json or toml.")
		printStr("")
		printStr("Flags:")
		printStr("")
	}

	showAll := target == ""
	match := func(opts ...string) bool {
		if showAll {
			return true
		}
		for _, o := range opts {
			if o == target || strings.HasPrefix(target, o+"=") {
				return true
			}
		}
		return false
	}

	// Flags
	if match("-f", "--force") {
		printStr("-f --force")
		printStr("	Write values even when they are unchanged")
	}
	if match("-v", "--verbose") {
		printStr("-v --verbose")
		printStr("	Verbose")
	}
	if match("-x", "--debug") {
		printStr("-x --debug")
		printStr("	Debug")
	}

	if showAll {
		printStr("")
		printStr("CLI Commands:")
		printStr("")
	}

	if match("-c", "--clear-cache") {
		printStr(fmt.Sprintf("-c --clear-cache < %s >", strings.Join(maintenance.Slugs(), " | ")))
		printStr("	Run a cache maintenance command of the helpdesk. 'all' runs every command in turn")
	}
	if match("--config-show", "--show-config") {
		printStr("--config-show [<format>]")
		printStr("--show-config [<format>]")
		printStr("	Shows the current configuration options")
	}
	if match("-g", "--env-get") {
		printStr("-g --env-get <var> [<var> ...]")
		printStr("--env-get=<var>")
		printStr("	Get the value of a <var>iable, one line per <var> (empty when unset)")
	}
	if match("-s", "--env-set") {
		printStr("-s --env-set <var>=<val> [<var>=<val> ...]")
		printStr("--env-set=<var>,<val>")
		printStr("	Set the value of a <var>iable, keeping every other line of the file")
	}
	if match("--env-diff") {
		printStr("--env-diff <var>=<val> [<var>=<val> ...]")
		printStr("	Show the change '--env-set' would make, without writing")
	}
	if match("--env-watch") {
		printStr("--env-watch")
		printStr("	Report changes to the '.env' file until interrupted")
	}
	if match("-h", "--help") {
		printStr("-h --help")
		printStr("	Show this usage information")
		printStr("-h --help <option>")
		printStr("	Show the usage of the specified option")
	}
	if match("--piping") {
		printStr("--piping [<format>] [<var>=<val> ...] [enable_piping=<val>]")
		printStr("	Show the email piping settings, or update them when values are given")
	}
	if match("--pusher") {
		printStr("--pusher [<format>] [<var>=<val> ...]")
		printStr("	Show the Pusher settings, or update them and patch the front-end bundle")
	}
	if match("--settings") {
		printStr("--settings [<format>]")
		printStr("	Show the global settings")
	}
	if match("--settings-set") {
		printStr("--settings-set <slug>=<val> [<slug>=<val> ...]")
		printStr("	Update global settings. 'logo', 'logo_white' and 'favicon' take a local file path")
	}
	if match("--smtp") {
		printStr("--smtp [<format>] [<var>=<val> ...]")
		printStr("	Show the SMTP settings, or update them when values are given")
	}
	if match("--system-update") {
		printStr("--system-update [<format>]")
		printStr("	Show the installed helpdesk version")
	}
	if match("-u", "--update-check") {
		printStr("-u --update-check [<format>]")
		printStr("	Check for a newer helpdesk release and list the files it changes")
	}
	if match("-V", "--version") {
		printStr("-V --version")
		printStr(fmt.Sprintf("	Display the %s version", appName))
	}

	return strings.TrimRight(sb.String(), "\n")
}
