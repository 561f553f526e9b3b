package cmd

import (
	"HelpdeskAdmin/internal/maintenance"
	"HelpdeskAdmin/internal/render"
	"HelpdeskAdmin/internal/version"
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/pflag"
)

// ParseError reports where argument parsing failed, pointing at the offending option.
type ParseError struct {
	Args           []string // The full argument list passed to Parse
	Index          int      // The index where the error occurred
	Message        string   // The specific error message
	FailingCommand string   // The command being processed (e.g. "--clear-cache")
}

func (e *ParseError) Error() string {
	indent := "   "

	cmdLineParts := []string{version.CommandName}
	for i := 0; i <= e.Index && i < len(e.Args); i++ {
		cmdLineParts = append(cmdLineParts, e.Args[i])
	}
	cmdLineStr := "'" + strings.Join(cmdLineParts, " ") + "'"

	// indent + ' + command + space + previous args
	caretOffset := len(indent) + 1 + len(version.CommandName) + 1
	for i := 0; i < e.Index && i < len(e.Args); i++ {
		caretOffset += len(e.Args[i]) + 1
	}
	pointerLine := strings.Repeat(" ", caretOffset) + "^"

	failingOpt := ""
	if e.Index < len(e.Args) {
		failingOpt = e.Args[e.Index]
	}
	replacer := strings.NewReplacer(
		"%c", "'"+e.FailingCommand+"'",
		"%o", "'"+failingOpt+"'",
	)
	formattedMsg := replacer.Replace(e.Message)

	out := fmt.Sprintf("Error in command line:\n\n%s%s\n%s\n\n%s%s\n", indent, cmdLineStr, pointerLine, indent, formattedMsg)

	if e.FailingCommand != "" {
		out += fmt.Sprintf("\n%sUsage is:\n", indent)
		for _, line := range strings.Split(GetUsage(e.FailingCommand), "\n") {
			out += fmt.Sprintf("%s%s\n", indent, line)
		}
	} else {
		out += fmt.Sprintf("\n%sRun '%s --help' for usage.\n", indent, version.CommandName)
	}

	return out
}

// CommandGroup represents a parsed group of flags and a command with its arguments
type CommandGroup struct {
	Flags   []string
	Command string
	Args    []string
}

// FullSlice returns the reconstructed slice of strings for the group
func (cg CommandGroup) FullSlice() []string {
	var s []string
	s = append(s, cg.Flags...)
	if cg.Command != "" {
		s = append(s, cg.Command)
	}
	s = append(s, cg.Args...)
	return s
}

// CommandSlice returns the command and its arguments as a slice
func (cg CommandGroup) CommandSlice() []string {
	var s []string
	if cg.Command != "" {
		s = append(s, cg.Command)
	}
	s = append(s, cg.Args...)
	return s
}

var modifiers = map[string]bool{
	"-f": true, "--force": true,
	"-v": true, "--verbose": true,
	"-x": true, "--debug": true,
}

// Parse splits the command line into groups of modifiers followed by one
// command and its arguments.
func Parse(args []string) ([]CommandGroup, error) {
	fs := newFlagSet()

	// Expand combined short flags (e.g. -vc -> -v -c)
	var expandedArgs []string
	for _, arg := range args {
		if strings.HasPrefix(arg, "-") && !strings.HasPrefix(arg, "--") && len(arg) > 2 {
			for _, c := range arg[1:] {
				expandedArgs = append(expandedArgs, fmt.Sprintf("-%c", c))
			}
		} else {
			expandedArgs = append(expandedArgs, arg)
		}
	}

	var groups []CommandGroup
	var currentGroup CommandGroup
	var lastCommand string

	nextIsValue := func(i int) bool {
		return i < len(expandedArgs) && !strings.HasPrefix(expandedArgs[i], "-")
	}

	i := 0
	for i < len(expandedArgs) {
		arg := expandedArgs[i]

		if !strings.HasPrefix(arg, "-") {
			return nil, &ParseError{Args: expandedArgs, Index: i, Message: fmt.Sprintf("invalid option '%s'", arg), FailingCommand: lastCommand}
		}

		if modifiers[arg] {
			currentGroup.Flags = append(currentGroup.Flags, arg)
			lastCommand = arg
			i++
			continue
		}

		// --env-get=VAR form
		cmdToCheck := arg
		if before, _, ok := strings.Cut(cmdToCheck, "="); ok {
			cmdToCheck = before
		}

		cmdName := strings.TrimLeft(cmdToCheck, "-")
		var validFlag *pflag.Flag
		if strings.HasPrefix(cmdToCheck, "--") {
			validFlag = fs.Lookup(cmdName)
		} else if len(cmdName) == 1 {
			validFlag = fs.ShorthandLookup(cmdName)
		}
		if validFlag == nil {
			return nil, &ParseError{Args: expandedArgs, Index: i, Message: "Invalid option %o"}
		}

		// Groups carry the long form so the executor switches on one name.
		cmd := "--" + validFlag.Name
		if cmdToCheck != arg {
			cmd += arg[len(cmdToCheck):]
		}
		currentGroup.Command = cmd
		lastCommand = arg
		i++

		consumesUntilDash := false

		switch validFlag.Name {
		// Any number of arguments, up to the next option
		case "env-get", "env-set", "env-diff", "settings-set":
			if cmdToCheck == arg && !nextIsValue(i) {
				return nil, &ParseError{Args: expandedArgs, Index: i - 1, FailingCommand: arg, Message: fmt.Sprintf("Command %s requires an argument.", arg)}
			}
			consumesUntilDash = true

		// A page: optional format, then optional KEY=VALUE pairs
		case "smtp", "pusher", "piping":
			consumesUntilDash = true

		// Exactly one argument
		case "clear-cache":
			if !nextIsValue(i) {
				return nil, &ParseError{Args: expandedArgs, Index: i - 1, FailingCommand: arg, Message: fmt.Sprintf("Command %s requires an argument.", arg)}
			}
			slug := expandedArgs[i]
			if !slices.Contains(maintenance.Slugs(), slug) {
				return nil, &ParseError{Args: expandedArgs, Index: i, FailingCommand: arg, Message: "Invalid option %o"}
			}
			currentGroup.Args = append(currentGroup.Args, slug)
			i++

		// Optional output format
		case "config-show", "show-config", "settings", "system-update", "update-check":
			if nextIsValue(i) {
				format := expandedArgs[i]
				if _, err := render.New(format); err != nil {
					return nil, &ParseError{Args: expandedArgs, Index: i, FailingCommand: arg, Message: "Invalid option %o"}
				}
				currentGroup.Args = append(currentGroup.Args, format)
				i++
			}

		// Help takes an optional command to describe
		case "help":
			if i < len(expandedArgs) && strings.HasPrefix(expandedArgs[i], "-") {
				currentGroup.Args = append(currentGroup.Args, expandedArgs[i])
				i++
			}

		default:
			// No arguments; stray values are caught on the next iteration.
		}

		if consumesUntilDash {
			for nextIsValue(i) {
				currentGroup.Args = append(currentGroup.Args, expandedArgs[i])
				i++
			}
		}

		groups = append(groups, currentGroup)
		currentGroup = CommandGroup{}
	}

	// Trailing modifiers with no command form their own group.
	if len(currentGroup.Flags) > 0 {
		groups = append(groups, currentGroup)
	}

	return groups, nil
}
