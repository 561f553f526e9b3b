// Package maintenance maps the helpdesk's symbolic cache commands onto the
// host framework's CLI.
package maintenance

import (
	"HelpdeskAdmin/internal/exec"
	"HelpdeskAdmin/internal/logger"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrUnknownCommand is returned for slugs outside the supported set.
var ErrUnknownCommand = errors.New("unknown maintenance command")

// AllSlug runs every cache command in a fixed order.
const AllSlug = "all"

var commands = map[string]string{
	"config":   "config:cache",
	"optimize": "optimize",
	"cache":    "cache:clear",
	"route":    "route:cache",
	"view":     "view:clear",
}

var allSequence = []string{
	"optimize",
	"cache:clear",
	"route:cache",
	"view:clear",
	"config:cache",
	"clear-compiled",
}

// Slugs returns the accepted slugs in a stable order.
func Slugs() []string {
	return []string{"config", "optimize", "cache", "route", "view", AllSlug}
}

// Resolve returns the host subcommands a slug expands to.
func Resolve(slug string) ([]string, error) {
	if slug == AllSlug {
		return append([]string(nil), allSequence...), nil
	}
	if c, ok := commands[slug]; ok {
		return []string{c}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownCommand, slug)
}

// Executor runs one host command.
type Executor interface {
	Execute(ctx context.Context, c exec.Cmd) (string, error)
}

// HostExecutor runs commands on the host and logs their output.
type HostExecutor struct{}

func (HostExecutor) Execute(ctx context.Context, c exec.Cmd) (string, error) {
	return exec.RunAndLog(ctx, "info", "artisan:debug", "error", "Maintenance command failed.", c)
}

// Runner is the CommandRunner for the helpdesk installation in Dir.
type Runner struct {
	Dir      string
	Command  []string
	Timeout  time.Duration
	Executor Executor
}

// NewRunner builds a Runner from a host command line such as "php artisan".
func NewRunner(dir, command string, timeout time.Duration) *Runner {
	return &Runner{
		Dir:      dir,
		Command:  strings.Fields(command),
		Timeout:  timeout,
		Executor: HostExecutor{},
	}
}

// Run executes the commands for slug in order, stopping at the first failure.
func (r *Runner) Run(ctx context.Context, slug string) error {
	subcommands, err := Resolve(slug)
	if err != nil {
		return err
	}
	if len(r.Command) == 0 {
		return fmt.Errorf("maintenance command is empty")
	}

	if r.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.Timeout)
		defer cancel()
	}

	for _, sub := range subcommands {
		args := append(append([]string(nil), r.Command[1:]...), sub)
		c := exec.Cmd{Dir: r.Dir, Name: r.Command[0], Args: args}
		if _, err := r.Executor.Execute(ctx, c); err != nil {
			return fmt.Errorf("%s: %w", sub, err)
		}
		logger.Debug(ctx, "Ran maintenance command %s", sub)
	}
	return nil
}
