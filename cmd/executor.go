package cmd

import (
	"HelpdeskAdmin/internal/assets"
	"HelpdeskAdmin/internal/config"
	"HelpdeskAdmin/internal/envfile"
	"HelpdeskAdmin/internal/logger"
	"HelpdeskAdmin/internal/maintenance"
	"HelpdeskAdmin/internal/panel"
	"HelpdeskAdmin/internal/render"
	"HelpdeskAdmin/internal/settings"
	"HelpdeskAdmin/internal/update"
	"HelpdeskAdmin/internal/version"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sort"
	"strings"
	"time"
)

// CmdState holds the state of flags for a single command group.
type CmdState struct {
	Force bool
}

// app lazily opens the collaborators the commands need.
type app struct {
	conf  config.AppConfig
	env   *envfile.Store
	repo  *settings.Store
	panel *panel.Panel
}

func newApp(conf config.AppConfig) *app {
	return &app{conf: conf, env: envfile.New(conf.EnvFile)}
}

// Panel opens the settings database and builds the panel on first use.
func (a *app) Panel(ctx context.Context) (*panel.Panel, error) {
	if a.panel != nil {
		return a.panel, nil
	}

	if err := assets.EnsurePublicAssets(ctx, a.conf.PublicDir); err != nil {
		return nil, err
	}

	repo := settings.NewStore(a.conf.DatabasePath)
	if err := repo.Init(); err != nil {
		return nil, fmt.Errorf("open settings database: %w", err)
	}
	a.repo = repo

	runner := maintenance.NewRunner(a.conf.RootDir, a.conf.Maintenance.Command, a.conf.Maintenance.Timeout())
	checker := func(token string) (panel.UpdateChecker, error) {
		return update.NewChecker(a.conf.Update, token, &http.Client{Timeout: 30 * time.Second})
	}
	a.panel = panel.New(a.conf, a.env, repo, runner, checker)
	return a.panel, nil
}

func (a *app) Close() {
	if a.repo != nil {
		_ = a.repo.Close()
	}
}

// Execute runs the logic for a sequence of command groups.
// It handles flag application, command switching, and state resetting.
// Execution stops at the first failing command.
func Execute(ctx context.Context, groups []CommandGroup) int {
	conf, err := config.LoadAppConfig()
	if err != nil {
		logger.Error(ctx, "Failed to load configuration: %v", err)
		return 1
	}

	a := newApp(conf)
	defer a.Close()

	ranCommand := false

	for _, group := range groups {
		state := CmdState{}

		for _, flag := range group.Flags {
			switch flag {
			case "-v", "--verbose":
				logger.SetLevel(logger.LevelInfo)
			case "-x", "--debug":
				logger.SetLevel(logger.LevelDebug)
			case "-f", "--force":
				state.Force = true
			}
		}

		cmdStr := version.CommandName
		for _, part := range group.FullSlice() {
			cmdStr += " " + part
		}
		logger.Info(ctx, "%s command: '%s'", version.ApplicationName, cmdStr)
		logger.Debug(ctx, "Execution Args -> State: %+v, Command: %v", state, group.CommandSlice())

		baseCmd, _, _ := strings.Cut(group.Command, "=")

		var err error
		switch baseCmd {
		case "--help":
			handleHelp(ctx, &group)
		case "--version":
			handleVersion(ctx)
		case "--config-show", "--show-config":
			err = handleConfigShow(ctx, &group, &conf)
		case "--env-get":
			err = handleEnvGet(ctx, &group, a)
		case "--env-set":
			err = handleEnvSet(ctx, &group, &state, a)
		case "--env-diff":
			err = handleEnvDiff(ctx, &group, a)
		case "--env-watch":
			err = handleEnvWatch(ctx, a)
		case "--settings":
			err = handleSettings(ctx, &group, a)
		case "--settings-set":
			err = handleSettingsSet(ctx, &group, a)
		case "--smtp":
			err = handleSMTP(ctx, &group, a)
		case "--pusher":
			err = handlePusher(ctx, &group, a)
		case "--piping":
			err = handlePiping(ctx, &group, a)
		case "--clear-cache":
			err = handleClearCache(ctx, &group, a)
		case "--system-update":
			err = handleSystemUpdate(ctx, &group, a)
		case "--update-check":
			err = handleUpdateCheck(ctx, &group, a)
		default:
			// Only modifiers in this group.
		}
		if group.Command != "" {
			ranCommand = true
		}

		// Flags only apply to their own group.
		logger.SetLevel(logger.LevelNotice)

		if err != nil {
			reportError(ctx, err)
			return 1
		}
	}

	if !ranCommand {
		PrintHelp(ctx, "")
	}

	return 0
}

// reportError logs err, listing each field of a validation failure.
func reportError(ctx context.Context, err error) {
	var verr *panel.ValidationError
	if errors.As(err, &verr) {
		keys := make([]string, 0, len(verr.Fields))
		for k := range verr.Fields {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			logger.Error(ctx, verr.Fields[k])
		}
		return
	}
	logger.Error(ctx, "%v", err)
}

func reportFlash(ctx context.Context, flash panel.Flash) {
	if flash.Kind == panel.FlashError {
		logger.Error(ctx, flash.Message)
		return
	}
	logger.Notice(ctx, flash.Message)
}

// display renders v in format through logger.Display.
func display(ctx context.Context, format string, v any) error {
	r, err := render.New(format)
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := r.Render(&buf, v); err != nil {
		return err
	}
	logger.Display(ctx, strings.TrimRight(buf.String(), "\n"))
	return nil
}

func firstArg(group *CommandGroup) string {
	if len(group.Args) > 0 {
		return group.Args[0]
	}
	return ""
}

// commandArgs returns the arguments of group, including the one given
// as --cmd=value.
func commandArgs(group *CommandGroup) []string {
	if _, val, ok := strings.Cut(group.Command, "="); ok {
		return append([]string{val}, group.Args...)
	}
	return group.Args
}

// splitPairs turns KEY=VALUE arguments into ordered entries.
func splitPairs(args []string) ([]envfile.Entry, error) {
	entries := make([]envfile.Entry, 0, len(args))
	for _, arg := range args {
		key, val, ok := strings.Cut(arg, "=")
		if !ok {
			return nil, fmt.Errorf("argument %s missing '='", arg)
		}
		entries = append(entries, envfile.Entry{Key: key, Value: val})
	}
	return entries, nil
}

// formatAndPairs splits page arguments into an optional leading format
// and KEY=VALUE pairs.
func formatAndPairs(args []string) (string, []envfile.Entry, error) {
	format := ""
	if len(args) > 0 && !strings.Contains(args[0], "=") {
		format = args[0]
		args = args[1:]
	}
	if _, err := render.New(format); err != nil {
		return "", nil, err
	}
	pairs, err := splitPairs(args)
	return format, pairs, err
}

func pairMap(pairs []envfile.Entry) map[string]string {
	m := make(map[string]string, len(pairs))
	for _, p := range pairs {
		m[p.Key] = p.Value
	}
	return m
}

func handleHelp(ctx context.Context, group *CommandGroup) {
	PrintHelp(ctx, firstArg(group))
}

func handleVersion(ctx context.Context) {
	logger.Display(ctx, "%s [%s]", version.ApplicationName, version.Version)
	if version.Commit != "" && version.Commit != "none" {
		logger.Display(ctx, "Commit: %s", version.Commit)
	}
	if version.BuildDate != "" && version.BuildDate != "unknown" {
		logger.Display(ctx, "Built:  %s", version.BuildDate)
	}
}

func handleConfigShow(ctx context.Context, group *CommandGroup, conf *config.AppConfig) error {
	view := struct {
		config.AppConfig `yaml:",inline"`
		Resolved         map[string]string `json:"resolved" yaml:"resolved" toml:"resolved"`
	}{
		AppConfig: *conf,
		Resolved: map[string]string{
			"root":       conf.RootDir,
			"env_file":   conf.EnvFile,
			"public_dir": conf.PublicDir,
			"images_dir": conf.ImagesDir,
			"database":   conf.DatabasePath,
		},
	}
	return display(ctx, firstArg(group), view)
}

func handleEnvGet(ctx context.Context, group *CommandGroup, a *app) error {
	values, err := a.env.Values()
	if err != nil {
		return err
	}
	for _, key := range commandArgs(group) {
		if err := envfile.ValidateKey(key); err != nil {
			return err
		}
		// One line per key, empty when unset
		logger.Display(ctx, values[key])
	}
	return nil
}

func handleEnvSet(ctx context.Context, group *CommandGroup, state *CmdState, a *app) error {
	var entries []envfile.Entry
	if _, param, ok := strings.Cut(group.Command, "="); ok {
		// --env-set=VAR,VAL
		key, val, found := strings.Cut(param, ",")
		if !found {
			return fmt.Errorf("command %s requires a variable name and a value (separated by comma)", group.Command)
		}
		entries = append(entries, envfile.Entry{Key: key, Value: val})
	}
	pairs, err := splitPairs(group.Args)
	if err != nil {
		return err
	}
	entries = append(entries, pairs...)

	if !state.Force {
		changed := entries[:0]
		for _, e := range entries {
			diff, err := a.env.Preview(e.Key, e.Value)
			if err != nil {
				return err
			}
			if diff == "" {
				logger.Info(ctx, "%s is already set", e.Key)
				continue
			}
			changed = append(changed, e)
		}
		entries = changed
	}

	written, err := a.env.UpsertMany(ctx, entries)
	for _, key := range written {
		logger.Info(ctx, "Set %s in %s", key, a.env.Path())
	}
	return err
}

func handleEnvDiff(ctx context.Context, group *CommandGroup, a *app) error {
	pairs, err := splitPairs(commandArgs(group))
	if err != nil {
		return err
	}
	for _, p := range pairs {
		diff, err := a.env.Preview(p.Key, p.Value)
		if err != nil {
			return err
		}
		if diff == "" {
			logger.Notice(ctx, "%s: no change", p.Key)
			continue
		}
		logger.Display(ctx, strings.TrimRight(diff, "\n"))
	}
	return nil
}

func handleEnvWatch(ctx context.Context, a *app) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	logger.Notice(ctx, "Watching %s, press Ctrl-C to stop", a.env.Path())
	return a.env.Watch(ctx, func(op string) {
		logger.Notice(ctx, "%s changed (%s)", a.env.Path(), op)
	})
}

func handleSettings(ctx context.Context, group *CommandGroup, a *app) error {
	p, err := a.Panel(ctx)
	if err != nil {
		return err
	}
	page, err := p.Index(ctx)
	if err != nil {
		return err
	}
	return display(ctx, firstArg(group), page)
}

func handleSettingsSet(ctx context.Context, group *CommandGroup, a *app) error {
	pairs, err := splitPairs(commandArgs(group))
	if err != nil {
		return err
	}

	var u panel.GlobalUpdate
	for _, pair := range pairs {
		switch pair.Key {
		case "logo":
			u.Logo = pair.Value
		case "logo_white":
			u.LogoWhite = pair.Value
		case "favicon":
			u.Favicon = pair.Value
		default:
			value, err := settingValue(pair.Key, pair.Value)
			if err != nil {
				return err
			}
			u.Settings = append(u.Settings, panel.SettingInput{Slug: pair.Key, Value: value})
		}
	}

	p, err := a.Panel(ctx)
	if err != nil {
		return err
	}
	flash, err := p.UpdateGlobal(ctx, u)
	return finishUpdate(ctx, flash, err)
}

// settingValue decodes JSON-typed settings given on the command line.
func settingValue(slug, raw string) (any, error) {
	if !settings.IsJSONSlug(slug) {
		return raw, nil
	}
	var v any
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		return nil, fmt.Errorf("%s expects a JSON value: %w", slug, err)
	}
	return v, nil
}

func handleSMTP(ctx context.Context, group *CommandGroup, a *app) error {
	format, pairs, err := formatAndPairs(group.Args)
	if err != nil {
		return err
	}
	p, err := a.Panel(ctx)
	if err != nil {
		return err
	}

	if len(pairs) == 0 {
		page, err := p.SMTP(ctx)
		if err != nil {
			return err
		}
		return display(ctx, format, page)
	}

	flash, err := p.UpdateSMTP(ctx, pairMap(pairs))
	return finishUpdate(ctx, flash, err)
}

func handlePusher(ctx context.Context, group *CommandGroup, a *app) error {
	format, pairs, err := formatAndPairs(group.Args)
	if err != nil {
		return err
	}
	p, err := a.Panel(ctx)
	if err != nil {
		return err
	}

	if len(pairs) == 0 {
		page, err := p.Pusher(ctx)
		if err != nil {
			return err
		}
		return display(ctx, format, page)
	}

	flash, err := p.UpdatePusher(ctx, pairMap(pairs))
	return finishUpdate(ctx, flash, err)
}

func handlePiping(ctx context.Context, group *CommandGroup, a *app) error {
	format, pairs, err := formatAndPairs(group.Args)
	if err != nil {
		return err
	}
	p, err := a.Panel(ctx)
	if err != nil {
		return err
	}

	if len(pairs) == 0 {
		page, err := p.Piping(ctx)
		if err != nil {
			return err
		}
		return display(ctx, format, page)
	}

	values := pairMap(pairs)
	u := panel.PipingUpdate{Values: values}
	if v, ok := values["enable_piping"]; ok {
		u.EnablePiping = v
		delete(values, "enable_piping")
	}
	flash, err := p.UpdatePiping(ctx, u)
	return finishUpdate(ctx, flash, err)
}

// finishUpdate reports the flash of a mutation. Demo mode refusals are
// reported but do not fail the run.
func finishUpdate(ctx context.Context, flash panel.Flash, err error) error {
	if errors.Is(err, panel.ErrDemoMode) {
		reportFlash(ctx, flash)
		return nil
	}
	if err != nil {
		return err
	}
	reportFlash(ctx, flash)
	return nil
}

func handleClearCache(ctx context.Context, group *CommandGroup, a *app) error {
	p, err := a.Panel(ctx)
	if err != nil {
		return err
	}
	return p.ClearCache(ctx, firstArg(group))
}

func handleSystemUpdate(ctx context.Context, group *CommandGroup, a *app) error {
	p, err := a.Panel(ctx)
	if err != nil {
		return err
	}
	page, err := p.SystemUpdate(ctx)
	if err != nil {
		return err
	}
	return display(ctx, firstArg(group), page)
}

func handleUpdateCheck(ctx context.Context, group *CommandGroup, a *app) error {
	p, err := a.Panel(ctx)
	if err != nil {
		return err
	}
	res, err := p.SystemUpdateCheck(ctx)
	if err != nil {
		return err
	}
	if res.Version == "" {
		logger.Notice(ctx, "The helpdesk is up to date.")
	} else {
		logger.Notice(ctx, "Version %s is available.", res.Version)
	}
	return display(ctx, firstArg(group), res)
}
