package panel

import (
	"HelpdeskAdmin/internal/constants"
	"HelpdeskAdmin/internal/envfile"
	"HelpdeskAdmin/internal/logger"
	"HelpdeskAdmin/internal/update"
	"context"
	"fmt"
)

// UpdatePage is the payload of the system update page.
type UpdatePage struct {
	Title          string `json:"title" yaml:"title" toml:"title"`
	CurrentVersion string `json:"current_version" yaml:"current_version" toml:"current_version"`
	Demo           bool   `json:"demo" yaml:"demo" toml:"demo"`
}

// ClearCache runs the maintenance command named by slug.
func (p *Panel) ClearCache(ctx context.Context, slug string) error {
	if err := p.runner.Run(ctx, slug); err != nil {
		return err
	}
	logger.Notice(ctx, "Ran maintenance command '%s'", slug)
	return nil
}

func (p *Panel) currentVersion() (string, error) {
	return p.env.GetDefault(constants.VersionKey, p.conf.Update.DefaultVersion)
}

// SystemUpdate builds the system update page.
func (p *Panel) SystemUpdate(ctx context.Context) (UpdatePage, error) {
	current, err := p.currentVersion()
	if err != nil {
		return UpdatePage{}, err
	}
	return UpdatePage{Title: "System Update", CurrentVersion: current, Demo: p.demo}, nil
}

// SystemUpdateCheck asks the release repository for a newer version and the
// files it changes.
func (p *Panel) SystemUpdateCheck(ctx context.Context) (update.Result, error) {
	current, err := p.currentVersion()
	if err != nil {
		return update.Result{}, err
	}

	token, err := p.env.Get(p.conf.Update.TokenKey)
	if err != nil {
		return update.Result{}, err
	}
	if envfile.Blank(token) {
		logger.Warn(ctx, "%s is not set in %s, checking for updates without authentication", p.conf.Update.TokenKey, p.conf.EnvFile)
		token = ""
	}

	checker, err := p.checker(token)
	if err != nil {
		return update.Result{}, fmt.Errorf("update checker: %w", err)
	}

	logger.Debug(ctx, "Checking for updates newer than %s", current)
	return checker.Check(ctx, current)
}
