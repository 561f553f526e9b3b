// Package panel implements the helpdesk's admin settings operations on top
// of the env file, the settings table and the host framework's CLI.
package panel

import (
	"HelpdeskAdmin/internal/config"
	"HelpdeskAdmin/internal/envfile"
	"HelpdeskAdmin/internal/settings"
	"HelpdeskAdmin/internal/update"
	"context"
	"errors"
)

// ErrDemoMode is returned by every mutation while demo mode is on.
var ErrDemoMode = errors.New("not allowed in demo mode")

// Flash kinds.
const (
	FlashSuccess = "success"
	FlashError   = "error"
)

// Flash is the status message shown after a mutation.
type Flash struct {
	Kind    string `json:"kind" yaml:"kind" toml:"kind"`
	Message string `json:"message" yaml:"message" toml:"message"`
}

func success(msg string) Flash { return Flash{Kind: FlashSuccess, Message: msg} }

// EnvStore is the env file as the panel uses it.
type EnvStore interface {
	Upsert(ctx context.Context, key, value string) error
	UpsertMany(ctx context.Context, entries []envfile.Entry) ([]string, error)
	Values() (map[string]string, error)
	Get(key string) (string, error)
	GetDefault(key, def string) (string, error)
	Missing(keys ...string) ([]string, error)
}

// SettingsRepository is the settings table plus the users and languages the
// global page shows.
type SettingsRepository interface {
	Find(ctx context.Context, slug string) (*settings.Entry, error)
	Save(ctx context.Context, e *settings.Entry) error
	Put(ctx context.Context, slug string, value any) (*settings.Entry, error)
	List(ctx context.Context) ([]settings.Entry, error)
	Languages(ctx context.Context) ([]settings.Language, error)
	Users(ctx context.Context) ([]settings.User, error)
	SetLocaleForUsers(ctx context.Context, locale string) (int64, error)
}

// CommandRunner runs a named maintenance command.
type CommandRunner interface {
	Run(ctx context.Context, slug string) error
}

// UpdateChecker looks for a newer release.
type UpdateChecker interface {
	Check(ctx context.Context, current string) (update.Result, error)
}

// CheckerFactory builds an UpdateChecker authenticated with token.
type CheckerFactory func(token string) (UpdateChecker, error)

// Panel holds the collaborators of the settings operations.
type Panel struct {
	env     EnvStore
	repo    SettingsRepository
	runner  CommandRunner
	checker CheckerFactory
	conf    config.AppConfig
	demo    bool
}

// New returns a Panel for the installation described by conf.
func New(conf config.AppConfig, env EnvStore, repo SettingsRepository, runner CommandRunner, checker CheckerFactory) *Panel {
	return &Panel{
		env:     env,
		repo:    repo,
		runner:  runner,
		checker: checker,
		conf:    conf,
		demo:    conf.Helpdesk.Demo,
	}
}

// Demo reports whether mutations are disabled.
func (p *Panel) Demo() bool {
	return p.demo
}

func (p *Panel) demoGate(msg string) (Flash, error) {
	return Flash{Kind: FlashError, Message: msg}, ErrDemoMode
}
