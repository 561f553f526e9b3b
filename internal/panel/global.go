package panel

import (
	"HelpdeskAdmin/internal/constants"
	"HelpdeskAdmin/internal/logger"
	"HelpdeskAdmin/internal/settings"
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// SettingView is one setting as the global page shows it.
type SettingView struct {
	ID    int64  `json:"id,omitempty" yaml:"id,omitempty" toml:"id,omitempty"`
	Name  string `json:"name" yaml:"name" toml:"name"`
	Slug  string `json:"slug" yaml:"slug" toml:"slug"`
	Type  string `json:"type,omitempty" yaml:"type,omitempty" toml:"type,omitempty"`
	Value any    `json:"value" yaml:"value" toml:"value,omitempty"`
}

// GlobalPage is the payload of the global settings page.
type GlobalPage struct {
	Title     string                 `json:"title" yaml:"title" toml:"title"`
	SiteKey   string                 `json:"site_key" yaml:"site_key" toml:"site_key"`
	Pusher    bool                   `json:"pusher" yaml:"pusher" toml:"pusher"`
	Piping    bool                   `json:"piping" yaml:"piping" toml:"piping"`
	Settings  map[string]SettingView `json:"settings" yaml:"settings" toml:"settings"`
	Languages []settings.Language    `json:"languages" yaml:"languages" toml:"languages"`
	Users     []settings.User        `json:"users" yaml:"users" toml:"users"`
}

// SettingInput is one submitted setting.
type SettingInput struct {
	Slug  string
	Value any
}

// GlobalUpdate is a submission of the global settings form. Branding assets
// are paths to local files that replace the current ones.
type GlobalUpdate struct {
	Settings  []SettingInput
	Logo      string
	LogoWhite string
	Favicon   string
}

// Value returns the submitted value for slug.
func (u GlobalUpdate) Value(slug string) (any, bool) {
	for _, in := range u.Settings {
		if in.Slug == slug {
			return in.Value, true
		}
	}
	return nil, false
}

func (p *Panel) customCSSPath() string {
	return filepath.Join(p.conf.PublicDir, filepath.FromSlash(constants.CustomCSSPath))
}

// configured reports whether every key holds a non-blank value.
func (p *Panel) configured(keys []string) (bool, error) {
	missing, err := p.env.Missing(keys...)
	if err != nil {
		return false, err
	}
	return len(missing) == 0, nil
}

// Index builds the global settings page.
func (p *Panel) Index(ctx context.Context) (GlobalPage, error) {
	siteKey, err := p.env.Get(constants.RecaptchaSecretKey)
	if err != nil {
		return GlobalPage{}, err
	}
	pusher, err := p.configured(constants.PusherSetupKeys)
	if err != nil {
		return GlobalPage{}, err
	}
	piping, err := p.configured(constants.PipingKeys)
	if err != nil {
		return GlobalPage{}, err
	}

	entries, err := p.repo.List(ctx)
	if err != nil {
		return GlobalPage{}, err
	}

	views := make(map[string]SettingView, len(entries)+1)
	for _, e := range entries {
		v, err := e.Decoded()
		if err != nil {
			return GlobalPage{}, err
		}
		views[e.Slug] = SettingView{ID: e.ID, Name: e.Name, Slug: e.Slug, Type: e.Type, Value: v}
	}

	css, err := os.ReadFile(p.customCSSPath())
	if err != nil {
		return GlobalPage{}, fmt.Errorf("read custom css: %w", err)
	}
	views[constants.CustomCSSSlug] = SettingView{Slug: constants.CustomCSSSlug, Name: "Custom CSS", Value: string(css)}

	languages, err := p.repo.Languages(ctx)
	if err != nil {
		return GlobalPage{}, err
	}
	users, err := p.repo.Users(ctx)
	if err != nil {
		return GlobalPage{}, err
	}

	return GlobalPage{
		Title:     "Global Settings",
		SiteKey:   siteKey,
		Pusher:    pusher,
		Piping:    piping,
		Settings:  views,
		Languages: languages,
		Users:     users,
	}, nil
}

// UpdateGlobal saves the global settings form.
func (p *Panel) UpdateGlobal(ctx context.Context, u GlobalUpdate) (Flash, error) {
	if p.demo {
		return p.demoGate("Updating global settings is not allowed in demo mode.")
	}

	if css, ok := u.Value(constants.CustomCSSSlug); ok && !isEmpty(css) {
		if err := writeFile(p.customCSSPath(), strings.NewReader(toString(css))); err != nil {
			return Flash{}, fmt.Errorf("write custom css: %w", err)
		}
	}

	if key, ok := u.Value(constants.SiteKeySlug); ok && !isEmpty(key) {
		if err := p.env.Upsert(ctx, constants.RecaptchaSecretKey, toString(key)); err != nil {
			return Flash{}, err
		}
	}

	for _, in := range u.Settings {
		if in.Slug == constants.CustomCSSSlug {
			continue
		}
		if _, err := p.repo.Put(ctx, in.Slug, in.Value); err != nil {
			return Flash{}, err
		}
	}

	branding := []struct {
		src string
		dst string
	}{
		{u.Logo, filepath.Join(p.conf.ImagesDir, constants.LogoFileName)},
		{u.LogoWhite, filepath.Join(p.conf.ImagesDir, constants.LogoWhiteFileName)},
		{u.Favicon, filepath.Join(p.conf.PublicDir, constants.FaviconFileName)},
	}
	for _, b := range branding {
		if b.src == "" {
			continue
		}
		if err := copyFile(b.src, b.dst); err != nil {
			return Flash{}, err
		}
		logger.Info(ctx, "Replaced %s", b.dst)
		if err := p.runner.Run(ctx, "cache"); err != nil {
			return Flash{}, err
		}
	}

	if lang, ok := u.Value(constants.DefaultLanguageSlug); ok && !isEmpty(lang) {
		n, err := p.repo.SetLocaleForUsers(ctx, toString(lang))
		if err != nil {
			return Flash{}, err
		}
		logger.Debug(ctx, "Switched %d users to locale %s", n, toString(lang))
	}

	return success("Settings updated."), nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("open %s: %w", src, err)
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return fmt.Errorf("stat %s: %w", src, err)
	}
	if info.IsDir() {
		return fmt.Errorf("copy %s: %w", src, fs.ErrInvalid)
	}
	return writeFile(dst, in)
}

func writeFile(path string, r io.Reader) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	out, err := os.Create(path)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, r); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}

// isEmpty follows the form semantics of the helpdesk: nil, "", "0", false
// and empty collections count as not submitted.
func isEmpty(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return t == "" || t == "0"
	case bool:
		return !t
	case int:
		return t == 0
	case int64:
		return t == 0
	case float64:
		return t == 0
	case []any:
		return len(t) == 0
	case []string:
		return len(t) == 0
	case map[string]any:
		return len(t) == 0
	default:
		return false
	}
}

func toString(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}
