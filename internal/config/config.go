package config

import (
	"HelpdeskAdmin/internal/constants"
	"HelpdeskAdmin/internal/paths"
	"fmt"
	"os"
	"os/user"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"
	toml "github.com/pelletier/go-toml/v2"
)

// RootEnvVar overrides [helpdesk].root when set.
const RootEnvVar = "HDADMIN_ROOT"

// AppConfig holds the application configuration settings.
type AppConfig struct {
	Helpdesk    HelpdeskConfig    `toml:"helpdesk" json:"helpdesk" yaml:"helpdesk"`
	Maintenance MaintenanceConfig `toml:"maintenance" json:"maintenance" yaml:"maintenance"`
	Update      UpdateConfig      `toml:"update" json:"update" yaml:"update"`

	// Resolved absolute paths, not saved to TOML
	RootDir      string `toml:"-" json:"-" yaml:"-"`
	EnvFile      string `toml:"-" json:"-" yaml:"-"`
	PublicDir    string `toml:"-" json:"-" yaml:"-"`
	ImagesDir    string `toml:"-" json:"-" yaml:"-"`
	DatabasePath string `toml:"-" json:"-" yaml:"-"`
}

// HelpdeskConfig locates the helpdesk installation being administered.
type HelpdeskConfig struct {
	Root      string `toml:"root" json:"root" yaml:"root"`
	EnvFile   string `toml:"env_file" json:"env_file" yaml:"env_file"`       // relative to root unless absolute
	PublicDir string `toml:"public_dir" json:"public_dir" yaml:"public_dir"` // relative to root unless absolute
	ImagesDir string `toml:"images_dir" json:"images_dir" yaml:"images_dir"` // relative to root unless absolute
	Database  string `toml:"database" json:"database" yaml:"database"`       // relative to root unless absolute
	Demo      bool   `toml:"demo" json:"demo" yaml:"demo"`
}

// MaintenanceConfig describes how to reach the host framework's CLI.
type MaintenanceConfig struct {
	Command        string `toml:"command" json:"command" yaml:"command"`
	TimeoutSeconds int    `toml:"timeout_seconds" json:"timeout_seconds" yaml:"timeout_seconds"`
}

// UpdateConfig describes where releases of the helpdesk are published.
type UpdateConfig struct {
	Repository     string `toml:"repository" json:"repository" yaml:"repository"` // owner/name
	APIBaseURL     string `toml:"api_base_url" json:"api_base_url" yaml:"api_base_url"`
	TokenKey       string `toml:"token_key" json:"token_key" yaml:"token_key"`    // env file key holding the bearer token
	DefaultVersion string `toml:"default_version" json:"default_version" yaml:"default_version"`
}

// Timeout returns the maintenance command timeout.
func (m MaintenanceConfig) Timeout() time.Duration {
	if m.TimeoutSeconds <= 0 {
		return 2 * time.Minute
	}
	return time.Duration(m.TimeoutSeconds) * time.Second
}

// Default returns the configuration used when no file exists yet.
func Default() AppConfig {
	return AppConfig{
		Helpdesk: HelpdeskConfig{
			Root:      "${HOME}/helpdesk",
			EnvFile:   constants.EnvFileName,
			PublicDir: "public",
			ImagesDir: "public/images",
			Database:  filepath.Join("database", constants.DatabaseFileName),
		},
		Maintenance: MaintenanceConfig{
			Command:        "php artisan",
			TimeoutSeconds: 120,
		},
		Update: UpdateConfig{
			Repository:     "Aasifdev5/helpdesk",
			APIBaseURL:     "https://api.github.com/",
			TokenKey:       constants.GitHubTokenKey,
			DefaultVersion: "1.0.0",
		},
	}
}

// ExpandVariables expands environment variables in the config values.
// It supports:
// - ${XDG_CONFIG_HOME} -> xdg.ConfigHome
// - ${XDG_DATA_HOME}   -> xdg.DataHome
// - ${XDG_STATE_HOME}  -> xdg.StateHome
// - ${HOME}            -> os.UserHomeDir()
// - ${USER}            -> Current username
// Anything else is looked up in the process environment.
func ExpandVariables(val string) string {
	mapper := func(varName string) string {
		switch varName {
		case "XDG_CONFIG_HOME":
			return xdg.ConfigHome
		case "XDG_DATA_HOME":
			return xdg.DataHome
		case "XDG_STATE_HOME":
			return xdg.StateHome
		case "HOME":
			home, err := os.UserHomeDir()
			if err != nil {
				return ""
			}
			return home
		case "USER":
			u, err := user.Current()
			if err != nil {
				return os.Getenv("USERNAME") // Fallback for Windows
			}
			return u.Username
		}
		return os.Getenv(varName)
	}
	return os.Expand(val, mapper)
}

// Resolve fills the runtime path fields from the TOML values.
func (c *AppConfig) Resolve() {
	root := c.Helpdesk.Root
	if override := strings.TrimSpace(os.Getenv(RootEnvVar)); override != "" {
		root = override
	}
	c.RootDir = filepath.Clean(ExpandVariables(root))

	resolve := func(p string) string {
		p = ExpandVariables(p)
		if filepath.IsAbs(p) {
			return filepath.Clean(p)
		}
		return filepath.Join(c.RootDir, p)
	}
	c.EnvFile = resolve(c.Helpdesk.EnvFile)
	c.PublicDir = resolve(c.Helpdesk.PublicDir)
	c.ImagesDir = resolve(c.Helpdesk.ImagesDir)
	c.DatabasePath = resolve(c.Helpdesk.Database)
}

// LoadAppConfig reads the configuration file. When the file does not exist
// the defaults are saved to it first.
func LoadAppConfig() (AppConfig, error) {
	conf := Default()

	path := paths.GetConfigFilePath()
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := toml.Unmarshal(data, &conf); err != nil {
			return conf, fmt.Errorf("parse %s: %w", path, err)
		}
	case os.IsNotExist(err):
		if err := SaveAppConfig(conf); err != nil {
			return conf, fmt.Errorf("write default config: %w", err)
		}
	default:
		return conf, fmt.Errorf("read %s: %w", path, err)
	}

	conf.Resolve()
	return conf, nil
}

// SaveAppConfig writes the configuration to hdadmin.toml.
func SaveAppConfig(conf AppConfig) error {
	path := paths.GetConfigFilePath()

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	data, err := toml.Marshal(conf)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}
