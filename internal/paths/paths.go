package paths

import (
	"HelpdeskAdmin/internal/constants"
	"HelpdeskAdmin/internal/version"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/adrg/xdg"
)

var (
	// ConfigHomeOverride allows overriding the config home for tests.
	ConfigHomeOverride string
	// StateHomeOverride allows overriding the state home for tests.
	StateHomeOverride string
)

func appDirName() string {
	return strings.ToLower(version.CommandName)
}

// GetConfigFilePath returns the absolute path to the hdadmin.toml file.
// It places it in a subdirectory named after the command (e.g., ~/.config/hdadmin/hdadmin.toml).
func GetConfigFilePath() string {
	return filepath.Join(GetConfigDir(), constants.AppConfigFileName)
}

// GetConfigDir returns the absolute path to the configuration directory.
func GetConfigDir() string {
	if ConfigHomeOverride != "" {
		return filepath.Join(ConfigHomeOverride, appDirName())
	}
	if runtime.GOOS == "darwin" {
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".config", appDirName())
	}
	return filepath.Join(xdg.ConfigHome, appDirName())
}

// GetStateDir returns the absolute path to the state directory.
func GetStateDir() string {
	if StateHomeOverride != "" {
		return filepath.Join(StateHomeOverride, appDirName())
	}
	return filepath.Join(xdg.StateHome, appDirName())
}

// GetLogFilePath returns the path of the application log file.
func GetLogFilePath() string {
	return filepath.Join(GetStateDir(), constants.LogFileName)
}

// GetExecDirectory returns the directory of the currently running executable.
func GetExecDirectory() string {
	exe, err := os.Executable()
	if err != nil {
		return "."
	}
	return filepath.Dir(exe)
}
