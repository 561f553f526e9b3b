package version

import (
	"os"
	"path/filepath"
	"strings"
)

// ApplicationName is the human-readable name of the application.
var ApplicationName = "HelpdeskAdmin"

// CommandName is the name of the executable command (e.g., "hdadmin").
// It is initialized dynamically from the executable filename.
var CommandName = "hdadmin"

// Version is the current version of the tool itself (not of the helpdesk it manages).
// This is intended to be overwritten at build time using:
// -ldflags "-X HelpdeskAdmin/internal/version.Version=v1.2.3"
var Version = "v0.0.0-dev"

// Commit is the git commit hash of the build.
var Commit = "none"

// BuildDate is the date the binary was built.
var BuildDate = "unknown"

func init() {
	exePath := os.Args[0]
	baseName := filepath.Base(exePath)
	ext := filepath.Ext(baseName)
	CommandName = strings.TrimSuffix(baseName, ext)

	// Fallback to "hdadmin" for `go run` and test binaries
	if strings.EqualFold(CommandName, ApplicationName) || strings.EqualFold(CommandName, "main") || strings.HasSuffix(CommandName, ".test") {
		CommandName = "hdadmin"
	}
}
