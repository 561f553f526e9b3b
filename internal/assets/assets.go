package assets

import (
	"HelpdeskAdmin/internal/logger"
	"context"
	"embed"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

//go:embed sql defaults
var embeddedFS embed.FS

// Schema returns the SQL that creates the settings, languages and users tables.
func Schema() (string, error) {
	data, err := embeddedFS.ReadFile("sql/schema.sql")
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// EnsurePublicAssets extracts default public files (custom.css) into publicDir
// when they are missing. Existing files are never overwritten.
func EnsurePublicAssets(ctx context.Context, publicDir string) error {
	if err := extractFolder(ctx, "defaults/public", publicDir); err != nil {
		return fmt.Errorf("failed to extract public defaults: %w", err)
	}
	return nil
}

func extractFolder(ctx context.Context, srcDir, destDir string) error {
	return fs.WalkDir(embeddedFS, srcDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		relPath, _ := filepath.Rel(srcDir, path)
		if relPath == "." {
			return nil
		}

		targetPath := filepath.Join(destDir, relPath)

		if d.IsDir() {
			return os.MkdirAll(targetPath, 0755)
		}

		if _, err := os.Stat(targetPath); err == nil {
			return nil
		}

		logger.Info(ctx, "Extracting asset: %s", relPath)

		if err := os.MkdirAll(filepath.Dir(targetPath), 0755); err != nil {
			return err
		}

		srcFile, err := embeddedFS.Open(path)
		if err != nil {
			return err
		}
		defer srcFile.Close()

		destFile, err := os.Create(targetPath)
		if err != nil {
			return err
		}
		defer destFile.Close()

		_, err = io.Copy(destFile, srcFile)
		return err
	})
}
