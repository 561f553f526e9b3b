// Package update asks GitHub whether a newer helpdesk release exists and
// which files it changes.
package update

import (
	"HelpdeskAdmin/internal/config"
	"HelpdeskAdmin/internal/logger"
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/go-github/v74/github"
)

// File is one changed file between the current version and the latest tag.
type File struct {
	Filename  string `json:"filename" yaml:"filename" toml:"filename"`
	Status    string `json:"status" yaml:"status" toml:"status"`
	Additions int    `json:"additions" yaml:"additions" toml:"additions"`
	Deletions int    `json:"deletions" yaml:"deletions" toml:"deletions"`
	Changes   int    `json:"changes" yaml:"changes" toml:"changes"`
}

// Result is the outcome of an update check. Version is empty when the
// installation is current, and Files is then empty too.
type Result struct {
	Version string `json:"version" yaml:"version" toml:"version"`
	Files   []File `json:"files" yaml:"files" toml:"files"`
}

// Checker queries the release repository.
type Checker struct {
	client *github.Client
	owner  string
	repo   string
}

// NewChecker builds a Checker for cfg.Repository. An empty token sends
// unauthenticated requests.
func NewChecker(cfg config.UpdateConfig, token string, httpClient *http.Client) (*Checker, error) {
	owner, repo, ok := strings.Cut(cfg.Repository, "/")
	if !ok || owner == "" || repo == "" {
		return nil, fmt.Errorf("invalid repository %q, expected owner/name", cfg.Repository)
	}

	client := github.NewClient(httpClient)
	if token != "" {
		client = client.WithAuthToken(token)
	}
	if cfg.APIBaseURL != "" {
		base := cfg.APIBaseURL
		if !strings.HasSuffix(base, "/") {
			base += "/"
		}
		u, err := url.Parse(base)
		if err != nil {
			return nil, fmt.Errorf("invalid api base url: %w", err)
		}
		client.BaseURL = u
	}

	return &Checker{client: client, owner: owner, repo: repo}, nil
}

// Latest returns the latest release tag when it is newer than current,
// otherwise an empty string. A repository without releases is not an error.
func (c *Checker) Latest(ctx context.Context, current string) (string, error) {
	release, resp, err := c.client.Repositories.GetLatestRelease(ctx, c.owner, c.repo)
	if err != nil {
		if resp != nil && resp.StatusCode == http.StatusNotFound {
			logger.Debug(ctx, "No releases published for %s/%s", c.owner, c.repo)
			return "", nil
		}
		return "", fmt.Errorf("latest release: %w", err)
	}

	tag := release.GetTagName()
	if !IsNewer(current, tag) {
		logger.Debug(ctx, "Latest release %q is not newer than %q", tag, current)
		return "", nil
	}
	return tag, nil
}

// Check looks for a newer release and lists the files changed between
// current and that release.
func (c *Checker) Check(ctx context.Context, current string) (Result, error) {
	result := Result{Files: []File{}}

	tag, err := c.Latest(ctx, current)
	if err != nil || tag == "" {
		return result, err
	}
	result.Version = tag

	comparison, _, err := c.client.Repositories.CompareCommits(ctx, c.owner, c.repo, current, tag, nil)
	if err != nil {
		return result, fmt.Errorf("compare %s...%s: %w", current, tag, err)
	}

	for _, f := range comparison.Files {
		result.Files = append(result.Files, File{
			Filename:  f.GetFilename(),
			Status:    f.GetStatus(),
			Additions: f.GetAdditions(),
			Deletions: f.GetDeletions(),
			Changes:   f.GetChanges(),
		})
	}
	logger.Info(ctx, "Release %s changes %d files", tag, len(result.Files))
	return result, nil
}
