// Author: Kaviru Hapuarachchi
// GitHub: https://github.com/Kavirubc
// Created: 2026-10-16
// Last Modified: 2026-10-16

// Package git reads repository metadata from the local checkout.
package git

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	gogit "github.com/go-git/go-git/v5"
)

// ErrNoGitHubRemote is returned when the checkout has no GitHub origin.
var ErrNoGitHubRemote = errors.New("no GitHub remote found")

// DetectRepository returns "owner/repo" for the named remote of the git
// checkout containing dir. Parent directories are searched for .git.
func DetectRepository(dir, remoteName string) (string, error) {
	repo, err := gogit.PlainOpenWithOptions(dir, &gogit.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return "", fmt.Errorf("failed to open git repository: %w", err)
	}

	remote, err := repo.Remote(remoteName)
	if err != nil {
		return "", fmt.Errorf("failed to read remote %q: %w", remoteName, err)
	}

	for _, u := range remote.Config().URLs {
		if fullName, ok := ParseGitHubURL(u); ok {
			return fullName, nil
		}
	}
	return "", ErrNoGitHubRemote
}

// ParseGitHubURL extracts "owner/repo" from the common GitHub remote forms:
// https://github.com/owner/repo(.git), git@github.com:owner/repo(.git) and
// ssh://git@github.com/owner/repo(.git).
func ParseGitHubURL(raw string) (string, bool) {
	raw = strings.TrimSpace(raw)
	var path string

	switch {
	case strings.HasPrefix(raw, "git@github.com:"):
		path = strings.TrimPrefix(raw, "git@github.com:")
	default:
		u, err := url.Parse(raw)
		if err != nil || !strings.EqualFold(u.Hostname(), "github.com") {
			return "", false
		}
		path = u.Path
	}

	path = strings.TrimSuffix(strings.Trim(path, "/"), ".git")
	parts := strings.Split(path, "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", false
	}
	return parts[0] + "/" + parts[1], true
}
