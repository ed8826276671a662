// Package gitinfo derives project metadata from a git checkout.
package gitinfo

import (
	"fmt"
	"strings"

	git "github.com/go-git/go-git/v5"
)

// RemoteURL returns the origin remote URL of the repository containing path,
// walking up to the nearest .git directory. Paths outside a repository or
// repositories without an origin remote return an error; callers treat this
// as "no URL available", not a failure.
func RemoteURL(path string) (string, error) {
	repo, err := git.PlainOpenWithOptions(path, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return "", fmt.Errorf("open repository at %s: %w", path, err)
	}

	remote, err := repo.Remote("origin")
	if err != nil {
		return "", fmt.Errorf("resolve origin remote: %w", err)
	}

	urls := remote.Config().URLs
	if len(urls) == 0 {
		return "", fmt.Errorf("origin remote has no URLs")
	}
	return normalizeRemote(urls[0]), nil
}

// normalizeRemote rewrites scp-like SSH remotes (git@host:org/repo.git) to
// https so the URL is usable as a documentation link.
func normalizeRemote(url string) string {
	if strings.HasPrefix(url, "git@") {
		if host, rest, ok := strings.Cut(strings.TrimPrefix(url, "git@"), ":"); ok {
			url = "https://" + host + "/" + rest
		}
	}
	return strings.TrimSuffix(url, ".git")
}
