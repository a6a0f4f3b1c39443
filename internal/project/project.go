// Package project derives the scope string that groups tasks, normally the
// owner/repo path of the git origin remote.
package project

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/tasklog/tasklog/pkg/logging"
)

// Unknown is the scope used when neither git nor the filesystem can name one.
const Unknown = "unknown"

// Resolve returns the scope for dir: the origin remote's owner/repo path,
// else the absolute directory, else Unknown.
func Resolve(dir string) string {
	if dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return Unknown
		}
		dir = wd
	}

	if url, err := originURL(dir); err == nil {
		if p, ok := ExtractFromURL(url); ok {
			return p
		}
		logging.Debug("origin url not recognised", map[string]any{"url": url})
	}

	abs, err := filepath.Abs(dir)
	if err != nil {
		return Unknown
	}
	return abs
}

func originURL(dir string) (string, error) {
	out, err := exec.Command("git", "-C", dir, "remote", "get-url", "origin").Output()
	if err != nil {
		logging.Debug("no git origin", map[string]any{"dir": dir, "error": err.Error()})
		return "", err
	}
	return strings.TrimSpace(string(out)), nil
}

// ExtractFromURL returns the owner/repo part of a git remote URL. Supported
// forms are git@host:path, ssh://git@host/path and http(s)://host/path. The
// path must contain a slash; a trailing ".git" is dropped.
func ExtractFromURL(url string) (string, bool) {
	var path string
	switch {
	case strings.HasPrefix(url, "git@"):
		parts := strings.SplitN(strings.TrimPrefix(url, "git@"), ":", 3)
		if len(parts) < 2 {
			return "", false
		}
		path = parts[1]
	case strings.HasPrefix(url, "ssh://git@"):
		_, rest, ok := strings.Cut(strings.TrimPrefix(url, "ssh://git@"), "/")
		if !ok {
			return "", false
		}
		path = rest
	case strings.HasPrefix(url, "https://"), strings.HasPrefix(url, "http://"):
		parts := strings.SplitN(url, "/", 3)
		if len(parts) < 3 {
			return "", false
		}
		_, rest, ok := strings.Cut(parts[2], "/")
		if !ok {
			return "", false
		}
		path = rest
	default:
		return "", false
	}

	path = strings.TrimSuffix(path, ".git")
	if !strings.Contains(path, "/") {
		return "", false
	}
	return path, true
}
