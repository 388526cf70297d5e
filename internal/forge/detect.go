package forge

import (
	"net/url"
	"strings"
)

// Detect returns the appropriate Forge implementation based on the remote URL.
// If hostMap is provided, checks for exact domain matches first.
// Falls back to pattern matching, then defaults to GitHub.
func Detect(remoteURL string, hostMap map[string]string) Forge {
	// Check hostMap first for exact domain match
	if len(hostMap) > 0 {
		host := extractHost(remoteURL)
		if forgeType, ok := hostMap[host]; ok {
			return ByName(forgeType)
		}
	}

	// Fall back to pattern matching
	if isGitLab(remoteURL) {
		return &GitLab{}
	}
	// Default to GitHub (most common)
	return &GitHub{}
}

// ByName returns a Forge implementation by name.
// Supported names: "github", "gitlab"
// Returns GitHub as default for unknown names.
func ByName(name string) Forge {
	switch strings.ToLower(name) {
	case "gitlab":
		return &GitLab{}
	default:
		return &GitHub{}
	}
}

// extractHost parses the hostname from a git remote URL.
// Handles SSH format (git@host:path) and HTTPS format (https://host/path).
func extractHost(remoteURL string) string {
	// SSH format: git@github.com:user/repo.git
	if strings.HasPrefix(remoteURL, "git@") {
		// Extract host between "git@" and ":"
		withoutPrefix := strings.TrimPrefix(remoteURL, "git@")
		if idx := strings.Index(withoutPrefix, ":"); idx > 0 {
			return withoutPrefix[:idx]
		}
	}

	// HTTPS format: https://github.com/user/repo.git
	// SSH format with explicit protocol: ssh://git@github.com/user/repo.git
	if strings.HasPrefix(remoteURL, "http://") || strings.HasPrefix(remoteURL, "https://") || strings.HasPrefix(remoteURL, "ssh://") {
		if parsed, err := url.Parse(remoteURL); err == nil {
			return parsed.Hostname()
		}
	}

	return ""
}

// projectPath extracts the "owner/repo" (or "group/subgroup/repo") path from
// a git remote URL.
// e.g. "git@github.com:acme/widgets.git" -> "acme/widgets"
// e.g. "https://gitlab.com/group/sub/project.git" -> "group/sub/project"
func projectPath(remoteURL string) string {
	remoteURL = strings.TrimSuffix(remoteURL, ".git")

	// SSH format: git@host:owner/repo
	if strings.HasPrefix(remoteURL, "git@") {
		parts := strings.SplitN(remoteURL, ":", 2)
		if len(parts) == 2 {
			return strings.Trim(parts[1], "/")
		}
	}

	// URL formats: https://host/owner/repo, ssh://git@host/owner/repo
	if strings.Contains(remoteURL, "://") {
		if parsed, err := url.Parse(remoteURL); err == nil {
			return strings.Trim(parsed.Path, "/")
		}
	}

	return ""
}

// isGitLab checks if a URL points to a GitLab instance
func isGitLab(url string) bool {
	url = strings.ToLower(url)

	// gitlab.com (SaaS)
	if strings.Contains(url, "gitlab.com") {
		return true
	}

	// Common self-hosted patterns
	if strings.Contains(url, "gitlab.") {
		return true
	}

	// Check for "/gitlab/" in path (some orgs host at company.com/gitlab/)
	if strings.Contains(url, "/gitlab/") {
		return true
	}

	return false
}
