package forge

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"os/exec"
	"strings"

	"github.com/gantrylabs/gantry/internal/cmd"
)

// GitLab implements Forge for GitLab repositories using the glab CLI.
type GitLab struct{}

// Name returns "gitlab"
func (g *GitLab) Name() string {
	return "gitlab"
}

// Check verifies that glab CLI is available and authenticated
func (g *GitLab) Check(ctx context.Context) error {
	if _, err := exec.LookPath("glab"); err != nil {
		return fmt.Errorf("glab not found: please install GitLab CLI (https://gitlab.com/gitlab-org/cli)")
	}

	if err := cmd.RunContext(ctx, "", "glab", "auth", "status"); err != nil {
		errMsg := err.Error()
		if strings.Contains(errMsg, "not logged") || strings.Contains(errMsg, "no token") {
			return fmt.Errorf("glab not authenticated: please run 'glab auth login'")
		}
		return fmt.Errorf("glab auth check failed: %s", errMsg)
	}

	return nil
}

// ProtectedBranches fetches protected branch rules using glab CLI.
// GitLab returns wildcard rules (e.g. "release/*") verbatim.
func (g *GitLab) ProtectedBranches(ctx context.Context, remoteURL string) ([]string, error) {
	project := projectPath(remoteURL)
	if project == "" {
		return nil, fmt.Errorf("could not extract project path from %q", remoteURL)
	}

	// The project path must be URL-encoded as a single path segment.
	output, err := cmd.OutputContext(ctx, "", "glab", "api",
		fmt.Sprintf("projects/%s/protected_branches", url.PathEscape(project)))
	if err != nil {
		return nil, fmt.Errorf("glab api failed: %w", err)
	}

	var rules []struct {
		Name string `json:"name"`
	}
	if err := json.Unmarshal(output, &rules); err != nil {
		return nil, fmt.Errorf("failed to parse glab output: %w", err)
	}

	names := make([]string, 0, len(rules))
	for _, r := range rules {
		if r.Name != "" {
			names = append(names, r.Name)
		}
	}
	return names, nil
}
