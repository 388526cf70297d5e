package forge

import (
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strings"

	"github.com/gantrylabs/gantry/internal/cmd"
)

// GitHub implements Forge for GitHub repositories using the gh CLI.
type GitHub struct{}

// Name returns "github"
func (g *GitHub) Name() string {
	return "github"
}

// Check verifies that gh CLI is available and authenticated
func (g *GitHub) Check(ctx context.Context) error {
	if _, err := exec.LookPath("gh"); err != nil {
		return fmt.Errorf("gh not found: please install GitHub CLI (https://cli.github.com)")
	}

	if err := cmd.RunContext(ctx, "", "gh", "auth", "status"); err != nil {
		errMsg := err.Error()
		if strings.Contains(errMsg, "not logged") || strings.Contains(errMsg, "no accounts") {
			return fmt.Errorf("gh not authenticated: please run 'gh auth login'")
		}
		return fmt.Errorf("gh auth check failed: %s", errMsg)
	}

	return nil
}

// ProtectedBranches fetches server-side protected branch names using gh CLI.
func (g *GitHub) ProtectedBranches(ctx context.Context, remoteURL string) ([]string, error) {
	project := projectPath(remoteURL)
	if project == "" {
		return nil, fmt.Errorf("could not extract owner/repo from %q", remoteURL)
	}

	output, err := cmd.OutputContext(ctx, "", "gh", "api",
		fmt.Sprintf("repos/%s/branches?protected=true", project))
	if err != nil {
		return nil, fmt.Errorf("gh api failed: %w", err)
	}

	var branches []struct {
		Name string `json:"name"`
	}
	if err := json.Unmarshal(output, &branches); err != nil {
		return nil, fmt.Errorf("failed to parse gh output: %w", err)
	}

	names := make([]string, 0, len(branches))
	for _, b := range branches {
		if b.Name != "" {
			names = append(names, b.Name)
		}
	}
	return names, nil
}
