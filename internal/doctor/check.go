package doctor

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"sort"

	"github.com/gantrylabs/gantry/internal/config"
	"github.com/gantrylabs/gantry/internal/creds"
	"github.com/gantrylabs/gantry/internal/git"
	"github.com/gantrylabs/gantry/internal/layer"
	"github.com/gantrylabs/gantry/internal/runtime"
)

// checkTools verifies the external commands gantry drives.
// Missing forge CLIs are non-fatal: protected-branch detection falls back to
// the static set and the remote default branch.
func checkTools(ctx context.Context) ([]Issue, int) {
	var issues []Issue
	present := 0

	if err := git.CheckGit(); err != nil {
		issues = append(issues, Issue{
			Key:         "git",
			Description: "not found in PATH",
			Category:    CategoryTools,
			Fatal:       true,
		})
	} else {
		present++
	}

	engine, err := runtime.DetectEngine()
	switch {
	case err != nil:
		issues = append(issues, Issue{
			Key:         "container-engine",
			Description: "neither docker nor podman found in PATH",
			Category:    CategoryTools,
			Fatal:       true,
		})
	case !engine.Available(ctx):
		issues = append(issues, Issue{
			Key:         string(engine),
			Description: "found but the daemon is not responding",
			Category:    CategoryTools,
			Fatal:       true,
		})
	default:
		present++
	}

	for _, cli := range []string{"gh", "glab"} {
		if _, err := exec.LookPath(cli); err != nil {
			issues = append(issues, Issue{
				Key:         cli,
				Description: "not installed; forge-protected branches won't be detected",
				Category:    CategoryTools,
			})
		} else {
			present++
		}
	}

	return issues, present
}

// checkLayers verifies the share dir and its protected layers. Optional
// layers are allowed to be absent; the protected prefix and suffix are not.
func checkLayers(cfg *config.Config) ([]Issue, int) {
	if _, err := os.Stat(cfg.ShareDir); err != nil {
		return []Issue{{
			Key:         cfg.ShareDir,
			Description: "share directory missing",
			FixAction:   FixScaffoldShare,
			Category:    CategoryLayers,
			Fatal:       true,
		}}, 0
	}

	var issues []Issue
	present := 0

	store := layer.Store{ShareDir: cfg.ShareDir, ConfigDir: cfg.ConfigDir}
	for _, l := range store.Layers("") {
		if !l.Scope.Mandatory() {
			continue
		}
		if _, err := os.Stat(l.Path); err != nil {
			issues = append(issues, Issue{
				Key:         l.Path,
				Description: fmt.Sprintf("%s layer missing; composition will fail", l.Scope),
				FixAction:   FixScaffoldShare,
				Category:    CategoryLayers,
				Fatal:       true,
			})
		} else {
			present++
		}
	}

	return issues, present
}

// checkConfig looks for semantic problems load-time validation can't catch.
func checkConfig(cfg *config.Config) []Issue {
	var issues []Issue

	if _, err := cfg.Assistant(cfg.DefaultAssistant); err != nil {
		issues = append(issues, Issue{
			Key:         "default_assistant",
			Description: fmt.Sprintf("%q is not a built-in or configured assistant", cfg.DefaultAssistant),
			Category:    CategoryConfig,
		})
	}

	// Image overrides that don't correspond to any assistant are typos.
	known := make(map[string]bool)
	for _, a := range cfg.AllAssistants() {
		known[a.Name] = true
	}
	names := make([]string, 0, len(cfg.Images))
	for name := range cfg.Images {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if !known[name] {
			issues = append(issues, Issue{
				Key:         "images." + name,
				Description: "does not match any built-in or configured assistant",
				Category:    CategoryConfig,
			})
		}
	}

	return issues
}

// checkCredentials reports which assistants would fail the credential gate.
func checkCredentials(cfg *config.Config, home string) ([]Issue, int) {
	var issues []Issue
	ready := 0

	for _, a := range cfg.AllAssistants() {
		v := creds.Check(a, home)
		if v.Authenticated {
			ready++
			continue
		}
		issues = append(issues, Issue{
			Key:         a.Name,
			Description: creds.Remediation(a),
			Category:    CategoryCredentials,
		})
	}

	return issues, ready
}
