package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/gantrylabs/gantry/internal/assistant"
	"github.com/gantrylabs/gantry/internal/config"
	"github.com/gantrylabs/gantry/internal/git"
)

// resolveProject resolves the optional path argument to the root of the git
// repository containing it. An empty pathArg means the current directory.
func resolveProject(ctx context.Context, pathArg string) (string, error) {
	path := pathArg
	if path == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("get working directory: %w", err)
		}
		path = wd
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolve %s: %w", path, err)
	}
	if info, err := os.Stat(abs); err != nil || !info.IsDir() {
		return "", fmt.Errorf("%s is not a directory", abs)
	}

	return git.ProjectRoot(ctx, abs)
}

// projectConfig returns the effective config for the project, merging its
// .gantry/config.toml with the global config.
func projectConfig(ctx context.Context, project string) (*config.Config, error) {
	resolver := config.ResolverFromContext(ctx)
	if resolver == nil {
		return nil, fmt.Errorf("no config resolver in context")
	}
	return resolver.ForProject(project)
}

// resolveAssistant maps the optional assistant argument to a configured
// assistant, falling back to the config default when the argument is empty.
func resolveAssistant(cfg *config.Config, nameArg string) (assistant.Assistant, error) {
	name := nameArg
	if name == "" {
		name = cfg.DefaultAssistant
	}
	return cfg.Assistant(name)
}

// splitAssistantPath interprets the positional arguments of the launch
// commands: the first is the assistant name, the second the project path.
func splitAssistantPath(args []string) (assistantArg, pathArg string) {
	if len(args) > 0 {
		assistantArg = args[0]
	}
	if len(args) > 1 {
		pathArg = args[1]
	}
	return assistantArg, pathArg
}

// completeAssistants provides assistant name completion from the global
// config (built-ins plus [assistants.*] entries).
func completeAssistants(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		// Only the first positional is an assistant; the rest are paths.
		return nil, cobra.ShellCompDirectiveDefault
	}

	resolver := config.ResolverFromContext(cmd.Context())
	if resolver == nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}

	var names []string
	for _, a := range resolver.Global().AllAssistants() {
		names = append(names, a.Name)
	}
	return names, cobra.ShellCompDirectiveNoFileComp
}
