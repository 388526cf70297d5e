package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"

	"github.com/gantrylabs/gantry/internal/config"
	"github.com/gantrylabs/gantry/internal/git"
	"github.com/gantrylabs/gantry/internal/log"
	"github.com/gantrylabs/gantry/internal/output"
)

func newConfigCmd() *cobra.Command {
	var (
		showPath   bool
		jsonOutput bool
	)

	cmd := &cobra.Command{
		Use:     "config",
		Short:   "Show the effective configuration",
		Aliases: []string{"cfg"},
		GroupID: GroupConfig,
		Args:    cobra.NoArgs,
		Long: `Show the effective configuration.

Inside a repository the per-project .gantry/config.toml is merged over the
global config and overridden keys are annotated with their source.`,
		Example: `  gantry config          # Effective settings
  gantry config --json   # Machine-readable
  gantry config --path   # Just the global config file path`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			l := log.FromContext(ctx)
			out := output.FromContext(ctx)
			global := config.ResolverFromContext(ctx).Global()

			if showPath {
				out.Println(config.Path())
				return nil
			}

			// Merge in the project config when run inside a repository.
			var project *config.ProjectConfig
			projectConfigPath := ""
			if wd, err := os.Getwd(); err == nil && git.IsInsideRepoPath(ctx, wd) {
				root, err := git.ProjectRoot(ctx, wd)
				if err == nil {
					projectConfigPath = filepath.Join(config.ProjectDir(root), config.ProjectConfigFileName)
					project, err = config.LoadProject(root)
					if err != nil {
						l.Printf("Warning: %v (using global config)\n", err)
						project = nil
					}
				}
			}
			eff := config.MergeProject(global, project)

			if jsonOutput {
				enc := json.NewEncoder(out.Writer())
				enc.SetIndent("", "  ")
				return enc.Encode(eff)
			}

			out.Printf("Global config:  %s\n", config.Path())
			if projectConfigPath != "" {
				if project != nil {
					out.Printf("Project config: %s\n", projectConfigPath)
				} else {
					out.Printf("Project config: (none)\n")
				}
			}
			out.Println()

			source := func(overridden bool) string {
				if overridden {
					return " (project)"
				}
				return ""
			}

			out.Printf("registry: %s\n", eff.Registry)
			out.Printf("share_dir: %s\n", eff.ShareDir)
			out.Printf("config_dir: %s\n", eff.ConfigDir)
			out.Printf("default_assistant: %s%s\n", eff.DefaultAssistant,
				source(project != nil && project.Assistant != ""))
			out.Printf("branch_format: %s\n", eff.BranchFormat)

			for _, name := range sortedKeys(eff.Images) {
				out.Printf("images.%s: %s%s\n", name, eff.Images[name],
					source(project != nil && project.Images[name] != ""))
			}
			for _, name := range sortedKeys(eff.Assistants) {
				out.Printf("assistants.%s: configured\n", name)
			}
			for _, host := range sortedKeys(eff.Hosts) {
				out.Printf("hosts.%s: %s\n", host, eff.Hosts[host])
			}
			for _, key := range sortedKeys(eff.Env) {
				out.Printf("env.%s: %s%s\n", key, eff.Env[key],
					source(project != nil && project.Env[key] != ""))
			}

			hookSource := source(project != nil &&
				(len(project.Hooks.PreRun) > 0 || len(project.Hooks.PostRun) > 0))
			out.Printf("hooks: %d pre_run, %d post_run%s\n",
				len(eff.Hooks.PreRun), len(eff.Hooks.PostRun), hookSource)

			return nil
		},
	}

	cmd.Flags().BoolVar(&showPath, "path", false, "Print the global config file path")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")

	return cmd
}

// sortedKeys returns the map's keys in sorted order for stable output.
func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
