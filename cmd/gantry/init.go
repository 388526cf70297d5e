package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/gantrylabs/gantry/internal/config"
	"github.com/gantrylabs/gantry/internal/layer"
	"github.com/gantrylabs/gantry/internal/output"
	"github.com/gantrylabs/gantry/internal/ui"
)

func newInitCmd() *cobra.Command {
	var (
		withShare   bool
		projectInit bool
		force       bool
	)

	cmd := &cobra.Command{
		Use:     "init",
		Short:   "Create the config file and prompt layer templates",
		GroupID: GroupConfig,
		Args:    cobra.NoArgs,
		Long: `Create a commented default config file in the user config dir.

With --share the share dir is also scaffolded with the default prompt
layers, including the protected prefix and suffix every composition
requires. Writing to the default share dir usually needs root.

With --project a per-project .gantry/config.toml is created in the
current repository instead of the global config.`,
		Example: `  gantry init                  # ~/.config/gantry/config.toml
  sudo gantry init --share     # Also /usr/local/share/gantry/*.md
  gantry init --project        # .gantry/config.toml in this repo
  gantry init --force          # Overwrite an existing config`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := output.FromContext(ctx)
			cfg := config.ResolverFromContext(ctx).Global()

			if projectInit {
				path, err := initProjectConfig(ctx, force)
				if err != nil {
					return err
				}
				out.Println(ui.StatusOK("wrote " + path))
				return nil
			}

			path, err := config.Init(force)
			if err != nil {
				return err
			}
			out.Println(ui.StatusOK("wrote " + path))

			if withShare {
				written, err := layer.Scaffold(cfg.ShareDir, force)
				if err != nil {
					return err
				}
				for _, p := range written {
					out.Println(ui.StatusOK("wrote " + p))
				}
				if len(written) == 0 {
					out.Println("Share dir already scaffolded; use --force to overwrite.")
				}
			}

			out.Println("\nNext: gantry auth login <assistant>, then gantry run.")
			return nil
		},
	}

	cmd.Flags().BoolVar(&withShare, "share", false, "Also scaffold the share dir layer templates")
	cmd.Flags().BoolVar(&projectInit, "project", false, "Create a per-project config in the current repository")
	cmd.Flags().BoolVar(&force, "force", false, "Overwrite existing files")
	cmd.MarkFlagsMutuallyExclusive("share", "project")

	return cmd
}

// initProjectConfig writes the project config template into the repository
// containing the current directory.
func initProjectConfig(ctx context.Context, force bool) (string, error) {
	project, err := resolveProject(ctx, "")
	if err != nil {
		return "", err
	}

	path := filepath.Join(config.ProjectDir(project), config.ProjectConfigFileName)
	if !force {
		if _, err := os.Stat(path); err == nil {
			return "", fmt.Errorf("project config already exists: %s", path)
		}
	}

	if err := os.MkdirAll(config.ProjectDir(project), 0o755); err != nil {
		return "", err
	}
	if err := os.WriteFile(path, []byte(config.DefaultProjectConfig()), 0o644); err != nil {
		return "", err
	}
	return path, nil
}
