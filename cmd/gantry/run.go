package main

import (
	"github.com/spf13/cobra"

	"github.com/gantrylabs/gantry/internal/hooks"
)

func newRunCmd() *cobra.Command {
	var (
		workBranch string
		baseBranch string
		image      string
		extraEnv   []string
		hookArgs   []string
		noWarnings bool
	)

	cmd := &cobra.Command{
		Use:     "run [assistant] [path]",
		Short:   "Launch an assistant against a project",
		Aliases: []string{"r"},
		GroupID: GroupLaunch,
		Args:    cobra.MaximumNArgs(2),
		Long: `Launch a containerized AI coding assistant against a git project.

The launch verifies the assistant's credentials, composes its instruction
document from the layered prompt files, and switches the repository to a
work branch before starting the container. Without --branch a fresh branch
named after the assistant and the current time is created from the branch
you are on; with --branch the name must pass the protection rules.

The assistant defaults to default_assistant from the config, the project
to the repository containing the current directory.`,
		Example: `  gantry run                           # Default assistant, current repo
  gantry run codex                     # Specific assistant
  gantry run claude ~/work/api        # Specific project
  gantry run -b fix/login-timeout      # Explicit work branch
  gantry run --base develop            # Branch off develop instead of HEAD
  gantry run --env DEBUG=1 --no-warnings`,
		ValidArgsFunction: completeAssistants,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			assistantArg, pathArg := splitAssistantPath(args)
			project, err := resolveProject(ctx, pathArg)
			if err != nil {
				return err
			}
			cfg, err := projectConfig(ctx, project)
			if err != nil {
				return err
			}
			a, err := resolveAssistant(cfg, assistantArg)
			if err != nil {
				return err
			}

			placeholders, err := hooks.ParseEnvWithStdin(hookArgs)
			if err != nil {
				return err
			}

			return launch(ctx, cfg, a, project, launchOptions{
				Branch:     workBranch,
				Base:       baseBranch,
				Image:      image,
				ExtraEnv:   extraEnv,
				HookArgs:   placeholders,
				NoWarnings: noWarnings,
			})
		},
	}

	cmd.Flags().StringVarP(&workBranch, "branch", "b", "", "Work branch to create or reuse")
	cmd.Flags().StringVar(&baseBranch, "base", "", "Base branch for a created work branch (default: current)")
	cmd.Flags().StringVar(&image, "image", "", "Container image override")
	cmd.Flags().StringArrayVar(&extraEnv, "env", nil, "Extra container environment KEY=VALUE (repeatable)")
	cmd.Flags().StringArrayVar(&hookArgs, "arg", nil, "Hook placeholder key=value, value '-' reads stdin (repeatable)")
	cmd.Flags().BoolVar(&noWarnings, "no-warnings", false, "Suppress pre-launch warnings")

	return cmd
}
