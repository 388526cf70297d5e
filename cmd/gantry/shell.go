package main

import (
	"github.com/spf13/cobra"
)

func newShellCmd() *cobra.Command {
	var (
		image    string
		extraEnv []string
	)

	cmd := &cobra.Command{
		Use:     "shell [assistant] [path]",
		Short:   "Open a debug shell in an assistant container",
		GroupID: GroupLaunch,
		Args:    cobra.MaximumNArgs(2),
		Long: `Open an interactive shell in the assistant's container instead of the
assistant itself.

Credentials are still checked and the instruction document is still
composed, so the container looks exactly like a real launch, but the
repository stays on its current branch and no hooks run. Useful for
inspecting the image, the mounts, and the environment.`,
		Example: `  gantry shell                 # Default assistant's container
  gantry shell gemini          # Inspect the gemini image
  gantry shell claude ~/work/api`,
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

			return launch(ctx, cfg, a, project, launchOptions{
				Image:    image,
				ExtraEnv: extraEnv,
				Shell:    true,
			})
		},
	}

	cmd.Flags().StringVar(&image, "image", "", "Container image override")
	cmd.Flags().StringArrayVar(&extraEnv, "env", nil, "Extra container environment KEY=VALUE (repeatable)")

	return cmd
}
