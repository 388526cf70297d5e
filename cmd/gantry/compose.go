package main

import (
	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"

	"github.com/gantrylabs/gantry/internal/layer"
	"github.com/gantrylabs/gantry/internal/log"
	"github.com/gantrylabs/gantry/internal/output"
	"github.com/gantrylabs/gantry/internal/prompt"
)

func newComposeCmd() *cobra.Command {
	var (
		toStdout    bool
		toClipboard bool
	)

	cmd := &cobra.Command{
		Use:     "compose [assistant] [path]",
		Short:   "Compose the instruction document without launching",
		GroupID: GroupLaunch,
		Args:    cobra.MaximumNArgs(2),
		Long: `Compose the assistant's instruction document from the layered prompt
files and update the instruction symlink at the project root, without
starting a container.

Composing twice with unchanged layers produces the same document except
for the timestamp in the footer.`,
		Example: `  gantry compose                   # Default assistant
  gantry compose codex --stdout    # Print the document
  gantry compose claude --copy     # Copy it to the clipboard`,
		ValidArgsFunction: completeAssistants,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			l := log.FromContext(ctx)
			out := output.FromContext(ctx)

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

			composer := prompt.Composer{Store: layer.Store{
				ShareDir:   cfg.ShareDir,
				ConfigDir:  cfg.ConfigDir,
				ProjectDir: project,
			}}
			composed, err := composer.Compose(ctx, a)
			if err != nil {
				return err
			}

			if toStdout {
				out.Print(string(composed.Body))
			} else {
				out.Println(composed.Path)
			}

			if toClipboard {
				if err := clipboard.WriteAll(string(composed.Body)); err != nil {
					l.Printf("Warning: copy to clipboard failed: %v\n", err)
				} else {
					l.Printf("Copied to clipboard.\n")
				}
			}

			l.Printf("%d parts, %d bytes, ~%d tokens\n",
				len(composed.Sections), len(composed.Body), prompt.EstimateTokens(string(composed.Body)))

			return nil
		},
	}

	cmd.Flags().BoolVar(&toStdout, "stdout", false, "Print the composed document to stdout")
	cmd.Flags().BoolVar(&toClipboard, "copy", false, "Copy the composed document to the clipboard")

	return cmd
}
