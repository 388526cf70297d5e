package main

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/gantrylabs/gantry/internal/branch"
	"github.com/gantrylabs/gantry/internal/output"
)

func newBranchCmd() *cobra.Command {
	var (
		workBranch string
		baseBranch string
	)

	cmd := &cobra.Command{
		Use:     "branch [path]",
		Short:   "Show the branch decision a launch would take",
		GroupID: GroupLaunch,
		Args:    cobra.MaximumNArgs(1),
		Long: `Show what the branch policy would do for a launch, without touching the
repository: which branch would be created or reused, from which base, or
why an explicit branch would be refused.`,
		Example: `  gantry branch                    # Generated-name decision
  gantry branch -b feature/login   # Check an explicit branch
  gantry branch -b main            # See why a name is refused`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := output.FromContext(ctx)

			pathArg := ""
			if len(args) > 0 {
				pathArg = args[0]
			}
			project, err := resolveProject(ctx, pathArg)
			if err != nil {
				return err
			}
			cfg, err := projectConfig(ctx, project)
			if err != nil {
				return err
			}
			a, err := resolveAssistant(cfg, "")
			if err != nil {
				return err
			}

			state, err := branch.Observe(ctx, project, detectForge(ctx, cfg, project))
			if err != nil {
				return err
			}

			d := branch.Decide(state, branch.Request{
				Assistant:  a.Name,
				WorkBranch: workBranch,
				BaseBranch: baseBranch,
				Format:     cfg.BranchFormat,
				Now:        time.Now(),
			})

			switch d.Action {
			case branch.Create:
				out.Printf("create %s from %s\n", d.Target, d.Base)
			case branch.Reuse:
				out.Printf("reuse %s\n", d.Target)
			case branch.Reject:
				out.Printf("reject: %v\n", d.Rejection)
				out.Printf("protected: %v\n", state.Protected)
			}

			return nil
		},
	}

	cmd.Flags().StringVarP(&workBranch, "branch", "b", "", "Work branch to evaluate")
	cmd.Flags().StringVar(&baseBranch, "base", "", "Base branch for a created work branch")

	return cmd
}
