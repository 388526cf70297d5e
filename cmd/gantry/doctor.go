package main

import (
	"github.com/spf13/cobra"

	"github.com/gantrylabs/gantry/internal/config"
	"github.com/gantrylabs/gantry/internal/doctor"
)

func newDoctorCmd() *cobra.Command {
	var fix bool

	cmd := &cobra.Command{
		Use:     "doctor",
		Short:   "Check the environment for launch problems",
		GroupID: GroupUtility,
		Args:    cobra.NoArgs,
		Long: `Check everything a launch depends on: git and a container engine on the
PATH, the share dir with its protected prompt layers, a valid config, and
assistant credentials.

Finding issues is not an error; doctor exits non-zero only when a check
itself cannot run.`,
		Example: `  gantry doctor        # Report issues
  gantry doctor --fix  # Scaffold missing layer files`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg := config.ResolverFromContext(ctx).Global()

			return doctor.Run(ctx, cfg, fix)
		},
	}

	cmd.Flags().BoolVar(&fix, "fix", false, "Repair what can be repaired automatically")

	return cmd
}
