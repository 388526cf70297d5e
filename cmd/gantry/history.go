package main

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/gantrylabs/gantry/internal/config"
	"github.com/gantrylabs/gantry/internal/history"
	"github.com/gantrylabs/gantry/internal/output"
	"github.com/gantrylabs/gantry/internal/ui"
)

func newHistoryCmd() *cobra.Command {
	var (
		limit   int
		project string
	)

	cmd := &cobra.Command{
		Use:     "history",
		Short:   "Show recent assistant launches",
		GroupID: GroupUtility,
		Args:    cobra.NoArgs,
		Long: `Show recent launches: which assistant ran on which branch, when, for how
long, and whether it exited cleanly.`,
		Example: `  gantry history               # Last launches everywhere
  gantry history -n 5          # Just the last five
  gantry history --project .   # Launches for this repository`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := output.FromContext(ctx)
			cfg := config.ResolverFromContext(ctx).Global()

			store, err := history.Open(historyPath(cfg))
			if err != nil {
				return err
			}
			defer store.Close()

			var launches []history.Launch
			if project != "" {
				root, err := resolveProject(ctx, project)
				if err != nil {
					return err
				}
				launches, err = store.ByProject(ctx, root, limit)
				if err != nil {
					return err
				}
			} else {
				launches, err = store.Recent(ctx, limit)
				if err != nil {
					return err
				}
			}

			if len(launches) == 0 {
				out.Println("No launches recorded yet.")
				return nil
			}

			rows := make([][]string, 0, len(launches))
			for _, l := range launches {
				status := ui.GlyphFail
				if l.ExitedOK {
					status = ui.GlyphOK
				}
				rows = append(rows, []string{
					l.StartedAt.Local().Format("2006-01-02 15:04"),
					l.Assistant,
					l.Branch,
					l.Duration.Round(time.Second).String(),
					status,
					l.Project,
				})
			}
			out.Table([]string{"WHEN", "ASSISTANT", "BRANCH", "DURATION", "OK", "PROJECT"}, rows)

			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum number of launches to show")
	cmd.Flags().StringVar(&project, "project", "", "Only launches for the repository at this path")

	return cmd
}
