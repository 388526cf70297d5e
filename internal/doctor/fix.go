package doctor

import (
	"context"
	"fmt"

	"github.com/gantrylabs/gantry/internal/config"
	"github.com/gantrylabs/gantry/internal/layer"
	"github.com/gantrylabs/gantry/internal/output"
	"github.com/gantrylabs/gantry/internal/ui"
)

// fixAllIssues applies the fix actions collected during the checks. Actions
// are deduplicated: several missing layer files resolve to one scaffold run.
func fixAllIssues(ctx context.Context, cfg *config.Config, issues []Issue) error {
	p := output.FromContext(ctx)

	actions := make(map[string]bool)
	unfixable := 0
	for _, issue := range issues {
		if issue.FixAction == "" {
			unfixable++
			continue
		}
		actions[issue.FixAction] = true
	}

	if len(actions) == 0 {
		p.Println("\nNothing doctor can fix automatically.")
		return nil
	}

	p.Println("\nApplying fixes...")

	if actions[FixScaffoldShare] {
		written, err := layer.Scaffold(cfg.ShareDir, false)
		if err != nil {
			return fmt.Errorf("scaffold share dir: %w", err)
		}
		for _, path := range written {
			p.Printf("  %s\n", ui.StatusOK("wrote "+path))
		}
	}

	if unfixable > 0 {
		p.Printf("\n%d issues need manual attention (see above).\n", unfixable)
	}
	return nil
}
