package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/gantrylabs/gantry/internal/assistant"
	"github.com/gantrylabs/gantry/internal/config"
	"github.com/gantrylabs/gantry/internal/creds"
	"github.com/gantrylabs/gantry/internal/log"
	"github.com/gantrylabs/gantry/internal/output"
	"github.com/gantrylabs/gantry/internal/runtime"
	"github.com/gantrylabs/gantry/internal/ui"
)

func newAuthCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "auth [assistant...]",
		Short:   "Show assistant credential status",
		GroupID: GroupAuth,
		Long: `Show the credential verdict for each assistant: whether it can launch
and which credential source satisfied the check.

Only file names and variable names are shown, never credential values.`,
		Example: `  gantry auth              # All configured assistants
  gantry auth claude codex # Just these two`,
		ValidArgsFunction: completeAssistants,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := output.FromContext(ctx)
			cfg := config.ResolverFromContext(ctx).Global()

			home, err := os.UserHomeDir()
			if err != nil {
				return fmt.Errorf("resolve home directory: %w", err)
			}

			var assistants []assistant.Assistant
			if len(args) == 0 {
				assistants = cfg.AllAssistants()
			} else {
				for _, name := range args {
					a, err := cfg.Assistant(name)
					if err != nil {
						return err
					}
					assistants = append(assistants, a)
				}
			}

			rows := make([][]string, 0, len(assistants))
			for _, a := range assistants {
				v := creds.Check(a, home)
				status := ui.GlyphFail + " not authenticated"
				if v.Authenticated {
					status = ui.GlyphOK + " authenticated"
				}
				rows = append(rows, []string{a.Name, status, v.Method.String(), v.Detail})
			}
			out.Table([]string{"ASSISTANT", "STATUS", "METHOD", "DETAIL"}, rows)

			return nil
		},
	}

	cmd.AddCommand(newAuthLoginCmd())

	return cmd
}

func newAuthLoginCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "login [assistant]",
		Short: "Authenticate an assistant interactively",
		Args:  cobra.MaximumNArgs(1),
		Long: `Run the assistant's login flow inside its container, with the credential
directory mounted writable so the obtained credential persists on the host.

Without an argument an interactive picker is shown.`,
		Example: `  gantry auth login claude
  gantry auth login`,
		ValidArgsFunction: completeAssistants,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			l := log.FromContext(ctx)
			out := output.FromContext(ctx)
			cfg := config.ResolverFromContext(ctx).Global()

			home, err := os.UserHomeDir()
			if err != nil {
				return fmt.Errorf("resolve home directory: %w", err)
			}

			a, err := pickLoginAssistant(cfg, args)
			if err != nil {
				return err
			}
			if a == nil {
				return nil // picker cancelled
			}

			if v := creds.Check(*a, home); v.Authenticated && ui.Interactive() {
				res, err := ui.Confirm(fmt.Sprintf("%s is already authenticated. Log in again?", a.Name))
				if err != nil {
					return err
				}
				if !res.Confirmed {
					return nil
				}
			}

			// The credential directory must exist before the engine mounts
			// it, or it appears inside the container owned by root.
			if err := os.MkdirAll(a.CredentialDir(home), 0o700); err != nil {
				return fmt.Errorf("create credential directory: %w", err)
			}

			engine, err := runtime.DetectEngine()
			if err != nil {
				return err
			}
			if !engine.Available(ctx) {
				return fmt.Errorf("container engine %s is not responding; is the daemon running?", engine)
			}

			l.Printf("Starting %s login...\n", a.Name)
			spec := runtime.Spec{
				Image:       a.ImageRef(cfg.Registry),
				Env:         []string{"HOME=" + containerHome},
				Mounts:      credentialMounts(*a, home, true),
				Command:     creds.LoginCommand(*a),
				Interactive: true,
				TTY:         runtime.StdinIsTerminal(),
			}
			if err := (runtime.Runner{Engine: engine}).Run(ctx, spec); err != nil {
				return err
			}

			if !creds.VerifyPersisted(*a, home) {
				return fmt.Errorf("login finished but no credential was persisted for %s; %s",
					a.Name, creds.Remediation(*a))
			}
			out.Println(ui.StatusOK(a.Name + " authenticated"))

			return nil
		},
	}

	return cmd
}

// pickLoginAssistant resolves the login target: the explicit argument, or an
// interactive pick. A nil assistant with nil error means the pick was
// cancelled.
func pickLoginAssistant(cfg *config.Config, args []string) (*assistant.Assistant, error) {
	if len(args) > 0 {
		a, err := cfg.Assistant(args[0])
		if err != nil {
			return nil, err
		}
		return &a, nil
	}

	if !ui.Interactive() {
		return nil, fmt.Errorf("no assistant given; specify one, e.g. 'gantry auth login claude'")
	}

	res, err := ui.PickAssistant(cfg.AllAssistants(), cfg.Registry)
	if err != nil {
		return nil, err
	}
	if res.Cancelled {
		return nil, nil
	}
	return &res.Assistant, nil
}
