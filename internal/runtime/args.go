package runtime

import (
	"fmt"
	"os"
	"path/filepath"
)

// buildArgs constructs the engine run arguments for a spec. Kept separate
// from Run so the full argument surface is testable without an engine.
func buildArgs(spec Spec) ([]string, error) {
	if spec.Image == "" {
		return nil, fmt.Errorf("container image is required")
	}

	args := []string{"run", "--rm", "--name", spec.Name}

	// Security hardening
	args = append(args, "--security-opt", "no-new-privileges")

	// Run as the invoking user so workspace files keep their ownership.
	args = append(args, "--user", fmt.Sprintf("%d:%d", os.Getuid(), os.Getgid()))

	if spec.Interactive {
		args = append(args, "--interactive")
	}
	if spec.TTY {
		args = append(args, "--tty")
	}

	if spec.Network != "" {
		args = append(args, "--network", spec.Network)
	}

	if spec.ProjectDir != "" {
		absDir, err := filepath.Abs(spec.ProjectDir)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve project directory: %w", err)
		}
		args = append(args, "--volume", absDir+":/workspace:rw")
		args = append(args, "--workdir", "/workspace")
	}

	for _, m := range spec.Mounts {
		mode := "rw"
		if m.ReadOnly {
			mode = "ro"
		}
		args = append(args, "--volume", fmt.Sprintf("%s:%s:%s", m.Source, m.Target, mode))
	}

	if spec.EnvFile != "" {
		args = append(args, "--env-file", spec.EnvFile)
	}

	for _, env := range spec.Env {
		args = append(args, "--env", env)
	}

	args = append(args, spec.Image)
	args = append(args, spec.Command...)

	return args, nil
}
