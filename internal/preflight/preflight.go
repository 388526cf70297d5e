// Package preflight evaluates advisory warnings before a launch: uncommitted
// changes, privileged user, low disk space. Warnings are reported to the user
// but never block execution.
package preflight

import (
	"context"
	"fmt"
	"os"

	"golang.org/x/sys/unix"

	"github.com/gantrylabs/gantry/internal/git"
)

// MinFreeDiskBytes is the threshold below which the low-disk warning fires.
const MinFreeDiskBytes = 1 << 30 // 1 GiB

// Warning is an advisory finding. Code is a stable identifier for tests and
// scripting; Message is shown to the user.
type Warning struct {
	Code    string
	Message string
}

// Run evaluates all pre-launch warnings for the project. It never returns an
// error: a check that cannot run produces no warning.
func Run(ctx context.Context, repoPath string) []Warning {
	var warnings []Warning

	if git.IsDirty(ctx, repoPath) {
		warnings = append(warnings, Warning{
			Code:    "dirty-tree",
			Message: "the working tree has uncommitted changes; they will be visible to the assistant",
		})
	}

	if os.Getuid() == 0 {
		warnings = append(warnings, Warning{
			Code:    "root-user",
			Message: "running as root; files created during the session will be owned by root",
		})
	}

	if free, err := FreeDiskBytes(repoPath); err == nil && free < MinFreeDiskBytes {
		warnings = append(warnings, Warning{
			Code:    "low-disk",
			Message: fmt.Sprintf("low disk space: %d MiB free on the project filesystem", free/(1<<20)),
		})
	}

	return warnings
}

// FreeDiskBytes returns the bytes available to the invoking user on the
// filesystem containing path.
func FreeDiskBytes(path string) (uint64, error) {
	var st unix.Statfs_t
	if err := unix.Statfs(path, &st); err != nil {
		return 0, fmt.Errorf("statfs %s: %w", path, err)
	}
	return st.Bavail * uint64(st.Bsize), nil
}
