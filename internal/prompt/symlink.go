package prompt

import (
	"fmt"
	"os"
)

// relink points linkPath at target, replacing whatever is there. The
// instruction file at the project root is owned by gantry: stale symlinks,
// regular files, even directories are removed so every run leaves the link
// pointing at the freshly composed document. Targets are relative so the
// project stays relocatable.
func relink(linkPath, target string) error {
	info, err := os.Lstat(linkPath)
	if err == nil {
		if info.Mode()&os.ModeSymlink != 0 {
			existing, readErr := os.Readlink(linkPath)
			if readErr == nil && existing == target {
				return nil // already correct
			}
			if err := os.Remove(linkPath); err != nil {
				return fmt.Errorf("remove stale symlink %s: %w", linkPath, err)
			}
		} else {
			if err := os.RemoveAll(linkPath); err != nil {
				return fmt.Errorf("replace %s: %w", linkPath, err)
			}
		}
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("stat %s: %w", linkPath, err)
	}

	if err := os.Symlink(target, linkPath); err != nil {
		return fmt.Errorf("link %s -> %s: %w", linkPath, target, err)
	}
	return nil
}
