package layer

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

//go:embed templates/*.md
var templates embed.FS

// Scaffold writes the default layer files into shareDir: the protected
// prefix and suffix plus starter versions of the configurable layers.
// Existing files are left alone unless force is set. Returns the paths it
// wrote.
func Scaffold(shareDir string, force bool) ([]string, error) {
	if err := os.MkdirAll(shareDir, 0o755); err != nil {
		return nil, fmt.Errorf("create share dir %s: %w", shareDir, err)
	}

	entries, err := templates.ReadDir("templates")
	if err != nil {
		return nil, err
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })

	var written []string
	for _, entry := range entries {
		dst := filepath.Join(shareDir, entry.Name())
		if !force {
			if _, err := os.Stat(dst); err == nil {
				continue
			}
		}
		data, err := templates.ReadFile("templates/" + entry.Name())
		if err != nil {
			return written, err
		}
		if err := os.WriteFile(dst, data, 0o644); err != nil {
			return written, fmt.Errorf("write %s: %w", dst, err)
		}
		written = append(written, dst)
	}
	return written, nil
}
