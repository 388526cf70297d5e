package runtime

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"syscall"

	"github.com/google/uuid"
)

var envNameRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// WriteEnvFile materializes env as an engine --env-file under dir (the
// system temp directory when dir is empty).
//
// The file is created exclusively with owner-only permissions and its
// ownership is verified against the invoking user before any secret byte is
// written. The returned cleanup removes the file and is safe to call more
// than once; callers must run it on every exit path, including signals.
func WriteEnvFile(dir string, env map[string]string) (string, func(), error) {
	if dir == "" {
		dir = os.TempDir()
	}
	path := filepath.Join(dir, "gantry-"+uuid.NewString()[:8]+".env")

	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o600)
	if err != nil {
		return "", nil, fmt.Errorf("create env file: %w", err)
	}

	cleanup := func() { _ = os.Remove(path) }

	fail := func(err error) (string, func(), error) {
		f.Close()
		cleanup()
		return "", nil, err
	}

	// Refuse to write secrets into a file owned by anyone else. O_EXCL
	// already rules out pre-existing files; this guards the whole class.
	info, err := f.Stat()
	if err != nil {
		return fail(fmt.Errorf("stat env file: %w", err))
	}
	st, ok := info.Sys().(*syscall.Stat_t)
	if !ok || int(st.Uid) != os.Getuid() {
		return fail(fmt.Errorf("env file %s is not owned by the invoking user", path))
	}
	if info.Mode().Perm() != 0o600 {
		return fail(fmt.Errorf("env file %s has mode %v, want 0600", path, info.Mode().Perm()))
	}

	// The --env-file format is line-oriented and unquoted, so names and
	// values must not smuggle line breaks.
	names := make([]string, 0, len(env))
	for name := range env {
		if !envNameRe.MatchString(name) {
			return fail(fmt.Errorf("invalid environment variable name %q", name))
		}
		if strings.ContainsAny(env[name], "\n\r") {
			return fail(fmt.Errorf("environment variable %s: value must not contain line breaks", name))
		}
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	for _, name := range names {
		b.WriteString(name)
		b.WriteByte('=')
		b.WriteString(env[name])
		b.WriteByte('\n')
	}

	if _, err := f.WriteString(b.String()); err != nil {
		return fail(fmt.Errorf("write env file: %w", err))
	}
	if err := f.Close(); err != nil {
		cleanup()
		return "", nil, fmt.Errorf("close env file: %w", err)
	}

	return path, cleanup, nil
}
