// Package ui provides the interactive terminal components gantry uses when
// stdin and stderr are attached to a TTY: the fuzzy assistant picker and a
// yes/no confirmation prompt.
//
// All programs render to stderr so stdout remains available for piping
// (e.g., gantry compose --stdout | less keeps the picker visible). Color
// output degrades automatically via colorprofile detection, which honors
// NO_COLOR and redirected streams.
//
// Non-interactive invocations must never reach this package; callers gate on
// [Interactive] and fall back to flags or defaults.
package ui
