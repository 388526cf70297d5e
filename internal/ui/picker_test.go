package ui

import (
	"fmt"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/gantrylabs/gantry/internal/assistant"
)

func keyPress(key string) tea.KeyPressMsg {
	switch key {
	case "ctrl+c":
		return tea.KeyPressMsg{Code: 'c', Mod: tea.ModCtrl}
	case "enter":
		return tea.KeyPressMsg{Code: tea.KeyEnter}
	case "esc":
		return tea.KeyPressMsg{Code: tea.KeyEscape}
	case "up":
		return tea.KeyPressMsg{Code: tea.KeyUp}
	case "down":
		return tea.KeyPressMsg{Code: tea.KeyDown}
	case "backspace":
		return tea.KeyPressMsg{Code: tea.KeyBackspace}
	default:
		return tea.KeyPressMsg{Code: rune(key[0]), Text: key}
	}
}

func updatePicker(t *testing.T, m pickerModel, keys ...string) pickerModel {
	t.Helper()
	for _, key := range keys {
		updated, _ := m.Update(keyPress(key))
		var ok bool
		m, ok = updated.(pickerModel)
		if !ok {
			t.Fatalf("Update returned unexpected type: %T", updated)
		}
	}
	return m
}

func testAssistants() []assistant.Assistant {
	return append(assistant.Builtins(), assistant.Assistant{
		Kind: assistant.Custom,
		Name: "aider",
	})
}

func TestPickerModel_InitialShowsAll(t *testing.T) {
	t.Parallel()

	m := newPickerModel(testAssistants(), "ghcr.io/gantrylabs")
	if len(m.filtered) != 4 {
		t.Errorf("initial filtered count = %d, want 4", len(m.filtered))
	}
	if m.cursor != 0 {
		t.Errorf("initial cursor = %d, want 0", m.cursor)
	}
	if m.choice != -1 {
		t.Errorf("initial choice = %d, want -1", m.choice)
	}
}

func TestPickerModel_Navigation(t *testing.T) {
	t.Parallel()

	m := newPickerModel(testAssistants(), "")

	m = updatePicker(t, m, "down", "down")
	if m.cursor != 2 {
		t.Errorf("cursor after two downs = %d, want 2", m.cursor)
	}

	m = updatePicker(t, m, "up")
	if m.cursor != 1 {
		t.Errorf("cursor after up = %d, want 1", m.cursor)
	}

	// Cursor stays in bounds at the edges.
	m = updatePicker(t, m, "up", "up", "up")
	if m.cursor != 0 {
		t.Errorf("cursor clamped at top = %d, want 0", m.cursor)
	}
	m = updatePicker(t, m, "down", "down", "down", "down", "down")
	if m.cursor != 3 {
		t.Errorf("cursor clamped at bottom = %d, want 3", m.cursor)
	}
}

func TestPickerModel_TypeToFilter(t *testing.T) {
	t.Parallel()

	m := newPickerModel(testAssistants(), "")

	// Fuzzy match: "gm" hits gemini only.
	m = updatePicker(t, m, "g", "m")
	if m.input.Value() != "gm" {
		t.Errorf("filter = %q, want %q", m.input.Value(), "gm")
	}
	if len(m.filtered) != 1 {
		t.Fatalf("filtered count = %d, want 1", len(m.filtered))
	}
	if got := m.assistants[m.filtered[0].Index].Name; got != "gemini" {
		t.Errorf("filtered match = %q, want %q", got, "gemini")
	}
}

func TestPickerModel_BackspaceRestores(t *testing.T) {
	t.Parallel()

	m := newPickerModel(testAssistants(), "")

	m = updatePicker(t, m, "x", "y")
	if len(m.filtered) != 0 {
		t.Fatalf("filtered count = %d, want 0", len(m.filtered))
	}

	m = updatePicker(t, m, "backspace", "backspace")
	if m.input.Value() != "" {
		t.Errorf("filter after backspaces = %q, want empty", m.input.Value())
	}
	if len(m.filtered) != 4 {
		t.Errorf("filtered count after clearing = %d, want 4", len(m.filtered))
	}
}

func TestPickerModel_EnterSelects(t *testing.T) {
	t.Parallel()

	m := newPickerModel(testAssistants(), "")

	m = updatePicker(t, m, "down", "enter")
	if !m.done {
		t.Error("model should be done after enter")
	}
	if m.cancelled {
		t.Error("enter must not cancel")
	}
	if m.choice != 1 {
		t.Errorf("choice = %d, want 1", m.choice)
	}
	if got := m.assistants[m.choice].Name; got != "codex" {
		t.Errorf("selected assistant = %q, want %q", got, "codex")
	}
}

func TestPickerModel_EnterOnEmptyFilterList(t *testing.T) {
	t.Parallel()

	m := newPickerModel(testAssistants(), "")

	m = updatePicker(t, m, "z", "z", "enter")
	if !m.done {
		t.Error("model should be done after enter")
	}
	if m.choice != -1 {
		t.Errorf("choice = %d, want -1 when nothing matches", m.choice)
	}
}

func TestPickerModel_EscCancels(t *testing.T) {
	t.Parallel()

	for _, key := range []string{"esc", "ctrl+c"} {
		m := newPickerModel(testAssistants(), "")
		m = updatePicker(t, m, key)
		if !m.cancelled || !m.done {
			t.Errorf("%s: cancelled = %v, done = %v, want both true", key, m.cancelled, m.done)
		}
	}
}

func TestPickerModel_FilterSelectsRankedMatch(t *testing.T) {
	t.Parallel()

	m := newPickerModel(testAssistants(), "")

	// After filtering, enter picks the top-ranked match, not the original
	// list position.
	m = updatePicker(t, m, "a", "i", "enter")
	if m.choice < 0 {
		t.Fatal("expected a selection")
	}
	if got := m.assistants[m.choice].Name; got != "aider" {
		t.Errorf("selected assistant = %q, want %q", got, "aider")
	}
}

func TestPickerModel_CursorClampedAfterFilter(t *testing.T) {
	t.Parallel()

	m := newPickerModel(testAssistants(), "")

	// Move to the bottom, then narrow to a single match.
	m = updatePicker(t, m, "down", "down", "down", "g", "m")
	if m.cursor != 0 {
		t.Errorf("cursor after narrowing = %d, want 0", m.cursor)
	}
}

func TestPickerModel_ViewShowsImage(t *testing.T) {
	t.Parallel()

	m := newPickerModel(testAssistants(), "ghcr.io/gantrylabs")
	view := m.View()
	if fmt.Sprint(view.Content) == "" {
		t.Fatal("View().Content should not be empty")
	}
}

func TestPickerModel_ViewDoneIsEmpty(t *testing.T) {
	t.Parallel()

	m := newPickerModel(testAssistants(), "")
	m = updatePicker(t, m, "enter")
	if view := m.View(); fmt.Sprint(view.Content) != "" {
		t.Errorf("View().Content after done = %q, want empty", view.Content)
	}
}
