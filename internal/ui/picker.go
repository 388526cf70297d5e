package ui

import (
	"fmt"
	"strings"

	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"github.com/sahilm/fuzzy"

	"github.com/gantrylabs/gantry/internal/assistant"
)

// PickResult holds the outcome of the assistant picker.
type PickResult struct {
	Assistant assistant.Assistant
	Cancelled bool
}

// nameSource implements fuzzy.Source over assistant names.
type nameSource []assistant.Assistant

func (s nameSource) String(i int) string { return s[i].Name }
func (s nameSource) Len() int            { return len(s) }

const pickerMaxVisible = 10

type pickerModel struct {
	assistants []assistant.Assistant
	registry   string        // renders the image each assistant would launch
	input      textinput.Model
	filtered   []fuzzy.Match // current matches, ranked when filtering
	cursor     int           // position in filtered
	choice     int           // index into assistants, -1 until chosen
	cancelled  bool
	done       bool
}

func newPickerModel(assistants []assistant.Assistant, registry string) pickerModel {
	ti := textinput.New()
	ti.Placeholder = "type to filter"
	ti.Focus()
	ti.CharLimit = 64

	m := pickerModel{
		assistants: assistants,
		registry:   registry,
		input:      ti,
		choice:     -1,
	}
	m.applyFilter()
	return m
}

func (m pickerModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m pickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyPressMsg); ok {
		switch key.String() {
		case "ctrl+c", "esc":
			m.cancelled = true
			m.done = true
			return m, tea.Quit

		case "enter":
			if len(m.filtered) > 0 && m.cursor < len(m.filtered) {
				m.choice = m.filtered[m.cursor].Index
			}
			m.done = true
			return m, tea.Quit

		case "up", "ctrl+p":
			if m.cursor > 0 {
				m.cursor--
			}
			return m, nil

		case "down", "ctrl+n":
			if m.cursor < len(m.filtered)-1 {
				m.cursor++
			}
			return m, nil
		}
	}

	// Everything else edits the filter.
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	m.applyFilter()
	return m, cmd
}

// applyFilter recomputes the match list. Without a filter all assistants are
// shown in config order; with one, matches come back ranked by score.
func (m *pickerModel) applyFilter() {
	if m.input.Value() == "" {
		m.filtered = make([]fuzzy.Match, len(m.assistants))
		for i := range m.assistants {
			m.filtered[i] = fuzzy.Match{Str: m.assistants[i].Name, Index: i}
		}
	} else {
		m.filtered = fuzzy.FindFrom(m.input.Value(), nameSource(m.assistants))
	}

	if m.cursor >= len(m.filtered) {
		m.cursor = max(0, len(m.filtered)-1)
	}
}

func (m pickerModel) View() tea.View {
	if m.done {
		return tea.NewView("")
	}

	var b strings.Builder
	b.WriteString("Select assistant:\n")
	b.WriteString(m.input.View() + "\n\n")

	if len(m.filtered) == 0 {
		b.WriteString(MutedStyle.Render("  No matches") + "\n")
	}

	start := 0
	if m.cursor >= pickerMaxVisible {
		start = m.cursor - pickerMaxVisible + 1
	}
	end := min(start+pickerMaxVisible, len(m.filtered))

	for i := start; i < end; i++ {
		match := m.filtered[i]
		a := m.assistants[match.Index]

		label := a.Name
		switch {
		case m.input.Value() != "" && len(match.MatchedIndexes) > 0:
			label = highlightMatches(a.Name, match.MatchedIndexes, i == m.cursor)
		case i == m.cursor:
			label = AccentStyle.Render(label)
		default:
			label = NormalStyle.Render(label)
		}

		if i == m.cursor {
			b.WriteString(AccentStyle.Render("> "))
		} else {
			b.WriteString("  ")
		}
		b.WriteString(label)
		b.WriteString(MutedStyle.Render("  " + a.ImageRef(m.registry)))
		b.WriteString("\n")
	}

	if len(m.filtered) > pickerMaxVisible {
		b.WriteString(MutedStyle.Render(fmt.Sprintf("\n  %d/%d", m.cursor+1, len(m.filtered))))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(MutedStyle.Render("↑/↓ navigate • type to filter • enter select • esc cancel"))
	b.WriteString("\n")

	return tea.NewView(b.String())
}

// highlightMatches renders the label with matched characters highlighted.
func highlightMatches(label string, matchedIndexes []int, isSelected bool) string {
	matchSet := make(map[int]bool, len(matchedIndexes))
	for _, idx := range matchedIndexes {
		matchSet[idx] = true
	}

	var result strings.Builder
	for i, r := range []rune(label) {
		char := string(r)
		switch {
		case matchSet[i]:
			result.WriteString(HighlightStyle.Render(char))
		case isSelected:
			result.WriteString(AccentStyle.Render(char))
		default:
			result.WriteString(NormalStyle.Render(char))
		}
	}
	return result.String()
}

// PickAssistant shows a fuzzy-filtered picker over the configured assistants
// and returns the user's choice. An empty assistant list counts as cancelled.
func PickAssistant(assistants []assistant.Assistant, registry string) (PickResult, error) {
	if len(assistants) == 0 {
		return PickResult{Cancelled: true}, nil
	}

	finalModel, err := newProgram(newPickerModel(assistants, registry)).Run()
	if err != nil {
		return PickResult{}, err
	}

	m := finalModel.(pickerModel)
	if m.cancelled || m.choice < 0 {
		return PickResult{Cancelled: true}, nil
	}
	return PickResult{Assistant: m.assistants[m.choice]}, nil
}
