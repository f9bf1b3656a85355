package components

import (
	"strings"

	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/mio/internal/ui/theme"
)

// TextInput wraps bubbles/textinput for typed answers. After Check it shows
// whether the answer matched.
type TextInput struct {
	Model   textinput.Model
	checked bool
	match   bool
}

// NewTextInput creates a focused text input.
func NewTextInput(placeholder string, maxWidth int) TextInput {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.Focus()
	if maxWidth > 0 {
		ti.CharLimit = maxWidth
	}
	return TextInput{Model: ti}
}

// Init returns the initial command.
func (t TextInput) Init() tea.Cmd {
	return t.Model.Focus()
}

// Update handles messages. A checked input no longer takes keys.
func (t TextInput) Update(msg tea.Msg) (TextInput, tea.Cmd) {
	if t.checked {
		return t, nil
	}
	var cmd tea.Cmd
	t.Model, cmd = t.Model.Update(msg)
	return t, cmd
}

// View renders the text input.
func (t TextInput) View() string {
	view := t.Model.View()
	if t.checked && t.Value() != "" {
		if t.match {
			view += " " + theme.Correct.Render("✓")
		} else {
			view += " " + theme.Incorrect.Render("✗")
		}
	}
	return view
}

// Value returns the trimmed input value.
func (t TextInput) Value() string {
	return strings.TrimSpace(t.Model.Value())
}

// Check compares the typed answer with want, ignoring case and surrounding
// space, and freezes the input.
func (t *TextInput) Check(want string) bool {
	t.checked = true
	t.match = strings.EqualFold(t.Value(), strings.TrimSpace(want))
	t.Model.Blur()
	return t.match
}
