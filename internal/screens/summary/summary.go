// Package summary shows what a finished review session did.
package summary

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/mio/internal/deck"
	"github.com/abhisek/mio/internal/router"
	"github.com/abhisek/mio/internal/screen"
	"github.com/abhisek/mio/internal/session"
	"github.com/abhisek/mio/internal/ui/layout"
	"github.com/abhisek/mio/internal/ui/theme"
)

// SummaryScreen displays the session summary.
type SummaryScreen struct {
	summary  *session.Summary
	deadline string
}

var _ screen.Screen = (*SummaryScreen)(nil)
var _ screen.KeyHintProvider = (*SummaryScreen)(nil)

// New creates a new SummaryScreen.
func New(summary *session.Summary, deadline string) *SummaryScreen {
	return &SummaryScreen{summary: summary, deadline: deadline}
}

func (s *SummaryScreen) Init() tea.Cmd {
	return nil
}

func (s *SummaryScreen) Title() string {
	return "Session Summary"
}

func (s *SummaryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Continue"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *SummaryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyMsg); ok {
		switch kmsg.String() {
		case "enter", "esc":
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		}
	}
	return s, nil
}

func (s *SummaryScreen) View(width, height int) string {
	sum := s.summary
	if sum == nil {
		return ""
	}

	center := func(style lipgloss.Style, text string) string {
		return style.Width(width).Align(lipgloss.Center).Render(text)
	}

	var b strings.Builder
	title := "Session complete"
	if s.deadline != "" {
		title += " · " + s.deadline
	}
	b.WriteString(center(theme.Title, title))
	b.WriteString("\n\n")

	mins := int(sum.Duration.Minutes())
	secs := int(sum.Duration.Seconds()) % 60
	b.WriteString(center(theme.Hint, fmt.Sprintf("Duration: %d:%02d", mins, secs)))
	b.WriteString("\n\n")

	stats := fmt.Sprintf("Answers: %d      Passed: %d      Repeated: %d      Learned: %d      Accuracy: %.0f%%",
		sum.Responses, sum.Passed, sum.Repeated, sum.Introduced, sum.Accuracy*100)
	b.WriteString(center(theme.Body, stats))
	b.WriteString("\n\n")

	divider := lipgloss.NewStyle().Foreground(theme.Border).Render(strings.Repeat("─", min(width-8, 60)))
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, theme.Hint.Render("Decks")))
	b.WriteString("\n")
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, divider))
	b.WriteString("\n\n")

	for _, d := range sum.Decks {
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, deckLine(d)))
		b.WriteString("\n")
	}
	return b.String()
}

func deckLine(d session.DeckSummary) string {
	line := fmt.Sprintf("%s    today %d new, %d reviews    left %d new, %d reviews",
		d.Name, d.NewPracticed, d.ReviewPracticed, d.NewLeft, d.ReviewLeft)
	style := theme.Body
	if d.NewLeft == 0 && d.ReviewLeft == 0 {
		style = theme.Correct
	}
	out := style.Render(line)
	if d.Mode == deck.ModeBox && len(d.BoxCounts) > 0 {
		boxes := make([]string, len(d.BoxCounts))
		for i, n := range d.BoxCounts {
			boxes[i] = fmt.Sprintf("%d", n)
		}
		out += "\n" + theme.Hint.Render("boxes "+strings.Join(boxes, " | "))
	}
	return out
}
