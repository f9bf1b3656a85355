package review

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/mio/internal/deck"
	"github.com/abhisek/mio/internal/ui/components"
	"github.com/abhisek/mio/internal/ui/theme"
)

func (s *Screen) View(width, height int) string {
	switch {
	case s.phase == phaseError:
		return renderError(width, s.err)
	case s.quitConfirm:
		return renderQuitConfirm(width)
	case s.phase == phaseSaving:
		return centered(width, theme.Hint, "\n\n\nSaving your progress...")
	case s.card == nil:
		return centered(width, theme.Hint, "\n\n\nPicking the next card...")
	}
	return s.renderCard(width)
}

func centered(width int, style lipgloss.Style, text string) string {
	return style.Width(width).Align(lipgloss.Center).Render(text)
}

func (s *Screen) renderCard(width int) string {
	var b strings.Builder

	q := s.sess.Remaining()
	bar := components.NewProgressBar("", q.Progressed, q.Progressed+q.NewLeft+q.ReviewLeft, min(width-8, 50))
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, bar.View()))
	b.WriteString("\n\n")

	badge := theme.StackReview.Render("REVIEW")
	if s.card.Stack == deck.StackNew {
		badge = theme.StackNew.Render("NEW")
	}
	info := fmt.Sprintf("%s  %s", badge, theme.Hint.Render(s.card.DeckName))
	if box := s.card.Item.Box; box != nil {
		info += theme.Hint.Render(fmt.Sprintf("  box %d", box.Position))
	}
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, info))
	b.WriteString("\n\n")

	cardWidth := min(width-8, 70)
	body := theme.Body.Bold(true).Render(s.card.Item.Front)
	if s.phase == phaseBack {
		divider := lipgloss.NewStyle().Foreground(theme.Border).Render(strings.Repeat("─", cardWidth-10))
		body += "\n\n" + divider + "\n\n" + theme.Body.Render(s.card.Item.Back)
	}
	framed := theme.Card.Width(cardWidth).Align(lipgloss.Center).Render(body)
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, framed))
	b.WriteString("\n\n")

	if s.phase == phaseFront || s.input.Value() != "" {
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, "Answer: "+s.input.View()))
		b.WriteString("\n\n")
	}

	if s.phase == phaseBack {
		b.WriteString(centered(width, theme.Hint, gradePrompt(s.card.Mode)))
		b.WriteString("\n")
	}
	if s.notice != "" {
		b.WriteString(centered(width, theme.Hint, s.notice))
	}
	return b.String()
}

func gradePrompt(mode deck.Mode) string {
	if mode == deck.ModeInterval {
		return "How well did you recall it? 1 (not at all) to 5 (perfectly)"
	}
	return "[1] wrong   [2] again   [3] right"
}

func renderQuitConfirm(width int) string {
	var b strings.Builder
	b.WriteString("\n\n\n")
	b.WriteString(centered(width, theme.Body.Bold(true), "End session now?"))
	b.WriteString("\n")
	b.WriteString(centered(width, theme.Hint, "Your progress will be saved."))
	b.WriteString("\n\n")
	b.WriteString(centered(width, lipgloss.NewStyle().Foreground(theme.Success), "[Y] Yes, end session"))
	b.WriteString("\n")
	b.WriteString(centered(width, lipgloss.NewStyle().Foreground(theme.Primary), "[N] No, keep going"))
	return b.String()
}

func renderError(width int, err error) string {
	return centered(width, lipgloss.NewStyle().Foreground(theme.Error),
		fmt.Sprintf("\n\n\nError: %v\n\nPress any key to go back.", err))
}
