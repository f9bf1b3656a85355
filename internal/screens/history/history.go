// Package history lists past review sessions from the review log.
package history

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/mio/internal/deck"
	"github.com/abhisek/mio/internal/router"
	"github.com/abhisek/mio/internal/screen"
	"github.com/abhisek/mio/internal/store"
	"github.com/abhisek/mio/internal/ui/layout"
	"github.com/abhisek/mio/internal/ui/theme"
)

// maxEvents bounds how much of the log is loaded.
const maxEvents = 2000

// Log reads the review log.
type Log interface {
	ReviewEvents(ctx context.Context, opts store.QueryOpts) ([]store.ReviewEventData, error)
}

// Session is one review session reconstructed from its events.
type Session struct {
	ID       string
	Start    time.Time
	End      time.Time
	Events   []store.ReviewEventData
	Passed   int
	Repeated int
}

// Accuracy is the share of responses that finished the card.
func (s Session) Accuracy() float64 {
	if len(s.Events) == 0 {
		return 0
	}
	return float64(s.Passed) / float64(len(s.Events))
}

type historyLoadedMsg struct {
	sessions []Session
	err      error
}

// HistoryScreen displays past sessions, newest first.
type HistoryScreen struct {
	log      Log
	sessions []Session
	selected int
	expanded map[int]bool
	loaded   bool
	errMsg   string
}

var _ screen.Screen = (*HistoryScreen)(nil)
var _ screen.KeyHintProvider = (*HistoryScreen)(nil)

// New creates a new HistoryScreen.
func New(log Log) *HistoryScreen {
	return &HistoryScreen{
		log:      log,
		expanded: make(map[int]bool),
	}
}

func (s *HistoryScreen) Init() tea.Cmd {
	log := s.log
	return func() tea.Msg {
		events, err := log.ReviewEvents(context.Background(), store.QueryOpts{Limit: maxEvents})
		if err != nil {
			return historyLoadedMsg{err: err}
		}
		return historyLoadedMsg{sessions: GroupSessions(events)}
	}
}

// GroupSessions folds events into sessions ordered newest first.
func GroupSessions(events []store.ReviewEventData) []Session {
	index := make(map[string]int)
	var out []Session
	for _, e := range events {
		i, ok := index[e.SessionID]
		if !ok {
			i = len(out)
			index[e.SessionID] = i
			out = append(out, Session{ID: e.SessionID, Start: e.Timestamp})
		}
		s := &out[i]
		s.Events = append(s.Events, e)
		if e.Timestamp.Before(s.Start) {
			s.Start = e.Timestamp
		}
		if e.Timestamp.After(s.End) {
			s.End = e.Timestamp
		}
		if e.StackAfter == string(deck.StackDone) {
			s.Passed++
		} else {
			s.Repeated++
		}
	}
	for l, r := 0, len(out)-1; l < r; l, r = l+1, r-1 {
		out[l], out[r] = out[r], out[l]
	}
	return out
}

func (s *HistoryScreen) Title() string {
	return "History"
}

func (s *HistoryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Details"},
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *HistoryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case historyLoadedMsg:
		if msg.err != nil {
			s.errMsg = msg.err.Error()
		} else {
			s.sessions = msg.sessions
		}
		s.loaded = true
		return s, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		case "up", "k":
			if s.selected > 0 {
				s.selected--
			}
		case "down", "j":
			if s.selected < len(s.sessions)-1 {
				s.selected++
			}
		case "enter":
			s.expanded[s.selected] = !s.expanded[s.selected]
		}
	}
	return s, nil
}

func (s *HistoryScreen) View(width, height int) string {
	center := lipgloss.NewStyle().Width(width).Align(lipgloss.Center)
	if s.errMsg != "" {
		return center.Foreground(theme.Error).Render("\n\nError: " + s.errMsg)
	}
	if !s.loaded {
		return center.Foreground(theme.TextDim).Render("\n\n  Loading history...")
	}
	if len(s.sessions) == 0 {
		return center.Foreground(theme.TextDim).Italic(true).Render("\n\n  No sessions yet.")
	}

	var b strings.Builder
	b.WriteString("\n")
	for i, sess := range s.sessions {
		d := sess.End.Sub(sess.Start).Round(time.Second)
		line := fmt.Sprintf("%s  %d:%02d  %d responses  %.0f%% passed",
			sess.Start.Local().Format("Jan 02, 2006 15:04"),
			int(d.Minutes()), int(d.Seconds())%60,
			len(sess.Events), 100*sess.Accuracy())

		style, prefix := theme.Unselected, "  "
		if i == s.selected {
			style, prefix = theme.Selected, "▸ "
		}
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, style.Render(prefix+line)))
		b.WriteString("\n")

		if s.expanded[i] {
			for _, e := range sess.Events {
				b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, eventLine(e)))
				b.WriteString("\n")
			}
		}
	}
	return b.String()
}

func eventLine(e store.ReviewEventData) string {
	moved := fmt.Sprintf("%s → %s", e.StackBefore, e.StackAfter)
	if e.BoxBefore != e.BoxAfter {
		moved += fmt.Sprintf("  box %d → %d", e.BoxBefore, e.BoxAfter)
	}
	line := fmt.Sprintf("    card %d  grade %+d  %s", e.CardID, e.Score, moved)
	if e.StackAfter == string(deck.StackDone) {
		return theme.Correct.UnsetBold().Render(line)
	}
	return theme.Hint.Render(line)
}
