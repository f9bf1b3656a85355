package summary

import (
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/mio/internal/deck"
	"github.com/abhisek/mio/internal/router"
	"github.com/abhisek/mio/internal/session"
)

func testSummary() *session.Summary {
	return &session.Summary{
		Duration:   12 * time.Minute,
		Responses:  14,
		Passed:     11,
		Repeated:   3,
		Introduced: 5,
		Accuracy:   float64(11) / float64(14),
		Decks: []session.DeckSummary{
			{Name: "verbs", Mode: deck.ModeBox, NewPracticed: 5, ReviewPracticed: 6, BoxCounts: []int{3, 5, 2, 0}},
			{Name: "capitals", Mode: deck.ModeInterval, ReviewPracticed: 3, ReviewLeft: 2},
		},
	}
}

func TestSummaryScreen_Title(t *testing.T) {
	s := New(testSummary(), "exam")
	if s.Title() != "Session Summary" {
		t.Errorf("Title = %q, want %q", s.Title(), "Session Summary")
	}
}

func TestSummaryScreen_Display(t *testing.T) {
	s := New(testSummary(), "exam")
	view := s.View(100, 30)
	for _, want := range []string{"exam", "verbs", "capitals", "79%", "boxes 3 | 5 | 2 | 0"} {
		if !strings.Contains(view, want) {
			t.Errorf("view does not contain %q", want)
		}
	}
	if New(nil, "").View(80, 24) != "" {
		t.Error("nil summary should render nothing")
	}
}

func TestSummaryScreen_Navigation(t *testing.T) {
	for _, code := range []rune{tea.KeyEnter, tea.KeyEscape} {
		s := New(testSummary(), "exam")
		_, cmd := s.Update(tea.KeyPressMsg{Code: code})
		if cmd == nil {
			t.Fatalf("expected a command for key %v", code)
		}
		if _, ok := cmd().(router.PopScreenMsg); !ok {
			t.Errorf("key %v should pop the screen", code)
		}
	}
}

func TestSummaryScreen_KeyHints(t *testing.T) {
	s := New(testSummary(), "exam")
	if len(s.KeyHints()) != 2 {
		t.Errorf("KeyHints length = %d, want 2", len(s.KeyHints()))
	}
}
