// Package review is the screen that runs a study session: it shows the
// front of each drawn card, reveals the back, and grades the response.
package review

import (
	"context"
	"errors"
	"fmt"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/mio/internal/deck"
	"github.com/abhisek/mio/internal/router"
	"github.com/abhisek/mio/internal/screen"
	"github.com/abhisek/mio/internal/screens/summary"
	"github.com/abhisek/mio/internal/session"
	"github.com/abhisek/mio/internal/ui/components"
	"github.com/abhisek/mio/internal/ui/layout"
)

type phase int

const (
	phaseLoading phase = iota
	phaseFront
	phaseBack
	phaseSaving
	phaseError
)

const answerWidth = 60

// Screen implements screen.Screen for a running session.
type Screen struct {
	sess     *session.Session
	saver    session.Saver
	deadline string

	phase       phase
	quitConfirm bool
	card        *session.Card
	input       components.TextInput
	notice      string
	err         error
}

var _ screen.Screen = (*Screen)(nil)
var _ screen.KeyHintProvider = (*Screen)(nil)
var _ screen.StatusProvider = (*Screen)(nil)

// New creates a review screen over sess. The session is flushed to saver
// when it completes or the user ends it.
func New(sess *session.Session, saver session.Saver, deadline string) *Screen {
	return &Screen{
		sess:     sess,
		saver:    saver,
		deadline: deadline,
		input:    components.NewTextInput("Type your answer (optional)", answerWidth),
	}
}

func (s *Screen) Init() tea.Cmd {
	return tea.Batch(s.input.Init(), s.drawNext())
}

func (s *Screen) Title() string {
	return "Review · " + s.deadline
}

func (s *Screen) Status() string {
	q := s.sess.Remaining()
	return layout.QuotaStatus(q.NewLeft, q.ReviewLeft)
}

func (s *Screen) KeyHints() []layout.KeyHint {
	if s.quitConfirm {
		return []layout.KeyHint{
			{Key: "Y", Description: "End session"},
			{Key: "N", Description: "Keep going"},
		}
	}
	switch s.phase {
	case phaseFront:
		return []layout.KeyHint{
			{Key: "Enter", Description: "Reveal"},
			{Key: "Ctrl+Z", Description: "Undo"},
			{Key: "Esc", Description: "Quit"},
		}
	case phaseBack:
		hints := gradeHints(s.card.Mode)
		return append(hints,
			layout.KeyHint{Key: "U", Description: "Undo"},
			layout.KeyHint{Key: "Esc", Description: "Quit"},
		)
	case phaseError:
		return []layout.KeyHint{{Key: "any key", Description: "Back"}}
	}
	return nil
}

func gradeHints(mode deck.Mode) []layout.KeyHint {
	if mode == deck.ModeInterval {
		return []layout.KeyHint{{Key: "1-5", Description: "Recall quality"}}
	}
	return []layout.KeyHint{
		{Key: "1", Description: "Wrong"},
		{Key: "2", Description: "Again"},
		{Key: "3", Description: "Right"},
	}
}

func (s *Screen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case drawnMsg:
		return s.handleDrawn(msg)
	case flushedMsg:
		return s.handleFlushed(msg)
	case tea.KeyMsg:
		return s.handleKey(msg)
	}

	if s.phase == phaseFront && !s.quitConfirm {
		var cmd tea.Cmd
		s.input, cmd = s.input.Update(msg)
		return s, cmd
	}
	return s, nil
}

func (s *Screen) drawNext() tea.Cmd {
	sess := s.sess
	return func() tea.Msg {
		card, err := sess.DrawNext()
		return drawnMsg{card: card, err: err}
	}
}

func (s *Screen) handleDrawn(msg drawnMsg) (screen.Screen, tea.Cmd) {
	if errors.Is(msg.err, session.ErrComplete) {
		return s, s.finish()
	}
	if msg.err != nil {
		s.fail(msg.err)
		return s, nil
	}
	return s, s.show(msg.card)
}

func (s *Screen) show(card *session.Card) tea.Cmd {
	s.card = card
	s.phase = phaseFront
	s.input = components.NewTextInput("Type your answer (optional)", answerWidth)
	return s.input.Init()
}

func (s *Screen) fail(err error) {
	s.err = err
	s.phase = phaseError
	s.quitConfirm = false
}

// finish flushes the session and then swaps this screen for the summary.
func (s *Screen) finish() tea.Cmd {
	s.phase = phaseSaving
	s.quitConfirm = false
	sum := s.sess.Summary()
	sess, saver := s.sess, s.saver
	return func() tea.Msg {
		err := sess.Flush(context.Background(), saver)
		return flushedMsg{summary: sum, err: err}
	}
}

func (s *Screen) handleFlushed(msg flushedMsg) (screen.Screen, tea.Cmd) {
	if msg.err != nil {
		s.fail(fmt.Errorf("save session: %w", msg.err))
		return s, nil
	}
	next := summary.New(msg.summary, s.deadline)
	return s, func() tea.Msg { return router.ReplaceScreenMsg{Screen: next} }
}

func (s *Screen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	key := msg.String()

	if s.phase == phaseError {
		return s, func() tea.Msg { return router.PopScreenMsg{} }
	}
	if s.phase == phaseLoading || s.phase == phaseSaving {
		return s, nil
	}

	if s.quitConfirm {
		switch key {
		case "y", "Y":
			return s, s.finish()
		case "n", "N", "esc":
			s.quitConfirm = false
		}
		return s, nil
	}

	if key == "esc" {
		s.quitConfirm = true
		return s, nil
	}

	switch s.phase {
	case phaseFront:
		switch key {
		case "enter":
			s.reveal()
			return s, nil
		case "ctrl+z":
			return s, s.undo()
		}
		var cmd tea.Cmd
		s.input, cmd = s.input.Update(msg)
		return s, cmd

	case phaseBack:
		if key == "u" || key == "U" {
			return s, s.undo()
		}
		if score, ok := gradeKey(s.card.Mode, key); ok {
			return s, s.grade(score)
		}
	}
	return s, nil
}

func (s *Screen) reveal() {
	s.input.Check(s.card.Item.Back)
	s.phase = phaseBack
	s.notice = ""
}

// gradeKey maps a key to a score: 1/2/3 are -1/0/+1 in box mode and 1-5
// are the recall quality in interval mode.
func gradeKey(mode deck.Mode, key string) (int, bool) {
	if len(key) != 1 || key[0] < '1' || key[0] > '9' {
		return 0, false
	}
	n := int(key[0] - '0')
	if mode == deck.ModeInterval {
		return n, n <= 5
	}
	return n - 2, n <= 3
}

func (s *Screen) grade(score int) tea.Cmd {
	stack, err := s.sess.ApplyResponse(s.card.Item.ID, score, s.input.Value())
	if err != nil {
		s.fail(err)
		return nil
	}
	if stack == deck.StackDone {
		s.notice = ""
	} else {
		s.notice = "Card will come back this session"
	}
	s.phase = phaseLoading
	return s.drawNext()
}

func (s *Screen) undo() tea.Cmd {
	u, ok := s.sess.UndoLast()
	if !ok {
		s.notice = "Nothing to undo"
		return nil
	}
	card := u.Card
	s.notice = "Undid last answer"
	return s.show(&card)
}
