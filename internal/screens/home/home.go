// Package home is the deadline menu the UI starts on.
package home

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
	"github.com/abhisek/mio/internal/screens/history"
	"github.com/abhisek/mio/internal/screens/review"
	"github.com/abhisek/mio/internal/session"
	"github.com/abhisek/mio/internal/ui/components"
	"github.com/abhisek/mio/internal/ui/theme"
)

// Library is what the menu needs to list deadlines, start sessions and
// browse the review log.
type Library interface {
	history.Log
	Deadlines(ctx context.Context) ([]deck.Deadline, error)
	OpenSession(ctx context.Context, dl deck.Deadline, opts session.Options) (*session.Session, error)
}

type deadlinesMsg struct {
	deadlines []deck.Deadline
	err       error
}

type openedMsg struct {
	deadline deck.Deadline
	sess     *session.Session
	err      error
}

// HomeScreen lists deadlines; picking one starts a review session.
type HomeScreen struct {
	lib    Library
	saver  session.Saver
	now    func() time.Time
	menu   components.Menu
	count  int
	loaded bool
	err    error
}

var _ screen.Screen = (*HomeScreen)(nil)

// New creates a new HomeScreen.
func New(lib Library, saver session.Saver, now func() time.Time) *HomeScreen {
	if now == nil {
		now = time.Now
	}
	return &HomeScreen{lib: lib, saver: saver, now: now}
}

func (h *HomeScreen) Init() tea.Cmd {
	lib := h.lib
	return func() tea.Msg {
		dls, err := lib.Deadlines(context.Background())
		return deadlinesMsg{deadlines: dls, err: err}
	}
}

func (h *HomeScreen) Title() string {
	return "Deadlines"
}

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case deadlinesMsg:
		h.loaded = true
		h.err = msg.err
		h.count = len(msg.deadlines)
		h.menu = components.NewMenu(h.menuItems(msg.deadlines))
		return h, nil

	case openedMsg:
		if msg.err != nil {
			h.err = msg.err
			return h, nil
		}
		h.err = nil
		next := review.New(msg.sess, h.saver, msg.deadline.Name)
		return h, func() tea.Msg { return router.PushScreenMsg{Screen: next} }
	}

	var cmd tea.Cmd
	h.menu, cmd = h.menu.Update(msg)
	return h, cmd
}

func (h *HomeScreen) menuItems(dls []deck.Deadline) []components.MenuItem {
	now := h.now()
	items := make([]components.MenuItem, 0, len(dls)+2)
	for _, dl := range dls {
		items = append(items, components.MenuItem{
			Label:  dl.Name,
			Detail: describe(dl, now),
			Action: h.open(dl),
		})
	}
	lib := h.lib
	return append(items, components.MenuItem{
		Label: "History",
		Action: func() tea.Cmd {
			return func() tea.Msg { return router.PushScreenMsg{Screen: history.New(lib)} }
		},
	}, components.MenuItem{
		Label:  "Quit",
		Action: func() tea.Cmd { return tea.Quit },
	})
}

func describe(dl deck.Deadline, now time.Time) string {
	if dl.IntervalMode {
		return "spaced repetition"
	}
	switch dtg := dl.DaysToGo(now); {
	case dtg < 0:
		return "deadline passed"
	case dtg == 0:
		return "due today"
	case dtg == 1:
		return "1 day left"
	default:
		return fmt.Sprintf("%d days left", dtg)
	}
}

func (h *HomeScreen) open(dl deck.Deadline) func() tea.Cmd {
	lib := h.lib
	return func() tea.Cmd {
		return func() tea.Msg {
			sess, err := lib.OpenSession(context.Background(), dl, session.Options{})
			return openedMsg{deadline: dl, sess: sess, err: err}
		}
	}
}

func (h *HomeScreen) View(width, height int) string {
	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(theme.Title.Width(width).Render("What are we studying today?"))
	b.WriteString("\n\n")

	switch {
	case !h.loaded:
		b.WriteString(theme.Subtitle.Width(width).Render("Loading deadlines..."))
	case h.count == 0 && h.err == nil:
		b.WriteString(theme.Subtitle.Width(width).Render("No deadlines yet. Create one with `mio deadline create`."))
		b.WriteString("\n\n")
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, h.menu.View()))
	default:
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, h.menu.View()))
	}

	if h.err != nil {
		b.WriteString("\n")
		b.WriteString(lipgloss.NewStyle().Foreground(theme.Error).Width(width).Align(lipgloss.Center).
			Render("Error: " + h.err.Error()))
	}
	return b.String()
}
