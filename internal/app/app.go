// Package app wires the screens into a Bubble Tea program.
package app

import (
	"context"
	"errors"
	"fmt"
	"sync"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/sirupsen/logrus"

	"github.com/abhisek/mio/internal/deck"
	"github.com/abhisek/mio/internal/router"
	"github.com/abhisek/mio/internal/screen"
	"github.com/abhisek/mio/internal/screens/home"
	"github.com/abhisek/mio/internal/screens/review"
	"github.com/abhisek/mio/internal/session"
	"github.com/abhisek/mio/internal/ui/layout"
)

// Options configures Run.
type Options struct {
	Library home.Library
	Saver   session.Saver
	Logger  logrus.FieldLogger

	// Deadline, when set, starts a review of it right away instead of
	// waiting on the menu.
	Deadline *deck.Deadline
}

// tracker remembers every session the UI opened so they can be flushed
// when the program exits, however it exits.
type tracker struct {
	home.Library

	mu       sync.Mutex
	sessions []*session.Session
}

func (t *tracker) OpenSession(ctx context.Context, dl deck.Deadline, opts session.Options) (*session.Session, error) {
	sess, err := t.Library.OpenSession(ctx, dl, opts)
	if err != nil {
		return nil, err
	}
	t.mu.Lock()
	t.sessions = append(t.sessions, sess)
	t.mu.Unlock()
	return sess, nil
}

func (t *tracker) flush(ctx context.Context, saver session.Saver, log logrus.FieldLogger) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	var errs []error
	for _, sess := range t.sessions {
		if err := sess.Flush(ctx, saver); err != nil {
			log.WithError(err).WithField("session", sess.ID()).Error("flush on exit failed")
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// AppModel is the root Bubble Tea model.
type AppModel struct {
	router *router.Router
	first  tea.Cmd
	width  int
	height int
}

func newAppModel(initial screen.Screen, next screen.Screen) AppModel {
	m := AppModel{router: router.New(initial)}
	cmds := []tea.Cmd{initial.Init()}
	if next != nil {
		cmds = append(cmds, m.router.Push(next))
	}
	m.first = tea.Batch(cmds...)
	return m
}

func (m AppModel) Init() tea.Cmd {
	return m.first
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
	}

	cmd := m.router.Update(msg)
	return m, cmd
}

func (m AppModel) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true

	if m.width == 0 || m.height == 0 {
		return v
	}

	if layout.IsTooSmall(m.width, m.height) {
		v.SetContent(layout.RenderMinSizeMessage(m.width, m.height))
		return v
	}

	active := m.router.Active()
	title, status := "", ""
	var hints []layout.KeyHint
	if active != nil {
		title = active.Title()
		if sp, ok := active.(screen.StatusProvider); ok {
			status = sp.Status()
		}
		if hp, ok := active.(screen.KeyHintProvider); ok {
			hints = hp.KeyHints()
		}
	}
	if hints == nil {
		hints = []layout.KeyHint{
			{Key: "↑↓", Description: "Navigate"},
			{Key: "Enter", Description: "Select"},
		}
	}
	hints = append(hints, layout.KeyHint{Key: "Ctrl+C", Description: "Quit"})

	header := layout.RenderHeader(title, status, m.width)
	footer := layout.RenderFooter(hints, m.width)

	contentHeight := max(m.height-lipgloss.Height(header)-lipgloss.Height(footer), 0)
	content := m.router.View(m.width, contentHeight)
	v.SetContent(layout.RenderFrame(header, content, footer, m.width, m.height))
	return v
}

// Run starts the Bubble Tea program and flushes every session it opened
// once the program exits.
func Run(ctx context.Context, opts Options) error {
	if opts.Library == nil || opts.Saver == nil {
		return errors.New("app: library and saver are required")
	}
	log := opts.Logger
	if log == nil {
		log = logrus.StandardLogger()
	}

	lib := &tracker{Library: opts.Library}
	menu := home.New(lib, opts.Saver, nil)

	var first screen.Screen
	if opts.Deadline != nil {
		sess, err := lib.OpenSession(ctx, *opts.Deadline, session.Options{Logger: log})
		if err != nil {
			return fmt.Errorf("open session: %w", err)
		}
		first = review.New(sess, opts.Saver, opts.Deadline.Name)
	}

	p := tea.NewProgram(newAppModel(menu, first), tea.WithContext(ctx))
	_, runErr := p.Run()
	if err := lib.flush(context.WithoutCancel(ctx), opts.Saver, log); err != nil {
		return errors.Join(runErr, fmt.Errorf("save sessions: %w", err))
	}
	if runErr != nil {
		return fmt.Errorf("run program: %w", runErr)
	}
	return nil
}
