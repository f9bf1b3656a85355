package app

import (
	"context"
	"errors"
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/mio/internal/deck"
	"github.com/abhisek/mio/internal/logging"
	"github.com/abhisek/mio/internal/screens/home"
	"github.com/abhisek/mio/internal/session"
	"github.com/abhisek/mio/internal/store"
)

type fakeLibrary struct{}

func (fakeLibrary) Deadlines(context.Context) ([]deck.Deadline, error) {
	return []deck.Deadline{{ID: 1, Name: "exam", IntervalMode: true}}, nil
}

func (fakeLibrary) OpenSession(_ context.Context, _ deck.Deadline, opts session.Options) (*session.Session, error) {
	return session.New(0, nil, opts)
}

func (fakeLibrary) ReviewEvents(context.Context, store.QueryOpts) ([]store.ReviewEventData, error) {
	return nil, nil
}

type countingSaver struct {
	calls int
	err   error
}

func (c *countingSaver) SaveSession(context.Context, store.SessionData) error {
	c.calls++
	return c.err
}

func TestTracker_FlushesEveryOpenedSession(t *testing.T) {
	ctx := context.Background()
	lib := &tracker{Library: fakeLibrary{}}
	for range 2 {
		_, err := lib.OpenSession(ctx, deck.Deadline{Name: "exam"}, session.Options{})
		require.NoError(t, err)
	}

	saver := &countingSaver{}
	require.NoError(t, lib.flush(ctx, saver, logging.Discard()))
	assert.Equal(t, 2, saver.calls)

	saver = &countingSaver{err: errors.New("disk full")}
	err := lib.flush(ctx, saver, logging.Discard())
	assert.ErrorContains(t, err, "disk full")
}

func TestAppModel_ViewAndQuit(t *testing.T) {
	m := newAppModel(home.New(fakeLibrary{}, &countingSaver{}, nil), nil)
	require.NotNil(t, m.Init())

	next, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	m = next.(AppModel)
	assert.Equal(t, 100, m.width)
	assert.Equal(t, "Deadlines", m.router.Active().Title())

	_, cmd := m.Update(tea.KeyPressMsg{Code: 'c', Mod: tea.ModCtrl})
	require.NotNil(t, cmd)
	_, ok := cmd().(tea.QuitMsg)
	assert.True(t, ok)
}

func TestRun_RequiresDependencies(t *testing.T) {
	assert.Error(t, Run(context.Background(), Options{}))
}
