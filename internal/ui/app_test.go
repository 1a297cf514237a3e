package ui

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tgienger/pomo/internal/logging"
	"github.com/tgienger/pomo/internal/models"
	"github.com/tgienger/pomo/internal/planner"
	"github.com/tgienger/pomo/internal/store"
	"github.com/tgienger/pomo/internal/ui/views"
)

func newApp(t *testing.T) (*App, *planner.Planner, *time.Time) {
	t.Helper()
	now := time.Date(2026, 10, 16, 9, 0, 0, 0, time.Local)
	p := planner.New(store.NewMemory(), planner.Options{
		Now:    func() time.Time { return now },
		Logger: logging.NopLogger(),
	})
	a := NewApp(p, Options{})
	a.Update(tea.WindowSizeMsg{Width: 80, Height: 40})
	return a, p, &now
}

func TestApp_Routing(t *testing.T) {
	a, p, _ := newApp(t)
	assert.Equal(t, ViewToday, a.currentView)

	_, cmd := a.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("p")})
	require.NotNil(t, cmd)
	a.Update(cmd())
	assert.Equal(t, ViewProjects, a.currentView)

	project, err := p.CreateProject("Thesis")
	require.NoError(t, err)
	a.Update(views.SelectedProject{Project: project})
	assert.Equal(t, ViewTasks, a.currentView)
	require.NotNil(t, a.taskList)
	assert.Contains(t, a.View(), "Thesis")

	_, cmd = a.Update(tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, cmd)
	a.Update(cmd())
	assert.Equal(t, ViewProjects, a.currentView)

	a.Update(views.ShowToday{})
	assert.Equal(t, ViewToday, a.currentView)
}

func TestApp_FocusReturnsToPrompt(t *testing.T) {
	a, p, now := newApp(t)
	require.True(t, p.Start())
	a.Update(views.SelectedProject{Project: models.Project{}})
	require.Equal(t, ViewTasks, a.currentView)

	a.Update(tea.FocusMsg{})
	assert.Equal(t, ViewTasks, a.currentView, "nothing expired yet")

	// the work period ended while the tasks were shown
	*now = now.Add(26 * time.Minute)
	a.Update(tea.FocusMsg{})
	assert.Equal(t, ViewToday, a.currentView)
	assert.True(t, p.Timer().AwaitingActivity)
}
