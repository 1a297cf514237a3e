package ui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/tgienger/pomo/internal/models"
	"github.com/tgienger/pomo/internal/planner"
	"github.com/tgienger/pomo/internal/ui/views"
)

// Currently active view
type View int

const (
	ViewToday View = iota
	ViewProjects
	ViewTasks
)

// Options configures the terminal UI
type Options struct {
	TickInterval  time.Duration
	DragThreshold int
}

type App struct {
	planner     *planner.Planner
	currentView View
	today       *views.TodayView
	projectList *views.ProjectListView
	taskList    *views.TaskListView
	width       int
	height      int
}

// Creates a new application
func NewApp(p *planner.Planner, opts Options) *App {
	if opts.TickInterval <= 0 {
		opts.TickInterval = 250 * time.Millisecond
	}
	return &App{
		planner:     p,
		currentView: ViewToday,
		today:       views.NewTodayView(p, opts.TickInterval, opts.DragThreshold),
		projectList: views.NewProjectListView(p),
	}
}

func (a *App) Init() tea.Cmd {
	return tea.Batch(a.today.Init(), a.projectList.Init())
}

func (a *App) resize() tea.Cmd {
	return func() tea.Msg {
		return tea.WindowSizeMsg{Width: a.width, Height: a.height}
	}
}

func (a *App) openProject(project models.Project) tea.Cmd {
	a.currentView = ViewTasks
	a.taskList = views.NewTaskListView(a.planner, project)
	return tea.Batch(a.taskList.Init(), a.resize())
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		// the persistent views always track the size
		a.today.Update(msg)
		a.projectList.Update(msg)
		if a.taskList != nil {
			a.taskList.Update(msg)
		}
		return a, nil

	case tea.FocusMsg:
		_, cmd := a.today.Update(msg)
		if a.today.Prompting() {
			a.currentView = ViewToday
		}
		return a, cmd

	case views.ShowProjects:
		a.currentView = ViewProjects
		return a, tea.Batch(a.projectList.Init(), a.resize())

	case views.ShowToday:
		a.currentView = ViewToday
		return a, tea.Batch(a.today.Init(), a.resize())

	case views.SelectedProject:
		return a, a.openProject(msg.Project)

	case views.BackToProjects:
		a.currentView = ViewProjects
		return a, tea.Batch(a.projectList.Init(), a.resize())

	// the timer keeps running whichever view is shown
	case views.TickMsg:
		_, cmd := a.today.Update(msg)
		if a.today.Prompting() {
			a.currentView = ViewToday
		}
		return a, cmd
	}

	var cmd tea.Cmd
	switch a.currentView {
	case ViewToday:
		_, cmd = a.today.Update(msg)
	case ViewProjects:
		_, cmd = a.projectList.Update(msg)
	case ViewTasks:
		_, cmd = a.taskList.Update(msg)
	}

	return a, cmd
}

func (a *App) View() string {
	switch a.currentView {
	case ViewProjects:
		return a.projectList.View()
	case ViewTasks:
		if a.taskList != nil {
			return a.taskList.View()
		}
	}
	return a.today.View()
}
