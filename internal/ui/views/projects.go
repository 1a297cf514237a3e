package views

import (
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/tgienger/pomo/internal/models"
	"github.com/tgienger/pomo/internal/planner"
	"github.com/tgienger/pomo/internal/ui/keys"
	"github.com/tgienger/pomo/internal/ui/styles"
)

// miscName labels the pseudo-project holding tasks without a project
const miscName = "Miscellaneous"

type projectItem struct {
	project models.Project // zero ID for miscellaneous tasks
	tasks   int
}

func (i projectItem) Title() string {
	if i.project.ID == "" {
		return miscName
	}
	return i.project.Name
}

func (i projectItem) Description() string {
	if i.tasks == 1 {
		return "1 task"
	}
	return fmt.Sprintf("%d tasks", i.tasks)
}

func (i projectItem) FilterValue() string { return i.Title() }

type projectDelegate struct {
	styles *styles.Styles
	width  int
}

func (d projectDelegate) Height() int                               { return 2 }
func (d projectDelegate) Spacing() int                              { return 1 }
func (d projectDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd { return nil }

func (d projectDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	p, ok := item.(projectItem)
	if !ok {
		return
	}

	selected := index == m.Index()
	width := max(d.width-4, 20)

	var titleStyle, descStyle lipgloss.Style
	if selected {
		titleStyle = d.styles.ListSelected.Width(width)
		descStyle = d.styles.ListSelected.Foreground(styles.Current.ForegroundDim).Width(width)
	} else {
		titleStyle = d.styles.ListItem.Width(width)
		descStyle = d.styles.ListItem.Foreground(styles.Current.ForegroundDim).Width(width)
	}

	title := titleStyle.Render(styles.Swatch(p.project.Color) + " " + p.Title())
	desc := descStyle.Render(p.Description())

	fmt.Fprintf(w, "%s\n%s", title, desc)
}

// ProjectListView lists projects plus the miscellaneous bucket
type ProjectListView struct {
	planner          *planner.Planner
	list             list.Model
	delegate         *projectDelegate
	styles           *styles.Styles
	keys             keys.KeyMap
	width            int
	height           int
	creating         bool
	loaded           bool
	confirmingDelete bool
	deleteTargetID   string
	deleteTargetName string
	newName          textinput.Model
	err              error

	showHelpPopup bool
}

func NewProjectListView(p *planner.Planner) *ProjectListView {
	s := styles.NewStyles()

	newName := textinput.New()
	newName.Placeholder = "Project name"
	newName.CharLimit = 100

	delegate := &projectDelegate{styles: s, width: 80}

	l := list.New([]list.Item{}, delegate, 0, 0)
	l.Title = "Projects"
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(true)
	l.Styles.Title = s.Title
	l.SetShowHelp(false)

	return &ProjectListView{
		planner:  p,
		list:     l,
		delegate: delegate,
		styles:   s,
		keys:     keys.DefaultKeyMap(),
		newName:  newName,
	}
}

func (v *ProjectListView) Init() tea.Cmd {
	return v.loadProjects
}

func (v *ProjectListView) loadProjects() tea.Msg {
	cat := v.planner.Catalog()
	projects := cat.ListProjects()
	items := make([]projectItem, 0, len(projects)+1)
	for _, p := range projects {
		items = append(items, projectItem{project: p, tasks: len(cat.ListProjectTasks(p.ID))})
	}
	items = append(items, projectItem{tasks: len(cat.ListProjectTasks(""))})
	return projectsLoadedMsg{items: items}
}

type projectsLoadedMsg struct {
	items []projectItem
}

// SelectedProject opens the task list of a project, or the miscellaneous
// tasks when Project has no ID
type SelectedProject struct {
	Project models.Project
}

func (v *ProjectListView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width = msg.Width
		v.height = msg.Height
		contentWidth := styles.ContentWidth(msg.Width)
		v.delegate.width = contentWidth
		v.list.SetSize(contentWidth-4, msg.Height-6)
		return v, nil

	case projectsLoadedMsg:
		items := make([]list.Item, len(msg.items))
		for i, p := range msg.items {
			items[i] = p
		}
		v.list.SetItems(items)
		v.loaded = true
		return v, nil

	case tea.KeyMsg:
		if v.showHelpPopup {
			v.showHelpPopup = false
			return v, nil
		}

		if v.confirmingDelete {
			return v.updateConfirmDelete(msg)
		}

		if v.creating {
			return v.updateCreating(msg)
		}

		if v.list.FilterState() == list.Filtering {
			break
		}

		switch {
		case key.Matches(msg, v.keys.Quit):
			return v, tea.Quit
		case key.Matches(msg, v.keys.Back), key.Matches(msg, v.keys.Tab):
			return v, func() tea.Msg { return ShowToday{} }
		case key.Matches(msg, v.keys.New):
			v.creating = true
			v.err = nil
			v.newName.Reset()
			v.newName.Focus()
			return v, textinput.Blink
		case key.Matches(msg, v.keys.Help):
			v.showHelpPopup = true
			return v, nil
		case key.Matches(msg, v.keys.Enter):
			if item, ok := v.list.SelectedItem().(projectItem); ok {
				return v, func() tea.Msg {
					return SelectedProject{Project: item.project}
				}
			}
		case key.Matches(msg, v.keys.Delete):
			if item, ok := v.list.SelectedItem().(projectItem); ok && item.project.ID != "" {
				v.confirmingDelete = true
				v.deleteTargetID = item.project.ID
				v.deleteTargetName = item.project.Name
				return v, nil
			}
		}
	}

	var cmd tea.Cmd
	v.list, cmd = v.list.Update(msg)
	return v, cmd
}

func (v *ProjectListView) updateConfirmDelete(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		v.confirmingDelete = false
		v.err = v.planner.DeleteProject(v.deleteTargetID)
		return v, v.loadProjects
	case "n", "N", "esc":
		v.confirmingDelete = false
		return v, nil
	}
	return v, nil
}

func (v *ProjectListView) updateCreating(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, v.keys.Back):
		v.creating = false
		return v, nil

	case key.Matches(msg, v.keys.Enter), msg.String() == "ctrl+s":
		project, err := v.planner.CreateProject(v.newName.Value())
		if err != nil {
			v.err = err
			return v, nil
		}
		v.creating = false
		return v, func() tea.Msg {
			return SelectedProject{Project: project}
		}
	}

	var cmd tea.Cmd
	v.newName, cmd = v.newName.Update(msg)
	return v, cmd
}

// View renders the view
func (v *ProjectListView) View() string {
	if v.showHelpPopup {
		return v.renderHelpPopup()
	}

	if v.confirmingDelete {
		return v.renderDeleteConfirm()
	}

	if v.creating {
		return v.renderCreateForm()
	}

	if !v.loaded {
		return v.styles.TitleMuted.Render("Loading...")
	}

	content := v.list.View() + "\n" + v.renderHelp()
	return styles.CenterView(content, v.width, v.height)
}

func (v *ProjectListView) renderCreateForm() string {
	s := v.styles
	contentWidth := styles.ContentWidth(v.width)
	inputWidth := clamp(contentWidth-6, 20, 50)

	parts := []string{
		s.Title.Render("New Project"),
		"",
		"Name:",
		s.InputFocused.Width(inputWidth).Render(v.newName.View()),
		"",
		s.TitleMuted.Render("↵: create • Esc: cancel"),
	}
	if v.err != nil {
		parts = append(parts, "", s.Error.Render(v.err.Error()))
	}

	centered := lipgloss.Place(contentWidth, v.height,
		lipgloss.Center, lipgloss.Center,
		lipgloss.JoinVertical(lipgloss.Left, parts...),
	)
	return styles.CenterView(centered, v.width, v.height)
}

func (v *ProjectListView) renderHelp() string {
	contentWidth := styles.ContentWidth(v.width)
	if contentWidth > 0 && contentWidth < 50 {
		return v.styles.Help.Render(v.styles.HelpKey.Render("?") + " help")
	}
	return v.styles.Help.Render(
		fmt.Sprintf("%s tasks • %s new • %s del • %s timer • %s quit",
			v.styles.HelpKey.Render("↵"),
			v.styles.HelpKey.Render("n"),
			v.styles.HelpKey.Render("d"),
			v.styles.HelpKey.Render("esc"),
			v.styles.HelpKey.Render("q"),
		),
	)
}

func (v *ProjectListView) renderHelpPopup() string {
	s := v.styles
	contentWidth := styles.ContentWidth(v.width)

	helpItems := []string{
		s.HelpKey.Render("↵") + "      open tasks",
		s.HelpKey.Render("n") + "      new project",
		s.HelpKey.Render("d") + "      delete project",
		s.HelpKey.Render("/") + "      filter",
		s.HelpKey.Render("esc") + "    back to timer",
		s.HelpKey.Render("q") + "      quit",
		"",
		s.TitleMuted.Render("Press any key to close"),
	}

	content := lipgloss.JoinVertical(lipgloss.Left,
		append([]string{s.Title.Render("Keyboard Shortcuts"), ""}, helpItems...)...,
	)

	centered := lipgloss.Place(contentWidth, v.height,
		lipgloss.Center, lipgloss.Center,
		s.Prompt.Render(content),
	)
	return styles.CenterView(centered, v.width, v.height)
}

func (v *ProjectListView) renderDeleteConfirm() string {
	s := v.styles
	contentWidth := styles.ContentWidth(v.width)

	content := lipgloss.JoinVertical(lipgloss.Center,
		s.Title.Foreground(styles.Current.Error).Render("Delete Project?"),
		"",
		s.TitleMuted.Render(fmt.Sprintf("\"%s\" and all of its tasks will be removed,", v.deleteTargetName)),
		s.TitleMuted.Render("including their sessions in today's schedule."),
		"",
		lipgloss.JoinHorizontal(lipgloss.Center,
			s.ButtonPrimary.Render(" Y - Yes "),
			"  ",
			s.Button.Render(" N - No "),
		),
	)

	centered := lipgloss.Place(contentWidth, v.height,
		lipgloss.Center, lipgloss.Center,
		content,
	)
	return styles.CenterView(centered, v.width, v.height)
}
