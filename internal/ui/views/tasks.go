package views

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/tgienger/pomo/internal/catalog"
	"github.com/tgienger/pomo/internal/models"
	"github.com/tgienger/pomo/internal/planner"
	"github.com/tgienger/pomo/internal/ui/keys"
	"github.com/tgienger/pomo/internal/ui/styles"
)

// clamp returns val clamped between minVal and maxVal
func clamp(val, minVal, maxVal int) int {
	if val < minVal {
		return minVal
	}
	if val > maxVal {
		return maxVal
	}
	return val
}

var recurrences = []models.Recurrence{models.RecurNone, models.RecurDaily, models.RecurWeekly}

// form fields
const (
	fieldName = iota
	fieldDesc
	fieldRecur
	fieldDay
	fieldSave
	fieldCount
)

// TaskListView shows the tasks of one project
type TaskListView struct {
	planner *planner.Planner
	project models.Project
	tasks   []models.Task
	styles  *styles.Styles
	keys    keys.KeyMap

	width  int
	height int

	cursor  int
	scrollY int

	// Task creation
	editing      bool
	editName     textinput.Model
	editDesc     textarea.Model
	editRecur    int // index into recurrences
	editDay      time.Weekday
	editFocusIdx int

	confirmingDelete bool
	deleteTargetID   string
	deleteTargetName string

	message string
	isError bool

	showHelpPopup bool
}

// NewTaskListView creates a new task list view. A project without an ID
// lists the miscellaneous tasks.
func NewTaskListView(p *planner.Planner, project models.Project) *TaskListView {
	editName := textinput.New()
	editName.Placeholder = "Task name"
	editName.CharLimit = 200

	editDesc := textarea.New()
	editDesc.Placeholder = "Description"
	editDesc.CharLimit = 1000
	editDesc.SetWidth(50)
	editDesc.SetHeight(3)
	editDesc.ShowLineNumbers = false

	return &TaskListView{
		planner:  p,
		project:  project,
		styles:   styles.NewStyles(),
		keys:     keys.DefaultKeyMap(),
		editName: editName,
		editDesc: editDesc,
		editDay:  time.Monday,
	}
}

// BackToProjects signals to go back to project list
type BackToProjects struct{}

// Init initializes the view
func (v *TaskListView) Init() tea.Cmd {
	return v.loadTasks
}

type tasksLoadedMsg struct {
	tasks []models.Task
}

func (v *TaskListView) loadTasks() tea.Msg {
	return tasksLoadedMsg{tasks: v.planner.Catalog().ListProjectTasks(v.project.ID)}
}

func (v *TaskListView) title() string {
	if v.project.ID == "" {
		return miscName
	}
	return v.project.Name
}

func (v *TaskListView) flash(msg string, err error) {
	v.message, v.isError = msg, false
	if err != nil {
		v.message, v.isError = err.Error(), true
	}
}

// Update handles messages
func (v *TaskListView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width = msg.Width
		v.height = msg.Height
		contentWidth := styles.ContentWidth(v.width)
		v.editDesc.SetWidth(clamp(contentWidth-10, 20, 50))
		return v, nil

	case tasksLoadedMsg:
		v.tasks = msg.tasks
		if v.cursor >= len(v.tasks) {
			v.cursor = max(0, len(v.tasks)-1)
		}
		return v, nil

	case tea.KeyMsg:
		if v.showHelpPopup {
			v.showHelpPopup = false
			return v, nil
		}

		if v.confirmingDelete {
			return v.updateConfirmDelete(msg)
		}

		if v.editing {
			return v.updateEditing(msg)
		}

		return v.updateNormal(msg)
	}

	return v, nil
}

func (v *TaskListView) updateNormal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, v.keys.Quit):
		return v, tea.Quit

	case key.Matches(msg, v.keys.Back):
		return v, func() tea.Msg { return BackToProjects{} }

	case key.Matches(msg, v.keys.Tab):
		return v, func() tea.Msg { return ShowToday{} }

	case key.Matches(msg, v.keys.Up):
		if v.cursor > 0 {
			v.cursor--
			v.ensureVisible()
		}
		return v, nil

	case key.Matches(msg, v.keys.Down):
		if v.cursor < len(v.tasks)-1 {
			v.cursor++
			v.ensureVisible()
		}
		return v, nil

	case key.Matches(msg, v.keys.Enter), key.Matches(msg, v.keys.Schedule):
		if len(v.tasks) > 0 {
			t := v.tasks[v.cursor]
			err := v.planner.AddSlot(t.ID)
			v.flash(fmt.Sprintf("Added %q to today", t.Name), err)
		}
		return v, nil

	case key.Matches(msg, v.keys.New):
		v.startNewTask()
		return v, textinput.Blink

	case key.Matches(msg, v.keys.Delete):
		if len(v.tasks) > 0 {
			v.confirmingDelete = true
			v.deleteTargetID = v.tasks[v.cursor].ID
			v.deleteTargetName = v.tasks[v.cursor].Name
		}
		return v, nil

	case key.Matches(msg, v.keys.Help):
		v.showHelpPopup = true
		return v, nil
	}

	return v, nil
}

func (v *TaskListView) updateConfirmDelete(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		v.confirmingDelete = false
		v.flash("", v.planner.DeleteTask(v.deleteTargetID))
		return v, v.loadTasks
	case "n", "N", "esc":
		v.confirmingDelete = false
		return v, nil
	}
	return v, nil
}

func (v *TaskListView) updateEditing(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, v.keys.Back):
		v.editing = false
		return v, nil

	case msg.String() == "ctrl+s":
		return v, v.saveTask()

	case key.Matches(msg, v.keys.Tab):
		v.editFocusIdx = v.nextField(1)
		v.updateEditFocus()
		return v, nil

	case msg.String() == "shift+tab":
		v.editFocusIdx = v.nextField(-1)
		v.updateEditFocus()
		return v, nil

	case key.Matches(msg, v.keys.Enter):
		switch v.editFocusIdx {
		case fieldName, fieldRecur, fieldDay:
			v.editFocusIdx = v.nextField(1)
			v.updateEditFocus()
			return v, nil
		case fieldSave:
			return v, v.saveTask()
		}
		// newlines in the description

	case msg.String() == "left", msg.String() == "right":
		step := 1
		if msg.String() == "left" {
			step = -1
		}
		switch v.editFocusIdx {
		case fieldRecur:
			v.editRecur = (v.editRecur + step + len(recurrences)) % len(recurrences)
			return v, nil
		case fieldDay:
			v.editDay = time.Weekday((int(v.editDay) + step + 7) % 7)
			return v, nil
		}
	}

	var cmd tea.Cmd
	switch v.editFocusIdx {
	case fieldName:
		v.editName, cmd = v.editName.Update(msg)
	case fieldDesc:
		v.editDesc, cmd = v.editDesc.Update(msg)
	}
	return v, cmd
}

// nextField skips the weekday field unless the task recurs weekly
func (v *TaskListView) nextField(dir int) int {
	i := v.editFocusIdx
	for {
		i = (i + dir + fieldCount) % fieldCount
		if i != fieldDay || recurrences[v.editRecur] == models.RecurWeekly {
			return i
		}
	}
}

func (v *TaskListView) ensureVisible() {
	visibleItems := max((v.height-10)/2, 1)
	if v.cursor < v.scrollY {
		v.scrollY = v.cursor
	} else if v.cursor >= v.scrollY+visibleItems {
		v.scrollY = v.cursor - visibleItems + 1
	}
}

func (v *TaskListView) startNewTask() {
	v.editing = true
	v.editFocusIdx = fieldName
	v.editRecur = 0
	v.editDay = time.Monday
	v.editName.Reset()
	v.editDesc.Reset()
	v.message = ""
	v.updateEditFocus()
}

func (v *TaskListView) updateEditFocus() {
	v.editName.Blur()
	v.editDesc.Blur()

	switch v.editFocusIdx {
	case fieldName:
		v.editName.Focus()
	case fieldDesc:
		v.editDesc.Focus()
	}
}

func (v *TaskListView) saveTask() tea.Cmd {
	_, err := v.planner.CreateTask(catalog.TaskSpec{
		ProjectID:   v.project.ID,
		Name:        v.editName.Value(),
		Description: v.editDesc.Value(),
		Recurring:   recurrences[v.editRecur],
		RecurDay:    int(v.editDay),
	})
	if err != nil {
		v.flash("", err)
		return nil
	}
	v.editing = false
	v.message = ""
	return v.loadTasks
}

// View renders the view
func (v *TaskListView) View() string {
	if v.showHelpPopup {
		return v.renderHelpPopup()
	}

	if v.confirmingDelete {
		return v.renderDeleteConfirm()
	}

	if v.editing {
		return v.renderEditForm()
	}

	var b strings.Builder
	b.WriteString(styles.Swatch(v.project.Color) + " " + v.styles.Title.Render(v.title()))
	b.WriteString("\n\n")
	b.WriteString(v.renderTaskList())
	b.WriteString("\n")
	if v.message != "" {
		style := v.styles.Status
		if v.isError {
			style = v.styles.Error
		}
		b.WriteString(style.Render(v.message) + "\n")
	}
	b.WriteString(v.renderHelp())

	return styles.CenterView(b.String(), v.width, v.height)
}

func (v *TaskListView) renderTaskList() string {
	s := v.styles

	if len(v.tasks) == 0 {
		return s.TitleMuted.Render("No tasks. Press 'n' to create one.")
	}

	visibleItems := max((v.height-10)/2, 1)
	endIdx := min(v.scrollY+visibleItems, len(v.tasks))

	var items []string
	for i := v.scrollY; i < endIdx; i++ {
		items = append(items, v.renderTaskItem(v.tasks[i], i == v.cursor))
	}
	return lipgloss.JoinVertical(lipgloss.Left, items...)
}

// recurrenceLabel describes when a task recurs
func recurrenceLabel(t models.Task) string {
	switch t.Recurring {
	case models.RecurDaily:
		return "every day"
	case models.RecurWeekly:
		day := time.Monday
		if t.RecurDay != nil {
			day = time.Weekday(*t.RecurDay)
		}
		return "every " + day.String()
	}
	return ""
}

func (v *TaskListView) renderTaskItem(task models.Task, selected bool) string {
	s := v.styles
	width := max(styles.ContentWidth(v.width)-4, 20)

	sub := task.Description
	if r := recurrenceLabel(task); r != "" {
		if sub != "" {
			sub = r + " • " + sub
		} else {
			sub = r
		}
	}
	if n := v.scheduledCount(task.ID); n > 0 {
		sub = fmt.Sprintf("%d today • %s", n, sub)
	}

	style := s.ListItem
	if selected {
		style = s.ListSelected
	}
	title := style.Width(width).Render(task.Name)
	desc := style.Width(width).Foreground(styles.Current.ForegroundDim).Render(sub)
	return lipgloss.JoinVertical(lipgloss.Left, title, desc)
}

func (v *TaskListView) scheduledCount(taskID string) int {
	for _, c := range v.planner.Cards("") {
		if c.TaskID == taskID {
			return c.Total
		}
	}
	return 0
}

func (v *TaskListView) renderEditForm() string {
	s := v.styles
	contentWidth := styles.ContentWidth(v.width)

	fieldStyle := func(i int) lipgloss.Style {
		if v.editFocusIdx == i {
			return s.InputFocused
		}
		return s.Input
	}
	btnStyle := s.Button
	if v.editFocusIdx == fieldSave {
		btnStyle = s.ButtonFocused
	}

	inputWidth := clamp(contentWidth-6, 20, 50)
	recur := recurrences[v.editRecur]
	recurLabel := "never"
	if recur != models.RecurNone {
		recurLabel = string(recur)
	}

	parts := []string{
		s.Title.Render("New Task in " + v.title()),
		"",
		"Name:",
		fieldStyle(fieldName).Width(inputWidth).Render(v.editName.View()),
		"",
		"Description:",
		fieldStyle(fieldDesc).Render(v.editDesc.View()),
		"",
		"Repeats:",
		fieldStyle(fieldRecur).Width(20).Render("‹ " + recurLabel + " ›"),
	}
	if recur == models.RecurWeekly {
		parts = append(parts, "", "On:", fieldStyle(fieldDay).Width(20).Render("‹ "+v.editDay.String()+" ›"))
	}
	parts = append(parts,
		"",
		btnStyle.Render(" Save "),
		"",
		s.TitleMuted.Render("Tab: next • ←→: change • Ctrl+S: save • Esc: cancel"),
	)
	if v.isError && v.message != "" {
		parts = append(parts, s.Error.Render(v.message))
	}

	centered := lipgloss.Place(contentWidth, v.height,
		lipgloss.Center, lipgloss.Center,
		lipgloss.JoinVertical(lipgloss.Left, parts...),
	)
	return styles.CenterView(centered, v.width, v.height)
}

func (v *TaskListView) renderHelp() string {
	contentWidth := styles.ContentWidth(v.width)
	if contentWidth > 0 && contentWidth < 50 {
		return v.styles.Help.Render(v.styles.HelpKey.Render("?") + " help")
	}
	return v.styles.Help.Render(
		fmt.Sprintf("%s add to today • %s new • %s del • %s back • %s timer",
			v.styles.HelpKey.Render("↵"),
			v.styles.HelpKey.Render("n"),
			v.styles.HelpKey.Render("d"),
			v.styles.HelpKey.Render("esc"),
			v.styles.HelpKey.Render("tab"),
		),
	)
}

func (v *TaskListView) renderHelpPopup() string {
	s := v.styles
	contentWidth := styles.ContentWidth(v.width)

	helpItems := []string{
		s.HelpKey.Render("↵ a") + "    add a session today",
		s.HelpKey.Render("n") + "      new task",
		s.HelpKey.Render("d") + "      delete task",
		s.HelpKey.Render("esc") + "    back to projects",
		s.HelpKey.Render("tab") + "    back to timer",
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

func (v *TaskListView) renderDeleteConfirm() string {
	s := v.styles
	contentWidth := styles.ContentWidth(v.width)

	content := lipgloss.JoinVertical(lipgloss.Center,
		s.Title.Foreground(styles.Current.Error).Render("Delete Task?"),
		"",
		s.TitleMuted.Render(fmt.Sprintf("\"%s\" will also leave today's schedule.", v.deleteTargetName)),
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
