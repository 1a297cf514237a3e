package views

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/tgienger/pomo/internal/drag"
	"github.com/tgienger/pomo/internal/planner"
	"github.com/tgienger/pomo/internal/schedule"
	"github.com/tgienger/pomo/internal/timer"
	"github.com/tgienger/pomo/internal/ui/keys"
	"github.com/tgienger/pomo/internal/ui/styles"
)

// rowHeight is the number of screen lines one card or slot occupies
const rowHeight = 2

// swipeDistance is the horizontal travel a keyboard swipe simulates
const swipeDistance = 4

// ShowProjects signals to open the project list
type ShowProjects struct{}

// ShowToday signals to return to the timer and schedule
type ShowToday struct{}

// TickMsg drives the timer view; gen identifies the tick loop
type TickMsg struct {
	gen int
}

// TodayView shows the timer and the day's schedule
type TodayView struct {
	planner  *planner.Planner
	styles   *styles.Styles
	keys     keys.KeyMap
	interval time.Duration
	drag     *drag.Machine

	width  int
	height int

	// gen invalidates tick loops started before the last start/pause
	gen int

	mode    planner.View
	date    string // empty for today
	cursor  int
	scrollY int
	listTop int

	cards  []planner.Card
	rows   []planner.Row
	active planner.ActiveSlot
	offer  planner.CarryoverOffer
	offers bool

	prompting bool
	activity  textinput.Model

	editingStart bool
	dayStart     textinput.Model

	message string
	isError bool

	showHelpPopup bool
}

// NewTodayView creates the timer view. interval is the tick period and
// threshold the drag threshold in screen cells.
func NewTodayView(p *planner.Planner, interval time.Duration, threshold int) *TodayView {
	activity := textinput.New()
	activity.Placeholder = "What did you work on?"
	activity.CharLimit = 200
	activity.ShowSuggestions = true

	dayStart := textinput.New()
	dayStart.Placeholder = "HH:MM"
	dayStart.CharLimit = 5

	v := &TodayView{
		planner:  p,
		styles:   styles.NewStyles(),
		keys:     keys.DefaultKeyMap(),
		interval: interval,
		drag:     drag.New(threshold, swipeDistance),
		activity: activity,
		dayStart: dayStart,
	}
	v.reload()
	return v
}

// Init initializes the view
func (v *TodayView) Init() tea.Cmd {
	v.reload()
	if v.planner.Timer().Running {
		v.gen++
		return v.tick()
	}
	return nil
}

func (v *TodayView) tick() tea.Cmd {
	gen := v.gen
	return tea.Tick(v.interval, func(time.Time) tea.Msg {
		return TickMsg{gen: gen}
	})
}

func (v *TodayView) reload() {
	v.cards = v.planner.Cards(v.date)
	v.rows = v.planner.Rows(v.date)
	v.active = v.planner.Active()
	v.offer, v.offers = v.planner.Carryover()
	if n := v.count(); v.cursor >= n {
		v.cursor = max(0, n-1)
	}
}

func (v *TodayView) count() int {
	if v.mode == planner.Timeline {
		return len(v.rows)
	}
	return len(v.cards)
}

// Prompting reports whether a finished session waits for its activity name
func (v *TodayView) Prompting() bool { return v.prompting }

func (v *TodayView) isToday() bool {
	return v.date == "" || v.date == v.planner.Today()
}

func (v *TodayView) flash(msg string, err error) {
	v.message, v.isError = msg, false
	if err != nil {
		v.message, v.isError = err.Error(), true
	}
}

// Update handles messages
func (v *TodayView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width = msg.Width
		v.height = msg.Height
		v.activity.Width = clamp(styles.ContentWidth(v.width)-10, 20, 50)
		return v, nil

	case TickMsg:
		if msg.gen != v.gen {
			return v, nil
		}
		cmd := v.handle(v.planner.Tick())
		if v.planner.Timer().Running {
			return v, tea.Batch(cmd, v.tick())
		}
		return v, cmd

	case tea.FocusMsg:
		cmd := v.handle(v.planner.Tick())
		v.reload()
		return v, cmd

	case tea.MouseMsg:
		return v.updateMouse(msg)

	case tea.KeyMsg:
		if v.showHelpPopup {
			v.showHelpPopup = false
			return v, nil
		}
		if v.prompting {
			return v.updatePrompt(msg)
		}
		if v.editingStart {
			return v.updateDayStart(msg)
		}
		if v.drag.State() != drag.Idle {
			return v.updateGrabbed(msg)
		}
		if v.offers && v.isToday() {
			switch msg.String() {
			case "y", "Y":
				added, err := v.planner.ApplyCarryover()
				v.flash(fmt.Sprintf("Carried over %d task(s)", len(added)), err)
				v.reload()
				return v, nil
			case "n", "N":
				v.flash("", v.planner.DismissCarryover())
				v.reload()
				return v, nil
			}
		}
		return v.updateNormal(msg)
	}
	return v, nil
}

// handle reacts to the result of a tick
func (v *TodayView) handle(out planner.Outcome) tea.Cmd {
	switch out.Event {
	case timer.EventWorkEnd:
		if out.NeedsActivity {
			v.prompting = true
			v.activity.Reset()
			v.activity.SetSuggestions(v.planner.Suggestions(""))
			v.activity.Focus()
			return textinput.Blink
		}
		if out.Logged != nil {
			v.flash("Logged "+out.Logged.Activity, nil)
		}
		v.reload()
	case timer.EventBreakEnd:
		v.flash("Break over", nil)
	}
	return nil
}

func (v *TodayView) updatePrompt(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, v.keys.Back):
		// discard the session
		v.prompting = false
		v.activity.Blur()
		v.planner.Reset()
		return v, nil
	case key.Matches(msg, v.keys.Enter):
		s, err := v.planner.LogActivity(v.activity.Value())
		if errors.Is(err, planner.ErrEmptyActivity) {
			return v, nil
		}
		v.prompting = false
		v.activity.Blur()
		if err != nil {
			v.flash("", err)
			return v, nil
		}
		v.flash("Logged "+s.Activity, nil)
		v.gen++
		return v, v.tick()
	}
	var cmd tea.Cmd
	v.activity, cmd = v.activity.Update(msg)
	return v, cmd
}

func (v *TodayView) updateDayStart(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, v.keys.Back):
		v.editingStart = false
		v.dayStart.Blur()
		return v, nil
	case key.Matches(msg, v.keys.Enter):
		if err := v.planner.SetDayStart(v.dayStart.Value()); err != nil {
			v.flash("", err)
			return v, nil
		}
		v.editingStart = false
		v.dayStart.Blur()
		v.reload()
		return v, nil
	}
	var cmd tea.Cmd
	v.dayStart, cmd = v.dayStart.Update(msg)
	return v, cmd
}

func (v *TodayView) updateNormal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, v.keys.Quit):
		return v, tea.Quit

	case key.Matches(msg, v.keys.Back):
		v.planner.DismissBanner()
		v.message = ""
		return v, nil

	case key.Matches(msg, v.keys.Projects), key.Matches(msg, v.keys.Tab):
		return v, func() tea.Msg { return ShowProjects{} }

	case key.Matches(msg, v.keys.Help):
		v.showHelpPopup = true
		return v, nil

	case key.Matches(msg, v.keys.Toggle):
		if v.planner.Timer().Running {
			v.planner.Pause()
			v.gen++
			return v, nil
		}
		if v.planner.Start() {
			v.gen++
			v.reload()
			return v, v.tick()
		}
		return v, nil

	case key.Matches(msg, v.keys.Reset):
		v.planner.Reset()
		v.gen++
		return v, nil

	case key.Matches(msg, v.keys.Timeline):
		if v.mode == planner.Grouped {
			v.mode = planner.Timeline
		} else {
			v.mode = planner.Grouped
		}
		v.cursor, v.scrollY = 0, 0
		return v, nil

	case key.Matches(msg, v.keys.PrevDay):
		v.shiftDate(-1)
		return v, nil

	case key.Matches(msg, v.keys.NextDay):
		v.shiftDate(1)
		return v, nil

	case key.Matches(msg, v.keys.DayStart):
		v.editingStart = true
		v.dayStart.SetValue(v.planner.DayStart())
		v.dayStart.Focus()
		return v, textinput.Blink

	case key.Matches(msg, v.keys.Up):
		if v.cursor > 0 {
			v.cursor--
			v.ensureVisible()
		}
		return v, nil

	case key.Matches(msg, v.keys.Down):
		if v.cursor < v.count()-1 {
			v.cursor++
			v.ensureVisible()
		}
		return v, nil
	}

	// everything below edits the schedule
	if !v.isToday() || v.count() == 0 {
		return v, nil
	}

	switch {
	case key.Matches(msg, v.keys.Grab):
		v.drag.Press(v.cursor, drag.Pos{Y: v.cursor * rowHeight})
		return v, nil

	case key.Matches(msg, v.keys.Right), key.Matches(msg, v.keys.Done):
		v.swipe(swipeDistance)
		return v, nil

	case key.Matches(msg, v.keys.Left), key.Matches(msg, v.keys.Delete):
		v.swipe(-swipeDistance)
		return v, nil

	case key.Matches(msg, v.keys.More), key.Matches(msg, v.keys.Less):
		taskID := v.selectedTask()
		if taskID == "" {
			return v, nil
		}
		delta := 1
		if key.Matches(msg, v.keys.Less) {
			delta = -1
		}
		changed, err := v.planner.ChangeCount(taskID, delta)
		if err == nil && !changed && delta < 0 {
			v.flash("Swipe left to remove the last session", nil)
		} else {
			v.flash("", err)
		}
		v.reload()
		return v, nil
	}
	return v, nil
}

// updateGrabbed moves a grabbed card or slot with the cursor keys
func (v *TodayView) updateGrabbed(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, v.keys.Back):
		v.drag.Cancel()
		return v, nil
	case key.Matches(msg, v.keys.Up):
		if v.cursor > 0 {
			v.cursor--
		}
	case key.Matches(msg, v.keys.Down):
		if v.cursor < v.count()-1 {
			v.cursor++
		}
	case key.Matches(msg, v.keys.Grab), key.Matches(msg, v.keys.Enter):
		v.apply(v.drag.Release(v.cursor))
		return v, nil
	default:
		return v, nil
	}
	v.drag.Move(drag.Pos{Y: v.cursor * rowHeight})
	v.ensureVisible()
	return v, nil
}

// swipe runs a horizontal gesture on the selected row through the drag machine
func (v *TodayView) swipe(dx int) {
	y := v.cursor * rowHeight
	v.drag.Press(v.cursor, drag.Pos{Y: y})
	v.drag.Move(drag.Pos{X: dx, Y: y})
	v.apply(v.drag.Release(v.cursor))
}

func (v *TodayView) updateMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if !v.isToday() || v.prompting || v.editingStart {
		return v, nil
	}
	at := drag.Pos{X: msg.X, Y: msg.Y}
	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft {
			return v, nil
		}
		if i, ok := v.indexAt(msg.Y); ok {
			v.drag.Press(i, at)
		}
	case tea.MouseActionMotion:
		v.drag.Move(at)
		if v.drag.State() == drag.Dragging && v.drag.Axis() == drag.Vertical {
			if i, ok := v.indexAt(msg.Y); ok {
				v.cursor = i
			}
		}
	case tea.MouseActionRelease:
		if v.drag.State() == drag.Idle {
			return v, nil
		}
		target, ok := v.indexAt(msg.Y)
		if !ok {
			target = v.drag.Index()
		}
		v.apply(v.drag.Release(target))
	}
	return v, nil
}

func (v *TodayView) indexAt(y int) (int, bool) {
	if y < v.listTop {
		return -1, false
	}
	i := (y-v.listTop)/rowHeight + v.scrollY
	return i, i < v.count()
}

// apply performs a finished gesture
func (v *TodayView) apply(cmd drag.Command) {
	switch c := cmd.(type) {
	case nil:
		return
	case drag.Tap:
		v.cursor = c.Index
		return
	case drag.Move:
		// cards are inserted before the target, so a downward move
		// lands after the card under the cursor
		if v.mode == planner.Grouped && c.To > c.From {
			c.To++
		}
		cmd = c
	}
	_, err := v.planner.Apply(cmd, v.mode)
	v.flash("", err)
	v.reload()
}

func (v *TodayView) selectedTask() string {
	if v.mode == planner.Timeline {
		if v.cursor < len(v.rows) {
			return v.rows[v.cursor].TaskID
		}
		return ""
	}
	if v.cursor < len(v.cards) {
		return v.cards[v.cursor].TaskID
	}
	return ""
}

// shiftDate steps through the dates that have a stored schedule
func (v *TodayView) shiftDate(dir int) {
	today := v.planner.Today()
	current := v.date
	if current == "" {
		current = today
	}
	dates := v.planner.Dates()
	if len(dates) == 0 || dates[len(dates)-1] != today {
		dates = append(dates, today)
	}
	for i, d := range dates {
		if d != current {
			continue
		}
		j := i + dir
		if j >= 0 && j < len(dates) {
			v.date = dates[j]
			if v.date == today {
				v.date = ""
			}
			v.cursor, v.scrollY = 0, 0
			v.reload()
		}
		return
	}
	v.date = ""
	v.reload()
}

func (v *TodayView) visibleRows() int {
	return max((v.height-v.listTop-4)/rowHeight, 1)
}

func (v *TodayView) ensureVisible() {
	visible := v.visibleRows()
	if v.cursor < v.scrollY {
		v.scrollY = v.cursor
	} else if v.cursor >= v.scrollY+visible {
		v.scrollY = v.cursor - visible + 1
	}
}

// View renders the view
func (v *TodayView) View() string {
	if v.showHelpPopup {
		return v.renderHelpPopup()
	}
	if v.prompting {
		return v.renderPrompt()
	}

	header := v.renderHeader()
	v.listTop = lipgloss.Height(header) + 1

	var b strings.Builder
	b.WriteString(header)
	b.WriteString("\n")
	b.WriteString(v.renderList())
	b.WriteString("\n")
	b.WriteString(v.renderHelp())
	return styles.CenterView(b.String(), v.width, v.height)
}

func (v *TodayView) renderHeader() string {
	s := v.styles
	st := v.planner.Timer()

	title := "Today"
	if !v.isToday() {
		title = v.date
	}
	if v.mode == planner.Timeline {
		title += s.TitleMuted.Render("  timeline")
	}

	clock := s.Clock
	label := "Work"
	if st.IsBreak {
		clock = s.ClockBreak
		label = "Break"
	}
	if !st.Running {
		label += " (paused)"
		if !st.IsBreak && st.TimeLeft == v.planner.WorkMinutes()*60 {
			label = "Ready"
		}
	}
	label += fmt.Sprintf(" • %d today", v.planner.Sessions().CountOn(v.planner.Today()))
	face := lipgloss.JoinVertical(lipgloss.Center,
		clock.Render(st.Display()),
		s.TitleMuted.Render(label),
	)

	parts := []string{s.Title.Render(title), "", face, "", v.renderActive()}

	if b, ok := v.planner.Banner(); ok && v.isToday() {
		parts = append(parts, s.Banner.Render(fmt.Sprintf(
			"%d recurring task(s) added: %s (~%d min, done by %s)",
			len(b.Tasks), strings.Join(b.Tasks, ", "), b.Minutes, b.End,
		)))
	}
	if v.offers && v.isToday() {
		parts = append(parts, s.Prompt.Render(fmt.Sprintf(
			"%d unfinished task(s) from %s. Carry over? %s / %s",
			len(v.offer.TaskIDs), v.offer.From, s.HelpKey.Render("y"), s.HelpKey.Render("n"),
		)))
	}
	if v.editingStart {
		parts = append(parts, "Day starts at:", s.InputFocused.Width(12).Render(v.dayStart.View()))
	}
	if v.message != "" {
		style := s.Status
		if v.isError {
			style = s.Error
		}
		parts = append(parts, style.Render(v.message))
	}
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (v *TodayView) renderActive() string {
	s := v.styles
	switch v.active.Status {
	case schedule.StatusNoSchedule:
		return s.TitleMuted.Render("Nothing scheduled. Press 'p' to add tasks.")
	case schedule.StatusAllDone:
		return s.Status.Render("All done for today")
	}
	name := v.active.Task
	if v.active.Project != "" {
		name = v.active.Project + " — " + name
	}
	return styles.Swatch(v.active.Color) + " " + s.Status.Render(name) + " " + s.TitleMuted.Render(v.active.Progress())
}

func (v *TodayView) renderList() string {
	s := v.styles
	if v.count() == 0 {
		return s.TitleMuted.Render("No sessions scheduled.")
	}

	width := max(styles.ContentWidth(v.width)-4, 20)
	end := min(v.scrollY+v.visibleRows(), v.count())
	var items []string
	for i := v.scrollY; i < end; i++ {
		var line string
		if v.mode == planner.Timeline {
			line = v.renderRow(v.rows[i])
		} else {
			line = v.renderCard(v.cards[i])
		}

		style := s.ListItem
		switch {
		case v.drag.State() != drag.Idle && i == v.cursor:
			style = s.ListGrabbed
		case i == v.cursor:
			style = s.ListSelected
		}
		items = append(items, style.Width(width).Render(line))
	}
	return lipgloss.JoinVertical(lipgloss.Left, items...)
}

func (v *TodayView) renderCard(c planner.Card) string {
	s := v.styles
	if c.IsOpen() {
		return s.SlotOpen.Render("open slot") + "\n"
	}
	name := c.Task
	if c.Removed {
		name = s.SlotRemoved.Render("(deleted task)")
	} else if c.Completed == c.Total {
		name = s.SlotDone.Render(name)
	}
	pips := strings.Repeat("●", c.Completed) + strings.Repeat("○", c.Total-c.Completed)
	sub := pips
	if c.Project != "" {
		sub = c.Project + "  " + pips
	}
	return styles.Swatch(c.Color) + " " + name + "\n" + s.TitleMuted.Render(sub)
}

func (v *TodayView) renderRow(r planner.Row) string {
	s := v.styles
	t := s.SlotTime.Render(r.Time)
	if r.IsOpen() {
		return t + "  " + s.SlotOpen.Render("open") + "\n"
	}
	name := r.Task
	switch {
	case r.Removed:
		name = s.SlotRemoved.Render("(deleted task)")
	case r.Done:
		name = s.SlotDone.Render(name)
	}
	sub := ""
	if r.Project != "" {
		sub = s.TitleMuted.Render("       " + r.Project)
	}
	return t + "  " + styles.Swatch(r.Color) + " " + name + "\n" + sub
}

func (v *TodayView) renderPrompt() string {
	s := v.styles
	contentWidth := styles.ContentWidth(v.width)

	form := lipgloss.JoinVertical(lipgloss.Left,
		s.Title.Render("Work session finished"),
		"",
		fmt.Sprintf("Log %d minutes as:", v.planner.WorkMinutes()),
		s.InputFocused.Width(clamp(contentWidth-6, 20, 50)).Render(v.activity.View()),
		"",
		s.TitleMuted.Render("↵: log and start break • Tab: accept suggestion • Esc: discard"),
	)
	centered := lipgloss.Place(contentWidth, v.height,
		lipgloss.Center, lipgloss.Center,
		form,
	)
	return styles.CenterView(centered, v.width, v.height)
}

func (v *TodayView) renderHelp() string {
	contentWidth := styles.ContentWidth(v.width)
	if contentWidth > 0 && contentWidth < 60 {
		return v.styles.Help.Render(v.styles.HelpKey.Render("?") + " help")
	}
	return v.styles.Help.Render(
		fmt.Sprintf("%s start • %s done • %s remove • %s move • %s timeline • %s projects • %s quit",
			v.styles.HelpKey.Render("space"),
			v.styles.HelpKey.Render("→"),
			v.styles.HelpKey.Render("←"),
			v.styles.HelpKey.Render("m"),
			v.styles.HelpKey.Render("v"),
			v.styles.HelpKey.Render("p"),
			v.styles.HelpKey.Render("q"),
		),
	)
}

func (v *TodayView) renderHelpPopup() string {
	s := v.styles
	contentWidth := styles.ContentWidth(v.width)

	helpItems := []string{
		s.HelpKey.Render("space") + "  start / pause",
		s.HelpKey.Render("r") + "      reset timer",
		s.HelpKey.Render("→ x") + "    toggle done",
		s.HelpKey.Render("← d") + "    remove session",
		s.HelpKey.Render("+ -") + "    more / fewer sessions",
		s.HelpKey.Render("m") + "      grab, move, drop",
		s.HelpKey.Render("v") + "      grouped / timeline",
		s.HelpKey.Render("[ ]") + "    previous / next day",
		s.HelpKey.Render("s") + "      set day start",
		s.HelpKey.Render("p") + "      projects and tasks",
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
