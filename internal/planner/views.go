package planner

import (
	"time"

	"github.com/tgienger/pomo/internal/drag"
	"github.com/tgienger/pomo/internal/models"
	"github.com/tgienger/pomo/internal/schedule"
)

// Card is one task group of the grouped view
type Card struct {
	schedule.Group
	Task    string
	Project string
	Color   string
	Removed bool // the task was deleted from the catalog
}

// Row is one slot of the timeline view
type Row struct {
	Index int
	schedule.Slot
	Task    string
	Project string
	Color   string
	Removed bool
	Time    string
}

// Cards returns the grouped view of the schedule for date
func (p *Planner) Cards(date string) []Card {
	items := p.slots(date)
	groups := schedule.GroupItems(items)
	names := p.labels()
	cards := make([]Card, 0, len(groups))
	for _, g := range groups {
		c := Card{Group: g}
		if !g.IsOpen() {
			l, ok := names.of(g.TaskID)
			c.Task, c.Project, c.Color, c.Removed = l.task, l.project, l.color, !ok
		}
		cards = append(cards, c)
	}
	return cards
}

// Rows returns the timeline view of the schedule for date
func (p *Planner) Rows(date string) []Row {
	items := p.slots(date)
	tl := p.Timeline()
	names := p.labels()
	rows := make([]Row, 0, len(items))
	for i, s := range items {
		r := Row{Index: i, Slot: s, Time: tl.At(i)}
		if !s.IsOpen() {
			l, ok := names.of(s.TaskID)
			r.Task, r.Project, r.Color, r.Removed = l.task, l.project, l.color, !ok
		}
		rows = append(rows, r)
	}
	return rows
}

type label struct{ task, project, color string }

// taskLabels resolves display names from one catalog read
type taskLabels struct {
	tasks    map[string]models.Task
	projects map[string]models.Project
}

func (p *Planner) labels() taskLabels {
	l := taskLabels{
		tasks:    p.catalog.TaskIndex(),
		projects: make(map[string]models.Project),
	}
	for _, pr := range p.catalog.ListProjects() {
		l.projects[pr.ID] = pr
	}
	return l
}

// of reports false for a task that no longer exists
func (l taskLabels) of(taskID string) (label, bool) {
	t, ok := l.tasks[taskID]
	if !ok {
		return label{}, false
	}
	if t.HasProject() {
		if pr, ok := l.projects[*t.ProjectID]; ok {
			return label{t.Name, pr.Name, pr.Color}, true
		}
	}
	return label{task: t.Name}, true
}

func (p *Planner) slots(date string) []schedule.Slot {
	today := p.Today()
	if date == "" || date == today {
		return p.schedules.Load(today).Items
	}
	return p.schedules.LoadForDate(date, today)
}

// Dates lists every date with a stored schedule, oldest first
func (p *Planner) Dates() []string {
	return p.schedules.Dates()
}

// Banner describes the recurring tasks inserted at startup
type Banner struct {
	Tasks   []string
	Minutes int
	End     string
}

// Banner returns the recurring-task estimate, false if none were inserted
func (p *Planner) Banner() (Banner, bool) {
	if len(p.recurringAdded) == 0 {
		return Banner{}, false
	}
	b := Banner{}
	names := p.labels()
	for _, id := range p.recurringAdded {
		if l, ok := names.of(id); ok {
			b.Tasks = append(b.Tasks, l.task)
		}
	}
	n := len(p.recurringAdded)
	b.Minutes = int((time.Duration(n)*p.work + time.Duration(n-1)*p.brk) / time.Minute)
	b.End = p.Timeline().End(len(p.schedules.Load(p.Today()).Items))
	return b, true
}

// DismissBanner hides the recurring-task banner
func (p *Planner) DismissBanner() {
	p.recurringAdded = nil
}

// View selects how gesture indexes are interpreted
type View int

const (
	Grouped View = iota
	Timeline
)

// Apply performs a completed gesture on today's schedule. In the grouped
// view indexes address cards; in the timeline view they address slots.
func (p *Planner) Apply(cmd drag.Command, view View) (bool, error) {
	switch c := cmd.(type) {
	case drag.Move:
		if view == Timeline {
			return p.MoveSlot(c.From, c.To)
		}
		return p.MoveGroup(c.From, c.To)
	case drag.Swipe:
		index, ok := p.slotFor(c.Index, view, c.Dir)
		if !ok {
			return false, nil
		}
		if c.Dir == drag.Right {
			return p.ToggleDone(index)
		}
		return p.RemoveSlot(index)
	}
	return false, nil
}

// slotFor resolves a gesture target to a flat slot index. On a card, a
// right swipe targets the task's first not-done slot and a left swipe its
// last slot.
func (p *Planner) slotFor(index int, view View, dir drag.Direction) (int, bool) {
	items := p.schedules.Load(p.Today()).Items
	if view == Timeline {
		return index, index >= 0 && index < len(items)
	}
	groups := schedule.GroupItems(items)
	if index < 0 || index >= len(groups) {
		return -1, false
	}
	g := groups[index]
	if g.IsOpen() {
		return g.FlatIdx, true
	}
	found := -1
	for i, s := range items {
		if s.TaskID != g.TaskID {
			continue
		}
		if dir == drag.Right {
			if !s.Done {
				return i, true
			}
			continue
		}
		found = i
	}
	return found, found >= 0
}

// History returns the sessions logged on date
func (p *Planner) History(date string) []models.Session {
	return p.sessions.OnDate(date)
}
