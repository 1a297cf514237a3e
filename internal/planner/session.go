package planner

import (
	"fmt"
	"strings"
	"time"

	"github.com/tgienger/pomo/internal/models"
	"github.com/tgienger/pomo/internal/notify"
	"github.com/tgienger/pomo/internal/schedule"
	"github.com/tgienger/pomo/internal/timer"
)

// TimerState is a snapshot for rendering
type TimerState struct {
	Running          bool
	IsBreak          bool
	TimeLeft         int
	EndTime          time.Time
	AwaitingActivity bool
}

// Display renders the remaining time as MM:SS
func (s TimerState) Display() string { return timer.Format(s.TimeLeft) }

// Timer returns the current timer snapshot
func (p *Planner) Timer() TimerState {
	return TimerState{
		Running:          p.timer.Running(),
		IsBreak:          p.timer.IsBreak(),
		TimeLeft:         p.timer.TimeLeft(),
		EndTime:          p.timer.EndTime(),
		AwaitingActivity: p.awaitingActivity,
	}
}

// Start begins or resumes the current period. A start notification fires
// only when a work period begins. Starting is refused while a finished work
// session still waits for its activity name.
func (p *Planner) Start() bool {
	if p.awaitingActivity {
		return false
	}
	if !p.timer.Start(p.now()) {
		return false
	}
	p.refreshActive()
	if !p.timer.IsBreak() {
		p.notifier.Notify(notify.Start)
	}
	p.logger.Debug("timer started", "break", p.timer.IsBreak(), "left", p.timer.TimeLeft())
	return true
}

// Pause freezes the remaining time
func (p *Planner) Pause() {
	p.timer.Pause(p.now())
}

// Reset returns to an idle, full-length work period
func (p *Planner) Reset() {
	p.timer.Reset(p.now())
	p.awaitingActivity = false
}

// Outcome reports what a tick did
type Outcome struct {
	Event         timer.Event
	Logged        *models.Session
	NeedsActivity bool
}

// Tick recomputes the timer from the wall clock and completes an expired
// period. It is also what the caller invokes when the app regains focus.
func (p *Planner) Tick() Outcome {
	now := p.now()
	ev := p.timer.Tick(now)
	out := Outcome{Event: ev}
	switch ev {
	case timer.EventWorkEnd:
		p.notifier.Notify(notify.WorkEnd)
		out.Logged, out.NeedsActivity = p.completeWork(now)
	case timer.EventBreakEnd:
		p.notifier.Notify(notify.BreakEnd)
		p.logger.Info("break finished")
	}
	return out
}

// completeWork auto-logs the remembered active slot. If that slot is gone
// or already done, the user is asked to name the activity instead.
func (p *Planner) completeWork(now time.Time) (*models.Session, bool) {
	today := p.Today()
	sched := p.schedules.Load(today)
	idx := p.activeIndex

	if idx < 0 || idx >= len(sched.Items) || sched.Items[idx].IsOpen() || sched.Items[idx].Done {
		p.logger.Info("work finished without active slot", "index", idx, "items", len(sched.Items))
		p.awaitingActivity = true
		return nil, true
	}
	name, ok := p.catalog.ActivityName(sched.Items[idx].TaskID)
	if !ok {
		p.logger.Info("active task no longer exists", "task", sched.Items[idx].TaskID)
		p.awaitingActivity = true
		return nil, true
	}

	session, err := p.sessions.Append(name, p.WorkMinutes(), now)
	if err != nil {
		p.logger.Error("failed to log session", "error", err)
	}
	sched.Items[idx].Done = true
	if err := p.schedules.Save(sched, today); err != nil {
		p.logger.Error("failed to save schedule", "error", err)
	}
	p.refreshActive()
	p.timer.StartBreak(now)
	p.logger.Info("session auto-logged", "activity", name, "index", idx)
	return &session, false
}

// LogActivity names the finished work session and starts the break
func (p *Planner) LogActivity(name string) (models.Session, error) {
	if !p.awaitingActivity {
		return models.Session{}, ErrNotAwaitingActivity
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return models.Session{}, ErrEmptyActivity
	}
	now := p.now()
	session, err := p.sessions.Append(name, p.WorkMinutes(), now)
	if err != nil {
		return models.Session{}, err
	}
	p.awaitingActivity = false
	p.timer.StartBreak(now)
	p.logger.Info("session logged", "activity", name)
	return session, nil
}

// Suggestions lists previously logged activity names matching filter
func (p *Planner) Suggestions(filter string) []string {
	return p.sessions.RecentActivities(filter)
}

// ActiveSlot summarizes what the timer is working on
type ActiveSlot struct {
	Status    schedule.Status
	Index     int
	TaskID    string
	Task      string
	Project   string
	Color     string
	Completed int
	Total     int
}

// Progress renders "completed/total" for the active task
func (a ActiveSlot) Progress() string {
	if a.Status != schedule.StatusActive {
		return ""
	}
	return fmt.Sprintf("%d/%d", a.Completed, a.Total)
}

// Active describes the active slot of today's schedule
func (p *Planner) Active() ActiveSlot {
	items := p.schedules.Load(p.Today()).Items
	idx, status := schedule.Active(items, p.catalog.Exists)
	p.activeIndex = idx
	a := ActiveSlot{Status: status, Index: idx}
	if status != schedule.StatusActive {
		return a
	}
	a.TaskID = items[idx].TaskID
	for _, g := range schedule.GroupItems(items) {
		if g.TaskID == a.TaskID {
			a.Completed, a.Total = g.Completed, g.Total
			break
		}
	}
	l, _ := p.labels().of(a.TaskID)
	a.Task, a.Project, a.Color = l.task, l.project, l.color
	return a
}
