// Package planner is the controller the user interface talks to. It owns the
// timer session and keeps the live schedule, the catalog and the session log
// consistent with each other. Every method runs to completion before the
// next one is called; callers must not use a Planner from two goroutines.
package planner

import (
	"errors"
	"strings"
	"time"

	"github.com/tgienger/pomo/internal/catalog"
	"github.com/tgienger/pomo/internal/logging"
	"github.com/tgienger/pomo/internal/models"
	"github.com/tgienger/pomo/internal/notify"
	"github.com/tgienger/pomo/internal/schedule"
	"github.com/tgienger/pomo/internal/sessionlog"
	"github.com/tgienger/pomo/internal/store"
	"github.com/tgienger/pomo/internal/timer"
)

var (
	ErrEmptyActivity       = errors.New("planner: activity name is empty")
	ErrNotAwaitingActivity = errors.New("planner: no finished work session to log")
)

// Options configures a Planner
type Options struct {
	Work     time.Duration
	Break    time.Duration
	Now      func() time.Time
	Notifier notify.Notifier
	Logger   *logging.Logger
}

// Planner is the application core
type Planner struct {
	kv        store.KV
	catalog   *catalog.Catalog
	sessions  *sessionlog.Log
	schedules *schedule.Store
	timer     *timer.Timer
	notifier  notify.Notifier
	logger    *logging.Logger
	now       func() time.Time
	work      time.Duration
	brk       time.Duration

	activeIndex      int
	awaitingActivity bool
	recurringAdded   []string
}

// New creates a Planner persisting through kv
func New(kv store.KV, opts Options) *Planner {
	if opts.Work <= 0 {
		opts.Work = 25 * time.Minute
	}
	if opts.Break <= 0 {
		opts.Break = 5 * time.Minute
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Notifier == nil {
		opts.Notifier = notify.Nop{}
	}
	if opts.Logger == nil {
		opts.Logger = logging.NopLogger()
	}

	p := &Planner{
		kv:          kv,
		catalog:     catalog.New(kv, opts.Logger),
		sessions:    sessionlog.New(kv, opts.Logger),
		schedules:   schedule.NewStore(kv, opts.Logger),
		timer:       timer.New(opts.Work, opts.Break),
		notifier:    opts.Notifier,
		logger:      opts.Logger.With("component", "planner"),
		now:         opts.Now,
		work:        opts.Work,
		brk:         opts.Break,
		activeIndex: -1,
	}
	return p
}

// Catalog exposes project and task queries
func (p *Planner) Catalog() *catalog.Catalog { return p.catalog }

// Sessions exposes the session log
func (p *Planner) Sessions() *sessionlog.Log { return p.sessions }

// Today returns the current local calendar date
func (p *Planner) Today() string {
	return p.now().Format(models.DateLayout)
}

// WorkMinutes is the duration logged for every session
func (p *Planner) WorkMinutes() int {
	return int(p.work / time.Minute)
}

// Init runs the start-of-application reconciliation: recurring tasks due
// today are appended to the live schedule. It returns the inserted task IDs.
func (p *Planner) Init() ([]string, error) {
	now := p.now()
	var added []string
	_, err := p.mutate(func(items []schedule.Slot) ([]schedule.Slot, bool) {
		var out []schedule.Slot
		out, added = schedule.InsertRecurring(items, p.catalog.ListTasks(), now.Weekday())
		return out, len(added) > 0
	})
	if len(added) > 0 {
		p.recurringAdded = added
		p.logger.Info("recurring tasks scheduled", "count", len(added))
	}
	p.refreshActive()
	return added, err
}

// mutate applies fn to today's live schedule and persists the result if
// fn reports a change. The active slot is recomputed either way.
func (p *Planner) mutate(fn func([]schedule.Slot) ([]schedule.Slot, bool)) (bool, error) {
	today := p.Today()
	sched := p.schedules.Load(today)
	items, changed := fn(sched.Items)
	if !changed {
		p.refreshActive()
		return false, nil
	}
	sched.Items = items
	err := p.schedules.Save(sched, today)
	p.refreshActive()
	return true, err
}

func (p *Planner) refreshActive() {
	items := p.schedules.Load(p.Today()).Items
	p.activeIndex, _ = schedule.Active(items, p.catalog.Exists)
}

// Schedule mutations

// AddSlot schedules one more session for taskID at the end of today
func (p *Planner) AddSlot(taskID string) error {
	if !p.catalog.Exists(taskID) {
		return catalog.ErrNotFound
	}
	_, err := p.mutate(func(items []schedule.Slot) ([]schedule.Slot, bool) {
		return schedule.Add(items, taskID), true
	})
	p.logger.Debug("slot added", "task", taskID)
	return err
}

// RemoveSlot removes the slot at index (swipe left)
func (p *Planner) RemoveSlot(index int) (bool, error) {
	return p.mutate(func(items []schedule.Slot) ([]schedule.Slot, bool) {
		return schedule.Remove(items, index)
	})
}

// ToggleDone flips the slot at index between done and not done (swipe right)
func (p *Planner) ToggleDone(index int) (bool, error) {
	return p.mutate(func(items []schedule.Slot) ([]schedule.Slot, bool) {
		return schedule.ToggleDone(items, index)
	})
}

// MoveGroup moves a task card in the grouped view
func (p *Planner) MoveGroup(from, to int) (bool, error) {
	changed, err := p.mutate(func(items []schedule.Slot) ([]schedule.Slot, bool) {
		return schedule.MoveGroup(items, from, to)
	})
	p.logger.Debug("group moved", "from", from, "to", to, "changed", changed)
	return changed, err
}

// MoveSlot moves a single slot in the timeline view
func (p *Planner) MoveSlot(from, to int) (bool, error) {
	changed, err := p.mutate(func(items []schedule.Slot) ([]schedule.Slot, bool) {
		return schedule.MoveSlot(items, from, to)
	})
	p.logger.Debug("slot moved", "from", from, "to", to, "changed", changed)
	return changed, err
}

// ChangeCount adds or removes one session of taskID. Reducing a task to
// zero sessions is refused and reported as unchanged.
func (p *Planner) ChangeCount(taskID string, delta int) (bool, error) {
	return p.mutate(func(items []schedule.Slot) ([]schedule.Slot, bool) {
		return schedule.ChangeCount(items, taskID, delta)
	})
}

// Carryover

// CarryoverOffer lists unfinished tasks from the last scheduled day
type CarryoverOffer struct {
	From    string
	TaskIDs []string
}

// Carryover returns the pending offer, if any
func (p *Planner) Carryover() (CarryoverOffer, bool) {
	today := p.Today()
	if p.schedules.CarryoverDismissed(today) {
		return CarryoverOffer{}, false
	}
	// archives a stale live schedule so it can be offered
	p.schedules.Load(today)
	date, items, ok := p.schedules.LatestBefore(today)
	if !ok {
		return CarryoverOffer{}, false
	}
	ids := schedule.CarryoverCandidates(items, p.catalog.Exists)
	if len(ids) == 0 {
		return CarryoverOffer{}, false
	}
	return CarryoverOffer{From: date, TaskIDs: ids}, true
}

// ApplyCarryover schedules the offered tasks and suppresses the offer for today
func (p *Planner) ApplyCarryover() ([]string, error) {
	offer, ok := p.Carryover()
	if !ok {
		return nil, nil
	}
	var added []string
	_, err := p.mutate(func(items []schedule.Slot) ([]schedule.Slot, bool) {
		var out []schedule.Slot
		out, added = schedule.ApplyCarryover(items, offer.TaskIDs)
		return out, len(added) > 0
	})
	if err != nil {
		return added, err
	}
	p.logger.Info("carryover applied", "from", offer.From, "count", len(added))
	return added, p.schedules.DismissCarryover(p.Today())
}

// DismissCarryover hides the offer until tomorrow
func (p *Planner) DismissCarryover() error {
	return p.schedules.DismissCarryover(p.Today())
}

// Catalog mutations

// CreateProject creates a project
func (p *Planner) CreateProject(name string) (models.Project, error) {
	return p.catalog.CreateProject(name)
}

// DeleteProject deletes a project, its tasks and their slots in today's schedule
func (p *Planner) DeleteProject(id string) error {
	removed, err := p.catalog.DeleteProject(id)
	if err != nil {
		return err
	}
	_, err = p.mutate(func(items []schedule.Slot) ([]schedule.Slot, bool) {
		return schedule.Purge(items, removed...)
	})
	return err
}

// CreateTask creates a task
func (p *Planner) CreateTask(spec catalog.TaskSpec) (models.Task, error) {
	return p.catalog.CreateTask(spec)
}

// DeleteTask deletes a task and its slots in today's schedule
func (p *Planner) DeleteTask(id string) error {
	if err := p.catalog.DeleteTask(id); err != nil {
		return err
	}
	_, err := p.mutate(func(items []schedule.Slot) ([]schedule.Slot, bool) {
		return schedule.Purge(items, id)
	})
	return err
}

// Day start preference

// DayStart returns the stored HH:MM the schedule timeline starts at
func (p *Planner) DayStart() string {
	var s string
	if err := store.Read(p.kv, store.KeyDayStart, &s); err != nil || s == "" {
		return schedule.DefaultDayStart
	}
	if _, err := schedule.ParseDayStart(s); err != nil {
		return schedule.DefaultDayStart
	}
	return s
}

// SetDayStart stores a new HH:MM day start
func (p *Planner) SetDayStart(s string) error {
	s = strings.TrimSpace(s)
	if _, err := schedule.ParseDayStart(s); err != nil {
		return err
	}
	return store.Write(p.kv, store.KeyDayStart, s)
}

// Timeline maps slot indexes of today's schedule to clock times
func (p *Planner) Timeline() schedule.Timeline {
	start, _ := schedule.ParseDayStart(p.DayStart())
	return schedule.Timeline{Start: start, Work: p.work, Break: p.brk}
}
