package planner

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tgienger/pomo/internal/catalog"
	"github.com/tgienger/pomo/internal/drag"
	"github.com/tgienger/pomo/internal/logging"
	"github.com/tgienger/pomo/internal/models"
	"github.com/tgienger/pomo/internal/notify"
	"github.com/tgienger/pomo/internal/schedule"
	"github.com/tgienger/pomo/internal/store"
	"github.com/tgienger/pomo/internal/timer"
)

// Friday
var t0 = time.Date(2026, 10, 16, 9, 0, 0, 0, time.Local)

type clock struct{ now time.Time }

func (c *clock) Now() time.Time          { return c.now }
func (c *clock) Advance(d time.Duration) { c.now = c.now.Add(d) }

type fixture struct {
	p     *Planner
	kv    *store.Memory
	clock *clock
	kinds []notify.Kind
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{kv: store.NewMemory(), clock: &clock{now: t0}}
	f.p = New(f.kv, Options{
		Work:     25 * time.Minute,
		Break:    5 * time.Minute,
		Now:      f.clock.Now,
		Notifier: notify.Func(func(k notify.Kind) { f.kinds = append(f.kinds, k) }),
		Logger:   logging.NopLogger(),
	})
	return f
}

func (f *fixture) task(t *testing.T, spec catalog.TaskSpec) models.Task {
	t.Helper()
	task, err := f.p.CreateTask(spec)
	require.NoError(t, err)
	return task
}

func (f *fixture) today() string { return f.clock.now.Format(models.DateLayout) }

func TestWorkEnd_AutoLogsActiveSlot(t *testing.T) {
	f := newFixture(t)
	proj, err := f.p.CreateProject("Thesis")
	require.NoError(t, err)
	write := f.task(t, catalog.TaskSpec{ProjectID: proj.ID, Name: "Write"})
	require.NoError(t, f.p.AddSlot(write.ID))
	require.NoError(t, f.p.AddSlot(write.ID))

	active := f.p.Active()
	assert.Equal(t, schedule.StatusActive, active.Status)
	assert.Equal(t, "0/2", active.Progress())

	require.True(t, f.p.Start())
	f.clock.Advance(25*time.Minute + time.Second)
	out := f.p.Tick()

	assert.Equal(t, timer.EventWorkEnd, out.Event)
	assert.False(t, out.NeedsActivity)
	require.NotNil(t, out.Logged)
	assert.Equal(t, "Thesis — Write", out.Logged.Activity)
	assert.Equal(t, 25, out.Logged.Duration)
	assert.Equal(t, f.today(), out.Logged.Date)

	st := f.p.Timer()
	assert.True(t, st.Running)
	assert.True(t, st.IsBreak)
	assert.False(t, st.AwaitingActivity)

	rows := f.p.Rows(f.today())
	require.Len(t, rows, 2)
	assert.True(t, rows[0].Done)
	assert.False(t, rows[1].Done)
	assert.Equal(t, "1/2", f.p.Active().Progress())

	assert.Equal(t, []notify.Kind{notify.Start, notify.WorkEnd}, f.kinds)
	assert.Len(t, f.p.Sessions().List(), 1)

	f.clock.Advance(5*time.Minute + time.Second)
	assert.Equal(t, timer.EventBreakEnd, f.p.Tick().Event)
	assert.Equal(t, notify.BreakEnd, f.kinds[len(f.kinds)-1])
}

func TestWorkEnd_WithoutScheduleAsksForActivity(t *testing.T) {
	f := newFixture(t)

	_, err := f.p.LogActivity("reading")
	assert.ErrorIs(t, err, ErrNotAwaitingActivity)

	require.True(t, f.p.Start())
	f.clock.Advance(26 * time.Minute)
	out := f.p.Tick()
	assert.Equal(t, timer.EventWorkEnd, out.Event)
	assert.True(t, out.NeedsActivity)
	assert.Nil(t, out.Logged)
	assert.False(t, f.p.Start(), "cannot start while the session is unnamed")

	_, err = f.p.LogActivity("   ")
	assert.ErrorIs(t, err, ErrEmptyActivity)

	s, err := f.p.LogActivity(" reading ")
	require.NoError(t, err)
	assert.Equal(t, "reading", s.Activity)
	assert.True(t, f.p.Timer().IsBreak)
	assert.Equal(t, []string{"reading"}, f.p.Suggestions("rea"))
}

func TestWorkEnd_StaleActiveIndexFallsBack(t *testing.T) {
	f := newFixture(t)
	task := f.task(t, catalog.TaskSpec{Name: "Inbox"})
	require.NoError(t, f.p.AddSlot(task.ID))
	require.True(t, f.p.Start())

	// the schedule is emptied behind the planner's back
	other := schedule.NewStore(f.kv, logging.NopLogger())
	require.NoError(t, other.Save(schedule.Schedule{Date: f.today(), Items: []schedule.Slot{}}, f.today()))

	// exactly at the deadline zero seconds are left, which is not yet expiry
	f.clock.Advance(25 * time.Minute)
	out := f.p.Tick()
	assert.NotEqual(t, timer.EventWorkEnd, out.Event)
	assert.Equal(t, 0, f.p.Timer().TimeLeft)

	f.clock.Advance(time.Second)
	out = f.p.Tick()
	assert.Equal(t, timer.EventWorkEnd, out.Event)
	assert.True(t, out.NeedsActivity)
	assert.Empty(t, f.p.Sessions().List())
}

func TestStart_NotifiesOnlyForWork(t *testing.T) {
	f := newFixture(t)
	require.True(t, f.p.Start())
	assert.False(t, f.p.Start())
	f.p.Pause()
	require.True(t, f.p.Start())
	assert.Equal(t, []notify.Kind{notify.Start, notify.Start}, f.kinds)

	f.p.Reset()
	st := f.p.Timer()
	assert.False(t, st.Running)
	assert.Equal(t, "25:00", st.Display())
}

func TestTick_StalledClockExpiresOnce(t *testing.T) {
	f := newFixture(t)
	require.True(t, f.p.Start())
	f.clock.Advance(2 * time.Hour)
	assert.Equal(t, timer.EventWorkEnd, f.p.Tick().Event)
	assert.Equal(t, timer.EventNone, f.p.Tick().Event)
}

func TestInit_InsertsRecurringOnce(t *testing.T) {
	f := newFixture(t)
	daily := f.task(t, catalog.TaskSpec{Name: "Standup", Recurring: models.RecurDaily})
	friday := f.task(t, catalog.TaskSpec{Name: "Review", Recurring: models.RecurWeekly, RecurDay: int(time.Friday)})
	f.task(t, catalog.TaskSpec{Name: "Plan", Recurring: models.RecurWeekly, RecurDay: int(time.Monday)})

	added, err := f.p.Init()
	require.NoError(t, err)
	assert.Equal(t, []string{daily.ID, friday.ID}, added)

	b, ok := f.p.Banner()
	require.True(t, ok)
	assert.Equal(t, []string{"Standup", "Review"}, b.Tasks)
	assert.Equal(t, 55, b.Minutes)
	assert.Equal(t, "08:55", b.End)

	added, err = f.p.Init()
	require.NoError(t, err)
	assert.Empty(t, added)
	assert.Len(t, f.p.Rows(""), 2)

	f.p.DismissBanner()
	_, ok = f.p.Banner()
	assert.False(t, ok)
}

func TestCarryover(t *testing.T) {
	f := newFixture(t)
	a := f.task(t, catalog.TaskSpec{Name: "A"})
	b := f.task(t, catalog.TaskSpec{Name: "B"})
	gone := f.task(t, catalog.TaskSpec{Name: "Gone"})

	require.NoError(t, f.p.AddSlot(a.ID))
	require.NoError(t, f.p.AddSlot(b.ID))
	require.NoError(t, f.p.AddSlot(gone.ID))
	_, err := f.p.ToggleDone(1)
	require.NoError(t, err)
	require.NoError(t, f.p.DeleteTask(gone.ID))

	_, ok := f.p.Carryover()
	assert.False(t, ok, "nothing before today")

	f.clock.Advance(24 * time.Hour)
	offer, ok := f.p.Carryover()
	require.True(t, ok)
	assert.Equal(t, "2026-10-16", offer.From)
	assert.Equal(t, []string{a.ID}, offer.TaskIDs)

	added, err := f.p.ApplyCarryover()
	require.NoError(t, err)
	assert.Equal(t, []string{a.ID}, added)
	assert.Len(t, f.p.Rows(""), 1)

	_, ok = f.p.Carryover()
	assert.False(t, ok, "offer is gone once applied")
}

func TestCarryover_StaleLiveScheduleWithoutHistory(t *testing.T) {
	f := newFixture(t)
	a := f.task(t, catalog.TaskSpec{Name: "A"})
	// yesterday's live record was never mirrored into history
	require.NoError(t, store.Write(f.kv, store.KeySchedule, schedule.Schedule{
		Date:  "2026-10-15",
		Items: []schedule.Slot{{TaskID: a.ID}},
	}))

	offer, ok := f.p.Carryover()
	require.True(t, ok)
	assert.Equal(t, "2026-10-15", offer.From)
	assert.Equal(t, []string{a.ID}, offer.TaskIDs)
}

func TestDismissCarryover_LastsOneDay(t *testing.T) {
	f := newFixture(t)
	a := f.task(t, catalog.TaskSpec{Name: "A"})
	require.NoError(t, f.p.AddSlot(a.ID))

	f.clock.Advance(24 * time.Hour)
	require.NoError(t, f.p.DismissCarryover())
	_, ok := f.p.Carryover()
	assert.False(t, ok)

	// the dismissed day had no schedule of its own, so tomorrow offers again
	f.clock.Advance(24 * time.Hour)
	offer, ok := f.p.Carryover()
	require.True(t, ok)
	assert.Equal(t, "2026-10-16", offer.From)
}

func TestCards_TaskDeletedOutsidePlanner(t *testing.T) {
	f := newFixture(t)
	proj, err := f.p.CreateProject("Thesis")
	require.NoError(t, err)
	kept := f.task(t, catalog.TaskSpec{Name: "Write", ProjectID: proj.ID})
	gone := f.task(t, catalog.TaskSpec{Name: "Read"})
	require.NoError(t, f.p.AddSlot(kept.ID))
	require.NoError(t, f.p.AddSlot(gone.ID))

	// deleting through the catalog skips the schedule purge
	require.NoError(t, f.p.Catalog().DeleteTask(gone.ID))

	cards := f.p.Cards("")
	require.Len(t, cards, 2)
	assert.Equal(t, "Write", cards[0].Task)
	assert.Equal(t, "Thesis", cards[0].Project)
	assert.Equal(t, proj.Color, cards[0].Color)
	assert.False(t, cards[0].Removed)
	assert.True(t, cards[1].Removed)
	assert.Empty(t, cards[1].Task)

	rows := f.p.Rows("")
	require.Len(t, rows, 2)
	assert.True(t, rows[1].Removed)
}

func TestDeleteProject_PurgesSchedule(t *testing.T) {
	f := newFixture(t)
	proj, err := f.p.CreateProject("Side")
	require.NoError(t, err)
	x := f.task(t, catalog.TaskSpec{ProjectID: proj.ID, Name: "X"})
	y := f.task(t, catalog.TaskSpec{Name: "Y"})
	require.NoError(t, f.p.AddSlot(x.ID))
	require.NoError(t, f.p.AddSlot(y.ID))
	require.NoError(t, f.p.AddSlot(x.ID))

	require.NoError(t, f.p.DeleteProject(proj.ID))
	rows := f.p.Rows("")
	require.Len(t, rows, 1)
	assert.Equal(t, y.ID, rows[0].TaskID)
	assert.Equal(t, 0, f.p.Active().Index)

	assert.ErrorIs(t, f.p.AddSlot(x.ID), catalog.ErrNotFound)
}

func TestCards(t *testing.T) {
	f := newFixture(t)
	proj, err := f.p.CreateProject("Work")
	require.NoError(t, err)
	a := f.task(t, catalog.TaskSpec{ProjectID: proj.ID, Name: "A"})
	b := f.task(t, catalog.TaskSpec{Name: "B"})
	require.NoError(t, f.p.AddSlot(a.ID))
	require.NoError(t, f.p.AddSlot(b.ID))
	changed, err := f.p.ChangeCount(a.ID, 1)
	require.NoError(t, err)
	require.True(t, changed)

	cards := f.p.Cards("")
	require.Len(t, cards, 2)
	assert.Equal(t, "A", cards[0].Task)
	assert.Equal(t, "Work", cards[0].Project)
	assert.Equal(t, proj.Color, cards[0].Color)
	assert.Equal(t, 2, cards[0].Total)
	assert.Equal(t, "B", cards[1].Task)
	assert.Empty(t, cards[1].Project)

	changed, err = f.p.ChangeCount(b.ID, -1)
	require.NoError(t, err)
	assert.False(t, changed, "a task keeps at least one session")

	rows := f.p.Rows("")
	assert.Equal(t, "08:00", rows[0].Time)
	assert.Equal(t, "08:30", rows[1].Time)
}

func TestApply_Gestures(t *testing.T) {
	f := newFixture(t)
	a := f.task(t, catalog.TaskSpec{Name: "A"})
	b := f.task(t, catalog.TaskSpec{Name: "B"})
	require.NoError(t, f.p.AddSlot(a.ID))
	require.NoError(t, f.p.AddSlot(a.ID))
	require.NoError(t, f.p.AddSlot(b.ID))

	// swipe right on card A completes its first open session
	changed, err := f.p.Apply(drag.Swipe{Index: 0, Dir: drag.Right}, Grouped)
	require.NoError(t, err)
	require.True(t, changed)
	assert.Equal(t, 1, f.p.Cards("")[0].Completed)

	// move card B in front of A
	changed, err = f.p.Apply(drag.Move{From: 1, To: 0}, Grouped)
	require.NoError(t, err)
	require.True(t, changed)
	assert.Equal(t, b.ID, f.p.Rows("")[0].TaskID)

	// swipe left on card A removes its last slot
	changed, err = f.p.Apply(drag.Swipe{Index: 1, Dir: drag.Left}, Grouped)
	require.NoError(t, err)
	require.True(t, changed)
	rows := f.p.Rows("")
	require.Len(t, rows, 2)
	assert.True(t, rows[1].Done)

	// timeline move leaves an open slot behind
	changed, err = f.p.Apply(drag.Move{From: 0, To: 2}, Timeline)
	require.NoError(t, err)
	require.True(t, changed)
	rows = f.p.Rows("")
	require.Len(t, rows, 3)
	assert.True(t, rows[0].IsOpen())

	changed, err = f.p.Apply(drag.Tap{Index: 0}, Timeline)
	require.NoError(t, err)
	assert.False(t, changed)
}

func TestDayStart(t *testing.T) {
	f := newFixture(t)
	assert.Equal(t, "08:00", f.p.DayStart())
	assert.Error(t, f.p.SetDayStart("25:99"))
	require.NoError(t, f.p.SetDayStart(" 06:30 "))
	assert.Equal(t, "06:30", f.p.DayStart())
	assert.Equal(t, "07:00", f.p.Timeline().At(1))
}
