package cmd

import (
	"bytes"
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tgienger/pomo/internal/catalog"
	"github.com/tgienger/pomo/internal/config"
	"github.com/tgienger/pomo/internal/logging"
	"github.com/tgienger/pomo/internal/planner"
	"github.com/tgienger/pomo/internal/store"
)

// executeCommand runs a cobra command with args and returns captured output
func executeCommand(root *cobra.Command, args ...string) (output string, err error) {
	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetArgs(args)
	err = root.Execute()
	return buf.String(), err
}

// isolate points config, storage and logs at a temp dir
func isolate(t *testing.T) string {
	t.Helper()
	color.NoColor = true
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv("POMO_STORAGE_BACKEND", "diskv")
	t.Setenv("POMO_STORAGE_PATH", dir)
	return dir
}

func TestRootCommand(t *testing.T) {
	assert.Equal(t, "pomo", rootCmd.Use)

	names := make(map[string]bool)
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"version", "schedule", "log", "run"} {
		assert.True(t, names[want], "missing subcommand %q", want)
	}
}

func TestVersionCommand(t *testing.T) {
	out, err := executeCommand(rootCmd, "version", "--short")
	require.NoError(t, err)
	assert.Contains(t, out, version)
}

func TestScheduleAndLog_Empty(t *testing.T) {
	isolate(t)

	out, err := executeCommand(rootCmd, "schedule", "--date", "2024-03-01")
	require.NoError(t, err)
	assert.Contains(t, out, "2024-03-01")
	assert.Contains(t, out, "Nothing scheduled.")

	out, err = executeCommand(rootCmd, "log", "--date", "2024-03-01")
	require.NoError(t, err)
	assert.Contains(t, out, "No sessions logged on 2024-03-01.")
}

func TestScheduleCommand_BadDate(t *testing.T) {
	isolate(t)

	_, err := executeCommand(rootCmd, "schedule", "--date", "tomorrow")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--date")
}

func TestScheduleCommand_Seeded(t *testing.T) {
	dir := isolate(t)

	backend, err := store.Open(config.StorageConfig{Backend: "diskv", Path: dir})
	require.NoError(t, err)
	p := planner.New(backend, planner.Options{Logger: logging.NopLogger()})
	proj, err := p.CreateProject("Thesis")
	require.NoError(t, err)
	task, err := p.CreateTask(catalog.TaskSpec{Name: "Write", ProjectID: proj.ID})
	require.NoError(t, err)
	require.NoError(t, p.AddSlot(task.ID))
	require.NoError(t, p.AddSlot(task.ID))
	_, err = p.ToggleDone(0)
	require.NoError(t, err)
	today := p.Today()
	require.NoError(t, backend.Close())

	out, err := executeCommand(rootCmd, "schedule", "--date", today, "--timeline=false")
	require.NoError(t, err)
	assert.Contains(t, out, "Thesis — Write")
	assert.Contains(t, out, "1/2")

	out, err = executeCommand(rootCmd, "schedule", "--date", today, "--timeline")
	require.NoError(t, err)
	assert.Contains(t, out, "08:00")
	assert.Contains(t, out, "08:30")
}

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func newRunPlanner(t *testing.T) (*planner.Planner, *fakeClock) {
	t.Helper()
	clock := &fakeClock{now: time.Date(2026, 10, 16, 9, 0, 0, 0, time.Local)}
	p := planner.New(store.NewMemory(), planner.Options{
		Work:   25 * time.Minute,
		Break:  5 * time.Minute,
		Now:    clock.Now,
		Logger: logging.NopLogger(),
	})
	return p, clock
}

// feed ticks until runSession returns
func feed(t *testing.T, clock *fakeClock, ticks chan<- time.Time, done <-chan error) error {
	t.Helper()
	deadline := time.After(time.Second)
	for {
		select {
		case ticks <- clock.Now():
		case err := <-done:
			return err
		case <-deadline:
			t.Fatal("runSession did not return")
			return nil
		}
	}
}

func TestRunSession_PromptsForActivity(t *testing.T) {
	p, clock := newRunPlanner(t)
	ticks := make(chan time.Time)
	done := make(chan error, 1)
	out := new(bytes.Buffer)
	go func() {
		done <- runSession(context.Background(), p, ticks, strings.NewReader("\nreading\n"), out, "", true)
	}()

	// the first receive happens after Start
	ticks <- clock.Now()
	clock.Advance(26 * time.Minute)
	require.NoError(t, feed(t, clock, ticks, done))

	require.Len(t, p.Sessions().List(), 1)
	assert.Equal(t, "reading", p.Sessions().List()[0].Activity)
	assert.Contains(t, out.String(), "What did you work on?")
	assert.Contains(t, out.String(), "Logged reading (25 min)")
	assert.False(t, p.Timer().Running)
}

func TestRunSession_AutoLogsScheduledTask(t *testing.T) {
	p, clock := newRunPlanner(t)
	task, err := p.CreateTask(catalog.TaskSpec{Name: "Read"})
	require.NoError(t, err)
	require.NoError(t, p.AddSlot(task.ID))

	ticks := make(chan time.Time)
	done := make(chan error, 1)
	out := new(bytes.Buffer)
	go func() {
		done <- runSession(context.Background(), p, ticks, strings.NewReader(""), out, "", false)
	}()

	ticks <- clock.Now()
	clock.Advance(25*time.Minute + time.Second)
	// the second send is only received once the work end was handled
	ticks <- clock.Now()
	ticks <- clock.Now()
	clock.Advance(5*time.Minute + time.Second)
	require.NoError(t, feed(t, clock, ticks, done))

	require.Len(t, p.Sessions().List(), 1)
	assert.Equal(t, "Read", p.Sessions().List()[0].Activity)
	assert.Contains(t, out.String(), "Working on Read (0/1)")
	assert.Contains(t, out.String(), "Logged Read (25 min)")
	assert.Contains(t, out.String(), "Break over.")
}

func TestRunSession_Interrupted(t *testing.T) {
	p, _ := newRunPlanner(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := runSession(ctx, p, make(chan time.Time), strings.NewReader(""), new(bytes.Buffer), "", false)
	assert.ErrorIs(t, err, errInterrupted)
}
