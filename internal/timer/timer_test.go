package timer

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2026, 10, 16, 9, 0, 0, 0, time.Local)

func newTimer() *Timer {
	return New(25*time.Minute, 5*time.Minute)
}

func TestInitialState(t *testing.T) {
	tm := newTimer()
	assert.False(t, tm.Running())
	assert.False(t, tm.IsBreak())
	assert.Equal(t, 1500, tm.TimeLeft())
	assert.True(t, tm.EndTime().IsZero())
}

func TestStartPauseResume(t *testing.T) {
	tm := newTimer()
	require.True(t, tm.Start(t0))
	assert.False(t, tm.Start(t0.Add(time.Second)), "start while running is a no-op")
	assert.Equal(t, t0.Add(1500*time.Second), tm.EndTime())

	assert.Equal(t, EventChanged, tm.Tick(t0.Add(10*time.Second)))
	assert.Equal(t, 1490, tm.TimeLeft())
	assert.Equal(t, EventNone, tm.Tick(t0.Add(10*time.Second+200*time.Millisecond)))

	tm.Pause(t0.Add(100 * time.Second))
	assert.False(t, tm.Running())
	assert.Equal(t, 1400, tm.TimeLeft())
	assert.True(t, tm.EndTime().IsZero())

	// idle time does not count
	require.True(t, tm.Start(t0.Add(time.Hour)))
	tm.Tick(t0.Add(time.Hour + 30*time.Second))
	assert.Equal(t, 1370, tm.TimeLeft())
}

func TestPauseAndResetAreIdempotent(t *testing.T) {
	tm := newTimer()
	tm.Pause(t0)
	tm.Pause(t0)
	assert.False(t, tm.Running())
	assert.Equal(t, 1500, tm.TimeLeft())

	tm.StartBreak(t0)
	tm.Reset(t0.Add(time.Minute))
	tm.Reset(t0.Add(2 * time.Minute))
	assert.False(t, tm.Running())
	assert.False(t, tm.IsBreak())
	assert.Equal(t, 1500, tm.TimeLeft())
	assert.True(t, tm.EndTime().IsZero())
}

func TestStalledTickExpiresOnce(t *testing.T) {
	tm := New(3*time.Second, time.Minute)
	require.True(t, tm.Start(t0))

	// no ticks for five seconds, deadline was three seconds out
	assert.Equal(t, EventWorkEnd, tm.Tick(t0.Add(5*time.Second)))
	assert.False(t, tm.Running())
	assert.Equal(t, EventNone, tm.Tick(t0.Add(5*time.Second+250*time.Millisecond)))
	assert.Equal(t, EventNone, tm.Tick(t0.Add(6*time.Second)))
}

func TestRoundingHalfUp(t *testing.T) {
	tm := New(3*time.Second, time.Minute)
	tm.Start(t0)
	assert.Equal(t, EventChanged, tm.Tick(t0.Add(3*time.Second+400*time.Millisecond)), "-0.4s rounds to zero, not expiry")
	assert.Equal(t, 0, tm.TimeLeft())
	assert.True(t, tm.Running())
	assert.Equal(t, EventWorkEnd, tm.Tick(t0.Add(3*time.Second+600*time.Millisecond)))
}

func TestBreakEnd(t *testing.T) {
	tm := newTimer()
	tm.StartBreak(t0)
	assert.True(t, tm.Running())
	assert.True(t, tm.IsBreak())
	assert.Equal(t, 300, tm.TimeLeft())

	assert.Equal(t, EventBreakEnd, tm.Tick(t0.Add(301*time.Second)))
	assert.False(t, tm.Running())
	assert.False(t, tm.IsBreak())
	assert.Equal(t, 1500, tm.TimeLeft())
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "25:00", Format(1500))
	assert.Equal(t, "00:09", Format(9))
	assert.Equal(t, "00:00", Format(-2))
}

func TestTicks_StopsWithContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	ch := Ticks(ctx, 5*time.Millisecond)

	select {
	case <-ch:
	case <-time.After(time.Second):
		t.Fatal("no tick delivered")
	}

	cancel()
	deadline := time.After(time.Second)
	for {
		select {
		case _, ok := <-ch:
			if !ok {
				return
			}
		case <-deadline:
			t.Fatal("channel not closed after cancel")
		}
	}
}
