// Package timer is the work/break countdown. While running, an absolute
// deadline is the source of truth and the remaining seconds are recomputed
// from the wall clock on every tick, so late or missed ticks self-correct.
package timer

import (
	"fmt"
	"math"
	"time"
)

// Event reports what a tick changed
type Event int

const (
	EventNone Event = iota
	EventChanged
	EventWorkEnd
	EventBreakEnd
)

func (e Event) String() string {
	switch e {
	case EventChanged:
		return "changed"
	case EventWorkEnd:
		return "work-end"
	case EventBreakEnd:
		return "break-end"
	default:
		return "none"
	}
}

// Timer holds the countdown state. Paused is idle with a partial TimeLeft.
type Timer struct {
	work     time.Duration
	brk      time.Duration
	running  bool
	isBreak  bool
	timeLeft int
	endTime  time.Time
}

// New returns an idle work timer
func New(work, brk time.Duration) *Timer {
	return &Timer{
		work:     work,
		brk:      brk,
		timeLeft: seconds(work),
	}
}

func (t *Timer) Running() bool { return t.running }
func (t *Timer) IsBreak() bool { return t.isBreak }

// TimeLeft returns the displayed remaining seconds
func (t *Timer) TimeLeft() int { return t.timeLeft }

// EndTime returns the deadline, zero while idle
func (t *Timer) EndTime() time.Time { return t.endTime }

// WorkSeconds returns the full work period length
func (t *Timer) WorkSeconds() int { return seconds(t.work) }

// Start runs the countdown from the current TimeLeft. It returns false if
// the timer was already running.
func (t *Timer) Start(now time.Time) bool {
	if t.running {
		return false
	}
	t.endTime = now.Add(time.Duration(t.timeLeft) * time.Second)
	t.running = true
	return true
}

// Pause snapshots the remaining time and stops. Pausing an idle timer does nothing.
func (t *Timer) Pause(now time.Time) {
	if !t.running {
		t.endTime = time.Time{}
		return
	}
	t.timeLeft = remaining(t.endTime, now)
	t.endTime = time.Time{}
	t.running = false
}

// Reset stops the timer and returns to a full, idle work period
func (t *Timer) Reset(now time.Time) {
	t.Pause(now)
	t.isBreak = false
	t.timeLeft = seconds(t.work)
}

// StartBreak switches to a full break period and starts it immediately
func (t *Timer) StartBreak(now time.Time) {
	t.Pause(now)
	t.isBreak = true
	t.timeLeft = seconds(t.brk)
	t.Start(now)
}

// Tick recomputes TimeLeft from the deadline. Expiry stops the timer, so
// it is reported exactly once no matter how late the tick arrives.
func (t *Timer) Tick(now time.Time) Event {
	if !t.running {
		return EventNone
	}
	left := remaining(t.endTime, now)
	if left >= 0 {
		if left == t.timeLeft {
			return EventNone
		}
		t.timeLeft = left
		return EventChanged
	}

	t.running = false
	t.endTime = time.Time{}
	if t.isBreak {
		t.isBreak = false
		t.timeLeft = seconds(t.work)
		return EventBreakEnd
	}
	t.timeLeft = 0
	return EventWorkEnd
}

// remaining rounds half up, matching a display that flips at the half second
func remaining(end, now time.Time) int {
	return int(math.Floor(end.Sub(now).Seconds() + 0.5))
}

func seconds(d time.Duration) int {
	return int(d / time.Second)
}

// Format renders seconds as MM:SS
func Format(secs int) string {
	secs = max(secs, 0)
	return fmt.Sprintf("%02d:%02d", secs/60, secs%60)
}
