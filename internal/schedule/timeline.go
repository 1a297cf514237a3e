package schedule

import (
	"fmt"
	"time"
)

// DefaultDayStart is used when no day start preference is stored
const DefaultDayStart = "08:00"

// ParseDayStart parses an HH:MM clock time into an offset from midnight
func ParseDayStart(s string) (time.Duration, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, fmt.Errorf("day start %q: %w", s, err)
	}
	return time.Duration(t.Hour())*time.Hour + time.Duration(t.Minute())*time.Minute, nil
}

// Timeline maps slot indexes to clock times: slot i starts at
// dayStart + i*(work+break).
type Timeline struct {
	Start time.Duration
	Work  time.Duration
	Break time.Duration
}

// At returns the start time of slot index as HH:MM (wrapping past midnight)
func (tl Timeline) At(index int) string {
	return clock(tl.Start + time.Duration(index)*(tl.Work+tl.Break))
}

// End returns the clock time at which n slots starting at day start finish
func (tl Timeline) End(n int) string {
	if n <= 0 {
		return clock(tl.Start)
	}
	return clock(tl.Start + time.Duration(n)*(tl.Work+tl.Break) - tl.Break)
}

func clock(d time.Duration) string {
	mins := int(d/time.Minute) % (24 * 60)
	return fmt.Sprintf("%02d:%02d", mins/60, mins%60)
}
