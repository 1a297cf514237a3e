package timer

import (
	"context"
	"time"
)

// Ticks delivers the wall-clock time every interval from a background
// goroutine until ctx is done, then closes the channel. A tick the
// receiver is not ready for is dropped; the next one carries a fresh time.
func Ticks(ctx context.Context, interval time.Duration) <-chan time.Time {
	out := make(chan time.Time, 1)
	go func() {
		defer close(out)
		t := time.NewTicker(interval)
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case now := <-t.C:
				select {
				case out <- now:
				default:
				}
			}
		}
	}()
	return out
}
