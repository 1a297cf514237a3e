// Package notify fires the user-facing cues at fixed points of a session.
package notify

import (
	"io"
	"strings"
	"sync"

	"github.com/tgienger/pomo/internal/logging"
)

// Kind of notification
type Kind int

const (
	Start Kind = iota
	WorkEnd
	BreakEnd
)

func (k Kind) String() string {
	switch k {
	case WorkEnd:
		return "work-end"
	case BreakEnd:
		return "break-end"
	default:
		return "start"
	}
}

// Notifier is triggered without expecting a result
type Notifier interface {
	Notify(k Kind)
}

// Func adapts a plain function to Notifier
type Func func(Kind)

func (f Func) Notify(k Kind) { f(k) }

// Nop ignores every notification
type Nop struct{}

func (Nop) Notify(Kind) {}

// Bell rings the terminal bell: once on start, twice when a work period
// ends, three times when a break ends.
type Bell struct {
	mu sync.Mutex
	w  io.Writer
}

// NewBell writes bell characters to w
func NewBell(w io.Writer) *Bell {
	return &Bell{w: w}
}

func (b *Bell) Notify(k Kind) {
	b.mu.Lock()
	defer b.mu.Unlock()
	_, _ = io.WriteString(b.w, strings.Repeat("\a", int(k)+1))
}

// Log records notifications in the debug log
type Log struct {
	logger *logging.Logger
}

// NewLog creates a logging Notifier
func NewLog(logger *logging.Logger) *Log {
	return &Log{logger: logger.With("component", "notify")}
}

func (l *Log) Notify(k Kind) {
	l.logger.Info("notification", "kind", k.String())
}

// Multi fans out to several notifiers in order
type Multi []Notifier

func (m Multi) Notify(k Kind) {
	for _, n := range m {
		n.Notify(k)
	}
}
