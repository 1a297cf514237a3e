// Package sessionlog is the append-only record of completed work sessions.
package sessionlog

import (
	"strings"
	"time"

	"github.com/tgienger/pomo/internal/logging"
	"github.com/tgienger/pomo/internal/models"
	"github.com/tgienger/pomo/internal/store"
)

// Log reads and appends sessions in the key-value store
type Log struct {
	kv     store.KV
	logger *logging.Logger
}

// New creates a Log over kv
func New(kv store.KV, logger *logging.Logger) *Log {
	return &Log{kv: kv, logger: logger.With("component", "sessionlog")}
}

// List returns every logged session, oldest first
func (l *Log) List() []models.Session {
	var sessions []models.Session
	if err := store.Read(l.kv, store.KeySessions, &sessions); err != nil {
		l.logger.Warn("session log unreadable, treating as empty", "error", err)
		return nil
	}
	return sessions
}

// Append records a completed session for activity at now
func (l *Log) Append(activity string, minutes int, now time.Time) (models.Session, error) {
	s := models.Session{
		Activity:  activity,
		Duration:  minutes,
		Date:      now.Format(models.DateLayout),
		Timestamp: now.UnixMilli(),
	}
	sessions := append(l.List(), s)
	if err := store.Write(l.kv, store.KeySessions, sessions); err != nil {
		return s, err
	}
	l.logger.Info("session logged", "activity", activity, "date", s.Date)
	return s, nil
}

// OnDate returns the sessions logged on date
func (l *Log) OnDate(date string) []models.Session {
	var out []models.Session
	for _, s := range l.List() {
		if s.Date == date {
			out = append(out, s)
		}
	}
	return out
}

// CountOn returns how many sessions were logged on date
func (l *Log) CountOn(date string) int {
	return len(l.OnDate(date))
}

// RecentActivities returns distinct activity names, most recent first,
// optionally narrowed to names containing filter (case-insensitive).
func (l *Log) RecentActivities(filter string) []string {
	sessions := l.List()
	filter = strings.ToLower(strings.TrimSpace(filter))
	seen := make(map[string]bool)
	var names []string
	for i := len(sessions) - 1; i >= 0; i-- {
		name := sessions[i].Activity
		if seen[name] {
			continue
		}
		seen[name] = true
		if filter != "" && !strings.Contains(strings.ToLower(name), filter) {
			continue
		}
		names = append(names, name)
	}
	return names
}

// Streak counts consecutive days with at least one session, ending today.
// A day with no sessions yet does not break a streak that ran through yesterday.
func (l *Log) Streak(today time.Time) int {
	days := make(map[string]bool)
	for _, s := range l.List() {
		days[s.Date] = true
	}

	day := today
	if !days[day.Format(models.DateLayout)] {
		day = day.AddDate(0, 0, -1)
	}
	streak := 0
	for days[day.Format(models.DateLayout)] {
		streak++
		day = day.AddDate(0, 0, -1)
	}
	return streak
}
