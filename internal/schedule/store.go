package schedule

import (
	"encoding/json"
	"sort"

	"github.com/tgienger/pomo/internal/logging"
	"github.com/tgienger/pomo/internal/store"
)

// Store persists the live schedule and the per-date history
type Store struct {
	kv     store.KV
	logger *logging.Logger
}

// NewStore creates a Store over kv
func NewStore(kv store.KV, logger *logging.Logger) *Store {
	return &Store{kv: kv, logger: logger.With("component", "schedule")}
}

type record struct {
	Date  string          `json:"date"`
	Items json.RawMessage `json:"items"`
}

// Load returns the live schedule for today. A stored schedule from another
// date is archived into history (unless empty) and replaced by an empty one.
func (s *Store) Load(today string) Schedule {
	var rec record
	if err := store.Read(s.kv, store.KeySchedule, &rec); err != nil {
		s.logger.Warn("live schedule unreadable, starting empty", "error", err)
		return Schedule{Date: today, Items: []Slot{}}
	}
	items, err := DecodeSlots(rec.Items)
	if err != nil {
		s.logger.Warn("live schedule items unreadable, starting empty", "error", err)
		items = []Slot{}
	}
	if rec.Date == today {
		return Schedule{Date: today, Items: items}
	}

	fresh := Schedule{Date: today, Items: []Slot{}}
	if rec.Date == "" {
		return fresh
	}
	if len(items) > 0 {
		if err := s.archive(rec.Date, items); err != nil {
			s.logger.Error("archive schedule", "date", rec.Date, "error", err)
		}
	}
	if err := store.Write(s.kv, store.KeySchedule, fresh); err != nil {
		s.logger.Error("reset live schedule", "error", err)
	}
	s.logger.Info("schedule rolled over", "from", rec.Date, "to", today, "archived", len(items))
	return fresh
}

// Save persists the live schedule and mirrors it into history for its date
// while it is today's and has at least one slot.
func (s *Store) Save(sched Schedule, today string) error {
	if sched.Items == nil {
		sched.Items = []Slot{}
	}
	if err := store.Write(s.kv, store.KeySchedule, sched); err != nil {
		return err
	}
	if sched.Date == today && len(sched.Items) > 0 {
		return s.archive(sched.Date, sched.Items)
	}
	return nil
}

// LoadForDate returns the slots for date: the live list for today,
// otherwise the archived list (empty when absent).
func (s *Store) LoadForDate(date, today string) []Slot {
	if date == today {
		return s.Load(today).Items
	}
	raw, ok := s.history()[date]
	if !ok {
		return []Slot{}
	}
	items, err := DecodeSlots(raw)
	if err != nil {
		s.logger.Warn("history entry unreadable", "date", date, "error", err)
		return []Slot{}
	}
	return items
}

// Dates returns every archived date, oldest first
func (s *Store) Dates() []string {
	h := s.history()
	dates := make([]string, 0, len(h))
	for d := range h {
		dates = append(dates, d)
	}
	sort.Strings(dates)
	return dates
}

// LatestBefore returns the most recent archived date strictly before today
// that has at least one slot.
func (s *Store) LatestBefore(today string) (string, []Slot, bool) {
	dates := s.Dates()
	for i := len(dates) - 1; i >= 0; i-- {
		if dates[i] >= today {
			continue
		}
		items := s.LoadForDate(dates[i], today)
		if len(items) > 0 {
			return dates[i], items, true
		}
	}
	return "", nil, false
}

// CarryoverDismissed reports whether carryover was dismissed or applied today
func (s *Store) CarryoverDismissed(today string) bool {
	var date string
	if err := store.Read(s.kv, store.KeyCarryoverDismissed, &date); err != nil {
		return false
	}
	return date == today
}

// DismissCarryover suppresses the carryover offer for the rest of today
func (s *Store) DismissCarryover(today string) error {
	return store.Write(s.kv, store.KeyCarryoverDismissed, today)
}

func (s *Store) history() map[string]json.RawMessage {
	h := make(map[string]json.RawMessage)
	if err := store.Read(s.kv, store.KeyScheduleHistory, &h); err != nil {
		s.logger.Warn("schedule history unreadable, treating as empty", "error", err)
		return make(map[string]json.RawMessage)
	}
	if h == nil {
		h = make(map[string]json.RawMessage)
	}
	return h
}

func (s *Store) archive(date string, items []Slot) error {
	raw, err := json.Marshal(items)
	if err != nil {
		return err
	}
	h := s.history()
	h[date] = raw
	return store.Write(s.kv, store.KeyScheduleHistory, h)
}
