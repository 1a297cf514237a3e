package schedule

import (
	"time"

	"github.com/tgienger/pomo/internal/models"
)

// CarryoverCandidates returns, in order of first appearance, the task IDs of
// prev that have an unfinished slot and still exist. Each task appears once.
func CarryoverCandidates(prev []Slot, exists func(taskID string) bool) []string {
	seen := make(map[string]bool)
	var ids []string
	for _, s := range prev {
		if s.IsOpen() || s.Done || seen[s.TaskID] {
			continue
		}
		if exists != nil && !exists(s.TaskID) {
			continue
		}
		seen[s.TaskID] = true
		ids = append(ids, s.TaskID)
	}
	return ids
}

// ApplyCarryover appends one not-done slot per id not already scheduled and
// returns the IDs it added.
func ApplyCarryover(items []Slot, ids []string) ([]Slot, []string) {
	out := clone(items)
	var added []string
	for _, id := range ids {
		if id == "" || Contains(out, id) {
			continue
		}
		out = append(out, For(id))
		added = append(added, id)
	}
	return out, added
}

// DueToday reports whether a recurring task should be scheduled on weekday.
// Weekly tasks without a day default to Monday.
func DueToday(t models.Task, weekday time.Weekday) bool {
	switch t.Recurring {
	case models.RecurDaily:
		return true
	case models.RecurWeekly:
		day := time.Monday
		if t.RecurDay != nil {
			day = time.Weekday(*t.RecurDay)
		}
		return day == weekday
	}
	return false
}

// InsertRecurring appends one slot for every recurring task due on weekday
// that is not already scheduled, counting slots added earlier in the pass.
func InsertRecurring(items []Slot, tasks []models.Task, weekday time.Weekday) ([]Slot, []string) {
	out := clone(items)
	var added []string
	for _, t := range tasks {
		if !DueToday(t, weekday) || Contains(out, t.ID) {
			continue
		}
		out = append(out, For(t.ID))
		added = append(added, t.ID)
	}
	return out, added
}
