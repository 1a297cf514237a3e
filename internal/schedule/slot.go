// Package schedule is the daily schedule model: a date-scoped, ordered list
// of work-session slots and the operations that keep it consistent.
package schedule

import (
	"encoding/json"
)

// Slot is one scheduled work session. It is either occupied (bound to a
// task) or open, a reserved position in the timeline with no task.
// An open slot is never done.
type Slot struct {
	TaskID string
	Done   bool
}

// Open returns an unassigned slot
func Open() Slot { return Slot{} }

// For returns a not-done slot for taskID
func For(taskID string) Slot { return Slot{TaskID: taskID} }

// IsOpen reports whether the slot has no task
func (s Slot) IsOpen() bool { return s.TaskID == "" }

type slotJSON struct {
	TaskID *string `json:"taskId"`
	Done   bool    `json:"done"`
}

func (s Slot) MarshalJSON() ([]byte, error) {
	out := slotJSON{Done: s.Done && !s.IsOpen()}
	if !s.IsOpen() {
		id := s.TaskID
		out.TaskID = &id
	}
	return json.Marshal(out)
}

func (s *Slot) UnmarshalJSON(data []byte) error {
	var in slotJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	*s = Slot{}
	if in.TaskID != nil && *in.TaskID != "" {
		s.TaskID = *in.TaskID
		s.Done = in.Done
	}
	return nil
}

// Schedule is the slot list for one calendar date
type Schedule struct {
	Date  string `json:"date"`
	Items []Slot `json:"items"`
}

// Contains reports whether any slot references taskID
func Contains(items []Slot, taskID string) bool {
	for _, s := range items {
		if s.TaskID == taskID && taskID != "" {
			return true
		}
	}
	return false
}

func clone(items []Slot) []Slot {
	out := make([]Slot, len(items))
	copy(out, items)
	return out
}
