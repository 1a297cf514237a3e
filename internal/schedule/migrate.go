package schedule

import (
	"encoding/json"
)

// storedSlot accepts both slot representations: the current one-slot-per-
// session form {taskId, done} and the legacy per-task form
// {taskId, pomodoros, completed}.
type storedSlot struct {
	TaskID    *string `json:"taskId"`
	Done      *bool   `json:"done"`
	Pomodoros *int    `json:"pomodoros"`
	Completed *int    `json:"completed"`
}

// DecodeSlots parses a stored slot list, expanding the legacy form.
// A list whose first element already carries "done" is taken as current.
func DecodeSlots(data []byte) ([]Slot, error) {
	if len(data) == 0 || string(data) == "null" {
		return []Slot{}, nil
	}
	var stored []storedSlot
	if err := json.Unmarshal(data, &stored); err != nil {
		return nil, err
	}
	return migrate(stored), nil
}

func migrate(stored []storedSlot) []Slot {
	out := make([]Slot, 0, len(stored))
	if len(stored) == 0 {
		return out
	}

	if stored[0].Done != nil {
		for _, s := range stored {
			slot := Slot{}
			if s.TaskID != nil && *s.TaskID != "" {
				slot.TaskID = *s.TaskID
				slot.Done = s.Done != nil && *s.Done
			}
			out = append(out, slot)
		}
		return out
	}

	for _, s := range stored {
		n := 1
		if s.Pomodoros != nil {
			n = *s.Pomodoros
		}
		k := 0
		if s.Completed != nil {
			k = min(max(*s.Completed, 0), n)
		}
		for i := 0; i < n; i++ {
			slot := Slot{}
			if s.TaskID != nil && *s.TaskID != "" {
				slot.TaskID = *s.TaskID
				slot.Done = i < k
			}
			out = append(out, slot)
		}
	}
	return out
}
