package schedule

// Group collapses the slots of one task for display. Open slots each form
// their own group and remember their flat index so they stay addressable.
type Group struct {
	TaskID    string // empty for an open slot
	Total     int
	Completed int
	FlatIdx   int // index of the open slot, -1 for task groups
}

// IsOpen reports whether the group is a single open slot
func (g Group) IsOpen() bool { return g.TaskID == "" }

// GroupItems collapses items into groups in order of first appearance.
func GroupItems(items []Slot) []Group {
	var groups []Group
	byTask := make(map[string]int)
	for i, s := range items {
		if s.IsOpen() {
			groups = append(groups, Group{Total: 1, FlatIdx: i})
			continue
		}
		gi, ok := byTask[s.TaskID]
		if !ok {
			gi = len(groups)
			byTask[s.TaskID] = gi
			groups = append(groups, Group{TaskID: s.TaskID, FlatIdx: -1})
		}
		groups[gi].Total++
		if s.Done {
			groups[gi].Completed++
		}
	}
	return groups
}

// MoveGroup moves the group at index from so it sits before the group
// currently at index to (len(groups) means the end). Every slot of a task
// is emitted contiguously in its original relative order. The second
// result is false when the move would not change anything.
func MoveGroup(items []Slot, from, to int) ([]Slot, bool) {
	groups := GroupItems(items)
	if from < 0 || from >= len(groups) || to < 0 || to > len(groups) {
		return items, false
	}
	if to == from || to == from+1 {
		return items, false
	}

	moved := groups[from]
	order := append(append([]Group{}, groups[:from]...), groups[from+1:]...)
	if to > from {
		to--
	}
	order = append(order[:to], append([]Group{moved}, order[to:]...)...)

	out := make([]Slot, 0, len(items))
	for _, g := range order {
		if g.IsOpen() {
			out = append(out, items[g.FlatIdx])
			continue
		}
		for _, s := range items {
			if s.TaskID == g.TaskID {
				out = append(out, s)
			}
		}
	}
	return out, true
}

// MoveSlot moves the slot at from to index to of the list without it. The
// vacated position is refilled with an open slot so that every other slot
// keeps its place in the time grid. Moving an open slot leaves nothing behind.
func MoveSlot(items []Slot, from, to int) ([]Slot, bool) {
	if from < 0 || from >= len(items) || from == to {
		return items, false
	}
	moved := items[from]
	rest := append(clone(items[:from]), items[from+1:]...)
	to = min(max(to, 0), len(rest))
	out := insert(rest, to, moved)
	if moved.IsOpen() {
		return out, true
	}

	hole := from
	if to <= from {
		hole = from + 1
	}
	return insert(out, hole, Open()), true
}

// Add appends one not-done slot for taskID
func Add(items []Slot, taskID string) []Slot {
	return append(clone(items), For(taskID))
}

// Remove deletes the slot at index
func Remove(items []Slot, index int) ([]Slot, bool) {
	if index < 0 || index >= len(items) {
		return items, false
	}
	return append(clone(items[:index]), items[index+1:]...), true
}

// ToggleDone flips the completion flag of the slot at index. Open slots
// cannot be completed.
func ToggleDone(items []Slot, index int) ([]Slot, bool) {
	if index < 0 || index >= len(items) || items[index].IsOpen() {
		return items, false
	}
	out := clone(items)
	out[index].Done = !out[index].Done
	return out, true
}

// ChangeCount adds (delta > 0) or removes (delta < 0) one slot of taskID.
// Adding inserts right after the task's last slot. Removing takes the last
// not-done slot, or the last slot when all are done, and is refused when the
// task has a single slot.
func ChangeCount(items []Slot, taskID string, delta int) ([]Slot, bool) {
	if taskID == "" || delta == 0 {
		return items, false
	}
	last, lastOpen, count := -1, -1, 0
	for i, s := range items {
		if s.TaskID != taskID {
			continue
		}
		count++
		last = i
		if !s.Done {
			lastOpen = i
		}
	}

	if delta > 0 {
		if last < 0 {
			return Add(items, taskID), true
		}
		return insert(clone(items), last+1, For(taskID)), true
	}

	if count <= 1 {
		return items, false
	}
	if lastOpen >= 0 {
		return Remove(items, lastOpen)
	}
	return Remove(items, last)
}

// Purge removes every slot referencing one of ids
func Purge(items []Slot, ids ...string) ([]Slot, bool) {
	drop := make(map[string]bool, len(ids))
	for _, id := range ids {
		drop[id] = true
	}
	out := make([]Slot, 0, len(items))
	for _, s := range items {
		if !s.IsOpen() && drop[s.TaskID] {
			continue
		}
		out = append(out, s)
	}
	return out, len(out) != len(items)
}

// Status describes the live schedule relative to the timer
type Status int

const (
	StatusNoSchedule Status = iota
	StatusAllDone
	StatusActive
)

// Active locates the first not-done slot whose task still exists
func Active(items []Slot, exists func(taskID string) bool) (int, Status) {
	if len(items) == 0 {
		return -1, StatusNoSchedule
	}
	for i, s := range items {
		if s.IsOpen() || s.Done {
			continue
		}
		if exists != nil && !exists(s.TaskID) {
			continue
		}
		return i, StatusActive
	}
	return -1, StatusAllDone
}

func insert(items []Slot, at int, s Slot) []Slot {
	items = append(items, Slot{})
	copy(items[at+1:], items[at:])
	items[at] = s
	return items
}
