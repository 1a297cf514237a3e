// Package drag turns pointer or keyboard gestures into schedule commands.
// It knows nothing about input devices: callers feed it positions.
package drag

// State of the gesture machine
type State int

const (
	Idle State = iota
	Pressed
	Dragging
)

func (s State) String() string {
	switch s {
	case Pressed:
		return "pressed"
	case Dragging:
		return "dragging"
	default:
		return "idle"
	}
}

// Pos is a point in whatever units the caller uses (pixels, rows)
type Pos struct{ X, Y int }

// Axis a gesture locked onto when it left Pressed
type Axis int

const (
	Vertical Axis = iota
	Horizontal
)

// Direction of a swipe
type Direction int

const (
	Left Direction = iota
	Right
)

// Command is produced when a gesture completes
type Command interface{ isCommand() }

// Tap is a press released without moving
type Tap struct{ Index int }

// Move reorders the item at From to To
type Move struct{ From, To int }

// Swipe is a horizontal fling on Index: Right completes, Left removes
type Swipe struct {
	Index int
	Dir   Direction
}

func (Tap) isCommand()   {}
func (Move) isCommand()  {}
func (Swipe) isCommand() {}

// Machine tracks one gesture at a time
type Machine struct {
	// Threshold is the distance a press must travel to become a drag
	Threshold int
	// SwipeDistance is the horizontal travel a swipe needs on release
	SwipeDistance int

	state  State
	axis   Axis
	index  int
	origin Pos
	last   Pos
}

// New creates an idle Machine
func New(threshold, swipeDistance int) *Machine {
	return &Machine{Threshold: threshold, SwipeDistance: swipeDistance}
}

// State returns the current state
func (m *Machine) State() State { return m.state }

// Index returns the item the current gesture started on
func (m *Machine) Index() int { return m.index }

// Axis returns the locked axis while dragging
func (m *Machine) Axis() Axis { return m.axis }

// Offset returns the travel since the press
func (m *Machine) Offset() Pos {
	return Pos{X: m.last.X - m.origin.X, Y: m.last.Y - m.origin.Y}
}

// Press starts a gesture on index. A press while a gesture is in
// progress restarts it.
func (m *Machine) Press(index int, at Pos) {
	m.state = Pressed
	m.index = index
	m.origin = at
	m.last = at
}

// Move updates the pointer position, promoting Pressed to Dragging once
// travel exceeds the threshold. The dominant axis at that moment is locked.
func (m *Machine) Move(at Pos) {
	if m.state == Idle {
		return
	}
	m.last = at
	if m.state != Pressed {
		return
	}
	dx, dy := abs(at.X-m.origin.X), abs(at.Y-m.origin.Y)
	if dx <= m.Threshold && dy <= m.Threshold {
		return
	}
	m.state = Dragging
	if dx > dy {
		m.axis = Horizontal
	} else {
		m.axis = Vertical
	}
}

// Release ends the gesture. target is the index the item was dropped on,
// used for vertical drags. It returns nil when the gesture produced nothing.
func (m *Machine) Release(target int) Command {
	defer m.Cancel()
	switch m.state {
	case Pressed:
		return Tap{Index: m.index}
	case Dragging:
		if m.axis == Vertical {
			if target == m.index {
				return nil
			}
			return Move{From: m.index, To: target}
		}
		dx := m.last.X - m.origin.X
		if abs(dx) < m.SwipeDistance {
			return nil
		}
		dir := Left
		if dx > 0 {
			dir = Right
		}
		return Swipe{Index: m.index, Dir: dir}
	}
	return nil
}

// Cancel abandons any gesture in progress
func (m *Machine) Cancel() {
	m.state = Idle
	m.axis = Vertical
	m.index = -1
	m.origin = Pos{}
	m.last = Pos{}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
