package models

// Recurrence controls automatic scheduling of a task
type Recurrence string

const (
	RecurNone   Recurrence = ""
	RecurDaily  Recurrence = "daily"
	RecurWeekly Recurrence = "weekly"
)

// Palette is the fixed set of project colors, assigned in order
var Palette = []string{
	"#f7768e",
	"#7aa2f7",
	"#9ece6a",
	"#e0af68",
	"#bb9af7",
	"#7dcfff",
	"#ff9e64",
	"#73daca",
}

// Project groups tasks
type Project struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
}

// Task is something the user works on in pomodoro sessions.
// An empty ProjectID means the task is miscellaneous.
type Task struct {
	ID          string     `json:"id"`
	ProjectID   *string    `json:"projectId"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Recurring   Recurrence `json:"recurring,omitempty"`
	RecurDay    *int       `json:"recurDay,omitempty"` // 0=Sunday, set for weekly tasks
}

// HasProject reports whether the task belongs to a project
func (t Task) HasProject() bool {
	return t.ProjectID != nil && *t.ProjectID != ""
}

// Session is one completed work session in the log
type Session struct {
	Activity  string `json:"activity"`
	Duration  int    `json:"duration"` // minutes
	Date      string `json:"date"`
	Timestamp int64  `json:"timestamp"` // epoch ms
}

// DateLayout is the calendar date format used for every date key
const DateLayout = "2006-01-02"
