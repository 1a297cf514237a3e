// Package catalog holds the user's projects and the tasks they own.
package catalog

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/tgienger/pomo/internal/logging"
	"github.com/tgienger/pomo/internal/models"
	"github.com/tgienger/pomo/internal/store"
)

var (
	ErrNotFound          = errors.New("catalog: not found")
	ErrEmptyName         = errors.New("catalog: name is empty")
	// ErrInvalidRecurrence rejects an unknown recurrence or a weekday outside 0..6
	ErrInvalidRecurrence = errors.New("catalog: invalid recurrence")
)

// Catalog persists projects and tasks as two independent records
type Catalog struct {
	kv     store.KV
	logger *logging.Logger
}

// New creates a Catalog over kv
func New(kv store.KV, logger *logging.Logger) *Catalog {
	return &Catalog{kv: kv, logger: logger.With("component", "catalog")}
}

// ListProjects returns all projects in creation order
func (c *Catalog) ListProjects() []models.Project {
	var projects []models.Project
	if err := store.Read(c.kv, store.KeyProjects, &projects); err != nil {
		c.logger.Warn("projects unreadable, treating as empty", "error", err)
		return nil
	}
	return projects
}

// GetProject retrieves a project by ID
func (c *Catalog) GetProject(id string) (models.Project, error) {
	for _, p := range c.ListProjects() {
		if p.ID == id {
			return p, nil
		}
	}
	return models.Project{}, fmt.Errorf("project %s: %w", id, ErrNotFound)
}

// CreateProject creates a new project with the next free palette color
func (c *Catalog) CreateProject(name string) (models.Project, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return models.Project{}, ErrEmptyName
	}
	projects := c.ListProjects()
	p := models.Project{
		ID:    uuid.NewString(),
		Name:  name,
		Color: nextColor(projects),
	}
	if err := store.Write(c.kv, store.KeyProjects, append(projects, p)); err != nil {
		return models.Project{}, err
	}
	c.logger.Debug("project created", "id", p.ID, "color", p.Color)
	return p, nil
}

// nextColor picks the first palette color no project uses yet,
// cycling through the palette once every color is taken.
func nextColor(projects []models.Project) string {
	used := make(map[string]bool, len(projects))
	for _, p := range projects {
		used[p.Color] = true
	}
	for _, color := range models.Palette {
		if !used[color] {
			return color
		}
	}
	return models.Palette[len(projects)%len(models.Palette)]
}

// DeleteProject deletes a project and all its tasks.
// It returns the IDs of the deleted tasks so callers can purge them elsewhere.
func (c *Catalog) DeleteProject(id string) ([]string, error) {
	projects := c.ListProjects()
	kept := projects[:0:0]
	found := false
	for _, p := range projects {
		if p.ID == id {
			found = true
			continue
		}
		kept = append(kept, p)
	}
	if !found {
		return nil, fmt.Errorf("project %s: %w", id, ErrNotFound)
	}

	var removed []string
	var tasks []models.Task
	for _, t := range c.ListTasks() {
		if t.ProjectID != nil && *t.ProjectID == id {
			removed = append(removed, t.ID)
			continue
		}
		tasks = append(tasks, t)
	}

	if err := store.Write(c.kv, store.KeyTasks, nonNil(tasks)); err != nil {
		return nil, err
	}
	if err := store.Write(c.kv, store.KeyProjects, kept); err != nil {
		return nil, err
	}
	c.logger.Debug("project deleted", "id", id, "tasks", len(removed))
	return removed, nil
}

// ListTasks returns all tasks in creation order
func (c *Catalog) ListTasks() []models.Task {
	var tasks []models.Task
	if err := store.Read(c.kv, store.KeyTasks, &tasks); err != nil {
		c.logger.Warn("tasks unreadable, treating as empty", "error", err)
		return nil
	}
	return tasks
}

// ListProjectTasks returns the tasks of one project; an empty projectID lists miscellaneous tasks
func (c *Catalog) ListProjectTasks(projectID string) []models.Task {
	var out []models.Task
	for _, t := range c.ListTasks() {
		switch {
		case projectID == "" && !t.HasProject():
			out = append(out, t)
		case t.HasProject() && *t.ProjectID == projectID:
			out = append(out, t)
		}
	}
	return out
}

// GetTask retrieves a task by ID
func (c *Catalog) GetTask(id string) (models.Task, error) {
	for _, t := range c.ListTasks() {
		if t.ID == id {
			return t, nil
		}
	}
	return models.Task{}, fmt.Errorf("task %s: %w", id, ErrNotFound)
}

// TaskSpec describes a task to create
type TaskSpec struct {
	ProjectID   string // empty for miscellaneous
	Name        string
	Description string
	Recurring   models.Recurrence
	RecurDay    int // weekday for weekly tasks, 0=Sunday
}

// CreateTask creates a new task
func (c *Catalog) CreateTask(spec TaskSpec) (models.Task, error) {
	name := strings.TrimSpace(spec.Name)
	if name == "" {
		return models.Task{}, ErrEmptyName
	}
	switch spec.Recurring {
	case models.RecurNone, models.RecurDaily:
	case models.RecurWeekly:
		if spec.RecurDay < 0 || spec.RecurDay > 6 {
			return models.Task{}, fmt.Errorf("%w: weekday %d", ErrInvalidRecurrence, spec.RecurDay)
		}
	default:
		return models.Task{}, fmt.Errorf("%w: %q", ErrInvalidRecurrence, spec.Recurring)
	}
	t := models.Task{
		ID:          uuid.NewString(),
		Name:        name,
		Description: strings.TrimSpace(spec.Description),
		Recurring:   spec.Recurring,
	}
	if spec.ProjectID != "" {
		if _, err := c.GetProject(spec.ProjectID); err != nil {
			return models.Task{}, err
		}
		pid := spec.ProjectID
		t.ProjectID = &pid
	}
	if spec.Recurring == models.RecurWeekly {
		day := spec.RecurDay
		t.RecurDay = &day
	}

	if err := store.Write(c.kv, store.KeyTasks, append(c.ListTasks(), t)); err != nil {
		return models.Task{}, err
	}
	c.logger.Debug("task created", "id", t.ID, "recurring", string(t.Recurring))
	return t, nil
}

// DeleteTask deletes a task
func (c *Catalog) DeleteTask(id string) error {
	tasks := c.ListTasks()
	kept := tasks[:0:0]
	for _, t := range tasks {
		if t.ID != id {
			kept = append(kept, t)
		}
	}
	if len(kept) == len(tasks) {
		return fmt.Errorf("task %s: %w", id, ErrNotFound)
	}
	return store.Write(c.kv, store.KeyTasks, nonNil(kept))
}

// Exists reports whether a task with id is still in the catalog
func (c *Catalog) Exists(id string) bool {
	_, err := c.GetTask(id)
	return err == nil
}

// TaskIndex returns a lookup of every task by ID
func (c *Catalog) TaskIndex() map[string]models.Task {
	tasks := c.ListTasks()
	idx := make(map[string]models.Task, len(tasks))
	for _, t := range tasks {
		idx[t.ID] = t
	}
	return idx
}

// ActivityName is the display string logged for a session on task id:
// "<project> — <task>", or just the task name without a project.
func (c *Catalog) ActivityName(id string) (string, bool) {
	t, err := c.GetTask(id)
	if err != nil {
		return "", false
	}
	if t.HasProject() {
		if p, err := c.GetProject(*t.ProjectID); err == nil {
			return p.Name + " — " + t.Name, true
		}
	}
	return t.Name, true
}

func nonNil(tasks []models.Task) []models.Task {
	if tasks == nil {
		return []models.Task{}
	}
	return tasks
}
