package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"taskcli/internal/logging"
)

// maxIDAttempts bounds id regeneration when generated ids keep colliding.
const maxIDAttempts = 100

// ErrIDExhausted is returned by Add when no unused id could be generated.
var ErrIDExhausted = errors.New("could not generate a unique task id")

// Store persists the whole task collection as one unit.
// Every operation is a full Load, an in-memory change and a full Save.
type Store interface {
	// Load reads the entire collection in stored order.
	// Fails with *StoreReadError.
	Load(ctx context.Context) ([]Task, error)

	// Save replaces the persisted collection with tasks.
	// Fails with *StoreWriteError.
	Save(ctx context.Context, tasks []Task) error
}

// Service defines the task operations used by commands and the menu.
type Service interface {
	// Add creates a pending task with a fresh id.
	Add(ctx context.Context, description string) (Task, error)

	// List returns every task in stored order.
	List(ctx context.Context) ([]Task, error)

	// Update replaces the description of the task with the given id.
	Update(ctx context.Context, id, description string) (Task, error)

	// MarkStatus sets the status of the task with the given id.
	MarkStatus(ctx context.Context, id string, status Status) (Task, error)

	// Delete removes the task with the given id and returns it.
	Delete(ctx context.Context, id string) (Task, error)

	// DeleteAll empties the collection and returns how many tasks were removed.
	DeleteAll(ctx context.Context) (int, error)
}

// Option configures Tasks.
type Option func(*Tasks)

// WithClock sets the time source used for timestamps.
func WithClock(now func() time.Time) Option {
	return func(t *Tasks) { t.now = now }
}

// WithIDGenerator sets the id source used by Add.
func WithIDGenerator(newID func() string) Option {
	return func(t *Tasks) { t.newID = newID }
}

// WithLogger sets the logger for mutation events.
func WithLogger(logger *log.Logger) Option {
	return func(t *Tasks) { t.logger = logger }
}

// Tasks implements Service on top of a Store.
type Tasks struct {
	store  Store
	now    func() time.Time
	newID  func() string
	logger *log.Logger
}

// New creates a Tasks service backed by store.
func New(store Store, opts ...Option) *Tasks {
	t := &Tasks{
		store:  store,
		now:    func() time.Time { return time.Now().UTC() },
		newID:  NewID,
		logger: logging.Discard(),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Add implements Service.
func (s *Tasks) Add(ctx context.Context, description string) (Task, error) {
	description = strings.TrimSpace(description)
	if description == "" {
		return Task{}, &ValidationError{Field: "description"}
	}

	tasks, err := s.store.Load(ctx)
	if err != nil {
		return Task{}, err
	}

	id, err := s.uniqueID(tasks)
	if err != nil {
		return Task{}, err
	}

	now := s.now()
	task := Task{
		ID:          id,
		Description: description,
		Status:      StatusPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	tasks = append(tasks, task)

	if err := s.store.Save(ctx, tasks); err != nil {
		return Task{}, err
	}
	s.logger.Debug("task added", "id", task.ID)
	return task, nil
}

// List implements Service.
func (s *Tasks) List(ctx context.Context) ([]Task, error) {
	return s.store.Load(ctx)
}

// Update implements Service.
func (s *Tasks) Update(ctx context.Context, id, description string) (Task, error) {
	id = strings.TrimSpace(id)
	description = strings.TrimSpace(description)
	if id == "" {
		return Task{}, &ValidationError{Field: "id"}
	}
	if description == "" {
		return Task{}, &ValidationError{Field: "description"}
	}

	return s.mutate(ctx, id, func(t *Task) {
		t.Description = description
	})
}

// MarkStatus implements Service.
func (s *Tasks) MarkStatus(ctx context.Context, id string, status Status) (Task, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Task{}, &ValidationError{Field: "id"}
	}
	if !status.Valid() {
		return Task{}, &ValidationError{Field: "status"}
	}

	return s.mutate(ctx, id, func(t *Task) {
		t.Status = status
	})
}

// Delete implements Service.
func (s *Tasks) Delete(ctx context.Context, id string) (Task, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Task{}, &ValidationError{Field: "id"}
	}

	tasks, err := s.store.Load(ctx)
	if err != nil {
		return Task{}, err
	}

	idx := indexOf(tasks, id)
	if idx < 0 {
		return Task{}, &NotFoundError{ID: id}
	}
	removed := tasks[idx]

	remaining := make([]Task, 0, len(tasks)-1)
	remaining = append(remaining, tasks[:idx]...)
	remaining = append(remaining, tasks[idx+1:]...)

	if err := s.store.Save(ctx, remaining); err != nil {
		return Task{}, err
	}
	s.logger.Debug("task deleted", "id", id)
	return removed, nil
}

// DeleteAll implements Service.
func (s *Tasks) DeleteAll(ctx context.Context) (int, error) {
	tasks, err := s.store.Load(ctx)
	if err != nil {
		return 0, err
	}
	if err := s.store.Save(ctx, []Task{}); err != nil {
		return 0, err
	}
	s.logger.Debug("all tasks deleted", "count", len(tasks))
	return len(tasks), nil
}

// mutate loads the collection, applies fn to the task with the given id,
// refreshes UpdatedAt and saves. Nothing is written when the id is unknown.
func (s *Tasks) mutate(ctx context.Context, id string, fn func(*Task)) (Task, error) {
	tasks, err := s.store.Load(ctx)
	if err != nil {
		return Task{}, err
	}

	idx := indexOf(tasks, id)
	if idx < 0 {
		return Task{}, &NotFoundError{ID: id}
	}

	task := &tasks[idx]
	fn(task)
	if now := s.now(); now.After(task.UpdatedAt) {
		task.UpdatedAt = now
	}

	if err := s.store.Save(ctx, tasks); err != nil {
		return Task{}, err
	}
	s.logger.Debug("task updated", "id", id, "status", task.Status)
	return *task, nil
}

// uniqueID draws ids until one is unused in tasks.
func (s *Tasks) uniqueID(tasks []Task) (string, error) {
	used := make(map[string]struct{}, len(tasks))
	for _, t := range tasks {
		used[t.ID] = struct{}{}
	}
	for attempt := 0; attempt < maxIDAttempts; attempt++ {
		id := s.newID()
		if id == "" {
			continue
		}
		if _, taken := used[id]; !taken {
			return id, nil
		}
		s.logger.Debug("task id collision", "id", id)
	}
	return "", ErrIDExhausted
}

// indexOf returns the position of the task with the given id, or -1.
// Ids are compared as exact strings.
func indexOf(tasks []Task, id string) int {
	for i, t := range tasks {
		if t.ID == id {
			return i
		}
	}
	return -1
}
